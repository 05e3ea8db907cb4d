package enums

import "fmt"

// DeliveryMethod is how the customer receives the order.
type DeliveryMethod string

const (
	DeliveryMethodPickupCounter DeliveryMethod = "pickup_counter"
	DeliveryMethodDineIn        DeliveryMethod = "dine_in"
	DeliveryMethodHomeDelivery  DeliveryMethod = "home_delivery"
)

var validDeliveryMethods = []DeliveryMethod{
	DeliveryMethodPickupCounter,
	DeliveryMethodDineIn,
	DeliveryMethodHomeDelivery,
}

// String implements fmt.Stringer.
func (d DeliveryMethod) String() string {
	return string(d)
}

// IsValid reports whether the value is a known DeliveryMethod.
func (d DeliveryMethod) IsValid() bool {
	for _, candidate := range validDeliveryMethods {
		if candidate == d {
			return true
		}
	}
	return false
}

// RequiresAddress reports whether the method needs a confirmed address
// before payment.
func (d DeliveryMethod) RequiresAddress() bool {
	return d == DeliveryMethodHomeDelivery
}

// ParseDeliveryMethod converts raw input into a DeliveryMethod.
func ParseDeliveryMethod(value string) (DeliveryMethod, error) {
	for _, candidate := range validDeliveryMethods {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid delivery method %q", value)
}
