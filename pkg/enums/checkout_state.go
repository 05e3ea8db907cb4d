package enums

// CheckoutState is the phase of a session's checkout flow. Transitions are
// guarded by the orchestrator; no other code may move between states.
type CheckoutState string

const (
	CheckoutStateIdle                        CheckoutState = "idle"
	CheckoutStateAddressPending              CheckoutState = "address_pending"
	CheckoutStateFeeCalculating              CheckoutState = "fee_calculating"
	CheckoutStateReadyToPay                  CheckoutState = "ready_to_pay"
	CheckoutStatePaymentIntentRequested      CheckoutState = "payment_intent_requested"
	CheckoutStatePaymentAwaitingConfirmation CheckoutState = "payment_awaiting_confirmation"
	CheckoutStateCompleted                   CheckoutState = "completed"
)

// String implements fmt.Stringer.
func (s CheckoutState) String() string {
	return string(s)
}
