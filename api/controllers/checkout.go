package controllers

import (
	"net/http"

	"github.com/cafesol/cafeapp/api/middleware"
	"github.com/cafesol/cafeapp/api/responses"
	"github.com/cafesol/cafeapp/api/validators"
	"github.com/cafesol/cafeapp/internal/checkout"
	"github.com/cafesol/cafeapp/internal/pricing"
	"github.com/cafesol/cafeapp/pkg/enums"
	pkgerrors "github.com/cafesol/cafeapp/pkg/errors"
	"github.com/cafesol/cafeapp/pkg/logger"
	"github.com/cafesol/cafeapp/pkg/types"
)

// CheckoutStatus reports the session's checkout phase and amounts.
func CheckoutStatus(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := middleware.SessionFromContext(r.Context())
		if sess == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "session context missing"))
			return
		}
		responses.WriteSuccess(w, newCheckoutStatusResponse(sess.Checkout.Status()))
	}
}

// CheckoutStart begins checkout with the chosen delivery method.
func CheckoutStart(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := middleware.SessionFromContext(r.Context())
		if sess == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "session context missing"))
			return
		}

		var payload startCheckoutRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		method, err := enums.ParseDeliveryMethod(payload.DeliveryMethod)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid delivery method"))
			return
		}

		if err := sess.Checkout.Start(method); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCheckoutStatusResponse(sess.Checkout.Status()))
	}
}

// CheckoutAddress confirms the delivery address and triggers the fee quote.
func CheckoutAddress(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := middleware.SessionFromContext(r.Context())
		if sess == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "session context missing"))
			return
		}

		var payload submitAddressRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := sess.Checkout.SubmitAddress(r.Context(), payload.Address, payload.SaveForLater); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCheckoutStatusResponse(sess.Checkout.Status()))
	}
}

// CheckoutPay requests a payment intent for the current total.
func CheckoutPay(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := middleware.SessionFromContext(r.Context())
		if sess == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "session context missing"))
			return
		}

		intent, err := sess.Checkout.RequestPayment(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, paymentIntentResponse{
			IntentID:     intent.ID,
			ClientSecret: intent.ClientSecret,
			Status:       newCheckoutStatusResponse(sess.Checkout.Status()),
		})
	}
}

// CheckoutConfirm finishes the flow with the payment element's outcome.
func CheckoutConfirm(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := middleware.SessionFromContext(r.Context())
		if sess == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "session context missing"))
			return
		}

		var payload confirmPaymentRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if payload.Succeeded == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "succeeded is required"))
			return
		}

		orderID, err := sess.Checkout.ConfirmPayment(r.Context(), *payload.Succeeded)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, confirmPaymentResponse{
			OrderID: orderID,
			Status:  newCheckoutStatusResponse(sess.Checkout.Status()),
		})
	}
}

// CheckoutReset abandons the checkout, leaving the cart intact.
func CheckoutReset(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := middleware.SessionFromContext(r.Context())
		if sess == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "session context missing"))
			return
		}

		if err := sess.Checkout.Reset(); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCheckoutStatusResponse(sess.Checkout.Status()))
	}
}

type startCheckoutRequest struct {
	DeliveryMethod string `json:"delivery_method" validate:"required"`
}

type submitAddressRequest struct {
	Address      types.Address `json:"address" validate:"required"`
	SaveForLater bool          `json:"save_for_later"`
}

type confirmPaymentRequest struct {
	Succeeded *bool `json:"succeeded"`
}

type checkoutStatusResponse struct {
	State          string         `json:"state"`
	DeliveryMethod string         `json:"delivery_method,omitempty"`
	Address        *types.Address `json:"address,omitempty"`
	DeliveryFee    string         `json:"delivery_fee"`
	Subtotal       string         `json:"subtotal"`
	Total          string         `json:"total"`
	OrderID        string         `json:"order_id,omitempty"`
}

type paymentIntentResponse struct {
	IntentID     string                 `json:"intent_id"`
	ClientSecret string                 `json:"client_secret"`
	Status       checkoutStatusResponse `json:"status"`
}

type confirmPaymentResponse struct {
	OrderID string                 `json:"order_id"`
	Status  checkoutStatusResponse `json:"status"`
}

func newCheckoutStatusResponse(status checkout.Status) checkoutStatusResponse {
	resp := checkoutStatusResponse{
		State:       status.State.String(),
		Address:     status.Address,
		DeliveryFee: pricing.DisplayAmount(status.DeliveryFee),
		Subtotal:    pricing.DisplayAmount(status.Subtotal),
		Total:       pricing.DisplayAmount(status.Total),
		OrderID:     status.OrderID,
	}
	if status.Method != "" {
		resp.DeliveryMethod = status.Method.String()
	}
	return resp
}
