package backend

import (
	"context"
	"net/http"

	pkgerrors "github.com/cafesol/cafeapp/pkg/errors"
	"github.com/shopspring/decimal"
)

type paymentIntentRequest struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
}

// PaymentIntent is the backend-issued handle for one payment attempt. The
// client secret hands control to the hosted payment element.
type PaymentIntent struct {
	ID           string `json:"id"`
	ClientSecret string `json:"client_secret"`
}

// CreatePaymentIntent requests a one-shot payment handle for the amount owed.
func (c *Client) CreatePaymentIntent(ctx context.Context, amount decimal.Decimal) (*PaymentIntent, error) {
	req := paymentIntentRequest{Amount: amount, Currency: "EUR"}
	var intent PaymentIntent
	statusMap := map[int]pkgerrors.Code{
		http.StatusPaymentRequired:     pkgerrors.CodePaymentDeclined,
		http.StatusUnprocessableEntity: pkgerrors.CodePaymentDeclined,
	}
	if err := c.do(ctx, "create_payment_intent", http.MethodPost, "/v1/payments/intents", req, &intent, statusMap); err != nil {
		return nil, err
	}
	return &intent, nil
}
