package backend

import (
	"context"
	"net/http"

	"github.com/cafesol/cafeapp/pkg/enums"
	"github.com/cafesol/cafeapp/pkg/types"
	"github.com/shopspring/decimal"
)

// OrderLine is one cart line as submitted to the kitchen workflow.
type OrderLine struct {
	CatalogItemID string          `json:"catalog_item_id"`
	Name          string          `json:"name"`
	Quantity      int             `json:"quantity"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	OptionIDs     []string        `json:"option_ids,omitempty"`
}

// OrderPayload is the order submission body.
type OrderPayload struct {
	Lines           []OrderLine          `json:"lines"`
	Total           decimal.Decimal      `json:"total"`
	DeliveryMethod  enums.DeliveryMethod `json:"delivery_method"`
	Address         *types.Address       `json:"address,omitempty"`
	DeliveryFee     decimal.Decimal      `json:"delivery_fee"`
	PaymentIntentID string               `json:"payment_intent_id"`
	Reference       string               `json:"reference,omitempty"`
}

type orderResponse struct {
	OrderID string `json:"order_id"`
}

// SubmitOrder submits the paid order. Callers must guarantee at most one
// submission per confirmed payment; the API treats repeats as new orders.
func (c *Client) SubmitOrder(ctx context.Context, payload OrderPayload) (string, error) {
	var resp orderResponse
	if err := c.do(ctx, "submit_order", http.MethodPost, "/v1/orders", payload, &resp, nil); err != nil {
		return "", err
	}
	return resp.OrderID, nil
}

type saveAddressRequest struct {
	Address types.Address `json:"address"`
}

// SaveAddress stores the customer's address for reuse. Best effort; the
// checkout flow logs failures and moves on.
func (c *Client) SaveAddress(ctx context.Context, addr types.Address) error {
	return c.do(ctx, "save_address", http.MethodPost, "/v1/addresses", saveAddressRequest{Address: addr}, nil, nil)
}
