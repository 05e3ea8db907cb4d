package backend

import (
	"context"
	"net/http"

	pkgerrors "github.com/cafesol/cafeapp/pkg/errors"
	"github.com/cafesol/cafeapp/pkg/types"
	"github.com/shopspring/decimal"
)

type feeQuoteRequest struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type feeQuoteResponse struct {
	Fee decimal.Decimal `json:"fee"`
}

// QuoteDeliveryFee asks the cafe API for the delivery surcharge to the given
// coordinates. An unreachable destination comes back as ADDRESS_UNRESOLVABLE.
func (c *Client) QuoteDeliveryFee(ctx context.Context, coords types.Coordinates) (decimal.Decimal, error) {
	req := feeQuoteRequest{Lat: coords.Lat, Lng: coords.Lng}
	var resp feeQuoteResponse
	statusMap := map[int]pkgerrors.Code{
		http.StatusUnprocessableEntity: pkgerrors.CodeAddressUnresolvable,
		http.StatusNotFound:            pkgerrors.CodeAddressUnresolvable,
	}
	if err := c.do(ctx, "quote_delivery_fee", http.MethodPost, "/v1/delivery/quote", req, &resp, statusMap); err != nil {
		return decimal.Zero, err
	}
	return resp.Fee, nil
}
