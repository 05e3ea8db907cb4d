package backend

import (
	"context"
	"net/http"

	"github.com/shopspring/decimal"
)

// ProductPayload is the wire shape of a product as the cafe API returns it.
// Older API versions used unit_price/promo; the v2 fields win when present.
// Normalization into the display model happens once, in internal/catalog.
type ProductPayload struct {
	ID              string               `json:"id"`
	Name            string               `json:"name"`
	Price           *decimal.Decimal     `json:"price,omitempty"`
	LegacyUnitPrice *decimal.Decimal     `json:"unit_price,omitempty"`
	OnOffer         *bool                `json:"on_offer,omitempty"`
	LegacyPromo     *bool                `json:"promo,omitempty"`
	DiscountPercent decimal.Decimal      `json:"discount_percent"`
	Active          bool                 `json:"active"`
	OptionGroups    []OptionGroupPayload `json:"option_groups,omitempty"`
}

// ComboPayload is the wire shape of a combo. Field names differ from
// products on purpose; the API grew them separately.
type ComboPayload struct {
	ID              string               `json:"id"`
	Title           string               `json:"title"`
	ComboPrice      decimal.Decimal      `json:"combo_price"`
	Offer           bool                 `json:"offer"`
	DiscountPercent decimal.Decimal      `json:"discount"`
	Active          bool                 `json:"active"`
	OptionGroups    []OptionGroupPayload `json:"option_groups,omitempty"`
}

// OptionGroupPayload is a customization axis attached to one catalog entry.
type OptionGroupPayload struct {
	ID            string                `json:"id"`
	Name          string                `json:"name"`
	SelectionMode string                `json:"selection_mode"`
	Options       []OptionChoicePayload `json:"options"`
}

// OptionChoicePayload is one selectable value inside a group.
type OptionChoicePayload struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Surcharge decimal.Decimal `json:"surcharge"`
}

// CatalogPayload is the combined catalog listing.
type CatalogPayload struct {
	Products []ProductPayload `json:"products"`
	Combos   []ComboPayload   `json:"combos"`
}

// ListCatalog fetches the full product and combo listing.
func (c *Client) ListCatalog(ctx context.Context) (*CatalogPayload, error) {
	var payload CatalogPayload
	if err := c.do(ctx, "list_catalog", http.MethodGet, "/v1/catalog", nil, &payload, nil); err != nil {
		return nil, err
	}
	return &payload, nil
}
