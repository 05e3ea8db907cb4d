package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/shopspring/decimal"
)

// ProductInput is the admin form payload for creating/updating a product.
type ProductInput struct {
	Name            string          `json:"name"`
	Price           decimal.Decimal `json:"price"`
	OnOffer         bool            `json:"on_offer"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	OptionGroupIDs  []string        `json:"option_group_ids,omitempty"`
}

// ComboInput is the admin form payload for creating/updating a combo.
type ComboInput struct {
	Title           string          `json:"title"`
	ComboPrice      decimal.Decimal `json:"combo_price"`
	Offer           bool            `json:"offer"`
	DiscountPercent decimal.Decimal `json:"discount"`
	ProductIDs      []string        `json:"product_ids,omitempty"`
}

// OptionGroupInput is the admin form payload for option-group CRUD.
type OptionGroupInput struct {
	Name          string                `json:"name"`
	SelectionMode string                `json:"selection_mode"`
	Options       []OptionChoicePayload `json:"options"`
}

// CreateProduct registers a new product and returns its wire shape.
func (c *Client) CreateProduct(ctx context.Context, input ProductInput) (*ProductPayload, error) {
	var created ProductPayload
	if err := c.do(ctx, "create_product", http.MethodPost, "/v1/admin/products", input, &created, nil); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateProduct replaces the product's editable fields.
func (c *Client) UpdateProduct(ctx context.Context, id string, input ProductInput) (*ProductPayload, error) {
	var updated ProductPayload
	path := fmt.Sprintf("/v1/admin/products/%s", url.PathEscape(id))
	if err := c.do(ctx, "update_product", http.MethodPut, path, input, &updated, nil); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteProduct removes the product from the catalog.
func (c *Client) DeleteProduct(ctx context.Context, id string) error {
	path := fmt.Sprintf("/v1/admin/products/%s", url.PathEscape(id))
	return c.do(ctx, "delete_product", http.MethodDelete, path, nil, nil, nil)
}

// CreateCombo registers a new combo.
func (c *Client) CreateCombo(ctx context.Context, input ComboInput) (*ComboPayload, error) {
	var created ComboPayload
	if err := c.do(ctx, "create_combo", http.MethodPost, "/v1/admin/combos", input, &created, nil); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateCombo replaces the combo's editable fields.
func (c *Client) UpdateCombo(ctx context.Context, id string, input ComboInput) (*ComboPayload, error) {
	var updated ComboPayload
	path := fmt.Sprintf("/v1/admin/combos/%s", url.PathEscape(id))
	if err := c.do(ctx, "update_combo", http.MethodPut, path, input, &updated, nil); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeactivateCombo hides the combo without deleting its order history.
func (c *Client) DeactivateCombo(ctx context.Context, id string) error {
	path := fmt.Sprintf("/v1/admin/combos/%s/deactivate", url.PathEscape(id))
	return c.do(ctx, "deactivate_combo", http.MethodPost, path, nil, nil, nil)
}

// ListOptionGroups returns all option groups.
func (c *Client) ListOptionGroups(ctx context.Context) ([]OptionGroupPayload, error) {
	var groups []OptionGroupPayload
	if err := c.do(ctx, "list_option_groups", http.MethodGet, "/v1/admin/option-groups", nil, &groups, nil); err != nil {
		return nil, err
	}
	return groups, nil
}

// CreateOptionGroup registers a new option group.
func (c *Client) CreateOptionGroup(ctx context.Context, input OptionGroupInput) (*OptionGroupPayload, error) {
	var created OptionGroupPayload
	if err := c.do(ctx, "create_option_group", http.MethodPost, "/v1/admin/option-groups", input, &created, nil); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateOptionGroup replaces the option group's editable fields.
func (c *Client) UpdateOptionGroup(ctx context.Context, id string, input OptionGroupInput) (*OptionGroupPayload, error) {
	var updated OptionGroupPayload
	path := fmt.Sprintf("/v1/admin/option-groups/%s", url.PathEscape(id))
	if err := c.do(ctx, "update_option_group", http.MethodPut, path, input, &updated, nil); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteOptionGroup removes the option group.
func (c *Client) DeleteOptionGroup(ctx context.Context, id string) error {
	path := fmt.Sprintf("/v1/admin/option-groups/%s", url.PathEscape(id))
	return c.do(ctx, "delete_option_group", http.MethodDelete, path, nil, nil, nil)
}
