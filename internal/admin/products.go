package admin

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/cafesol/cafeapp/pkg/backend"
	pkgerrors "github.com/cafesol/cafeapp/pkg/errors"
	"github.com/cafesol/cafeapp/pkg/logger"
	"github.com/shopspring/decimal"
)

type productAPI interface {
	ListCatalog(ctx context.Context) (*backend.CatalogPayload, error)
	CreateProduct(ctx context.Context, input backend.ProductInput) (*backend.ProductPayload, error)
	UpdateProduct(ctx context.Context, id string, input backend.ProductInput) (*backend.ProductPayload, error)
	DeleteProduct(ctx context.Context, id string) error
}

// ProductEditor performs product CRUD against the cafe API while keeping an
// optimistic local list. Each mutation is one independent round trip; the
// list refresh afterwards is best effort and the optimistic copy stands if
// it fails.
type ProductEditor struct {
	api  productAPI
	logg *logger.Logger

	mu       sync.Mutex
	products []backend.ProductPayload
}

// NewProductEditor builds the product editor.
func NewProductEditor(api productAPI, logg *logger.Logger) (*ProductEditor, error) {
	if api == nil {
		return nil, fmt.Errorf("product api required")
	}
	return &ProductEditor{api: api, logg: logg}, nil
}

// List returns a copy of the local product list.
func (e *ProductEditor) List() []backend.ProductPayload {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]backend.ProductPayload(nil), e.products...)
}

// Refresh replaces the local list from the cafe API.
func (e *ProductEditor) Refresh(ctx context.Context) error {
	payload, err := e.api.ListCatalog(ctx)
	if err != nil {
		return err
	}
	e.mu.Lock()
	e.products = payload.Products
	e.mu.Unlock()
	return nil
}

// Create validates the form, creates the product, and applies it to the
// local list.
func (e *ProductEditor) Create(ctx context.Context, input backend.ProductInput) (*backend.ProductPayload, error) {
	if err := validateProductInput(input); err != nil {
		return nil, err
	}
	created, err := e.api.CreateProduct(ctx, input)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	e.products = append(e.products, *created)
	e.mu.Unlock()

	e.refreshBestEffort(ctx)
	return created, nil
}

// Update validates the form, updates the product, and replaces it in the
// local list.
func (e *ProductEditor) Update(ctx context.Context, id string, input backend.ProductInput) (*backend.ProductPayload, error) {
	if strings.TrimSpace(id) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}
	if err := validateProductInput(input); err != nil {
		return nil, err
	}
	updated, err := e.api.UpdateProduct(ctx, id, input)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	for i := range e.products {
		if e.products[i].ID == id {
			e.products[i] = *updated
			break
		}
	}
	e.mu.Unlock()

	e.refreshBestEffort(ctx)
	return updated, nil
}

// Delete removes the product remotely and from the local list.
func (e *ProductEditor) Delete(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}
	if err := e.api.DeleteProduct(ctx, id); err != nil {
		return err
	}

	e.mu.Lock()
	for i := range e.products {
		if e.products[i].ID == id {
			e.products = append(e.products[:i], e.products[i+1:]...)
			break
		}
	}
	e.mu.Unlock()

	e.refreshBestEffort(ctx)
	return nil
}

func (e *ProductEditor) refreshBestEffort(ctx context.Context) {
	if err := e.Refresh(ctx); err != nil && e.logg != nil {
		e.logg.Warn(e.logg.WithField(ctx, "error", err.Error()), "product list refresh failed, keeping optimistic list")
	}
}

// validateProductInput rejects anything the pricing rules would otherwise
// accept un-clamped: this is the gate that keeps discounts inside [0,100].
func validateProductInput(input backend.ProductInput) error {
	details := map[string]string{}
	if strings.TrimSpace(input.Name) == "" {
		details["name"] = "is required"
	}
	if input.Price.IsNegative() {
		details["price"] = "must not be negative"
	}
	if input.DiscountPercent.IsNegative() || input.DiscountPercent.GreaterThan(decimal.NewFromInt(100)) {
		details["discount_percent"] = "must be between 0 and 100"
	}
	if len(details) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid product form").WithDetails(details)
	}
	return nil
}
