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

type comboAPI interface {
	ListCatalog(ctx context.Context) (*backend.CatalogPayload, error)
	CreateCombo(ctx context.Context, input backend.ComboInput) (*backend.ComboPayload, error)
	UpdateCombo(ctx context.Context, id string, input backend.ComboInput) (*backend.ComboPayload, error)
	DeactivateCombo(ctx context.Context, id string) error
}

// ComboEditor performs combo CRUD with the same optimistic-list policy as
// the product editor. Combos are never deleted, only deactivated, so order
// history keeps resolving.
type ComboEditor struct {
	api  comboAPI
	logg *logger.Logger

	mu     sync.Mutex
	combos []backend.ComboPayload
}

// NewComboEditor builds the combo editor.
func NewComboEditor(api comboAPI, logg *logger.Logger) (*ComboEditor, error) {
	if api == nil {
		return nil, fmt.Errorf("combo api required")
	}
	return &ComboEditor{api: api, logg: logg}, nil
}

// List returns a copy of the local combo list.
func (e *ComboEditor) List() []backend.ComboPayload {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]backend.ComboPayload(nil), e.combos...)
}

// Refresh replaces the local list from the cafe API.
func (e *ComboEditor) Refresh(ctx context.Context) error {
	payload, err := e.api.ListCatalog(ctx)
	if err != nil {
		return err
	}
	e.mu.Lock()
	e.combos = payload.Combos
	e.mu.Unlock()
	return nil
}

// Create validates the form, creates the combo, and applies it locally.
func (e *ComboEditor) Create(ctx context.Context, input backend.ComboInput) (*backend.ComboPayload, error) {
	if err := validateComboInput(input); err != nil {
		return nil, err
	}
	created, err := e.api.CreateCombo(ctx, input)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	e.combos = append(e.combos, *created)
	e.mu.Unlock()

	e.refreshBestEffort(ctx)
	return created, nil
}

// Update validates the form, updates the combo, and replaces it locally.
func (e *ComboEditor) Update(ctx context.Context, id string, input backend.ComboInput) (*backend.ComboPayload, error) {
	if strings.TrimSpace(id) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "combo id required")
	}
	if err := validateComboInput(input); err != nil {
		return nil, err
	}
	updated, err := e.api.UpdateCombo(ctx, id, input)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	for i := range e.combos {
		if e.combos[i].ID == id {
			e.combos[i] = *updated
			break
		}
	}
	e.mu.Unlock()

	e.refreshBestEffort(ctx)
	return updated, nil
}

// Deactivate hides the combo and marks it inactive locally.
func (e *ComboEditor) Deactivate(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "combo id required")
	}
	if err := e.api.DeactivateCombo(ctx, id); err != nil {
		return err
	}

	e.mu.Lock()
	for i := range e.combos {
		if e.combos[i].ID == id {
			e.combos[i].Active = false
			break
		}
	}
	e.mu.Unlock()

	e.refreshBestEffort(ctx)
	return nil
}

func (e *ComboEditor) refreshBestEffort(ctx context.Context) {
	if err := e.Refresh(ctx); err != nil && e.logg != nil {
		e.logg.Warn(e.logg.WithField(ctx, "error", err.Error()), "combo list refresh failed, keeping optimistic list")
	}
}

func validateComboInput(input backend.ComboInput) error {
	details := map[string]string{}
	if strings.TrimSpace(input.Title) == "" {
		details["title"] = "is required"
	}
	if input.ComboPrice.IsNegative() {
		details["combo_price"] = "must not be negative"
	}
	if input.DiscountPercent.IsNegative() || input.DiscountPercent.GreaterThan(decimal.NewFromInt(100)) {
		details["discount"] = "must be between 0 and 100"
	}
	if len(input.ProductIDs) == 0 {
		details["product_ids"] = "at least one product required"
	}
	if len(details) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid combo form").WithDetails(details)
	}
	return nil
}
