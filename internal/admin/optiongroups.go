package admin

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/cafesol/cafeapp/pkg/backend"
	"github.com/cafesol/cafeapp/pkg/enums"
	pkgerrors "github.com/cafesol/cafeapp/pkg/errors"
	"github.com/cafesol/cafeapp/pkg/logger"
)

type optionGroupAPI interface {
	ListOptionGroups(ctx context.Context) ([]backend.OptionGroupPayload, error)
	CreateOptionGroup(ctx context.Context, input backend.OptionGroupInput) (*backend.OptionGroupPayload, error)
	UpdateOptionGroup(ctx context.Context, id string, input backend.OptionGroupInput) (*backend.OptionGroupPayload, error)
	DeleteOptionGroup(ctx context.Context, id string) error
}

// OptionGroupEditor performs option-group CRUD with the optimistic-list
// policy shared by the other editors.
type OptionGroupEditor struct {
	api  optionGroupAPI
	logg *logger.Logger

	mu     sync.Mutex
	groups []backend.OptionGroupPayload
}

// NewOptionGroupEditor builds the option-group editor.
func NewOptionGroupEditor(api optionGroupAPI, logg *logger.Logger) (*OptionGroupEditor, error) {
	if api == nil {
		return nil, fmt.Errorf("option group api required")
	}
	return &OptionGroupEditor{api: api, logg: logg}, nil
}

// List returns a copy of the local group list.
func (e *OptionGroupEditor) List() []backend.OptionGroupPayload {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]backend.OptionGroupPayload(nil), e.groups...)
}

// Refresh replaces the local list from the cafe API.
func (e *OptionGroupEditor) Refresh(ctx context.Context) error {
	groups, err := e.api.ListOptionGroups(ctx)
	if err != nil {
		return err
	}
	e.mu.Lock()
	e.groups = groups
	e.mu.Unlock()
	return nil
}

// Create validates the form, creates the group, and applies it locally.
func (e *OptionGroupEditor) Create(ctx context.Context, input backend.OptionGroupInput) (*backend.OptionGroupPayload, error) {
	if err := validateOptionGroupInput(input); err != nil {
		return nil, err
	}
	created, err := e.api.CreateOptionGroup(ctx, input)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	e.groups = append(e.groups, *created)
	e.mu.Unlock()

	e.refreshBestEffort(ctx)
	return created, nil
}

// Update validates the form, updates the group, and replaces it locally.
func (e *OptionGroupEditor) Update(ctx context.Context, id string, input backend.OptionGroupInput) (*backend.OptionGroupPayload, error) {
	if strings.TrimSpace(id) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "option group id required")
	}
	if err := validateOptionGroupInput(input); err != nil {
		return nil, err
	}
	updated, err := e.api.UpdateOptionGroup(ctx, id, input)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	for i := range e.groups {
		if e.groups[i].ID == id {
			e.groups[i] = *updated
			break
		}
	}
	e.mu.Unlock()

	e.refreshBestEffort(ctx)
	return updated, nil
}

// Delete removes the group remotely and locally.
func (e *OptionGroupEditor) Delete(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "option group id required")
	}
	if err := e.api.DeleteOptionGroup(ctx, id); err != nil {
		return err
	}

	e.mu.Lock()
	for i := range e.groups {
		if e.groups[i].ID == id {
			e.groups = append(e.groups[:i], e.groups[i+1:]...)
			break
		}
	}
	e.mu.Unlock()

	e.refreshBestEffort(ctx)
	return nil
}

func (e *OptionGroupEditor) refreshBestEffort(ctx context.Context) {
	if err := e.Refresh(ctx); err != nil && e.logg != nil {
		e.logg.Warn(e.logg.WithField(ctx, "error", err.Error()), "option group list refresh failed, keeping optimistic list")
	}
}

func validateOptionGroupInput(input backend.OptionGroupInput) error {
	details := map[string]string{}
	if strings.TrimSpace(input.Name) == "" {
		details["name"] = "is required"
	}
	if _, err := enums.ParseSelectionMode(input.SelectionMode); err != nil {
		details["selection_mode"] = "must be single or multiple"
	}
	if len(input.Options) == 0 {
		details["options"] = "at least one option required"
	}
	for i, option := range input.Options {
		if strings.TrimSpace(option.Name) == "" {
			details[fmt.Sprintf("options[%d].name", i)] = "is required"
		}
		if option.Surcharge.IsNegative() {
			details[fmt.Sprintf("options[%d].surcharge", i)] = "must not be negative"
		}
	}
	if len(details) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid option group form").WithDetails(details)
	}
	return nil
}
