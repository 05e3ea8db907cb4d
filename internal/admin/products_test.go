package admin

import (
	"context"
	"errors"
	"testing"

	"github.com/cafesol/cafeapp/pkg/backend"
	pkgerrors "github.com/cafesol/cafeapp/pkg/errors"
	"github.com/shopspring/decimal"
)

type stubProductAPI struct {
	catalog    *backend.CatalogPayload
	catalogErr error
	created    *backend.ProductPayload
	createErr  error
	updated    *backend.ProductPayload
	updateErr  error
	deleteErr  error

	createCalls int
	listCalls   int
}

func (s *stubProductAPI) ListCatalog(ctx context.Context) (*backend.CatalogPayload, error) {
	s.listCalls++
	if s.catalogErr != nil {
		return nil, s.catalogErr
	}
	if s.catalog == nil {
		return &backend.CatalogPayload{}, nil
	}
	return s.catalog, nil
}

func (s *stubProductAPI) CreateProduct(ctx context.Context, input backend.ProductInput) (*backend.ProductPayload, error) {
	s.createCalls++
	return s.created, s.createErr
}

func (s *stubProductAPI) UpdateProduct(ctx context.Context, id string, input backend.ProductInput) (*backend.ProductPayload, error) {
	return s.updated, s.updateErr
}

func (s *stubProductAPI) DeleteProduct(ctx context.Context, id string) error {
	return s.deleteErr
}

func validProductInput() backend.ProductInput {
	return backend.ProductInput{
		Name:            "Espresso",
		Price:           decimal.RequireFromString("1.80"),
		OnOffer:         true,
		DiscountPercent: decimal.RequireFromString("10"),
	}
}

func TestProductCreateValidationStopsBeforeAPI(t *testing.T) {
	t.Parallel()

	api := &stubProductAPI{}
	editor, err := NewProductEditor(api, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cases := []struct {
		name  string
		input backend.ProductInput
	}{
		{name: "missing name", input: backend.ProductInput{Price: decimal.NewFromInt(1)}},
		{name: "negative price", input: backend.ProductInput{Name: "X", Price: decimal.NewFromInt(-1)}},
		{name: "discount above 100", input: backend.ProductInput{Name: "X", Price: decimal.NewFromInt(1), DiscountPercent: decimal.NewFromInt(150)}},
		{name: "negative discount", input: backend.ProductInput{Name: "X", Price: decimal.NewFromInt(1), DiscountPercent: decimal.NewFromInt(-1)}},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			_, err := editor.Create(context.Background(), tc.input)
			typed := pkgerrors.As(err)
			if typed == nil || typed.Code() != pkgerrors.CodeValidation {
				t.Fatalf("expected VALIDATION_ERROR, got %v", err)
			}
		})
	}
	if api.createCalls != 0 {
		t.Fatalf("invalid forms must not reach the API, got %d calls", api.createCalls)
	}
}

func TestProductCreateAppliesOptimisticallyAndRefreshes(t *testing.T) {
	t.Parallel()

	created := &backend.ProductPayload{ID: "p1", Name: "Espresso"}
	api := &stubProductAPI{
		created: created,
		catalog: &backend.CatalogPayload{Products: []backend.ProductPayload{*created}},
	}
	editor, _ := NewProductEditor(api, nil)

	got, err := editor.Create(context.Background(), validProductInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != "p1" {
		t.Fatalf("unexpected created product: %+v", got)
	}
	if api.listCalls == 0 {
		t.Fatal("expected a refresh after create")
	}
	if list := editor.List(); len(list) != 1 || list[0].ID != "p1" {
		t.Fatalf("unexpected list: %+v", list)
	}
}

func TestProductCreateKeepsOptimisticListWhenRefreshFails(t *testing.T) {
	t.Parallel()

	created := &backend.ProductPayload{ID: "p1", Name: "Espresso"}
	api := &stubProductAPI{created: created, catalogErr: errors.New("boom")}
	editor, _ := NewProductEditor(api, nil)

	if _, err := editor.Create(context.Background(), validProductInput()); err != nil {
		t.Fatalf("refresh failure must not fail the create: %v", err)
	}
	if list := editor.List(); len(list) != 1 || list[0].ID != "p1" {
		t.Fatalf("expected optimistic list to stand, got %+v", list)
	}
}

func TestProductUpdateReplacesLocalEntry(t *testing.T) {
	t.Parallel()

	updated := &backend.ProductPayload{ID: "p1", Name: "Double Espresso"}
	api := &stubProductAPI{
		updated:    updated,
		catalogErr: errors.New("refresh down"),
	}
	editor, _ := NewProductEditor(api, nil)
	editor.products = []backend.ProductPayload{{ID: "p1", Name: "Espresso"}}

	got, err := editor.Update(context.Background(), "p1", validProductInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Name != "Double Espresso" {
		t.Fatalf("unexpected update result: %+v", got)
	}
	if list := editor.List(); list[0].Name != "Double Espresso" {
		t.Fatalf("local list not updated: %+v", list)
	}
}

func TestProductDeleteRemovesLocally(t *testing.T) {
	t.Parallel()

	api := &stubProductAPI{catalogErr: errors.New("refresh down")}
	editor, _ := NewProductEditor(api, nil)
	editor.products = []backend.ProductPayload{{ID: "p1"}, {ID: "p2"}}

	if err := editor.Delete(context.Background(), "p1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if list := editor.List(); len(list) != 1 || list[0].ID != "p2" {
		t.Fatalf("unexpected list after delete: %+v", list)
	}
}

func TestProductMutationErrorLeavesListAlone(t *testing.T) {
	t.Parallel()

	api := &stubProductAPI{createErr: pkgerrors.New(pkgerrors.CodeNetworkUnavailable, "down")}
	editor, _ := NewProductEditor(api, nil)

	_, err := editor.Create(context.Background(), validProductInput())
	assertAdminCode(t, err, pkgerrors.CodeNetworkUnavailable)
	if len(editor.List()) != 0 {
		t.Fatal("failed create must not touch the list")
	}
}

func assertAdminCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != code {
		t.Fatalf("expected %s, got %v", code, err)
	}
}
