package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/cafesol/cafeapp/pkg/backend"
	"github.com/cafesol/cafeapp/pkg/enums"
	pkgerrors "github.com/cafesol/cafeapp/pkg/errors"
	"github.com/shopspring/decimal"
)

type stubLister struct {
	payload *backend.CatalogPayload
	err     error
}

func (s *stubLister) ListCatalog(ctx context.Context) (*backend.CatalogPayload, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.payload, nil
}

func dec(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

func decPtr(value string) *decimal.Decimal {
	d := dec(value)
	return &d
}

func boolPtr(v bool) *bool {
	return &v
}

func TestLoadNormalizesProductsAndCombos(t *testing.T) {
	t.Parallel()

	lister := &stubLister{payload: &backend.CatalogPayload{
		Products: []backend.ProductPayload{
			{
				ID:              "espresso",
				Name:            "Espresso",
				Price:           decPtr("1.80"),
				OnOffer:         boolPtr(true),
				DiscountPercent: dec("10"),
				Active:          true,
			},
			{ID: "hidden", Name: "Hidden", Price: decPtr("1.00"), Active: false},
		},
		Combos: []backend.ComboPayload{
			{
				ID:         "breakfast",
				Title:      "Breakfast Deal",
				ComboPrice: dec("5.50"),
				Offer:      true,
				Active:     true,
			},
		},
	}}

	loader, err := NewLoader(lister, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	items, err := loader.Load(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0].Kind != enums.ItemKindProduct || items[0].ID != "espresso" {
		t.Fatalf("expected product first, got %+v", items[0])
	}
	if items[1].Kind != enums.ItemKindCombo || items[1].DisplayName != "Breakfast Deal" {
		t.Fatalf("expected combo second, got %+v", items[1])
	}
	if !items[1].BasePrice.Equal(dec("5.50")) {
		t.Fatalf("expected combo price mapped to base price, got %s", items[1].BasePrice)
	}
}

func TestLoadResolvesLegacyPriceFields(t *testing.T) {
	t.Parallel()

	lister := &stubLister{payload: &backend.CatalogPayload{
		Products: []backend.ProductPayload{
			{
				ID:              "latte",
				Name:            "Latte",
				LegacyUnitPrice: decPtr("2.90"),
				LegacyPromo:     boolPtr(true),
				DiscountPercent: dec("5"),
				Active:          true,
			},
		},
	}}

	loader, _ := NewLoader(lister, nil)
	items, err := loader.Load(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	if !items[0].BasePrice.Equal(dec("2.90")) || !items[0].OnOffer {
		t.Fatalf("legacy fields not resolved: %+v", items[0])
	}
}

func TestLoadDropsUnmappableRecords(t *testing.T) {
	t.Parallel()

	lister := &stubLister{payload: &backend.CatalogPayload{
		Products: []backend.ProductPayload{
			{ID: "broken", Name: "No Price", Active: true},
			{ID: "fine", Name: "Fine", Price: decPtr("2.00"), Active: true},
		},
	}}

	loader, _ := NewLoader(lister, nil)
	items, err := loader.Load(context.Background())
	if err != nil {
		t.Fatalf("one bad record must not fail the listing: %v", err)
	}
	if len(items) != 1 || items[0].ID != "fine" {
		t.Fatalf("expected only the good record, got %+v", items)
	}
}

func TestFindReturnsNotFound(t *testing.T) {
	t.Parallel()

	lister := &stubLister{payload: &backend.CatalogPayload{}}
	loader, _ := NewLoader(lister, nil)

	_, err := loader.Find(context.Background(), "missing")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}

func TestLoadPropagatesAPIError(t *testing.T) {
	t.Parallel()

	lister := &stubLister{err: errors.New("boom")}
	loader, _ := NewLoader(lister, nil)

	if _, err := loader.Load(context.Background()); err == nil {
		t.Fatal("expected error from API failure")
	}
}
