package cart

import (
	"testing"

	"github.com/cafesol/cafeapp/internal/catalog"
	pkgerrors "github.com/cafesol/cafeapp/pkg/errors"
	"github.com/shopspring/decimal"
)

func coffee() catalog.Item {
	return catalog.Item{
		ID:          "coffee",
		DisplayName: "Cafe con Leche",
		BasePrice:   decimal.RequireFromString("2.50"),
	}
}

func oatMilk() catalog.OptionChoice {
	return catalog.OptionChoice{ID: "oat", Name: "Oat Milk", Surcharge: decimal.RequireFromString("0.50")}
}

func TestAddItemMergesOptionlessReAdd(t *testing.T) {
	t.Parallel()

	store := NewStore()
	first := store.AddItem(coffee(), nil)
	second := store.AddItem(coffee(), nil)

	if first.LineID != second.LineID {
		t.Fatalf("expected re-add to merge into line %s, got %s", first.LineID, second.LineID)
	}
	snapshot := store.Snapshot()
	if len(snapshot.Lines) != 1 {
		t.Fatalf("expected one line, got %d", len(snapshot.Lines))
	}
	if snapshot.Lines[0].Quantity != 2 {
		t.Fatalf("expected quantity 2, got %d", snapshot.Lines[0].Quantity)
	}
}

func TestAddItemWithOptionsCreatesDistinctLine(t *testing.T) {
	t.Parallel()

	store := NewStore()
	store.AddItem(coffee(), nil)
	line := store.AddItem(coffee(), []catalog.OptionChoice{oatMilk()})

	snapshot := store.Snapshot()
	if len(snapshot.Lines) != 2 {
		t.Fatalf("expected two lines, got %d", len(snapshot.Lines))
	}
	if !line.UnitPrice.Equal(decimal.RequireFromString("3.00")) {
		t.Fatalf("expected unit price 3.00 with surcharge, got %s", line.UnitPrice)
	}
}

func TestAddItemAppliesOfferDiscount(t *testing.T) {
	t.Parallel()

	item := coffee()
	item.OnOffer = true
	item.DiscountPercent = decimal.RequireFromString("20")

	store := NewStore()
	line := store.AddItem(item, nil)
	if !line.UnitPrice.Equal(decimal.RequireFromString("2.00")) {
		t.Fatalf("expected discounted unit price 2.00, got %s", line.UnitPrice)
	}
}

func TestDecrementRemovesLineAtQuantityOne(t *testing.T) {
	t.Parallel()

	store := NewStore()
	line := store.AddItem(coffee(), nil)

	if err := store.IncrementLine(line.LineID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := store.DecrementLine(line.LineID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.IsEmpty() {
		t.Fatal("line should survive decrement from quantity 2")
	}
	if err := store.DecrementLine(line.LineID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !store.IsEmpty() {
		t.Fatal("expected cart to be empty after decrement at quantity 1")
	}
}

func TestLineMutationsUnknownLine(t *testing.T) {
	t.Parallel()

	store := NewStore()
	for _, err := range []error{
		store.IncrementLine("missing"),
		store.DecrementLine("missing"),
		store.RemoveLine("missing"),
	} {
		typed := pkgerrors.As(err)
		if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
			t.Fatalf("expected NOT_FOUND, got %v", err)
		}
	}
}

func TestSubtotalIsDerivedFromLines(t *testing.T) {
	t.Parallel()

	store := NewStore()
	line := store.AddItem(coffee(), []catalog.OptionChoice{oatMilk()})
	if err := store.IncrementLine(line.LineID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	store.AddItem(coffee(), nil)

	// 2 * 3.00 + 2.50
	want := decimal.RequireFromString("8.50")
	if got := store.Subtotal(); !got.Equal(want) {
		t.Fatalf("expected subtotal %s, got %s", want, got)
	}

	store.Clear()
	if !store.Subtotal().Equal(decimal.Zero) {
		t.Fatal("expected zero subtotal after clear")
	}
}

func TestObserversFireAfterMutation(t *testing.T) {
	t.Parallel()

	store := NewStore()
	var seen []Snapshot
	store.Subscribe(func(s Snapshot) {
		seen = append(seen, s)
	})

	line := store.AddItem(coffee(), nil)
	if err := store.RemoveLine(line.LineID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(seen) != 2 {
		t.Fatalf("expected two notifications, got %d", len(seen))
	}
	if len(seen[1].Lines) != 0 {
		t.Fatal("expected final snapshot to be empty")
	}
}

func TestRemovedLineIDNeverReused(t *testing.T) {
	t.Parallel()

	store := NewStore()
	first := store.AddItem(coffee(), nil)
	if err := store.RemoveLine(first.LineID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second := store.AddItem(coffee(), nil)
	if first.LineID == second.LineID {
		t.Fatal("expected a fresh line id after removal")
	}
}
