package cart

import (
	"fmt"
	"sync"

	"github.com/cafesol/cafeapp/internal/catalog"
	"github.com/cafesol/cafeapp/internal/pricing"
	pkgerrors "github.com/cafesol/cafeapp/pkg/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Line is one distinct cart entry: a catalog item plus its specific option
// selections. The line ID is unique for the cart's lifetime and never
// reused after removal.
type Line struct {
	LineID          string                 `json:"line_id"`
	CatalogItemID   string                 `json:"catalog_item_id"`
	DisplayName     string                 `json:"display_name"`
	Quantity        int                    `json:"quantity"`
	UnitPrice       decimal.Decimal        `json:"unit_price"`
	SelectedOptions []catalog.OptionChoice `json:"selected_options,omitempty"`
}

// Snapshot is an immutable view of the cart handed to observers and
// serialized to the client.
type Snapshot struct {
	Lines    []Line          `json:"lines"`
	Subtotal decimal.Decimal `json:"subtotal"`
}

// Observer is notified after every cart mutation.
type Observer func(Snapshot)

// Store owns one browsing session's cart. It is injected into whatever
// needs it; there is no ambient shared cart. Handlers for the same session
// may race, so mutations are mutex-guarded.
type Store struct {
	mu        sync.Mutex
	lines     []Line
	subtotal  decimal.Decimal
	observers []Observer
	newLineID func() string
}

// NewStore builds an empty cart.
func NewStore() *Store {
	return &Store{
		subtotal:  decimal.Zero,
		newLineID: uuid.NewString,
	}
}

// Subscribe registers an observer fired after each mutation.
func (s *Store) Subscribe(fn Observer) {
	if fn == nil {
		return
	}
	s.mu.Lock()
	s.observers = append(s.observers, fn)
	s.mu.Unlock()
}

// AddItem puts a catalog item in the cart. An option-less re-add of an item
// already present without options increments that line; any option selection
// creates a distinct line. AddItem never fails: validating the catalog item
// is the loader's job, not the cart's.
func (s *Store) AddItem(item catalog.Item, selected []catalog.OptionChoice) Line {
	unitPrice := pricing.EffectiveUnitPrice(item.BasePrice, item.OnOffer, item.DiscountPercent).
		Add(pricing.OptionsSurcharge(selected))

	s.mu.Lock()
	if len(selected) == 0 {
		for i := range s.lines {
			if s.lines[i].CatalogItemID == item.ID && len(s.lines[i].SelectedOptions) == 0 {
				s.lines[i].Quantity++
				line := s.lines[i]
				s.afterMutationLocked()
				return line
			}
		}
	}

	line := Line{
		LineID:          s.newLineID(),
		CatalogItemID:   item.ID,
		DisplayName:     item.DisplayName,
		Quantity:        1,
		UnitPrice:       unitPrice,
		SelectedOptions: append([]catalog.OptionChoice(nil), selected...),
	}
	s.lines = append(s.lines, line)
	s.afterMutationLocked()
	return line
}

// IncrementLine adds one to the line's quantity.
func (s *Store) IncrementLine(lineID string) error {
	s.mu.Lock()
	idx := s.indexOfLocked(lineID)
	if idx < 0 {
		s.mu.Unlock()
		return lineNotFound(lineID)
	}
	s.lines[idx].Quantity++
	s.afterMutationLocked()
	return nil
}

// DecrementLine subtracts one from the line's quantity. A line at quantity
// one is removed outright; no zero-quantity line ever exists.
func (s *Store) DecrementLine(lineID string) error {
	s.mu.Lock()
	idx := s.indexOfLocked(lineID)
	if idx < 0 {
		s.mu.Unlock()
		return lineNotFound(lineID)
	}
	if s.lines[idx].Quantity <= 1 {
		s.lines = append(s.lines[:idx], s.lines[idx+1:]...)
	} else {
		s.lines[idx].Quantity--
	}
	s.afterMutationLocked()
	return nil
}

// RemoveLine drops the line regardless of quantity.
func (s *Store) RemoveLine(lineID string) error {
	s.mu.Lock()
	idx := s.indexOfLocked(lineID)
	if idx < 0 {
		s.mu.Unlock()
		return lineNotFound(lineID)
	}
	s.lines = append(s.lines[:idx], s.lines[idx+1:]...)
	s.afterMutationLocked()
	return nil
}

// Clear empties the cart.
func (s *Store) Clear() {
	s.mu.Lock()
	s.lines = nil
	s.afterMutationLocked()
}

// Snapshot returns a copy of the current lines and subtotal.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Subtotal returns the derived subtotal.
func (s *Store) Subtotal() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.subtotal
}

// IsEmpty reports whether the cart has no lines.
func (s *Store) IsEmpty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.lines) == 0
}

// afterMutationLocked recomputes the subtotal as a pure reduction over the
// lines (never patched incrementally), releases the lock, and notifies
// observers with a snapshot.
func (s *Store) afterMutationLocked() {
	subtotal := decimal.Zero
	for _, line := range s.lines {
		subtotal = subtotal.Add(pricing.LineTotal(line.UnitPrice, line.Quantity))
	}
	s.subtotal = subtotal

	snapshot := s.snapshotLocked()
	observers := append([]Observer(nil), s.observers...)
	s.mu.Unlock()

	for _, fn := range observers {
		fn(snapshot)
	}
}

func (s *Store) snapshotLocked() Snapshot {
	return Snapshot{
		Lines:    append([]Line(nil), s.lines...),
		Subtotal: s.subtotal,
	}
}

func (s *Store) indexOfLocked(lineID string) int {
	for i := range s.lines {
		if s.lines[i].LineID == lineID {
			return i
		}
	}
	return -1
}

func lineNotFound(lineID string) error {
	return pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("cart line %q not found", lineID))
}
