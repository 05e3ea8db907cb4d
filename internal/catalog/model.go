package catalog

import (
	"fmt"

	"github.com/cafesol/cafeapp/pkg/enums"
	pkgerrors "github.com/cafesol/cafeapp/pkg/errors"
	"github.com/shopspring/decimal"
)

// OptionChoice is one selectable value inside an option group.
type OptionChoice struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Surcharge decimal.Decimal `json:"surcharge"`
}

// OptionGroup is a named customization axis attached to one catalog item.
type OptionGroup struct {
	ID            string              `json:"id"`
	Name          string              `json:"name"`
	SelectionMode enums.SelectionMode `json:"selection_mode"`
	Options       []OptionChoice      `json:"options"`
}

// Item is the normalized display model. Products and combos arrive from the
// cafe API with different field names; both map into this one tagged shape
// at load time and are never re-sniffed downstream.
type Item struct {
	ID              string          `json:"id"`
	DisplayName     string          `json:"display_name"`
	Kind            enums.ItemKind  `json:"kind"`
	BasePrice       decimal.Decimal `json:"base_price"`
	OnOffer         bool            `json:"on_offer"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	OptionGroups    []OptionGroup   `json:"option_groups,omitempty"`
}

// SelectOptions resolves the requested option choice IDs against the item's
// groups, enforcing selection modes: a single-selection group contributes at
// most one choice.
func SelectOptions(item Item, choiceIDs []string) ([]OptionChoice, error) {
	if len(choiceIDs) == 0 {
		return nil, nil
	}

	requested := make(map[string]bool, len(choiceIDs))
	for _, id := range choiceIDs {
		requested[id] = true
	}

	selected := make([]OptionChoice, 0, len(choiceIDs))
	for _, group := range item.OptionGroups {
		picked := 0
		for _, choice := range group.Options {
			if !requested[choice.ID] {
				continue
			}
			picked++
			if group.SelectionMode == enums.SelectionModeSingle && picked > 1 {
				return nil, pkgerrors.New(pkgerrors.CodeValidation,
					fmt.Sprintf("option group %q accepts a single choice", group.Name))
			}
			selected = append(selected, choice)
			delete(requested, choice.ID)
		}
	}

	if len(requested) > 0 {
		for id := range requested {
			return nil, pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("option choice %q does not belong to item %q", id, item.ID))
		}
	}

	return selected, nil
}
