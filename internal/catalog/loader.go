package catalog

import (
	"context"
	"fmt"

	"github.com/cafesol/cafeapp/pkg/backend"
	"github.com/cafesol/cafeapp/pkg/enums"
	pkgerrors "github.com/cafesol/cafeapp/pkg/errors"
	"github.com/cafesol/cafeapp/pkg/logger"
	"go.uber.org/multierr"
)

type lister interface {
	ListCatalog(ctx context.Context) (*backend.CatalogPayload, error)
}

// Loader fetches the catalog from the cafe API and normalizes it. The
// catalog is re-fetched per page load; there is no cache to invalidate.
type Loader struct {
	api  lister
	logg *logger.Logger
}

// NewLoader builds the catalog loader.
func NewLoader(api lister, logg *logger.Logger) (*Loader, error) {
	if api == nil {
		return nil, fmt.Errorf("catalog lister required")
	}
	return &Loader{api: api, logg: logg}, nil
}

// Load returns the normalized catalog in display order: products first,
// combos after, each in API order. Records that fail to map are dropped and
// logged; one bad record never takes down the whole listing.
func (l *Loader) Load(ctx context.Context) ([]Item, error) {
	payload, err := l.api.ListCatalog(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]Item, 0, len(payload.Products)+len(payload.Combos))
	var mappingErrs error

	for _, product := range payload.Products {
		if !product.Active {
			continue
		}
		item, err := itemFromProduct(product)
		if err != nil {
			mappingErrs = multierr.Append(mappingErrs, err)
			continue
		}
		items = append(items, item)
	}

	for _, combo := range payload.Combos {
		if !combo.Active {
			continue
		}
		item, err := itemFromCombo(combo)
		if err != nil {
			mappingErrs = multierr.Append(mappingErrs, err)
			continue
		}
		items = append(items, item)
	}

	if mappingErrs != nil && l.logg != nil {
		l.logg.Error(ctx, "catalog records dropped during normalization", mappingErrs)
	}

	return items, nil
}

// Find loads the catalog and returns the item with the given ID.
func (l *Loader) Find(ctx context.Context, itemID string) (*Item, error) {
	items, err := l.Load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range items {
		if items[i].ID == itemID {
			return &items[i], nil
		}
	}
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("catalog item %q not found", itemID))
}

// itemFromProduct maps the product wire shape, resolving the legacy
// unit_price/promo fields once here. Downstream code only ever sees Item.
func itemFromProduct(p backend.ProductPayload) (Item, error) {
	if p.ID == "" {
		return Item{}, fmt.Errorf("product with empty id")
	}

	price := p.Price
	if price == nil {
		price = p.LegacyUnitPrice
	}
	if price == nil {
		return Item{}, fmt.Errorf("product %s: no price field", p.ID)
	}

	onOffer := false
	switch {
	case p.OnOffer != nil:
		onOffer = *p.OnOffer
	case p.LegacyPromo != nil:
		onOffer = *p.LegacyPromo
	}

	groups, err := mapOptionGroups(p.OptionGroups)
	if err != nil {
		return Item{}, fmt.Errorf("product %s: %w", p.ID, err)
	}

	return Item{
		ID:              p.ID,
		DisplayName:     p.Name,
		Kind:            enums.ItemKindProduct,
		BasePrice:       *price,
		OnOffer:         onOffer,
		DiscountPercent: p.DiscountPercent,
		OptionGroups:    groups,
	}, nil
}

func itemFromCombo(c backend.ComboPayload) (Item, error) {
	if c.ID == "" {
		return Item{}, fmt.Errorf("combo with empty id")
	}

	groups, err := mapOptionGroups(c.OptionGroups)
	if err != nil {
		return Item{}, fmt.Errorf("combo %s: %w", c.ID, err)
	}

	return Item{
		ID:              c.ID,
		DisplayName:     c.Title,
		Kind:            enums.ItemKindCombo,
		BasePrice:       c.ComboPrice,
		OnOffer:         c.Offer,
		DiscountPercent: c.DiscountPercent,
		OptionGroups:    groups,
	}, nil
}

func mapOptionGroups(payloads []backend.OptionGroupPayload) ([]OptionGroup, error) {
	if len(payloads) == 0 {
		return nil, nil
	}
	groups := make([]OptionGroup, 0, len(payloads))
	for _, g := range payloads {
		mode, err := enums.ParseSelectionMode(g.SelectionMode)
		if err != nil {
			return nil, fmt.Errorf("option group %s: %w", g.ID, err)
		}
		options := make([]OptionChoice, 0, len(g.Options))
		for _, o := range g.Options {
			options = append(options, OptionChoice{ID: o.ID, Name: o.Name, Surcharge: o.Surcharge})
		}
		groups = append(groups, OptionGroup{
			ID:            g.ID,
			Name:          g.Name,
			SelectionMode: mode,
			Options:       options,
		})
	}
	return groups, nil
}
