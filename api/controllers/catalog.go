package controllers

import (
	"context"
	"net/http"

	"github.com/cafesol/cafeapp/api/responses"
	"github.com/cafesol/cafeapp/internal/catalog"
	"github.com/cafesol/cafeapp/internal/pricing"
	pkgerrors "github.com/cafesol/cafeapp/pkg/errors"
	"github.com/cafesol/cafeapp/pkg/logger"
)

type catalogLoader interface {
	Load(ctx context.Context) ([]catalog.Item, error)
}

// CatalogList returns the normalized catalog with display prices.
func CatalogList(loader catalogLoader, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if loader == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog loader unavailable"))
			return
		}

		items, err := loader.Load(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		views := make([]catalogItemView, 0, len(items))
		for _, item := range items {
			views = append(views, newCatalogItemView(item))
		}
		responses.WriteSuccess(w, catalogListResponse{Items: views})
	}
}

type catalogListResponse struct {
	Items []catalogItemView `json:"items"`
}

type catalogItemView struct {
	ID              string            `json:"id"`
	DisplayName     string            `json:"display_name"`
	Kind            string            `json:"kind"`
	BasePrice       string            `json:"base_price"`
	EffectivePrice  string            `json:"effective_price"`
	OnOffer         bool              `json:"on_offer"`
	DiscountPercent string            `json:"discount_percent,omitempty"`
	OptionGroups    []optionGroupView `json:"option_groups,omitempty"`
}

type optionGroupView struct {
	ID            string             `json:"id"`
	Name          string             `json:"name"`
	SelectionMode string             `json:"selection_mode"`
	Options       []optionChoiceView `json:"options"`
}

type optionChoiceView struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Surcharge string `json:"surcharge"`
}

func newCatalogItemView(item catalog.Item) catalogItemView {
	view := catalogItemView{
		ID:             item.ID,
		DisplayName:    item.DisplayName,
		Kind:           item.Kind.String(),
		BasePrice:      pricing.DisplayAmount(item.BasePrice),
		EffectivePrice: pricing.DisplayAmount(pricing.EffectiveUnitPrice(item.BasePrice, item.OnOffer, item.DiscountPercent)),
		OnOffer:        item.OnOffer,
	}
	if item.OnOffer {
		view.DiscountPercent = item.DiscountPercent.String()
	}
	for _, group := range item.OptionGroups {
		groupView := optionGroupView{
			ID:            group.ID,
			Name:          group.Name,
			SelectionMode: group.SelectionMode.String(),
		}
		for _, choice := range group.Options {
			groupView.Options = append(groupView.Options, optionChoiceView{
				ID:        choice.ID,
				Name:      choice.Name,
				Surcharge: pricing.DisplayAmount(choice.Surcharge),
			})
		}
		view.OptionGroups = append(view.OptionGroups, groupView)
	}
	return view
}
