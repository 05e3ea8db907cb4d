package controllers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cafesol/cafeapp/api/middleware"
	"github.com/cafesol/cafeapp/api/responses"
	"github.com/cafesol/cafeapp/api/validators"
	"github.com/cafesol/cafeapp/internal/cart"
	"github.com/cafesol/cafeapp/internal/catalog"
	"github.com/cafesol/cafeapp/internal/pricing"
	pkgerrors "github.com/cafesol/cafeapp/pkg/errors"
	"github.com/cafesol/cafeapp/pkg/logger"
)

type itemFinder interface {
	Find(ctx context.Context, itemID string) (*catalog.Item, error)
}

// CartFetch returns the session's cart.
func CartFetch(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := middleware.SessionFromContext(r.Context())
		if sess == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "session context missing"))
			return
		}
		responses.WriteSuccess(w, newCartResponse(sess.Cart.Snapshot()))
	}
}

// CartAddItem resolves the catalog item and its option selections, then puts
// it in the session's cart.
func CartAddItem(finder itemFinder, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if finder == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog loader unavailable"))
			return
		}
		sess := middleware.SessionFromContext(r.Context())
		if sess == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "session context missing"))
			return
		}

		var payload addCartItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := finder.Find(r.Context(), payload.ItemID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		selected, err := catalog.SelectOptions(*item, payload.OptionIDs)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		sess.Cart.AddItem(*item, selected)
		responses.WriteSuccessStatus(w, http.StatusCreated, newCartResponse(sess.Cart.Snapshot()))
	}
}

// CartIncrementLine adds one to the line's quantity.
func CartIncrementLine(logg *logger.Logger) http.HandlerFunc {
	return cartLineMutation(logg, func(store *cart.Store, lineID string) error {
		return store.IncrementLine(lineID)
	})
}

// CartDecrementLine subtracts one, removing the line at quantity one.
func CartDecrementLine(logg *logger.Logger) http.HandlerFunc {
	return cartLineMutation(logg, func(store *cart.Store, lineID string) error {
		return store.DecrementLine(lineID)
	})
}

// CartRemoveLine drops the line regardless of quantity.
func CartRemoveLine(logg *logger.Logger) http.HandlerFunc {
	return cartLineMutation(logg, func(store *cart.Store, lineID string) error {
		return store.RemoveLine(lineID)
	})
}

// CartClear empties the cart.
func CartClear(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := middleware.SessionFromContext(r.Context())
		if sess == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "session context missing"))
			return
		}
		sess.Cart.Clear()
		responses.WriteSuccess(w, newCartResponse(sess.Cart.Snapshot()))
	}
}

func cartLineMutation(logg *logger.Logger, mutate func(*cart.Store, string) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := middleware.SessionFromContext(r.Context())
		if sess == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "session context missing"))
			return
		}

		lineID := chi.URLParam(r, "lineID")
		if lineID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "line id required"))
			return
		}

		if err := mutate(sess.Cart, lineID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartResponse(sess.Cart.Snapshot()))
	}
}

type addCartItemRequest struct {
	ItemID    string   `json:"item_id" validate:"required"`
	OptionIDs []string `json:"option_ids,omitempty"`
}

type cartResponse struct {
	Lines    []cartLineView `json:"lines"`
	Subtotal string         `json:"subtotal"`
}

type cartLineView struct {
	LineID          string             `json:"line_id"`
	CatalogItemID   string             `json:"catalog_item_id"`
	DisplayName     string             `json:"display_name"`
	Quantity        int                `json:"quantity"`
	UnitPrice       string             `json:"unit_price"`
	LineTotal       string             `json:"line_total"`
	SelectedOptions []optionChoiceView `json:"selected_options,omitempty"`
}

func newCartResponse(snapshot cart.Snapshot) cartResponse {
	lines := make([]cartLineView, 0, len(snapshot.Lines))
	for _, line := range snapshot.Lines {
		view := cartLineView{
			LineID:        line.LineID,
			CatalogItemID: line.CatalogItemID,
			DisplayName:   line.DisplayName,
			Quantity:      line.Quantity,
			UnitPrice:     pricing.DisplayAmount(line.UnitPrice),
			LineTotal:     pricing.DisplayAmount(pricing.LineTotal(line.UnitPrice, line.Quantity)),
		}
		for _, choice := range line.SelectedOptions {
			view.SelectedOptions = append(view.SelectedOptions, optionChoiceView{
				ID:        choice.ID,
				Name:      choice.Name,
				Surcharge: pricing.DisplayAmount(choice.Surcharge),
			})
		}
		lines = append(lines, view)
	}
	return cartResponse{
		Lines:    lines,
		Subtotal: pricing.DisplayAmount(snapshot.Subtotal),
	}
}
