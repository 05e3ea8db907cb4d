package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cafesol/cafeapp/api/responses"
	"github.com/cafesol/cafeapp/api/validators"
	"github.com/cafesol/cafeapp/internal/admin"
	"github.com/cafesol/cafeapp/pkg/backend"
	pkgerrors "github.com/cafesol/cafeapp/pkg/errors"
	"github.com/cafesol/cafeapp/pkg/logger"
)

// AdminProductList returns the editor's current product list, refreshing it
// from the cafe API first.
func AdminProductList(editor *admin.ProductEditor, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if editor == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product editor unavailable"))
			return
		}
		if err := editor.Refresh(r.Context()); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"products": editor.List()})
	}
}

// AdminProductCreate creates a product.
func AdminProductCreate(editor *admin.ProductEditor, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if editor == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product editor unavailable"))
			return
		}

		var payload backend.ProductInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		created, err := editor.Create(r.Context(), payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, created)
	}
}

// AdminProductUpdate replaces a product's editable fields.
func AdminProductUpdate(editor *admin.ProductEditor, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if editor == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product editor unavailable"))
			return
		}

		var payload backend.ProductInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		updated, err := editor.Update(r.Context(), chi.URLParam(r, "productID"), payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, updated)
	}
}

// AdminProductDelete removes a product.
func AdminProductDelete(editor *admin.ProductEditor, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if editor == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product editor unavailable"))
			return
		}

		if err := editor.Delete(r.Context(), chi.URLParam(r, "productID")); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
