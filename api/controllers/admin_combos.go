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

// AdminComboList returns the editor's current combo list after a refresh.
func AdminComboList(editor *admin.ComboEditor, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if editor == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "combo editor unavailable"))
			return
		}
		if err := editor.Refresh(r.Context()); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"combos": editor.List()})
	}
}

// AdminComboCreate creates a combo.
func AdminComboCreate(editor *admin.ComboEditor, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if editor == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "combo editor unavailable"))
			return
		}

		var payload backend.ComboInput
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

// AdminComboUpdate replaces a combo's editable fields.
func AdminComboUpdate(editor *admin.ComboEditor, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if editor == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "combo editor unavailable"))
			return
		}

		var payload backend.ComboInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		updated, err := editor.Update(r.Context(), chi.URLParam(r, "comboID"), payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, updated)
	}
}

// AdminComboDeactivate hides a combo from the catalog without deleting it.
func AdminComboDeactivate(editor *admin.ComboEditor, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if editor == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "combo editor unavailable"))
			return
		}

		if err := editor.Deactivate(r.Context(), chi.URLParam(r, "comboID")); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deactivated"})
	}
}
