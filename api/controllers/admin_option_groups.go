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

// AdminOptionGroupList returns the editor's current group list after a refresh.
func AdminOptionGroupList(editor *admin.OptionGroupEditor, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if editor == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "option group editor unavailable"))
			return
		}
		if err := editor.Refresh(r.Context()); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"option_groups": editor.List()})
	}
}

// AdminOptionGroupCreate creates an option group.
func AdminOptionGroupCreate(editor *admin.OptionGroupEditor, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if editor == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "option group editor unavailable"))
			return
		}

		var payload backend.OptionGroupInput
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

// AdminOptionGroupUpdate replaces an option group's editable fields.
func AdminOptionGroupUpdate(editor *admin.OptionGroupEditor, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if editor == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "option group editor unavailable"))
			return
		}

		var payload backend.OptionGroupInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		updated, err := editor.Update(r.Context(), chi.URLParam(r, "groupID"), payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, updated)
	}
}

// AdminOptionGroupDelete removes an option group.
func AdminOptionGroupDelete(editor *admin.OptionGroupEditor, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if editor == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "option group editor unavailable"))
			return
		}

		if err := editor.Delete(r.Context(), chi.URLParam(r, "groupID")); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
