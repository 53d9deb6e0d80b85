package controllers

import (
	"net/http"
	"strings"

	"github.com/lcastellanos/shopline-backend/api/responses"
	"github.com/lcastellanos/shopline-backend/api/validators"
	"github.com/lcastellanos/shopline-backend/internal/auth"
	pkgerrors "github.com/lcastellanos/shopline-backend/pkg/errors"
	"github.com/lcastellanos/shopline-backend/pkg/logger"
)

// AuthLogin wires the login endpoint into the HTTP layer.
func AuthLogin(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body auth.LoginRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Login(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

// UsernameUnique answers whether the username is still free. The check is
// public so registration forms can validate before submitting.
func UsernameUnique(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		username := strings.TrimSpace(r.URL.Query().Get("username"))
		unique, err := svc.IsUsernameUnique(r.Context(), username)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{
			"username": username,
			"unique":   unique,
		})
	}
}
