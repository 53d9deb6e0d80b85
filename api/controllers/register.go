package controllers

import (
	"net/http"

	"github.com/lcastellanos/shopline-backend/api/responses"
	"github.com/lcastellanos/shopline-backend/api/validators"
	"github.com/lcastellanos/shopline-backend/internal/auth"
	pkgerrors "github.com/lcastellanos/shopline-backend/pkg/errors"
	"github.com/lcastellanos/shopline-backend/pkg/logger"
)

// Register wires account onboarding into the HTTP layer.
func Register(svc auth.RegisterService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "register service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body auth.RegisterRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Register(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}
