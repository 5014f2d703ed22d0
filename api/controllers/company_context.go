package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/rfigueroa/talentbridge-backend/api/middleware"
	"github.com/rfigueroa/talentbridge-backend/api/responses"
	pkgerrors "github.com/rfigueroa/talentbridge-backend/pkg/errors"
	"github.com/rfigueroa/talentbridge-backend/pkg/logger"
)

// requireCompanyID resolves the authenticated company scope or writes the
// error itself. Handlers bail out when ok is false.
func requireCompanyID(w http.ResponseWriter, r *http.Request, logg *logger.Logger) (uuid.UUID, bool) {
	raw := middleware.CompanyIDFromContext(r.Context())
	if raw == "" {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "company context missing"))
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid company id"))
		return uuid.Nil, false
	}
	return id, true
}
