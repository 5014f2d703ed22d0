package controllers

import (
	"net/http"

	"github.com/rfigueroa/talentbridge-backend/api/responses"
	"github.com/rfigueroa/talentbridge-backend/internal/entitlements"
	pkgerrors "github.com/rfigueroa/talentbridge-backend/pkg/errors"
	"github.com/rfigueroa/talentbridge-backend/pkg/logger"
)

// EntitlementsSnapshot returns what the company can currently do and why.
// Clients poll this; nothing is pushed.
func EntitlementsSnapshot(svc entitlements.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "entitlement service unavailable"))
			return
		}
		companyID, ok := requireCompanyID(w, r, logg)
		if !ok {
			return
		}
		snapshot, err := svc.Snapshot(r.Context(), companyID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, snapshot)
	}
}
