package controllers

import (
	"net/http"

	"github.com/rfigueroa/talentbridge-backend/api/responses"
	"github.com/rfigueroa/talentbridge-backend/internal/catalog"
	pkgerrors "github.com/rfigueroa/talentbridge-backend/pkg/errors"
	"github.com/rfigueroa/talentbridge-backend/pkg/logger"
)

// CatalogPlans lists the subscription plans currently offered.
func CatalogPlans(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}
		plans, err := svc.ListPlans(r.Context(), false)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, plans)
	}
}

// CatalogPointPackages lists the purchasable point bundles.
func CatalogPointPackages(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}
		packages, err := svc.ListPointPackages(r.Context(), false)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, packages)
	}
}
