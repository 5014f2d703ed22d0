package controllers

import (
	"net/http"

	"github.com/rfigueroa/talentbridge-backend/api/responses"
	"github.com/rfigueroa/talentbridge-backend/api/validators"
	"github.com/rfigueroa/talentbridge-backend/internal/companies"
	pkgerrors "github.com/rfigueroa/talentbridge-backend/pkg/errors"
	"github.com/rfigueroa/talentbridge-backend/pkg/logger"
)

type companyRegisterRequest struct {
	Name          string `json:"name" validate:"required,min=2,max=200"`
	MaxActiveJobs int    `json:"max_active_jobs" validate:"omitempty,min=1,max=1000"`
}

// CompanyRegister creates a company account. New companies start unverified
// with a zero point balance.
func CompanyRegister(svc companies.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "company service unavailable"))
			return
		}

		var payload companyRegisterRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		company, err := svc.Register(r.Context(), companies.RegisterCompanyInput{
			Name:          payload.Name,
			MaxActiveJobs: payload.MaxActiveJobs,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, company)
	}
}

// CompanyProfile returns the authenticated company's profile.
func CompanyProfile(svc companies.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "company service unavailable"))
			return
		}

		companyID, ok := requireCompanyID(w, r, logg)
		if !ok {
			return
		}
		company, err := svc.GetByID(r.Context(), companyID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, company)
	}
}
