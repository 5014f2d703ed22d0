package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/rfigueroa/talentbridge-backend/api/responses"
	"github.com/rfigueroa/talentbridge-backend/api/validators"
	"github.com/rfigueroa/talentbridge-backend/internal/subscriptions"
	"github.com/rfigueroa/talentbridge-backend/pkg/enums"
	pkgerrors "github.com/rfigueroa/talentbridge-backend/pkg/errors"
	"github.com/rfigueroa/talentbridge-backend/pkg/logger"
)

type subscriptionActivateRequest struct {
	PlanID       uuid.UUID `json:"plan_id" validate:"required"`
	BillingCycle string    `json:"billing_cycle" validate:"required"`
	AutoRenew    bool      `json:"auto_renew,omitempty"`
}

// SubscriptionActivate puts the company on a plan, replacing any current one.
func SubscriptionActivate(svc subscriptions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "subscription service unavailable"))
			return
		}
		companyID, ok := requireCompanyID(w, r, logg)
		if !ok {
			return
		}
		var payload subscriptionActivateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		cycle, err := enums.ParseBillingCycle(payload.BillingCycle)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid billing cycle"))
			return
		}

		sub, err := svc.Activate(r.Context(), subscriptions.ActivateInput{
			CompanyID:    companyID,
			PlanID:       payload.PlanID,
			BillingCycle: cycle,
			AutoRenew:    payload.AutoRenew,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, sub)
	}
}

// SubscriptionFetch returns the company's current subscription, or an empty
// body when it has none.
func SubscriptionFetch(svc subscriptions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "subscription service unavailable"))
			return
		}
		companyID, ok := requireCompanyID(w, r, logg)
		if !ok {
			return
		}
		sub, err := svc.Current(r.Context(), companyID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, sub)
	}
}

type subscriptionCancelRequest struct {
	Reason string `json:"reason,omitempty" validate:"max=500"`
}

// SubscriptionCancel ends the current subscription.
func SubscriptionCancel(svc subscriptions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "subscription service unavailable"))
			return
		}
		companyID, ok := requireCompanyID(w, r, logg)
		if !ok {
			return
		}
		var payload subscriptionCancelRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		sub, err := svc.Cancel(r.Context(), companyID, validators.SanitizeString(payload.Reason, 500))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, sub)
	}
}

// SubscriptionRenew extends the current subscription by one billing cycle.
func SubscriptionRenew(svc subscriptions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "subscription service unavailable"))
			return
		}
		companyID, ok := requireCompanyID(w, r, logg)
		if !ok {
			return
		}
		current, err := svc.Current(r.Context(), companyID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if current == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeStateConflict, "no current subscription to renew"))
			return
		}
		renewed, err := svc.Renew(r.Context(), current.ID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, renewed)
	}
}
