package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/rfigueroa/talentbridge-backend/api/responses"
	"github.com/rfigueroa/talentbridge-backend/api/validators"
	"github.com/rfigueroa/talentbridge-backend/internal/invitations"
	pkgerrors "github.com/rfigueroa/talentbridge-backend/pkg/errors"
	"github.com/rfigueroa/talentbridge-backend/pkg/logger"
)

type invitationSendRequest struct {
	CandidateEmail string     `json:"candidate_email" validate:"required,email"`
	Message        string     `json:"message,omitempty" validate:"max=5000"`
	JobListingID   *uuid.UUID `json:"job_listing_id,omitempty"`
}

// InvitationSend creates, charges, and sends a candidate invitation as one
// unit. A short balance rejects the whole request.
func InvitationSend(svc invitations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "invitation service unavailable"))
			return
		}
		companyID, ok := requireCompanyID(w, r, logg)
		if !ok {
			return
		}
		var payload invitationSendRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		invitation, err := svc.Send(r.Context(), invitations.SendInput{
			CompanyID:      companyID,
			JobListingID:   payload.JobListingID,
			CandidateEmail: payload.CandidateEmail,
			Message:        validators.SanitizeString(payload.Message, 5000),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, invitation)
	}
}

// InvitationList returns the company's invitations, newest first.
func InvitationList(svc invitations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "invitation service unavailable"))
			return
		}
		companyID, ok := requireCompanyID(w, r, logg)
		if !ok {
			return
		}
		list, err := svc.ListByCompany(r.Context(), companyID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}
