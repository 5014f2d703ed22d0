package invitations

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rfigueroa/talentbridge-backend/internal/companies"
	"github.com/rfigueroa/talentbridge-backend/internal/jobs"
	"github.com/rfigueroa/talentbridge-backend/internal/wallet"
	"github.com/rfigueroa/talentbridge-backend/pkg/config"
	"github.com/rfigueroa/talentbridge-backend/pkg/db/models"
	"github.com/rfigueroa/talentbridge-backend/pkg/enums"
	pkgerrors "github.com/rfigueroa/talentbridge-backend/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service manages candidate invitations. Every send costs points regardless
// of the company's subscription; the charge is stamped on the invitation so
// retries can never debit twice.
type Service interface {
	Send(ctx context.Context, input SendInput) (*models.JobInvitation, error)
	Get(ctx context.Context, companyID, invitationID uuid.UUID) (*models.JobInvitation, error)
	ListByCompany(ctx context.Context, companyID uuid.UUID) ([]models.JobInvitation, error)
	ChargeForInvitation(ctx context.Context, invitationID uuid.UUID) (bool, error)
	Respond(ctx context.Context, invitationID uuid.UUID, status enums.InvitationStatus) (*models.JobInvitation, error)
}

// SendInput captures a new candidate invitation.
type SendInput struct {
	CompanyID      uuid.UUID
	JobListingID   *uuid.UUID
	CandidateEmail string
	Message        string
}

// ServiceParams groups dependencies for the invitation service.
type ServiceParams struct {
	Tx           txRunner
	Repo         Repository
	Companies    companies.Repository
	Jobs         jobs.Repository
	Wallet       wallet.Service
	WalletConfig config.WalletConfig
	Now          func() time.Time
}

type service struct {
	tx        txRunner
	repo      Repository
	companies companies.Repository
	jobs      jobs.Repository
	wallet    wallet.Service
	cfg       config.WalletConfig
	now       func() time.Time
}

// NewService builds the invitation service.
func NewService(params ServiceParams) (Service, error) {
	if params.Tx == nil {
		return nil, fmt.Errorf("tx runner is required")
	}
	if params.Repo == nil {
		return nil, fmt.Errorf("invitation repository is required")
	}
	if params.Companies == nil {
		return nil, fmt.Errorf("company repository is required")
	}
	if params.Jobs == nil {
		return nil, fmt.Errorf("job listing repository is required")
	}
	if params.Wallet == nil {
		return nil, fmt.Errorf("wallet service is required")
	}
	cfg := params.WalletConfig
	if cfg.JobInvitationCost <= 0 {
		cfg.JobInvitationCost = 1
	}
	now := params.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &service{
		tx:        params.Tx,
		repo:      params.Repo,
		companies: params.Companies,
		jobs:      params.Jobs,
		wallet:    params.Wallet,
		cfg:       cfg,
		now:       now,
	}, nil
}

// Send creates the invitation, charges for it, and marks it sent as one
// transaction. An insufficient balance rolls the whole thing back, so a
// blocked send leaves no pending row behind.
func (s *service) Send(ctx context.Context, input SendInput) (*models.JobInvitation, error) {
	if input.CompanyID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "company id is required")
	}
	email := strings.TrimSpace(input.CandidateEmail)
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "candidate email is required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid candidate email %q", email))
	}

	if _, err := s.companies.FindByID(ctx, input.CompanyID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "company not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load company")
	}
	if input.JobListingID != nil {
		listing, err := s.jobs.FindByID(ctx, *input.JobListingID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeNotFound, "job listing not found")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load job listing")
		}
		if listing.CompanyID != input.CompanyID {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "job listing not found")
		}
	}

	invitation := &models.JobInvitation{
		ID:             uuid.New(),
		CompanyID:      input.CompanyID,
		JobListingID:   input.JobListingID,
		CandidateEmail: email,
		Message:        strings.TrimSpace(input.Message),
		Status:         enums.InvitationStatusPending,
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.Create(ctx, invitation); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create invitation")
		}
		charged, _, err := s.chargeTx(ctx, tx, invitation.ID)
		if err != nil {
			return err
		}
		if !charged {
			return pkgerrors.New(pkgerrors.CodeInsufficientPoints, "not enough points to send this invitation")
		}
		if err := repo.MarkSent(ctx, invitation.ID, s.now()); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark invitation sent")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	invitation, err = s.repo.FindByID(ctx, invitation.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload invitation")
	}
	return invitation, nil
}

func (s *service) Get(ctx context.Context, companyID, invitationID uuid.UUID) (*models.JobInvitation, error) {
	return s.loadOwned(ctx, companyID, invitationID)
}

func (s *service) ListByCompany(ctx context.Context, companyID uuid.UUID) ([]models.JobInvitation, error) {
	if companyID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "company id is required")
	}
	invitations, err := s.repo.ListByCompany(ctx, companyID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list invitations")
	}
	return invitations, nil
}

// ChargeForInvitation debits the invitation cost exactly once. An invitation
// whose stamp is already set reports success without touching the ledger.
func (s *service) ChargeForInvitation(ctx context.Context, invitationID uuid.UUID) (bool, error) {
	if invitationID == uuid.Nil {
		return false, pkgerrors.New(pkgerrors.CodeValidation, "invitation id is required")
	}
	charged := false
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		ok, _, err := s.chargeTx(ctx, tx, invitationID)
		if err != nil {
			return err
		}
		charged = ok
		return nil
	})
	if err != nil {
		return false, err
	}
	return charged, nil
}

func (s *service) chargeTx(ctx context.Context, tx *gorm.DB, invitationID uuid.UUID) (bool, bool, error) {
	repo := s.repo.WithTx(tx)
	invitation, err := repo.FindByIDForUpdate(ctx, invitationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, false, pkgerrors.New(pkgerrors.CodeNotFound, "invitation not found")
		}
		return false, false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lock invitation")
	}
	if invitation.PointsDeductedAt != nil {
		return true, true, nil
	}

	ok, err := s.wallet.DebitTx(ctx, tx, wallet.DebitInput{
		CompanyID:     invitation.CompanyID,
		Points:        s.cfg.JobInvitationCost,
		Description:   "candidate invitation charge",
		ReferenceKind: enums.LedgerReferenceKindJobInvitation,
		ReferenceID:   &invitation.ID,
	})
	if err != nil {
		return false, false, err
	}
	if !ok {
		return false, false, nil
	}
	if err := repo.StampPointsDeducted(ctx, invitation.ID, s.now()); err != nil {
		return false, false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "stamp invitation charge")
	}
	return true, false, nil
}

// Respond records the candidate's answer to a sent invitation.
func (s *service) Respond(ctx context.Context, invitationID uuid.UUID, status enums.InvitationStatus) (*models.JobInvitation, error) {
	if invitationID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invitation id is required")
	}
	if status != enums.InvitationStatusAccepted && status != enums.InvitationStatusDeclined {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "response must be accepted or declined")
	}
	invitation, err := s.repo.FindByID(ctx, invitationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "invitation not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load invitation")
	}
	if invitation.Status != enums.InvitationStatusSent {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "only sent invitations accept a response")
	}
	if err := s.repo.UpdateStatus(ctx, invitationID, status); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update invitation status")
	}
	invitation.Status = status
	return invitation, nil
}

func (s *service) loadOwned(ctx context.Context, companyID, invitationID uuid.UUID) (*models.JobInvitation, error) {
	if companyID == uuid.Nil || invitationID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "company id and invitation id are required")
	}
	invitation, err := s.repo.FindByID(ctx, invitationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "invitation not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load invitation")
	}
	if invitation.CompanyID != companyID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "invitation not found")
	}
	return invitation, nil
}
