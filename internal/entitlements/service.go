package entitlements

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rfigueroa/talentbridge-backend/internal/companies"
	"github.com/rfigueroa/talentbridge-backend/internal/subscriptions"
	"github.com/rfigueroa/talentbridge-backend/pkg/config"
	"github.com/rfigueroa/talentbridge-backend/pkg/db/models"
	"github.com/rfigueroa/talentbridge-backend/pkg/enums"
	pkgerrors "github.com/rfigueroa/talentbridge-backend/pkg/errors"
)

// Service resolves whether a company may perform a gated action, arbitrating
// between pay-per-use points and an active subscription's quotas.
type Service interface {
	CanPostJob(ctx context.Context, companyID uuid.UUID) (bool, error)
	CanPostMoreJobs(ctx context.Context, companyID uuid.UUID) (bool, error)
	RemainingJobPosts(ctx context.Context, companyID uuid.UUID) (*int, error)
	CanSendInvitation(ctx context.Context, companyID uuid.UUID) (bool, error)
	Snapshot(ctx context.Context, companyID uuid.UUID) (*Snapshot, error)
}

// Snapshot is the read-only aggregate the API serves; consumers poll this
// instead of receiving push events.
type Snapshot struct {
	CompanyID          uuid.UUID                 `json:"company_id"`
	VerificationStatus enums.VerificationStatus  `json:"verification_status"`
	PointBalance       int                       `json:"point_balance"`
	PlanName           *string                   `json:"plan_name,omitempty"`
	SubscriptionEndsAt *time.Time                `json:"subscription_ends_at,omitempty"`
	ExpiringSoon       bool                      `json:"expiring_soon"`
	RemainingJobPosts  *int                      `json:"remaining_job_posts,omitempty"`
	UnlimitedJobPosts  bool                      `json:"unlimited_job_posts"`
	CanPostJob         bool                      `json:"can_post_job"`
	CanSendInvitation  bool                      `json:"can_send_invitation"`
}

// ServiceParams groups dependencies for the entitlement resolver.
type ServiceParams struct {
	Companies     companies.Repository
	Subscriptions subscriptions.Service
	Wallet        config.WalletConfig
	Now           func() time.Time
}

type service struct {
	companies companies.Repository
	subs      subscriptions.Service
	wallet    config.WalletConfig
	now       func() time.Time
}

// NewService builds the entitlement resolver.
func NewService(params ServiceParams) (Service, error) {
	if params.Companies == nil {
		return nil, fmt.Errorf("company repository is required")
	}
	if params.Subscriptions == nil {
		return nil, fmt.Errorf("subscription service is required")
	}
	now := params.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	wallet := params.Wallet
	if wallet.JobPostingCost <= 0 {
		wallet.JobPostingCost = 1
	}
	if wallet.JobInvitationCost <= 0 {
		wallet.JobInvitationCost = 1
	}
	return &service{companies: params.Companies, subs: params.Subscriptions, wallet: wallet, now: now}, nil
}

// CanPostJob is the full gate: the company must be verified and allowed by
// either its subscription quota or its point balance.
func (s *service) CanPostJob(ctx context.Context, companyID uuid.UUID) (bool, error) {
	company, err := s.loadCompany(ctx, companyID)
	if err != nil {
		return false, err
	}
	if !company.IsVerified() {
		return false, nil
	}
	return s.canPostMoreJobs(ctx, company)
}

// CanPostMoreJobs checks quota or balance only. Verification is enforced one
// layer up in CanPostJob, mirroring how callers compose the two checks.
func (s *service) CanPostMoreJobs(ctx context.Context, companyID uuid.UUID) (bool, error) {
	company, err := s.loadCompany(ctx, companyID)
	if err != nil {
		return false, err
	}
	return s.canPostMoreJobs(ctx, company)
}

func (s *service) canPostMoreJobs(ctx context.Context, company *models.Company) (bool, error) {
	plan, err := s.subs.CurrentPlan(ctx, company.ID)
	if err != nil {
		return false, err
	}
	if plan == nil {
		return company.PointBalance >= s.wallet.JobPostingCost, nil
	}
	if plan.JobPostingLimit == nil {
		return true, nil
	}
	return company.ActiveJobPosts < *plan.JobPostingLimit, nil
}

// RemainingJobPosts returns nil when the company has no plan or an unlimited
// one; otherwise how many more listings its quota admits.
func (s *service) RemainingJobPosts(ctx context.Context, companyID uuid.UUID) (*int, error) {
	company, err := s.loadCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	plan, err := s.subs.CurrentPlan(ctx, company.ID)
	if err != nil {
		return nil, err
	}
	if plan == nil || plan.JobPostingLimit == nil {
		return nil, nil
	}
	remaining := *plan.JobPostingLimit - company.ActiveJobPosts
	if remaining < 0 {
		remaining = 0
	}
	return &remaining, nil
}

// CanSendInvitation is always point-gated: the plan's invitation limit field
// exists in the catalog but does not buy invitations.
func (s *service) CanSendInvitation(ctx context.Context, companyID uuid.UUID) (bool, error) {
	company, err := s.loadCompany(ctx, companyID)
	if err != nil {
		return false, err
	}
	return company.PointBalance >= s.wallet.JobInvitationCost, nil
}

func (s *service) Snapshot(ctx context.Context, companyID uuid.UUID) (*Snapshot, error) {
	company, err := s.loadCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	sub, err := s.subs.Current(ctx, companyID)
	if err != nil {
		return nil, err
	}

	snap := &Snapshot{
		CompanyID:          company.ID,
		VerificationStatus: company.VerificationStatus,
		PointBalance:       company.PointBalance,
		CanSendInvitation:  company.PointBalance >= s.wallet.JobInvitationCost,
	}

	var plan *models.SubscriptionPlan
	if sub != nil {
		plan = sub.Plan
		snap.SubscriptionEndsAt = &sub.EndDate
		snap.ExpiringSoon = subscriptions.IsExpiringSoon(sub, s.now())
	}
	if plan != nil {
		snap.PlanName = &plan.Name
		if plan.JobPostingLimit == nil {
			snap.UnlimitedJobPosts = true
		} else {
			remaining := *plan.JobPostingLimit - company.ActiveJobPosts
			if remaining < 0 {
				remaining = 0
			}
			snap.RemainingJobPosts = &remaining
		}
	}

	allowed, err := s.canPostMoreJobs(ctx, company)
	if err != nil {
		return nil, err
	}
	snap.CanPostJob = company.IsVerified() && allowed
	return snap, nil
}

func (s *service) loadCompany(ctx context.Context, companyID uuid.UUID) (*models.Company, error) {
	if companyID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "company id is required")
	}
	company, err := s.companies.FindByID(ctx, companyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "company not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load company")
	}
	return company, nil
}
