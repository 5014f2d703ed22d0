package subscriptions

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rfigueroa/talentbridge-backend/internal/catalog"
	"github.com/rfigueroa/talentbridge-backend/pkg/db/models"
	"github.com/rfigueroa/talentbridge-backend/pkg/enums"
	pkgerrors "github.com/rfigueroa/talentbridge-backend/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service drives the subscription lifecycle: none, active, then expired or
// cancelled, with renew extending an active row.
type Service interface {
	Activate(ctx context.Context, input ActivateInput) (*models.CompanySubscription, error)
	Current(ctx context.Context, companyID uuid.UUID) (*models.CompanySubscription, error)
	CurrentPlan(ctx context.Context, companyID uuid.UUID) (*models.SubscriptionPlan, error)
	History(ctx context.Context, companyID uuid.UUID) ([]models.CompanySubscription, error)
	Cancel(ctx context.Context, companyID uuid.UUID, reason string) (*models.CompanySubscription, error)
	Renew(ctx context.Context, subscriptionID uuid.UUID) (*models.CompanySubscription, error)
	MarkExpired(ctx context.Context, subscriptionID uuid.UUID) error
}

// ActivateInput captures a new plan assignment for a company.
type ActivateInput struct {
	CompanyID    uuid.UUID
	PlanID       uuid.UUID
	BillingCycle enums.BillingCycle
	AutoRenew    bool
}

// ServiceParams groups dependencies for the subscription service.
type ServiceParams struct {
	Tx      txRunner
	Repo    Repository
	Catalog catalog.Repository
	Now     func() time.Time
}

type service struct {
	tx      txRunner
	repo    Repository
	catalog catalog.Repository
	now     func() time.Time
}

// NewService builds the subscription service.
func NewService(params ServiceParams) (Service, error) {
	if params.Tx == nil {
		return nil, fmt.Errorf("tx runner is required")
	}
	if params.Repo == nil {
		return nil, fmt.Errorf("subscription repository is required")
	}
	if params.Catalog == nil {
		return nil, fmt.Errorf("catalog repository is required")
	}
	now := params.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &service{tx: params.Tx, repo: params.Repo, catalog: params.Catalog, now: now}, nil
}

func (s *service) Activate(ctx context.Context, input ActivateInput) (*models.CompanySubscription, error) {
	if input.CompanyID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "company id is required")
	}
	if input.PlanID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "plan id is required")
	}
	if !input.BillingCycle.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid billing cycle %q", input.BillingCycle))
	}

	plan, err := s.catalog.FindPlanByID(ctx, input.PlanID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "plan not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load plan")
	}
	if !plan.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "plan is no longer offered")
	}

	start := s.now()
	sub := &models.CompanySubscription{
		ID:                 uuid.New(),
		CompanyID:          input.CompanyID,
		SubscriptionPlanID: plan.ID,
		Status:             enums.SubscriptionStatusActive,
		StartDate:          start,
		EndDate:            advanceByCycle(start, input.BillingCycle),
		BillingCycle:       input.BillingCycle,
		AutoRenew:          input.AutoRenew,
	}

	// Prior active rows are expired in the same transaction, keeping the
	// at-most-one-current convention enforced rather than implied.
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.ExpireActive(ctx, input.CompanyID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "expire prior subscriptions")
		}
		if err := repo.Create(ctx, sub); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create subscription")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sub.Plan = plan
	return sub, nil
}

// Current returns the subscription considered live right now, nil when the
// company has none.
func (s *service) Current(ctx context.Context, companyID uuid.UUID) (*models.CompanySubscription, error) {
	if companyID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "company id is required")
	}
	sub, err := s.repo.CurrentByCompany(ctx, companyID, s.now())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load current subscription")
	}
	return sub, nil
}

func (s *service) CurrentPlan(ctx context.Context, companyID uuid.UUID) (*models.SubscriptionPlan, error) {
	sub, err := s.Current(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, nil
	}
	return sub.Plan, nil
}

func (s *service) History(ctx context.Context, companyID uuid.UUID) ([]models.CompanySubscription, error) {
	if companyID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "company id is required")
	}
	subs, err := s.repo.ListByCompany(ctx, companyID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list subscriptions")
	}
	return subs, nil
}

func (s *service) Cancel(ctx context.Context, companyID uuid.UUID, reason string) (*models.CompanySubscription, error) {
	sub, err := s.Current(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "no current subscription to cancel")
	}

	now := s.now()
	sub.Status = enums.SubscriptionStatusCancelled
	sub.CancelledAt = &now
	sub.AutoRenew = false
	if reason != "" {
		sub.CancellationReason = &reason
	}
	if err := s.repo.Update(ctx, sub); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cancel subscription")
	}
	return sub, nil
}

func (s *service) Renew(ctx context.Context, subscriptionID uuid.UUID) (*models.CompanySubscription, error) {
	if subscriptionID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "subscription id is required")
	}
	sub, err := s.repo.FindByID(ctx, subscriptionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "subscription not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load subscription")
	}
	if sub.Status == enums.SubscriptionStatusCancelled {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "cancelled subscriptions cannot renew")
	}

	sub.EndDate = advanceByCycle(sub.EndDate, sub.BillingCycle)
	sub.Status = enums.SubscriptionStatusActive
	if err := s.repo.Update(ctx, sub); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "renew subscription")
	}
	return sub, nil
}

// MarkExpired flips a stale row's stored status to expired. The computed
// predicates stay the source of truth; this is bookkeeping only.
func (s *service) MarkExpired(ctx context.Context, subscriptionID uuid.UUID) error {
	sub, err := s.repo.FindByID(ctx, subscriptionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "subscription not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load subscription")
	}
	if sub.Status == enums.SubscriptionStatusExpired {
		return nil
	}
	if !IsExpired(sub, s.now()) {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "subscription has not expired")
	}
	sub.Status = enums.SubscriptionStatusExpired
	if err := s.repo.Update(ctx, sub); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark subscription expired")
	}
	return nil
}

func advanceByCycle(t time.Time, cycle enums.BillingCycle) time.Time {
	if cycle == enums.BillingCycleYearly {
		return t.AddDate(1, 0, 0)
	}
	return t.AddDate(0, 1, 0)
}
