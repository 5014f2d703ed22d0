package jobs

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rfigueroa/talentbridge-backend/internal/companies"
	"github.com/rfigueroa/talentbridge-backend/internal/subscriptions"
	"github.com/rfigueroa/talentbridge-backend/internal/wallet"
	"github.com/rfigueroa/talentbridge-backend/pkg/config"
	"github.com/rfigueroa/talentbridge-backend/pkg/db/models"
	"github.com/rfigueroa/talentbridge-backend/pkg/enums"
	pkgerrors "github.com/rfigueroa/talentbridge-backend/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service manages job listings and the one-time point charge a publish incurs.
type Service interface {
	Create(ctx context.Context, input CreateListingInput) (*models.JobListing, error)
	Get(ctx context.Context, companyID, listingID uuid.UUID) (*models.JobListing, error)
	ListByCompany(ctx context.Context, companyID uuid.UUID) ([]models.JobListing, error)
	Publish(ctx context.Context, companyID, listingID uuid.UUID) (*models.JobListing, error)
	ChargeForPosting(ctx context.Context, listingID uuid.UUID) (bool, error)
	Close(ctx context.Context, companyID, listingID uuid.UUID) (*models.JobListing, error)
}

// CreateListingInput captures a new draft listing.
type CreateListingInput struct {
	CompanyID   uuid.UUID
	Title       string
	Description string
	IsFeatured  bool
}

// ServiceParams groups dependencies for the jobs service.
type ServiceParams struct {
	Tx            txRunner
	Repo          Repository
	Companies     companies.Repository
	Subscriptions subscriptions.Service
	Wallet        wallet.Service
	WalletConfig  config.WalletConfig
	Now           func() time.Time
}

type service struct {
	tx        txRunner
	repo      Repository
	companies companies.Repository
	subs      subscriptions.Service
	wallet    wallet.Service
	cfg       config.WalletConfig
	now       func() time.Time
}

// NewService builds the jobs service.
func NewService(params ServiceParams) (Service, error) {
	if params.Tx == nil {
		return nil, fmt.Errorf("tx runner is required")
	}
	if params.Repo == nil {
		return nil, fmt.Errorf("job listing repository is required")
	}
	if params.Companies == nil {
		return nil, fmt.Errorf("company repository is required")
	}
	if params.Subscriptions == nil {
		return nil, fmt.Errorf("subscription service is required")
	}
	if params.Wallet == nil {
		return nil, fmt.Errorf("wallet service is required")
	}
	cfg := params.WalletConfig
	if cfg.JobPostingCost <= 0 {
		cfg.JobPostingCost = 1
	}
	now := params.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &service{
		tx:        params.Tx,
		repo:      params.Repo,
		companies: params.Companies,
		subs:      params.Subscriptions,
		wallet:    params.Wallet,
		cfg:       cfg,
		now:       now,
	}, nil
}

func (s *service) Create(ctx context.Context, input CreateListingInput) (*models.JobListing, error) {
	if input.CompanyID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "company id is required")
	}
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "title is required")
	}

	listing := &models.JobListing{
		ID:          uuid.New(),
		CompanyID:   input.CompanyID,
		Title:       title,
		Description: strings.TrimSpace(input.Description),
		Status:      enums.JobListingStatusDraft,
		IsFeatured:  input.IsFeatured,
	}
	if err := s.repo.Create(ctx, listing); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create job listing")
	}
	return listing, nil
}

func (s *service) Get(ctx context.Context, companyID, listingID uuid.UUID) (*models.JobListing, error) {
	return s.loadOwned(ctx, companyID, listingID)
}

func (s *service) ListByCompany(ctx context.Context, companyID uuid.UUID) ([]models.JobListing, error) {
	if companyID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "company id is required")
	}
	listings, err := s.repo.ListByCompany(ctx, companyID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list job listings")
	}
	return listings, nil
}

// Publish moves a draft listing live. Companies whose subscription quota
// covers the posting are not debited; pay-per-use companies are charged one
// point, and the whole transition commits as one transaction.
func (s *service) Publish(ctx context.Context, companyID, listingID uuid.UUID) (*models.JobListing, error) {
	listing, err := s.loadOwned(ctx, companyID, listingID)
	if err != nil {
		return nil, err
	}
	switch listing.Status {
	case enums.JobListingStatusPublished:
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "listing is already published")
	case enums.JobListingStatusClosed:
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "closed listings cannot be republished")
	}

	company, err := s.companies.FindByID(ctx, companyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "company not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load company")
	}
	if !company.IsVerified() {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "company is not verified")
	}

	plan, err := s.subs.CurrentPlan(ctx, companyID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if plan != nil {
			// Quota supersedes the point charge. The check runs under the
			// company row lock so concurrent publishes cannot both squeeze
			// into the last slot.
			locked, err := s.companies.WithTx(tx).FindByIDForUpdate(ctx, companyID)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lock company")
			}
			if plan.JobPostingLimit != nil && locked.ActiveJobPosts >= *plan.JobPostingLimit {
				return pkgerrors.New(pkgerrors.CodeStateConflict, "job posting quota reached")
			}
			if err := s.companies.WithTx(tx).IncrementJobPostCounters(ctx, companyID); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "increment job counters")
			}
		} else {
			charged, _, err := s.chargeTx(ctx, tx, listing.ID)
			if err != nil {
				return err
			}
			if !charged {
				return pkgerrors.New(pkgerrors.CodeInsufficientPoints, "not enough points to publish this listing")
			}
		}
		if err := s.repo.WithTx(tx).MarkPublished(ctx, listing.ID, now); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark listing published")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	listing, err = s.repo.FindByID(ctx, listing.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload listing")
	}
	return listing, nil
}

// ChargeForPosting debits the posting cost for a listing exactly once. A
// listing whose stamp is already set reports success without touching the
// ledger or the counters.
func (s *service) ChargeForPosting(ctx context.Context, listingID uuid.UUID) (bool, error) {
	if listingID == uuid.Nil {
		return false, pkgerrors.New(pkgerrors.CodeValidation, "listing id is required")
	}
	charged := false
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		ok, _, err := s.chargeTx(ctx, tx, listingID)
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

// chargeTx is the transactional core of the posting charge: lock the listing,
// honor an existing stamp, then debit, bump counters, and stamp together.
// The second return reports whether the stamp was already set.
func (s *service) chargeTx(ctx context.Context, tx *gorm.DB, listingID uuid.UUID) (bool, bool, error) {
	repo := s.repo.WithTx(tx)
	listing, err := repo.FindByIDForUpdate(ctx, listingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, false, pkgerrors.New(pkgerrors.CodeNotFound, "job listing not found")
		}
		return false, false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lock job listing")
	}
	if listing.PointsDeductedAt != nil {
		return true, true, nil
	}

	ok, err := s.wallet.DebitTx(ctx, tx, wallet.DebitInput{
		CompanyID:     listing.CompanyID,
		Points:        s.cfg.JobPostingCost,
		Description:   "job posting charge",
		ReferenceKind: enums.LedgerReferenceKindJobListing,
		ReferenceID:   &listing.ID,
	})
	if err != nil {
		return false, false, err
	}
	if !ok {
		return false, false, nil
	}
	if err := s.companies.WithTx(tx).IncrementJobPostCounters(ctx, listing.CompanyID); err != nil {
		return false, false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "increment job counters")
	}
	if err := repo.StampPointsDeducted(ctx, listing.ID, s.now()); err != nil {
		return false, false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "stamp posting charge")
	}
	return true, false, nil
}

// Close takes a published listing down and frees its slot in the company's
// active counter. Points are never refunded.
func (s *service) Close(ctx context.Context, companyID, listingID uuid.UUID) (*models.JobListing, error) {
	listing, err := s.loadOwned(ctx, companyID, listingID)
	if err != nil {
		return nil, err
	}
	if listing.Status != enums.JobListingStatusPublished {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "only published listings can be closed")
	}

	now := s.now()
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).MarkClosed(ctx, listing.ID, now); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark listing closed")
		}
		if err := s.companies.WithTx(tx).DecrementActiveJobPosts(ctx, companyID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decrement active job posts")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	listing, err = s.repo.FindByID(ctx, listing.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload listing")
	}
	return listing, nil
}

func (s *service) loadOwned(ctx context.Context, companyID, listingID uuid.UUID) (*models.JobListing, error) {
	if companyID == uuid.Nil || listingID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "company id and listing id are required")
	}
	listing, err := s.repo.FindByID(ctx, listingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "job listing not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load job listing")
	}
	// Cross-company access reads as absence, not as a permissions hint.
	if listing.CompanyID != companyID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "job listing not found")
	}
	return listing, nil
}
