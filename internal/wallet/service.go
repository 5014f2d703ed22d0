package wallet

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/rfigueroa/talentbridge-backend/internal/companies"
	"github.com/rfigueroa/talentbridge-backend/pkg/db/models"
	"github.com/rfigueroa/talentbridge-backend/pkg/enums"
	pkgerrors "github.com/rfigueroa/talentbridge-backend/pkg/errors"
	"github.com/rfigueroa/talentbridge-backend/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service is the single write path for company point balances. Every balance
// mutation appends exactly one completed ledger entry inside the same
// transaction, with the company row locked for the duration.
type Service interface {
	Credit(ctx context.Context, input CreditInput) (*models.LedgerEntry, error)
	Debit(ctx context.Context, input DebitInput) (bool, error)
	DebitTx(ctx context.Context, tx *gorm.DB, input DebitInput) (bool, error)
	Balance(ctx context.Context, companyID uuid.UUID) (int, error)
	History(ctx context.Context, companyID uuid.UUID, params pagination.Params) ([]models.LedgerEntry, string, error)
	ExpireCredit(ctx context.Context, entry models.LedgerEntry) (int, error)
}

// CreditInput captures a balance increase, typically after an upstream
// payment confirmation.
type CreditInput struct {
	CompanyID      uuid.UUID
	Points         int
	Kind           enums.LedgerEntryKind
	MonetaryAmount *decimal.Decimal
	Description    string
	ReferenceKind  enums.LedgerReferenceKind
	ReferenceID    *uuid.UUID
	Metadata       json.RawMessage
	ExpiresAt      *time.Time
}

// DebitInput captures a balance decrease for a gated action.
type DebitInput struct {
	CompanyID     uuid.UUID
	Points        int
	Description   string
	ReferenceKind enums.LedgerReferenceKind
	ReferenceID   *uuid.UUID
	Metadata      json.RawMessage
}

// ServiceParams groups dependencies for the wallet service.
type ServiceParams struct {
	Tx        txRunner
	Repo      Repository
	Companies companies.Repository
}

type service struct {
	tx        txRunner
	repo      Repository
	companies companies.Repository
}

// NewService builds the wallet service.
func NewService(params ServiceParams) (Service, error) {
	if params.Tx == nil {
		return nil, fmt.Errorf("tx runner is required")
	}
	if params.Repo == nil {
		return nil, fmt.Errorf("wallet repository is required")
	}
	if params.Companies == nil {
		return nil, fmt.Errorf("company repository is required")
	}
	return &service{tx: params.Tx, repo: params.Repo, companies: params.Companies}, nil
}

func (s *service) Credit(ctx context.Context, input CreditInput) (*models.LedgerEntry, error) {
	if input.CompanyID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "company id is required")
	}
	if input.Points <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "credit points must be positive")
	}
	// Refunds have no entry point: points spent on a gated action stay spent.
	if input.Kind != enums.LedgerEntryKindPurchase && input.Kind != enums.LedgerEntryKindBonus {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid credit kind %q", input.Kind))
	}
	referenceKind, err := normalizeReference(input.ReferenceKind, input.ReferenceID)
	if err != nil {
		return nil, err
	}

	entry := &models.LedgerEntry{
		ID:             uuid.New(),
		CompanyID:      input.CompanyID,
		Kind:           input.Kind,
		Points:         input.Points,
		MonetaryAmount: input.MonetaryAmount,
		Description:    input.Description,
		ReferenceKind:  referenceKind,
		ReferenceID:    input.ReferenceID,
		Status:         enums.LedgerEntryStatusCompleted,
		Metadata:       input.Metadata,
		ExpiresAt:      input.ExpiresAt,
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		company, err := s.companies.WithTx(tx).FindByIDForUpdate(ctx, input.CompanyID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "company not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lock company")
		}
		if err := s.repo.WithTx(tx).CreateEntry(ctx, entry); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "append ledger entry")
		}
		newBalance := company.PointBalance + input.Points
		if err := s.companies.WithTx(tx).UpdateBalance(ctx, company.ID, newBalance, time.Now().UTC()); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update balance")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *service) Debit(ctx context.Context, input DebitInput) (bool, error) {
	allowed := false
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		ok, err := s.DebitTx(ctx, tx, input)
		if err != nil {
			return err
		}
		allowed = ok
		return nil
	})
	if err != nil {
		return false, err
	}
	return allowed, nil
}

// DebitTx performs the debit inside the caller's transaction so a gated
// action can commit its own effects and the charge as one unit.
func (s *service) DebitTx(ctx context.Context, tx *gorm.DB, input DebitInput) (bool, error) {
	if tx == nil {
		return false, pkgerrors.New(pkgerrors.CodeValidation, "transaction is required")
	}
	if input.CompanyID == uuid.Nil {
		return false, pkgerrors.New(pkgerrors.CodeValidation, "company id is required")
	}
	if input.Points <= 0 {
		return false, pkgerrors.New(pkgerrors.CodeValidation, "debit points must be positive")
	}
	referenceKind, err := normalizeReference(input.ReferenceKind, input.ReferenceID)
	if err != nil {
		return false, err
	}

	company, err := s.companies.WithTx(tx).FindByIDForUpdate(ctx, input.CompanyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, pkgerrors.New(pkgerrors.CodeNotFound, "company not found")
		}
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lock company")
	}

	// Fails closed: no partial effects when the balance is short.
	if company.PointBalance < input.Points {
		return false, nil
	}

	entry := &models.LedgerEntry{
		ID:            uuid.New(),
		CompanyID:     input.CompanyID,
		Kind:          enums.LedgerEntryKindUsage,
		Points:        -input.Points,
		Description:   input.Description,
		ReferenceKind: referenceKind,
		ReferenceID:   input.ReferenceID,
		Status:        enums.LedgerEntryStatusCompleted,
		Metadata:      input.Metadata,
	}
	if err := s.repo.WithTx(tx).CreateEntry(ctx, entry); err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "append ledger entry")
	}
	newBalance := company.PointBalance - input.Points
	if err := s.companies.WithTx(tx).UpdateBalance(ctx, company.ID, newBalance, time.Now().UTC()); err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update balance")
	}
	return true, nil
}

func (s *service) Balance(ctx context.Context, companyID uuid.UUID) (int, error) {
	if companyID == uuid.Nil {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "company id is required")
	}
	company, err := s.companies.FindByID(ctx, companyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, pkgerrors.New(pkgerrors.CodeNotFound, "company not found")
		}
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load company")
	}
	return company.PointBalance, nil
}

func (s *service) History(ctx context.Context, companyID uuid.UUID, params pagination.Params) ([]models.LedgerEntry, string, error) {
	if companyID == uuid.Nil {
		return nil, "", pkgerrors.New(pkgerrors.CodeValidation, "company id is required")
	}
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	limit := pagination.NormalizeLimit(params.Limit)
	entries, err := s.repo.ListByCompany(ctx, companyID, cursor, limit+1)
	if err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list ledger entries")
	}

	next := ""
	if len(entries) > limit {
		entries = entries[:limit]
		last := entries[len(entries)-1]
		next = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	return entries, next, nil
}

// ExpireCredit appends the offsetting usage entry for a promotional credit
// past its expiry. At most the unspent part of the balance is removed; the
// offset row doubles as the idempotency marker, so a credit is expired once.
// Returns the number of points actually removed.
func (s *service) ExpireCredit(ctx context.Context, entry models.LedgerEntry) (int, error) {
	if entry.ID == uuid.Nil || entry.CompanyID == uuid.Nil {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "ledger entry and company ids are required")
	}
	if entry.ExpiresAt == nil {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "ledger entry has no expiry")
	}
	if entry.Points <= 0 || !entry.Kind.IsCredit() {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "only credit entries can expire")
	}

	expired := 0
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		done, err := repo.HasExpiryOffset(ctx, entry.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check expiry offset")
		}
		if done {
			return nil
		}

		company, err := s.companies.WithTx(tx).FindByIDForUpdate(ctx, entry.CompanyID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "company not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lock company")
		}

		expired = entry.Points
		if company.PointBalance < expired {
			expired = company.PointBalance
		}

		entryID := entry.ID
		offset := &models.LedgerEntry{
			ID:            uuid.New(),
			CompanyID:     entry.CompanyID,
			Kind:          enums.LedgerEntryKindUsage,
			Points:        -expired,
			Description:   "expired promotional credit",
			ReferenceKind: enums.LedgerReferenceKindLedgerEntry,
			ReferenceID:   &entryID,
			Status:        enums.LedgerEntryStatusCompleted,
		}
		if err := repo.CreateEntry(ctx, offset); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "append expiry offset")
		}
		if expired > 0 {
			if err := s.companies.WithTx(tx).UpdateBalance(ctx, company.ID, company.PointBalance-expired, time.Now().UTC()); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update balance")
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return expired, nil
}

func normalizeReference(kind enums.LedgerReferenceKind, id *uuid.UUID) (enums.LedgerReferenceKind, error) {
	if kind == "" {
		kind = enums.LedgerReferenceKindNone
	}
	if !kind.IsValid() {
		return "", pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid reference kind %q", kind))
	}
	if kind != enums.LedgerReferenceKindNone && (id == nil || *id == uuid.Nil) {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "reference id is required for a typed reference")
	}
	return kind, nil
}
