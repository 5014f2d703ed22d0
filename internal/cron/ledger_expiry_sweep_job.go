package cron

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/multierr"

	"github.com/rfigueroa/talentbridge-backend/internal/wallet"
	"github.com/rfigueroa/talentbridge-backend/pkg/logger"
)

// LedgerExpirySweepJobParams configures the promotional credit expiry sweep.
type LedgerExpirySweepJobParams struct {
	Logger *logger.Logger
	Repo   wallet.Repository
	Wallet wallet.Service
	Limit  int
	Now    func() time.Time
}

// NewLedgerExpirySweepJob builds the job that offsets promotional credits
// whose expiry has passed. Each credit is settled at most once; the offset
// entry the wallet writes doubles as the done marker.
func NewLedgerExpirySweepJob(params LedgerExpirySweepJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Repo == nil {
		return nil, fmt.Errorf("wallet repository required")
	}
	if params.Wallet == nil {
		return nil, fmt.Errorf("wallet service required")
	}
	limit := params.Limit
	if limit <= 0 {
		limit = defaultSweepLimit
	}
	now := params.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &ledgerExpirySweepJob{
		logg:   params.Logger,
		repo:   params.Repo,
		wallet: params.Wallet,
		limit:  limit,
		now:    now,
	}, nil
}

type ledgerExpirySweepJob struct {
	logg   *logger.Logger
	repo   wallet.Repository
	wallet wallet.Service
	limit  int
	now    func() time.Time
}

func (j *ledgerExpirySweepJob) Name() string { return "ledger-expiry-sweep" }

func (j *ledgerExpirySweepJob) Run(ctx context.Context) error {
	credits, err := j.repo.ListExpiredCredits(ctx, j.now(), j.limit)
	if err != nil {
		return fmt.Errorf("list expired credits: %w", err)
	}

	var errs error
	settled := 0
	removed := 0
	for i := range credits {
		entry := credits[i]
		points, err := j.wallet.ExpireCredit(ctx, entry)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("expire credit %s: %w", entry.ID, err))
			continue
		}
		logCtx := j.logg.WithFields(ctx, map[string]any{
			"ledger_entry_id": entry.ID,
			"company_id":      entry.CompanyID,
			"points_removed":  points,
		})
		j.logg.Info(logCtx, "expired credit settled")
		settled++
		removed += points
	}

	reportCtx := j.logg.WithFields(ctx, map[string]any{
		"candidates":     len(credits),
		"settled":        settled,
		"points_removed": removed,
	})
	j.logg.Info(reportCtx, "ledger expiry sweep complete")
	return errs
}
