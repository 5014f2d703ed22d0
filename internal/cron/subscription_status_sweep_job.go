package cron

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/multierr"

	"github.com/rfigueroa/talentbridge-backend/internal/subscriptions"
	"github.com/rfigueroa/talentbridge-backend/pkg/logger"
)

const defaultSweepLimit = 250

// SubscriptionStatusSweepJobParams configures the subscription status sweep.
type SubscriptionStatusSweepJobParams struct {
	Logger        *logger.Logger
	Repo          subscriptions.Repository
	Subscriptions subscriptions.Service
	Limit         int
	Now           func() time.Time
}

// NewSubscriptionStatusSweepJob builds the job that reconciles stored
// subscription statuses with the dates. Reads never trust the stored status,
// so the sweep is bookkeeping: auto-renewing rows get their term extended,
// the rest are stamped expired.
func NewSubscriptionStatusSweepJob(params SubscriptionStatusSweepJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Repo == nil {
		return nil, fmt.Errorf("subscription repository required")
	}
	if params.Subscriptions == nil {
		return nil, fmt.Errorf("subscription service required")
	}
	limit := params.Limit
	if limit <= 0 {
		limit = defaultSweepLimit
	}
	now := params.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &subscriptionStatusSweepJob{
		logg:  params.Logger,
		repo:  params.Repo,
		subs:  params.Subscriptions,
		limit: limit,
		now:   now,
	}, nil
}

type subscriptionStatusSweepJob struct {
	logg  *logger.Logger
	repo  subscriptions.Repository
	subs  subscriptions.Service
	limit int
	now   func() time.Time
}

func (j *subscriptionStatusSweepJob) Name() string { return "subscription-status-sweep" }

func (j *subscriptionStatusSweepJob) Run(ctx context.Context) error {
	stale, err := j.repo.ListStaleActive(ctx, j.now(), j.limit)
	if err != nil {
		return fmt.Errorf("list stale subscriptions: %w", err)
	}

	var errs error
	renewed := 0
	expired := 0
	for i := range stale {
		sub := &stale[i]
		logCtx := j.logg.WithField(ctx, "subscription_id", sub.ID)
		if sub.AutoRenew {
			if _, err := j.subs.Renew(ctx, sub.ID); err != nil {
				errs = multierr.Append(errs, fmt.Errorf("renew subscription %s: %w", sub.ID, err))
				continue
			}
			j.logg.Info(logCtx, "subscription auto-renewed")
			renewed++
			continue
		}
		if err := j.subs.MarkExpired(ctx, sub.ID); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("expire subscription %s: %w", sub.ID, err))
			continue
		}
		j.logg.Info(logCtx, "subscription marked expired")
		expired++
	}

	reportCtx := j.logg.WithFields(ctx, map[string]any{
		"candidates": len(stale),
		"renewed":    renewed,
		"expired":    expired,
	})
	j.logg.Info(reportCtx, "subscription status sweep complete")
	return errs
}
