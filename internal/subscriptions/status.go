package subscriptions

import (
	"time"

	"github.com/rfigueroa/talentbridge-backend/pkg/db/models"
	"github.com/rfigueroa/talentbridge-backend/pkg/enums"
)

// ExpiringSoonWindow is how close to its end date a subscription is reported
// as expiring soon.
const ExpiringSoonWindow = 7 * 24 * time.Hour

// IsActive computes liveness from the dates at read time. The stored status
// field can lag reality (a row can read active after its end date passed),
// so it is treated as a hint and never trusted on its own.
func IsActive(sub *models.CompanySubscription, now time.Time) bool {
	if sub == nil {
		return false
	}
	return sub.Status == enums.SubscriptionStatusActive && !sub.EndDate.Before(now)
}

// IsExpired reports whether the subscription no longer grants anything.
func IsExpired(sub *models.CompanySubscription, now time.Time) bool {
	if sub == nil {
		return false
	}
	if sub.Status == enums.SubscriptionStatusExpired {
		return true
	}
	return sub.Status == enums.SubscriptionStatusActive && sub.EndDate.Before(now)
}

// IsExpiringSoon reports whether an active subscription ends within the
// warning window.
func IsExpiringSoon(sub *models.CompanySubscription, now time.Time) bool {
	if !IsActive(sub, now) {
		return false
	}
	return sub.EndDate.Sub(now) <= ExpiringSoonWindow
}
