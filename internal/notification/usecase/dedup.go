package usecase

import (
	"time"

	notifdomain "hse-backend/internal/notification/domain"
	"hse-backend/internal/notification/repository"
)

// DedupLookback is the fixed window within which a notification for the same
// (user, type, related entity) is considered a duplicate.
const DedupLookback = 6 * time.Hour

// DeduplicationFilter suppresses repeat notifications for event types that
// get re-derived periodically (cross-comments and everything emitted from a
// sweep). Dedup replaces mutual exclusion between schedulers: a re-run simply
// finds the existing row and skips.
type DeduplicationFilter struct {
	notifications repository.NotificationRepository
	lookback      time.Duration
}

// NewDeduplicationFilter creates a filter with the standard lookback window
func NewDeduplicationFilter(notifications repository.NotificationRepository) *DeduplicationFilter {
	return &DeduplicationFilter{
		notifications: notifications,
		lookback:      DedupLookback,
	}
}

// IsDuplicate reports whether an equivalent notification already exists
// within the lookback window ending at now.
func (f *DeduplicationFilter) IsDuplicate(userID string, eventType notifdomain.EventType, relatedReportID, relatedWorkItemID string, now time.Time) (bool, error) {
	return f.notifications.ExistsRecent(userID, eventType, relatedReportID, relatedWorkItemID, now.Add(-f.lookback))
}

// dedupSubject reports whether the event type is subject to periodic
// re-evaluation and therefore runs through the filter before persisting.
func dedupSubject(t notifdomain.EventType) bool {
	switch t {
	case notifdomain.EventCrossComment,
		notifdomain.EventWorkItemOverdue,
		notifdomain.EventDeadlineApproaching,
		notifdomain.EventAdminOverdueAlert:
		return true
	}
	return false
}
