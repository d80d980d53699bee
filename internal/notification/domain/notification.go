package domain

import (
	"strings"
	"time"

	workitemdomain "hse-backend/internal/workitem/domain"
)

// EventType tags a domain event for table-driven recipient routing
type EventType string

const (
	EventReportSubmitted              EventType = "report_submitted"
	EventReportAssigned               EventType = "report_assigned"
	EventCommentAdded                 EventType = "comment_added"
	EventCrossComment                 EventType = "cross_comment"
	EventWorkItemAdded                EventType = "work_item_added"
	EventWorkItemStatusChanged        EventType = "work_item_status_changed"
	EventWorkItemAborted              EventType = "work_item_aborted"
	EventWorkItemCancelledByAdmin     EventType = "work_item_cancelled_by_admin"
	EventWorkItemOverdue              EventType = "work_item_overdue"
	EventDeadlineApproaching          EventType = "deadline_approaching"
	EventAdminActivitySummary         EventType = "admin_activity_summary"
	EventAdminOverdueAlert            EventType = "admin_overdue_alert"
	EventDelegationCreated            EventType = "delegation_created"
	EventDelegationEnded              EventType = "delegation_ended"
	EventRegistrationRequestSubmitted EventType = "registration_request_submitted"
)

// Event carries an event type tag plus references to the triggering entities
// and actor. Empty fields simply do not apply to the type.
type Event struct {
	Type         EventType
	ActorID      string
	IsAdminActor bool
	ReportID     string
	WorkItemID   string
	WorkItemKind workitemdomain.Kind
	DelegationID string
	RequestID    string
	OldStatus    string
	NewStatus    string
	// Message optionally overrides the generated notification body
	// (used by aggregate alerts that already know their text).
	Message string
}

// Notification is one routed delivery of an event to one recipient. Rows are
// immutable once created except for the read flag and email-sent marker.
type Notification struct {
	ID                string     `json:"id" gorm:"primaryKey"`
	UserID            string     `json:"user_id" gorm:"index;not null"`
	Type              EventType  `json:"type" gorm:"index;not null"`
	Title             string     `json:"title" gorm:"not null"`
	Message           string     `json:"message" gorm:"type:text"`
	RelatedReportID   *string    `json:"related_report_id,omitempty" gorm:"index"`
	RelatedWorkItemID *string    `json:"related_work_item_id,omitempty" gorm:"index"`
	TriggeredByUserID *string    `json:"triggered_by_user_id,omitempty"`
	IsRead            bool       `json:"is_read" gorm:"index;default:false"`
	ReadAt            *time.Time `json:"read_at,omitempty"`
	IsEmailSent       bool       `json:"is_email_sent" gorm:"default:false"`
	CreatedAt         time.Time  `json:"created_at" gorm:"index"`
}

// EmailLogStatus marks the outcome of one send attempt
type EmailLogStatus string

const (
	EmailStatusSent   EmailLogStatus = "sent"
	EmailStatusFailed EmailLogStatus = "failed"
)

// EmailLog records one outbound email attempt
type EmailLog struct {
	ID        string         `json:"id" gorm:"primaryKey"`
	Recipient string         `json:"recipient" gorm:"index;not null"`
	Subject   string         `json:"subject"`
	Type      string         `json:"type" gorm:"index"`
	Status    EmailLogStatus `json:"status" gorm:"index;not null"`
	Error     string         `json:"error,omitempty" gorm:"type:text"`
	CreatedAt time.Time      `json:"created_at"`
	SentAt    *time.Time     `json:"sent_at,omitempty"`
}

// DigestConfig is the single mutable settings row gating email delivery and
// digest cadence. Any update must be followed by a digest timer reset.
type DigestConfig struct {
	ID                int  `json:"id" gorm:"primaryKey"`
	IsEmailingEnabled bool `json:"is_emailing_enabled" gorm:"default:true"`

	HSEDigestEnabled     bool `json:"hse_digest_enabled" gorm:"default:true"`
	AdminDigestEnabled   bool `json:"admin_digest_enabled" gorm:"default:true"`
	HSEIntervalMinutes   int  `json:"hse_interval_minutes" gorm:"default:360"`
	AdminIntervalMinutes int  `json:"admin_interval_minutes" gorm:"default:720"`

	EmailOnReportEvents       bool `json:"email_on_report_events" gorm:"default:true"`
	EmailOnWorkItemEvents     bool `json:"email_on_work_item_events" gorm:"default:true"`
	EmailOnDeadlineEvents     bool `json:"email_on_deadline_events" gorm:"default:true"`
	EmailOnDelegationEvents   bool `json:"email_on_delegation_events" gorm:"default:true"`
	EmailOnRegistrationEvents bool `json:"email_on_registration_events" gorm:"default:true"`

	// Comma-separated user IDs restricting admin-facing sends; empty means
	// all active admins.
	RestrictedAdminRecipientIDs string `json:"restricted_admin_recipient_ids,omitempty"`

	UpdatedAt time.Time `json:"updated_at"`
}

// RestrictedAdminIDs parses the restricted recipient list
func (c *DigestConfig) RestrictedAdminIDs() []string {
	if strings.TrimSpace(c.RestrictedAdminRecipientIDs) == "" {
		return nil
	}
	parts := strings.Split(c.RestrictedAdminRecipientIDs, ",")
	ids := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			ids = append(ids, trimmed)
		}
	}
	return ids
}

// EmailEnabledFor reports whether immediate email is enabled for the event
// type's category. The global switch is checked separately.
func (c *DigestConfig) EmailEnabledFor(t EventType) bool {
	switch t {
	case EventReportSubmitted, EventReportAssigned, EventCommentAdded, EventCrossComment:
		return c.EmailOnReportEvents
	case EventWorkItemAdded, EventWorkItemStatusChanged, EventWorkItemAborted, EventWorkItemCancelledByAdmin:
		return c.EmailOnWorkItemEvents
	case EventWorkItemOverdue, EventDeadlineApproaching, EventAdminOverdueAlert, EventAdminActivitySummary:
		return c.EmailOnDeadlineEvents
	case EventDelegationCreated, EventDelegationEnded:
		return c.EmailOnDelegationEvents
	case EventRegistrationRequestSubmitted:
		return c.EmailOnRegistrationEvents
	}
	return false
}
