package usecase

import (
	"fmt"

	notifdomain "hse-backend/internal/notification/domain"
)

// buildContent produces the human-readable title and message for an event.
// Entity lookups are best-effort: a missing report or item falls back to its
// ID so content generation never blocks dispatch.
func (r *Router) buildContent(event notifdomain.Event) (string, string) {
	if event.Message != "" {
		return defaultTitle(event.Type), event.Message
	}

	reportLabel := event.ReportID
	if event.ReportID != "" {
		if report, err := r.reports.FindByID(event.ReportID); err == nil && report != nil {
			reportLabel = report.Title
		}
	}

	itemLabel := event.WorkItemID
	if event.WorkItemID != "" {
		if item, err := r.findItem(event); err == nil && item != nil {
			itemLabel = item.Label()
		}
	}

	switch event.Type {
	case notifdomain.EventReportSubmitted:
		return "New report in your zone", fmt.Sprintf("Report %q was submitted in a zone you are responsible for.", reportLabel)
	case notifdomain.EventReportAssigned:
		return "Report assigned to you", fmt.Sprintf("Report %q has been assigned to you.", reportLabel)
	case notifdomain.EventCommentAdded:
		return "New comment", fmt.Sprintf("A new comment was added on report %q.", reportLabel)
	case notifdomain.EventCrossComment:
		return "New comment on a discussed report", fmt.Sprintf("Someone commented on report %q, which you have commented on.", reportLabel)
	case notifdomain.EventWorkItemAdded:
		return "New work item", fmt.Sprintf("Work item %q was added on report %q.", itemLabel, reportLabel)
	case notifdomain.EventWorkItemStatusChanged:
		return "Work item status changed", fmt.Sprintf("Work item %q moved from %s to %s.", itemLabel, event.OldStatus, event.NewStatus)
	case notifdomain.EventWorkItemAborted:
		return "Work item aborted", fmt.Sprintf("Work item %q on report %q was aborted.", itemLabel, reportLabel)
	case notifdomain.EventWorkItemCancelledByAdmin:
		return "Work item cancelled", fmt.Sprintf("Work item %q on report %q was cancelled by an administrator.", itemLabel, reportLabel)
	case notifdomain.EventWorkItemOverdue:
		return "Work item overdue", fmt.Sprintf("Work item %q on report %q is overdue.", itemLabel, reportLabel)
	case notifdomain.EventDeadlineApproaching:
		return "Deadline approaching", fmt.Sprintf("Work item %q on report %q is due soon.", itemLabel, reportLabel)
	case notifdomain.EventAdminOverdueAlert:
		return "Overdue work items", "There are overdue work items requiring attention."
	case notifdomain.EventAdminActivitySummary:
		return "Activity summary", "Recent platform activity requires review."
	case notifdomain.EventDelegationCreated:
		return "Zone delegation started", "A zone responsibility delegation involving you is now in effect."
	case notifdomain.EventDelegationEnded:
		return "Zone delegation ended", "A zone responsibility delegation involving you has ended."
	case notifdomain.EventRegistrationRequestSubmitted:
		return "New registration request", "A new registration request is awaiting review."
	}
	return defaultTitle(event.Type), fmt.Sprintf("Event %s occurred.", event.Type)
}

func defaultTitle(t notifdomain.EventType) string {
	switch t {
	case notifdomain.EventAdminOverdueAlert:
		return "Overdue work items"
	case notifdomain.EventAdminActivitySummary:
		return "Activity summary"
	}
	return "Notification"
}
