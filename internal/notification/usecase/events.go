package usecase

import (
	"fmt"
	"log"

	notifdomain "hse-backend/internal/notification/domain"
	reportrepo "hse-backend/internal/report/repository"
	reportusecase "hse-backend/internal/report/usecase"
	workitemdomain "hse-backend/internal/workitem/domain"
	zonerepo "hse-backend/internal/zone/repository"
)

// EventGateway is the inbound surface the CRUD layer calls synchronously
// right after its own transaction commits. None of these methods propagate
// routing or delivery failures back into the CRUD operation; errors are
// logged and swallowed once the triggering entity is loaded.
type EventGateway struct {
	router      *Router
	assignment  *reportusecase.AssignmentEngine
	reports     reportrepo.ReportRepository
	delegations zonerepo.ZoneDelegationRepository
}

// NewEventGateway creates a new EventGateway
func NewEventGateway(
	router *Router,
	assignment *reportusecase.AssignmentEngine,
	reports reportrepo.ReportRepository,
	delegations zonerepo.ZoneDelegationRepository,
) *EventGateway {
	return &EventGateway{
		router:      router,
		assignment:  assignment,
		reports:     reports,
		delegations: delegations,
	}
}

// ReportCreated auto-assigns the new report, then emits ReportSubmitted.
// Assignment failure (including an empty owner set) never fails report
// creation; the report just stays visible to admins only.
func (g *EventGateway) ReportCreated(reportID string) error {
	report, err := g.reports.FindByID(reportID)
	if err != nil {
		return fmt.Errorf("failed to load report %s: %w", reportID, err)
	}
	if report == nil {
		return fmt.Errorf("report %s not found", reportID)
	}

	if _, err := g.assignment.AutoAssign(report); err != nil {
		log.Printf("[EventGateway] Error auto-assigning report %s: %v", reportID, err)
	}

	g.dispatch(notifdomain.Event{
		Type:     notifdomain.EventReportSubmitted,
		ReportID: reportID,
		ActorID:  report.ReporterID,
	})
	return nil
}

// ReportReassigned emits ReportAssigned to the new owner
func (g *EventGateway) ReportReassigned(reportID, actorID string) {
	g.dispatch(notifdomain.Event{
		Type:     notifdomain.EventReportAssigned,
		ReportID: reportID,
		ActorID:  actorID,
	})
}

// CommentCreated emits CommentAdded to the report participants and
// CrossComment to every other prior commenter.
func (g *EventGateway) CommentCreated(reportID, authorID string) {
	g.dispatch(notifdomain.Event{
		Type:     notifdomain.EventCommentAdded,
		ReportID: reportID,
		ActorID:  authorID,
	})
	g.dispatch(notifdomain.Event{
		Type:     notifdomain.EventCrossComment,
		ReportID: reportID,
		ActorID:  authorID,
	})
}

// WorkItemCreated emits WorkItemAdded
func (g *EventGateway) WorkItemCreated(itemID string, kind workitemdomain.Kind, reportID, actorID string) {
	g.dispatch(notifdomain.Event{
		Type:         notifdomain.EventWorkItemAdded,
		WorkItemID:   itemID,
		WorkItemKind: kind,
		ReportID:     reportID,
		ActorID:      actorID,
	})
}

// WorkItemStatusChanged emits the status-change event
func (g *EventGateway) WorkItemStatusChanged(itemID string, kind workitemdomain.Kind, reportID, oldStatus, newStatus, actorID string) {
	g.dispatch(notifdomain.Event{
		Type:         notifdomain.EventWorkItemStatusChanged,
		WorkItemID:   itemID,
		WorkItemKind: kind,
		ReportID:     reportID,
		OldStatus:    oldStatus,
		NewStatus:    newStatus,
		ActorID:      actorID,
	})
}

// WorkItemAborted emits WorkItemAborted
func (g *EventGateway) WorkItemAborted(itemID string, kind workitemdomain.Kind, reportID, actorID string, isAdminActor bool) {
	g.dispatch(notifdomain.Event{
		Type:         notifdomain.EventWorkItemAborted,
		WorkItemID:   itemID,
		WorkItemKind: kind,
		ReportID:     reportID,
		ActorID:      actorID,
		IsAdminActor: isAdminActor,
	})
}

// WorkItemCancelled emits WorkItemCancelledByAdmin for admin actors and the
// plain abort event otherwise.
func (g *EventGateway) WorkItemCancelled(itemID string, kind workitemdomain.Kind, reportID, actorID string, isAdminActor bool) {
	eventType := notifdomain.EventWorkItemAborted
	if isAdminActor {
		eventType = notifdomain.EventWorkItemCancelledByAdmin
	}
	g.dispatch(notifdomain.Event{
		Type:         eventType,
		WorkItemID:   itemID,
		WorkItemKind: kind,
		ReportID:     reportID,
		ActorID:      actorID,
		IsAdminActor: isAdminActor,
	})
}

// DelegationCreated notifies both delegation parties
func (g *EventGateway) DelegationCreated(delegationID string) {
	g.dispatchDelegation(notifdomain.EventDelegationCreated, delegationID)
}

// DelegationEnded notifies both delegation parties
func (g *EventGateway) DelegationEnded(delegationID string) {
	g.dispatchDelegation(notifdomain.EventDelegationEnded, delegationID)
}

func (g *EventGateway) dispatchDelegation(eventType notifdomain.EventType, delegationID string) {
	delegation, err := g.delegations.FindByID(delegationID)
	if err != nil {
		log.Printf("[EventGateway] Error loading delegation %s: %v", delegationID, err)
		return
	}
	var actorID string
	if delegation != nil {
		actorID = delegation.CreatedByAdminID
	}
	g.dispatch(notifdomain.Event{
		Type:         eventType,
		DelegationID: delegationID,
		ActorID:      actorID,
		IsAdminActor: actorID != "",
	})
}

// RegistrationRequestSubmitted notifies active admins of the pending request
func (g *EventGateway) RegistrationRequestSubmitted(requestID string) {
	g.dispatch(notifdomain.Event{
		Type:      notifdomain.EventRegistrationRequestSubmitted,
		RequestID: requestID,
	})
}

func (g *EventGateway) dispatch(event notifdomain.Event) {
	if err := g.router.Dispatch(event); err != nil {
		log.Printf("[EventGateway] Error dispatching %s: %v", event.Type, err)
	}
}
