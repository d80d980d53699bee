package usecase

import (
	"fmt"
	"log"
	"time"

	authdomain "hse-backend/internal/auth/domain"
	authrepo "hse-backend/internal/auth/repository"
	notifdomain "hse-backend/internal/notification/domain"
	notifrepo "hse-backend/internal/notification/repository"
	reportrepo "hse-backend/internal/report/repository"
	workitemdomain "hse-backend/internal/workitem/domain"
	workitemrepo "hse-backend/internal/workitem/repository"
	zonerepo "hse-backend/internal/zone/repository"
	"hse-backend/internal/zone/resolver"
	"hse-backend/pkg/mailer"
)

// recipient is one target of an event. A monitoring copy suppresses the
// email side effect but still persists the notification row.
type recipient struct {
	UserID        string
	SuppressEmail bool
}

// recipientResolverFunc maps an event to its recipient set
type recipientResolverFunc func(event notifdomain.Event) ([]recipient, error)

// Router fans domain events out to recipient sets. Dispatch is table-driven:
// every event type has exactly one recipient resolver. Notification rows and
// email delivery are independent best-effort channels; an email failure never
// rolls back an already-persisted notification.
type Router struct {
	users         authrepo.UserRepository
	zoneResolver  *resolver.Resolver
	delegations   zonerepo.ZoneDelegationRepository
	reports       reportrepo.ReportRepository
	comments      reportrepo.CommentRepository
	items         map[workitemdomain.Kind]workitemrepo.WorkItemRepository
	notifications notifrepo.NotificationRepository
	emailLogs     notifrepo.EmailLogRepository
	configRepo    notifrepo.DigestConfigRepository
	mail          mailer.Transport
	dedup         *DeduplicationFilter

	routes map[notifdomain.EventType]recipientResolverFunc
	now    func() time.Time
}

// NewRouter creates a Router with the full event routing table registered
func NewRouter(
	users authrepo.UserRepository,
	zoneResolver *resolver.Resolver,
	delegations zonerepo.ZoneDelegationRepository,
	reports reportrepo.ReportRepository,
	comments reportrepo.CommentRepository,
	itemRepos []workitemrepo.WorkItemRepository,
	notifications notifrepo.NotificationRepository,
	emailLogs notifrepo.EmailLogRepository,
	configRepo notifrepo.DigestConfigRepository,
	mail mailer.Transport,
) *Router {
	items := make(map[workitemdomain.Kind]workitemrepo.WorkItemRepository, len(itemRepos))
	for _, repo := range itemRepos {
		items[repo.Kind()] = repo
	}

	r := &Router{
		users:         users,
		zoneResolver:  zoneResolver,
		delegations:   delegations,
		reports:       reports,
		comments:      comments,
		items:         items,
		notifications: notifications,
		emailLogs:     emailLogs,
		configRepo:    configRepo,
		mail:          mail,
		dedup:         NewDeduplicationFilter(notifications),
		now:           time.Now,
	}

	r.routes = map[notifdomain.EventType]recipientResolverFunc{
		notifdomain.EventReportSubmitted:              r.resolveZoneOwners,
		notifdomain.EventReportAssigned:               r.resolveAssignedOwner,
		notifdomain.EventCommentAdded:                 r.resolveReportParticipants,
		notifdomain.EventCrossComment:                 r.resolvePriorCommenters,
		notifdomain.EventWorkItemAdded:                r.resolveItemAssignee,
		notifdomain.EventWorkItemStatusChanged:        r.resolveItemParticipants,
		notifdomain.EventWorkItemAborted:              r.resolveAbortAudience,
		notifdomain.EventWorkItemCancelledByAdmin:     r.resolveAbortAudience,
		notifdomain.EventWorkItemOverdue:              r.resolveDeadlineAudience,
		notifdomain.EventDeadlineApproaching:          r.resolveDeadlineAudience,
		notifdomain.EventAdminActivitySummary:         r.resolveAdmins,
		notifdomain.EventAdminOverdueAlert:            r.resolveAdmins,
		notifdomain.EventDelegationCreated:            r.resolveDelegationParties,
		notifdomain.EventDelegationEnded:              r.resolveDelegationParties,
		notifdomain.EventRegistrationRequestSubmitted: r.resolveAdmins,
	}
	return r
}

// adminAuditEvent reports whether the type is an admin audit event. Admin
// audit events are never self-suppressed.
func adminAuditEvent(t notifdomain.EventType) bool {
	return t == notifdomain.EventAdminActivitySummary || t == notifdomain.EventAdminOverdueAlert
}

// Dispatch routes one event: resolve recipients, drop the actor, dedup,
// persist one notification per recipient, then best-effort email.
func (r *Router) Dispatch(event notifdomain.Event) error {
	route, ok := r.routes[event.Type]
	if !ok {
		log.Printf("[NotificationRouter] No route registered for event type %q, dropping", event.Type)
		return nil
	}

	recipients, err := route(event)
	if err != nil {
		return fmt.Errorf("failed to resolve recipients for %s: %w", event.Type, err)
	}

	recipients = dedupRecipients(recipients)
	if !adminAuditEvent(event.Type) && event.ActorID != "" {
		recipients = dropActor(recipients, event.ActorID)
	}
	if len(recipients) == 0 {
		return nil
	}

	config, err := r.configRepo.Get()
	if err != nil {
		// Email gating is unavailable; notifications still persist.
		log.Printf("[NotificationRouter] Error loading digest config, skipping email side effects: %v", err)
		config = nil
	}

	title, message := r.buildContent(event)
	now := r.now()

	for _, rcpt := range recipients {
		if dedupSubject(event.Type) {
			dup, err := r.dedup.IsDuplicate(rcpt.UserID, event.Type, event.ReportID, event.WorkItemID, now)
			if err != nil {
				log.Printf("[NotificationRouter] Dedup check failed for user %s on %s: %v", rcpt.UserID, event.Type, err)
				continue
			}
			if dup {
				continue
			}
		}

		notification := &notifdomain.Notification{
			UserID:    rcpt.UserID,
			Type:      event.Type,
			Title:     title,
			Message:   message,
			CreatedAt: now,
		}
		if event.ReportID != "" {
			id := event.ReportID
			notification.RelatedReportID = &id
		}
		if event.WorkItemID != "" {
			id := event.WorkItemID
			notification.RelatedWorkItemID = &id
		}
		if event.ActorID != "" {
			actor := event.ActorID
			notification.TriggeredByUserID = &actor
		}

		if err := r.notifications.Create(notification); err != nil {
			log.Printf("[NotificationRouter] Error persisting notification for user %s on %s: %v",
				rcpt.UserID, event.Type, err)
			continue
		}

		if config == nil || !config.IsEmailingEnabled || !config.EmailEnabledFor(event.Type) || rcpt.SuppressEmail {
			continue
		}
		r.sendEmail(notification)
	}

	return nil
}

// sendEmail delivers one notification by email, logging the attempt. Failures
// are recorded and swallowed: delivery is best-effort per recipient.
func (r *Router) sendEmail(notification *notifdomain.Notification) {
	user, err := r.users.FindByID(notification.UserID)
	if err != nil || user == nil || !user.Active {
		if err != nil {
			log.Printf("[NotificationRouter] Error looking up email recipient %s: %v", notification.UserID, err)
		}
		return
	}

	body := fmt.Sprintf("<p>%s</p>", notification.Message)
	entry := &notifdomain.EmailLog{
		Recipient: user.Email,
		Subject:   notification.Title,
		Type:      string(notification.Type),
	}

	if err := r.mail.Send(user.Email, notification.Title, body); err != nil {
		log.Printf("[NotificationRouter] Error sending email to %s: %v", user.Email, err)
		entry.Status = notifdomain.EmailStatusFailed
		entry.Error = err.Error()
	} else {
		now := r.now()
		entry.Status = notifdomain.EmailStatusSent
		entry.SentAt = &now
		if err := r.notifications.MarkEmailSent(notification.ID); err != nil {
			log.Printf("[NotificationRouter] Error marking notification %s email-sent: %v", notification.ID, err)
		}
	}

	if err := r.emailLogs.Create(entry); err != nil {
		log.Printf("[NotificationRouter] Error writing email log for %s: %v", user.Email, err)
	}
}

// --- recipient resolvers ---

func (r *Router) resolveZoneOwners(event notifdomain.Event) ([]recipient, error) {
	report, err := r.reports.FindByID(event.ReportID)
	if err != nil {
		return nil, err
	}
	if report == nil {
		log.Printf("[NotificationRouter] Report %s not found, no recipients", event.ReportID)
		return nil, nil
	}
	owners, err := r.zoneResolver.ResolveByCode(report.ZoneCode, r.now())
	if err != nil {
		return nil, err
	}
	return asRecipients(owners), nil
}

func (r *Router) resolveAssignedOwner(event notifdomain.Event) ([]recipient, error) {
	report, err := r.reports.FindByID(event.ReportID)
	if err != nil || report == nil {
		return nil, err
	}
	if report.AssignedOwnerID == nil {
		return nil, nil
	}
	return []recipient{{UserID: *report.AssignedOwnerID}}, nil
}

func (r *Router) resolveReportParticipants(event notifdomain.Event) ([]recipient, error) {
	report, err := r.reports.FindByID(event.ReportID)
	if err != nil || report == nil {
		return nil, err
	}
	var recipients []recipient
	if report.AssignedOwnerID != nil {
		recipients = append(recipients, recipient{UserID: *report.AssignedOwnerID})
	}
	recipients = append(recipients, recipient{UserID: report.ReporterID})
	return recipients, nil
}

func (r *Router) resolvePriorCommenters(event notifdomain.Event) ([]recipient, error) {
	commenters, err := r.comments.DistinctCommenters(event.ReportID)
	if err != nil {
		return nil, err
	}
	return asRecipients(commenters), nil
}

func (r *Router) resolveItemAssignee(event notifdomain.Event) ([]recipient, error) {
	item, err := r.findItem(event)
	if err != nil || item == nil {
		return nil, err
	}
	if assignee := item.AssigneeID(); assignee != nil {
		return []recipient{{UserID: *assignee}}, nil
	}
	return r.reportOwner(item.ReportRef())
}

func (r *Router) resolveItemParticipants(event notifdomain.Event) ([]recipient, error) {
	item, err := r.findItem(event)
	if err != nil || item == nil {
		return nil, err
	}
	recipients, err := r.reportOwner(item.ReportRef())
	if err != nil {
		return nil, err
	}
	recipients = append(recipients, recipient{UserID: item.CreatorID()})
	return recipients, nil
}

// resolveAbortAudience targets the report's current owner. For an
// admin-initiated abort of an HSE-authored item the author additionally gets
// a monitoring copy without email.
func (r *Router) resolveAbortAudience(event notifdomain.Event) ([]recipient, error) {
	item, err := r.findItem(event)
	if err != nil || item == nil {
		return nil, err
	}
	recipients, err := r.reportOwner(item.ReportRef())
	if err != nil {
		return nil, err
	}
	if event.IsAdminActor {
		creator, err := r.users.FindByID(item.CreatorID())
		if err != nil {
			return nil, err
		}
		if creator != nil && creator.Role == authdomain.RoleHSE {
			recipients = append(recipients, recipient{UserID: creator.ID, SuppressEmail: true})
		}
	}
	return recipients, nil
}

// resolveDeadlineAudience unions the item creator, the report owner and the
// assignee; a user occupying two roles still appears once.
func (r *Router) resolveDeadlineAudience(event notifdomain.Event) ([]recipient, error) {
	item, err := r.findItem(event)
	if err != nil || item == nil {
		return nil, err
	}
	recipients := []recipient{{UserID: item.CreatorID()}}
	if assignee := item.AssigneeID(); assignee != nil {
		recipients = append(recipients, recipient{UserID: *assignee})
	}
	owner, err := r.reportOwner(item.ReportRef())
	if err != nil {
		return nil, err
	}
	return append(recipients, owner...), nil
}

// resolveAdmins targets every active admin, or the configured restricted
// subset when one is set.
func (r *Router) resolveAdmins(event notifdomain.Event) ([]recipient, error) {
	config, err := r.configRepo.Get()
	if err != nil {
		return nil, err
	}
	if restricted := config.RestrictedAdminIDs(); len(restricted) > 0 {
		return asRecipients(restricted), nil
	}
	admins, err := r.users.FindActiveByRole(authdomain.RoleAdmin)
	if err != nil {
		return nil, err
	}
	recipients := make([]recipient, 0, len(admins))
	for _, admin := range admins {
		recipients = append(recipients, recipient{UserID: admin.ID})
	}
	return recipients, nil
}

func (r *Router) resolveDelegationParties(event notifdomain.Event) ([]recipient, error) {
	delegation, err := r.delegations.FindByID(event.DelegationID)
	if err != nil {
		return nil, err
	}
	if delegation == nil {
		log.Printf("[NotificationRouter] Delegation %s not found, no recipients", event.DelegationID)
		return nil, nil
	}
	return []recipient{{UserID: delegation.FromUserID}, {UserID: delegation.ToUserID}}, nil
}

// --- helpers ---

func (r *Router) findItem(event notifdomain.Event) (workitemdomain.TrackedItem, error) {
	repo, ok := r.items[event.WorkItemKind]
	if !ok {
		log.Printf("[NotificationRouter] Unknown work item kind %q", event.WorkItemKind)
		return nil, nil
	}
	item, err := repo.FindByID(event.WorkItemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		log.Printf("[NotificationRouter] %s %s not found, no recipients", event.WorkItemKind, event.WorkItemID)
	}
	return item, nil
}

func (r *Router) reportOwner(reportID string) ([]recipient, error) {
	if reportID == "" {
		return nil, nil
	}
	report, err := r.reports.FindByID(reportID)
	if err != nil || report == nil {
		return nil, err
	}
	if report.AssignedOwnerID == nil {
		return nil, nil
	}
	return []recipient{{UserID: *report.AssignedOwnerID}}, nil
}

func asRecipients(userIDs []string) []recipient {
	recipients := make([]recipient, 0, len(userIDs))
	for _, id := range userIDs {
		recipients = append(recipients, recipient{UserID: id})
	}
	return recipients
}

func dedupRecipients(recipients []recipient) []recipient {
	seen := make(map[string]bool, len(recipients))
	out := recipients[:0]
	for _, rcpt := range recipients {
		if rcpt.UserID == "" || seen[rcpt.UserID] {
			continue
		}
		seen[rcpt.UserID] = true
		out = append(out, rcpt)
	}
	return out
}

func dropActor(recipients []recipient, actorID string) []recipient {
	out := recipients[:0]
	for _, rcpt := range recipients {
		if rcpt.UserID != actorID {
			out = append(out, rcpt)
		}
	}
	return out
}
