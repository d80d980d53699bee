package usecase

import (
	"fmt"
	"testing"
	"time"

	authdomain "hse-backend/internal/auth/domain"
	notifdomain "hse-backend/internal/notification/domain"
	reportdomain "hse-backend/internal/report/domain"
	workitemdomain "hse-backend/internal/workitem/domain"
	workitemrepo "hse-backend/internal/workitem/repository"
	zonedomain "hse-backend/internal/zone/domain"
	"hse-backend/internal/zone/resolver"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- fakes ---

type fakeUserRepo struct {
	users []*authdomain.User
}

func (f *fakeUserRepo) Create(user *authdomain.User) error { return nil }

func (f *fakeUserRepo) FindByID(id string) (*authdomain.User, error) {
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) FindByEmail(email string) (*authdomain.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) FindByIDs(ids []string) ([]*authdomain.User, error) {
	var out []*authdomain.User
	for _, id := range ids {
		for _, u := range f.users {
			if u.ID == id {
				out = append(out, u)
			}
		}
	}
	return out, nil
}

func (f *fakeUserRepo) FindActiveByRole(role authdomain.Role) ([]*authdomain.User, error) {
	var out []*authdomain.User
	for _, u := range f.users {
		if u.Role == role && u.Active {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *fakeUserRepo) Update(user *authdomain.User) error { return nil }

func (f *fakeUserRepo) CreateRegistrationRequest(req *authdomain.RegistrationRequest) error {
	return nil
}

func (f *fakeUserRepo) FindRegistrationRequest(id string) (*authdomain.RegistrationRequest, error) {
	return nil, nil
}

type fakeZoneRepo struct {
	zones []*zonedomain.Zone
}

func (f *fakeZoneRepo) Create(zone *zonedomain.Zone) error { return nil }

func (f *fakeZoneRepo) FindByID(id string) (*zonedomain.Zone, error) {
	for _, z := range f.zones {
		if z.ID == id {
			return z, nil
		}
	}
	return nil, nil
}

func (f *fakeZoneRepo) FindByCode(code string) (*zonedomain.Zone, error) {
	for _, z := range f.zones {
		if z.Code == code {
			return z, nil
		}
	}
	return nil, nil
}

func (f *fakeZoneRepo) FindByIDs(ids []string) ([]*zonedomain.Zone, error) { return nil, nil }

type fakeRespRepo struct {
	responsibilities []*zonedomain.ZoneResponsibility
}

func (f *fakeRespRepo) Create(resp *zonedomain.ZoneResponsibility) error { return nil }

func (f *fakeRespRepo) FindActiveByZone(zoneID string) ([]*zonedomain.ZoneResponsibility, error) {
	var out []*zonedomain.ZoneResponsibility
	for _, r := range f.responsibilities {
		if r.ZoneID == zoneID && r.Active {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRespRepo) FindActiveByUser(userID string) ([]*zonedomain.ZoneResponsibility, error) {
	return nil, nil
}

type fakeDelegationRepo struct {
	delegations []*zonedomain.ZoneDelegation
}

func (f *fakeDelegationRepo) Create(d *zonedomain.ZoneDelegation) error { return nil }

func (f *fakeDelegationRepo) FindByID(id string) (*zonedomain.ZoneDelegation, error) {
	for _, d := range f.delegations {
		if d.ID == id {
			return d, nil
		}
	}
	return nil, nil
}

func (f *fakeDelegationRepo) FindActiveForZoneAt(zoneID string, at time.Time) ([]*zonedomain.ZoneDelegation, error) {
	var out []*zonedomain.ZoneDelegation
	for _, d := range f.delegations {
		if d.ZoneID == zoneID && d.Covers(at) {
			out = append(out, d)
		}
	}
	return out, nil
}

func (f *fakeDelegationRepo) FindActiveAt(at time.Time) ([]*zonedomain.ZoneDelegation, error) {
	var out []*zonedomain.ZoneDelegation
	for _, d := range f.delegations {
		if d.Covers(at) {
			out = append(out, d)
		}
	}
	return out, nil
}

func (f *fakeDelegationRepo) Update(delegation *zonedomain.ZoneDelegation) error { return nil }

type fakeReportRepo struct {
	reports []*reportdomain.Report
}

func (f *fakeReportRepo) Create(report *reportdomain.Report) error { return nil }

func (f *fakeReportRepo) FindByID(id string) (*reportdomain.Report, error) {
	for _, r := range f.reports {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, nil
}

func (f *fakeReportRepo) FindByIDs(ids []string) ([]*reportdomain.Report, error) { return nil, nil }

func (f *fakeReportRepo) Update(report *reportdomain.Report) error { return nil }

func (f *fakeReportRepo) AssignOwner(reportID, ownerID string) error { return nil }

func (f *fakeReportRepo) CountByStatusAndZoneCodes(status reportdomain.ReportStatus, zoneCodes []string) (int64, error) {
	return 0, nil
}

func (f *fakeReportRepo) CountByStatus(status reportdomain.ReportStatus) (int64, error) {
	return 0, nil
}

type fakeCommentRepo struct {
	commenters map[string][]string
}

func (f *fakeCommentRepo) Create(comment *reportdomain.Comment) error { return nil }

func (f *fakeCommentRepo) FindByReport(reportID string) ([]*reportdomain.Comment, error) {
	return nil, nil
}

func (f *fakeCommentRepo) DistinctCommenters(reportID string) ([]string, error) {
	return f.commenters[reportID], nil
}

type fakeItem struct {
	id       string
	kind     workitemdomain.Kind
	title    string
	status   workitemdomain.Status
	dueDate  *time.Time
	overdue  bool
	creator  string
	assignee *string
	reportID string
}

func (i *fakeItem) ItemID() string                       { return i.id }
func (i *fakeItem) ItemKind() workitemdomain.Kind        { return i.kind }
func (i *fakeItem) Label() string                        { return i.title }
func (i *fakeItem) CurrentStatus() workitemdomain.Status { return i.status }
func (i *fakeItem) DueAt() *time.Time                    { return i.dueDate }
func (i *fakeItem) IsOverdue() bool                      { return i.overdue }
func (i *fakeItem) CreatorID() string                    { return i.creator }
func (i *fakeItem) AssigneeID() *string                  { return i.assignee }
func (i *fakeItem) ReportRef() string                    { return i.reportID }

type fakeItemRepo struct {
	kind  workitemdomain.Kind
	items []*fakeItem
}

func (f *fakeItemRepo) Kind() workitemdomain.Kind { return f.kind }

func (f *fakeItemRepo) Create(item workitemdomain.TrackedItem) error { return nil }

func (f *fakeItemRepo) FindByID(id string) (workitemdomain.TrackedItem, error) {
	for _, item := range f.items {
		if item.id == id {
			return item, nil
		}
	}
	return nil, nil
}

func (f *fakeItemRepo) FindNewlyOverdue(now time.Time) ([]workitemdomain.TrackedItem, error) {
	return nil, nil
}

func (f *fakeItemRepo) FindFlaggedTerminal() ([]workitemdomain.TrackedItem, error) {
	return nil, nil
}

func (f *fakeItemRepo) SetOverdue(ids []string, flag bool) (int64, error) { return 0, nil }

func (f *fakeItemRepo) UpdateStatus(id string, status workitemdomain.Status) error { return nil }

func (f *fakeItemRepo) FindOverdueOpen() ([]workitemdomain.TrackedItem, error) { return nil, nil }

func (f *fakeItemRepo) FindApproaching(now time.Time, window time.Duration) ([]workitemdomain.TrackedItem, error) {
	return nil, nil
}

type fakeNotificationRepo struct {
	notifications []*notifdomain.Notification
	nextID        int
}

func (f *fakeNotificationRepo) Create(n *notifdomain.Notification) error {
	f.nextID++
	n.ID = fmt.Sprintf("n-%d", f.nextID)
	f.notifications = append(f.notifications, n)
	return nil
}

func (f *fakeNotificationRepo) FindByID(id string) (*notifdomain.Notification, error) {
	for _, n := range f.notifications {
		if n.ID == id {
			return n, nil
		}
	}
	return nil, nil
}

func (f *fakeNotificationRepo) FindByUser(userID string, page, pageSize int) ([]*notifdomain.Notification, int64, error) {
	var out []*notifdomain.Notification
	for _, n := range f.notifications {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeNotificationRepo) ExistsRecent(userID string, eventType notifdomain.EventType, relatedReportID, relatedWorkItemID string, since time.Time) (bool, error) {
	for _, n := range f.notifications {
		if n.UserID != userID || n.Type != eventType || n.CreatedAt.Before(since) {
			continue
		}
		if relatedReportID != "" && (n.RelatedReportID == nil || *n.RelatedReportID != relatedReportID) {
			continue
		}
		if relatedWorkItemID != "" && (n.RelatedWorkItemID == nil || *n.RelatedWorkItemID != relatedWorkItemID) {
			continue
		}
		return true, nil
	}
	return false, nil
}

func (f *fakeNotificationRepo) MarkRead(notificationID, userID string) error { return nil }

func (f *fakeNotificationRepo) MarkAllRead(userID string) error { return nil }

func (f *fakeNotificationRepo) UnreadCount(userID string) (int64, error) { return 0, nil }

func (f *fakeNotificationRepo) MarkEmailSent(notificationID string) error {
	for _, n := range f.notifications {
		if n.ID == notificationID {
			n.IsEmailSent = true
		}
	}
	return nil
}

func (f *fakeNotificationRepo) forUser(userID string) []*notifdomain.Notification {
	var out []*notifdomain.Notification
	for _, n := range f.notifications {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out
}

type fakeEmailLogRepo struct {
	entries []*notifdomain.EmailLog
}

func (f *fakeEmailLogRepo) Create(entry *notifdomain.EmailLog) error {
	f.entries = append(f.entries, entry)
	return nil
}

func (f *fakeEmailLogRepo) FindRecent(limit int) ([]*notifdomain.EmailLog, error) {
	return f.entries, nil
}

type fakeConfigRepo struct {
	config *notifdomain.DigestConfig
}

func (f *fakeConfigRepo) Get() (*notifdomain.DigestConfig, error) { return f.config, nil }

func (f *fakeConfigRepo) Update(config *notifdomain.DigestConfig) error {
	f.config = config
	return nil
}

type fakeMailer struct {
	sent []string
	fail bool
}

func (f *fakeMailer) Send(to, subject, htmlBody string) error {
	if f.fail {
		return fmt.Errorf("smtp connection refused")
	}
	f.sent = append(f.sent, to)
	return nil
}

// --- fixture ---

func enabledConfig() *notifdomain.DigestConfig {
	return &notifdomain.DigestConfig{
		ID:                        1,
		IsEmailingEnabled:         true,
		HSEDigestEnabled:          true,
		AdminDigestEnabled:        true,
		HSEIntervalMinutes:        360,
		AdminIntervalMinutes:      720,
		EmailOnReportEvents:       true,
		EmailOnWorkItemEvents:     true,
		EmailOnDeadlineEvents:     true,
		EmailOnDelegationEvents:   true,
		EmailOnRegistrationEvents: true,
	}
}

type routerFixture struct {
	router        *Router
	users         *fakeUserRepo
	zones         *fakeZoneRepo
	resps         *fakeRespRepo
	delegations   *fakeDelegationRepo
	reports       *fakeReportRepo
	comments      *fakeCommentRepo
	actions       *fakeItemRepo
	correctives   *fakeItemRepo
	notifications *fakeNotificationRepo
	emailLogs     *fakeEmailLogRepo
	config        *fakeConfigRepo
	mail          *fakeMailer
	now           time.Time
}

func newRouterFixture() *routerFixture {
	f := &routerFixture{
		users:         &fakeUserRepo{},
		zones:         &fakeZoneRepo{},
		resps:         &fakeRespRepo{},
		delegations:   &fakeDelegationRepo{},
		reports:       &fakeReportRepo{},
		comments:      &fakeCommentRepo{commenters: make(map[string][]string)},
		actions:       &fakeItemRepo{kind: workitemdomain.KindAction},
		correctives:   &fakeItemRepo{kind: workitemdomain.KindCorrectiveAction},
		notifications: &fakeNotificationRepo{},
		emailLogs:     &fakeEmailLogRepo{},
		config:        &fakeConfigRepo{config: enabledConfig()},
		mail:          &fakeMailer{},
		now:           time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
	f.router = NewRouter(
		f.users,
		resolver.NewResolver(f.zones, f.resps, f.delegations),
		f.delegations,
		f.reports,
		f.comments,
		[]workitemrepo.WorkItemRepository{f.actions, f.correctives},
		f.notifications,
		f.emailLogs,
		f.config,
		f.mail,
	)
	f.router.now = func() time.Time { return f.now }
	return f
}

func (f *routerFixture) addUser(id string, role authdomain.Role) {
	f.users.users = append(f.users.users, &authdomain.User{
		ID: id, Email: id + "@plant.example", Name: id, Role: role, Active: true,
	})
}

// --- tests ---

func TestDispatchReportSubmittedGoesToDelegateOnly(t *testing.T) {
	f := newRouterFixture()
	f.addUser("hse-1", authdomain.RoleHSE)
	f.addUser("hse-9", authdomain.RoleHSE)
	f.zones.zones = append(f.zones.zones, &zonedomain.Zone{ID: "z1", Code: "WH-A", Active: true})
	f.resps.responsibilities = append(f.resps.responsibilities,
		&zonedomain.ZoneResponsibility{ID: "r1", HSEUserID: "hse-1", ZoneID: "z1", Active: true})
	f.delegations.delegations = append(f.delegations.delegations, &zonedomain.ZoneDelegation{
		ID: "d1", FromUserID: "hse-1", ToUserID: "hse-9", ZoneID: "z1",
		StartDate: f.now.Add(-time.Hour), EndDate: f.now.Add(time.Hour), Active: true,
	})
	f.reports.reports = append(f.reports.reports, &reportdomain.Report{
		ID: "rep-1", Title: "Spill", ZoneCode: "WH-A", ReporterID: "emp-1", CreatedAt: f.now,
	})

	err := f.router.Dispatch(notifdomain.Event{
		Type:     notifdomain.EventReportSubmitted,
		ReportID: "rep-1",
		ActorID:  "emp-1",
	})
	require.NoError(t, err)

	require.Len(t, f.notifications.notifications, 1)
	assert.Equal(t, "hse-9", f.notifications.notifications[0].UserID)
	assert.Empty(t, f.notifications.forUser("hse-1"))
	assert.Equal(t, []string{"hse-9@plant.example"}, f.mail.sent)
}

func TestDispatchDropsActorFromRecipients(t *testing.T) {
	f := newRouterFixture()
	f.addUser("hse-1", authdomain.RoleHSE)
	f.addUser("emp-1", authdomain.RoleEmployee)
	owner := "hse-1"
	f.reports.reports = append(f.reports.reports, &reportdomain.Report{
		ID: "rep-1", Title: "Spill", ZoneCode: "WH-A", ReporterID: "emp-1",
		AssignedOwnerID: &owner, CreatedAt: f.now,
	})

	// The owner comments: only the reporter is notified.
	err := f.router.Dispatch(notifdomain.Event{
		Type:     notifdomain.EventCommentAdded,
		ReportID: "rep-1",
		ActorID:  "hse-1",
	})
	require.NoError(t, err)

	require.Len(t, f.notifications.notifications, 1)
	assert.Equal(t, "emp-1", f.notifications.notifications[0].UserID)
}

func TestDispatchAdminAuditEventsAreNotSelfSuppressed(t *testing.T) {
	f := newRouterFixture()
	f.addUser("admin-1", authdomain.RoleAdmin)

	err := f.router.Dispatch(notifdomain.Event{
		Type:    notifdomain.EventAdminOverdueAlert,
		ActorID: "admin-1",
		Message: "3 work items are overdue",
	})
	require.NoError(t, err)

	require.Len(t, f.notifications.forUser("admin-1"), 1)
}

func TestDispatchCrossCommentDedupWithinWindow(t *testing.T) {
	f := newRouterFixture()
	f.addUser("emp-2", authdomain.RoleEmployee)
	f.reports.reports = append(f.reports.reports, &reportdomain.Report{
		ID: "rep-1", Title: "Spill", ZoneCode: "WH-A", ReporterID: "emp-1", CreatedAt: f.now,
	})
	f.comments.commenters["rep-1"] = []string{"emp-1", "emp-2"}

	event := notifdomain.Event{
		Type:     notifdomain.EventCrossComment,
		ReportID: "rep-1",
		ActorID:  "emp-1",
	}
	require.NoError(t, f.router.Dispatch(event))
	require.Len(t, f.notifications.forUser("emp-2"), 1)

	// A second comment two hours later is still inside the window.
	f.now = f.now.Add(2 * time.Hour)
	require.NoError(t, f.router.Dispatch(event))
	assert.Len(t, f.notifications.forUser("emp-2"), 1)

	// Past the window a fresh notification is created.
	f.now = f.now.Add(5 * time.Hour)
	require.NoError(t, f.router.Dispatch(event))
	assert.Len(t, f.notifications.forUser("emp-2"), 2)
}

func TestDispatchEmailFailureKeepsNotification(t *testing.T) {
	f := newRouterFixture()
	f.mail.fail = true
	f.addUser("hse-1", authdomain.RoleHSE)
	f.addUser("emp-1", authdomain.RoleEmployee)
	owner := "hse-1"
	f.reports.reports = append(f.reports.reports, &reportdomain.Report{
		ID: "rep-1", Title: "Spill", ZoneCode: "WH-A", ReporterID: "emp-1",
		AssignedOwnerID: &owner, CreatedAt: f.now,
	})

	err := f.router.Dispatch(notifdomain.Event{
		Type:     notifdomain.EventCommentAdded,
		ReportID: "rep-1",
		ActorID:  "emp-1",
	})
	require.NoError(t, err)

	notifications := f.notifications.forUser("hse-1")
	require.Len(t, notifications, 1)
	assert.False(t, notifications[0].IsEmailSent)

	require.Len(t, f.emailLogs.entries, 1)
	assert.Equal(t, notifdomain.EmailStatusFailed, f.emailLogs.entries[0].Status)
	assert.Contains(t, f.emailLogs.entries[0].Error, "smtp connection refused")
}

func TestDispatchAdminAbortSendsMonitoringCopyWithoutEmail(t *testing.T) {
	f := newRouterFixture()
	f.addUser("hse-1", authdomain.RoleHSE)
	f.addUser("hse-2", authdomain.RoleHSE)
	owner := "hse-2"
	f.reports.reports = append(f.reports.reports, &reportdomain.Report{
		ID: "rep-1", Title: "Spill", ZoneCode: "WH-A", ReporterID: "emp-1",
		AssignedOwnerID: &owner, CreatedAt: f.now,
	})
	f.correctives.items = append(f.correctives.items, &fakeItem{
		id: "ca-1", kind: workitemdomain.KindCorrectiveAction, title: "Replace valve",
		status: workitemdomain.StatusAborted, creator: "hse-1", reportID: "rep-1",
	})

	err := f.router.Dispatch(notifdomain.Event{
		Type:         notifdomain.EventWorkItemCancelledByAdmin,
		WorkItemID:   "ca-1",
		WorkItemKind: workitemdomain.KindCorrectiveAction,
		ReportID:     "rep-1",
		ActorID:      "admin-1",
		IsAdminActor: true,
	})
	require.NoError(t, err)

	// Owner and creator both get a row, only the owner gets the email.
	require.Len(t, f.notifications.forUser("hse-2"), 1)
	require.Len(t, f.notifications.forUser("hse-1"), 1)
	assert.Equal(t, []string{"hse-2@plant.example"}, f.mail.sent)
}

func TestDispatchDeadlineAudienceDualRoleGetsOneNotification(t *testing.T) {
	f := newRouterFixture()
	f.addUser("hse-1", authdomain.RoleHSE)
	owner := "hse-1"
	assignee := "hse-1"
	f.reports.reports = append(f.reports.reports, &reportdomain.Report{
		ID: "rep-1", Title: "Spill", ZoneCode: "WH-A", ReporterID: "emp-1",
		AssignedOwnerID: &owner, CreatedAt: f.now,
	})
	f.actions.items = append(f.actions.items, &fakeItem{
		id: "a-1", kind: workitemdomain.KindAction, title: "Fence the area",
		status: workitemdomain.StatusInProgress, overdue: true,
		creator: "hse-1", assignee: &assignee, reportID: "rep-1",
	})

	err := f.router.Dispatch(notifdomain.Event{
		Type:         notifdomain.EventWorkItemOverdue,
		WorkItemID:   "a-1",
		WorkItemKind: workitemdomain.KindAction,
		ReportID:     "rep-1",
	})
	require.NoError(t, err)

	assert.Len(t, f.notifications.forUser("hse-1"), 1)
}

func TestDispatchEmailingDisabledStillPersistsNotifications(t *testing.T) {
	f := newRouterFixture()
	f.config.config.IsEmailingEnabled = false
	f.addUser("hse-1", authdomain.RoleHSE)
	f.addUser("emp-1", authdomain.RoleEmployee)
	owner := "hse-1"
	f.reports.reports = append(f.reports.reports, &reportdomain.Report{
		ID: "rep-1", Title: "Spill", ZoneCode: "WH-A", ReporterID: "emp-1",
		AssignedOwnerID: &owner, CreatedAt: f.now,
	})

	err := f.router.Dispatch(notifdomain.Event{
		Type:     notifdomain.EventCommentAdded,
		ReportID: "rep-1",
		ActorID:  "emp-1",
	})
	require.NoError(t, err)

	assert.Len(t, f.notifications.forUser("hse-1"), 1)
	assert.Empty(t, f.mail.sent)
	assert.Empty(t, f.emailLogs.entries)
}

func TestDispatchRestrictedAdminRecipients(t *testing.T) {
	f := newRouterFixture()
	f.addUser("admin-1", authdomain.RoleAdmin)
	f.addUser("admin-2", authdomain.RoleAdmin)
	f.addUser("admin-3", authdomain.RoleAdmin)
	f.config.config.RestrictedAdminRecipientIDs = "admin-2, admin-3"

	err := f.router.Dispatch(notifdomain.Event{
		Type:    notifdomain.EventAdminOverdueAlert,
		Message: "2 work items are overdue",
	})
	require.NoError(t, err)

	assert.Empty(t, f.notifications.forUser("admin-1"))
	assert.Len(t, f.notifications.forUser("admin-2"), 1)
	assert.Len(t, f.notifications.forUser("admin-3"), 1)
}

func TestDispatchUnknownEventTypeIsDropped(t *testing.T) {
	f := newRouterFixture()

	err := f.router.Dispatch(notifdomain.Event{Type: notifdomain.EventType("mystery")})
	require.NoError(t, err)
	assert.Empty(t, f.notifications.notifications)
}
