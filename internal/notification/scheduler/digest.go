package scheduler

import (
	"fmt"
	"log"
	"sync"
	"time"

	authdomain "hse-backend/internal/auth/domain"
	authrepo "hse-backend/internal/auth/repository"
	notifdomain "hse-backend/internal/notification/domain"
	notifrepo "hse-backend/internal/notification/repository"
	reportdomain "hse-backend/internal/report/domain"
	reportrepo "hse-backend/internal/report/repository"
	workitemrepo "hse-backend/internal/workitem/repository"
	zonerepo "hse-backend/internal/zone/repository"
	"hse-backend/internal/zone/resolver"
	"hse-backend/pkg/mailer"
)

// Category is one independently paced digest audience
type Category string

const (
	CategoryHSE   Category = "hse"
	CategoryAdmin Category = "admin"
)

// DigestState holds the process-local last-sent timestamps. Running more
// than one instance of this service duplicates digest emails; single-instance
// deployment is a documented constraint.
type DigestState struct {
	LastHSESentAt   time.Time
	LastAdminSentAt time.Time
}

// ComputeCheckInterval derives the loop cadence from the enabled digest
// intervals: a quarter of the smallest one, clamped between 1 and 5 minutes.
// With no digest category enabled the loop idles at 10 minutes.
func ComputeCheckInterval(config *notifdomain.DigestConfig) time.Duration {
	var enabled []int
	if config.HSEDigestEnabled {
		enabled = append(enabled, config.HSEIntervalMinutes)
	}
	if config.AdminDigestEnabled {
		enabled = append(enabled, config.AdminIntervalMinutes)
	}
	if len(enabled) == 0 {
		return 10 * time.Minute
	}

	min := enabled[0]
	for _, v := range enabled[1:] {
		if v < min {
			min = v
		}
	}

	checkMinutes := min / 4
	if checkMinutes < 1 {
		checkMinutes = 1
	}
	if checkMinutes > 5 {
		checkMinutes = 5
	}
	return time.Duration(checkMinutes) * time.Minute
}

// shouldSend reports whether the category's interval has elapsed since its
// last send. Pure so it is independently testable.
func shouldSend(config *notifdomain.DigestConfig, state DigestState, now time.Time, category Category) bool {
	switch category {
	case CategoryHSE:
		if !config.HSEDigestEnabled {
			return false
		}
		interval := time.Duration(config.HSEIntervalMinutes) * time.Minute
		return !now.Before(state.LastHSESentAt.Add(interval))
	case CategoryAdmin:
		if !config.AdminDigestEnabled {
			return false
		}
		interval := time.Duration(config.AdminIntervalMinutes) * time.Minute
		return !now.Before(state.LastAdminSentAt.Add(interval))
	}
	return false
}

// DigestScheduler produces periodic per-recipient aggregate emails on its own
// loop, decoupled from the event-driven notifications. Its cadence is
// recomputed every pass from the current digest settings.
type DigestScheduler struct {
	configRepo   notifrepo.DigestConfigRepository
	users        authrepo.UserRepository
	zoneResolver *resolver.Resolver
	zones        zonerepo.ZoneRepository
	reports      reportrepo.ReportRepository
	itemRepos    []workitemrepo.WorkItemRepository
	mail         mailer.Transport
	emailLogs    notifrepo.EmailLogRepository

	mu       sync.Mutex
	state    DigestState
	stopChan chan struct{}
	now      func() time.Time
}

// NewDigestScheduler creates a new DigestScheduler
func NewDigestScheduler(
	configRepo notifrepo.DigestConfigRepository,
	users authrepo.UserRepository,
	zoneResolver *resolver.Resolver,
	zones zonerepo.ZoneRepository,
	reports reportrepo.ReportRepository,
	itemRepos []workitemrepo.WorkItemRepository,
	mail mailer.Transport,
	emailLogs notifrepo.EmailLogRepository,
) *DigestScheduler {
	now := time.Now()
	return &DigestScheduler{
		configRepo:   configRepo,
		users:        users,
		zoneResolver: zoneResolver,
		zones:        zones,
		reports:      reports,
		itemRepos:    itemRepos,
		mail:         mail,
		emailLogs:    emailLogs,
		state:        DigestState{LastHSESentAt: now, LastAdminSentAt: now},
		stopChan:     make(chan struct{}),
		now:          time.Now,
	}
}

// Start begins the digest loop. The delay is recomputed after every pass so
// settings edits take effect without a restart.
func (s *DigestScheduler) Start() {
	log.Println("[DigestScheduler] Starting email digest scheduler")

	go func() {
		for {
			interval := s.nextCheckInterval()
			timer := time.NewTimer(interval)
			select {
			case <-timer.C:
				s.runOnce(s.now())
			case <-s.stopChan:
				timer.Stop()
				log.Println("[DigestScheduler] Digest scheduler stopped")
				return
			}
		}
	}()
}

// Stop gracefully stops the loop. Only the sleep is aborted; a pass that has
// started is allowed to finish.
func (s *DigestScheduler) Stop() {
	close(s.stopChan)
}

// ResetTimers defers the next send of both categories by a full interval.
// Called whenever the digest settings change so an edit never triggers an
// immediate send flood.
func (s *DigestScheduler) ResetTimers() {
	now := s.now()
	s.mu.Lock()
	s.state.LastHSESentAt = now
	s.state.LastAdminSentAt = now
	s.mu.Unlock()
	log.Println("[DigestScheduler] Digest timers reset")
}

func (s *DigestScheduler) nextCheckInterval() time.Duration {
	config, err := s.configRepo.Get()
	if err != nil {
		log.Printf("[DigestScheduler] Error loading digest config, using fallback interval: %v", err)
		return 10 * time.Minute
	}
	return ComputeCheckInterval(config)
}

// runOnce evaluates both categories independently. The last-sent timestamp
// advances once a category's pass completes, regardless of individual
// per-recipient failures; those are logged and not retried before the next
// full interval.
func (s *DigestScheduler) runOnce(now time.Time) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[DigestScheduler] Recovered from panic in digest pass: %v", r)
		}
	}()

	config, err := s.configRepo.Get()
	if err != nil {
		log.Printf("[DigestScheduler] Error loading digest config: %v", err)
		return
	}
	if !config.IsEmailingEnabled {
		return
	}

	s.mu.Lock()
	state := s.state
	s.mu.Unlock()

	if shouldSend(config, state, now, CategoryHSE) {
		s.sendHSEDigests(now)
		s.mu.Lock()
		s.state.LastHSESentAt = now
		s.mu.Unlock()
	}

	if shouldSend(config, state, now, CategoryAdmin) {
		s.sendAdminDigests(config, now)
		s.mu.Lock()
		s.state.LastAdminSentAt = now
		s.mu.Unlock()
	}
}

// digestSnapshot is the per-pass view of live overdue/approaching state,
// gathered once and then scoped per recipient.
type digestSnapshot struct {
	overdueByReport     map[string]int
	approachingByReport map[string]int
	reportZoneCode      map[string]string
	overdueTotal        int
	approachingTotal    int
}

func (s *DigestScheduler) collectSnapshot(now time.Time) *digestSnapshot {
	snap := &digestSnapshot{
		overdueByReport:     make(map[string]int),
		approachingByReport: make(map[string]int),
		reportZoneCode:      make(map[string]string),
	}

	var reportIDs []string
	seen := make(map[string]bool)
	note := func(reportID string) {
		if reportID != "" && !seen[reportID] {
			seen[reportID] = true
			reportIDs = append(reportIDs, reportID)
		}
	}

	for _, repo := range s.itemRepos {
		overdue, err := repo.FindOverdueOpen()
		if err != nil {
			log.Printf("[DigestScheduler] Error loading overdue %s items: %v", repo.Kind(), err)
		} else {
			for _, item := range overdue {
				snap.overdueByReport[item.ReportRef()]++
				snap.overdueTotal++
				note(item.ReportRef())
			}
		}

		approaching, err := repo.FindApproaching(now, 24*time.Hour)
		if err != nil {
			log.Printf("[DigestScheduler] Error loading approaching %s items: %v", repo.Kind(), err)
			continue
		}
		for _, item := range approaching {
			snap.approachingByReport[item.ReportRef()]++
			snap.approachingTotal++
			note(item.ReportRef())
		}
	}

	reports, err := s.reports.FindByIDs(reportIDs)
	if err != nil {
		log.Printf("[DigestScheduler] Error loading reports for digest: %v", err)
		return snap
	}
	for _, report := range reports {
		snap.reportZoneCode[report.ID] = report.ZoneCode
	}
	return snap
}

func (s *DigestScheduler) sendHSEDigests(now time.Time) {
	users, err := s.users.FindActiveByRole(authdomain.RoleHSE)
	if err != nil {
		log.Printf("[DigestScheduler] Error loading HSE users: %v", err)
		return
	}
	if len(users) == 0 {
		return
	}

	snap := s.collectSnapshot(now)

	for _, user := range users {
		zoneIDs, err := s.zoneResolver.OwnedZoneIDs(user.ID, now)
		if err != nil {
			log.Printf("[DigestScheduler] Error resolving zones for %s: %v", user.ID, err)
			continue
		}
		if len(zoneIDs) == 0 {
			continue
		}

		zones, err := s.zones.FindByIDs(zoneIDs)
		if err != nil {
			log.Printf("[DigestScheduler] Error loading zones for %s: %v", user.ID, err)
			continue
		}
		zoneCodes := make([]string, 0, len(zones))
		ownedCodes := make(map[string]bool, len(zones))
		for _, zone := range zones {
			zoneCodes = append(zoneCodes, zone.Code)
			ownedCodes[zone.Code] = true
		}

		newReports, err := s.reports.CountByStatusAndZoneCodes(reportdomain.ReportStatusUnopened, zoneCodes)
		if err != nil {
			log.Printf("[DigestScheduler] Error counting new reports for %s: %v", user.ID, err)
			continue
		}

		var overdue, approaching int
		for reportID, count := range snap.overdueByReport {
			if ownedCodes[snap.reportZoneCode[reportID]] {
				overdue += count
			}
		}
		for reportID, count := range snap.approachingByReport {
			if ownedCodes[snap.reportZoneCode[reportID]] {
				approaching += count
			}
		}

		if newReports == 0 && overdue == 0 && approaching == 0 {
			continue
		}

		subject := "HSE status digest"
		body := digestBody(user.Name, newReports, overdue, approaching, false)
		s.deliver(user.Email, subject, body, "hse_digest")
	}
}

func (s *DigestScheduler) sendAdminDigests(config *notifdomain.DigestConfig, now time.Time) {
	var recipients []*authdomain.User
	if restricted := config.RestrictedAdminIDs(); len(restricted) > 0 {
		users, err := s.users.FindByIDs(restricted)
		if err != nil {
			log.Printf("[DigestScheduler] Error loading restricted admin recipients: %v", err)
			return
		}
		for _, user := range users {
			if user.Active {
				recipients = append(recipients, user)
			}
		}
	} else {
		users, err := s.users.FindActiveByRole(authdomain.RoleAdmin)
		if err != nil {
			log.Printf("[DigestScheduler] Error loading admin users: %v", err)
			return
		}
		recipients = users
	}
	if len(recipients) == 0 {
		return
	}

	snap := s.collectSnapshot(now)
	newReports, err := s.reports.CountByStatus(reportdomain.ReportStatusUnopened)
	if err != nil {
		log.Printf("[DigestScheduler] Error counting unopened reports: %v", err)
		return
	}

	subject := "Platform status digest"
	for _, user := range recipients {
		body := digestBody(user.Name, newReports, snap.overdueTotal, snap.approachingTotal, true)
		s.deliver(user.Email, subject, body, "admin_digest")
	}
}

// deliver sends one digest email and logs the attempt either way
func (s *DigestScheduler) deliver(to, subject, body, digestType string) {
	entry := &notifdomain.EmailLog{
		Recipient: to,
		Subject:   subject,
		Type:      digestType,
	}
	if err := s.mail.Send(to, subject, body); err != nil {
		log.Printf("[DigestScheduler] Error sending digest to %s: %v", to, err)
		entry.Status = notifdomain.EmailStatusFailed
		entry.Error = err.Error()
	} else {
		sentAt := s.now()
		entry.Status = notifdomain.EmailStatusSent
		entry.SentAt = &sentAt
	}
	if err := s.emailLogs.Create(entry); err != nil {
		log.Printf("[DigestScheduler] Error writing email log for %s: %v", to, err)
	}
}

func digestBody(name string, newReports int64, overdue, approaching int, systemWide bool) string {
	scope := "in your zones"
	if systemWide {
		scope = "across the platform"
	}
	return fmt.Sprintf(
		"<p>Hello %s,</p><p>Current status %s:</p><ul><li>%d new reports</li><li>%d overdue work items</li><li>%d work items approaching their deadline</li></ul>",
		name, scope, newReports, overdue, approaching)
}
