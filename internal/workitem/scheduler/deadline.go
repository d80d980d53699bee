package scheduler

import (
	"fmt"
	"log"
	"time"

	notifdomain "hse-backend/internal/notification/domain"
	"hse-backend/internal/workitem/repository"
)

// Dispatcher routes a domain event to its recipient set. Satisfied by the
// notification router.
type Dispatcher interface {
	Dispatch(event notifdomain.Event) error
}

// DeadlinePass periodically reads the current overdue/approaching state and
// asks the notification router to emit the matching events. State computation
// (the sweep) and notification emission stay decoupled; the router's dedup
// window keeps a re-run from producing duplicate rows.
type DeadlinePass struct {
	repos    []repository.WorkItemRepository
	router   Dispatcher
	window   time.Duration
	interval time.Duration
	stopChan chan struct{}
}

// NewDeadlinePass creates a new DeadlinePass
func NewDeadlinePass(
	repos []repository.WorkItemRepository,
	router Dispatcher,
	window time.Duration,
	interval time.Duration,
) *DeadlinePass {
	return &DeadlinePass{
		repos:    repos,
		router:   router,
		window:   window,
		interval: interval,
		stopChan: make(chan struct{}),
	}
}

// Start begins the deadline-notification loop
func (p *DeadlinePass) Start() {
	log.Printf("[DeadlinePass] Starting deadline pass (interval: %s, approaching window: %s)",
		p.interval, p.window)

	go func() {
		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				p.Run(time.Now())
			case <-p.stopChan:
				log.Println("[DeadlinePass] Deadline pass stopped")
				return
			}
		}
	}()
}

// Stop gracefully stops the loop
func (p *DeadlinePass) Stop() {
	close(p.stopChan)
}

// Run emits Overdue and DeadlineApproaching events for the current state.
// Kinds are processed independently; a failure on one never blocks the rest.
func (p *DeadlinePass) Run(now time.Time) {
	var overdueTotal int

	for _, repo := range p.repos {
		overdue, err := repo.FindOverdueOpen()
		if err != nil {
			log.Printf("[DeadlinePass] Error loading overdue %s items: %v", repo.Kind(), err)
		} else {
			overdueTotal += len(overdue)
			for _, item := range overdue {
				event := notifdomain.Event{
					Type:         notifdomain.EventWorkItemOverdue,
					ReportID:     item.ReportRef(),
					WorkItemID:   item.ItemID(),
					WorkItemKind: item.ItemKind(),
				}
				if err := p.router.Dispatch(event); err != nil {
					log.Printf("[DeadlinePass] Error dispatching overdue event for %s %s: %v",
						item.ItemKind(), item.ItemID(), err)
				}
			}
		}

		approaching, err := repo.FindApproaching(now, p.window)
		if err != nil {
			log.Printf("[DeadlinePass] Error loading approaching %s items: %v", repo.Kind(), err)
			continue
		}
		for _, item := range approaching {
			event := notifdomain.Event{
				Type:         notifdomain.EventDeadlineApproaching,
				ReportID:     item.ReportRef(),
				WorkItemID:   item.ItemID(),
				WorkItemKind: item.ItemKind(),
			}
			if err := p.router.Dispatch(event); err != nil {
				log.Printf("[DeadlinePass] Error dispatching approaching event for %s %s: %v",
					item.ItemKind(), item.ItemID(), err)
			}
		}
	}

	if overdueTotal > 0 {
		event := notifdomain.Event{
			Type:    notifdomain.EventAdminOverdueAlert,
			Message: fmt.Sprintf("%d work items are currently overdue", overdueTotal),
		}
		if err := p.router.Dispatch(event); err != nil {
			log.Printf("[DeadlinePass] Error dispatching admin overdue alert: %v", err)
		}
	}
}
