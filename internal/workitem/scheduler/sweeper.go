package scheduler

import (
	"log"
	"time"

	"hse-backend/internal/workitem/repository"
)

// OverdueSweeper periodically recomputes the overdue flag on every work-item
// kind. The sweep only performs two transitions: open items whose due date
// has passed become overdue, and flagged items whose status turned terminal
// are cleared. Re-running the sweep with no other mutation writes nothing.
type OverdueSweeper struct {
	repos    []repository.WorkItemRepository
	interval time.Duration
	stopChan chan struct{}
}

// NewOverdueSweeper creates a new OverdueSweeper over the given work-item repositories
func NewOverdueSweeper(repos []repository.WorkItemRepository, interval time.Duration) *OverdueSweeper {
	return &OverdueSweeper{
		repos:    repos,
		interval: interval,
		stopChan: make(chan struct{}),
	}
}

// Start begins the sweep loop
func (s *OverdueSweeper) Start() {
	log.Printf("[OverdueSweeper] Starting overdue sweep (interval: %s)", s.interval)

	go func() {
		// Run immediately on start
		s.Sweep(time.Now())

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				s.Sweep(time.Now())
			case <-s.stopChan:
				log.Println("[OverdueSweeper] Sweep loop stopped")
				return
			}
		}
	}()
}

// Stop gracefully stops the sweep loop. An in-flight sweep is allowed to
// finish; only the sleep is aborted.
func (s *OverdueSweeper) Stop() {
	close(s.stopChan)
}

// Sweep runs both transitions for every kind and returns the total number of
// rows changed. Each kind is swept independently so a failure on one does
// not block the others.
func (s *OverdueSweeper) Sweep(now time.Time) int64 {
	var total int64
	for _, repo := range s.repos {
		changed, err := s.sweepKind(repo, now)
		if err != nil {
			log.Printf("[OverdueSweeper] Error sweeping %s items: %v", repo.Kind(), err)
			continue
		}
		total += changed
	}
	return total
}

func (s *OverdueSweeper) sweepKind(repo repository.WorkItemRepository, now time.Time) (int64, error) {
	var changed int64

	// Forward transition: due date passed while non-terminal.
	newlyOverdue, err := repo.FindNewlyOverdue(now)
	if err != nil {
		return changed, err
	}
	if len(newlyOverdue) > 0 {
		ids := make([]string, 0, len(newlyOverdue))
		for _, item := range newlyOverdue {
			ids = append(ids, item.ItemID())
		}
		n, err := repo.SetOverdue(ids, true)
		if err != nil {
			return changed, err
		}
		changed += n
		log.Printf("[OverdueSweeper] Flagged %d %s items overdue", n, repo.Kind())
	}

	// Reset transition: flag clears only once the status is terminal. An
	// open item stays overdue even if its due date later moves.
	flaggedTerminal, err := repo.FindFlaggedTerminal()
	if err != nil {
		return changed, err
	}
	if len(flaggedTerminal) > 0 {
		ids := make([]string, 0, len(flaggedTerminal))
		for _, item := range flaggedTerminal {
			ids = append(ids, item.ItemID())
		}
		n, err := repo.SetOverdue(ids, false)
		if err != nil {
			return changed, err
		}
		changed += n
		log.Printf("[OverdueSweeper] Cleared overdue on %d terminal %s items", n, repo.Kind())
	}

	return changed, nil
}
