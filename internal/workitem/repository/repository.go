package repository

import (
	"time"

	workitemdomain "hse-backend/internal/workitem/domain"
)

// WorkItemRepository is the per-kind data-access interface the overdue sweep
// and deadline pass run against. One implementation exists per work-item
// table; the callers treat them uniformly.
type WorkItemRepository interface {
	// Kind identifies which work-item table this repository serves
	Kind() workitemdomain.Kind

	// Create persists a new item. The item's kind must match the repository's.
	Create(item workitemdomain.TrackedItem) error

	// FindByID finds an item by ID, returning (nil, nil) when absent
	FindByID(id string) (workitemdomain.TrackedItem, error)

	// FindNewlyOverdue finds items whose due date has passed while
	// non-terminal and that are not yet flagged overdue
	FindNewlyOverdue(now time.Time) ([]workitemdomain.TrackedItem, error)

	// FindFlaggedTerminal finds items still flagged overdue whose status has
	// since become terminal
	FindFlaggedTerminal() ([]workitemdomain.TrackedItem, error)

	// SetOverdue flips the overdue flag on the given items, returning the
	// number of rows actually changed
	SetOverdue(ids []string, flag bool) (int64, error)

	// UpdateStatus sets the item's lifecycle status. The overdue flag is left
	// untouched; only the sweep mutates it.
	UpdateStatus(id string, status workitemdomain.Status) error

	// FindOverdueOpen finds items currently flagged overdue and non-terminal
	FindOverdueOpen() ([]workitemdomain.TrackedItem, error)

	// FindApproaching finds non-terminal, not-yet-overdue items due within
	// the window after now
	FindApproaching(now time.Time, window time.Duration) ([]workitemdomain.TrackedItem, error)
}
