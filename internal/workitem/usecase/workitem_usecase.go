package usecase

import (
	"fmt"
	"time"

	workitemdomain "hse-backend/internal/workitem/domain"
	"hse-backend/internal/workitem/repository"

	"github.com/google/uuid"
)

// WorkItemEvents is the post-commit hook surface the work-item write path
// calls. Satisfied by the notification event gateway.
type WorkItemEvents interface {
	WorkItemCreated(itemID string, kind workitemdomain.Kind, reportID, actorID string)
	WorkItemStatusChanged(itemID string, kind workitemdomain.Kind, reportID, oldStatus, newStatus, actorID string)
	WorkItemAborted(itemID string, kind workitemdomain.Kind, reportID, actorID string, isAdminActor bool)
	WorkItemCancelled(itemID string, kind workitemdomain.Kind, reportID, actorID string, isAdminActor bool)
}

// CreateItemInput carries the fields shared by all three work-item kinds.
// ParentActionID is required for sub-actions and ignored otherwise.
type CreateItemInput struct {
	Kind           workitemdomain.Kind
	ReportID       string
	ParentActionID string
	Title          string
	DueDate        *time.Time
	CreatedByID    string
	AssignedToID   *string
}

// WorkItemUsecase drives work-item creation and status transitions across all
// three kinds
type WorkItemUsecase interface {
	// CreateItem persists a new work item of the given kind
	CreateItem(input CreateItemInput) (workitemdomain.TrackedItem, error)

	// GetItem loads one item by kind and ID
	GetItem(kind workitemdomain.Kind, id string) (workitemdomain.TrackedItem, error)

	// ChangeStatus moves an item to a new status. Terminal items reject any
	// further transition; Aborted is accepted only on corrective actions.
	ChangeStatus(kind workitemdomain.Kind, id string, newStatus workitemdomain.Status, actorID string, isAdminActor bool) error
}

// workItemUsecase implements WorkItemUsecase interface
type workItemUsecase struct {
	repos  map[workitemdomain.Kind]repository.WorkItemRepository
	events WorkItemEvents
}

// NewWorkItemUsecase creates a new instance of workItemUsecase
func NewWorkItemUsecase(itemRepos []repository.WorkItemRepository, events WorkItemEvents) WorkItemUsecase {
	repos := make(map[workitemdomain.Kind]repository.WorkItemRepository, len(itemRepos))
	for _, repo := range itemRepos {
		repos[repo.Kind()] = repo
	}
	return &workItemUsecase{
		repos:  repos,
		events: events,
	}
}

func (u *workItemUsecase) CreateItem(input CreateItemInput) (workitemdomain.TrackedItem, error) {
	repo, ok := u.repos[input.Kind]
	if !ok {
		return nil, fmt.Errorf("unknown work item kind %q", input.Kind)
	}
	if input.Title == "" {
		return nil, fmt.Errorf("work item title is required")
	}
	if input.ReportID == "" {
		return nil, fmt.Errorf("work item report ID is required")
	}

	now := time.Now()
	var item workitemdomain.TrackedItem
	switch input.Kind {
	case workitemdomain.KindAction:
		item = &workitemdomain.Action{
			ID:           uuid.New().String(),
			ReportID:     input.ReportID,
			Title:        input.Title,
			Status:       workitemdomain.StatusNotStarted,
			DueDate:      input.DueDate,
			CreatedByID:  input.CreatedByID,
			AssignedToID: input.AssignedToID,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
	case workitemdomain.KindCorrectiveAction:
		item = &workitemdomain.CorrectiveAction{
			ID:           uuid.New().String(),
			ReportID:     input.ReportID,
			Title:        input.Title,
			Status:       workitemdomain.StatusNotStarted,
			DueDate:      input.DueDate,
			CreatedByID:  input.CreatedByID,
			AssignedToID: input.AssignedToID,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
	case workitemdomain.KindSubAction:
		if input.ParentActionID == "" {
			return nil, fmt.Errorf("sub-action parent action ID is required")
		}
		item = &workitemdomain.SubAction{
			ID:           uuid.New().String(),
			ActionID:     input.ParentActionID,
			ReportID:     input.ReportID,
			Title:        input.Title,
			Status:       workitemdomain.StatusNotStarted,
			DueDate:      input.DueDate,
			CreatedByID:  input.CreatedByID,
			AssignedToID: input.AssignedToID,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
	}

	if err := repo.Create(item); err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", input.Kind, err)
	}

	u.events.WorkItemCreated(item.ItemID(), input.Kind, input.ReportID, input.CreatedByID)
	return item, nil
}

func (u *workItemUsecase) GetItem(kind workitemdomain.Kind, id string) (workitemdomain.TrackedItem, error) {
	repo, ok := u.repos[kind]
	if !ok {
		return nil, fmt.Errorf("unknown work item kind %q", kind)
	}
	return repo.FindByID(id)
}

func (u *workItemUsecase) ChangeStatus(kind workitemdomain.Kind, id string, newStatus workitemdomain.Status, actorID string, isAdminActor bool) error {
	repo, ok := u.repos[kind]
	if !ok {
		return fmt.Errorf("unknown work item kind %q", kind)
	}

	switch newStatus {
	case workitemdomain.StatusNotStarted, workitemdomain.StatusInProgress,
		workitemdomain.StatusCompleted, workitemdomain.StatusCanceled:
	case workitemdomain.StatusAborted:
		if kind != workitemdomain.KindCorrectiveAction {
			return fmt.Errorf("status %s is not valid for %s items", newStatus, kind)
		}
	default:
		return fmt.Errorf("unknown work item status %q", newStatus)
	}

	item, err := repo.FindByID(id)
	if err != nil {
		return err
	}
	if item == nil {
		return fmt.Errorf("%s %s not found", kind, id)
	}

	oldStatus := item.CurrentStatus()
	if workitemdomain.IsTerminal(kind, oldStatus) {
		return fmt.Errorf("%s %s is already %s and cannot change status", kind, id, oldStatus)
	}
	if oldStatus == newStatus {
		return nil
	}

	if err := repo.UpdateStatus(id, newStatus); err != nil {
		return fmt.Errorf("failed to update %s %s: %w", kind, id, err)
	}

	switch newStatus {
	case workitemdomain.StatusAborted:
		u.events.WorkItemAborted(id, kind, item.ReportRef(), actorID, isAdminActor)
	case workitemdomain.StatusCanceled:
		u.events.WorkItemCancelled(id, kind, item.ReportRef(), actorID, isAdminActor)
	default:
		u.events.WorkItemStatusChanged(id, kind, item.ReportRef(), string(oldStatus), string(newStatus), actorID)
	}
	return nil
}
