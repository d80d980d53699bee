package repository

import (
	"errors"
	"fmt"
	"time"

	workitemdomain "hse-backend/internal/workitem/domain"

	"gorm.io/gorm"
)

// gormActionRepository implements WorkItemRepository for the actions table
type gormActionRepository struct {
	db *gorm.DB
}

// NewActionRepository creates a new GORM-based repository for actions
func NewActionRepository(db *gorm.DB) WorkItemRepository {
	return &gormActionRepository{db: db}
}

func (r *gormActionRepository) Kind() workitemdomain.Kind {
	return workitemdomain.KindAction
}

func (r *gormActionRepository) Create(item workitemdomain.TrackedItem) error {
	if item.ItemKind() != r.Kind() {
		return fmt.Errorf("cannot store %s item in %s repository", item.ItemKind(), r.Kind())
	}
	return r.db.Create(item).Error
}

func (r *gormActionRepository) FindByID(id string) (workitemdomain.TrackedItem, error) {
	var item workitemdomain.Action
	err := r.db.Where("id = ?", id).First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

func (r *gormActionRepository) FindNewlyOverdue(now time.Time) ([]workitemdomain.TrackedItem, error) {
	var items []*workitemdomain.Action
	err := r.db.Where("due_date IS NOT NULL AND due_date < ? AND overdue = ? AND status NOT IN ?",
		now, false, workitemdomain.TerminalStatuses(r.Kind())).Find(&items).Error
	return actionItems(items), err
}

func (r *gormActionRepository) FindFlaggedTerminal() ([]workitemdomain.TrackedItem, error) {
	var items []*workitemdomain.Action
	err := r.db.Where("overdue = ? AND status IN ?",
		true, workitemdomain.TerminalStatuses(r.Kind())).Find(&items).Error
	return actionItems(items), err
}

func (r *gormActionRepository) SetOverdue(ids []string, flag bool) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result := r.db.Model(&workitemdomain.Action{}).
		Where("id IN ? AND overdue = ?", ids, !flag).
		Updates(map[string]interface{}{"overdue": flag, "updated_at": time.Now()})
	return result.RowsAffected, result.Error
}

func (r *gormActionRepository) UpdateStatus(id string, status workitemdomain.Status) error {
	return r.db.Model(&workitemdomain.Action{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"status": status, "updated_at": time.Now()}).Error
}

func (r *gormActionRepository) FindOverdueOpen() ([]workitemdomain.TrackedItem, error) {
	var items []*workitemdomain.Action
	err := r.db.Where("overdue = ? AND status NOT IN ?",
		true, workitemdomain.TerminalStatuses(r.Kind())).Find(&items).Error
	return actionItems(items), err
}

func (r *gormActionRepository) FindApproaching(now time.Time, window time.Duration) ([]workitemdomain.TrackedItem, error) {
	var items []*workitemdomain.Action
	err := r.db.Where("due_date IS NOT NULL AND due_date >= ? AND due_date <= ? AND overdue = ? AND status NOT IN ?",
		now, now.Add(window), false, workitemdomain.TerminalStatuses(r.Kind())).Find(&items).Error
	return actionItems(items), err
}

func actionItems(items []*workitemdomain.Action) []workitemdomain.TrackedItem {
	out := make([]workitemdomain.TrackedItem, 0, len(items))
	for _, item := range items {
		out = append(out, item)
	}
	return out
}

// gormCorrectiveActionRepository implements WorkItemRepository for the
// corrective_actions table
type gormCorrectiveActionRepository struct {
	db *gorm.DB
}

// NewCorrectiveActionRepository creates a new GORM-based repository for corrective actions
func NewCorrectiveActionRepository(db *gorm.DB) WorkItemRepository {
	return &gormCorrectiveActionRepository{db: db}
}

func (r *gormCorrectiveActionRepository) Kind() workitemdomain.Kind {
	return workitemdomain.KindCorrectiveAction
}

func (r *gormCorrectiveActionRepository) Create(item workitemdomain.TrackedItem) error {
	if item.ItemKind() != r.Kind() {
		return fmt.Errorf("cannot store %s item in %s repository", item.ItemKind(), r.Kind())
	}
	return r.db.Create(item).Error
}

func (r *gormCorrectiveActionRepository) FindByID(id string) (workitemdomain.TrackedItem, error) {
	var item workitemdomain.CorrectiveAction
	err := r.db.Where("id = ?", id).First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

func (r *gormCorrectiveActionRepository) FindNewlyOverdue(now time.Time) ([]workitemdomain.TrackedItem, error) {
	var items []*workitemdomain.CorrectiveAction
	err := r.db.Where("due_date IS NOT NULL AND due_date < ? AND overdue = ? AND status NOT IN ?",
		now, false, workitemdomain.TerminalStatuses(r.Kind())).Find(&items).Error
	return correctiveItems(items), err
}

func (r *gormCorrectiveActionRepository) FindFlaggedTerminal() ([]workitemdomain.TrackedItem, error) {
	var items []*workitemdomain.CorrectiveAction
	err := r.db.Where("overdue = ? AND status IN ?",
		true, workitemdomain.TerminalStatuses(r.Kind())).Find(&items).Error
	return correctiveItems(items), err
}

func (r *gormCorrectiveActionRepository) SetOverdue(ids []string, flag bool) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result := r.db.Model(&workitemdomain.CorrectiveAction{}).
		Where("id IN ? AND overdue = ?", ids, !flag).
		Updates(map[string]interface{}{"overdue": flag, "updated_at": time.Now()})
	return result.RowsAffected, result.Error
}

func (r *gormCorrectiveActionRepository) UpdateStatus(id string, status workitemdomain.Status) error {
	return r.db.Model(&workitemdomain.CorrectiveAction{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"status": status, "updated_at": time.Now()}).Error
}

func (r *gormCorrectiveActionRepository) FindOverdueOpen() ([]workitemdomain.TrackedItem, error) {
	var items []*workitemdomain.CorrectiveAction
	err := r.db.Where("overdue = ? AND status NOT IN ?",
		true, workitemdomain.TerminalStatuses(r.Kind())).Find(&items).Error
	return correctiveItems(items), err
}

func (r *gormCorrectiveActionRepository) FindApproaching(now time.Time, window time.Duration) ([]workitemdomain.TrackedItem, error) {
	var items []*workitemdomain.CorrectiveAction
	err := r.db.Where("due_date IS NOT NULL AND due_date >= ? AND due_date <= ? AND overdue = ? AND status NOT IN ?",
		now, now.Add(window), false, workitemdomain.TerminalStatuses(r.Kind())).Find(&items).Error
	return correctiveItems(items), err
}

func correctiveItems(items []*workitemdomain.CorrectiveAction) []workitemdomain.TrackedItem {
	out := make([]workitemdomain.TrackedItem, 0, len(items))
	for _, item := range items {
		out = append(out, item)
	}
	return out
}

// gormSubActionRepository implements WorkItemRepository for the sub_actions table
type gormSubActionRepository struct {
	db *gorm.DB
}

// NewSubActionRepository creates a new GORM-based repository for sub-actions
func NewSubActionRepository(db *gorm.DB) WorkItemRepository {
	return &gormSubActionRepository{db: db}
}

func (r *gormSubActionRepository) Kind() workitemdomain.Kind {
	return workitemdomain.KindSubAction
}

func (r *gormSubActionRepository) Create(item workitemdomain.TrackedItem) error {
	if item.ItemKind() != r.Kind() {
		return fmt.Errorf("cannot store %s item in %s repository", item.ItemKind(), r.Kind())
	}
	return r.db.Create(item).Error
}

func (r *gormSubActionRepository) FindByID(id string) (workitemdomain.TrackedItem, error) {
	var item workitemdomain.SubAction
	err := r.db.Where("id = ?", id).First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

func (r *gormSubActionRepository) FindNewlyOverdue(now time.Time) ([]workitemdomain.TrackedItem, error) {
	var items []*workitemdomain.SubAction
	err := r.db.Where("due_date IS NOT NULL AND due_date < ? AND overdue = ? AND status NOT IN ?",
		now, false, workitemdomain.TerminalStatuses(r.Kind())).Find(&items).Error
	return subItems(items), err
}

func (r *gormSubActionRepository) FindFlaggedTerminal() ([]workitemdomain.TrackedItem, error) {
	var items []*workitemdomain.SubAction
	err := r.db.Where("overdue = ? AND status IN ?",
		true, workitemdomain.TerminalStatuses(r.Kind())).Find(&items).Error
	return subItems(items), err
}

func (r *gormSubActionRepository) SetOverdue(ids []string, flag bool) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result := r.db.Model(&workitemdomain.SubAction{}).
		Where("id IN ? AND overdue = ?", ids, !flag).
		Updates(map[string]interface{}{"overdue": flag, "updated_at": time.Now()})
	return result.RowsAffected, result.Error
}

func (r *gormSubActionRepository) UpdateStatus(id string, status workitemdomain.Status) error {
	return r.db.Model(&workitemdomain.SubAction{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"status": status, "updated_at": time.Now()}).Error
}

func (r *gormSubActionRepository) FindOverdueOpen() ([]workitemdomain.TrackedItem, error) {
	var items []*workitemdomain.SubAction
	err := r.db.Where("overdue = ? AND status NOT IN ?",
		true, workitemdomain.TerminalStatuses(r.Kind())).Find(&items).Error
	return subItems(items), err
}

func (r *gormSubActionRepository) FindApproaching(now time.Time, window time.Duration) ([]workitemdomain.TrackedItem, error) {
	var items []*workitemdomain.SubAction
	err := r.db.Where("due_date IS NOT NULL AND due_date >= ? AND due_date <= ? AND overdue = ? AND status NOT IN ?",
		now, now.Add(window), false, workitemdomain.TerminalStatuses(r.Kind())).Find(&items).Error
	return subItems(items), err
}

func subItems(items []*workitemdomain.SubAction) []workitemdomain.TrackedItem {
	out := make([]workitemdomain.TrackedItem, 0, len(items))
	for _, item := range items {
		out = append(out, item)
	}
	return out
}
