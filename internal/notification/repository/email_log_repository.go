package repository

import (
	"time"

	notifdomain "hse-backend/internal/notification/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// EmailLogRepository defines the interface for email delivery logging
type EmailLogRepository interface {
	// Create persists one send attempt
	Create(entry *notifdomain.EmailLog) error

	// FindRecent lists the most recent entries, newest first
	FindRecent(limit int) ([]*notifdomain.EmailLog, error)
}

// gormEmailLogRepository implements EmailLogRepository using GORM
type gormEmailLogRepository struct {
	db *gorm.DB
}

// NewEmailLogRepository creates a new GORM-based EmailLogRepository
func NewEmailLogRepository(db *gorm.DB) EmailLogRepository {
	return &gormEmailLogRepository{db: db}
}

func (r *gormEmailLogRepository) Create(entry *notifdomain.EmailLog) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	return r.db.Create(entry).Error
}

func (r *gormEmailLogRepository) FindRecent(limit int) ([]*notifdomain.EmailLog, error) {
	if limit < 1 || limit > 500 {
		limit = 100
	}
	var entries []*notifdomain.EmailLog
	err := r.db.Order("created_at DESC").Limit(limit).Find(&entries).Error
	return entries, err
}
