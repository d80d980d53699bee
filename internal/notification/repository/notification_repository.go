package repository

import (
	"errors"
	"time"

	notifdomain "hse-backend/internal/notification/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NotificationRepository defines the interface for notification rows
type NotificationRepository interface {
	// Create persists a new notification
	Create(notification *notifdomain.Notification) error

	// FindByID finds a notification by ID, returning (nil, nil) when absent
	FindByID(id string) (*notifdomain.Notification, error)

	// FindByUser lists a user's notifications newest first, with pagination
	FindByUser(userID string, page, pageSize int) ([]*notifdomain.Notification, int64, error)

	// ExistsRecent reports whether a notification matching (user, type,
	// related entity) was created at or after the given time
	ExistsRecent(userID string, eventType notifdomain.EventType, relatedReportID, relatedWorkItemID string, since time.Time) (bool, error)

	// MarkRead marks one notification read; the userID guards ownership
	MarkRead(notificationID, userID string) error

	// MarkAllRead marks every unread notification of a user read
	MarkAllRead(userID string) error

	// UnreadCount counts a user's unread notifications
	UnreadCount(userID string) (int64, error)

	// MarkEmailSent flips the email-sent marker after a successful send
	MarkEmailSent(notificationID string) error
}

// gormNotificationRepository implements NotificationRepository using GORM
type gormNotificationRepository struct {
	db *gorm.DB
}

// NewNotificationRepository creates a new GORM-based NotificationRepository
func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &gormNotificationRepository{db: db}
}

func (r *gormNotificationRepository) Create(notification *notifdomain.Notification) error {
	if notification.ID == "" {
		notification.ID = uuid.New().String()
	}
	if notification.CreatedAt.IsZero() {
		notification.CreatedAt = time.Now()
	}
	return r.db.Create(notification).Error
}

func (r *gormNotificationRepository) FindByID(id string) (*notifdomain.Notification, error) {
	var notification notifdomain.Notification
	err := r.db.Where("id = ?", id).First(&notification).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &notification, nil
}

func (r *gormNotificationRepository) FindByUser(userID string, page, pageSize int) ([]*notifdomain.Notification, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	var notifications []*notifdomain.Notification
	var total int64

	query := r.db.Model(&notifdomain.Notification{}).Where("user_id = ?", userID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("created_at DESC").
		Limit(pageSize).Offset((page - 1) * pageSize).
		Find(&notifications).Error
	return notifications, total, err
}

func (r *gormNotificationRepository) ExistsRecent(userID string, eventType notifdomain.EventType, relatedReportID, relatedWorkItemID string, since time.Time) (bool, error) {
	query := r.db.Model(&notifdomain.Notification{}).
		Where("user_id = ? AND type = ? AND created_at >= ?", userID, eventType, since)

	if relatedReportID != "" {
		query = query.Where("related_report_id = ?", relatedReportID)
	}
	if relatedWorkItemID != "" {
		query = query.Where("related_work_item_id = ?", relatedWorkItemID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *gormNotificationRepository) MarkRead(notificationID, userID string) error {
	now := time.Now()
	result := r.db.Model(&notifdomain.Notification{}).
		Where("id = ? AND user_id = ?", notificationID, userID).
		Updates(map[string]interface{}{"is_read": true, "read_at": now})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errors.New("notification not found")
	}
	return nil
}

func (r *gormNotificationRepository) MarkAllRead(userID string) error {
	now := time.Now()
	return r.db.Model(&notifdomain.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Updates(map[string]interface{}{"is_read": true, "read_at": now}).Error
}

func (r *gormNotificationRepository) UnreadCount(userID string) (int64, error) {
	var count int64
	err := r.db.Model(&notifdomain.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	return count, err
}

func (r *gormNotificationRepository) MarkEmailSent(notificationID string) error {
	return r.db.Model(&notifdomain.Notification{}).
		Where("id = ?", notificationID).
		Update("is_email_sent", true).Error
}
