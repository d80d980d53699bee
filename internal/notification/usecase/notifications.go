package usecase

import (
	notifdomain "hse-backend/internal/notification/domain"
	"hse-backend/internal/notification/repository"
)

// NotificationUsecase is the query surface consumed by the presentation layer
type NotificationUsecase interface {
	// GetUserNotifications lists a user's notifications newest first
	GetUserNotifications(userID string, page, pageSize int) ([]*notifdomain.Notification, int64, error)

	// MarkRead marks one notification read, enforcing ownership
	MarkRead(notificationID, userID string) error

	// MarkAllRead marks every unread notification of the user read
	MarkAllRead(userID string) error

	// UnreadCount counts the user's unread notifications
	UnreadCount(userID string) (int64, error)
}

// notificationUsecase implements NotificationUsecase interface
type notificationUsecase struct {
	notifications repository.NotificationRepository
}

// NewNotificationUsecase creates a new instance of notificationUsecase
func NewNotificationUsecase(notifications repository.NotificationRepository) NotificationUsecase {
	return &notificationUsecase{
		notifications: notifications,
	}
}

func (u *notificationUsecase) GetUserNotifications(userID string, page, pageSize int) ([]*notifdomain.Notification, int64, error) {
	return u.notifications.FindByUser(userID, page, pageSize)
}

func (u *notificationUsecase) MarkRead(notificationID, userID string) error {
	return u.notifications.MarkRead(notificationID, userID)
}

func (u *notificationUsecase) MarkAllRead(userID string) error {
	return u.notifications.MarkAllRead(userID)
}

func (u *notificationUsecase) UnreadCount(userID string) (int64, error) {
	return u.notifications.UnreadCount(userID)
}
