package domain

import "time"

// Role determines how a user participates in responsibility routing
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleHSE      Role = "hse"
	RoleEmployee Role = "employee"
)

type User struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	Email     string    `json:"email" gorm:"uniqueIndex;not null"`
	Name      string    `json:"name"`
	Role      Role      `json:"role" gorm:"index;default:employee"`
	Active    bool      `json:"active" gorm:"default:true"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RegistrationRequestStatus tracks the admin review state of a signup request
type RegistrationRequestStatus string

const (
	RegistrationPending  RegistrationRequestStatus = "pending"
	RegistrationApproved RegistrationRequestStatus = "approved"
	RegistrationRejected RegistrationRequestStatus = "rejected"
)

// RegistrationRequest is a pending signup awaiting admin approval
type RegistrationRequest struct {
	ID        string                    `json:"id" gorm:"primaryKey"`
	Email     string                    `json:"email" gorm:"not null"`
	Name      string                    `json:"name"`
	Status    RegistrationRequestStatus `json:"status" gorm:"default:pending"`
	CreatedAt time.Time                 `json:"created_at"`
}
