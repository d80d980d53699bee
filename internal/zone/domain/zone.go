package domain

import "time"

// Zone is an organizational/geographic area with one or more accountable owners
type Zone struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"not null"`
	Code      string    `json:"code" gorm:"uniqueIndex;not null"`
	Active    bool      `json:"active" gorm:"default:true"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ZoneResponsibility is a permanent assignment of an HSE user to a zone
type ZoneResponsibility struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	HSEUserID string    `json:"hse_user_id" gorm:"index;not null"`
	ZoneID    string    `json:"zone_id" gorm:"index;not null"`
	Active    bool      `json:"active" gorm:"default:true"`
	CreatedAt time.Time `json:"created_at"`
}

// ZoneDelegation is a time-bounded transfer of zone accountability.
// While a delegation covers the current instant it fully overrides permanent
// responsibility for routing purposes.
type ZoneDelegation struct {
	ID               string    `json:"id" gorm:"primaryKey"`
	FromUserID       string    `json:"from_user_id" gorm:"index;not null"`
	ToUserID         string    `json:"to_user_id" gorm:"index;not null"`
	ZoneID           string    `json:"zone_id" gorm:"index;not null"`
	StartDate        time.Time `json:"start_date" gorm:"not null"`
	EndDate          time.Time `json:"end_date" gorm:"not null"`
	Reason           string    `json:"reason"`
	CreatedByAdminID string    `json:"created_by_admin_id"`
	Active           bool      `json:"active" gorm:"default:true"`
	CreatedAt        time.Time `json:"created_at"`
}

// Covers reports whether the delegation overrides routing at the given time.
// Expiry is derived at read time; there is no background job flipping Active.
func (d *ZoneDelegation) Covers(at time.Time) bool {
	return d.Active && !at.Before(d.StartDate) && !at.After(d.EndDate)
}
