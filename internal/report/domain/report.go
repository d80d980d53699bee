package domain

import "time"

// ReportStatus represents the lifecycle state of an incident report
type ReportStatus string

const (
	ReportStatusUnopened ReportStatus = "unopened"
	ReportStatusOpened   ReportStatus = "opened"
	ReportStatusClosed   ReportStatus = "closed"
)

// Report is an incident report routed to at most one current owner
type Report struct {
	ID              string       `json:"id" gorm:"primaryKey"`
	Title           string       `json:"title" gorm:"not null"`
	Description     string       `json:"description,omitempty" gorm:"type:text"`
	ZoneCode        string       `json:"zone_code" gorm:"index;not null"`
	ReporterID      string       `json:"reporter_id" gorm:"index;not null"`
	AssignedOwnerID *string      `json:"assigned_owner_id,omitempty" gorm:"index"`
	Status          ReportStatus `json:"status" gorm:"index;default:unopened"`
	CreatedAt       time.Time    `json:"created_at"`
	UpdatedAt       time.Time    `json:"updated_at"`
}

// Comment is a discussion entry on a report
type Comment struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	ReportID  string    `json:"report_id" gorm:"index;not null"`
	AuthorID  string    `json:"author_id" gorm:"index;not null"`
	Body      string    `json:"body" gorm:"type:text"`
	CreatedAt time.Time `json:"created_at"`
}
