package repository

import (
	reportdomain "hse-backend/internal/report/domain"
)

// ReportRepository defines the interface for report data access
type ReportRepository interface {
	// Create creates a new report
	Create(report *reportdomain.Report) error

	// FindByID finds a report by ID, returning (nil, nil) when absent
	FindByID(id string) (*reportdomain.Report, error)

	// FindByIDs finds all reports matching the given IDs
	FindByIDs(ids []string) ([]*reportdomain.Report, error)

	// Update updates an existing report
	Update(report *reportdomain.Report) error

	// AssignOwner sets the current owner of a report
	AssignOwner(reportID, ownerID string) error

	// CountByStatusAndZoneCodes counts reports in the given status scoped to zone codes
	CountByStatusAndZoneCodes(status reportdomain.ReportStatus, zoneCodes []string) (int64, error)

	// CountByStatus counts reports in the given status system-wide
	CountByStatus(status reportdomain.ReportStatus) (int64, error)
}

// CommentRepository defines the interface for report comments
type CommentRepository interface {
	// Create creates a new comment
	Create(comment *reportdomain.Comment) error

	// FindByReport finds all comments on a report, oldest first
	FindByReport(reportID string) ([]*reportdomain.Comment, error)

	// DistinctCommenters returns the distinct author IDs that have commented
	// on the report
	DistinctCommenters(reportID string) ([]string, error)
}
