package usecase

import (
	"fmt"
	"time"

	reportdomain "hse-backend/internal/report/domain"
	"hse-backend/internal/report/repository"

	"github.com/google/uuid"
)

// ReportEvents is the post-commit hook surface the report write path calls.
// Satisfied by the notification event gateway.
type ReportEvents interface {
	ReportCreated(reportID string) error
	ReportReassigned(reportID, actorID string)
	CommentCreated(reportID, authorID string)
}

// ReportUsecase defines the report write/read surface
type ReportUsecase interface {
	// CreateReport persists a new report and triggers auto-assignment
	CreateReport(title, description, zoneCode, reporterID string) (*reportdomain.Report, error)

	// GetReport loads a report by ID
	GetReport(id string) (*reportdomain.Report, error)

	// UpdateStatus moves a report through its lifecycle
	UpdateStatus(reportID string, status reportdomain.ReportStatus) error

	// Reassign hands the report to a new owner
	Reassign(reportID, newOwnerID, actorID string) error

	// AddComment appends a comment to the report's discussion
	AddComment(reportID, authorID, body string) (*reportdomain.Comment, error)

	// GetComments lists a report's comments, oldest first
	GetComments(reportID string) ([]*reportdomain.Comment, error)
}

// reportUsecase implements ReportUsecase interface
type reportUsecase struct {
	reports  repository.ReportRepository
	comments repository.CommentRepository
	events   ReportEvents
}

// NewReportUsecase creates a new instance of reportUsecase
func NewReportUsecase(reports repository.ReportRepository, comments repository.CommentRepository, events ReportEvents) ReportUsecase {
	return &reportUsecase{
		reports:  reports,
		comments: comments,
		events:   events,
	}
}

func (u *reportUsecase) CreateReport(title, description, zoneCode, reporterID string) (*reportdomain.Report, error) {
	if title == "" {
		return nil, fmt.Errorf("report title is required")
	}
	if zoneCode == "" {
		return nil, fmt.Errorf("report zone code is required")
	}

	now := time.Now()
	report := &reportdomain.Report{
		ID:          uuid.New().String(),
		Title:       title,
		Description: description,
		ZoneCode:    zoneCode,
		ReporterID:  reporterID,
		Status:      reportdomain.ReportStatusUnopened,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := u.reports.Create(report); err != nil {
		return nil, fmt.Errorf("failed to create report: %w", err)
	}

	if err := u.events.ReportCreated(report.ID); err != nil {
		return nil, err
	}

	// Reload to pick up the owner the assignment engine may have set
	return u.reports.FindByID(report.ID)
}

func (u *reportUsecase) GetReport(id string) (*reportdomain.Report, error) {
	return u.reports.FindByID(id)
}

func (u *reportUsecase) UpdateStatus(reportID string, status reportdomain.ReportStatus) error {
	report, err := u.reports.FindByID(reportID)
	if err != nil {
		return err
	}
	if report == nil {
		return fmt.Errorf("report %s not found", reportID)
	}

	report.Status = status
	report.UpdatedAt = time.Now()
	return u.reports.Update(report)
}

func (u *reportUsecase) Reassign(reportID, newOwnerID, actorID string) error {
	report, err := u.reports.FindByID(reportID)
	if err != nil {
		return err
	}
	if report == nil {
		return fmt.Errorf("report %s not found", reportID)
	}

	if err := u.reports.AssignOwner(reportID, newOwnerID); err != nil {
		return fmt.Errorf("failed to reassign report %s: %w", reportID, err)
	}

	u.events.ReportReassigned(reportID, actorID)
	return nil
}

func (u *reportUsecase) AddComment(reportID, authorID, body string) (*reportdomain.Comment, error) {
	if body == "" {
		return nil, fmt.Errorf("comment body is required")
	}
	report, err := u.reports.FindByID(reportID)
	if err != nil {
		return nil, err
	}
	if report == nil {
		return nil, fmt.Errorf("report %s not found", reportID)
	}

	comment := &reportdomain.Comment{
		ID:        uuid.New().String(),
		ReportID:  reportID,
		AuthorID:  authorID,
		Body:      body,
		CreatedAt: time.Now(),
	}
	if err := u.comments.Create(comment); err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}

	u.events.CommentCreated(reportID, authorID)
	return comment, nil
}

func (u *reportUsecase) GetComments(reportID string) ([]*reportdomain.Comment, error) {
	return u.comments.FindByReport(reportID)
}
