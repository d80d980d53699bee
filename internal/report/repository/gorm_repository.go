package repository

import (
	"errors"
	"time"

	reportdomain "hse-backend/internal/report/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// gormReportRepository implements ReportRepository using GORM
type gormReportRepository struct {
	db *gorm.DB
}

// NewReportRepository creates a new GORM-based ReportRepository
func NewReportRepository(db *gorm.DB) ReportRepository {
	return &gormReportRepository{db: db}
}

func (r *gormReportRepository) Create(report *reportdomain.Report) error {
	if report.ID == "" {
		report.ID = uuid.New().String()
	}
	if report.Status == "" {
		report.Status = reportdomain.ReportStatusUnopened
	}
	if report.CreatedAt.IsZero() {
		report.CreatedAt = time.Now()
	}
	report.UpdatedAt = time.Now()
	return r.db.Create(report).Error
}

func (r *gormReportRepository) FindByID(id string) (*reportdomain.Report, error) {
	var report reportdomain.Report
	err := r.db.Where("id = ?", id).First(&report).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &report, nil
}

func (r *gormReportRepository) FindByIDs(ids []string) ([]*reportdomain.Report, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var reports []*reportdomain.Report
	err := r.db.Where("id IN ?", ids).Find(&reports).Error
	return reports, err
}

func (r *gormReportRepository) Update(report *reportdomain.Report) error {
	report.UpdatedAt = time.Now()
	return r.db.Save(report).Error
}

func (r *gormReportRepository) AssignOwner(reportID, ownerID string) error {
	return r.db.Model(&reportdomain.Report{}).Where("id = ?", reportID).
		Updates(map[string]interface{}{
			"assigned_owner_id": ownerID,
			"updated_at":        time.Now(),
		}).Error
}

func (r *gormReportRepository) CountByStatusAndZoneCodes(status reportdomain.ReportStatus, zoneCodes []string) (int64, error) {
	if len(zoneCodes) == 0 {
		return 0, nil
	}
	var count int64
	err := r.db.Model(&reportdomain.Report{}).
		Where("status = ? AND zone_code IN ?", status, zoneCodes).
		Count(&count).Error
	return count, err
}

func (r *gormReportRepository) CountByStatus(status reportdomain.ReportStatus) (int64, error) {
	var count int64
	err := r.db.Model(&reportdomain.Report{}).Where("status = ?", status).Count(&count).Error
	return count, err
}

// gormCommentRepository implements CommentRepository using GORM
type gormCommentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new GORM-based CommentRepository
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &gormCommentRepository{db: db}
}

func (r *gormCommentRepository) Create(comment *reportdomain.Comment) error {
	if comment.ID == "" {
		comment.ID = uuid.New().String()
	}
	comment.CreatedAt = time.Now()
	return r.db.Create(comment).Error
}

func (r *gormCommentRepository) FindByReport(reportID string) ([]*reportdomain.Comment, error) {
	var comments []*reportdomain.Comment
	err := r.db.Where("report_id = ?", reportID).Order("created_at ASC").Find(&comments).Error
	return comments, err
}

func (r *gormCommentRepository) DistinctCommenters(reportID string) ([]string, error) {
	var authorIDs []string
	err := r.db.Model(&reportdomain.Comment{}).
		Where("report_id = ?", reportID).
		Distinct("author_id").
		Order("author_id ASC").
		Pluck("author_id", &authorIDs).Error
	return authorIDs, err
}
