package delivery

import (
	"net/http"

	reportdomain "hse-backend/internal/report/domain"
	"hse-backend/internal/report/usecase"

	"github.com/gin-gonic/gin"
)

// ReportHandler exposes the incident report surface
type ReportHandler struct {
	reportUsecase usecase.ReportUsecase
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reportUsecase usecase.ReportUsecase) *ReportHandler {
	return &ReportHandler{
		reportUsecase: reportUsecase,
	}
}

// CreateReportRequest represents the request body for submitting a report
type CreateReportRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	ZoneCode    string `json:"zone_code" binding:"required"`
}

// Create handles POST /api/reports
func (h *ReportHandler) Create(c *gin.Context) {
	var req CreateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	reporterID := c.GetString("userID")
	report, err := h.reportUsecase.CreateReport(req.Title, req.Description, req.ZoneCode, reporterID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create report"})
		return
	}

	c.JSON(http.StatusCreated, report)
}

// Get handles GET /api/reports/:id
func (h *ReportHandler) Get(c *gin.Context) {
	report, err := h.reportUsecase.GetReport(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load report"})
		return
	}
	if report == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "report not found"})
		return
	}

	c.JSON(http.StatusOK, report)
}

// UpdateStatusRequest represents the request body for a status change
type UpdateStatusRequest struct {
	Status reportdomain.ReportStatus `json:"status" binding:"required"`
}

// UpdateStatus handles PATCH /api/reports/:id/status
func (h *ReportHandler) UpdateStatus(c *gin.Context) {
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	switch req.Status {
	case reportdomain.ReportStatusUnopened, reportdomain.ReportStatusOpened, reportdomain.ReportStatusClosed:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid report status"})
		return
	}

	if err := h.reportUsecase.UpdateStatus(c.Param("id"), req.Status); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "report not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "report status updated"})
}

// ReassignRequest represents the request body for handing a report to a new owner
type ReassignRequest struct {
	NewOwnerID string `json:"new_owner_id" binding:"required"`
}

// Reassign handles POST /api/reports/:id/reassign
func (h *ReportHandler) Reassign(c *gin.Context) {
	var req ReassignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	actorID := c.GetString("userID")
	if err := h.reportUsecase.Reassign(c.Param("id"), req.NewOwnerID, actorID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "report not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "report reassigned"})
}

// AddCommentRequest represents the request body for a new comment
type AddCommentRequest struct {
	Body string `json:"body" binding:"required"`
}

// AddComment handles POST /api/reports/:id/comments
func (h *ReportHandler) AddComment(c *gin.Context) {
	var req AddCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	authorID := c.GetString("userID")
	comment, err := h.reportUsecase.AddComment(c.Param("id"), authorID, req.Body)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "report not found"})
		return
	}

	c.JSON(http.StatusCreated, comment)
}

// ListComments handles GET /api/reports/:id/comments
func (h *ReportHandler) ListComments(c *gin.Context) {
	comments, err := h.reportUsecase.GetComments(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load comments"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"comments": comments})
}
