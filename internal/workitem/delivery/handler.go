package delivery

import (
	"net/http"
	"time"

	authdomain "hse-backend/internal/auth/domain"
	workitemdomain "hse-backend/internal/workitem/domain"
	"hse-backend/internal/workitem/usecase"

	"github.com/gin-gonic/gin"
)

// WorkItemHandler exposes work-item status transitions
type WorkItemHandler struct {
	workItemUsecase usecase.WorkItemUsecase
}

// NewWorkItemHandler creates a new WorkItemHandler
func NewWorkItemHandler(workItemUsecase usecase.WorkItemUsecase) *WorkItemHandler {
	return &WorkItemHandler{
		workItemUsecase: workItemUsecase,
	}
}

// CreateItemRequest represents the request body for a new work item
type CreateItemRequest struct {
	ReportID       string     `json:"report_id" binding:"required"`
	ParentActionID string     `json:"parent_action_id"`
	Title          string     `json:"title" binding:"required"`
	DueDate        *time.Time `json:"due_date"`
	AssignedToID   *string    `json:"assigned_to_id"`
}

// Create handles POST /api/work-items/:kind
func (h *WorkItemHandler) Create(c *gin.Context) {
	kind, ok := itemKind(c)
	if !ok {
		return
	}

	var req CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	item, err := h.workItemUsecase.CreateItem(usecase.CreateItemInput{
		Kind:           kind,
		ReportID:       req.ReportID,
		ParentActionID: req.ParentActionID,
		Title:          req.Title,
		DueDate:        req.DueDate,
		CreatedByID:    c.GetString("userID"),
		AssignedToID:   req.AssignedToID,
	})
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, item)
}

func itemKind(c *gin.Context) (workitemdomain.Kind, bool) {
	kind := workitemdomain.Kind(c.Param("kind"))
	switch kind {
	case workitemdomain.KindAction, workitemdomain.KindCorrectiveAction, workitemdomain.KindSubAction:
		return kind, true
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": "unknown work item kind"})
	return "", false
}

// Get handles GET /api/work-items/:kind/:id
func (h *WorkItemHandler) Get(c *gin.Context) {
	kind, ok := itemKind(c)
	if !ok {
		return
	}

	item, err := h.workItemUsecase.GetItem(kind, c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load work item"})
		return
	}
	if item == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "work item not found"})
		return
	}

	c.JSON(http.StatusOK, item)
}

// ChangeStatusRequest represents the request body for a status transition
type ChangeStatusRequest struct {
	Status workitemdomain.Status `json:"status" binding:"required"`
}

// ChangeStatus handles PATCH /api/work-items/:kind/:id/status
func (h *WorkItemHandler) ChangeStatus(c *gin.Context) {
	kind, ok := itemKind(c)
	if !ok {
		return
	}

	var req ChangeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	actorID := c.GetString("userID")
	isAdmin := false
	if u, exists := c.Get("user"); exists {
		if user, ok := u.(*authdomain.User); ok {
			isAdmin = user.Role == authdomain.RoleAdmin
		}
	}

	if err := h.workItemUsecase.ChangeStatus(kind, c.Param("id"), req.Status, actorID, isAdmin); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "work item status updated"})
}
