package delivery

import (
	"net/http"
	"time"

	authdomain "hse-backend/internal/auth/domain"
	"hse-backend/internal/zone/usecase"

	"github.com/gin-gonic/gin"
)

// DelegationHandler exposes the admin delegation surface
type DelegationHandler struct {
	delegationUsecase usecase.DelegationUsecase
}

// NewDelegationHandler creates a new DelegationHandler
func NewDelegationHandler(delegationUsecase usecase.DelegationUsecase) *DelegationHandler {
	return &DelegationHandler{
		delegationUsecase: delegationUsecase,
	}
}

func requireAdmin(c *gin.Context) bool {
	if u, exists := c.Get("user"); exists {
		if user, ok := u.(*authdomain.User); ok && user.Role == authdomain.RoleAdmin {
			return true
		}
	}
	c.JSON(http.StatusForbidden, gin.H{"error": "admin role required"})
	return false
}

// CreateDelegationRequest represents the request body for a new delegation
type CreateDelegationRequest struct {
	FromUserID string    `json:"from_user_id" binding:"required"`
	ToUserID   string    `json:"to_user_id" binding:"required"`
	ZoneID     string    `json:"zone_id" binding:"required"`
	StartDate  time.Time `json:"start_date" binding:"required"`
	EndDate    time.Time `json:"end_date" binding:"required"`
	Reason     string    `json:"reason"`
}

// Create handles POST /api/delegations
func (h *DelegationHandler) Create(c *gin.Context) {
	if !requireAdmin(c) {
		return
	}

	var req CreateDelegationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	delegation, err := h.delegationUsecase.CreateDelegation(usecase.CreateDelegationInput{
		FromUserID:       req.FromUserID,
		ToUserID:         req.ToUserID,
		ZoneID:           req.ZoneID,
		StartDate:        req.StartDate,
		EndDate:          req.EndDate,
		Reason:           req.Reason,
		CreatedByAdminID: c.GetString("userID"),
	})
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, delegation)
}

// End handles POST /api/delegations/:id/end
func (h *DelegationHandler) End(c *gin.Context) {
	if !requireAdmin(c) {
		return
	}

	if err := h.delegationUsecase.EndDelegation(c.Param("id")); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "delegation not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "delegation ended"})
}

// Get handles GET /api/delegations/:id
func (h *DelegationHandler) Get(c *gin.Context) {
	if !requireAdmin(c) {
		return
	}

	delegation, err := h.delegationUsecase.GetDelegation(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load delegation"})
		return
	}
	if delegation == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "delegation not found"})
		return
	}

	c.JSON(http.StatusOK, delegation)
}
