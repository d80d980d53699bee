package delivery

import (
	"net/http"

	"hse-backend/internal/auth/usecase"

	"github.com/gin-gonic/gin"
)

// AuthHandler exposes the registration request surface
type AuthHandler struct {
	registrationUsecase usecase.RegistrationUsecase
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(registrationUsecase usecase.RegistrationUsecase) *AuthHandler {
	return &AuthHandler{
		registrationUsecase: registrationUsecase,
	}
}

// RegisterRequest represents the request body for a signup request
type RegisterRequest struct {
	Email string `json:"email" binding:"required,email"`
	Name  string `json:"name"`
}

// Register handles POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	request, err := h.registrationUsecase.SubmitRequest(req.Email, req.Name)
	if err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "registration request submitted for review",
		"request": request,
	})
}
