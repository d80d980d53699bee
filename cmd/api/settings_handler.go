package api

import (
	"net/http"
	"sync"

	notifdomain "hse-backend/internal/notification/domain"
	notifrepo "hse-backend/internal/notification/repository"

	"github.com/gin-gonic/gin"
)

// digestTimerResetter is what the settings surface needs from the digest
// scheduler: any settings change defers the next sends by a full interval.
type digestTimerResetter interface {
	ResetTimers()
}

var (
	digestConfigCache *notifdomain.DigestConfig
	digestConfigLock  sync.RWMutex
)

// SettingsHandler serves runtime digest configuration
type SettingsHandler struct {
	configRepo notifrepo.DigestConfigRepository
	digest     digestTimerResetter
}

// NewSettingsHandler creates a new SettingsHandler
func NewSettingsHandler(configRepo notifrepo.DigestConfigRepository, digest digestTimerResetter) *SettingsHandler {
	return &SettingsHandler{
		configRepo: configRepo,
		digest:     digest,
	}
}

// UpdateDigestSettingsRequest represents the request body for updating digest settings
type UpdateDigestSettingsRequest struct {
	IsEmailingEnabled *bool `json:"is_emailing_enabled"`

	HSEDigestEnabled     *bool `json:"hse_digest_enabled"`
	AdminDigestEnabled   *bool `json:"admin_digest_enabled"`
	HSEIntervalMinutes   *int  `json:"hse_interval_minutes"`
	AdminIntervalMinutes *int  `json:"admin_interval_minutes"`

	EmailOnReportEvents       *bool `json:"email_on_report_events"`
	EmailOnWorkItemEvents     *bool `json:"email_on_work_item_events"`
	EmailOnDeadlineEvents     *bool `json:"email_on_deadline_events"`
	EmailOnDelegationEvents   *bool `json:"email_on_delegation_events"`
	EmailOnRegistrationEvents *bool `json:"email_on_registration_events"`

	RestrictedAdminRecipientIDs *string `json:"restricted_admin_recipient_ids"`
}

// GetDigestSettings returns current digest configuration
// GET /api/settings/digest
func (h *SettingsHandler) GetDigestSettings(c *gin.Context) {
	digestConfigLock.RLock()
	cached := digestConfigCache
	digestConfigLock.RUnlock()

	if cached != nil {
		c.JSON(http.StatusOK, cached)
		return
	}

	config, err := h.configRepo.Get()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load digest settings"})
		return
	}

	digestConfigLock.Lock()
	digestConfigCache = config
	digestConfigLock.Unlock()

	c.JSON(http.StatusOK, config)
}

// UpdateDigestSettings updates digest configuration at runtime
// PUT /api/settings/digest
func (h *SettingsHandler) UpdateDigestSettings(c *gin.Context) {
	var req UpdateDigestSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.HSEIntervalMinutes != nil && *req.HSEIntervalMinutes < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "hse_interval_minutes must be at least 1"})
		return
	}
	if req.AdminIntervalMinutes != nil && *req.AdminIntervalMinutes < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "admin_interval_minutes must be at least 1"})
		return
	}

	config, err := h.configRepo.Get()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load digest settings"})
		return
	}

	applyDigestSettings(config, &req)

	if err := h.configRepo.Update(config); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save digest settings"})
		return
	}

	digestConfigLock.Lock()
	digestConfigCache = config
	digestConfigLock.Unlock()

	h.digest.ResetTimers()

	c.JSON(http.StatusOK, gin.H{
		"message":  "digest settings updated successfully",
		"settings": config,
	})
}

func applyDigestSettings(config *notifdomain.DigestConfig, req *UpdateDigestSettingsRequest) {
	if req.IsEmailingEnabled != nil {
		config.IsEmailingEnabled = *req.IsEmailingEnabled
	}
	if req.HSEDigestEnabled != nil {
		config.HSEDigestEnabled = *req.HSEDigestEnabled
	}
	if req.AdminDigestEnabled != nil {
		config.AdminDigestEnabled = *req.AdminDigestEnabled
	}
	if req.HSEIntervalMinutes != nil {
		config.HSEIntervalMinutes = *req.HSEIntervalMinutes
	}
	if req.AdminIntervalMinutes != nil {
		config.AdminIntervalMinutes = *req.AdminIntervalMinutes
	}
	if req.EmailOnReportEvents != nil {
		config.EmailOnReportEvents = *req.EmailOnReportEvents
	}
	if req.EmailOnWorkItemEvents != nil {
		config.EmailOnWorkItemEvents = *req.EmailOnWorkItemEvents
	}
	if req.EmailOnDeadlineEvents != nil {
		config.EmailOnDeadlineEvents = *req.EmailOnDeadlineEvents
	}
	if req.EmailOnDelegationEvents != nil {
		config.EmailOnDelegationEvents = *req.EmailOnDelegationEvents
	}
	if req.EmailOnRegistrationEvents != nil {
		config.EmailOnRegistrationEvents = *req.EmailOnRegistrationEvents
	}
	if req.RestrictedAdminRecipientIDs != nil {
		config.RestrictedAdminRecipientIDs = *req.RestrictedAdminRecipientIDs
	}
}
