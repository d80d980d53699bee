package api

import (
	authDelivery "hse-backend/internal/auth/delivery"
	authUsecase "hse-backend/internal/auth/usecase"
	notifDelivery "hse-backend/internal/notification/delivery"
	notifRepo "hse-backend/internal/notification/repository"
	notifUsecase "hse-backend/internal/notification/usecase"
	reportDelivery "hse-backend/internal/report/delivery"
	reportUsecase "hse-backend/internal/report/usecase"
	workitemDelivery "hse-backend/internal/workitem/delivery"
	workitemUsecase "hse-backend/internal/workitem/usecase"
	zoneDelivery "hse-backend/internal/zone/delivery"
	zoneUsecase "hse-backend/internal/zone/usecase"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	authUsecase         authUsecase.AuthUsecase
	authHandler         *authDelivery.AuthHandler
	reportHandler       *reportDelivery.ReportHandler
	workItemHandler     *workitemDelivery.WorkItemHandler
	delegationHandler   *zoneDelivery.DelegationHandler
	notificationHandler *notifDelivery.NotificationHandler
	settingsHandler     *SettingsHandler
}

func NewHandler(
	authUc authUsecase.AuthUsecase,
	registrationUc authUsecase.RegistrationUsecase,
	reportUc reportUsecase.ReportUsecase,
	workItemUc workitemUsecase.WorkItemUsecase,
	delegationUc zoneUsecase.DelegationUsecase,
	notificationUc notifUsecase.NotificationUsecase,
	configRepo notifRepo.DigestConfigRepository,
	digest digestTimerResetter,
) *Handler {
	return &Handler{
		authUsecase:         authUc,
		authHandler:         authDelivery.NewAuthHandler(registrationUc),
		reportHandler:       reportDelivery.NewReportHandler(reportUc),
		workItemHandler:     workitemDelivery.NewWorkItemHandler(workItemUc),
		delegationHandler:   zoneDelivery.NewDelegationHandler(delegationUc),
		notificationHandler: notifDelivery.NewNotificationHandler(notificationUc),
		settingsHandler:     NewSettingsHandler(configRepo, digest),
	}
}

func (h *Handler) Start(addr string) error {
	r := gin.Default()
	gin.SetMode(gin.ReleaseMode)

	// CORS middleware
	r.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		} else {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	SetupRoutes(r, h.authUsecase, h.authHandler, h.reportHandler, h.workItemHandler, h.delegationHandler, h.notificationHandler, h.settingsHandler)

	return r.Run(addr)
}
