package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	api "hse-backend/cmd/api"
	authdomain "hse-backend/internal/auth/domain"
	authRepo "hse-backend/internal/auth/repository"
	authUsecase "hse-backend/internal/auth/usecase"
	notifdomain "hse-backend/internal/notification/domain"
	notifRepo "hse-backend/internal/notification/repository"
	notifScheduler "hse-backend/internal/notification/scheduler"
	notifUsecase "hse-backend/internal/notification/usecase"
	reportdomain "hse-backend/internal/report/domain"
	reportRepo "hse-backend/internal/report/repository"
	reportUsecase "hse-backend/internal/report/usecase"
	workitemdomain "hse-backend/internal/workitem/domain"
	workitemRepo "hse-backend/internal/workitem/repository"
	workitemScheduler "hse-backend/internal/workitem/scheduler"
	workitemUsecase "hse-backend/internal/workitem/usecase"
	zonedomain "hse-backend/internal/zone/domain"
	zoneRepo "hse-backend/internal/zone/repository"
	"hse-backend/internal/zone/resolver"
	zoneUsecase "hse-backend/internal/zone/usecase"
	"hse-backend/pkg/config"
	"hse-backend/pkg/database"
	"hse-backend/pkg/mailer"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.NewPostgresConnection(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Auto-migrate database schemas
	if err := db.AutoMigrate(
		&authdomain.User{},
		&authdomain.RegistrationRequest{},
		&zonedomain.Zone{},
		&zonedomain.ZoneResponsibility{},
		&zonedomain.ZoneDelegation{},
		&reportdomain.Report{},
		&reportdomain.Comment{},
		&workitemdomain.Action{},
		&workitemdomain.CorrectiveAction{},
		&workitemdomain.SubAction{},
		&notifdomain.Notification{},
		&notifdomain.EmailLog{},
		&notifdomain.DigestConfig{},
	); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	// Initialize repositories (dependency injection)
	userRepo := authRepo.NewUserRepository(db)
	zoneRepository := zoneRepo.NewZoneRepository(db)
	respRepo := zoneRepo.NewZoneResponsibilityRepository(db)
	delegationRepo := zoneRepo.NewZoneDelegationRepository(db)
	reportRepository := reportRepo.NewReportRepository(db)
	commentRepo := reportRepo.NewCommentRepository(db)
	itemRepos := []workitemRepo.WorkItemRepository{
		workitemRepo.NewActionRepository(db),
		workitemRepo.NewCorrectiveActionRepository(db),
		workitemRepo.NewSubActionRepository(db),
	}
	notificationRepo := notifRepo.NewNotificationRepository(db)
	emailLogRepo := notifRepo.NewEmailLogRepository(db)
	digestConfigRepo := notifRepo.NewDigestConfigRepository(db, notifdomain.DigestConfig{
		IsEmailingEnabled:         cfg.DigestEmailingEnabled,
		HSEDigestEnabled:          true,
		AdminDigestEnabled:        true,
		HSEIntervalMinutes:        cfg.DigestHSEIntervalMinutes,
		AdminIntervalMinutes:      cfg.DigestAdminIntervalMinutes,
		EmailOnReportEvents:       true,
		EmailOnWorkItemEvents:     true,
		EmailOnDeadlineEvents:     true,
		EmailOnDelegationEvents:   true,
		EmailOnRegistrationEvents: true,
	})

	// Initialize mail transport
	mailTransport := mailer.NewSMTPTransport(mailer.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.SMTPFrom,
		FromName: cfg.SMTPFromName,
	})

	// Initialize resolution and routing engines
	zoneResolver := resolver.NewResolver(zoneRepository, respRepo, delegationRepo)
	assignmentEngine := reportUsecase.NewAssignmentEngine(reportRepository, zoneResolver)
	router := notifUsecase.NewRouter(
		userRepo,
		zoneResolver,
		delegationRepo,
		reportRepository,
		commentRepo,
		itemRepos,
		notificationRepo,
		emailLogRepo,
		digestConfigRepo,
		mailTransport,
	)
	eventGateway := notifUsecase.NewEventGateway(router, assignmentEngine, reportRepository, delegationRepo)

	// Initialize schedulers
	sweeper := workitemScheduler.NewOverdueSweeper(itemRepos, cfg.OverdueSweepInterval)
	deadlinePass := workitemScheduler.NewDeadlinePass(itemRepos, router, cfg.DeadlineApproachingWindow, cfg.DeadlinePassInterval)
	digestScheduler := notifScheduler.NewDigestScheduler(
		digestConfigRepo,
		userRepo,
		zoneResolver,
		zoneRepository,
		reportRepository,
		itemRepos,
		mailTransport,
		emailLogRepo,
	)

	sweeper.Start()
	deadlinePass.Start()
	digestScheduler.Start()

	// Initialize use cases and HTTP handler
	authUsecaseInstance := authUsecase.NewAuthUsecase(userRepo, cfg.JWTSecret)
	registrationUsecase := authUsecase.NewRegistrationUsecase(userRepo, eventGateway)
	reportUsecaseInstance := reportUsecase.NewReportUsecase(reportRepository, commentRepo, eventGateway)
	workItemUsecaseInstance := workitemUsecase.NewWorkItemUsecase(itemRepos, eventGateway)
	delegationUsecase := zoneUsecase.NewDelegationUsecase(zoneRepository, delegationRepo, eventGateway)
	notificationUsecase := notifUsecase.NewNotificationUsecase(notificationRepo)
	handler := api.NewHandler(
		authUsecaseInstance,
		registrationUsecase,
		reportUsecaseInstance,
		workItemUsecaseInstance,
		delegationUsecase,
		notificationUsecase,
		digestConfigRepo,
		digestScheduler,
	)

	// Stop schedulers on shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-quit
		log.Println("Shutting down schedulers")
		sweeper.Stop()
		deadlinePass.Stop()
		digestScheduler.Stop()
		os.Exit(0)
	}()

	// Start server
	log.Printf("Server starting on port %s", cfg.Port)
	if err := handler.Start(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
