package main

import (
	"context"
	"fmt"
	"time"
	_ "time/tzdata"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"slotzi.backend/internal/config"
	domainRepos "slotzi.backend/internal/domain/repositories"
	"slotzi.backend/internal/infrastructure/jobs"
	"slotzi.backend/internal/infrastructure/media"
	"slotzi.backend/internal/infrastructure/notification"
	"slotzi.backend/internal/infrastructure/predictor"
	"slotzi.backend/internal/infrastructure/repositories"
	"slotzi.backend/internal/interfaces/http/handlers"
	"slotzi.backend/internal/interfaces/http/middleware"
	"slotzi.backend/internal/interfaces/realtime"
	"slotzi.backend/internal/usecases"
	"slotzi.backend/pkg/jwt"
	"slotzi.backend/pkg/logger"
)

var newLocker = func(cfg config.LockConfig) domainRepos.Locker {
	return repositories.NewRedisLocker(domainRepos.LockOptions{TTL: cfg.TTL, Wait: cfg.Wait})
}

// application is the wired server: router plus the long-lived parts main must stop
type application struct {
	router    *gin.Engine
	hub       *realtime.Hub
	expiryJob *jobs.ReservationExpiryJob
	media     *media.BlobStore
}

func (a *application) close() {
	if err := a.media.Close(); err != nil {
		logger.Warn(context.Background(), "Failed to close media bucket", zap.Error(err))
	}
}

func buildApp(ctx context.Context, cfg *config.Config, db *gorm.DB) (*application, error) {
	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiry, cfg.JWT.Issuer)

	businessRepo := repositories.NewBusinessRepository(db)
	locationRepo := repositories.NewLocationRepository(db)
	categoryRepo := repositories.NewCategoryRepository(db)
	updateLogRepo := repositories.NewBusinessUpdateLogRepository(db)
	relationRepo := repositories.NewBusinessUserRepository(db)
	userRepo := repositories.NewUserRepository(db)
	customerRepo := repositories.NewCustomerRepository(db)
	emailRepo := repositories.NewEmailRepository(db)
	contactRepo := repositories.NewContactRepository(db)
	floorRepo := repositories.NewFloorPlanRepository(db)
	tableRepo := repositories.NewTableRepository(db)
	reservationRepo := repositories.NewReservationRepository(db)
	locker := newLocker(cfg.Lock)

	mediaStore, err := media.Open(ctx, cfg.Media.BucketURL, cfg.Media.PublicBaseURL, cfg.Media.MaxUploadSize)
	if err != nil {
		return nil, err
	}
	mailer := notification.NewEmailDispatcher(cfg.SMTP, cfg.App.PublicBaseURL)
	durationPredictor := predictor.New(cfg.Predictor)

	location, err := time.LoadLocation(cfg.Reservation.Timezone)
	if err != nil {
		_ = mediaStore.Close()
		return nil, fmt.Errorf("invalid reservation timezone %q: %w", cfg.Reservation.Timezone, err)
	}

	hub := realtime.NewHub(cfg.Server.AllowedOrigins)

	businessUsecase := usecases.NewBusinessUsecase(usecases.BusinessStores{
		Businesses: businessRepo,
		Locations:  locationRepo,
		Emails:     emailRepo,
		Contacts:   contactRepo,
		Relations:  relationRepo,
		Categories: categoryRepo,
		Users:      userRepo,
		UpdateLogs: updateLogRepo,
	}, mediaStore, mailer, locker)
	relationUsecase := usecases.NewBusinessUserUsecase(relationRepo, businessRepo, userRepo, mailer)
	floorPlanUsecase := usecases.NewFloorPlanUsecase(businessRepo, floorRepo, tableRepo, locker)
	reservationUsecase := usecases.NewReservationUsecase(
		reservationRepo, tableRepo, customerRepo, businessRepo,
		durationPredictor, hub, locker,
		usecases.ReservationPolicy{Location: location, EnforceOverlap: cfg.Reservation.EnforceOverlap},
	)
	hub.SetReservationService(reservationUsecase)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.LoggerMiddleware())
	r.Use(middleware.MetricsMiddleware())

	applyCORSMiddleware(r, cfg.Server.AllowedOrigins)
	registerHealthRoute(r)
	registerPublicRoutes(r, publicDeps{
		hub:           hub,
		verifyHandler: handlers.NewVerifyHandler(businessUsecase, relationUsecase),
		mediaHandler:  handlers.NewMediaHandler(mediaStore),
	})
	registerAPIV1Routes(r, routeDeps{
		businessHandler:    handlers.NewBusinessHandler(businessUsecase, cfg.Media.MaxUploadSize),
		floorPlanHandler:   handlers.NewFloorPlanHandler(floorPlanUsecase),
		relationHandler:    handlers.NewRelationHandler(relationUsecase),
		reservationHandler: handlers.NewReservationHandler(reservationUsecase),
		authMiddleware:     middleware.AuthMiddleware(jwtService),
	})

	return &application{
		router:    r,
		hub:       hub,
		expiryJob: jobs.NewReservationExpiryJob(reservationUsecase, cfg.Reservation.ExpiryInterval),
		media:     mediaStore,
	}, nil
}
