package main

import (
	"database/sql"
	"net"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"estateBack/internal/config"
	"estateBack/internal/handlers"
	"estateBack/internal/ratelimit"
	"estateBack/internal/repositories"
	"estateBack/internal/services"
	"estateBack/internal/validation"
	"estateBack/utils"
)

type application struct {
	logger *zap.Logger
	db     *sql.DB

	tokens         *utils.Manager
	limiter        *ratelimit.Limiter
	writeLimiter   *ratelimit.Limiter
	trustedProxies []*net.IPNet

	userHandler        *handlers.UserHandler
	apartmentHandler   *handlers.ApartmentHandler
	reviewHandler      *handlers.ReviewHandler
	savedSearchHandler *handlers.SavedSearchHandler
}

func initializeApp(cfg config.Config, db *sql.DB, rdb redis.Cmdable, logger *zap.Logger) (*application, error) {
	tokens, err := utils.NewManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	if err != nil {
		return nil, err
	}
	validator, err := validation.New()
	if err != nil {
		return nil, err
	}
	trusted, err := cfg.TrustedNetworks()
	if err != nil {
		return nil, err
	}

	// Repositories
	userRepo := &repositories.UserRepository{DB: db}
	apartmentRepo := &repositories.ApartmentRepository{DB: db}
	reviewRepo := &repositories.ReviewRepository{DB: db}
	savedSearchRepo := &repositories.SavedSearchRepository{DB: db}
	alertQueue := &repositories.AlertQueue{Client: rdb}

	// Services
	userService := &services.UserService{UserRepo: userRepo, Tokens: tokens, Logger: logger}
	alertService := &services.AlertService{
		SavedSearchRepo: savedSearchRepo,
		Queue:           alertQueue,
		Logger:          logger,
		Now:             time.Now,
	}
	apartmentService := &services.ApartmentService{ApartmentRepo: apartmentRepo, Alerts: alertService, Logger: logger}
	reviewService := &services.ReviewService{ReviewsRepo: reviewRepo, Apartments: apartmentRepo}
	savedSearchService := &services.SavedSearchService{
		SavedSearchRepo: savedSearchRepo,
		Listings:        apartmentRepo,
		Logger:          logger,
		Now:             time.Now,
		NewID:           utils.NewID,
	}

	return &application{
		logger:         logger,
		db:             db,
		tokens:         tokens,
		limiter:        ratelimit.New(rdb, cfg.RateLimit.Requests, cfg.RateLimit.Window),
		writeLimiter:   ratelimit.New(rdb, cfg.RateLimit.WriteRequests, cfg.RateLimit.Window),
		trustedProxies: trusted,

		userHandler:        &handlers.UserHandler{Service: userService, Validator: validator, Logger: logger},
		apartmentHandler:   &handlers.ApartmentHandler{Service: apartmentService, Validator: validator, Logger: logger},
		reviewHandler:      &handlers.ReviewHandler{Service: reviewService, Validator: validator, Logger: logger},
		savedSearchHandler: &handlers.SavedSearchHandler{Service: savedSearchService, Validator: validator, Logger: logger},
	}, nil
}
