package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"estateBack/internal/config"
	"estateBack/internal/migrations"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: Error loading .env file: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	addr := flag.String("addr", cfg.Server.Address, "HTTP network address")
	flag.Parse()

	logger, err := newLogger(cfg.Log.Level, cfg.Log.Development)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	db, err := openDB(cfg.Database.URL)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()
	logger.Info("successfully connected to database")

	if cfg.Database.AutoMigrate {
		if err := migrations.Up(db, logger); err != nil {
			logger.Fatal("failed to apply migrations", zap.Error(err))
		}
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer rdb.Close()
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		// Rate limiting fails open and alerts are best-effort, so keep serving.
		logger.Warn("redis unavailable", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
	}

	app, err := initializeApp(cfg, db, rdb, logger)
	if err != nil {
		logger.Fatal("failed to initialize application", zap.Error(err))
	}

	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowCredentials: true,
		AllowedHeaders:   []string{"Content-Type", "Authorization", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID", "Retry-After"},
	})

	srv := &http.Server{
		Addr:         *addr,
		ErrorLog:     zap.NewStdLog(logger),
		Handler:      c.Handler(app.routes()),
		IdleTimeout:  time.Minute,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("starting server", zap.String("addr", *addr))
		serverErr <- srv.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	case sig := <-stop:
		logger.Info("shutting down", zap.String("signal", sig.String()))
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("graceful shutdown failed", zap.Error(err))
		}
	}
}

func newLogger(level string, development bool) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	zcfg := zap.NewProductionConfig()
	if development {
		zcfg = zap.NewDevelopmentConfig()
	}
	zcfg.Level = zap.NewAtomicLevelAt(lvl)
	return zcfg.Build()
}

// openDB forces the driver options the repositories rely on: DATETIME columns
// scan into time.Time in UTC, and UPDATE reports matched rather than changed rows.
func openDB(dsn string) (*sql.DB, error) {
	mcfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return nil, err
	}
	mcfg.ParseTime = true
	mcfg.ClientFoundRows = true
	mcfg.Loc = time.UTC

	db, err := sql.Open("mysql", mcfg.FormatDSN())
	if err != nil {
		return nil, err
	}
	if err = db.Ping(); err != nil {
		db.Close()
		return nil, err
	}
	db.SetMaxIdleConns(35)
	db.SetConnMaxLifetime(5 * time.Minute)
	return db, nil
}
