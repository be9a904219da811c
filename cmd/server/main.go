package main

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/classtrack/classtrack/internal/api"
	"github.com/classtrack/classtrack/internal/config"
	"github.com/classtrack/classtrack/internal/db"
	"github.com/classtrack/classtrack/internal/observ"
	"github.com/classtrack/classtrack/internal/repository/postgres"
	"github.com/classtrack/classtrack/internal/ws"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := observ.NewLogger(cfg.Env, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer logger.Sync()

	// Startup has no deadline of its own; request contexts get theirs per
	// call once the server is up.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := db.Migrate(cfg.DatabaseURL, logger); err != nil {
		return fmt.Errorf("migrate schema: %w", err)
	}

	database, err := db.New(ctx, cfg.DatabaseURL, logger)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer database.Close()

	pool := database.Pool()
	userRepo := postgres.NewUserStore(pool)
	classroomRepo := postgres.NewClassroomStore(pool)
	taskRepo := postgres.NewTaskStore(pool)
	messageRepo := postgres.NewMessageStore(pool)

	// The redis bridge is optional: one instance needs no redis, a fleet
	// needs it so chat broadcasts reach rooms on other instances.
	var publisher ws.Publisher
	var bridge *ws.RedisBridge
	if cfg.RedisURL != "" {
		bridge, err = ws.NewRedisBridge(ctx, cfg.RedisURL, uuid.NewString(), logger)
		if err != nil {
			return fmt.Errorf("connect to redis: %w", err)
		}
		defer bridge.Close()
		publisher = bridge
	}

	hub := ws.NewHub(messageRepo, publisher, logger)
	go hub.Run(ctx)
	if bridge != nil {
		go bridge.Subscribe(ctx, hub)
	}

	router := api.NewRouter(api.Deps{
		Auth:       api.NewAuthHandler(userRepo, cfg.JWTSecret, cfg.TokenTTL, cfg.AdminEmail, logger),
		Classrooms: api.NewClassroomHandler(classroomRepo, logger),
		Tasks:      api.NewTaskHandler(taskRepo, logger),
		Messages:   api.NewMessageHandler(messageRepo, logger),
		Admin:      api.NewAdminHandler(userRepo, classroomRepo, taskRepo, messageRepo, logger),
		Hub:        hub,

		JWTSecret:      cfg.JWTSecret,
		AllowedOrigins: cfg.AllowedOrigins,
		Logger:         logger,
	})

	logger.Info("starting classtrack server",
		zap.String("port", cfg.Port),
		zap.String("env", cfg.Env),
		zap.Bool("redis_bridge", bridge != nil),
	)

	if err := router.Run(":" + cfg.Port); err != nil {
		return fmt.Errorf("run server: %w", err)
	}

	return nil
}
