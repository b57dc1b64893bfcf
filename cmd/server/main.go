package main // Entry point package

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/echocode-app/jm-showroomer-back-sub001/internal/config"
	"github.com/echocode-app/jm-showroomer-back-sub001/internal/handler"
	"github.com/echocode-app/jm-showroomer-back-sub001/internal/logger"
	"github.com/echocode-app/jm-showroomer-back-sub001/internal/queue"
	"github.com/echocode-app/jm-showroomer-back-sub001/internal/repository"
	"github.com/echocode-app/jm-showroomer-back-sub001/internal/router"
	"github.com/echocode-app/jm-showroomer-back-sub001/internal/service"
	"github.com/echocode-app/jm-showroomer-back-sub001/internal/store"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	zlog, err := logger.New(cfg.LogLevel, "showroomer-back")
	if err != nil {
		log.Fatalf("logger init failed: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	// The document-store driver is an external capability; the in-memory
	// engine serves local development and tests behind the same interface.
	st := store.NewMemStore(nil)

	users := repository.NewUserRepo(st)
	showrooms := repository.NewShowroomRepo(st)
	ownership := repository.NewOwnershipRepo(st)
	favorites := repository.NewFavoriteRepo(st)

	// Redis-backed dedup when available, in-process otherwise.
	var dedup service.DedupStore
	if rdb := config.NewRedisClient(); rdb != nil {
		dedup = service.NewRedisDedupStore(rdb)
		zlog.Info("dedup store using redis")
	} else {
		dedup = service.NewMemoryDedupStore(nil)
		zlog.Warn("redis unavailable, dedup store degraded to in-memory")
	}

	publisher := queue.NewPublisher()
	cooldown := time.Duration(cfg.CooldownHours) * time.Hour

	showroomSvc := service.NewShowroomService(st, users, showrooms, publisher, cooldown, nil, zlog)
	moderationSvc := service.NewModerationService(showrooms, zlog)
	accountSvc := service.NewAccountService(st, users, showrooms, ownership, publisher, nil, zlog)
	engagementSvc := service.NewEngagementService(st, users, showrooms, favorites, dedup,
		time.Duration(cfg.FavoriteDebounceSec)*time.Second,
		time.Duration(cfg.ViewDedupTTLMin)*time.Minute,
		zlog)

	go func() {
		if err := queue.StartStatusChangedConsumer(); err != nil {
			zlog.Error("status consumer stopped", zap.Error(err))
		}
	}()

	e := echo.New()
	router.RegisterRoutes(e,
		handler.NewShowroomHandler(showroomSvc, engagementSvc),
		handler.NewAdminHandler(moderationSvc, showroomSvc),
		handler.NewAccountHandler(accountSvc),
		cfg.JWTSecret)

	addr := ":" + cfg.Port
	zlog.Info("listening", zap.String("addr", addr), zap.String("env", cfg.Env))
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
