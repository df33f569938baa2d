package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/mizti/movie-reserve-mcp/internal/api"
	"github.com/mizti/movie-reserve-mcp/internal/api/handler"
	appmiddleware "github.com/mizti/movie-reserve-mcp/internal/api/middleware"
	"github.com/mizti/movie-reserve-mcp/internal/application"
	"github.com/mizti/movie-reserve-mcp/internal/config"
	"github.com/mizti/movie-reserve-mcp/internal/domain/reservation"
	"github.com/mizti/movie-reserve-mcp/internal/domain/seatmap"
	"github.com/mizti/movie-reserve-mcp/internal/infrastructure/file"
	"github.com/mizti/movie-reserve-mcp/internal/infrastructure/postgres"
	redisinfra "github.com/mizti/movie-reserve-mcp/internal/infrastructure/redis"
	"github.com/mizti/movie-reserve-mcp/internal/pkg/logger"
	"github.com/mizti/movie-reserve-mcp/internal/pkg/metrics"
	"github.com/mizti/movie-reserve-mcp/internal/worker"
)

func main() {
	cfg := config.Load()

	logger.Set(logger.NewLogger(os.Getenv("APP_ENV")))
	defer logger.Sync()

	m := metrics.Init()

	// カタログはプロセス起動時に1回ロードし、以後は読み取り専用
	catalogRepo, err := file.NewCatalogRepository(cfg.Storage.MoviesPath, cfg.Storage.SchedulesPath)
	if err != nil {
		logger.Fatal("カタログの初期化に失敗", zap.Error(err))
	}

	seatMapStore, reservationLog, closeStorage, err := buildStorage(cfg)
	if err != nil {
		logger.Fatal("ストレージの初期化に失敗", zap.Error(err))
	}
	defer closeStorage()

	// Redis（有効時のみ）: 空席数キャッシュと上映単位ロック
	var opts []application.ReservationServiceOption
	opts = append(opts, application.WithMetrics(m))
	var cache *redisinfra.AvailabilityCache
	var workerOpts []worker.ReconcilerOption
	if cfg.Redis.Enabled {
		redisClient := redisinfra.NewClient(&cfg.Redis)
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := redisinfra.Ping(ctx, redisClient); err != nil {
			cancel()
			logger.Fatal("Redis接続に失敗", zap.Error(err))
		}
		cancel()
		defer redisClient.Close()

		cache = redisinfra.NewAvailabilityCache(redisClient, cfg.Engine.CacheTTL)
		lockManager := redisinfra.NewLockManager(redisClient)
		opts = append(opts,
			application.WithAvailabilityCache(cache),
			application.WithLockManager(lockManager, cfg.Engine.LockTTL),
		)
		workerOpts = append(workerOpts, worker.WithCacheInvalidator(cache))
	}

	// 補償ワーカー
	reconciler := worker.NewReconciler(seatMapStore, reservationLog, m, workerOpts...)
	workerCtx, stopWorker := context.WithCancel(context.Background())
	go reconciler.Start(workerCtx)
	opts = append(opts, application.WithCompensator(reconciler))

	opts = append(opts, application.WithMaxCommitAttempts(cfg.Engine.MaxCommitAttempts))

	reservationService := application.NewReservationService(seatMapStore, reservationLog, catalogRepo, opts...)
	seatService := application.NewSeatService(seatMapStore, cache)
	catalogService := application.NewCatalogService(catalogRepo)

	e := newEcho(cfg, reservationService, seatService, catalogService, m)

	// サーバー起動
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal("サーバー起動エラー", zap.Error(err))
		}
	}()

	// シグナル待機
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("サーバーをシャットダウンしています...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		logger.Error("サーバーシャットダウンエラー", zap.Error(err))
	}

	// 処理中の補償を完走させてからワーカーを止める
	stopWorker()
	reconciler.Wait()

	logger.Info("サーバーが正常にシャットダウンしました")
}

// buildStorage は設定に応じた座席マップストアと予約ログを構築する
func buildStorage(cfg *config.Config) (seatmap.Store, reservation.Log, func(), error) {
	switch cfg.Storage.Driver {
	case "postgres":
		db, err := postgres.NewConnection(&cfg.Database)
		if err != nil {
			return nil, nil, nil, err
		}
		if err := postgres.RunMigrations(db, cfg.Storage.MigrationsPath); err != nil {
			db.Close()
			return nil, nil, nil, err
		}
		return postgres.NewSeatMapStore(db), postgres.NewReservationLog(db), func() { db.Close() }, nil

	case "file":
		store, err := file.NewSeatMapStore(cfg.Storage.SeatMapDir)
		if err != nil {
			return nil, nil, nil, err
		}
		if cfg.Storage.SeatMapSeedPath != "" {
			if _, err := os.Stat(cfg.Storage.SeatMapSeedPath); err == nil {
				imported, err := store.ImportSeed(context.Background(), cfg.Storage.SeatMapSeedPath)
				if err != nil {
					return nil, nil, nil, err
				}
				if imported > 0 {
					logger.Info("座席マップシードを取り込み", zap.Int("imported", imported))
				}
			}
		}
		log, err := file.OpenReservationLog(cfg.Storage.ReservationLog)
		if err != nil {
			return nil, nil, nil, err
		}
		return store, log, func() { log.Close() }, nil

	default:
		return nil, nil, nil, fmt.Errorf("未知のストレージドライバ: %s", cfg.Storage.Driver)
	}
}

// newEcho はルーティングとミドルウェアを設定したEchoインスタンスを作成する
func newEcho(cfg *config.Config, rs handler.ReservationServiceInterface, ss handler.SeatServiceInterface, cs handler.CatalogServiceInterface, m *metrics.Metrics) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Server.ReadTimeout = cfg.Server.ReadTimeout
	e.Server.WriteTimeout = cfg.Server.WriteTimeout
	e.Validator = api.NewValidator()
	e.HTTPErrorHandler = api.CustomHTTPErrorHandler

	appmiddleware.SetupMiddleware(e)
	e.Use(appmiddleware.PrometheusMiddleware(m))

	healthHandler := handler.NewHealthHandler()
	movieHandler := handler.NewMovieHandler(cs)
	seatHandler := handler.NewSeatHandler(ss)
	reservationHandler := handler.NewReservationHandler(rs, cs)

	e.GET("/health", healthHandler.Check)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()), appmiddleware.MetricsBasicAuth())

	v1 := e.Group("/api/v1")
	v1.GET("/movies", movieHandler.List)
	v1.GET("/movies/search", movieHandler.FindByTitle)
	v1.GET("/movies/:id", movieHandler.GetByID)
	v1.GET("/screenings", movieHandler.ListScreenings)
	v1.GET("/screenings/:id", movieHandler.GetScreening)
	v1.GET("/screenings/:id/seats", seatHandler.GetAvailability)
	v1.GET("/screenings/:id/seats/count", seatHandler.CountAvailable)
	v1.GET("/screenings/:id/reservations", reservationHandler.ListByScreening)
	v1.POST("/reservations", reservationHandler.Create)
	v1.GET("/reservations/:id", reservationHandler.GetByID)

	return e
}
