package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/kinopitch/trailers-backend/internal/config"
	"github.com/kinopitch/trailers-backend/internal/db"
	httpHandlers "github.com/kinopitch/trailers-backend/internal/http/handlers"
	httpRouter "github.com/kinopitch/trailers-backend/internal/http/router"
	"github.com/kinopitch/trailers-backend/internal/logger"
	"github.com/kinopitch/trailers-backend/internal/repository"
	"github.com/kinopitch/trailers-backend/internal/service"
	"github.com/kinopitch/trailers-backend/internal/storage"
	"github.com/kinopitch/trailers-backend/internal/ws"
)

func main() {
	// Готовим контекст для graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("main: ошибка загрузки конфигурации: %v", err)
	}

	// Инициализация логгера
	if cfg.Env == "development" {
		logger.Init("debug")
		logger.SetTextFormatter()
	} else {
		logger.Init("info")
	}

	// Подключение к базе и миграции.
	dbConn, err := db.NewPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("main: ошибка подключения к базе: %v", err)
	}
	defer safeClose(dbConn)

	if err := db.RunMigrations(ctx, dbConn, cfg.MigrationsPath); err != nil {
		log.Fatalf("main: ошибка миграций: %v", err)
	}

	// Вспомогательные сервисы.
	tokenManager := service.NewTokenManager(cfg.JWTSecret)

	posterStorage, err := storage.NewPosterStorage(cfg.MediaStoragePath, cfg.MaxUploadSizeMB)
	if err != nil {
		log.Fatalf("main: не удалось подготовить файловое хранилище: %v", err)
	}

	// Репозитории.
	pollRepo := repository.NewPollRepository(dbConn)
	reportRepo := repository.NewReportRepository(dbConn)
	trailerRepo := repository.NewTrailerRepository(dbConn)
	mediaRepo := repository.NewMediaRepository(dbConn)

	// Сервисы.
	pollService := service.NewPollService(pollRepo)
	reportService := service.NewReportService(reportRepo)

	// Живая трансляция результатов опросов.
	hub := ws.NewHub()
	go hub.Run()
	pollService.SetNotifier(hub)

	// HTTP хэндлеры.
	pollHandler := httpHandlers.NewPollHandler(pollService)
	reportHandler := httpHandlers.NewReportHandler(reportService)
	trailerHandler := httpHandlers.NewTrailerHandler(trailerRepo, mediaRepo, posterStorage)
	wsHandler := httpHandlers.NewWSHandler(hub)
	healthHandler := httpHandlers.NewHealthHandler(dbConn)

	// Роутер.
	engine := httpRouter.SetupRouter(cfg, pollHandler, reportHandler, trailerHandler, wsHandler, healthHandler, tokenManager)

	server := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: engine,
	}

	// Завершаем сервер при получении сигнала.
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("main: ошибка остановки http сервера: %v", err)
		}
	}()

	log.Printf("main: HTTP сервер запущен на порту %s", cfg.HTTPPort)

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("main: сервер завершился с ошибкой: %v", err)
	}
}

// safeClose закрывает соединение с базой.
func safeClose(db *sqlx.DB) {
	if err := db.Close(); err != nil {
		log.Printf("main: ошибка закрытия базы: %v", err)
	}
}
