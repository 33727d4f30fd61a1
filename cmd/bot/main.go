package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/mbodj/wacloud/internal/config"
	"github.com/mbodj/wacloud/internal/scheduler"
	"github.com/mbodj/wacloud/internal/server/handlers"
	"github.com/mbodj/wacloud/internal/server/router"
	"github.com/mbodj/wacloud/internal/service/bot"
	"github.com/mbodj/wacloud/internal/store/mongodb"
	"github.com/mbodj/wacloud/pkg/logger"
	"github.com/mbodj/wacloud/pkg/whatsapp"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(zapcore.InfoLevel))
	defer func() { _ = baseLogger.Sync() }()

	store, err := mongodb.NewMongoStore(context.Background(), cfg.MongoDB.URI, cfg.MongoDB.DBName)
	if err != nil {
		baseLogger.Fatal("failed to init mongodb store", zap.Error(err))
	}
	defer func() {
		if err := store.Close(context.Background()); err != nil {
			baseLogger.Error("failed to close mongodb connection", zap.Error(err))
		}
	}()

	client := whatsapp.NewClient(cfg.WhatsApp,
		whatsapp.WithLogger(logger.Named(baseLogger, "whatsapp.client")))

	botSvc := bot.NewEchoBot(client, store, logger.Named(baseLogger, "svc.bot"))
	webhookHandler := handlers.NewWebhookHandler(botSvc, logger.Named(baseLogger, "handlers.webhook"))
	engine := router.New(webhookHandler, logger.Named(baseLogger, "router"))

	sched := scheduler.NewScheduler(cfg.Broadcast, botSvc, logger.Named(baseLogger, "scheduler"))
	sched.Start()
	defer sched.Stop()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}
