package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/foodrescue/coordination-service/internal/config"
	"github.com/foodrescue/coordination-service/internal/repository/postgres"
	"github.com/foodrescue/coordination-service/internal/service"
	myhttp "github.com/foodrescue/coordination-service/internal/transport/http"
	"github.com/foodrescue/coordination-service/pkg/logger/slogpretty"
	"github.com/joho/godotenv"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// A missing .env is fine, configuration comes from CONFIG_PATH.
	_ = godotenv.Load()

	cfg := config.MustLoad()
	log := slogpretty.SetupLogger(cfg.Env)

	log.Info("starting coordination-service", slog.String("env", cfg.Env))

	errChan := make(chan error, 1)

	db, err := postgres.NewDB(cfg.Postgres, log)
	if err != nil {
		return fmt.Errorf("failed to init db: %v", err)
	}
	defer func() {
		err = db.DB().Close()
		if err != nil {
			errChan <- fmt.Errorf("db close failed: %v", err)
		}
	}()

	donationRepo := postgres.NewDonationRepository(db.DB(), log)
	taskRepo := postgres.NewTaskRepository(db.DB(), log)
	userRepo := postgres.NewUserRepository(db.DB(), log)
	ratingRepo := postgres.NewRatingRepository(db.DB(), log)
	notificationRepo := postgres.NewNotificationRepository(db.DB(), log)

	donationService := service.NewDonationService(db.DB(), log, donationRepo, donationRepo, taskRepo, userRepo, notificationRepo)
	taskService := service.NewTaskService(db.DB(), log, taskRepo, taskRepo, donationRepo, userRepo, notificationRepo)
	ratingService := service.NewRatingService(db.DB(), log, ratingRepo, donationRepo, userRepo, notificationRepo)
	userService := service.NewUserService(db.DB(), log, userRepo, notificationRepo)
	notificationService := service.NewNotificationService(db.DB(), log, notificationRepo)

	srv := myhttp.NewServer(log, donationService, taskService, ratingService, userService, notificationService)
	httpServer := &http.Server{
		Addr:    net.JoinHostPort(cfg.Server.Host, cfg.Server.Port),
		Handler: srv.Routes(),
	}

	go startServer(log, httpServer, errChan)

	select {
	case err := <-errChan:
		return fmt.Errorf("http server error: %v", err)

	case <-ctx.Done():
		log.Info("stopping server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("error shutting down http server: %v", err)
	}

	return nil
}

func startServer(log *slog.Logger, httpServer *http.Server, errChan chan error) {
	defer close(errChan)

	log.Info("service started", slog.String("addr", httpServer.Addr))

	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		errChan <- fmt.Errorf("error listening and serving: %v", err)
	}
}
