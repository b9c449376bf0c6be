package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"

	"mood-booster/internal/config"
	"mood-booster/internal/push"
	"mood-booster/internal/repository"
	"mood-booster/internal/server"
	"mood-booster/internal/service"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := godotenv.Load(); err != nil {
		log.Debug("no .env file found")
	}

	cfg := config.Load()

	lvl, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		lvl = log.InfoLevel
	}
	logger := log.NewWithOptions(os.Stdout, log.Options{Level: lvl})

	db, err := repository.NewDB(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("open database", "err", err)
	}
	sqlDB, err := db.DB()
	if err == nil {
		defer sqlDB.Close()
	}

	taskRepo := repository.NewTaskRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	reminderRepo := repository.NewReminderRepository(db)
	tokenRepo := repository.NewTokenRepository(db)
	boostRepo := repository.NewBoostRepository(db)

	if err := boostRepo.SeedQuotes(ctx); err != nil {
		logger.Fatal("seed quotes", "err", err)
	}

	var sender push.Sender
	if missing := cfg.Firebase.Missing(); len(missing) == 0 {
		fcm, err := push.NewFCMSender(ctx, cfg.Firebase)
		if err != nil {
			logger.Fatal("init push sender", "err", err)
		}
		sender = fcm
	} else {
		logger.Warn("push delivery disabled", "missing", missing)
	}

	taskSvc := service.NewTaskService(taskRepo, reminderRepo)
	courseSvc := service.NewCourseService(courseRepo, reminderRepo)
	reminderSvc := service.NewReminderService(reminderRepo, tokenRepo)
	dispatchSvc := service.NewDispatchService(reminderRepo, tokenRepo, sender, cfg.Firebase, logger)
	boostSvc := service.NewBoostService(boostRepo)

	srv := server.New(taskSvc, courseSvc, reminderSvc, dispatchSvc, boostSvc, cfg, logger)

	scheduler := service.NewSchedulerService(time.Local)
	if cfg.DispatchInterval > 0 {
		if _, err := scheduler.ScheduleInterval(cfg.DispatchInterval, func() {
			jobCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			result, err := dispatchSvc.Sweep(jobCtx, cfg.DispatchBatch)
			if err != nil {
				logger.Error("dispatch sweep", "err", err)
				return
			}
			if result.Processed > 0 {
				logger.Info("dispatch sweep", "processed", result.Processed)
			}
		}); err != nil {
			logger.Fatal("schedule dispatch", "err", err)
		}
		scheduler.Start()
		defer scheduler.Stop()
	}

	httpServer := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: srv.Handler(),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown", "err", err)
		}
	}()

	logger.Info("Mood Booster server started", "port", cfg.Port)
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("server stopped with error", "err", err)
	}
	logger.Info("Shutdown complete.")
}
