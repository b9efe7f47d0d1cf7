package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-startup-automation/internal/config"
	"go-startup-automation/internal/database"
	"go-startup-automation/internal/letter"
	"go-startup-automation/internal/server"

	"github.com/gin-gonic/gin"
	"github.com/kataras/golog"
)

func main() {
	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		golog.Fatalf("❌ Failed to load config: %v", err)
	}
	golog.SetLevel(cfg.LogLevel)
	if port := os.Getenv("PORT"); port != "" {
		cfg.ServerAddr = ":" + port
	}
	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var apps server.ApplicationLister
	if cfg.DatabaseURL != "" {
		repo, err := database.ConnectDB(ctx, cfg.DatabaseURL)
		if err != nil {
			golog.Fatalf("❌ Failed to connect to database: %v", err)
		}
		defer repo.Close()
		if err := repo.Migrate(ctx); err != nil {
			golog.Fatalf("❌ Failed to migrate database: %v", err)
		}
		apps = repo
	}

	srv := &http.Server{
		Addr:              cfg.ServerAddr,
		Handler:           server.New(letter.NewComposer(cfg.Profile, golog.Default), apps, golog.Default).Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		golog.Infof("🌐 Server listening on %s", cfg.ServerAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			golog.Fatalf("❌ Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		golog.Errorf("⚠️ Shutdown: %v", err)
	}
	golog.Info("🏁 Server stopped")
}
