package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lehmann314159/blog/internal/config"
	"github.com/lehmann314159/blog/internal/database"
	"github.com/lehmann314159/blog/internal/handlers"
	"github.com/lehmann314159/blog/internal/logger"
	"github.com/lehmann314159/blog/internal/middleware"
	"github.com/lehmann314159/blog/internal/repository"
	"github.com/lehmann314159/blog/web"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg.Log.Level)
	defer logger.Sync()

	// Initialize database
	db, err := database.New(&cfg.Database)
	if err != nil {
		logger.Fatal("Failed to initialize database", logger.Err(err))
	}
	defer db.Close()

	repo := repository.New(db)
	if stats, err := repo.Stats(context.Background()); err == nil {
		logger.Info("database ready",
			logger.String("driver", cfg.Database.Driver),
			logger.Int("posts", stats.PostCount),
			logger.Int("tags", stats.TagCount),
			logger.Int("comments", stats.CommentCount))
	}

	tmpl, err := web.Templates()
	if err != nil {
		logger.Fatal("Failed to parse templates", logger.Err(err))
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := middleware.NewMetrics(reg)

	mux := handlers.NewRouter(repo, tmpl, handlers.RouterConfig{
		MediaURL:  cfg.Media.URL,
		MediaDir:  cfg.Media.Dir,
		StaticDir: cfg.Static.Dir,
		Metrics:   promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
	})

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      middleware.Chain(mux, middleware.Logging, metrics.Handler, middleware.Recovery),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Info("Starting server", logger.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed", logger.Err(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown failed", logger.Err(err))
	}
}
