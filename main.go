package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"snackshop-line/bot"
	"snackshop-line/config"
	"snackshop-line/db"
	"snackshop-line/line"
	"snackshop-line/models"
	"snackshop-line/services"
	"snackshop-line/store"
	"snackshop-line/web"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	if cfg.LINE.ChannelToken == "" {
		log.Println("LINE_CHANNEL_TOKEN not set; chat replies and push notifications are disabled")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Check for migrate subcommand
	if len(os.Args) > 1 && os.Args[1] == "migrate" {
		runMigrate(ctx, cfg)
		return
	}

	st, err := openStore(ctx, cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, "store:", err)
		os.Exit(1)
	}
	defer st.Close()

	lineClient := line.New(cfg.LINE.ChannelToken)
	menu := services.NewMenuCache(st, cfg.Store.MenuCacheTTL)
	b := bot.New(st, menu, lineClient, cfg.Restaurant)
	srv := web.New(st, menu, b, lineClient, cfg)

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: srv.Router(),
	}

	go func() {
		log.Printf("listening on :%d (store driver: %s)", cfg.Server.Port, cfg.Store.Driver)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("http server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}

func openStore(ctx context.Context, cfg *config.Config) (store.Store, error) {
	switch cfg.Store.Driver {
	case "postgres", "":
		pool, err := db.Connect(ctx, cfg.DB)
		if err != nil {
			return nil, err
		}
		// Optional auto-migration (useful in production and for fresh DBs).
		// Set AUTO_MIGRATE=1 (or "true") to enable.
		if v := strings.TrimSpace(os.Getenv("AUTO_MIGRATE")); v == "1" || strings.EqualFold(v, "true") {
			if err := applyMigrations(ctx, pool, false); err != nil {
				return nil, fmt.Errorf("migrate: %w", err)
			}
		}
		return store.NewPostgres(pool), nil
	case "mongo":
		return store.NewMongo(ctx, cfg.Mongo.URI, cfg.Mongo.Database)
	case "memory":
		return store.NewMemory(models.FallbackMenu), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}

func runMigrate(ctx context.Context, cfg *config.Config) {
	pool, err := db.Connect(ctx, cfg.DB)
	if err != nil {
		fmt.Fprintln(os.Stderr, "db:", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := applyMigrations(ctx, pool, true); err != nil {
		fmt.Fprintln(os.Stderr, "migrate:", err)
		os.Exit(1)
	}
}
