package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"cafe-jampot/config"
	"cafe-jampot/db"
	"cafe-jampot/services"
	"cafe-jampot/web"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	// Check for migrate subcommand
	if len(os.Args) > 1 && os.Args[1] == "migrate" {
		runMigrate(cfg)
		return
	}

	if err := db.Init(cfg.DB); err != nil {
		fmt.Fprintln(os.Stderr, "db:", err)
		os.Exit(1)
	}
	defer db.Close()

	// Optional auto-migration (useful in production and for fresh DBs).
	// Set AUTO_MIGRATE=1 (or "true") to enable.
	if v := strings.TrimSpace(os.Getenv("AUTO_MIGRATE")); v == "1" || strings.EqualFold(v, "true") {
		if err := applyMigrations(context.Background(), false); err != nil {
			fmt.Fprintln(os.Stderr, "migrate:", err)
			os.Exit(1)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	gate := services.NewGate()
	gate.Load(ctx)

	sub, err := services.Subscribe(ctx,
		[]string{services.TableStockStatus, services.TableDeliverySettings},
		gate.Apply,
	)
	if err != nil {
		// Degraded but serviceable: admin toggles in this process still
		// update the gate, only cross-process pushes are lost.
		slog.Error("realtime subscription unavailable", "err", err)
	} else {
		defer sub.Close()
	}

	carts := services.NewCartStore(cfg.Session.CartTTL)
	go carts.RunSweeper(ctx.Done(), 10*time.Minute)
	go sweepSessions(ctx)

	var notifier services.OrderNotifier
	if cfg.Telegram.Token != "" {
		tn, err := services.NewTelegramNotifier(cfg.Telegram.Token, cfg.Telegram.OwnerChatID)
		if err != nil {
			fmt.Fprintln(os.Stderr, "telegram:", err)
			os.Exit(1)
		}
		notifier = tn
		slog.Info("telegram order relay enabled", "chat_id", cfg.Telegram.OwnerChatID)
	}

	flow := services.NewOrderFlow(carts, gate, cfg.Delivery, cfg.WhatsApp.Phone, notifier)
	srv := web.New(cfg, carts, gate, flow)

	slog.Info("cafe-jampot listening", "addr", cfg.HTTP.Addr)
	if err := srv.Run(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "server:", err)
		os.Exit(1)
	}
}

func sweepSessions(ctx context.Context) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := services.CleanupExpiredSessions(ctx); err != nil {
				slog.Warn("session sweep", "err", err)
			}
		}
	}
}

func runMigrate(cfg *config.Config) {
	if err := db.Init(cfg.DB); err != nil {
		fmt.Fprintln(os.Stderr, "db:", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := applyMigrations(context.Background(), true); err != nil {
		fmt.Fprintln(os.Stderr, "migrate:", err)
		os.Exit(1)
	}
}
