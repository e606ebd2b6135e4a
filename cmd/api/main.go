package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/helmcode/skillgate/internal/api"
	"github.com/helmcode/skillgate/internal/audit"
	"github.com/helmcode/skillgate/internal/events"
	"github.com/helmcode/skillgate/internal/gate"
	"github.com/helmcode/skillgate/internal/policy"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	slog.Info("starting skill install gate")

	cfg, err := LoadConfig(os.Getenv("GATE_CONFIG_FILE"))
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Policy store: host config over persisted file over defaults.
	store := policy.NewStore(cfg.Gate.PolicyPath, cfg.Overrides())
	snap := store.Snapshot()
	slog.Info("policy loaded",
		"path", cfg.Gate.PolicyPath,
		"default_policy", snap.DefaultPolicy,
		"allowed_users", len(snap.AllowedUsers),
		"denied_users", len(snap.DeniedUsers),
		"log_install_attempts", snap.LogInstallAttempts,
	)
	if snap.SharedSecret == "" {
		slog.Warn("no shared secret configured, admin endpoints are disabled")
	}

	// Audit log.
	auditLog := audit.NewLogger(cfg.Gate.AuditLogPath, func() bool {
		return store.Snapshot().LogInstallAttempts
	})

	// Optional decision event publishing.
	var pub *events.Publisher
	if cfg.Gate.NATS.URL != "" {
		pub, err = events.Connect(cfg.Gate.NATS.URL, "skillgate-api")
		if err != nil {
			slog.Warn("decision events disabled", "error", err)
			pub = nil
		}
	}

	// HTTP server.
	port := snap.ListenPort
	if port == 0 {
		port = 8080
	}
	srv := api.NewServer(gate.New(store, auditLog, pub))

	// Start server in background.
	go func() {
		if err := srv.Listen(fmt.Sprintf(":%d", port)); err != nil {
			slog.Error("server error", "error", err)
		}
	}()

	// Wait for shutdown signal.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down skill install gate")
	if err := srv.Shutdown(); err != nil {
		slog.Error("shutdown error", "error", err)
	}
	pub.Close()
}
