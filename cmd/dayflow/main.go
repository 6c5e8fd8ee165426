package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"dayflow/internal/agent"
	"dayflow/internal/config"
	"dayflow/internal/pending"
	"dayflow/internal/reason"
	"dayflow/internal/server"
	"dayflow/internal/session"
	"dayflow/internal/store"
	"dayflow/internal/tools"
	"dayflow/internal/tools/calendar"
	"dayflow/internal/tools/daily"
	"dayflow/internal/tools/kanban"
	"dayflow/internal/tools/notes"
)

var (
	// Global flags
	configPath string
	verbose    bool

	logger *zap.Logger
	level  zap.AtomicLevel
)

var rootCmd = &cobra.Command{
	Use:   "dayflow",
	Short: "dayflow - workspace agent server",
	Long: `dayflow runs the workspace assistant: it classifies chat messages,
answers questions against the unified calendar/kanban/notes/daily state,
and turns action requests into confirm-before-execute proposals.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}

		zcfg := zap.NewProductionConfig()
		if cfg.Logging.Format == "console" {
			zcfg.Encoding = "console"
		}
		level = zap.NewAtomicLevelAt(parseLevel(cfg.Logging.Level))
		if verbose {
			level.SetLevel(zapcore.DebugLevel)
		}
		zcfg.Level = level

		logger, err = zcfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP agent server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

var checkConfigCmd = &cobra.Command{
	Use:   "check-config",
	Short: "Load and validate the configuration, then exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		fmt.Printf("config ok: addr=%s db=%s pending_ttl=%s\n",
			cfg.Server.Addr, cfg.Store.DatabasePath, cfg.PendingTTL())
		return nil
	},
}

func parseLevel(s string) zapcore.Level {
	switch s {
	case "debug":
		return zapcore.DebugLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func runServe(ctx context.Context) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	db, err := store.Open(cfg.Store.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer db.Close()

	registry := tools.NewRegistry()
	if err := calendar.Register(registry, db); err != nil {
		return err
	}
	if err := kanban.Register(registry, db); err != nil {
		return err
	}
	if err := notes.Register(registry, db); err != nil {
		return err
	}
	if err := daily.Register(registry, db); err != nil {
		return err
	}

	pendingStore := pending.NewStore(pending.WithTTL(cfg.PendingTTL()))
	trail := session.NewTrail(session.WithCaps(cfg.Agent.MaxSessionEvents, cfg.Agent.MaxActions))

	var responder reason.Responder
	if cfg.Reasoner.Provider == "gemini" && cfg.Reasoner.APIKey != "" {
		responder, err = reason.NewGemini(ctx, cfg.Reasoner.APIKey, cfg.Reasoner.Model)
		if err != nil {
			logger.Warn("reasoner unavailable, queries use the deterministic fallback", zap.Error(err))
			responder = nil
		}
	}

	orch := agent.New(agent.Options{
		Registry:        registry,
		Pending:         pendingStore,
		Trail:           trail,
		Responder:       responder,
		ContextMaxChars: cfg.Agent.ContextMaxChars,
		Logger:          logger.Named("agent"),
	})

	srv := server.New(server.Options{
		Orchestrator: orch,
		Registry:     registry,
		Pending:      pendingStore,
		Trail:        trail,
		Snapshots:    db,
		ChunkSize:    cfg.Agent.ChunkSize,
		Logger:       logger.Named("http"),
	})

	// Live logging-level changes via the config watcher.
	watcher, err := config.NewWatcher(configPath, func(next *config.Config) {
		level.SetLevel(parseLevel(next.Logging.Level))
	}, logger.Named("config"))
	if err == nil {
		if werr := watcher.Start(); werr != nil {
			logger.Warn("config watcher not started", zap.Error(werr))
		} else {
			defer watcher.Stop()
		}
	}

	httpSrv := &http.Server{
		Addr:        cfg.Server.Addr,
		Handler:     srv.Handler(),
		ReadTimeout: cfg.ReadTimeout(),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", cfg.Server.Addr))
		errCh <- httpSrv.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case sig := <-sigCh:
		logger.Info("shutting down", zap.String("signal", sig.String()))
	case <-ctx.Done():
		logger.Info("shutting down", zap.String("reason", "context canceled"))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout())
	defer cancel()
	return httpSrv.Shutdown(shutdownCtx)
}

func main() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "dayflow.yaml", "path to the config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.AddCommand(serveCmd, checkConfigCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
