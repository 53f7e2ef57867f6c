package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/hyperengineering/dinacharya/internal/account"
	"github.com/hyperengineering/dinacharya/internal/api"
	"github.com/hyperengineering/dinacharya/internal/config"
	"github.com/hyperengineering/dinacharya/internal/planner"
	"github.com/hyperengineering/dinacharya/internal/progress"
	"github.com/hyperengineering/dinacharya/internal/snapshot"
	"github.com/hyperengineering/dinacharya/internal/store"
	"github.com/hyperengineering/dinacharya/internal/worker"
	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags: -ldflags "-X main.Version=1.0.0"
var Version = "dev"

var rootCmd = &cobra.Command{
	Use:          "dinacharya",
	Short:        "Dinacharya - daily wellness routine service",
	SilenceUsage: true,
	RunE:         runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API (default)",
	RunE:  runServe,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(progressCmd)
	rootCmd.AddCommand(quizCmd)
	rootCmd.AddCommand(backupCmd)
	rootCmd.AddCommand(infoCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(context.Background(),
		syscall.SIGTERM, syscall.SIGINT)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	slog.SetDefault(newLogger(os.Stdout, cfg.Log))
	slog.Info("configuration loaded", "level", cfg.Log.Level, "format", cfg.Log.Format)

	db, err := store.NewSQLiteStore(cfg.Database.Path)
	if err != nil {
		return err
	}
	slog.Info("store initialized", "path", cfg.Database.Path)

	loc, err := cfg.Location()
	if err != nil {
		db.Close()
		return err
	}
	progressSvc := progress.NewService(db,
		progress.WithLocation(loc),
		progress.WithDefaults(progress.Defaults{
			WeeklyGoal: cfg.Progress.WeeklyGoal,
			TotalTasks: cfg.Progress.TotalTasks,
		}),
	)

	gen, err := newGenerator(ctx, cfg.Planner)
	if err != nil {
		db.Close()
		return err
	}
	plannerSvc := planner.NewService(gen, time.Duration(cfg.Planner.Timeout))
	slog.Info("planner initialized", "provider", cfg.Planner.Provider, "model", gen.ModelName())

	accounts := account.NewService(db, cfg.Auth.BcryptCost)

	handler := api.NewHandler(db, progressSvc, plannerSvc, accounts, cfg.Auth.APIKey, Version)
	router := api.NewRouter(handler)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       time.Duration(cfg.Server.ReadTimeout),
		WriteTimeout:      time.Duration(cfg.Server.WriteTimeout),
	}

	var wg sync.WaitGroup
	if interval := time.Duration(cfg.Worker.BackupInterval); interval > 0 {
		uploader, err := snapshot.NewUploader(cfg.Snapshot)
		if err != nil {
			db.Close()
			return err
		}
		backups := worker.NewBackupWorker(db, uploader, cfg.Worker.BackupDir, interval)
		startWorker(ctx, &wg, "backup", backups.Run)
	}

	go func() {
		slog.Info("server starting", "address", addr, "version", Version)
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			cancel()
		}
	}()

	<-ctx.Done()
	slog.Info("shutdown initiated")

	shutdownCtx, shutdownCancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout))
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	// Workers may still be writing a backup; the store closes after them.
	wg.Wait()

	if err := db.Close(); err != nil {
		slog.Error("store close error", "error", err)
	}

	slog.Info("shutdown complete")
	return nil
}

// newGenerator picks the text generation backend for cfg.Provider.
func newGenerator(ctx context.Context, cfg config.PlannerConfig) (planner.Generator, error) {
	switch cfg.Provider {
	case config.ProviderOpenAI:
		return planner.NewOpenAI(cfg.APIKey, cfg.Model), nil
	case config.ProviderGemini:
		return planner.NewGemini(ctx, cfg.APIKey, cfg.Model)
	case config.ProviderNone, "":
		return planner.Noop{}, nil
	default:
		return nil, fmt.Errorf("unknown planner provider %q", cfg.Provider)
	}
}

func newLogger(w io.Writer, cfg config.LogConfig) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLogLevel(cfg.Level)}
	if cfg.Format == "text" {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// startWorker launches a background worker goroutine that respects context cancellation.
// Workers are tracked via WaitGroup for graceful shutdown.
func startWorker(ctx context.Context, wg *sync.WaitGroup, name string, fn func(ctx context.Context)) {
	wg.Add(1)
	go func() {
		defer wg.Done()
		slog.Info("worker started", "worker", name)
		fn(ctx)
		slog.Info("worker stopped", "worker", name)
	}()
}
