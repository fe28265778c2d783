package commands

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/systmms/sarotate/internal/config"
	"github.com/systmms/sarotate/internal/notify"
	"github.com/systmms/sarotate/internal/rclone"
	"github.com/systmms/sarotate/internal/rotation"
	saexec "github.com/systmms/sarotate/pkg/exec"
)

// NewRunCommand creates the 'run' command: the perpetual rotation daemon.
func NewRunCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the credential rotation loop",
		Long: `Discover credential sets, align them with the remotes' live state, and
perpetually swap the active credential of every configured remote.

The loop runs until interrupted. A fatal startup error or a broken control
endpoint contract terminates the process after a best-effort notification;
per-remote swap failures are retried on the next pass.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.Load(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			notifier := notify.New(cfg.Logger,
				cfg.Definition.Notifications.Targets,
				cfg.Definition.Notifications.ErrorsOnly)

			if err := runRotation(ctx, cfg, notifier, saexec.DefaultExecutor()); err != nil {
				// Best-effort failure signal for operators; the run context
				// may already be cancelled, so dispatch on a fresh one.
				notifyCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				defer cancel()
				notifier.Notify(notifyCtx, notify.SeverityCritical,
					fmt.Sprintf("sarotate terminating: %v", err))
				return err
			}
			return nil
		},
	}

	return cmd
}

// runRotation wires discovery, recovery and the swap loop together. The
// executor is injected so tests can stand in for the external tools.
func runRotation(ctx context.Context, cfg *config.Config, notifier *notify.Notifier, executor saexec.CommandExecutor) error {
	client, err := buildClient(cfg, rclone.WithExecutor(executor))
	if err != nil {
		return err
	}

	groups, err := buildGroups(cfg)
	if err != nil {
		return err
	}

	for _, group := range groups {
		rotation.Recover(ctx, client, group, cfg.Logger)
	}

	if cfg.Definition.MetricsAddr != "" {
		rotation.InitMetrics()
		startMetricsListener(ctx, cfg)
	}

	scheduler := rotation.NewScheduler(groups, client, notifier,
		rotation.NewMetrics(), cfg.Logger,
		time.Duration(cfg.Definition.Interval)*time.Second)

	return scheduler.Run(ctx)
}

// startMetricsListener serves Prometheus metrics until the run context is
// cancelled. Listener failures are logged, never fatal: metrics are an
// observability aid, not part of rotation.
func startMetricsListener(ctx context.Context, cfg *config.Config) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	server := &http.Server{
		Addr:              cfg.Definition.MetricsAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		cfg.Logger.Info("Serving metrics on %s", cfg.Definition.MetricsAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			cfg.Logger.Error("Metrics listener failed: %v", err)
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()
}
