package cmd

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hn-gems/internal/metrics"
	"hn-gems/worker"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the periodic sweep and monitor workers",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()

		a, err := newApp(cfg)
		if err != nil {
			return err
		}
		defer a.close()

		msrv, err := metrics.NewServer(cfg.Metrics.Addr)
		if err != nil {
			return err
		}

		slog.Info("starting workers",
			"sweep_interval_minutes", cfg.Sweep.IntervalMinutes,
			"monitor_interval_hours", cfg.Monitor.IntervalHours)

		mgr := worker.NewManager(
			&worker.SweepWorker{
				Sweeper:       a.sweeper,
				Interval:      time.Duration(cfg.Sweep.IntervalMinutes) * time.Minute,
				WindowMinutes: cfg.Sweep.WindowMinutes,
			},
			&worker.MonitorWorker{
				Monitor:  a.monitor,
				Interval: time.Duration(cfg.Monitor.IntervalHours) * time.Hour,
			},
		)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		// Signal handling for systemd
		sigc := make(chan os.Signal, 1)
		signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			s := <-sigc
			log.Printf("received signal: %s, shutting down", s)
			cancel()
		}()

		err = mgr.Start(ctx)

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		_ = msrv.Shutdown(shutdownCtx)

		return err
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
