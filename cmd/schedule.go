package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/sells-group/aeo-monitor/internal/monitoring"
	"github.com/sells-group/aeo-monitor/internal/scheduler"
)

var (
	scheduleProjectID string
	scheduleInterval  int
)

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Collect for a project on a fixed interval until interrupted",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		interval := scheduleInterval
		if interval <= 0 {
			interval = cfg.Scheduler.IntervalMinutes
		}

		checker := monitoring.NewChecker(
			monitoring.NewCollector(st),
			monitoring.NewAlerter(cfg.Monitoring),
			cfg.Monitoring,
		)
		go checker.Run(ctx)

		c := initCollector(st)
		err = scheduler.New(c.CollectForProject).Run(ctx, scheduleProjectID, time.Duration(interval)*time.Minute)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	},
}

func init() {
	scheduleCmd.Flags().StringVar(&scheduleProjectID, "project", "", "project id")
	scheduleCmd.Flags().IntVar(&scheduleInterval, "interval", 0, "minutes between passes (default from config)")
	_ = scheduleCmd.MarkFlagRequired("project")
	rootCmd.AddCommand(scheduleCmd)
}
