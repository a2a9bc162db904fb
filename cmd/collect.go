package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sells-group/aeo-monitor/internal/model"
)

var collectProjectID string

var collectCmd = &cobra.Command{
	Use:   "collect",
	Short: "Run one collection pass for a project",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		results, err := initCollector(st).CollectForProject(ctx, collectProjectID)
		if err != nil {
			return err
		}

		summary := model.Summarize(results)
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "collected %d pairs: %d successful, %d failed\n",
			summary.Total, summary.Successful, summary.Failed)

		for _, r := range results {
			if r.Success {
				fmt.Fprintf(out, "  ok   %-12s query=%s mentions=%d sentiment=%+.2f\n",
					r.Platform, r.QueryID, r.Analysis.MentionCount, r.Analysis.SentimentScore)
				continue
			}
			fmt.Fprintf(out, "  fail %-12s query=%s error=%s\n", r.Platform, r.QueryID, r.Error)
		}
		return nil
	},
}

func init() {
	collectCmd.Flags().StringVar(&collectProjectID, "project", "", "project id")
	_ = collectCmd.MarkFlagRequired("project")
	rootCmd.AddCommand(collectCmd)
}
