package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sells-group/aeo-monitor/internal/platform"
)

var platformsCmd = &cobra.Command{
	Use:   "platforms",
	Short: "List the configured answer-engine platforms",
	RunE: func(cmd *cobra.Command, args []string) error {
		creds := platform.CredentialsFromConfig(cfg)

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tDISPLAY\tACTIVE\tRPM\tMODE")
		for _, d := range platform.DefaultDescriptors() {
			mode := "simulated"
			if _, ok := creds.Credential(d.Name); ok {
				mode = "live"
			}
			fmt.Fprintf(w, "%s\t%s\t%t\t%d\t%s\n", d.Name, d.DisplayName, d.IsActive, d.RequestsPerMinute, mode)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(platformsCmd)
}
