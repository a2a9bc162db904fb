package main

import (
	"encoding/json"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/aeo-monitor/internal/competitor"
)

var (
	competitorBrand       string
	competitorDomain      string
	competitorIndustry    string
	competitorDescription string
	competitorNoCache     bool
)

var competitorsCmd = &cobra.Command{
	Use:   "competitors",
	Short: "Identify likely competitors for a brand",
	RunE: func(cmd *cobra.Command, args []string) error {
		catalog, err := competitor.LoadCatalog()
		if err != nil {
			return err
		}

		var cache competitor.Cache = competitor.NewMemoryCache()
		if !competitorNoCache {
			st, err := initStore(cmd.Context())
			if err != nil {
				zap.L().Warn("competitors: store unavailable, using in-memory cache", zap.Error(err))
			} else {
				defer st.Close()
				cache = competitor.NewStoreCache(st)
			}
		}

		id := competitor.NewIdentifier(catalog, cache,
			competitor.WithCacheTTL(time.Duration(cfg.Cache.TTLHours)*time.Hour),
		)

		result, err := id.Identify(cmd.Context(),
			competitorBrand, competitorDomain, competitorIndustry, competitorDescription)
		if err != nil {
			return err
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	},
}

func init() {
	competitorsCmd.Flags().StringVar(&competitorBrand, "brand", "", "brand name")
	competitorsCmd.Flags().StringVar(&competitorDomain, "domain", "", "brand domain")
	competitorsCmd.Flags().StringVar(&competitorIndustry, "industry", "", "brand industry")
	competitorsCmd.Flags().StringVar(&competitorDescription, "description", "", "free-text brand description")
	competitorsCmd.Flags().BoolVar(&competitorNoCache, "no-cache", false, "skip the store-backed result cache")
	_ = competitorsCmd.MarkFlagRequired("brand")
	_ = competitorsCmd.MarkFlagRequired("industry")
	rootCmd.AddCommand(competitorsCmd)
}
