package cmd

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"request-governor/dashboard"
	"request-governor/governance/domain"
)

var statsOutput string

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show governance counters stored in Redis",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !appCfg.Stats.Enabled {
			return errors.New("stats are disabled (set stats.enabled=true and stats.redis_addr)")
		}
		rdb, err := openRedis(cmd.Context(), appCfg.Stats)
		if err != nil {
			return err
		}
		defer func() { _ = rdb.Close() }()

		store := newRedisStats(rdb, appCfg.Stats)
		kinds := []domain.EventKind{domain.EventRateLimit, domain.EventCache, domain.EventFetch, dashboard.EventLoad}
		totals := make(map[domain.EventKind]map[string]int64, len(kinds))
		for _, k := range kinds {
			t, err := store.Totals(cmd.Context(), k)
			if err != nil {
				return err
			}
			totals[k] = t
		}
		return renderTotals(cmd.OutOrStdout(), strings.ToLower(strings.TrimSpace(statsOutput)), totals)
	},
}

func init() {
	statsCmd.Flags().StringVar(&statsOutput, "output-format", formatTable, "Output format: table|json")
}
