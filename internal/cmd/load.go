package cmd

import (
	"strings"

	"github.com/spf13/cobra"
)

var (
	loadOutput      string
	loadCheckStatus bool
)

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Load dashboard data once through the governor",
	RunE: func(cmd *cobra.Command, args []string) error {
		format := strings.ToLower(strings.TrimSpace(loadOutput))

		a, err := newApp(cmd.Context(), appCfg, logger)
		if err != nil {
			return err
		}
		defer a.Close()

		res := a.loader.Init(cmd.Context())
		rep := newLoadReport(res, a.loader.Metrics(), nil, a.stats)
		if loadCheckStatus {
			rep.Statuses = a.monitor.CheckOnce(cmd.Context())
			rep.Data = a.loader.Current()
		}
		return renderLoadReport(cmd.OutOrStdout(), format, rep)
	},
}

func init() {
	loadCmd.Flags().StringVar(&loadOutput, "output-format", formatTable, "Output format: table|json")
	loadCmd.Flags().BoolVar(&loadCheckStatus, "check-status", false, "Check local service links once after loading")
}
