package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"request-governor/internal/config"
	"request-governor/internal/logging"
)

var (
	cfgFile string
	verbose bool

	v      = config.NewViper()
	appCfg config.Config
	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Governed loader for dashboard data",
	Long: `Loads dashboard data through a rate limiter, a TTL cache and a bounded
request queue, and monitors the status of the services it links to.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig()
	},
}

// Execute roda o comando raiz. Chamado por main.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (optional)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output (sets log level to debug)")
	rootCmd.PersistentFlags().String("url", "", "dashboard data URL (overrides data_url)")
	rootCmd.PersistentFlags().String("log-format", "", "log format: json|console")

	// Flags têm precedência sobre arquivo e ambiente.
	_ = v.BindPFlag("data_url", rootCmd.PersistentFlags().Lookup("url"))
	_ = v.BindPFlag("logging.format", rootCmd.PersistentFlags().Lookup("log-format"))

	rootCmd.AddCommand(loadCmd, watchCmd, statsCmd)
}

func initConfig() error {
	cfg, err := config.Load(v, cfgFile)
	if err != nil {
		return err
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}

	log, err := logging.New(cfg.Logging)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}

	appCfg = cfg
	logger = log
	return nil
}
