package main

import (
	"fmt"
	"os"

	"qisim/internal"
	"qisim/internal/config"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// app carries what every subcommand needs
type app struct {
	cfg *config.Config
	log *internal.Logger
}

func main() {
	_ = godotenv.Load()

	a := &app{}
	rootCmd := &cobra.Command{
		Use:   "qisim",
		Short: "Synthetic cohort generation and quality-improvement statistics",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.log = internal.NewLogger(internal.ParseLogLevel(cfg.LogLevel))
			return nil
		},
		SilenceUsage: true,
	}

	rootCmd.AddCommand(
		a.newSimulateCmd(),
		a.newDeriveCmd(),
		a.newSummaryCmd(),
		a.newCorrelateCmd(),
		a.newFitLineCmd(),
		a.newRegressCmd(),
		a.newClusterCmd(),
		a.newReportCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
