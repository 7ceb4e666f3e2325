// Package cmd provides the command-line interface of BreakHammer.
package cmd

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var logLevel string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "breakhammer",
	Short: "BreakHammer simulates a DRAM channel under RowHammer mitigation.",
	Long: `BreakHammer simulates a DRAM channel with a RowHammer mitigation ` +
		`and throttles the threads that trigger most of the preventive ` +
		`actions.`,
	SilenceUsage: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			return err
		}

		logrus.SetLevel(level)

		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info",
		"Logging level (panic, fatal, error, warn, info, debug, trace).")
}

// Execute adds all child commands to the root command and sets flags
// appropriately. It returns the exit code of the process.
func Execute() int {
	err := rootCmd.Execute()
	if err != nil {
		return 1
	}

	return 0
}
