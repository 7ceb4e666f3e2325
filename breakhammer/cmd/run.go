package cmd

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/CMU-SAFARI/BreakHammer/config"
	"github.com/CMU-SAFARI/BreakHammer/simulation"
)

type runOptions struct {
	configPath string
	envFiles   []string
	maxCycles  int64
	recordPath string
	monitor    bool
}

var runOpts runOptions

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a simulation.",
	Long: "`run --config sim.yaml` runs the simulation described by a YAML " +
		"file. Parameters can be overridden with BREAKHAMMER_<IMPL>_<PARAM> " +
		"environment variables.",
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runSimulation(cmd, runOpts)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	f := runCmd.Flags()
	f.StringVarP(&runOpts.configPath, "config", "c", "",
		"Path to the YAML configuration.")
	f.StringSliceVar(&runOpts.envFiles, "env-file", nil,
		"Load environment variables from these files. ./.env is loaded "+
			"if none is given.")
	f.Int64Var(&runOpts.maxCycles, "cycles", 0,
		"Stop after this number of controller cycles. 0 runs until all "+
			"requests are served.")
	f.StringVar(&runOpts.recordPath, "record", "",
		"Record the simulation into <path>.sqlite3.")
	f.BoolVar(&runOpts.monitor, "monitor", false,
		"Serve the monitoring web API during the simulation.")

	_ = runCmd.MarkFlagRequired("config")
}

func runSimulation(cmd *cobra.Command, opts runOptions) error {
	err := config.LoadEnvFiles(opts.envFiles...)
	if err != nil {
		return err
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}

	b := simulation.MakeBuilder().
		WithConfig(cfg).
		WithMaxCycles(opts.maxCycles)

	if opts.recordPath != "" {
		b = b.WithRecording(opts.recordPath)
	}

	if opts.monitor {
		b = b.WithMonitoring()
	}

	s, err := b.Build()
	if err != nil {
		return err
	}

	logrus.WithField("id", s.ID()).Info("simulation started")

	err = s.Run()
	if err != nil {
		return err
	}

	err = s.Terminate()
	if err != nil {
		return err
	}

	_, err = s.Report().WriteTo(cmd.OutOrStdout())

	return err
}
