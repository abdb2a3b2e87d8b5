package cmd

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/mdtune/nlist-tune/sim/trace"
)

var (
	// CLI flags; each overrides the config file only when set explicitly
	configPath    string    // YAML run config
	solverName    string    // grid or gradient
	maximumBuffer float64   // upper bound of the buffer domain
	nBins         int       // grid points per round
	nRounds       int       // grid refinement rounds
	alpha         float64   // gradient step scale
	kappa         []float64 // gradient momentum weights, most recent first
	tol           float64   // gradient convergence tolerance
	maxDelta      float64   // gradient step cap (0 = none)
	steps         uint64    // timesteps per run
	runs          int       // number of runs
	period        uint64    // tuner trigger period
	seed          int64     // engine seed
	logLevel      string    // log verbosity level
	traceLevel    string    // none or ticks
	traceOut      string    // YAML trace output path
	metricsOut    string    // Prometheus text output path
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "nlist-tune",
	Short: "Online autotuner for the neighbor-list buffer of a molecular-dynamics engine",
}

// runCmd runs the synthetic engine with a buffer tuner attached
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the engine and tune the neighbor-list buffer",
	Run: func(cmd *cobra.Command, args []string) {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)

		cfg := DefaultRunConfig()
		if configPath != "" {
			cfg, err = LoadRunConfig(configPath)
			if err != nil {
				logrus.Fatalf("%v", err)
			}
		}
		applyFlagOverrides(cmd, &cfg)
		if err := ValidateRunConfig(cfg); err != nil {
			logrus.Fatalf("Invalid configuration: %v", err)
		}

		logrus.Infof("Starting %s buffer tuning: %d run(s) of %d steps, maximum_buffer=%v, period=%d",
			cfg.Tuner.Solver, cfg.Runs, cfg.Steps, cfg.Tuner.MaximumBuffer, cfg.Tuner.Period)

		result, err := execute(cfg)
		if err != nil {
			logrus.Fatalf("Run failed: %v", err)
		}
		if err := result.Print(os.Stdout); err != nil {
			logrus.Fatalf("Writing summary: %v", err)
		}
		if err := result.WriteTrace(traceOut); err != nil {
			logrus.Fatalf("Writing trace: %v", err)
		}
		if err := result.WriteMetrics(metricsOut); err != nil {
			logrus.Fatalf("Writing metrics: %v", err)
		}
		logrus.Info("Tuning run complete.")
	},
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// registerRunFlags binds the run flags to cmd.
func registerRunFlags(cmd *cobra.Command) {
	defaults := DefaultRunConfig()

	cmd.Flags().StringVar(&configPath, "config", "", "Path to a YAML run config")
	cmd.Flags().StringVar(&logLevel, "log", "warn", "Log level (trace, debug, info, warn, error, fatal, panic)")
	cmd.Flags().Int64Var(&seed, "seed", defaults.Engine.Seed, "Seed for step-time jitter and particle displacement")
	cmd.Flags().Uint64Var(&steps, "steps", defaults.Steps, "Timesteps per run")
	cmd.Flags().IntVar(&runs, "runs", defaults.Runs, "Number of consecutive runs")

	// Tuner configs
	cmd.Flags().StringVar(&solverName, "solver", defaults.Tuner.Solver, "Buffer solver (grid, gradient)")
	cmd.Flags().Float64Var(&maximumBuffer, "max-buffer", defaults.Tuner.MaximumBuffer, "Upper bound of the buffer domain")
	cmd.Flags().Uint64Var(&period, "period", defaults.Tuner.Period, "Tune every N timesteps")
	cmd.Flags().IntVar(&nBins, "n-bins", defaults.Tuner.Grid.NBins, "Grid points per round")
	cmd.Flags().IntVar(&nRounds, "n-rounds", defaults.Tuner.Grid.NRounds, "Grid refinement rounds")
	cmd.Flags().Float64Var(&alpha, "alpha", defaults.Tuner.Gradient.Alpha, "Gradient step scale")
	cmd.Flags().Float64SliceVar(&kappa, "kappa", defaults.Tuner.Gradient.Kappa, "Comma-separated gradient momentum weights, most recent first")
	cmd.Flags().Float64Var(&tol, "tol", defaults.Tuner.Gradient.Tol, "Gradient convergence tolerance")
	cmd.Flags().Float64Var(&maxDelta, "max-delta", *defaults.Tuner.Gradient.MaxDelta, "Gradient step cap (0 disables)")

	// Outputs
	cmd.Flags().StringVar(&traceLevel, "trace-level", string(defaults.Trace.Level), "Trace verbosity (none, ticks)")
	cmd.Flags().StringVar(&traceOut, "trace-out", "", "Write the tuning trace as YAML to this path")
	cmd.Flags().StringVar(&metricsOut, "metrics-out", "", "Write tuner gauges in Prometheus text format to this path")
}

// applyFlagOverrides copies explicitly set flags into cfg.
func applyFlagOverrides(cmd *cobra.Command, cfg *RunConfig) {
	changed := cmd.Flags().Changed
	if changed("seed") {
		cfg.Engine.Seed = seed
	}
	if changed("steps") {
		cfg.Steps = steps
	}
	if changed("runs") {
		cfg.Runs = runs
	}
	if changed("solver") {
		cfg.Tuner.Solver = solverName
	}
	if changed("max-buffer") {
		cfg.Tuner.MaximumBuffer = maximumBuffer
	}
	if changed("period") {
		cfg.Tuner.Period = period
	}
	if changed("n-bins") {
		cfg.Tuner.Grid.NBins = nBins
	}
	if changed("n-rounds") {
		cfg.Tuner.Grid.NRounds = nRounds
	}
	if changed("alpha") {
		cfg.Tuner.Gradient.Alpha = alpha
		cfg.Tuner.Gradient.AlphaRamp = nil
	}
	if changed("kappa") {
		cfg.Tuner.Gradient.Kappa = append([]float64(nil), kappa...)
	}
	if changed("tol") {
		cfg.Tuner.Gradient.Tol = tol
	}
	if changed("max-delta") {
		if maxDelta > 0 {
			md := maxDelta
			cfg.Tuner.Gradient.MaxDelta = &md
		} else {
			cfg.Tuner.Gradient.MaxDelta = nil
		}
	}
	if changed("trace-level") {
		cfg.Trace.Level = trace.TraceLevel(traceLevel)
	} else if traceOut != "" && cfg.Trace.Level == trace.TraceLevelNone {
		// asking for a trace file implies recording one
		cfg.Trace.Level = trace.TraceLevelTicks
	}
}

// init sets up CLI flags and subcommands
func init() {
	registerRunFlags(runCmd)
	rootCmd.AddCommand(runCmd)
}
