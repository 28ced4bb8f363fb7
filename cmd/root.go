package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"

	sim "github.com/rampsim/rampsim/sim"
	"github.com/rampsim/rampsim/sim/record"
	"github.com/rampsim/rampsim/sim/trace"
)

var (
	logLevel      string   // Log verbosity level
	scenariosPath string   // YAML scenario file; built-in table when empty
	duration      float64  // Run duration override (in seconds)
	lanes         int      // Lane count override for every scenario
	only          []string // Scenario names to run
	traceLevel    string   // Trace verbosity
	recordDBPath  string   // SQLite results database
	showInputs    bool     // Print scenario inputs before the results table
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "rampsim",
	Short: "Discrete-event simulator for highway off-ramp congestion",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)
	},
}

// runCmd executes every selected scenario and prints the results table
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the off-ramp scenarios",
	Run: func(cmd *cobra.Command, args []string) {
		file, configs := loadConfigs(cmd)

		if !trace.IsValidTraceLevel(traceLevel) {
			logrus.Fatalf("Invalid trace level: %s (valid: none, vehicles, lanes)", traceLevel)
		}
		traceConfig := trace.TraceConfig{Level: trace.TraceLevel(traceLevel)}

		var recorder record.Recorder
		if recordDBPath != "" {
			w, err := record.NewSQLiteRecorder(recordDBPath)
			if err != nil {
				logrus.Fatalf("Unable to open results database: %v", err)
			}
			recorder = w
		}

		results, traces, err := runScenarios(configs, traceConfig, recorder)
		if err != nil {
			logrus.Fatalf("Simulation failed: %v", err)
		}
		if recorder != nil {
			if err := recorder.Close(); err != nil {
				logrus.Fatalf("Unable to write results database: %v", err)
			}
		}

		writeReport(os.Stdout, file.Title, configs, results, traces, showInputs)
		logrus.Info("Simulation complete.")
	},
}

// scenariosCmd prints the scenario inputs without running them
var scenariosCmd = &cobra.Command{
	Use:   "scenarios",
	Short: "List the configured scenarios",
	Run: func(cmd *cobra.Command, args []string) {
		_, configs := loadConfigs(cmd)
		PrintInputs(os.Stdout, configs)
	},
}

// loadConfigs resolves the scenario table from the file or the built-in
// defaults and applies flag overrides. Flags only override when set
// explicitly.
func loadConfigs(cmd *cobra.Command) (*ScenarioFile, []sim.ScenarioConfig) {
	file := DefaultScenarioFile()
	if scenariosPath != "" {
		f, err := LoadScenarioFile(scenariosPath)
		if err != nil {
			logrus.Fatalf("Unable to load scenarios: %v", err)
		}
		file = f
		logrus.Infof("Loaded %d scenarios from %s", len(file.Scenarios), scenariosPath)
	}
	if file.Title == "" {
		file.Title = defaultTitle
	}
	applyOverrides(file, scenarioOverrides{
		Duration:    duration,
		DurationSet: cmd.Flags().Changed("duration"),
		Lanes:       lanes,
		LanesSet:    cmd.Flags().Changed("lanes"),
	})

	configs, err := file.Configs()
	if err != nil {
		logrus.Fatalf("Invalid scenarios: %v", err)
	}
	configs, err = selectScenarios(configs, only)
	if err != nil {
		logrus.Fatalf("Invalid --only: %v", err)
	}
	return file, configs
}

// scenarioOverrides carries the CLI values that replace scenario file
// settings. A value only applies when its flag was set explicitly.
type scenarioOverrides struct {
	Duration    float64
	DurationSet bool
	Lanes       int
	LanesSet    bool
}

// applyOverrides rewrites file in place. A duration override replaces the
// file-level duration and clears per-scenario durations so it applies to
// every scenario.
func applyOverrides(file *ScenarioFile, o scenarioOverrides) {
	if o.DurationSet {
		file.Duration = o.Duration
		for i := range file.Scenarios {
			file.Scenarios[i].Duration = 0
		}
	}
	if o.LanesSet {
		for i := range file.Scenarios {
			file.Scenarios[i].Lanes = o.Lanes
		}
	}
}

// runScenarios runs each config from a clean state. Results are returned in
// config order; traces only for traced runs.
func runScenarios(configs []sim.ScenarioConfig, traceConfig trace.TraceConfig, recorder record.Recorder) ([]sim.ScenarioResult, []*trace.SimulationTrace, error) {
	results := make([]sim.ScenarioResult, 0, len(configs))
	traces := make([]*trace.SimulationTrace, 0)
	for _, cfg := range configs {
		run, err := sim.NewScenarioRun(cfg, traceConfig)
		if err != nil {
			return nil, nil, err
		}
		if err := run.Run(); err != nil {
			return nil, nil, err
		}
		res := run.Result()
		results = append(results, res)
		if run.Trace != nil {
			traces = append(traces, run.Trace)
		}
		if recorder != nil {
			if err := recorder.RecordScenario(run.Config, res, run.Collector.Records()); err != nil {
				return nil, nil, fmt.Errorf("recording scenario %q: %w", cfg.Name, err)
			}
		}
	}
	return results, traces, nil
}

func writeReport(w io.Writer, title string, configs []sim.ScenarioConfig, results []sim.ScenarioResult, traces []*trace.SimulationTrace, inputs bool) {
	fmt.Fprintf(w, "%s\n\n", title)
	if inputs {
		PrintInputs(w, configs)
	}
	PrintResults(w, results)
	PrintTraceSummaries(w, traces)
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		atexit.Exit(1)
	}
	atexit.Exit(0)
}

// init sets up CLI flags and subcommands
func init() {
	// logrus.Fatalf must still flush the results database.
	logrus.StandardLogger().ExitFunc = atexit.Exit

	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "error", "Log level (trace, debug, info, warn, error, fatal, panic)")
	rootCmd.PersistentFlags().StringVar(&scenariosPath, "scenarios", "", "Path to a scenarios YAML file (default: built-in scenarios)")
	rootCmd.PersistentFlags().Float64Var(&duration, "duration", 1800, "Run duration in seconds; overrides the scenario file")
	rootCmd.PersistentFlags().IntVar(&lanes, "lanes", 1, "Ramp lanes for every scenario; overrides the scenario file")
	rootCmd.PersistentFlags().StringSliceVar(&only, "only", nil, "Run only the named scenarios (repeatable)")

	runCmd.Flags().StringVar(&traceLevel, "trace-level", "none", "Trace verbosity (none, vehicles, lanes)")
	runCmd.Flags().StringVar(&recordDBPath, "record-db", "", "Write results and per-vehicle rows to this SQLite database")
	runCmd.Flags().BoolVar(&showInputs, "show-inputs", true, "Print scenario inputs before the results")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(scenariosCmd)
}
