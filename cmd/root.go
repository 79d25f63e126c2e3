package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/inference-sim/plant-sim/sim/plant"
	"github.com/inference-sim/plant-sim/sim/replication"
	"github.com/inference-sim/plant-sim/sim/report"
	"github.com/inference-sim/plant-sim/sim/trace"
)

var (
	// CLI flags for the batch
	seed              int64   // Seed for the whole batch of replications
	simulationHorizon float64 // Virtual-time length of each replication
	replications      int     // Number of independent replications
	logLevel          string  // Log verbosity level
	traceLevel        string  // Decision trace level

	// CLI flags for the plant and output
	plantConfigPath string // Optional YAML plant configuration
	restockers      int    // Restocking crew size override
	outputPath      string // JSON-lines output, "-" for stdout
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "plant-sim",
	Short: "Discrete-event simulator for a six-station manufacturing line",
}

// runCmd executes the replications using parameters from CLI flags
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the plant simulation replications",
	Run: func(cmd *cobra.Command, args []string) {
		// Set up logging
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)

		opts, err := buildOptions(cmd)
		if err != nil {
			logrus.Fatalf("Invalid configuration: %v", err)
		}

		logrus.Infof("Starting %d replications, horizon=%v, seed=%d, stations=%d, restockers=%d",
			opts.Replications, opts.Horizon, opts.Seed, opts.Plant.NumStations(), opts.Plant.Restockers)
		startTime := time.Now()

		if err := runReplications(opts, outputPath, os.Stdout); err != nil {
			logrus.Fatalf("Simulation failed: %v", err)
		}

		logrus.Infof("Simulation complete in %v.", time.Since(startTime))
	},
}

// buildOptions merges the plant config file and the flags. Only flags the
// user actually set override the file.
func buildOptions(cmd *cobra.Command) (replication.Options, error) {
	opts := replication.DefaultOptions()
	cfg, err := loadPlantConfig(plantConfigPath)
	if err != nil {
		return opts, err
	}
	opts.Plant = cfg
	if cmd.Flags().Changed("restockers") {
		opts.Plant.Restockers = restockers
	}
	opts.Seed = seed
	opts.Horizon = simulationHorizon
	opts.Replications = replications
	opts.TraceLevel = trace.TraceLevel(traceLevel)
	return opts, opts.Validate()
}

// runReplications drains every record into the output sink (if any) and the
// summary collector, then prints the summary to w.
func runReplications(opts replication.Options, output string, w io.Writer) error {
	var traces []*trace.SimulationTrace
	if opts.TraceLevel.Enabled() {
		opts.OnTrace = func(_ int, st *trace.SimulationTrace) { traces = append(traces, st) }
	}
	runner, err := replication.NewRunner(opts)
	if err != nil {
		return err
	}

	collector := &report.Collector{}
	sinks := []report.Sink{collector}
	var out *report.JSONLinesSink
	switch output {
	case "":
	case "-":
		out = report.NewJSONLinesSink(w)
	default:
		out, err = report.CreateJSONLinesFile(output)
		if err != nil {
			return err
		}
	}
	if out != nil {
		sinks = append(sinks, out)
	}

	n, drainErr := report.Drain(runner.Records(), sinks...)
	if out != nil {
		if err := out.Close(); err != nil && drainErr == nil {
			drainErr = err
		}
		logrus.Infof("Wrote %d records to %s", out.Count(), output)
	}
	if drainErr != nil {
		return fmt.Errorf("after %d replications: %w", n, drainErr)
	}

	collector.Summarize().Print(w)
	if len(traces) > 0 {
		printTraceSummary(w, traces)
	}
	return nil
}

func printTraceSummary(w io.Writer, traces []*trace.SimulationTrace) {
	merged := trace.NewSimulationTrace(trace.TraceConfig{Level: trace.TraceLevelDecisions})
	for _, st := range traces {
		merged.Routings = append(merged.Routings, st.Routings...)
		merged.Failures = append(merged.Failures, st.Failures...)
		merged.Restocks = append(merged.Restocks, st.Restocks...)
	}
	s := trace.Summarize(merged)
	fmt.Fprintln(w, "=== Decision Trace ===")
	fmt.Fprintf(w, "Routing decisions    : %d (%d ties)\n", s.TotalRoutings, s.TieBreaks)
	for id := 0; id <= maxStation(s.StationDistribution); id++ {
		if c, ok := s.StationDistribution[id]; ok {
			fmt.Fprintf(w, "  routed first to %d  : %d\n", id, c)
		}
	}
	fmt.Fprintf(w, "Failures             : %d (mean repair %.3f, max %.3f)\n", s.Failures, s.MeanRepairTime, s.MaxRepairTime)
	fmt.Fprintf(w, "Restocks             : %d (total %.3f)\n", s.Restocks, s.RestockTime)
}

func maxStation(dist map[int]int) int {
	m := -1
	for id := range dist {
		m = max(m, id)
	}
	return m
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {

	runCmd.Flags().Int64Var(&seed, "seed", replication.DefaultSeed, "Seed for the batch of replications")
	runCmd.Flags().Float64Var(&simulationHorizon, "horizon", replication.DefaultHorizon, "Virtual-time length of each replication")
	runCmd.Flags().IntVar(&replications, "replications", replication.DefaultReplications, "Number of independent replications")
	runCmd.Flags().StringVar(&logLevel, "log", "error", "Log level (trace, debug, info, warn, error, fatal, panic)")
	runCmd.Flags().StringVar(&traceLevel, "trace-level", string(trace.TraceLevelNone), "Decision trace level (none, decisions)")

	// Plant configs
	runCmd.Flags().StringVar(&plantConfigPath, "config", "", "YAML plant configuration (unset keys keep defaults)")
	runCmd.Flags().IntVar(&restockers, "restockers", plant.DefaultConfig().Restockers, "Restocking crew size (overrides the config file)")

	// Output
	runCmd.Flags().StringVar(&outputPath, "output", "", "Write one JSON record per replication to this file (\"-\" for stdout)")

	// Attach `run` as a subcommand to `root`
	rootCmd.AddCommand(runCmd)
}
