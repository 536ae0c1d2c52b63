package cmd

import (
	"context"
	"os"
	"os/signal"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	sim "github.com/queue-sim/queue-sim/sim"
)

var (
	cfgFile  string // Optional YAML sweep config
	logLevel string // Log verbosity level

	// CLI flags for the sweep; each may also come from the config file or QUEUESIM_* env vars
	serviceMode  string    // exponential, constant or both
	seed         int64     // Seed for the shared random stream
	horizon      float64   // Simulated time per replication
	replications int       // Replications per arrival rate
	arrivalRates []float64 // Arrival rates to evaluate, each in (0, 1)
	parallel     bool      // Run replications on a worker pool with per-replication streams
	workers      int       // Worker pool size (0 = one per replication)
	outputFormat string    // table, yaml or json

	singleRate float64 // Arrival rate for the single command

	// settings layers flags over environment variables
	settings = viper.New()
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "queue-sim",
	Short: "Discrete-event simulator for M/M/1 and M/D/1 queues",
	Long: `queue-sim estimates the mean time a customer spends in a single-server
queue with Poisson arrivals, for exponential (M/M/1) or constant (M/D/1)
service, and compares it with the closed form 1/(1-lambda).`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)
	},
}

// runCmd sweeps every configured arrival rate and prints the comparison
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the replication sweep over all arrival rates",
	Run: func(cmd *cobra.Command, args []string) {
		if !isValidOutputFormat(outputFormat) {
			logrus.Fatalf("Invalid output format %q (want table, yaml or json)", outputFormat)
		}
		configs, err := resolveSweep(settings, cfgFile)
		if err != nil {
			logrus.Fatalf("Invalid configuration: %v", err)
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		all := make([]*sim.Results, 0, len(configs))
		for _, cfg := range configs {
			s, err := sim.NewSimulator(cfg)
			if err != nil {
				logrus.Fatalf("Invalid configuration: %v", err)
			}
			results, err := s.Run(ctx)
			if err != nil {
				logrus.Fatalf("Simulation failed: %v", err)
			}
			all = append(all, results)
		}

		if err := writeResults(cmd.OutOrStdout(), outputFormat, all); err != nil {
			logrus.Fatalf("Failed to write results: %v", err)
		}
		logrus.Info("Simulation complete.")
	},
}

// singleCmd runs one replication at one arrival rate
var singleCmd = &cobra.Command{
	Use:   "single",
	Short: "Simulate a single replication at one arrival rate",
	Run: func(cmd *cobra.Command, args []string) {
		configs, err := resolveSweep(settings, cfgFile)
		if err != nil {
			logrus.Fatalf("Invalid configuration: %v", err)
		}
		theoretical, err := sim.TheoreticalMeanTimeInSystem(singleRate)
		if err != nil {
			logrus.Fatalf("Invalid arrival rate: %v", err)
		}
		for _, cfg := range configs {
			s, err := sim.NewSimulator(cfg)
			if err != nil {
				logrus.Fatalf("Invalid configuration: %v", err)
			}
			mean, err := s.SimulateSingleQueue(singleRate)
			if err != nil {
				logrus.Fatalf("Simulation failed: %v", err)
			}
			printSingle(cmd.OutOrStdout(), cfg.Service, int64(s.Key()), singleRate, sim.NewSimulationResult(mean, theoretical))
		}
	},
}

// theoryCmd prints the closed-form mean time in system for the configured rates
var theoryCmd = &cobra.Command{
	Use:   "theory",
	Short: "Print the theoretical mean time in system 1/(1-lambda)",
	Run: func(cmd *cobra.Command, args []string) {
		configs, err := resolveSweep(settings, cfgFile)
		if err != nil {
			logrus.Fatalf("Invalid configuration: %v", err)
		}
		if err := printTheory(cmd.OutOrStdout(), configs[0].ArrivalRates); err != nil {
			logrus.Fatalf("Failed to compute theoretical values: %v", err)
		}
	},
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "YAML sweep config (horizon, replications, arrival_rates, service, seed, parallel, workers)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "error", "Log level (trace, debug, info, warn, error, fatal, panic)")

	// Sweep configs shared by run, single and theory
	rootCmd.PersistentFlags().StringVar(&serviceMode, "service", "exponential", "Service discipline: exponential, constant or both")
	rootCmd.PersistentFlags().Int64Var(&seed, "seed", 0, "Seed for the shared random stream (unset = time-derived)")
	rootCmd.PersistentFlags().Float64Var(&horizon, "horizon", sim.DefaultHorizon, "Simulated time per replication")
	rootCmd.PersistentFlags().IntVar(&replications, "replications", sim.DefaultReplications, "Replications per arrival rate")
	rootCmd.PersistentFlags().Float64SliceVar(&arrivalRates, "rates", sim.DefaultArrivalRates(), "Comma-separated arrival rates, each in (0, 1)")
	rootCmd.PersistentFlags().BoolVar(&parallel, "parallel", false, "Run replications in parallel, one derived stream per replication")
	rootCmd.PersistentFlags().IntVar(&workers, "workers", 0, "Parallel worker count (0 = one per replication)")

	runCmd.Flags().StringVarP(&outputFormat, "output", "o", "table", "Output format: table, yaml or json")
	singleCmd.Flags().Float64Var(&singleRate, "rate", 0.7, "Arrival rate in (0, 1)")

	bindSettings(settings, rootCmd)

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(singleCmd)
	rootCmd.AddCommand(theoryCmd)
}
