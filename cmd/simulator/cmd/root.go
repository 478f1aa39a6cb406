package cmd

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	commonconfig "github.com/Enuma3lish/ultimus-sub000/internal/common/config"
	"github.com/Enuma3lish/ultimus-sub000/internal/common/logging"
	"github.com/Enuma3lish/ultimus-sub000/internal/common/serve"
	"github.com/Enuma3lish/ultimus-sub000/internal/common/simcontext"
	"github.com/Enuma3lish/ultimus-sub000/internal/common/util"
	"github.com/Enuma3lish/ultimus-sub000/internal/scheduler/simulator"
	"github.com/Enuma3lish/ultimus-sub000/internal/scheduler/simulator/sink"
	"github.com/Enuma3lish/ultimus-sub000/internal/scheduler/workload"
)

func RootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "simulator",
		Short:        "Simulate scheduling jobs on a single machine.",
		RunE:         runSimulations,
		SilenceUsage: true,
	}
	cmd.Flags().String("workloads", "", "Glob pattern specifying workloads to simulate.")
	cmd.Flags().String("configs", "", "Glob pattern specifying simulation configurations. The default configuration is used if empty.")
	cmd.Flags().String("outputDir", "", "Directory to write parquet files of job and round records to. Disabled if empty.")
	cmd.Flags().Int("parallelism", runtime.NumCPU(), "Maximum number of simulations to run at once. Unbounded if 0.")
	cmd.Flags().Uint16("metricsPort", 0, "Port to expose prometheus metrics on. Disabled if 0.")
	cmd.Flags().String("logLevel", "info", "Log level, or off to disable logging.")
	cmd.Flags().String("logFormat", logging.FormatText, "Log format, either text or json.")
	cmd.Flags().String("logFile", "", "Also log to this file, rotating it as it grows.")
	if err := cmd.MarkFlagRequired("workloads"); err != nil {
		panic(err)
	}
	return cmd
}

type options struct {
	workloadPattern string
	configPattern   string
	outputDir       string
	parallelism     int
	metricsPort     uint16
	logging         logging.Config
}

func parseOptions(flags *pflag.FlagSet) (options, error) {
	var opts options
	var err error
	if opts.workloadPattern, err = flags.GetString("workloads"); err != nil {
		return opts, err
	}
	if opts.configPattern, err = flags.GetString("configs"); err != nil {
		return opts, err
	}
	if opts.outputDir, err = flags.GetString("outputDir"); err != nil {
		return opts, err
	}
	if opts.parallelism, err = flags.GetInt("parallelism"); err != nil {
		return opts, err
	}
	if opts.metricsPort, err = flags.GetUint16("metricsPort"); err != nil {
		return opts, err
	}
	opts.logging = logging.DefaultConfig()
	if opts.logging.Level, err = flags.GetString("logLevel"); err != nil {
		return opts, err
	}
	if opts.logging.Format, err = flags.GetString("logFormat"); err != nil {
		return opts, err
	}
	logFile, err := flags.GetString("logFile")
	if err != nil {
		return opts, err
	}
	if logFile != "" {
		opts.logging.File.Enabled = true
		opts.logging.File.LogFile = logFile
	}
	return opts, nil
}

func runSimulations(cmd *cobra.Command, args []string) error {
	opts, err := parseOptions(cmd.Flags())
	if err != nil {
		return err
	}
	if err := logging.ConfigureLogging(opts.logging); err != nil {
		return err
	}
	ctx := simcontext.New(cmd.Context(), logrus.NewEntry(logrus.StandardLogger()))

	// Load workloads and configs.
	workloadsByName, err := loadWorkloads(opts.workloadPattern)
	if err != nil {
		return err
	}
	configsByName, err := loadConfigs(opts.configPattern)
	if err != nil {
		commonconfig.LogValidationErrors(err)
		return err
	}
	workloadNames := maps.Keys(workloadsByName)
	slices.Sort(workloadNames)
	configNames := maps.Keys(configsByName)
	slices.Sort(configNames)
	ctx.Info("Single-machine scheduling simulator")
	ctx.Infof("Workloads: %v", workloadNames)
	ctx.Infof("Configs: %v", configNames)

	var metrics *sink.PrometheusMetrics
	if opts.metricsPort > 0 {
		reg := prometheus.NewRegistry()
		metrics = sink.NewPrometheusMetrics(reg)
		shutdownMetricServer := serve.ServeMetrics(opts.metricsPort, reg)
		defer shutdownMetricServer()
	}

	// Set up a run for each combination of (workload, config).
	runs := make([]simulator.Run, 0, len(workloadNames)*len(configNames))
	parquetSinks := make([]*sink.ParquetSink, 0)
	defer func() {
		for _, s := range parquetSinks {
			if err := s.Close(); err != nil {
				ctx.Warnf("Could not cleanly close parquet files: %s", err)
			}
		}
	}()
	for _, workloadName := range workloadNames {
		for _, configName := range configNames {
			run := simulator.Run{
				Name:   workloadName + "-" + configName,
				Config: configsByName[configName],
				Jobs:   workloadsByName[workloadName],
			}
			sinks := make([]simulator.Sink, 0, 2)
			if opts.outputDir != "" {
				dir := filepath.Join(opts.outputDir, run.Name+"-"+util.NewULID())
				if err := os.MkdirAll(dir, 0o755); err != nil {
					return errors.WithStack(err)
				}
				parquetSink, err := sink.NewParquetSink(dir)
				if err != nil {
					return err
				}
				parquetSinks = append(parquetSinks, parquetSink)
				sinks = append(sinks, parquetSink)
				ctx.Infof("Writing records of %s to %s", run.Name, dir)
			}
			if metrics != nil {
				sinks = append(sinks, metrics.ForRun(run.Name))
			}
			run.Sink = sink.Multi(sinks...)
			runs = append(runs, run)
		}
	}

	results, err := simulator.RunAll(ctx, runs, opts.parallelism)
	if err != nil {
		return err
	}

	// Log overall statistics.
	for i, result := range results {
		ctx.Infof("Simulation result")
		ctx.Infof("Simulation: %s", runs[i].Name)
		ctx.Infof("Seed: %d", result.Seed)
		ctx.Infof("Average flow time: %.4f, L2 norm of flow time: %.4f", result.AverageFlowTime, result.L2NormFlowTime)
		ctx.Info(result.Metrics.String())
	}
	return nil
}

func loadWorkloads(pattern string) (map[string][]workload.JobSpec, error) {
	specs, err := workload.SpecsFromPattern(pattern)
	if err != nil {
		return nil, err
	}
	if len(specs) == 0 {
		return nil, errors.Errorf("no workloads match %s", pattern)
	}
	rv := make(map[string][]workload.JobSpec, len(specs))
	for _, spec := range specs {
		if _, ok := rv[spec.Name]; ok {
			return nil, errors.Errorf("duplicate workload name %s", spec.Name)
		}
		jobs, err := spec.Load()
		if err != nil {
			return nil, err
		}
		if err := workload.Validate(jobs, workload.RequireJobs()); err != nil {
			return nil, errors.WithMessagef(err, "invalid workload %s", spec.Name)
		}
		rv[spec.Name] = jobs
	}
	return rv, nil
}

func loadConfigs(pattern string) (map[string]simulator.Config, error) {
	if pattern == "" {
		config := simulator.DefaultConfig()
		return map[string]simulator.Config{config.Name: config}, nil
	}
	configs, err := simulator.ConfigsFromPattern(pattern)
	if err != nil {
		return nil, err
	}
	if len(configs) == 0 {
		return nil, errors.Errorf("no configs match %s", pattern)
	}
	rv := make(map[string]simulator.Config, len(configs))
	for _, config := range configs {
		if _, ok := rv[config.Name]; ok {
			return nil, errors.Errorf("duplicate config name %s", config.Name)
		}
		rv[config.Name] = config
	}
	return rv, nil
}
