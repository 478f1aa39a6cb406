package simulator

import (
	"path/filepath"
	"strings"

	"github.com/mattn/go-zglob"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	commonconfig "github.com/Enuma3lish/ultimus-sub000/internal/common/config"
	"github.com/Enuma3lish/ultimus-sub000/internal/common/simcontext"
	"github.com/Enuma3lish/ultimus-sub000/internal/scheduler/workload"
)

// Run is one simulation of a workload under a config.
type Run struct {
	Name   string
	Config Config
	Jobs   []workload.JobSpec
	// Receives the diagnostic records of the run. May be nil.
	Sink Sink
}

// RunAll runs independent simulations with at most parallelism running at once (unbounded if parallelism <= 0).
// Results are returned in the order of runs. The first failing run cancels those not yet finished.
func RunAll(ctx *simcontext.Context, runs []Run, parallelism int) ([]*Result, error) {
	simulators := make([]*Simulator, len(runs))
	for i, run := range runs {
		s, err := NewSimulator(run.Config, run.Jobs, run.Sink)
		if err != nil {
			return nil, errors.WithMessagef(err, "invalid simulation %s", run.Name)
		}
		simulators[i] = s
	}

	results := make([]*Result, len(runs))
	g, ctx := simcontext.ErrGroup(ctx)
	if parallelism > 0 {
		g.SetLimit(parallelism)
	}
	for i, s := range simulators {
		i, s := i, s
		runCtx := simcontext.WithLogFields(ctx, logrus.Fields{"simulation": runs[i].Name, "seed": s.seed})
		g.Go(func() error {
			result, err := s.Run(runCtx)
			if err != nil {
				return errors.WithMessagef(err, "simulation %s failed", runs[i].Name)
			}
			results[i] = result
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func ConfigsFromPattern(pattern string) ([]Config, error) {
	filePaths, err := zglob.Glob(pattern)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return ConfigsFromFilePaths(filePaths)
}

func ConfigsFromFilePaths(filePaths []string) ([]Config, error) {
	rv := make([]Config, len(filePaths))
	for i, filePath := range filePaths {
		config, err := ConfigFromFilePath(filePath)
		if err != nil {
			return nil, err
		}
		rv[i] = config
	}
	return rv, nil
}

// ConfigFromFilePath loads a config, starting from DefaultConfig, and validates it.
func ConfigFromFilePath(filePath string) (Config, error) {
	config := DefaultConfig()
	config.Name = ""
	v := viper.NewWithOptions(viper.KeyDelimiter("::"))
	v.SetConfigFile(filePath)
	if err := v.ReadInConfig(); err != nil {
		err = errors.WithMessagef(err, "failed to read in simulation config %s", filePath)
		return config, errors.WithStack(err)
	}
	if err := v.Unmarshal(&config, commonconfig.CustomHooks...); err != nil {
		err = errors.WithMessagef(err, "failed to unmarshal simulation config %s", filePath)
		return config, errors.WithStack(err)
	}

	// If no name is provided, set it to be the filename.
	if config.Name == "" {
		fileName := filepath.Base(filePath)
		fileName = strings.TrimSuffix(fileName, filepath.Ext(fileName))
		config.Name = fileName
	}
	if err := config.Validate(); err != nil {
		return config, errors.WithMessagef(err, "invalid simulation config %s", filePath)
	}
	return config, nil
}
