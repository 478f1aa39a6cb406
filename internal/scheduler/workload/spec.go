package workload

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/mattn/go-zglob"
	"github.com/pkg/errors"
	"github.com/spf13/viper"

	commonconfig "github.com/Enuma3lish/ultimus-sub000/internal/common/config"
)

// Spec is a workload as described in a file. Jobs listed inline, read from CsvFile and
// produced by Generator are concatenated in that order.
type Spec struct {
	Name string    `mapstructure:"name"`
	Jobs []JobSpec `mapstructure:"jobs"`
	// Path of a CSV file of arrival_time,job_size rows. Relative paths are resolved against the directory of the workload file.
	CsvFile   string         `mapstructure:"csvFile"`
	Generator *GeneratorSpec `mapstructure:"generator"`
	dir       string
}

// Load returns the jobs of the workload in file order.
func (s *Spec) Load() ([]JobSpec, error) {
	rv := append([]JobSpec{}, s.Jobs...)
	if s.CsvFile != "" {
		path := s.CsvFile
		if !filepath.IsAbs(path) {
			path = filepath.Join(s.dir, path)
		}
		f, err := os.Open(path)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		defer f.Close()
		jobs, err := ReadCSV(f)
		if err != nil {
			return nil, errors.WithMessagef(err, "failed to read workload %s from %s", s.Name, path)
		}
		rv = append(rv, jobs...)
	}
	if s.Generator != nil {
		jobs, err := Generate(*s.Generator)
		if err != nil {
			return nil, errors.WithMessagef(err, "failed to generate workload %s", s.Name)
		}
		rv = append(rv, jobs...)
	}
	return rv, nil
}

func SpecsFromPattern(pattern string) ([]*Spec, error) {
	filePaths, err := zglob.Glob(pattern)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return SpecsFromFilePaths(filePaths)
}

func SpecsFromFilePaths(filePaths []string) ([]*Spec, error) {
	rv := make([]*Spec, len(filePaths))
	for i, filePath := range filePaths {
		spec, err := SpecFromFilePath(filePath)
		if err != nil {
			return nil, err
		}
		rv[i] = spec
	}
	return rv, nil
}

func SpecFromFilePath(filePath string) (*Spec, error) {
	rv := &Spec{}
	if strings.EqualFold(filepath.Ext(filePath), ".csv") {
		rv.CsvFile = filePath
	} else {
		v := viper.NewWithOptions(viper.KeyDelimiter("::"))
		v.SetConfigFile(filePath)
		if err := v.ReadInConfig(); err != nil {
			err = errors.WithMessagef(err, "failed to read in workload spec %s", filePath)
			return nil, errors.WithStack(err)
		}
		if err := v.Unmarshal(rv, commonconfig.CustomHooks...); err != nil {
			err = errors.WithMessagef(err, "failed to unmarshal workload spec %s", filePath)
			return nil, errors.WithStack(err)
		}
		rv.dir = filepath.Dir(filePath)
	}

	// If no name is provided, set it to be the filename.
	if rv.Name == "" {
		fileName := filepath.Base(filePath)
		fileName = strings.TrimSuffix(fileName, filepath.Ext(fileName))
		rv.Name = fileName
	}
	return rv, nil
}
