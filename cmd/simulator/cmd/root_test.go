package cmd

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const workloadTestdata = "../../../internal/scheduler/workload/testdata"

func TestRootCmd(t *testing.T) {
	outputDir := t.TempDir()
	cmd := RootCmd()
	cmd.SetArgs([]string{
		"--workloads", filepath.Join(workloadTestdata, "inline.yaml"),
		"--configs", "../../../internal/scheduler/simulator/testdata/configs/*.yaml",
		"--outputDir", outputDir,
		"--parallelism", "1",
		"--logLevel", "off",
	})
	require.NoError(t, cmd.ExecuteContext(context.Background()))

	entries, err := os.ReadDir(outputDir)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	for _, entry := range entries {
		assert.True(t, entry.IsDir())
		assert.FileExists(t, filepath.Join(outputDir, entry.Name(), "jobs.parquet"))
		assert.FileExists(t, filepath.Join(outputDir, entry.Name(), "rounds.parquet"))
	}
}

func TestRootCmd_Errors(t *testing.T) {
	tests := map[string]struct {
		args []string
	}{
		"no matching workloads": {
			args: []string{"--workloads", filepath.Join(t.TempDir(), "*.yaml")},
		},
		"invalid config": {
			args: []string{
				"--workloads", filepath.Join(workloadTestdata, "inline.yaml"),
				"--configs", "../../../internal/scheduler/simulator/testdata/invalid/*.yaml",
			},
		},
		"empty workload": {
			args: []string{"--workloads", emptyWorkload(t)},
		},
		"invalid job in workload": {
			args: []string{"--workloads", workloadFile(t, "bad.csv", "0,4\n1,0\n")},
		},
		"unknown log format": {
			args: []string{"--workloads", filepath.Join(workloadTestdata, "inline.yaml"), "--logFormat", "xml"},
		},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			cmd := RootCmd()
			cmd.SetArgs(tc.args)
			assert.Error(t, cmd.ExecuteContext(context.Background()))
		})
	}
}

func emptyWorkload(t *testing.T) string {
	return workloadFile(t, "empty.csv", "arrival_time,job_size\n")
}

func workloadFile(t *testing.T, name, contents string) string {
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}
