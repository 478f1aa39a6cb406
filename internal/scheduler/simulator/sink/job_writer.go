package sink

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	parquetWriter "github.com/xitongsys/parquet-go/writer"

	"github.com/Enuma3lish/ultimus-sub000/internal/scheduler/simulator"
)

type JobRow struct {
	Id                int32   `parquet:"name=id, type=INT32"`
	ArrivalTime       float64 `parquet:"name=arrival_time, type=DOUBLE"`
	Size              int64   `parquet:"name=size, type=INT64"`
	FirstExecutedTime *int64  `parquet:"name=first_executed_time, type=INT64, repetitiontype=OPTIONAL"`
	CompletionTime    *int64  `parquet:"name=completion_time, type=INT64, repetitiontype=OPTIONAL"`
	FlowTime          float64 `parquet:"name=flow_time, type=DOUBLE"`
	Level             int32   `parquet:"name=level, type=INT32"`
	Beta              float64 `parquet:"name=beta, type=DOUBLE"`
}

// JobWriter writes one row per completed job to jobs.parquet.
type JobWriter struct {
	file   *os.File
	writer *parquetWriter.ParquetWriter
}

func NewJobWriter(path string) (*JobWriter, error) {
	fileWriter, err := os.Create(filepath.Join(path, "jobs.parquet"))
	if err != nil {
		return nil, errors.WithStack(err)
	}
	pw, err := parquetWriter.NewParquetWriterFromWriter(fileWriter, new(JobRow), 1)
	if err != nil {
		fileWriter.Close()
		return nil, errors.WithStack(err)
	}
	return &JobWriter{
		file:   fileWriter,
		writer: pw,
	}, nil
}

func (j *JobWriter) Update(record simulator.JobRecord) error {
	row := JobRow{
		Id:          int32(record.Id),
		ArrivalTime: record.ArrivalTime,
		Size:        record.Size,
		FlowTime:    record.FlowTime(),
		Level:       int32(record.Level),
		Beta:        record.Beta,
	}
	if t, err := record.FirstExecutedTime.Get(); err == nil {
		row.FirstExecutedTime = &t
	}
	if t, err := record.CompletionTime.Get(); err == nil {
		row.CompletionTime = &t
	}
	return errors.WithStack(j.writer.Write(row))
}

func (j *JobWriter) Close() error {
	if err := j.writer.WriteStop(); err != nil {
		j.file.Close()
		return errors.WithMessage(err, "could not cleanly close jobs parquet file")
	}
	return errors.WithStack(j.file.Close())
}
