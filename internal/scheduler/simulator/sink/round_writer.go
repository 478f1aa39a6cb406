package sink

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	parquetWriter "github.com/xitongsys/parquet-go/writer"

	"github.com/Enuma3lish/ultimus-sub000/internal/scheduler/simulator"
)

type RoundRow struct {
	Round          int32   `parquet:"name=round, type=INT32"`
	Policy         string  `parquet:"name=policy, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	StartTime      int64   `parquet:"name=start_time, type=INT64"`
	EndTime        int64   `parquet:"name=end_time, type=INT64"`
	RoundCost      float64 `parquet:"name=round_cost, type=DOUBLE"`
	NormalisedCost float64 `parquet:"name=normalised_cost, type=DOUBLE"`
	JobsCompleted  int32   `parquet:"name=jobs_completed, type=INT32"`
	Levels         int32   `parquet:"name=levels, type=INT32"`
	BaselineScore  float64 `parquet:"name=baseline_score, type=DOUBLE"`
	AdaptiveScore  float64 `parquet:"name=adaptive_score, type=DOUBLE"`
	NextPolicy     string  `parquet:"name=next_policy, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
}

// RoundWriter writes one row per completed round to rounds.parquet.
type RoundWriter struct {
	file   *os.File
	writer *parquetWriter.ParquetWriter
}

func NewRoundWriter(path string) (*RoundWriter, error) {
	fileWriter, err := os.Create(filepath.Join(path, "rounds.parquet"))
	if err != nil {
		return nil, errors.WithStack(err)
	}
	pw, err := parquetWriter.NewParquetWriterFromWriter(fileWriter, new(RoundRow), 1)
	if err != nil {
		fileWriter.Close()
		return nil, errors.WithStack(err)
	}
	return &RoundWriter{
		file:   fileWriter,
		writer: pw,
	}, nil
}

func (r *RoundWriter) Update(record simulator.RoundRecord) error {
	row := RoundRow{
		Round:          int32(record.RoundIndex),
		Policy:         record.Policy.String(),
		StartTime:      record.StartTime,
		EndTime:        record.EndTime,
		RoundCost:      record.RoundCost,
		NormalisedCost: record.NormalisedCost,
		JobsCompleted:  int32(record.JobsCompleted),
		Levels:         int32(record.Levels),
		BaselineScore:  record.BaselineScore,
		AdaptiveScore:  record.AdaptiveScore,
		NextPolicy:     record.NextPolicy.String(),
	}
	return errors.WithStack(r.writer.Write(row))
}

func (r *RoundWriter) Close() error {
	if err := r.writer.WriteStop(); err != nil {
		r.file.Close()
		return errors.WithMessage(err, "could not cleanly close rounds parquet file")
	}
	return errors.WithStack(r.file.Close())
}
