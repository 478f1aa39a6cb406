package workload

import (
	"encoding/csv"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ReadCSV reads jobs from rows of the form arrival_time,job_size. A header row is skipped if present.
func ReadCSV(r io.Reader) ([]JobSpec, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	reader.Comment = '#'
	var rv []JobSpec
	for line := 1; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			return rv, nil
		}
		if err != nil {
			return nil, errors.WithStack(err)
		}
		if len(record) < 2 {
			return nil, errors.Errorf("line %d: expected 2 fields but got %d", line, len(record))
		}
		arrivalTime, err := strconv.ParseFloat(strings.TrimSpace(record[0]), 64)
		if err != nil {
			if line == 1 {
				continue
			}
			return nil, errors.WithMessagef(err, "line %d: invalid arrival time", line)
		}
		size, err := parseSize(strings.TrimSpace(record[1]))
		if err != nil {
			return nil, errors.WithMessagef(err, "line %d: invalid job size", line)
		}
		rv = append(rv, JobSpec{ArrivalTime: arrivalTime, Size: size})
	}
}

// parseSize accepts integers as well as floats with no fractional part, e.g., 5.0.
func parseSize(s string) (int64, error) {
	if size, err := strconv.ParseInt(s, 10, 64); err == nil {
		return size, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, errors.WithStack(err)
	}
	if f != math.Trunc(f) || math.IsInf(f, 0) {
		return 0, errors.Errorf("%s is not a whole number", s)
	}
	return int64(f), nil
}
