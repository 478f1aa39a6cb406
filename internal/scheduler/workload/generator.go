package workload

import (
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/Enuma3lish/ultimus-sub000/internal/common/config"
)

const (
	SizeExponential = "exponential"
	SizePareto      = "pareto"
	SizeUniform     = "uniform"
)

// GeneratorSpec describes a synthetic workload with exponential inter-arrival times.
type GeneratorSpec struct {
	NumJobs          int     `mapstructure:"numJobs" validate:"gt=0"`
	MeanInterArrival float64 `mapstructure:"meanInterArrival" validate:"gt=0"`
	// One of exponential, pareto or uniform.
	SizeDistribution string `mapstructure:"sizeDistribution" validate:"oneof=exponential pareto uniform"`
	// Mean size for exponential sizes.
	MeanSize float64 `mapstructure:"meanSize" validate:"gte=0"`
	// Bounds for uniform sizes.
	MinSize float64 `mapstructure:"minSize" validate:"gte=0"`
	MaxSize float64 `mapstructure:"maxSize" validate:"gte=0"`
	// Scale and shape for pareto sizes.
	ParetoScale float64 `mapstructure:"paretoScale" validate:"gte=0"`
	ParetoShape float64 `mapstructure:"paretoShape" validate:"gte=0"`
	// If true, arrival times are rounded down to whole ticks.
	IntegerArrivals bool   `mapstructure:"integerArrivals"`
	Seed            uint64 `mapstructure:"seed"`
}

// Generate returns the jobs described by spec, ordered by arrival time. Sizes are rounded up to whole units.
func Generate(spec GeneratorSpec) ([]JobSpec, error) {
	if err := config.Validate(spec, nil); err != nil {
		return nil, err
	}
	src := rand.NewSource(spec.Seed)
	interArrival := distuv.Exponential{Rate: 1 / spec.MeanInterArrival, Src: src}
	var size distuv.Rander
	switch spec.SizeDistribution {
	case SizeExponential:
		size = distuv.Exponential{Rate: 1 / math.Max(spec.MeanSize, 1), Src: src}
	case SizePareto:
		size = distuv.Pareto{Xm: math.Max(spec.ParetoScale, 1), Alpha: math.Max(spec.ParetoShape, 1), Src: src}
	case SizeUniform:
		size = distuv.Uniform{Min: spec.MinSize, Max: math.Max(spec.MaxSize, spec.MinSize), Src: src}
	}

	rv := make([]JobSpec, spec.NumJobs)
	var t float64
	for i := range rv {
		t += interArrival.Rand()
		arrivalTime := t
		if spec.IntegerArrivals {
			arrivalTime = math.Floor(t)
		}
		rv[i] = JobSpec{
			ArrivalTime: arrivalTime,
			Size:        int64(math.Max(1, math.Ceil(size.Rand()))),
		}
	}
	return rv, nil
}
