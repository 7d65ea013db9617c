package frecency

import (
	"math"
	"time"

	"github.com/kyleking/lazylaunch/internal/errs"
)

// DefaultRetention is how long usage timestamps are kept.
const DefaultRetention = 30 * 24 * time.Hour

// Log holds usage timestamps keyed by item id, oldest first.
type Log map[string][]time.Time

// NewLog creates an empty Log.
func NewLog() Log {
	return make(Log)
}

// Clone returns a deep copy.
func (l Log) Clone() Log {
	out := make(Log, len(l))
	for id, ts := range l {
		out[id] = append([]time.Time(nil), ts...)
	}
	return out
}

// Params tunes the decay curve.
type Params struct {
	// Lambda is the decay rate. Zero makes every open count exactly 1.
	Lambda float64 `yaml:"lambda"`
	// TimeScaleHours stretches the time axis.
	TimeScaleHours float64 `yaml:"time_scale_hours"`
}

// DefaultParams returns the stock tuning.
func DefaultParams() Params {
	return Params{Lambda: 0.5, TimeScaleHours: 6}
}

// Validate rejects parameters that would make scores meaningless.
func (p Params) Validate() error {
	if math.IsNaN(p.Lambda) || math.IsInf(p.Lambda, 0) || p.Lambda < 0 {
		return &errs.ScoringError{Param: "lambda", Value: p.Lambda, Reason: "must be a finite number >= 0"}
	}
	if math.IsNaN(p.TimeScaleHours) || math.IsInf(p.TimeScaleHours, 0) || p.TimeScaleHours <= 0 {
		return &errs.ScoringError{Param: "time_scale_hours", Value: p.TimeScaleHours, Reason: "must be a finite number > 0"}
	}
	return nil
}
