package automaton

import (
	"fmt"
	"math"
)

// Occurrence law tags. Closed set: deserialization resolves a tag to a
// variant exactly once, at the boundary.
const (
	KindDelay         = "delay"
	KindExponential   = "exp"
	KindInstantaneous = "inst"
	KindUniform       = "uniform"
)

// OccurrenceDistribution describes how a transition's firing time or
// branching is generated. Each variant knows only its own parameters;
// evaluation against a simulation clock is delegated to the backend.
type OccurrenceDistribution interface {
	Kind() string
	Validate() error
	String() string
}

// Delay fires after a fixed duration.
type Delay struct {
	Time float64
}

func (d Delay) Kind() string { return KindDelay }

func (d Delay) Validate() error {
	if math.IsNaN(d.Time) || math.IsInf(d.Time, 0) || d.Time < 0 {
		return fmt.Errorf("delay law requires a finite time >= 0, got %v", d.Time)
	}
	return nil
}

func (d Delay) String() string { return fmt.Sprintf("delay(%g)", d.Time) }

// Exponential fires after an exponentially distributed duration.
type Exponential struct {
	Rate float64
}

func (e Exponential) Kind() string { return KindExponential }

func (e Exponential) Validate() error {
	if math.IsNaN(e.Rate) || math.IsInf(e.Rate, 0) || e.Rate < 0 {
		return fmt.Errorf("exponential law requires a finite rate >= 0, got %v", e.Rate)
	}
	return nil
}

func (e Exponential) String() string { return fmt.Sprintf("exp(%g)", e.Rate) }

// Instantaneous fires immediately and branches across the transition's
// targets; the branch probabilities live on the target list, where
// normalization applies.
type Instantaneous struct{}

func (i Instantaneous) Kind() string { return KindInstantaneous }

func (i Instantaneous) Validate() error { return nil }

func (i Instantaneous) String() string { return "inst()" }

// Uniform fires after a duration drawn uniformly from [Min, Max].
type Uniform struct {
	Min float64
	Max float64
}

func (u Uniform) Kind() string { return KindUniform }

func (u Uniform) Validate() error {
	if math.IsNaN(u.Min) || math.IsInf(u.Min, 0) || math.IsNaN(u.Max) || math.IsInf(u.Max, 0) {
		return fmt.Errorf("uniform law requires finite bounds, got [%v, %v]", u.Min, u.Max)
	}
	if u.Min > u.Max {
		return fmt.Errorf("uniform law requires min <= max, got [%v, %v]", u.Min, u.Max)
	}
	return nil
}

func (u Uniform) String() string { return fmt.Sprintf("unif(%g, %g)", u.Min, u.Max) }

// DistSpec is the serialized form of an occurrence law: a stable tag plus
// named scalar parameters.
type DistSpec struct {
	Kind   string             `yaml:"kind" json:"kind"`
	Params map[string]float64 `yaml:"params,omitempty" json:"params,omitempty"`
}

// requireParam checks that all required keys exist in a params map.
func requireParam(params map[string]float64, keys ...string) error {
	for _, k := range keys {
		if _, ok := params[k]; !ok {
			return fmt.Errorf("occurrence law requires parameter %q", k)
		}
	}
	return nil
}

// NewOccurrenceDistribution resolves a DistSpec into a validated law.
func NewOccurrenceDistribution(spec DistSpec) (OccurrenceDistribution, error) {
	var law OccurrenceDistribution
	switch spec.Kind {
	case KindDelay:
		if err := requireParam(spec.Params, "time"); err != nil {
			return nil, err
		}
		law = Delay{Time: spec.Params["time"]}

	case KindExponential:
		if err := requireParam(spec.Params, "rate"); err != nil {
			return nil, err
		}
		law = Exponential{Rate: spec.Params["rate"]}

	case KindInstantaneous:
		law = Instantaneous{}

	case KindUniform:
		if err := requireParam(spec.Params, "min", "max"); err != nil {
			return nil, err
		}
		law = Uniform{Min: spec.Params["min"], Max: spec.Params["max"]}

	default:
		return nil, fmt.Errorf("unknown occurrence law %q", spec.Kind)
	}

	if err := law.Validate(); err != nil {
		return nil, err
	}
	return law, nil
}
