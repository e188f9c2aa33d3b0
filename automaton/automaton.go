package automaton

import (
	"errors"
	"fmt"
	"math"
)

// ErrStructural reports an automaton referencing undefined states or
// declaring duplicate ones. Fatal at construction, never recovered.
var ErrStructural = errors.New("structural automaton error")

// ErrNormalization reports branching probabilities that cannot be
// normalized. Fatal at construction.
var ErrNormalization = errors.New("branch probability normalization error")

const probTolerance = 1e-9

// State is a named automaton state.
type State struct {
	Name string
}

// TransitionTarget is one normalized branch endpoint: after construction the
// probabilities of a transition's targets always sum to 1.
type TransitionTarget struct {
	State       string
	Probability float64
}

// Transition is a fully validated, normalized edge of the automaton.
type Transition struct {
	Name          string
	Source        string
	Targets       []TransitionTarget
	Law           OccurrenceDistribution
	Condition     string   // optional guard, opaque to this model
	EndTime       *float64 // planned firing time, derived by the backend
	Interruptible bool
}

// Automaton is a named probabilistic state machine. Instances only exist in
// a fully validated, normalized form; treat them as immutable.
type Automaton struct {
	Name        string
	States      []State
	InitState   string
	Transitions []Transition
}

// TargetSpec declares one branch endpoint of a transition under
// construction. A nil Probability means "share the remaining mass equally
// with the other unset targets".
type TargetSpec struct {
	State       string   `yaml:"state" json:"state"`
	Probability *float64 `yaml:"probability,omitempty" json:"probability,omitempty"`
}

// TransitionSpec declares one transition under construction. Target is the
// single-endpoint shorthand; Targets the branching form. Exactly one of the
// two must be used. Interruptible defaults to true.
type TransitionSpec struct {
	Name          string       `yaml:"name" json:"name"`
	Source        string       `yaml:"source" json:"source"`
	Target        string       `yaml:"target,omitempty" json:"target,omitempty"`
	Targets       []TargetSpec `yaml:"targets,omitempty" json:"targets,omitempty"`
	Occurrence    DistSpec     `yaml:"occurrence" json:"occurrence"`
	Condition     string       `yaml:"condition,omitempty" json:"condition,omitempty"`
	Interruptible *bool        `yaml:"interruptible,omitempty" json:"interruptible,omitempty"`
}

// NewAutomaton validates the structure and normalizes branch probabilities,
// returning a fully formed automaton or a descriptive error. No partially
// normalized value ever escapes.
func NewAutomaton(name string, states []string, initState string, transitions []TransitionSpec) (*Automaton, error) {
	if len(states) == 0 {
		return nil, fmt.Errorf("automaton %q declares no states: %w", name, ErrStructural)
	}

	known := make(map[string]bool, len(states))
	stateList := make([]State, 0, len(states))
	for _, s := range states {
		if s == "" {
			return nil, fmt.Errorf("automaton %q declares an empty state name: %w", name, ErrStructural)
		}
		if known[s] {
			return nil, fmt.Errorf("automaton %q declares state %q twice: %w", name, s, ErrStructural)
		}
		known[s] = true
		stateList = append(stateList, State{Name: s})
	}

	if initState == "" {
		initState = states[0]
	} else if !known[initState] {
		return nil, fmt.Errorf("automaton %q init state %q not in state list: %w", name, initState, ErrStructural)
	}

	built := make([]Transition, 0, len(transitions))
	for _, spec := range transitions {
		tr, err := buildTransition(name, spec, known)
		if err != nil {
			return nil, err
		}
		built = append(built, tr)
	}

	return &Automaton{
		Name:        name,
		States:      stateList,
		InitState:   initState,
		Transitions: built,
	}, nil
}

func buildTransition(autName string, spec TransitionSpec, known map[string]bool) (Transition, error) {
	if !known[spec.Source] {
		return Transition{}, fmt.Errorf("automaton %q transition %q source state %q not in state list: %w",
			autName, spec.Name, spec.Source, ErrStructural)
	}

	targets := spec.Targets
	if spec.Target != "" {
		if len(targets) > 0 {
			return Transition{}, fmt.Errorf("automaton %q transition %q declares both target and targets: %w",
				autName, spec.Name, ErrStructural)
		}
		targets = []TargetSpec{{State: spec.Target}}
	}
	if len(targets) == 0 {
		return Transition{}, fmt.Errorf("automaton %q transition %q declares no target: %w",
			autName, spec.Name, ErrStructural)
	}
	for _, t := range targets {
		if !known[t.State] {
			return Transition{}, fmt.Errorf("automaton %q transition %q target state %q not in state list: %w",
				autName, spec.Name, t.State, ErrStructural)
		}
	}

	normalized, err := normalizeTargets(targets)
	if err != nil {
		return Transition{}, fmt.Errorf("automaton %q transition %q: %w", autName, spec.Name, err)
	}

	law, err := NewOccurrenceDistribution(spec.Occurrence)
	if err != nil {
		return Transition{}, fmt.Errorf("automaton %q transition %q: %w", autName, spec.Name, err)
	}

	interruptible := true
	if spec.Interruptible != nil {
		interruptible = *spec.Interruptible
	}

	return Transition{
		Name:          spec.Name,
		Source:        spec.Source,
		Targets:       normalized,
		Law:           law,
		Condition:     spec.Condition,
		Interruptible: interruptible,
	}, nil
}

// normalizeTargets applies the branching rule once, at construction: targets
// with explicit probabilities keep them, unset targets equally share the
// remaining mass, and an all-explicit list is rescaled to sum to 1.
func normalizeTargets(targets []TargetSpec) ([]TransitionTarget, error) {
	out := make([]TransitionTarget, len(targets))
	if len(targets) == 1 {
		out[0] = TransitionTarget{State: targets[0].State, Probability: 1}
		return out, nil
	}

	given := 0.0
	unset := 0
	for _, t := range targets {
		if t.Probability == nil {
			unset++
			continue
		}
		p := *t.Probability
		if math.IsNaN(p) || p < 0 || p > 1 {
			return nil, fmt.Errorf("target %q probability %v outside [0, 1]: %w", t.State, p, ErrNormalization)
		}
		given += p
	}

	if unset > 0 {
		if given > 1+probTolerance {
			return nil, fmt.Errorf("explicit probabilities sum to %v with %d unset targets: %w",
				given, unset, ErrNormalization)
		}
		share := (1 - given) / float64(unset)
		if share < 0 {
			share = 0
		}
		for i, t := range targets {
			if t.Probability != nil {
				out[i] = TransitionTarget{State: t.State, Probability: *t.Probability}
			} else {
				out[i] = TransitionTarget{State: t.State, Probability: share}
			}
		}
		return out, nil
	}

	if given <= probTolerance {
		return nil, fmt.Errorf("explicit probabilities sum to %v, cannot rescale: %w", given, ErrNormalization)
	}
	for i, t := range targets {
		out[i] = TransitionTarget{State: t.State, Probability: *t.Probability / given}
	}
	return out, nil
}

// StateByName returns the named state.
func (a *Automaton) StateByName(name string) (State, error) {
	for _, s := range a.States {
		if s.Name == name {
			return s, nil
		}
	}
	return State{}, fmt.Errorf("state %q is not part of automaton %q", name, a.Name)
}

// TransitionByName returns the named transition.
func (a *Automaton) TransitionByName(name string) (*Transition, error) {
	for i := range a.Transitions {
		if a.Transitions[i].Name == name {
			return &a.Transitions[i], nil
		}
	}
	return nil, fmt.Errorf("transition %q is not part of automaton %q", name, a.Name)
}
