package automaton

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// AutomatonSpec is the on-disk description of an automaton. External tools
// assemble components from files in this shape; the core only validates and
// builds.
type AutomatonSpec struct {
	Name        string           `yaml:"name" json:"name"`
	States      []string         `yaml:"states" json:"states"`
	InitState   string           `yaml:"init_state,omitempty" json:"init_state,omitempty"`
	Transitions []TransitionSpec `yaml:"transitions,omitempty" json:"transitions,omitempty"`
}

// Build validates the spec and constructs the automaton.
func (s *AutomatonSpec) Build() (*Automaton, error) {
	return NewAutomaton(s.Name, s.States, s.InitState, s.Transitions)
}

// ParseSpec decodes a YAML automaton description and builds it.
func ParseSpec(data []byte) (*Automaton, error) {
	var spec AutomatonSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("parsing automaton spec: %w", err)
	}
	return spec.Build()
}

// LoadSpecFile reads and builds an automaton from a YAML file.
func LoadSpecFile(path string) (*Automaton, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading automaton spec: %w", err)
	}
	aut, err := ParseSpec(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return aut, nil
}
