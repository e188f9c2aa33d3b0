package seq

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// RawHit is one monitored-element observation inside a simulation branch:
// the owning object's name, the attribute or transition basename that
// changed, and a type tag.
type RawHit struct {
	Object    string `json:"object"`
	Attribute string `json:"attribute"`
	Kind      string `json:"kind,omitempty"`
}

// RawBranch groups the hits a simulation run produced at one point in time.
type RawBranch struct {
	Time *float64 `json:"time,omitempty"`
	Hits []RawHit `json:"hits"`
}

// RawRun is one full simulated history as emitted by the simulation
// backend: its ordered branches, a terminal cause label, and an end time.
type RawRun struct {
	Branches []RawBranch `json:"branches"`
	EndCause string      `json:"end_cause,omitempty"`
	EndTime  *float64    `json:"end_time,omitempty"`
}

// FromRawTrace adapts one simulated run into a weight-1 Sequence with one
// Event per monitored hit. When the run carries no terminal cause the
// sequence is classified under defaultTarget.
func FromRawTrace(run RawRun, defaultTarget string) *Sequence {
	target := run.EndCause
	if target == "" {
		target = defaultTarget
	}

	var events []Event
	for _, branch := range run.Branches {
		for _, hit := range branch.Hits {
			e := Event{
				Object:    hit.Object,
				Attribute: hit.Attribute,
				Kind:      hit.Kind,
			}
			if branch.Time != nil {
				t := *branch.Time
				e.Time = &t
			}
			events = append(events, e)
		}
	}

	s := NewSequence(target, events...)
	if run.EndTime != nil {
		t := *run.EndTime
		s.EndTime = &t
	}
	return s
}

// ReadRawRuns decodes a JSON array of raw runs.
func ReadRawRuns(r io.Reader) ([]RawRun, error) {
	var runs []RawRun
	dec := json.NewDecoder(r)
	if err := dec.Decode(&runs); err != nil {
		return nil, fmt.Errorf("decoding raw runs: %w", err)
	}
	return runs, nil
}

// LoadRawRunsFile reads a raw-run JSON file produced by a simulation
// backend.
func LoadRawRunsFile(path string) ([]RawRun, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening raw runs file: %w", err)
	}
	defer f.Close()
	runs, err := ReadRawRuns(f)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return runs, nil
}
