package seq

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/sirupsen/logrus"
)

// Sequence is one full simulated history: an ordered list of Events ending
// in a classified outcome. Weight counts how many raw runs this sequence
// stands for; Probability is derived from the owning collection's total
// weight and is never authoritative on its own.
type Sequence struct {
	Probability *float64
	Weight      int
	EndTime     *float64
	TargetName  string
	Events      []Event
}

// NewSequence builds a weight-1 sequence for the given target.
func NewSequence(targetName string, events ...Event) *Sequence {
	return &Sequence{Weight: 1, TargetName: targetName, Events: events}
}

// Clone returns a deep copy sharing no Event or pointer values with the
// receiver.
func (s *Sequence) Clone() *Sequence {
	out := &Sequence{
		Weight:     s.Weight,
		TargetName: s.TargetName,
	}
	if s.Probability != nil {
		p := *s.Probability
		out.Probability = &p
	}
	if s.EndTime != nil {
		t := *s.EndTime
		out.EndTime = &t
	}
	out.Events = make([]Event, len(s.Events))
	for i := range s.Events {
		out.Events[i] = s.Events[i].Clone()
	}
	return out
}

// Signature is the time-independent shape of the sequence: its ordered list
// of (object, attribute, kind) triples. Two sequences with the same target
// and the same signature describe the same scenario.
func (s *Sequence) Signature() string {
	var b strings.Builder
	for i := range s.Events {
		e := &s.Events[i]
		b.WriteString(e.Object)
		b.WriteByte('\x1f')
		b.WriteString(e.Attribute)
		b.WriteByte('\x1f')
		b.WriteString(e.Kind)
		b.WriteByte('\x1e')
	}
	return b.String()
}

// IsIncluded reports whether every event of s appears in other in the same
// relative order, not necessarily contiguously. Events compare by
// (object, attribute, kind). The empty sequence is included in everything.
func (s *Sequence) IsIncluded(other *Sequence) bool {
	i := 0
	for j := 0; i < len(s.Events) && j < len(other.Events); j++ {
		if s.Events[i].Equal(&other.Events[j]) {
			i++
		}
	}
	return i == len(s.Events)
}

// String returns a one-line summary of the sequence.
func (s *Sequence) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Target: %s | Weight: %d", s.TargetName, s.Weight)
	if s.Probability != nil {
		fmt.Fprintf(&b, " | Probability: %.2f%%", *s.Probability*100)
	}
	if s.EndTime != nil {
		fmt.Fprintf(&b, " | End time: %.2f", *s.EndTime)
	}
	fmt.Fprintf(&b, " | Events: %d", len(s.Events))
	return b.String()
}

// RemoveOrderedEventPairPattern drops (opening, closing) event pairs from the
// sequence. Scanning left to right, each unconsumed event whose name matches
// openPat starts a forward search among the remaining unconsumed events for
// the first one matching closePat, where openPat's capture groups are spliced
// into closePat before the search. Both pair members are removed; events
// between them stay. An opener with no closer is kept. This strips transient
// round-trip state flips (a component leaving and re-entering a state) while
// keeping causally relevant intermediate events.
//
// A closePat backreference that cannot be expanded falls back to the literal
// closePat rather than failing the whole reduction.
func (s *Sequence) RemoveOrderedEventPairPattern(openPat, closePat string, inPlace bool) (*Sequence, error) {
	reOpen, err := regexp.Compile(openPat)
	if err != nil {
		return nil, fmt.Errorf("compiling opening pattern %q: %w", openPat, err)
	}

	consumed := make([]bool, len(s.Events))
	for i := range s.Events {
		if consumed[i] {
			continue
		}
		name := s.Events[i].Name()
		if name == "" {
			continue
		}
		groups := reOpen.FindStringSubmatch(name)
		if groups == nil {
			continue
		}

		expanded, ok := spliceCaptures(closePat, groups)
		if !ok {
			logrus.Warnf("closing pattern %q references a group not captured by %q; using it literally", closePat, openPat)
			expanded = closePat
		}
		reClose, err := regexp.Compile(expanded)
		if err != nil {
			logrus.Warnf("closing pattern %q does not compile after expansion (%v); keeping event %q", expanded, err, name)
			continue
		}

		for j := i + 1; j < len(s.Events); j++ {
			if consumed[j] {
				continue
			}
			closeName := s.Events[j].Name()
			if closeName != "" && reClose.MatchString(closeName) {
				consumed[i] = true
				consumed[j] = true
				break
			}
		}
	}

	kept := make([]Event, 0, len(s.Events))
	for i := range s.Events {
		if !consumed[i] {
			kept = append(kept, s.Events[i])
		}
	}

	if inPlace {
		s.Events = kept
		return s, nil
	}
	out := s.Clone()
	out.Events = make([]Event, len(kept))
	for i := range kept {
		out.Events[i] = kept[i].Clone()
	}
	return out, nil
}

// RenameEvents applies Event.Rename to every event of the sequence.
func (s *Sequence) RenameEvents(field, sourcePat, targetPat string, inPlace bool) (*Sequence, error) {
	if err := CheckRenameField(field); err != nil {
		return nil, err
	}
	target := s
	if !inPlace {
		target = s.Clone()
	}
	for i := range target.Events {
		if _, err := target.Events[i].Rename(field, sourcePat, targetPat, true); err != nil {
			return nil, err
		}
	}
	return target, nil
}
