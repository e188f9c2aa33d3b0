package seq

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/stat"
)

// TargetStat aggregates the sequences sharing one terminal classification.
type TargetStat struct {
	NbSequences int
	Weight      int
	Probability float64 // weight / total weight across all targets
}

// Analyser is a collection of Sequences plus the reduction and aggregation
// algorithms that turn many raw simulated histories into a compact set of
// weighted scenarios. Reductions redistribute weight but never drop it, so
// the total weight per target is conserved across every operation.
type Analyser struct {
	Sequences []*Sequence
}

// NewAnalyser builds an Analyser over the given sequences.
func NewAnalyser(sequences ...*Sequence) *Analyser {
	return &Analyser{Sequences: sequences}
}

// Add appends sequences to the collection.
func (a *Analyser) Add(sequences ...*Sequence) {
	a.Sequences = append(a.Sequences, sequences...)
}

// NbSequences returns the number of sequences held.
func (a *Analyser) NbSequences() int {
	return len(a.Sequences)
}

// WeightTotal returns the summed weight of all sequences.
func (a *Analyser) WeightTotal() int {
	total := 0
	for _, s := range a.Sequences {
		total += s.Weight
	}
	return total
}

// TargetStats aggregates sequence counts, weights and probabilities per
// terminal classification. Sequences without a target bucket under "".
func (a *Analyser) TargetStats() map[string]TargetStat {
	stats := make(map[string]TargetStat)
	total := a.WeightTotal()
	for _, s := range a.Sequences {
		st := stats[s.TargetName]
		st.NbSequences++
		st.Weight += s.Weight
		stats[s.TargetName] = st
	}
	if total > 0 {
		for name, st := range stats {
			st.Probability = float64(st.Weight) / float64(total)
			stats[name] = st
		}
	}
	return stats
}

// UpdateProbabilities recomputes each sequence's probability as its share of
// the total weight. With zero total weight probabilities are cleared.
func (a *Analyser) UpdateProbabilities() {
	total := a.WeightTotal()
	for _, s := range a.Sequences {
		if total == 0 {
			s.Probability = nil
			continue
		}
		p := float64(s.Weight) / float64(total)
		s.Probability = &p
	}
}

// Clone returns a deep copy sharing no Sequence or Event values with the
// receiver.
func (a *Analyser) Clone() *Analyser {
	out := &Analyser{Sequences: make([]*Sequence, len(a.Sequences))}
	for i, s := range a.Sequences {
		out.Sequences[i] = s.Clone()
	}
	return out
}

// String summarizes the collection and its per-target statistics.
func (a *Analyser) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Analyser | Total sequences: %d | Total weight: %d\n", a.NbSequences(), a.WeightTotal())
	stats := a.TargetStats()
	names := make([]string, 0, len(stats))
	for name := range stats {
		names = append(names, name)
	}
	sort.Strings(names)
	b.WriteString("Targets:\n")
	for _, name := range names {
		st := stats[name]
		fmt.Fprintf(&b, "  %s: %d sequences, weight %d, probability %.4f\n",
			name, st.NbSequences, st.Weight, st.Probability)
	}
	return b.String()
}

// GroupSequences merges sequences that share a target and a signature — the
// same failure path observed at slightly different times across runs — into
// one sequence whose weight is the sum of the group's weights and whose
// event and end times are the means of the non-nil contributing times. The
// result is sorted by descending weight and probabilities are recomputed.
// Grouping is idempotent.
func (a *Analyser) GroupSequences(inPlace bool) *Analyser {
	target := a
	if !inPlace {
		target = a.Clone()
	}
	before := len(target.Sequences)

	type groupKey struct {
		target    string
		signature string
	}
	var order []groupKey
	groups := make(map[groupKey][]*Sequence)
	for _, s := range target.Sequences {
		k := groupKey{s.TargetName, s.Signature()}
		if _, seen := groups[k]; !seen {
			order = append(order, k)
		}
		groups[k] = append(groups[k], s)
	}

	merged := make([]*Sequence, 0, len(order))
	for _, k := range order {
		merged = append(merged, mergeSequences(groups[k]))
	}
	target.Sequences = merged
	target.sortByWeight()
	target.UpdateProbabilities()

	logrus.Debugf("grouped %d sequences into %d", before, len(target.Sequences))
	return target
}

// mergeSequences folds sequences with identical target and signature into
// one. Event identity comes from the first contributor; times are averaged
// over the contributors that carry one.
func mergeSequences(group []*Sequence) *Sequence {
	out := group[0].Clone()
	out.Probability = nil

	weight := 0
	for _, s := range group {
		weight += s.Weight
	}
	out.Weight = weight

	for i := range out.Events {
		var times []float64
		for _, s := range group {
			if t := s.Events[i].Time; t != nil {
				times = append(times, *t)
			}
		}
		out.Events[i].Time = meanOrNil(times)
	}

	var endTimes []float64
	for _, s := range group {
		if s.EndTime != nil {
			endTimes = append(endTimes, *s.EndTime)
		}
	}
	out.EndTime = meanOrNil(endTimes)
	return out
}

func meanOrNil(values []float64) *float64 {
	if len(values) == 0 {
		return nil
	}
	m := stat.Mean(values, nil)
	return &m
}

// ComputeMinimalSequences reduces each target partition to its minimal
// representative paths: taking sequences by ascending event count, the
// shortest remaining sequence absorbs the weight of every longer remaining
// sequence that includes it as a subsequence, and the absorbed sequences are
// dropped. No kept sequence is a strict super-sequence of another kept one
// for the same target, and per-target weight is conserved exactly.
func (a *Analyser) ComputeMinimalSequences(inPlace bool) *Analyser {
	target := a
	if !inPlace {
		target = a.Clone()
	}
	before := len(target.Sequences)

	var order []string
	byTarget := make(map[string][]*Sequence)
	for _, s := range target.Sequences {
		if _, seen := byTarget[s.TargetName]; !seen {
			order = append(order, s.TargetName)
		}
		byTarget[s.TargetName] = append(byTarget[s.TargetName], s)
	}

	var result []*Sequence
	for _, name := range order {
		group := byTarget[name]
		sort.SliceStable(group, func(i, j int) bool {
			return len(group[i].Events) < len(group[j].Events)
		})
		remaining := group
		for len(remaining) > 0 {
			s := remaining[0]
			var next []*Sequence
			for _, cand := range remaining[1:] {
				if s.IsIncluded(cand) {
					s.Weight += cand.Weight
				} else {
					next = append(next, cand)
				}
			}
			result = append(result, s)
			remaining = next
		}
	}
	target.Sequences = result
	target.sortByWeight()
	target.UpdateProbabilities()

	logrus.Debugf("minimal reduction kept %d of %d sequences", len(target.Sequences), before)
	return target
}

// RemoveOrderedEventPairPattern applies the per-sequence pair removal to the
// whole collection, then re-groups to merge sequences that became identical
// after filtering.
func (a *Analyser) RemoveOrderedEventPairPattern(openPat, closePat string, inPlace bool) (*Analyser, error) {
	target := a
	if !inPlace {
		target = a.Clone()
	}
	for _, s := range target.Sequences {
		if _, err := s.RemoveOrderedEventPairPattern(openPat, closePat, true); err != nil {
			return nil, err
		}
	}
	target.GroupSequences(true)
	return target, nil
}

// RenameEvents applies a regex field rename to every event of every
// sequence.
func (a *Analyser) RenameEvents(field, sourcePat, targetPat string, inPlace bool) (*Analyser, error) {
	if err := CheckRenameField(field); err != nil {
		return nil, err
	}
	target := a
	if !inPlace {
		target = a.Clone()
	}
	for _, s := range target.Sequences {
		if _, err := s.RenameEvents(field, sourcePat, targetPat, true); err != nil {
			return nil, err
		}
	}
	return target, nil
}

// sortByWeight orders sequences by descending weight, breaking ties by
// target name then signature so results are reproducible run to run.
func (a *Analyser) sortByWeight() {
	sort.SliceStable(a.Sequences, func(i, j int) bool {
		si, sj := a.Sequences[i], a.Sequences[j]
		if si.Weight != sj.Weight {
			return si.Weight > sj.Weight
		}
		if si.TargetName != sj.TargetName {
			return si.TargetName < sj.TargetName
		}
		return si.Signature() < sj.Signature()
	})
}
