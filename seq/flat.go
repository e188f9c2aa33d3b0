package seq

// FlatRow is one (sequence, event) pair of the flattened collection. The
// sequence's identifying fields repeat on every row; event fields are nil
// for a sequence with no events. Intended for hand-off to tabular or
// plotting collaborators, not used by any reduction algorithm.
type FlatRow struct {
	SeqIndex       int
	TargetName     string
	Probability    *float64
	Weight         int
	EndTime        *float64
	EventIndex     *int
	EventName      *string
	EventTime      *float64
	EventObject    *string
	EventKind      *string
	EventAttribute *string
}

// ToFlatTable produces one row per (sequence, event) pair, or a single row
// with nil event fields for an event-less sequence. An empty analyser yields
// an empty table.
func (a *Analyser) ToFlatTable() []FlatRow {
	rows := make([]FlatRow, 0, len(a.Sequences))
	for idx, s := range a.Sequences {
		base := FlatRow{
			SeqIndex:   idx,
			TargetName: s.TargetName,
			Weight:     s.Weight,
		}
		if s.Probability != nil {
			p := *s.Probability
			base.Probability = &p
		}
		if s.EndTime != nil {
			t := *s.EndTime
			base.EndTime = &t
		}
		if len(s.Events) == 0 {
			rows = append(rows, base)
			continue
		}
		for i := range s.Events {
			e := &s.Events[i]
			row := base
			evIdx := i
			name := e.Name()
			obj := e.Object
			kind := e.Kind
			attr := e.Attribute
			row.EventIndex = &evIdx
			row.EventName = &name
			row.EventObject = &obj
			row.EventKind = &kind
			row.EventAttribute = &attr
			if e.Time != nil {
				t := *e.Time
				row.EventTime = &t
			}
			rows = append(rows, row)
		}
	}
	return rows
}
