package seq

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToFlatTable_OneRowPerEvent(t *testing.T) {
	a := NewAnalyser(
		&Sequence{TargetName: "failure", Probability: fp(0.6), Weight: 3, EndTime: fp(30.0),
			Events: []Event{
				tev("comp1", "state", 10.0, "transition"),
				tev("comp2", "value", 20.0, "failure"),
			}},
		&Sequence{TargetName: "success", Probability: fp(0.4), Weight: 2, EndTime: fp(25.0),
			Events: []Event{tev("comp1", "state", 10.0, "transition")}},
	)

	rows := a.ToFlatTable()
	require.Len(t, rows, 3)

	first := rows[0]
	assert.Equal(t, 0, first.SeqIndex)
	assert.Equal(t, "failure", first.TargetName)
	assert.Equal(t, 3, first.Weight)
	require.NotNil(t, first.EventIndex)
	assert.Equal(t, 0, *first.EventIndex)
	assert.Equal(t, "comp1.state", *first.EventName)
	assert.Equal(t, "comp1", *first.EventObject)
	assert.Equal(t, "state", *first.EventAttribute)
	assert.Equal(t, "transition", *first.EventKind)
	assert.Equal(t, 10.0, *first.EventTime)

	// Sequence fields repeat on every row of the same sequence.
	assert.Equal(t, rows[0].Weight, rows[1].Weight)
	assert.Equal(t, rows[0].TargetName, rows[1].TargetName)
	assert.Equal(t, 1, rows[2].SeqIndex)
}

func TestToFlatTable_EventlessSequenceGetsNullRow(t *testing.T) {
	a := NewAnalyser(&Sequence{TargetName: "empty", Probability: fp(1.0), Weight: 1, EndTime: fp(0.0)})

	rows := a.ToFlatTable()
	require.Len(t, rows, 1)
	assert.Equal(t, "empty", rows[0].TargetName)
	assert.Nil(t, rows[0].EventIndex)
	assert.Nil(t, rows[0].EventName)
	assert.Nil(t, rows[0].EventTime)
}

func TestToFlatTable_EmptyAnalyser(t *testing.T) {
	assert.Empty(t, NewAnalyser().ToFlatTable())
}

func TestToFlatTable_DoesNotAliasAnalyserData(t *testing.T) {
	s := &Sequence{TargetName: "failure", Probability: fp(0.5), Weight: 1,
		Events: []Event{tev("comp1", "state", 10.0, "transition")}}
	a := NewAnalyser(s)

	rows := a.ToFlatTable()
	*rows[0].Probability = 0.9
	*rows[0].EventTime = 99.0

	assert.Equal(t, 0.5, *s.Probability)
	assert.Equal(t, 10.0, *s.Events[0].Time)
}
