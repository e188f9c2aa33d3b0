package cmd

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relseq/relseq/seq"
)

func writeRunsFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadAnalyser_PreservesFileOrder(t *testing.T) {
	first := writeRunsFile(t, "a.json", `[
		{"branches": [{"time": 1.0, "hits": [{"object": "pump1", "attribute": "failure", "kind": "transition"}]}],
		 "end_cause": "system_failure", "end_time": 1.0}
	]`)
	second := writeRunsFile(t, "b.json", `[
		{"branches": [], "end_time": 10.0},
		{"branches": [], "end_time": 10.0}
	]`)

	analyser, err := loadAnalyser([]string{first, second}, "no_failure")
	require.NoError(t, err)
	require.Equal(t, 3, analyser.NbSequences())
	assert.Equal(t, "system_failure", analyser.Sequences[0].TargetName)
	assert.Equal(t, "no_failure", analyser.Sequences[1].TargetName)
	assert.Equal(t, 3, analyser.WeightTotal())
}

func TestLoadAnalyser_MissingFile(t *testing.T) {
	_, err := loadAnalyser([]string{filepath.Join(t.TempDir(), "absent.json")}, "")
	assert.Error(t, err)
}

func TestRunPipeline_GroupAndMinimal(t *testing.T) {
	duplicated := `[
		{"branches": [{"time": 2.0, "hits": [{"object": "pump1", "attribute": "failure", "kind": "transition"}]}],
		 "end_cause": "system_failure", "end_time": 2.0},
		{"branches": [{"time": 5.0, "hits": [{"object": "pump1", "attribute": "failure", "kind": "transition"}]}],
		 "end_cause": "system_failure", "end_time": 5.0},
		{"branches": [
			{"time": 2.0, "hits": [{"object": "pump1", "attribute": "failure", "kind": "transition"}]},
			{"time": 4.0, "hits": [{"object": "valve2", "attribute": "stuck", "kind": "transition"}]}
		 ], "end_cause": "system_failure", "end_time": 4.0}
	]`
	path := writeRunsFile(t, "runs.json", duplicated)

	analyser, err := loadAnalyser([]string{path}, "no_failure")
	require.NoError(t, err)

	analyser, err = runPipeline(analyser, true, true, nil, nil)
	require.NoError(t, err)

	// Grouping merges the two identical runs; the minimal reduction then
	// absorbs the longer run into the shorter scenario.
	require.Equal(t, 1, analyser.NbSequences())
	assert.Equal(t, 3, analyser.Sequences[0].Weight)
	require.Len(t, analyser.Sequences[0].Events, 1)
	assert.Equal(t, "pump1.failure", analyser.Sequences[0].Events[0].Name())
}

func TestRunPipeline_PairFilterAndRename(t *testing.T) {
	analyser := seq.NewAnalyser(seq.NewSequence("system_failure",
		seq.Event{Object: "pump1", Attribute: "start", Kind: "transition"},
		seq.Event{Object: "pump1", Attribute: "stop", Kind: "transition"},
		seq.Event{Object: "valve2", Attribute: "stuck", Kind: "transition"},
	))

	out, err := runPipeline(analyser, false, false,
		[]string{`(\w+)\.start::\1\.stop`},
		[]string{`object::valve(\d+)::actuator\1`})
	require.NoError(t, err)

	require.Equal(t, 1, out.NbSequences())
	require.Len(t, out.Sequences[0].Events, 1)
	assert.Equal(t, "actuator2.stuck", out.Sequences[0].Events[0].Name())
}

func TestRunPipeline_BadFlagSyntax(t *testing.T) {
	analyser := seq.NewAnalyser()

	_, err := runPipeline(analyser, false, false, []string{"no-separator"}, nil)
	assert.ErrorContains(t, err, "--rm-pair")

	_, err = runPipeline(analyser, false, false, nil, []string{"object::only-two"})
	assert.ErrorContains(t, err, "--rename")
}

func TestWriteFlatCSV(t *testing.T) {
	analyser := seq.NewAnalyser(
		&seq.Sequence{TargetName: "system_failure", Weight: 2,
			Events: []seq.Event{seq.NewEvent("pump1", "failure", 2.0, "transition")}},
		&seq.Sequence{TargetName: "no_failure", Weight: 1},
	)
	analyser.UpdateProbabilities()

	path := filepath.Join(t.TempDir(), "flat.csv")
	require.NoError(t, writeFlatCSV(path, analyser.ToFlatTable()))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, []string{
		"seq_idx", "target_name", "probability", "weight", "end_time",
		"event_idx", "event_name", "event_time", "event_obj", "event_type", "event_attr",
	}, records[0])
	assert.Equal(t, []string{
		"0", "system_failure", "0.6666666666666666", "2", "",
		"0", "pump1.failure", "2", "pump1", "transition", "failure",
	}, records[1])

	// The eventless sequence keeps its metadata and empty event columns.
	assert.Equal(t, "no_failure", records[2][1])
	assert.Equal(t, "", records[2][5])
	assert.Equal(t, "", records[2][6])
}
