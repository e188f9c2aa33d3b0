package cmd

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/relseq/relseq/seq"
)

var (
	defaultTarget string   // Classification for runs without a terminal cause
	groupRuns     bool     // Merge sequences sharing a target and signature
	minimalRuns   bool     // Reduce each target to its minimal sequences
	rmPairs       []string // openPattern::closePattern event pair filters
	renames       []string // field::sourcePattern::targetPattern renames
	flatCSVPath   string   // Optional flat-table CSV output
)

// analyzeCmd loads raw simulation runs and reduces them into weighted
// failure scenarios.
var analyzeCmd = &cobra.Command{
	Use:   "analyze [run files...]",
	Short: "Reduce raw simulation runs into weighted failure scenarios",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		analyser, err := loadAnalyser(args, defaultTarget)
		if err != nil {
			return err
		}
		logrus.Infof("loaded %d sequences (total weight %d) from %d files",
			analyser.NbSequences(), analyser.WeightTotal(), len(args))

		analyser, err = runPipeline(analyser, groupRuns, minimalRuns, rmPairs, renames)
		if err != nil {
			return err
		}

		fmt.Print(analyser.String())

		if flatCSVPath != "" {
			if err := writeFlatCSV(flatCSVPath, analyser.ToFlatTable()); err != nil {
				return err
			}
			logrus.Infof("flat table written to %s", flatCSVPath)
		}
		return nil
	},
}

// loadAnalyser reads raw-run JSON files concurrently and adapts every run
// into a weight-1 sequence, preserving the input file order.
func loadAnalyser(paths []string, defaultTarget string) (*seq.Analyser, error) {
	perFile := make([][]*seq.Sequence, len(paths))
	var g errgroup.Group
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			runs, err := seq.LoadRawRunsFile(path)
			if err != nil {
				return err
			}
			sequences := make([]*seq.Sequence, 0, len(runs))
			for _, run := range runs {
				sequences = append(sequences, seq.FromRawTrace(run, defaultTarget))
			}
			perFile[i] = sequences
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	analyser := seq.NewAnalyser()
	for _, sequences := range perFile {
		analyser.Add(sequences...)
	}
	return analyser, nil
}

// runPipeline applies the requested reductions in a fixed order:
// group, pair filters, renames, minimal reduction.
func runPipeline(analyser *seq.Analyser, group, minimal bool, pairFilters, renameSpecs []string) (*seq.Analyser, error) {
	if group {
		analyser.GroupSequences(true)
	}
	for _, pair := range pairFilters {
		openPat, closePat, ok := strings.Cut(pair, "::")
		if !ok {
			return nil, fmt.Errorf("invalid --rm-pair %q (want openPattern::closePattern)", pair)
		}
		if _, err := analyser.RemoveOrderedEventPairPattern(openPat, closePat, true); err != nil {
			return nil, err
		}
	}
	for _, spec := range renameSpecs {
		parts := strings.SplitN(spec, "::", 3)
		if len(parts) != 3 {
			return nil, fmt.Errorf("invalid --rename %q (want field::sourcePattern::targetPattern)", spec)
		}
		if _, err := analyser.RenameEvents(parts[0], parts[1], parts[2], true); err != nil {
			return nil, err
		}
	}
	if minimal {
		analyser.ComputeMinimalSequences(true)
	}
	return analyser, nil
}

// writeFlatCSV hands the flat table to a CSV file, one row per
// (sequence, event) pair. Nil fields stay empty.
func writeFlatCSV(path string, rows []seq.FlatRow) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating flat table file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := []string{
		"seq_idx", "target_name", "probability", "weight", "end_time",
		"event_idx", "event_name", "event_time", "event_obj", "event_type", "event_attr",
	}
	if err := w.Write(header); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}
	for _, row := range rows {
		record := []string{
			strconv.Itoa(row.SeqIndex),
			row.TargetName,
			formatFloat(row.Probability),
			strconv.Itoa(row.Weight),
			formatFloat(row.EndTime),
			formatInt(row.EventIndex),
			formatString(row.EventName),
			formatFloat(row.EventTime),
			formatString(row.EventObject),
			formatString(row.EventKind),
			formatString(row.EventAttribute),
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("writing CSV row %d: %w", row.SeqIndex, err)
		}
	}
	w.Flush()
	return w.Error()
}

func formatFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'g', -1, 64)
}

func formatInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func formatString(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

// init sets up analyze flags and attaches the subcommand
func init() {
	analyzeCmd.Flags().StringVar(&defaultTarget, "target-default", "", "Target assigned to runs without a terminal cause")
	analyzeCmd.Flags().BoolVar(&groupRuns, "group", false, "Merge sequences sharing a target and event signature")
	analyzeCmd.Flags().BoolVar(&minimalRuns, "minimal", false, "Reduce each target to its minimal sequences")
	analyzeCmd.Flags().StringArrayVar(&rmPairs, "rm-pair", nil, "Event pair filter openPattern::closePattern (repeatable)")
	analyzeCmd.Flags().StringArrayVar(&renames, "rename", nil, "Event rename field::sourcePattern::targetPattern (repeatable)")
	analyzeCmd.Flags().StringVar(&flatCSVPath, "flat-csv", "", "Write the flat event table to this CSV file")

	rootCmd.AddCommand(analyzeCmd)
}
