// Package seq provides the event-sequence data model and trace-reduction
// engine for stochastic reliability studies.
//
// # Reading Guide
//
// Start with these three files to understand the reduction engine:
//   - event.go: Event value type (object/attribute/kind observation) and field renaming
//   - sequence.go: Sequence (one weighted simulated history), subsequence inclusion,
//     and ordered event-pair removal
//   - analyser.go: the Analyser collection and its reduction algorithms (grouping,
//     minimal-set computation, collection-wide filtering and renaming)
//
// # Architecture
//
// The package holds pure data types and in-memory algorithms only. Simulation
// backends produce raw histories; rawtrace.go adapts them into Sequences. The
// flat table in flat.go is the hand-off surface for tabular collaborators.
// Nothing here schedules, blocks, or talks to the network.
//
// Every transformation comes in an in-place and a copying flavor: the copying
// flavor returns an independent Analyser or Sequence that shares no Event or
// Sequence values with its receiver, so functional pipelines
// (filter → group → minimal-reduce) are safe from accidental aliasing.
package seq
