// Package automaton defines the structural model of probabilistic state
// machines: named states, one initial state, and transitions carrying an
// occurrence law, an optional guard condition, one or more
// probability-weighted targets, and an interruptibility flag.
//
// Construction is two-phase: structural validation (state uniqueness,
// init-state membership, resolvable endpoints) followed by normalization of
// branch probabilities. Both phases fail fast — an automaton either comes
// out fully valid or not at all, because a malformed model is never safe to
// simulate.
//
// Occurrence laws are pure parameter holders; evaluating them against a live
// simulation clock is the external backend's job. Live backend handles
// attach through a Session and live beside the domain values, never inside
// them, so a parsed automaton is fully inspectable before any run.
package automaton
