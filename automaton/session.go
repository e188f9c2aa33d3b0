package automaton

import "fmt"

// Session holds the live backend handles of one simulation run alongside a
// validated automaton. Handles are opaque, non-owned references into the
// backend's object graph and are scoped to the session's lifetime; the
// automaton itself stays fully valid and inspectable without any session.
type Session struct {
	automaton         *Automaton
	stateHandles      map[string]any
	transitionHandles map[string]any
}

// NewSession opens a handle scope over a validated automaton.
func NewSession(a *Automaton) *Session {
	return &Session{
		automaton:         a,
		stateHandles:      make(map[string]any),
		transitionHandles: make(map[string]any),
	}
}

// BindState attaches a backend handle to a state of the automaton.
func (s *Session) BindState(name string, handle any) error {
	if _, err := s.automaton.StateByName(name); err != nil {
		return fmt.Errorf("binding state handle: %w", err)
	}
	s.stateHandles[name] = handle
	return nil
}

// BindTransition attaches a backend handle to a transition of the automaton.
func (s *Session) BindTransition(name string, handle any) error {
	if _, err := s.automaton.TransitionByName(name); err != nil {
		return fmt.Errorf("binding transition handle: %w", err)
	}
	s.transitionHandles[name] = handle
	return nil
}

// StateHandle returns the handle bound to a state, if any.
func (s *Session) StateHandle(name string) (any, bool) {
	h, ok := s.stateHandles[name]
	return h, ok
}

// TransitionHandle returns the handle bound to a transition, if any.
func (s *Session) TransitionHandle(name string) (any, bool) {
	h, ok := s.transitionHandles[name]
	return h, ok
}

// Release drops every bound handle. The automaton is untouched.
func (s *Session) Release() {
	s.stateHandles = make(map[string]any)
	s.transitionHandles = make(map[string]any)
}
