package keys

import "sync/atomic"

// State holds the process-wide toggles that contribute functionality keys to
// every dispatched call. The toggles may flip at runtime; each call reads one
// consistent snapshot but no ordering beyond eventual visibility is implied
// between a toggle write and a concurrent call.
//
// Most code uses the process Default state; tests can allocate their own
// State and inject it where a *State is accepted.
type State struct {
	autograd  atomic.Bool
	tracing   atomic.Bool
	profiling atomic.Bool
}

var defaultState State

// Default returns the process-wide dispatch state.
func Default() *State {
	return &defaultState
}

// SetAutogradEnabled toggles gradient recording for subsequent calls.
func (s *State) SetAutogradEnabled(enabled bool) { s.autograd.Store(enabled) }

// AutogradEnabled reports whether gradient recording is on.
func (s *State) AutogradEnabled() bool { return s.autograd.Load() }

// SetTracingEnabled toggles tracing for subsequent calls.
func (s *State) SetTracingEnabled(enabled bool) { s.tracing.Store(enabled) }

// TracingEnabled reports whether tracing is on.
func (s *State) TracingEnabled() bool { return s.tracing.Load() }

// SetProfilingEnabled toggles profiling for subsequent calls.
func (s *State) SetProfilingEnabled(enabled bool) { s.profiling.Store(enabled) }

// ProfilingEnabled reports whether profiling is on.
func (s *State) ProfilingEnabled() bool { return s.profiling.Load() }

// FunctionalityKeys returns the set holding exactly the functionality keys
// whose toggle is currently on.
func (s *State) FunctionalityKeys() Set {
	var set Set
	if s.AutogradEnabled() {
		set.Add(KeyAutograd)
	}
	if s.TracingEnabled() {
		set.Add(KeyTracing)
	}
	if s.ProfilingEnabled() {
		set.Add(KeyProfiling)
	}
	return set
}

// Reset turns every toggle off. Meant for tests sharing the Default state.
func (s *State) Reset() {
	s.SetAutogradEnabled(false)
	s.SetTracingEnabled(false)
	s.SetProfilingEnabled(false)
}
