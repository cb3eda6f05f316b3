// Package dispatch implements the multiple-dispatch runtime: a process-wide
// registry of named operators, each holding a table mapping dispatch keys to
// kernels, and the call entry points that route a list of tagged values to
// the highest-priority matching kernel.
//
// A call crosses one choke point: the dispatcher finds the operator handle,
// the handle computes a key set from the arguments and the dispatch state,
// and the kernel registered on the highest-priority member runs. Kernels
// registered on functionality keys (Autograd, Tracing, Profiling) are
// wrappers: they remove their own key and reenter the dispatcher through the
// explicit-keyset entry point, so wrappers stack outer-to-inner in priority
// order. See package wrappers.
//
// Errors follow two regimes: runtime conditions (unknown operator, no
// matching kernel, arity or type mismatches in boxing) are returned as typed
// errors; contract violations (out-of-range keys) panic with a stack trace
// via github.com/gomlx/exceptions.
package dispatch

import (
	"slices"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"golang.org/x/exp/maps"
	"k8s.io/klog/v2"

	"github.com/godispatch/godispatch/types/keys"
	"github.com/godispatch/godispatch/types/values"
)

// RegistrationCallback is notified on each operator registration
// (registered=true) and deregistration (registered=false). Panics raised by
// callbacks are swallowed so the registry stays consistent.
type RegistrationCallback func(name OperatorName, registered bool)

// Dispatcher owns the operator registry. One registry mutex guards
// registration, deregistration and lookup; call statistics live behind a
// separate mutex so calls do not contend with registry mutations.
type Dispatcher struct {
	state *keys.State

	mu        sync.Mutex
	operators map[OperatorName]*OperatorHandle
	callbacks []RegistrationCallback

	profiling atomic.Bool
	statsMu   sync.Mutex
	stats     map[OperatorName]*CallStats
}

// New creates a Dispatcher bound to the process-default dispatch state.
func New() *Dispatcher {
	return NewWithState(keys.Default())
}

// NewWithState creates a Dispatcher bound to the given dispatch state. Tests
// use this to isolate toggle changes from the process default.
func NewWithState(state *keys.State) *Dispatcher {
	if state == nil {
		state = keys.Default()
	}
	return &Dispatcher{
		state:     state,
		operators: make(map[OperatorName]*OperatorHandle),
		stats:     make(map[OperatorName]*CallStats),
	}
}

// State returns the dispatch state this dispatcher reads functionality keys
// from.
func (d *Dispatcher) State() *keys.State {
	return d.state
}

// RegisterOperator returns the handle for name, creating it on first use.
// Registering an already-registered operator returns the existing handle
// unchanged; registration callbacks fire only on the first insertion.
func (d *Dispatcher) RegisterOperator(name OperatorName) *OperatorHandle {
	d.mu.Lock()
	if handle, ok := d.operators[name]; ok {
		d.mu.Unlock()
		return handle
	}
	handle := newOperatorHandle(name, d.state)
	d.operators[name] = handle
	callbacks := slices.Clone(d.callbacks)
	d.mu.Unlock()

	klog.V(1).Infof("dispatch: registered operator %q", name.FullName())
	notify(callbacks, name, true)
	return handle
}

// FindOperator returns the handle for name, or nil if it is not registered.
func (d *Dispatcher) FindOperator(name OperatorName) *OperatorHandle {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.operators[name]
}

// HasOperator reports whether name is registered.
func (d *Dispatcher) HasOperator(name OperatorName) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.operators[name]
	return ok
}

// DeregisterOperator removes the operator if present; callbacks are notified
// with registered=false. Removing an unknown operator is a no-op.
func (d *Dispatcher) DeregisterOperator(name OperatorName) {
	d.mu.Lock()
	_, ok := d.operators[name]
	if ok {
		delete(d.operators, name)
	}
	callbacks := slices.Clone(d.callbacks)
	d.mu.Unlock()

	if ok {
		klog.V(1).Infof("dispatch: deregistered operator %q", name.FullName())
		notify(callbacks, name, false)
	}
}

// OperatorNames returns the registered operator names, in no particular
// order.
func (d *Dispatcher) OperatorNames() []OperatorName {
	d.mu.Lock()
	defer d.mu.Unlock()
	return maps.Keys(d.operators)
}

// AddRegistrationCallback appends a callback invoked on every subsequent
// register and deregister.
func (d *Dispatcher) AddRegistrationCallback(callback RegistrationCallback) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.callbacks = append(d.callbacks, callback)
}

// Call looks up the operator, computes the dispatch key set from args and
// invokes the selected kernel. Fails with *OperatorNotFoundError for unknown
// operators; kernel errors propagate untouched.
func (d *Dispatcher) Call(name OperatorName, args values.List) (values.List, error) {
	handle := d.FindOperator(name)
	if handle == nil {
		return nil, errors.WithStack(&OperatorNotFoundError{Name: name})
	}
	set := handle.ComputeDispatchKeySet(args)
	result, err := handle.CallWithKeys(set, args)
	if d.profiling.Load() {
		d.recordCall(name, set.HighestPriority())
	}
	return result, err
}

// CallWithKeys is the explicit-keyset entry point: the caller-supplied set is
// used verbatim, nothing is recomputed from args. Functionality wrappers use
// this to redispatch after removing their own key.
func (d *Dispatcher) CallWithKeys(name OperatorName, set keys.Set, args values.List) (values.List, error) {
	handle := d.FindOperator(name)
	if handle == nil {
		return nil, errors.WithStack(&OperatorNotFoundError{Name: name})
	}
	result, err := handle.CallWithKeys(set, args)
	if d.profiling.Load() {
		d.recordCall(name, set.HighestPriority())
	}
	return result, err
}

// Redispatch reenters dispatch for a functionality wrapper: it recomputes the
// key set from args, removes the wrapper's own key together with every key
// that outranks it (those were already peeled off by outer wrappers, or have
// no kernel) and calls through the explicit-keyset entry point. Stripping the
// keys is what bounds the recursion; a wrapper that redispatches without it
// will loop.
func (d *Dispatcher) Redispatch(name OperatorName, strip keys.Key, args values.List) (values.List, error) {
	handle := d.FindOperator(name)
	if handle == nil {
		return nil, errors.WithStack(&OperatorNotFoundError{Name: name})
	}
	set := handle.ComputeDispatchKeySet(args)
	set.Remove(strip)
	for _, k := range set.Keys() {
		if k.Priority() > strip.Priority() {
			break
		}
		set.Remove(k)
	}
	return d.CallWithKeys(name, set, args)
}

// DebugString renders the registry: operator count, per-operator registered
// keys in priority order, and call statistics when profiling is enabled.
func (d *Dispatcher) DebugString() string {
	d.mu.Lock()
	names := maps.Keys(d.operators)
	handles := make(map[OperatorName]*OperatorHandle, len(names))
	for name, handle := range d.operators {
		handles[name] = handle
	}
	d.mu.Unlock()

	sortOperatorNames(names)

	var sb strings.Builder
	sb.WriteString("Dispatcher {\n")
	sb.WriteString("  Registered operators: ")
	sb.WriteString(humanize.Comma(int64(len(names))))
	sb.WriteString("\n")
	for _, name := range names {
		sb.WriteString("  " + name.FullName() + " {\n")
		for _, k := range handles[name].RegisteredKeys() {
			sb.WriteString("    " + k.String() + "\n")
		}
		sb.WriteString("  }\n")
	}

	if d.profiling.Load() {
		sb.WriteString("\n  Call statistics:\n")
		stats := d.CallStats()
		statNames := maps.Keys(stats)
		sortOperatorNames(statNames)
		for _, name := range statNames {
			stat := stats[name]
			sb.WriteString("    " + name.FullName() + ": " +
				humanize.Comma(int64(stat.CallCount)) + " calls\n")
			for _, k := range sortedStatKeys(stat.KeyCounts) {
				sb.WriteString("      " + k.String() + ": " +
					humanize.Comma(int64(stat.KeyCounts[k])) + " times\n")
			}
		}
	}

	sb.WriteString("}")
	return sb.String()
}

func notify(callbacks []RegistrationCallback, name OperatorName, registered bool) {
	for _, callback := range callbacks {
		func() {
			defer func() {
				if r := recover(); r != nil {
					klog.Warningf("dispatch: registration callback panicked for %q: %v",
						name.FullName(), r)
				}
			}()
			callback(name, registered)
		}()
	}
}
