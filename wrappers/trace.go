package wrappers

import (
	"sync"

	"github.com/google/uuid"
	"k8s.io/klog/v2"

	"github.com/godispatch/godispatch/dispatch"
	"github.com/godispatch/godispatch/types/keys"
	"github.com/godispatch/godispatch/types/values"
)

// TraceEvent is one recorded operator call.
type TraceEvent struct {
	// ID tags the trace scope; every invocation of the tracing wrapper
	// records its own event with a fresh ID.
	ID uuid.UUID

	Op   dispatch.OperatorName
	Args string // values.List.DebugString of the inputs

	// NumResults is filled in when the inner call returns; -1 means the
	// inner call failed.
	NumResults int
}

// Trace is the in-memory event log the tracing wrapper appends to. Safe for
// concurrent use.
type Trace struct {
	mu     sync.Mutex
	events []TraceEvent
}

// NewTrace returns an empty trace.
func NewTrace() *Trace {
	return &Trace{}
}

// Events returns a copy of the recorded events in append order.
func (t *Trace) Events() []TraceEvent {
	t.mu.Lock()
	defer t.mu.Unlock()
	events := make([]TraceEvent, len(t.events))
	copy(events, t.events)
	return events
}

// Reset drops all recorded events.
func (t *Trace) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.events = nil
}

func (t *Trace) append(event TraceEvent) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.events = append(t.events, event)
	return len(t.events) - 1
}

func (t *Trace) finish(index, numResults int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.events[index].NumResults = numResults
}

// Tracing returns the tracing wrapper kernel for the named operator, meant
// to be registered on keys.KeyTracing. It opens a uuid-tagged trace scope,
// redispatches with Tracing stripped, and completes the event with the
// result count.
func Tracing(d *dispatch.Dispatcher, name dispatch.OperatorName, trace *Trace) dispatch.KernelFunction {
	return dispatch.NewBoxed(func(args values.List) (values.List, error) {
		event := TraceEvent{
			ID:         uuid.New(),
			Op:         name,
			Args:       args.DebugString(),
			NumResults: -1,
		}
		index := trace.append(event)
		if klog.V(2).Enabled() {
			klog.Infof("trace %s: scope %s opened", name.FullName(), event.ID)
		}

		result, err := d.Redispatch(name, keys.KeyTracing, args)
		if err != nil {
			return nil, err
		}

		trace.finish(index, len(result))
		return result, nil
	})
}
