package dispatch

import (
	"strings"
	"sync"

	"github.com/gomlx/exceptions"
	"k8s.io/klog/v2"

	"github.com/godispatch/godispatch/types/keys"
	"github.com/godispatch/godispatch/types/tensors"
	"github.com/godispatch/godispatch/types/values"
)

// OperatorName identifies an operator: a base name plus an optional overload
// name. It is comparable and usable as a map key.
type OperatorName struct {
	Name     string
	Overload string
}

// OpName builds an OperatorName without an overload.
func OpName(name string) OperatorName {
	return OperatorName{Name: name}
}

// OpNameWithOverload builds an OperatorName with an overload.
func OpNameWithOverload(name, overload string) OperatorName {
	return OperatorName{Name: name, Overload: overload}
}

// FullName returns "name.overload", or just "name" when there is no
// overload.
func (n OperatorName) FullName() string {
	if n.Overload == "" {
		return n.Name
	}
	return n.Name + "." + n.Overload
}

// String implements fmt.Stringer.
func (n OperatorName) String() string { return n.FullName() }

// OperatorHandle holds one operator's dispatch table: a dense array with one
// kernel slot per dispatch key. Handles are created and owned by a
// Dispatcher; kernels may be added or removed at any time, including between
// calls.
type OperatorHandle struct {
	name  OperatorName
	state *keys.State

	mu    sync.RWMutex
	table [keys.KeyNumKeys]KernelFunction
}

func newOperatorHandle(name OperatorName, state *keys.State) *OperatorHandle {
	return &OperatorHandle{name: name, state: state}
}

// Name returns the operator's name.
func (h *OperatorHandle) Name() OperatorName {
	return h.name
}

// SetKernel inserts or replaces the kernel for the given key.
func (h *OperatorHandle) SetKernel(key keys.Key, kernel KernelFunction) {
	checkTableKey(key)
	h.mu.Lock()
	defer h.mu.Unlock()
	h.table[key] = kernel
}

// RemoveKernel removes the kernel for the given key, if any.
func (h *OperatorHandle) RemoveKernel(key keys.Key) {
	checkTableKey(key)
	h.mu.Lock()
	defer h.mu.Unlock()
	h.table[key] = KernelFunction{}
}

// HasKernel reports whether a kernel is registered for the given key.
func (h *OperatorHandle) HasKernel(key keys.Key) bool {
	checkTableKey(key)
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.table[key].IsValid()
}

// FindKernel selects the kernel for a key set: the first member, in priority
// order, with a registered kernel wins; failing that, a registered CatchAll
// kernel is the fallback. The selected key and found=false on a miss are
// also returned.
func (h *OperatorHandle) FindKernel(set keys.Set) (kernel KernelFunction, key keys.Key, found bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, k := range set.Keys() {
		if h.table[k].IsValid() {
			return h.table[k], k, true
		}
	}
	if h.table[keys.KeyCatchAll].IsValid() {
		return h.table[keys.KeyCatchAll], keys.KeyCatchAll, true
	}
	return KernelFunction{}, keys.KeyUndefined, false
}

// ComputeDispatchKeySet builds the key set for a call: the union of the key
// sets of every tensor argument (Tensor values and TensorList values,
// flattened in order); with no tensor arguments the state's functionality
// keys are used instead.
func (h *OperatorHandle) ComputeDispatchKeySet(args values.List) keys.Set {
	return tensors.UnionKeySet(args.Tensors(), h.state)
}

// CallWithKeys selects a kernel by the given key set and invokes it. It
// fails with *NoKernelFoundError when nothing matches.
func (h *OperatorHandle) CallWithKeys(set keys.Set, args values.List) (values.List, error) {
	kernel, key, found := h.FindKernel(set)
	if !found {
		return nil, &NoKernelFoundError{Name: h.name, Keys: set}
	}
	if klog.V(2).Enabled() {
		klog.Infof("dispatch %s: key set %s selected %s", h.name.FullName(), set, key)
	}
	return kernel.CallBoxed(args)
}

// Call computes the key set from args and dispatches.
func (h *OperatorHandle) Call(args values.List) (values.List, error) {
	return h.CallWithKeys(h.ComputeDispatchKeySet(args), args)
}

// RegisteredKeys returns the keys with a registered kernel, in priority
// order.
func (h *OperatorHandle) RegisteredKeys() []keys.Key {
	h.mu.RLock()
	defer h.mu.RUnlock()
	var set keys.Set
	for k := keys.Key(0); k < keys.KeyNumKeys; k++ {
		if h.table[k].IsValid() {
			set.Add(k)
		}
	}
	return set.Keys()
}

// DebugString lists the registered keys in priority order.
func (h *OperatorHandle) DebugString() string {
	var sb strings.Builder
	sb.WriteString("OperatorHandle(" + h.name.FullName() + ") {\n")
	for _, k := range h.RegisteredKeys() {
		sb.WriteString("  " + k.String() + ": registered\n")
	}
	sb.WriteString("}")
	return sb.String()
}

func checkTableKey(key keys.Key) {
	if key >= keys.KeyNumKeys {
		exceptions.Panicf("dispatch key Key(%d) out of range for dispatch table", key)
	}
}
