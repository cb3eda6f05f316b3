// Package tensors provides the metadata-only tensor entity that dispatch
// routes on: an ordered list of dimension sizes, the backend key where the
// tensor lives, and whether it participates in gradient recording.
//
// Tensors are shared by reference: copying a *Tensor aliases the same
// metadata, and flipping requires-grad is observed by every holder. A tensor
// must not be mutated concurrently with a call that reads its key set.
package tensors

import (
	"fmt"
	"slices"
	"strings"

	"github.com/gomlx/exceptions"

	"github.com/godispatch/godispatch/types/keys"
)

// Tensor holds the dispatch-relevant metadata of a tensor.
type Tensor struct {
	sizes        []int64
	backendKey   keys.Key
	requiresGrad bool
}

// New creates a tensor on the given backend key with the given dimension
// sizes. It panics if backendKey is not a backend key (CPU, CUDA).
func New(backendKey keys.Key, sizes ...int64) *Tensor {
	if !backendKey.IsBackend() {
		exceptions.Panicf("tensors.New: %s is not a backend dispatch key", backendKey)
	}
	return &Tensor{
		sizes:      slices.Clone(sizes),
		backendKey: backendKey,
	}
}

// CPU creates a CPU tensor with the given dimension sizes.
func CPU(sizes ...int64) *Tensor {
	return New(keys.KeyCPU, sizes...)
}

// CUDA creates a CUDA tensor with the given dimension sizes.
func CUDA(sizes ...int64) *Tensor {
	return New(keys.KeyCUDA, sizes...)
}

// Sizes returns a copy of the tensor's dimension sizes.
func (t *Tensor) Sizes() []int64 {
	return slices.Clone(t.sizes)
}

// Dim returns the number of dimensions.
func (t *Tensor) Dim() int {
	return len(t.sizes)
}

// Numel returns the total number of elements, 0 for a zero-dimensional
// tensor.
func (t *Tensor) Numel() int64 {
	if len(t.sizes) == 0 {
		return 0
	}
	n := int64(1)
	for _, size := range t.sizes {
		n *= size
	}
	return n
}

// BackendKey returns the backend key where the tensor lives.
func (t *Tensor) BackendKey() keys.Key {
	return t.backendKey
}

// IsCPU reports whether the tensor lives on CPU.
func (t *Tensor) IsCPU() bool { return t.backendKey == keys.KeyCPU }

// IsCUDA reports whether the tensor lives on CUDA.
func (t *Tensor) IsCUDA() bool { return t.backendKey == keys.KeyCUDA }

// SetRequiresGrad marks whether the tensor participates in gradient
// recording. Visible to every holder of the tensor. Must not race with a
// call dispatching on this tensor.
func (t *Tensor) SetRequiresGrad(requiresGrad bool) {
	t.requiresGrad = requiresGrad
}

// RequiresGrad reports whether the tensor participates in gradient recording.
func (t *Tensor) RequiresGrad() bool {
	return t.requiresGrad
}

// KeySet computes the dispatch key set this tensor contributes to a call:
// its backend key, Autograd if it requires grad, plus the functionality keys
// of the given state. A nil state means the process default.
func (t *Tensor) KeySet(state *keys.State) keys.Set {
	if state == nil {
		state = keys.Default()
	}
	set := keys.NewSet(t.backendKey)
	if t.requiresGrad {
		set.Add(keys.KeyAutograd)
	}
	set.UnionWith(state.FunctionalityKeys())
	return set
}

// Clone returns a new tensor with copied metadata. The clone carries the
// requires-grad flag but is otherwise independent.
func (t *Tensor) Clone() *Tensor {
	clone := New(t.backendKey, t.sizes...)
	clone.requiresGrad = t.requiresGrad
	return clone
}

// DebugString renders the tensor metadata, e.g.
// "shape=[2, 3], backend=CPU, requires_grad=true".
func (t *Tensor) DebugString() string {
	var sb strings.Builder
	sb.WriteString("shape=[")
	for i, size := range t.sizes {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%d", size)
	}
	sb.WriteString("], backend=")
	sb.WriteString(t.backendKey.String())
	if t.requiresGrad {
		sb.WriteString(", requires_grad=true")
	}
	return sb.String()
}

// UnionKeySet computes the union of the key sets of the given tensors. If no
// tensors are given (or all are nil) it falls back to the functionality keys
// of the state, so calls without tensor arguments still route through the
// enabled wrappers. A nil state means the process default.
func UnionKeySet(ts []*Tensor, state *keys.State) keys.Set {
	if state == nil {
		state = keys.Default()
	}
	var set keys.Set
	for _, t := range ts {
		if t == nil {
			continue
		}
		set.UnionWith(t.KeySet(state))
	}
	if set.IsEmpty() {
		set = state.FunctionalityKeys()
	}
	return set
}
