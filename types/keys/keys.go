// Package keys defines the dispatch keys and dispatch key sets that route
// every operator call, plus the process-wide dispatch state that contributes
// functionality keys to calls.
//
// A Key identifies one axis along which a call can be routed: either a
// backend (where the computation runs) or a functionality (a cross-cutting
// wrapper such as autograd that re-dispatches after peeling itself off).
// A Set is a compact bitset of keys; enumerating a Set always yields keys in
// priority order, functionality keys first.
package keys

import "github.com/gomlx/exceptions"

// Key is one dispatch axis. The enum is closed: KeyNumKeys is a sentinel
// bounding the count and is not a valid key.
type Key uint8

//go:generate go tool enumer -type=Key -trimprefix=Key -output=gen_key_enumer.go keys.go

const (
	// Backend keys: where the computation runs.
	KeyCPU Key = iota
	KeyCUDA

	// Functionality keys: cross-cutting wrappers that re-dispatch after
	// removing themselves from the key set.
	KeyAutograd
	KeyTracing
	KeyProfiling

	// Special keys.
	KeyUndefined
	KeyCatchAll

	// KeyNumKeys should always be kept last, it is used as a counter/marker
	// for Key.
	KeyNumKeys
)

// Key priorities. A lower number wins: functionality wrappers run before
// backend kernels, CatchAll is the fallback of last resort and Undefined is
// never preferred over anything.
const (
	priorityAutograd  = 0
	priorityTracing   = 1
	priorityProfiling = 2
	priorityCPU       = 10
	priorityCUDA      = 11
	priorityCatchAll  = 100
	priorityUndefined = 255
)

var keyPriorities = [KeyNumKeys]uint8{
	KeyCPU:       priorityCPU,
	KeyCUDA:      priorityCUDA,
	KeyAutograd:  priorityAutograd,
	KeyTracing:   priorityTracing,
	KeyProfiling: priorityProfiling,
	KeyUndefined: priorityUndefined,
	KeyCatchAll:  priorityCatchAll,
}

// keysByPriority lists every key in ascending priority number, so
// Set.Keys and Set.HighestPriority are a single scan.
var keysByPriority = [KeyNumKeys]Key{
	KeyAutograd, KeyTracing, KeyProfiling,
	KeyCPU, KeyCUDA,
	KeyCatchAll, KeyUndefined,
}

// Priority returns the key's dispatch priority. Lower numbers are selected
// first.
func (k Key) Priority() uint8 {
	checkValid(k)
	return keyPriorities[k]
}

// IsBackend reports whether k designates a backend (CPU, CUDA).
func (k Key) IsBackend() bool {
	return k == KeyCPU || k == KeyCUDA
}

// IsFunctionality reports whether k designates a functionality wrapper
// (Autograd, Tracing, Profiling).
func (k Key) IsFunctionality() bool {
	return k == KeyAutograd || k == KeyTracing || k == KeyProfiling
}

func checkValid(k Key) {
	if k >= KeyNumKeys {
		exceptions.Panicf("invalid dispatch key Key(%d), valid keys are < %d", k, KeyNumKeys)
	}
}
