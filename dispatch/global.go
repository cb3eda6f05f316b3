package dispatch

import (
	"sync/atomic"

	"github.com/godispatch/godispatch/types/keys"
	"github.com/godispatch/godispatch/types/values"
)

// The process-default dispatcher, initialized lazily on first use. Backend
// kernel packages register their operators here; tests can swap it out with
// SetDefault.
var defaultDispatcher atomic.Pointer[Dispatcher]

// Default returns the process-default dispatcher.
func Default() *Dispatcher {
	if d := defaultDispatcher.Load(); d != nil {
		return d
	}
	// First use: install a fresh dispatcher unless another goroutine won.
	d := New()
	if defaultDispatcher.CompareAndSwap(nil, d) {
		return d
	}
	return defaultDispatcher.Load()
}

// SetDefault replaces the process-default dispatcher and returns the
// previous one. Tests use it to run against an isolated registry.
func SetDefault(d *Dispatcher) *Dispatcher {
	return defaultDispatcher.Swap(d)
}

// RegisterOp registers (or finds) an operator on the default dispatcher.
func RegisterOp(name string) *OperatorHandle {
	return Default().RegisterOperator(OpName(name))
}

// RegisterOpOverload registers (or finds) an overloaded operator on the
// default dispatcher.
func RegisterOpOverload(name, overload string) *OperatorHandle {
	return Default().RegisterOperator(OpNameWithOverload(name, overload))
}

// Call dispatches on the default dispatcher, computing the key set from
// args.
func Call(name string, args values.List) (values.List, error) {
	return Default().Call(OpName(name), args)
}

// CallWithKeys dispatches on the default dispatcher with an explicit key
// set.
func CallWithKeys(name string, set keys.Set, args values.List) (values.List, error) {
	return Default().CallWithKeys(OpName(name), set, args)
}
