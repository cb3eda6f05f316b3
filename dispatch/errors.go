package dispatch

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/godispatch/godispatch/types/keys"
)

// ErrInvalidKernel is returned by KernelFunction.CallBoxed on a kernel slot
// that holds no callable.
var ErrInvalidKernel = errors.New("call to invalid kernel function")

// OperatorNotFoundError reports a dispatcher call for an operator that was
// never registered.
type OperatorNotFoundError struct {
	Name OperatorName
}

func (e *OperatorNotFoundError) Error() string {
	return fmt.Sprintf("operator %q is not registered", e.Name.FullName())
}

// NoKernelFoundError reports that no registered kernel matched the call's
// key set and no CatchAll fallback was registered.
type NoKernelFoundError struct {
	Name OperatorName
	Keys keys.Set
}

func (e *NoKernelFoundError) Error() string {
	return fmt.Sprintf("no kernel found for operator %q with dispatch key set %s",
		e.Name.FullName(), e.Keys)
}

// ArityMismatchError reports a boxing adapter invoked with the wrong number
// of arguments.
type ArityMismatchError struct {
	Expected, Got int
}

func (e *ArityMismatchError) Error() string {
	return fmt.Sprintf("arity mismatch: kernel takes %d arguments, got %d", e.Expected, e.Got)
}
