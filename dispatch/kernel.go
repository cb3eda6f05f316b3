package dispatch

import (
	"github.com/pkg/errors"

	"github.com/godispatch/godispatch/types/values"
)

// Boxed is the uniform kernel calling convention: a list of tagged values in,
// a list of tagged values out. Every kernel, however it was registered, is
// invoked through this signature.
type Boxed func(args values.List) (values.List, error)

// KernelFunction is one slot of an operator's dispatch table. The zero value
// is invalid (no callable); valid ones carry a boxed callable, either
// registered directly or synthesized from a strongly-typed kernel by the
// Func* adapters below.
type KernelFunction struct {
	boxed Boxed
}

// NewBoxed wraps a boxed callable verbatim.
func NewBoxed(fn Boxed) KernelFunction {
	return KernelFunction{boxed: fn}
}

// IsValid reports whether the slot holds a callable.
func (k KernelFunction) IsValid() bool {
	return k.boxed != nil
}

// CallBoxed invokes the kernel. It fails with ErrInvalidKernel on an empty
// slot; errors raised by the kernel propagate unchanged.
func (k KernelFunction) CallBoxed(args values.List) (values.List, error) {
	if !k.IsValid() {
		return nil, errors.WithStack(ErrInvalidKernel)
	}
	return k.boxed(args)
}

func checkArity(expected int, args values.List) error {
	if len(args) != expected {
		return errors.WithStack(&ArityMismatchError{Expected: expected, Got: len(args)})
	}
	return nil
}

// argAt extracts the i-th argument as T, annotating mismatch errors with the
// argument position.
func argAt[T values.Boxable](args values.List, i int) (T, error) {
	v, err := values.To[T](args[i])
	if err != nil {
		return v, errors.WithMessagef(err, "argument %d", i)
	}
	return v, nil
}

// Func1 adapts a strongly-typed single-argument kernel. On invocation the
// adapter validates arity, unboxes the argument, runs the kernel and boxes
// the result into a one-element list.
func Func1[A, R values.Boxable](fn func(A) (R, error)) KernelFunction {
	return NewBoxed(func(args values.List) (values.List, error) {
		if err := checkArity(1, args); err != nil {
			return nil, err
		}
		a, err := argAt[A](args, 0)
		if err != nil {
			return nil, err
		}
		r, err := fn(a)
		if err != nil {
			return nil, err
		}
		return values.List{values.From(r)}, nil
	})
}

// Func2 adapts a strongly-typed two-argument kernel.
func Func2[A, B, R values.Boxable](fn func(A, B) (R, error)) KernelFunction {
	return NewBoxed(func(args values.List) (values.List, error) {
		if err := checkArity(2, args); err != nil {
			return nil, err
		}
		a, err := argAt[A](args, 0)
		if err != nil {
			return nil, err
		}
		b, err := argAt[B](args, 1)
		if err != nil {
			return nil, err
		}
		r, err := fn(a, b)
		if err != nil {
			return nil, err
		}
		return values.List{values.From(r)}, nil
	})
}

// Func3 adapts a strongly-typed three-argument kernel.
func Func3[A, B, C, R values.Boxable](fn func(A, B, C) (R, error)) KernelFunction {
	return NewBoxed(func(args values.List) (values.List, error) {
		if err := checkArity(3, args); err != nil {
			return nil, err
		}
		a, err := argAt[A](args, 0)
		if err != nil {
			return nil, err
		}
		b, err := argAt[B](args, 1)
		if err != nil {
			return nil, err
		}
		c, err := argAt[C](args, 2)
		if err != nil {
			return nil, err
		}
		r, err := fn(a, b, c)
		if err != nil {
			return nil, err
		}
		return values.List{values.From(r)}, nil
	})
}

// Void1 adapts a single-argument kernel with no result: the boxed adapter
// returns the empty list.
func Void1[A values.Boxable](fn func(A) error) KernelFunction {
	return NewBoxed(func(args values.List) (values.List, error) {
		if err := checkArity(1, args); err != nil {
			return nil, err
		}
		a, err := argAt[A](args, 0)
		if err != nil {
			return nil, err
		}
		return nil, fn(a)
	})
}

// Void2 adapts a two-argument kernel with no result.
func Void2[A, B values.Boxable](fn func(A, B) error) KernelFunction {
	return NewBoxed(func(args values.List) (values.List, error) {
		if err := checkArity(2, args); err != nil {
			return nil, err
		}
		a, err := argAt[A](args, 0)
		if err != nil {
			return nil, err
		}
		b, err := argAt[B](args, 1)
		if err != nil {
			return nil, err
		}
		return nil, fn(a, b)
	})
}
