// Package kernels implements the metadata-level backend kernels for the
// standard operators: they validate input shapes and produce output tensors
// with the inferred shape on their backend, leaving the numerical work to
// the real backend libraries outside this module. Sub-packages cpu and cuda
// register the set on their backend key.
package kernels

import (
	"github.com/gomlx/exceptions"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"

	"github.com/godispatch/godispatch/dispatch"
	"github.com/godispatch/godispatch/types/keys"
	"github.com/godispatch/godispatch/types/tensors"
)

// StandardOps lists the operator names RegisterStandardOps installs.
var StandardOps = []string{"add", "mul", "matmul", "cat", "sum", "zeros"}

// RegisterStandardOps registers the standard metadata kernels on the given
// backend key. Calling it again for the same backend replaces the kernels.
func RegisterStandardOps(d *dispatch.Dispatcher, backend keys.Key) {
	if !backend.IsBackend() {
		exceptions.Panicf("RegisterStandardOps: %s is not a backend key", backend)
	}
	newTensor := func(sizes []int64) *tensors.Tensor { return tensors.New(backend, sizes...) }

	elementwise := func(a, b *tensors.Tensor) (*tensors.Tensor, error) {
		if err := sameShape(a, b); err != nil {
			return nil, err
		}
		return newTensor(a.Sizes()), nil
	}

	d.RegisterOperator(dispatch.OpName("add")).SetKernel(backend, dispatch.Func2(elementwise))
	d.RegisterOperator(dispatch.OpName("mul")).SetKernel(backend, dispatch.Func2(elementwise))

	d.RegisterOperator(dispatch.OpName("matmul")).SetKernel(backend,
		dispatch.Func2(func(a, b *tensors.Tensor) (*tensors.Tensor, error) {
			sizes, err := matmulShape(a, b)
			if err != nil {
				return nil, err
			}
			return newTensor(sizes), nil
		}))

	d.RegisterOperator(dispatch.OpName("cat")).SetKernel(backend,
		dispatch.Func2(func(ts []*tensors.Tensor, dim int64) (*tensors.Tensor, error) {
			sizes, err := catShape(ts, dim)
			if err != nil {
				return nil, err
			}
			return newTensor(sizes), nil
		}))

	d.RegisterOperator(dispatch.OpName("sum")).SetKernel(backend,
		dispatch.Func1(func(a *tensors.Tensor) (*tensors.Tensor, error) {
			return newTensor(nil), nil
		}))

	// zeros has no tensor inputs, so its key set never carries a backend
	// key on its own: callers select the backend through the
	// explicit-keyset entry point.
	d.RegisterOperator(dispatch.OpName("zeros")).SetKernel(backend,
		dispatch.Func1(func(sizes []int64) (*tensors.Tensor, error) {
			return newTensor(sizes), nil
		}))

	klog.V(1).Infof("kernels: registered standard ops on %s", backend)
}

func sameShape(a, b *tensors.Tensor) error {
	aSizes, bSizes := a.Sizes(), b.Sizes()
	if len(aSizes) != len(bSizes) {
		return errors.Errorf("shape mismatch: %s vs %s", a.DebugString(), b.DebugString())
	}
	for i := range aSizes {
		if aSizes[i] != bSizes[i] {
			return errors.Errorf("shape mismatch: %s vs %s", a.DebugString(), b.DebugString())
		}
	}
	return nil
}

func matmulShape(a, b *tensors.Tensor) ([]int64, error) {
	if a.Dim() != 2 || b.Dim() != 2 {
		return nil, errors.Errorf("matmul requires rank-2 tensors, got %s and %s",
			a.DebugString(), b.DebugString())
	}
	aSizes, bSizes := a.Sizes(), b.Sizes()
	if aSizes[1] != bSizes[0] {
		return nil, errors.Errorf("matmul inner dimensions differ: %d vs %d", aSizes[1], bSizes[0])
	}
	return []int64{aSizes[0], bSizes[1]}, nil
}

func catShape(ts []*tensors.Tensor, dim int64) ([]int64, error) {
	if len(ts) == 0 {
		return nil, errors.Errorf("cat requires at least one tensor")
	}
	first := ts[0].Sizes()
	if dim < 0 || dim >= int64(len(first)) {
		return nil, errors.Errorf("cat dimension %d out of range for rank %d", dim, len(first))
	}
	result := ts[0].Sizes()
	for _, t := range ts[1:] {
		sizes := t.Sizes()
		if len(sizes) != len(first) {
			return nil, errors.Errorf("cat rank mismatch: %d vs %d", len(sizes), len(first))
		}
		for i := range sizes {
			if int64(i) != dim && sizes[i] != first[i] {
				return nil, errors.Errorf("cat shape mismatch on dimension %d: %d vs %d",
					i, sizes[i], first[i])
			}
		}
		result[dim] += sizes[dim]
	}
	return result, nil
}
