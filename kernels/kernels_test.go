package kernels_test

import (
	"testing"

	"github.com/janpfeifer/must"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/godispatch/godispatch/dispatch"
	"github.com/godispatch/godispatch/kernels"
	"github.com/godispatch/godispatch/kernels/cpu"
	"github.com/godispatch/godispatch/kernels/cuda"
	"github.com/godispatch/godispatch/types/keys"
	"github.com/godispatch/godispatch/types/tensors"
	"github.com/godispatch/godispatch/types/values"
	"github.com/godispatch/godispatch/wrappers"
)

func newBackendDispatcher(t *testing.T) *dispatch.Dispatcher {
	t.Helper()
	d := dispatch.NewWithState(&keys.State{})
	cpu.Register(d)
	cuda.Register(d)
	return d
}

func resultTensor(t *testing.T, out values.List, err error) *tensors.Tensor {
	t.Helper()
	require.NoError(t, err)
	require.Len(t, out, 1)
	result, err := out[0].ToTensor()
	require.NoError(t, err)
	return result
}

func TestStandardOpsRegistered(t *testing.T) {
	d := newBackendDispatcher(t)
	for _, op := range kernels.StandardOps {
		h := d.FindOperator(dispatch.OpName(op))
		require.NotNil(t, h, "operator %s", op)
		assert.True(t, h.HasKernel(keys.KeyCPU), "operator %s on CPU", op)
		assert.True(t, h.HasKernel(keys.KeyCUDA), "operator %s on CUDA", op)
	}
}

func TestAddSelectsBackend(t *testing.T) {
	d := newBackendDispatcher(t)

	a, b := tensors.CPU(2, 3), tensors.CPU(2, 3)
	out, err := d.Call(dispatch.OpName("add"),
		values.List{values.NewTensor(a), values.NewTensor(b)})
	result := resultTensor(t, out, err)
	assert.True(t, result.IsCPU())
	assert.Equal(t, []int64{2, 3}, result.Sizes())

	c, e := tensors.CUDA(4), tensors.CUDA(4)
	out, err = d.Call(dispatch.OpName("mul"),
		values.List{values.NewTensor(c), values.NewTensor(e)})
	result = resultTensor(t, out, err)
	assert.True(t, result.IsCUDA())
}

func TestAddShapeMismatchPropagates(t *testing.T) {
	d := newBackendDispatcher(t)
	a, b := tensors.CPU(2, 3), tensors.CPU(3, 2)
	_, err := d.Call(dispatch.OpName("add"),
		values.List{values.NewTensor(a), values.NewTensor(b)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "shape mismatch")
}

func TestMatmul(t *testing.T) {
	d := newBackendDispatcher(t)
	a, b := tensors.CPU(2, 3), tensors.CPU(3, 5)
	out, err := d.Call(dispatch.OpName("matmul"),
		values.List{values.NewTensor(a), values.NewTensor(b)})
	result := resultTensor(t, out, err)
	assert.Equal(t, []int64{2, 5}, result.Sizes())

	_, err = d.Call(dispatch.OpName("matmul"),
		values.List{values.NewTensor(a), values.NewTensor(tensors.CPU(4, 5))})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "inner dimensions differ")
}

func TestCatFlattensTensorList(t *testing.T) {
	d := newBackendDispatcher(t)
	ts := []*tensors.Tensor{tensors.CPU(2, 3), tensors.CPU(4, 3)}
	out, err := d.Call(dispatch.OpName("cat"),
		values.List{values.NewTensorList(ts), values.NewInt(0)})
	result := resultTensor(t, out, err)
	assert.Equal(t, []int64{6, 3}, result.Sizes())
	assert.True(t, result.IsCPU())

	_, err = d.Call(dispatch.OpName("cat"),
		values.List{values.NewTensorList(ts), values.NewInt(1)})
	require.Error(t, err, "non-cat dimensions must agree")
}

func TestSumToScalar(t *testing.T) {
	d := newBackendDispatcher(t)
	out, err := d.Call(dispatch.OpName("sum"),
		values.List{values.NewTensor(tensors.CUDA(2, 3))})
	result := resultTensor(t, out, err)
	assert.True(t, result.IsCUDA())
	assert.Equal(t, 0, result.Dim())
}

func TestZerosNeedsExplicitBackend(t *testing.T) {
	d := newBackendDispatcher(t)
	sizes := values.NewIntList([]int64{4, 4})

	// No tensor inputs: the computed key set is empty and no backend kernel
	// matches.
	_, err := d.Call(dispatch.OpName("zeros"), values.List{sizes})
	require.Error(t, err)

	out, err := d.CallWithKeys(dispatch.OpName("zeros"),
		keys.NewSet(keys.KeyCUDA), values.List{sizes})
	result := resultTensor(t, out, err)
	assert.True(t, result.IsCUDA())
	assert.Equal(t, []int64{4, 4}, result.Sizes())
}

func TestMixedBackendsPreferCPU(t *testing.T) {
	d := newBackendDispatcher(t)
	a, b := tensors.CPU(2), tensors.CUDA(2)
	// Both backend keys in the set: CPU has the higher priority.
	out, err := d.Call(dispatch.OpName("add"),
		values.List{values.NewTensor(a), values.NewTensor(b)})
	result := resultTensor(t, out, err)
	assert.True(t, result.IsCPU())
}

func TestDefaultDispatcherHasKernels(t *testing.T) {
	// The cpu and cuda package inits registered on the default dispatcher.
	h := dispatch.Default().FindOperator(dispatch.OpName("add"))
	require.NotNil(t, h)
	assert.True(t, h.HasKernel(keys.KeyCPU))
	assert.True(t, h.HasKernel(keys.KeyCUDA))
}

// End-to-end: backend kernels plus the autograd wrapper, as a user would
// assemble them.
func TestEndToEndWithAutograd(t *testing.T) {
	state := &keys.State{}
	d := dispatch.NewWithState(state)
	cpu.Register(d)
	name := dispatch.OpName("add")
	d.FindOperator(name).SetKernel(keys.KeyAutograd, wrappers.Autograd(d, name))
	d.EnableProfiling(true)

	a, b := tensors.CPU(2, 3), tensors.CPU(2, 3)
	a.SetRequiresGrad(true)

	out, err := d.Call(name,
		values.List{values.NewTensor(a), values.NewTensor(b)})
	result := resultTensor(t, out, err)
	assert.True(t, result.RequiresGrad())

	stats := d.CallStats()
	// Outer call counted on Autograd, inner redispatch on CPU.
	assert.Equal(t, uint64(2), stats[name].CallCount)
	assert.Equal(t, uint64(1), stats[name].KeyCounts[keys.KeyAutograd])
	assert.Equal(t, uint64(1), stats[name].KeyCounts[keys.KeyCPU])

	// must.M1 keeps the plumbing terse where the call cannot fail.
	out = must.M1(d.Call(name, values.List{values.NewTensor(b), values.NewTensor(b)}))
	require.Len(t, out, 1)
}
