package dispatch

import (
	"fmt"
	"sync"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/godispatch/godispatch/types/keys"
	"github.com/godispatch/godispatch/types/tensors"
	"github.com/godispatch/godispatch/types/values"
)

func newTestDispatcher() *Dispatcher {
	return NewWithState(&keys.State{})
}

func TestRegisterIsIdempotent(t *testing.T) {
	d := newTestDispatcher()
	var events []string
	d.AddRegistrationCallback(func(name OperatorName, registered bool) {
		events = append(events, fmt.Sprintf("%s=%t", name.FullName(), registered))
	})

	h1 := d.RegisterOperator(OpName("add"))
	h2 := d.RegisterOperator(OpName("add"))
	assert.Same(t, h1, h2, "re-registration returns the existing handle")
	assert.Equal(t, []string{"add=true"}, events, "callback fires exactly once")

	require.True(t, d.HasOperator(OpName("add")))
	assert.Same(t, h1, d.FindOperator(OpName("add")))

	d.DeregisterOperator(OpName("add"))
	assert.False(t, d.HasOperator(OpName("add")))
	assert.Nil(t, d.FindOperator(OpName("add")))
	assert.Equal(t, []string{"add=true", "add=false"}, events)

	// Deregistering an unknown name notifies nobody.
	d.DeregisterOperator(OpName("add"))
	assert.Equal(t, []string{"add=true", "add=false"}, events)
}

func TestCallbackPanicIsSwallowed(t *testing.T) {
	d := newTestDispatcher()
	called := false
	d.AddRegistrationCallback(func(OperatorName, bool) { panic("callback bug") })
	d.AddRegistrationCallback(func(OperatorName, bool) { called = true })

	require.NotPanics(t, func() { d.RegisterOperator(OpName("add")) })
	assert.True(t, called, "later callbacks still run")
	assert.True(t, d.HasOperator(OpName("add")))
}

func TestOperatorNamesUnordered(t *testing.T) {
	d := newTestDispatcher()
	d.RegisterOperator(OpName("add"))
	d.RegisterOperator(OpName("mul"))
	d.RegisterOperator(OpNameWithOverload("add", "scalar"))
	assert.ElementsMatch(t,
		[]OperatorName{OpName("add"), OpName("mul"), OpNameWithOverload("add", "scalar")},
		d.OperatorNames())
}

func TestCallUnknownOperator(t *testing.T) {
	d := newTestDispatcher()
	_, err := d.Call(OpName("nope"), nil)
	require.Error(t, err)
	var notFound *OperatorNotFoundError
	require.True(t, errors.As(err, &notFound))
	assert.Equal(t, OpName("nope"), notFound.Name)

	_, err = d.CallWithKeys(OpName("nope"), keys.NewSet(keys.KeyCPU), nil)
	require.True(t, errors.As(err, &notFound))
}

func TestBackendSelectionEndToEnd(t *testing.T) {
	d := newTestDispatcher()
	h := d.RegisterOperator(OpName("add"))
	h.SetKernel(keys.KeyCPU, Func2(func(a, b *tensors.Tensor) (*tensors.Tensor, error) {
		return tensors.CPU(a.Sizes()...), nil
	}))
	h.SetKernel(keys.KeyCUDA, Func2(func(a, b *tensors.Tensor) (*tensors.Tensor, error) {
		return tensors.CUDA(a.Sizes()...), nil
	}))

	a, b := tensors.CPU(2, 3), tensors.CPU(2, 3)
	out, err := d.Call(OpName("add"), values.List{values.NewTensor(a), values.NewTensor(b)})
	require.NoError(t, err)
	require.Len(t, out, 1)
	result, err := out[0].ToTensor()
	require.NoError(t, err)
	assert.True(t, result.IsCPU())
	assert.Equal(t, []int64{2, 3}, result.Sizes())
}

func TestNoKernelError(t *testing.T) {
	d := newTestDispatcher()
	h := d.RegisterOperator(OpName("add"))
	invoked := false
	h.SetKernel(keys.KeyCUDA, NewBoxed(func(args values.List) (values.List, error) {
		invoked = true
		return nil, nil
	}))

	a, b := tensors.CPU(2), tensors.CPU(2)
	_, err := d.Call(OpName("add"), values.List{values.NewTensor(a), values.NewTensor(b)})
	require.Error(t, err)
	var noKernel *NoKernelFoundError
	require.True(t, errors.As(err, &noKernel))
	assert.Equal(t, keys.NewSet(keys.KeyCPU), noKernel.Keys)
	assert.False(t, invoked, "no kernel may run on a dispatch miss")
}

func TestProfilingCounts(t *testing.T) {
	d := newTestDispatcher()
	h := d.RegisterOperator(OpName("add"))
	h.SetKernel(keys.KeyCPU, echoKernel(keys.KeyCPU))

	args := values.List{values.NewTensor(tensors.CPU(2)), values.NewTensor(tensors.CPU(2))}

	// Counts accumulate only while profiling is on.
	_, err := d.Call(OpName("add"), args)
	require.NoError(t, err)
	assert.Empty(t, d.CallStats())

	d.EnableProfiling(true)
	require.True(t, d.ProfilingEnabled())
	for range 3 {
		_, err = d.Call(OpName("add"), args)
		require.NoError(t, err)
	}

	stats := d.CallStats()
	require.Contains(t, stats, OpName("add"))
	assert.Equal(t, uint64(3), stats[OpName("add")].CallCount)
	assert.Equal(t, uint64(3), stats[OpName("add")].KeyCounts[keys.KeyCPU])
	assert.Len(t, stats[OpName("add")].KeyCounts, 1, "no other key counted")

	// The snapshot is detached from live counters.
	stats[OpName("add")].KeyCounts[keys.KeyCUDA] = 99
	assert.NotContains(t, d.CallStats()[OpName("add")].KeyCounts, keys.KeyCUDA)

	d.ResetCallStats()
	assert.Empty(t, d.CallStats())
}

func TestProfilingCountsExplicitKeySet(t *testing.T) {
	d := newTestDispatcher()
	h := d.RegisterOperator(OpName("add"))
	h.SetKernel(keys.KeyCPU, echoKernel(keys.KeyCPU))
	d.EnableProfiling(true)

	_, err := d.CallWithKeys(OpName("add"), keys.NewSet(keys.KeyCPU, keys.KeyAutograd), nil)
	require.NoError(t, err)
	stats := d.CallStats()
	assert.Equal(t, uint64(1), stats[OpName("add")].KeyCounts[keys.KeyAutograd],
		"explicit key sets are counted by their highest-priority member")
}

func TestDebugString(t *testing.T) {
	d := newTestDispatcher()
	h := d.RegisterOperator(OpName("add"))
	h.SetKernel(keys.KeyCPU, echoKernel(keys.KeyCPU))
	h.SetKernel(keys.KeyAutograd, echoKernel(keys.KeyAutograd))
	d.RegisterOperator(OpNameWithOverload("add", "scalar"))

	assert.Equal(t,
		"Dispatcher {\n"+
			"  Registered operators: 2\n"+
			"  add {\n"+
			"    Autograd\n"+
			"    CPU\n"+
			"  }\n"+
			"  add.scalar {\n"+
			"  }\n"+
			"}",
		d.DebugString())

	d.EnableProfiling(true)
	_, err := d.Call(OpName("add"),
		values.List{values.NewTensor(tensors.CPU(1)), values.NewTensor(tensors.CPU(1))})
	require.NoError(t, err)
	debug := d.DebugString()
	assert.Contains(t, debug, "Call statistics:")
	assert.Contains(t, debug, "add: 1 calls")
	assert.Contains(t, debug, "CPU: 1 times")
}

func TestDefaultDispatcherConvenience(t *testing.T) {
	previous := SetDefault(newTestDispatcher())
	defer SetDefault(previous)

	h := RegisterOp("add_scalar")
	assert.Same(t, h, RegisterOp("add_scalar"))
	h.SetKernel(keys.KeyCatchAll, Func2(func(a, b float64) (float64, error) {
		return a + b, nil
	}))

	overloaded := RegisterOpOverload("add_scalar", "int")
	assert.NotSame(t, h, overloaded)

	// No tensor arguments and no functionality keys: the CatchAll fallback
	// serves the empty key set.
	out, err := Call("add_scalar", values.List{values.NewDouble(1), values.NewDouble(2)})
	require.NoError(t, err)
	d, err := out[0].ToDouble()
	require.NoError(t, err)
	assert.Equal(t, 3.0, d)

	out, err = CallWithKeys("add_scalar", keys.NewSet(keys.KeyCatchAll),
		values.List{values.NewDouble(2), values.NewDouble(2)})
	require.NoError(t, err)
	d, err = out[0].ToDouble()
	require.NoError(t, err)
	assert.Equal(t, 4.0, d)
}

func TestConcurrentRegistrationAndCalls(t *testing.T) {
	d := newTestDispatcher()
	h := d.RegisterOperator(OpName("add"))
	h.SetKernel(keys.KeyCPU, echoKernel(keys.KeyCPU))
	d.EnableProfiling(true)

	args := values.List{values.NewTensor(tensors.CPU(2))}
	const workers = 8
	const iterations = 50

	var wg sync.WaitGroup
	for w := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range iterations {
				_, err := d.Call(OpName("add"), args)
				assert.NoError(t, err)
				d.RegisterOperator(OpName(fmt.Sprintf("op%d_%d", w, i)))
				_ = d.OperatorNames()
			}
		}()
	}
	wg.Wait()

	stats := d.CallStats()
	assert.Equal(t, uint64(workers*iterations), stats[OpName("add")].CallCount)
	assert.Len(t, d.OperatorNames(), workers*iterations+1)
}
