// Package wrappers provides the functionality kernels that ride on the
// Autograd, Tracing and Profiling dispatch keys. A wrapper runs its
// pre-step, removes its own key from the call's key set, reenters the
// dispatcher, runs its post-step and returns the inner result. Because each
// wrapper redispatches only to keys below its own (see
// dispatch.Dispatcher.Redispatch), wrappers stack outer-to-inner in key
// priority order and the redispatch recursion is bounded by the number of
// functionality keys in the initial set.
//
// The wrappers here model the bookkeeping side of their real counterparts:
// autograd marks result tensors, tracing appends to an in-memory trace,
// profiling aggregates wall-clock durations. The heavy collaborators (a real
// autograd engine, JIT tracer, profiler backend) live outside this module
// and would plug in through the same kernel contract.
package wrappers

import (
	"k8s.io/klog/v2"

	"github.com/godispatch/godispatch/dispatch"
	"github.com/godispatch/godispatch/types/keys"
	"github.com/godispatch/godispatch/types/values"
)

// Autograd returns the gradient-recording wrapper kernel for the named
// operator, meant to be registered on keys.KeyAutograd. After the inner call
// it marks every result tensor as requiring grad whenever any input tensor
// did, so a chain of calls keeps routing through autograd.
func Autograd(d *dispatch.Dispatcher, name dispatch.OperatorName) dispatch.KernelFunction {
	return dispatch.NewBoxed(func(args values.List) (values.List, error) {
		requiresGrad := false
		for _, t := range args.Tensors() {
			if t.RequiresGrad() {
				requiresGrad = true
				break
			}
		}

		result, err := d.Redispatch(name, keys.KeyAutograd, args)
		if err != nil {
			return nil, err
		}

		if requiresGrad {
			for _, t := range result.Tensors() {
				t.SetRequiresGrad(true)
			}
			if klog.V(2).Enabled() {
				klog.Infof("autograd %s: marked %d result tensor(s) for grad",
					name.FullName(), len(result.Tensors()))
			}
		}
		return result, nil
	})
}
