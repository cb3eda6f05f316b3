package wrappers

import (
	"sync"
	"time"

	"k8s.io/klog/v2"

	"github.com/godispatch/godispatch/dispatch"
	"github.com/godispatch/godispatch/types/keys"
	"github.com/godispatch/godispatch/types/values"
)

// OpTiming aggregates the inner-call durations of one operator.
type OpTiming struct {
	Count int
	Total time.Duration
}

// Profile is the duration aggregator the profiling wrapper records into.
// Safe for concurrent use.
type Profile struct {
	mu      sync.Mutex
	timings map[dispatch.OperatorName]OpTiming
}

// NewProfile returns an empty profile.
func NewProfile() *Profile {
	return &Profile{timings: make(map[dispatch.OperatorName]OpTiming)}
}

// Timing returns the aggregated timing for one operator.
func (p *Profile) Timing(name dispatch.OperatorName) OpTiming {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.timings[name]
}

// Reset drops all aggregated timings.
func (p *Profile) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.timings = make(map[dispatch.OperatorName]OpTiming)
}

func (p *Profile) record(name dispatch.OperatorName, elapsed time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()
	timing := p.timings[name]
	timing.Count++
	timing.Total += elapsed
	p.timings[name] = timing
}

// Profiling returns the timing wrapper kernel for the named operator, meant
// to be registered on keys.KeyProfiling. It times the inner call and adds
// the elapsed duration to the profile.
func Profiling(d *dispatch.Dispatcher, name dispatch.OperatorName, profile *Profile) dispatch.KernelFunction {
	return dispatch.NewBoxed(func(args values.List) (values.List, error) {
		start := time.Now()
		result, err := d.Redispatch(name, keys.KeyProfiling, args)
		if err != nil {
			return nil, err
		}
		elapsed := time.Since(start)
		profile.record(name, elapsed)
		if klog.V(2).Enabled() {
			klog.Infof("profile %s: inner call took %s", name.FullName(), elapsed)
		}
		return result, nil
	})
}
