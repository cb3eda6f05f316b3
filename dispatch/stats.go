package dispatch

import (
	"slices"
	"strings"

	"golang.org/x/exp/maps"

	"github.com/godispatch/godispatch/types/keys"
)

// CallStats counts calls to one operator: the total, and a breakdown by the
// highest-priority key of each call's key set.
type CallStats struct {
	CallCount uint64
	KeyCounts map[keys.Key]uint64
}

func (s *CallStats) clone() CallStats {
	return CallStats{
		CallCount: s.CallCount,
		KeyCounts: maps.Clone(s.KeyCounts),
	}
}

// EnableProfiling toggles call-statistics collection. Counts accumulate only
// while enabled.
func (d *Dispatcher) EnableProfiling(enabled bool) {
	d.profiling.Store(enabled)
}

// ProfilingEnabled reports whether call statistics are being collected.
func (d *Dispatcher) ProfilingEnabled() bool {
	return d.profiling.Load()
}

// CallStats returns a snapshot of the accumulated statistics. The snapshot is
// a deep copy; mutating it does not affect the dispatcher.
func (d *Dispatcher) CallStats() map[OperatorName]CallStats {
	d.statsMu.Lock()
	defer d.statsMu.Unlock()
	snapshot := make(map[OperatorName]CallStats, len(d.stats))
	for name, stat := range d.stats {
		snapshot[name] = stat.clone()
	}
	return snapshot
}

// ResetCallStats drops all accumulated statistics.
func (d *Dispatcher) ResetCallStats() {
	d.statsMu.Lock()
	defer d.statsMu.Unlock()
	d.stats = make(map[OperatorName]*CallStats)
}

func (d *Dispatcher) recordCall(name OperatorName, key keys.Key) {
	d.statsMu.Lock()
	defer d.statsMu.Unlock()
	stat := d.stats[name]
	if stat == nil {
		stat = &CallStats{KeyCounts: make(map[keys.Key]uint64)}
		d.stats[name] = stat
	}
	stat.CallCount++
	stat.KeyCounts[key]++
}

func sortOperatorNames(names []OperatorName) {
	slices.SortFunc(names, func(a, b OperatorName) int {
		if c := strings.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		return strings.Compare(a.Overload, b.Overload)
	})
}

// sortedStatKeys orders a stats breakdown by dispatch priority, the order
// the keys would have been selected in.
func sortedStatKeys(counts map[keys.Key]uint64) []keys.Key {
	return keys.NewSet(maps.Keys(counts)...).Keys()
}
