package obs

import "sync"

// Label is a key/value pair attached to measurements.
type Label struct {
	Key   string
	Value string
}

// Meter is a very small interface for emitting counters/histograms.
// Implementations may no-op or bridge to a metrics system.
type Meter interface {
	Counter(name string, value float64, labels ...Label)
	Histogram(name string, value float64, labels ...Label)
}

// NopMeter is a Meter that discards all measurements.
type NopMeter struct{}

func (NopMeter) Counter(name string, value float64, labels ...Label)   {}
func (NopMeter) Histogram(name string, value float64, labels ...Label) {}

// MemMeter accumulates measurements in memory. Intended for tests and
// debugging; not for high-volume production use.
type MemMeter struct {
	mu     sync.Mutex
	counts map[string]float64
	obs    map[string][]float64
}

func (m *MemMeter) Counter(name string, value float64, labels ...Label) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.counts == nil {
		m.counts = make(map[string]float64)
	}
	m.counts[seriesKey(name, labels)] += value
}

func (m *MemMeter) Histogram(name string, value float64, labels ...Label) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.obs == nil {
		m.obs = make(map[string][]float64)
	}
	k := seriesKey(name, labels)
	m.obs[k] = append(m.obs[k], value)
}

// Count returns the accumulated counter value for a series.
func (m *MemMeter) Count(name string, labels ...Label) float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.counts[seriesKey(name, labels)]
}

// Observations returns the recorded histogram samples for a series.
func (m *MemMeter) Observations(name string, labels ...Label) []float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]float64(nil), m.obs[seriesKey(name, labels)]...)
}

func seriesKey(name string, labels []Label) string {
	k := name
	for _, l := range labels {
		k += "|" + l.Key + "=" + l.Value
	}
	return k
}
