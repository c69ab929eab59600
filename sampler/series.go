package sampler

import "sync"

// Sample is one recorded noise level with its MM:SS label.
type Sample struct {
	Label string
	Level float64
}

// Series is a bounded, oldest-first evicting sequence of samples kept as two
// parallel slices, the shape a line chart consumes.
//
// All the functions of a Series are concurrent-safe.
type Series struct {
	m        sync.RWMutex
	capacity int
	labels   []string
	values   []float64
}

func NewSeries(capacity int) *Series {
	if capacity < 1 {
		capacity = DefaultCapacity
	}
	return &Series{
		capacity: capacity,
		labels:   make([]string, 0, capacity+1),
		values:   make([]float64, 0, capacity+1),
	}
}

// Append records s and reports whether the oldest sample had to be evicted.
func (ser *Series) Append(s Sample) (evicted bool) {
	ser.m.Lock()
	defer ser.m.Unlock()

	ser.labels = append(ser.labels, s.Label)
	ser.values = append(ser.values, s.Level)
	if len(ser.labels) > ser.capacity {
		copy(ser.labels, ser.labels[1:])
		copy(ser.values, ser.values[1:])
		ser.labels = ser.labels[:len(ser.labels)-1]
		ser.values = ser.values[:len(ser.values)-1]
		evicted = true
	}
	return evicted
}

func (ser *Series) Capacity() int {
	return ser.capacity
}

func (ser *Series) Len() int {
	ser.m.RLock()
	defer ser.m.RUnlock()
	return len(ser.labels)
}

// At returns the i-th sample, oldest first.
func (ser *Series) At(i int) Sample {
	ser.m.RLock()
	defer ser.m.RUnlock()
	return Sample{Label: ser.labels[i], Level: ser.values[i]}
}

// Labels returns a copy of the labels, oldest first.
func (ser *Series) Labels() []string {
	ser.m.RLock()
	defer ser.m.RUnlock()
	return append([]string(nil), ser.labels...)
}

// Values returns a copy of the levels, oldest first.
func (ser *Series) Values() []float64 {
	ser.m.RLock()
	defer ser.m.RUnlock()
	return append([]float64(nil), ser.values...)
}

// Snapshot returns copies of both slices taken under one lock.
func (ser *Series) Snapshot() ([]string, []float64) {
	ser.m.RLock()
	defer ser.m.RUnlock()
	return append([]string(nil), ser.labels...), append([]float64(nil), ser.values...)
}
