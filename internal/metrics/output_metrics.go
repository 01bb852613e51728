package metrics

import (
	"encoding/json"
	"fmt"
	"sync"
)

// Metric types.
const (
	TypeFile   = "file"   // content of one record, keyed by path
	TypeHeader = "header" // record headers of a block, keyed by "$$FILE"
)

// MetricKey identifies a specific metric by type and key
type MetricKey struct {
	Type string
	Key  string
}

// String returns a string representation of the MetricKey
func (k MetricKey) String() string {
	return fmt.Sprintf("%s:%s", k.Type, k.Key)
}

// NewKey creates a new MetricKey with the given type and key
func NewKey(typ, key string) MetricKey {
	return MetricKey{Type: typ, Key: key}
}

// MetricItem stores the metrics for a specific item
type MetricItem struct {
	Bytes  int `json:"bytes"`
	Tokens int `json:"tokens"`
	Lines  int `json:"lines"`
}

// Add adds the given metrics to this item
func (m *MetricItem) Add(bytes, tokens, lines int) {
	m.Bytes += bytes
	m.Tokens += tokens
	m.Lines += lines
}

// job represents a pending metrics calculation job
type job struct {
	typ     string
	key     string
	content string
}

// OutputMetrics counts the parts of an export on a pool of workers.
type OutputMetrics struct {
	mu    sync.Mutex
	wg    sync.WaitGroup
	once  sync.Once
	jobs  chan job
	Items map[MetricKey]MetricItem
	Ctr   Counter
}

// NewOutputMetrics creates a new OutputMetrics with the given counter and worker count
func NewOutputMetrics(counter Counter, workers int) *OutputMetrics {
	if workers < 1 {
		workers = 1
	}

	m := &OutputMetrics{
		jobs:  make(chan job, workers*2),
		Items: make(map[MetricKey]MetricItem),
		Ctr:   counter,
	}

	m.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go m.worker(m.jobs)
	}

	return m
}

func (m *OutputMetrics) worker(jobs <-chan job) {
	defer m.wg.Done()

	for job := range jobs {
		bytes, tokens, lines := m.Ctr.Count(job.content)

		m.mu.Lock()
		key := MetricKey{Type: job.typ, Key: job.key}
		item := m.Items[key]
		item.Add(bytes, tokens, lines)
		m.Items[key] = item
		m.mu.Unlock()
	}
}

// Add queues content to be counted under (typ, key). Counts for the same key
// accumulate.
func (m *OutputMetrics) Add(typ, key string, content string) {
	m.jobs <- job{typ: typ, key: key, content: content}
}

// Wait waits for all pending jobs to complete. It may be called more than
// once; Add must not be called after it.
func (m *OutputMetrics) Wait() {
	m.once.Do(func() { close(m.jobs) })
	m.wg.Wait()
}

// Total returns the sum over every item.
func (m *OutputMetrics) Total() MetricItem {
	m.mu.Lock()
	defer m.mu.Unlock()
	var sum MetricItem
	for _, v := range m.Items {
		sum.Add(v.Bytes, v.Tokens, v.Lines)
	}
	return sum
}

// SumBy returns the sum of all metrics for the given type
func (m *OutputMetrics) SumBy(typeName string) MetricItem {
	m.mu.Lock()
	defer m.mu.Unlock()
	var sum MetricItem
	for k, v := range m.Items {
		if k.Type == typeName {
			sum.Add(v.Bytes, v.Tokens, v.Lines)
		}
	}
	return sum
}

// MarshalJSON marshals the metrics keyed by "type:key".
func (m *OutputMetrics) MarshalJSON() ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	result := make(map[string]MetricItem, len(m.Items))
	for k, v := range m.Items {
		result[k.String()] = v
	}
	return json.Marshal(result)
}
