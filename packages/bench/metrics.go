package bench

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
)

// metrics aggregates latencies and outcomes across bench workers.
type metrics struct {
	total   atomic.Int64
	success atomic.Int64
	failed  atomic.Int64

	// Latency histogram in microseconds: 1us to 60s, 3 significant digits.
	mu        sync.Mutex
	histogram *hdrhistogram.Histogram
}

func newMetrics() *metrics {
	return &metrics{
		histogram: hdrhistogram.New(1, 60_000_000, 3),
	}
}

func (m *metrics) recordSuccess(latency time.Duration) {
	m.total.Add(1)
	m.success.Add(1)
	m.record(latency)
}

func (m *metrics) recordFailure(latency time.Duration) {
	m.total.Add(1)
	m.failed.Add(1)
	m.record(latency)
}

func (m *metrics) record(latency time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_ = m.histogram.RecordValue(latency.Microseconds())
}

// Report summarizes a finished bench run.
type Report struct {
	Total   int64
	Success int64
	Failed  int64

	Min  time.Duration
	Mean time.Duration
	P50  time.Duration
	P95  time.Duration
	P99  time.Duration
	Max  time.Duration

	Duration time.Duration
	RPS      float64
}

func (m *metrics) report(elapsed time.Duration) *Report {
	m.mu.Lock()
	defer m.mu.Unlock()

	r := &Report{
		Total:    m.total.Load(),
		Success:  m.success.Load(),
		Failed:   m.failed.Load(),
		Duration: elapsed,
	}

	if m.histogram.TotalCount() > 0 {
		r.Min = time.Duration(m.histogram.Min()) * time.Microsecond
		r.Mean = time.Duration(m.histogram.Mean()) * time.Microsecond
		r.P50 = time.Duration(m.histogram.ValueAtQuantile(50)) * time.Microsecond
		r.P95 = time.Duration(m.histogram.ValueAtQuantile(95)) * time.Microsecond
		r.P99 = time.Duration(m.histogram.ValueAtQuantile(99)) * time.Microsecond
		r.Max = time.Duration(m.histogram.Max()) * time.Microsecond
	}

	if elapsed > 0 {
		r.RPS = float64(r.Total) / elapsed.Seconds()
	}

	return r
}
