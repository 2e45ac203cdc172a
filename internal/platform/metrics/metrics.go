package metrics

import (
	"sync"
	"sync/atomic"
	"time"
)

// Collector implements allocation.Recorder and intent.Recorder besides
// counting HTTP requests.
type Collector struct {
	totalRequests   uint64
	errorRequests   uint64
	rateLimited     uint64
	totalDurationMs uint64

	allocationsAccepted uint64
	parseFailures       uint64

	mu       sync.Mutex
	rejected map[string]uint64
	intents  map[string]uint64
}

func New() *Collector {
	return &Collector{
		rejected: make(map[string]uint64),
		intents:  make(map[string]uint64),
	}
}

func (c *Collector) Record(status int, duration time.Duration) {
	atomic.AddUint64(&c.totalRequests, 1)
	if status >= 500 {
		atomic.AddUint64(&c.errorRequests, 1)
	}
	if status == 429 {
		atomic.AddUint64(&c.rateLimited, 1)
	}
	atomic.AddUint64(&c.totalDurationMs, uint64(duration.Milliseconds()))
}

func (c *Collector) AllocationAccepted(n int) {
	if n > 0 {
		atomic.AddUint64(&c.allocationsAccepted, uint64(n))
	}
}

func (c *Collector) AllocationRejected(reason string) {
	c.mu.Lock()
	c.rejected[reason]++
	c.mu.Unlock()
}

func (c *Collector) IntentRouted(intent string) {
	c.mu.Lock()
	c.intents[intent]++
	c.mu.Unlock()
}

func (c *Collector) ParseFailed() {
	atomic.AddUint64(&c.parseFailures, 1)
}

func (c *Collector) Snapshot() map[string]any {
	total := atomic.LoadUint64(&c.totalRequests)
	errs := atomic.LoadUint64(&c.errorRequests)
	limited := atomic.LoadUint64(&c.rateLimited)
	totalMs := atomic.LoadUint64(&c.totalDurationMs)
	avg := float64(0)
	if total > 0 {
		avg = float64(totalMs) / float64(total)
	}

	c.mu.Lock()
	rejected := make(map[string]uint64, len(c.rejected))
	for k, v := range c.rejected {
		rejected[k] = v
	}
	intents := make(map[string]uint64, len(c.intents))
	for k, v := range c.intents {
		intents[k] = v
	}
	c.mu.Unlock()

	return map[string]any{
		"requestsTotal":            total,
		"errorsTotal":              errs,
		"rateLimitedTotal":         limited,
		"avgDurationMs":            avg,
		"totalDurationMs":          totalMs,
		"allocationsAcceptedTotal": atomic.LoadUint64(&c.allocationsAccepted),
		"allocationsRejected":      rejected,
		"intentsRouted":            intents,
		"parseFailuresTotal":       atomic.LoadUint64(&c.parseFailures),
	}
}
