package handler

import (
	"sync"
	"sync/atomic"
	"time"
)

// Metrics tracks performance data
type Metrics struct {
	totalRequests      uint64
	successfulRequests uint64
	failedRequests     uint64
	activeRequests     int32
	totalLatency       time.Duration
	mutex              sync.RWMutex
	startTime          time.Time
}

func NewMetrics() *Metrics {
	return &Metrics{startTime: time.Now()}
}

func (m *Metrics) begin() {
	atomic.AddUint64(&m.totalRequests, 1)
	atomic.AddInt32(&m.activeRequests, 1)
}

func (m *Metrics) end(status int, latency time.Duration) {
	atomic.AddInt32(&m.activeRequests, -1)
	if status >= 400 {
		atomic.AddUint64(&m.failedRequests, 1)
		return
	}
	atomic.AddUint64(&m.successfulRequests, 1)
	m.mutex.Lock()
	m.totalLatency += latency
	m.mutex.Unlock()
}

func (m *Metrics) active() int32 {
	return atomic.LoadInt32(&m.activeRequests)
}

// Snapshot returns current metrics
func (m *Metrics) Snapshot() map[string]interface{} {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	successful := atomic.LoadUint64(&m.successfulRequests)
	total := atomic.LoadUint64(&m.totalRequests)

	uptime := time.Since(m.startTime)
	var avgLatency time.Duration
	if successful > 0 {
		avgLatency = time.Duration(int64(m.totalLatency) / int64(successful))
	}

	return map[string]interface{}{
		"totalRequests":      total,
		"successfulRequests": successful,
		"failedRequests":     atomic.LoadUint64(&m.failedRequests),
		"avgLatencyMs":       avgLatency.Milliseconds(),
		"activeRequests":     m.active(),
		"uptimeSeconds":      uptime.Seconds(),
		"requestsPerSecond":  float64(total) / uptime.Seconds(),
	}
}
