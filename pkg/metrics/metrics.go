package metrics

import (
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/labstack/echo/v4"
)

// Collector holds request counters for the process.
// Thread-safe via atomics and mutex.
type Collector struct {
	totalRequests  int64
	activeRequests int64
	totalErrors    int64
	totalLatencyMs int64
	maxLatencyMs   int64

	mu                sync.Mutex
	startTime         time.Time
	endpointCounts    map[string]int64
	endpointLatencies map[string]int64 // total ms per endpoint
	statusCodes       map[int]int64

	now func() time.Time
}

func NewCollector() *Collector {
	c := &Collector{now: time.Now}
	c.reset()
	return c
}

func (m *Collector) reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	atomic.StoreInt64(&m.totalRequests, 0)
	atomic.StoreInt64(&m.totalErrors, 0)
	atomic.StoreInt64(&m.totalLatencyMs, 0)
	atomic.StoreInt64(&m.maxLatencyMs, 0)
	m.startTime = m.now()
	m.endpointCounts = make(map[string]int64)
	m.endpointLatencies = make(map[string]int64)
	m.statusCodes = make(map[int]int64)
}

// Middleware tracks request count, latency, in-flight requests and error
// rates. Handler errors are resolved here so the final status is recorded.
func (m *Collector) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			atomic.AddInt64(&m.activeRequests, 1)
			start := m.now()

			if err := next(c); err != nil {
				c.Error(err)
			}

			latencyMs := m.now().Sub(start).Milliseconds()
			atomic.AddInt64(&m.activeRequests, -1)
			m.observe(c, latencyMs)

			return nil
		}
	}
}

func (m *Collector) observe(c echo.Context, latencyMs int64) {
	atomic.AddInt64(&m.totalRequests, 1)
	atomic.AddInt64(&m.totalLatencyMs, latencyMs)

	// lock-free max
	for {
		current := atomic.LoadInt64(&m.maxLatencyMs)
		if latencyMs <= current || atomic.CompareAndSwapInt64(&m.maxLatencyMs, current, latencyMs) {
			break
		}
	}

	statusCode := c.Response().Status
	path := c.Path()
	if path == "" {
		path = c.Request().URL.Path
	}
	endpoint := fmt.Sprintf("%s %s", c.Request().Method, path)

	m.mu.Lock()
	m.endpointCounts[endpoint]++
	m.endpointLatencies[endpoint] += latencyMs
	m.statusCodes[statusCode]++
	m.mu.Unlock()

	if statusCode >= http.StatusBadRequest {
		atomic.AddInt64(&m.totalErrors, 1)
	}
}

// Snapshot is a point-in-time view of the counters.
type Snapshot struct {
	TotalRequests  int64            `json:"total_requests"`
	ActiveRequests int64            `json:"active_requests"`
	TotalErrors    int64            `json:"total_errors"`
	ErrorRate      float64          `json:"error_rate_pct"`
	AvgLatencyMs   float64          `json:"avg_latency_ms"`
	MaxLatencyMs   int64            `json:"max_latency_ms"`
	RequestsPerSec float64          `json:"requests_per_sec"`
	UptimeSeconds  float64          `json:"uptime_seconds"`
	EndpointCounts map[string]int64 `json:"endpoint_counts"`
	EndpointAvgMs  map[string]int64 `json:"endpoint_avg_latency_ms"`
	StatusCodes    map[int]int64    `json:"status_codes"`
}

func (m *Collector) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	total := atomic.LoadInt64(&m.totalRequests)
	errs := atomic.LoadInt64(&m.totalErrors)
	uptime := m.now().Sub(m.startTime).Seconds()

	s := Snapshot{
		TotalRequests:  total,
		ActiveRequests: atomic.LoadInt64(&m.activeRequests),
		TotalErrors:    errs,
		MaxLatencyMs:   atomic.LoadInt64(&m.maxLatencyMs),
		UptimeSeconds:  uptime,
		EndpointCounts: make(map[string]int64, len(m.endpointCounts)),
		EndpointAvgMs:  make(map[string]int64, len(m.endpointLatencies)),
		StatusCodes:    make(map[int]int64, len(m.statusCodes)),
	}
	if total > 0 {
		s.AvgLatencyMs = float64(atomic.LoadInt64(&m.totalLatencyMs)) / float64(total)
		s.ErrorRate = float64(errs) / float64(total) * 100
	}
	if uptime > 0 {
		s.RequestsPerSec = float64(total) / uptime
	}
	for k, v := range m.endpointCounts {
		s.EndpointCounts[k] = v
		if v > 0 {
			s.EndpointAvgMs[k] = m.endpointLatencies[k] / v
		}
	}
	for k, v := range m.statusCodes {
		s.StatusCodes[k] = v
	}
	return s
}

// Handler serves the current snapshot as JSON.
func (m *Collector) Handler(c echo.Context) error {
	return c.JSON(http.StatusOK, m.Snapshot())
}

// ResetHandler zeroes all counters except in-flight requests.
func (m *Collector) ResetHandler(c echo.Context) error {
	m.reset()
	return c.JSON(http.StatusOK, map[string]string{"status": "metrics_reset"})
}
