// Package monitoring tracks in-process request metrics served at /metrics.
package monitoring

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

type Metrics struct {
	RequestCount   int64            `json:"request_count"`
	ActiveRequests int64            `json:"active_requests"`
	ErrorCount     int64            `json:"error_count"`
	StatusCodes    map[string]int64 `json:"status_codes"`
	Endpoints      map[string]int64 `json:"endpoints"`
	UptimeSeconds  float64          `json:"uptime_seconds"`
}

var (
	mu             sync.Mutex
	startTime      = time.Now()
	requestCount   int64
	activeRequests int64
	errorCount     int64
	statusCodes    = make(map[string]int64)
	endpoints      = make(map[string]int64)
)

// MetricsMiddleware counts requests, in-flight requests, errors, and
// per-endpoint hits.
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		mu.Lock()
		requestCount++
		activeRequests++
		mu.Unlock()

		c.Next()

		status := c.Writer.Status()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		mu.Lock()
		activeRequests--
		statusCodes[http.StatusText(status)]++
		endpoints[c.Request.Method+" "+path]++
		if status >= http.StatusInternalServerError {
			errorCount++
		}
		mu.Unlock()
	}
}

// GetMetrics returns a snapshot of the current counters.
func GetMetrics() Metrics {
	mu.Lock()
	defer mu.Unlock()

	codes := make(map[string]int64, len(statusCodes))
	for k, v := range statusCodes {
		codes[k] = v
	}
	eps := make(map[string]int64, len(endpoints))
	for k, v := range endpoints {
		eps[k] = v
	}

	return Metrics{
		RequestCount:   requestCount,
		ActiveRequests: activeRequests,
		ErrorCount:     errorCount,
		StatusCodes:    codes,
		Endpoints:      eps,
		UptimeSeconds:  time.Since(startTime).Seconds(),
	}
}

// MetricsHandler serves the snapshot as JSON.
func MetricsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, GetMetrics())
	}
}

func resetGlobalMetrics() {
	mu.Lock()
	defer mu.Unlock()
	requestCount = 0
	activeRequests = 0
	errorCount = 0
	statusCodes = make(map[string]int64)
	endpoints = make(map[string]int64)
}
