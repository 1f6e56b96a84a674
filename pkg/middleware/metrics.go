package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/metals-platform/production-service/pkg/metrics"
)

// MetricsMiddleware creates middleware that records HTTP metrics
func MetricsMiddleware(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Skip metrics endpoint to avoid recursion
		if c.Request.URL.Path == "/metrics" {
			c.Next()
			return
		}

		// Track in-flight requests
		m.IncrementHTTPRequestsInFlight()
		defer m.DecrementHTTPRequestsInFlight()

		// Record start time
		start := time.Now()

		// Process request
		c.Next()

		// Record metrics after request completes
		duration := time.Since(start)
		status := c.Writer.Status()
		method := c.Request.Method
		path := c.FullPath() // Use route pattern, not actual path

		// If no route matched, use the raw path
		if path == "" {
			path = c.Request.URL.Path
		}

		// Record HTTP request metrics
		m.RecordHTTPRequest(method, path, status, duration)
	}
}

// MetricsEndpoint returns a handler for the /metrics endpoint
func MetricsEndpoint(m *metrics.Metrics) gin.HandlerFunc {
	handler := m.Handler()
	return func(c *gin.Context) {
		handler.ServeHTTP(c.Writer, c.Request)
	}
}

// BusinessMetrics provides helpers for recording business-specific metrics
type BusinessMetrics struct {
	metrics *metrics.Metrics
}

// NewBusinessMetrics creates a new BusinessMetrics helper
func NewBusinessMetrics(m *metrics.Metrics) *BusinessMetrics {
	return &BusinessMetrics{metrics: m}
}

// RecordWorkOrderCreated records a work order creation event
func (b *BusinessMetrics) RecordWorkOrderCreated(branch, machineCategory string) {
	b.metrics.RecordWorkOrdersCreated(branch, machineCategory, 1)
}

// RecordWorkOrderTransition records a lifecycle transition event
func (b *BusinessMetrics) RecordWorkOrderTransition(action, status string) {
	b.metrics.RecordWorkOrderTransition(action, status)
}

// RecordCoilSwap records a coil swap event
func (b *BusinessMetrics) RecordCoilSwap(reason string) {
	b.metrics.RecordCoilSwap(reason)
}

// RecordPlanningRun records a planning run outcome
func (b *BusinessMetrics) RecordPlanningRun(branch string, success bool, duration time.Duration) {
	b.metrics.RecordPlanningRun(branch, success, duration)
}

// RequestMetrics extracts metrics from a gin context for custom recording
type RequestMetrics struct {
	Method    string
	Path      string
	Status    int
	Duration  time.Duration
	ClientIP  string
	UserAgent string
	RequestID string
}

// ExtractRequestMetrics extracts metrics from the current request
func ExtractRequestMetrics(c *gin.Context, duration time.Duration) *RequestMetrics {
	path := c.FullPath()
	if path == "" {
		path = c.Request.URL.Path
	}

	requestID, _ := c.Get(ContextKeyRequestID)
	reqID, _ := requestID.(string)

	return &RequestMetrics{
		Method:    c.Request.Method,
		Path:      path,
		Status:    c.Writer.Status(),
		Duration:  duration,
		ClientIP:  c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
		RequestID: reqID,
	}
}
