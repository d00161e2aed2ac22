package dashboard

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dubz-banking/dubz/pkg/metrics"
)

// DefaultTimeout bounds the health probe made per render.
const DefaultTimeout = 5 * time.Second

// Status is the dashboard's view of the API.
type Status string

// Probe outcomes.
const (
	StatusConnected   Status = "connected"
	StatusError       Status = "error"
	StatusUnreachable Status = "unreachable"
)

// Health is the result of one probe.
type Health struct {
	Status Status
	// Code is the HTTP status when the API answered.
	Code int
	// Detail carries the transport error text when unreachable.
	Detail string
}

// Label is the badge text shown in the sidebar.
func (h Health) Label() string {
	switch h.Status {
	case StatusConnected:
		return "API Connected"
	case StatusError:
		return fmt.Sprintf("API Error (HTTP %d)", h.Code)
	default:
		return "API Disconnected: " + h.Detail
	}
}

// HealthChecker probes the API.
type HealthChecker interface {
	Check(ctx context.Context) Health
}

// HTTPHealthChecker issues GET <base>/health with a fixed timeout and no retry.
type HTTPHealthChecker struct {
	url    string
	client *http.Client
}

// NewHTTPHealthChecker creates a checker for the API at baseURL. A
// non-positive timeout means DefaultTimeout.
func NewHTTPHealthChecker(baseURL string, timeout time.Duration) *HTTPHealthChecker {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &HTTPHealthChecker{
		url:    strings.TrimRight(baseURL, "/") + "/health",
		client: &http.Client{Timeout: timeout},
	}
}

// URL returns the probed endpoint.
func (c *HTTPHealthChecker) URL() string { return c.url }

// Check implements HealthChecker. It never returns an error; failures are
// folded into the returned status.
func (c *HTTPHealthChecker) Check(ctx context.Context) Health {
	h := c.check(ctx)
	metrics.RecordDashboardHealthCheck(string(h.Status))
	return h
}

func (c *HTTPHealthChecker) check(ctx context.Context) Health {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, http.NoBody)
	if err != nil {
		return Health{Status: StatusUnreachable, Detail: err.Error()}
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return Health{Status: StatusUnreachable, Detail: err.Error()}
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return Health{Status: StatusError, Code: resp.StatusCode}
	}
	return Health{Status: StatusConnected, Code: resp.StatusCode}
}
