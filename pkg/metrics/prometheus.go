// Package metrics provides Prometheus metrics for the Dubz Banking processes.
package metrics

import (
	"context"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Default metrics configuration constants.
const (
	defaultRefreshInterval    = 10 * time.Second
	nanosecondsPerMillisecond = 1e6
)

// Manager manages all Prometheus metrics for the Dubz Banking processes.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	refreshInterval  time.Duration
	registry         prometheus.Registerer

	// HTTP Performance Metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Report Metrics - builder + persistence outcomes per cadence
	reportsGenerated         *prometheus.CounterVec
	reportFailures           *prometheus.CounterVec
	reportGenerationDuration *prometheus.HistogramVec

	// Scheduler Metrics - loop liveness
	schedulerPolls          prometheus.Counter
	schedulerPollErrors     prometheus.Counter
	schedulerTriggers       prometheus.Gauge
	schedulerLastPollUnix   prometheus.Gauge
	schedulerNextRunUnix    *prometheus.GaugeVec
	schedulerTriggerFirings *prometheus.CounterVec

	// Dashboard Metrics - outbound API probes
	dashboardHealthChecks *prometheus.CounterVec
	dashboardPageViews    *prometheus.CounterVec

	// Error Metrics
	errorRateByComponent *prometheus.CounterVec

	// System Performance Metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "dubz",
		subsystem:        "",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		refreshInterval:  defaultRefreshInterval,
		registry:         prometheus.NewRegistry(),
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) initializeMetrics() { //nolint:funlen // long function required for comprehensive metrics initialization
	auto := promauto.With(m.registry)

	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by endpoint and method",
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_request_duration_milliseconds",
			Help:      "HTTP request duration in milliseconds",
			Buckets:   m.histogramBuckets,
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.reportsGenerated = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "reports_generated_total",
			Help:      "Total number of reports built and persisted",
		},
		[]string{"report_type"},
	)

	m.reportFailures = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "report_failures_total",
			Help:      "Total number of failed report generations by stage",
		},
		[]string{"report_type", "stage"},
	)

	m.reportGenerationDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "report_generation_duration_milliseconds",
			Help:      "Time spent building and persisting a report",
			Buckets:   m.histogramBuckets,
		},
		[]string{"report_type"},
	)

	m.schedulerPolls = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "scheduler_polls_total",
		Help:      "Total number of scheduler polls",
	})

	m.schedulerPollErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "scheduler_poll_errors_total",
		Help:      "Total number of failed scheduler polls",
	})

	m.schedulerTriggers = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "scheduler_triggers",
		Help:      "Number of triggers registered with the scheduler",
	})

	m.schedulerLastPollUnix = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "scheduler_last_poll_unix",
		Help:      "Unix timestamp of the last scheduler poll",
	})

	m.schedulerNextRunUnix = auto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "scheduler_next_run_unix",
			Help:      "Unix timestamp of the next run per trigger",
		},
		[]string{"trigger"},
	)

	m.schedulerTriggerFirings = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "scheduler_trigger_firings_total",
			Help:      "Total number of trigger firings by outcome",
		},
		[]string{"trigger", "status"},
	)

	m.dashboardHealthChecks = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "dashboard_api_health_checks_total",
			Help:      "Total number of API health probes issued by the dashboard",
		},
		[]string{"status"},
	)

	m.dashboardPageViews = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "dashboard_page_views_total",
			Help:      "Total number of dashboard page renders",
		},
		[]string{"page"},
	)

	m.errorRateByComponent = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "errors_by_component_total",
			Help:      "Total number of errors by component and type",
		},
		[]string{"component", "error_type"},
	)

	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_memory_usage_bytes",
		Help:      "Current heap allocation in bytes",
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_goroutine_count",
		Help:      "Current number of goroutines",
	})

	m.systemGCPauseTime = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_gc_pause_time_milliseconds",
		Help:      "Average GC pause time in milliseconds",
		Buckets:   m.histogramBuckets,
	})
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	if !globalManager.enabled {
		return
	}
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration in milliseconds.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, durationMs float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// RecordReportGenerated records a persisted report and how long it took.
func RecordReportGenerated(reportType string, durationMs float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.reportsGenerated.WithLabelValues(reportType).Inc()
	globalManager.reportGenerationDuration.WithLabelValues(reportType).Observe(durationMs)
}

// RecordReportFailure records a failed generation at stage "build" or "persist".
func RecordReportFailure(reportType, stage string) {
	if !globalManager.enabled {
		return
	}
	globalManager.reportFailures.WithLabelValues(reportType, stage).Inc()
}

// RecordSchedulerPoll records one poll of the schedule table.
func RecordSchedulerPoll(at time.Time) {
	if !globalManager.enabled {
		return
	}
	globalManager.schedulerPolls.Inc()
	globalManager.schedulerLastPollUnix.Set(float64(at.Unix()))
}

// RecordSchedulerPollError records a failure of the poll primitive itself.
func RecordSchedulerPollError() {
	if !globalManager.enabled {
		return
	}
	globalManager.schedulerPollErrors.Inc()
}

// UpdateSchedulerTriggers sets the number of registered triggers.
func UpdateSchedulerTriggers(count int) {
	if !globalManager.enabled {
		return
	}
	globalManager.schedulerTriggers.Set(float64(count))
}

// UpdateSchedulerNextRun publishes the next activation of a trigger.
func UpdateSchedulerNextRun(trigger string, next time.Time) {
	if !globalManager.enabled {
		return
	}
	globalManager.schedulerNextRunUnix.WithLabelValues(trigger).Set(float64(next.Unix()))
}

// RecordTriggerFiring records a trigger firing with its outcome status.
func RecordTriggerFiring(trigger, status string) {
	if !globalManager.enabled {
		return
	}
	globalManager.schedulerTriggerFirings.WithLabelValues(trigger, status).Inc()
}

// RecordDashboardHealthCheck records one dashboard probe of the API.
func RecordDashboardHealthCheck(status string) {
	if !globalManager.enabled {
		return
	}
	globalManager.dashboardHealthChecks.WithLabelValues(status).Inc()
}

// RecordDashboardPageView records a rendered dashboard page.
func RecordDashboardPageView(page string) {
	if !globalManager.enabled {
		return
	}
	globalManager.dashboardPageViews.WithLabelValues(page).Inc()
}

// RecordErrorByComponent records errors by component.
func RecordErrorByComponent(component, errorType string) {
	if !globalManager.enabled {
		return
	}
	globalManager.errorRateByComponent.WithLabelValues(component, errorType).Inc()
}

// UpdateSystemMemoryUsage updates memory usage.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount updates goroutine count.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records GC pause time in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// UpdateSystemMetrics samples runtime memory, goroutine and GC stats.
func UpdateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	UpdateSystemMemoryUsage(m.Alloc)
	UpdateSystemGoroutineCount(runtime.NumGoroutine())
	if m.NumGC > 0 {
		avgPauseMs := float64(m.PauseTotalNs) / float64(m.NumGC) / nanosecondsPerMillisecond
		RecordSystemGCPauseTime(avgPauseMs)
	}
}

// StartSystemUpdater samples system metrics on the manager's refresh
// interval until ctx is cancelled.
func StartSystemUpdater(ctx context.Context) {
	ticker := time.NewTicker(globalManager.refreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			UpdateSystemMetrics()
		}
	}
}

// SetEnabled toggles recording on the global manager.
func SetEnabled(enabled bool) {
	globalManager.enabled = enabled
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
