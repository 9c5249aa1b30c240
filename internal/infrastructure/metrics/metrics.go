package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "pipelinepilot"

var (
	// gesturesTotal counts resolved gestures.
	// Labels: gesture (placingNewNode, movingNode, drawingConnection), resolution
	gesturesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "editor",
		Name:      "gestures_total",
		Help:      "Gestures resolved by the editor, by kind and resolution",
	}, []string{"gesture", "resolution"})

	// mutationsTotal counts graph mutations.
	// Labels: op (add_node, move_node, update_config, delete_node, add_connection, delete_connection, import)
	mutationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "editor",
		Name:      "mutations_total",
		Help:      "Graph mutations applied, by operation",
	}, []string{"op"})

	// transfersTotal counts export and import attempts.
	// Labels: direction (export, import), format, status (ok, error)
	transfersTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "editor",
		Name:      "transfers_total",
		Help:      "Pipeline exports and imports, by format and status",
	}, []string{"direction", "format", "status"})

	// remoteDuration measures calls to the execute and optimize services.
	// Labels: op (execute, optimize), status (ok, error)
	remoteDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "remote",
		Name:      "duration_seconds",
		Help:      "Remote collaborator call latency in seconds",
		Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
	}, []string{"op", "status"})

	// activeSessions tracks open editor sessions.
	activeSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "editor",
		Name:      "active_sessions",
		Help:      "Editor sessions currently open",
	})
)

// Gesture records a resolved gesture
func Gesture(gesture, resolution string) { gesturesTotal.WithLabelValues(gesture, resolution).Inc() }

// Mutation records an applied graph mutation
func Mutation(op string) { mutationsTotal.WithLabelValues(op).Inc() }

// Transfer records an export or import
func Transfer(direction, format string, err error) {
	transfersTotal.WithLabelValues(direction, format, status(err)).Inc()
}

// RemoteCall records the latency of a remote call started at start
func RemoteCall(op string, start time.Time, err error) {
	remoteDuration.WithLabelValues(op, status(err)).Observe(time.Since(start).Seconds())
}

// SessionOpened and SessionClosed keep the active session gauge
func SessionOpened() { activeSessions.Inc() }
func SessionClosed() { activeSessions.Dec() }

// Handler serves the default registry in the Prometheus text format
func Handler() http.Handler {
	return promhttp.Handler()
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
