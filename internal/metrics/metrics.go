// ABOUTME: Prometheus counters for posts, taps, engine signals and minimize requests.
// ABOUTME: A nil *Recorder is valid and records nothing.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder owns a private registry with the glue's counters.
type Recorder struct {
	registry  *prometheus.Registry
	posts     *prometheus.CounterVec
	taps      prometheus.Counter
	signals   *prometheus.CounterVec
	relaunch  *prometheus.CounterVec
	minimizes *prometheus.CounterVec
}

// NewRecorder creates and registers the counters.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		posts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "engine_notifications_posts_total",
				Help: "Notifications submitted to the tray, by result",
			},
			[]string{"result"},
		),
		taps: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "engine_notifications_taps_total",
				Help: "Notification taps dispatched to the reactivator",
			},
		),
		signals: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "engine_notifications_engine_signals_total",
				Help: "Engine live-signal attempts, by outcome (fired, unavailable, faulted)",
			},
			[]string{"outcome"},
		),
		relaunch: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "engine_notifications_relaunches_total",
				Help: "Application window relaunch attempts, by result",
			},
			[]string{"result"},
		),
		minimizes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "engine_notifications_minimizes_total",
				Help: "Minimize requests, by result",
			},
			[]string{"result"},
		),
	}

	r.registry.MustRegister(r.posts, r.taps, r.signals, r.relaunch, r.minimizes)
	return r
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// Posted records a tray submission.
func (r *Recorder) Posted(err error) {
	if r == nil {
		return
	}
	r.posts.WithLabelValues(result(err)).Inc()
}

// Tapped records a dispatched tap.
func (r *Recorder) Tapped() {
	if r == nil {
		return
	}
	r.taps.Inc()
}

// EngineSignal records a live-signal outcome.
func (r *Recorder) EngineSignal(outcome string) {
	if r == nil {
		return
	}
	r.signals.WithLabelValues(outcome).Inc()
}

// Relaunched records a window relaunch attempt.
func (r *Recorder) Relaunched(err error) {
	if r == nil {
		return
	}
	r.relaunch.WithLabelValues(result(err)).Inc()
}

// Minimized records a minimize request.
func (r *Recorder) Minimized(err error) {
	if r == nil {
		return
	}
	r.minimizes.WithLabelValues(result(err)).Inc()
}

// Registry exposes the underlying registry, e.g. for gathering in tests.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handler serves the registry in the Prometheus text format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
