package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/safeupdate/internal/domain/entities"
)

const namespace = "safeupdate"

// PrometheusMetrics counts run activity in a private registry and, when a
// textfile path is set, writes it in the node_exporter textfile format on Flush.
type PrometheusMetrics struct {
	registry     *prometheus.Registry
	textfile     string
	updates      *prometheus.CounterVec
	manifests    *prometheus.CounterVec
	repositories *prometheus.CounterVec
	pullRequests prometheus.Counter
	lastRun      prometheus.Gauge
}

// NewPrometheusMetrics creates the run counters.
func NewPrometheusMetrics(textfile string) *PrometheusMetrics {
	m := &PrometheusMetrics{
		registry: prometheus.NewRegistry(),
		textfile: textfile,
		updates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dependency_updates_total",
			Help:      "Outdated dependencies by ecosystem, tier and security verdict",
		}, []string{"ecosystem", "tier", "verdict"}),
		manifests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "manifests_total",
			Help:      "Processed manifests by ecosystem and outcome",
		}, []string{"ecosystem", "outcome"}),
		repositories: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "repositories_total",
			Help:      "Processed repositories by result",
		}, []string{"result"}),
		pullRequests: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pull_requests_total",
			Help:      "Pull requests opened",
		}),
		lastRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time of the last processed repository",
		}),
	}
	m.registry.MustRegister(m.updates, m.manifests, m.repositories, m.pullRequests, m.lastRun)
	return m
}

// Registry exposes the private registry.
func (m *PrometheusMetrics) Registry() *prometheus.Registry { return m.registry }

func (m *PrometheusMetrics) ObserveUpdate(update entities.ResolvedUpdate) {
	verdict := entities.StateUnchecked
	if update.Verdict != nil {
		verdict = update.Verdict.EffectiveState()
	}
	m.updates.WithLabelValues(string(update.Ecosystem), string(update.Tier), string(verdict)).Inc()
}

func (m *PrometheusMetrics) ObserveManifest(ecosystem entities.Ecosystem, outcome entities.ManifestOutcome) {
	m.manifests.WithLabelValues(string(ecosystem), string(outcome)).Inc()
}

func (m *PrometheusMetrics) ObserveRepository(report entities.RepositoryReport) {
	result := "ok"
	if report.Failed {
		result = "failed"
	}
	m.repositories.WithLabelValues(result).Inc()
	m.pullRequests.Add(float64(len(report.PullRequests())))
	m.lastRun.Set(float64(report.GeneratedAt.Unix()))
}

// Flush writes the textfile; without a path it is a no-op.
func (m *PrometheusMetrics) Flush() error {
	if m.textfile == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(m.textfile, m.registry); err != nil {
		return fmt.Errorf("failed to write metrics to %s: %w", m.textfile, err)
	}
	logger.Debugf("[metrics] Wrote %s", m.textfile)
	return nil
}
