// Package metrics defines all custom Prometheus metrics for the KVISION
// portal API. It is the single source of truth for metric names, labels,
// and help strings. Metrics register themselves with the default registry
// at init time via promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "portal"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// LoginsTotal counts login outcomes.
// Labels:
//   - method: "password" or "oauth"
//   - result: "ok", "denied" (bad credentials), or "role_mismatch"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by method and result.",
	},
	[]string{"method", "result"},
)

// BootstrapFallbacksTotal counts profile resolutions that exhausted their
// retries and synthesized a student user from session metadata.
var BootstrapFallbacksTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "bootstrap_fallbacks_total",
		Help:      "Total number of profile resolutions that fell back to a synthesized user.",
	},
)

// ── Content metrics ───────────────────────────────────────────────────────────

// ContentPersistErrorsTotal counts failed asynchronous writes of the site
// content blob. Local state is not rolled back on these, so a non-zero rate
// means the in-memory aggregate has drifted from the store.
var ContentPersistErrorsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "content_persist_errors_total",
		Help:      "Total number of failed asynchronous site-content persistence attempts.",
	},
)

// ── Messenger metrics ─────────────────────────────────────────────────────────

// MessagesSentTotal counts messages confirmed by the store.
var MessagesSentTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "messages_sent_total",
		Help:      "Total number of chat messages successfully persisted.",
	},
)

// ActiveStreams tracks currently open live-update streams.
var ActiveStreams = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "message_streams_active",
		Help:      "Number of currently open message event streams.",
	},
)
