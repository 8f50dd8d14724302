package metrics

import "github.com/prometheus/client_golang/prometheus"

// Embedding Prometheus metrics.
var (
	EmbeddingRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "clipdex",
			Name:      "embedding_requests_total",
			Help:      "Total number of embedding requests",
		},
		[]string{"provider", "model", "status"},
	)

	EmbeddingRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "clipdex",
			Name:      "embedding_request_duration_seconds",
			Help:      "Embedding request duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"provider", "model"},
	)

	EmbeddingTokensTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "clipdex",
			Name:      "embedding_tokens_total",
			Help:      "Total embedding tokens consumed",
		},
		[]string{"provider", "model", "type"},
	)

	EmbeddingErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "clipdex",
			Name:      "embedding_errors_total",
			Help:      "Total embedding errors",
		},
		[]string{"provider", "model", "error_type"},
	)

	EmbeddingCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "clipdex",
			Name:      "embedding_cache_total",
			Help:      "Embedding cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)
)

// Pipeline Prometheus metrics.
var (
	AssetsProcessedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "clipdex",
			Name:      "assets_processed_total",
			Help:      "Assets successfully processed per extraction path",
		},
		[]string{"path"}, // "text" / "visual"
	)

	AssetsFailedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "clipdex",
			Name:      "assets_failed_total",
			Help:      "Assets skipped or failed per extraction path",
		},
		[]string{"path", "reason"},
	)

	FramesSampledTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "clipdex",
			Name:      "frames_sampled_total",
			Help:      "Video frames successfully sampled",
		},
	)

	FrameReadFailuresTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "clipdex",
			Name:      "frame_read_failures_total",
			Help:      "Frame read failures at sampled positions",
		},
	)

	PairsComparedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "clipdex",
			Name:      "pairs_compared_total",
			Help:      "Pairwise similarity comparisons computed",
		},
	)

	PairsRejectedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "clipdex",
			Name:      "pairs_rejected_total",
			Help:      "Pair comparisons rejected",
		},
		[]string{"reason"}, // "dimension_mismatch"
	)
)

var registered bool

// Register registers all Prometheus metrics. Must be called once from main.
func Register() {
	if registered {
		return
	}
	prometheus.MustRegister(EmbeddingRequestsTotal)
	prometheus.MustRegister(EmbeddingRequestDuration)
	prometheus.MustRegister(EmbeddingTokensTotal)
	prometheus.MustRegister(EmbeddingErrorsTotal)
	prometheus.MustRegister(EmbeddingCacheTotal)
	prometheus.MustRegister(AssetsProcessedTotal)
	prometheus.MustRegister(AssetsFailedTotal)
	prometheus.MustRegister(FramesSampledTotal)
	prometheus.MustRegister(FrameReadFailuresTotal)
	prometheus.MustRegister(PairsComparedTotal)
	prometheus.MustRegister(PairsRejectedTotal)
	registered = true
}
