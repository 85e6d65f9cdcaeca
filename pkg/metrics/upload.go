package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// Latency of the submission upload handler
	UploadDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "fraudbench_upload_latency_seconds",
		Help:    "Latency of the prediction upload endpoint",
		Buckets: prometheus.DefBuckets,
	})

	// Uploads by outcome (scored, invalid, quota_exceeded, failed)
	UploadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fraudbench_uploads_total",
			Help: "Total prediction uploads by outcome",
		},
		[]string{"outcome"},
	)

	QuotaResetsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "fraudbench_quota_resets_total",
		Help: "Total midnight quota reset runs",
	})

	LeaderboardRequestsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "fraudbench_leaderboard_requests_total",
		Help: "Total leaderboard reads served",
	})
)

func Init() {
	prometheus.MustRegister(
		UploadDuration,
		UploadsTotal,
		QuotaResetsTotal,
		LeaderboardRequestsTotal,
	)
}
