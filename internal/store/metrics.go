// internal/store/metrics.go

package store

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	docOpsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "docstore_operations_total",
			Help: "Total number of document store operations",
		},
		[]string{"op", "collection", "status"},
	)

	docOpDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "docstore_operation_duration_seconds",
			Help: "Latency of document store operations",
		},
		[]string{"op"},
	)

	blobUploadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "blobstore_uploads_total",
			Help: "Total number of blob uploads",
		},
		[]string{"status"},
	)

	blobUploadBytes = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "blobstore_upload_bytes",
			Help:    "Size distribution of uploaded blobs",
			Buckets: prometheus.ExponentialBuckets(1024, 4, 8),
		},
	)
)

func observeDocOp(op, collection string, start time.Time, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	docOpsTotal.WithLabelValues(op, collection, result).Inc()
	docOpDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

func observeBlobUpload(size int64, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	blobUploadsTotal.WithLabelValues(result).Inc()
	if err == nil {
		blobUploadBytes.Observe(float64(size))
	}
}
