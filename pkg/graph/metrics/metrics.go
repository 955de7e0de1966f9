package metrics

import (
	"runtime"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// System metrics
	SystemMemoryUsage = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "kinship_system_memory_bytes",
		Help: "Current system memory usage",
	})

	SystemGoroutines = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "kinship_system_goroutines",
		Help: "Number of goroutines",
	})

	// Index build metrics
	IndexBuildsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kinship_index_builds_total",
			Help: "Total number of index builds by detected parent encoding",
		},
		[]string{"encoding"},
	)

	DroppedRecords = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kinship_dropped_records_total",
			Help: "Relationship records filtered out during index construction",
		},
		[]string{"reason"},
	)

	IndexPeople = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "kinship_index_people",
		Help:    "Number of people per built index",
		Buckets: prometheus.ExponentialBuckets(4, 2, 10),
	})

	// Resolution metrics
	Resolutions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kinship_resolutions_total",
			Help: "Resolved relationships by category",
		},
		[]string{"category"},
	)

	TimelineRejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kinship_timeline_rejections_total",
			Help: "Affinity candidates rejected by the timeline validator",
		},
		[]string{"rule"},
	)
)

// UpdateSystemMetrics updates system-level metrics
func UpdateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	SystemMemoryUsage.Set(float64(m.Alloc))
	SystemGoroutines.Set(float64(runtime.NumGoroutine()))
}
