package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	DownloadsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "media_downloader_downloads_total",
		Help: "Total number of download attempts",
	})

	DownloadsSuccess = promauto.NewCounter(prometheus.CounterOpts{
		Name: "media_downloader_downloads_success_total",
		Help: "Total number of successful downloads",
	})

	DownloadsFailed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "media_downloader_downloads_failed_total",
		Help: "Total number of failed downloads by error kind",
	}, []string{"kind"})

	DownloadsInProgress = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "media_downloader_downloads_in_progress",
		Help: "Number of downloads currently running",
	})

	DownloadDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "media_downloader_download_duration_seconds",
		Help:    "Download duration in seconds",
		Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600, 1800},
	})

	DownloadBytes = promauto.NewCounter(prometheus.CounterOpts{
		Name: "media_downloader_download_bytes_total",
		Help: "Total bytes placed in the download directory",
	})

	MetadataFallbacks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "media_downloader_metadata_fallbacks_total",
		Help: "Downloads that fell back to a timestamp title",
	})

	ReconcileStrategy = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "media_downloader_reconcile_strategy_total",
		Help: "Produced files located, by reconcile strategy",
	}, []string{"strategy"})

	FilesDeleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "media_downloader_files_deleted_total",
		Help: "Total number of files deleted from the download directory",
	})
)
