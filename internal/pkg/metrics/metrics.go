package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics はアプリケーションのメトリクスを管理する
type Metrics struct {
	// HTTPリクエストの総数（method, path, status_code）
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTPリクエストのレイテンシ（method, path）
	HTTPRequestDuration *prometheus.HistogramVec

	// 予約試行の総数（status: confirmed, validation_error, not_found,
	// seat_unavailable, persistence_error）
	ReservationsTotal *prometheus.CounterVec

	// 座席マップのバージョン競合によるコミット再試行の総数
	CommitConflictsTotal prometheus.Counter

	// 1予約あたりのコミット試行回数
	CommitAttempts prometheus.Histogram

	// 部分コミット補償の総数（action: reappend, release, failed）
	CompensationsTotal *prometheus.CounterVec
}

// New は新しいMetricsインスタンスを作成し、デフォルトレジストリに登録する
func New() *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry は指定したレジストリにメトリクスを登録する
func NewWithRegistry(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status_code"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		ReservationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "reservations_total",
				Help: "Total number of reservation attempts by outcome",
			},
			[]string{"status"},
		),
		CommitConflictsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "seat_map_commit_conflicts_total",
				Help: "Total number of optimistic commit retries caused by version conflicts",
			},
		),
		CommitAttempts: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "seat_map_commit_attempts",
				Help:    "Number of commit attempts needed per reservation",
				Buckets: []float64{1, 2, 3, 4, 5},
			},
		),
		CompensationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "reservation_compensations_total",
				Help: "Total number of partial-commit compensations by action",
			},
			[]string{"action"},
		),
	}

	// レジストリに登録
	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.ReservationsTotal,
		m.CommitConflictsTotal,
		m.CommitAttempts,
		m.CompensationsTotal,
	)

	return m
}

// デフォルトのメトリクスインスタンス
var defaultMetrics *Metrics

// Init はデフォルトのメトリクスインスタンスを初期化する
func Init() *Metrics {
	defaultMetrics = New()
	return defaultMetrics
}

// Get はデフォルトのメトリクスインスタンスを返す
func Get() *Metrics {
	return defaultMetrics
}
