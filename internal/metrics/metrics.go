// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsCollector はメトリクス収集のインターフェース。
// 発見サービスから利用する。
type MetricsCollector interface {
	RecordDiscoverySuccess()
	RecordDiscoveryFailure(code string)
	RecordDiscoveryLatency(duration time.Duration)
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	discoverySuccess prometheus.Counter
	discoveryFail    *prometheus.CounterVec
	discoveryLatency prometheus.Histogram
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		discoverySuccess: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "feedgate_discovery_success_total",
			Help: "フィード発見成功の合計数",
		}),
		discoveryFail: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "feedgate_discovery_fail_total",
			Help: "エラーコード別のフィード発見失敗数",
		}, []string{"code"}),
		discoveryLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "feedgate_discovery_latency_seconds",
			Help:    "フィード発見操作のレイテンシ（秒）",
			Buckets: prometheus.DefBuckets,
		}),
	}

	reg.MustRegister(
		c.discoverySuccess,
		c.discoveryFail,
		c.discoveryLatency,
	)

	return c
}

// RecordDiscoverySuccess は発見成功を記録する。
func (c *Collector) RecordDiscoverySuccess() {
	c.discoverySuccess.Inc()
}

// RecordDiscoveryFailure はエラーコード付きで発見失敗を記録する。
func (c *Collector) RecordDiscoveryFailure(code string) {
	c.discoveryFail.WithLabelValues(code).Inc()
}

// RecordDiscoveryLatency は発見操作のレイテンシを記録する。
func (c *Collector) RecordDiscoveryLatency(duration time.Duration) {
	c.discoveryLatency.Observe(duration.Seconds())
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// compile-time interface check
var _ MetricsCollector = (*Collector)(nil)
