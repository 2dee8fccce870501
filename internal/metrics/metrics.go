// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsCollector はメトリクス収集のインターフェース。
// サービス層およびミドルウェアから利用する。
type MetricsCollector interface {
	RecordUploadSuccess()
	RecordUploadFailure(reason string)
	RecordHTTPStatus(statusCode int)
	RecordAssetLatency(duration time.Duration)
	RecordRecipeCreated()
	RecordContactMessage()
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	uploadSuccess   prometheus.Counter
	uploadFail      *prometheus.CounterVec
	httpStatus      *prometheus.CounterVec
	assetLatency    prometheus.Histogram
	recipesCreated  prometheus.Counter
	contactMessages prometheus.Counter
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		uploadSuccess: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "recipebox_upload_success_total",
			Help: "画像アップロード成功の合計数",
		}),
		uploadFail: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "recipebox_upload_fail_total",
			Help: "画像アップロード失敗の合計数（原因別）",
		}, []string{"reason"}),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "recipebox_http_status_total",
			Help: "HTTPステータスコード別のレスポンス数",
		}, []string{"status_code"}),
		assetLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "recipebox_asset_upload_latency_seconds",
			Help:    "アセットホストへのアップロードのレイテンシ（秒）",
			Buckets: prometheus.DefBuckets,
		}),
		recipesCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "recipebox_recipes_created_total",
			Help: "作成されたレシピの合計数",
		}),
		contactMessages: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "recipebox_contact_messages_total",
			Help: "受信したお問い合わせの合計数",
		}),
	}

	reg.MustRegister(
		c.uploadSuccess,
		c.uploadFail,
		c.httpStatus,
		c.assetLatency,
		c.recipesCreated,
		c.contactMessages,
	)

	return c
}

// RecordUploadSuccess は画像アップロード成功を記録する。
func (c *Collector) RecordUploadSuccess() {
	c.uploadSuccess.Inc()
}

// RecordUploadFailure は画像アップロード失敗を原因別に記録する。
func (c *Collector) RecordUploadFailure(reason string) {
	c.uploadFail.WithLabelValues(reason).Inc()
}

// RecordHTTPStatus はHTTPステータスコードを記録する。
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// RecordAssetLatency はアセットホストへのアップロードのレイテンシを記録する。
func (c *Collector) RecordAssetLatency(duration time.Duration) {
	c.assetLatency.Observe(duration.Seconds())
}

// RecordRecipeCreated はレシピ作成を記録する。
func (c *Collector) RecordRecipeCreated() {
	c.recipesCreated.Inc()
}

// RecordContactMessage はお問い合わせ受信を記録する。
func (c *Collector) RecordContactMessage() {
	c.contactMessages.Inc()
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
