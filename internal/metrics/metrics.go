// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	requestsTotal     *prometheus.CounterVec
	requestLatency    prometheus.Histogram
	usersCreated      prometheus.Counter
	exercisesAppended prometheus.Counter
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "exertrack_http_requests_total",
			Help: "HTTPステータスコード別のリクエスト数",
		}, []string{"status_code"}),
		requestLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "exertrack_http_request_duration_seconds",
			Help:    "HTTPリクエスト処理のレイテンシ（秒）",
			Buckets: prometheus.DefBuckets,
		}),
		usersCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "exertrack_users_created_total",
			Help: "登録されたユーザーの合計数",
		}),
		exercisesAppended: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "exertrack_exercises_appended_total",
			Help: "ログに追加されたエクササイズの合計数",
		}),
	}

	reg.MustRegister(
		c.requestsTotal,
		c.requestLatency,
		c.usersCreated,
		c.exercisesAppended,
	)

	return c
}

// RecordHTTPRequest はHTTPステータスコードとレイテンシを記録する。
func (c *Collector) RecordHTTPRequest(statusCode int, duration time.Duration) {
	c.requestsTotal.WithLabelValues(strconv.Itoa(statusCode)).Inc()
	c.requestLatency.Observe(duration.Seconds())
}

// RecordUserCreated はユーザー登録を記録する。
func (c *Collector) RecordUserCreated() {
	c.usersCreated.Inc()
}

// RecordExerciseAppended はエクササイズ追加を記録する。
func (c *Collector) RecordExerciseAppended() {
	c.exercisesAppended.Inc()
}

// metricsRecorder はhttp.ResponseWriterをラップし、ステータスコードを記録する。
type metricsRecorder struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

func (mr *metricsRecorder) WriteHeader(code int) {
	if !mr.written {
		mr.statusCode = code
		mr.written = true
	}
	mr.ResponseWriter.WriteHeader(code)
}

func (mr *metricsRecorder) Write(b []byte) (int, error) {
	if !mr.written {
		mr.statusCode = http.StatusOK
		mr.written = true
	}
	return mr.ResponseWriter.Write(b)
}

// Middleware は全リクエストのステータスコードとレイテンシを記録するミドルウェアを返す。
func (c *Collector) Middleware() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			rec := &metricsRecorder{
				ResponseWriter: w,
				statusCode:     http.StatusOK,
			}

			next.ServeHTTP(rec, r)

			c.RecordHTTPRequest(rec.statusCode, time.Since(start))
		})
	}
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
