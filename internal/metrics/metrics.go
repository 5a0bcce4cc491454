// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsCollector はメトリクス収集のインターフェース。
// ワーカーやサービス層から利用する。
type MetricsCollector interface {
	RecordScheduleApplied(animePlatformID string)
	RecordCadenceAdvanced(animePlatformID string)
	RecordStatusTransition(status string)
	RecordAdvanceFailure(reason string)
	RecordConflictDrop()
	RecordSweepDuration(duration time.Duration)
	RecordTimelineLatency(duration time.Duration)
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	scheduleApplied  prometheus.Counter
	cadenceAdvanced  prometheus.Counter
	statusTransition *prometheus.CounterVec
	advanceFail      *prometheus.CounterVec
	conflictDrop     prometheus.Counter
	sweepDuration    prometheus.Histogram
	timelineLatency  prometheus.Histogram
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		scheduleApplied: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "anischedule_schedule_applied_total",
			Help: "適用されたキュレーション済みスケジュール行の合計数",
		}),
		cadenceAdvanced: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "anischedule_cadence_advanced_total",
			Help: "固定周期で進行したエピソードの合計数",
		}),
		statusTransition: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "anischedule_status_transition_total",
			Help: "ステータス遷移の合計数（遷移先別）",
		}, []string{"status"}),
		advanceFail: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "anischedule_advance_fail_total",
			Help: "スイープ中の行単位の失敗の合計数（理由別）",
		}, []string{"reason"}),
		conflictDrop: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "anischedule_conflict_drop_total",
			Help: "楽観的更新の競合により破棄された進行の合計数",
		}),
		sweepDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "anischedule_sweep_duration_seconds",
			Help:    "Advancerスイープ1回の所要時間（秒）",
			Buckets: prometheus.DefBuckets,
		}),
		timelineLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "anischedule_timeline_latency_seconds",
			Help:    "タイムライン構築のレイテンシ（秒）",
			Buckets: prometheus.DefBuckets,
		}),
	}

	reg.MustRegister(
		c.scheduleApplied,
		c.cadenceAdvanced,
		c.statusTransition,
		c.advanceFail,
		c.conflictDrop,
		c.sweepDuration,
		c.timelineLatency,
	)

	return c
}

// RecordScheduleApplied はキュレーション済みスケジュール行の適用を記録する。
func (c *Collector) RecordScheduleApplied(animePlatformID string) {
	c.scheduleApplied.Inc()
}

// RecordCadenceAdvanced は固定周期によるエピソード進行を記録する。
func (c *Collector) RecordCadenceAdvanced(animePlatformID string) {
	c.cadenceAdvanced.Inc()
}

// RecordStatusTransition はアニメのステータス遷移を記録する。
func (c *Collector) RecordStatusTransition(status string) {
	c.statusTransition.WithLabelValues(status).Inc()
}

// RecordAdvanceFailure はスイープ中の行単位の失敗を記録する。
func (c *Collector) RecordAdvanceFailure(reason string) {
	c.advanceFail.WithLabelValues(reason).Inc()
}

// RecordConflictDrop は楽観的更新の競合による破棄を記録する。
func (c *Collector) RecordConflictDrop() {
	c.conflictDrop.Inc()
}

// RecordSweepDuration はスイープ1回の所要時間を記録する。
func (c *Collector) RecordSweepDuration(duration time.Duration) {
	c.sweepDuration.Observe(duration.Seconds())
}

// RecordTimelineLatency はタイムライン構築のレイテンシを記録する。
func (c *Collector) RecordTimelineLatency(duration time.Duration) {
	c.timelineLatency.Observe(duration.Seconds())
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// SetupMetricsRoute は/metricsエンドポイントを提供するHTTPハンドラーを返す。
// Prometheusスクレイプに対応する。
func SetupMetricsRoute(gatherer prometheus.Gatherer) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler(gatherer))
	return mux
}
