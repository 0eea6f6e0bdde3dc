// Package metrics Prometheus 指标，统一注册到默认 Registry，由 /metrics 暴露。
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "planner_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "planner_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	HTTPInflight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "planner_http_inflight_requests",
			Help: "Number of HTTP requests currently being served",
		},
	)

	// RecordChangesTotal 课程 / 作业 / 成绩记录的写操作次数
	RecordChangesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "planner_record_changes_total",
			Help: "Total number of successful record mutations",
		},
		[]string{"entity", "action"},
	)

	// RemoteFailuresTotal 远程记录服务调用失败（已降级处理）
	RemoteFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "planner_remote_failures_total",
			Help: "Total number of failed calls to the hosted record service",
		},
		[]string{"table", "op"},
	)

	GradeScoreHistogram = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "planner_assignment_grade",
			Help:    "Distribution of recorded assignment grades",
			Buckets: prometheus.LinearBuckets(0, 10, 11),
		},
		[]string{"course_id"},
	)
)
