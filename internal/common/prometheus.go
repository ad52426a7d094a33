package common

import "github.com/prometheus/client_golang/prometheus"

const (
	HTTPRequestTotal           = "http_requests_total"
	HTTPRequestDurationSeconds = "http_request_duration_seconds"
	PointsCreditedTotal        = "arkana_points_credited_total"
	PointsDebitedTotal         = "arkana_points_debited_total"
	SpinWheelPlayTotal         = "arkana_spin_wheel_play_total"
	RewardFinalizedTotal       = "arkana_reward_finalized_total"
)

var (
	PromCounters = map[string]*prometheus.CounterVec{
		HTTPRequestTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: HTTPRequestTotal,
			Help: "Count of all HTTP requests",
		}, []string{"path", "status_code"}),
		PointsCreditedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: PointsCreditedTotal,
			Help: "Sum of all credited points",
		}, []string{"reason"}),
		PointsDebitedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: PointsDebitedTotal,
			Help: "Sum of all debited points",
		}, []string{"reason"}),
		SpinWheelPlayTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: SpinWheelPlayTotal,
			Help: "Count of spin wheel plays",
		}, []string{"payout"}),
		RewardFinalizedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: RewardFinalizedTotal,
			Help: "Count of finalized rewards",
		}, []string{"trigger"}),
	}

	PromHistograms = map[string]*prometheus.HistogramVec{
		HTTPRequestDurationSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name: HTTPRequestDurationSeconds,
			Help: "Duration of all HTTP requests",
		}, []string{"path", "status_code"}),
	}
)
