package gateway

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// 認証判定の結果ラベル。
// 認証情報が無い場合と不正な場合は middleware.CredentialStatus の文字列表現を使う。
const (
	outcomeBypass        = "bypass"
	outcomeInvalid       = "invalid"
	outcomeFailure       = "failure"
	outcomeCancelled     = "cancelled"
	outcomeAuthenticated = "authenticated"
)

// Metrics はgatewayのPrometheusメトリクス。
// nilレシーバーでも呼び出せるため、計測が不要なテストでは nil を渡してよい。
type Metrics struct {
	authDecisions      *prometheus.CounterVec
	validationDuration prometheus.Histogram
	forwarded          *prometheus.CounterVec
}

// NewMetrics はメトリクスを生成してregに登録する。
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		authDecisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gateway",
			Name:      "auth_decisions_total",
			Help:      "Authentication decisions made by the gateway filter, by outcome.",
		}, []string{"outcome"}),
		validationDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "gateway",
			Name:      "validation_duration_seconds",
			Help:      "Latency of token validation calls to the auth service.",
			Buckets:   prometheus.DefBuckets,
		}),
		forwarded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gateway",
			Name:      "forwarded_requests_total",
			Help:      "Requests forwarded to downstream services, by route and status code.",
		}, []string{"route", "code"}),
	}
	reg.MustRegister(m.authDecisions, m.validationDuration, m.forwarded)
	return m
}

// observeDecision は認証判定を1件記録する。
func (m *Metrics) observeDecision(outcome string) {
	if m == nil {
		return
	}
	m.authDecisions.WithLabelValues(outcome).Inc()
}

// observeValidation は検証呼び出しの所要時間を記録する。
func (m *Metrics) observeValidation(seconds float64) {
	if m == nil {
		return
	}
	m.validationDuration.Observe(seconds)
}

// observeForward は転送結果を記録する。
func (m *Metrics) observeForward(routeID string, status int) {
	if m == nil {
		return
	}
	m.forwarded.WithLabelValues(routeID, strconv.Itoa(status)).Inc()
}
