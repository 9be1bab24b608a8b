package presale

import (
	"strconv"

	"github.com/gaze-network/presale/modules/presale/internal/entity"
	"github.com/gaze-network/presale/modules/presale/reason"
	"github.com/gaze-network/presale/pkg/decimals"
	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "presale"

// Metrics are registered in a dedicated registry so that several engines
// (tests, CLI) never collide on the default registry.
type Metrics struct {
	registry *prometheus.Registry

	purchases     *prometheus.CounterVec
	rejections    *prometheus.CounterVec
	claims        prometheus.Counter
	paymentTotal  prometheus.Counter
	totalRaised   prometheus.Gauge
	totalVested   prometheus.Gauge
	tierCount     prometheus.Gauge
	paused        prometheus.Gauge
	refundsIssued prometheus.Counter
}

func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		registry: reg,
		purchases: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "purchases_total",
			Help:      "Accepted purchases by tier and delivery mode.",
		}, []string{"tier", "delivery"}),
		rejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "rejections_total",
			Help:      "Rejected operations by operation and reason.",
		}, []string{"operation", "reason"}),
		claims: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "claims_total",
			Help:      "Successful vesting claims.",
		}),
		paymentTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "payment_tokens_received_total",
			Help:      "Payment tokens received, in whole tokens.",
		}),
		totalRaised: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "total_raised",
			Help:      "Total raised, in whole payment tokens.",
		}),
		totalVested: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "total_vested",
			Help:      "Outstanding vested balance, in whole sale tokens.",
		}),
		tierCount: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "tier_count",
			Help:      "Number of price tiers.",
		}),
		paused: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "paused",
			Help:      "1 while the presale is paused.",
		}),
		refundsIssued: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "refunds_total",
			Help:      "Payments refunded after a failed delivery.",
		}),
	}

	reg.MustRegister(
		m.purchases,
		m.rejections,
		m.claims,
		m.paymentTotal,
		m.totalRaised,
		m.totalVested,
		m.tierCount,
		m.paused,
		m.refundsIssued,
	)
	return m
}

// Registry returns the registry to expose on /metrics.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) observeState(state *entity.State, tiers int) {
	m.totalRaised.Set(decimals.ToFloat64(state.TotalRaised, state.PaymentDecimals))
	m.totalVested.Set(decimals.ToFloat64(state.TotalVested, state.SaleDecimals))
	m.tierCount.Set(float64(tiers))
	if state.Paused {
		m.paused.Set(1)
	} else {
		m.paused.Set(0)
	}
}

func (m *Metrics) observePurchase(purchase *entity.Purchase, paymentDecimals uint8) {
	delivery := "vested"
	if purchase.Delivered {
		delivery = "immediate"
	}
	m.purchases.WithLabelValues(strconv.Itoa(purchase.TierIndex), delivery).Inc()
	m.paymentTotal.Add(decimals.ToFloat64(purchase.Amount, paymentDecimals))
}

func (m *Metrics) observeClaim() {
	m.claims.Inc()
}

func (m *Metrics) observeRejection(operation string, err error) {
	r, ok := reason.From(err)
	if !ok {
		r = "Internal"
	}
	m.rejections.WithLabelValues(operation, string(r)).Inc()
}

func (m *Metrics) observeRefund() {
	m.refundsIssued.Inc()
}
