package engine

import (
	"github.com/prometheus/client_golang/prometheus"

	orderbookv1 "github.com/52tanbivv/coin-exchange-backend/internal/domain/orderbook/v1"
)

// Metrics instruments the matching core. All series are updated from
// pipeline consumers, so no matching-path code ever blocks on a scrape.
type Metrics struct {
	registry *prometheus.Registry

	inputsTotal     *prometheus.CounterVec
	eventsTotal     *prometheus.CounterVec
	tradesTotal     *prometheus.CounterVec
	journalFailures prometheus.Counter
	publishFailures prometheus.Counter
	inputSequence   prometheus.Gauge
}

// NewMetrics registers the exchange series on a fresh registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		inputsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "exchange",
			Name:      "inputs_total",
			Help:      "Input payloads consumed, by kind.",
		}, []string{"kind"}),
		eventsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "exchange",
			Name:      "events_total",
			Help:      "Output events emitted, by type.",
		}, []string{"type"}),
		tradesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "exchange",
			Name:      "trades_total",
			Help:      "Trades executed, by pair.",
		}, []string{"pair"}),
		journalFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "exchange",
			Name:      "journal_failures_total",
			Help:      "Journal writes that failed and were skipped.",
		}),
		publishFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "exchange",
			Name:      "publish_failures_total",
			Help:      "Event publishes that failed and were skipped.",
		}),
		inputSequence: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "exchange",
			Name:      "input_sequence",
			Help:      "Last input sequence seen by the matching consumer.",
		}),
	}
	m.registry.MustRegister(
		m.inputsTotal,
		m.eventsTotal,
		m.tradesTotal,
		m.journalFailures,
		m.publishFailures,
		m.inputSequence,
	)
	return m
}

// Registry returns the registry backing the /metrics endpoint.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveInput implements the input pipeline consumer.
func (m *Metrics) ObserveInput(sequence uint64, payload orderbookv1.InputPayload) {
	m.inputsTotal.WithLabelValues(string(payload.Kind)).Inc()
	m.inputSequence.Set(float64(sequence))
}

// ObserveEvent implements the output pipeline consumer.
func (m *Metrics) ObserveEvent(_ uint64, event orderbookv1.Event) {
	m.eventsTotal.WithLabelValues(string(event.Type)).Inc()
	if event.Type == orderbookv1.EventTradeExecuted {
		m.tradesTotal.WithLabelValues(string(event.Pair)).Inc()
	}
}

// JournalFailure counts one skipped journal write.
func (m *Metrics) JournalFailure() {
	m.journalFailures.Inc()
}

// PublishFailure counts one skipped event publish.
func (m *Metrics) PublishFailure() {
	m.publishFailures.Inc()
}
