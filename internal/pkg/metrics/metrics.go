package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"
)

// Metrics agrupa os coletores de negócio e HTTP da API.
// Um *Metrics nil é válido e não registra nada (útil em testes).
type Metrics struct {
	registry          *prometheus.Registry
	ordersPlaced      *prometheus.CounterVec
	orderFailures     *prometheus.CounterVec
	orderValue        prometheus.Histogram
	statusTransitions *prometheus.CounterVec
	httpDuration      *prometheus.HistogramVec
}

// New registra os coletores num registry próprio, junto com os coletores do runtime Go.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		ordersPlaced: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "uaifood_orders_placed_total",
			Help: "Pedidos criados com sucesso, por forma de pagamento.",
		}, []string{"payment_method"}),
		orderFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "uaifood_order_failures_total",
			Help: "Tentativas de pedido rejeitadas, por categoria de erro.",
		}, []string{"category"}),
		orderValue: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "uaifood_order_total_brl",
			Help:    "Valor total dos pedidos criados em reais.",
			Buckets: []float64{20, 40, 60, 80, 100, 150, 200, 300, 500},
		}),
		statusTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "uaifood_order_status_transitions_total",
			Help: "Transições de status aplicadas.",
		}, []string{"from", "to"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "uaifood_http_request_duration_seconds",
			Help:    "Duração das requisições HTTP.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.ordersPlaced, m.orderFailures, m.orderValue, m.statusTransitions, m.httpDuration,
	)
	return m
}

// Handler expõe o endpoint /metrics.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) OrderPlaced(paymentMethod string, total decimal.Decimal) {
	if m == nil {
		return
	}
	m.ordersPlaced.WithLabelValues(paymentMethod).Inc()
	value, _ := total.Float64()
	m.orderValue.Observe(value)
}

func (m *Metrics) OrderFailed(category string) {
	if m == nil {
		return
	}
	m.orderFailures.WithLabelValues(category).Inc()
}

func (m *Metrics) StatusTransition(from, to string) {
	if m == nil {
		return
	}
	m.statusTransitions.WithLabelValues(from, to).Inc()
}

// ObserveHTTP registra a duração de uma requisição. route deve ser o padrão
// da rota (ex.: /api/v1/orders/{id}) para manter a cardinalidade baixa.
func (m *Metrics) ObserveHTTP(method, route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.httpDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(d.Seconds())
}
