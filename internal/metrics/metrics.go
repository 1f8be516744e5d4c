package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vtu_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "vtu_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	PurchasesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vtu_purchases_total",
			Help: "Total number of purchase attempts",
		},
		[]string{"type", "status"},
	)

	GatewayRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vtu_gateway_requests_total",
			Help: "Total number of requests to the billing gateway",
		},
		[]string{"endpoint", "status"},
	)

	GatewayRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "vtu_gateway_request_duration_seconds",
			Help:    "Billing gateway request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	WalletDebitsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "vtu_wallet_debits_total",
			Help: "Total number of successful wallet debits",
		},
	)

	UnreconciledChargesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "vtu_unreconciled_charges_total",
			Help: "External charges that succeeded but could not be debited locally",
		},
	)

	ReceiptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vtu_receipt_emails_total",
			Help: "Total number of receipt emails by outcome",
		},
		[]string{"type", "status"},
	)

	ReceiptQueueLength = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "vtu_receipt_queue_length",
			Help: "Current length of the receipt email queue",
		},
	)
)

func RecordHTTPRequest(method, path, status string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
}

func RecordPurchase(productType, status string) {
	PurchasesTotal.WithLabelValues(productType, status).Inc()
}

func RecordGatewayRequest(endpoint, status string, duration float64) {
	GatewayRequestsTotal.WithLabelValues(endpoint, status).Inc()
	GatewayRequestDuration.WithLabelValues(endpoint).Observe(duration)
}

func RecordWalletDebit() {
	WalletDebitsTotal.Inc()
}

func RecordUnreconciledCharge() {
	UnreconciledChargesTotal.Inc()
}

func RecordReceipt(receiptType, status string) {
	ReceiptsTotal.WithLabelValues(receiptType, status).Inc()
}
