package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordHTTPRequest(t *testing.T) {
	HTTPRequestsTotal.Reset()
	HTTPRequestDuration.Reset()

	RecordHTTPRequest("POST", "/api/v1/subscribe/data", "200", 0.5)

	count := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("POST", "/api/v1/subscribe/data", "200"))
	assert.Equal(t, float64(1), count)
}

func TestRecordHTTPRequestMultiple(t *testing.T) {
	HTTPRequestsTotal.Reset()

	RecordHTTPRequest("POST", "/api/v1/auth/login", "200", 0.1)
	RecordHTTPRequest("POST", "/api/v1/auth/login", "200", 0.2)
	RecordHTTPRequest("POST", "/api/v1/auth/login", "401", 0.05)

	successCount := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("POST", "/api/v1/auth/login", "200"))
	failCount := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("POST", "/api/v1/auth/login", "401"))

	assert.Equal(t, float64(2), successCount)
	assert.Equal(t, float64(1), failCount)
}

func TestRecordPurchase(t *testing.T) {
	PurchasesTotal.Reset()

	RecordPurchase("data", "success")
	RecordPurchase("data", "failed")
	RecordPurchase("airtime", "success")

	dataSuccess := testutil.ToFloat64(PurchasesTotal.WithLabelValues("data", "success"))
	dataFailed := testutil.ToFloat64(PurchasesTotal.WithLabelValues("data", "failed"))
	airtimeSuccess := testutil.ToFloat64(PurchasesTotal.WithLabelValues("airtime", "success"))

	assert.Equal(t, float64(1), dataSuccess)
	assert.Equal(t, float64(1), dataFailed)
	assert.Equal(t, float64(1), airtimeSuccess)
}

func TestRecordGatewayRequest(t *testing.T) {
	GatewayRequestsTotal.Reset()
	GatewayRequestDuration.Reset()

	RecordGatewayRequest("/data", "200", 0.3)
	RecordGatewayRequest("/data", "500", 1.2)

	okCount := testutil.ToFloat64(GatewayRequestsTotal.WithLabelValues("/data", "200"))
	errCount := testutil.ToFloat64(GatewayRequestsTotal.WithLabelValues("/data", "500"))

	assert.Equal(t, float64(1), okCount)
	assert.Equal(t, float64(1), errCount)
}

func TestRecordWalletDebit(t *testing.T) {
	testCounter := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "vtu_wallet_debits_total_test",
			Help: "Total number of successful wallet debits",
		},
	)

	oldCounter := WalletDebitsTotal
	WalletDebitsTotal = testCounter
	defer func() { WalletDebitsTotal = oldCounter }()

	RecordWalletDebit()
	RecordWalletDebit()

	assert.Equal(t, float64(2), testutil.ToFloat64(testCounter))
}

func TestRecordUnreconciledCharge(t *testing.T) {
	testCounter := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "vtu_unreconciled_charges_total_test",
			Help: "External charges that succeeded but could not be debited locally",
		},
	)

	oldCounter := UnreconciledChargesTotal
	UnreconciledChargesTotal = testCounter
	defer func() { UnreconciledChargesTotal = oldCounter }()

	RecordUnreconciledCharge()

	assert.Equal(t, float64(1), testutil.ToFloat64(testCounter))
}

func TestRecordReceipt(t *testing.T) {
	ReceiptsTotal.Reset()

	RecordReceipt("purchase", "success")
	RecordReceipt("purchase", "failed")
	RecordReceipt("welcome", "success")

	purchaseSuccess := testutil.ToFloat64(ReceiptsTotal.WithLabelValues("purchase", "success"))
	purchaseFailed := testutil.ToFloat64(ReceiptsTotal.WithLabelValues("purchase", "failed"))
	welcomeSuccess := testutil.ToFloat64(ReceiptsTotal.WithLabelValues("welcome", "success"))

	assert.Equal(t, float64(1), purchaseSuccess)
	assert.Equal(t, float64(1), purchaseFailed)
	assert.Equal(t, float64(1), welcomeSuccess)
}

func TestReceiptQueueLength(t *testing.T) {
	ReceiptQueueLength.Set(10)
	assert.Equal(t, float64(10), testutil.ToFloat64(ReceiptQueueLength))

	ReceiptQueueLength.Set(0)
	assert.Equal(t, float64(0), testutil.ToFloat64(ReceiptQueueLength))
}
