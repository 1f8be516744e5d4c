package purchase

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/Minister-Isaac/Vtu-Backend/internal/account"
	"github.com/Minister-Isaac/Vtu-Backend/internal/gateway"
	"github.com/Minister-Isaac/Vtu-Backend/internal/metrics"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockGateway is a mock implementation of gateway.Client
type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) BuyData(ctx context.Context, req gateway.DataRequest) (*gateway.PurchaseResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gateway.PurchaseResult), args.Error(1)
}

func (m *MockGateway) BuyAirtime(ctx context.Context, req gateway.AirtimeRequest) (*gateway.PurchaseResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gateway.PurchaseResult), args.Error(1)
}

func (m *MockGateway) PayElectricity(ctx context.Context, req gateway.ElectricityRequest) (*gateway.PurchaseResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gateway.PurchaseResult), args.Error(1)
}

func (m *MockGateway) BuyCable(ctx context.Context, req gateway.CableRequest) (*gateway.PurchaseResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gateway.PurchaseResult), args.Error(1)
}

func (m *MockGateway) ListDataTransactions(ctx context.Context) (json.RawMessage, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(json.RawMessage), args.Error(1)
}

func (m *MockGateway) QueryData(ctx context.Context, transactionID string) (json.RawMessage, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(json.RawMessage), args.Error(1)
}

func (m *MockGateway) QueryAirtime(ctx context.Context, transactionID string) (json.RawMessage, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(json.RawMessage), args.Error(1)
}

func (m *MockGateway) QueryElectricity(ctx context.Context, transactionID string) (json.RawMessage, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(json.RawMessage), args.Error(1)
}

func (m *MockGateway) QueryCable(ctx context.Context, transactionID string) (json.RawMessage, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(json.RawMessage), args.Error(1)
}

func (m *MockGateway) ValidateIUC(ctx context.Context, smartCardNumber, cableName string) (json.RawMessage, error) {
	args := m.Called(ctx, smartCardNumber, cableName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(json.RawMessage), args.Error(1)
}

func (m *MockGateway) ValidateMeter(ctx context.Context, meterNumber, discoName, meterType string) (json.RawMessage, error) {
	args := m.Called(ctx, meterNumber, discoName, meterType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(json.RawMessage), args.Error(1)
}

// MockAccounts is a mock implementation of account.Repository
type MockAccounts struct {
	mock.Mock
}

func (m *MockAccounts) GetByUserID(ctx context.Context, userID int) (*account.Account, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*account.Account), args.Error(1)
}

func (m *MockAccounts) Debit(ctx context.Context, userID int, amount int64, txType, reference string, metadata []byte) (*account.Transaction, error) {
	args := m.Called(ctx, userID, amount, txType, reference, metadata)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*account.Transaction), args.Error(1)
}

func (m *MockAccounts) ListTransactions(ctx context.Context, userID, limit, offset int) ([]account.Transaction, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]account.Transaction), args.Error(1)
}

func TestBuyData_ChargesDiscountedAmount(t *testing.T) {
	gw := new(MockGateway)
	accounts := new(MockAccounts)
	raw := json.RawMessage(`{"id": 4102, "Status": "successful", "discountAmount": 970}`)

	gw.On("BuyData", mock.Anything, gateway.DataRequest{
		Network: "MTN",
		Phone:   "08031234567",
		Plan:    "212",
	}).Return(&gateway.PurchaseResult{
		Reference:      "4102",
		DiscountAmount: 970,
		Raw:            raw,
	}, nil)
	accounts.On("Debit", mock.Anything, 1, int64(970), account.TypeData, "4102", []byte(raw)).
		Return(&account.Transaction{ID: 1, Reference: "4102"}, nil)

	svc := NewService(gw, accounts, nil, nil)
	got, err := svc.BuyData(context.Background(), 1, DataPurchaseRequest{
		Network: "MTN",
		Phone:   "08031234567",
		Plan:    "212",
	})

	assert.NoError(t, err)
	assert.Equal(t, raw, got)
	gw.AssertExpectations(t)
	accounts.AssertExpectations(t)
}

// Insufficient balance is only discovered at debit time, after the provider
// has already accepted the charge. The failure must be flagged, not hidden.
func TestBuyData_InsufficientBalanceFlagsUnreconciledCharge(t *testing.T) {
	gw := new(MockGateway)
	accounts := new(MockAccounts)
	raw := json.RawMessage(`{"id": 4103, "Status": "successful", "discountAmount": 970}`)

	gw.On("BuyData", mock.Anything, mock.Anything).Return(&gateway.PurchaseResult{
		Reference:      "4103",
		DiscountAmount: 970,
		Raw:            raw,
	}, nil)
	accounts.On("Debit", mock.Anything, 1, int64(970), account.TypeData, "4103", []byte(raw)).
		Return(nil, account.ErrInsufficientBalance)

	before := testutil.ToFloat64(metrics.UnreconciledChargesTotal)

	svc := NewService(gw, accounts, nil, nil)
	got, err := svc.BuyData(context.Background(), 1, DataPurchaseRequest{
		Network: "MTN",
		Phone:   "08031234567",
		Plan:    "212",
	})

	assert.ErrorIs(t, err, account.ErrInsufficientBalance)
	assert.Nil(t, got)
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.UnreconciledChargesTotal))
}

func TestBuyAirtime_ProviderFailureSkipsDebit(t *testing.T) {
	gw := new(MockGateway)
	accounts := new(MockAccounts)

	gw.On("BuyAirtime", mock.Anything, mock.Anything).Return(nil, &gateway.APIError{
		StatusCode: 502,
		Body:       []byte(`{"error": "network unavailable"}`),
	})

	svc := NewService(gw, accounts, nil, nil)
	got, err := svc.BuyAirtime(context.Background(), 1, AirtimePurchaseRequest{
		Network:     "GLO",
		Phone:       "08051234567",
		Amount:      500,
		AirtimeType: "VTU",
	})

	assert.Error(t, err)
	assert.Nil(t, got)

	var apiErr *gateway.APIError
	assert.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 502, apiErr.StatusCode)
	accounts.AssertNotCalled(t, "Debit", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestPayElectricity_ChargesCallerAmount(t *testing.T) {
	gw := new(MockGateway)
	accounts := new(MockAccounts)
	raw := json.RawMessage(`{"id": 77, "Status": "successful"}`)

	gw.On("PayElectricity", mock.Anything, gateway.ElectricityRequest{
		DiscoName:   "Ikeja Electric",
		Amount:      3000,
		MeterNumber: "45012345678",
		MeterType:   "prepaid",
	}).Return(&gateway.PurchaseResult{Reference: "77", Raw: raw}, nil)
	accounts.On("Debit", mock.Anything, 1, int64(3000), account.TypeElectricity, "77", []byte(raw)).
		Return(&account.Transaction{ID: 2, Reference: "77"}, nil)

	svc := NewService(gw, accounts, nil, nil)
	got, err := svc.PayElectricity(context.Background(), 1, ElectricityPurchaseRequest{
		DiscoName:   "Ikeja Electric",
		Amount:      3000,
		MeterNumber: "45012345678",
		MeterType:   "prepaid",
	})

	assert.NoError(t, err)
	assert.Equal(t, raw, got)
	accounts.AssertExpectations(t)
}

func TestBuyCable_DebitFailureFlagsUnreconciledCharge(t *testing.T) {
	gw := new(MockGateway)
	accounts := new(MockAccounts)
	raw := json.RawMessage(`{"id": 9, "Status": "successful"}`)

	gw.On("BuyCable", mock.Anything, mock.Anything).Return(&gateway.PurchaseResult{Reference: "9", Raw: raw}, nil)
	accounts.On("Debit", mock.Anything, 1, int64(2500), account.TypeCable, "9", []byte(raw)).
		Return(nil, errors.New("connection reset"))

	before := testutil.ToFloat64(metrics.UnreconciledChargesTotal)

	svc := NewService(gw, accounts, nil, nil)
	got, err := svc.BuyCable(context.Background(), 1, CablePurchaseRequest{
		CableName:       "GOTV",
		CablePlan:       "35",
		SmartCardNumber: "1234567890",
		Amount:          2500,
	})

	assert.Error(t, err)
	assert.Nil(t, got)
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.UnreconciledChargesTotal))
}

func TestQueryAndValidationPassthrough(t *testing.T) {
	gw := new(MockGateway)
	raw := json.RawMessage(`{"Status": "successful"}`)

	gw.On("QueryData", mock.Anything, "4102").Return(raw, nil)
	gw.On("ValidateMeter", mock.Anything, "45012345678", "Ikeja Electric", "prepaid").Return(raw, nil)

	svc := NewService(gw, new(MockAccounts), nil, nil)

	got, err := svc.QueryData(context.Background(), "4102")
	assert.NoError(t, err)
	assert.Equal(t, raw, got)

	got, err = svc.ValidateMeter(context.Background(), "45012345678", "Ikeja Electric", "prepaid")
	assert.NoError(t, err)
	assert.Equal(t, raw, got)
	gw.AssertExpectations(t)
}
