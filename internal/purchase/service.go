// Package purchase orchestrates paid product flows: it places the order
// with the billing provider, then debits the caller's wallet and records
// the transaction. The wallet is only checked at debit time, under the
// account row lock. Query and validation endpoints pass through to the
// provider without touching the wallet.
package purchase

import (
	"context"
	"encoding/json"

	"github.com/Minister-Isaac/Vtu-Backend/internal/account"
	"github.com/Minister-Isaac/Vtu-Backend/internal/gateway"
	"github.com/Minister-Isaac/Vtu-Backend/internal/logger"
	"github.com/Minister-Isaac/Vtu-Backend/internal/metrics"
	"github.com/Minister-Isaac/Vtu-Backend/internal/receipt"
	"github.com/Minister-Isaac/Vtu-Backend/internal/user"
)

type Service interface {
	BuyData(ctx context.Context, userID int, req DataPurchaseRequest) (json.RawMessage, error)
	BuyAirtime(ctx context.Context, userID int, req AirtimePurchaseRequest) (json.RawMessage, error)
	PayElectricity(ctx context.Context, userID int, req ElectricityPurchaseRequest) (json.RawMessage, error)
	BuyCable(ctx context.Context, userID int, req CablePurchaseRequest) (json.RawMessage, error)

	DataHistory(ctx context.Context) (json.RawMessage, error)
	QueryData(ctx context.Context, transactionID string) (json.RawMessage, error)
	QueryAirtime(ctx context.Context, transactionID string) (json.RawMessage, error)
	QueryElectricity(ctx context.Context, transactionID string) (json.RawMessage, error)
	QueryCable(ctx context.Context, transactionID string) (json.RawMessage, error)
	ValidateIUC(ctx context.Context, smartCardNumber, cableName string) (json.RawMessage, error)
	ValidateMeter(ctx context.Context, meterNumber, discoName, meterType string) (json.RawMessage, error)
}

type service struct {
	gateway  gateway.Client
	accounts account.Repository
	users    user.Repository
	receipts *receipt.Service
}

func NewService(gw gateway.Client, accounts account.Repository, users user.Repository, receipts *receipt.Service) Service {
	return &service{
		gateway:  gw,
		accounts: accounts,
		users:    users,
		receipts: receipts,
	}
}

func (s *service) BuyData(ctx context.Context, userID int, req DataPurchaseRequest) (json.RawMessage, error) {
	result, err := s.gateway.BuyData(ctx, gateway.DataRequest{
		Network: req.Network,
		Phone:   req.Phone,
		Plan:    req.Plan,
	})
	if err != nil {
		metrics.RecordPurchase(account.TypeData, account.StatusFailed)
		return nil, err
	}

	// Data plans are charged at the provider's discounted price.
	return s.settle(ctx, userID, account.TypeData, result.DiscountAmount, result)
}

func (s *service) BuyAirtime(ctx context.Context, userID int, req AirtimePurchaseRequest) (json.RawMessage, error) {
	result, err := s.gateway.BuyAirtime(ctx, gateway.AirtimeRequest{
		Network:     req.Network,
		Phone:       req.Phone,
		Amount:      req.Amount,
		AirtimeType: req.AirtimeType,
	})
	if err != nil {
		metrics.RecordPurchase(account.TypeAirtime, account.StatusFailed)
		return nil, err
	}

	return s.settle(ctx, userID, account.TypeAirtime, req.Amount, result)
}

func (s *service) PayElectricity(ctx context.Context, userID int, req ElectricityPurchaseRequest) (json.RawMessage, error) {
	result, err := s.gateway.PayElectricity(ctx, gateway.ElectricityRequest{
		DiscoName:   req.DiscoName,
		Amount:      req.Amount,
		MeterNumber: req.MeterNumber,
		MeterType:   req.MeterType,
	})
	if err != nil {
		metrics.RecordPurchase(account.TypeElectricity, account.StatusFailed)
		return nil, err
	}

	return s.settle(ctx, userID, account.TypeElectricity, req.Amount, result)
}

func (s *service) BuyCable(ctx context.Context, userID int, req CablePurchaseRequest) (json.RawMessage, error) {
	result, err := s.gateway.BuyCable(ctx, gateway.CableRequest{
		CableName:       req.CableName,
		CablePlan:       req.CablePlan,
		SmartCardNumber: req.SmartCardNumber,
	})
	if err != nil {
		metrics.RecordPurchase(account.TypeCable, account.StatusFailed)
		return nil, err
	}

	return s.settle(ctx, userID, account.TypeCable, req.Amount, result)
}

// settle debits the wallet for a purchase the provider has already accepted
// and records the transaction. A failed debit at this point means the user
// received the product without paying; that charge is flagged for manual
// reconciliation and the request still fails.
func (s *service) settle(ctx context.Context, userID int, productType string, charge int64, result *gateway.PurchaseResult) (json.RawMessage, error) {
	tx, err := s.accounts.Debit(ctx, userID, charge, productType, result.Reference, []byte(result.Raw))
	if err != nil {
		metrics.RecordPurchase(productType, account.StatusFailed)
		metrics.RecordUnreconciledCharge()
		logger.Error("Provider charge not debited from wallet",
			"user_id", userID,
			"type", productType,
			"amount", charge,
			"reference", result.Reference,
			"error", err.Error(),
		)
		return nil, err
	}

	metrics.RecordPurchase(productType, account.StatusSuccess)
	metrics.RecordWalletDebit()
	logger.Info("Purchase completed",
		"user_id", userID,
		"type", productType,
		"amount", charge,
		"reference", tx.Reference,
	)

	s.sendReceipt(ctx, userID, productType, charge, tx.Reference)

	return result.Raw, nil
}

func (s *service) sendReceipt(ctx context.Context, userID int, productType string, amount int64, reference string) {
	if s.receipts == nil {
		return
	}
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		logger.Errorf("Failed to load user %d for receipt: %v", userID, err)
		return
	}
	if err := s.receipts.SendPurchaseReceipt(ctx, u.Email, u.FullName, productType, amount, reference); err != nil {
		logger.Errorf("Failed to queue receipt for user %d: %v", userID, err)
	}
}

func (s *service) DataHistory(ctx context.Context) (json.RawMessage, error) {
	return s.gateway.ListDataTransactions(ctx)
}

func (s *service) QueryData(ctx context.Context, transactionID string) (json.RawMessage, error) {
	return s.gateway.QueryData(ctx, transactionID)
}

func (s *service) QueryAirtime(ctx context.Context, transactionID string) (json.RawMessage, error) {
	return s.gateway.QueryAirtime(ctx, transactionID)
}

func (s *service) QueryElectricity(ctx context.Context, transactionID string) (json.RawMessage, error) {
	return s.gateway.QueryElectricity(ctx, transactionID)
}

func (s *service) QueryCable(ctx context.Context, transactionID string) (json.RawMessage, error) {
	return s.gateway.QueryCable(ctx, transactionID)
}

func (s *service) ValidateIUC(ctx context.Context, smartCardNumber, cableName string) (json.RawMessage, error) {
	return s.gateway.ValidateIUC(ctx, smartCardNumber, cableName)
}

func (s *service) ValidateMeter(ctx context.Context, meterNumber, discoName, meterType string) (json.RawMessage, error) {
	return s.gateway.ValidateMeter(ctx, meterNumber, discoName, meterType)
}
