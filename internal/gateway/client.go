// Package gateway wraps the external billing provider's HTTP API. Every
// purchase, query, and validation the service performs against the provider
// goes through this client; responses are returned raw so callers can store
// or forward them, with purchase responses additionally normalized into a
// PurchaseResult.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Minister-Isaac/Vtu-Backend/internal/metrics"
)

type Client interface {
	BuyData(ctx context.Context, req DataRequest) (*PurchaseResult, error)
	BuyAirtime(ctx context.Context, req AirtimeRequest) (*PurchaseResult, error)
	PayElectricity(ctx context.Context, req ElectricityRequest) (*PurchaseResult, error)
	BuyCable(ctx context.Context, req CableRequest) (*PurchaseResult, error)

	ListDataTransactions(ctx context.Context) (json.RawMessage, error)
	QueryData(ctx context.Context, transactionID string) (json.RawMessage, error)
	QueryAirtime(ctx context.Context, transactionID string) (json.RawMessage, error)
	QueryElectricity(ctx context.Context, transactionID string) (json.RawMessage, error)
	QueryCable(ctx context.Context, transactionID string) (json.RawMessage, error)

	ValidateIUC(ctx context.Context, smartCardNumber, cableName string) (json.RawMessage, error)
	ValidateMeter(ctx context.Context, meterNumber, discoName, meterType string) (json.RawMessage, error)
}

// DataRequest is the provider payload for a data subscription. PortedNumber
// is a fixed provider flag, not caller input; the client always sets it.
type DataRequest struct {
	Network      string `json:"network"`
	Phone        string `json:"phone"`
	Plan         string `json:"plan"`
	PortedNumber bool   `json:"ported_number"`
}

type AirtimeRequest struct {
	Network      string `json:"network"`
	Phone        string `json:"phone"`
	Amount       int64  `json:"amount"`
	AirtimeType  string `json:"airtime_type"`
	PortedNumber bool   `json:"ported_number"`
}

type ElectricityRequest struct {
	DiscoName   string `json:"disco_name"`
	Amount      int64  `json:"amount"`
	MeterNumber string `json:"meter_number"`
	MeterType   string `json:"meter_type"`
}

type CableRequest struct {
	CableName       string `json:"cable_name"`
	CablePlan       string `json:"cable_plan"`
	SmartCardNumber string `json:"smart_card_number"`
}

// PurchaseResult is the normalized view of a successful purchase response.
// Raw carries the provider's full payload for the transaction record and
// for the API response to the caller.
type PurchaseResult struct {
	Reference      string
	DiscountAmount int64
	Raw            json.RawMessage
}

// APIError is any non-2xx provider response. The status code is propagated
// to the caller of the purchase endpoints.
type APIError struct {
	StatusCode int
	Body       []byte
}

func (e *APIError) Error() string {
	return fmt.Sprintf("gateway returned status %d", e.StatusCode)
}

type HTTPClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func New(baseURL, apiKey string, timeout time.Duration) *HTTPClient {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &HTTPClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

func (c *HTTPClient) BuyData(ctx context.Context, req DataRequest) (*PurchaseResult, error) {
	req.PortedNumber = true
	return c.purchase(ctx, "/data", req)
}

func (c *HTTPClient) BuyAirtime(ctx context.Context, req AirtimeRequest) (*PurchaseResult, error) {
	req.PortedNumber = true
	return c.purchase(ctx, "/topup", req)
}

func (c *HTTPClient) PayElectricity(ctx context.Context, req ElectricityRequest) (*PurchaseResult, error) {
	return c.purchase(ctx, "/billpayment", req)
}

func (c *HTTPClient) BuyCable(ctx context.Context, req CableRequest) (*PurchaseResult, error) {
	return c.purchase(ctx, "/cablesub", req)
}

func (c *HTTPClient) ListDataTransactions(ctx context.Context) (json.RawMessage, error) {
	return c.doGet(ctx, "/data", nil)
}

func (c *HTTPClient) QueryData(ctx context.Context, transactionID string) (json.RawMessage, error) {
	return c.doGet(ctx, "/data/"+url.PathEscape(transactionID), nil)
}

func (c *HTTPClient) QueryAirtime(ctx context.Context, transactionID string) (json.RawMessage, error) {
	return c.doGet(ctx, "/topup/"+url.PathEscape(transactionID), nil)
}

func (c *HTTPClient) QueryElectricity(ctx context.Context, transactionID string) (json.RawMessage, error) {
	return c.doGet(ctx, "/billpayment/"+url.PathEscape(transactionID), nil)
}

func (c *HTTPClient) QueryCable(ctx context.Context, transactionID string) (json.RawMessage, error) {
	return c.doGet(ctx, "/cablesub/"+url.PathEscape(transactionID), nil)
}

func (c *HTTPClient) ValidateIUC(ctx context.Context, smartCardNumber, cableName string) (json.RawMessage, error) {
	params := url.Values{}
	params.Set("smart_card_number", smartCardNumber)
	params.Set("cable_name", cableName)
	return c.doGet(ctx, "/validateiuc", params)
}

func (c *HTTPClient) ValidateMeter(ctx context.Context, meterNumber, discoName, meterType string) (json.RawMessage, error) {
	params := url.Values{}
	params.Set("meternumber", meterNumber)
	params.Set("disconame", discoName)
	params.Set("metertype", meterType)
	return c.doGet(ctx, "/validatemeter", params)
}

// purchaseEnvelope picks the reference and discount fields out of a
// purchase response; the rest of the payload is kept raw.
type purchaseEnvelope struct {
	ID             json.Number `json:"id"`
	DiscountAmount int64       `json:"discountAmount"`
}

func (c *HTTPClient) purchase(ctx context.Context, path string, payload interface{}) (*PurchaseResult, error) {
	raw, err := c.doPost(ctx, path, payload)
	if err != nil {
		return nil, err
	}

	var envelope purchaseEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("failed to decode gateway response: %w", err)
	}

	return &PurchaseResult{
		Reference:      envelope.ID.String(),
		DiscountAmount: envelope.DiscountAmount,
		Raw:            raw,
	}, nil
}

func (c *HTTPClient) doPost(ctx context.Context, path string, payload interface{}) (json.RawMessage, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal gateway request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create gateway request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, metricEndpoint(path))
}

func (c *HTTPClient) doGet(ctx context.Context, path string, params url.Values) (json.RawMessage, error) {
	fullURL := c.baseURL + path
	if len(params) > 0 {
		fullURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create gateway request: %w", err)
	}

	return c.do(req, metricEndpoint(path))
}

// metricEndpoint strips path parameters so transaction ids do not blow up
// metric label cardinality.
func metricEndpoint(path string) string {
	if len(path) > 1 {
		if i := strings.IndexByte(path[1:], '/'); i >= 0 {
			return path[:i+1]
		}
	}
	return path
}

func (c *HTTPClient) do(req *http.Request, endpoint string) (json.RawMessage, error) {
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Token "+c.apiKey)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.RecordGatewayRequest(endpoint, "error", time.Since(start).Seconds())
		return nil, fmt.Errorf("failed to execute gateway request: %w", err)
	}
	defer resp.Body.Close()

	metrics.RecordGatewayRequest(endpoint, strconv.Itoa(resp.StatusCode), time.Since(start).Seconds())

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read gateway response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{StatusCode: resp.StatusCode, Body: bodyBytes}
	}

	return bodyBytes, nil
}
