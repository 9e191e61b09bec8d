package client

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"carwash-booking-api/internal/config"
	"carwash-booking-api/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	SandboxBaseURL = "https://api-m.sandbox.paypal.com"
	LiveBaseURL    = "https://api-m.paypal.com"

	defaultOrderDescription = "Car Wash Service"
)

// PaypalClient wraps the PayPal Orders v2 lifecycle used by the payment flow.
type PaypalClient interface {
	CreateOrder(ctx context.Context, req *CreateOrderRequest) (*Order, error)
	CaptureOrder(ctx context.Context, orderID string) (*CaptureResult, error)
	GetOrder(ctx context.Context, orderID string) (*Order, error)
}

type CreateOrderRequest struct {
	Amount      decimal.Decimal
	Currency    string
	Description string
	CustomID    string
}

type Order struct {
	ID     string
	Status string
	Links  []model.PaypalLink
	Raw    json.RawMessage
}

type CaptureResult struct {
	OrderID   string
	CaptureID string
	Status    string
	Raw       json.RawMessage
}

// GatewayError is returned for every failed PayPal round trip.
type GatewayError struct {
	Op         string
	StatusCode int // 0 when the request never got a response
	Name       string
	Message    string
	DebugID    string
	Err        error
}

func (e *GatewayError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "paypal %s", e.Op)
	if e.StatusCode != 0 {
		fmt.Fprintf(&b, " status=%d", e.StatusCode)
	}
	if e.Name != "" {
		fmt.Fprintf(&b, " %s", e.Name)
	}
	if e.Message != "" {
		fmt.Fprintf(&b, ": %s", e.Message)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *GatewayError) Unwrap() error {
	return e.Err
}

type paypalClientImpl struct {
	httpClient         *http.Client
	baseApiURL         string
	paypalClientID     string
	paypalClientSecret string
	brandName          string
	returnURL          string
	cancelURL          string

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

// NewPaypalClient fails when credentials are missing or the mode is unknown,
// so a misconfigured process never starts serving payment routes.
func NewPaypalClient(paypalCfg *config.Paypal, frontendURL string) (PaypalClient, error) {
	if paypalCfg.ClientID == "" || paypalCfg.ClientSecret == "" {
		return nil, errors.New("paypal credentials not configured")
	}

	baseURL, err := baseURLForMode(paypalCfg.Mode)
	if err != nil {
		return nil, err
	}
	if paypalCfg.BaseApiURL != "" {
		baseURL = strings.TrimRight(paypalCfg.BaseApiURL, "/")
	}

	frontendURL = strings.TrimRight(frontendURL, "/")

	return &paypalClientImpl{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseApiURL:         baseURL,
		paypalClientID:     paypalCfg.ClientID,
		paypalClientSecret: paypalCfg.ClientSecret,
		brandName:          paypalCfg.BrandName,
		returnURL:          frontendURL + "/payment/success",
		cancelURL:          frontendURL + "/payment/cancel",
	}, nil
}

func baseURLForMode(mode string) (string, error) {
	switch mode {
	case "", "sandbox":
		return SandboxBaseURL, nil
	case "live":
		return LiveBaseURL, nil
	default:
		return "", fmt.Errorf("unknown paypal mode %q", mode)
	}
}

func (c *paypalClientImpl) getAccessToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.accessToken != "" && time.Now().Before(c.tokenExpiry) {
		return c.accessToken, nil
	}

	auth := base64.StdEncoding.EncodeToString(
		[]byte(c.paypalClientID + ":" + c.paypalClientSecret),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseApiURL+"/v1/oauth2/token",
		strings.NewReader("grant_type=client_credentials"))
	if err != nil {
		return "", fmt.Errorf("http new request: %w", err)
	}
	req.Header.Set("Authorization", "Basic "+auth)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	body, err := c.do(req, "get access token")
	if err != nil {
		return "", err
	}

	var res struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int64  `json:"expires_in"`
	}
	if err := json.Unmarshal(body, &res); err != nil || res.AccessToken == "" {
		return "", &GatewayError{Op: "get access token", Message: "malformed token response", Err: err}
	}

	c.accessToken = res.AccessToken
	// refresh a minute early so a token never expires mid-request
	c.tokenExpiry = time.Now().Add(time.Duration(res.ExpiresIn)*time.Second - time.Minute)

	return c.accessToken, nil
}

func (c *paypalClientImpl) CreateOrder(ctx context.Context, in *CreateOrderRequest) (*Order, error) {
	description := in.Description
	if description == "" {
		description = defaultOrderDescription
	}

	payload := model.PaypalOrderRequest{
		Intent: "CAPTURE",
		ApplicationContext: &model.ApplicationContext{
			BrandName:   c.brandName,
			LandingPage: "NO_PREFERENCE",
			UserAction:  "PAY_NOW",
			ReturnURL:   c.returnURL,
			CancelURL:   c.cancelURL,
		},
		PurchaseUnits: []model.PurchaseUnit{
			{
				Description: description,
				CustomID:    in.CustomID,
				Amount: &model.Amount{
					Currency: in.Currency,
					Value:    in.Amount.StringFixed(2),
				},
			},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal req payload: %w", err)
	}

	req, err := c.newAPIRequest(ctx, "create order", http.MethodPost, "/v2/checkout/orders", body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Prefer", "return=representation")
	req.Header.Set("PayPal-Request-Id", uuid.NewString())

	resBody, err := c.do(req, "create order")
	if err != nil {
		return nil, err
	}

	return decodeOrder("create order", resBody)
}

func (c *paypalClientImpl) CaptureOrder(ctx context.Context, orderID string) (*CaptureResult, error) {
	path := fmt.Sprintf("/v2/checkout/orders/%s/capture", url.PathEscape(orderID))

	req, err := c.newAPIRequest(ctx, "capture order", http.MethodPost, path, []byte("{}"))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Prefer", "return=representation")

	resBody, err := c.do(req, "capture order")
	if err != nil {
		return nil, err
	}

	var result model.PaypalOrder
	if err := json.Unmarshal(resBody, &result); err != nil {
		return nil, &GatewayError{Op: "capture order", Message: "decode paypal response", Err: err}
	}

	return &CaptureResult{
		OrderID:   result.ID,
		CaptureID: _extractCaptureID(&result),
		Status:    result.Status,
		Raw:       json.RawMessage(resBody),
	}, nil
}

func (c *paypalClientImpl) GetOrder(ctx context.Context, orderID string) (*Order, error) {
	path := "/v2/checkout/orders/" + url.PathEscape(orderID)

	req, err := c.newAPIRequest(ctx, "get order", http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	resBody, err := c.do(req, "get order")
	if err != nil {
		return nil, err
	}

	return decodeOrder("get order", resBody)
}

func (c *paypalClientImpl) newAPIRequest(ctx context.Context, op, method, path string, body []byte) (*http.Request, error) {
	accessToken, err := c.getAccessToken(ctx)
	if err != nil {
		return nil, err
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseApiURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("%s: http new request: %w", op, err)
	}

	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

// do executes req and returns the body of a 2xx response.
func (c *paypalClientImpl) do(req *http.Request, op string) ([]byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &GatewayError{Op: op, Message: "request failed", Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &GatewayError{Op: op, StatusCode: resp.StatusCode, Message: "read response body", Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, newGatewayError(op, resp.StatusCode, body)
	}

	return body, nil
}

func newGatewayError(op string, statusCode int, body []byte) *GatewayError {
	gErr := &GatewayError{Op: op, StatusCode: statusCode}

	var envelope model.PaypalErrorBody
	if err := json.Unmarshal(body, &envelope); err != nil {
		gErr.Message = strings.TrimSpace(string(body))
		return gErr
	}

	gErr.Name = envelope.Name
	gErr.Message = envelope.Message
	gErr.DebugID = envelope.DebugID
	if gErr.Name == "" {
		gErr.Name = envelope.Error
	}
	if gErr.Message == "" {
		gErr.Message = envelope.ErrorDescription
	}
	if len(envelope.Details) > 0 && envelope.Details[0].Description != "" {
		gErr.Message += " (" + envelope.Details[0].Issue + ": " + envelope.Details[0].Description + ")"
	}

	return gErr
}

func decodeOrder(op string, body []byte) (*Order, error) {
	var result model.PaypalOrder
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, &GatewayError{Op: op, Message: "decode paypal response", Err: err}
	}

	return &Order{
		ID:     result.ID,
		Status: result.Status,
		Links:  result.Links,
		Raw:    json.RawMessage(body),
	}, nil
}

// _extractCaptureID returns the first capture id of the order, or the order id
// when PayPal returned a minimal representation.
func _extractCaptureID(order *model.PaypalOrder) string {
	for _, unit := range order.PurchaseUnits {
		if unit.Payments == nil {
			continue
		}
		for _, capture := range unit.Payments.Captures {
			if capture.ID != "" {
				return capture.ID
			}
		}
	}
	return order.ID
}

// ApproveURL returns the buyer approval link of an order, if present.
func (o *Order) ApproveURL() string {
	for _, link := range o.Links {
		if link.Rel == "approve" || link.Rel == "payer-action" {
			return link.Href
		}
	}
	return ""
}
