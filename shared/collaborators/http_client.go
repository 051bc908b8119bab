package collaborators

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/pkg/errors"

	"github.com/novamart/checkout-system/shared/models"
	"github.com/novamart/checkout-system/shared/telemetry"
)

// GatewayClient reaches the catalog, inventory and order collaborators
// through the API gateway. Every call carries the gateway API key and a
// request timeout; transient failures are retried with bounded exponential
// backoff before being escalated to the caller.
type GatewayClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	maxRetries uint64
}

var (
	_ StockService   = (*GatewayClient)(nil)
	_ OrderService   = (*GatewayClient)(nil)
	_ CatalogService = (*GatewayClient)(nil)
)

type GatewayOption func(*GatewayClient)

// WithTimeout sets the per-call timeout
func WithTimeout(timeout time.Duration) GatewayOption {
	return func(c *GatewayClient) {
		c.httpClient.Timeout = timeout
	}
}

// WithMaxRetries bounds the retry budget for transient failures
func WithMaxRetries(retries uint64) GatewayOption {
	return func(c *GatewayClient) {
		c.maxRetries = retries
	}
}

// WithHTTPClient replaces the underlying HTTP client (tests)
func WithHTTPClient(client *http.Client) GatewayOption {
	return func(c *GatewayClient) {
		c.httpClient = client
	}
}

// NewGatewayClient creates a collaborator client for the given gateway
func NewGatewayClient(baseURL, apiKey string, opts ...GatewayOption) *GatewayClient {
	client := &GatewayClient{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		maxRetries: 3,
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

type stockRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type stockCheckResponse struct {
	Available bool `json:"available"`
}

// Check reports whether the requested quantity is available in central stock
func (c *GatewayClient) Check(ctx context.Context, productID string, quantity int) (bool, error) {
	var res stockCheckResponse
	err := c.call(ctx, "inventory", "stock-check", http.MethodPost,
		"/api/inventory/stock-check", &stockRequest{ProductID: productID, Quantity: quantity}, &res)
	if err != nil {
		return false, err
	}
	return res.Available, nil
}

// Reserve decreases central stock by the requested quantity
func (c *GatewayClient) Reserve(ctx context.Context, productID string, quantity int) error {
	return c.call(ctx, "inventory", "decrease-stock", http.MethodPost,
		"/api/inventory/decrease-stock", &stockRequest{ProductID: productID, Quantity: quantity}, nil)
}

// Release increases central stock by the previously reserved quantity
func (c *GatewayClient) Release(ctx context.Context, productID string, quantity int) error {
	return c.call(ctx, "inventory", "increase-stock", http.MethodPost,
		"/api/inventory/increase-stock", &stockRequest{ProductID: productID, Quantity: quantity}, nil)
}

type createOrderRequest struct {
	ClientID models.ID         `json:"client_id"`
	Lines    []models.CartLine `json:"lines"`
}

type createOrderResponse struct {
	OrderID models.ID `json:"order_id"`
}

// Create registers the sale with the order service and returns the order ID
func (c *GatewayClient) Create(ctx context.Context, clientID models.ID, lines []models.CartLine) (models.ID, error) {
	var res createOrderResponse
	err := c.call(ctx, "orders", "register-sale", http.MethodPost,
		"/api/orders/sales", &createOrderRequest{ClientID: clientID, Lines: lines}, &res)
	if err != nil {
		return "", err
	}
	if res.OrderID == "" {
		return "", &CallError{Service: "orders", Operation: "register-sale", Message: "response carried no order ID"}
	}
	return res.OrderID, nil
}

// Lookup fetches a product's catalog entry
func (c *GatewayClient) Lookup(ctx context.Context, productID string) (*Product, error) {
	var product Product
	err := c.call(ctx, "catalog", "product-lookup", http.MethodGet,
		"/api/catalog/products/"+productID, nil, &product)
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// call performs one collaborator request, retrying transient failures
func (c *GatewayClient) call(ctx context.Context, service, operation, method, path string, body, out interface{}) error {
	operationFn := func() error {
		err := c.doOnce(ctx, service, operation, method, path, body, out)
		if err != nil && !IsTransient(err) {
			return backoff.Permanent(err)
		}
		return err
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = 100 * time.Millisecond
	policy.MaxInterval = 2 * time.Second

	err := backoff.Retry(operationFn, backoff.WithContext(backoff.WithMaxRetries(policy, c.maxRetries), ctx))
	if err != nil {
		telemetry.CollaboratorCalls.WithLabelValues(service, operation, "error").Inc()
		return err
	}
	telemetry.CollaboratorCalls.WithLabelValues(service, operation, "success").Inc()
	return nil
}

func (c *GatewayClient) doOnce(ctx context.Context, service, operation, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, "failed to marshal request body")
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return errors.Wrap(err, "failed to build request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrapf(err, "%s %s call failed", service, operation)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		message := readErrorMessage(resp.Body)
		return &CallError{
			Service:   service,
			Operation: operation,
			Status:    resp.StatusCode,
			Message:   message,
			Transient: resp.StatusCode >= 500,
		}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return errors.Wrapf(err, "failed to decode %s %s response", service, operation)
		}
	}
	return nil
}

func readErrorMessage(body io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(body, 4096))
	if err != nil || len(raw) == 0 {
		return "no error detail"
	}

	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(raw, &payload); err == nil && payload.Error != "" {
		return payload.Error
	}
	return fmt.Sprintf("%.200s", string(raw))
}
