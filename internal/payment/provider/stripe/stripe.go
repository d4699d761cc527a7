package stripe

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/stayware/stayflow/internal/config"
	"github.com/stayware/stayflow/internal/payment/domain"
	"go.uber.org/zap"
)

const defaultTimeout = 30 * time.Second

// Client is a thin REST client for the provider's checkout-session and
// payment-intent endpoints. Transport failures are reported as transient
// api_connection_error so the retry layer can classify them.
type Client struct {
	apiKey   string
	baseURL  string
	currency string
	http     *http.Client
	log      *zap.Logger
}

func NewClient(cfg config.Config, log *zap.Logger) *Client {
	return &Client{
		apiKey:   cfg.Stripe.SecretKey,
		baseURL:  strings.TrimRight(cfg.Stripe.APIBase, "/"),
		currency: cfg.Stripe.Currency,
		http:     &http.Client{Timeout: defaultTimeout},
		log:      log.Named("stripe.client"),
	}
}

func (c *Client) CreateCheckoutSession(ctx context.Context, params domain.CheckoutSessionParams) (*domain.CheckoutSession, error) {
	form := url.Values{}
	form.Set("mode", "payment")
	form.Set("success_url", params.SuccessURL+"?session_id={CHECKOUT_SESSION_ID}")
	form.Set("cancel_url", params.CancelURL)
	form.Set("line_items[0][quantity]", "1")
	form.Set("line_items[0][price_data][currency]", currencyOrDefault(params.Currency, c.currency))
	form.Set("line_items[0][price_data][unit_amount]", strconv.FormatInt(params.AmountMinor, 10))
	form.Set("line_items[0][price_data][product_data][name]", params.ProductName)
	if params.Description != "" {
		form.Set("line_items[0][price_data][product_data][description]", params.Description)
	}
	for key, value := range params.Metadata {
		form.Set(fmt.Sprintf("metadata[%s]", key), value)
	}

	var session struct {
		ID  string `json:"id"`
		URL string `json:"url"`
	}
	if err := c.post(ctx, "/v1/checkout/sessions", form, params.IdempotencyKey, &session); err != nil {
		return nil, err
	}
	return &domain.CheckoutSession{ID: session.ID, URL: session.URL}, nil
}

func (c *Client) CreateCharge(ctx context.Context, params domain.ChargeParams) (*domain.ChargeResult, error) {
	form := url.Values{}
	form.Set("amount", strconv.FormatInt(params.AmountMinor, 10))
	form.Set("currency", currencyOrDefault(params.Currency, c.currency))
	form.Set("payment_method", params.PaymentToken)
	form.Set("confirm", "true")
	form.Set("automatic_payment_methods[enabled]", "true")
	form.Set("automatic_payment_methods[allow_redirects]", "never")

	var intent struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	if err := c.post(ctx, "/v1/payment_intents", form, params.IdempotencyKey, &intent); err != nil {
		return nil, err
	}
	return &domain.ChargeResult{ID: intent.ID, Status: intent.Status}, nil
}

func (c *Client) post(ctx context.Context, path string, form url.Values, idempotencyKey string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if idempotencyKey != "" {
		req.Header.Set("Idempotency-Key", idempotencyKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return &domain.ProviderError{Code: "api_connection_error", Message: err.Error()}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &domain.ProviderError{Code: "api_connection_error", Message: err.Error()}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeProviderError(resp.StatusCode, body)
	}
	return json.Unmarshal(body, out)
}

func decodeProviderError(status int, body []byte) *domain.ProviderError {
	var payload struct {
		Error struct {
			Code    string `json:"code"`
			Type    string `json:"type"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return &domain.ProviderError{HTTPStatus: status, Message: string(body)}
	}

	code := payload.Error.Code
	if status == http.StatusTooManyRequests || payload.Error.Type == "rate_limit_error" {
		code = "rate_limit"
	}
	return &domain.ProviderError{
		Code:       code,
		Message:    payload.Error.Message,
		HTTPStatus: status,
	}
}

func currencyOrDefault(currency, def string) string {
	if currency != "" {
		return strings.ToLower(currency)
	}
	return def
}
