package stripe

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stayware/stayflow/internal/config"
	"github.com/stayware/stayflow/internal/payment/domain"
	"go.uber.org/zap"
)

func buildSignatureHeader(secret string, payload []byte, timestamp int64) string {
	signed := fmt.Sprintf("%d.%s", timestamp, string(payload))
	mac := hmac.New(sha256.New, []byte(secret))
	_, _ = mac.Write([]byte(signed))
	return fmt.Sprintf("t=%d,v1=%s", timestamp, hex.EncodeToString(mac.Sum(nil)))
}

func TestVerifySignature(t *testing.T) {
	secret := "whsec_test"
	payload := []byte(`{"id":"evt_123","type":"checkout.session.completed","data":{"object":{"id":"cs_1"}}}`)
	now := time.Now()

	header := buildSignatureHeader(secret, payload, now.Unix())
	if err := VerifySignature(payload, header, secret, 5*time.Minute, now); err != nil {
		t.Fatalf("expected valid signature, got error: %v", err)
	}

	wrong := buildSignatureHeader("wrong", payload, now.Unix())
	if err := VerifySignature(payload, wrong, secret, 5*time.Minute, now); !errors.Is(err, domain.ErrInvalidSignature) {
		t.Fatalf("expected invalid signature error, got %v", err)
	}

	stale := buildSignatureHeader(secret, payload, now.Add(-time.Hour).Unix())
	if err := VerifySignature(payload, stale, secret, 5*time.Minute, now); !errors.Is(err, domain.ErrInvalidSignature) {
		t.Fatalf("expected stale timestamp rejection, got %v", err)
	}

	if err := VerifySignature(payload, "", secret, 5*time.Minute, now); !errors.Is(err, domain.ErrInvalidSignature) {
		t.Fatalf("expected missing header rejection, got %v", err)
	}
}

func TestParseEvent(t *testing.T) {
	payload := []byte(`{"id":"evt_123","type":"payment_intent.succeeded","data":{"object":{"id":"pi_42"}}}`)
	event, err := ParseEvent(payload)
	if err != nil {
		t.Fatalf("parse event: %v", err)
	}
	if event.ID != "evt_123" || event.Type != "payment_intent.succeeded" || event.ObjectID != "pi_42" {
		t.Fatalf("unexpected event: %+v", event)
	}

	if _, err := ParseEvent([]byte(`{"type":"x"}`)); !errors.Is(err, domain.ErrInvalidPayload) {
		t.Fatalf("expected invalid payload for missing id, got %v", err)
	}
	if _, err := ParseEvent([]byte(`not json`)); !errors.Is(err, domain.ErrInvalidPayload) {
		t.Fatalf("expected invalid payload for bad json, got %v", err)
	}
}

func newTestClient(baseURL string) *Client {
	cfg := config.Load()
	cfg.Stripe.SecretKey = "sk_test"
	cfg.Stripe.APIBase = baseURL
	cfg.Stripe.Currency = "usd"
	return NewClient(cfg, zap.NewNop())
}

func TestCreateChargeDecodesResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/payment_intents" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Idempotency-Key"); got != "charge-1" {
			t.Errorf("missing idempotency key, got %q", got)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("parse form: %v", err)
		}
		if r.PostForm.Get("confirm") != "true" {
			t.Errorf("expected confirm=true")
		}
		fmt.Fprint(w, `{"id":"pi_1","status":"succeeded"}`)
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	result, err := client.CreateCharge(context.Background(), domain.ChargeParams{
		AmountMinor:    15000,
		PaymentToken:   "pm_card",
		IdempotencyKey: "charge-1",
	})
	if err != nil {
		t.Fatalf("create charge: %v", err)
	}
	if result.ID != "pi_1" || result.Status != "succeeded" {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestProviderErrorClassification(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		wantCode  string
		transient bool
	}{{
		name:      "rate limited",
		status:    http.StatusTooManyRequests,
		body:      `{"error":{"type":"rate_limit_error","message":"slow down"}}`,
		wantCode:  "rate_limit",
		transient: true,
	}, {
		name:      "card declined",
		status:    http.StatusPaymentRequired,
		body:      `{"error":{"code":"card_declined","message":"declined"}}`,
		wantCode:  "card_declined",
		transient: false,
	}, {
		name:      "no code",
		status:    http.StatusBadRequest,
		body:      `{"error":{"message":"bad request"}}`,
		wantCode:  "",
		transient: false,
	}}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				fmt.Fprint(w, tc.body)
			}))
			defer srv.Close()

			client := newTestClient(srv.URL)
			_, err := client.CreateCharge(context.Background(), domain.ChargeParams{AmountMinor: 100, PaymentToken: "pm"})
			var provErr *domain.ProviderError
			if !errors.As(err, &provErr) {
				t.Fatalf("expected provider error, got %v", err)
			}
			if provErr.Code != tc.wantCode {
				t.Fatalf("code = %q, want %q", provErr.Code, tc.wantCode)
			}
			if provErr.Transient() != tc.transient {
				t.Fatalf("transient = %v, want %v", provErr.Transient(), tc.transient)
			}
		})
	}
}

func TestConnectionErrorIsTransient(t *testing.T) {
	client := newTestClient("http://127.0.0.1:1")
	_, err := client.CreateCharge(context.Background(), domain.ChargeParams{AmountMinor: 100, PaymentToken: "pm"})
	var provErr *domain.ProviderError
	if !errors.As(err, &provErr) {
		t.Fatalf("expected provider error, got %v", err)
	}
	if !provErr.Transient() {
		t.Fatalf("connection errors must classify as transient")
	}
}
