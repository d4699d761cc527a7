package webhook_test

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stayware/stayflow/internal/clock"
	"github.com/stayware/stayflow/internal/config"
	"github.com/stayware/stayflow/internal/idempotency"
	"github.com/stayware/stayflow/internal/payment/domain"
	paymentrepo "github.com/stayware/stayflow/internal/payment/repository"
	"github.com/stayware/stayflow/internal/payment/webhook"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const testSecret = "whsec_test"

type fakeReconciler struct {
	completions []string
	statuses    map[string]string
	expirations []string
	err         error
}

func (f *fakeReconciler) ReconcileCheckoutCompletion(_ context.Context, sessionID string) error {
	f.completions = append(f.completions, sessionID)
	return f.err
}

func (f *fakeReconciler) ReconcileFromProvider(_ context.Context, providerPaymentID, providerStatus string) error {
	if f.statuses == nil {
		f.statuses = map[string]string{}
	}
	f.statuses[providerPaymentID] = providerStatus
	return f.err
}

func (f *fakeReconciler) MarkSessionExpired(_ context.Context, sessionID string) error {
	f.expirations = append(f.expirations, sessionID)
	return f.err
}

type fixture struct {
	db         *gorm.DB
	svc        webhook.Service
	reconciler *fakeReconciler
	clock      *clock.FakeClock
}

func setupFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Payment{}, &domain.EventRecord{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	cfg := config.Load()
	cfg.Stripe.WebhookSecret = testSecret

	clk := clock.NewFakeClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	reconciler := &fakeReconciler{}

	svc := webhook.NewService(webhook.Params{
		Log:        zap.NewNop(),
		Cfg:        cfg,
		Clock:      clk,
		Node:       node,
		Repo:       paymentrepo.Provide(db),
		Store:      idempotency.NewMemoryStore(clk),
		Reconciler: reconciler,
	})
	return &fixture{db: db, svc: svc, reconciler: reconciler, clock: clk}
}

func signedDelivery(t *testing.T, at time.Time, eventID, eventType, objectID string) ([]byte, string) {
	t.Helper()
	payload := []byte(fmt.Sprintf(
		`{"id":%q,"type":%q,"data":{"object":{"id":%q}}}`,
		eventID, eventType, objectID,
	))
	signed := fmt.Sprintf("%d.%s", at.Unix(), string(payload))
	mac := hmac.New(sha256.New, []byte(testSecret))
	_, _ = mac.Write([]byte(signed))
	header := fmt.Sprintf("t=%d,v1=%s", at.Unix(), hex.EncodeToString(mac.Sum(nil)))
	return payload, header
}

func TestProcessDispatchesByEventType(t *testing.T) {
	f := setupFixture(t)
	now := f.clock.Now()

	payload, header := signedDelivery(t, now, "evt_1", domain.EventCheckoutCompleted, "cs_1")
	require.NoError(t, f.svc.Process(context.Background(), payload, header))
	assert.Equal(t, []string{"cs_1"}, f.reconciler.completions)

	payload, header = signedDelivery(t, now, "evt_2", domain.EventPaymentSucceeded, "pi_1")
	require.NoError(t, f.svc.Process(context.Background(), payload, header))
	assert.Equal(t, "succeeded", f.reconciler.statuses["pi_1"])

	payload, header = signedDelivery(t, now, "evt_3", domain.EventPaymentFailed, "pi_2")
	require.NoError(t, f.svc.Process(context.Background(), payload, header))
	assert.Equal(t, "requires_payment_method", f.reconciler.statuses["pi_2"])

	payload, header = signedDelivery(t, now, "evt_4", domain.EventCheckoutExpired, "cs_2")
	require.NoError(t, f.svc.Process(context.Background(), payload, header))
	assert.Equal(t, []string{"cs_2"}, f.reconciler.expirations)
}

func TestProcessDuplicateDeliveryDispatchesOnce(t *testing.T) {
	f := setupFixture(t)
	payload, header := signedDelivery(t, f.clock.Now(), "evt_1", domain.EventCheckoutCompleted, "cs_1")

	require.NoError(t, f.svc.Process(context.Background(), payload, header))
	require.NoError(t, f.svc.Process(context.Background(), payload, header))

	assert.Len(t, f.reconciler.completions, 1)

	var count int64
	require.NoError(t, f.db.Model(&domain.EventRecord{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestProcessMarkerTakenBeforeDispatch(t *testing.T) {
	f := setupFixture(t)
	f.reconciler.err = errors.New("downstream unavailable")
	payload, header := signedDelivery(t, f.clock.Now(), "evt_1", domain.EventCheckoutCompleted, "cs_1")

	// Handler failure is absorbed and the delivery still counts as received.
	require.NoError(t, f.svc.Process(context.Background(), payload, header))
	require.NoError(t, f.svc.Process(context.Background(), payload, header))
	assert.Len(t, f.reconciler.completions, 1)
}

type failingStore struct{}

func (failingStore) MarkIfFirst(context.Context, string, time.Duration) (bool, error) {
	return false, errors.New("redis connection refused")
}

func TestProcessDedupStoreFailureFailsOpen(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Payment{}, &domain.EventRecord{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	cfg := config.Load()
	cfg.Stripe.WebhookSecret = testSecret

	clk := clock.NewFakeClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	reconciler := &fakeReconciler{}

	svc := webhook.NewService(webhook.Params{
		Log:        zap.NewNop(),
		Cfg:        cfg,
		Clock:      clk,
		Node:       node,
		Repo:       paymentrepo.Provide(db),
		Store:      failingStore{},
		Reconciler: reconciler,
	})

	payload, header := signedDelivery(t, clk.Now(), "evt_1", domain.EventCheckoutCompleted, "cs_1")
	require.NoError(t, svc.Process(context.Background(), payload, header))
	assert.Equal(t, []string{"cs_1"}, reconciler.completions)

	// With the marker store down, the audit row's unique event id still
	// suppresses the redelivery.
	require.NoError(t, svc.Process(context.Background(), payload, header))
	assert.Len(t, reconciler.completions, 1)
}

func TestProcessUnknownEventTypeAcknowledged(t *testing.T) {
	f := setupFixture(t)
	payload, header := signedDelivery(t, f.clock.Now(), "evt_1", "customer.created", "cus_1")

	require.NoError(t, f.svc.Process(context.Background(), payload, header))
	assert.Empty(t, f.reconciler.completions)
	assert.Empty(t, f.reconciler.expirations)
	assert.Empty(t, f.reconciler.statuses)
}

func TestProcessRejectsBadSignature(t *testing.T) {
	f := setupFixture(t)
	payload, _ := signedDelivery(t, f.clock.Now(), "evt_1", domain.EventCheckoutCompleted, "cs_1")

	err := f.svc.Process(context.Background(), payload, "t=1,v1=deadbeef")
	assert.ErrorIs(t, err, domain.ErrInvalidSignature)
	assert.Empty(t, f.reconciler.completions)

	var count int64
	require.NoError(t, f.db.Model(&domain.EventRecord{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestProcessRejectsMalformedPayload(t *testing.T) {
	f := setupFixture(t)
	now := f.clock.Now()

	payload := []byte(`{"type":"checkout.session.completed"}`)
	signed := fmt.Sprintf("%d.%s", now.Unix(), string(payload))
	mac := hmac.New(sha256.New, []byte(testSecret))
	_, _ = mac.Write([]byte(signed))
	header := fmt.Sprintf("t=%d,v1=%s", now.Unix(), hex.EncodeToString(mac.Sum(nil)))

	err := f.svc.Process(context.Background(), payload, header)
	assert.ErrorIs(t, err, domain.ErrInvalidPayload)
}

func TestProcessRecordsAudit(t *testing.T) {
	f := setupFixture(t)
	payload, header := signedDelivery(t, f.clock.Now(), "evt_1", domain.EventPaymentSucceeded, "pi_1")

	require.NoError(t, f.svc.Process(context.Background(), payload, header))

	var record domain.EventRecord
	require.NoError(t, f.db.First(&record, "provider_event_id = ?", "evt_1").Error)
	assert.Equal(t, domain.EventPaymentSucceeded, record.EventType)
	require.NotNil(t, record.ProcessedAt)
}
