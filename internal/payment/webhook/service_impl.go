package webhook

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/stayware/stayflow/internal/clock"
	"github.com/stayware/stayflow/internal/config"
	"github.com/stayware/stayflow/internal/idempotency"
	"github.com/stayware/stayflow/internal/payment/domain"
	"github.com/stayware/stayflow/internal/payment/provider/stripe"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const markerPrefix = "webhook:stripe:"

// Reconciler is the slice of the payment service the processor dispatches to.
type Reconciler interface {
	ReconcileCheckoutCompletion(ctx context.Context, sessionID string) error
	ReconcileFromProvider(ctx context.Context, providerPaymentID, providerStatus string) error
	MarkSessionExpired(ctx context.Context, sessionID string) error
}

// Service turns raw provider deliveries into at-most-once reconciliations.
type Service interface {
	Process(ctx context.Context, payload []byte, signatureHeader string) error
}

type Params struct {
	fx.In

	Log        *zap.Logger
	Cfg        config.Config
	Clock      clock.Clock
	Node       *snowflake.Node
	Repo       domain.Repository
	Store      idempotency.Store
	Reconciler Reconciler
}

type handlerFunc func(ctx context.Context, event *domain.WebhookEvent) error

type service struct {
	log      *zap.Logger
	cfg      config.Config
	clock    clock.Clock
	node     *snowflake.Node
	repo     domain.Repository
	store    idempotency.Store
	handlers map[string]handlerFunc
}

func NewService(p Params) Service {
	s := &service{
		log:   p.Log.Named("payment.webhook"),
		cfg:   p.Cfg,
		clock: p.Clock,
		node:  p.Node,
		repo:  p.Repo,
		store: p.Store,
	}
	s.handlers = map[string]handlerFunc{
		domain.EventCheckoutCompleted: func(ctx context.Context, event *domain.WebhookEvent) error {
			return p.Reconciler.ReconcileCheckoutCompletion(ctx, event.ObjectID)
		},
		domain.EventPaymentSucceeded: func(ctx context.Context, event *domain.WebhookEvent) error {
			return p.Reconciler.ReconcileFromProvider(ctx, event.ObjectID, domain.ProviderStatusSucceeded)
		},
		domain.EventPaymentFailed: func(ctx context.Context, event *domain.WebhookEvent) error {
			return p.Reconciler.ReconcileFromProvider(ctx, event.ObjectID, domain.ProviderStatusRequiresPaymentMethod)
		},
		domain.EventCheckoutExpired: func(ctx context.Context, event *domain.WebhookEvent) error {
			return p.Reconciler.MarkSessionExpired(ctx, event.ObjectID)
		},
	}
	return s
}

// Process verifies, deduplicates and dispatches one delivery. The receipt
// marker is taken before dispatch so a redelivered event is dropped even when
// the first attempt's handler failed. Handler errors are logged and absorbed;
// only signature and payload errors reach the caller.
func (s *service) Process(ctx context.Context, payload []byte, signatureHeader string) error {
	err := stripe.VerifySignature(payload, signatureHeader, s.cfg.Stripe.WebhookSecret,
		s.cfg.Stripe.SignatureTolerance, s.clock.Now())
	if err != nil {
		s.log.Warn("webhook signature rejected", zap.Error(err))
		return err
	}

	event, err := stripe.ParseEvent(payload)
	if err != nil {
		s.log.Warn("webhook payload rejected", zap.Error(err))
		return err
	}

	first, err := s.store.MarkIfFirst(ctx, markerPrefix+event.ID, s.cfg.Webhook.IdempotencyTTL)
	if err != nil {
		// Losing the marker store must not drop deliveries; downstream
		// reconciliation is idempotent.
		s.log.Warn("webhook dedup store unavailable, processing anyway",
			zap.String("event_id", event.ID), zap.Error(err))
		first = true
	}
	if !first {
		s.log.Info("duplicate webhook delivery ignored",
			zap.String("event_id", event.ID),
			zap.String("event_type", event.Type),
		)
		return nil
	}

	record := &domain.EventRecord{
		ID:              s.node.Generate(),
		ProviderEventID: event.ID,
		EventType:       event.Type,
		ReceivedAt:      s.clock.Now(),
	}
	inserted, err := s.repo.InsertEvent(ctx, record)
	if err != nil {
		s.log.Warn("webhook audit insert failed",
			zap.String("event_id", event.ID), zap.Error(err))
	} else if !inserted {
		s.log.Info("duplicate webhook delivery ignored",
			zap.String("event_id", event.ID),
			zap.String("event_type", event.Type),
		)
		return nil
	}

	if err := s.dispatch(ctx, event); err != nil {
		s.log.Error("webhook handler failed",
			zap.String("event_id", event.ID),
			zap.String("event_type", event.Type),
			zap.Error(err),
		)
		return nil
	}

	if inserted {
		if err := s.repo.MarkEventProcessed(ctx, record.ID, s.clock.Now()); err != nil {
			s.log.Warn("webhook audit update failed",
				zap.String("event_id", event.ID), zap.Error(err))
		}
	}
	return nil
}

func (s *service) dispatch(ctx context.Context, event *domain.WebhookEvent) error {
	handler, ok := s.handlers[event.Type]
	if !ok {
		s.log.Info("unhandled webhook event type",
			zap.String("event_id", event.ID),
			zap.String("event_type", event.Type),
		)
		return nil
	}
	return handler(ctx, event)
}
