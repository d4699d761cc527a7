package retry

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"github.com/stayware/stayflow/internal/config"
	"go.uber.org/zap"
)

// TransientError marks remote failures that are expected to succeed on retry.
// Anything that does not implement it, or reports Transient() == false, is
// treated as permanent and surfaced after a single attempt.
type TransientError interface {
	error
	Transient() bool
}

type Policy struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}

func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts:  3,
		InitialDelay: time.Second,
		MaxDelay:     10 * time.Second,
		Multiplier:   2.0,
	}
}

func PolicyFromConfig(cfg config.RetryConfig) Policy {
	p := Policy{
		MaxAttempts:  cfg.MaxAttempts,
		InitialDelay: cfg.InitialDelay,
		MaxDelay:     cfg.MaxDelay,
		Multiplier:   cfg.Multiplier,
	}
	return p.normalized()
}

func (p Policy) normalized() Policy {
	def := DefaultPolicy()
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = def.MaxAttempts
	}
	if p.InitialDelay <= 0 {
		p.InitialDelay = def.InitialDelay
	}
	if p.MaxDelay <= 0 {
		p.MaxDelay = def.MaxDelay
	}
	if p.Multiplier < 1 {
		p.Multiplier = def.Multiplier
	}
	return p
}

// Executor retries transient remote failures with exponential backoff and
// up to 10% uniform jitter on each delay.
type Executor struct {
	policy Policy
	log    *zap.Logger

	sleep func(ctx context.Context, d time.Duration) error
}

func NewExecutor(policy Policy, log *zap.Logger) *Executor {
	if log == nil {
		log = zap.NewNop()
	}
	return &Executor{
		policy: policy.normalized(),
		log:    log.Named("retry"),
		sleep:  sleepCtx,
	}
}

// Do executes op, retrying transient failures up to MaxAttempts total
// attempts. Permanent failures and context cancellation abort immediately.
func Do[T any](ctx context.Context, e *Executor, op func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	delay := e.policy.InitialDelay
	var lastErr error

	for attempt := 1; attempt <= e.policy.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return zero, err
		}

		result, err := op(ctx)
		if err == nil {
			return result, nil
		}
		if !isTransient(err) {
			return zero, err
		}

		lastErr = err
		if attempt == e.policy.MaxAttempts {
			break
		}

		wait := withJitter(delay)
		e.log.Warn("transient provider error, backing off",
			zap.Error(err),
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", e.policy.MaxAttempts),
			zap.Duration("delay", wait),
		)
		if err := e.sleep(ctx, wait); err != nil {
			return zero, err
		}

		delay = time.Duration(float64(delay) * e.policy.Multiplier)
		if delay > e.policy.MaxDelay {
			delay = e.policy.MaxDelay
		}
	}

	return zero, lastErr
}

func isTransient(err error) bool {
	var te TransientError
	return errors.As(err, &te) && te.Transient()
}

// withJitter inflates d by a uniform 0-10%.
func withJitter(d time.Duration) time.Duration {
	return d + time.Duration(rand.Float64()*0.1*float64(d))
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
