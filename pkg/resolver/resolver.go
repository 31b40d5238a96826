package resolver

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/aether-player/media-kit/pkg/pool"
	"github.com/aether-player/media-kit/pkg/types"
)

// AttemptFunc performs one fallible call against a single descriptor.
// The context carries the per-attempt timeout.
type AttemptFunc[T any] func(ctx context.Context, descriptor string) (T, error)

// Predicate decides whether a transport-level success carries a usable payload
type Predicate[T any] func(T) bool

// Options configures a Resolver
type Options[T any] struct {
	// FailureMessage is returned in the envelope when the pool is exhausted
	FailureMessage string

	// Timeout bounds each attempt separately; zero means no per-attempt bound
	Timeout time.Duration

	// Usable judges payloads; nil accepts every payload returned without error
	Usable Predicate[T]

	// RedactDescriptors logs descriptors by pool label instead of value
	RedactDescriptors bool

	Logger  *log.Logger
	Metrics types.MetricsCollector
}

// Resolver walks a pool in priority order until one descriptor yields a usable payload
type Resolver[T any] struct {
	name string
	pool *pool.Pool
	opts Options[T]
}

// New creates a resolver over p. The pool is shared read-only.
func New[T any](name string, p *pool.Pool, opts Options[T]) *Resolver[T] {
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.FailureMessage == "" {
		opts.FailureMessage = "All sources unavailable."
	}
	return &Resolver[T]{
		name: name,
		pool: p,
		opts: opts,
	}
}

// Name returns the resolver name used in logs and metrics
func (r *Resolver[T]) Name() string { return r.name }

// Pool returns the pool the resolver walks
func (r *Resolver[T]) Pool() *pool.Pool { return r.pool }

// FailureMessage returns the fixed message reported on exhaustion
func (r *Resolver[T]) FailureMessage() string { return r.opts.FailureMessage }

// Resolve attempts every descriptor in order and stops at the first usable payload.
// It never returns an error: exhaustion is reported as a failure envelope.
func (r *Resolver[T]) Resolve(ctx context.Context, attempt AttemptFunc[T]) types.Envelope[T] {
	r.record(ctx, types.MetricEvent{Type: types.MetricEventRequest})

	var lastErr error
	attempts := 0
	total := r.pool.Len()

	for i, descriptor := range r.pool.All() {
		attempts++
		label := r.label(i, descriptor)
		r.opts.Logger.Printf("[resolver:%s] trying %s (%d/%d)", r.name, label, i+1, total)

		start := time.Now()
		payload, err := r.try(ctx, descriptor, label, attempt)
		latency := time.Since(start)

		if err == nil {
			r.opts.Logger.Printf("[resolver:%s] served by %s in %v", r.name, label, latency)
			r.record(ctx, types.MetricEvent{
				Type:          types.MetricEventResolved,
				Descriptor:    label,
				AttemptNumber: i + 1,
				Latency:       latency,
			})
			return types.Success(payload, descriptor)
		}

		lastErr = err
		event := types.MetricEvent{
			Type:          types.MetricEventAttemptFailed,
			Descriptor:    label,
			AttemptNumber: i + 1,
			Latency:       latency,
			ErrorCode:     types.ClassifyError(err),
			ErrorMessage:  err.Error(),
		}
		if types.IsUnusable(err) {
			event.Type = types.MetricEventAttemptUnusable
		}
		r.opts.Logger.Printf("[resolver:%s] %s failed: %v", r.name, label, errors.Unwrap(err))
		r.record(ctx, event)
	}

	exhausted := &types.ExhaustionError{Operation: r.name, Attempts: attempts, Last: lastErr}
	r.opts.Logger.Printf("%v", exhausted)
	r.record(ctx, types.MetricEvent{
		Type:          types.MetricEventExhausted,
		AttemptNumber: attempts,
		ErrorCode:     types.ClassifyError(lastErr),
		ErrorMessage:  exhausted.Error(),
	})

	return types.Failure[T](r.opts.FailureMessage)
}

// try runs one attempt under its own timeout and applies the usability check
func (r *Resolver[T]) try(ctx context.Context, descriptor, label string, attempt AttemptFunc[T]) (T, error) {
	attemptCtx := ctx
	if r.opts.Timeout > 0 {
		var cancel context.CancelFunc
		attemptCtx, cancel = context.WithTimeout(ctx, r.opts.Timeout)
		defer cancel()
	}

	var zero T
	payload, err := attempt(attemptCtx, descriptor)
	if err != nil {
		var te *types.TransportError
		if errors.As(err, &te) {
			return zero, err
		}
		return zero, types.NewTransportError(r.name, label, types.ClassifyError(err), err)
	}
	if r.opts.Usable != nil && !r.opts.Usable(payload) {
		return zero, types.NewTransportError(r.name, label, types.ErrCodeUnusable, types.ErrUnusable)
	}
	return payload, nil
}

func (r *Resolver[T]) label(i int, descriptor string) string {
	if r.opts.RedactDescriptors {
		return r.pool.Label(i)
	}
	return descriptor
}

func (r *Resolver[T]) record(ctx context.Context, event types.MetricEvent) {
	if r.opts.Metrics == nil {
		return
	}
	event.Resolver = r.name
	event.Timestamp = time.Now()
	_ = r.opts.Metrics.RecordEvent(context.WithoutCancel(ctx), event)
}
