package content

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"

	"github.com/studyloop/lecturecast/internal/telemetry"
)

// Retry defaults.
const (
	DefaultAttempts          = 3
	DefaultBackoff           = 2 * time.Second
	DefaultRequestsPerMinute = 30
)

// Delivery is the outcome of fetching one section's narration.
type Delivery struct {
	Section  string
	Text     string
	Fallback bool
	Attempts int
	Err      error // last generator error, if any
}

// Retrying wraps a Generator with bounded retries, rate limiting and a
// fallback. Only timeouts and overload responses are retried; any other
// error switches to the fallback at once.
type Retrying struct {
	gen      Generator
	fallback Generator
	attempts int
	backoff  time.Duration
	limiter  *rate.Limiter
	logger   *log.Logger
	metrics  *telemetry.Metrics
}

// RetryOption configures a Retrying generator.
type RetryOption func(*Retrying)

func WithAttempts(n int) RetryOption {
	return func(r *Retrying) {
		if n > 0 {
			r.attempts = n
		}
	}
}

// WithBackoff sets the delay before the second attempt. It doubles after
// each retry.
func WithBackoff(d time.Duration) RetryOption {
	return func(r *Retrying) {
		if d >= 0 {
			r.backoff = d
		}
	}
}

// WithRequestsPerMinute bounds calls to the wrapped generator.
// Zero or less disables the limiter.
func WithRequestsPerMinute(n int) RetryOption {
	return func(r *Retrying) {
		if n <= 0 {
			r.limiter = nil
			return
		}
		r.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(n)), 1)
	}
}

func WithRetryLogger(l *log.Logger) RetryOption {
	return func(r *Retrying) { r.logger = l }
}

func WithRetryMetrics(m *telemetry.Metrics) RetryOption {
	return func(r *Retrying) { r.metrics = m }
}

// NewRetrying wraps gen. A nil gen always serves the fallback; a nil
// fallback means Fallback{}.
func NewRetrying(gen, fallback Generator, opts ...RetryOption) *Retrying {
	if fallback == nil {
		fallback = Fallback{}
	}
	r := &Retrying{
		gen:      gen,
		fallback: fallback,
		attempts: DefaultAttempts,
		backoff:  DefaultBackoff,
		limiter:  rate.NewLimiter(rate.Every(time.Minute/DefaultRequestsPerMinute), 1),
		logger:   log.WithPrefix("content"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Deliver fetches the narration for section. It only returns without text
// when ctx is done; Delivery.Err then holds the context error.
func (r *Retrying) Deliver(ctx context.Context, section string) Delivery {
	d := Delivery{Section: section}
	if r.gen == nil {
		return r.useFallback(ctx, d)
	}

	backoff := r.backoff
	for attempt := 1; attempt <= r.attempts; attempt++ {
		if r.limiter != nil {
			if err := r.limiter.Wait(ctx); err != nil {
				if ctx.Err() != nil {
					d.Err = ctx.Err()
					return d
				}
				d.Err = err
				return r.useFallback(ctx, d)
			}
		}

		d.Attempts = attempt
		text, err := r.gen.Generate(ctx, section)
		if err == nil && strings.TrimSpace(text) == "" {
			err = ErrEmptyResponse
		}
		if err == nil {
			d.Text = text
			d.Err = nil
			return d
		}
		d.Err = err
		if ctx.Err() != nil {
			d.Err = ctx.Err()
			return d
		}

		if !Retryable(err) {
			r.logger.Warn("Content: generator failed, using fallback", "section", section, "err", err)
			return r.useFallback(ctx, d)
		}
		if attempt == r.attempts {
			break
		}

		r.logger.Warn("Content: retrying generator",
			"section", section,
			"attempt", attempt,
			"of", r.attempts,
			"backoff", backoff,
			"err", err)
		r.metrics.GeneratorRetry(ctx, section)

		if err := sleep(ctx, backoff); err != nil {
			d.Err = err
			return d
		}
		backoff *= 2
	}

	r.logger.Error("Content: generator exhausted retries, using fallback", "section", section, "attempts", d.Attempts)
	return r.useFallback(ctx, d)
}

// Generate implements Generator. It only fails when ctx is done.
func (r *Retrying) Generate(ctx context.Context, section string) (string, error) {
	d := r.Deliver(ctx, section)
	if d.Text == "" && ctx.Err() != nil {
		return "", ctx.Err()
	}
	return d.Text, nil
}

func (r *Retrying) useFallback(ctx context.Context, d Delivery) Delivery {
	text, err := r.fallback.Generate(ctx, d.Section)
	if err != nil || strings.TrimSpace(text) == "" {
		text = FallbackText(d.Section)
	}
	d.Text = text
	d.Fallback = true
	return d
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
