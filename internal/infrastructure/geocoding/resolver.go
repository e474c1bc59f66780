package geocoding

import (
	"context"
	"strings"
	"time"

	"github.com/ternarybob/arbor"
)

const DefaultSecondaryDelay = 500 * time.Millisecond

// Resolver tries each provider in order and never fails: provider errors are
// logged and treated as "no result".
type Resolver struct {
	primary        Provider
	secondary      Provider
	fallback       Provider
	secondaryDelay time.Duration
	timeout        time.Duration
	logger         arbor.ILogger
	sleep          func(context.Context, time.Duration) error
}

type ResolverOption func(*Resolver)

func WithSecondaryDelay(d time.Duration) ResolverOption {
	return func(r *Resolver) { r.secondaryDelay = d }
}

// WithProviderTimeout bounds every single provider call.
func WithProviderTimeout(d time.Duration) ResolverOption {
	return func(r *Resolver) { r.timeout = d }
}

func WithLogger(logger arbor.ILogger) ResolverOption {
	return func(r *Resolver) {
		if logger != nil {
			r.logger = logger
		}
	}
}

func WithSleeper(fn func(context.Context, time.Duration) error) ResolverOption {
	return func(r *Resolver) {
		if fn != nil {
			r.sleep = fn
		}
	}
}

// NewResolver builds the chain. Any provider may be nil.
func NewResolver(primary, secondary, fallback Provider, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		primary:        primary,
		secondary:      secondary,
		fallback:       fallback,
		secondaryDelay: DefaultSecondaryDelay,
		timeout:        DefaultTimeout,
		logger:         arbor.NewLogger(),
		sleep:          Sleep,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns nil when the address is blank or no strategy produced
// coordinates.
func (r *Resolver) Resolve(ctx context.Context, address string) *Result {
	address = strings.TrimSpace(address)
	if address == "" {
		return nil
	}

	if usable(r.primary) {
		if res := r.try(ctx, r.primary, address); res != nil {
			return res
		}
	} else if r.primary != nil {
		r.logger.Debug().Str("provider", r.primary.Name()).Msg("geocoding provider not configured, skipping")
	}

	if usable(r.secondary) {
		if err := r.sleep(ctx, r.secondaryDelay); err != nil {
			return nil
		}
		if res := r.try(ctx, r.secondary, address); res != nil {
			return res
		}
	}

	if r.fallback != nil {
		return r.try(ctx, r.fallback, address)
	}
	return nil
}

func (r *Resolver) try(ctx context.Context, p Provider, address string) *Result {
	callCtx := ctx
	if r.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	res, err := p.Geocode(callCtx, address)
	if err != nil {
		r.logger.Warn().Err(err).Str("provider", p.Name()).Str("address", address).Msg("geocoding provider failed")
		return nil
	}
	return res
}

func usable(p Provider) bool {
	if p == nil {
		return false
	}
	if c, ok := p.(Configurable); ok {
		return c.Configured()
	}
	return true
}

// Sleep waits for d or until ctx is done.
func Sleep(ctx context.Context, d time.Duration) error {
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
