package brain

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sentinelai/sentinel/internal/logging"
)

// ErrExhausted is returned when every provider was skipped or failed.
// Callers treat it as "no analysis available now", not as a fatal condition.
var ErrExhausted = errors.New("all providers exhausted")

// ProviderStatus is the observable state of one provider.
type ProviderStatus string

const (
	StatusActive   ProviderStatus = "active"
	StatusCooldown ProviderStatus = "cooldown"
	StatusNoKey    ProviderStatus = "no_key"
)

// Cooldowns tracks per-provider unavailability windows. The map is shared by
// every orchestration call in the process and may be hit from overlapping
// triggers, so all access goes through the mutex. Windows only ever extend:
// a second failure before expiry pushes the deadline out, never pulls it in.
type Cooldowns struct {
	mu    sync.Mutex
	until map[string]time.Time
}

// NewCooldowns creates an empty cooldown table.
func NewCooldowns() *Cooldowns {
	return &Cooldowns{until: make(map[string]time.Time)}
}

// Cooling reports whether the provider is inside its cooldown window.
func (c *Cooldowns) Cooling(name string, now time.Time) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return now.Before(c.until[name])
}

// Trip puts the provider on cooldown until the given deadline. Earlier
// deadlines are ignored to keep the window monotonic.
func (c *Cooldowns) Trip(name string, until time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if until.After(c.until[name]) {
		c.until[name] = until
	}
}

// Orchestrator routes prompts across an ordered provider chain with
// fail-over and cooldown. A provider that errors is benched for
// cooldownDuration and the next candidate is tried; the first success wins.
type Orchestrator struct {
	providers []Provider
	cooldowns *Cooldowns

	cooldownDuration time.Duration
	callTimeout      time.Duration
	pause            time.Duration // inter-call pause, softens burst on shared quota
	now              func() time.Time
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) { o.now = now }
}

// WithPause overrides the inter-call pause.
func WithPause(d time.Duration) Option {
	return func(o *Orchestrator) { o.pause = d }
}

// WithCooldownDuration overrides the per-failure cooldown window.
func WithCooldownDuration(d time.Duration) Option {
	return func(o *Orchestrator) { o.cooldownDuration = d }
}

// WithCallTimeout overrides the per-provider call timeout.
func WithCallTimeout(d time.Duration) Option {
	return func(o *Orchestrator) { o.callTimeout = d }
}

// NewOrchestrator creates an orchestrator over the given provider chain.
// The cooldown table is injected so overlapping triggers share one view of
// provider health and tests get isolated instances.
func NewOrchestrator(providers []Provider, cooldowns *Cooldowns, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		providers:        providers,
		cooldowns:        cooldowns,
		cooldownDuration: 300 * time.Second,
		callTimeout:      20 * time.Second,
		pause:            time.Second,
		now:              time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Analyze sends the request to the first provider that can answer. With
// loadBalance set, the starting offset rotates with wall-clock seconds —
// a coarse temporal round-robin, not a least-loaded policy.
func (o *Orchestrator) Analyze(ctx context.Context, req Request, loadBalance bool) (string, error) {
	n := len(o.providers)
	if n == 0 {
		return "", ErrExhausted
	}

	offset := 0
	if loadBalance {
		offset = int(o.now().Unix()) % n
	}

	for i := 0; i < n; i++ {
		p := o.providers[(offset+i)%n]

		if !p.Available() {
			continue
		}
		if o.cooldowns.Cooling(p.Name(), o.now()) {
			logging.Debug("provider cooling, skipped", "provider", p.Name())
			continue
		}

		if o.pause > 0 {
			select {
			case <-time.After(o.pause):
			case <-ctx.Done():
				return "", ctx.Err()
			}
		}

		logging.Info("trying provider", "provider", p.Name())

		callCtx, cancel := context.WithTimeout(ctx, o.callTimeout)
		resp, err := p.Generate(callCtx, req)
		cancel()

		if err != nil {
			logging.Warn("provider failed, cooling down", "provider", p.Name(),
				"error", err, "cooldown", o.cooldownDuration)
			o.cooldowns.Trip(p.Name(), o.now().Add(o.cooldownDuration))
			continue
		}

		return resp.Content, nil
	}

	return "", ErrExhausted
}

// Status returns a read-only snapshot of each provider's state. It never
// mutates cooldown state.
func (o *Orchestrator) Status() map[string]ProviderStatus {
	now := o.now()
	status := make(map[string]ProviderStatus, len(o.providers))
	for _, p := range o.providers {
		switch {
		case !p.Available():
			status[p.Name()] = StatusNoKey
		case o.cooldowns.Cooling(p.Name(), now):
			status[p.Name()] = StatusCooldown
		default:
			status[p.Name()] = StatusActive
		}
	}
	return status
}
