package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/kirillkom/content-moderation/internal/core/domain"
	"github.com/kirillkom/content-moderation/internal/core/ports"
)

const defaultRefreshInterval = 60 * time.Second

// Registry holds the ordered endpoint list and hands endpoints out
// round-robin, skipping those in cooldown. One mutex serializes the
// cursor, the cooldown map and list swaps; the descriptor list itself is
// replaced wholesale on refresh, never mutated in place.
type Registry struct {
	store           ports.EndpointConfigStore
	refreshInterval time.Duration
	clock           func() time.Time

	mu            sync.Mutex
	endpoints     []domain.Endpoint
	cooldownUntil map[string]time.Time
	cursor        int
	lastRefresh   time.Time
}

func NewRegistry(store ports.EndpointConfigStore, refreshInterval time.Duration, clock func() time.Time) *Registry {
	if refreshInterval <= 0 {
		refreshInterval = defaultRefreshInterval
	}
	if clock == nil {
		clock = time.Now
	}
	return &Registry{
		store:           store,
		refreshInterval: refreshInterval,
		clock:           clock,
		cooldownUntil:   make(map[string]time.Time),
	}
}

// Next returns the next usable endpoint. If every endpoint is cooling it
// returns the one whose cooldown expires soonest; it errors only when the
// registry itself is empty, which is a configuration problem.
func (r *Registry) Next(ctx context.Context) (domain.Endpoint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.refreshLocked(ctx)

	if len(r.endpoints) == 0 {
		return domain.Endpoint{}, domain.WrapError(
			domain.ErrNoEndpoints,
			"schedule endpoint",
			errors.New("endpoint registry is empty"),
		)
	}

	now := r.clock()
	n := len(r.endpoints)
	for i := 0; i < n; i++ {
		idx := (r.cursor + i) % n
		endpoint := r.endpoints[idx]
		if r.availableLocked(endpoint.Name, now) {
			r.cursor = (idx + 1) % n
			return endpoint, nil
		}
	}

	// All endpoints are cooling: pick the soonest to recover.
	best := r.endpoints[0]
	bestUntil := r.cooldownUntil[best.Name]
	for _, endpoint := range r.endpoints[1:] {
		if until := r.cooldownUntil[endpoint.Name]; until.Before(bestUntil) {
			best = endpoint
			bestUntil = until
		}
	}
	return best, nil
}

// MarkRateLimited puts the endpoint into cooldown for its configured
// duration, starting now.
func (r *Registry) MarkRateLimited(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cooldown := defaultRefreshInterval
	for _, endpoint := range r.endpoints {
		if endpoint.Name == name {
			cooldown = endpoint.Cooldown
			break
		}
	}
	r.cooldownUntil[name] = r.clock().Add(cooldown)
	slog.Warn("endpoint_cooldown", "endpoint", name, "cooldown", cooldown.String())
}

// IsAvailable reports whether the endpoint is currently schedulable.
func (r *Registry) IsAvailable(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.availableLocked(name, r.clock())
}

func (r *Registry) availableLocked(name string, now time.Time) bool {
	until, cooling := r.cooldownUntil[name]
	return !cooling || !now.Before(until)
}

// refreshLocked reloads the descriptor list from the config store when the
// refresh interval has elapsed. On failure the previous list is kept.
func (r *Registry) refreshLocked(ctx context.Context) {
	now := r.clock()
	if !r.lastRefresh.IsZero() && now.Sub(r.lastRefresh) < r.refreshInterval {
		return
	}
	r.lastRefresh = now

	endpoints, err := r.store.ListEnabledEndpoints(ctx)
	if err != nil {
		slog.Error("endpoint_refresh_failed", "error", err)
		return
	}
	sort.SliceStable(endpoints, func(i, j int) bool {
		return endpoints[i].Priority < endpoints[j].Priority
	})
	r.endpoints = endpoints
	if r.cursor >= len(endpoints) {
		r.cursor = 0
	}
}
