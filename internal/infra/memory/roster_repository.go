package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"quiz-scoreboard/internal/domain"

	"golang.org/x/sync/singleflight"
)

// RosterLoader fetches rosters from a backing store (Postgres, SQLite, static).
type RosterLoader interface {
	LoadRoster(ctx context.Context, rosterID string) (domain.Roster, error)
}

// RosterRepository caches rosters with TTL to avoid repeated DB hits.
type RosterRepository struct {
	loader RosterLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group
	rnd    *rand.Rand

	mu    sync.RWMutex
	cache map[string]cachedRoster
}

type cachedRoster struct {
	roster    domain.Roster
	expiresAt time.Time
}

func NewRosterRepository(loader RosterLoader, ttl time.Duration) *RosterRepository {
	return &RosterRepository{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
		cache:  make(map[string]cachedRoster),
	}
}

func (r *RosterRepository) GetRoster(ctx context.Context, rosterID string) (domain.Roster, error) {
	now := r.clock()

	r.mu.RLock()
	if entry, ok := r.cache[rosterID]; ok && entry.expiresAt.After(now) {
		r.mu.RUnlock()
		return entry.roster, nil
	}
	r.mu.RUnlock()

	result, err, _ := r.sf.Do(rosterID, func() (interface{}, error) {
		now := r.clock()
		r.mu.RLock()
		if entry, ok := r.cache[rosterID]; ok && entry.expiresAt.After(now) {
			r.mu.RUnlock()
			return entry.roster, nil
		}
		r.mu.RUnlock()

		roster, err := r.loader.LoadRoster(ctx, rosterID)
		if err != nil {
			return domain.Roster{}, err
		}

		r.mu.Lock()
		r.cache[rosterID] = cachedRoster{
			roster:    roster,
			expiresAt: now.Add(r.ttlWithJitter()),
		}
		r.mu.Unlock()
		return roster, nil
	})
	if err != nil {
		return domain.Roster{}, err
	}
	return result.(domain.Roster), nil
}

// StaticRosterLoader is a simple loader backed by an in-memory map (useful for tests/demos).
type StaticRosterLoader struct {
	rosters map[string]domain.Roster
}

func NewStaticRosterLoader(rosters map[string]domain.Roster) *StaticRosterLoader {
	return &StaticRosterLoader{rosters: rosters}
}

func (l *StaticRosterLoader) LoadRoster(_ context.Context, rosterID string) (domain.Roster, error) {
	if roster, ok := l.rosters[rosterID]; ok {
		return roster, nil
	}
	return domain.Roster{}, domain.ErrRosterNotFound
}

func (r *RosterRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
