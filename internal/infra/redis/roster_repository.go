package redis

import (
	"context"
	"encoding/json"
	"math/rand"
	"sort"
	"strconv"
	"sync"
	"time"

	"quiz-scoreboard/internal/domain"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// RosterLoader fetches rosters from a backing store (Postgres, SQLite).
type RosterLoader interface {
	LoadRoster(ctx context.Context, rosterID string) (domain.Roster, error)
}

// RosterRepository caches rosters in Redis (hash per roster) and falls back to a loader on cache miss.
// Seats are stored as: HSET roster:{rosterID}:seats {seat} {"playerId":..,"name":..}
type RosterRepository struct {
	client *redis.Client
	loader RosterLoader
	ttl    time.Duration
	sf     singleflight.Group
	rndMu  sync.Mutex
	rnd    *rand.Rand
}

func NewRosterRepository(client *redis.Client, loader RosterLoader, ttl time.Duration) *RosterRepository {
	return &RosterRepository{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *RosterRepository) GetRoster(ctx context.Context, rosterID string) (domain.Roster, error) {
	key := r.seatsKey(rosterID)

	seats, err := r.client.HGetAll(ctx, key).Result()
	if err == nil && len(seats) > 0 {
		if roster, ok := buildRosterFromCache(rosterID, seats); ok {
			return roster, nil
		}
	}

	result, err, _ := r.sf.Do(rosterID, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		seats, err := r.client.HGetAll(ctx, key).Result()
		if err == nil && len(seats) > 0 {
			if roster, ok := buildRosterFromCache(rosterID, seats); ok {
				return roster, nil
			}
		}

		roster, err := r.loader.LoadRoster(ctx, rosterID)
		if err != nil {
			return domain.Roster{}, err
		}

		pipe := r.client.Pipeline()
		pipe.Del(ctx, key)
		for seat, entry := range roster.Entries {
			raw, err := json.Marshal(entry)
			if err != nil {
				return domain.Roster{}, err
			}
			pipe.HSet(ctx, key, strconv.Itoa(seat), raw)
		}
		if ttl := r.ttlWithJitter(); ttl > 0 {
			pipe.Expire(ctx, key, ttl)
		}
		_, _ = pipe.Exec(ctx)

		return roster, nil
	})
	if err != nil {
		return domain.Roster{}, err
	}
	return result.(domain.Roster), nil
}

func (r *RosterRepository) seatsKey(rosterID string) string {
	return "roster:" + rosterID + ":seats"
}

// buildRosterFromCache restores seat order. A malformed hash counts as a miss.
func buildRosterFromCache(rosterID string, seats map[string]string) (domain.Roster, bool) {
	type seated struct {
		seat  int
		entry domain.RosterEntry
	}
	list := make([]seated, 0, len(seats))
	for field, raw := range seats {
		seat, err := strconv.Atoi(field)
		if err != nil {
			return domain.Roster{}, false
		}
		var entry domain.RosterEntry
		if err := json.Unmarshal([]byte(raw), &entry); err != nil {
			return domain.Roster{}, false
		}
		list = append(list, seated{seat: seat, entry: entry})
	}
	sort.Slice(list, func(i, j int) bool { return list[i].seat < list[j].seat })

	entries := make([]domain.RosterEntry, 0, len(list))
	for _, s := range list {
		entries = append(entries, s.entry)
	}
	return domain.Roster{ID: rosterID, Entries: entries}, true
}

func (r *RosterRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	jitterMax := int64(r.ttl) / 10
	// fills for different rosters run concurrently
	r.rndMu.Lock()
	jitter := r.rnd.Int63n(jitterMax + 1)
	r.rndMu.Unlock()
	return r.ttl + time.Duration(jitter)
}
