package clash

import (
	"sync"
	"time"
)

// Cache is an in-memory TTL cache for API lookups. Clans and players change
// slowly; wars change every attack, so they get a much shorter TTL. It is
// safe for concurrent use and all methods are no-ops on a nil *Cache.
type Cache struct {
	mu sync.RWMutex

	clans   ttlStore[*Clan]
	players ttlStore[*Player]
	wars    ttlStore[*War]

	janitorStop chan struct{}
}

// ttlStore maps a tag to a value with its expiry. Callers hold Cache.mu.
type ttlStore[T any] struct {
	ttl   time.Duration
	items map[string]cachedItem[T]
}

type cachedItem[T any] struct {
	value     T
	expiresAt time.Time
}

func newStore[T any](ttl time.Duration) ttlStore[T] {
	return ttlStore[T]{ttl: ttl, items: make(map[string]cachedItem[T])}
}

func (s *ttlStore[T]) purge(now time.Time) {
	for k, v := range s.items {
		if now.After(v.expiresAt) {
			delete(s.items, k)
		}
	}
}

// NewCache creates a Cache. Any TTL <= 0 falls back to its default:
// 10 minutes for clans, 10 minutes for players, 1 minute for wars.
func NewCache(clanTTL, playerTTL, warTTL time.Duration) *Cache {
	if clanTTL <= 0 {
		clanTTL = 10 * time.Minute
	}
	if playerTTL <= 0 {
		playerTTL = 10 * time.Minute
	}
	if warTTL <= 0 {
		warTTL = time.Minute
	}
	return &Cache{
		clans:   newStore[*Clan](clanTTL),
		players: newStore[*Player](playerTTL),
		wars:    newStore[*War](warTTL),
	}
}

// NewDefaultCache creates a Cache with default TTLs.
func NewDefaultCache() *Cache {
	return NewCache(0, 0, 0)
}

func get[T any](c *Cache, s *ttlStore[T], key string) (T, bool) {
	var zero T
	if c == nil || key == "" {
		return zero, false
	}

	c.mu.RLock()
	item, ok := s.items[key]
	c.mu.RUnlock()
	if !ok {
		return zero, false
	}

	if time.Now().After(item.expiresAt) {
		c.mu.Lock()
		delete(s.items, key)
		c.mu.Unlock()
		return zero, false
	}
	return item.value, true
}

func set[T any](c *Cache, s *ttlStore[T], key string, value T) {
	if c == nil || key == "" {
		return
	}
	c.mu.Lock()
	s.items[key] = cachedItem[T]{value: value, expiresAt: time.Now().Add(s.ttl)}
	c.mu.Unlock()
}

// GetClan returns a cached clan by normalized tag.
func (c *Cache) GetClan(tag string) (*Clan, bool) {
	if c == nil {
		return nil, false
	}
	return get(c, &c.clans, tag)
}

// SetClan caches a clan by normalized tag.
func (c *Cache) SetClan(tag string, clan *Clan) {
	if c == nil || clan == nil {
		return
	}
	set(c, &c.clans, tag, clan)
}

// GetPlayer returns a cached player by normalized tag.
func (c *Cache) GetPlayer(tag string) (*Player, bool) {
	if c == nil {
		return nil, false
	}
	return get(c, &c.players, tag)
}

// SetPlayer caches a player by normalized tag.
func (c *Cache) SetPlayer(tag string, player *Player) {
	if c == nil || player == nil {
		return
	}
	set(c, &c.players, tag, player)
}

// GetWar returns a cached current war by normalized clan tag.
func (c *Cache) GetWar(tag string) (*War, bool) {
	if c == nil {
		return nil, false
	}
	return get(c, &c.wars, tag)
}

// SetWar caches a current war by normalized clan tag.
func (c *Cache) SetWar(tag string, war *War) {
	if c == nil || war == nil {
		return
	}
	set(c, &c.wars, tag, war)
}

// PurgeExpired removes expired entries.
func (c *Cache) PurgeExpired() {
	if c == nil {
		return
	}
	now := time.Now()

	c.mu.Lock()
	c.clans.purge(now)
	c.players.purge(now)
	c.wars.purge(now)
	c.mu.Unlock()
}

// StartJanitor purges expired entries every interval (5 minutes if <= 0)
// until the returned stop function is called. Starting a new janitor stops
// the previous one.
func (c *Cache) StartJanitor(interval time.Duration) func() {
	if c == nil {
		return func() {}
	}
	if interval <= 0 {
		interval = 5 * time.Minute
	}

	c.mu.Lock()
	if c.janitorStop != nil {
		close(c.janitorStop)
	}
	stop := make(chan struct{})
	c.janitorStop = stop
	c.mu.Unlock()

	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				c.PurgeExpired()
			case <-stop:
				return
			}
		}
	}()

	return func() {
		c.mu.Lock()
		if c.janitorStop == stop {
			close(stop)
			c.janitorStop = nil
		}
		c.mu.Unlock()
	}
}

// Stats returns the number of live entries after purging expired ones.
func (c *Cache) Stats() (clans, players, wars int) {
	if c == nil {
		return 0, 0, 0
	}
	c.PurgeExpired()

	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.clans.items), len(c.players.items), len(c.wars.items)
}
