package props

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog/log"
	"github.com/sasha-s/go-deadlock"
)

// Store is the write-behind cache every other component persists through.
// Reads are served from the cache (lazily populated from the backend), writes
// land in the cache immediately and are flushed to the backend in batches, so
// readers always observe their own writes regardless of flush timing.
type Store struct {
	mutex   deadlock.Mutex
	backend Backend
	cache   map[string]Value
	dirty   map[string]struct{}
}

func NewStore(backend Backend) *Store {
	return &Store{
		backend: backend,
		cache:   make(map[string]Value),
		dirty:   make(map[string]struct{}),
	}
}

// LoadAll eagerly primes the cache with every known slot. Unknown keys left
// behind by older versions are picked up lazily.
func (s *Store) LoadAll(ctx context.Context) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	loaded := 0
	for _, key := range KnownKeys {
		value, err := s.backend.Load(ctx, key)
		if err != nil {
			log.Warn().Err(err).Str("key", key).Msg("failed to load property")
			continue
		}
		if value == nil {
			continue
		}
		s.cache[key] = value
		loaded++
	}

	log.Debug().Msgf("loaded %d properties into cache", loaded)
}

// Get returns the cached value for key, fetching from the backend on first
// read. An absent slot yields fallback, which is then cached.
func (s *Store) Get(key string, fallback Value) Value {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.get(key, fallback)
}

func (s *Store) get(key string, fallback Value) Value {
	if value, ok := s.cache[key]; ok {
		return value
	}

	value, err := s.backend.Load(context.Background(), key)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("failed to read property")
		value = nil
	}
	if value == nil {
		value = fallback
	}
	s.cache[key] = value
	return value
}

// Set updates the cache and marks the key dirty for the next flush.
func (s *Store) Set(key string, value Value) {
	s.mutex.Lock()
	s.cache[key] = value
	s.dirty[key] = struct{}{}
	s.mutex.Unlock()
}

func (s *Store) GetBool(key string, fallback bool) bool {
	if value, ok := s.Get(key, nil).(bool); ok {
		return value
	}
	return fallback
}

func (s *Store) SetBool(key string, value bool) {
	s.Set(key, value)
}

func (s *Store) GetNumber(key string, fallback int64) int64 {
	if value, ok := s.Get(key, nil).(int64); ok {
		return value
	}
	return fallback
}

func (s *Store) SetNumber(key string, value int64) {
	s.Set(key, value)
}

func (s *Store) GetString(key string, fallback string) string {
	if value, ok := s.Get(key, nil).(string); ok {
		return value
	}
	return fallback
}

func (s *Store) SetString(key string, value string) {
	s.Set(key, value)
}

// Has reports whether the slot exists without installing a fallback.
func (s *Store) Has(key string) bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.get(key, nil) != nil
}

// GetJSON decodes the JSON slot at key. Absent or malformed payloads yield
// fallback; corruption is logged, never fatal.
func GetJSON[T any](s *Store, key string, fallback T) T {
	raw := s.GetString(key, "")
	if raw == "" {
		return fallback
	}

	var value T
	if err := json.Unmarshal([]byte(raw), &value); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("failed to parse persisted JSON")
		return fallback
	}
	return value
}

// SetJSON serializes value into the string slot at key. Payloads over
// LimitBytes keep the cached value for the rest of the session but are never
// written to the backend; the previously persisted value survives a reload.
func SetJSON[T any](s *Store, key string, value T) {
	payload, err := json.Marshal(value)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("failed to serialize property")
		return
	}

	if len(payload) > LimitBytes {
		log.Warn().
			Str("key", key).
			Int("bytes", len(payload)).
			Msg("payload exceeds property ceiling, write dropped")
		s.mutex.Lock()
		s.cache[key] = string(payload)
		delete(s.dirty, key)
		s.mutex.Unlock()
		return
	}

	s.SetString(key, string(payload))
}

// Flush writes all dirty keys to the backend and clears the dirty set. It is
// idempotent and a no-op when nothing is dirty.
func (s *Store) Flush(ctx context.Context) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if len(s.dirty) == 0 {
		return
	}

	flushed := 0
	for key := range s.dirty {
		value, ok := s.cache[key]
		if !ok || value == nil {
			continue
		}
		if err := s.backend.Store(ctx, key, value); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("failed to flush property")
			continue
		}
		flushed++
	}

	s.dirty = make(map[string]struct{})
	log.Debug().Msgf("flushed %d properties", flushed)
}

// Reload discards the cache and dirty set and re-reads every key the backend
// knows about. Required after an external state restore.
func (s *Store) Reload(ctx context.Context) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.cache = make(map[string]Value)
	s.dirty = make(map[string]struct{})

	keys, err := s.backend.Keys(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("failed to list properties on reload")
		return
	}

	for _, key := range keys {
		value, err := s.backend.Load(ctx, key)
		if err != nil {
			log.Warn().Err(err).Str("key", key).Msg("failed to reload property")
			continue
		}
		if value != nil {
			s.cache[key] = value
		}
	}
}
