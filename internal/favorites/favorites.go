package favorites

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/DanisAlfonso/remittance-app-sub000/internal/storage"
)

const keyPrefix = "favorites:"

// Registry is the per-user set of recipient dedup keys marked favorite.
// Toggles apply in memory first; the durable write is best-effort and a
// failure never reverts the toggle.
type Registry struct {
	mu     sync.Mutex
	kv     storage.KeyValue
	userID string
	keys   map[string]struct{}

	log *slog.Logger
}

func NewRegistry(kv storage.KeyValue) *Registry {
	return &Registry{kv: kv, keys: make(map[string]struct{}), log: slog.Default()}
}

// Load switches the registry to a user and rehydrates their persisted set.
// A missing or unreadable entry is treated as an empty set.
func (r *Registry) Load(userID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.userID = userID
	r.keys = make(map[string]struct{})

	raw, err := r.kv.GetItem(keyPrefix + userID)
	if err != nil {
		if !errors.Is(err, storage.ErrNoItem) {
			r.log.Warn("favorites load failed", "error", err)
		}
		return
	}

	var stored []string
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		r.log.Warn("favorites entry corrupt, starting empty", "error", err)
		return
	}
	for _, k := range stored {
		r.keys[k] = struct{}{}
	}
}

// Toggle flips membership of key and persists the updated set. The in-memory
// flip sticks even when the durable write fails.
func (r *Registry) Toggle(key string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.keys[key]; ok {
		delete(r.keys, key)
	} else {
		r.keys[key] = struct{}{}
	}
	_, nowFavorite := r.keys[key]

	if err := r.persistLocked(); err != nil {
		r.log.Warn("favorites persist failed", "key", key, "error", err)
	}
	return nowFavorite
}

func (r *Registry) IsFavorite(key string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.keys[key]
	return ok
}

// Keys returns the current set, sorted for stable output.
func (r *Registry) Keys() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]string, 0, len(r.keys))
	for k := range r.keys {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Wipe clears the in-memory set and deletes the durable entry for userID.
// Called by the session boundary guard on identity change.
func (r *Registry) Wipe(userID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.keys = make(map[string]struct{})
	if err := r.kv.RemoveItem(keyPrefix + userID); err != nil {
		r.log.Warn("favorites wipe failed", "user_id", userID, "error", err)
	}
}

func (r *Registry) persistLocked() error {
	keys := make([]string, 0, len(r.keys))
	for k := range r.keys {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	raw, err := json.Marshal(keys)
	if err != nil {
		return fmt.Errorf("persist: %w", err)
	}
	if err := r.kv.SetItem(keyPrefix+r.userID, string(raw)); err != nil {
		return fmt.Errorf("persist: %w", err)
	}
	return nil
}
