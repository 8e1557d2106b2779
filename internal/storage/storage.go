package storage

import "errors"

var (
	// ErrNoItem is returned when a key has no stored value.
	ErrNoItem = errors.New("no item for key")
	// ErrWriteFailed signals the store rejected a write.
	ErrWriteFailed = errors.New("secure store write failed")
)

// KeyValue is the durable secure store the app shell provides. Values are
// opaque serialized strings; persistence is at-least-once with no
// transactional guarantees across keys.
type KeyValue interface {
	GetItem(key string) (string, error)
	SetItem(key, value string) error
	RemoveItem(key string) error
}
