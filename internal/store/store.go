// Package store provides the key-value persistence behind tweak state,
// per-app profiles, the game list and user settings.
//
// Each concern lives in its own namespace. A Backend hands out namespaces;
// the YAML backend keeps one file per namespace under the data directory and
// the SQLite backend keeps every namespace in a single table.
package store

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrNotFound is returned by KV.Get when a key has never been written.
var ErrNotFound = errors.New("key not found")

// Namespace names used by the rest of the tool.
const (
	NamespaceTweaks   = "tweaks"
	NamespaceProfiles = "profiles"
	NamespaceSettings = "settings"
	NamespaceGames    = "games"
)

// KV is a flat string key-value namespace.
type KV interface {
	// Get returns the stored value or ErrNotFound.
	Get(key string) (string, error)

	// Set stores value under key, replacing any previous value.
	Set(key, value string) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(key string) error

	// Keys returns every stored key in ascending order.
	Keys() ([]string, error)
}

// Backend opens namespaces on a storage medium.
type Backend interface {
	// Namespace returns the KV for name, creating it on first use.
	Namespace(name string) (KV, error)

	// Close releases any resources held by the backend.
	Close() error
}

// Backend kinds accepted by Open.
const (
	BackendYAML   = "yaml"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// Open returns the backend of the given kind rooted at path.
//
// Parameters:
//   - kind: One of BackendYAML, BackendSQLite or BackendMemory
//   - path: Data directory (yaml) or database file (sqlite); ignored for memory
//
// Returns:
//   - Backend: The opened backend
//   - error: Unknown kind or any error opening the medium
func Open(kind, path string) (Backend, error) {
	switch strings.ToLower(kind) {
	case "", BackendYAML:
		return NewFileBackend(path), nil
	case BackendSQLite:
		return OpenSQLite(path)
	case BackendMemory:
		return NewMemoryBackend(), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q (want yaml, sqlite or memory)", kind)
	}
}

// GetString returns the value for key, or def when it is missing or unreadable.
func GetString(kv KV, key, def string) string {
	v, err := kv.Get(key)
	if err != nil {
		return def
	}
	return v
}

// GetBool returns the boolean stored under key. Missing keys and values that
// do not parse as a boolean yield def.
func GetBool(kv KV, key string, def bool) bool {
	v, err := kv.Get(key)
	if err != nil {
		return def
	}
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	if err != nil {
		return def
	}
	return b
}

// SetBool stores a boolean under key.
func SetBool(kv KV, key string, value bool) error {
	return kv.Set(key, strconv.FormatBool(value))
}

// GetFloat returns the float stored under key, or def when missing or malformed.
func GetFloat(kv KV, key string, def float64) float64 {
	v, err := kv.Get(key)
	if err != nil {
		return def
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return def
	}
	return f
}

// SetFloat stores a float under key.
func SetFloat(kv KV, key string, value float64) error {
	return kv.Set(key, strconv.FormatFloat(value, 'f', -1, 64))
}
