package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"
)

// FileStore is a KV persisted as a flat YAML mapping in a single file.
//
// Every Set rewrites the whole file through a temp file and rename, so a
// reader never observes a half-written mapping.
type FileStore struct {
	// path is the YAML file backing this namespace.
	path string

	// mu protects data.
	mu sync.RWMutex

	// data is the in-memory copy of the file.
	data map[string]string
}

// NewFileStore loads the namespace stored at path. A missing file is an
// empty namespace; it is created on the first write.
//
// Parameters:
//   - path: The YAML file to back the store
//
// Returns:
//   - *FileStore: The loaded store
//   - error: Any error reading or parsing an existing file
func NewFileStore(path string) (*FileStore, error) {
	s := &FileStore{path: path, data: make(map[string]string)}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Path returns the file backing the store.
func (s *FileStore) Path() string {
	return s.path
}

// Reload replaces the in-memory copy with the file contents.
//
// Returns:
//   - error: Any error reading or parsing the file (other than it not existing)
func (s *FileStore) Reload() error {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.mu.Lock()
			s.data = make(map[string]string)
			s.mu.Unlock()
			return nil
		}
		return fmt.Errorf("failed to read %s: %w", s.path, err)
	}

	data := make(map[string]string)
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return fmt.Errorf("failed to parse %s: %w", s.path, err)
	}
	if data == nil {
		data = make(map[string]string)
	}

	s.mu.Lock()
	s.data = data
	s.mu.Unlock()
	return nil
}

// Get implements KV.
func (s *FileStore) Get(key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

// Set implements KV.
func (s *FileStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev, had := s.data[key]
	s.data[key] = value
	if err := s.flushLocked(); err != nil {
		if had {
			s.data[key] = prev
		} else {
			delete(s.data, key)
		}
		return err
	}
	return nil
}

// Delete implements KV.
func (s *FileStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev, had := s.data[key]
	if !had {
		return nil
	}
	delete(s.data, key)
	if err := s.flushLocked(); err != nil {
		s.data[key] = prev
		return err
	}
	return nil
}

// Keys implements KV.
func (s *FileStore) Keys() ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.data))
	for k := range s.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

// flushLocked writes data to disk. Caller must hold mu.
func (s *FileStore) flushLocked() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	out, err := yaml.Marshal(s.data)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", s.path, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", s.path, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(out); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write %s: %w", s.path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to write %s: %w", s.path, err)
	}
	if err := os.Chmod(tmpName, 0600); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to write %s: %w", s.path, err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to write %s: %w", s.path, err)
	}
	return nil
}

// Watch reloads the store whenever its file changes on disk and then calls
// onChange. It blocks until ctx is done.
//
// The parent directory is watched rather than the file itself because
// writers replace the file by rename.
//
// Parameters:
//   - ctx: Context that stops the watch
//   - onChange: Called after each successful reload (may be nil)
//
// Returns:
//   - error: Any error setting up the watcher
func (s *FileStore) Watch(ctx context.Context, onChange func()) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	target := filepath.Clean(s.path)
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) && !ev.Has(fsnotify.Remove) {
				continue
			}
			if err := s.Reload(); err != nil {
				log.Warn("store reload failed", "path", s.path, "error", err)
				continue
			}
			log.Debug("store reloaded", "path", s.path)
			if onChange != nil {
				onChange()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn("store watcher error", "path", s.path, "error", err)
		}
	}
}

// FileBackend keeps one YAML file per namespace in a directory.
type FileBackend struct {
	// dir is the data directory.
	dir string

	mu         sync.Mutex
	namespaces map[string]*FileStore
}

// NewFileBackend returns a backend rooted at dir.
//
// Parameters:
//   - dir: The data directory (created lazily on first write)
//
// Returns:
//   - *FileBackend: A new backend
func NewFileBackend(dir string) *FileBackend {
	return &FileBackend{dir: dir, namespaces: make(map[string]*FileStore)}
}

// Namespace implements Backend.
func (b *FileBackend) Namespace(name string) (KV, error) {
	return b.FileNamespace(name)
}

// FileNamespace is Namespace with the concrete type, for callers that want
// to Watch the namespace.
func (b *FileBackend) FileNamespace(name string) (*FileStore, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if ns, ok := b.namespaces[name]; ok {
		return ns, nil
	}
	ns, err := NewFileStore(filepath.Join(b.dir, name+".yaml"))
	if err != nil {
		return nil, err
	}
	b.namespaces[name] = ns
	return ns, nil
}

// Close implements Backend.
func (b *FileBackend) Close() error { return nil }
