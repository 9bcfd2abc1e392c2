package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// LocalBackend is a synchronous key->string map, optionally flushed to a
// JSON file after every mutation. Keys are prefixed with the namespace so a
// shared file keeps namespaces apart.
type LocalBackend struct {
	mu        sync.Mutex
	path      string
	namespace string
	entries   map[string]string
}

// OpenLocal loads the JSON file at path, if any. An empty path keeps the
// data in memory only.
func OpenLocal(path, namespace string) (*LocalBackend, error) {
	b := &LocalBackend{
		path:      path,
		namespace: namespace,
		entries:   make(map[string]string),
	}

	if path == "" {
		return b, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating local store directory: %w", err)
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return b, nil
	}

	if err != nil {
		return nil, fmt.Errorf("reading local store: %w", err)
	}

	if len(data) > 0 {
		if err := json.Unmarshal(data, &b.entries); err != nil {
			return nil, fmt.Errorf("decoding local store %s: %w", path, err)
		}
	}

	return b, nil
}

// Name implements Backend.
func (b *LocalBackend) Name() string { return "local" }

func (b *LocalBackend) qualify(key string) string {
	return b.namespace + ":" + key
}

// Get implements Backend.
func (b *LocalBackend) Get(_ context.Context, key string) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	value, ok := b.entries[b.qualify(key)]
	if !ok {
		return nil, ErrKeyNotFound
	}

	return []byte(value), nil
}

// Set implements Backend.
func (b *LocalBackend) Set(_ context.Context, key string, value []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	qualified := b.qualify(key)
	previous, existed := b.entries[qualified]
	b.entries[qualified] = string(value)

	if err := b.flush(); err != nil {
		if existed {
			b.entries[qualified] = previous
		} else {
			delete(b.entries, qualified)
		}

		return err
	}

	return nil
}

// Delete implements Backend.
func (b *LocalBackend) Delete(_ context.Context, key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	qualified := b.qualify(key)

	previous, ok := b.entries[qualified]
	if !ok {
		return nil
	}

	delete(b.entries, qualified)

	if err := b.flush(); err != nil {
		b.entries[qualified] = previous
		return err
	}

	return nil
}

// Clear implements Backend.
func (b *LocalBackend) Clear(_ context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	prefix := b.qualify("")
	removed := make(map[string]string)

	for k, v := range b.entries {
		if strings.HasPrefix(k, prefix) {
			removed[k] = v
			delete(b.entries, k)
		}
	}

	if err := b.flush(); err != nil {
		maps.Copy(b.entries, removed)
		return err
	}

	return nil
}

// Size implements Backend.
func (b *LocalBackend) Size(_ context.Context) (int64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	prefix := b.qualify("")

	var size int64

	for k, v := range b.entries {
		if strings.HasPrefix(k, prefix) {
			size += int64(len(k) - len(prefix) + len(v))
		}
	}

	return size, nil
}

// Ping implements Backend.
func (b *LocalBackend) Ping(_ context.Context) error {
	if b.path == "" {
		return nil
	}

	info, err := os.Stat(filepath.Dir(b.path))
	if err != nil {
		return fmt.Errorf("local store directory: %w", err)
	}

	if !info.IsDir() {
		return fmt.Errorf("local store directory %s is not a directory", filepath.Dir(b.path))
	}

	return nil
}

// Close implements Backend.
func (b *LocalBackend) Close() error { return nil }

// flush writes the map through a temp file and rename. Caller holds mu.
func (b *LocalBackend) flush() error {
	if b.path == "" {
		return nil
	}

	data, err := json.Marshal(b.entries)
	if err != nil {
		return fmt.Errorf("encoding local store: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(b.path), 0o755); err != nil {
		return fmt.Errorf("creating local store directory: %w", err)
	}

	tmp := b.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("writing local store: %w", err)
	}

	if err := os.Rename(tmp, b.path); err != nil {
		return fmt.Errorf("replacing local store: %w", err)
	}

	return nil
}
