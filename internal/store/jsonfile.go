package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// jsonCollection is a JSON array persisted in one file. All access goes
// through mu, so a read-modify-write never interleaves with another.
type jsonCollection[T any] struct {
	mu   sync.Mutex
	path string
}

func newJSONCollection[T any](path string) (*jsonCollection[T], error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	return &jsonCollection[T]{path: path}, nil
}

// all returns a snapshot of the collection.
func (c *jsonCollection[T]) all() ([]T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.read()
}

// append reads the collection, asks build for the new record and writes the
// whole collection back.
func (c *jsonCollection[T]) append(build func(existing []T) (T, error)) (T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero T
	items, err := c.read()
	if err != nil {
		return zero, err
	}
	record, err := build(items)
	if err != nil {
		return zero, err
	}
	if err := c.write(append(items, record)); err != nil {
		return zero, err
	}
	return record, nil
}

// read must be called with mu held. A missing or empty file is an empty collection.
func (c *jsonCollection[T]) read() ([]T, error) {
	data, err := os.ReadFile(c.path)
	if errors.Is(err, fs.ErrNotExist) {
		return []T{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", c.path, err)
	}
	if len(data) == 0 {
		return []T{}, nil
	}

	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("parse %s: %w", c.path, err)
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// write replaces the file atomically: temp file in the same directory,
// fsync, rename. On error the previous file is left as it was.
func (c *jsonCollection[T]) write(items []T) (err error) {
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("encode collection: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(c.path), "."+filepath.Base(c.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err = os.Rename(tmp.Name(), c.path); err != nil {
		return fmt.Errorf("replace %s: %w", c.path, err)
	}
	return nil
}
