package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"unicode/utf8"

	"github.com/your-org/storefront/internal/domain/cart"
)

var (
	// ErrInvalidValue is returned when a value cannot be stored as text
	ErrInvalidValue = errors.New("storage: value is not valid UTF-8 text")
	// ErrCorruptDocument is returned when the storage document is not valid JSON
	ErrCorruptDocument = errors.New("storage: document is corrupt")
)

// corruptSuffix is appended to a corrupt document when it is moved aside
const corruptSuffix = ".corrupt"

// FileStorage keeps all entries in a single JSON document on disk, one
// string value per key. Every write replaces the document atomically.
// Reads of a corrupt document fail; writes move it aside and start over.
type FileStorage struct {
	mu   sync.Mutex
	path string
}

// NewFileStorage creates a file storage at path, creating its directory
func NewFileStorage(path string) (*FileStorage, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create storage directory: %w", err)
		}
	}
	return &FileStorage{path: path}, nil
}

func (f *FileStorage) Get(ctx context.Context, key string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	entries, err := f.read()
	if err != nil {
		return nil, err
	}
	v, ok := entries[key]
	if !ok {
		return nil, cart.ErrNotFound
	}
	return []byte(v), nil
}

func (f *FileStorage) Set(ctx context.Context, key string, value []byte) error {
	if !utf8.Valid(value) {
		return ErrInvalidValue
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	entries, err := f.readForWrite()
	if err != nil {
		return err
	}
	entries[key] = string(value)
	return f.write(entries)
}

func (f *FileStorage) Clear(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	entries, err := f.readForWrite()
	if err != nil {
		return err
	}
	if _, ok := entries[key]; !ok {
		return nil
	}
	delete(entries, key)
	return f.write(entries)
}

// Ping checks that the storage document is readable
func (f *FileStorage) Ping(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	_, err := f.read()
	return err
}

func (f *FileStorage) Close() error { return nil }

func (f *FileStorage) read() (map[string]string, error) {
	entries := make(map[string]string)

	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return entries, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", f.path, err)
	}
	if len(data) == 0 {
		return entries, nil
	}

	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w: %w", f.path, ErrCorruptDocument, err)
	}
	return entries, nil
}

// readForWrite is read, except that a corrupt document is renamed to
// path+".corrupt" and replaced by an empty one
func (f *FileStorage) readForWrite() (map[string]string, error) {
	entries, err := f.read()
	if !errors.Is(err, ErrCorruptDocument) {
		return entries, err
	}
	if rerr := os.Rename(f.path, f.path+corruptSuffix); rerr != nil {
		return nil, fmt.Errorf("failed to move aside %s: %w", f.path, rerr)
	}
	return make(map[string]string), nil
}

func (f *FileStorage) write(entries map[string]string) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode storage: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(f.path), filepath.Base(f.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", f.path, err)
	}
	return nil
}
