// Package cache memoizes per-acquisition analysis summaries on disk so
// a re-run over an unchanged scene pair skips the pipeline.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/flood-guardian/flood-guardian-api-poc/internal/properties"
)

// Entry wraps a cached payload with freshness and integrity metadata.
type Entry[T any] struct {
	Data     T         `json:"data"`
	StoredAt time.Time `json:"stored_at"`
	Expires  time.Time `json:"expires"`
	Checksum string    `json:"checksum"`
}

type Store[T any] interface {
	Get(key string) (T, bool)
	Set(key string, data T) error
}

// FileCache keeps JSON entries under the data directory. Entries expire
// after the configured TTL: flood extents are time-critical, and a
// stale summary must not shadow a newer delivery of the same area.
type FileCache[T any] struct {
	dir string
	ttl time.Duration
	log zerolog.Logger
}

func NewFileCache[T any](subDir string, ttl time.Duration, log zerolog.Logger) *FileCache[T] {
	return &FileCache[T]{
		dir: filepath.Join(properties.DataPath(), subDir),
		ttl: ttl,
		log: log,
	}
}

// KeyForScenePair derives the cache key from the delivered GeoTIFF
// files themselves: path, size and modification time per sensor. A
// scene re-delivered under the same name yields a new key, so the
// pipeline runs again instead of serving the old extent.
func KeyForScenePair(radarPath, opticalPath string) string {
	h := sha256.New()
	for _, p := range []string{radarPath, opticalPath} {
		fmt.Fprintf(h, "%s|", p)
		if info, err := os.Stat(p); err == nil {
			fmt.Fprintf(h, "%d|%d|", info.Size(), info.ModTime().UnixNano())
		}
	}
	return hex.EncodeToString(h.Sum(nil))[:40]
}

// Get returns the cached payload for the key. Expired, corrupt or
// tampered entries are removed and reported as misses.
func (fc *FileCache[T]) Get(key string) (T, bool) {
	var zero T
	path := fc.entryPath(key)

	raw, err := os.ReadFile(path)
	if err != nil {
		return zero, false
	}

	var entry Entry[T]
	if err := json.Unmarshal(raw, &entry); err != nil {
		fc.log.Warn().Str("key", key).Err(err).Msg("dropping unreadable cache entry")
		os.Remove(path)
		return zero, false
	}
	if time.Now().After(entry.Expires) {
		fc.log.Debug().Str("key", key).Time("expired", entry.Expires).Msg("cache entry expired")
		os.Remove(path)
		return zero, false
	}
	if entry.Checksum != checksum(entry.Data) {
		fc.log.Warn().Str("key", key).Msg("cache entry failed its checksum, dropping")
		os.Remove(path)
		return zero, false
	}

	fc.log.Debug().Str("key", key).Time("stored_at", entry.StoredAt).Msg("cache hit")
	return entry.Data, true
}

// Set publishes the entry atomically: a crash mid-write leaves at worst
// a stale .tmp file, never a truncated entry.
func (fc *FileCache[T]) Set(key string, data T) error {
	if err := os.MkdirAll(fc.dir, 0755); err != nil {
		return fmt.Errorf("create cache dir %s: %w", fc.dir, err)
	}

	now := time.Now()
	entry := Entry[T]{
		Data:     data,
		StoredAt: now,
		Expires:  now.Add(fc.ttl),
		Checksum: checksum(data),
	}
	raw, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encode cache entry: %w", err)
	}

	path := fc.entryPath(key)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0644); err != nil {
		return fmt.Errorf("write cache entry: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("publish cache entry: %w", err)
	}
	return nil
}

func (fc *FileCache[T]) entryPath(key string) string {
	return filepath.Join(fc.dir, key+".json")
}

func checksum[T any](data T) string {
	raw, _ := json.Marshal(data)
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])
}
