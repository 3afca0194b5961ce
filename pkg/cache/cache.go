package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/yumyai/keggmap/logger"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Cache stores rendered documents by key.
type Cache interface {
	// Get returns (nil, false, nil) on a miss.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Key hashes parts into a fixed-length key under prefix.
func Key(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts)
	hash := sha256.Sum256(data)
	return fmt.Sprintf("%s:%s", prefix, hex.EncodeToString(hash[:]))
}

// Loader deduplicates concurrent loads of the same key and keeps results in a
// Cache. Cache failures are logged and never fail a load.
type Loader struct {
	cache Cache
	ttl   time.Duration
	group singleflight.Group
}

func NewLoader(c Cache, ttl time.Duration) *Loader {
	if c == nil {
		c = NewNullCache()
	}
	return &Loader{cache: c, ttl: ttl}
}

// Load returns the cached value of key, or calls load and caches its result.
func (l *Loader) Load(ctx context.Context, key string, load func() ([]byte, error)) ([]byte, error) {

	data, ok, err := l.cache.Get(ctx, key)
	if err != nil {
		logger.Warn("Cache get failed", zap.String("key", key), zap.Error(err))
	}
	if ok {
		return data, nil
	}

	v, err, _ := l.group.Do(key, func() (any, error) {
		data, err := load()
		if err != nil {
			return nil, err
		}
		if err := l.cache.Set(ctx, key, data, l.ttl); err != nil {
			logger.Warn("Cache set failed", zap.String("key", key), zap.Error(err))
		}
		return data, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

// Forget drops key so the next Load calls its loader again.
func (l *Loader) Forget(ctx context.Context, key string) error {
	l.group.Forget(key)
	return l.cache.Delete(ctx, key)
}

func (l *Loader) Close() error {
	return l.cache.Close()
}
