package stateset

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/nats-io/nats.go"
)

// NATSCache stores entries in a NATS JetStream key-value bucket so that
// multiple processes share one response cache. Cache keys contain
// characters NATS KV rejects, so keys are hashed before storage.
type NATSCache struct {
	conn *nats.Conn
	kv   nats.KeyValue
}

// NewNATSCache connects to NATS and binds (or creates) the configured
// bucket.
func NewNATSCache(config *NATSCacheConfig) (*NATSCache, error) {
	conn, err := nats.Connect(config.URL)
	if err != nil {
		return nil, fmt.Errorf("connecting to NATS: %w", err)
	}

	js, err := conn.JetStream()
	if err != nil {
		conn.Close()

		return nil, fmt.Errorf("getting JetStream context: %w", err)
	}

	kv, err := js.KeyValue(config.Bucket)
	if errors.Is(err, nats.ErrBucketNotFound) {
		kv, err = js.CreateKeyValue(&nats.KeyValueConfig{
			Bucket: config.Bucket,
			TTL:    config.TTL,
		})
	}

	if err != nil {
		conn.Close()

		return nil, fmt.Errorf("binding key-value bucket %q: %w", config.Bucket, err)
	}

	return &NATSCache{conn: conn, kv: kv}, nil
}

// natsKey maps an arbitrary cache key onto the KV bucket's restricted
// key charset.
func natsKey(key string) string {
	sum := sha256.Sum256([]byte(key))

	return hex.EncodeToString(sum[:])
}

// Get retrieves an entry.
func (c *NATSCache) Get(_ context.Context, key string) (*CacheEntry, error) {
	kve, err := c.kv.Get(natsKey(key))
	if err != nil {
		if errors.Is(err, nats.ErrKeyNotFound) {
			return nil, ErrCacheKeyNotFound
		}

		return nil, fmt.Errorf("reading cache entry from NATS: %w", err)
	}

	var entry CacheEntry
	if err := json.Unmarshal(kve.Value(), &entry); err != nil {
		return nil, fmt.Errorf("decoding cache entry: %w", err)
	}

	if entry.Expired() {
		_ = c.kv.Delete(natsKey(key))

		return nil, ErrCacheEntryExpired
	}

	return &entry, nil
}

// Set stores an entry. The bucket-level TTL, when configured, provides
// a second eviction path.
func (c *NATSCache) Set(_ context.Context, key string, entry *CacheEntry) error {
	raw, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encoding cache entry: %w", err)
	}

	if _, err := c.kv.Put(natsKey(key), raw); err != nil {
		return fmt.Errorf("writing cache entry to NATS: %w", err)
	}

	return nil
}

// Delete removes an entry.
func (c *NATSCache) Delete(_ context.Context, key string) error {
	if err := c.kv.Delete(natsKey(key)); err != nil && !errors.Is(err, nats.ErrKeyNotFound) {
		return fmt.Errorf("deleting cache entry from NATS: %w", err)
	}

	return nil
}

// Clear removes every entry in the bucket.
func (c *NATSCache) Clear(_ context.Context) error {
	keys, err := c.kv.Keys()
	if err != nil {
		if errors.Is(err, nats.ErrNoKeysFound) {
			return nil
		}

		return fmt.Errorf("listing NATS cache keys: %w", err)
	}

	for _, key := range keys {
		if err := c.kv.Delete(key); err != nil && !errors.Is(err, nats.ErrKeyNotFound) {
			return fmt.Errorf("clearing NATS cache: %w", err)
		}
	}

	return nil
}

// Has reports whether a live entry exists for key.
func (c *NATSCache) Has(ctx context.Context, key string) bool {
	entry, err := c.Get(ctx, key)

	return err == nil && entry != nil
}

// Close releases the NATS connection.
func (c *NATSCache) Close() {
	c.conn.Close()
}
