package discovery

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	bolt "go.etcd.io/bbolt"
)

var digestBucket = []byte("archive_digests")

// DigestCache remembers, per archive path, the digest that was present
// the last time it was successfully extracted — the shared cache
// consulted by the ExtractionManager before re-extracting (A5). It is
// never consulted for node/edge persistence, only for the
// extraction skip/redo decision.
type DigestCache interface {
	Get(ctx context.Context, archivePath string) (digest string, found bool, err error)
	Set(ctx context.Context, archivePath, digest string) error
	Close() error
}

// RedisDigestCache is the team-shared cache backend: a Redis instance
// reachable by every developer analyzing the same checked-in archives,
// grounded on the teacher's internal/cache/redis_client.go.
type RedisDigestCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewRedisDigestCache connects to a Redis instance at url (a
// redis://[:password@]host:port[/db] URL).
func NewRedisDigestCache(ctx context.Context, url string) (*RedisDigestCache, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse shared cache url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to shared digest cache: %w", err)
	}
	return &RedisDigestCache{
		client: client,
		ttl:    30 * 24 * time.Hour,
		logger: slog.Default().With("component", "digest_cache.redis"),
	}, nil
}

func (c *RedisDigestCache) key(archivePath string) string {
	return "archgraph:digest:" + archivePath
}

func (c *RedisDigestCache) Get(ctx context.Context, archivePath string) (string, bool, error) {
	val, err := c.client.Get(ctx, c.key(archivePath)).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("shared digest cache get: %w", err)
	}
	return val, true, nil
}

func (c *RedisDigestCache) Set(ctx context.Context, archivePath, digest string) error {
	if err := c.client.Set(ctx, c.key(archivePath), digest, c.ttl).Err(); err != nil {
		return fmt.Errorf("shared digest cache set: %w", err)
	}
	return nil
}

func (c *RedisDigestCache) Close() error {
	return c.client.Close()
}

// BoltDigestCache is the local fallback used when no shared cache URL is
// configured: an embedded go.etcd.io/bbolt key-value store at the path the
// caller passes (the engine uses cache.local_digest_db, by default
// ~/.archgraph/digests.db).
type BoltDigestCache struct {
	db *bolt.DB
}

// NewBoltDigestCache opens (creating if absent) the bbolt database at
// path.
func NewBoltDigestCache(path string) (*BoltDigestCache, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 5 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("open local digest cache: %w", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(digestBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("init local digest cache bucket: %w", err)
	}
	return &BoltDigestCache{db: db}, nil
}

func (c *BoltDigestCache) Get(_ context.Context, archivePath string) (string, bool, error) {
	var digest string
	var found bool
	err := c.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(digestBucket).Get([]byte(archivePath))
		if v != nil {
			digest = string(v)
			found = true
		}
		return nil
	})
	return digest, found, err
}

func (c *BoltDigestCache) Set(_ context.Context, archivePath, digest string) error {
	return c.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(digestBucket).Put([]byte(archivePath), []byte(digest))
	})
}

func (c *BoltDigestCache) Close() error {
	return c.db.Close()
}

// NoopDigestCache always misses; used when neither a shared nor a local
// cache is configured (archives are always re-extracted).
type NoopDigestCache struct{}

func (NoopDigestCache) Get(context.Context, string) (string, bool, error) { return "", false, nil }
func (NoopDigestCache) Set(context.Context, string, string) error        { return nil }
func (NoopDigestCache) Close() error                                     { return nil }
