package archive

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Key prefixes carried over from the converter's keyspace layout.
const (
	contentPrefix  = "c-"
	mimetypePrefix = "m-"
)

// ValkeyStore implements Store using Valkey/Redis as the backend, for
// deployments where the snapshot has been loaded into a shared instance
// instead of a local file.
type ValkeyStore struct {
	client *redis.Client
}

// ValkeyConfig holds configuration for connecting to Valkey.
type ValkeyConfig struct {
	Addr     string // host:port
	Password string // optional
	DB       int    // database number
}

// NewValkeyStore creates a new ValkeyStore with the given configuration.
func NewValkeyStore(cfg ValkeyConfig) (*ValkeyStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &ValkeyStore{client: client}, nil
}

// Get retrieves the stored body and mimetype for key.
func (s *ValkeyStore) Get(ctx context.Context, key string) ([]byte, string, error) {
	pipe := s.client.Pipeline()
	contentCmd := pipe.Get(ctx, contentPrefix+key)
	mimetypeCmd := pipe.Get(ctx, mimetypePrefix+key)

	if _, err := pipe.Exec(ctx); err != nil && err != redis.Nil {
		return nil, "", err
	}

	content, err := contentCmd.Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, "", ErrNotFound
		}
		return nil, "", err
	}

	mimetype, err := mimetypeCmd.Result()
	if err != nil {
		if err == redis.Nil {
			return nil, "", ErrNotFound
		}
		return nil, "", err
	}

	return content, mimetype, nil
}

// Put stores a record under key. Both halves are written in one pipeline
// so a reader never sees a half-written record expire differently.
func (s *ValkeyStore) Put(ctx context.Context, key string, content []byte, mimetype string) error {
	pipe := s.client.Pipeline()
	pipe.Set(ctx, contentPrefix+key, content, 0)
	pipe.Set(ctx, mimetypePrefix+key, mimetype, 0)
	_, err := pipe.Exec(ctx)
	return err
}

// Close closes the connection to Valkey.
func (s *ValkeyStore) Close() error {
	return s.client.Close()
}

// Ensure ValkeyStore implements Store.
var _ Store = (*ValkeyStore)(nil)
