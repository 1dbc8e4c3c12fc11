package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/perkdex/internal/db"
)

var _ db.Store = (*Store)(nil)

// clientName shows up in CLIENT LIST on the server.
const clientName = "perkdex"

// Readiness polling backoff.
const (
	firstRetryDelay = 50 * time.Millisecond
	maxRetryDelay   = time.Second
)

// Config holds connection parameters for the offer store.
type Config struct {
	Addrs    []string
	Username string
	Password string
	DB       int
}

// Store reads offer documents from Redis through rueidis. Client-side caching
// is off: every rebuild must see the current values.
type Store struct {
	client rueidis.Client
}

// NewStore dials Redis. It does not wait for the server; use WaitForReady.
func NewStore(cfg Config) (*Store, error) {
	if len(cfg.Addrs) == 0 {
		return nil, fmt.Errorf("redis: at least one address is required")
	}

	client, err := rueidis.NewClient(rueidis.ClientOption{
		InitAddress:  cfg.Addrs,
		Username:     cfg.Username,
		Password:     cfg.Password,
		SelectDB:     cfg.DB,
		ClientName:   clientName,
		DisableCache: true,
	})
	if err != nil {
		return nil, fmt.Errorf("redis: dial %v: %w", cfg.Addrs, err)
	}
	return &Store{client: client}, nil
}

// Ping reports whether the server answers.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.client.Do(ctx, s.client.B().Ping().Build()).Error(); err != nil {
		return &db.Error{Op: db.OpPing, Err: err}
	}
	return nil
}

// Close releases the connection pool.
func (s *Store) Close() {
	s.client.Close()
}

// WaitForReady pings with doubling delays until the server answers or timeout
// elapses. The returned error carries both the deadline and the last ping failure.
func (s *Store) WaitForReady(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	delay := firstRetryDelay
	for {
		lastErr := s.Ping(ctx)
		if lastErr == nil {
			return nil
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return fmt.Errorf("redis not ready after %s: %w (last error: %w)", timeout, ctx.Err(), lastErr)
		case <-timer.C:
		}
		delay = min(delay*2, maxRetryDelay)
	}
}
