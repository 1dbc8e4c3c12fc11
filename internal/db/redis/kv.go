package redis

import (
	"context"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/perkdex/internal/db"
)

// scanBatch is the COUNT hint passed to every SCAN call.
const scanBatch = 100

// Get retrieves a value by key.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.client.Do(ctx, s.client.B().Get().Key(key).Build()).AsBytes()
	if err != nil {
		return nil, wrapGetErr(err)
	}
	return data, nil
}

// GetMulti fetches several keys in a single DoMulti round-trip. Each key's
// outcome is reported separately; a missing key gets db.ErrKeyNotFound.
func (s *Store) GetMulti(ctx context.Context, keys []string) []db.Value {
	if len(keys) == 0 {
		return nil
	}

	cmds := make([]rueidis.Completed, len(keys))
	for i, key := range keys {
		cmds[i] = s.client.B().Get().Key(key).Build()
	}

	results := s.client.DoMulti(ctx, cmds...)
	out := make([]db.Value, len(keys))
	for i, res := range results {
		out[i].Key = keys[i]
		data, err := res.AsBytes()
		if err != nil {
			out[i].Err = wrapGetErr(err)
			continue
		}
		out[i].Data = data
	}
	return out
}

// Scan iterates keys matching a pattern.
func (s *Store) Scan(ctx context.Context, pattern string) ([]string, error) {
	var keys []string
	var cursor uint64

	for {
		cmd := s.client.B().Scan().Cursor(cursor).Match(pattern).Count(scanBatch).Build()
		res, err := s.client.Do(ctx, cmd).AsScanEntry()
		if err != nil {
			return nil, &db.Error{Op: db.OpScan, Err: err}
		}
		keys = append(keys, res.Elements...)
		cursor = res.Cursor
		if cursor == 0 {
			break
		}
	}

	return keys, nil
}

func wrapGetErr(err error) error {
	if rueidis.IsRedisNil(err) {
		return db.ErrKeyNotFound
	}
	return &db.Error{Op: db.OpGet, Err: err}
}
