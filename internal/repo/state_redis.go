package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rogerio-castellano/inventory-ledger/internal/ledger"
	"github.com/rogerio-castellano/inventory-ledger/internal/undo"
)

// RedisStateRepository stores the state as one JSON value under key,
// and the undo stack under key + ":undo".
type RedisStateRepository struct {
	rdb *redis.Client
	key string
}

func NewRedisStateRepository(rdb *redis.Client, key string) *RedisStateRepository {
	if key == "" {
		key = "inventory:ledger"
	}
	return &RedisStateRepository{rdb: rdb, key: key}
}

func (r *RedisStateRepository) Load(ctx context.Context) (ledger.State, error) {
	data, err := r.rdb.Get(ctx, r.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return ledger.NewState(), nil
	}
	if err != nil {
		return ledger.State{}, fmt.Errorf("redis get %s: %w", r.key, err)
	}
	return decodeState(data)
}

func (r *RedisStateRepository) Save(ctx context.Context, s ledger.State) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}
	if err := r.rdb.Set(ctx, r.key, data, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", r.key, err)
	}
	return nil
}

func (r *RedisStateRepository) LoadUndo(ctx context.Context) ([]undo.Entry, error) {
	data, err := r.rdb.Get(ctx, r.key+":undo").Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get undo: %w", err)
	}
	var entries []undo.Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("decode undo: %w", err)
	}
	return entries, nil
}

func (r *RedisStateRepository) SaveUndo(ctx context.Context, entries []undo.Entry) error {
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("encode undo: %w", err)
	}
	return r.rdb.Set(ctx, r.key+":undo", data, 0).Err()
}

func decodeState(data []byte) (ledger.State, error) {
	var s ledger.State
	if err := json.Unmarshal(data, &s); err != nil {
		return ledger.State{}, fmt.Errorf("decode state: %w", err)
	}
	return s, nil
}
