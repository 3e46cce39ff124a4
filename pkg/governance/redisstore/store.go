// Package redisstore backs the governance state store and action log with
// Redis so multiple evaluators can share one source of truth.
package redisstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"dtri/pkg/governance"
)

// Store implements governance.StateStore and governance.ActionLog on Redis.
type Store struct {
	rdb    *redis.Client
	prefix string
	maxLog int64
}

// New creates a store. keyPrefix namespaces all keys; maxLog bounds the
// per-entity action log length.
func New(rdb *redis.Client, keyPrefix string, maxLog int64) *Store {
	if keyPrefix == "" {
		keyPrefix = "dtri:governance"
	}
	if maxLog <= 0 {
		maxLog = 1000
	}
	return &Store{rdb: rdb, prefix: keyPrefix, maxLog: maxLog}
}

func (s *Store) stateKey(entityID string) string {
	return fmt.Sprintf("%s:state:%s", s.prefix, entityID)
}

func (s *Store) logKey(entityID string) string {
	return fmt.Sprintf("%s:log:%s", s.prefix, entityID)
}

// Get reads the entity state, defaulting to active when the key is absent.
func (s *Store) Get(ctx context.Context, entityID string) (governance.State, error) {
	vals, err := s.rdb.HMGet(ctx, s.stateKey(entityID), "status", "updated_at").Result()
	if err != nil {
		return governance.State{}, fmt.Errorf("redis hmget: %w", err)
	}

	state := governance.State{EntityID: entityID, Status: governance.StatusActive}
	if status, ok := vals[0].(string); ok && status != "" {
		state.Status = governance.Status(status)
	}
	if raw, ok := vals[1].(string); ok && raw != "" {
		if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
			state.UpdatedAt = t
		}
	}
	return state, nil
}

// casScript performs the status compare-and-swap atomically on the Redis side.
// An absent hash counts as active.
var casScript = redis.NewScript(`
	local key = KEYS[1]
	local expect = ARGV[1]
	local target = ARGV[2]
	local now = ARGV[3]

	local current = redis.call('HGET', key, 'status')
	if not current then
		current = 'active'
	end
	if current ~= expect then
		return {0, current}
	end
	redis.call('HSET', key, 'status', target, 'updated_at', now)
	return {1, target}
`)

// CompareAndSwap transitions the entity atomically via a Lua script.
func (s *Store) CompareAndSwap(ctx context.Context, entityID string, from, to governance.Status, at time.Time) (governance.State, bool, error) {
	result, err := casScript.Run(ctx, s.rdb, []string{s.stateKey(entityID)},
		string(from), string(to), at.UTC().Format(time.RFC3339Nano)).Result()
	if err != nil {
		return governance.State{}, false, fmt.Errorf("redis cas: %w", err)
	}

	status, swapped, err := parseCASReply(result)
	if err != nil {
		return governance.State{}, false, err
	}

	state := governance.State{EntityID: entityID, Status: governance.Status(status)}
	if swapped {
		state.UpdatedAt = at
	}
	return state, swapped, nil
}

// parseCASReply decodes the {flag, status} pair the CAS script returns.
func parseCASReply(result interface{}) (string, bool, error) {
	slice, ok := result.([]interface{})
	if !ok || len(slice) < 2 {
		return "", false, fmt.Errorf("unexpected lua result format: %v", result)
	}
	flag, ok := slice[0].(int64)
	if !ok {
		return "", false, fmt.Errorf("unexpected lua result format: flag %T", slice[0])
	}
	status, ok := slice[1].(string)
	if !ok {
		return "", false, fmt.Errorf("unexpected lua result format: status %T", slice[1])
	}
	return status, flag == 1, nil
}

// Append pushes entries onto the entity's log list, newest first, trimming to
// the configured bound.
func (s *Store) Append(ctx context.Context, entries []governance.ActionLogEntry) error {
	pipe := s.rdb.Pipeline()
	for _, e := range entries {
		payload, err := json.Marshal(e)
		if err != nil {
			return fmt.Errorf("marshal action entry: %w", err)
		}
		key := s.logKey(e.EntityID)
		pipe.LPush(ctx, key, payload)
		pipe.LTrim(ctx, key, 0, s.maxLog-1)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis append log: %w", err)
	}
	return nil
}

// Recent returns up to limit entries for the entity, newest first.
func (s *Store) Recent(ctx context.Context, entityID string, limit int) ([]governance.ActionLogEntry, error) {
	if limit <= 0 {
		limit = int(s.maxLog)
	}
	raws, err := s.rdb.LRange(ctx, s.logKey(entityID), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("redis lrange log: %w", err)
	}

	entries := make([]governance.ActionLogEntry, 0, len(raws))
	for _, raw := range raws {
		var e governance.ActionLogEntry
		if err := json.Unmarshal([]byte(raw), &e); err != nil {
			return nil, fmt.Errorf("unmarshal action entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}
