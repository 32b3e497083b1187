package bcauthorize

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"aegis/internal/oauth/models"
	"aegis/pkg/platform/sentinel"
)

const requestKeyPrefix = "bca:req:"

// RedisStore is a Redis-backed implementation of the backchannel request
// store for distributed deployments where multiple instances serve the
// token endpoint.
type RedisStore struct {
	client *redis.Client
}

// NewRedis constructs a Redis-backed backchannel request store.
func NewRedis(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func redisKey(realm, id string) string { return requestKeyPrefix + realm + ":" + id }

func (s *RedisStore) Save(ctx context.Context, request *models.BCAuthorize) error {
	payload, err := json.Marshal(request)
	if err != nil {
		return fmt.Errorf("marshal backchannel request: %w", err)
	}
	// Keep the record for a while after expiry so pollers still get a
	// precise expired_token answer instead of invalid_grant.
	ttl := time.Until(request.ExpiresAt) + 24*time.Hour
	return s.client.Set(ctx, redisKey(request.Realm, request.ID), payload, ttl).Err()
}

func (s *RedisStore) GetByID(ctx context.Context, realm, id string) (*models.BCAuthorize, error) {
	raw, err := s.client.Get(ctx, redisKey(realm, id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get backchannel request: %w", err)
	}
	var request models.BCAuthorize
	if err := json.Unmarshal(raw, &request); err != nil {
		return nil, fmt.Errorf("unmarshal backchannel request: %w", err)
	}
	return &request, nil
}

// UpdateAndSave commits a state transition with optimistic locking.
// The key is WATCHed, the stored status re-read, and the write aborted
// when another instance already committed Completed.
func (s *RedisStore) UpdateAndSave(ctx context.Context, request *models.BCAuthorize) error {
	key := redisKey(request.Realm, request.ID)
	txn := func(tx *redis.Tx) error {
		raw, err := tx.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return sentinel.ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("get backchannel request: %w", err)
		}
		var stored models.BCAuthorize
		if err := json.Unmarshal(raw, &stored); err != nil {
			return fmt.Errorf("unmarshal backchannel request: %w", err)
		}
		if stored.Status == models.BCAuthorizeCompleted {
			return sentinel.ErrAlreadyConsumed
		}
		payload, err := json.Marshal(request)
		if err != nil {
			return fmt.Errorf("marshal backchannel request: %w", err)
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, payload, redis.KeepTTL)
			return nil
		})
		return err
	}

	const maxRetries = 5
	for range maxRetries {
		err := s.client.Watch(ctx, txn, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return err
	}
	return fmt.Errorf("update backchannel request %s: %w", request.ID, sentinel.ErrConflict)
}
