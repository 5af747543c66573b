// Copyright (c) 2026 Authgate. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/authgate/internal/platform/apperr"
	"github.com/taibuivan/authgate/internal/platform/constants"
)

// ResetTokenStore keeps password-reset tokens in volatile storage. One token
// per email at a time; the TTL makes forgotten tokens clean themselves up.
type ResetTokenStore interface {
	Save(context context.Context, email, token string, ttl time.Duration) error
	Find(context context.Context, email string) (string, error)
	Delete(context context.Context, email string) error
}

// ErrResetTokenNotFound reports a missing or already-expired reset token.
var ErrResetTokenNotFound = apperr.Unauthenticated("authentication failed")

type RedisResetTokenStore struct {
	client *redis.Client
}

func NewRedisResetTokenStore(client *redis.Client) *RedisResetTokenStore {
	return &RedisResetTokenStore{client: client}
}

func resetKey(email string) string {
	return constants.RedisPrefixResetToken + email
}

func (store *RedisResetTokenStore) Save(context context.Context, email, token string, ttl time.Duration) error {
	if err := store.client.Set(context, resetKey(email), token, ttl).Err(); err != nil {
		return apperr.Storage(err)
	}
	return nil
}

func (store *RedisResetTokenStore) Find(context context.Context, email string) (string, error) {
	token, err := store.client.Get(context, resetKey(email)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrResetTokenNotFound
	}
	if err != nil {
		return "", apperr.Storage(err)
	}
	return token, nil
}

func (store *RedisResetTokenStore) Delete(context context.Context, email string) error {
	if err := store.client.Del(context, resetKey(email)).Err(); err != nil {
		return apperr.Storage(err)
	}
	return nil
}
