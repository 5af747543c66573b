// Copyright (c) 2026 Authgate. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package verification_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/authgate/internal/core/verification"
	"github.com/taibuivan/authgate/internal/platform/apperr"
	"github.com/taibuivan/authgate/internal/platform/constants"
	"github.com/taibuivan/authgate/pkg/uuidv7"
)

/*
TestPostgresStore_InsertBatch_Guards pins the batch-size contract: an empty
batch and an oversized batch are rejected with a validation error before any
connection is taken from the pool, so a nil pool is safe here.
*/
func TestPostgresStore_InsertBatch_Guards(t *testing.T) {
	store := verification.NewPostgresStore(nil)

	t.Run("nil_batch", func(t *testing.T) {
		inserted, err := store.InsertBatch(context.Background(), nil)

		assert.Zero(t, inserted)
		require.Error(t, err)
		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, apperr.CodeValidation, ae.Code)
		require.Len(t, ae.Details, 1)
		assert.Equal(t, verification.FieldBatch, ae.Details[0].Field)
	})

	t.Run("empty_batch", func(t *testing.T) {
		inserted, err := store.InsertBatch(context.Background(), []*verification.EmailVerification{})

		assert.Zero(t, inserted)
		require.Error(t, err)
		assert.Equal(t, apperr.CodeValidation, apperr.As(err).Code)
	})

	t.Run("oversized_batch", func(t *testing.T) {
		batch := make([]*verification.EmailVerification, constants.MaxBatchSize+1)
		userID := uuidv7.New()
		for i := range batch {
			batch[i] = &verification.EmailVerification{
				ID:        uuidv7.New(),
				UserID:    userID,
				Token:     fmt.Sprintf("token-%d", i),
				ExpiresAt: time.Now().UTC().Add(time.Hour),
			}
		}

		inserted, err := store.InsertBatch(context.Background(), batch)

		assert.Zero(t, inserted)
		require.Error(t, err)
		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, apperr.CodeValidation, ae.Code)
		require.Len(t, ae.Details, 1)
		assert.Equal(t, verification.FieldBatch, ae.Details[0].Field)
	})

	t.Run("max_size_batch_passes_guard", func(t *testing.T) {
		// A batch of exactly MaxBatchSize clears the guard and reaches the
		// pool, which is nil in this test.
		batch := make([]*verification.EmailVerification, constants.MaxBatchSize)
		for i := range batch {
			batch[i] = &verification.EmailVerification{ID: uuidv7.New()}
		}

		assert.Panics(t, func() {
			_, _ = store.InsertBatch(context.Background(), batch)
		})
	})
}

/*
TestPostgresStore_DeleteByIDs_Empty pins that an empty id list short-circuits
to zero rows affected without issuing a DELETE.
*/
func TestPostgresStore_DeleteByIDs_Empty(t *testing.T) {
	store := verification.NewPostgresStore(nil)

	t.Run("nil_ids", func(t *testing.T) {
		deleted, err := store.DeleteByIDs(context.Background(), nil)
		require.NoError(t, err)
		assert.Zero(t, deleted)
	})

	t.Run("empty_ids", func(t *testing.T) {
		deleted, err := store.DeleteByIDs(context.Background(), []string{})
		require.NoError(t, err)
		assert.Zero(t, deleted)
	})
}
