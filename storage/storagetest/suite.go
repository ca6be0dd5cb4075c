// Package storagetest holds behavior checks shared by every storage backend.
package storagetest

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quranbot/pkg/models"
	"quranbot/storage"
)

// Run exercises stg against the IStorage contract. stg must start empty.
func Run(t *testing.T, stg storage.IStorage) {
	t.Run("upsert replaces by user id", func(t *testing.T) { testUpsertReplaces(t, stg) })
	t.Run("upsert keeps created at", func(t *testing.T) { testUpsertKeepsCreatedAt(t, stg) })
	t.Run("set language", func(t *testing.T) { testSetLanguage(t, stg) })
	t.Run("set language unknown user", func(t *testing.T) { testSetLanguageNotFound(t, stg) })
	t.Run("get unknown user", func(t *testing.T) { testGetNotFound(t, stg) })
	t.Run("status checks append", func(t *testing.T) { testStatusAppend(t, stg) })
	t.Run("reset", func(t *testing.T) { testReset(t, stg) })
}

func countUser(t *testing.T, stg storage.IStorage, userID string) int {
	t.Helper()
	users, err := stg.User().GetAll(context.Background())
	require.NoError(t, err)
	n := 0
	for _, u := range users {
		if u.UserID == userID {
			n++
		}
	}
	return n
}

func testUpsertReplaces(t *testing.T, stg storage.IStorage) {
	ctx := context.Background()
	id := uuid.NewString()

	require.NoError(t, stg.User().Upsert(ctx, &models.UserProfile{UserID: id, Username: "first", FullName: "A B", CreatedAt: time.Now().UTC()}))
	require.NoError(t, stg.User().Upsert(ctx, &models.UserProfile{UserID: id, Username: "second", FullName: "A B", CreatedAt: time.Now().UTC()}))

	assert.Equal(t, 1, countUser(t, stg, id))
	u, err := stg.User().Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "second", u.Username)
	assert.Equal(t, "A B", u.FullName)
}

func testUpsertKeepsCreatedAt(t *testing.T, stg storage.IStorage) {
	ctx := context.Background()
	id := uuid.NewString()
	first := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	require.NoError(t, stg.User().Upsert(ctx, &models.UserProfile{UserID: id, Username: "u", CreatedAt: first}))
	require.NoError(t, stg.User().Upsert(ctx, &models.UserProfile{UserID: id, Username: "u", CreatedAt: first.Add(48 * time.Hour)}))

	u, err := stg.User().Get(ctx, id)
	require.NoError(t, err)
	assert.True(t, first.Equal(u.CreatedAt), "created_at changed to %s", u.CreatedAt)
}

func testSetLanguage(t *testing.T, stg storage.IStorage) {
	ctx := context.Background()
	id := uuid.NewString()

	require.NoError(t, stg.User().Upsert(ctx, &models.UserProfile{UserID: id, Username: "u", CreatedAt: time.Now().UTC()}))
	u, err := stg.User().Get(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, u.Language)

	require.NoError(t, stg.User().SetLanguage(ctx, id, "am"))
	u, err = stg.User().Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "am", u.LanguageCode())
	assert.Equal(t, "u", u.Username)

	// A fresh /start clears the stored language.
	require.NoError(t, stg.User().Upsert(ctx, &models.UserProfile{UserID: id, Username: "u", CreatedAt: time.Now().UTC()}))
	u, err = stg.User().Get(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, u.Language)
}

func testSetLanguageNotFound(t *testing.T, stg storage.IStorage) {
	err := stg.User().SetLanguage(context.Background(), uuid.NewString(), "en")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func testGetNotFound(t *testing.T, stg storage.IStorage) {
	_, err := stg.User().Get(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func testStatusAppend(t *testing.T, stg storage.IStorage) {
	ctx := context.Background()
	check := &models.StatusCheck{ID: uuid.NewString(), ClientName: "probe", Timestamp: time.Now().UTC().Truncate(time.Millisecond)}
	require.NoError(t, stg.Status().Create(ctx, check))

	checks, err := stg.Status().GetAll(ctx, storage.StatusListLimit)
	require.NoError(t, err)

	var found *models.StatusCheck
	for _, c := range checks {
		if c.ID == check.ID {
			found = c
		}
	}
	require.NotNil(t, found)
	assert.Equal(t, "probe", found.ClientName)
	assert.True(t, check.Timestamp.Equal(found.Timestamp))

	limited, err := stg.Status().GetAll(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func testReset(t *testing.T, stg storage.IStorage) {
	ctx := context.Background()
	require.NoError(t, stg.User().Upsert(ctx, &models.UserProfile{UserID: uuid.NewString(), CreatedAt: time.Now().UTC()}))
	require.NoError(t, stg.Reset(ctx))

	users, err := stg.User().GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, users)

	checks, err := stg.Status().GetAll(ctx, storage.StatusListLimit)
	require.NoError(t, err)
	assert.Empty(t, checks)
}
