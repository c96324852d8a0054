// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/facegate/internal/platform/constants"
	"github.com/taibuivan/facegate/internal/session"
)

func newStore() *session.Store {
	return session.NewStore(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func newStorage() session.Storage {
	return session.NewMemoryBackend(time.Hour).Open("browser-1")
}

// failingStorage simulates an unreachable backing store.
type failingStorage struct{}

func (failingStorage) Get(context.Context, string) (string, error) {
	return "", errors.New("connection refused")
}
func (failingStorage) SetAll(context.Context, map[string]string) error {
	return errors.New("connection refused")
}
func (failingStorage) GetAll(context.Context, ...string) (map[string]string, error) {
	return nil, errors.New("connection refused")
}
func (failingStorage) Remove(context.Context, ...string) error {
	return errors.New("connection refused")
}
func (failingStorage) Update(context.Context, []string, session.UpdateFunc) error {
	return errors.New("connection refused")
}

// racingStorage runs onRead once, right after the first snapshot read returns,
// standing in for another request of the same browser.
type racingStorage struct {
	session.Storage
	once   sync.Once
	onRead func()
}

func (s *racingStorage) GetAll(ctx context.Context, keys ...string) (map[string]string, error) {
	entries, err := s.Storage.GetAll(ctx, keys...)
	s.once.Do(s.onRead)
	return entries, err
}

/*
TestStore_PersistThenRestore verifies that a persisted session survives a reload.
*/
func TestStore_PersistThenRestore(t *testing.T) {
	ctx := context.Background()
	store := newStore()
	storage := newStorage()

	users := []session.User{
		{ID: "7", Email: "a@b.com"},
		{ID: "42", Username: "ada", FullName: "Ada Lovelace", Email: "ada@example.com"},
		{ID: "b0c4f7e2", Email: "uuid@example.com"},
	}

	for _, user := range users {
		require.NoError(t, store.Persist(ctx, storage, session.Session{Token: "tok-" + user.ID.String(), User: user}))

		restored := store.Restore(ctx, storage)
		require.NotNil(t, restored)
		assert.Equal(t, user, restored.User)
		assert.Equal(t, "tok-"+user.ID.String(), restored.Token)
	}
}

/*
TestStore_ClearThenRestore verifies that logout leaves no entries behind.
*/
func TestStore_ClearThenRestore(t *testing.T) {
	ctx := context.Background()
	store := newStore()
	storage := newStorage()

	require.NoError(t, store.Persist(ctx, storage, session.Session{Token: "abc", User: session.User{ID: "7"}}))
	require.NoError(t, store.Clear(ctx, storage))

	assert.Nil(t, store.Restore(ctx, storage))

	_, err := storage.Get(ctx, constants.StorageKeyToken)
	assert.ErrorIs(t, err, session.ErrNotFound)
	_, err = storage.Get(ctx, constants.StorageKeyUser)
	assert.ErrorIs(t, err, session.ErrNotFound)
}

/*
TestStore_RestoreSelfHeals covers corrupt and half-present namespaces.
*/
func TestStore_RestoreSelfHeals(t *testing.T) {
	tests := []struct {
		name    string
		entries map[string]string
	}{
		{"corrupt_user", map[string]string{constants.StorageKeyToken: "abc", constants.StorageKeyUser: "{not json"}},
		{"user_not_object", map[string]string{constants.StorageKeyToken: "abc", constants.StorageKeyUser: `"ada"`}},
		{"user_without_id", map[string]string{constants.StorageKeyToken: "abc", constants.StorageKeyUser: `{"email":"a@b.com"}`}},
		{"token_only", map[string]string{constants.StorageKeyToken: "abc"}},
		{"user_only", map[string]string{constants.StorageKeyUser: `{"id":7}`}},
		{"empty_token", map[string]string{constants.StorageKeyToken: "", constants.StorageKeyUser: `{"id":7}`}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			store := newStore()
			storage := newStorage()
			require.NoError(t, storage.SetAll(ctx, tt.entries))

			// 1. First restore reports signed out and cleans up
			assert.Nil(t, store.Restore(ctx, storage))
			_, err := storage.Get(ctx, constants.StorageKeyToken)
			assert.ErrorIs(t, err, session.ErrNotFound)
			_, err = storage.Get(ctx, constants.StorageKeyUser)
			assert.ErrorIs(t, err, session.ErrNotFound)

			// 2. Second restore is idempotent
			assert.Nil(t, store.Restore(ctx, storage))
		})
	}
}

/*
TestStore_RestoreKeepsConcurrentLogin ensures a login persisted while a
restore is running is never wiped by the restore's cleanup.
*/
func TestStore_RestoreKeepsConcurrentLogin(t *testing.T) {
	tests := []struct {
		name    string
		initial map[string]string
	}{
		{"empty_namespace", nil},
		{"stale_user_only", map[string]string{constants.StorageKeyUser: `{"id":3}`}},
		{"stale_corrupt_user", map[string]string{constants.StorageKeyToken: "old", constants.StorageKeyUser: "{not json"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			store := newStore()
			inner := newStorage()
			if tt.initial != nil {
				require.NoError(t, inner.SetAll(ctx, tt.initial))
			}

			login := session.Session{Token: "abc", User: session.User{ID: "7", Email: "a@b.com"}}
			storage := &racingStorage{Storage: inner, onRead: func() {
				require.NoError(t, store.Persist(ctx, inner, login))
			}}

			// 1. The racing restore reports signed out or the new session, never a mix
			if restored := store.Restore(ctx, storage); restored != nil {
				assert.Equal(t, login, *restored)
			}

			// 2. The login survives
			restored := store.Restore(ctx, storage)
			require.NotNil(t, restored, "a fully persisted session must survive a concurrent restore")
			assert.Equal(t, login, *restored)
		})
	}
}

/*
TestStore_RestoreUnavailable reports signed out when storage is down.
*/
func TestStore_RestoreUnavailable(t *testing.T) {
	assert.Nil(t, newStore().Restore(context.Background(), failingStorage{}))
}

/*
TestStore_PersistIncomplete refuses sessions that would restore as corrupt.
*/
func TestStore_PersistIncomplete(t *testing.T) {
	ctx := context.Background()
	store := newStore()
	storage := newStorage()

	assert.ErrorIs(t, store.Persist(ctx, storage, session.Session{User: session.User{ID: "7"}}), session.ErrIncomplete)
	assert.ErrorIs(t, store.Persist(ctx, storage, session.Session{Token: "abc"}), session.ErrIncomplete)

	_, err := storage.Get(ctx, constants.StorageKeyToken)
	assert.ErrorIs(t, err, session.ErrNotFound)
}

/*
TestUserID_JSON accepts numbers and strings and keeps numbers numeric.
*/
func TestUserID_JSON(t *testing.T) {
	var user session.User
	require.NoError(t, json.Unmarshal([]byte(`{"id":7,"email":"a@b.com"}`), &user))
	assert.Equal(t, session.UserID("7"), user.ID)

	require.NoError(t, json.Unmarshal([]byte(`{"id":"abc"}`), &user))
	assert.Equal(t, session.UserID("abc"), user.ID)

	raw, err := json.Marshal(session.User{ID: "7", Email: "a@b.com"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":7,"email":"a@b.com"}`, string(raw))

	raw, err = json.Marshal(session.User{ID: "abc"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"abc","email":""}`, string(raw))

	assert.Error(t, json.Unmarshal([]byte(`{"id":{}}`), &user))
}

/*
TestUser_DisplayName prefers full name, then username, then email.
*/
func TestUser_DisplayName(t *testing.T) {
	assert.Equal(t, "Ada Lovelace", session.User{FullName: "Ada Lovelace", Username: "ada", Email: "a@b.com"}.DisplayName())
	assert.Equal(t, "ada", session.User{Username: "ada", Email: "a@b.com"}.DisplayName())
	assert.Equal(t, "a@b.com", session.User{Email: "a@b.com"}.DisplayName())
}
