// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package session persists the signed-in identity of each browser.

Every browser owns a small key/value namespace (see [Storage]) identified by a
signed cookie. The session itself is two entries in that namespace: the bearer
token issued by the recognition backend and the serialized user profile.

Invariants:

  - Token and profile are written together and removed together.
  - A namespace holding only one of them, or an unreadable profile, counts as
    signed out and is cleaned up on the next [Store.Restore].
*/
package session

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strconv"
	"strings"

	"github.com/taibuivan/facegate/internal/platform/constants"
)

// # User Profile

// UserID is the backend identifier of a user. The backend emits integers,
// older deployments emitted strings; both decode to the same value.
type UserID string

// UnmarshalJSON accepts a JSON number or a JSON string.
func (id *UserID) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" {
		*id = ""
		return nil
	}

	if strings.HasPrefix(raw, `"`) {
		var text string
		if err := json.Unmarshal(data, &text); err != nil {
			return err
		}
		*id = UserID(text)
		return nil
	}

	var number json.Number
	if err := json.Unmarshal(data, &number); err != nil {
		return err
	}
	*id = UserID(number.String())
	return nil
}

// MarshalJSON writes integral ids as numbers and everything else as strings.
func (id UserID) MarshalJSON() ([]byte, error) {
	if _, err := strconv.ParseInt(string(id), 10, 64); err == nil {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

// String implements [fmt.Stringer].
func (id UserID) String() string { return string(id) }

// User is the profile of the signed-in account.
type User struct {
	ID       UserID `json:"id"`
	Username string `json:"username,omitempty"`
	FullName string `json:"full_name,omitempty"`
	Email    string `json:"email"`
}

// DisplayName picks the friendliest available label.
func (u User) DisplayName() string {
	switch {
	case u.FullName != "":
		return u.FullName
	case u.Username != "":
		return u.Username
	default:
		return u.Email
	}
}

// Session is a restored (token, profile) pair.
type Session struct {
	Token string
	User  User
}

// # Persistence

// ErrIncomplete is returned by [Store.Persist] for a session without a token
// or a user id, which would violate the both-or-neither invariant on restore.
var ErrIncomplete = errors.New("session: token and user id are required")

// Store reads and writes sessions in browser storage.
type Store struct {
	logger *slog.Logger
}

// NewStore creates a session store.
func NewStore(logger *slog.Logger) *Store {
	return &Store{logger: logger}
}

// sessionKeys are the entries that make up a session.
var sessionKeys = []string{constants.StorageKeyToken, constants.StorageKeyUser}

// Restore loads the session of a browser.
//
// It never fails: missing, partial, or unreadable data is reported as signed
// out (nil) and the leftover entries are removed so the next call sees a clean
// namespace. Storage outages are logged and also reported as signed out.
//
// Both entries are read from one snapshot. Leftovers are removed only if they
// are still what was read; a session persisted concurrently is kept and
// returned instead.
func (s *Store) Restore(ctx context.Context, storage Storage) *Session {
	snapshot, err := storage.GetAll(ctx, sessionKeys...)
	if err != nil {
		s.logger.WarnContext(ctx, "session_restore_unavailable", slog.Any("error", err))
		return nil
	}

	sess, err := decode(snapshot)
	if err == nil || len(snapshot) == 0 {
		return sess
	}

	s.logger.WarnContext(ctx, "session_restore_corrupt",
		slog.Bool("token_present", snapshot[constants.StorageKeyToken] != ""),
		slog.Bool("user_present", snapshot[constants.StorageKeyUser] != ""),
		slog.Any("parse_error", err),
	)

	var replaced map[string]string
	err = storage.Update(ctx, sessionKeys, func(current map[string]string) (map[string]string, error) {
		if !sameEntries(current, snapshot) {
			replaced = current
			return current, nil
		}
		replaced = nil
		return nil, nil
	})
	if err != nil {
		s.logger.WarnContext(ctx, "session_self_heal_failed", slog.Any("error", err))
		return nil
	}

	if replaced != nil {
		if sess, err := decode(replaced); err == nil {
			return sess
		}
	}
	return nil
}

// decode builds a session from its entries. An empty snapshot is signed out
// (nil, nil); anything short of a token plus a valid profile is an error.
func decode(entries map[string]string) (*Session, error) {
	token, tokenFound := entries[constants.StorageKeyToken]
	rawUser, userFound := entries[constants.StorageKeyUser]

	switch {
	case !tokenFound && !userFound:
		return nil, nil
	case !tokenFound || token == "":
		return nil, errors.New("session: token missing")
	case !userFound:
		return nil, errors.New("session: user missing")
	}

	user, err := parseUser(rawUser)
	if err != nil {
		return nil, err
	}
	return &Session{Token: token, User: user}, nil
}

// Persist writes token and profile in one storage operation.
func (s *Store) Persist(ctx context.Context, storage Storage, sess Session) error {
	if sess.Token == "" || sess.User.ID == "" {
		return ErrIncomplete
	}

	rawUser, err := json.Marshal(sess.User)
	if err != nil {
		return err
	}

	return storage.SetAll(ctx, map[string]string{
		constants.StorageKeyToken: sess.Token,
		constants.StorageKeyUser:  string(rawUser),
	})
}

// Clear removes token and profile in one storage operation.
func (s *Store) Clear(ctx context.Context, storage Storage) error {
	return storage.Remove(ctx, constants.StorageKeyToken, constants.StorageKeyUser)
}

// parseUser decodes a stored profile; it must be a JSON object with an id.
func parseUser(raw string) (User, error) {
	var user User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		return User{}, err
	}
	if user.ID == "" {
		return User{}, errors.New("session: stored user has no id")
	}
	return user, nil
}
