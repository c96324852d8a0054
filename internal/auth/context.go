// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package auth holds the per-browser authentication state and the route guards
built on it.

A [Context] is the single source of truth for "is this browser signed in, and
as whom". It is created for each request by [Provide], starts in the loading
state, and leaves it exactly once when the stored session has been restored.

State Machine (per guarded request):

	PENDING ──(restore finished, rule satisfied)──▶ ALLOW
	   │
	   └──────(restore finished, rule violated)───▶ REDIRECT
*/
package auth

import (
	"context"
	"sync"

	"github.com/taibuivan/facegate/internal/platform/ctxkey"
	"github.com/taibuivan/facegate/internal/session"
)

// Context is the auth state of one browser.
//
// # Concurrency
//
// All methods are safe for concurrent use; the restore may finish on another
// goroutine while a guard reads the state.
type Context struct {
	store   *session.Store
	storage session.Storage

	once sync.Once
	done chan struct{}

	mu      sync.RWMutex
	loading bool
	current *session.Session
}

// New creates a Context in the loading state. Call [Context.Init] to restore.
func New(store *session.Store, storage session.Storage) *Context {
	return &Context{
		store:   store,
		storage: storage,
		done:    make(chan struct{}),
		loading: true,
	}
}

// Init restores the stored session and clears the loading flag.
// Only the first call does any work; later calls wait for it to finish.
func (c *Context) Init(ctx context.Context) {
	c.once.Do(func() {
		restored := c.store.Restore(ctx, c.storage)

		c.mu.Lock()
		c.current = restored
		c.loading = false
		c.mu.Unlock()

		close(c.done)
	})
	<-c.done
}

// Done is closed once the initial restore has finished.
func (c *Context) Done() <-chan struct{} {
	return c.done
}

// Login persists the session and marks the browser as signed in.
// The in-memory state changes only after the write succeeded.
func (c *Context) Login(ctx context.Context, user session.User, token string) error {
	sess := session.Session{Token: token, User: user}
	if err := c.store.Persist(ctx, c.storage, sess); err != nil {
		return err
	}

	c.mu.Lock()
	c.current = &sess
	c.loading = false
	c.mu.Unlock()
	return nil
}

// Logout removes the stored session and marks the browser as signed out.
// The in-memory state is cleared even when the storage write fails.
func (c *Context) Logout(ctx context.Context) error {
	err := c.store.Clear(ctx, c.storage)

	c.mu.Lock()
	c.current = nil
	c.loading = false
	c.mu.Unlock()
	return err
}

// CurrentUser returns the signed-in user, if any.
func (c *Context) CurrentUser() (session.User, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.current == nil {
		return session.User{}, false
	}
	return c.current.User, true
}

// IsAuthenticated reports whether a user is signed in.
func (c *Context) IsAuthenticated() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.current != nil
}

// Loading reports whether the initial restore is still running.
func (c *Context) Loading() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loading
}

// Token returns the bearer token of the signed-in user, or "".
func (c *Context) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.current == nil {
		return ""
	}
	return c.current.Token
}

// # Context Helpers

// WithContext returns a request context carrying authCtx.
func WithContext(ctx context.Context, authCtx *Context) context.Context {
	return context.WithValue(ctx, ctxkey.KeyAuth, authCtx)
}

// FromContext returns the auth state of the request, or nil outside [Provide].
func FromContext(ctx context.Context) *Context {
	authCtx, _ := ctx.Value(ctxkey.KeyAuth).(*Context)
	return authCtx
}
