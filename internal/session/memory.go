// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session

import (
	"context"
	"sync"
	"time"
)

// MemoryBackend keeps every namespace in process memory. It suits single
// replica deployments and tests; contents are lost on restart.
type MemoryBackend struct {
	mu         sync.Mutex
	namespaces map[string]*memoryNamespace
	ttl        time.Duration
	now        func() time.Time
}

type memoryNamespace struct {
	entries map[string]string
	touched time.Time
}

// NewMemoryBackend creates an empty backend whose namespaces expire after ttl
// of inactivity.
func NewMemoryBackend(ttl time.Duration) *MemoryBackend {
	return &MemoryBackend{
		namespaces: make(map[string]*memoryNamespace),
		ttl:        ttl,
		now:        time.Now,
	}
}

// Open implements [Backend].
func (b *MemoryBackend) Open(browserID string) Storage {
	return &memoryStorage{backend: b, key: storageKey(browserID)}
}

// Purge implements [Backend].
func (b *MemoryBackend) Purge(_ context.Context) (int64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	var purged int64
	for key, namespace := range b.namespaces {
		if b.expired(namespace) {
			delete(b.namespaces, key)
			purged++
		}
	}
	return purged, nil
}

// Ping implements [Backend].
func (b *MemoryBackend) Ping(_ context.Context) error { return nil }

// Name implements [Backend].
func (b *MemoryBackend) Name() string { return "memory" }

// Len reports the number of live namespaces.
func (b *MemoryBackend) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.namespaces)
}

func (b *MemoryBackend) expired(namespace *memoryNamespace) bool {
	return b.ttl > 0 && b.now().Sub(namespace.touched) > b.ttl
}

// namespace returns the live namespace of key. Callers hold b.mu.
func (b *MemoryBackend) namespace(key string, create bool) *memoryNamespace {
	namespace, ok := b.namespaces[key]
	if ok && b.expired(namespace) {
		delete(b.namespaces, key)
		ok = false
	}
	if !ok {
		if !create {
			return nil
		}
		namespace = &memoryNamespace{entries: make(map[string]string)}
		b.namespaces[key] = namespace
	}
	namespace.touched = b.now()
	return namespace
}

type memoryStorage struct {
	backend *MemoryBackend
	key     string
}

func (s *memoryStorage) Get(_ context.Context, key string) (string, error) {
	s.backend.mu.Lock()
	defer s.backend.mu.Unlock()

	namespace := s.backend.namespace(s.key, false)
	if namespace == nil {
		return "", ErrNotFound
	}
	value, ok := namespace.entries[key]
	if !ok {
		return "", ErrNotFound
	}
	return value, nil
}

func (s *memoryStorage) GetAll(_ context.Context, keys ...string) (map[string]string, error) {
	s.backend.mu.Lock()
	defer s.backend.mu.Unlock()

	return s.snapshot(keys), nil
}

func (s *memoryStorage) Update(_ context.Context, keys []string, fn UpdateFunc) error {
	s.backend.mu.Lock()
	defer s.backend.mu.Unlock()

	next, err := fn(s.snapshot(keys))
	if err != nil {
		return err
	}

	namespace := s.backend.namespace(s.key, len(next) > 0)
	if namespace == nil {
		return nil
	}
	for _, key := range keys {
		if value, ok := next[key]; ok {
			namespace.entries[key] = value
		} else {
			delete(namespace.entries, key)
		}
	}
	if len(namespace.entries) == 0 {
		delete(s.backend.namespaces, s.key)
	}
	return nil
}

// snapshot copies the present entries among keys. Callers hold the backend lock.
func (s *memoryStorage) snapshot(keys []string) map[string]string {
	entries := make(map[string]string, len(keys))
	namespace := s.backend.namespace(s.key, false)
	if namespace == nil {
		return entries
	}
	for _, key := range keys {
		if value, ok := namespace.entries[key]; ok {
			entries[key] = value
		}
	}
	return entries
}

func (s *memoryStorage) SetAll(_ context.Context, entries map[string]string) error {
	s.backend.mu.Lock()
	defer s.backend.mu.Unlock()

	namespace := s.backend.namespace(s.key, true)
	for key, value := range entries {
		namespace.entries[key] = value
	}
	return nil
}

func (s *memoryStorage) Remove(_ context.Context, keys ...string) error {
	s.backend.mu.Lock()
	defer s.backend.mu.Unlock()

	namespace := s.backend.namespace(s.key, false)
	if namespace == nil {
		return nil
	}
	for _, key := range keys {
		delete(namespace.entries, key)
	}
	if len(namespace.entries) == 0 {
		delete(s.backend.namespaces, s.key)
	}
	return nil
}
