// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session

import (
	"context"
	"encoding/json"

	"github.com/taibuivan/facegate/internal/platform/constants"
)

// Toast kinds.
const (
	ToastSuccess = "success"
	ToastError   = "error"
	ToastInfo    = "info"
)

// maxToasts caps the queue so a browser that never renders a page cannot grow it.
const maxToasts = 8

// Toast is a one-shot notification shown on the next rendered page.
type Toast struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

var toastKeys = []string{constants.StorageKeyToasts}

// PushToast appends a toast to the browser's queue. Concurrent pushes from
// the same browser are all kept.
func PushToast(ctx context.Context, storage Storage, kind, message string) error {
	return storage.Update(ctx, toastKeys, func(current map[string]string) (map[string]string, error) {
		toasts := decodeToasts(current[constants.StorageKeyToasts])
		toasts = append(toasts, Toast{Kind: kind, Message: message})
		if len(toasts) > maxToasts {
			toasts = toasts[len(toasts)-maxToasts:]
		}

		raw, err := json.Marshal(toasts)
		if err != nil {
			return nil, err
		}
		return map[string]string{constants.StorageKeyToasts: string(raw)}, nil
	})
}

// PopToasts returns and removes every queued toast. A toast pushed during the
// pop is either returned or left for the next one.
func PopToasts(ctx context.Context, storage Storage) ([]Toast, error) {
	var popped []Toast
	err := storage.Update(ctx, toastKeys, func(current map[string]string) (map[string]string, error) {
		popped = decodeToasts(current[constants.StorageKeyToasts])
		return nil, nil
	})
	if err != nil {
		return nil, err
	}
	return popped, nil
}

// decodeToasts parses a stored queue; a missing or unreadable queue is empty.
func decodeToasts(raw string) []Toast {
	if raw == "" {
		return nil
	}
	var toasts []Toast
	if json.Unmarshal([]byte(raw), &toasts) != nil {
		return nil
	}
	return toasts
}
