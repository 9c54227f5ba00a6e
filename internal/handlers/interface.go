package handlers

import (
	"context"
	"sync"
	"time"
)

// StorageHandler interface for file operations
type StorageHandler interface {
	Upload(ctx context.Context, data []byte, prefix, filename, contentType string) (string, error)
	Download(ctx context.Context, key string) ([]byte, error)
	GetSignedURL(ctx context.Context, path string, duration time.Duration) (string, error)
}

var (
	storageHandler StorageHandler
	handlerMu      sync.RWMutex
)

// RegisterStorageHandler sets the storage handler
func RegisterStorageHandler(h StorageHandler) {
	handlerMu.Lock()
	defer handlerMu.Unlock()
	storageHandler = h
}

// GetStorageHandler returns the registered storage handler
func GetStorageHandler() StorageHandler {
	handlerMu.RLock()
	defer handlerMu.RUnlock()
	return storageHandler
}
