// Package media persists opaque blob payloads (item photos, message
// attachments) behind stable handles. The integrity core never inspects
// blob content; it only stores and resolves handles.
package media

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
)

var (
	ErrBlobNotFound = errors.New("blob not found")
	ErrEmptyBlob    = errors.New("blob payload is empty")
)

type Store interface {
	StoreBlob(ctx context.Context, data []byte) (string, error)
	FetchBlob(ctx context.Context, handle string) ([]byte, error)
	DropBlob(ctx context.Context, handle string) error
}

// handleFor derives a content-addressed handle, so storing the same
// payload twice is naturally idempotent.
func handleFor(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
