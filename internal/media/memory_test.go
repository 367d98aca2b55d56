package media

import (
	"bytes"
	"context"
	"errors"
	"testing"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()

	payload := []byte("not really a jpeg")
	handle, err := store.StoreBlob(ctx, payload)
	if err != nil {
		t.Fatalf("store: %v", err)
	}

	fetched, err := store.FetchBlob(ctx, handle)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if !bytes.Equal(fetched, payload) {
		t.Fatalf("payload mismatch")
	}

	// Same content, same handle.
	again, err := store.StoreBlob(ctx, payload)
	if err != nil {
		t.Fatalf("store again: %v", err)
	}
	if again != handle {
		t.Fatalf("expected content-addressed handle to repeat, got %s and %s", handle, again)
	}
}

func TestMemoryStoreMissingAndEmpty(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()

	if _, err := store.StoreBlob(ctx, nil); !errors.Is(err, ErrEmptyBlob) {
		t.Fatalf("expected ErrEmptyBlob, got %v", err)
	}
	if _, err := store.FetchBlob(ctx, "deadbeef"); !errors.Is(err, ErrBlobNotFound) {
		t.Fatalf("expected ErrBlobNotFound, got %v", err)
	}

	payload := []byte("x")
	handle, _ := store.StoreBlob(ctx, payload)
	if err := store.DropBlob(ctx, handle); err != nil {
		t.Fatalf("drop: %v", err)
	}
	if _, err := store.FetchBlob(ctx, handle); !errors.Is(err, ErrBlobNotFound) {
		t.Fatalf("expected ErrBlobNotFound after drop, got %v", err)
	}
}
