package memory

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"strategy-studio/internal/storage"
)

func TestAssetStore_PutAndGet(t *testing.T) {
	store := NewAssetStore("/api/v1/assets")
	ctx := context.Background()

	content := []byte("chart-screenshot-bytes")
	asset, err := store.Put(ctx, "screenshots", "equity.png", "image/png", content)
	if err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if asset.URL == "" || asset.Size != int64(len(content)) {
		t.Errorf("asset metadata incomplete: %+v", asset)
	}

	got, blob, err := store.Get(ctx, asset.AssetID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !bytes.Equal(blob, content) {
		t.Error("stored blob does not round-trip")
	}
	if got.ContentType != "image/png" {
		t.Errorf("ContentType = %q, want image/png", got.ContentType)
	}
}

func TestAssetStore_IdempotentReupload(t *testing.T) {
	store := NewAssetStore("/api/v1/assets")
	ctx := context.Background()

	content := []byte("same-bytes")
	first, err := store.Put(ctx, "f", "a.txt", "text/plain", content)
	if err != nil {
		t.Fatal(err)
	}
	second, err := store.Put(ctx, "f", "a.txt", "text/plain", content)
	if err != nil {
		t.Fatal(err)
	}
	if first.AssetID != second.AssetID || first.URL != second.URL {
		t.Error("identical upload produced a different asset")
	}
}

func TestAssetStore_NotFound(t *testing.T) {
	store := NewAssetStore("/api/v1/assets")

	if _, _, err := store.Get(context.Background(), "missing"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
