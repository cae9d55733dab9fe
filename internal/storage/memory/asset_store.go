package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"strategy-studio/internal/domain"
	"strategy-studio/internal/idhash"
	"strategy-studio/internal/storage"
)

// AssetStore is an in-memory implementation of storage.AssetStore. URLs are
// served back through the upload API's download endpoint.
type AssetStore struct {
	mu      sync.RWMutex
	assets  map[string]*domain.Asset // keyed by asset id
	blobs   map[string][]byte
	baseURL string
	now     func() time.Time
}

// NewAssetStore creates a new in-memory asset store. baseURL prefixes the
// returned retrieval URLs, e.g. "/api/v1/assets".
func NewAssetStore(baseURL string) *AssetStore {
	return &AssetStore{
		assets:  make(map[string]*domain.Asset),
		blobs:   make(map[string][]byte),
		baseURL: baseURL,
		now:     time.Now,
	}
}

// Put stores a blob and returns its asset metadata. Content-addressed ids
// make identical re-uploads idempotent.
func (s *AssetStore) Put(_ context.Context, folder, filename, contentType string, content []byte) (*domain.Asset, error) {
	if filename == "" || len(content) == 0 {
		return nil, storage.ErrInvalidInput
	}

	id := idhash.ComputeAssetID(folder, filename, content)

	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.assets[id]; ok {
		assetCopy := *existing
		return &assetCopy, nil
	}

	asset := &domain.Asset{
		AssetID:     id,
		Folder:      folder,
		Filename:    filename,
		ContentType: contentType,
		Size:        int64(len(content)),
		URL:         fmt.Sprintf("%s/%s", s.baseURL, id),
		UploadedAt:  s.now().UnixMilli(),
	}
	s.assets[id] = asset
	s.blobs[id] = append([]byte(nil), content...)

	assetCopy := *asset
	return &assetCopy, nil
}

// Get retrieves a stored blob by asset id. Returns ErrNotFound if not exists.
func (s *AssetStore) Get(_ context.Context, assetID string) (*domain.Asset, []byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	asset, exists := s.assets[assetID]
	if !exists {
		return nil, nil, storage.ErrNotFound
	}

	assetCopy := *asset
	blob := append([]byte(nil), s.blobs[assetID]...)
	return &assetCopy, blob, nil
}

// Verify interface compliance at compile time.
var _ storage.AssetStore = (*AssetStore)(nil)
