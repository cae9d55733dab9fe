package httpapi_test

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"strategy-studio/internal/domain"
)

func TestMarketplacePublishFlow(t *testing.T) {
	api := newTestAPI(t)
	created := api.createStrategy(t, "Public Alpha")

	// Nothing published yet.
	resp := api.do(t, http.MethodGet, "/api/v1/marketplace", "", nil)
	listings := decodeBody[[]*domain.MarketplaceListing](t, resp)
	assert.Empty(t, listings)

	resp = api.do(t, http.MethodPost, "/api/v1/strategies/"+created.ID+"/publish", api.token, nil)
	published := decodeBody[*domain.StrategyRecord](t, resp)
	assert.True(t, published.IsPublic)
	assert.Equal(t, domain.StatusActive, published.Status)

	resp = api.do(t, http.MethodGet, "/api/v1/marketplace", "", nil)
	listings = decodeBody[[]*domain.MarketplaceListing](t, resp)
	require.Len(t, listings, 1)
	assert.Equal(t, created.ID, listings[0].StrategyID)
	assert.NotEmpty(t, listings[0].Indicators)

	resp = api.do(t, http.MethodGet, "/api/v1/marketplace/"+created.ID, "", nil)
	listing := decodeBody[*domain.MarketplaceListing](t, resp)
	assert.Equal(t, "Public Alpha", listing.Name)

	resp = api.do(t, http.MethodPost, "/api/v1/strategies/"+created.ID+"/unpublish", api.token, nil)
	unpublished := decodeBody[*domain.StrategyRecord](t, resp)
	assert.False(t, unpublished.IsPublic)

	resp = api.do(t, http.MethodGet, "/api/v1/marketplace/"+created.ID, "", nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestMarketplaceListing_CarriesPerformance(t *testing.T) {
	api := newTestAPI(t)
	created := api.createStrategy(t, "Proven")

	resp := api.do(t, http.MethodPost, "/api/v1/strategies/"+created.ID+"/backtest", api.token, backtestBody())
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = api.do(t, http.MethodPost, "/api/v1/strategies/"+created.ID+"/publish", api.token, nil)
	resp.Body.Close()

	resp = api.do(t, http.MethodGet, "/api/v1/marketplace/"+created.ID, "", nil)
	listing := decodeBody[*domain.MarketplaceListing](t, resp)
	require.NotNil(t, listing.Performance)
	assert.Positive(t, listing.Performance.TotalTrades)
}

func TestPublish_UnknownStrategy(t *testing.T) {
	api := newTestAPI(t)
	resp := api.do(t, http.MethodPost, "/api/v1/strategies/missing/publish", api.token, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAssetUploadAndServe(t *testing.T) {
	api := newTestAPI(t)

	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	require.NoError(t, form.WriteField("folder", "avatars"))
	part, err := form.CreateFormFile("file", "logo.png")
	require.NoError(t, err)
	content := []byte("\x89PNG fake image bytes")
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, form.Close())

	req, err := http.NewRequest(http.MethodPost, api.server.URL+"/api/v1/assets", &buf)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+api.token)
	req.Header.Set("Content-Type", form.FormDataContentType())

	resp, err := api.server.Client().Do(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	asset := decodeBody[*domain.Asset](t, resp)

	assert.Equal(t, "avatars", asset.Folder)
	assert.Equal(t, "logo.png", asset.Filename)
	assert.Equal(t, int64(len(content)), asset.Size)
	assert.NotEmpty(t, asset.URL)

	resp = api.do(t, http.MethodGet, "/assets/"+asset.AssetID, "", nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	served, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, content, served)
}

func TestAssetUpload_MissingFile(t *testing.T) {
	api := newTestAPI(t)

	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	require.NoError(t, form.WriteField("folder", "avatars"))
	require.NoError(t, form.Close())

	req, err := http.NewRequest(http.MethodPost, api.server.URL+"/api/v1/assets", &buf)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+api.token)
	req.Header.Set("Content-Type", form.FormDataContentType())

	resp, err := api.server.Client().Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAssetGet_Missing(t *testing.T) {
	api := newTestAPI(t)
	resp := api.do(t, http.MethodGet, "/assets/missing", "", nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
