package httpapi

import (
	"io"
	"net/http"
	"path"
	"strconv"
)

// handleAssetUpload accepts one file as a multipart form field named "file".
// An optional "folder" field namespaces the asset.
func (s *Server) handleAssetUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxAssetBytes)
	if err := r.ParseMultipartForm(maxAssetBytes); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "missing file field")
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "cannot read upload")
		return
	}
	if len(content) == 0 {
		writeError(w, http.StatusBadRequest, "bad_request", "empty upload")
		return
	}

	folder := r.FormValue("folder")
	if folder == "" {
		folder = "uploads"
	}
	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(content)
	}

	// Strip any client path components from the filename.
	filename := path.Base(header.Filename)

	asset, err := s.stores.Assets.Put(r.Context(), folder, filename, contentType, content)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, asset)
}

func (s *Server) handleAssetGet(w http.ResponseWriter, r *http.Request) {
	asset, content, err := s.stores.Assets.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeStoreError(w, err)
		return
	}

	w.Header().Set("Content-Type", asset.ContentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(content)))
	w.Header().Set("Cache-Control", "public, max-age=86400, immutable")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(content)
}
