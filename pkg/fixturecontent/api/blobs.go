package api

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/tendant/fixture-content/pkg/fixturecontent"
)

// maxBlobSize bounds uploaded blob bodies.
const maxBlobSize = 32 << 20

// GetBlob streams blob data
func (h *ItemHandler) GetBlob(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}

	var data []byte
	h.provider.Do(func(p *fixturecontent.Provider) {
		rc := p.GetBlobStream(id, nil)
		if rc == nil {
			return
		}
		defer rc.Close()
		data, _ = io.ReadAll(rc)
	})
	if data == nil {
		http.Error(w, fixturecontent.ErrBlobNotFound.Error(), http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	if _, err := io.Copy(w, bytes.NewReader(data)); err != nil {
		slog.Error("Failed to write blob", "blob_id", id.String(), "error", err)
	}
}

// HeadBlob reports whether blob data exists
func (h *ItemHandler) HeadBlob(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}

	var exists bool
	h.provider.Do(func(p *fixturecontent.Provider) {
		exists = p.BlobStreamExists(id, nil)
	})
	if !exists {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// PutBlob stores the request body as blob data
func (h *ItemHandler) PutBlob(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}

	// Read the body before taking the provider lock.
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBlobSize))
	if err != nil {
		slog.Error("Failed to read blob body", "blob_id", id.String(), "error", err)
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return
	}

	var stored bool
	h.provider.Do(func(p *fixturecontent.Provider) {
		stored = p.SetBlobStream(bytes.NewReader(data), id, nil)
	})
	if !stored {
		http.Error(w, "Failed to store blob", http.StatusInternalServerError)
		return
	}

	slog.Info("Blob stored", "blob_id", id.String(), "size", len(data))
	w.WriteHeader(http.StatusNoContent)
}
