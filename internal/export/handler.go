// Package export serves saved sketches as PNG downloads.
package export

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/constat/sketch/backend-go/internal/sketchstore"
	"github.com/constat/sketch/backend-go/internal/snapshot"
)

type Handler struct {
	store sketchstore.Store
}

func NewHandler(store sketchstore.Store) *Handler {
	return &Handler{store: store}
}

// DownloadPNG handles GET /sketches/{sketchId}.png.
func (h *Handler) DownloadPNG(w http.ResponseWriter, r *http.Request) {
	sketchID := mux.Vars(r)["sketchId"]

	sk, err := h.store.Get(r.Context(), sketchID)
	if err != nil {
		if errors.Is(err, sketchstore.ErrNotFound) {
			http.Error(w, "sketch not found", http.StatusNotFound)
			return
		}
		slog.Error("load sketch", "error", err, "sketch", sketchID)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	data, err := snapshot.DecodeDataURI(sk.DataURI)
	if err != nil {
		slog.Error("decode sketch", "error", err, "sketch", sketchID)
		http.Error(w, "stored sketch is corrupt", http.StatusInternalServerError)
		return
	}

	name := r.URL.Query().Get("name")
	if name == "" {
		name = "sketch"
	}

	// Sketch IDs are unique, so downloads are immutable
	w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("Content-Disposition", fmt.Sprintf(`inline; filename="%s.png"`, sanitize(name)))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// sanitize keeps a filename to ASCII letters, digits, dashes and underscores.
func sanitize(name string) string {
	return strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			return r
		}
		return '-'
	}, name)
}
