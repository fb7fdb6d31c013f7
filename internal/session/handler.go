package session

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/constat/sketch/backend-go/internal/auth"
	"github.com/constat/sketch/backend-go/internal/sketchstore"
)

const maxCreateBody = 1 << 20 // initialData can carry a full snapshot

type Handler struct {
	manager        *Manager
	tokens         *auth.Service
	store          sketchstore.Store
	originPatterns []string
}

func NewHandler(manager *Manager, tokens *auth.Service, store sketchstore.Store, originPatterns []string) *Handler {
	return &Handler{
		manager:        manager,
		tokens:         tokens,
		store:          store,
		originPatterns: originPatterns,
	}
}

// Create handles POST /api/sessions. An empty body takes the defaults.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxCreateBody)

	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	created, err := h.manager.Create(req)
	if err != nil {
		slog.Error("create session", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

// ServeWS handles GET /ws/sessions/{sessionId}?token=.
func (h *Handler) ServeWS(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["sessionId"]

	token := r.URL.Query().Get("token")
	if token == "" {
		http.Error(w, "missing token", http.StatusUnauthorized)
		return
	}
	tokenSession, err := h.tokens.ValidateToken(token)
	if err != nil {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}
	if tokenSession != sessionID {
		http.Error(w, "token is for another session", http.StatusForbidden)
		return
	}

	s, err := h.manager.Get(sessionID)
	if err != nil {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}
	if s.Connected() {
		http.Error(w, ErrSessionBusy.Error(), http.StatusConflict)
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: h.originPatterns,
	})
	if err != nil {
		slog.Error("websocket accept", "error", err)
		return
	}

	clientID := uuid.New().String()
	client := NewClient(h.manager, conn, clientID)

	s, err = h.manager.Attach(sessionID, client, clientID)
	if err != nil {
		conn.Close(websocket.StatusPolicyViolation, err.Error())
		return
	}
	client.session = s

	ctx := r.Context()
	go client.WritePump(ctx)
	client.ReadPump(ctx)
}

// LatestSketch handles GET /api/sessions/{sessionId}/sketch behind the auth
// middleware, which has already matched the token to the session.
func (h *Handler) LatestSketch(w http.ResponseWriter, r *http.Request) {
	sessionID := auth.SessionIDFromContext(r.Context())

	sk, err := h.store.Latest(r.Context(), sessionID)
	if err != nil {
		if errors.Is(err, sketchstore.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "no sketch saved"})
			return
		}
		slog.Error("load latest sketch", "error", err, "session", sessionID)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"id":        sk.ID,
		"dataUri":   sk.DataURI,
		"url":       "/sketches/" + sk.ID + ".png",
		"createdAt": sk.CreatedAt,
	})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
