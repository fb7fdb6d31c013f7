package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"github.com/constat/sketch/backend-go/internal/auth"
	"github.com/constat/sketch/backend-go/internal/config"
	"github.com/constat/sketch/backend-go/internal/db"
	"github.com/constat/sketch/backend-go/internal/editor"
	"github.com/constat/sketch/backend-go/internal/export"
	mw "github.com/constat/sketch/backend-go/internal/middleware"
	"github.com/constat/sketch/backend-go/internal/session"
	"github.com/constat/sketch/backend-go/internal/sketchstore"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel})))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var store sketchstore.Store
	if cfg.DatabaseURL == "" {
		slog.Warn("DATABASE_URL not set, keeping sketches in memory")
		store = sketchstore.NewMemoryStore()
	} else {
		pool, err := db.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			slog.Error("connect to database", "error", err)
			os.Exit(1)
		}
		defer pool.Close()

		pg := sketchstore.NewPostgresStore(pool)
		if err := pg.Migrate(ctx); err != nil {
			slog.Error("migrate", "error", err)
			os.Exit(1)
		}
		store = pg
	}

	tokens := auth.NewService(cfg.JWTSecret, cfg.SessionTTL+24*time.Hour)

	manager := session.NewManager(store, tokens, session.Options{
		Screen:      editor.Screen{Width: cfg.ScreenWidth, Height: cfg.ScreenHeight},
		SettleDelay: cfg.SnapshotSettle,
		TTL:         cfg.SessionTTL,
	})
	go manager.Run(ctx)

	origins := mw.SplitOrigins(cfg.AllowedOrigins)
	sessionHandler := session.NewHandler(manager, tokens, store, originPatterns(origins))
	exportHandler := export.NewHandler(store)

	r := mux.NewRouter()

	// Global middleware
	r.Use(mw.Recovery)
	r.Use(mw.Logger)
	r.Use(mw.CORS(origins))

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// Session creation is public; the returned token scopes everything else
	r.HandleFunc("/api/sessions", sessionHandler.Create).Methods("POST", "OPTIONS")

	// PNG downloads (sketch IDs are unguessable)
	r.HandleFunc("/sketches/{sketchId}.png", exportHandler.DownloadPNG).Methods("GET")

	// Protected API routes
	api := r.PathPrefix("/api").Subrouter()
	api.Use(tokens.Middleware)
	api.HandleFunc("/sessions/{sessionId}/sketch", sessionHandler.LatestSketch).Methods("GET", "OPTIONS")

	// WebSocket endpoint
	r.HandleFunc("/ws/sessions/{sessionId}", sessionHandler.ServeWS)

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down server")

		// End sessions first so saves in flight finish
		manager.Stop()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		srv.Shutdown(shutdownCtx)
	}()

	slog.Info("server starting", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}

// originPatterns turns allowed origins into the host patterns the websocket
// accepter matches against.
func originPatterns(origins []string) []string {
	patterns := make([]string, 0, len(origins))
	for _, o := range origins {
		if u, err := url.Parse(o); err == nil && u.Host != "" {
			patterns = append(patterns, u.Host)
			continue
		}
		patterns = append(patterns, o)
	}
	return patterns
}
