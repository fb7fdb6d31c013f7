package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/constat/sketch/backend-go/internal/auth"
	"github.com/constat/sketch/backend-go/internal/editor"
	"github.com/constat/sketch/backend-go/internal/sketchstore"
	"github.com/constat/sketch/backend-go/internal/typeid"
)

type Options struct {
	// Screen is used when a create request does not say.
	Screen      editor.Screen
	SettleDelay time.Duration
	// TTL bounds how long a session may wait for its first client.
	TTL    time.Duration
	Logger *slog.Logger
}

// CreateRequest is the body of POST /api/sessions.
type CreateRequest struct {
	ScreenWidth  float64 `json:"screenWidth,omitempty"`
	ScreenHeight float64 `json:"screenHeight,omitempty"`
	// Seed defaults to true: the two parties' cars are placed.
	Seed        *bool  `json:"seed,omitempty"`
	InitialData string `json:"initialData,omitempty"`
}

type Created struct {
	SessionID string `json:"sessionId"`
	Token     string `json:"token"`
}

// Manager owns every live session.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	store  sketchstore.Store
	tokens *auth.Service
	opts   Options
	logger *slog.Logger

	unregister chan *Client
	stopped    chan struct{}
	stopOnce   sync.Once
}

func NewManager(store sketchstore.Store, tokens *auth.Service, opts Options) *Manager {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		sessions:   make(map[string]*Session),
		store:      store,
		tokens:     tokens,
		opts:       opts,
		logger:     logger,
		unregister: make(chan *Client),
		stopped:    make(chan struct{}),
	}
}

// Create mounts a new editor and returns its id with a token scoped to it.
func (m *Manager) Create(req CreateRequest) (Created, error) {
	screen := m.opts.Screen
	if req.ScreenWidth > 0 && req.ScreenHeight > 0 {
		screen = editor.Screen{Width: req.ScreenWidth, Height: req.ScreenHeight}
	}
	seed := req.Seed == nil || *req.Seed

	id := typeid.NewSessionID()
	token, err := m.tokens.IssueSessionToken(id)
	if err != nil {
		return Created{}, fmt.Errorf("create session: %w", err)
	}

	ed := editor.New(editor.Options{
		Screen:      screen,
		Seed:        seed,
		InitialData: req.InitialData,
		SettleDelay: m.opts.SettleDelay,
		Logger:      m.logger.With("session", id),
	})
	s := newSession(id, ed, m.store, m.logger)

	m.mu.Lock()
	m.sessions[id] = s
	m.mu.Unlock()
	s.start()

	m.logger.Info("session created", "session", id, "width", screen.Width, "height", screen.Height, "seed", seed)
	return Created{SessionID: id, Token: token}, nil
}

func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Attach connects a sender to a session. A session takes one client at a
// time.
func (m *Manager) Attach(id string, sender Sender, clientID string) (*Session, error) {
	s, err := m.Get(id)
	if err != nil {
		return nil, err
	}
	if err := s.attach(sender, clientID); err != nil {
		return nil, err
	}
	return s, nil
}

// End removes a session and tears its editor down.
func (m *Manager) End(id string) {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()
	if ok {
		s.close()
	}
}

// Reap ends sessions that never saw a client within the TTL.
func (m *Manager) Reap(now time.Time) int {
	m.mu.RLock()
	var stale []string
	for id, s := range m.sessions {
		if !s.Attached() && now.Sub(s.CreatedAt) > m.opts.TTL {
			stale = append(stale, id)
		}
	}
	m.mu.RUnlock()

	for _, id := range stale {
		m.End(id)
	}
	if len(stale) > 0 {
		m.logger.Info("reaped idle sessions", "count", len(stale))
	}
	return len(stale)
}

// Run ends sessions as their clients leave and reaps idle ones until ctx is
// done, then ends everything.
func (m *Manager) Run(ctx context.Context) {
	interval := m.opts.TTL / 2
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case c := <-m.unregister:
			m.End(c.session.ID)
			close(c.send)
		case now := <-ticker.C:
			m.Reap(now)
		case <-ctx.Done():
			m.Stop()
			return
		}
	}
}

// Stop ends every session.
func (m *Manager) Stop() {
	m.stopOnce.Do(func() { close(m.stopped) })

	m.mu.RLock()
	ids := make([]string, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	m.mu.RUnlock()

	for _, id := range ids {
		m.End(id)
	}
}

// release hands a disconnected client to Run.
func (m *Manager) release(c *Client) {
	select {
	case m.unregister <- c:
	case <-m.stopped:
		m.End(c.session.ID)
		close(c.send)
	}
}
