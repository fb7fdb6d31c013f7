// Package session hosts sketch editors behind websocket connections. Each
// session owns one editor and accepts one client at a time; a single
// goroutine applies the client's messages in arrival order.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/constat/sketch/backend-go/internal/editor"
	"github.com/constat/sketch/backend-go/internal/render"
	"github.com/constat/sketch/backend-go/internal/sketchstore"
	"github.com/constat/sketch/backend-go/internal/typeid"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionBusy     = errors.New("session already has a client")
	ErrSessionClosed   = errors.New("session closed")
)

const (
	inboxSize = 64

	// persistTimeout bounds storing a captured sketch once the session is
	// gone.
	persistTimeout = 10 * time.Second
)

// Sender delivers server messages to the attached client. Send must not
// block.
type Sender interface {
	Send(msg *Message)
}

type Session struct {
	ID        string
	CreatedAt time.Time

	editor *editor.Editor
	store  sketchstore.Store
	logger *slog.Logger

	inbox chan *Message
	hello chan string // client ids awaiting a welcome

	ctx       context.Context
	cancel    context.CancelFunc
	done      chan struct{}
	saves     sync.WaitGroup
	closeOnce sync.Once
	seq       atomic.Int64

	mu       sync.Mutex
	sender   Sender
	attached bool
	closed   bool
}

func newSession(id string, ed *editor.Editor, store sketchstore.Store, logger *slog.Logger) *Session {
	ctx, cancel := context.WithCancel(context.Background())
	return &Session{
		ID:        id,
		CreatedAt: time.Now(),
		editor:    ed,
		store:     store,
		logger:    logger.With("session", id),
		inbox:     make(chan *Message, inboxSize),
		hello:     make(chan string, 1),
		ctx:       ctx,
		cancel:    cancel,
		done:      make(chan struct{}),
	}
}

func (s *Session) start() {
	go s.run()
}

func (s *Session) run() {
	defer close(s.done)
	for {
		select {
		case <-s.ctx.Done():
			return
		case clientID := <-s.hello:
			s.sendWelcome(clientID)
		case msg := <-s.inbox:
			s.handle(msg)
		}
	}
}

// Attached reports whether a client has ever connected.
func (s *Session) Attached() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.attached
}

// Connected reports whether a client is connected now.
func (s *Session) Connected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sender != nil
}

func (s *Session) attach(sender Sender, clientID string) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrSessionClosed
	}
	if s.sender != nil {
		s.mu.Unlock()
		return ErrSessionBusy
	}
	s.sender = sender
	s.attached = true
	s.mu.Unlock()

	select {
	case s.hello <- clientID:
	case <-s.ctx.Done():
	}
	s.logger.Info("client attached", "client", clientID)
	return nil
}

// Deliver queues a client message for the session goroutine. It reports
// false once the session has ended.
func (s *Session) Deliver(msg *Message) bool {
	if s.ctx.Err() != nil {
		return false
	}
	select {
	case s.inbox <- msg:
		return true
	case <-s.ctx.Done():
		return false
	}
}

// close stops the session goroutine, waits for saves in flight and tears
// the editor down.
func (s *Session) close() {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		s.closed = true
		s.mu.Unlock()

		s.cancel()
		<-s.done
		s.saves.Wait()

		s.mu.Lock()
		s.sender = nil
		s.mu.Unlock()

		s.editor.Unmount()
		s.logger.Info("session ended")
	})
}

func (s *Session) send(msgType string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		s.logger.Error("marshal payload", "error", err, "type", msgType)
		return
	}
	msg := &Message{
		Type:      msgType,
		SessionID: s.ID,
		Seq:       s.seq.Add(1),
		Payload:   data,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sender == nil {
		return
	}
	s.sender.Send(msg)
}

func (s *Session) sendError(code string, err error) {
	s.send(TypeError, ErrorPayload{Code: code, Message: err.Error()})
}

func (s *Session) sendWelcome(clientID string) {
	s.send(TypeWelcome, WelcomePayload{
		SessionID: s.ID,
		ClientID:  clientID,
		Catalog:   s.editor.Catalog(),
		Layers:    s.editor.Layers(),
		Screen:    s.editor.Screen(),
		Frame:     s.framePayload(),
	})
}

func (s *Session) framePayload() FramePayload {
	ed := s.editor
	p := FramePayload{
		Canvas:    ed.Scene().Canvas,
		Commands:  render.CompileDrawCommands(ed.Frame()),
		UI:        ed.UI(),
		Animating: ed.Animating(),
	}
	if info, ok := ed.Info(); ok {
		p.Info = &info
	}
	if p.UI.LayerChooserOpen {
		p.Layers = ed.Layers()
	}
	return p
}

func (s *Session) sendFrame() {
	s.send(TypeFrame, s.framePayload())
}

// startSave captures and persists a snapshot off the session goroutine.
// Capture only reads the render surface, so gestures keep flowing. Ending
// the session cancels the capture but not the persist.
func (s *Session) startSave() {
	s.saves.Add(1)
	go func() {
		defer s.saves.Done()

		uri, err := s.editor.Save(s.ctx)
		if err != nil {
			s.send(TypeSaveFailed, SaveFailedPayload{Reason: err.Error()})
			return
		}

		sk := sketchstore.Sketch{
			ID:        typeid.NewSketchID(),
			SessionID: s.ID,
			DataURI:   uri,
			CreatedAt: time.Now(),
		}
		// A capture that succeeded is stored even if the client leaves now.
		ctx, cancel := context.WithTimeout(context.WithoutCancel(s.ctx), persistTimeout)
		defer cancel()
		if err := s.store.Save(ctx, sk); err != nil {
			s.logger.Error("persist sketch", "error", err)
			s.send(TypeSaveFailed, SaveFailedPayload{Reason: err.Error()})
			return
		}

		s.logger.Info("sketch saved", "sketch", sk.ID)
		s.send(TypeSaved, SavedPayload{
			SketchID: sk.ID,
			URL:      "/sketches/" + sk.ID + ".png",
			DataURI:  uri,
		})
	}()
}
