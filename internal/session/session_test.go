package session

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/constat/sketch/backend-go/internal/auth"
	"github.com/constat/sketch/backend-go/internal/editor"
	"github.com/constat/sketch/backend-go/internal/sketchstore"
	"github.com/constat/sketch/backend-go/internal/snapshot"
)

type recorder struct {
	mu     sync.Mutex
	msgs   []*Message
	cursor int
}

func (r *recorder) Send(msg *Message) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.msgs = append(r.msgs, msg)
}

// await returns the next message of the given type after the last one
// awaited.
func (r *recorder) await(t *testing.T, msgType string) *Message {
	t.Helper()
	var found *Message
	require.Eventually(t, func() bool {
		r.mu.Lock()
		defer r.mu.Unlock()
		for i := r.cursor; i < len(r.msgs); i++ {
			if r.msgs[i].Type == msgType {
				found = r.msgs[i]
				r.cursor = i + 1
				return true
			}
		}
		return false
	}, 2*time.Second, 5*time.Millisecond, "no %s message", msgType)
	return found
}

func quiet() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newManager(t *testing.T) (*Manager, *sketchstore.MemoryStore, *auth.Service) {
	t.Helper()
	store := sketchstore.NewMemoryStore()
	tokens := auth.NewService("test-secret", time.Hour)
	m := NewManager(store, tokens, Options{
		Screen: editor.Screen{Width: 390, Height: 844},
		TTL:    time.Minute,
		Logger: quiet(),
	})
	t.Cleanup(m.Stop)
	return m, store, tokens
}

func payload(t *testing.T, v any) json.RawMessage {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return data
}

func decodePayload[T any](t *testing.T, msg *Message) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(msg.Payload, &v))
	return v
}

func attached(t *testing.T, m *Manager) (*Session, *recorder) {
	t.Helper()
	created, err := m.Create(CreateRequest{})
	require.NoError(t, err)
	rec := &recorder{}
	s, err := m.Attach(created.SessionID, rec, "client-1")
	require.NoError(t, err)
	rec.await(t, TypeWelcome)
	return s, rec
}

func TestCreateIssuesScopedToken(t *testing.T) {
	m, _, tokens := newManager(t)
	created, err := m.Create(CreateRequest{ScreenWidth: 300, ScreenHeight: 600})
	require.NoError(t, err)

	id, err := tokens.ValidateToken(created.Token)
	require.NoError(t, err)
	assert.Equal(t, created.SessionID, id)
	assert.Equal(t, 1, m.Len())

	s, err := m.Get(created.SessionID)
	require.NoError(t, err)
	assert.Equal(t, editor.Screen{Width: 300, Height: 600}, s.editor.Screen())
}

func TestWelcome(t *testing.T) {
	m, _, _ := newManager(t)
	created, err := m.Create(CreateRequest{})
	require.NoError(t, err)

	rec := &recorder{}
	_, err = m.Attach(created.SessionID, rec, "client-1")
	require.NoError(t, err)

	welcome := decodePayload[WelcomePayload](t, rec.await(t, TypeWelcome))
	assert.Equal(t, created.SessionID, welcome.SessionID)
	assert.Equal(t, "client-1", welcome.ClientID)
	assert.Len(t, welcome.Catalog, 3)
	assert.Len(t, welcome.Layers, 20)
	// background, grid and the two seeded cars
	assert.Len(t, welcome.Frame.Commands, 4)
	require.NotNil(t, welcome.Frame.Info)
	assert.Equal(t, "Car A", welcome.Frame.Info.Label)
}

func TestUnseededSession(t *testing.T) {
	m, _, _ := newManager(t)
	seed := false
	created, err := m.Create(CreateRequest{Seed: &seed})
	require.NoError(t, err)

	rec := &recorder{}
	_, err = m.Attach(created.SessionID, rec, "c")
	require.NoError(t, err)
	welcome := decodePayload[WelcomePayload](t, rec.await(t, TypeWelcome))
	assert.Len(t, welcome.Frame.Commands, 2)
	assert.Nil(t, welcome.Frame.Info)
}

func TestOneClientPerSession(t *testing.T) {
	m, _, _ := newManager(t)
	s, _ := attached(t, m)

	_, err := m.Attach(s.ID, &recorder{}, "client-2")
	assert.ErrorIs(t, err, ErrSessionBusy)

	_, err = m.Attach("sess_missing", &recorder{}, "client-3")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestGesturesProduceFrames(t *testing.T) {
	m, _, _ := newManager(t)
	s, rec := attached(t, m)

	require.True(t, s.Deliver(&Message{Type: TypePointerDown, Payload: payload(t, PointerPayload{Pointer: 1, X: 110, Y: 210})}))
	frame := decodePayload[FramePayload](t, rec.await(t, TypeFrame))
	assert.True(t, frame.UI.Dragging)

	require.True(t, s.Deliver(&Message{Type: TypePointerDown, Payload: payload(t, PointerPayload{Pointer: 2, X: 240, Y: 270})}))
	errMsg := decodePayload[ErrorPayload](t, rec.await(t, TypeError))
	assert.Equal(t, CodePointerBusy, errMsg.Code)

	require.True(t, s.Deliver(&Message{Type: TypePointerMove, Payload: payload(t, PointerPayload{Pointer: 1, X: 143, Y: 222})}))
	rec.await(t, TypeFrame)
	require.True(t, s.Deliver(&Message{Type: TypePointerUp, Payload: payload(t, PointerPayload{Pointer: 1})}))
	frame = decodePayload[FramePayload](t, rec.await(t, TypeFrame))
	assert.False(t, frame.UI.Dragging)
	assert.True(t, frame.Animating)

	require.True(t, s.Deliver(&Message{Type: TypeFrameTick}))
	rec.await(t, TypeFrame)
}

func TestActionsAndChrome(t *testing.T) {
	m, _, _ := newManager(t)
	s, rec := attached(t, m)

	s.Deliver(&Message{Type: TypeAdd, Payload: payload(t, AddPayload{Kind: "truck"})})
	frame := decodePayload[FramePayload](t, rec.await(t, TypeFrame))
	assert.Len(t, frame.Commands, 5)
	assert.Equal(t, "Truck", frame.Info.Label)

	s.Deliver(&Message{Type: TypeRotate, Payload: payload(t, RotatePayload{Delta: 90})})
	frame = decodePayload[FramePayload](t, rec.await(t, TypeFrame))
	assert.Equal(t, 90, frame.Info.Angle)

	s.Deliver(&Message{Type: TypeLayers, Payload: payload(t, TogglePayload{Open: true})})
	frame = decodePayload[FramePayload](t, rec.await(t, TypeFrame))
	assert.True(t, frame.UI.LayerChooserOpen)
	assert.Len(t, frame.Layers, 20)

	s.Deliver(&Message{Type: TypeMoveToLayer, Payload: payload(t, LayerPayload{Z: 3})})
	frame = decodePayload[FramePayload](t, rec.await(t, TypeFrame))
	assert.False(t, frame.UI.LayerChooserOpen)
	assert.Equal(t, 3, frame.Info.Layer)

	s.Deliver(&Message{Type: TypeDuplicate})
	frame = decodePayload[FramePayload](t, rec.await(t, TypeFrame))
	assert.Len(t, frame.Commands, 6)

	s.Deliver(&Message{Type: TypeDeleteRequest})
	frame = decodePayload[FramePayload](t, rec.await(t, TypeFrame))
	assert.True(t, frame.UI.ConfirmingDelete)
	s.Deliver(&Message{Type: TypeDeleteConfirm})
	frame = decodePayload[FramePayload](t, rec.await(t, TypeFrame))
	assert.Len(t, frame.Commands, 5)

	s.Deliver(&Message{Type: TypeFullscreen, Payload: payload(t, TogglePayload{Open: true})})
	frame = decodePayload[FramePayload](t, rec.await(t, TypeFrame))
	assert.Equal(t, 844.0, frame.Canvas.Height)

	s.Deliver(&Message{Type: TypeResize, Payload: payload(t, ResizePayload{Width: 320, Height: 700})})
	frame = decodePayload[FramePayload](t, rec.await(t, TypeFrame))
	assert.Equal(t, 300.0, frame.Canvas.Width)
}

func TestRejectedMessages(t *testing.T) {
	m, _, _ := newManager(t)
	s, rec := attached(t, m)

	cases := []struct {
		msg  *Message
		code string
	}{
		{&Message{Type: "presence.update"}, CodeUnknownType},
		{&Message{Type: TypePointerDown}, CodeBadPayload},
		{&Message{Type: TypeRotate, Payload: json.RawMessage(`{"delta":"left"}`)}, CodeBadPayload},
		{&Message{Type: TypeAdd, Payload: payload(t, AddPayload{Kind: "tank"})}, CodeBadKind},
	}
	for _, tc := range cases {
		s.Deliver(tc.msg)
		got := decodePayload[ErrorPayload](t, rec.await(t, TypeError))
		assert.Equal(t, tc.code, got.Code, tc.msg.Type)
	}

	s.Deliver(&Message{Type: TypeDeleteRequest})
	rec.await(t, TypeFrame)
	s.Deliver(&Message{Type: TypePointerDown, Payload: payload(t, PointerPayload{Pointer: 1, X: 110, Y: 210})})
	got := decodePayload[ErrorPayload](t, rec.await(t, TypeError))
	assert.Equal(t, CodeModalOpen, got.Code)

	s.Deliver(&Message{Type: TypeAdd, Payload: payload(t, AddPayload{Kind: "truck"})})
	got = decodePayload[ErrorPayload](t, rec.await(t, TypeError))
	assert.Equal(t, CodeModalOpen, got.Code)
}

func TestSavePersistsSketch(t *testing.T) {
	m, store, _ := newManager(t)
	s, rec := attached(t, m)

	s.Deliver(&Message{Type: TypeSave})
	saved := decodePayload[SavedPayload](t, rec.await(t, TypeSaved))
	assert.Equal(t, "/sketches/"+saved.SketchID+".png", saved.URL)

	_, err := snapshot.DecodeDataURI(saved.DataURI)
	require.NoError(t, err)

	sk, err := store.Latest(context.Background(), s.ID)
	require.NoError(t, err)
	assert.Equal(t, saved.SketchID, sk.ID)
	assert.Equal(t, saved.DataURI, sk.DataURI)
	assert.Equal(t, saved.DataURI, s.editor.LatestSnapshot())
}

type failingStore struct {
	sketchstore.Store
}

func (failingStore) Save(context.Context, sketchstore.Sketch) error {
	return assert.AnError
}

func TestSaveReportsStoreFailure(t *testing.T) {
	tokens := auth.NewService("test-secret", time.Hour)
	m := NewManager(failingStore{sketchstore.NewMemoryStore()}, tokens, Options{
		Screen: editor.Screen{Width: 390, Height: 844},
		Logger: quiet(),
	})
	t.Cleanup(m.Stop)
	s, rec := attached(t, m)

	s.Deliver(&Message{Type: TypeSave})
	failed := decodePayload[SaveFailedPayload](t, rec.await(t, TypeSaveFailed))
	assert.NotEmpty(t, failed.Reason)

	// The session keeps working.
	s.Deliver(&Message{Type: TypeFrameTick})
	rec.await(t, TypeFrame)
}

// gatedStore holds Save until released and records the context state it
// saw when it resumed.
type gatedStore struct {
	*sketchstore.MemoryStore
	entered chan struct{}
	release chan struct{}
	ctxErr  chan error
}

func (g *gatedStore) Save(ctx context.Context, sk sketchstore.Sketch) error {
	close(g.entered)
	<-g.release
	g.ctxErr <- ctx.Err()
	if err := ctx.Err(); err != nil {
		return err
	}
	return g.MemoryStore.Save(ctx, sk)
}

func TestSaveSurvivesSessionEnd(t *testing.T) {
	store := &gatedStore{
		MemoryStore: sketchstore.NewMemoryStore(),
		entered:     make(chan struct{}),
		release:     make(chan struct{}),
		ctxErr:      make(chan error, 1),
	}
	tokens := auth.NewService("test-secret", time.Hour)
	m := NewManager(store, tokens, Options{
		Screen: editor.Screen{Width: 390, Height: 844},
		Logger: quiet(),
	})
	t.Cleanup(m.Stop)
	s, _ := attached(t, m)

	s.Deliver(&Message{Type: TypeSave})
	select {
	case <-store.entered:
	case <-time.After(2 * time.Second):
		t.Fatal("save never reached the store")
	}

	// The client leaves while the sketch is being stored.
	s.cancel()
	close(store.release)

	require.NoError(t, <-store.ctxErr)
	m.End(s.ID)
	sk, err := store.Latest(context.Background(), s.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, sk.DataURI)
}

func TestReapOnlyIdleSessions(t *testing.T) {
	m, _, _ := newManager(t)
	idle, err := m.Create(CreateRequest{})
	require.NoError(t, err)
	busy, _ := attached(t, m)

	assert.Zero(t, m.Reap(time.Now()))
	assert.Equal(t, 1, m.Reap(time.Now().Add(2*time.Minute)))

	_, err = m.Get(idle.SessionID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = m.Get(busy.ID)
	assert.NoError(t, err)
}

func TestEndStopsSession(t *testing.T) {
	m, _, _ := newManager(t)
	s, _ := attached(t, m)

	m.End(s.ID)
	assert.False(t, s.Deliver(&Message{Type: TypeFrameTick}))
	assert.False(t, s.editor.Surface().Mounted())

	_, err := s.editor.Save(context.Background())
	assert.ErrorIs(t, err, snapshot.ErrCapture)

	err = s.attach(&recorder{}, "late")
	assert.ErrorIs(t, err, ErrSessionClosed)
}
