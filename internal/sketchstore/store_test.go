package sketchstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	t0 := time.Unix(100, 0)

	_, err := m.Get(ctx, "sketch_missing")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = m.Latest(ctx, "sess_1")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, m.Save(ctx, Sketch{ID: "sketch_a", SessionID: "sess_1", DataURI: "a", CreatedAt: t0}))
	require.NoError(t, m.Save(ctx, Sketch{ID: "sketch_b", SessionID: "sess_1", DataURI: "b", CreatedAt: t0.Add(time.Second)}))
	require.NoError(t, m.Save(ctx, Sketch{ID: "sketch_c", SessionID: "sess_2", DataURI: "c", CreatedAt: t0.Add(time.Hour)}))

	sk, err := m.Get(ctx, "sketch_a")
	require.NoError(t, err)
	assert.Equal(t, "a", sk.DataURI)

	latest, err := m.Latest(ctx, "sess_1")
	require.NoError(t, err)
	assert.Equal(t, "sketch_b", latest.ID)
}

var _ Store = (*MemoryStore)(nil)
var _ Store = (*PostgresStore)(nil)
