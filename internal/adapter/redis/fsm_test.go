package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/escalopa/quran-progress/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFSM(t *testing.T) (*FSM, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	fsm, err := NewFSM(context.Background(), "redis://"+mr.Addr())
	require.NoError(t, err)
	t.Cleanup(func() { fsm.Close() })
	return fsm, mr
}

func TestKeys(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "progress:state:42", stateKey("42"))
	assert.Equal(t, "progress:data:42:surah", dataKey("42", "surah"))
}

func TestNewFSM_InvalidURI(t *testing.T) {
	t.Parallel()
	_, err := NewFSM(context.Background(), "not-a-redis-uri")
	assert.ErrorContains(t, err, "parse redis URI")
}

func TestNewFSM_Unreachable(t *testing.T) {
	t.Parallel()
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := NewFSM(context.Background(), "redis://"+addr)
	assert.ErrorContains(t, err, "connect to redis")
}

func TestFSM_State(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	fsm, mr := newTestFSM(t)

	state, err := fsm.GetState(ctx, "7")
	require.NoError(t, err)
	assert.Equal(t, domain.StateStart, state, "an unknown user starts over")

	require.NoError(t, fsm.SetState(ctx, "7", domain.StateSelectDirection))
	state, err = fsm.GetState(ctx, "7")
	require.NoError(t, err)
	assert.Equal(t, domain.StateSelectDirection, state)

	stored, err := mr.Get("progress:state:7")
	require.NoError(t, err)
	assert.Equal(t, string(domain.StateSelectDirection), stored)
	assert.Equal(t, defaultTTL, mr.TTL("progress:state:7"))

	require.NoError(t, fsm.DeleteState(ctx, "7"))
	assert.False(t, mr.Exists("progress:state:7"))
	state, err = fsm.GetState(ctx, "7")
	require.NoError(t, err)
	assert.Equal(t, domain.StateStart, state)
}

func TestFSM_Data(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	fsm, mr := newTestFSM(t)

	_, err := fsm.GetData(ctx, "7", "surah")
	assert.ErrorIs(t, err, ErrDataNotFound)

	require.NoError(t, fsm.SetData(ctx, "7", "surah", "18"))
	require.NoError(t, fsm.SetData(ctx, "8", "surah", "36"))

	val, err := fsm.GetData(ctx, "7", "surah")
	require.NoError(t, err)
	assert.Equal(t, "18", val)

	val, err = fsm.GetData(ctx, "8", "surah")
	require.NoError(t, err)
	assert.Equal(t, "36", val, "users do not share session data")

	assert.Equal(t, defaultTTL, mr.TTL("progress:data:7:surah"))

	require.NoError(t, fsm.DeleteData(ctx, "7", "surah"))
	_, err = fsm.GetData(ctx, "7", "surah")
	assert.ErrorIs(t, err, ErrDataNotFound)
	assert.NoError(t, fsm.DeleteData(ctx, "7", "surah"), "deleting a missing key is not an error")
}

func TestFSM_SessionExpires(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	fsm, mr := newTestFSM(t)

	require.NoError(t, fsm.SetState(ctx, "7", domain.StateSelectDirection))
	require.NoError(t, fsm.SetData(ctx, "7", "direction", "forward"))

	mr.FastForward(defaultTTL - time.Minute)
	val, err := fsm.GetData(ctx, "7", "direction")
	require.NoError(t, err)
	assert.Equal(t, "forward", val)

	mr.FastForward(2 * time.Minute)
	state, err := fsm.GetState(ctx, "7")
	require.NoError(t, err)
	assert.Equal(t, domain.StateStart, state)
	_, err = fsm.GetData(ctx, "7", "direction")
	assert.ErrorIs(t, err, ErrDataNotFound)
}

func TestFSM_ServerErrors(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	fsm, mr := newTestFSM(t)

	mr.SetError("ERR injected failure")
	t.Cleanup(func() { mr.SetError("") })

	_, err := fsm.GetState(ctx, "7")
	assert.ErrorContains(t, err, "get state")

	_, err = fsm.GetData(ctx, "7", "surah")
	assert.ErrorContains(t, err, "get data")
	assert.NotErrorIs(t, err, ErrDataNotFound)
}
