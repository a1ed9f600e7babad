package app

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gujuliano18/webrtc/internal/core"
)

func TestRelayDeliversVerbatim(t *testing.T) {
	dir := core.NewDirectory()
	conn := &fakeConn{}
	dir.Register("s1", conn)
	dir.Bind("s1", "u1", "alice")

	r := NewRelay(dir)
	payload := core.Frame(`{"type":"offer","sdp":"v=0"}`)

	require.True(t, r.Relay("u1", payload))
	require.Len(t, conn.frames, 1)
	require.Equal(t, payload, conn.frames[0])
}

func TestRelayToAbsentIdentityDropsSilently(t *testing.T) {
	dir := core.NewDirectory()
	r := NewRelay(dir)

	require.False(t, r.Relay("u2", core.Frame(`{"type":"offer"}`)))
}

func TestRelayAfterDisconnectDrops(t *testing.T) {
	dir := core.NewDirectory()
	rooms := core.NewRegistry(2, 10, 5)
	rooms.EnsureRoom("hall", "hall")
	c := NewCoordinator(dir, rooms, &fakePub{})
	conn := &fakeConn{}
	dir.Register("s1", conn)
	require.NoError(t, c.Join("hall", "u1", "alice", "s1"))

	c.Disconnect("s1")

	r := NewRelay(dir)
	sent := len(conn.frames)
	require.False(t, r.Relay("u1", core.Frame(`{}`)))
	require.Len(t, conn.frames, sent, "no delivery after disconnect")
}

func TestRelayRoutesToNewestSession(t *testing.T) {
	dir := core.NewDirectory()
	old := &fakeConn{}
	fresh := &fakeConn{}
	dir.Register("s1", old)
	dir.Register("s2", fresh)
	dir.Bind("s1", "u1", "alice")
	dir.Bind("s2", "u1", "alice")

	r := NewRelay(dir)
	require.True(t, r.Relay("u1", core.Frame(`{}`)))
	require.Empty(t, old.frames, "superseded session must not receive")
	require.Len(t, fresh.frames, 1)
}
