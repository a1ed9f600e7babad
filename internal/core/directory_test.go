package core

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gujuliano18/webrtc/internal/domain"
)

type fakeConn struct {
	frames []Frame
	closed bool
}

func (f *fakeConn) TrySend(fr Frame) error {
	f.frames = append(f.frames, fr)
	return nil
}

func (f *fakeConn) Close() { f.closed = true }

func TestDirectoryBindResolve(t *testing.T) {
	d := NewDirectory()
	conn := &fakeConn{}
	d.Register("s1", conn)
	d.Bind("s1", "u1", "alice")

	sid, ok := d.Resolve("u1")
	require.True(t, ok)
	require.Equal(t, SessionID("s1"), sid)

	got, ok := d.Conn("u1")
	require.True(t, ok)
	require.Same(t, conn, got.(*fakeConn))

	uid, name, ok := d.UserOf("s1")
	require.True(t, ok)
	require.Equal(t, domain.UserID("u1"), uid)
	require.Equal(t, "alice", name)
}

func TestDirectoryRebindLastWriterWins(t *testing.T) {
	d := NewDirectory()
	d.Register("s1", &fakeConn{})
	d.Register("s2", &fakeConn{})
	d.Bind("s1", "u1", "alice")
	d.Bind("s2", "u1", "alice")

	sid, ok := d.Resolve("u1")
	require.True(t, ok)
	require.Equal(t, SessionID("s2"), sid)
}

func TestDirectoryBindOverwritesReverseBinding(t *testing.T) {
	d := NewDirectory()
	d.Register("s1", &fakeConn{})
	d.Bind("s1", "u1", "alice")
	d.Bind("s1", "u2", "alice2")

	_, ok := d.Resolve("u1")
	require.False(t, ok, "old identity must become unreachable")
	sid, ok := d.Resolve("u2")
	require.True(t, ok)
	require.Equal(t, SessionID("s1"), sid)
}

func TestDirectoryUnbindDoesNotClobberNewerBinding(t *testing.T) {
	d := NewDirectory()
	d.Register("s1", &fakeConn{})
	d.Register("s2", &fakeConn{})
	d.Bind("s1", "u1", "alice")
	// reconnect rebinds before the old session's disconnect is processed
	d.Bind("s2", "u1", "alice")

	d.Unbind("s1")

	sid, ok := d.Resolve("u1")
	require.True(t, ok, "newer binding must survive the stale unbind")
	require.Equal(t, SessionID("s2"), sid)

	_, _, ok = d.UserOf("s1")
	require.False(t, ok)
}

func TestDirectoryUnbindRemovesBothDirections(t *testing.T) {
	d := NewDirectory()
	d.Register("s1", &fakeConn{})
	d.Bind("s1", "u1", "alice")

	d.Unbind("s1")

	_, ok := d.Resolve("u1")
	require.False(t, ok)
	_, ok = d.ConnOf("s1")
	require.False(t, ok)
	require.False(t, d.Online("u1"))
}

func TestDirectoryUnbindUnknownSessionIsNoop(t *testing.T) {
	d := NewDirectory()
	d.Unbind("ghost")
}
