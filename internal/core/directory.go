package core

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/gujuliano18/webrtc/internal/domain"
)

type sessionEntry struct {
	Conn     SignalConnection
	User     domain.UserID // empty until a join binds an identity
	Username string
}

// Directory is the bidirectional identity<->session mapping plus the
// session table itself. One identity maps to at most one live session
// and vice versa; a rebind supersedes the old session's claim without
// tearing it down. All access is globally serialized.
type Directory struct {
	mu       sync.RWMutex
	sessions map[SessionID]*sessionEntry
	users    map[domain.UserID]SessionID
}

func NewDirectory() *Directory {
	return &Directory{
		sessions: make(map[SessionID]*sessionEntry),
		users:    make(map[domain.UserID]SessionID),
	}
}

// Register records a freshly opened connection under its session id.
// The session carries no identity until Bind.
func (d *Directory) Register(sid SessionID, conn SignalConnection) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.sessions[sid] = &sessionEntry{Conn: conn}
	log.Info().Str("module", "core.directory").Str("sid", string(sid)).Msg("session registered")
}

// Bind points identity at session, overwriting any prior binding for
// either key. Prior bindings become unreachable via lookup; the old
// session is not notified or closed.
func (d *Directory) Bind(sid SessionID, uid domain.UserID, username string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	e, ok := d.sessions[sid]
	if !ok {
		e = &sessionEntry{}
		d.sessions[sid] = e
	}
	if e.User != "" && e.User != uid && d.users[e.User] == sid {
		delete(d.users, e.User)
	}
	e.User = uid
	e.Username = username
	d.users[uid] = sid
	log.Info().Str("module", "core.directory").Str("sid", string(sid)).Str("user", string(uid)).Msg("identity bound")
}

// Resolve returns the session currently representing identity.
func (d *Directory) Resolve(uid domain.UserID) (SessionID, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	sid, ok := d.users[uid]
	return sid, ok
}

// Conn returns the live connection for identity, if any. This is the
// lookup the signaling relay routes through.
func (d *Directory) Conn(uid domain.UserID) (SignalConnection, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	sid, ok := d.users[uid]
	if !ok {
		return nil, false
	}
	e, ok := d.sessions[sid]
	if !ok || e.Conn == nil {
		return nil, false
	}
	return e.Conn, true
}

// ConnOf returns the connection behind a session id, bound or not.
func (d *Directory) ConnOf(sid SessionID) (SignalConnection, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	e, ok := d.sessions[sid]
	if !ok || e.Conn == nil {
		return nil, false
	}
	return e.Conn, true
}

// UserOf returns the identity bound to session, if any.
func (d *Directory) UserOf(sid SessionID) (domain.UserID, string, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	e, ok := d.sessions[sid]
	if !ok || e.User == "" {
		return "", "", false
	}
	return e.User, e.Username, true
}

// Online reports whether identity currently has a live session.
func (d *Directory) Online(uid domain.UserID) bool {
	_, ok := d.Resolve(uid)
	return ok
}

// Unbind drops the session entry. The identity entry is removed only
// when it still points at exactly this session, so a reconnect that
// rebound the identity before the old session's disconnect was
// processed is never clobbered.
func (d *Directory) Unbind(sid SessionID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	e, ok := d.sessions[sid]
	if !ok {
		return
	}
	if e.User != "" && d.users[e.User] == sid {
		delete(d.users, e.User)
	}
	delete(d.sessions, sid)
	log.Info().Str("module", "core.directory").Str("sid", string(sid)).Msg("session unbound")
}
