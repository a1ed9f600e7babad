package app

import (
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/gujuliano18/webrtc/internal/core"
	"github.com/gujuliano18/webrtc/internal/domain"
)

// Publisher is the fire-and-forget delivery boundary. Implementations
// must not block; a slow peer drops frames instead of stalling state
// mutation.
type Publisher interface {
	Publish(conn core.SignalConnection, v any)
}

// Coordinator orchestrates joins, leaves and disconnects across the
// room registry and the identity directory. Its mutex serializes every
// composite mutation so two near-simultaneous operations never act on
// a stale view of either structure.
type Coordinator struct {
	mu    sync.Mutex
	Dir   *core.Directory
	Rooms *core.Registry
	Pub   Publisher
}

func NewCoordinator(dir *core.Directory, rooms *core.Registry, pub Publisher) *Coordinator {
	return &Coordinator{Dir: dir, Rooms: rooms, Pub: pub}
}

// Join binds identity to session and adds it to the room. The joiner
// gets an ack with the other members; the room gets a member_joined
// notice and a fresh snapshot. A malformed identity or display name,
// or an unknown room, fails before any mutation. Re-join by a present
// member is idempotent; the notice still fires.
func (c *Coordinator) Join(room domain.RoomID, uid domain.UserID, username string, sid core.SessionID) error {
	if uid == "" || len(uid) > domain.MaxUserIDLen {
		return core.ErrInvalidIdentity
	}
	user, err := domain.NewUser(uid, username)
	if err != nil {
		return fmt.Errorf("%w: %s", core.ErrInvalidIdentity, err)
	}
	username = user.Username
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.Rooms.Exists(room) {
		return core.ErrRoomNotFound
	}
	c.Dir.Bind(sid, uid, username)
	if _, err := c.Rooms.AddMember(room, uid, username); err != nil {
		return err
	}
	c.refreshOwner(room)
	snap, err := c.Rooms.Snapshot(room)
	if err != nil {
		return err
	}

	if conn, ok := c.Dir.Conn(uid); ok {
		others := make([]core.MemberDTO, 0, len(snap.Members))
		for _, m := range snap.Members {
			if m.ID != uid {
				others = append(others, m)
			}
		}
		c.Pub.Publish(conn, JoinedEvent{Type: evJoined, Room: room, Name: snap.Name, Members: others, Count: snap.MemberCount})
	}
	joined := MemberJoinedEvent{Type: evMemberJoined, Room: room, User: core.MemberDTO{ID: uid, Username: username}}
	for _, m := range snap.Members {
		if m.ID == uid {
			continue
		}
		if conn, ok := c.Dir.Conn(m.ID); ok {
			c.Pub.Publish(conn, joined)
		}
	}
	c.broadcast(snap)
	log.Info().Str("module", "app.presence").Str("room", string(room)).Str("user", string(uid)).Msg("joined")
	return nil
}

// Leave removes identity from the room, cascading slot release.
// Broadcasts only when something actually changed.
func (c *Coordinator) Leave(room domain.RoomID, uid domain.UserID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	changed, err := c.Rooms.RemoveMember(room, uid)
	if err != nil {
		return err
	}
	if !changed {
		return nil
	}
	c.refreshOwner(room)
	c.broadcastRoom(room)
	log.Info().Str("module", "app.presence").Str("room", string(room)).Str("user", string(uid)).Msg("left")
	return nil
}

// ClaimSlot assigns a mic slot. A rejection is reported back to the
// claiming session only; success broadcasts the new snapshot.
func (c *Coordinator) ClaimSlot(room domain.RoomID, slot int, uid domain.UserID, username string, sid core.SessionID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.Rooms.ClaimSlot(room, slot, uid, username); err != nil {
		if conn, ok := c.Dir.ConnOf(sid); ok {
			c.Pub.Publish(conn, SlotDeniedEvent{Type: evSlotDenied, Room: room, Slot: slot, Reason: denyReason(err)})
		}
		return err
	}
	c.broadcastRoom(room)
	return nil
}

// ReleaseSlot frees every slot identity holds in the room.
func (c *Coordinator) ReleaseSlot(room domain.RoomID, uid domain.UserID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	changed, err := c.Rooms.ReleaseSlot(room, uid)
	if err != nil {
		return err
	}
	if changed {
		c.broadcastRoom(room)
	}
	return nil
}

// Chat appends a chat entry and fans it out to the room. Empty text is
// a silent no-op.
func (c *Coordinator) Chat(room domain.RoomID, uid domain.UserID, username, text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, err := c.Rooms.AppendChat(room, uid, username, text)
	if err != nil || entry == nil {
		return err
	}
	snap, err := c.Rooms.Snapshot(room)
	if err != nil {
		return err
	}
	ev := ChatEvent{Type: evChat, Room: room, Entry: *entry}
	for _, m := range snap.Members {
		if conn, ok := c.Dir.Conn(m.ID); ok {
			c.Pub.Publish(conn, ev)
		}
	}
	return nil
}

// Disconnect is the terminal transition for a session. It unwinds all
// state the session held without the client's cooperation. If the
// identity has already rebound to a newer session, the disconnect is
// stale: only the session table entry is dropped and rooms are left
// untouched, slots included.
func (c *Coordinator) Disconnect(sid core.SessionID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	uid, _, ok := c.Dir.UserOf(sid)
	if !ok {
		c.Dir.Unbind(sid)
		return
	}
	if cur, ok := c.Dir.Resolve(uid); !ok || cur != sid {
		c.Dir.Unbind(sid)
		log.Info().Str("module", "app.presence").Str("sid", string(sid)).Str("user", string(uid)).Msg("stale disconnect ignored")
		return
	}
	c.Dir.Unbind(sid)
	for _, room := range c.Rooms.RoomsOf(uid) {
		if _, err := c.Rooms.RemoveMember(room, uid); err != nil {
			continue
		}
		c.refreshOwner(room)
		c.broadcastRoom(room)
	}
	log.Info().Str("module", "app.presence").Str("sid", string(sid)).Str("user", string(uid)).Msg("disconnected")
}

// RequestSnapshot answers the asking session directly and re-broadcasts
// to the room, so a reconciling client gets state even before it has
// rejoined.
func (c *Coordinator) RequestSnapshot(room domain.RoomID, sid core.SessionID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	snap, err := c.Rooms.Snapshot(room)
	if err != nil {
		return err
	}
	if conn, ok := c.Dir.ConnOf(sid); ok {
		c.Pub.Publish(conn, RoomStateEvent{Type: evRoomState, Room: room, Snapshot: snap})
	}
	c.broadcast(snap)
	return nil
}

func (c *Coordinator) refreshOwner(room domain.RoomID) {
	owner, err := c.Rooms.OwnerOf(room)
	if err != nil || owner == "" {
		return
	}
	_ = c.Rooms.SetOwnerOnline(room, c.Dir.Online(owner))
}

func (c *Coordinator) broadcastRoom(room domain.RoomID) {
	snap, err := c.Rooms.Snapshot(room)
	if err != nil {
		return
	}
	c.broadcast(snap)
}

func (c *Coordinator) broadcast(snap *core.RoomSnapshot) {
	ev := RoomStateEvent{Type: evRoomState, Room: snap.ID, Snapshot: snap}
	for _, m := range snap.Members {
		if conn, ok := c.Dir.Conn(m.ID); ok {
			c.Pub.Publish(conn, ev)
		}
	}
}

func denyReason(err error) string {
	switch {
	case errors.Is(err, core.ErrSlotOccupied):
		return "occupied"
	case errors.Is(err, core.ErrInvalidSlot):
		return "invalid_slot"
	case errors.Is(err, core.ErrInvalidIdentity):
		return "not_a_member"
	case errors.Is(err, core.ErrRoomNotFound):
		return "room_not_found"
	}
	return "rejected"
}
