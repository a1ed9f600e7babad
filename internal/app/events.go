package app

import (
	"github.com/gujuliano18/webrtc/internal/core"
	"github.com/gujuliano18/webrtc/internal/domain"
)

// Outbound events. The coordinator hands these to a Publisher; the
// transport adapter owns the wire encoding.

// JoinedEvent acknowledges a join to the joiner. Members excludes the
// joiner themselves.
type JoinedEvent struct {
	Type    string           `json:"type"`
	Room    domain.RoomID    `json:"room"`
	Name    domain.RoomName  `json:"room_name"`
	Members []core.MemberDTO `json:"members"`
	Count   int              `json:"count"`
}

// MemberJoinedEvent tells existing members who arrived.
type MemberJoinedEvent struct {
	Type string         `json:"type"`
	Room domain.RoomID  `json:"room"`
	User core.MemberDTO `json:"user"`
}

// RoomStateEvent carries a full room snapshot on every change.
type RoomStateEvent struct {
	Type     string             `json:"type"`
	Room     domain.RoomID      `json:"room"`
	Snapshot *core.RoomSnapshot `json:"snapshot"`
}

// SlotDeniedEvent reports a rejected mic slot claim to the claimant.
type SlotDeniedEvent struct {
	Type   string        `json:"type"`
	Room   domain.RoomID `json:"room"`
	Slot   int           `json:"slot"`
	Reason string        `json:"reason"`
}

// ChatEvent carries one appended chat entry to the whole room.
type ChatEvent struct {
	Type  string           `json:"type"`
	Room  domain.RoomID    `json:"room"`
	Entry domain.ChatEntry `json:"entry"`
}

const (
	evJoined       = "joined"
	evMemberJoined = "member_joined"
	evRoomState    = "room_state"
	evSlotDenied   = "slot_denied"
	evChat         = "chat"
)
