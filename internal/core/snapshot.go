package core

import (
	"time"

	"github.com/gujuliano18/webrtc/internal/domain"
)

// MemberDTO is a read-only view for APIs (no transport fields).
type MemberDTO struct {
	ID       domain.UserID `json:"id"`
	Username string        `json:"username"`
}

// RoomInfo is the listing view of a room.
type RoomInfo struct {
	ID          domain.RoomID   `json:"id"`
	Name        domain.RoomName `json:"name"`
	Cover       string          `json:"cover,omitempty"`
	MemberCount int             `json:"member_count"`
	CreatedAt   time.Time       `json:"created_at"`
}

// RoomSnapshot is an immutable copy of a room's state for broadcast.
// Slots has one entry per mic position; nil means empty. Chat is a
// bounded tail of the stored log.
type RoomSnapshot struct {
	ID          domain.RoomID      `json:"id"`
	Name        domain.RoomName    `json:"name"`
	Cover       string             `json:"cover,omitempty"`
	Owner       domain.UserID      `json:"owner,omitempty"`
	OwnerOnline bool               `json:"owner_online"`
	Members     []MemberDTO        `json:"members"`
	MemberCount int                `json:"member_count"`
	Slots       []*domain.Occupant `json:"mic_slots"`
	Chat        []domain.ChatEntry `json:"chat"`
	CreatedAt   time.Time          `json:"created_at"`
}
