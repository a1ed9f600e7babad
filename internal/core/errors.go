package core

import "errors"

// Operation errors. Everything not listed here (relay to an absent
// identity, redundant join/leave, empty chat text) is a defined no-op,
// not an error.
var (
	ErrRoomNotFound    = errors.New("room not found")
	ErrSlotOccupied    = errors.New("slot occupied")
	ErrInvalidIdentity = errors.New("invalid identity")
	ErrInvalidSlot     = errors.New("invalid slot index")
)
