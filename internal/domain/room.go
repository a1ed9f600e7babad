package domain

type (
	RoomName string
	RoomID   string
)

const MaxRoomNameLen = 36

type Room struct {
	ID    RoomID
	Name  RoomName
	Cover string
	Owner UserID
}

// Occupant is who holds a mic slot: identity plus the display
// name it claimed with.
type Occupant struct {
	ID       UserID `json:"id"`
	Username string `json:"username"`
}
