package domain

import "time"

// ChatEntry is immutable once appended; the registry only ever
// evicts whole entries from the head of a room's log.
type ChatEntry struct {
	Sender   UserID    `json:"sender"`
	Username string    `json:"username"`
	Text     string    `json:"text"`
	SentAt   time.Time `json:"sent_at"`
}
