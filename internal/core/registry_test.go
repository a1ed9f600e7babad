package core

import (
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/require"

	"github.com/gujuliano18/webrtc/internal/domain"
)

func newTestRegistry(t *testing.T) (*Registry, domain.RoomID) {
	t.Helper()
	r := NewRegistry(4, 5, 3)
	r.EnsureRoom("hall", "hall")
	return r, "hall"
}

func TestRegistryUnknownRoom(t *testing.T) {
	r, _ := newTestRegistry(t)

	_, err := r.AddMember("nope", "u1", "alice")
	require.ErrorIs(t, err, ErrRoomNotFound)
	_, err = r.RemoveMember("nope", "u1")
	require.ErrorIs(t, err, ErrRoomNotFound)
	err = r.ClaimSlot("nope", 0, "u1", "alice")
	require.ErrorIs(t, err, ErrRoomNotFound)
	_, err = r.ReleaseSlot("nope", "u1")
	require.ErrorIs(t, err, ErrRoomNotFound)
	_, err = r.AppendChat("nope", "u1", "alice", "hi")
	require.ErrorIs(t, err, ErrRoomNotFound)
	_, err = r.Snapshot("nope")
	require.ErrorIs(t, err, ErrRoomNotFound)
}

func TestRegistryAddMemberIdempotent(t *testing.T) {
	r, hall := newTestRegistry(t)

	added, err := r.AddMember(hall, "u1", "alice")
	require.NoError(t, err)
	require.True(t, added)

	added, err = r.AddMember(hall, "u1", "alice")
	require.NoError(t, err)
	require.False(t, added)

	snap, err := r.Snapshot(hall)
	require.NoError(t, err)
	require.Len(t, snap.Members, 1)
	require.Equal(t, 1, snap.MemberCount)
}

func TestRegistryRemoveMemberCascadesSlots(t *testing.T) {
	r, hall := newTestRegistry(t)
	_, err := r.AddMember(hall, "u1", "alice")
	require.NoError(t, err)
	require.NoError(t, r.ClaimSlot(hall, 0, "u1", "alice"))
	require.NoError(t, r.ClaimSlot(hall, 2, "u1", "alice"))

	changed, err := r.RemoveMember(hall, "u1")
	require.NoError(t, err)
	require.True(t, changed)

	snap, err := r.Snapshot(hall)
	require.NoError(t, err)
	require.Empty(t, snap.Members)
	for i, occ := range snap.Slots {
		require.Nil(t, occ, "slot %d must be released", i)
	}
}

func TestRegistryRemoveMemberIdempotent(t *testing.T) {
	r, hall := newTestRegistry(t)

	changed, err := r.RemoveMember(hall, "u1")
	require.NoError(t, err)
	require.False(t, changed)
}

func TestRegistryClaimSlot(t *testing.T) {
	r, hall := newTestRegistry(t)
	_, err := r.AddMember(hall, "u1", "alice")
	require.NoError(t, err)
	_, err = r.AddMember(hall, "u2", "bob")
	require.NoError(t, err)

	require.NoError(t, r.ClaimSlot(hall, 1, "u1", "alice"))

	// occupied by someone else
	err = r.ClaimSlot(hall, 1, "u2", "bob")
	require.ErrorIs(t, err, ErrSlotOccupied)

	snap, err := r.Snapshot(hall)
	require.NoError(t, err)
	require.NotNil(t, snap.Slots[1])
	require.Equal(t, domain.UserID("u1"), snap.Slots[1].ID)

	// re-claim by the holder is idempotent
	require.NoError(t, r.ClaimSlot(hall, 1, "u1", "alice"))
}

func TestRegistryClaimSlotValidation(t *testing.T) {
	r, hall := newTestRegistry(t)
	_, err := r.AddMember(hall, "u1", "alice")
	require.NoError(t, err)

	tests := []struct {
		name string
		slot int
		uid  domain.UserID
		want error
	}{
		{"negative index", -1, "u1", ErrInvalidSlot},
		{"index past end", 4, "u1", ErrInvalidSlot},
		{"empty identity", 0, "", ErrInvalidIdentity},
		{"non-member", 0, "stranger", ErrInvalidIdentity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := r.ClaimSlot(hall, tt.slot, tt.uid, "x")
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestRegistryReleaseSlot(t *testing.T) {
	r, hall := newTestRegistry(t)
	_, err := r.AddMember(hall, "u1", "alice")
	require.NoError(t, err)
	require.NoError(t, r.ClaimSlot(hall, 0, "u1", "alice"))
	require.NoError(t, r.ClaimSlot(hall, 3, "u1", "alice"))

	changed, err := r.ReleaseSlot(hall, "u1")
	require.NoError(t, err)
	require.True(t, changed)

	changed, err = r.ReleaseSlot(hall, "u1")
	require.NoError(t, err)
	require.False(t, changed)

	snap, err := r.Snapshot(hall)
	require.NoError(t, err)
	require.Len(t, snap.Members, 1, "release must not touch membership")
}

func TestRegistryChatCapFIFO(t *testing.T) {
	r, hall := newTestRegistry(t) // stored cap 5, tail 3
	_, err := r.AddMember(hall, "u1", "alice")
	require.NoError(t, err)

	for i := 0; i < 8; i++ {
		entry, err := r.AppendChat(hall, "u1", "alice", fmt.Sprintf("msg-%d", i))
		require.NoError(t, err)
		require.NotNil(t, entry)
	}

	snap, err := r.Snapshot(hall)
	require.NoError(t, err)
	require.Len(t, snap.Chat, 3, "snapshot carries a bounded tail")
	require.Equal(t, "msg-5", snap.Chat[0].Text)
	require.Equal(t, "msg-6", snap.Chat[1].Text)
	require.Equal(t, "msg-7", snap.Chat[2].Text)
}

func TestRegistryChatEmptyAfterTrimIsNoop(t *testing.T) {
	r, hall := newTestRegistry(t)

	entry, err := r.AppendChat(hall, "u1", "alice", "   \t ")
	require.NoError(t, err)
	require.Nil(t, entry)

	snap, err := r.Snapshot(hall)
	require.NoError(t, err)
	require.Empty(t, snap.Chat)
}

func TestRegistryChatTrimsText(t *testing.T) {
	r, hall := newTestRegistry(t)

	entry, err := r.AppendChat(hall, "u1", "alice", "  hello  ")
	require.NoError(t, err)
	require.NotNil(t, entry)
	require.Equal(t, "hello", entry.Text)
}

func TestRegistrySnapshotIsACopy(t *testing.T) {
	r, hall := newTestRegistry(t)
	_, err := r.AddMember(hall, "u1", "alice")
	require.NoError(t, err)
	require.NoError(t, r.ClaimSlot(hall, 0, "u1", "alice"))

	snap, err := r.Snapshot(hall)
	require.NoError(t, err)
	snap.Members[0].Username = "mallory"
	snap.Slots[0].ID = "mallory"

	again, err := r.Snapshot(hall)
	require.NoError(t, err)
	require.Equal(t, "alice", again.Members[0].Username)
	require.Equal(t, domain.UserID("u1"), again.Slots[0].ID)
}

func TestRegistryRoomsOf(t *testing.T) {
	r, hall := newTestRegistry(t)
	room := r.CreateRoom("lounge", "", "u1")
	_, err := r.AddMember(hall, "u1", "alice")
	require.NoError(t, err)
	_, err = r.AddMember(room.ID, "u1", "alice")
	require.NoError(t, err)

	require.ElementsMatch(t, []domain.RoomID{hall, room.ID}, r.RoomsOf("u1"))
	require.Empty(t, r.RoomsOf("u2"))
}

func TestRegistryCreateRoomTruncatesNameOnRuneBoundary(t *testing.T) {
	r, _ := newTestRegistry(t)
	long := strings.Repeat("音", domain.MaxRoomNameLen+5)

	room := r.CreateRoom(domain.RoomName(long), "", "")

	require.True(t, utf8.ValidString(string(room.Name)), "truncation must not split a rune")
	require.Equal(t, domain.MaxRoomNameLen, utf8.RuneCountInString(string(room.Name)))
}

func TestRegistryCreateRoomAndList(t *testing.T) {
	r, _ := newTestRegistry(t)
	room := r.CreateRoom("lounge", "cover.png", "u1")
	require.NotEmpty(t, room.ID)

	infos := r.List()
	require.Len(t, infos, 2)

	owner, err := r.OwnerOf(room.ID)
	require.NoError(t, err)
	require.Equal(t, domain.UserID("u1"), owner)
}
