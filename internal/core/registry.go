package core

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/gujuliano18/webrtc/internal/domain"
)

type roomState struct {
	room        domain.Room
	ownerOnline bool
	members     []MemberDTO
	memberIdx   map[domain.UserID]int
	slots       []*domain.Occupant
	chat        []domain.ChatEntry
	createdAt   time.Time
}

// Registry owns every room aggregate: membership, mic slots and the
// capped chat log. Rooms are never deleted here; emptiness is not a
// lifecycle event.
type Registry struct {
	mu        sync.RWMutex
	rooms     map[domain.RoomID]*roomState
	slotCount int
	chatCap   int
	chatTail  int
}

func NewRegistry(slotCount, chatCap, chatTail int) *Registry {
	if chatTail > chatCap {
		chatTail = chatCap
	}
	return &Registry{
		rooms:     make(map[domain.RoomID]*roomState),
		slotCount: slotCount,
		chatCap:   chatCap,
		chatTail:  chatTail,
	}
}

func (r *Registry) newRoomState(room domain.Room) *roomState {
	return &roomState{
		room:      room,
		memberIdx: make(map[domain.UserID]int),
		slots:     make([]*domain.Occupant, r.slotCount),
		createdAt: time.Now(),
	}
}

// CreateRoom registers a new room and returns its generated id.
func (r *Registry) CreateRoom(name domain.RoomName, cover string, owner domain.UserID) domain.Room {
	if runes := []rune(name); len(runes) > domain.MaxRoomNameLen {
		name = domain.RoomName(runes[:domain.MaxRoomNameLen])
	}
	room := domain.Room{
		ID:    domain.RoomID(uuid.NewString()),
		Name:  name,
		Cover: cover,
		Owner: owner,
	}
	r.mu.Lock()
	r.rooms[room.ID] = r.newRoomState(room)
	r.mu.Unlock()
	log.Info().Str("module", "core.registry").Str("room", string(room.ID)).Str("name", string(name)).Msg("room created")
	return room
}

// EnsureRoom creates a room under a fixed id if it does not exist yet.
// Used for the reserved default room at process start.
func (r *Registry) EnsureRoom(id domain.RoomID, name domain.RoomName) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rooms[id]; ok {
		return
	}
	r.rooms[id] = r.newRoomState(domain.Room{ID: id, Name: name})
	log.Info().Str("module", "core.registry").Str("room", string(id)).Msg("default room ensured")
}

func (r *Registry) Exists(id domain.RoomID) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.rooms[id]
	return ok
}

// OwnerOf returns the room's owner identity, which may be empty.
func (r *Registry) OwnerOf(id domain.RoomID) (domain.UserID, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	st, ok := r.rooms[id]
	if !ok {
		return "", ErrRoomNotFound
	}
	return st.room.Owner, nil
}

// SetOwnerOnline updates the room's owner-online flag.
func (r *Registry) SetOwnerOnline(id domain.RoomID, online bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	st, ok := r.rooms[id]
	if !ok {
		return ErrRoomNotFound
	}
	st.ownerOnline = online
	return nil
}

// SetCover attaches an uploaded cover reference to the room.
func (r *Registry) SetCover(id domain.RoomID, cover string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	st, ok := r.rooms[id]
	if !ok {
		return ErrRoomNotFound
	}
	st.room.Cover = cover
	return nil
}

// AddMember appends identity to the room's member list. Idempotent:
// re-adding an existing member changes nothing and reports added=false.
func (r *Registry) AddMember(id domain.RoomID, uid domain.UserID, username string) (bool, error) {
	if uid == "" {
		return false, ErrInvalidIdentity
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	st, ok := r.rooms[id]
	if !ok {
		return false, ErrRoomNotFound
	}
	if _, ok := st.memberIdx[uid]; ok {
		return false, nil
	}
	st.memberIdx[uid] = len(st.members)
	st.members = append(st.members, MemberDTO{ID: uid, Username: username})
	log.Info().Str("module", "core.registry").Str("room", string(id)).Str("user", string(uid)).Msg("member added")
	return true, nil
}

// RemoveMember drops identity from the member list and releases every
// slot it holds, as one operation. Reports whether anything changed.
func (r *Registry) RemoveMember(id domain.RoomID, uid domain.UserID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	st, ok := r.rooms[id]
	if !ok {
		return false, ErrRoomNotFound
	}
	changed := st.releaseSlots(uid)
	i, ok := st.memberIdx[uid]
	if !ok {
		return changed, nil
	}
	st.members = append(st.members[:i], st.members[i+1:]...)
	delete(st.memberIdx, uid)
	for j := i; j < len(st.members); j++ {
		st.memberIdx[st.members[j].ID] = j
	}
	log.Info().Str("module", "core.registry").Str("room", string(id)).Str("user", string(uid)).Msg("member removed")
	return true, nil
}

// ClaimSlot assigns a mic slot to identity. The claimant must already
// be a member; a re-claim of an already held slot is idempotent.
func (r *Registry) ClaimSlot(id domain.RoomID, slot int, uid domain.UserID, username string) error {
	if uid == "" {
		return ErrInvalidIdentity
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	st, ok := r.rooms[id]
	if !ok {
		return ErrRoomNotFound
	}
	if slot < 0 || slot >= len(st.slots) {
		return ErrInvalidSlot
	}
	if _, ok := st.memberIdx[uid]; !ok {
		return ErrInvalidIdentity
	}
	if occ := st.slots[slot]; occ != nil && occ.ID != uid {
		return ErrSlotOccupied
	}
	st.slots[slot] = &domain.Occupant{ID: uid, Username: username}
	log.Info().Str("module", "core.registry").Str("room", string(id)).Str("user", string(uid)).Int("slot", slot).Msg("slot claimed")
	return nil
}

// ReleaseSlot frees every slot held by identity in the room.
func (r *Registry) ReleaseSlot(id domain.RoomID, uid domain.UserID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	st, ok := r.rooms[id]
	if !ok {
		return false, ErrRoomNotFound
	}
	return st.releaseSlots(uid), nil
}

func (st *roomState) releaseSlots(uid domain.UserID) bool {
	changed := false
	for i, occ := range st.slots {
		if occ != nil && occ.ID == uid {
			st.slots[i] = nil
			changed = true
		}
	}
	return changed
}

// AppendChat trims and appends a chat entry, evicting the oldest
// entries once the stored cap is exceeded. Empty-after-trim text is a
// no-op and returns a nil entry; chat is best-effort.
func (r *Registry) AppendChat(id domain.RoomID, uid domain.UserID, username, text string) (*domain.ChatEntry, error) {
	if uid == "" {
		return nil, ErrInvalidIdentity
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	st, ok := r.rooms[id]
	if !ok {
		return nil, ErrRoomNotFound
	}
	entry := domain.ChatEntry{Sender: uid, Username: username, Text: text, SentAt: time.Now()}
	st.chat = append(st.chat, entry)
	if over := len(st.chat) - r.chatCap; over > 0 {
		st.chat = append(st.chat[:0:0], st.chat[over:]...)
	}
	return &entry, nil
}

// Snapshot returns a deep copy of the room's state. Callers own the
// result; mutating it never touches the registry.
func (r *Registry) Snapshot(id domain.RoomID) (*RoomSnapshot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	st, ok := r.rooms[id]
	if !ok {
		return nil, ErrRoomNotFound
	}
	snap := &RoomSnapshot{
		ID:          st.room.ID,
		Name:        st.room.Name,
		Cover:       st.room.Cover,
		Owner:       st.room.Owner,
		OwnerOnline: st.ownerOnline,
		Members:     make([]MemberDTO, len(st.members)),
		MemberCount: len(st.members),
		Slots:       make([]*domain.Occupant, len(st.slots)),
		CreatedAt:   st.createdAt,
	}
	copy(snap.Members, st.members)
	for i, occ := range st.slots {
		if occ != nil {
			o := *occ
			snap.Slots[i] = &o
		}
	}
	tail := st.chat
	if len(tail) > r.chatTail {
		tail = tail[len(tail)-r.chatTail:]
	}
	snap.Chat = make([]domain.ChatEntry, len(tail))
	copy(snap.Chat, tail)
	return snap, nil
}

// RoomsOf returns every room identity currently appears in, either as
// a member or a slot holder.
func (r *Registry) RoomsOf(uid domain.UserID) []domain.RoomID {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []domain.RoomID
	for id, st := range r.rooms {
		if _, ok := st.memberIdx[uid]; ok {
			out = append(out, id)
			continue
		}
		for _, occ := range st.slots {
			if occ != nil && occ.ID == uid {
				out = append(out, id)
				break
			}
		}
	}
	return out
}

// List returns the listing view of every room.
func (r *Registry) List() []RoomInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]RoomInfo, 0, len(r.rooms))
	for _, st := range r.rooms {
		out = append(out, RoomInfo{
			ID:          st.room.ID,
			Name:        st.room.Name,
			Cover:       st.room.Cover,
			MemberCount: len(st.members),
			CreatedAt:   st.createdAt,
		})
	}
	return out
}
