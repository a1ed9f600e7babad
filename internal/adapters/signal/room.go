package signal

import (
	"encoding/json"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/gujuliano18/webrtc/internal/core"
	"github.com/gujuliano18/webrtc/internal/domain"
)

func (ctl *SignalWSController) handleCreateRoom(
	sid core.SessionID,
	conn *wsSignalConn,
	data []byte,
) {
	type createPayload struct {
		Type  string `json:"type"`
		Name  string `json:"name"`
		ID    string `json:"id"`
		Cover string `json:"cover,omitempty"`
	}
	var p createPayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad create_room payload")
		ctl.sendError(conn, "bad_payload")
		return
	}
	room := ctl.Coord.Rooms.CreateRoom(domain.RoomName(p.Name), p.Cover, domain.UserID(p.ID))
	resp := struct {
		Type string `json:"type"`
		Room string `json:"room"`
	}{
		"room_created",
		string(room.ID),
	}
	ctl.sendJSON(conn, resp)
}

func (ctl *SignalWSController) handleJoin(
	sid core.SessionID,
	conn *wsSignalConn,
	data []byte,
) {
	type joinPayload struct {
		Type string `json:"type"`
		Room string `json:"room"`
		ID   string `json:"id"`
		Name string `json:"name,omitempty"`
	}
	var p joinPayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad join payload")
		ctl.sendError(conn, "bad_payload")
		return
	}

	log.Info().Str("module", "signal").Str("sid", string(sid)).Str("room", p.Room).Str("user", p.ID).Msg("join")
	err := ctl.Coord.Join(domain.RoomID(p.Room), domain.UserID(p.ID), p.Name, sid)
	switch {
	case errors.Is(err, core.ErrRoomNotFound):
		ctl.sendError(conn, "room_not_found")
	case errors.Is(err, core.ErrInvalidIdentity):
		ctl.sendError(conn, "invalid_identity")
	case err != nil:
		ctl.sendError(conn, "join_failed")
	}
}

func (ctl *SignalWSController) handleLeave(
	sid core.SessionID,
	conn *wsSignalConn,
	data []byte,
) {
	type leavePayload struct {
		Type string `json:"type"`
		Room string `json:"room"`
		ID   string `json:"id"`
	}
	var p leavePayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad leave payload")
		ctl.sendError(conn, "bad_payload")
		return
	}

	log.Info().Str("module", "signal").Str("sid", string(sid)).Str("room", p.Room).Msg("leave")
	if err := ctl.Coord.Leave(domain.RoomID(p.Room), domain.UserID(p.ID)); errors.Is(err, core.ErrRoomNotFound) {
		ctl.sendError(conn, "room_not_found")
		return
	}
	ctl.sendJSON(conn, map[string]any{"type": "left", "room": p.Room})
}

func (ctl *SignalWSController) handleSnapshot(
	sid core.SessionID,
	conn *wsSignalConn,
	data []byte,
) {
	type snapPayload struct {
		Type string `json:"type"`
		Room string `json:"room"`
	}
	var p snapPayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad snapshot payload")
		ctl.sendError(conn, "bad_payload")
		return
	}
	if err := ctl.Coord.RequestSnapshot(domain.RoomID(p.Room), sid); errors.Is(err, core.ErrRoomNotFound) {
		ctl.sendError(conn, "room_not_found")
	}
}
