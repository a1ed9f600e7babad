package signal

import (
	"encoding/json"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/gujuliano18/webrtc/internal/core"
	"github.com/gujuliano18/webrtc/internal/domain"
)

func (ctl *SignalWSController) handleChat(
	sid core.SessionID,
	conn *wsSignalConn,
	data []byte,
) {
	type chatPayload struct {
		Type string `json:"type"`
		Room string `json:"room"`
		ID   string `json:"id"`
		Name string `json:"name,omitempty"`
		Text string `json:"text"`
	}
	var p chatPayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad chat payload")
		ctl.sendError(conn, "bad_payload")
		return
	}
	if !ctl.Limiter.Allow(domain.UserID(p.ID)) {
		log.Warn().Str("module", "signal").Str("user", p.ID).Msg("chat rate limited")
		ctl.sendError(conn, "rate_limited")
		return
	}
	err := ctl.Coord.Chat(domain.RoomID(p.Room), domain.UserID(p.ID), p.Name, p.Text)
	switch {
	case errors.Is(err, core.ErrRoomNotFound):
		ctl.sendError(conn, "room_not_found")
	case errors.Is(err, core.ErrInvalidIdentity):
		ctl.sendError(conn, "invalid_identity")
	}
}
