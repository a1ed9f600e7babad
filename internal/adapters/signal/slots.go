package signal

import (
	"encoding/json"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/gujuliano18/webrtc/internal/core"
	"github.com/gujuliano18/webrtc/internal/domain"
)

func (ctl *SignalWSController) handleClaimSlot(
	sid core.SessionID,
	conn *wsSignalConn,
	data []byte,
) {
	type claimPayload struct {
		Type string `json:"type"`
		Room string `json:"room"`
		Slot int    `json:"slot"`
		ID   string `json:"id"`
		Name string `json:"name,omitempty"`
	}
	var p claimPayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad claim_slot payload")
		ctl.sendError(conn, "bad_payload")
		return
	}

	// Rejection detail goes out to the claimant as slot_denied.
	if err := ctl.Coord.ClaimSlot(domain.RoomID(p.Room), p.Slot, domain.UserID(p.ID), p.Name, sid); err != nil {
		log.Info().Err(err).Str("module", "signal").Str("room", p.Room).Int("slot", p.Slot).Str("user", p.ID).Msg("slot claim rejected")
	}
}

func (ctl *SignalWSController) handleReleaseSlot(
	sid core.SessionID,
	conn *wsSignalConn,
	data []byte,
) {
	type releasePayload struct {
		Type string `json:"type"`
		Room string `json:"room"`
		ID   string `json:"id"`
	}
	var p releasePayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad release_slot payload")
		ctl.sendError(conn, "bad_payload")
		return
	}
	if err := ctl.Coord.ReleaseSlot(domain.RoomID(p.Room), domain.UserID(p.ID)); errors.Is(err, core.ErrRoomNotFound) {
		ctl.sendError(conn, "room_not_found")
	}
}
