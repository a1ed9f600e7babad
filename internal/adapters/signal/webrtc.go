package signal

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/gujuliano18/webrtc/internal/core"
	"github.com/gujuliano18/webrtc/internal/domain"
)

// relaySignal forwards offer/answer/candidate frames to the target
// identity's current connection. The payload is opaque here: it is
// rewrapped with the sender attached and never parsed.
func (ctl *SignalWSController) relaySignal(
	sid core.SessionID,
	conn *wsSignalConn,
	kind string,
	data []byte,
) {
	type relayPayload struct {
		Type    string          `json:"type"`
		To      string          `json:"to"`
		Payload json.RawMessage `json:"payload"`
	}
	var p relayPayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad relay payload")
		ctl.sendError(conn, "bad_payload")
		return
	}
	if p.To == "" {
		ctl.sendError(conn, "bad_payload")
		return
	}

	from, _, _ := ctl.Coord.Dir.UserOf(sid)
	out := struct {
		Type    string          `json:"type"`
		From    domain.UserID   `json:"from,omitempty"`
		Payload json.RawMessage `json:"payload"`
	}{
		Type:    kind,
		From:    from,
		Payload: p.Payload,
	}
	frame, err := json.Marshal(out)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("relay marshal")
		return
	}
	delivered := ctl.Relay.Relay(domain.UserID(p.To), frame)
	log.Debug().Str("module", "signal").Str("kind", kind).Str("to", p.To).Bool("delivered", delivered).Msg("relay")
}
