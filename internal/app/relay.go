package app

import (
	"github.com/rs/zerolog/log"

	"github.com/gujuliano18/webrtc/internal/core"
	"github.com/gujuliano18/webrtc/internal/domain"
)

// Relay routes opaque signaling payloads by logical identity, not by
// transport connection. Stateless over the directory.
type Relay struct {
	Dir *core.Directory
}

func NewRelay(dir *core.Directory) *Relay {
	return &Relay{Dir: dir}
}

// Relay delivers payload verbatim to the target identity's current
// connection. An absent target drops the payload silently; signaling
// is fire-and-forget and retry belongs to the negotiation layer above.
// Reports whether a delivery happened.
func (r *Relay) Relay(target domain.UserID, payload core.Frame) bool {
	conn, ok := r.Dir.Conn(target)
	if !ok {
		log.Debug().Str("module", "app.relay").Str("target", string(target)).Msg("relay target absent, dropped")
		return false
	}
	if err := conn.TrySend(payload); err != nil {
		log.Debug().Err(err).Str("module", "app.relay").Str("target", string(target)).Msg("relay send failed")
		return false
	}
	return true
}
