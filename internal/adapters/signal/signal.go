package signal

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/gujuliano18/webrtc/internal/app"
	"github.com/gujuliano18/webrtc/internal/config"
	"github.com/gujuliano18/webrtc/internal/core"
)

var ErrBackpressure = errors.New("backpressure")

// SignalWSController is the websocket edge of the presence coordinator
// and the signaling relay.
type SignalWSController struct {
	Coord   *app.Coordinator
	Relay   *app.Relay
	Limiter *RateLimiter
	Cfg     *config.Config
}

func NewSignalWSController(cfg *config.Config, coord *app.Coordinator, relay *app.Relay) *SignalWSController {
	return &SignalWSController{
		Coord:   coord,
		Relay:   relay,
		Limiter: NewRateLimiter(cfg.ChatRate, cfg.ChatRateWindow),
		Cfg:     cfg,
	}
}

type wsSignalConn struct {
	conn *websocket.Conn
	send chan core.Frame

	mu     sync.RWMutex
	closed bool
}

func (c *wsSignalConn) TrySend(f core.Frame) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return errors.New("connection closed")
	}
	select {
	case c.send <- f:
	default:
		return ErrBackpressure
	}
	return nil
}

func (c *wsSignalConn) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	close(c.send)
	_ = c.conn.Close()
	c.mu.Unlock()
}

// JSONPublisher is the coordinator's delivery boundary: marshal and
// hand off without blocking.
type JSONPublisher struct{}

func (JSONPublisher) Publish(conn core.SignalConnection, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("publish marshal")
		return
	}
	if err := conn.TrySend(b); err != nil {
		log.Debug().Err(err).Str("module", "signal").Msg("publish dropped")
	}
}

func (ctl *SignalWSController) sendJSON(c *wsSignalConn, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("sendJSON marshal")
		return
	}
	_ = c.TrySend(b)
}

func (ctl *SignalWSController) sendError(c *wsSignalConn, msg string) {
	ctl.sendJSON(c, map[string]any{"type": "error", "error": msg})
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// HandleSignal upgrades the request and runs the connection until the
// transport drops it, at which point the coordinator unwinds whatever
// the session held. The session id is minted per connection: two
// sockets from the same browser must never share one, or a superseded
// connection's disconnect would pass the stale-session check and evict
// the identity its reconnect still validly holds.
func (ctl *SignalWSController) HandleSignal(ctx context.Context, c *gin.Context) {
	sid := core.SessionID(uuid.NewString())
	log.Info().Str("module", "signal").Str("sid", string(sid)).Str("ct", c.GetString("client_token")).Msg("new WS connection")

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Msg("ws upgrade")
		return
	}
	ws.SetReadLimit(ctl.Cfg.ReadLimit)

	conn := &wsSignalConn{
		conn: ws,
		send: make(chan core.Frame, 32),
	}
	ctl.Coord.Dir.Register(sid, conn)

	ctx, cancel := context.WithCancel(ctx)
	go ctl.writePump(ctx, conn)
	go ctl.readPump(ctx, cancel, sid, conn)
}
