package ws

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/KirkDiggler/taskguess/internal/common/clock"
	"github.com/KirkDiggler/taskguess/internal/common/uuid"
	"github.com/KirkDiggler/taskguess/internal/models"
	resultsRepo "github.com/KirkDiggler/taskguess/internal/repositories/results"
	"github.com/KirkDiggler/taskguess/internal/services/session"
	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

const (
	commandTimeout = 5 * time.Second

	// DefaultCommandRate is the sustained number of commands per second a
	// connection may send
	DefaultCommandRate = 5

	// DefaultCommandBurst is the number of commands a connection may send at once
	DefaultCommandBurst = 10
)

// Gateway serves the websocket endpoint and the read only HTTP routes
type Gateway struct {
	hub            *Hub
	sessionService session.Service
	resultsRepo    resultsRepo.Repository
	uuidGenerator  uuid.UUID
	clock          clock.Clock
	logger         zerolog.Logger

	upgrader     websocket.Upgrader
	commands     map[CommandType]CommandHandler
	commandRate  rate.Limit
	commandBurst int

	conns sync.WaitGroup
}

// Config holds the configuration for the gateway
type Config struct {
	// Hub delivers session events; the same hub must be the session publisher
	Hub *Hub

	SessionService session.Service

	// ResultsRepo serves /api/results (optional)
	ResultsRepo resultsRepo.Repository

	UUIDGenerator uuid.UUID
	Clock         clock.Clock
	Logger        zerolog.Logger

	// AllowedOrigins restricts browser origins; empty allows any
	AllowedOrigins []string

	// Per connection command rate limit, zero means default
	CommandRate  float64
	CommandBurst int
}

// New creates a new gateway
func New(cfg *Config) (*Gateway, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.Hub == nil {
		return nil, errors.New("hub cannot be nil")
	}

	if cfg.SessionService == nil {
		return nil, errors.New("session service cannot be nil")
	}

	if cfg.UUIDGenerator == nil {
		return nil, errors.New("UUID generator cannot be nil")
	}

	if cfg.Clock == nil {
		return nil, errors.New("clock cannot be nil")
	}

	commandRate := rate.Limit(cfg.CommandRate)
	if cfg.CommandRate <= 0 {
		commandRate = DefaultCommandRate
	}

	commandBurst := cfg.CommandBurst
	if commandBurst <= 0 {
		commandBurst = DefaultCommandBurst
	}

	g := &Gateway{
		hub:            cfg.Hub,
		sessionService: cfg.SessionService,
		resultsRepo:    cfg.ResultsRepo,
		uuidGenerator:  cfg.UUIDGenerator,
		clock:          cfg.Clock,
		logger:         cfg.Logger,
		commandRate:    commandRate,
		commandBurst:   commandBurst,
	}

	g.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     originChecker(cfg.AllowedOrigins),
	}

	g.registerCommands()

	return g, nil
}

func originChecker(allowed []string) func(r *http.Request) bool {
	if len(allowed) == 0 {
		return func(r *http.Request) bool { return true }
	}

	set := make(map[string]struct{}, len(allowed))
	for _, origin := range allowed {
		if origin == "*" {
			return func(r *http.Request) bool { return true }
		}
		set[origin] = struct{}{}
	}

	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		_, ok := set[origin]
		return ok
	}
}

// ServeWS upgrades the request and runs the connection as a new player
func (g *Gateway) ServeWS(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	conn, err := g.upgrader.Upgrade(w, r, nil)
	if err != nil {
		g.logger.Warn().Err(err).Str("remote", r.RemoteAddr).Msg("websocket upgrade failed")
		return
	}

	c := newClient(
		models.PlayerID(g.uuidGenerator.NewUUID()),
		conn,
		rate.NewLimiter(g.commandRate, g.commandBurst),
	)

	g.hub.register(c)
	g.hub.send(c, models.EventConnected, &models.ConnectedPayload{PlayerID: c.id})

	g.logger.Debug().
		Str("player", c.id.String()).
		Str("remote", r.RemoteAddr).
		Msg("connection opened")

	g.conns.Add(1)
	go c.writePump()
	go g.readPump(c)
}

// readPump reads commands until the connection fails
func (g *Gateway) readPump(c *client) {
	defer g.conns.Done()
	defer g.release(c)

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				g.logger.Debug().Err(err).Str("player", c.id.String()).Msg("connection lost")
			}
			return
		}

		g.handle(c, raw)
	}
}

// release forgets the connection and starts the player's reconnect grace
func (g *Gateway) release(c *client) {
	c.close()
	g.hub.unregister(c)

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	_, err := g.sessionService.Disconnect(ctx, &session.DisconnectInput{PlayerID: c.id})
	switch session.KindOf(err) {
	case session.KindNotFound, session.KindAuthorization:
		// never joined a room or already gone
	case session.KindInternal:
		if err != nil {
			g.logger.Error().Err(err).Str("player", c.id.String()).Msg("failed to disconnect player")
		}
	}

	g.logger.Debug().Str("player", c.id.String()).Msg("connection closed")
}

// handle runs one inbound frame. Failures are reported to the sender only.
func (g *Gateway) handle(c *client, raw []byte) {
	if !c.limiter.Allow() {
		g.hub.send(c, models.EventError, renderError(errRateLimited))
		return
	}

	var cmd Command
	if err := json.Unmarshal(raw, &cmd); err != nil {
		g.hub.send(c, models.EventError, renderError(errMalformed))
		return
	}

	handler, ok := g.commands[cmd.Type]
	if !ok {
		g.hub.send(c, models.EventError, renderError(errUnknownCommand))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	if err := handler(ctx, c, cmd.Data); err != nil {
		log := g.logger.With().
			Str("player", c.id.String()).
			Str("command", string(cmd.Type)).
			Logger()

		if session.KindOf(err) == session.KindInternal {
			log.Error().Err(err).Msg("command failed")
		} else {
			log.Debug().Err(err).Msg("command rejected")
		}

		g.hub.send(c, models.EventError, renderError(err))
	}
}

// Close drops every connection and waits for their players to be released
func (g *Gateway) Close() {
	g.hub.Close()
	g.conns.Wait()
}
