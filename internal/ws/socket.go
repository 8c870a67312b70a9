package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"sync"

	"github.com/gin-gonic/gin"
	socketio "github.com/googollee/go-socket.io"
	"github.com/kiliankoe/acquire/internal/room"
	"github.com/rs/zerolog/log"
)

// Event carries every message in both directions as a JSON encoded array.
const Event = "message"

// Server bridges socket.io connections and the room manager. It is the
// manager's Sender.
type Server struct {
	RM *room.Manager

	mu    sync.RWMutex
	conns map[string]socketio.Conn
}

func New() *Server {
	return &Server{conns: make(map[string]socketio.Conn)}
}

// Send emits message to a connection. Unknown connections are skipped.
func (srv *Server) Send(clientID string, message []any) {
	srv.mu.RLock()
	c := srv.conns[clientID]
	srv.mu.RUnlock()
	if c == nil {
		return
	}
	b, err := json.Marshal(message)
	if err != nil {
		log.Error().Err(err).Str("sid", clientID).Msg("failed to encode message")
		return
	}
	c.Emit(Event, string(b))
}

// Close drops a connection without waiting for it to shut down.
func (srv *Server) Close(clientID string) {
	srv.mu.Lock()
	c := srv.conns[clientID]
	delete(srv.conns, clientID)
	srv.mu.Unlock()
	if c != nil {
		go c.Close()
	}
}

// Mount attaches the Socket.IO server with handlers to the given Gin engine.
// Clients connect with ?username=...&version=... in the URL.
func (srv *Server) Mount(r *gin.Engine) *socketio.Server {
	io := socketio.NewServer(nil)

	io.OnConnect("/", func(s socketio.Conn) error {
		srv.mu.Lock()
		srv.conns[s.ID()] = s
		srv.mu.Unlock()

		u := s.URL()
		q := u.Query()
		version, err := strconv.Atoi(q.Get("version"))
		if err != nil {
			version = -1
		}
		if err := srv.RM.Connect(s.ID(), version, q.Get("username")); err != nil {
			log.Warn().Str("sid", s.ID()).Err(err).Msg("connection rejected")
			return nil
		}
		log.Info().Str("sid", s.ID()).Msg("socket connected")
		return nil
	})

	io.OnEvent("/", Event, func(s socketio.Conn, payload string) {
		var msg []any
		if err := json.Unmarshal([]byte(payload), &msg); err != nil {
			msg = nil
		}
		if err := srv.RM.HandleMessage(context.Background(), s.ID(), msg); err != nil {
			log.Debug().Str("sid", s.ID()).Err(err).Msg("message not handled")
		}
	})

	io.OnError("/", func(s socketio.Conn, e error) {
		if s == nil {
			log.Error().Err(e).Msg("socket error")
			return
		}
		log.Error().Str("sid", s.ID()).Err(e).Msg("socket error")
	})
	io.OnDisconnect("/", func(s socketio.Conn, reason string) {
		srv.mu.Lock()
		delete(srv.conns, s.ID())
		srv.mu.Unlock()
		srv.RM.Disconnect(s.ID())
		log.Info().Str("sid", s.ID()).Str("reason", reason).Msg("socket disconnected")
	})

	go io.Serve()

	r.GET("/socket.io/*any", gin.WrapH(io))
	r.POST("/socket.io/*any", gin.WrapH(io))

	// Basic CORS preflight for Socket.IO POST
	r.OPTIONS("/socket.io/*any", func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")
		c.Status(http.StatusNoContent)
	})

	return io
}
