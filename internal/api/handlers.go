package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/kiliankoe/acquire/internal/game"
	"github.com/kiliankoe/acquire/internal/room"
	"github.com/kiliankoe/acquire/internal/storage"
	"github.com/rs/zerolog/log"
)

// Handler serves read-only views of live and stored games.
type Handler struct {
	RM    *room.Manager
	Store room.Store
}

func (h *Handler) Register(r gin.IRouter) {
	g := r.Group("/api/games")
	g.GET("", h.listGames)
	g.GET("/:id/transcript", h.transcript)
	g.GET("/:id/moves/:index", h.move)
	g.GET("/:id/log", h.gameLog)
}

func (h *Handler) listGames(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"games": h.RM.Games()})
}

// load returns the transcript of a live game, falling back to the store.
func (h *Handler) load(c *gin.Context) (game.Transcript, bool) {
	id := c.Param("id")
	if t, ok := h.RM.Transcript(id); ok {
		return t, true
	}
	if h.Store == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "game not found"})
		return game.Transcript{}, false
	}
	t, err := h.Store.LoadTranscript(c.Request.Context(), id)
	switch {
	case err == nil:
		return t, true
	case errors.Is(err, storage.ErrNotFound), errors.Is(err, storage.ErrInvalidID):
		c.JSON(http.StatusNotFound, gin.H{"error": "game not found"})
	default:
		log.Error().Err(err).Str("game", id).Msg("failed to load transcript")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
	return game.Transcript{}, false
}

func (h *Handler) replay(c *gin.Context) (*game.Game, game.Transcript, bool) {
	t, ok := h.load(c)
	if !ok {
		return nil, t, false
	}
	g, err := game.Replay(t)
	if err != nil {
		log.Error().Err(err).Str("game", c.Param("id")).Msg("stored transcript does not replay")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "corrupt transcript"})
		return nil, t, false
	}
	return g, t, true
}

// completed replays the game and refuses it while it is still being played:
// its transcript holds every rack and the order of the remaining tiles.
func (h *Handler) completed(c *gin.Context) (*game.Game, game.Transcript, bool) {
	g, t, ok := h.replay(c)
	if !ok {
		return nil, t, false
	}
	if g.Status() != game.StatusCompleted {
		c.JSON(http.StatusForbidden, gin.H{"error": "game in progress"})
		return nil, t, false
	}
	return g, t, true
}

func (h *Handler) transcript(c *gin.Context) {
	if _, t, ok := h.completed(c); ok {
		c.JSON(http.StatusOK, t)
	}
}

// move returns the public state at one snapshot. Racks are never included.
func (h *Handler) move(c *gin.Context) {
	i, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid index"})
		return
	}
	g, _, ok := h.replay(c)
	if !ok {
		return
	}
	d, ok := g.MoveData(i)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "move not found"})
		return
	}
	c.JSON(http.StatusOK, d.Delta(nil, game.NoPlayer))
}

func (h *Handler) gameLog(c *gin.Context) {
	g, _, ok := h.completed(c)
	if !ok {
		return
	}
	n := 0
	for _, s := range h.RM.Games() {
		if s.ID == c.Param("id") {
			n = s.DisplayNumber
		}
	}
	c.String(http.StatusOK, game.FormatGame(g, n))
}
