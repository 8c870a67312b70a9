package room

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/kiliankoe/acquire/internal/game"
	"github.com/rs/zerolog/log"
)

var (
	ErrClientNotFound  = errors.New("client not found")
	ErrClientExists    = errors.New("client already connected")
	ErrOutdatedClient  = errors.New("client is not using the latest version")
	ErrInvalidUsername = errors.New("invalid username")
	ErrInvalidMessage  = errors.New("invalid message format")
)

// Client is one connection. A user may hold several.
type Client struct {
	ID       string
	UserID   string
	Username string

	room *Room
}

// Room is a game from creation on: its Setup until everybody approved, its
// Game afterwards.
type Room struct {
	ID            string
	DisplayNumber int
	CreatedAt     time.Time
	Setup         *game.GameSetup
	Game          *game.Game

	watchers map[string]*Client
}

func (r *Room) status() game.GameStatus {
	if r.Game != nil {
		return r.Game.Status()
	}
	return game.StatusSettingUp
}

// GameSummary is the public listing of a room.
type GameSummary struct {
	ID              string               `json:"id"`
	DisplayNumber   int                  `json:"displayNumber"`
	Status          game.GameStatus      `json:"status"`
	GameMode        game.GameMode        `json:"gameMode"`
	ArrangementMode game.ArrangementMode `json:"playerArrangementMode"`
	HostUserID      string               `json:"hostUserId,omitempty"`
	UserIDs         []string             `json:"userIds"`
	Watchers        []string             `json:"watchers"`
}

func (r *Room) summary() GameSummary {
	s := GameSummary{ID: r.ID, DisplayNumber: r.DisplayNumber, Status: r.status()}
	if r.Game != nil {
		s.GameMode, s.ArrangementMode = r.Game.GameMode, r.Game.ArrangementMode
		s.UserIDs = append([]string(nil), r.Game.UserIDs...)
	} else {
		s.GameMode, s.ArrangementMode = r.Setup.GameMode, r.Setup.ArrangementMode
		s.HostUserID = r.Setup.HostUserID
		s.UserIDs = append([]string(nil), r.Setup.UserIDs...)
	}
	for id := range r.watchers {
		s.Watchers = append(s.Watchers, id)
	}
	sort.Strings(s.Watchers)
	return s
}

// Manager owns every client and room of one server. All state is guarded by mu.
type Manager struct {
	mu      sync.RWMutex
	sender  Sender
	store   Store
	opts    Options
	rng     *rand.Rand
	clients map[string]*Client
	rooms   map[int]*Room

	userIDs   map[string]string // username -> userID
	usernames map[string]string // userID -> username

	nextDisplayNumber int
}

func NewManager(sender Sender, store Store, opts Options) *Manager {
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Manager{
		sender:    sender,
		store:     store,
		opts:      opts,
		rng:       rand.New(rand.NewSource(seed)),
		clients:   make(map[string]*Client),
		rooms:     make(map[int]*Room),
		userIDs:   make(map[string]string),
		usernames: make(map[string]string),
	}
}

// Connect registers a client under username. A rejected client receives a
// FatalError and is closed.
func (m *Manager) Connect(clientID string, version int, username string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.clients[clientID] != nil {
		return ErrClientExists
	}
	if version != ProtocolVersion {
		m.fatal(clientID, ErrorNotUsingLatestVersion)
		return ErrOutdatedClient
	}
	name, ok := cleanUsername(username)
	if !ok {
		m.fatal(clientID, ErrorInvalidUsername)
		return ErrInvalidUsername
	}
	userID := m.userIDs[name]
	if userID == "" {
		userID = uuid.NewString()
		m.userIDs[name] = userID
		m.usernames[userID] = name
	}

	c := &Client{ID: clientID, UserID: userID, Username: name}
	m.clients[clientID] = c
	m.sender.Send(clientID, m.greetings(c))
	m.broadcast(c.ID, []any{int(ClientConnected), c.ID, c.UserID, c.Username})
	log.Info().Str("client", clientID).Str("user", name).Msg("client connected")
	return nil
}

// Disconnect forgets a client. Unknown clients are ignored.
func (m *Manager) Disconnect(clientID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := m.clients[clientID]
	if c == nil {
		return
	}
	m.removeClient(c)
	log.Info().Str("client", clientID).Msg("client disconnected")
}

func (m *Manager) removeClient(c *Client) {
	if c.room != nil {
		m.exit(c)
	}
	delete(m.clients, c.ID)
	if !m.userActive(c.UserID) {
		delete(m.userIDs, c.Username)
		delete(m.usernames, c.UserID)
	}
	m.broadcast("", []any{int(ClientDisconnected), c.ID})
}

// userActive reports whether userID still has a client or a seat in any room.
func (m *Manager) userActive(userID string) bool {
	for _, c := range m.clients {
		if c.UserID == userID {
			return true
		}
	}
	for _, r := range m.rooms {
		var seats []string
		if r.Game != nil {
			seats = r.Game.UserIDs
		} else {
			seats = r.Setup.UserIDs
		}
		for _, id := range seats {
			if id == userID {
				return true
			}
		}
	}
	return false
}

// HandleMessage processes one tagged message from a connected client. A
// malformed message is fatal for the connection.
func (m *Manager) HandleMessage(ctx context.Context, clientID string, msg []any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	c := m.clients[clientID]
	if c == nil {
		return ErrClientNotFound
	}
	tag, ok := intAt(msg, 0)
	if !ok {
		return m.protocolError(c)
	}
	params := msg[1:]

	var err error
	switch MessageToServer(tag) {
	case CreateGame:
		err = m.createGame(c, params)
	case EnterGame:
		err = m.enterGame(c, params)
	case ExitGame:
		if len(params) != 0 || c.room == nil {
			err = ErrInvalidMessage
		} else {
			m.exit(c)
		}
	case JoinGame:
		err = m.changeSetup(ctx, c, params, 0, false, func(s *game.GameSetup) { s.AddUser(c.UserID) })
	case UnjoinGame:
		err = m.changeSetup(ctx, c, params, 0, false, func(s *game.GameSetup) { s.RemoveUser(c.UserID) })
	case ApproveOfGameSetup:
		err = m.changeSetup(ctx, c, params, 0, false, func(s *game.GameSetup) { s.Approve(c.UserID) })
	case ChangeGameMode:
		mode, _ := intAt(params, 0)
		err = m.changeSetup(ctx, c, params, 1, true, func(s *game.GameSetup) { s.ChangeGameMode(game.GameMode(mode)) })
	case ChangePlayerArrangementMode:
		mode, _ := intAt(params, 0)
		err = m.changeSetup(ctx, c, params, 1, true, func(s *game.GameSetup) {
			s.ChangePlayerArrangementMode(game.ArrangementMode(mode))
		})
	case SwapPositions:
		p1, _ := intAt(params, 0)
		p2, _ := intAt(params, 1)
		err = m.changeSetup(ctx, c, params, 2, true, func(s *game.GameSetup) { s.SwapPositions(p1, p2) })
	case KickUser:
		if len(params) == 1 {
			if _, isString := params[0].(string); !isString {
				err = ErrInvalidMessage
				break
			}
		}
		err = m.changeSetup(ctx, c, params, -1, true, func(s *game.GameSetup) { s.KickUser(params[0].(string)) })
	case DoGameAction:
		err = m.doGameAction(ctx, c, params)
	default:
		err = ErrInvalidMessage
	}

	switch {
	case errors.Is(err, ErrInvalidMessage):
		return m.protocolError(c)
	case err != nil:
		return m.internalError(c, err)
	}
	return nil
}

func (m *Manager) protocolError(c *Client) error {
	log.Warn().Str("client", c.ID).Msg("invalid message format")
	m.fatal(c.ID, ErrorInvalidMessageFormat)
	m.removeClient(c)
	return ErrInvalidMessage
}

func (m *Manager) internalError(c *Client, err error) error {
	log.Error().Err(err).Str("client", c.ID).Msg("internal server error")
	m.fatal(c.ID, ErrorInternalServerError)
	m.removeClient(c)
	return err
}

func (m *Manager) fatal(clientID string, code ErrorCode) {
	m.sender.Send(clientID, []any{int(FatalError), int(code)})
	m.sender.Close(clientID)
}

func (m *Manager) createGame(c *Client, params []any) error {
	mode, ok := intAt(params, 0)
	if len(params) != 1 || !ok || !game.GameMode(mode).Valid() || c.room != nil {
		return ErrInvalidMessage
	}

	m.nextDisplayNumber++
	r := &Room{
		ID:            uuid.NewString(),
		DisplayNumber: m.nextDisplayNumber,
		CreatedAt:     time.Now().UTC(),
		Setup:         game.NewGameSetup(game.GameMode(mode), game.RandomOrder, c.UserID, m.username, m.rng),
		watchers:      make(map[string]*Client),
	}
	m.rooms[r.DisplayNumber] = r
	m.broadcast("", []any{int(GameCreated), r.DisplayNumber, r.ID, c.UserID, mode, int(game.RandomOrder)})
	m.enter(c, r)
	log.Info().Str("game", r.ID).Int("number", r.DisplayNumber).Str("host", c.Username).Msg("game created")
	return nil
}

func (m *Manager) enterGame(c *Client, params []any) error {
	n, ok := intAt(params, 0)
	if len(params) != 1 || !ok || c.room != nil {
		return ErrInvalidMessage
	}
	r := m.rooms[n]
	if r == nil {
		return ErrInvalidMessage
	}
	m.enter(c, r)
	return nil
}

func (m *Manager) enter(c *Client, r *Room) {
	r.watchers[c.ID] = c
	c.room = r
	m.broadcast("", []any{int(ClientEnteredGame), c.ID, r.DisplayNumber})
	if r.Game != nil {
		d := r.Game.Current()
		m.sender.Send(c.ID, []any{int(GameActionDone), r.DisplayNumber, d.Delta(nil, r.Game.PlayerIDForUser(c.UserID))})
	}
}

func (m *Manager) exit(c *Client) {
	r := c.room
	delete(r.watchers, c.ID)
	c.room = nil
	m.broadcast("", []any{int(ClientExitedGame), c.ID, r.DisplayNumber})
}

// changeSetup applies fn to the setup of the client's room. Messages for a
// room that has already started or from a non-host for host-only changes are
// ignored. numParams < 0 means exactly one string parameter.
func (m *Manager) changeSetup(ctx context.Context, c *Client, params []any, numParams int, hostOnly bool, fn func(s *game.GameSetup)) error {
	switch {
	case numParams < 0:
		if len(params) != 1 {
			return ErrInvalidMessage
		}
	case len(params) != numParams:
		return ErrInvalidMessage
	default:
		for i := range params {
			if _, ok := intAt(params, i); !ok {
				return ErrInvalidMessage
			}
		}
	}

	r := c.room
	if r == nil || r.Setup == nil {
		return nil
	}
	if hostOnly && c.UserID != r.Setup.HostUserID {
		return nil
	}
	fn(r.Setup)
	for _, change := range r.Setup.History {
		m.broadcast("", append([]any{int(GameSetupChanged), r.DisplayNumber}, change.Fields()...))
	}
	r.Setup.ClearHistory()

	if r.Setup.ApprovedByEverybody {
		return m.startGame(ctx, r)
	}
	return nil
}

func (m *Manager) startGame(ctx context.Context, r *Room) error {
	s := r.Setup
	userIDs, usernames := s.FinalUserIDsAndUsernames()
	g, err := game.NewGame(s.GameMode, s.ArrangementMode, userIDs, usernames, m.rng)
	if err != nil {
		return fmt.Errorf("start game %s: %w", r.ID, err)
	}
	r.Game, r.Setup = g, nil

	if m.store != nil {
		if err := m.store.CreateGame(ctx, r.ID, g.Transcript()); err != nil {
			log.Error().Err(err).Str("game", r.ID).Msg("failed to store game")
		}
	}
	msg := []any{int(GameStarted), r.DisplayNumber}
	for _, id := range userIDs {
		msg = append(msg, id)
	}
	m.broadcast("", msg)
	m.sendMove(r, nil, g.Current())
	log.Info().Str("game", r.ID).Strs("players", usernames).Msg("game started")
	return nil
}

func (m *Manager) doGameAction(ctx context.Context, c *Client, params []any) error {
	n, ok1 := intAt(params, 0)
	moveIndex, ok2 := intAt(params, 1)
	if len(params) < 3 || !ok1 || !ok2 {
		return ErrInvalidMessage
	}
	reject := func(reason error) {
		m.sender.Send(c.ID, []any{int(GameActionRejected), n, moveIndex, reason.Error()})
	}

	r := m.rooms[n]
	if r == nil || r.Game == nil {
		reject(game.ErrUnexpectedAction)
		return nil
	}
	g := r.Game
	prev := g.Current()
	if moveIndex != prev.Index {
		reject(game.ErrStaleMove)
		return nil
	}

	message := params[2:]
	d, err := g.ProcessMoveDataMessage(c.UserID, message)
	if err != nil {
		if !game.IsInputError(err) {
			log.Error().Err(err).Str("game", r.ID).Int("move", moveIndex).Msg("game action failed")
		}
		reject(err)
		return nil
	}

	if m.store != nil {
		move := game.TranscriptMove{UserID: c.UserID, Message: message}
		if err := m.store.RecordMove(ctx, r.ID, d.Index, move); err != nil {
			log.Error().Err(err).Str("game", r.ID).Int("move", d.Index).Msg("failed to store move")
		}
	}
	m.sendMove(r, prev, d)

	if d.IsGameOver() {
		log.Info().Str("game", r.ID).Ints("scores", d.NetWorth).Msg("game over")
		if m.opts.ExportEnabled {
			if err := game.ExportGame(g, r.DisplayNumber, m.opts.ExportFile); err != nil {
				log.Error().Err(err).Str("game", r.ID).Msg("failed to export game data")
			} else {
				log.Info().Str("game", r.ID).Str("file", m.opts.ExportFile).Msg("exported game data")
			}
		}
	}
	return nil
}

// sendMove sends d to every watcher of r, each with their own rack.
func (m *Manager) sendMove(r *Room, prev, d *game.MoveData) {
	for _, w := range r.watchers {
		viewer := r.Game.PlayerIDForUser(w.UserID)
		m.sender.Send(w.ID, []any{int(GameActionDone), r.DisplayNumber, d.Delta(prev, viewer)})
	}
}

// broadcast sends msg to every client except the one with ID except.
func (m *Manager) broadcast(except string, msg []any) {
	for id := range m.clients {
		if id != except {
			m.sender.Send(id, msg)
		}
	}
}

func (m *Manager) username(userID string) string { return m.usernames[userID] }

func (m *Manager) greetings(c *Client) []any {
	users := make([]any, 0, len(m.usernames))
	for id, name := range m.usernames {
		var clients []string
		for _, other := range m.clients {
			if other.UserID == id {
				clients = append(clients, other.ID)
			}
		}
		sort.Strings(clients)
		users = append(users, []any{id, name, clients})
	}
	return []any{int(Greetings), c.ID, c.UserID, users, m.summaries()}
}

func (m *Manager) summaries() []GameSummary {
	out := make([]GameSummary, 0, len(m.rooms))
	for _, r := range m.rooms {
		out = append(out, r.summary())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DisplayNumber < out[j].DisplayNumber })
	return out
}

// Games lists every room ordered by display number.
func (m *Manager) Games() []GameSummary {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.summaries()
}

// Transcript returns the transcript of a started game by its ID.
func (m *Manager) Transcript(gameID string) (game.Transcript, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, r := range m.rooms {
		if r.ID == gameID && r.Game != nil {
			return r.Game.Transcript(), true
		}
	}
	return game.Transcript{}, false
}
