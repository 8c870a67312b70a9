package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"strconv"

	"github.com/heroiclabs/nakama-common/runtime"
	"github.com/kiliankoe/acquire/internal/room"
)

// MatchState holds the authoritative runtime state of one Acquire match. Each
// presence is one room client, keyed by its session ID.
type MatchState struct {
	Tick       int64                       `json:"tick"`
	EmptyTicks int                         `json:"empty_ticks"` // consecutive ticks without presences
	Presences  map[string]runtime.Presence `json:"-"`
	RM         *room.Manager               `json:"-"`

	pending map[string]joinMeta // accepted joins not yet seen by MatchJoin
	sender  *matchSender
}

type joinMeta struct {
	version  int
	username string
}

type matchLabel struct {
	Game    string `json:"game"`
	Clients int    `json:"clients"`
	Games   int    `json:"games"`
}

func (ms *MatchState) label() string {
	b, _ := json.Marshal(matchLabel{Game: "acquire", Clients: len(ms.Presences), Games: len(ms.RM.Games())})
	return string(b)
}

// matchSender delivers room messages through the match dispatcher. The
// dispatcher is refreshed on every callback.
type matchSender struct {
	dispatcher runtime.MatchDispatcher
	logger     runtime.Logger
	presences  map[string]runtime.Presence
}

func (s *matchSender) Send(clientID string, message []any) {
	p := s.presences[clientID]
	if p == nil || s.dispatcher == nil {
		return
	}
	b, err := json.Marshal(message)
	if err != nil {
		s.logger.Error("Send: failed to encode message for %s: %v", clientID, err)
		return
	}
	if err := s.dispatcher.BroadcastMessage(OpServerMessage, b, []runtime.Presence{p}, nil, true); err != nil {
		s.logger.Warn("Send: broadcast to %s failed: %v", clientID, err)
	}
}

func (s *matchSender) Close(clientID string) {
	p := s.presences[clientID]
	if p == nil || s.dispatcher == nil {
		return
	}
	if err := s.dispatcher.MatchKick([]runtime.Presence{p}); err != nil {
		s.logger.Warn("Close: kick of %s failed: %v", clientID, err)
	}
}

type matchHandler struct {
	store room.Store
	opts  room.Options
}

func newMatchHandler(store room.Store, opts room.Options) *matchHandler {
	return &matchHandler{store: store, opts: opts}
}

// MatchInit is called when the match is created. An optional "seed" param
// fixes the random source of the match.
func (mh *matchHandler) MatchInit(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, params map[string]interface{}) (interface{}, int, string) {
	opts := mh.opts
	switch v := params[ParamSeed].(type) {
	case float64:
		opts.Seed = int64(v)
	case int:
		opts.Seed = int64(v)
	case int64:
		opts.Seed = v
	}

	presences := make(map[string]runtime.Presence)
	sender := &matchSender{logger: logger, presences: presences}
	state := &MatchState{
		Presences: presences,
		RM:        room.NewManager(sender, mh.store, opts),
		pending:   make(map[string]joinMeta),
		sender:    sender,
	}
	logger.Debug("MatchInit: Initializing Acquire match.")
	return state, tickRate, state.label()
}

// MatchJoinAttempt accepts every new session. Protocol version and username
// come from the join metadata; the room manager rejects bad values once the
// presence has joined, so the client receives a FatalError.
func (mh *matchHandler) MatchJoinAttempt(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presence runtime.Presence, metadata map[string]string) (interface{}, bool, string) {
	ms, ok := state.(*MatchState)
	if !ok {
		return state, false, "state not found"
	}
	sid := presence.GetSessionId()
	if ms.Presences[sid] != nil {
		return ms, false, "already joined"
	}

	version, err := strconv.Atoi(metadata[MetaVersion])
	if err != nil {
		version = -1
	}
	username := metadata[MetaUsername]
	if username == "" {
		username = presence.GetUsername()
	}
	ms.pending[sid] = joinMeta{version: version, username: username}
	return ms, true, ""
}

func (mh *matchHandler) MatchJoin(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	ms, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchJoin: state not found")
		return state
	}
	ms.sender.dispatcher = dispatcher

	for _, p := range presences {
		sid := p.GetSessionId()
		meta, ok := ms.pending[sid]
		if !ok {
			meta = joinMeta{version: -1, username: p.GetUsername()}
		}
		delete(ms.pending, sid)

		ms.Presences[sid] = p
		if err := ms.RM.Connect(sid, meta.version, meta.username); err != nil {
			logger.Warn("MatchJoin: client %s rejected: %v", sid, err)
			continue
		}
		logger.Info("MatchJoin: %s joined as %q", sid, meta.username)
	}
	mh.updateLabel(ms, dispatcher, logger)
	return ms
}

func (mh *matchHandler) MatchLeave(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	ms, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchLeave: state not found")
		return state
	}
	ms.sender.dispatcher = dispatcher

	for _, p := range presences {
		sid := p.GetSessionId()
		ms.RM.Disconnect(sid)
		delete(ms.Presences, sid)
	}
	mh.updateLabel(ms, dispatcher, logger)
	return ms
}

// MatchLoop feeds client messages to the room manager. Returning nil ends a
// match that stayed empty for too long.
func (mh *matchHandler) MatchLoop(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, messages []runtime.MatchData) interface{} {
	ms, ok := state.(*MatchState)
	if !ok {
		return state
	}
	ms.Tick = tick
	ms.sender.dispatcher = dispatcher

	for _, msg := range messages {
		if msg.GetOpCode() != OpClientMessage {
			logger.Warn("MatchLoop: unexpected op code %d from %s", msg.GetOpCode(), msg.GetSessionId())
			continue
		}
		var decoded []any
		if err := json.Unmarshal(msg.GetData(), &decoded); err != nil {
			decoded = nil
		}
		if err := ms.RM.HandleMessage(ctx, msg.GetSessionId(), decoded); err != nil {
			logger.Debug("MatchLoop: message from %s not handled: %v", msg.GetSessionId(), err)
		}
	}

	if len(ms.Presences) > 0 {
		ms.EmptyTicks = 0
		return ms
	}
	ms.EmptyTicks++
	if ms.EmptyTicks >= emptyTicks {
		logger.Info("MatchLoop: ending empty match")
		return nil
	}
	return ms
}

func (mh *matchHandler) updateLabel(ms *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	if err := dispatcher.MatchLabelUpdate(ms.label()); err != nil {
		logger.Warn("updateLabel: %v", err)
	}
}

func (mh *matchHandler) MatchTerminate(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, graceSeconds int) interface{} {
	logger.Debug("MatchTerminate: Match terminated with %d grace seconds", graceSeconds)
	return state
}

func (mh *matchHandler) MatchSignal(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, data string) (interface{}, string) {
	return state, ""
}
