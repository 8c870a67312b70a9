package game

import (
	"errors"
	"fmt"
	"math/rand"
)

var (
	ErrWrongRosterSize = errors.New("roster size does not match game mode")
	ErrInvalidTileBag  = errors.New("invalid tile bag")
)

// Game is a started game: a fixed roster and the append-only history of
// MoveData snapshots. Player IDs are indexes into UserIDs. A Game is not safe
// for concurrent use; callers serialize messages per game.
type Game struct {
	GameMode        GameMode
	ArrangementMode ArrangementMode
	UserIDs         []string
	Usernames       []string

	tileBag []int
	history []*MoveData
	moves   []TranscriptMove
}

// NewGame starts a game with a tile bag shuffled by rng.
func NewGame(mode GameMode, arrangement ArrangementMode, userIDs, usernames []string, rng *rand.Rand) (*Game, error) {
	return NewGameWithTileBag(mode, arrangement, userIDs, usernames, rng.Perm(NumTiles))
}

// NewGameWithTileBag starts a game that draws tiles in the given order. The
// bag may hold fewer than all tiles but never a duplicate.
func NewGameWithTileBag(mode GameMode, arrangement ArrangementMode, userIDs, usernames []string, tileBag []int) (*Game, error) {
	if !mode.Valid() || len(userIDs) != mode.NumPlayers() || len(usernames) != len(userIDs) {
		return nil, ErrWrongRosterSize
	}
	var seen [NumTiles]bool
	for _, t := range tileBag {
		if t < 0 || t >= NumTiles || seen[t] {
			return nil, fmt.Errorf("%w: tile %d", ErrInvalidTileBag, t)
		}
		seen[t] = true
	}
	g := &Game{
		GameMode:        mode,
		ArrangementMode: arrangement,
		UserIDs:         append([]string(nil), userIDs...),
		Usernames:       append([]string(nil), usernames...),
		tileBag:         append([]int(nil), tileBag...),
	}
	d := newMoveData(len(userIDs))
	d.TurnPlayerID = 0
	d.push(StartGame{Player: 0})
	if err := g.resolve(d); err != nil {
		return nil, err
	}
	g.history = []*MoveData{d}
	return g, nil
}

// Current is the latest snapshot.
func (g *Game) Current() *MoveData { return g.history[len(g.history)-1] }

// MoveData returns the snapshot at index i.
func (g *Game) MoveData(i int) (*MoveData, bool) {
	if i < 0 || i >= len(g.history) {
		return nil, false
	}
	return g.history[i], true
}

// History returns all snapshots in order. The slice is a copy; the snapshots are shared.
func (g *Game) History() []*MoveData { return append([]*MoveData(nil), g.history...) }

func (g *Game) NumPlayers() int { return len(g.UserIDs) }

// PlayerIDForUser returns the player ID of userID, or NoPlayer for spectators.
func (g *Game) PlayerIDForUser(userID string) int {
	for i, id := range g.UserIDs {
		if id == userID {
			return i
		}
	}
	return NoPlayer
}

func (g *Game) TileBag() []int { return append([]int(nil), g.tileBag...) }

func (g *Game) Status() GameStatus {
	if g.Current().IsGameOver() {
		return StatusCompleted
	}
	return StatusInProgress
}

// ProcessMoveDataMessage applies one action message from userID. The message
// is [actionKind, params...]. On error nothing changes and the same action
// stays pending; on success exactly one snapshot is appended and returned.
func (g *Game) ProcessMoveDataMessage(userID string, message []any) (*MoveData, error) {
	tail := g.Current()
	if tail.IsGameOver() {
		return nil, ErrGameOver
	}
	if len(message) == 0 {
		return nil, ErrMalformedMessage
	}
	kind, ok := toInt(message[0])
	if !ok {
		return nil, ErrMalformedMessage
	}
	action := tail.NextAction()
	if ActionKind(kind) != action.Kind() {
		return nil, fmt.Errorf("%w: got %s, want %s", ErrUnexpectedAction, ActionKind(kind), action.Kind())
	}
	if g.PlayerIDForUser(userID) != action.PlayerID() {
		return nil, ErrNotYourTurn
	}

	params := message[1:]
	d := tail.draft()
	d.PlayerID = action.PlayerID()
	d.Action = action.Kind()
	d.Params = params
	next, err := action.Execute(g, d, params)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", action.Kind(), err)
	}
	d.pop()
	d.push(next...)
	if err := g.resolve(d); err != nil {
		return nil, err
	}

	g.history = append(g.history, d)
	g.moves = append(g.moves, TranscriptMove{UserID: userID, Message: append([]any(nil), message...)})
	return d, nil
}

// resolve runs the action stack of d until an action waits for input.
func (g *Game) resolve(d *MoveData) error {
	for {
		d.refreshScores()
		d.refreshRackTypes()
		if len(d.actions) == 0 {
			g.endTurn(d)
			continue
		}
		a := d.NextAction()
		params := a.Prepare(g, d)
		if params == nil {
			return nil
		}
		next, err := a.Execute(g, d, params)
		if err != nil {
			return fmt.Errorf("auto-resolving %s: %w", a.Kind(), err)
		}
		d.pop()
		d.push(next...)
	}
}

// endTurn refills the turn player's rack and hands the turn on, or ends the game.
func (g *Game) endTurn(d *MoveData) {
	p := d.TurnPlayerID
	for slot, typ := range d.TileRackTypes[p] {
		if typ == CantPlayEver {
			tile := d.TileRacks[p][slot]
			d.Revealed = append(d.Revealed, tile)
			d.removeTile(p, slot)
			d.addHistory(HistoryReplacedDeadTile, p, tile)
		}
	}
	for g.drawIntoRack(d, p) {
	}

	n := len(g.UserIDs)
	if d.NumTurnsWithoutPlayedTiles >= n {
		d.addHistory(HistoryNoTilesPlayedForEntireRound, NoPlayer)
		d.push(GameOver{})
		return
	}
	empty := true
	for _, rack := range d.TileRacks {
		for _, t := range rack {
			if t != NoTile {
				empty = false
			}
		}
	}
	if empty {
		d.addHistory(HistoryAllTilesPlayed, NoPlayer)
		d.push(GameOver{})
		return
	}

	next := (p + 1) % n
	d.TurnPlayerID = next
	d.push(PlayTile{Player: next}, PurchaseShares{Player: next})
}

func (g *Game) drawTile(d *MoveData) (int, bool) {
	if d.TileBagIndex >= len(g.tileBag) {
		return NoTile, false
	}
	t := g.tileBag[d.TileBagIndex]
	d.TileBagIndex++
	return t, true
}

// drawIntoRack fills the first empty slot of the player's rack. It reports
// false when the rack is full or the bag is empty.
func (g *Game) drawIntoRack(d *MoveData, p int) bool {
	slot := d.rackIndexEmpty(p)
	if slot < 0 {
		return false
	}
	tile, ok := g.drawTile(d)
	if !ok {
		return false
	}
	d.TileRacks[p][slot] = tile
	d.Drawn[p] = append(d.Drawn[p], tile)
	if d.TileBagIndex == len(g.tileBag) {
		d.addHistory(HistoryDrewLastTile, p)
	}
	return true
}

// TeamScores sums net worth per team, team i holding players i, i+numTeams, ...
// It returns nil for single-player modes or before the game is over.
func (g *Game) TeamScores() []int {
	d := g.Current()
	numTeams := g.GameMode.NumTeams()
	if numTeams == 0 || d.NetWorth == nil {
		return nil
	}
	out := make([]int, numTeams)
	for p, w := range d.NetWorth {
		out[p%numTeams] += w
	}
	return out
}
