package game

import (
	"encoding/json"
	"errors"
	"math"
)

// Recoverable input errors. They are reported to the player who sent the
// message and never change the game.
var (
	ErrMalformedMessage    = errors.New("malformed game action message")
	ErrUnexpectedAction    = errors.New("game is not waiting for this action")
	ErrNotYourTurn         = errors.New("not your turn")
	ErrGameOver            = errors.New("game is over")
	ErrStaleMove           = errors.New("move index is not the latest")
	ErrWrongParameterCount = errors.New("wrong number of parameters")
	ErrNotAnInteger        = errors.New("parameter is not an integer")
	ErrNotAList            = errors.New("parameter is not a list")
	ErrTileNotInRack       = errors.New("player does not have given tile")
	ErrTileNotPlayable     = errors.New("tile cannot be played")
	ErrInvalidChain        = errors.New("chain is not a valid choice")
	ErrTooManyShares       = errors.New("cannot buy more than 3 shares")
	ErrNotEnoughShares     = errors.New("not enough shares available")
	ErrNotEnoughCash       = errors.New("not enough cash")
	ErrCannotEndGame       = errors.New("game cannot be ended yet")
	ErrInvalidEndGameFlag  = errors.New("end game flag must be 0 or 1")
	ErrInvalidDisposal     = errors.New("invalid share disposal")
)

var inputErrors = []error{
	ErrMalformedMessage, ErrUnexpectedAction, ErrNotYourTurn, ErrGameOver, ErrStaleMove,
	ErrWrongParameterCount, ErrNotAnInteger, ErrNotAList, ErrTileNotInRack, ErrTileNotPlayable,
	ErrInvalidChain, ErrTooManyShares, ErrNotEnoughShares, ErrNotEnoughCash, ErrCannotEndGame,
	ErrInvalidEndGameFlag, ErrInvalidDisposal,
}

// IsInputError reports whether err was caused by the player's message rather than by the server.
func IsInputError(err error) bool {
	for _, target := range inputErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// Action is one step of a turn. Prepare runs when the action reaches the top
// of the stack: nil means it waits for the acting player, anything else is
// executed right away as if the player had sent it. Execute validates params
// before touching d and returns the actions to run next.
type Action interface {
	Kind() ActionKind
	PlayerID() int
	Prepare(g *Game, d *MoveData) []any
	Execute(g *Game, d *MoveData, params []any) ([]Action, error)
}

// passTurn stands in for the tile of a player without a playable tile. It
// cannot be produced by decoding a wire message.
type passTurn struct{}

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int32:
		return int(n), true
	case int64:
		return int(n), true
	case float64:
		if n != math.Trunc(n) || math.IsInf(n, 0) {
			return 0, false
		}
		return int(n), true
	case json.Number:
		i, err := n.Int64()
		return int(i), err == nil
	}
	return 0, false
}

func toIntList(v any) ([]int, error) {
	switch l := v.(type) {
	case []int:
		return l, nil
	case []any:
		out := make([]int, len(l))
		for i, e := range l {
			n, ok := toInt(e)
			if !ok {
				return nil, ErrNotAnInteger
			}
			out[i] = n
		}
		return out, nil
	}
	return nil, ErrNotAList
}

// chainParam parses a single chain selection out of params and checks it against choices.
func chainParam(params []any, choices []BoardType) (BoardType, error) {
	if len(params) != 1 {
		return 0, ErrWrongParameterCount
	}
	n, ok := toInt(params[0])
	if !ok {
		return 0, ErrNotAnInteger
	}
	for _, c := range choices {
		if BoardType(n) == c {
			return c, nil
		}
	}
	return 0, ErrInvalidChain
}

type StartGame struct{ Player int }

func (a StartGame) Kind() ActionKind { return ActionStartGame }
func (a StartGame) PlayerID() int    { return a.Player }

func (a StartGame) Prepare(*Game, *MoveData) []any { return nil }

func (a StartGame) Execute(g *Game, d *MoveData, params []any) ([]Action, error) {
	if len(params) != 0 {
		return nil, ErrWrongParameterCount
	}
	for p := range g.UserIDs {
		tile, ok := g.drawTile(d)
		if !ok {
			break
		}
		d.Board[tile] = NothingYet
		d.Revealed = append(d.Revealed, tile)
		d.addHistory(HistoryDrewPositionTile, p, tile)
	}
	d.addHistory(HistoryStartedGame, a.Player)
	for p := range g.UserIDs {
		for g.drawIntoRack(d, p) {
		}
	}
	return []Action{PlayTile{Player: 0}, PurchaseShares{Player: 0}}, nil
}

type PlayTile struct{ Player int }

func (a PlayTile) Kind() ActionKind { return ActionPlayTile }
func (a PlayTile) PlayerID() int    { return a.Player }

func (a PlayTile) Prepare(g *Game, d *MoveData) []any {
	d.addHistory(HistoryTurnBegan, a.Player)
	for _, t := range d.TileRackTypes[a.Player] {
		if t.IsPlayable() {
			d.NumTurnsWithoutPlayedTiles = 0
			return nil
		}
	}
	d.NumTurnsWithoutPlayedTiles++
	d.addHistory(HistoryHasNoPlayableTile, a.Player)
	return []any{passTurn{}}
}

func (a PlayTile) Execute(g *Game, d *MoveData, params []any) ([]Action, error) {
	if len(params) != 1 {
		return nil, ErrWrongParameterCount
	}
	if _, ok := params[0].(passTurn); ok {
		return nil, nil
	}
	tile, ok := toInt(params[0])
	if !ok {
		return nil, ErrNotAnInteger
	}
	slot := d.rackIndex(a.Player, tile)
	if slot < 0 {
		return nil, ErrTileNotInRack
	}

	var next []Action
	typ := d.TileRackTypes[a.Player][slot]
	switch {
	case typ == WillPutLonelyTileDown, typ == HaveNeighboringTileToo:
		d.Board[tile] = NothingYet
	case typ.IsChain():
		fill(&d.Board, tile, typ, nil)
	case typ == WillFormNewChain:
		d.Board[tile] = NothingYet
		next = []Action{SelectNewChain{Player: a.Player, Tile: tile, Chains: d.chainsAvailable()}}
	case typ == WillMergeChains:
		d.Board[tile] = NothingYet
		chains := neighboringChains(&d.Board, tile)
		next = []Action{SelectMergerSurvivor{Player: a.Player, Tile: tile, Chains: chains, Candidates: largestChains(d, chains)}}
	default:
		return nil, ErrTileNotPlayable
	}

	d.Revealed = append(d.Revealed, tile)
	d.removeTile(a.Player, slot)
	d.addHistory(HistoryPlayedTile, a.Player, tile)
	if typ.IsChain() {
		d.addHistory(HistoryGrewChain, a.Player, int(typ))
	}
	return next, nil
}

// largestChains returns the chains among chains sharing the maximum size.
func largestChains(d *MoveData, chains []BoardType) []BoardType {
	max := 0
	for _, c := range chains {
		if d.ChainSize[c] > max {
			max = d.ChainSize[c]
		}
	}
	var out []BoardType
	for _, c := range chains {
		if d.ChainSize[c] == max {
			out = append(out, c)
		}
	}
	return out
}
