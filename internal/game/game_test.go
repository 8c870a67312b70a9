package game

import (
	"errors"
	"math/rand"
	"reflect"
	"sort"
	"testing"
)

// testBag keeps every dealt tile apart so all plays start out lonely.
var testBag = []int{
	54, 107, // position tiles
	56, 58, 74, 76, 92, 94, // player 0
	60, 62, 78, 80, 96, 100, // player 1
	64, 66, 82, 84, 102, 104, 46, 48,
}

func newTestGame(t *testing.T) *Game {
	t.Helper()
	g, err := NewGameWithTileBag(Singles2, ExactOrder, []string{"a", "b"}, []string{"A", "B"}, testBag)
	if err != nil {
		t.Fatalf("failed to create game: %v", err)
	}
	play(t, g, "a", ActionStartGame)
	return g
}

func play(t *testing.T, g *Game, userID string, kind ActionKind, params ...any) *MoveData {
	t.Helper()
	d, err := g.ProcessMoveDataMessage(userID, append([]any{int(kind)}, params...))
	if err != nil {
		t.Fatalf("%s by %s rejected: %v", kind, userID, err)
	}
	return d
}

// arrange edits the latest snapshot in place and reclassifies the racks.
func arrange(g *Game, edit func(d *MoveData)) {
	d := g.Current()
	edit(d)
	d.refreshScores()
	d.refreshRackTypes()
}

func historyKinds(d *MoveData) []HistoryKind {
	out := make([]HistoryKind, len(d.History))
	for i, m := range d.History {
		out[i] = m.Kind
	}
	return out
}

func TestSinglesThreeFromSetup(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	s := NewGameSetup(Singles3, RandomOrder, "h", usernameFor, rng)
	s.AddUser("a")
	s.AddUser("b")
	for _, id := range []string{"h", "a", "b"} {
		s.Approve(id)
	}
	if !s.ApprovedByEverybody {
		t.Fatal("expected everybody to have approved")
	}

	ids, names := s.FinalUserIDsAndUsernames()
	sorted := append([]string(nil), ids...)
	sort.Strings(sorted)
	if !reflect.DeepEqual(sorted, []string{"a", "b", "h"}) {
		t.Fatalf("expected a permutation of the seats, got %v", ids)
	}

	g, err := NewGame(s.GameMode, s.ArrangementMode, ids, names, rng)
	if err != nil {
		t.Fatalf("failed to create game: %v", err)
	}
	if len(g.History()) != 1 {
		t.Fatalf("expected one snapshot, got %d", len(g.History()))
	}
	d := g.Current()
	if d.TurnPlayerID != 0 || d.MovePlayerID() != 0 {
		t.Fatalf("expected player 0 to act, got turn %d move %d", d.TurnPlayerID, d.MovePlayerID())
	}
	if d.NextAction().Kind() != ActionStartGame {
		t.Fatalf("expected StartGame, got %s", d.NextAction().Kind())
	}
	if g.UserIDs[d.TurnPlayerID] != ids[0] {
		t.Fatal("turn player must be the first user in the final order")
	}
	if g.Status() != StatusInProgress {
		t.Fatalf("expected in progress, got %d", g.Status())
	}
	if len(g.TileBag()) != NumTiles {
		t.Fatalf("expected a full tile bag, got %d", len(g.TileBag()))
	}
}

func TestNewGameRejectsBadInput(t *testing.T) {
	if _, err := NewGameWithTileBag(Singles3, RandomOrder, []string{"a", "b"}, []string{"A", "B"}, nil); !errors.Is(err, ErrWrongRosterSize) {
		t.Fatalf("expected ErrWrongRosterSize, got %v", err)
	}
	if _, err := NewGameWithTileBag(Singles2, RandomOrder, []string{"a", "b"}, []string{"A", "B"}, []int{1, 1}); !errors.Is(err, ErrInvalidTileBag) {
		t.Fatalf("expected ErrInvalidTileBag, got %v", err)
	}
	if _, err := NewGameWithTileBag(Singles2, RandomOrder, []string{"a", "b"}, []string{"A", "B"}, []int{NumTiles}); !errors.Is(err, ErrInvalidTileBag) {
		t.Fatalf("expected ErrInvalidTileBag, got %v", err)
	}
}

func TestStartGame(t *testing.T) {
	g := newTestGame(t)
	d := g.Current()

	if d.Index != 1 || d.PlayerID != 0 || d.Action != ActionStartGame {
		t.Fatalf("unexpected snapshot header %d %d %s", d.Index, d.PlayerID, d.Action)
	}
	want := []HistoryKind{HistoryDrewPositionTile, HistoryDrewPositionTile, HistoryStartedGame, HistoryTurnBegan}
	if !reflect.DeepEqual(historyKinds(d), want) {
		t.Fatalf("expected %v, got %v", want, historyKinds(d))
	}
	if d.Board[54] != NothingYet || d.Board[107] != NothingYet {
		t.Fatal("expected position tiles on the board")
	}
	if d.TileRacks[0] != [RackSize]int{56, 58, 74, 76, 92, 94} {
		t.Fatalf("unexpected rack %v", d.TileRacks[0])
	}
	if d.TileRacks[1] != [RackSize]int{60, 62, 78, 80, 96, 100} {
		t.Fatalf("unexpected rack %v", d.TileRacks[1])
	}
	if d.TileBagIndex != 14 {
		t.Fatalf("expected 14 tiles drawn, got %d", d.TileBagIndex)
	}
	for p := range d.TileRackTypes {
		for _, typ := range d.TileRackTypes[p] {
			if typ != WillPutLonelyTileDown {
				t.Fatalf("expected lonely tiles, got %s", typ)
			}
		}
	}
	if a := d.NextAction(); a.Kind() != ActionPlayTile || a.PlayerID() != 0 {
		t.Fatalf("expected PlayTile by 0, got %s by %d", a.Kind(), a.PlayerID())
	}
}

func TestProcessMoveDataMessageRejections(t *testing.T) {
	g := newTestGame(t)
	tests := []struct {
		name    string
		userID  string
		message []any
		want    error
	}{
		{"empty", "a", nil, ErrMalformedMessage},
		{"non integer kind", "a", []any{"PlayTile", 56}, ErrMalformedMessage},
		{"wrong action", "a", []any{int(ActionPurchaseShares), []any{}, 0}, ErrUnexpectedAction},
		{"wrong player", "b", []any{int(ActionPlayTile), 60}, ErrNotYourTurn},
		{"spectator", "zzz", []any{int(ActionPlayTile), 56}, ErrNotYourTurn},
		{"missing tile", "a", []any{int(ActionPlayTile)}, ErrWrongParameterCount},
		{"fractional tile", "a", []any{int(ActionPlayTile), 56.5}, ErrNotAnInteger},
		{"other player's tile", "a", []any{int(ActionPlayTile), 60}, ErrTileNotInRack},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := g.ProcessMoveDataMessage(tt.userID, tt.message)
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
			if !IsInputError(err) {
				t.Fatalf("expected %v to be an input error", err)
			}
		})
	}
	if len(g.History()) != 2 {
		t.Fatalf("rejected messages must not add snapshots, got %d", len(g.History()))
	}
}

func TestUnplayableTilesRejected(t *testing.T) {
	tests := []struct {
		name  string
		tile  int
		board func(b *[NumTiles]BoardType)
		want  BoardType
	}{
		{"no chain left to found", 56, func(b *[NumTiles]BoardType) {
			for c := 0; c < NumChains; c++ {
				b[c], b[9+c] = BoardType(c), BoardType(c)
			}
			b[57] = NothingYet
		}, CantPlayNow},
		{"between two safe chains", 74, func(b *[NumTiles]BoardType) {
			for tile := 0; tile < 10; tile++ {
				b[tile], b[10+tile] = Tower, Luxor
			}
			b[65], b[83] = Tower, Luxor
		}, CantPlayEver},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newTestGame(t)
			arrange(g, func(d *MoveData) { tt.board(&d.Board) })
			d := g.Current()
			slot := d.rackIndex(0, tt.tile)
			if got := d.TileRackTypes[0][slot]; got != tt.want {
				t.Fatalf("expected %s, got %s", tt.want, got)
			}

			before := len(g.History())
			_, err := g.ProcessMoveDataMessage("a", []any{int(ActionPlayTile), tt.tile})
			if !errors.Is(err, ErrTileNotPlayable) || !IsInputError(err) {
				t.Fatalf("expected ErrTileNotPlayable, got %v", err)
			}
			if len(g.History()) != before {
				t.Fatalf("rejected tile must not add snapshots, got %d", len(g.History()))
			}
			if g.Current() != d || d.Board[tt.tile] != Nothing {
				t.Fatal("rejected tile must leave the board untouched")
			}
			if a := d.NextAction(); a.Kind() != ActionPlayTile || a.PlayerID() != 0 {
				t.Fatalf("expected PlayTile by 0 to stay pending, got %s by %d", a.Kind(), a.PlayerID())
			}
		})
	}
}

func TestPlayTileGrowsChain(t *testing.T) {
	g := newTestGame(t)
	arrange(g, func(d *MoveData) { d.Board[65], d.Board[73] = Tower, Tower })

	d := play(t, g, "a", ActionPlayTile, 56)
	if d.Board[56] != Tower || d.ChainSize[Tower] != 3 {
		t.Fatalf("expected Tower to grow to 3, got %s/%d", d.Board[56], d.ChainSize[Tower])
	}
	want := []HistoryKind{HistoryPlayedTile, HistoryGrewChain}
	if !reflect.DeepEqual(historyKinds(d), want) {
		t.Fatalf("expected %v, got %v", want, historyKinds(d))
	}
	if d.History[1].Params[0] != int(Tower) {
		t.Fatalf("expected Tower in history, got %v", d.History[1].Params)
	}
}

func TestLonelyTurnsAlternate(t *testing.T) {
	g := newTestGame(t)
	prev := g.Current()
	prevBoard, prevRack := prev.Board, prev.TileRacks[0]

	d := play(t, g, "a", ActionPlayTile, float64(56))
	want := []HistoryKind{HistoryPlayedTile, HistoryTurnBegan}
	if !reflect.DeepEqual(historyKinds(d), want) {
		t.Fatalf("expected %v, got %v", want, historyKinds(d))
	}
	if d.Board[56] != NothingYet {
		t.Fatalf("expected tile on the board, got %s", d.Board[56])
	}
	if d.TileRacks[0] != [RackSize]int{64, 58, 74, 76, 92, 94} {
		t.Fatalf("expected refilled rack, got %v", d.TileRacks[0])
	}
	if !reflect.DeepEqual(d.Drawn[0], []int{64}) {
		t.Fatalf("expected 64 to be drawn, got %v", d.Drawn[0])
	}
	if d.TurnPlayerID != 1 || d.MovePlayerID() != 1 {
		t.Fatalf("expected player 1, got %d", d.TurnPlayerID)
	}
	if prev.Board != prevBoard || prev.TileRacks[0] != prevRack {
		t.Fatal("earlier snapshots must not change")
	}

	d = play(t, g, "b", ActionPlayTile, 60)
	if d.TurnPlayerID != 0 || d.Board[60] != NothingYet {
		t.Fatal("expected the turn to return to player 0")
	}
	if d.Index != 3 || len(g.History()) != 4 {
		t.Fatalf("expected 4 snapshots, got %d", len(g.History()))
	}
}

func TestFoundChainAndPurchase(t *testing.T) {
	g := newTestGame(t)
	arrange(g, func(d *MoveData) { d.TileRacks[0][0] = 55 })
	if typ := g.Current().TileRackTypes[0][0]; typ != WillFormNewChain {
		t.Fatalf("expected WillFormNewChain, got %s", typ)
	}

	d := play(t, g, "a", ActionPlayTile, 55)
	if a := d.NextAction(); a.Kind() != ActionSelectNewChain {
		t.Fatalf("expected SelectNewChain, got %s", a.Kind())
	}
	if _, err := g.ProcessMoveDataMessage("a", []any{int(ActionSelectNewChain), 9}); !errors.Is(err, ErrInvalidChain) {
		t.Fatalf("expected ErrInvalidChain, got %v", err)
	}

	d = play(t, g, "a", ActionSelectNewChain, int(American))
	if d.Board[54] != American || d.Board[55] != American {
		t.Fatal("expected both tiles in the new chain")
	}
	if d.ChainSize[American] != 2 || d.Price[American] != 300 {
		t.Fatalf("expected size 2 price 300, got %d %d", d.ChainSize[American], d.Price[American])
	}
	if d.Shares[0][American] != 1 || d.Available[American] != SharesPerChain-1 {
		t.Fatal("expected the founder share")
	}
	if a := d.NextAction(); a.Kind() != ActionPurchaseShares || a.PlayerID() != 0 {
		t.Fatalf("expected PurchaseShares by 0, got %s", a.Kind())
	}

	rejections := []struct {
		name   string
		params []any
		want   error
	}{
		{"wrong count", []any{[]any{}}, ErrWrongParameterCount},
		{"not a list", []any{2, 0}, ErrNotAList},
		{"bad flag", []any{[]any{}, 2}, ErrInvalidEndGameFlag},
		{"too many", []any{[]any{2, 2, 2, 2}, 0}, ErrTooManyShares},
		{"not on board", []any{[]any{int(Luxor)}, 0}, ErrInvalidChain},
		{"cannot end", []any{[]any{}, 1}, ErrCannotEndGame},
	}
	for _, tt := range rejections {
		t.Run(tt.name, func(t *testing.T) {
			_, err := g.ProcessMoveDataMessage("a", append([]any{int(ActionPurchaseShares)}, tt.params...))
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}

	d = play(t, g, "a", ActionPurchaseShares, []any{float64(American), float64(American)}, 0)
	if d.Shares[0][American] != 3 || d.Cash[0] != StartingCash-600 {
		t.Fatalf("expected 3 shares and $5400, got %d and %d", d.Shares[0][American], d.Cash[0])
	}
	if d.Available[American] != SharesPerChain-3 {
		t.Fatalf("expected 22 available, got %d", d.Available[American])
	}
	if d.TurnPlayerID != 1 {
		t.Fatalf("expected player 1, got %d", d.TurnPlayerID)
	}
}

func TestPurchaseLimitedByCashAndStock(t *testing.T) {
	g := newTestGame(t)
	arrange(g, func(d *MoveData) {
		d.Board[0], d.Board[1] = Imperial, Imperial
		d.Cash[0] = 700
		d.Available[Imperial] = 2
	})
	play(t, g, "a", ActionPlayTile, 56)

	if _, err := g.ProcessMoveDataMessage("a", []any{int(ActionPurchaseShares), []any{6, 6, 6}, 0}); !errors.Is(err, ErrNotEnoughShares) {
		t.Fatalf("expected ErrNotEnoughShares, got %v", err)
	}
	if _, err := g.ProcessMoveDataMessage("a", []any{int(ActionPurchaseShares), []any{6, 6}, 0}); !errors.Is(err, ErrNotEnoughCash) {
		t.Fatalf("expected ErrNotEnoughCash, got %v", err)
	}
}

func TestPurchaseSkippedWhenUnaffordable(t *testing.T) {
	g := newTestGame(t)
	arrange(g, func(d *MoveData) {
		d.Board[0], d.Board[1] = Imperial, Imperial
		d.Cash[0] = 100
	})
	d := play(t, g, "a", ActionPlayTile, 56)
	want := []HistoryKind{HistoryPlayedTile, HistoryCouldNotAffordAnyShares, HistoryTurnBegan}
	if !reflect.DeepEqual(historyKinds(d), want) {
		t.Fatalf("expected %v, got %v", want, historyKinds(d))
	}
	if d.TurnPlayerID != 1 {
		t.Fatal("expected the purchase to be skipped")
	}
}

func TestMerger(t *testing.T) {
	g := newTestGame(t)
	arrange(g, func(d *MoveData) {
		d.Board[0], d.Board[1] = Luxor, Luxor
		d.Board[3], d.Board[4] = Tower, Tower
		d.TileRacks[0][0] = 2
		d.Shares[0][Luxor], d.Shares[1][Luxor] = 2, 1
		d.Available[Luxor] = SharesPerChain - 3
	})

	d := play(t, g, "a", ActionPlayTile, 2)
	if a := d.NextAction(); a.Kind() != ActionSelectMergerSurvivor {
		t.Fatalf("expected SelectMergerSurvivor, got %s", a.Kind())
	}

	d = play(t, g, "a", ActionSelectMergerSurvivor, int(Tower))
	if d.Cash[0] != StartingCash+2000 || d.Cash[1] != StartingCash+1000 {
		t.Fatalf("expected bonuses of 2000 and 1000, got %v", d.Cash)
	}
	for _, tile := range []int{0, 1, 2, 3, 4} {
		if d.Board[tile] != Tower {
			t.Fatalf("expected tile %d in Tower, got %s", tile, d.Board[tile])
		}
	}
	merged := d.History[len(d.History)-1]
	if merged.Kind != HistoryMergedChains || !reflect.DeepEqual(merged.Params, []int{int(Tower), int(Luxor)}) {
		t.Fatalf("unexpected merge message %+v", merged)
	}
	if a := d.NextAction(); a.Kind() != ActionDisposeOfShares || a.PlayerID() != 0 {
		t.Fatalf("expected DisposeOfShares by 0, got %s by %d", a.Kind(), a.PlayerID())
	}

	if _, err := g.ProcessMoveDataMessage("a", []any{int(ActionDisposeOfShares), 1, 0}); !errors.Is(err, ErrInvalidDisposal) {
		t.Fatalf("odd trades must be rejected, got %v", err)
	}
	if _, err := g.ProcessMoveDataMessage("a", []any{int(ActionDisposeOfShares), 2, 1}); !errors.Is(err, ErrInvalidDisposal) {
		t.Fatalf("disposing of more than held must be rejected, got %v", err)
	}

	d = play(t, g, "a", ActionDisposeOfShares, 2, 0)
	if d.Shares[0][Luxor] != 0 || d.Shares[0][Tower] != 1 {
		t.Fatalf("expected a 2:1 trade, got %v", d.Shares[0])
	}
	if d.MovePlayerID() != 1 || d.TurnPlayerID != 0 {
		t.Fatalf("expected player 1 to dispose during player 0's turn, got %d/%d", d.MovePlayerID(), d.TurnPlayerID)
	}

	d = play(t, g, "b", ActionDisposeOfShares, 0, 1)
	if d.Cash[1] != StartingCash+1000+200 {
		t.Fatalf("expected the share to sell at the pre-merger price, got %d", d.Cash[1])
	}
	if d.Available[Luxor] != SharesPerChain || d.Available[Tower] != SharesPerChain-1 {
		t.Fatalf("unexpected availability %v", d.Available)
	}
	if a := d.NextAction(); a.Kind() != ActionPurchaseShares || a.PlayerID() != 0 {
		t.Fatalf("expected PurchaseShares by 0, got %s", a.Kind())
	}
	if d.ChainSize[Tower] != 5 || d.Price[Tower] != 500 || d.ChainSize[Luxor] != 0 {
		t.Fatalf("unexpected chain sizes %v", d.ChainSize)
	}
}

func TestMergerSkipsPlayersWithoutShares(t *testing.T) {
	g := newTestGame(t)
	arrange(g, func(d *MoveData) {
		d.Board[0], d.Board[1] = Luxor, Luxor
		d.Board[3], d.Board[4], d.Board[5] = Tower, Tower, Tower
		d.TileRacks[0][0] = 2
		d.Shares[1][Luxor] = 2
		d.Available[Luxor] = SharesPerChain - 2
	})

	// Tower is larger, so the survivor and the defunct chain resolve on their own.
	d := play(t, g, "a", ActionPlayTile, 2)
	if d.Cash[1] != StartingCash+3000 {
		t.Fatalf("expected the sole holder to take both bonuses, got %d", d.Cash[1])
	}
	if a := d.NextAction(); a.Kind() != ActionDisposeOfShares || a.PlayerID() != 1 {
		t.Fatalf("expected DisposeOfShares by 1, got %s by %d", a.Kind(), a.PlayerID())
	}
}

func TestBonusSplitOnTie(t *testing.T) {
	d := newMoveData(3)
	d.Board[0], d.Board[1] = Luxor, Luxor
	d.refreshScores()
	d.Shares[0][Luxor], d.Shares[1][Luxor], d.Shares[2][Luxor] = 3, 3, 1

	payBonuses(d, Luxor)
	// 3000 split two ways
	if d.Cash[0] != StartingCash+1500 || d.Cash[1] != StartingCash+1500 || d.Cash[2] != StartingCash {
		t.Fatalf("unexpected cash %v", d.Cash)
	}

	d = newMoveData(4)
	d.Board[0], d.Board[1], d.Board[2] = Tower, Tower, Tower
	d.refreshScores()
	d.Shares[0][Tower], d.Shares[1][Tower], d.Shares[2][Tower] = 4, 2, 2

	payBonuses(d, Tower)
	// 1500 minority split two ways rounds up to 800
	if d.Cash[0] != StartingCash+3000 || d.Cash[1] != StartingCash+800 || d.Cash[2] != StartingCash+800 {
		t.Fatalf("unexpected cash %v", d.Cash)
	}
}

func TestGameOver(t *testing.T) {
	g := newTestGame(t)
	arrange(g, func(d *MoveData) {
		for tile := 0; tile < EndGameSize; tile++ {
			d.Board[tile] = Luxor
		}
	})
	if !g.Current().CanEndGame() {
		t.Fatal("a chain of 41 tiles must allow ending the game")
	}
	play(t, g, "a", ActionPlayTile, 56)

	d := play(t, g, "a", ActionPurchaseShares, []any{int(Luxor)}, 1)
	if !d.IsGameOver() || g.Status() != StatusCompleted {
		t.Fatal("expected the game to be over")
	}
	if d.TurnPlayerID != NoPlayer || d.MovePlayerID() != NoPlayer {
		t.Fatalf("expected nobody to move, got %d/%d", d.TurnPlayerID, d.MovePlayerID())
	}
	// $1000 share, $15000 bonuses, share sold back for $1000.
	if !reflect.DeepEqual(d.NetWorth, []int{StartingCash + 15000, StartingCash}) {
		t.Fatalf("unexpected net worth %v", d.NetWorth)
	}
	if d.Shares[0][Luxor] != 0 || d.Available[Luxor] != SharesPerChain {
		t.Fatal("expected all shares to be sold back")
	}
	kinds := historyKinds(d)
	if kinds[0] != HistoryPurchasedShares || kinds[1] != HistoryEndedGame {
		t.Fatalf("unexpected history %v", kinds)
	}

	if _, err := g.ProcessMoveDataMessage("b", []any{int(ActionPlayTile), 60}); !errors.Is(err, ErrGameOver) {
		t.Fatalf("expected ErrGameOver, got %v", err)
	}
	if g.TeamScores() != nil {
		t.Fatal("singles games have no team scores")
	}
}

func TestGameEndsWhenAllTilesArePlayed(t *testing.T) {
	g := newTestGame(t)
	arrange(g, func(d *MoveData) {
		for p := range d.TileRacks {
			d.TileRacks[p] = rackOf()
		}
		d.TileBagIndex = len(testBag)
	})
	d := g.Current().draft()
	if err := g.resolve(d); err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if !d.IsGameOver() {
		t.Fatalf("expected game over, got %s", d.NextAction().Kind())
	}
	want := []HistoryKind{HistoryTurnBegan, HistoryHasNoPlayableTile, HistoryAllTilesPlayed}
	if !reflect.DeepEqual(historyKinds(d), want) {
		t.Fatalf("expected %v, got %v", want, historyKinds(d))
	}
}

func TestGameEndsAfterARoundWithoutTiles(t *testing.T) {
	g := newTestGame(t)
	arrange(g, func(d *MoveData) {
		d.TileRacks[0] = rackOf()
		d.TileBagIndex = len(testBag)
		d.NumTurnsWithoutPlayedTiles = 1
	})
	d := g.Current().draft()
	if err := g.resolve(d); err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if !d.IsGameOver() || d.NumTurnsWithoutPlayedTiles != 2 {
		t.Fatalf("expected game over after 2 passes, got %d", d.NumTurnsWithoutPlayedTiles)
	}
	kinds := historyKinds(d)
	if kinds[len(kinds)-1] != HistoryNoTilesPlayedForEntireRound {
		t.Fatalf("expected NoTilesPlayedForEntireRound, got %v", kinds)
	}
	if d.NetWorth == nil {
		t.Fatal("expected final scores")
	}
}

func TestPlayTilePassesWithoutPlayableTile(t *testing.T) {
	g := newTestGame(t)
	arrange(g, func(d *MoveData) { d.TileRacks[0] = rackOf() })
	d := g.Current().draft()
	params := PlayTile{Player: 0}.Prepare(g, d)
	if len(params) != 1 {
		t.Fatalf("expected the turn to be passed automatically, got %v", params)
	}
	if d.NumTurnsWithoutPlayedTiles != 1 {
		t.Fatalf("expected 1 turn without tiles, got %d", d.NumTurnsWithoutPlayedTiles)
	}
	next, err := PlayTile{Player: 0}.Execute(g, d, params)
	if err != nil || next != nil {
		t.Fatalf("expected a silent pass, got %v %v", next, err)
	}
	if _, err := g.ProcessMoveDataMessage("a", []any{int(ActionPlayTile), map[string]any{}}); !errors.Is(err, ErrNotAnInteger) {
		t.Fatalf("a pass cannot be sent over the wire, got %v", err)
	}
}

func TestTeamScores(t *testing.T) {
	g, err := NewGameWithTileBag(Teams2v2, SpecifyTeams, []string{"a", "b", "c", "d"}, []string{"A", "B", "C", "D"}, testBag)
	if err != nil {
		t.Fatalf("failed to create game: %v", err)
	}
	g.Current().NetWorth = []int{100, 200, 300, 400}
	if got := g.TeamScores(); !reflect.DeepEqual(got, []int{400, 600}) {
		t.Fatalf("expected [400 600], got %v", got)
	}
}

func TestDelta(t *testing.T) {
	g := newTestGame(t)
	prev := g.Current()
	d := play(t, g, "a", ActionPlayTile, 56)

	mine := d.Delta(prev, 0)
	if !reflect.DeepEqual(mine.BoardChanges, []BoardChange{{Tile: 56, Type: NothingYet}}) {
		t.Fatalf("unexpected board changes %v", mine.BoardChanges)
	}
	if !reflect.DeepEqual(mine.Rack, []int{64, 58, 74, 76, 92, 94}) || !reflect.DeepEqual(mine.Drawn, []int{64}) {
		t.Fatalf("unexpected rack %v drawn %v", mine.Rack, mine.Drawn)
	}
	if mine.NextAction != ActionPlayTile || mine.MovePlayerID != 1 {
		t.Fatalf("unexpected next action %s by %d", mine.NextAction, mine.MovePlayerID)
	}

	spectator := d.Delta(prev, NoPlayer)
	if spectator.Rack != nil || spectator.Drawn != nil {
		t.Fatal("spectators must not see racks")
	}
	if len(d.Delta(nil, 0).BoardChanges) != NumTiles {
		t.Fatal("a delta without a previous snapshot lists every cell")
	}
}
