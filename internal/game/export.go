package game

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// ExportGame appends a readable summary of the game to filename.
func ExportGame(g *Game, displayNumber int, filename string) error {
	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.OpenFile(filename, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	if _, err := file.WriteString(FormatGame(g, displayNumber)); err != nil {
		return fmt.Errorf("failed to write to file: %w", err)
	}
	return nil
}

// FormatGame renders the roster, the move log and the scores of g.
func FormatGame(g *Game, displayNumber int) string {
	var sb strings.Builder
	d := g.Current()

	sb.WriteString(fmt.Sprintf("Acquire Game %d - %s, %s\n", displayNumber, g.GameMode, g.ArrangementMode))
	sb.WriteString(fmt.Sprintf("Exported: %s\n", time.Now().Format("2006-01-02 15:04:05")))
	sb.WriteString(strings.Repeat("=", 50) + "\n\n")

	sb.WriteString("Players:\n")
	for p, name := range g.Usernames {
		sb.WriteString(fmt.Sprintf("%d. %s\n", p+1, name))
	}
	sb.WriteString("\n")

	sb.WriteString("Moves:\n")
	for _, md := range g.history {
		for _, m := range md.History {
			sb.WriteString(fmt.Sprintf("- [%d] %s\n", md.Index, g.describe(m)))
		}
	}
	sb.WriteString("\n")

	type playerScore struct {
		Name  string
		Score int
	}
	worth := d.NetWorth
	if worth == nil {
		worth = d.Cash
	}
	scores := make([]playerScore, 0, len(worth))
	for p, w := range worth {
		scores = append(scores, playerScore{Name: g.Usernames[p], Score: w})
	}
	sort.SliceStable(scores, func(i, j int) bool { return scores[i].Score > scores[j].Score })
	if d.IsGameOver() {
		sb.WriteString("Final scores:\n")
	} else {
		sb.WriteString("Cash so far:\n")
	}
	for _, ps := range scores {
		sb.WriteString(fmt.Sprintf("- %s: $%d\n", ps.Name, ps.Score))
	}
	if teams := g.TeamScores(); teams != nil {
		for t, score := range teams {
			sb.WriteString(fmt.Sprintf("- Team %d: $%d\n", t+1, score))
		}
	}
	sb.WriteString(strings.Repeat("=", 50) + "\n\n")
	return sb.String()
}

func (g *Game) playerName(p int) string {
	if p < 0 || p >= len(g.Usernames) {
		return "Nobody"
	}
	return g.Usernames[p]
}

func chainName(c int) string { return BoardType(c).String() }

// describe renders one history message as a sentence.
func (g *Game) describe(m HistoryMessage) string {
	name := g.playerName(m.PlayerID)
	arg := func(i int) int {
		if i < len(m.Params) {
			return m.Params[i]
		}
		return 0
	}
	switch m.Kind {
	case HistoryTurnBegan:
		return fmt.Sprintf("Turn of %s", name)
	case HistoryDrewPositionTile:
		return fmt.Sprintf("%s drew position tile %s", name, TileLabel(arg(0)))
	case HistoryStartedGame:
		return fmt.Sprintf("%s started the game", name)
	case HistoryHasNoPlayableTile:
		return fmt.Sprintf("%s has no playable tile", name)
	case HistoryPlayedTile:
		return fmt.Sprintf("%s played %s", name, TileLabel(arg(0)))
	case HistoryReplacedDeadTile:
		return fmt.Sprintf("%s replaced dead tile %s", name, TileLabel(arg(0)))
	case HistoryFormedChain:
		return fmt.Sprintf("%s formed %s", name, chainName(arg(0)))
	case HistoryGrewChain:
		return fmt.Sprintf("%s grew %s", name, chainName(arg(0)))
	case HistoryMergedChains:
		var defunct []string
		for _, c := range m.Params[1:] {
			defunct = append(defunct, chainName(c))
		}
		return fmt.Sprintf("%s merged %s into %s", name, strings.Join(defunct, ", "), chainName(arg(0)))
	case HistorySelectedMergerSurvivor:
		return fmt.Sprintf("%s kept %s", name, chainName(arg(0)))
	case HistorySelectedChainToDisposeOfNext:
		return fmt.Sprintf("%s disposes of %s next", name, chainName(arg(0)))
	case HistoryReceivedBonus:
		return fmt.Sprintf("%s received a %s bonus of $%d", name, chainName(arg(0)), arg(1))
	case HistoryDisposedOfShares:
		return fmt.Sprintf("%s traded %d and sold %d %s shares", name, arg(1), arg(2), chainName(arg(0)))
	case HistoryCouldNotAffordAnyShares:
		return fmt.Sprintf("%s could not afford any shares", name)
	case HistoryPurchasedShares:
		var bought []string
		for _, c := range m.Params {
			bought = append(bought, chainName(c))
		}
		return fmt.Sprintf("%s bought %s", name, strings.Join(bought, ", "))
	case HistoryDrewLastTile:
		return fmt.Sprintf("%s drew the last tile", name)
	case HistoryNoTilesPlayedForEntireRound:
		return "No tiles were played for an entire round"
	case HistoryAllTilesPlayed:
		return "All tiles have been played"
	case HistoryEndedGame:
		return fmt.Sprintf("%s ended the game", name)
	}
	return fmt.Sprintf("%s: %s", m.Kind, name)
}
