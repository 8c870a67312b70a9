package game

import (
	"encoding/json"
	"fmt"
)

// TranscriptMove is one accepted action message and the user who sent it.
type TranscriptMove struct {
	UserID  string `json:"userId"`
	Message []any  `json:"message"`
}

// Transcript is everything needed to rebuild a game's history: the resolved
// roster and tile bag, then every accepted message in order.
type Transcript struct {
	GameMode        GameMode         `json:"gameMode"`
	ArrangementMode ArrangementMode  `json:"playerArrangementMode"`
	UserIDs         []string         `json:"userIds"`
	Usernames       []string         `json:"usernames"`
	TileBag         []int            `json:"tileBag"`
	Moves           []TranscriptMove `json:"moves"`
}

func (g *Game) Transcript() Transcript {
	return Transcript{
		GameMode:        g.GameMode,
		ArrangementMode: g.ArrangementMode,
		UserIDs:         append([]string(nil), g.UserIDs...),
		Usernames:       append([]string(nil), g.Usernames...),
		TileBag:         g.TileBag(),
		Moves:           append([]TranscriptMove(nil), g.moves...),
	}
}

// Replay rebuilds a game from its transcript. Every recorded move must be
// accepted again; a rejected move means the transcript is corrupt.
func Replay(t Transcript) (*Game, error) {
	g, err := NewGameWithTileBag(t.GameMode, t.ArrangementMode, t.UserIDs, t.Usernames, t.TileBag)
	if err != nil {
		return nil, err
	}
	for i, m := range t.Moves {
		if _, err := g.ProcessMoveDataMessage(m.UserID, m.Message); err != nil {
			return nil, fmt.Errorf("replaying move %d: %w", i+1, err)
		}
	}
	return g, nil
}

// ParseTranscript decodes a JSON transcript. Numbers inside messages decode as
// float64, which actions accept as integers.
func ParseTranscript(data []byte) (Transcript, error) {
	var t Transcript
	if err := json.Unmarshal(data, &t); err != nil {
		return Transcript{}, err
	}
	return t, nil
}
