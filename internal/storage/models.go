package storage

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/kiliankoe/acquire/internal/game"
)

// GameRecord is the header of a started game. Lists are stored as JSON text.
type GameRecord struct {
	ID              uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	GameMode        int
	ArrangementMode int
	UserIDs         string
	Usernames       string
	TileBag         string
	CreatedAt       time.Time
	UpdatedAt       time.Time
	Moves           []MoveRecord `gorm:"foreignKey:GameID;constraint:OnDelete:CASCADE;"`
}

func (GameRecord) TableName() string { return "games" }

// MoveRecord stores one accepted game action message.
type MoveRecord struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	GameID    uuid.UUID `gorm:"type:uuid;index;uniqueIndex:idx_game_move"`
	MoveIndex int       `gorm:"uniqueIndex:idx_game_move"`
	UserID    string
	Message   string
	CreatedAt time.Time
}

func (MoveRecord) TableName() string { return "moves" }

func newGameRecord(id uuid.UUID, t game.Transcript) (GameRecord, error) {
	rec := GameRecord{ID: id, GameMode: int(t.GameMode), ArrangementMode: int(t.ArrangementMode)}
	for _, f := range []struct {
		dst *string
		v   any
	}{{&rec.UserIDs, t.UserIDs}, {&rec.Usernames, t.Usernames}, {&rec.TileBag, t.TileBag}} {
		b, err := json.Marshal(f.v)
		if err != nil {
			return GameRecord{}, err
		}
		*f.dst = string(b)
	}
	return rec, nil
}

func newMoveRecord(gameID uuid.UUID, index int, m game.TranscriptMove) (MoveRecord, error) {
	b, err := json.Marshal(m.Message)
	if err != nil {
		return MoveRecord{}, err
	}
	return MoveRecord{GameID: gameID, MoveIndex: index, UserID: m.UserID, Message: string(b)}, nil
}

// transcript rebuilds a transcript from a header and its moves ordered by index.
func (r GameRecord) transcript(moves []MoveRecord) (game.Transcript, error) {
	t := game.Transcript{GameMode: game.GameMode(r.GameMode), ArrangementMode: game.ArrangementMode(r.ArrangementMode)}
	for _, f := range []struct {
		src string
		dst any
	}{{r.UserIDs, &t.UserIDs}, {r.Usernames, &t.Usernames}, {r.TileBag, &t.TileBag}} {
		if err := json.Unmarshal([]byte(f.src), f.dst); err != nil {
			return game.Transcript{}, err
		}
	}
	for _, m := range moves {
		var msg []any
		if err := json.Unmarshal([]byte(m.Message), &msg); err != nil {
			return game.Transcript{}, err
		}
		t.Moves = append(t.Moves, game.TranscriptMove{UserID: m.UserID, Message: msg})
	}
	return t, nil
}
