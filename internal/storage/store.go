package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/kiliankoe/acquire/internal/game"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrNotFound is returned when a game is not stored.
var ErrNotFound = gorm.ErrRecordNotFound

var ErrInvalidID = errors.New("invalid game id")

// Store persists game transcripts in postgres.
type Store struct {
	db *gorm.DB
}

// NewStore wraps db; a nil db gives a nil Store whose methods do nothing.
func NewStore(db *gorm.DB) *Store {
	if db == nil {
		return nil
	}
	return &Store{db: db}
}

func parseID(gameID string) (uuid.UUID, error) {
	id, err := uuid.Parse(gameID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %q", ErrInvalidID, gameID)
	}
	return id, nil
}

// CreateGame inserts the header of a started game. Inserting it twice is a no-op.
func (s *Store) CreateGame(ctx context.Context, gameID string, header game.Transcript) error {
	if s == nil {
		return nil
	}
	id, err := parseID(gameID)
	if err != nil {
		return err
	}
	rec, err := newGameRecord(id, header)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&rec).Error
}

// RecordMove inserts the move that produced snapshot index.
func (s *Store) RecordMove(ctx context.Context, gameID string, index int, move game.TranscriptMove) error {
	if s == nil {
		return nil
	}
	id, err := parseID(gameID)
	if err != nil {
		return err
	}
	rec, err := newMoveRecord(id, index, move)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Create(&rec).Error
}

// LoadTranscript reads a game and all of its moves in order.
func (s *Store) LoadTranscript(ctx context.Context, gameID string) (game.Transcript, error) {
	if s == nil {
		return game.Transcript{}, ErrNotFound
	}
	id, err := parseID(gameID)
	if err != nil {
		return game.Transcript{}, err
	}
	var rec GameRecord
	if err := s.db.WithContext(ctx).First(&rec, "id = ?", id).Error; err != nil {
		return game.Transcript{}, err
	}
	var moves []MoveRecord
	if err := s.db.WithContext(ctx).
		Where("game_id = ?", id).
		Order("move_index").
		Find(&moves).Error; err != nil {
		return game.Transcript{}, err
	}
	return rec.transcript(moves)
}
