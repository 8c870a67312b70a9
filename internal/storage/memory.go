package storage

import (
	"context"
	"fmt"
	"sync"

	"github.com/kiliankoe/acquire/internal/game"
)

// Memory keeps transcripts in process. It is used when no database is configured.
type Memory struct {
	mu    sync.RWMutex
	games map[string]*game.Transcript
}

func NewMemory() *Memory {
	return &Memory{games: make(map[string]*game.Transcript)}
}

func (m *Memory) CreateGame(ctx context.Context, gameID string, header game.Transcript) error {
	if _, err := parseID(gameID); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.games[gameID] != nil {
		return nil
	}
	t := header
	t.UserIDs = append([]string(nil), header.UserIDs...)
	t.Usernames = append([]string(nil), header.Usernames...)
	t.TileBag = append([]int(nil), header.TileBag...)
	t.Moves = nil
	m.games[gameID] = &t
	return nil
}

// RecordMove appends move. Moves must arrive in order, the first one with index 1.
func (m *Memory) RecordMove(ctx context.Context, gameID string, index int, move game.TranscriptMove) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t := m.games[gameID]
	if t == nil {
		return ErrNotFound
	}
	if index != len(t.Moves)+1 {
		return fmt.Errorf("move %d recorded out of order, expected %d", index, len(t.Moves)+1)
	}
	t.Moves = append(t.Moves, game.TranscriptMove{UserID: move.UserID, Message: append([]any(nil), move.Message...)})
	return nil
}

func (m *Memory) LoadTranscript(ctx context.Context, gameID string) (game.Transcript, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t := m.games[gameID]
	if t == nil {
		return game.Transcript{}, ErrNotFound
	}
	out := *t
	out.Moves = append([]game.TranscriptMove(nil), t.Moves...)
	return out, nil
}
