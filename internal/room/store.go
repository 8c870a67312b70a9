package room

import (
	"context"

	"github.com/kiliankoe/acquire/internal/game"
)

// Sender delivers messages to connected clients. Close must not block on the
// Manager, since it is called while the Manager holds its lock.
type Sender interface {
	Send(clientID string, message []any)
	Close(clientID string)
}

// Store persists transcripts of started games.
type Store interface {
	CreateGame(ctx context.Context, gameID string, header game.Transcript) error
	RecordMove(ctx context.Context, gameID string, index int, move game.TranscriptMove) error
	LoadTranscript(ctx context.Context, gameID string) (game.Transcript, error)
}

type Options struct {
	ExportEnabled bool
	ExportFile    string
	// Seed fixes the random source for turn orders and tile bags; 0 seeds from the clock.
	Seed int64
}
