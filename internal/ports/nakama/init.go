package nakama

import (
	"context"
	"database/sql"

	"github.com/heroiclabs/nakama-common/runtime"
	"github.com/kiliankoe/acquire/internal/config"
	"github.com/kiliankoe/acquire/internal/room"
	"github.com/kiliankoe/acquire/internal/storage"
)

// InitModule wires the lobby RPC and the match handler for the Nakama runtime.
// Transcripts go to the Nakama database when one is available.
func InitModule(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, initializer runtime.Initializer) error {
	env, _ := ctx.Value(runtime.RUNTIME_CTX_ENV).(map[string]string)
	cfg := config.FromMap(env)

	var store room.Store = storage.NewMemory()
	if db != nil {
		gdb, err := storage.FromSQL(db)
		if err != nil {
			logger.Error("InitModule: failed to migrate schema: %v", err)
			return err
		}
		store = storage.NewStore(gdb)
	}
	opts := room.Options{ExportEnabled: cfg.ExportEnabled, ExportFile: cfg.ExportFile, Seed: cfg.Seed}

	if err := RegisterRPCs(initializer); err != nil {
		return err
	}
	if err := initializer.RegisterMatch(MatchNameAcquire, func(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule) (runtime.Match, error) {
		return newMatchHandler(store, opts), nil
	}); err != nil {
		return err
	}

	logger.Info("Acquire Go module loaded.")
	return nil
}
