package nakama

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/heroiclabs/nakama-common/runtime"
)

// FindLobbyResponse is the payload returned to clients looking for a match.
type FindLobbyResponse struct {
	MatchID string `json:"match_id"`
	IsNew   bool   `json:"is_new"`
}

// RegisterRPCs registers Nakama RPC endpoints.
func RegisterRPCs(initializer runtime.Initializer) error {
	return initializer.RegisterRpc(RpcFindLobby, rpcFindLobby)
}

// rpcFindLobby returns the busiest running Acquire match, creating one when none exists.
func rpcFindLobby(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	query := "+label.game:acquire"
	limit := 10
	authoritative := true
	minSize := 0
	maxSize := 100

	matches, err := nk.MatchList(ctx, limit, authoritative, "", &minSize, &maxSize, query)
	if err != nil {
		logger.Error("MatchList error: %v", err)
		return "", err
	}

	var resp FindLobbyResponse
	if len(matches) > 0 {
		best := matches[0]
		for _, m := range matches[1:] {
			if m.Size > best.Size {
				best = m
			}
		}
		resp.MatchID = best.MatchId
	} else {
		matchID, err := nk.MatchCreate(ctx, MatchNameAcquire, map[string]interface{}{})
		if err != nil {
			logger.Error("MatchCreate error: %v", err)
			return "", err
		}
		resp = FindLobbyResponse{MatchID: matchID, IsNew: true}
	}
	b, err := json.Marshal(resp)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
