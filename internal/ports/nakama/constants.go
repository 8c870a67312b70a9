package nakama

const (
	// RpcFindLobby is the RPC id clients call to find or create an Acquire match.
	RpcFindLobby = "acquire_find_lobby"

	// MatchNameAcquire is the authoritative match handler name registered with Nakama.
	MatchNameAcquire = "acquire_match"
)

// Op codes. Every payload is a JSON encoded tagged message array.
const (
	// Client -> Server
	OpClientMessage int64 = 1

	// Server -> Client
	OpServerMessage int64 = 101
)

// Join metadata and match params.
const (
	MetaVersion  = "version"
	MetaUsername = "username"
	ParamSeed    = "seed"
)

const (
	tickRate = 5
	// emptyTicks is how long a match without presences lives on.
	emptyTicks = 60 * tickRate
)
