package game

// HistoryMessage is one human-readable event of a move. Params hold tiles,
// chains or amounts depending on Kind.
type HistoryMessage struct {
	Kind     HistoryKind `json:"kind"`
	PlayerID int         `json:"playerId"`
	Params   []int       `json:"params,omitempty"`
}

// MoveData is the full game state after one accepted action. Snapshots in a
// game's history are never modified once appended.
type MoveData struct {
	Index int

	// PlayerID acted to produce this snapshot; NoPlayer for the initial one.
	PlayerID int
	Action   ActionKind
	Params   []any

	Board         [NumTiles]BoardType
	TileRacks     [][RackSize]int
	TileRackTypes [][RackSize]BoardType

	Shares    [][NumChains]int
	Cash      []int
	Available [NumChains]int
	ChainSize [NumChains]int
	Price     [NumChains]int
	Safe      [NumChains]bool
	NetWorth  []int

	TileBagIndex               int
	NumTurnsWithoutPlayedTiles int

	History []HistoryMessage
	// Drawn holds, per player, the tiles that player drew during this move.
	Drawn [][]int
	// Revealed holds tiles that became public during this move.
	Revealed []int

	TurnPlayerID int

	// actions is the pending action stack; the last element awaits input.
	actions []Action
}

// NextAction is the action awaiting input, nil only for a snapshot under construction.
func (d *MoveData) NextAction() Action {
	if len(d.actions) == 0 {
		return nil
	}
	return d.actions[len(d.actions)-1]
}

// MovePlayerID is the player expected to act next, NoPlayer once the game is over.
func (d *MoveData) MovePlayerID() int {
	if a := d.NextAction(); a != nil {
		return a.PlayerID()
	}
	return NoPlayer
}

// IsGameOver reports whether the game has reached its terminal action.
func (d *MoveData) IsGameOver() bool {
	a := d.NextAction()
	return a != nil && a.Kind() == ActionGameOver
}

func newMoveData(numPlayers int) *MoveData {
	d := &MoveData{
		PlayerID:      NoPlayer,
		TileRacks:     make([][RackSize]int, numPlayers),
		TileRackTypes: make([][RackSize]BoardType, numPlayers),
		Shares:        make([][NumChains]int, numPlayers),
		Cash:          make([]int, numPlayers),
		Drawn:         make([][]int, numPlayers),
	}
	for i := range d.Board {
		d.Board[i] = Nothing
	}
	for p := 0; p < numPlayers; p++ {
		d.Cash[p] = StartingCash
		for i := range d.TileRacks[p] {
			d.TileRacks[p][i] = NoTile
			d.TileRackTypes[p][i] = Nothing
		}
	}
	for c := range d.Available {
		d.Available[c] = SharesPerChain
	}
	return d
}

// draft copies the persistent state into a fresh snapshot for the next move.
// Per-move fields start empty.
func (d *MoveData) draft() *MoveData {
	n := len(d.Cash)
	next := &MoveData{
		Index:                      d.Index + 1,
		PlayerID:                   NoPlayer,
		Board:                      d.Board,
		TileRacks:                  append([][RackSize]int(nil), d.TileRacks...),
		TileRackTypes:              append([][RackSize]BoardType(nil), d.TileRackTypes...),
		Shares:                     append([][NumChains]int(nil), d.Shares...),
		Cash:                       append([]int(nil), d.Cash...),
		Available:                  d.Available,
		ChainSize:                  d.ChainSize,
		Price:                      d.Price,
		Safe:                       d.Safe,
		TileBagIndex:               d.TileBagIndex,
		NumTurnsWithoutPlayedTiles: d.NumTurnsWithoutPlayedTiles,
		Drawn:                      make([][]int, n),
		TurnPlayerID:               d.TurnPlayerID,
		actions:                    append([]Action(nil), d.actions...),
	}
	if d.NetWorth != nil {
		next.NetWorth = append([]int(nil), d.NetWorth...)
	}
	return next
}

func (d *MoveData) addHistory(kind HistoryKind, playerID int, params ...int) {
	d.History = append(d.History, HistoryMessage{Kind: kind, PlayerID: playerID, Params: params})
}

func (d *MoveData) push(actions ...Action) {
	// first action of the list ends up on top
	for i := len(actions) - 1; i >= 0; i-- {
		d.actions = append(d.actions, actions[i])
	}
}

func (d *MoveData) pop() {
	d.actions = d.actions[:len(d.actions)-1]
}

// rackIndex returns the slot holding tile in the player's rack, or -1.
func (d *MoveData) rackIndex(playerID, tile int) int {
	for i, t := range d.TileRacks[playerID] {
		if t == tile && t != NoTile {
			return i
		}
	}
	return -1
}

func (d *MoveData) rackIndexEmpty(playerID int) int {
	for i, t := range d.TileRacks[playerID] {
		if t == NoTile {
			return i
		}
	}
	return -1
}

func (d *MoveData) removeTile(playerID, slot int) {
	d.TileRacks[playerID][slot] = NoTile
	d.TileRackTypes[playerID][slot] = Nothing
}

// refreshScores recounts chain sizes from the board and derives prices and safety.
func (d *MoveData) refreshScores() {
	var sizes [NumChains]int
	for _, t := range d.Board {
		if t.IsChain() {
			sizes[t]++
		}
	}
	d.ChainSize = sizes
	for c := 0; c < NumChains; c++ {
		d.Price[c] = SharePrice(BoardType(c), sizes[c])
		d.Safe[c] = sizes[c] >= SafeChainSize
	}
}

// refreshRackTypes reclassifies every tile of every rack against the current board.
func (d *MoveData) refreshRackTypes() {
	for p := range d.TileRacks {
		for i, tile := range d.TileRacks[p] {
			d.TileRackTypes[p][i] = classify(&d.Board, &d.ChainSize, d.TileRacks[p], tile)
		}
	}
}

// chainsOnBoard lists chains with at least one tile.
func (d *MoveData) chainsOnBoard() []BoardType {
	var out []BoardType
	for c, size := range d.ChainSize {
		if size > 0 {
			out = append(out, BoardType(c))
		}
	}
	return out
}

// chainsAvailable lists chains that can still be founded.
func (d *MoveData) chainsAvailable() []BoardType {
	var out []BoardType
	for c, size := range d.ChainSize {
		if size == 0 {
			out = append(out, BoardType(c))
		}
	}
	return out
}

// CanEndGame reports whether the current board satisfies an end condition.
func (d *MoveData) CanEndGame() bool {
	onBoard := d.chainsOnBoard()
	if len(onBoard) == 0 {
		return false
	}
	allSafe := true
	for _, c := range onBoard {
		if d.ChainSize[c] >= EndGameSize {
			return true
		}
		if !d.Safe[c] {
			allSafe = false
		}
	}
	return allSafe
}

// BoardChange is a single cell update inside a MoveResult.
type BoardChange struct {
	Tile int       `json:"tile"`
	Type BoardType `json:"type"`
}

// MoveResult is the incremental form of a MoveData sent to one viewer.
type MoveResult struct {
	Index        int              `json:"index"`
	PlayerID     int              `json:"playerId"`
	Action       ActionKind       `json:"action"`
	Params       []any            `json:"params"`
	History      []HistoryMessage `json:"history"`
	BoardChanges []BoardChange    `json:"boardChanges"`
	Revealed     []int            `json:"revealed,omitempty"`
	Drawn        []int            `json:"drawn,omitempty"`
	Rack         []int            `json:"rack,omitempty"`
	RackTypes    []BoardType      `json:"rackTypes,omitempty"`

	Shares    [][NumChains]int `json:"shares"`
	Cash      []int            `json:"cash"`
	Available [NumChains]int   `json:"available"`
	ChainSize [NumChains]int   `json:"chainSize"`
	Price     [NumChains]int   `json:"price"`
	NetWorth  []int            `json:"netWorth,omitempty"`

	NextAction   ActionKind `json:"nextAction"`
	MovePlayerID int        `json:"movePlayerId"`
	TurnPlayerID int        `json:"turnPlayerId"`
}

// Delta describes d relative to prev for the given viewer. Rack contents are
// only included when viewer is a player of the game.
func (d *MoveData) Delta(prev *MoveData, viewer int) MoveResult {
	r := MoveResult{
		Index:        d.Index,
		PlayerID:     d.PlayerID,
		Action:       d.Action,
		Params:       d.Params,
		History:      d.History,
		Revealed:     d.Revealed,
		Shares:       d.Shares,
		Cash:         d.Cash,
		Available:    d.Available,
		ChainSize:    d.ChainSize,
		Price:        d.Price,
		NetWorth:     d.NetWorth,
		MovePlayerID: d.MovePlayerID(),
		TurnPlayerID: d.TurnPlayerID,
	}
	if a := d.NextAction(); a != nil {
		r.NextAction = a.Kind()
	}
	for t := range d.Board {
		if prev == nil || prev.Board[t] != d.Board[t] {
			r.BoardChanges = append(r.BoardChanges, BoardChange{Tile: t, Type: d.Board[t]})
		}
	}
	if viewer >= 0 && viewer < len(d.TileRacks) {
		r.Drawn = d.Drawn[viewer]
		rack, types := d.TileRacks[viewer], d.TileRackTypes[viewer]
		r.Rack = rack[:]
		r.RackTypes = types[:]
	}
	return r
}
