package game

// PurchaseShares closes a turn: buy up to three shares and optionally end the game.
type PurchaseShares struct{ Player int }

func (a PurchaseShares) Kind() ActionKind { return ActionPurchaseShares }
func (a PurchaseShares) PlayerID() int    { return a.Player }

func (a PurchaseShares) Prepare(g *Game, d *MoveData) []any {
	onBoard := d.chainsOnBoard()
	for _, c := range onBoard {
		if d.Available[c] > 0 && d.Price[c] <= d.Cash[a.Player] {
			return nil
		}
	}
	if d.CanEndGame() {
		return nil
	}
	if len(onBoard) > 0 {
		d.addHistory(HistoryCouldNotAffordAnyShares, a.Player)
	}
	return []any{[]any{}, 0}
}

// Execute takes [chains, endGame] where chains lists one entry per share bought.
func (a PurchaseShares) Execute(g *Game, d *MoveData, params []any) ([]Action, error) {
	if len(params) != 2 {
		return nil, ErrWrongParameterCount
	}
	cart, err := toIntList(params[0])
	if err != nil {
		return nil, err
	}
	endGame, ok := toInt(params[1])
	if !ok {
		return nil, ErrNotAnInteger
	}
	if endGame != 0 && endGame != 1 {
		return nil, ErrInvalidEndGameFlag
	}
	if len(cart) > MaxSharesPerBuy {
		return nil, ErrTooManyShares
	}

	var count [NumChains]int
	cost := 0
	for _, c := range cart {
		if !BoardType(c).IsChain() || d.ChainSize[c] == 0 {
			return nil, ErrInvalidChain
		}
		count[c]++
		if count[c] > d.Available[c] {
			return nil, ErrNotEnoughShares
		}
		cost += d.Price[c]
	}
	if cost > d.Cash[a.Player] {
		return nil, ErrNotEnoughCash
	}
	if endGame == 1 && !d.CanEndGame() {
		return nil, ErrCannotEndGame
	}

	for c, n := range count {
		d.Shares[a.Player][c] += n
		d.Available[c] -= n
	}
	d.Cash[a.Player] -= cost
	if len(cart) > 0 {
		d.addHistory(HistoryPurchasedShares, a.Player, cart...)
	}
	if endGame == 1 {
		d.addHistory(HistoryEndedGame, a.Player)
		return []Action{GameOver{}}, nil
	}
	return nil, nil
}

// GameOver is terminal. Its Prepare settles the final scores.
type GameOver struct{}

func (GameOver) Kind() ActionKind { return ActionGameOver }
func (GameOver) PlayerID() int    { return NoPlayer }

func (GameOver) Prepare(g *Game, d *MoveData) []any {
	for _, c := range d.chainsOnBoard() {
		payBonuses(d, c)
	}
	for p := range d.Shares {
		for c := 0; c < NumChains; c++ {
			if n := d.Shares[p][c]; n > 0 {
				d.Cash[p] += n * d.Price[c]
				d.Available[c] += n
				d.Shares[p][c] = 0
			}
		}
	}
	d.NetWorth = append([]int(nil), d.Cash...)
	d.TurnPlayerID = NoPlayer
	return nil
}

func (GameOver) Execute(*Game, *MoveData, []any) ([]Action, error) {
	return nil, ErrGameOver
}
