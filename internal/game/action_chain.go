package game

import "sort"

// SelectNewChain founds a chain on a tile that joined loose tiles.
type SelectNewChain struct {
	Player int
	Tile   int
	Chains []BoardType
}

func (a SelectNewChain) Kind() ActionKind { return ActionSelectNewChain }
func (a SelectNewChain) PlayerID() int    { return a.Player }

func (a SelectNewChain) Prepare(*Game, *MoveData) []any {
	if len(a.Chains) == 1 {
		return []any{int(a.Chains[0])}
	}
	return nil
}

func (a SelectNewChain) Execute(g *Game, d *MoveData, params []any) ([]Action, error) {
	chain, err := chainParam(params, a.Chains)
	if err != nil {
		return nil, err
	}
	fill(&d.Board, a.Tile, chain, nil)
	d.addHistory(HistoryFormedChain, a.Player, int(chain))
	if d.Available[chain] > 0 {
		d.Available[chain]--
		d.Shares[a.Player][chain]++
	}
	return nil, nil
}

// SelectMergerSurvivor picks which of the largest merging chains survives.
type SelectMergerSurvivor struct {
	Player     int
	Tile       int
	Chains     []BoardType
	Candidates []BoardType
}

func (a SelectMergerSurvivor) Kind() ActionKind { return ActionSelectMergerSurvivor }
func (a SelectMergerSurvivor) PlayerID() int    { return a.Player }

func (a SelectMergerSurvivor) Prepare(*Game, *MoveData) []any {
	if len(a.Candidates) == 1 {
		return []any{int(a.Candidates[0])}
	}
	return nil
}

func (a SelectMergerSurvivor) Execute(g *Game, d *MoveData, params []any) ([]Action, error) {
	survivor, err := chainParam(params, a.Candidates)
	if err != nil {
		return nil, err
	}
	d.addHistory(HistorySelectedMergerSurvivor, a.Player, int(survivor))
	var defunct []BoardType
	for _, c := range a.Chains {
		if c != survivor {
			defunct = append(defunct, c)
		}
	}
	return []Action{SelectChainToDisposeOfNext{
		Player:    a.Player,
		Tile:      a.Tile,
		Survivor:  survivor,
		Defunct:   defunct,
		Remaining: defunct,
	}}, nil
}

// SelectChainToDisposeOfNext orders the defunct chains of a merger, largest first.
// Selecting the last one folds all defunct chains into the survivor.
type SelectChainToDisposeOfNext struct {
	Player    int
	Tile      int
	Survivor  BoardType
	Defunct   []BoardType
	Remaining []BoardType
}

func (a SelectChainToDisposeOfNext) Kind() ActionKind { return ActionSelectChainToDisposeOfNext }
func (a SelectChainToDisposeOfNext) PlayerID() int    { return a.Player }

func (a SelectChainToDisposeOfNext) Prepare(g *Game, d *MoveData) []any {
	if c := largestChains(d, a.Remaining); len(c) == 1 {
		return []any{int(c[0])}
	}
	return nil
}

func (a SelectChainToDisposeOfNext) Execute(g *Game, d *MoveData, params []any) ([]Action, error) {
	chain, err := chainParam(params, largestChains(d, a.Remaining))
	if err != nil {
		return nil, err
	}
	d.addHistory(HistorySelectedChainToDisposeOfNext, a.Player, int(chain))
	payBonuses(d, chain)

	price := d.Price[chain]
	n := len(g.UserIDs)
	var next []Action
	for i := 0; i < n; i++ {
		p := (a.Player + i) % n
		if d.Shares[p][chain] > 0 {
			next = append(next, DisposeOfShares{Player: p, Defunct: chain, Survivor: a.Survivor, Price: price})
		}
	}

	var rest []BoardType
	for _, c := range a.Remaining {
		if c != chain {
			rest = append(rest, c)
		}
	}
	if len(rest) > 0 {
		next = append(next, SelectChainToDisposeOfNext{
			Player:    a.Player,
			Tile:      a.Tile,
			Survivor:  a.Survivor,
			Defunct:   a.Defunct,
			Remaining: rest,
		})
		return next, nil
	}

	absorb := make(map[BoardType]bool, len(a.Defunct))
	for _, c := range a.Defunct {
		absorb[c] = true
	}
	fill(&d.Board, a.Tile, a.Survivor, absorb)
	merged := []int{int(a.Survivor)}
	for _, c := range a.Defunct {
		merged = append(merged, int(c))
	}
	d.addHistory(HistoryMergedChains, a.Player, merged...)
	return next, nil
}

// DisposeOfShares lets one holder of a defunct chain trade 2:1 into the survivor and sell.
type DisposeOfShares struct {
	Player   int
	Defunct  BoardType
	Survivor BoardType
	// Price is the defunct chain's share price when it was selected.
	Price int
}

func (a DisposeOfShares) Kind() ActionKind { return ActionDisposeOfShares }
func (a DisposeOfShares) PlayerID() int    { return a.Player }

func (a DisposeOfShares) Prepare(g *Game, d *MoveData) []any {
	if d.Shares[a.Player][a.Defunct] == 0 {
		return []any{0, 0}
	}
	return nil
}

// Execute takes [tradeAmount, sellAmount]; shares not traded or sold are kept.
func (a DisposeOfShares) Execute(g *Game, d *MoveData, params []any) ([]Action, error) {
	if len(params) != 2 {
		return nil, ErrWrongParameterCount
	}
	trade, ok1 := toInt(params[0])
	sell, ok2 := toInt(params[1])
	if !ok1 || !ok2 {
		return nil, ErrNotAnInteger
	}
	held := d.Shares[a.Player][a.Defunct]
	if trade < 0 || sell < 0 || trade%2 != 0 || trade+sell > held || trade/2 > d.Available[a.Survivor] {
		return nil, ErrInvalidDisposal
	}
	d.Shares[a.Player][a.Defunct] -= trade + sell
	d.Available[a.Defunct] += trade + sell
	d.Shares[a.Player][a.Survivor] += trade / 2
	d.Available[a.Survivor] -= trade / 2
	d.Cash[a.Player] += sell * a.Price
	d.addHistory(HistoryDisposedOfShares, a.Player, int(a.Defunct), trade, sell)
	return nil, nil
}

// payBonuses pays the majority and minority shareholder bonuses of chain at its current price.
func payBonuses(d *MoveData, chain BoardType) {
	price := d.Price[chain]
	type holding struct{ player, shares int }
	var holders []holding
	for p := range d.Shares {
		if s := d.Shares[p][chain]; s > 0 {
			holders = append(holders, holding{p, s})
		}
	}
	if len(holders) == 0 {
		return
	}
	sort.SliceStable(holders, func(i, j int) bool { return holders[i].shares > holders[j].shares })

	majority, minority := price*10, price*5
	var first []int
	for _, h := range holders {
		if h.shares == holders[0].shares {
			first = append(first, h.player)
		}
	}
	if len(first) > 1 {
		pay(d, chain, first, majority+minority)
		return
	}
	if len(holders) == 1 {
		pay(d, chain, first, majority+minority)
		return
	}
	pay(d, chain, first, majority)
	var second []int
	for _, h := range holders[1:] {
		if h.shares == holders[1].shares {
			second = append(second, h.player)
		}
	}
	pay(d, chain, second, minority)
}

// pay splits amount evenly among players, rounding each share up to the next 100.
func pay(d *MoveData, chain BoardType, players []int, amount int) {
	each := (amount/len(players) + 99) / 100 * 100
	for _, p := range players {
		d.Cash[p] += each
		d.addHistory(HistoryReceivedBonus, p, int(chain), each)
	}
}
