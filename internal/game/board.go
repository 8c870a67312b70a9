package game

import "fmt"

// TileLabel renders a tile the way it is printed on the board, e.g. 0 is "1A".
func TileLabel(tile int) string {
	if tile < 0 || tile >= NumTiles {
		return "?"
	}
	return fmt.Sprintf("%d%c", tile/NumRows+1, 'A'+rune(tile%NumRows))
}

func neighbors(tile int) []int {
	out := make([]int, 0, 4)
	x, y := tile/NumRows, tile%NumRows
	if x > 0 {
		out = append(out, tile-NumRows)
	}
	if x < NumColumns-1 {
		out = append(out, tile+NumRows)
	}
	if y > 0 {
		out = append(out, tile-1)
	}
	if y < NumRows-1 {
		out = append(out, tile+1)
	}
	return out
}

// neighboringChains returns the distinct chains orthogonally adjacent to tile, in chain order.
func neighboringChains(board *[NumTiles]BoardType, tile int) []BoardType {
	var seen [NumChains]bool
	for _, n := range neighbors(tile) {
		if t := board[n]; t.IsChain() {
			seen[t] = true
		}
	}
	var out []BoardType
	for c, ok := range seen {
		if ok {
			out = append(out, BoardType(c))
		}
	}
	return out
}

// fill sets tile and every connected NothingYet or absorbed-chain cell to chain.
func fill(board *[NumTiles]BoardType, tile int, chain BoardType, absorb map[BoardType]bool) {
	visited := make(map[int]bool)
	stack := []int{tile}
	for len(stack) > 0 {
		t := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[t] {
			continue
		}
		visited[t] = true
		board[t] = chain
		for _, n := range neighbors(t) {
			if !visited[n] && (board[n] == NothingYet || absorb[board[n]]) {
				stack = append(stack, n)
			}
		}
	}
}

// basePrice is the per-share price of a chain of the given size for the cheapest tier.
func basePrice(size int) int {
	switch {
	case size < 2:
		return 0
	case size <= 5:
		return size * 100
	case size <= 10:
		return 600
	case size <= 20:
		return 700
	case size <= 30:
		return 800
	case size <= 40:
		return 900
	default:
		return 1000
	}
}

// SharePrice returns the price of one share of chain at the given size, 0 if the chain is not on the board.
func SharePrice(chain BoardType, size int) int {
	p := basePrice(size)
	if p == 0 {
		return 0
	}
	switch chain {
	case American, Festival, Worldwide:
		p += 100
	case Continental, Imperial:
		p += 200
	}
	return p
}

// classify computes the playability of one rack tile given the rest of the rack.
func classify(board *[NumTiles]BoardType, chainSize *[NumChains]int, rack [RackSize]int, tile int) BoardType {
	if tile == NoTile {
		return Nothing
	}
	chains := neighboringChains(board, tile)
	switch len(chains) {
	case 0:
		hasLoose := false
		for _, n := range neighbors(tile) {
			if board[n] == NothingYet {
				hasLoose = true
				break
			}
		}
		if hasLoose {
			for _, size := range chainSize {
				if size == 0 {
					return WillFormNewChain
				}
			}
			return CantPlayNow
		}
		for _, other := range rack {
			if other == NoTile || other == tile {
				continue
			}
			for _, n := range neighbors(tile) {
				if n == other {
					return HaveNeighboringTileToo
				}
			}
		}
		return WillPutLonelyTileDown
	case 1:
		return chains[0]
	default:
		safe := 0
		for _, c := range chains {
			if chainSize[c] >= SafeChainSize {
				safe++
			}
		}
		if safe >= 2 {
			return CantPlayEver
		}
		return WillMergeChains
	}
}

// IsPlayable reports whether a rack tile of this classification may be played this turn.
func (t BoardType) IsPlayable() bool {
	return t != CantPlayNow && t != CantPlayEver && t != Nothing
}
