package game

// NoPlayer marks the absence of an acting or turn player, e.g. once the game is over.
const NoPlayer = -1

// NoTile marks an empty rack slot.
const NoTile = -1

const (
	NumColumns = 12
	NumRows    = 9
	NumTiles   = NumColumns * NumRows
	RackSize   = 6
	NumChains  = 7

	SharesPerChain  = 25
	StartingCash    = 6000
	SafeChainSize   = 11
	EndGameSize     = 41
	MaxSharesPerBuy = 3
)

type GameMode int

const (
	GameModeUnspecified GameMode = iota
	Singles1
	Singles2
	Singles3
	Singles4
	Singles5
	Singles6
	Teams2v2
	Teams2v2v2
	Teams3v3
)

var gameModeSeats = map[GameMode][2]int{
	Singles1:   {1, 1},
	Singles2:   {2, 1},
	Singles3:   {3, 1},
	Singles4:   {4, 1},
	Singles5:   {5, 1},
	Singles6:   {6, 1},
	Teams2v2:   {4, 2},
	Teams2v2v2: {6, 2},
	Teams3v3:   {6, 3},
}

func (m GameMode) Valid() bool {
	_, ok := gameModeSeats[m]
	return ok
}

// NumPlayers is the seat count of the mode, 0 for unknown modes.
func (m GameMode) NumPlayers() int { return gameModeSeats[m][0] }

func (m GameMode) TeamSize() int { return gameModeSeats[m][1] }

func (m GameMode) IsTeamGame() bool { return m.TeamSize() > 1 }

// NumTeams is 0 for single-player modes.
func (m GameMode) NumTeams() int {
	if !m.IsTeamGame() {
		return 0
	}
	return m.NumPlayers() / m.TeamSize()
}

func (m GameMode) String() string {
	switch m {
	case Singles1, Singles2, Singles3, Singles4, Singles5, Singles6:
		return "Singles" + string(rune('0'+m.NumPlayers()))
	case Teams2v2:
		return "Teams2v2"
	case Teams2v2v2:
		return "Teams2v2v2"
	case Teams3v3:
		return "Teams3v3"
	}
	return "Unspecified"
}

type ArrangementMode int

const (
	ArrangementUnspecified ArrangementMode = iota
	RandomOrder
	ExactOrder
	SpecifyTeams
)

func (a ArrangementMode) Valid() bool {
	return a == RandomOrder || a == ExactOrder || a == SpecifyTeams
}

func (a ArrangementMode) String() string {
	switch a {
	case RandomOrder:
		return "RandomOrder"
	case ExactOrder:
		return "ExactOrder"
	case SpecifyTeams:
		return "SpecifyTeams"
	}
	return "Unspecified"
}

type GameStatus int

const (
	StatusSettingUp GameStatus = iota
	StatusInProgress
	StatusCompleted
)

// BoardType is the state of a board cell. The same enumeration classifies rack tiles.
type BoardType int

const (
	Luxor BoardType = iota
	Tower
	American
	Festival
	Worldwide
	Continental
	Imperial
	Nothing
	NothingYet
	CantPlayEver
	IHaveThis
	WillPutLonelyTileDown
	HaveNeighboringTileToo
	WillFormNewChain
	WillMergeChains
	CantPlayNow
)

var chainNames = [NumChains]string{"Luxor", "Tower", "American", "Festival", "Worldwide", "Continental", "Imperial"}

// IsChain reports whether t names one of the seven chains.
func (t BoardType) IsChain() bool { return t >= Luxor && t <= Imperial }

func (t BoardType) String() string {
	if t.IsChain() {
		return chainNames[t]
	}
	switch t {
	case Nothing:
		return "Nothing"
	case NothingYet:
		return "NothingYet"
	case CantPlayEver:
		return "CantPlayEver"
	case IHaveThis:
		return "IHaveThis"
	case WillPutLonelyTileDown:
		return "WillPutLonelyTileDown"
	case HaveNeighboringTileToo:
		return "HaveNeighboringTileToo"
	case WillFormNewChain:
		return "WillFormNewChain"
	case WillMergeChains:
		return "WillMergeChains"
	case CantPlayNow:
		return "CantPlayNow"
	}
	return "Unknown"
}

type ActionKind int

const (
	ActionStartGame ActionKind = iota
	ActionPlayTile
	ActionSelectNewChain
	ActionSelectMergerSurvivor
	ActionSelectChainToDisposeOfNext
	ActionDisposeOfShares
	ActionPurchaseShares
	ActionGameOver
)

var actionNames = map[ActionKind]string{
	ActionStartGame:                  "StartGame",
	ActionPlayTile:                   "PlayTile",
	ActionSelectNewChain:             "SelectNewChain",
	ActionSelectMergerSurvivor:       "SelectMergerSurvivor",
	ActionSelectChainToDisposeOfNext: "SelectChainToDisposeOfNext",
	ActionDisposeOfShares:            "DisposeOfShares",
	ActionPurchaseShares:             "PurchaseShares",
	ActionGameOver:                   "GameOver",
}

func (k ActionKind) String() string {
	if s, ok := actionNames[k]; ok {
		return s
	}
	return "Unknown"
}

type HistoryKind int

const (
	HistoryTurnBegan HistoryKind = iota
	HistoryDrewPositionTile
	HistoryStartedGame
	HistoryHasNoPlayableTile
	HistoryPlayedTile
	HistoryReplacedDeadTile
	HistoryFormedChain
	HistoryGrewChain
	HistoryMergedChains
	HistorySelectedMergerSurvivor
	HistorySelectedChainToDisposeOfNext
	HistoryReceivedBonus
	HistoryDisposedOfShares
	HistoryCouldNotAffordAnyShares
	HistoryPurchasedShares
	HistoryDrewLastTile
	HistoryNoTilesPlayedForEntireRound
	HistoryAllTilesPlayed
	HistoryEndedGame
)

var historyNames = map[HistoryKind]string{
	HistoryTurnBegan:                    "TurnBegan",
	HistoryDrewPositionTile:             "DrewPositionTile",
	HistoryStartedGame:                  "StartedGame",
	HistoryHasNoPlayableTile:            "HasNoPlayableTile",
	HistoryPlayedTile:                   "PlayedTile",
	HistoryReplacedDeadTile:             "ReplacedDeadTile",
	HistoryFormedChain:                  "FormedChain",
	HistoryGrewChain:                    "GrewChain",
	HistoryMergedChains:                 "MergedChains",
	HistorySelectedMergerSurvivor:       "SelectedMergerSurvivor",
	HistorySelectedChainToDisposeOfNext: "SelectedChainToDisposeOfNext",
	HistoryReceivedBonus:                "ReceivedBonus",
	HistoryDisposedOfShares:             "DisposedOfShares",
	HistoryCouldNotAffordAnyShares:      "CouldNotAffordAnyShares",
	HistoryPurchasedShares:              "PurchasedShares",
	HistoryDrewLastTile:                 "DrewLastTile",
	HistoryNoTilesPlayedForEntireRound:  "NoTilesPlayedForEntireRound",
	HistoryAllTilesPlayed:               "AllTilesPlayed",
	HistoryEndedGame:                    "EndedGame",
}

func (k HistoryKind) String() string {
	if s, ok := historyNames[k]; ok {
		return s
	}
	return "Unknown"
}
