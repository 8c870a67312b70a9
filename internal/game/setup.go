package game

import (
	"errors"
	"fmt"
	"math/rand"
)

type SetupChangeKind int

const (
	UserAdded SetupChangeKind = iota
	UserRemoved
	UserApprovedOfGameSetup
	GameModeChanged
	PlayerArrangementModeChanged
	PositionsSwapped
	UserKicked
)

var ErrInvalidSetupChange = errors.New("invalid setup change")

// SetupChange is one recorded GameSetup mutation.
type SetupChange struct {
	Kind            SetupChangeKind
	UserID          string
	GameMode        GameMode
	ArrangementMode ArrangementMode
	Position1       int
	Position2       int
}

// Fields encodes the change as a tagged array.
func (c SetupChange) Fields() []any {
	switch c.Kind {
	case GameModeChanged:
		return []any{int(c.Kind), int(c.GameMode)}
	case PlayerArrangementModeChanged:
		return []any{int(c.Kind), int(c.ArrangementMode)}
	case PositionsSwapped:
		return []any{int(c.Kind), c.Position1, c.Position2}
	default:
		return []any{int(c.Kind), c.UserID}
	}
}

// SetupChangeFromFields decodes a tagged array produced by Fields.
func SetupChangeFromFields(fields []any) (SetupChange, error) {
	if len(fields) == 0 {
		return SetupChange{}, ErrInvalidSetupChange
	}
	tag, ok := toInt(fields[0])
	if !ok {
		return SetupChange{}, ErrInvalidSetupChange
	}
	c := SetupChange{Kind: SetupChangeKind(tag)}
	switch c.Kind {
	case UserAdded, UserRemoved, UserApprovedOfGameSetup, UserKicked:
		if len(fields) != 2 {
			return SetupChange{}, ErrInvalidSetupChange
		}
		if c.UserID, ok = fields[1].(string); !ok {
			return SetupChange{}, ErrInvalidSetupChange
		}
	case GameModeChanged, PlayerArrangementModeChanged:
		if len(fields) != 2 {
			return SetupChange{}, ErrInvalidSetupChange
		}
		v, ok := toInt(fields[1])
		if !ok {
			return SetupChange{}, ErrInvalidSetupChange
		}
		c.GameMode = GameMode(v)
		c.ArrangementMode = ArrangementMode(v)
	case PositionsSwapped:
		if len(fields) != 3 {
			return SetupChange{}, ErrInvalidSetupChange
		}
		p1, ok1 := toInt(fields[1])
		p2, ok2 := toInt(fields[2])
		if !ok1 || !ok2 {
			return SetupChange{}, ErrInvalidSetupChange
		}
		c.Position1, c.Position2 = p1, p2
	default:
		return SetupChange{}, fmt.Errorf("%w: unknown tag %d", ErrInvalidSetupChange, tag)
	}
	return c, nil
}

// Position is one seat of the transport record.
type Position struct {
	UserID              string `json:"userId"`
	IsHost              bool   `json:"isHost"`
	ApprovesOfGameSetup bool   `json:"approvesOfGameSetup"`
}

// GameData is the transport record of a game that is still being set up.
type GameData struct {
	GameStatus      GameStatus      `json:"gameStatus"`
	GameMode        GameMode        `json:"gameMode"`
	ArrangementMode ArrangementMode `json:"playerArrangementMode"`
	Positions       []Position      `json:"positions"`
}

// UsernameFunc resolves a user ID to its display name.
type UsernameFunc func(userID string) string

// GameSetup negotiates the roster of a game before it starts. Invalid calls to
// any of its mutators are ignored; callers inspect History to detect a no-op.
// An empty string in UserIDs marks an empty seat.
type GameSetup struct {
	GameMode            GameMode
	ArrangementMode     ArrangementMode
	HostUserID          string
	HostUsername        string
	UserIDs             []string
	Usernames           []string
	Approvals           []bool
	ApprovedByEverybody bool
	History             []SetupChange

	usernameFor UsernameFunc
	rng         *rand.Rand
}

func NewGameSetup(mode GameMode, arrangement ArrangementMode, hostUserID string, usernameFor UsernameFunc, rng *rand.Rand) *GameSetup {
	n := mode.NumPlayers()
	s := &GameSetup{
		GameMode:        mode,
		ArrangementMode: arrangement,
		HostUserID:      hostUserID,
		HostUsername:    usernameFor(hostUserID),
		UserIDs:         make([]string, n),
		Usernames:       make([]string, n),
		Approvals:       make([]bool, n),
		usernameFor:     usernameFor,
		rng:             rng,
	}
	s.UserIDs[0] = hostUserID
	s.Usernames[0] = s.HostUsername
	return s
}

func (s *GameSetup) numMembers() int {
	n := 0
	for _, id := range s.UserIDs {
		if id != "" {
			n++
		}
	}
	return n
}

func (s *GameSetup) positionOf(userID string) int {
	if userID == "" {
		return -1
	}
	for i, id := range s.UserIDs {
		if id == userID {
			return i
		}
	}
	return -1
}

// IsMember reports whether userID occupies a seat.
func (s *GameSetup) IsMember(userID string) bool { return s.positionOf(userID) >= 0 }

func (s *GameSetup) resetApprovals() {
	s.Approvals = make([]bool, len(s.UserIDs))
	s.ApprovedByEverybody = false
}

func (s *GameSetup) record(c SetupChange) { s.History = append(s.History, c) }

func (s *GameSetup) AddUser(userID string) {
	if userID == "" || s.numMembers() == len(s.UserIDs) || s.IsMember(userID) {
		return
	}
	for i, id := range s.UserIDs {
		if id == "" {
			s.UserIDs[i] = userID
			s.Usernames[i] = s.usernameFor(userID)
			s.resetApprovals()
			s.record(SetupChange{Kind: UserAdded, UserID: userID})
			return
		}
	}
}

func (s *GameSetup) RemoveUser(userID string) { s.vacate(userID, UserRemoved) }

func (s *GameSetup) KickUser(userID string) { s.vacate(userID, UserKicked) }

func (s *GameSetup) vacate(userID string, kind SetupChangeKind) {
	if userID == s.HostUserID {
		return
	}
	i := s.positionOf(userID)
	if i < 0 {
		return
	}
	s.UserIDs[i] = ""
	s.Usernames[i] = ""
	s.resetApprovals()
	s.record(SetupChange{Kind: kind, UserID: userID})
}

func (s *GameSetup) Approve(userID string) {
	i := s.positionOf(userID)
	if i < 0 || s.numMembers() != len(s.UserIDs) {
		return
	}
	if !s.Approvals[i] {
		s.Approvals[i] = true
		s.record(SetupChange{Kind: UserApprovedOfGameSetup, UserID: userID})
	}
	s.ApprovedByEverybody = true
	for _, ok := range s.Approvals {
		if !ok {
			s.ApprovedByEverybody = false
			break
		}
	}
}

func (s *GameSetup) ChangeGameMode(mode GameMode) {
	if !mode.Valid() || mode == s.GameMode {
		return
	}
	newNum := mode.NumPlayers()
	if s.numMembers() > newNum {
		return
	}
	oldNum := len(s.UserIDs)
	if newNum > oldNum {
		s.UserIDs = append(s.UserIDs, make([]string, newNum-oldNum)...)
		s.Usernames = append(s.Usernames, make([]string, newNum-oldNum)...)
	} else {
		// Occupants beyond the new size move into the highest free seat that survives.
		for old := oldNum - 1; old >= newNum; old-- {
			if s.UserIDs[old] != "" {
				for pos := newNum - 1; pos >= 0; pos-- {
					if s.UserIDs[pos] == "" {
						s.UserIDs[pos] = s.UserIDs[old]
						s.Usernames[pos] = s.Usernames[old]
						break
					}
				}
			}
		}
		s.UserIDs = s.UserIDs[:newNum:newNum]
		s.Usernames = s.Usernames[:newNum:newNum]
	}
	s.resetApprovals()
	if !mode.IsTeamGame() && s.ArrangementMode == SpecifyTeams {
		s.ArrangementMode = RandomOrder
	}
	s.GameMode = mode
	s.record(SetupChange{Kind: GameModeChanged, GameMode: mode})
}

func (s *GameSetup) ChangePlayerArrangementMode(mode ArrangementMode) {
	if !mode.Valid() || mode == s.ArrangementMode {
		return
	}
	if mode == SpecifyTeams && !s.GameMode.IsTeamGame() {
		return
	}
	s.ArrangementMode = mode
	s.resetApprovals()
	s.record(SetupChange{Kind: PlayerArrangementModeChanged, ArrangementMode: mode})
}

func (s *GameSetup) SwapPositions(p1, p2 int) {
	n := len(s.UserIDs)
	if p1 < 0 || p1 >= n || p2 < 0 || p2 >= n || p1 == p2 {
		return
	}
	s.UserIDs[p1], s.UserIDs[p2] = s.UserIDs[p2], s.UserIDs[p1]
	s.Usernames[p1], s.Usernames[p2] = s.Usernames[p2], s.Usernames[p1]
	s.resetApprovals()
	s.record(SetupChange{Kind: PositionsSwapped, Position1: p1, Position2: p2})
}

// ProcessChange applies a change recorded by another copy of this setup.
func (s *GameSetup) ProcessChange(c SetupChange) {
	switch c.Kind {
	case UserAdded:
		s.AddUser(c.UserID)
	case UserRemoved:
		s.RemoveUser(c.UserID)
	case UserApprovedOfGameSetup:
		s.Approve(c.UserID)
	case GameModeChanged:
		s.ChangeGameMode(c.GameMode)
	case PlayerArrangementModeChanged:
		s.ChangePlayerArrangementMode(c.ArrangementMode)
	case PositionsSwapped:
		s.SwapPositions(c.Position1, c.Position2)
	case UserKicked:
		s.KickUser(c.UserID)
	}
}

func (s *GameSetup) ClearHistory() { s.History = nil }

// teamPositions lists the seats forming each team of a team mode.
var teamPositions = map[GameMode][][]int{
	Teams2v2:   {{0, 2}, {1, 3}},
	Teams2v2v2: {{0, 3}, {1, 4}, {2, 5}},
	Teams3v3:   {{0, 2, 4}, {1, 3, 5}},
}

// FinalUserIDsAndUsernames resolves the arrangement mode into the turn order
// used once the game starts. Teammates end up numTeams seats apart.
func (s *GameSetup) FinalUserIDsAndUsernames() ([]string, []string) {
	userIDs := append([]string(nil), s.UserIDs...)

	switch s.ArrangementMode {
	case RandomOrder:
		s.rng.Shuffle(len(userIDs), func(i, j int) { userIDs[i], userIDs[j] = userIDs[j], userIDs[i] })
	case SpecifyTeams:
		groups := teamPositions[s.GameMode]
		teams := make([][]string, len(groups))
		for t, positions := range groups {
			for _, p := range positions {
				teams[t] = append(teams[t], s.UserIDs[p])
			}
		}
		s.rng.Shuffle(len(teams), func(i, j int) { teams[i], teams[j] = teams[j], teams[i] })
		for _, team := range teams {
			s.rng.Shuffle(len(team), func(i, j int) { team[i], team[j] = team[j], team[i] })
		}
		next := 0
		for member := 0; member < len(groups[0]); member++ {
			for t := range teams {
				userIDs[next] = teams[t][member]
				next++
			}
		}
	}

	usernames := make([]string, len(userIDs))
	for i, id := range userIDs {
		usernames[i] = s.usernameFor(id)
	}
	return userIDs, usernames
}

func (s *GameSetup) ToGameData() GameData {
	positions := make([]Position, len(s.UserIDs))
	for i, id := range s.UserIDs {
		positions[i] = Position{
			UserID:              id,
			IsHost:              id != "" && id == s.HostUserID,
			ApprovesOfGameSetup: s.Approvals[i],
		}
	}
	return GameData{
		GameStatus:      StatusSettingUp,
		GameMode:        s.GameMode,
		ArrangementMode: s.ArrangementMode,
		Positions:       positions,
	}
}

// FromGameData rebuilds a setup from its transport record.
func FromGameData(data GameData, usernameFor UsernameFunc, rng *rand.Rand) *GameSetup {
	n := len(data.Positions)
	s := &GameSetup{
		GameMode:            data.GameMode,
		ArrangementMode:     data.ArrangementMode,
		UserIDs:             make([]string, n),
		Usernames:           make([]string, n),
		Approvals:           make([]bool, n),
		ApprovedByEverybody: n > 0,
		usernameFor:         usernameFor,
		rng:                 rng,
	}
	for i, p := range data.Positions {
		if p.UserID == "" {
			s.ApprovedByEverybody = false
			continue
		}
		s.UserIDs[i] = p.UserID
		s.Usernames[i] = usernameFor(p.UserID)
		s.Approvals[i] = p.ApprovesOfGameSetup
		if p.IsHost {
			s.HostUserID = p.UserID
			s.HostUsername = s.Usernames[i]
		}
		if !p.ApprovesOfGameSetup {
			s.ApprovedByEverybody = false
		}
	}
	return s
}

// Equal compares everything except history and the injected collaborators.
func (s *GameSetup) Equal(o *GameSetup) bool {
	if s.GameMode != o.GameMode || s.ArrangementMode != o.ArrangementMode ||
		s.HostUserID != o.HostUserID || s.HostUsername != o.HostUsername ||
		s.ApprovedByEverybody != o.ApprovedByEverybody || len(s.UserIDs) != len(o.UserIDs) {
		return false
	}
	for i := range s.UserIDs {
		if s.UserIDs[i] != o.UserIDs[i] || s.Usernames[i] != o.Usernames[i] || s.Approvals[i] != o.Approvals[i] {
			return false
		}
	}
	return true
}
