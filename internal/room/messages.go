package room

import (
	"math"
	"strings"
	"unicode"
)

// ProtocolVersion must be presented by every connecting client.
const ProtocolVersion = 1

// MessageToServer tags the first element of every client message.
type MessageToServer int

const (
	CreateGame MessageToServer = iota // [CreateGame, gameMode]
	EnterGame                         // [EnterGame, displayNumber]
	ExitGame                          // [ExitGame]
	JoinGame                          // [JoinGame]
	UnjoinGame                        // [UnjoinGame]
	ApproveOfGameSetup                // [ApproveOfGameSetup]
	ChangeGameMode                    // [ChangeGameMode, gameMode]
	ChangePlayerArrangementMode       // [ChangePlayerArrangementMode, arrangementMode]
	SwapPositions                     // [SwapPositions, position1, position2]
	KickUser                          // [KickUser, userID]
	DoGameAction                      // [DoGameAction, displayNumber, moveIndex, actionKind, params...]
)

// MessageToClient tags the first element of every server message.
type MessageToClient int

const (
	FatalError         MessageToClient = iota // [FatalError, errorCode]
	Greetings                                 // [Greetings, clientID, userID, users, games]
	ClientConnected                           // [ClientConnected, clientID, userID, username]
	ClientDisconnected                        // [ClientDisconnected, clientID]
	GameCreated                               // [GameCreated, displayNumber, gameID, hostUserID, gameMode, arrangementMode]
	ClientEnteredGame                         // [ClientEnteredGame, clientID, displayNumber]
	ClientExitedGame                          // [ClientExitedGame, clientID, displayNumber]
	GameSetupChanged                          // [GameSetupChanged, displayNumber, change...]
	GameStarted                               // [GameStarted, displayNumber, userIDs...]
	GameActionDone                            // [GameActionDone, displayNumber, moveResult]
	GameActionRejected                        // [GameActionRejected, displayNumber, moveIndex, reason]
)

// ErrorCode accompanies a FatalError, after which the connection is closed.
type ErrorCode int

const (
	ErrorInvalidMessageFormat ErrorCode = iota
	ErrorNotUsingLatestVersion
	ErrorInvalidUsername
	ErrorInternalServerError
)

func (c ErrorCode) String() string {
	switch c {
	case ErrorInvalidMessageFormat:
		return "InvalidMessageFormat"
	case ErrorNotUsingLatestVersion:
		return "NotUsingLatestVersion"
	case ErrorInvalidUsername:
		return "InvalidUsername"
	case ErrorInternalServerError:
		return "InternalServerError"
	}
	return "Unknown"
}

const maxUsernameLength = 32

// cleanUsername trims name and rejects empty, overlong or non-printable names.
func cleanUsername(name string) (string, bool) {
	name = strings.TrimSpace(name)
	if name == "" || len([]rune(name)) > maxUsernameLength {
		return "", false
	}
	for _, r := range name {
		if !unicode.IsPrint(r) {
			return "", false
		}
	}
	return name, true
}

// intAt reads msg[i] as an integer. JSON numbers arrive as float64.
func intAt(msg []any, i int) (int, bool) {
	if i >= len(msg) {
		return 0, false
	}
	switch n := msg[i].(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		if n != math.Trunc(n) || math.IsInf(n, 0) {
			return 0, false
		}
		return int(n), true
	}
	return 0, false
}
