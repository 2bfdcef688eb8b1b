package game

import (
	"github.com/lootrush/lootrush/pkg/challenge"
	"github.com/lootrush/lootrush/pkg/team"
)

type EventType string

const (
	// Team formation choreography.
	EventTeamShuffle EventType = "teamShuffle"
	EventTeamsFormed EventType = "teamsFormed"

	// Round lifecycle.
	EventRoundStarted EventType = "roundStarted"
	EventTimer        EventType = "timer"
	EventWarning      EventType = "warning"
	EventPaused       EventType = "paused"
	EventFrozen       EventType = "frozen"
	EventResumed      EventType = "resumed"
	EventGameOver     EventType = "gameOver"
	EventReset        EventType = "reset"

	// Objective progress.
	EventChallengeCompleted EventType = "challengeCompleted"
	EventScoreChanged       EventType = "scoreChanged"
)

// WinnerTie marks a drawn game in Event.Winner; otherwise the field carries
// the winning team id.
const WinnerTie = "tie"

// Event is the structured outbound record presentation collaborators render.
// The core never knows how (or whether) an event is displayed.
type Event struct {
	Type EventType `json:"type" cbor:"type"`

	Round          int64 `json:"round,omitempty" cbor:"round,omitempty"`
	TotalRounds    int64 `json:"totalRounds,omitempty" cbor:"totalRounds,omitempty"`
	RemainingTicks int64 `json:"remainingTicks,omitempty" cbor:"remainingTicks,omitempty"`

	CrimsonScore int64 `json:"crimsonScore,omitempty" cbor:"crimsonScore,omitempty"`
	AzureScore   int64 `json:"azureScore,omitempty" cbor:"azureScore,omitempty"`

	Team      team.ID              `json:"team,omitempty" cbor:"team,omitempty"`
	Challenge *challenge.Record    `json:"challenge,omitempty" cbor:"challenge,omitempty"`
	Rosters   map[team.ID][]string `json:"rosters,omitempty" cbor:"rosters,omitempty"`

	// Winner is set on gameOver events: a team id, or WinnerTie.
	Winner string `json:"winner,omitempty" cbor:"winner,omitempty"`

	// WarnSeconds is set on warning events: 60, 30, or the last ten
	// seconds counted down one event apiece.
	WarnSeconds int64 `json:"warnSeconds,omitempty" cbor:"warnSeconds,omitempty"`
}
