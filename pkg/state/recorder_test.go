package state

import (
	"path/filepath"
	"testing"

	"github.com/lootrush/lootrush/pkg/challenge"
	"github.com/lootrush/lootrush/pkg/game"
	"github.com/lootrush/lootrush/pkg/team"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := InitDB(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	return db
}

func TestRecorderFullMatch(t *testing.T) {
	db := testDB(t)
	r := NewRecorder(db)

	r.handle(game.Event{Type: game.EventRoundStarted, Round: 1, TotalRounds: 4})
	r.handle(game.Event{
		Type:  game.EventChallengeCompleted,
		Round: 1,
		Team:  team.Crimson,
		Challenge: &challenge.Record{
			Definition: challenge.Definition{ID: "dirt-5", Title: "Groundwork", Points: 10},
		},
	})

	// Subsequent round starts belong to the same match.
	r.handle(game.Event{Type: game.EventRoundStarted, Round: 2, TotalRounds: 4})
	r.handle(game.Event{
		Type:  game.EventChallengeCompleted,
		Round: 2,
		Team:  team.Azure,
		Challenge: &challenge.Record{
			Definition: challenge.Definition{ID: "stone-5", Title: "Quarry", Points: 15},
		},
	})

	r.handle(game.Event{
		Type:         game.EventGameOver,
		CrimsonScore: 10,
		AzureScore:   15,
		Winner:       string(team.Azure),
	})

	matches, err := RecentMatches(db, 10)
	require.NoError(t, err)
	require.Len(t, matches, 1)

	match := matches[0]
	assert.Equal(t, string(team.Azure), match.Winner)
	assert.Equal(t, int64(10), match.CrimsonScore)
	assert.Equal(t, int64(15), match.AzureScore)
	require.Len(t, match.Completions, 2)
	assert.Equal(t, "dirt-5", match.Completions[0].ChallengeID)
	assert.Equal(t, int64(2), match.Completions[1].Round)
	assert.False(t, match.EndedAt.IsZero())
}

func TestRecorderAbandonedMatch(t *testing.T) {
	db := testDB(t)
	r := NewRecorder(db)

	r.handle(game.Event{Type: game.EventRoundStarted, Round: 1, TotalRounds: 4})
	r.handle(game.Event{Type: game.EventReset})

	matches, err := RecentMatches(db, 10)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Empty(t, matches[0].Winner)
	assert.False(t, matches[0].EndedAt.IsZero())

	// Events with no match in flight are ignored.
	r.handle(game.Event{Type: game.EventGameOver})
	r.handle(game.Event{
		Type:      game.EventChallengeCompleted,
		Challenge: &challenge.Record{},
	})

	matches, err = RecentMatches(db, 10)
	require.NoError(t, err)
	assert.Len(t, matches, 1)
}

func TestRecentMatchesOrder(t *testing.T) {
	db := testDB(t)
	r := NewRecorder(db)

	for i := 0; i < 3; i++ {
		r.handle(game.Event{Type: game.EventRoundStarted, Round: 1, TotalRounds: 1})
		r.handle(game.Event{Type: game.EventGameOver, Winner: game.WinnerTie})
	}

	matches, err := RecentMatches(db, 2)
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Greater(t, matches[0].ID, matches[1].ID, "newest first")
}
