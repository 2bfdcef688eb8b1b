package game

import (
	"testing"

	"github.com/lootrush/lootrush/pkg/challenge"
	"github.com/lootrush/lootrush/pkg/team"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTransitionOnExpiry(t *testing.T) {
	f := newFixture(challenge.DefaultPool())
	require.NoError(t, f.config.Set("roundDurationTicks", 200))
	f.form(t)
	require.NoError(t, f.orch.StartGame())

	f.advance(220)
	assert.Equal(t, int64(2), f.orch.Round())
	assert.Equal(t, 2, f.count(EventRoundStarted))
	assert.Len(t, f.catalog.Available(), 6, "each round draws a fresh challenge set")
	assert.Empty(t, f.catalog.Completed())

	f.advance(200)
	assert.Equal(t, int64(3), f.orch.Round())
}

func TestRoundNumberNeverDecreases(t *testing.T) {
	f := newFixture(challenge.DefaultPool())
	require.NoError(t, f.config.Set("roundDurationTicks", 100))
	f.form(t)
	require.NoError(t, f.orch.StartGame())

	highest := f.orch.Round()
	for i := 0; i < 40; i++ {
		f.advance(10)
		round := f.orch.Round()
		require.GreaterOrEqual(t, round, highest)
		highest = round
	}
}

func TestFinalRoundEndsGame(t *testing.T) {
	f := newFixture(challenge.DefaultPool())
	require.NoError(t, f.config.Set("totalRounds", 1))
	require.NoError(t, f.config.Set("roundDurationTicks", 200))
	f.form(t)
	require.NoError(t, f.orch.StartGame())

	f.teams.SetScore(team.Crimson, 20)
	f.advance(220)

	assert.False(t, f.orch.IsGameActive())

	over, ok := f.last(EventGameOver)
	require.True(t, ok)
	assert.Equal(t, string(team.Crimson), over.Winner)
	assert.Equal(t, int64(20), over.CrimsonScore)

	f.events = nil
	f.advance(100)
	assert.Empty(t, f.events, "timer and monitor stop with the game")
}

func TestPauseDelaysExpiry(t *testing.T) {
	f := newFixture(challenge.DefaultPool())
	require.NoError(t, f.config.Set("roundDurationTicks", 200))
	f.form(t)
	require.NoError(t, f.orch.StartGame())

	f.advance(100)
	require.NoError(t, f.orch.PauseGame())
	f.advance(500)
	assert.Equal(t, int64(1), f.orch.Round(), "paused rounds never expire")

	require.NoError(t, f.orch.ResumeGame())
	f.advance(120)
	assert.Equal(t, int64(2), f.orch.Round(), "expiry shifted by exactly the pause duration")
}

func TestForceRoundClearsPause(t *testing.T) {
	f := newFixture(challenge.DefaultPool())
	f.form(t)
	require.NoError(t, f.orch.StartGame())

	f.advance(100)
	require.NoError(t, f.orch.PauseGame())
	require.NoError(t, f.orch.ForceRound(2))

	assert.False(t, f.orch.IsPaused())
	assert.Equal(t, int64(2), f.orch.Round())

	f.events = nil
	f.advance(100)
	assert.Zero(t, f.count(EventFrozen), "forced round leaves no pause loop behind")
	assert.Equal(t, 5, f.count(EventTimer), "round timer runs normally")
}

func TestTimerWarnings(t *testing.T) {
	f := newFixture(challenge.DefaultPool())
	require.NoError(t, f.config.Set("roundDurationTicks", 1300))
	f.form(t)
	require.NoError(t, f.orch.StartGame())

	f.advance(1280)

	var warns []int64
	for _, event := range f.events {
		if event.Type == EventWarning {
			warns = append(warns, event.WarnSeconds)
		}
	}
	assert.Equal(t, []int64{60, 30, 10, 9, 8, 7, 6, 5, 4, 3, 2, 1}, warns)
}

func TestShortRoundSkipsMinuteWarnings(t *testing.T) {
	f := newFixture(challenge.DefaultPool())
	require.NoError(t, f.config.Set("roundDurationTicks", 200))
	f.form(t)
	require.NoError(t, f.orch.StartGame())

	f.advance(190)

	var warns []int64
	for _, event := range f.events {
		if event.Type == EventWarning {
			warns = append(warns, event.WarnSeconds)
		}
	}
	assert.Equal(t, []int64{9, 8, 7, 6, 5, 4, 3, 2, 1}, warns,
		"a ten second round never crosses the minute marks")
}

func TestWarningsResetEachRound(t *testing.T) {
	f := newFixture(challenge.DefaultPool())
	require.NoError(t, f.config.Set("roundDurationTicks", 300))
	f.form(t)
	require.NoError(t, f.orch.StartGame())

	// Two full rounds; each gets its own countdown.
	f.advance(600)
	assert.Equal(t, 2, countWarn(f.events, 10))
	assert.Equal(t, 2, countWarn(f.events, 1))
}

func countWarn(events []Event, seconds int64) int {
	n := 0
	for _, event := range events {
		if event.Type == EventWarning && event.WarnSeconds == seconds {
			n++
		}
	}
	return n
}
