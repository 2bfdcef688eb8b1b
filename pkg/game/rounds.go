package game

import (
	"fmt"

	"github.com/lootrush/lootrush/pkg/props"
	"github.com/lootrush/lootrush/pkg/team"

	"github.com/rs/zerolog/log"
)

// RemainingTicks reports how much round time is left. While paused, the
// pause reference tick stands in for the current tick, so the value stays
// frozen until resume shifts the round start forward.
func (o *Orchestrator) RemainingTicks() int64 {
	effective := o.sched.CurrentTick()
	if o.gamePaused && o.pausedAtTick != 0 {
		effective = o.pausedAtTick
	}

	remaining := o.roundDuration - (effective - o.roundStartTick)
	if remaining < 0 {
		return 0
	}
	return remaining
}

func (o *Orchestrator) startRoundTimer() {
	o.stopRoundTimer()
	o.roundTimer = o.sched.RunInterval(o.handleRoundTick, roundTimerInterval)
}

func (o *Orchestrator) stopRoundTimer() {
	o.sched.Clear(o.roundTimer)
	o.roundTimer = 0
}

func (o *Orchestrator) resetTimerWarnings() {
	o.warned60 = false
	o.warned30 = false
	o.lastSecondWarning = -1
}

func (o *Orchestrator) handleRoundTick() {
	if !o.gameActive || o.gamePaused {
		return
	}

	remaining := o.RemainingTicks()
	o.Events.Publish(Event{
		Type:           EventTimer,
		Round:          o.currentRound,
		TotalRounds:    o.totalRounds,
		RemainingTicks: remaining,
		CrimsonScore:   o.teams.Score(team.Crimson),
		AzureScore:     o.teams.Score(team.Azure),
	})
	o.emitWarnings(remaining)

	if remaining == 0 {
		o.TransitionToNextRound()
	}
}

// Warnings fire once at exactly 60s and 30s remaining, then once per second
// over the final ten. The timer cadence is tick-aligned, so exact equality
// holds and rounds shorter than a threshold never see it. Flags reset at
// every round boundary.
func (o *Orchestrator) emitWarnings(remaining int64) {
	seconds := remaining / TicksPerSecond

	warn := func(s int64) {
		o.Events.Publish(Event{
			Type:        EventWarning,
			Round:       o.currentRound,
			WarnSeconds: s,
		})
	}

	if !o.warned60 && seconds == 60 {
		o.warned60 = true
		warn(60)
		return
	}
	if !o.warned30 && seconds == 30 {
		o.warned30 = true
		warn(30)
		return
	}
	if seconds <= 10 && remaining > 0 && seconds != o.lastSecondWarning {
		o.lastSecondWarning = seconds
		warn(seconds)
	}
}

// TransitionToNextRound advances to the next round with a fresh challenge
// set, or ends the game when the final round just elapsed.
func (o *Orchestrator) TransitionToNextRound() {
	if o.currentRound >= o.totalRounds {
		log.Info().Int64("round", o.currentRound).Msg("final round elapsed")
		o.EndGame(true)
		return
	}

	o.currentRound++
	o.roundStartTick = o.sched.CurrentTick()
	o.pausedAtTick = 0
	o.gamePaused = false
	o.stopPauseLoop()
	o.resetTimerWarnings()

	o.persistRoundState()
	o.store.SetNumber(props.KeyPausedAtTick, 0)
	o.store.SetBool(props.KeyGamePaused, false)

	o.catalog.Select(o.config.Config().Counts())
	o.startMonitor()

	o.publishRoundStarted()
	log.Info().Int64("round", o.currentRound).Msg("round started")
}

// ForceRound jumps play to round n by rerunning the normal transition from
// round n-1, so challenge selection and timers behave exactly as they would
// at a natural boundary.
func (o *Orchestrator) ForceRound(n int64) error {
	if !o.IsGameActive() {
		return fmt.Errorf("no game in progress")
	}
	if n < 1 || n > o.totalRounds {
		return fmt.Errorf("round must be between 1 and %d", o.totalRounds)
	}

	o.currentRound = n - 1
	o.TransitionToNextRound()
	return nil
}
