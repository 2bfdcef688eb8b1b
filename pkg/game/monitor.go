package game

import (
	"github.com/lootrush/lootrush/pkg/challenge"
	"github.com/lootrush/lootrush/pkg/team"

	"github.com/repeale/fp-go/option"
	"github.com/rs/zerolog/log"
)

// The completion monitor scans each team's bounty chest on a fixed cadence.
// At most one challenge completes per team per scan: validate, lock, award,
// then consume the deposit.
func (o *Orchestrator) startMonitor() {
	o.stopMonitor()
	o.monitor = o.sched.RunInterval(o.monitorTick, o.config.Config().MonitorIntervalTicks)
}

func (o *Orchestrator) stopMonitor() {
	o.sched.Clear(o.monitor)
	o.monitor = 0
}

func (o *Orchestrator) monitorTick() {
	if !o.gameActive || o.gamePaused {
		return
	}

	for _, id := range team.Teams() {
		o.scanTeamChest(id)
	}
}

func (o *Orchestrator) scanTeamChest(id team.ID) {
	loc := o.chests[id]
	if loc == nil {
		return
	}
	container := o.world.ContainerAt(*loc)
	if opt.IsNone(container) {
		return
	}
	chest := container.Value

	for _, record := range o.catalog.Available() {
		if !challenge.ValidateDeposit(chest, record.Definition) {
			continue
		}

		completed := o.catalog.Complete(record.ID, id)
		if opt.IsNone(completed) {
			continue
		}

		o.teams.AddPoints(id, int64(record.Points))
		challenge.RemoveItems(chest, record.Definition)

		crimson := o.teams.Score(team.Crimson)
		azure := o.teams.Score(team.Azure)

		o.Events.Publish(Event{
			Type:         EventChallengeCompleted,
			Round:        o.currentRound,
			Team:         id,
			Challenge:    &completed.Value,
			CrimsonScore: crimson,
			AzureScore:   azure,
		})
		o.Events.Publish(Event{
			Type:         EventScoreChanged,
			CrimsonScore: crimson,
			AzureScore:   azure,
		})

		log.Info().
			Str("team", string(id)).
			Str("challenge", record.ID).
			Int64("points", record.Points).
			Msg("deposit scored")
		return
	}
}
