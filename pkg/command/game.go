package command

import (
	"fmt"
	"strings"

	"github.com/lootrush/lootrush/pkg/challenge"
	"github.com/lootrush/lootrush/pkg/game"
	"github.com/lootrush/lootrush/pkg/props"
	"github.com/lootrush/lootrush/pkg/team"
	"github.com/lootrush/lootrush/pkg/world"
)

// GameDeps is everything the operator command surface reaches into.
type GameDeps struct {
	Orchestrator *game.Orchestrator
	Teams        *team.Registry
	Catalog      *challenge.Catalog
	Config       *game.ConfigManager
	Store        *props.Store

	// Center is where team formation places spawn and chests.
	Center world.Location
}

// RegisterGameCommands wires the full operator surface onto a group.
// Registration only fails on programmer error, so it panics.
func RegisterGameCommands[User any](g *CommandGroup[User], deps GameDeps) {
	must := func(err error) {
		if err != nil {
			panic(err)
		}
	}

	must(g.Register(Command{
		Name:        "teamup",
		ArgFormat:   "<player> <player> [player...]",
		Description: "split the named players into two teams and place the bounty chests",
		Callback: func(players []string) error {
			return deps.Orchestrator.FormTeams(players, deps.Center)
		},
	}))

	must(g.Register(Command{
		Name:        "start",
		Description: "start round 1 with fresh scores and challenges",
		Callback:    deps.Orchestrator.StartGame,
	}))

	must(g.Register(Command{
		Name:        "end",
		Description: "end the game and announce the winner",
		Callback: func() error {
			if !deps.Orchestrator.IsGameActive() {
				return fmt.Errorf("no game in progress")
			}
			deps.Orchestrator.EndGame(true)
			return nil
		},
	}))

	must(g.Register(Command{
		Name:        "reset",
		Description: "wipe teams, scores, challenges and chests back to idle",
		Callback: func() error {
			deps.Orchestrator.ResetGame()
			return nil
		},
	}))

	must(g.Register(Command{
		Name:        "pause",
		Description: "freeze the round timer",
		Callback:    deps.Orchestrator.PauseGame,
	}))

	must(g.Register(Command{
		Name:        "resume",
		Description: "unfreeze the round timer",
		Callback:    deps.Orchestrator.ResumeGame,
	}))

	must(g.Register(Command{
		Name:        "round",
		ArgFormat:   "<n>",
		Description: "jump play to round n",
		Callback: func(n int64) error {
			return deps.Orchestrator.ForceRound(n)
		},
	}))

	must(g.Register(Command{
		Name:        "status",
		Description: "current round, time remaining and scores",
		Callback: func(user User) error {
			g.Message(user, "%s", statusLine(deps))
			return nil
		},
	}))

	must(g.Register(Command{
		Name:        "challenges",
		Description: "list this round's challenges and their state",
		Callback: func(user User) error {
			active := deps.Catalog.Active()
			if len(active) == 0 {
				g.Message(user, "no active challenges")
				return nil
			}
			lines := make([]string, 0, len(active))
			for _, record := range active {
				line := fmt.Sprintf("[%s] %s (%d pts, %s)",
					record.State, record.Title, record.Points, record.Difficulty)
				if record.CompletedBy != "" {
					line += " by " + string(record.CompletedBy)
				}
				lines = append(lines, line)
			}
			g.Message(user, "%s", strings.Join(lines, "\n"))
			return nil
		},
	}))

	must(g.Register(Command{
		Name:        "setscore",
		ArgFormat:   "<team> <points>",
		Description: "overwrite a team's score",
		Callback: func(name string, points int64) error {
			id, err := team.Parse(name)
			if err != nil {
				return err
			}
			deps.Teams.SetScore(id, points)
			return nil
		},
	}))

	must(g.Register(Command{
		Name:        "config",
		ArgFormat:   "<key> [value]",
		Description: "inspect or change a game setting; 'config reset' restores defaults",
		Callback: func(user User, key string, value *int64) error {
			if key == "reset" && value == nil {
				deps.Config.Reset()
				return nil
			}
			if value == nil {
				g.Message(user, "%s", configLine(deps.Config.Config(), key))
				return nil
			}
			return deps.Config.Set(key, *value)
		},
	}))

	must(g.Register(Command{
		Name:        "debug",
		ArgFormat:   "<on|off>",
		Description: "toggle verbose diagnostics",
		Callback: func(enabled bool) error {
			deps.Store.SetBool(props.KeyDebugMode, enabled)
			return nil
		},
	}))

	must(g.Register(Command{
		Name:        "help",
		Description: "list available commands",
		Callback: func(user User) error {
			g.Message(user, "%s", g.Help())
			return nil
		},
	}))
}

func statusLine(deps GameDeps) string {
	o := deps.Orchestrator
	if !o.IsGameActive() {
		if o.TeamsFormed() {
			return "teams formed, game not started"
		}
		return "idle"
	}

	seconds := o.RemainingTicks() / game.TicksPerSecond
	line := fmt.Sprintf("round %d, %d:%02d remaining, crimson %d azure %d",
		o.Round(), seconds/60, seconds%60,
		deps.Teams.Score(team.Crimson), deps.Teams.Score(team.Azure))
	if o.IsPaused() {
		line += " (paused)"
	}
	return line
}

func configLine(cfg game.Config, key string) string {
	values := map[string]int64{
		"easyChallengeCount":   int64(cfg.EasyChallengeCount),
		"mediumChallengeCount": int64(cfg.MediumChallengeCount),
		"hardChallengeCount":   int64(cfg.HardChallengeCount),
		"totalRounds":          cfg.TotalRounds,
		"roundDurationTicks":   cfg.RoundDurationTicks,
		"monitorIntervalTicks": cfg.MonitorIntervalTicks,
	}
	if value, ok := values[key]; ok {
		return fmt.Sprintf("%s = %d", key, value)
	}
	return fmt.Sprintf("unknown config key %q", key)
}
