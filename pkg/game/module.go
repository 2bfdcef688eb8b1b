package game

import (
	"fmt"

	"github.com/lootrush/lootrush/pkg/challenge"
	"github.com/lootrush/lootrush/pkg/clock"
	"github.com/lootrush/lootrush/pkg/props"
	"github.com/lootrush/lootrush/pkg/team"
	"github.com/lootrush/lootrush/pkg/utils"
	"github.com/lootrush/lootrush/pkg/world"

	"github.com/repeale/fp-go/option"
	"github.com/rs/zerolog/log"
)

const (
	// TicksPerSecond is the logical clock rate presentation timing is
	// derived from.
	TicksPerSecond = 20

	// The round timer and pause loop fire once per second to keep
	// per-tick overhead down.
	roundTimerInterval = 20
	pauseLoopInterval  = 20

	// Formation choreography: shuffle announcements every shuffleStep
	// ticks for shuffleTicks total, reveal, then chests appear after
	// revealDelay more ticks.
	shuffleStep  = 10
	shuffleTicks = 200
	revealDelay  = 60

	// Bounty chests sit this many blocks either side of the spawn point.
	chestOffset = 3
)

// Orchestrator is the top-level game driver: it owns round and pause state,
// the round timer, and the completion monitor, and persists every mutation
// that must survive a restart. All methods must be called from the scheduler
// goroutine.
type Orchestrator struct {
	sched   *clock.Scheduler
	store   *props.Store
	config  *ConfigManager
	teams   *team.Registry
	catalog *challenge.Catalog
	world   world.World

	// Events is the outbound feed for presentation collaborators.
	Events *utils.Topic[Event]

	gameActive     bool
	gamePaused     bool
	currentRound   int64
	totalRounds    int64
	roundDuration  int64
	roundStartTick int64
	pausedAtTick   int64

	warned60          bool
	warned30          bool
	lastSecondWarning int64

	roundTimer clock.Handle
	monitor    clock.Handle
	pauseLoop  clock.Handle

	chests map[team.ID]*world.Location
	spawn  *world.Location
}

func NewOrchestrator(
	sched *clock.Scheduler,
	store *props.Store,
	config *ConfigManager,
	teams *team.Registry,
	catalog *challenge.Catalog,
	w world.World,
) *Orchestrator {
	return &Orchestrator{
		sched:             sched,
		store:             store,
		config:            config,
		teams:             teams,
		catalog:           catalog,
		world:             w,
		Events:            utils.NewTopic[Event](),
		lastSecondWarning: -1,
		chests:            make(map[team.ID]*world.Location),
	}
}

func chestKey(id team.ID) string {
	if id == team.Crimson {
		return props.KeyChestCrimson
	}
	return props.KeyChestAzure
}

// Load reconstructs all in-memory state from the property store and re-arms
// the recurring tasks a previous process left running. Persisted reference
// ticks are used as-is; elapsed round time survives the restart.
func (o *Orchestrator) Load() {
	o.config.Load()
	o.teams.Load()
	o.catalog.Load()
	o.ensureDefaults()

	cfg := o.config.Config()
	o.totalRounds = cfg.TotalRounds
	o.roundDuration = cfg.RoundDurationTicks

	o.gameActive = o.store.GetBool(props.KeyGameActive, false)
	o.gamePaused = o.store.GetBool(props.KeyGamePaused, false)
	o.currentRound = o.store.GetNumber(props.KeyCurrentRound, 1)
	o.roundStartTick = o.store.GetNumber(props.KeyRoundStartTick, o.sched.CurrentTick())
	o.pausedAtTick = o.store.GetNumber(props.KeyPausedAtTick, 0)

	for _, id := range team.Teams() {
		o.chests[id] = props.GetJSON[*world.Location](o.store, chestKey(id), nil)
		if loc := o.chests[id]; loc != nil {
			o.world.PlaceChest(*loc)
		}
	}
	o.spawn = props.GetJSON[*world.Location](o.store, props.KeySpawnLocation, nil)

	if !o.gameActive {
		return
	}

	log.Info().
		Int64("round", o.currentRound).
		Int64("remaining", o.RemainingTicks()).
		Bool("paused", o.gamePaused).
		Msg("resuming persisted game")

	o.startRoundTimer()
	if o.gamePaused {
		o.startPauseLoop()
	} else {
		o.startMonitor()
	}
}

func (o *Orchestrator) ensureDefaults() {
	bools := map[string]bool{
		props.KeyGameActive:  false,
		props.KeyGamePaused:  false,
		props.KeyDebugMode:   false,
		props.KeyTeamsFormed: false,
	}
	for key, value := range bools {
		if !o.store.Has(key) {
			o.store.SetBool(key, value)
		}
	}

	numbers := map[string]int64{
		props.KeyCurrentRound:   1,
		props.KeyRoundStartTick: o.sched.CurrentTick(),
		props.KeyPausedAtTick:   0,
		props.KeyCrimsonScore:   0,
		props.KeyAzureScore:     0,
	}
	for key, value := range numbers {
		if !o.store.Has(key) {
			o.store.SetNumber(key, value)
		}
	}

	for _, key := range []string{props.KeyActiveChallenges, props.KeyCompletedChallenges} {
		if o.store.GetString(key, "") == "" {
			o.store.SetString(key, "[]")
		}
	}
}

func (o *Orchestrator) IsGameActive() bool {
	return o.store.GetBool(props.KeyGameActive, o.gameActive)
}

func (o *Orchestrator) IsPaused() bool {
	return o.gamePaused
}

func (o *Orchestrator) TeamsFormed() bool {
	return o.store.GetBool(props.KeyTeamsFormed, false)
}

func (o *Orchestrator) Round() int64 {
	return o.currentRound
}

// ChestLocation returns where a team's bounty chest sits, if placed.
func (o *Orchestrator) ChestLocation(id team.ID) opt.Option[world.Location] {
	if loc := o.chests[id]; loc != nil {
		return opt.Some(*loc)
	}
	return opt.None[world.Location]()
}

// FormTeams shuffles the participants into two teams and kicks off the
// reveal choreography. Chests are placed around center once the reveal
// completes.
func (o *Orchestrator) FormTeams(participants []string, center world.Location) error {
	if len(participants) < 2 {
		return fmt.Errorf("need at least 2 participants to form teams")
	}
	if o.IsGameActive() {
		return fmt.Errorf("cannot form teams while a game is active")
	}
	if o.TeamsFormed() {
		return fmt.Errorf("teams already formed; reset first")
	}

	o.teams.Clear()
	o.teams.Form(participants)
	o.runFormationSequence(center)
	return nil
}

// The formation sequence is a chain of deferred steps. Each step re-reads
// state when it fires: a reset in between empties the rosters and the chain
// stops quietly.
func (o *Orchestrator) runFormationSequence(center world.Location) {
	steps := shuffleTicks / shuffleStep

	var step func(i int)
	step = func(i int) {
		if len(o.teams.Roster(team.Crimson)) == 0 && len(o.teams.Roster(team.Azure)) == 0 {
			return
		}

		if i < steps {
			o.Events.Publish(Event{Type: EventTeamShuffle})
			o.sched.RunTimeout(func() { step(i + 1) }, shuffleStep)
			return
		}

		o.sched.RunTimeout(func() { o.finishFormation(center) }, revealDelay)
	}
	o.sched.RunTimeout(func() { step(0) }, shuffleStep)
}

func (o *Orchestrator) finishFormation(center world.Location) {
	if len(o.teams.Roster(team.Crimson)) == 0 && len(o.teams.Roster(team.Azure)) == 0 {
		return
	}

	crimson := world.Location{X: center.X - chestOffset, Y: center.Y, Z: center.Z}
	azure := world.Location{X: center.X + chestOffset, Y: center.Y, Z: center.Z}

	o.world.PlaceChest(crimson)
	o.world.PlaceChest(azure)
	o.chests[team.Crimson] = &crimson
	o.chests[team.Azure] = &azure
	o.spawn = &center
	props.SetJSON(o.store, props.KeyChestCrimson, &crimson)
	props.SetJSON(o.store, props.KeyChestAzure, &azure)
	props.SetJSON(o.store, props.KeySpawnLocation, &center)

	o.store.SetBool(props.KeyTeamsFormed, true)

	o.Events.Publish(Event{
		Type: EventTeamsFormed,
		Rosters: map[team.ID][]string{
			team.Crimson: o.teams.Roster(team.Crimson),
			team.Azure:   o.teams.Roster(team.Azure),
		},
	})

	log.Info().Msg("teams formed and bounty chests placed")
}

// StartGame begins round 1 with fresh scores and a fresh challenge set.
func (o *Orchestrator) StartGame() error {
	if !o.TeamsFormed() {
		return fmt.Errorf("teams must be formed first")
	}
	if o.IsGameActive() {
		return fmt.Errorf("a game is already in progress")
	}
	if o.chests[team.Crimson] == nil || o.chests[team.Azure] == nil {
		return fmt.Errorf("bounty chests not placed; re-run team formation")
	}

	cfg := o.config.Config()
	o.totalRounds = cfg.TotalRounds
	o.roundDuration = cfg.RoundDurationTicks

	now := o.sched.CurrentTick()
	o.gameActive = true
	o.gamePaused = false
	o.currentRound = 1
	o.roundStartTick = now
	o.pausedAtTick = 0
	o.resetTimerWarnings()

	o.store.SetBool(props.KeyGameActive, true)
	o.store.SetBool(props.KeyGamePaused, false)
	o.store.SetNumber(props.KeyPausedAtTick, 0)
	o.teams.SetScore(team.Crimson, 0)
	o.teams.SetScore(team.Azure, 0)
	o.persistRoundState()

	o.catalog.Select(cfg.Counts())

	o.startRoundTimer()
	o.startMonitor()

	o.publishRoundStarted()
	log.Info().Int64("tick", now).Msg("game started")
	return nil
}

// EndGame stops the game and, when asked, announces the outcome. Equal
// scores are a tie; otherwise strictly greater wins.
func (o *Orchestrator) EndGame(announceWinner bool) {
	o.gameActive = false
	o.gamePaused = false
	o.pausedAtTick = 0
	o.store.SetBool(props.KeyGameActive, false)
	o.store.SetBool(props.KeyGamePaused, false)
	o.store.SetNumber(props.KeyPausedAtTick, 0)

	o.stopPauseLoop()
	o.stopRoundTimer()
	o.stopMonitor()

	log.Info().Bool("announce", announceWinner).Msg("game ended")

	if !announceWinner {
		return
	}

	winner, crimson, azure := o.Winner()
	o.Events.Publish(Event{
		Type:         EventGameOver,
		Round:        o.currentRound,
		TotalRounds:  o.totalRounds,
		CrimsonScore: crimson,
		AzureScore:   azure,
		Winner:       winner,
	})
}

// Winner compares scores: a team id, or WinnerTie when equal.
func (o *Orchestrator) Winner() (string, int64, int64) {
	crimson := o.teams.Score(team.Crimson)
	azure := o.teams.Score(team.Azure)

	winner := WinnerTie
	if crimson > azure {
		winner = string(team.Crimson)
	} else if azure > crimson {
		winner = string(team.Azure)
	}
	return winner, crimson, azure
}

// ResetGame returns everything to the idle state: no teams, no challenges,
// no chests, zeroed round and scores.
func (o *Orchestrator) ResetGame() {
	o.EndGame(false)

	now := o.sched.CurrentTick()
	o.currentRound = 0
	o.roundStartTick = now
	o.resetTimerWarnings()

	o.store.SetBool(props.KeyTeamsFormed, false)
	o.persistRoundState()
	o.teams.SetScore(team.Crimson, 0)
	o.teams.SetScore(team.Azure, 0)

	o.catalog.Reset()
	o.teams.Clear()

	o.chests = make(map[team.ID]*world.Location)
	o.spawn = nil
	props.SetJSON[*world.Location](o.store, props.KeyChestCrimson, nil)
	props.SetJSON[*world.Location](o.store, props.KeyChestAzure, nil)
	props.SetJSON[*world.Location](o.store, props.KeySpawnLocation, nil)

	o.Events.Publish(Event{Type: EventReset})
	log.Info().Msg("game state fully reset")
}

// PauseGame freezes the round timer by recording the pause reference tick.
func (o *Orchestrator) PauseGame() error {
	if !o.IsGameActive() {
		return fmt.Errorf("no game in progress")
	}
	if o.gamePaused {
		return fmt.Errorf("game is already paused")
	}

	o.gamePaused = true
	o.pausedAtTick = o.sched.CurrentTick()
	o.store.SetBool(props.KeyGamePaused, true)
	o.store.SetNumber(props.KeyPausedAtTick, o.pausedAtTick)

	o.startPauseLoop()
	o.Events.Publish(Event{
		Type:           EventPaused,
		Round:          o.currentRound,
		RemainingTicks: o.RemainingTicks(),
	})

	log.Info().Int64("tick", o.pausedAtTick).Msg("game paused")
	return nil
}

// ResumeGame shifts the round's reference tick forward by the pause
// duration, so remaining time picks up exactly where the pause left it.
func (o *Orchestrator) ResumeGame() error {
	if !o.gamePaused {
		return fmt.Errorf("game is not paused")
	}

	o.gamePaused = false
	if o.pausedAtTick != 0 {
		pauseDuration := o.sched.CurrentTick() - o.pausedAtTick
		o.roundStartTick += pauseDuration
		o.persistRoundState()
	}
	o.pausedAtTick = 0
	o.store.SetNumber(props.KeyPausedAtTick, 0)
	o.store.SetBool(props.KeyGamePaused, false)

	o.stopPauseLoop()
	// A paused reload arms only the pause loop, so the monitor may not be
	// running yet.
	o.startMonitor()
	o.Events.Publish(Event{
		Type:           EventResumed,
		Round:          o.currentRound,
		RemainingTicks: o.RemainingTicks(),
	})

	log.Info().Int64("roundStartTick", o.roundStartTick).Msg("game resumed")
	return nil
}

func (o *Orchestrator) persistRoundState() {
	o.store.SetNumber(props.KeyCurrentRound, o.currentRound)
	o.store.SetNumber(props.KeyRoundStartTick, o.roundStartTick)
}

// While paused, a once-per-second loop reminds presentation collaborators
// that time is frozen.
func (o *Orchestrator) startPauseLoop() {
	o.stopPauseLoop()
	o.pauseLoop = o.sched.RunInterval(func() {
		o.Events.Publish(Event{
			Type:           EventFrozen,
			Round:          o.currentRound,
			RemainingTicks: o.RemainingTicks(),
		})
	}, pauseLoopInterval)
}

func (o *Orchestrator) stopPauseLoop() {
	o.sched.Clear(o.pauseLoop)
	o.pauseLoop = 0
}

func (o *Orchestrator) publishRoundStarted() {
	o.Events.Publish(Event{
		Type:           EventRoundStarted,
		Round:          o.currentRound,
		TotalRounds:    o.totalRounds,
		RemainingTicks: o.RemainingTicks(),
		CrimsonScore:   o.teams.Score(team.Crimson),
		AzureScore:     o.teams.Score(team.Azure),
	})
}
