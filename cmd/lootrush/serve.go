package main

import (
	"context"
	"math/rand"
	"os"
	"os/signal"
	"time"

	"github.com/lootrush/lootrush/pkg/challenge"
	"github.com/lootrush/lootrush/pkg/clock"
	"github.com/lootrush/lootrush/pkg/command"
	"github.com/lootrush/lootrush/pkg/config"
	"github.com/lootrush/lootrush/pkg/game"
	"github.com/lootrush/lootrush/pkg/ingress"
	"github.com/lootrush/lootrush/pkg/props"
	"github.com/lootrush/lootrush/pkg/state"
	"github.com/lootrush/lootrush/pkg/team"
	"github.com/lootrush/lootrush/pkg/world"

	"github.com/rs/zerolog/log"
)

func serveCommand(configs []string) error {
	cfg, err := config.Process(configs)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load lootrush configuration")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store := props.NewStore(backendFromConfig(cfg))
	store.LoadAll(ctx)

	// Server config provides game settings only until a game config has
	// been persisted; after that the stored copy wins.
	if !store.Has(props.KeyConfig) && cfg.Game.Validate() == nil {
		props.SetJSON(store, props.KeyConfig, cfg.Game)
	}

	sched := clock.NewScheduler(time.Duration(cfg.TickMillis) * time.Millisecond)
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	teams := team.NewRegistry(store, rng)
	catalog := challenge.NewCatalog(store, rng, challenge.DefaultPool())
	manager := game.NewConfigManager(store)

	orchestrator := game.NewOrchestrator(
		sched,
		store,
		manager,
		teams,
		catalog,
		world.NewMemory(),
	)
	orchestrator.Load()

	db, err := state.InitDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msgf("failed to open database: %s", cfg.Database)
	}
	recorder := state.NewRecorder(db)
	go recorder.Poll(ctx, orchestrator.Events)

	sched.RunInterval(func() {
		store.Flush(ctx)
	}, cfg.FlushIntervalTicks)

	go sched.Poll(ctx)

	wsIngress := ingress.NewWSIngress(sched, orchestrator.Events, command.GameDeps{
		Orchestrator: orchestrator,
		Teams:        teams,
		Catalog:      catalog,
		Config:       manager,
		Store:        store,
		Center:       cfg.Spawn,
	})

	errc := make(chan error, 1)
	go func() {
		errc <- wsIngress.Serve(ctx, cfg.Listen)
	}()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt)
	signal.Notify(sigs, os.Kill)

	select {
	case err := <-errc:
		log.Error().Err(err).Msg("failed to serve")
	case sig := <-sigs:
		log.Info().Msgf("terminating: %v", sig)
	}

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	wsIngress.Shutdown(shutdownCtx)

	// One last write so nothing dirty is lost.
	store.Flush(shutdownCtx)

	return nil
}
