package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/lootrush/lootrush/pkg/config"
	"github.com/lootrush/lootrush/pkg/props"
	"github.com/lootrush/lootrush/pkg/state"
	"github.com/lootrush/lootrush/pkg/version"

	"github.com/alecthomas/kong"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var CLI struct {
	Version bool `help:"Print version information and exit." short:"v"`
	Debug   bool `help:"Whether to enable debug logging."`

	Serve struct {
		Configs []string `arg:"" optional:"" name:"configs" help:"Configuration files for the server." type:"file"`
	} `cmd:"" help:"Start the loot rush server."`

	Config struct {
	} `cmd:"" help:"Write the default configuration to standard output."`

	Backup struct {
		Output  string   `arg:"" help:"File to write the snapshot to."`
		Configs []string `help:"Configuration files for the server." type:"file"`
	} `cmd:"" help:"Snapshot the persisted game state to a file."`

	Restore struct {
		Input   string   `arg:"" help:"Snapshot file to load." type:"file"`
		Configs []string `help:"Configuration files for the server." type:"file"`
	} `cmd:"" help:"Load a game state snapshot into the backend."`

	History struct {
		Limit   int      `default:"10" help:"How many matches to show."`
		Configs []string `help:"Configuration files for the server." type:"file"`
	} `cmd:"" help:"Show recent match results."`
}

func writeError(err error) {
	fmt.Fprintf(os.Stderr, "%s\n", err)
	os.Exit(1)
}

func backendFromConfig(cfg *config.Config) props.Backend {
	if cfg.Redis != nil {
		return props.NewRedis(*cfg.Redis)
	}
	return props.NewMemory()
}

func backupCommand(configs []string, output string) error {
	cfg, err := config.Process(configs)
	if err != nil {
		return err
	}

	f, err := os.Create(output)
	if err != nil {
		return err
	}
	defer f.Close()

	return props.Snapshot(context.Background(), backendFromConfig(cfg), f)
}

func restoreCommand(configs []string, input string) error {
	cfg, err := config.Process(configs)
	if err != nil {
		return err
	}

	f, err := os.Open(input)
	if err != nil {
		return err
	}
	defer f.Close()

	return props.Restore(context.Background(), backendFromConfig(cfg), f)
}

func historyCommand(configs []string, limit int) error {
	cfg, err := config.Process(configs)
	if err != nil {
		return err
	}

	db, err := state.InitDB(cfg.Database)
	if err != nil {
		return err
	}

	matches, err := state.RecentMatches(db, limit)
	if err != nil {
		return err
	}

	for _, match := range matches {
		outcome := match.Winner
		if outcome == "" {
			outcome = "abandoned"
		}
		fmt.Printf(
			"#%d %s: crimson %d, azure %d (%s)\n",
			match.ID,
			match.StartedAt.Format(time.RFC3339),
			match.CrimsonScore,
			match.AzureScore,
			outcome,
		)
		for _, completion := range match.Completions {
			fmt.Printf(
				"  round %d: %s completed %s for %d\n",
				completion.Round,
				completion.Team,
				completion.Title,
				completion.Points,
			)
		}
	}

	return nil
}

func main() {
	consoleWriter := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	log.Logger = log.Output(consoleWriter)

	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	if len(os.Args) == 1 {
		if err := serveCommand([]string{}); err != nil {
			writeError(err)
		}
		return
	}

	ctx := kong.Parse(&CLI,
		kong.Name("lootrush"),
		kong.Description("a timed team challenge game server"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
			Summary: true,
		}))

	if CLI.Debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		log.Warn().Msg("debug logging enabled")
	}

	if CLI.Version {
		fmt.Printf(
			"lootrush %s (commit %s)\n",
			version.Version,
			version.GitCommit,
		)
		fmt.Printf("built %s\n", version.BuildTime)
		os.Exit(0)
	}

	var err error
	switch ctx.Command() {
	case "serve":
		fallthrough
	case "serve <configs>":
		err = serveCommand(CLI.Serve.Configs)
	case "config":
		os.Stdout.Write(config.DEFAULT)
	case "backup <output>":
		err = backupCommand(CLI.Backup.Configs, CLI.Backup.Output)
	case "restore <input>":
		err = restoreCommand(CLI.Restore.Configs, CLI.Restore.Input)
	case "history":
		err = historyCommand(CLI.History.Configs, CLI.History.Limit)
	}

	if err != nil {
		writeError(err)
	}
}
