package main

import (
	"flag"
	"os"
	"tactics/config"
	"tactics/experiments"
	"tactics/experiments/metrics"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	configPath := flag.String("config", "", "YAML config file (defaults when empty)")
	experiment := flag.String("experiment", "", "Experiment to run: strategy or search-budget (single battle when empty)")
	mode := flag.String("mode", "", "Raider decision mode for a single battle: status, greedy, optimal-influence or mcts (config picker when empty)")
	seed := flag.Uint64("seed", 0, "Battlefield seed, overrides the config (0 keeps it)")
	verbose := flag.Bool("v", false, "Debug logging")
	flag.Parse()

	setupLogging(*verbose)

	cfg := config.Default()
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to load config")
		}
	}
	if *seed != 0 {
		cfg.Grid.Seed = *seed
	}

	var err error
	switch *experiment {
	case "":
		agent := metrics.AgentConfig{
			Mode:           *mode,
			Playout:        cfg.Strategy.Playout,
			MaxSearchStep:  cfg.Search.MaxSearchStep,
			MaxExpandLevel: cfg.Search.MaxExpandLevel,
		}
		_, err = experiments.RunBattle(cfg, agent)
	case "strategy":
		err = experiments.RunStrategyExperiment(cfg)
	case "search-budget":
		err = experiments.RunSearchBudgetExperiment(cfg)
	default:
		log.Fatal().Msgf("unknown experiment %q", *experiment)
	}
	if err != nil {
		log.Fatal().Err(err).Msg("run failed")
	}
}

func setupLogging(verbose bool) {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.TimeOnly,
		NoColor:    !isatty.IsTerminal(os.Stderr.Fd()),
	})
}
