package experiments

import (
	"fmt"
	"tactics/config"
	"tactics/experiments/metrics"
	"tactics/hexgrid/gen"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
)

// RunStrategyExperiment pits raiders steered by each decision mode against
// the same set of battlefields.
func RunStrategyExperiment(cfg config.Config) error {
	configs := []metrics.AgentConfig{
		{ID: 1, Mode: ModeStatus},
		{ID: 2, Mode: "greedy"},
		{ID: 3, Mode: "optimal-influence"},
		{ID: 4, Mode: ModeSearch, Playout: cfg.Strategy.Playout, MaxSearchStep: cfg.Search.MaxSearchStep, MaxExpandLevel: cfg.Search.MaxExpandLevel},
	}
	return runExperiment(cfg, "strategy", configs)
}

func runExperiment(cfg config.Config, name string, configs []metrics.AgentConfig) error {
	seeds := battleSeeds(cfg)
	count := 0
	battleRecords := []metrics.BattleRecord{}
	decisionRecords := []metrics.DecisionRecord{}
	start := time.Now()

	log.Info().Msgf("starting %s experiment with %d agents over %d battlefields...", name, len(configs), len(seeds))

	for ai, agent := range configs {
		log.Info().Msgf("starting agent %d of %d: %+v...", ai+1, len(configs), agent)
		wins := 0

		for i, seed := range seeds {
			winner, battle, decisions, err := runBattle(cfg, agent, seed)
			if err != nil {
				log.Warn().Msgf("skipping battle %d of agent %d: %v", i+1, agent.ID, err)
				continue
			}
			count++
			if winner == "hostile" {
				wins++
			}
			battleRecords = append(battleRecords, metrics.BattleRecord{
				ID:           count,
				Agent:        agent.ID,
				Seed:         seed,
				BattleMetric: battle,
			})
			for _, d := range decisions {
				decisionRecords = append(decisionRecords, metrics.DecisionRecord{
					Battle:         count,
					DecisionMetric: d,
				})
			}

			log.Info().Msgf("completed battle %d of %d for agent %d with winner: %q", i+1, len(seeds), agent.ID, winner)
		}
		log.Info().Msgf("completed agent %d: raiders won %d of %d", agent.ID, wins, len(seeds))
	}

	log.Info().Msgf("completed %s experiment: %s battles, %s decisions, started %s",
		name, humanize.Comma(int64(len(battleRecords))), humanize.Comma(int64(len(decisionRecords))), humanize.Time(start))

	return store(cfg, name, configs, battleRecords, decisionRecords)
}

func store(cfg config.Config, name string, configs []metrics.AgentConfig, battles []metrics.BattleRecord, decisions []metrics.DecisionRecord) error {
	// Store experiment metadata
	writer, err := metrics.NewWriter(cfg.Experiment.OutputDir, name)
	if err != nil {
		return fmt.Errorf("failed to create experiment writer: %w", err)
	}

	err = writer.WriteAgentConfigs(configs)
	if err != nil {
		return fmt.Errorf("failed to store agent configs: %w", err)
	}
	log.Info().Msg("stored agent configs")

	// Store experiment results
	err = writer.WriteBattleRecords(battles)
	if err != nil {
		return fmt.Errorf("failed to write battle records: %w", err)
	}
	log.Info().Msg("stored battle records")

	err = writer.WriteDecisionRecords(decisions)
	if err != nil {
		return fmt.Errorf("failed to write decision records: %w", err)
	}
	log.Info().Msgf("stored decision records in %s", writer.Dir())
	return nil
}

// battleSeeds derives one grid seed per battle so that every agent fights on
// the same battlefields.
func battleSeeds(cfg config.Config) []uint64 {
	base := cfg.Grid.Seed
	if base == 0 {
		base = rand.Uint64()
	}
	seeds := make([]uint64, cfg.Experiment.Battles)
	for i := range seeds {
		seeds[i] = base + uint64(i)
	}
	return seeds
}

// runBattle executes a single battle on a freshly generated grid
func runBattle(cfg config.Config, agent metrics.AgentConfig, seed uint64) (string, metrics.BattleMetric, []metrics.DecisionMetric, error) {
	gridCfg := cfg.Grid
	gridCfg.Seed = seed
	grid := gen.Generate(gridCfg)

	e, err := NewBattle(cfg, grid, agent)
	if err != nil {
		return "", metrics.BattleMetric{}, nil, err
	}
	winner, battle, decisions := e.Run(cfg.Engine.MaxTicks)
	return winner, battle, decisions, nil
}

// RunBattle plays one battle and logs its outcome.
func RunBattle(cfg config.Config, agent metrics.AgentConfig) (metrics.BattleMetric, error) {
	seed := cfg.Grid.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	winner, battle, decisions, err := runBattle(cfg, agent, seed)
	if err != nil {
		return battle, err
	}
	log.Info().Msgf("battle on seed %d won by %q in %s ticks (%s), %d decisions, %d of %d settlement cells burned",
		seed, winner, humanize.Comma(int64(battle.Ticks)), battle.Duration, len(decisions), battle.StructuresDestroyed, battle.Structures)
	return battle, nil
}
