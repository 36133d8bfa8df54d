package experiments

import (
	"path/filepath"
	"tactics/config"
	"tactics/decision"
	"tactics/experiments/metrics"
	"tactics/formation"
	"tactics/hexgrid"
	"tactics/influence"
	"tactics/strategy"
	"testing"

	"github.com/stretchr/testify/require"
)

func smallConfig(t *testing.T) config.Config {
	cfg := config.Default()
	cfg.Grid.Width = 10
	cfg.Grid.Height = 8
	cfg.Grid.Seed = 3
	cfg.Search.MaxSearchStep = 10
	cfg.Search.MaxExpandLevel = 2
	cfg.Search.Seed = 1
	cfg.Engine.MaxTicks = 30
	cfg.Experiment.Battles = 2
	cfg.Experiment.OutputDir = t.TempDir()
	return cfg
}

func TestNewBattle(t *testing.T) {
	t.Run("guard and raiders are deployed", func(t *testing.T) {
		grid := hexgrid.NewRectGrid(10, 6)
		grid.Cells[12].Structure = true

		e, err := NewBattle(smallConfig(t), grid, metrics.AgentConfig{Mode: "greedy"})

		require.NoError(t, err)
		require.Len(t, e.Formations(formation.Friendly), 1)
		require.Len(t, e.Formations(formation.Hostile), 1)
		for _, f := range append(e.Formations(formation.Friendly), e.Formations(formation.Hostile)...) {
			for _, unit := range f.Units() {
				require.NotNil(t, unit.Cell, "%s should stand on the grid", unit)
			}
		}
	})

	t.Run("battlefields without settlements are rejected", func(t *testing.T) {
		_, err := NewBattle(smallConfig(t), hexgrid.NewRectGrid(4, 4), metrics.AgentConfig{})
		require.ErrorIs(t, err, ErrNoSettlement)
	})

	t.Run("unknown modes are rejected", func(t *testing.T) {
		grid := hexgrid.NewRectGrid(10, 6)
		grid.Cells[12].Structure = true
		_, err := NewBattle(smallConfig(t), grid, metrics.AgentConfig{Mode: "cautious"})
		require.ErrorIs(t, err, strategy.ErrUnknownPolicy)
	})

	t.Run("search raiders run a full battle", func(t *testing.T) {
		grid := hexgrid.NewRectGrid(10, 6)
		grid.Cells[12].Structure = true
		cfg := smallConfig(t)
		e, err := NewBattle(cfg, grid, metrics.AgentConfig{Mode: ModeSearch, Playout: "naive", MaxSearchStep: 10, MaxExpandLevel: 2})
		require.NoError(t, err)

		_, battle, decisions := e.Run(cfg.Engine.MaxTicks)

		require.LessOrEqual(t, battle.Ticks, cfg.Engine.MaxTicks)
		require.NotEmpty(t, decisions)
	})
}

func TestAgentOptions(t *testing.T) {
	grid := hexgrid.NewRectGrid(4, 4)
	policy := func(cfg config.Config, agent metrics.AgentConfig) string {
		options, err := agentOptions(cfg, agent)
		require.NoError(t, err)
		f := formation.New("raiders", formation.Hostile, formation.Square, hexgrid.NW)
		return decision.New(f, grid, influence.New(grid), options...).Policy()
	}

	t.Run("agents without a mode use the configured picker", func(t *testing.T) {
		cfg := smallConfig(t)
		cfg.Strategy.Picker = "optimal-influence"
		require.Equal(t, "optimal-influence", policy(cfg, metrics.AgentConfig{}))
	})

	t.Run("without a configured picker formations pick by status", func(t *testing.T) {
		require.Equal(t, "greedy", policy(smallConfig(t), metrics.AgentConfig{}))
	})

	t.Run("an explicit mode wins over the configured picker", func(t *testing.T) {
		cfg := smallConfig(t)
		cfg.Strategy.Picker = "optimal-influence"
		require.Equal(t, "greedy", policy(cfg, metrics.AgentConfig{Mode: "greedy"}))
		require.Equal(t, "mcts", policy(cfg, metrics.AgentConfig{Mode: ModeSearch, Playout: "shortest-path", MaxSearchStep: 5, MaxExpandLevel: 1}))
	})
}

func TestBattleSeeds(t *testing.T) {
	cfg := smallConfig(t)
	require.Equal(t, []uint64{3, 4}, battleSeeds(cfg))

	cfg.Grid.Seed = 0
	seeds := battleSeeds(cfg)
	require.Len(t, seeds, 2)
	require.Equal(t, seeds[0]+1, seeds[1])
}

func TestRunStrategyExperiment(t *testing.T) {
	cfg := smallConfig(t)

	require.NoError(t, RunStrategyExperiment(cfg))

	for _, file := range []string{"agent_configs.csv", "battle_records.csv", "decision_records.csv"} {
		matches, err := filepath.Glob(filepath.Join(cfg.Experiment.OutputDir, "strategy", "*", file))
		require.NoError(t, err)
		require.Len(t, matches, 1, "%s should be written once", file)
	}
}
