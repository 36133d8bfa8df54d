package config

import (
	"os"
	"path/filepath"
	"tactics/strategy"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "battle.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	require.Equal(t, 30, cfg.Search.MaxSearchStep)
	require.Equal(t, 5, cfg.Search.MaxExpandLevel)
	require.Equal(t, 500, cfg.Pathfinding.MaxExpansions)
	require.Equal(t, 30, cfg.Pathfinding.MaxDepth)
	require.Equal(t, "naive", cfg.Strategy.Playout)
	require.Equal(t, 10, cfg.Strategy.PlayoutDivisor)
	require.Equal(t, 5, cfg.Strategy.PickDivisor)
}

func TestLoad(t *testing.T) {
	t.Run("file values override the defaults", func(t *testing.T) {
		path := writeConfig(t, `
grid:
  width: 12
  seed: 42
search:
  max_search_step: 100
  max_expand_level: 1
strategy:
  playout: shortest-path
  picker: optimal-influence
  playout_divisor: 4
  pick_divisor: 2
engine:
  decision_interval: 2
`)
		cfg, err := Load(path)

		require.NoError(t, err)
		require.Equal(t, 12, cfg.Grid.Width)
		require.Equal(t, Default().Grid.Height, cfg.Grid.Height, "Missing keys keep their defaults")
		require.Equal(t, uint64(42), cfg.Grid.Seed)
		require.Equal(t, 100, cfg.Search.MaxSearchStep)
		require.Equal(t, 1, cfg.Search.MaxExpandLevel)
		require.Equal(t, "shortest-path", cfg.Strategy.Playout)
		require.Equal(t, "optimal-influence", cfg.Strategy.Picker)

		require.Equal(t, 4, cfg.Strategy.PlayoutDivisor)
		picker, err := cfg.Picker()
		require.NoError(t, err)
		require.Equal(t, strategy.OptimalInfluence{Divisor: 2}, picker)
		require.Equal(t, 2, cfg.Engine.DecisionInterval)
		require.Equal(t, Default().Engine.MaxTicks, cfg.Engine.MaxTicks)
	})

	t.Run("missing file fails", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
		require.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("malformed yaml fails", func(t *testing.T) {
		_, err := Load(writeConfig(t, "search: [1, 2"))
		require.Error(t, err)
	})

	t.Run("out of range values fail validation", func(t *testing.T) {
		_, err := Load(writeConfig(t, "pathfinding:\n  max_expansions: -1\n"))
		require.ErrorIs(t, err, ErrInvalid)

		_, err = Load(writeConfig(t, "strategy:\n  pick_divisor: 0\n"))
		require.ErrorIs(t, err, ErrInvalid)
	})

	t.Run("unknown policies fail validation", func(t *testing.T) {
		_, err := Load(writeConfig(t, "strategy:\n  playout: random\n"))
		require.ErrorIs(t, err, ErrInvalid)

		_, err = Load(writeConfig(t, "strategy:\n  picker: cautious\n"))
		require.ErrorIs(t, err, ErrInvalid)
	})
}

func TestOptions(t *testing.T) {
	cfg := Default()
	picker, err := cfg.Picker()
	require.NoError(t, err)
	require.Nil(t, picker, "Formations pick by status unless a picker is set")

	require.Len(t, cfg.SearchOptions(), 4)
	cfg.Search.Seed = 9
	require.Len(t, cfg.SearchOptions(), 5)
	require.Len(t, cfg.PathOptions(), 2)
	require.Len(t, cfg.EngineOptions(), 4)
}
