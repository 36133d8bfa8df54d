// Package config holds the tunable knobs of a battle: grid generation,
// search budgets, pick and playout policies, pathfinding bounds and engine
// pacing. Values missing from a YAML file keep their defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"tactics/engine"
	"tactics/hexgrid/gen"
	"tactics/pathfinding"
	"tactics/searcher"
	"tactics/strategy"

	"golang.org/x/exp/rand"
	"gopkg.in/yaml.v3"
)

var ErrInvalid = errors.New("invalid config")

type Config struct {
	Grid        gen.Config        `yaml:"grid"`
	Search      SearchConfig      `yaml:"search"`
	Strategy    StrategyConfig    `yaml:"strategy"`
	Pathfinding PathfindingConfig `yaml:"pathfinding"`
	Engine      EngineConfig      `yaml:"engine"`
	Experiment  ExperimentConfig  `yaml:"experiment"`
}

type SearchConfig struct {
	MaxSearchStep       int     `yaml:"max_search_step"`
	MaxExpandLevel      int     `yaml:"max_expand_level"`
	ExplorationConstant float64 `yaml:"exploration_constant"`
	Seed                uint64  `yaml:"seed"` // 0 = time based
}

type StrategyConfig struct {
	Playout        string `yaml:"playout"`
	Picker         string `yaml:"picker"` // Default single battle mode, empty picks by formation status
	PlayoutDivisor int    `yaml:"playout_divisor"`
	PickDivisor    int    `yaml:"pick_divisor"`
}

type PathfindingConfig struct {
	MaxExpansions int `yaml:"max_expansions"`
	MaxDepth      int `yaml:"max_depth"`
}

type EngineConfig struct {
	DecisionInterval int `yaml:"decision_interval"` // Ticks between decisions
	AttackInterval   int `yaml:"attack_interval"`   // Ticks between raids on settlements
	StructureHealth  int `yaml:"structure_health"`
	MaxTicks         int `yaml:"max_ticks"`
}

type ExperimentConfig struct {
	Battles   int    `yaml:"battles"` // Per decision mode
	OutputDir string `yaml:"output_dir"`
}

func Default() Config {
	return Config{
		Grid: gen.DefaultConfig(),
		Search: SearchConfig{
			MaxSearchStep:       searcher.DefaultMaxSearchStep,
			MaxExpandLevel:      searcher.DefaultMaxExpandLevel,
			ExplorationConstant: searcher.DefaultExplorationWeight,
		},
		Strategy: StrategyConfig{
			Playout:        strategy.Naive{}.Name(),
			PlayoutDivisor: strategy.DefaultPlayoutDivisor,
			PickDivisor:    strategy.DefaultPickDivisor,
		},
		Pathfinding: PathfindingConfig{
			MaxExpansions: pathfinding.DefaultMaxExpansions,
			MaxDepth:      pathfinding.DefaultMaxDepth,
		},
		Engine: EngineConfig{
			DecisionInterval: engine.DefaultDecisionInterval,
			AttackInterval:   engine.DefaultAttackInterval,
			StructureHealth:  engine.DefaultStructureHealth,
			MaxTicks:         engine.MaxTicks,
		},
		Experiment: ExperimentConfig{
			Battles:   10,
			OutputDir: "experiments",
		},
	}
}

// Load reads a YAML file over the defaults and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	checks := []struct {
		ok    bool
		field string
	}{
		{c.Grid.Width > 0 && c.Grid.Height > 0, "grid size"},
		{c.Grid.NoiseLayers > 0, "grid noise layers"},
		{c.Search.MaxSearchStep >= 0, "search max step"},
		{c.Search.MaxExpandLevel > 0, "search max expand level"},
		{c.Search.ExplorationConstant > 0, "search exploration constant"},
		{c.Strategy.PlayoutDivisor > 0, "strategy playout divisor"},
		{c.Strategy.PickDivisor > 0, "strategy pick divisor"},
		{c.Pathfinding.MaxExpansions > 0, "pathfinding max expansions"},
		{c.Pathfinding.MaxDepth >= 0, "pathfinding max depth"},
		{c.Engine.DecisionInterval > 0, "engine decision interval"},
		{c.Engine.AttackInterval > 0, "engine attack interval"},
		{c.Engine.StructureHealth > 0, "engine structure health"},
		{c.Engine.MaxTicks > 0, "engine max ticks"},
		{c.Experiment.Battles >= 0, "experiment battles"},
	}
	for _, check := range checks {
		if !check.ok {
			return fmt.Errorf("%s out of range: %w", check.field, ErrInvalid)
		}
	}
	if _, err := strategy.PlayoutByName(c.Strategy.Playout, c.Strategy.PlayoutDivisor); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if c.Strategy.Picker != "" {
		if _, err := strategy.PickerByName(c.Strategy.Picker, c.Strategy.PickDivisor); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalid, err)
		}
	}
	return nil
}

// PathOptions returns the pathfinding bounds as search options.
func (c Config) PathOptions() []pathfinding.Option {
	return []pathfinding.Option{
		pathfinding.WithMaxExpansions(c.Pathfinding.MaxExpansions),
		pathfinding.WithMaxDepth(c.Pathfinding.MaxDepth),
	}
}

// EngineOptions returns the engine pacing and pathfinding bounds.
func (c Config) EngineOptions() []engine.Option {
	return []engine.Option{
		engine.WithDecisionInterval(c.Engine.DecisionInterval),
		engine.WithAttackInterval(c.Engine.AttackInterval),
		engine.WithStructureHealth(c.Engine.StructureHealth),
		engine.WithPathfinding(c.PathOptions()...),
	}
}

// Picker returns the configured pick policy, nil when formations pick by
// status.
func (c Config) Picker() (strategy.Picker, error) {
	if c.Strategy.Picker == "" {
		return nil, nil
	}
	return strategy.PickerByName(c.Strategy.Picker, c.Strategy.PickDivisor)
}

// SearchOptions returns the tree search budgets. Metrics are always
// collected.
func (c Config) SearchOptions() []searcher.Option {
	options := []searcher.Option{
		searcher.WithMaxSearchStep(c.Search.MaxSearchStep),
		searcher.WithMaxExpandLevel(c.Search.MaxExpandLevel),
		searcher.WithExplorationWeight(c.Search.ExplorationConstant),
		searcher.WithMetrics(),
	}
	if c.Search.Seed != 0 {
		options = append(options, searcher.WithRand(rand.New(rand.NewSource(c.Search.Seed))))
	}
	return options
}
