package experiments

import (
	"tactics/config"
	"tactics/experiments/metrics"
)

var searchBudgets = []int{10, 30, 100, 300}

// RunSearchBudgetExperiment compares raiders steered by tree search with
// growing search step budgets.
func RunSearchBudgetExperiment(cfg config.Config) error {
	configs := []metrics.AgentConfig{}
	for i, steps := range searchBudgets {
		configs = append(configs, metrics.AgentConfig{
			ID:             i + 1,
			Mode:           ModeSearch,
			Playout:        cfg.Strategy.Playout,
			MaxSearchStep:  steps,
			MaxExpandLevel: cfg.Search.MaxExpandLevel,
		})
	}
	return runExperiment(cfg, "search_budget", configs)
}
