package experiments

import (
	"errors"
	"fmt"
	"tactics/config"
	"tactics/decision"
	"tactics/engine"
	"tactics/experiments/metrics"
	"tactics/formation"
	"tactics/hexgrid"
	"tactics/pathfinding"
	"tactics/searcher"
	"tactics/strategy"
)

const ModeStatus = "status"
const ModeSearch = "mcts"

var ErrNoSettlement = errors.New("battlefield has no settlement")

// NewBattle sets up a raid on grid: a guard stands at the first settlement
// and a raiding party, steered as agent describes, starts at the far corner.
func NewBattle(cfg config.Config, grid *hexgrid.Grid, agent metrics.AgentConfig) (*engine.Engine, error) {
	settlement := -1
	for _, cell := range grid.Cells {
		if cell.Structure {
			settlement = cell.Index
			break
		}
	}
	if settlement < 0 {
		return nil, ErrNoSettlement
	}

	e := engine.LocalEngine(grid, cfg.EngineOptions()...)

	guardAt, err := pathfinding.NearestReachable(grid, settlement, cfg.PathOptions()...)
	if err != nil {
		return nil, fmt.Errorf("failed to place guard: %w", err)
	}
	guard := formation.New("guard", formation.Friendly, formation.Line, hexgrid.W)
	guard.AddUnit(formation.SpearmanStats())
	guard.AddUnit(formation.SpearmanStats())
	guard.AddUnit(formation.ArcherStats())
	if _, err := e.AddFormation(guard, guardAt.Index); err != nil {
		return nil, err
	}

	raidAt, err := pathfinding.NearestReachable(grid, grid.Len()-1, cfg.PathOptions()...)
	if err != nil {
		return nil, fmt.Errorf("failed to place raiders: %w", err)
	}
	raiders := formation.New("raiders", formation.Hostile, formation.Square, hexgrid.NW)
	raiders.AddUnit(formation.SwordsmanStats())
	raiders.AddUnit(formation.SwordsmanStats())
	raiders.AddUnit(formation.SpearmanStats())
	raiders.AddUnit(formation.ArcherStats())

	options, err := agentOptions(cfg, agent)
	if err != nil {
		return nil, err
	}
	if _, err := e.AddFormation(raiders, raidAt.Index, options...); err != nil {
		return nil, err
	}
	return e, nil
}

// agentOptions steers a formation as agent describes. An agent without a
// mode uses the configured picker, or picks by status when none is set.
func agentOptions(cfg config.Config, agent metrics.AgentConfig) ([]decision.Option, error) {
	mode := agent.Mode
	if mode == "" {
		picker, err := cfg.Picker()
		if err != nil {
			return nil, err
		}
		if picker != nil {
			return []decision.Option{decision.WithPicker(picker)}, nil
		}
		mode = ModeStatus
	}
	switch mode {
	case ModeStatus:
		return []decision.Option{decision.WithPickDivisor(cfg.Strategy.PickDivisor)}, nil
	case ModeSearch:
		playout, err := strategy.PlayoutByName(agent.Playout, cfg.Strategy.PlayoutDivisor)
		if err != nil {
			return nil, err
		}
		cfg.Search.MaxSearchStep = agent.MaxSearchStep
		cfg.Search.MaxExpandLevel = agent.MaxExpandLevel
		search := searcher.NewMCTS(cfg.SearchOptions()...)
		return []decision.Option{decision.WithSearch(search, playout)}, nil
	default:
		picker, err := strategy.PickerByName(mode, cfg.Strategy.PickDivisor)
		if err != nil {
			return nil, err
		}
		return []decision.Option{decision.WithPicker(picker)}, nil
	}
}
