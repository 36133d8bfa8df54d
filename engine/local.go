package engine

import (
	"errors"
	"fmt"
	"tactics/decision"
	"tactics/experiments/metrics"
	"tactics/formation"
	"tactics/hexgrid"
	"tactics/influence"
	"tactics/pathfinding"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	DefaultDecisionInterval = 1
	DefaultAttackInterval   = 3
	DefaultStructureHealth  = 30
)

var ErrNoAnchor = errors.New("anchor cell not on the grid")

type Option func(e *Engine)

// Engine runs a battle on one grid in discrete ticks. Each tick refreshes
// both clans' influence, lets formations decide where to go, moves every unit
// one step along its route and lets raiders burn the settlements they stand
// on.
type Engine struct {
	Grid     *hexgrid.Grid
	Friendly *influence.Map // Scores from the friendly clan's point of view
	Hostile  *influence.Map

	// OnMove runs after a unit moved, once visibility was updated.
	OnMove func(unit *formation.Unit, cell *hexgrid.Cell)

	deciders         []*decision.Decider
	decisionInterval int
	attackInterval   int
	structureHealth  int
	structures       map[int]int // Remaining health by cell index
	initial          int
	destroyed        int
	lastTarget       map[*formation.Unit]*hexgrid.Cell
	pathOpts         []pathfinding.Option
	tick             int
	moves            int
}

func WithDecisionInterval(ticks int) Option {
	return func(e *Engine) {
		if ticks > 0 {
			e.decisionInterval = ticks
		}
	}
}

func WithAttackInterval(ticks int) Option {
	return func(e *Engine) {
		if ticks > 0 {
			e.attackInterval = ticks
		}
	}
}

func WithStructureHealth(health int) Option {
	return func(e *Engine) {
		if health > 0 {
			e.structureHealth = health
		}
	}
}

func WithPathfinding(opts ...pathfinding.Option) Option {
	return func(e *Engine) {
		e.pathOpts = append(e.pathOpts, opts...)
	}
}

func WithOnMove(onMove func(unit *formation.Unit, cell *hexgrid.Cell)) Option {
	return func(e *Engine) {
		e.OnMove = onMove
	}
}

func LocalEngine(grid *hexgrid.Grid, options ...Option) *Engine {
	e := &Engine{ // Default values
		Grid:             grid,
		Friendly:         influence.New(grid),
		Hostile:          influence.New(grid),
		decisionInterval: DefaultDecisionInterval,
		attackInterval:   DefaultAttackInterval,
		structureHealth:  DefaultStructureHealth,
		structures:       make(map[int]int),
		lastTarget:       make(map[*formation.Unit]*hexgrid.Cell),
	}
	for _, option := range options {
		option(e)
	}
	for _, cell := range grid.Cells {
		if cell.Structure {
			e.structures[cell.Index] = e.structureHealth
		}
	}
	e.initial = len(e.structures)
	return e
}

// AddFormation registers f with both influence maps and deploys it around
// anchor. The returned decider steers f from then on.
func (e *Engine) AddFormation(f *formation.Formation, anchor int, options ...decision.Option) (*decision.Decider, error) {
	if !e.Grid.InRange(anchor) {
		return nil, fmt.Errorf("add %s at %d: %w", f, anchor, ErrNoAnchor)
	}
	own, other := e.Friendly, e.Hostile
	if f.Clan == formation.Hostile {
		own, other = e.Hostile, e.Friendly
	}
	own.RegisterFriendly(f)
	other.RegisterHostile(f)

	options = append(options, decision.WithPathfinding(e.pathOpts...))
	d := decision.New(f, e.Grid, own, options...)
	if err := d.Deploy(e.Grid.Cells[anchor]); err != nil {
		return nil, fmt.Errorf("add %s: %w", f, err)
	}
	e.deciders = append(e.deciders, d)
	e.updateVisibility()

	log.Debug().Msgf("deployed %s with %d units at cell %d", f, len(f.Units()), anchor)
	return d, nil
}

// Formations returns the formations of clan still in play.
func (e *Engine) Formations(clan formation.Clan) []*formation.Formation {
	formations := []*formation.Formation{}
	for _, d := range e.deciders {
		if d.Formation.Clan == clan && !d.Formation.Removed() {
			formations = append(formations, d.Formation)
		}
	}
	return formations
}

func (e *Engine) Ticks() int {
	return e.tick
}

// Tick advances the battle by one step and returns the decisions taken.
func (e *Engine) Tick() []metrics.DecisionMetric {
	e.tick++
	e.Friendly.Refresh()
	e.Hostile.Refresh()

	decisions := []metrics.DecisionMetric{}
	if e.tick%e.decisionInterval == 0 {
		for _, d := range e.deciders {
			if d.Formation.Removed() {
				continue
			}
			d.UpdateStatus(e.Formations(d.Formation.Clan.Opponent()))
			if !d.NeedsDecision() {
				continue
			}
			metric, err := d.Decide(e.tick)
			if err != nil {
				log.Warn().Msgf("tick %d: %v", e.tick, err)
				continue
			}
			decisions = append(decisions, metric)
		}
	}

	for _, d := range e.deciders {
		if d.Formation.Removed() {
			continue
		}
		for _, unit := range d.Formation.Units() {
			e.step(unit)
		}
	}

	if e.tick%e.attackInterval == 0 {
		e.raid()
	}
	return decisions
}

// step moves unit along its route as far as its speed allows. The route is
// planned again when the target changed or the next cell was taken.
func (e *Engine) step(unit *formation.Unit) {
	if unit.Target == nil || unit.Cell == nil {
		return
	}
	if unit.Cell == unit.Target {
		unit.Path = nil
		return
	}
	if e.lastTarget[unit] != unit.Target || len(unit.Path) == 0 || unit.NextStepBlocked() {
		path, err := pathfinding.AStar(e.Grid, unit.Cell.Index, unit.Target.Index, e.pathOpts...)
		if err != nil {
			log.Debug().Msgf("%s has no route to cell %d: %v", unit, unit.Target.Index, err)
			unit.Path = nil
			return
		}
		e.lastTarget[unit] = unit.Target
		unit.Path = path
	}

	index := pathfinding.NextStep(e.Grid, unit.Path, unit.Speed)
	if index < 0 {
		return
	}
	next := unit.Path[index]
	if next == unit.Cell {
		return
	}
	if err := unit.TakeCell(e.Grid, next); err != nil {
		log.Debug().Msgf("%s blocked at cell %d: %v", unit, next.Index, err)
		return
	}
	unit.Path = unit.Path[:index+1]
	e.moves++

	e.updateVisibility()
	if e.OnMove != nil {
		e.OnMove(unit, next)
	}
}

func (e *Engine) updateVisibility() {
	for _, d := range e.deciders {
		opponents := e.Formations(d.Formation.Clan.Opponent())
		for _, unit := range d.Formation.Units() {
			unit.UpdateVisibility(opponents)
		}
	}
}

// Winner returns the hostile clan once every settlement burned, the friendly
// clan once no hostile formation is left, and "" while the battle goes on.
func (e *Engine) Winner() string {
	if e.initial > 0 && len(e.structures) == 0 {
		return formation.Hostile.String()
	}
	if len(e.Formations(formation.Hostile)) == 0 {
		return formation.Friendly.String()
	}
	return ""
}

// Run executes the entire battle loop until a winner is found.
func (e *Engine) Run(maxTicks int) (string, metrics.BattleMetric, []metrics.DecisionMetric) {
	battle := metrics.BattleMetric{StartTime: time.Now(), Structures: e.initial}
	decisions := []metrics.DecisionMetric{}

	log.Info().Msgf("battle starting with %d formations and %d settlement cells", len(e.deciders), e.initial)

	for e.Winner() == "" && e.tick < maxTicks {
		decisions = append(decisions, e.Tick()...)
		if e.tick%100 == 0 {
			log.Info().Msgf("tick %d: %d settlement cells standing, %d moves", e.tick, len(e.structures), e.moves)
		}
	}

	winner := e.Winner()
	if winner != "" {
		log.Info().Msgf("battle won by %s after %d ticks", winner, e.tick)
	} else {
		log.Info().Msgf("battle stopped after %d ticks without a winner", e.tick)
	}

	battle.Winner = winner
	battle.EndTime = time.Now()
	battle.Duration = battle.EndTime.Sub(battle.StartTime)
	battle.Ticks = e.tick
	battle.Moves = e.moves
	battle.StructuresDestroyed = e.destroyed
	return winner, battle, decisions
}
