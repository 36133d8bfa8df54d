package decision

import (
	"errors"
	"fmt"
	"slices"
	"tactics/experiments/metrics"
	"tactics/formation"
	"tactics/hexgrid"
	"tactics/influence"
	"tactics/pathfinding"
	"tactics/searcher"
	"tactics/strategy"

	"github.com/rs/zerolog/log"
)

var (
	ErrInvalidTarget = errors.New("decided target is not a grid cell")
	ErrNoAnchor      = errors.New("formation has no anchor cell")
)

const searchPolicy = "mcts"

type Option func(d *Decider)

// Decider picks where one formation should go next. Without a search tree
// the pick policy follows the formation's status.
type Decider struct {
	Formation *formation.Formation
	Target    *hexgrid.Cell

	grid      *hexgrid.Grid
	influence *influence.Map
	search    *searcher.MCTS
	playout   strategy.Playout
	picker    strategy.Picker // Overrides the status policy when set
	divisor   int             // Distance penalty divisor of the status policy
	pathOpts  []pathfinding.Option
	snapshot  []int // Influence the search tree was built on
}

// WithSearch drives decisions by tree search instead of a pick policy.
func WithSearch(search *searcher.MCTS, playout strategy.Playout) Option {
	return func(d *Decider) {
		if search != nil {
			d.search = search
			d.playout = playout
		}
	}
}

// WithPicker fixes the pick policy regardless of status.
func WithPicker(picker strategy.Picker) Option {
	return func(d *Decider) {
		if picker != nil {
			d.picker = picker
		}
	}
}

// WithPickDivisor scales the distance penalty of the pick policy chosen by
// status.
func WithPickDivisor(divisor int) Option {
	return func(d *Decider) {
		if divisor > 0 {
			d.divisor = divisor
		}
	}
}

func WithPathfinding(opts ...pathfinding.Option) Option {
	return func(d *Decider) {
		d.pathOpts = append(d.pathOpts, opts...)
	}
}

func New(f *formation.Formation, grid *hexgrid.Grid, influence *influence.Map, options ...Option) *Decider {
	d := &Decider{
		Formation: f,
		grid:      grid,
		influence: influence,
	}
	for _, option := range options {
		option(d)
	}
	return d
}

// Policy names how the decider chooses targets in the formation's current
// status.
func (d *Decider) Policy() string {
	if d.search != nil {
		return searchPolicy
	}
	if d.picker != nil {
		return d.picker.Name()
	}
	picker, err := strategy.ForStatus(d.Formation.Status, d.divisor)
	if err != nil {
		return "none"
	}
	return picker.Name()
}

// UpdateStatus sets AttackEnemy when an opposing unit is in sight, otherwise
// AttackStructure when the current target holds a structure, otherwise
// Default.
func (d *Decider) UpdateStatus(opponents []*formation.Formation) {
	f := d.Formation
	switch {
	case f.EngagesEnemy(opponents):
		f.Status = formation.StatusAttackEnemy
	case d.Target != nil && d.Target.Structure:
		f.Status = formation.StatusAttackStructure
	default:
		f.Status = formation.StatusDefault
	}
}

// TargetBlocked reports whether no unit of the formation holds the target
// yet, so the target is still up for a new decision.
func (d *Decider) TargetBlocked() bool {
	if d.Target == nil {
		return false
	}
	unit, ok := d.Target.Occupant.(*formation.Unit)
	return !ok || !d.Formation.HasUnit(unit)
}

// NeedsDecision reports whether the formation has no target or has not
// reached it. A marching formation keeps deciding on fresh influence.
func (d *Decider) NeedsDecision() bool {
	return d.Target == nil || d.TargetBlocked()
}

// Retarget drops the current target so the next tick decides again.
func (d *Decider) Retarget() {
	d.Target = nil
}

// Decide chooses a new target cell on the formation's influence snapshot and
// moves the anchor there.
func (d *Decider) Decide(tick int) (metrics.DecisionMetric, error) {
	f := d.Formation
	metric := metrics.DecisionMetric{Tick: tick, Formation: f.Name, Status: f.Status.String(), Policy: d.Policy()}
	if f.Anchor == nil {
		return metric, fmt.Errorf("decide for %s: %w", f, ErrNoAnchor)
	}
	if d.Target == nil {
		d.Target = f.Anchor
	}

	snapshot, err := d.influence.Snapshot(f)
	if err != nil {
		log.Warn().Msgf("skipping decision for %s: %v", f, err)
		return metric, fmt.Errorf("decide for %s: %w", f, err)
	}

	index, err := d.choose(snapshot, &metric)
	if err != nil {
		return metric, fmt.Errorf("decide for %s: %w", f, err)
	}
	if !d.grid.InRange(index) {
		log.Warn().Msgf("%s decided on cell %d outside the grid", f, index)
		return metric, fmt.Errorf("decide for %s: cell %d: %w", f, index, ErrInvalidTarget)
	}

	d.Target = d.grid.Cells[index]
	metric.Target = index
	log.Debug().Msgf("%s in %s status targets cell %d with influence %d", f, f.Status, index, snapshot[index])

	if hexgrid.Distance(f.Anchor.Coord, d.Target.Coord) > 0 {
		f.Anchor = d.Target
		metric.Fallback = d.AssignSlots()
	}
	return metric, nil
}

func (d *Decider) choose(snapshot []int, metric *metrics.DecisionMetric) (int, error) {
	current := d.Formation.Anchor.Index
	if d.search == nil {
		picker := d.picker
		if picker == nil {
			var err error
			picker, err = strategy.ForStatus(d.Formation.Status, d.divisor)
			if err != nil {
				log.Error().Msgf("no pick policy for %s: %v", d.Formation, err)
				return 0, err
			}
		}
		return picker.Pick(current, snapshot, d.grid), nil
	}

	// Rebuild the tree only when the influence it was built on changed
	if d.snapshot == nil || !slices.Equal(d.snapshot, snapshot) {
		d.search.Initialize(strategy.NewState(snapshot, current, current, d.grid), d.playout)
		d.snapshot = snapshot
	}
	state, err := d.search.NextMove()
	if err != nil {
		return 0, err
	}
	metric.SearchMetric = d.search.Metrics()
	return state.Target, nil
}

// Deploy anchors the formation on anchor and places every unit directly on
// its slot, or on the nearest free cell when the slot is taken.
func (d *Decider) Deploy(anchor *hexgrid.Cell) error {
	if anchor == nil {
		return fmt.Errorf("deploy %s: %w", d.Formation, ErrNoAnchor)
	}
	d.Formation.Anchor = anchor
	d.AssignSlots()
	for _, unit := range d.Formation.Units() {
		if unit.Cell != nil || unit.Target == nil {
			continue
		}
		if unit.Target.Occupied() {
			cell, err := pathfinding.NearestReachable(d.grid, unit.Target.Index, d.pathOpts...)
			if err != nil {
				return fmt.Errorf("deploy %s: %w", unit, err)
			}
			unit.Target = cell
		}
		if err := unit.TakeCell(d.grid, unit.Target); err != nil {
			return fmt.Errorf("deploy %s: %w", unit, err)
		}
	}
	return nil
}

// AssignSlots points every unit at its formation slot. A slot that is off
// the grid or that the unit cannot stand on is replaced by the nearest
// reachable cell around the anchor. It reports whether any slot was
// replaced.
func (d *Decider) AssignSlots() bool {
	fallback := false
	for _, unit := range d.Formation.Units() {
		slot := d.Formation.SlotCell(d.grid, unit)
		if slot != nil && (slot.Occupant == unit || !d.grid.IsUnpassable(slot.Index)) {
			unit.Target = slot
			continue
		}

		fallback = true
		cell, err := pathfinding.NearestReachable(d.grid, d.Formation.Anchor.Index, d.pathOpts...)
		if err != nil {
			log.Warn().Msgf("no cell for %s near anchor %d: %v", unit, d.Formation.Anchor.Index, err)
			continue
		}
		unit.Target = cell
	}
	return fallback
}
