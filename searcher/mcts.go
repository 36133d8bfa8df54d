package searcher

import (
	"errors"
	"tactics/experiments/metrics"
	"tactics/strategy"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
)

var ErrNotInitialized = errors.New("search tree not initialized")

type Option func(mcts *MCTS)

// MCTS searches over candidate target cells of an influence snapshot. The
// tree is kept between rounds: after each round the best child of the root
// becomes the new root.
type MCTS struct {
	maxSearchStep  int
	maxExpandLevel int
	exploration    float64
	rng            *rand.Rand
	playout        strategy.Playout
	tree           *tree
	reset          bool
	metrics        metrics.Collector
	last           metrics.SearchMetric
}

func WithMaxSearchStep(steps int) Option {
	return func(m *MCTS) {
		if steps >= 0 {
			m.maxSearchStep = steps
		}
	}
}

func WithMaxExpandLevel(level int) Option {
	return func(m *MCTS) {
		if level > 0 {
			m.maxExpandLevel = level
		}
	}
}

func WithExplorationWeight(weight float64) Option {
	return func(m *MCTS) {
		if weight > 0 {
			m.exploration = weight
		}
	}
}

func WithRand(rng *rand.Rand) Option {
	return func(m *MCTS) {
		if rng != nil {
			m.rng = rng
		}
	}
}

func WithMetrics() Option {
	return func(m *MCTS) {
		m.metrics = metrics.NewCollector()
	}
}

func NewMCTS(options ...Option) *MCTS {
	m := &MCTS{ // Default values
		maxSearchStep:  DefaultMaxSearchStep,
		maxExpandLevel: DefaultMaxExpandLevel,
		exploration:    DefaultExplorationWeight,
		metrics:        metrics.NewDummyCollector(),
	}
	for _, option := range options {
		option(m)
	}
	if m.rng == nil {
		m.rng = rand.New(rand.NewSource(uint64(time.Now().UnixNano())))
	}
	return m
}

// Initialize discards any existing tree and starts a new one rooted at state.
// A nil playout falls back to the naive policy.
func (m *MCTS) Initialize(state strategy.State, playout strategy.Playout) {
	if playout == nil {
		playout = strategy.Naive{}
	}
	m.playout = playout
	m.tree = newTree(state)
	m.reset = true
}

// NextMove runs one search round, moves the root to its best child and
// returns that child's state. When the root has no children its state is
// returned and the tree is left as is.
func (m *MCTS) NextMove() (strategy.State, error) {
	if m.tree == nil {
		log.Error().Msg("next move requested before the search tree was initialized")
		return strategy.State{}, ErrNotInitialized
	}

	m.metrics.Start(m.maxSearchStep, m.maxExpandLevel, m.playout.Name())
	m.metrics.SetTreeReset(m.reset)
	m.reset = false

	for i := 0; i < m.maxSearchStep; i++ {
		m.simulate()
		m.metrics.AddEpisode()
	}

	best, ok := m.tree.bestChild(0)
	if ok {
		m.tree = m.tree.subtree(best)
	}
	m.metrics.SetTreeSize(m.tree.size())
	m.last = m.metrics.Complete()

	state := m.tree.root().state
	log.Debug().Msgf("search chose cell %d with win score %d after %d visits", state.Target, state.WinScore, state.Visits)
	return state, nil
}

// Metrics returns the metrics of the last search round.
func (m *MCTS) Metrics() metrics.SearchMetric {
	return m.last
}

// Root returns the state at the root of the current tree.
func (m *MCTS) Root() (strategy.State, error) {
	if m.tree == nil {
		return strategy.State{}, ErrNotInitialized
	}
	return m.tree.root().state, nil
}

func (m *MCTS) simulate() {
	selected := m.tree.selects(m.exploration)

	if m.tree.nodes[selected].depth < m.maxExpandLevel && len(m.tree.nodes[selected].children) == 0 {
		if m.tree.expand(selected) > 0 {
			m.metrics.AddExpansion()
		}
	}

	simulated := selected
	if children := m.tree.nodes[selected].children; len(children) > 0 {
		simulated = children[m.rng.Intn(len(children))] // Random child
	}

	result := m.playout.Simulate(&m.tree.nodes[simulated].state)
	m.tree.backup(simulated, result)
}
