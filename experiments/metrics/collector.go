package metrics

import (
	"sync/atomic"
	"time"
)

type SearchMetric struct {
	MaxSearchStep  int
	MaxExpandLevel int
	Playout        string
	Duration       time.Duration
	Episodes       int
	Expansions     int
	TreeSize       int
	IsTreeReset    bool
}

type DecisionMetric struct {
	Tick      int
	Formation string
	Status    string
	Policy    string // Pick policy name, or "mcts"
	Target    int
	Fallback  bool // Target replaced by the nearest reachable cell
	SearchMetric
}

type BattleMetric struct {
	Winner              string
	StartTime           time.Time
	EndTime             time.Time
	Duration            time.Duration
	Ticks               int
	Moves               int
	Structures          int // Settlement cells at the start of the battle
	StructuresDestroyed int
}

type Collector interface {
	Start(maxSearchStep, maxExpandLevel int, playout string)
	SetTreeReset(value bool)
	SetTreeSize(size int)
	AddExpansion()
	AddEpisode()
	Complete() SearchMetric
}

type collector struct {
	maxSearchStep  int
	maxExpandLevel int
	playout        string
	startTime      time.Time
	episodes       atomic.Int32
	expansions     atomic.Int32
	treeSize       atomic.Int32
	isTreeReset    atomic.Bool
}

func NewCollector() Collector {
	return &collector{}
}

func (m *collector) SetTreeReset(value bool) {
	m.isTreeReset.Store(value)
}

func (m *collector) SetTreeSize(size int) {
	m.treeSize.Store(int32(size))
}

func (m *collector) Start(maxSearchStep, maxExpandLevel int, playout string) {
	m.startTime = time.Now()
	m.maxSearchStep = maxSearchStep
	m.maxExpandLevel = maxExpandLevel
	m.playout = playout
	m.episodes.Store(0)
	m.expansions.Store(0)
}

func (m *collector) AddExpansion() {
	m.expansions.Add(1)
}

func (m *collector) AddEpisode() {
	m.episodes.Add(1)
}

func (m *collector) Complete() SearchMetric {
	return SearchMetric{
		MaxSearchStep:  m.maxSearchStep,
		MaxExpandLevel: m.maxExpandLevel,
		Playout:        m.playout,
		Duration:       time.Since(m.startTime),
		Episodes:       int(m.episodes.Load()),
		Expansions:     int(m.expansions.Load()),
		TreeSize:       int(m.treeSize.Load()),
		IsTreeReset:    m.isTreeReset.Load(),
	}
}

type dummyCollector struct{}

func NewDummyCollector() Collector {
	return &dummyCollector{}
}

func (m *dummyCollector) Start(maxSearchStep, maxExpandLevel int, playout string) {}
func (m *dummyCollector) SetTreeReset(value bool)                                 {}
func (m *dummyCollector) SetTreeSize(size int)                                    {}
func (m *dummyCollector) AddExpansion()                                           {}
func (m *dummyCollector) AddEpisode()                                             {}
func (m *dummyCollector) Complete() SearchMetric                                  { return SearchMetric{} }
