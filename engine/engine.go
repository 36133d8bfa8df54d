package engine

import "tactics/experiments/metrics"

const MaxTicks = 2000

type Runner interface {
	// Run ticks a battle till there's a winner or a max number of ticks is reached
	Run(maxTicks int) (winner string, battleMetric metrics.BattleMetric, decisionMetrics []metrics.DecisionMetric)
}

var _ Runner = (*Engine)(nil)
