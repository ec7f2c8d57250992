// Package metrics accumulates per-simulation statistics: time-weighted
// node count, per-invocation and defrag-induced network bytes, and a
// CPU-utilization distribution summarized at the end of the horizon.
package metrics

import (
	"math"
	"sort"

	metrics "github.com/armon/go-metrics"
	"github.com/dariubs/percent"

	"github.com/faascluster/simulator/internal/cluster"
	"github.com/faascluster/simulator/internal/job"
)

// Accumulator observes one simulation's cluster over time and produces a
// Summary at the end of the horizon. It belongs to exactly one simulation
// run; the batch harness gives each worker its own Accumulator.
type Accumulator struct {
	lastObservedAt float64
	lastNodeCount  int
	nodeTimeArea   float64
	peakNodes      int

	invocationNetworkBytes float64
	defragNetworkBytes     float64
	invocationCount        int

	utilization []float64
}

// New builds an Accumulator observing node count 0 at time 0.
func New() *Accumulator {
	return &Accumulator{}
}

// ObserveNodeCount records that count nodes were live as of time t. Call
// this every time the cluster's node count changes (node creation or
// removal) so the time-weighted mean integrates correctly; the interval
// since the previous observation is charged at the previous count.
func (a *Accumulator) ObserveNodeCount(t float64, count int) {
	if t > a.lastObservedAt {
		a.nodeTimeArea += float64(a.lastNodeCount) * (t - a.lastObservedAt)
		a.lastObservedAt = t
	}
	a.lastNodeCount = count
	if count > a.peakNodes {
		a.peakNodes = count
	}
	metrics.SetGauge([]string{"simulator", "node_count"}, float32(count))
}

// RecordInvocation charges network bytes for one job-invocation against
// dag's placements: a DAG-adjacent pair placed on different nodes costs
// the producer's argument size, and a stateful-affinity miss costs its
// state size twice (fetch and write-back).
func (a *Accumulator) RecordInvocation(dag *job.DAG, placements []cluster.Placement) {
	nodeOf := make(map[int]*cluster.Node, len(placements))
	for _, p := range placements {
		nodeOf[p.TaskID] = p.Node
	}

	var bytes float64
	for i := range dag.Tasks {
		t := &dag.Tasks[i]
		from := nodeOf[t.ID]
		for _, succ := range t.Successors {
			if to := nodeOf[succ]; to.ID != from.ID {
				bytes += t.Arg
			}
		}
	}
	for _, p := range placements {
		if p.AffinityMiss {
			bytes += dag.Task(p.TaskID).State * 2
		}
	}

	a.invocationNetworkBytes += bytes
	a.invocationCount++

	metrics.IncrCounter([]string{"simulator", "invocations"}, 1)
	metrics.IncrCounter([]string{"simulator", "invocation_network_bytes"}, float32(bytes))
}

// RecordDefrag charges the bytes moved by one defrag pass.
func (a *Accumulator) RecordDefrag(moves []cluster.DefragMove) {
	for _, m := range moves {
		a.defragNetworkBytes += m.Size
	}
	metrics.IncrCounter([]string{"simulator", "defrag_moves"}, float32(len(moves)))
}

// SampleUtilization records each node's CPU-load-to-capacity ratio as a
// percentage (0-100, load and capacity rounded to integers first), called
// on each invocation's completion.
func (a *Accumulator) SampleUtilization(cl *cluster.Cluster) {
	for _, n := range cl.Nodes() {
		pct := percent.PercentOf(int(math.Round(n.CPULoad)), int(math.Round(n.Capacity)))
		a.utilization = append(a.utilization, pct)
	}
}

// Summary is the scalar statistics written to the batch harness's CSV row.
type Summary struct {
	MeanNodes              float64
	PeakNodes              int
	InvocationCount        int
	InvocationNetworkBytes float64
	DefragNetworkBytes     float64
	UtilizationSamples     int
	UtilizationMean        float64
	UtilizationStdev       float64
	UtilizationP50         float64
	UtilizationP95         float64
}

// Finalize closes out the time-weighted integrals against horizon and
// summarizes the utilization distribution.
func (a *Accumulator) Finalize(horizon float64) Summary {
	a.ObserveNodeCount(horizon, a.lastNodeCount)

	mean, stdev := meanStdev(a.utilization)
	p50 := percentile(a.utilization, 0.50)
	p95 := percentile(a.utilization, 0.95)

	var meanNodes float64
	if horizon > 0 {
		meanNodes = a.nodeTimeArea / horizon
	}

	return Summary{
		MeanNodes:              meanNodes,
		PeakNodes:              a.peakNodes,
		InvocationCount:        a.invocationCount,
		InvocationNetworkBytes: a.invocationNetworkBytes,
		DefragNetworkBytes:     a.defragNetworkBytes,
		UtilizationSamples:     len(a.utilization),
		UtilizationMean:        mean,
		UtilizationStdev:       stdev,
		UtilizationP50:         p50,
		UtilizationP95:         p95,
	}
}

func meanStdev(samples []float64) (mean, stdev float64) {
	if len(samples) == 0 {
		return 0, 0
	}
	var sum float64
	for _, v := range samples {
		sum += v
	}
	mean = sum / float64(len(samples))

	var sumSq float64
	for _, v := range samples {
		d := v - mean
		sumSq += d * d
	}
	stdev = math.Sqrt(sumSq / float64(len(samples)))
	return mean, stdev
}

// percentile returns the q-quantile (0 <= q <= 1) of samples using linear
// interpolation between the two nearest ranks of the sorted values.
func percentile(samples []float64, q float64) float64 {
	if len(samples) == 0 {
		return 0
	}
	sorted := make([]float64, len(samples))
	copy(sorted, samples)
	sort.Float64s(sorted)

	if len(sorted) == 1 {
		return sorted[0]
	}

	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}
