// Package engine runs one simulation: a chronological event loop that
// interleaves job arrivals, job invocations, job terminations, and
// defragmentation ticks up to a simulated horizon.
package engine

import (
	"fmt"

	"github.com/faascluster/simulator/internal/cluster"
	"github.com/faascluster/simulator/internal/job"
	"github.com/faascluster/simulator/internal/metrics"
	"github.com/faascluster/simulator/internal/sampler"
	"github.com/faascluster/simulator/internal/simerrors"
	"github.com/faascluster/simulator/logging"
)

// Params configures one simulation run. Every field mirrors a config.Config
// value; engine depends only on the primitives it needs, not on the config
// package itself.
type Params struct {
	Duration          float64
	JobLifetime       float64
	JobInterarrival   float64
	JobInvocationRate float64
	NodeCapacity      float64
	DefragInterval    float64
	StateMul          float64
	ArgMul            float64
	Policy            string
	Seed              int64
	Registry          *sampler.Registry
}

// Simulation owns one run's cluster, event queue, job table, and
// per-simulation generator. It is never shared between goroutines; the
// batch harness gives each worker its own Simulation built from the same
// read-only Registry.
type Simulation struct {
	params Params

	cluster *cluster.Cluster
	sampler *sampler.Sampler
	policy  cluster.PolicyFunc
	metrics *metrics.Accumulator
	queue   *eventQueue

	jobs          map[int]*job.Job
	nextJobID     int
	jobsCompleted int
}

// New builds a Simulation from params, resolving its placement policy by
// name. An unknown policy name is a configuration error.
func New(params Params) (*Simulation, error) {
	policyFn, ok := cluster.Lookup(params.Policy)
	if !ok {
		return nil, simerrors.NewConfigError(fmt.Errorf("unknown placement policy %q", params.Policy))
	}

	return &Simulation{
		params:  params,
		cluster: cluster.New(params.NodeCapacity),
		sampler: sampler.New(params.Registry, params.Seed),
		policy:  policyFn,
		metrics: metrics.New(),
		queue:   newEventQueue(),
		jobs:    make(map[int]*job.Job),
	}, nil
}

// Result is one simulation's output, the raw material for one CSV row.
type Result struct {
	Seed          int64
	JobsCompleted int
	Summary       metrics.Summary
}

// Run drives the event loop to completion and returns the run's summary
// statistics. A placement policy's configuration error or a detected
// internal invariant violation aborts the run immediately.
func (sim *Simulation) Run() (Result, error) {
	sim.metrics.ObserveNodeCount(0, 0)

	sim.queue.schedule(0, kindArrival, 0)
	if sim.params.DefragInterval > 0 {
		sim.queue.schedule(sim.params.DefragInterval, kindDefrag, 0)
	}

	for {
		ev, ok := sim.queue.popNext()
		if !ok || ev.time >= sim.params.Duration {
			break
		}

		var err error
		switch ev.kind {
		case kindArrival:
			err = sim.handleArrival(ev.time)
		case kindInvocation:
			err = sim.handleInvocation(ev.time, ev.jobID)
		case kindTermination:
			err = sim.handleTermination(ev.time, ev.jobID)
		case kindDefrag:
			err = sim.handleDefrag(ev.time)
		}
		if err != nil {
			return Result{}, err
		}
	}

	return Result{
		Seed:          sim.params.Seed,
		JobsCompleted: sim.jobsCompleted,
		Summary:       sim.metrics.Finalize(sim.params.Duration),
	}, nil
}

func (sim *Simulation) handleArrival(t float64) error {
	dag := job.Generate(sim.sampler, job.Params{StateMul: sim.params.StateMul, ArgMul: sim.params.ArgMul})
	if err := dag.Validate(); err != nil {
		return simerrors.NewInvariant("job generator", err.Error())
	}
	if fp, err := dag.Fingerprint(); err == nil {
		logging.Debug("core/engine: generated DAG with %d tasks, fingerprint %x", len(dag.Tasks), fp)
	}

	id := sim.nextJobID
	sim.nextJobID++

	j := job.NewJob(id, dag, t, sim.params.JobLifetime, sim.params.JobInvocationRate)
	sim.jobs[id] = j

	sim.queue.schedule(t, kindInvocation, id)
	sim.queue.schedule(j.TerminationTime, kindTermination, id)

	next := t + sim.interarrival()
	if next <= sim.params.Duration {
		sim.queue.schedule(next, kindArrival, 0)
	}

	return nil
}

func (sim *Simulation) interarrival() float64 {
	if v, ok := sim.sampler.JobInterval(); ok {
		return v
	}
	return sim.params.JobInterarrival
}

func (sim *Simulation) handleInvocation(t float64, jobID int) error {
	j, ok := sim.jobs[jobID]
	if !ok {
		return nil // terminated before this invocation could run (degenerate lifetime)
	}
	if j.Status == job.Pending {
		j.Status = job.Running
	}

	placements, err := sim.policy(sim.cluster, jobID, j.DAG, sim.sampler)
	if err != nil {
		return err
	}

	if err := checkCapacityInvariant(sim.cluster); err != nil {
		return err
	}

	sim.metrics.RecordInvocation(j.DAG, placements)
	sim.metrics.SampleUtilization(sim.cluster)
	sim.cluster.FreeAllLoad()
	sim.metrics.ObserveNodeCount(t, sim.cluster.NodeCount())

	next := t + j.InvocationPeriod()
	if next <= j.TerminationTime {
		sim.queue.schedule(next, kindInvocation, jobID)
	}

	return nil
}

func (sim *Simulation) handleTermination(t float64, jobID int) error {
	j, ok := sim.jobs[jobID]
	if !ok {
		return nil
	}

	taskIDs := make([]int, len(j.DAG.Tasks))
	for i := range taskIDs {
		taskIDs[i] = i
	}

	touched := sim.cluster.EvictTasks(jobID, taskIDs)
	for _, n := range touched {
		sim.cluster.RemoveEmpty(n)
	}
	sim.metrics.ObserveNodeCount(t, sim.cluster.NodeCount())

	j.Status = job.Terminated
	delete(sim.jobs, jobID)
	sim.jobsCompleted++

	return nil
}

func (sim *Simulation) handleDefrag(t float64) error {
	moves := cluster.Defragment(sim.cluster)
	sim.metrics.RecordDefrag(moves)
	sim.metrics.ObserveNodeCount(t, sim.cluster.NodeCount())

	next := t + sim.params.DefragInterval
	if next <= sim.params.Duration {
		sim.queue.schedule(next, kindDefrag, 0)
	}

	return nil
}

// checkCapacityInvariant is a debug assertion: every node's resident
// state plus placed CPU load must never exceed its capacity. Placement policies are built to
// make this impossible; a violation means a policy
// has a bug, not a bad input, so it is reported as an internal invariant
// rather than a configuration error.
func checkCapacityInvariant(cl *cluster.Cluster) error {
	for _, n := range cl.Nodes() {
		if n.ResidentState()+n.CPULoad > n.Capacity+1e-6 {
			return simerrors.NewInvariant("cluster",
				fmt.Sprintf("node %d over capacity: state+load=%v capacity=%v",
					n.ID, n.ResidentState()+n.CPULoad, n.Capacity))
		}
	}
	return nil
}
