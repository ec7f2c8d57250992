// Package job defines the task/DAG/job data model and the DAG generator:
// jobs arrive as DAGs of tasks sampled from the empirical distributions
// in internal/sampler, carry persistent per-task state across
// invocations, and terminate after a fixed lifetime.
package job

import "fmt"

// Task is one vertex in a job's DAG: a unit of CPU work with a persistent
// state size and an argument size paid by its consumers when placed
// remotely. Duration is retained for reference only; the event loop does
// not model per-task execution time, only periodic whole-DAG invocation.
type Task struct {
	ID       int
	CPU      float64
	State    float64
	Arg      float64
	Duration float64

	Predecessors []int
	Successors   []int
}

// DAG is a rooted, level-built directed acyclic graph of tasks. Edges only
// ever run from a lower level to the next, so cycles are impossible by
// construction. Sources is normally a single task id (level 0 is forced to
// width 1); the one exception is a critical-path length of 1, where every
// task is an independent, edge-less root and its own sink.
type DAG struct {
	Tasks   []Task
	Sources []int
	Sinks   []int
}

// Task looks up a vertex by id. Ids are dense and 0-based within a DAG, so
// this is a direct slice index, not a search.
func (d *DAG) Task(id int) *Task {
	return &d.Tasks[id]
}

// Validate checks the well-formedness invariants every generated DAG
// must hold: every vertex reachable from the source set, and every
// non-source vertex has at least one predecessor. Intended for use
// in tests and as a cheap debug assertion, not on the hot path.
func (d *DAG) Validate() error {
	if len(d.Tasks) == 0 {
		return fmt.Errorf("dag: no tasks")
	}
	if len(d.Sources) == 0 {
		return fmt.Errorf("dag: no source")
	}

	isSource := make([]bool, len(d.Tasks))
	reached := make([]bool, len(d.Tasks))
	var queue []int
	for _, id := range d.Sources {
		isSource[id] = true
		reached[id] = true
		queue = append(queue, id)
	}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		for _, succ := range d.Tasks[id].Successors {
			if !reached[succ] {
				reached[succ] = true
				queue = append(queue, succ)
			}
		}
	}
	for id, ok := range reached {
		if !ok {
			return fmt.Errorf("dag: task %d unreachable from any source", id)
		}
	}

	for id, t := range d.Tasks {
		if !isSource[id] && len(t.Predecessors) == 0 {
			return fmt.Errorf("dag: task %d has no predecessor and is not a source", id)
		}
	}

	return nil
}

// Job is one arriving unit of work: a DAG invoked periodically from
// arrival until its lifetime elapses.
type Job struct {
	ID              int
	DAG             *DAG
	ArrivalTime     float64
	Lifetime        float64
	InvocationRate  float64 // invocations per second
	TerminationTime float64
	Status          Status
}

// Status is a job's position in its pending -> running -> terminated
// lifecycle.
type Status int

const (
	Pending Status = iota
	Running
	Terminated
)

// InvocationPeriod is the fixed spacing between a job's invocations.
func (j *Job) InvocationPeriod() float64 {
	return 1.0 / j.InvocationRate
}

// NewJob builds a Job around dag, deriving its termination time from the
// arrival time and lifetime.
func NewJob(id int, dag *DAG, arrival, lifetime, invocationRate float64) *Job {
	return &Job{
		ID:              id,
		DAG:             dag,
		ArrivalTime:     arrival,
		Lifetime:        lifetime,
		InvocationRate:  invocationRate,
		TerminationTime: arrival + lifetime,
	}
}
