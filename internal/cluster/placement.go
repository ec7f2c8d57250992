package cluster

import (
	"fmt"
	"math"

	"github.com/faascluster/simulator/internal/job"
	"github.com/faascluster/simulator/internal/sampler"
	"github.com/faascluster/simulator/internal/simerrors"
)

// Policy name constants, matching config.Policy* one for one. Kept as
// plain string literals here rather than importing the config package, so
// this package never depends on CLI/config concerns.
const (
	PolicyStatelessMinNodes     = "stateless-min-nodes"
	PolicyStatelessMaxBalancing = "stateless-max-balancing"
	PolicyStatefulBestFit       = "stateful-best-fit"
	PolicyStatefulRandom        = "stateful-random"
)

// Placement records where one task of a job-invocation landed, and
// whether that required relocating its state off a different node than
// the one it was previously resident on (a stateful-affinity miss,
// which doubles the network charge).
type Placement struct {
	TaskID       int
	Node         *Node
	AffinityMiss bool
}

// PolicyFunc assigns every task of dag (belonging to jobID) to a node,
// creating nodes as needed, and returns the resulting placements in task
// order.
type PolicyFunc func(cl *Cluster, jobID int, dag *job.DAG, s *sampler.Sampler) ([]Placement, error)

// Lookup resolves a policy name to its PolicyFunc.
func Lookup(name string) (PolicyFunc, bool) {
	switch name {
	case PolicyStatelessMinNodes:
		return StatelessMinNodes, true
	case PolicyStatelessMaxBalancing:
		return StatelessMaxBalancing, true
	case PolicyStatefulBestFit:
		return StatefulBestFit, true
	case PolicyStatefulRandom:
		return StatefulRandom, true
	default:
		return nil, false
	}
}

// StatelessMinNodes traverses tasks in topological order (task ids are
// already topological by DAG construction) and assigns each to the first
// existing node with sufficient free capacity, creating a new node only
// when none fits. It establishes each task's resident state on whatever
// node it lands on — state persists for the job's life even under a
// stateless policy — but the node search itself gives no preference to
// a task's current resident node, so affinity never enters the decision.
func StatelessMinNodes(cl *Cluster, jobID int, dag *job.DAG, _ *sampler.Sampler) ([]Placement, error) {
	placements := make([]Placement, 0, len(dag.Tasks))

	for i := range dag.Tasks {
		t := &dag.Tasks[i]
		key := TaskKey{JobID: jobID, TaskID: t.ID}

		if err := checkTaskFits(cl, t.CPU+t.State); err != nil {
			return nil, err
		}

		resident, hasResident := cl.Locate(key)

		var target *Node
		for _, n := range cl.Nodes() {
			needed := t.CPU
			if needsState(n, resident, hasResident) {
				needed += t.State
			}
			if needed <= n.FreeCapacity() {
				target = n
				break
			}
		}
		if target == nil {
			target = cl.NewNode()
		}

		cl.AddLoad(target, t.CPU)
		cl.EstablishState(key, target, t.State)
		placements = append(placements, Placement{TaskID: t.ID, Node: target})
	}

	return placements, nil
}

// StatelessMaxBalancing assigns each task to the existing node with the
// largest free capacity that still fits it (worst-fit), breaking ties by
// ascending node id, creating a new node only when none fits. As with
// StatelessMinNodes, the task's state is established on whichever node is
// chosen; the search considers no affinity toward the task's current
// resident node.
func StatelessMaxBalancing(cl *Cluster, jobID int, dag *job.DAG, _ *sampler.Sampler) ([]Placement, error) {
	placements := make([]Placement, 0, len(dag.Tasks))

	for i := range dag.Tasks {
		t := &dag.Tasks[i]
		key := TaskKey{JobID: jobID, TaskID: t.ID}

		if err := checkTaskFits(cl, t.CPU+t.State); err != nil {
			return nil, err
		}

		resident, hasResident := cl.Locate(key)

		var target *Node
		bestFree := -1.0
		for _, n := range cl.Nodes() {
			needed := t.CPU
			if needsState(n, resident, hasResident) {
				needed += t.State
			}
			free := n.FreeCapacity()
			if needed <= free && free > bestFree {
				target = n
				bestFree = free
			}
		}
		if target == nil {
			target = cl.NewNode()
		}

		cl.AddLoad(target, t.CPU)
		cl.EstablishState(key, target, t.State)
		placements = append(placements, Placement{TaskID: t.ID, Node: target})
	}

	return placements, nil
}

// StatefulBestFit places a task on the node already holding its state
// when that node has room for its CPU (affinity); otherwise it best-fits
// the task (reserving its state size too, unless the candidate node is
// already the resident one) onto the node with the smallest residual
// capacity that still fits, creating a new node only when none fits.
func StatefulBestFit(cl *Cluster, jobID int, dag *job.DAG, _ *sampler.Sampler) ([]Placement, error) {
	placements := make([]Placement, 0, len(dag.Tasks))

	for i := range dag.Tasks {
		t := &dag.Tasks[i]
		key := TaskKey{JobID: jobID, TaskID: t.ID}

		if err := checkTaskFits(cl, t.CPU+t.State); err != nil {
			return nil, err
		}

		resident, hasResident := cl.Locate(key)
		if hasResident && t.CPU <= resident.FreeCapacity() {
			cl.AddLoad(resident, t.CPU)
			cl.EstablishState(key, resident, t.State)
			placements = append(placements, Placement{TaskID: t.ID, Node: resident})
			continue
		}

		target := bestFitNode(cl, resident, hasResident, t.CPU, t.State)
		if target == nil {
			target = cl.NewNode()
		}

		affinityMiss := hasResident && target.ID != resident.ID
		cl.AddLoad(target, t.CPU)
		cl.EstablishState(key, target, t.State)
		placements = append(placements, Placement{TaskID: t.ID, Node: target, AffinityMiss: affinityMiss})
	}

	return placements, nil
}

// StatefulRandom is StatefulBestFit for affinity, falling back to a
// uniformly random node with sufficient capacity instead of best-fit.
func StatefulRandom(cl *Cluster, jobID int, dag *job.DAG, s *sampler.Sampler) ([]Placement, error) {
	placements := make([]Placement, 0, len(dag.Tasks))

	for i := range dag.Tasks {
		t := &dag.Tasks[i]
		key := TaskKey{JobID: jobID, TaskID: t.ID}

		if err := checkTaskFits(cl, t.CPU+t.State); err != nil {
			return nil, err
		}

		resident, hasResident := cl.Locate(key)
		if hasResident && t.CPU <= resident.FreeCapacity() {
			cl.AddLoad(resident, t.CPU)
			cl.EstablishState(key, resident, t.State)
			placements = append(placements, Placement{TaskID: t.ID, Node: resident})
			continue
		}

		candidates := fittingNodes(cl, resident, hasResident, t.CPU, t.State)

		var target *Node
		if len(candidates) > 0 {
			target = candidates[s.Intn(len(candidates))]
		} else {
			target = cl.NewNode()
		}

		affinityMiss := hasResident && target.ID != resident.ID
		cl.AddLoad(target, t.CPU)
		cl.EstablishState(key, target, t.State)
		placements = append(placements, Placement{TaskID: t.ID, Node: target, AffinityMiss: affinityMiss})
	}

	return placements, nil
}

// needsState reports whether placing on candidate would require
// reserving the task's state size, i.e. candidate is not already the
// node the task's state resides on.
func needsState(candidate, resident *Node, hasResident bool) bool {
	return !(hasResident && candidate.ID == resident.ID)
}

func bestFitNode(cl *Cluster, resident *Node, hasResident bool, cpu, state float64) *Node {
	var best *Node
	bestFree := math.Inf(1)
	for _, n := range cl.Nodes() {
		needed := cpu
		if needsState(n, resident, hasResident) {
			needed += state
		}
		free := n.FreeCapacity()
		if needed <= free && free < bestFree {
			best = n
			bestFree = free
		}
	}
	return best
}

func fittingNodes(cl *Cluster, resident *Node, hasResident bool, cpu, state float64) []*Node {
	var out []*Node
	for _, n := range cl.Nodes() {
		needed := cpu
		if needsState(n, resident, hasResident) {
			needed += state
		}
		if needed <= n.FreeCapacity() {
			out = append(out, n)
		}
	}
	return out
}

// checkTaskFits rejects a task whose resource requirement can never be
// satisfied by any node, even an empty one — a configuration error
// detected at first occurrence, not an internal invariant.
func checkTaskFits(cl *Cluster, required float64) error {
	if required > cl.Capacity {
		return simerrors.NewConfigError(fmt.Errorf(
			"task requires %v but node-capacity is %v", required, cl.Capacity))
	}
	return nil
}
