package cluster

import "testing"

func TestNodeFreeCapacityAccountsForStateAndLoad(t *testing.T) {
	n := newNode(0, 100)
	n.State[TaskKey{JobID: 1, TaskID: 1}] = 30
	n.CPULoad = 20

	if got := n.FreeCapacity(); got != 50 {
		t.Fatalf("expected free capacity 50, got %v", got)
	}
}

func TestEstablishStateMovesOffPreviousNode(t *testing.T) {
	cl := New(100)
	a := cl.NewNode()
	b := cl.NewNode()
	key := TaskKey{JobID: 1, TaskID: 1}

	cl.EstablishState(key, a, 10)
	if _, ok := a.State[key]; !ok {
		t.Fatalf("expected state on a")
	}

	cl.EstablishState(key, b, 10)
	if _, ok := a.State[key]; ok {
		t.Fatalf("expected state removed from a after move")
	}
	if _, ok := b.State[key]; !ok {
		t.Fatalf("expected state on b after move")
	}

	located, ok := cl.Locate(key)
	if !ok || located != b {
		t.Fatalf("expected Locate to resolve to b")
	}
}

func TestEvictTasksRemovesStateAndReturnsTouchedNodes(t *testing.T) {
	cl := New(100)
	a := cl.NewNode()
	key1 := TaskKey{JobID: 1, TaskID: 1}
	key2 := TaskKey{JobID: 1, TaskID: 2}
	cl.EstablishState(key1, a, 10)
	cl.EstablishState(key2, a, 20)

	touched := cl.EvictTasks(1, []int{1, 2})
	if len(touched) != 1 || touched[0] != a {
		t.Fatalf("expected a to be the only touched node")
	}
	if !a.Empty() {
		t.Fatalf("expected a to be empty after evicting all its state")
	}

	if !cl.RemoveEmpty(a) {
		t.Fatalf("expected a to be removed")
	}
	if cl.NodeCount() != 0 {
		t.Fatalf("expected 0 nodes remaining, got %d", cl.NodeCount())
	}
}

func TestRemoveEmptyRefusesOccupiedNode(t *testing.T) {
	cl := New(100)
	a := cl.NewNode()
	cl.AddLoad(a, 10)

	if cl.RemoveEmpty(a) {
		t.Fatalf("expected a node with CPU load to not be removed")
	}
}
