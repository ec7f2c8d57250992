package cluster

import "testing"

func TestDefragmentEvacuatesSmallestNodeFirst(t *testing.T) {
	cl := New(100)
	a := cl.NewNode()
	b := cl.NewNode()

	cl.EstablishState(TaskKey{JobID: 1, TaskID: 1}, a, 10)
	cl.EstablishState(TaskKey{JobID: 2, TaskID: 1}, b, 40)

	moves := Defragment(cl)

	if len(moves) != 1 {
		t.Fatalf("expected one move, got %d", len(moves))
	}
	if moves[0].From != a || moves[0].To != b {
		t.Fatalf("expected the lighter node (a) to evacuate onto b")
	}
	if cl.NodeCount() != 1 {
		t.Fatalf("expected a to be removed after evacuation, nodes remaining: %d", cl.NodeCount())
	}
}

func TestDefragmentLeavesSourceUntouchedWhenEvacuationFails(t *testing.T) {
	cl := New(30)
	a := cl.NewNode()
	b := cl.NewNode()

	cl.EstablishState(TaskKey{JobID: 1, TaskID: 1}, a, 10)
	cl.EstablishState(TaskKey{JobID: 2, TaskID: 1}, b, 25) // leaves b only 5 free

	moves := Defragment(cl)

	if len(moves) != 0 {
		t.Fatalf("expected no moves when no destination fits, got %d", len(moves))
	}
	if cl.NodeCount() != 2 {
		t.Fatalf("expected both nodes to remain, got %d", cl.NodeCount())
	}
}

func TestDefragmentSkipsNodesWithLiveCPULoad(t *testing.T) {
	cl := New(100)
	a := cl.NewNode()
	b := cl.NewNode()

	cl.EstablishState(TaskKey{JobID: 1, TaskID: 1}, a, 10)
	cl.AddLoad(a, 5)
	cl.EstablishState(TaskKey{JobID: 2, TaskID: 1}, b, 40)

	moves := Defragment(cl)

	if len(moves) != 0 {
		t.Fatalf("expected no moves while a has live CPU load, got %d", len(moves))
	}
}
