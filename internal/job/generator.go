package job

import "github.com/faascluster/simulator/internal/sampler"

// Params carries the two simulation-wide scale factors the generator needs
// beyond the sampler itself.
type Params struct {
	StateMul float64
	ArgMul   float64
}

// Generate builds one DAG: draw the task count N, draw
// the critical-path length C conditioned on N and clamp to [1, N], draw
// level widths summing to N, wire each level to the next with
// ⌈L_{i+1}/L_i⌉ random distinct successors per vertex, connect any orphan
// left without a predecessor, and sample per-task CPU/state/arg/duration.
func Generate(s *sampler.Sampler, params Params) *DAG {
	n := s.TaskCount()

	c := s.CriticalPathLength(n)
	if c < 1 {
		c = 1
	}
	if c > n {
		c = n
	}

	widths := levelWidths(s, n, c)
	offsets := make([]int, c+1)
	for i := 0; i < c; i++ {
		offsets[i+1] = offsets[i] + widths[i]
	}

	tasks := make([]Task, n)
	for id := range tasks {
		tasks[id] = Task{
			ID:       id,
			CPU:      s.TaskCPU(),
			State:    s.TaskMem() * params.StateMul,
			Arg:      s.TaskMem() * params.ArgMul,
			Duration: s.TaskDuration(),
		}
	}

	for level := 0; level < c-1; level++ {
		wireLevel(s, tasks, offsets[level], widths[level], offsets[level+1], widths[level+1])
	}

	sources := idRange(offsets[0], widths[0])
	sinks := idRange(offsets[c-1], widths[c-1])

	return &DAG{
		Tasks:   tasks,
		Sources: sources,
		Sinks:   sinks,
	}
}

func idRange(start, width int) []int {
	ids := make([]int, width)
	for i := range ids {
		ids[i] = start + i
	}
	return ids
}

// levelWidths draws C level widths conditioned on c that sum to n. Level 0
// is forced to width 1 — the DAG has exactly one source — and every other
// level is at least 1. The last level absorbs whatever the middle draws
// leave over; if that pushes it below 1, earlier levels are truncated
// from the end until room is freed, padding or truncating the final level
// deterministically.
func levelWidths(s *sampler.Sampler, n, c int) []int {
	widths := make([]int, c)
	widths[0] = 1
	if c == 1 {
		widths[0] = n
		return widths
	}

	sum := 1
	for i := 1; i < c-1; i++ {
		w := s.LevelWidth(c)
		if w < 1 {
			w = 1
		}
		widths[i] = w
		sum += w
	}

	last := n - sum
	if last < 1 {
		deficit := 1 - last
		for i := c - 2; i >= 1 && deficit > 0; i-- {
			reducible := widths[i] - 1
			if reducible <= 0 {
				continue
			}
			cut := reducible
			if cut > deficit {
				cut = deficit
			}
			widths[i] -= cut
			sum -= cut
			deficit -= cut
		}
		last = n - sum
		if last < 1 {
			last = 1
		}
	}
	widths[c-1] = last

	return widths
}

// wireLevel connects every vertex in [from, from+fromWidth) to
// k = ceil(toWidth/fromWidth) distinct, uniformly chosen successors in
// [to, to+toWidth), then connects any successor left without a
// predecessor from a uniformly chosen vertex in the source level.
func wireLevel(s *sampler.Sampler, tasks []Task, from, fromWidth, to, toWidth int) {
	k := (toWidth + fromWidth - 1) / fromWidth
	if k > toWidth {
		k = toWidth
	}

	hasPredecessor := make([]bool, toWidth)

	for v := from; v < from+fromWidth; v++ {
		for _, succ := range distinctSuccessors(s, toWidth, k) {
			target := to + succ
			tasks[v].Successors = append(tasks[v].Successors, target)
			tasks[target].Predecessors = append(tasks[target].Predecessors, v)
			hasPredecessor[succ] = true
		}
	}

	for succ := 0; succ < toWidth; succ++ {
		if hasPredecessor[succ] {
			continue
		}
		v := from + s.Intn(fromWidth)
		target := to + succ
		tasks[v].Successors = append(tasks[v].Successors, target)
		tasks[target].Predecessors = append(tasks[target].Predecessors, v)
	}
}

// distinctSuccessors draws k distinct indices in [0, width) via a partial
// Fisher-Yates shuffle over a sparse index map, so every combination is
// equally likely and the cost is proportional to k rather than width: only
// the k positions actually swapped are ever materialized, instead of a
// full-width pool.
func distinctSuccessors(s *sampler.Sampler, width, k int) []int {
	if k > width {
		k = width
	}
	at := func(pos int, swapped map[int]int) int {
		if v, ok := swapped[pos]; ok {
			return v
		}
		return pos
	}

	swapped := make(map[int]int, k)
	out := make([]int, k)
	for i := 0; i < k; i++ {
		j := i + s.Intn(width-i)
		vi, vj := at(i, swapped), at(j, swapped)
		out[i] = vj
		swapped[i] = vj
		swapped[j] = vi
	}
	return out
}
