package cluster

import "sort"

// DefragMove records one state relocation a defrag pass performed, so the
// metrics accumulator can charge the moved bytes against network traffic.
type DefragMove struct {
	Key  TaskKey
	From *Node
	To   *Node
	Size float64
}

// Defragment runs one consolidation pass: candidate source nodes are
// visited in ascending order of total resident state; each is fully evacuated
// with best-fit (considering its entries in descending state-size order)
// onto other nodes, and removed if the evacuation fully succeeds. A node
// with any CPU load in flight is never a defrag candidate or destination — the event
// loop's ordering guarantees defrag ticks never overlap an invocation in
// progress, but a defensive skip costs nothing here.
func Defragment(cl *Cluster) []DefragMove {
	candidates := make([]*Node, 0, len(cl.nodes))
	for _, n := range cl.nodes {
		if n.CPULoad == 0 && len(n.State) > 0 {
			candidates = append(candidates, n)
		}
	}
	sort.Slice(candidates, func(i, j int) bool {
		si, sj := candidates[i].ResidentState(), candidates[j].ResidentState()
		if si != sj {
			return si < sj
		}
		return candidates[i].ID < candidates[j].ID
	})

	var moves []DefragMove

	for _, src := range candidates {
		if _, stillPresent := cl.byID[src.ID]; !stillPresent {
			continue // removed by evacuating an earlier, smaller candidate
		}

		entries := make([]TaskKey, 0, len(src.State))
		for key := range src.State {
			entries = append(entries, key)
		}
		sort.Slice(entries, func(i, j int) bool {
			si, sj := src.State[entries[i]], src.State[entries[j]]
			if si != sj {
				return si > sj // descending state size
			}
			if entries[i].JobID != entries[j].JobID {
				return entries[i].JobID < entries[j].JobID
			}
			return entries[i].TaskID < entries[j].TaskID
		})

		planned := make([]DefragMove, 0, len(entries))
		ok := true
		for _, key := range entries {
			size := src.State[key]
			dst := defragBestFit(cl, src, size)
			if dst == nil {
				ok = false
				break
			}
			// Reserve the destination's capacity against further entries
			// in this same evacuation before moving on.
			dst.State[key] = size
			planned = append(planned, DefragMove{Key: key, From: src, To: dst, Size: size})
		}

		if !ok {
			// Undo any tentative reservations made on destination nodes
			// before giving up on this source.
			for _, mv := range planned {
				delete(mv.To.State, mv.Key)
			}
			continue
		}

		for _, mv := range planned {
			delete(src.State, mv.Key)
			cl.index[mv.Key] = mv.To.ID
		}
		moves = append(moves, planned...)
		cl.RemoveEmpty(src)
	}

	return moves
}

// defragBestFit finds the smallest-residual-capacity node (other than
// src, and carrying no CPU load) that fits size bytes of state, ascending
// node id breaking ties.
func defragBestFit(cl *Cluster, src *Node, size float64) *Node {
	var best *Node
	bestFree := -1.0
	for _, n := range cl.nodes {
		if n.ID == src.ID || n.CPULoad != 0 {
			continue
		}
		free := n.FreeCapacity()
		if size > free {
			continue
		}
		if best == nil || free < bestFree {
			best = n
			bestFree = free
		}
	}
	return best
}
