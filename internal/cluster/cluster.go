package cluster

// Cluster is an ordered set of nodes, all sharing the same capacity, plus
// a reverse index from (job, task) to the node currently holding its
// state. Node ids are monotonic and never reused, even across removals.
type Cluster struct {
	Capacity float64

	nodes  []*Node
	byID   map[int]*Node
	nextID int
	index  map[TaskKey]int
}

// New builds an empty cluster whose nodes will each have the given
// capacity.
func New(capacity float64) *Cluster {
	return &Cluster{
		Capacity: capacity,
		byID:     make(map[int]*Node),
		index:    make(map[TaskKey]int),
	}
}

// Nodes returns the cluster's nodes in stable creation order, the order
// the stateless-min-nodes and stateless-max-balancing policies iterate.
func (c *Cluster) Nodes() []*Node {
	return c.nodes
}

// NodeCount returns the number of live nodes.
func (c *Cluster) NodeCount() int {
	return len(c.nodes)
}

// NewNode creates a node with the cluster's standard capacity, appends it
// in creation order, and returns it.
func (c *Cluster) NewNode() *Node {
	n := newNode(c.nextID, c.Capacity)
	c.nextID++
	c.nodes = append(c.nodes, n)
	c.byID[n.ID] = n
	return n
}

// Locate reports the node currently holding key's state, if any.
func (c *Cluster) Locate(key TaskKey) (*Node, bool) {
	id, ok := c.index[key]
	if !ok {
		return nil, false
	}
	n, ok := c.byID[id]
	return n, ok
}

// EstablishState records key's state as resident on node, removing it
// from whatever node previously held it (if different). Used both for a
// task's first invocation and for a stateful-affinity miss that relocates
// existing state to a new node.
func (c *Cluster) EstablishState(key TaskKey, node *Node, size float64) {
	if prevID, ok := c.index[key]; ok && prevID != node.ID {
		if prev, ok := c.byID[prevID]; ok {
			delete(prev.State, key)
		}
	}
	node.State[key] = size
	c.index[key] = node.ID
}

// AddLoad charges cpu against node's transient CPU load.
func (c *Cluster) AddLoad(node *Node, cpu float64) {
	node.CPULoad += cpu
}

// FreeAllLoad zeroes every node's transient CPU load, the "free transient
// CPU load" step the event loop performs at the end of processing a
// job-invocation event.
func (c *Cluster) FreeAllLoad() {
	for _, n := range c.nodes {
		n.CPULoad = 0
	}
}

// EvictTasks removes the given job's tasks' resident state, returning the
// set of nodes whose resident table changed as a result. It does not
// remove emptied nodes; callers that want that call RemoveEmpty
// afterward — job termination removes emptied nodes directly, while a
// successful defrag evacuation removes them as part of that pass.
func (c *Cluster) EvictTasks(jobID int, taskIDs []int) []*Node {
	touched := make(map[int]*Node)
	for _, taskID := range taskIDs {
		key := TaskKey{JobID: jobID, TaskID: taskID}
		id, ok := c.index[key]
		if !ok {
			continue
		}
		if n, ok := c.byID[id]; ok {
			delete(n.State, key)
			touched[n.ID] = n
		}
		delete(c.index, key)
	}

	out := make([]*Node, 0, len(touched))
	for _, n := range touched {
		out = append(out, n)
	}
	return out
}

// RemoveEmpty removes node from the cluster if it holds no resident state
// and carries no CPU load, returning true if it was removed.
func (c *Cluster) RemoveEmpty(node *Node) bool {
	if !node.Empty() {
		return false
	}

	delete(c.byID, node.ID)
	for i, n := range c.nodes {
		if n.ID == node.ID {
			c.nodes = append(c.nodes[:i], c.nodes[i+1:]...)
			break
		}
	}
	return true
}
