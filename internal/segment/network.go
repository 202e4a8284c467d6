package segment

import (
	"fmt"

	"github.com/gammazero/deque"
)

// Arc is a read-only view of one residual arc.
type Arc struct {
	From, To int

	// Capacity is the capacity the arc was created with. Reverse arcs start at 0.
	Capacity int64

	// Residual is the capacity still available on the arc.
	Residual int64

	// Reverse marks the zero-capacity partner created for each added edge.
	Reverse bool
}

// Flow returns the flow carried by a forward arc (Capacity - Residual).
// It is always 0 for reverse arcs.
func (a Arc) Flow() int64 {
	if a.Reverse {
		return 0
	}
	return a.Capacity - a.Residual
}

// Network is a directed flow network between a source and a sink.
//
// Nodes are dense integers in [0, NodeCount()+1]: 0 is the source and
// NodeCount()+1 the sink. Each AddEdge call creates a forward arc and a paired
// reverse arc; arc ids 2k and 2k+1 are partners, so the partner of a is a^1.
type Network struct {
	interior int

	// adj[u] lists the ids of the arcs leaving u, in insertion order.
	adj      [][]int
	head     []int
	capacity []int64
	residual []int64

	// parent[v] is the arc that reached v in the current BFS,
	// parentUnvisited if v was not reached, parentRoot for the source.
	parent []int
	queue  deque.Deque[queued]

	solved bool
}

const (
	parentUnvisited = -1
	parentRoot      = -2
)

type queued struct {
	node       int
	bottleneck int64
}

// NewNetwork creates an empty network with n interior nodes plus a source and
// a sink. n may be zero.
func NewNetwork(n int) *Network {
	if n < 0 {
		n = 0
	}
	return &Network{
		interior: n,
		adj:      make([][]int, n+2),
		parent:   make([]int, n+2),
	}
}

// NodeCount returns the number of interior (non-terminal) nodes.
func (n *Network) NodeCount() int { return n.interior }

// Source returns the source node id.
func (n *Network) Source() int { return 0 }

// Sink returns the sink node id.
func (n *Network) Sink() int { return n.interior + 1 }

// EdgeCount returns the number of edges added with AddEdge.
func (n *Network) EdgeCount() int { return len(n.head) / 2 }

// AddEdge adds a directed edge u -> v with the given capacity, together with
// its zero-capacity reverse arc. Parallel edges are kept as separate arc pairs.
func (n *Network) AddEdge(u, v int, capacity int64) error {
	last := n.Sink()
	if u < 0 || u > last || v < 0 || v > last {
		return &EdgeError{From: u, To: v, Cap: capacity, Err: ErrNodeOutOfRange}
	}
	if capacity < 0 {
		return &EdgeError{From: u, To: v, Cap: capacity, Err: ErrNegativeCapacity}
	}

	fwd := len(n.head)
	n.head = append(n.head, v, u)
	n.capacity = append(n.capacity, capacity, 0)
	n.residual = append(n.residual, capacity, 0)
	n.adj[u] = append(n.adj[u], fwd)
	n.adj[v] = append(n.adj[v], fwd^1)
	return nil
}

// Neighbors returns the heads of the forward edges leaving u, in insertion
// order. Reverse arcs are not listed.
func (n *Network) Neighbors(u int) []int {
	if u < 0 || u >= len(n.adj) {
		return nil
	}
	out := make([]int, 0, len(n.adj[u]))
	for _, a := range n.adj[u] {
		if a&1 == 0 {
			out = append(out, n.head[a])
		}
	}
	return out
}

// Residual returns the summed residual capacity of every arc u -> v, or 0
// when there is none.
func (n *Network) Residual(u, v int) int64 {
	if u < 0 || u >= len(n.adj) {
		return 0
	}
	var sum int64
	for _, a := range n.adj[u] {
		if n.head[a] == v {
			sum += n.residual[a]
		}
	}
	return sum
}

// Flow returns the flow carried by the edges declared u -> v.
func (n *Network) Flow(u, v int) int64 {
	if u < 0 || u >= len(n.adj) {
		return 0
	}
	var sum int64
	for _, a := range n.adj[u] {
		if a&1 == 0 && n.head[a] == v {
			sum += n.capacity[a] - n.residual[a]
		}
	}
	return sum
}

// EachArc calls fn for every arc in id order, forward and reverse.
func (n *Network) EachArc(fn func(Arc)) {
	for a := range n.head {
		fn(n.arc(a))
	}
}

func (n *Network) arc(a int) Arc {
	return Arc{
		From:     n.head[a^1],
		To:       n.head[a],
		Capacity: n.capacity[a],
		Residual: n.residual[a],
		Reverse:  a&1 == 1,
	}
}

// sourceCapacity returns the total capacity of the edges leaving the source,
// which bounds the maximum flow.
func (n *Network) sourceCapacity() (int64, error) {
	const maxInt64 = int64(^uint64(0) >> 1)
	var total int64
	for _, a := range n.adj[n.Source()] {
		if a&1 == 1 {
			continue
		}
		c := n.capacity[a]
		if total > maxInt64-c {
			return 0, fmt.Errorf("%w: source capacity exceeds %d", ErrArithmeticOverflow, maxInt64)
		}
		total += c
	}
	return total, nil
}
