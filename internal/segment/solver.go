package segment

import (
	"context"
	"math"

	"github.com/gammazero/deque"
	"github.com/rs/zerolog"
)

// SolveOptions configures MaxFlow. The zero value is usable.
type SolveOptions struct {
	// Logger receives a debug summary and a trace event per augmentation.
	// Nil disables logging.
	Logger *zerolog.Logger

	// OnAugment, if set, is called after every augmentation with the 1-based
	// iteration number and the flow pushed in that iteration.
	OnAugment func(iteration int, pushed int64)
}

// FlowResult is the outcome of a completed max-flow computation.
type FlowResult struct {
	// MaxFlow is the total flow pushed from source to sink, which equals the
	// capacity of the minimum cut.
	MaxFlow int64

	// Augmentations is the number of augmenting paths applied.
	Augmentations int

	// Reachable[v] reports whether node v is reachable from the source in the
	// final residual network, i.e. lies on the source side of the minimum cut.
	// len(Reachable) == NodeCount()+2.
	Reachable []bool
}

// MaxFlow saturates the network with Edmonds-Karp and returns the flow value
// together with the source side of the minimum cut.
//
// Each iteration runs one breadth-first search for the shortest augmenting
// path and pushes its bottleneck along it, updating residual capacities in
// place. When no path is left, one more traversal over positive-residual arcs
// yields the reachable set.
//
// ctx is checked between iterations. If it ends first, its error is returned
// and the residual state must be discarded.
//
// Complexity: O(V * E^2) time, O(V + E) memory.
func (n *Network) MaxFlow(ctx context.Context, opts *SolveOptions) (*FlowResult, error) {
	if n.solved {
		return nil, ErrAlreadySolved
	}
	if opts == nil {
		opts = &SolveOptions{}
	}
	log := zerolog.Nop()
	if opts.Logger != nil {
		log = *opts.Logger
	}

	// The flow total can never exceed the source capacity, so checking the
	// bound once keeps the accumulator below from overflowing.
	bound, err := n.sourceCapacity()
	if err != nil {
		return nil, err
	}
	n.solved = true

	source, sink := n.Source(), n.Sink()
	var total int64
	iterations := 0
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		pushed := n.augmentingPath(source, sink)
		if pushed == 0 {
			break
		}
		n.augment(source, sink, pushed)
		total += pushed
		iterations++

		log.Trace().Int("iteration", iterations).Int64("pushed", pushed).Int64("flow", total).Msg("augmented")
		if opts.OnAugment != nil {
			opts.OnAugment(iterations, pushed)
		}
	}

	log.Debug().
		Int("nodes", n.interior+2).
		Int("edges", n.EdgeCount()).
		Int("augmentations", iterations).
		Int64("flow", total).
		Int64("bound", bound).
		Msg("max flow computed")

	return &FlowResult{
		MaxFlow:       total,
		Augmentations: iterations,
		Reachable:     n.Reachable(),
	}, nil
}

// augmentingPath runs one BFS from source over arcs with positive residual
// capacity. It records in n.parent the arc that reached each visited node and
// returns the bottleneck of the path to sink, or 0 if sink is unreachable.
func (n *Network) augmentingPath(source, sink int) int64 {
	for i := range n.parent {
		n.parent[i] = parentUnvisited
	}
	n.parent[source] = parentRoot

	q := &n.queue
	q.Clear()
	q.PushBack(queued{node: source, bottleneck: math.MaxInt64})
	for q.Len() > 0 {
		cur := q.PopFront()
		for _, a := range n.adj[cur.node] {
			next := n.head[a]
			if n.parent[next] != parentUnvisited || n.residual[a] <= 0 {
				continue
			}
			n.parent[next] = a

			bottleneck := min(cur.bottleneck, n.residual[a])
			if next == sink {
				return bottleneck
			}
			q.PushBack(queued{node: next, bottleneck: bottleneck})
		}
	}
	return 0
}

// augment pushes flow along the parent chain from sink back to source.
func (n *Network) augment(source, sink int, flow int64) {
	for cur := sink; cur != source; {
		a := n.parent[cur]
		n.residual[a] -= flow
		n.residual[a^1] += flow
		cur = n.head[a^1]
	}
}

// Reachable returns the nodes reachable from the source through arcs with
// strictly positive residual capacity. It does not modify the network, so
// repeated calls on the same state return equal masks.
func (n *Network) Reachable() []bool {
	visited := make([]bool, n.interior+2)
	source := n.Source()
	visited[source] = true

	var queue deque.Deque[int]
	queue.PushBack(source)
	for queue.Len() > 0 {
		u := queue.PopFront()
		for _, a := range n.adj[u] {
			next := n.head[a]
			if !visited[next] && n.residual[a] > 0 {
				visited[next] = true
				queue.PushBack(next)
			}
		}
	}
	return visited
}
