// Package segment separates an image into foreground and background by computing
// a minimum s-t cut over a flow network built from its pixels.
//
// The package has two layers:
//
//   - Network: a directed flow network with explicit residual arc pairs and an
//     Edmonds-Karp max-flow solver (BFS shortest augmenting paths).
//   - BuildNetwork / Segment: map a grayscale grid onto a Network, one node per
//     pixel plus a source and a sink, and map the solver's cut back to a mask.
//
// # Node Numbering
//
// Node 0 is the source and node N+1 is the sink, where N = width*height. The
// pixel at (col, row) is node row*width + col + 1.
//
// # Edge Weights
//
// Every pixel gets a directed edge to each of its (up to) 8 neighbours. The
// capacity comes from a Similarity function of the two intensities: equal
// intensities get MaxWeight, and different intensities get a weight inversely
// proportional to their difference, so cheap cuts run along strong gradients.
//
// By default the top row is wired to the source and the bottom row to the sink,
// each with capacity MaxWeight. Seeds replaces that wiring with caller-supplied
// masks.
//
// # Residual Storage
//
// AddEdge creates two arcs: the forward arc with the requested capacity and a
// reverse arc with capacity zero. Arc ids come in pairs, so the partner of arc a
// is a^1. Memory is O(V + E) rather than a dense V x V matrix.
//
// # Concurrency
//
// A Network is owned by a single solve. MaxFlow mutates residual capacities in
// place and is not safe for concurrent use. Independent networks may be solved
// in parallel.
//
// # Errors
//
//	ErrInvalidDimensions  - width or height is not positive, or the grid size is inconsistent
//	ErrInvalidSeeds       - seed masks do not match the grid size
//	ErrNodeOutOfRange     - AddEdge referenced a node outside the network
//	ErrNegativeCapacity   - AddEdge was given a negative capacity
//	ErrArithmeticOverflow - the total source capacity does not fit in int64
//	ErrAlreadySolved      - MaxFlow was called twice on the same network
//
// context.Canceled / context.DeadlineExceeded are returned as-is when the
// context passed to MaxFlow or Segment ends before the solve completes. There is
// no partial result.
package segment
