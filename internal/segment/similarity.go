package segment

import (
	"fmt"
	"strings"
)

// DefaultMaxWeight is the capacity of edges between equal intensities and of
// every terminal edge.
const DefaultMaxWeight int64 = 255

// Similarity maps the intensities of two neighbouring pixels to the capacity of
// the edge between them. Implementations must return a value in [0, maxWeight]
// and must return maxWeight when a == b.
type Similarity func(a, b uint8, maxWeight int64) int64

// Linear weights an edge by floor(maxWeight / |a-b|).
func Linear(a, b uint8, maxWeight int64) int64 {
	if a == b {
		return maxWeight
	}
	return maxWeight / absDiff(a, b)
}

// InverseSquare weights an edge by floor(maxWeight / |a-b|) squared, clamped to
// maxWeight. It penalises cutting through flat regions harder than Linear does.
func InverseSquare(a, b uint8, maxWeight int64) int64 {
	if a == b {
		return maxWeight
	}
	w := maxWeight / absDiff(a, b)
	if w == 0 {
		return 0
	}
	if w > maxWeight/w {
		return maxWeight
	}
	return w * w
}

// SimilarityByName resolves a configured similarity name.
//
// Recognised names are "linear" and "inverse-square" (case-insensitive). The
// empty string selects Linear.
func SimilarityByName(name string) (Similarity, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "linear":
		return Linear, nil
	case "inverse-square", "inverse_square", "squared":
		return InverseSquare, nil
	default:
		return nil, fmt.Errorf("segment: unknown similarity %q", name)
	}
}

func absDiff(a, b uint8) int64 {
	if a > b {
		return int64(a - b)
	}
	return int64(b - a)
}
