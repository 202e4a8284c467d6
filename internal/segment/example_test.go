package segment_test

import (
	"context"
	"fmt"

	"github.com/ironsheep/image-segment-mcp/internal/segment"
)

func ExampleNetwork_MaxFlow() {
	n := segment.NewNetwork(4)
	edges := [][3]int64{
		{0, 1, 7}, {0, 4, 4}, {1, 2, 5}, {1, 3, 3}, {2, 5, 8},
		{3, 2, 3}, {3, 5, 5}, {4, 1, 3}, {4, 3, 2},
	}
	for _, e := range edges {
		if err := n.AddEdge(int(e[0]), int(e[1]), e[2]); err != nil {
			panic(err)
		}
	}

	res, err := n.MaxFlow(context.Background(), nil)
	if err != nil {
		panic(err)
	}
	fmt.Println("max flow:", res.MaxFlow)
	fmt.Println("source side:", res.Reachable)
	// Output:
	// max flow: 10
	// source side: [true true false false true false]
}

func ExampleSegment() {
	grid := segment.Grid{
		Width:  1,
		Height: 3,
		Pix:    []uint8{10, 10, 250},
	}

	seg, err := segment.Segment(context.Background(), grid, segment.DefaultOptions())
	if err != nil {
		panic(err)
	}
	fmt.Println(seg.Mask, seg.MaxFlow)
	// Output: [true true false] 1
}
