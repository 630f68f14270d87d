// Package layout assigns 2D positions to economy products using depth
// layers.
//
// The horizontal position of a product is determined by its depth (raw
// materials on the left, consumers to the right); the vertical position by
// its ordering within the layer, centered around zero. Positions are
// written into the products' Position field, which the core reserves for
// this collaborator.
package layout

import (
	"math"

	"github.com/fabrikdev/econdag/pkg/economy"
)

// Options controls the pixel geometry of the projection.
type Options struct {
	LayerSpacing float64 // horizontal distance between depth layers
	NodeSpacing  float64 // vertical distance between nodes in a layer
}

// DefaultOptions is the geometry used when the zero Options is passed.
var DefaultOptions = Options{
	LayerSpacing: 160,
	NodeSpacing:  80,
}

// BoundingBox is the axis-aligned extent of a laid-out graph.
type BoundingBox struct {
	MinX float64 `json:"minX"`
	MaxX float64 `json:"maxX"`
	MinY float64 `json:"minY"`
	MaxY float64 `json:"maxY"`
}

// Calculate assigns a position to every product in the graph.
//
// Products are grouped into layers by depth. A product at depth d, at index
// i of its layer of n nodes, is placed at
//
//	x = d * LayerSpacing
//	y = (i - (n-1)/2) * NodeSpacing
//
// so each layer is vertically centered on the x axis. Within a layer,
// products keep insertion order. Z is always 0.
func Calculate(g *economy.Graph, opts Options) {
	if opts.LayerSpacing == 0 {
		opts.LayerSpacing = DefaultOptions.LayerSpacing
	}
	if opts.NodeSpacing == 0 {
		opts.NodeSpacing = DefaultOptions.NodeSpacing
	}

	depths := g.Depths()
	layers := make(map[int][]*economy.Product)
	for _, p := range g.Products() {
		d := depths[p.ID]
		layers[d] = append(layers[d], p)
	}

	for d, layer := range layers {
		offset := float64(len(layer)-1) / 2
		for i, p := range layer {
			p.Position = &economy.Position{
				X: float64(d) * opts.LayerSpacing,
				Y: (float64(i) - offset) * opts.NodeSpacing,
			}
		}
	}
}

// Bounds returns the bounding box of all positioned products. Products
// without a position are ignored; an unlaid-out graph yields the zero box.
func Bounds(g *economy.Graph) BoundingBox {
	box := BoundingBox{
		MinX: math.Inf(1), MaxX: math.Inf(-1),
		MinY: math.Inf(1), MaxY: math.Inf(-1),
	}
	found := false
	for _, p := range g.Products() {
		if p.Position == nil {
			continue
		}
		found = true
		box.MinX = math.Min(box.MinX, p.Position.X)
		box.MaxX = math.Max(box.MaxX, p.Position.X)
		box.MinY = math.Min(box.MinY, p.Position.Y)
		box.MaxY = math.Max(box.MaxY, p.Position.Y)
	}
	if !found {
		return BoundingBox{}
	}
	return box
}
