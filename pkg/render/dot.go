// Package render draws economy graphs as node-link diagrams.
//
// The graph is first converted to Graphviz DOT (inputs above their
// consumers, one rank per depth layer), then rendered to SVG in-process via
// goccy/go-graphviz. The fuel product is highlighted.
package render

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/fabrikdev/econdag/pkg/economy"
)

// Options configures diagram rendering.
type Options struct {
	// Detailed includes depth and input amounts in node labels.
	// When false, only the product name is shown.
	Detailed bool
}

// ToDOT converts an economy graph to Graphviz DOT format.
// Products of equal depth share a rank, mirroring the layered projection.
func ToDOT(g *economy.Graph, opts Options) string {
	depths := g.Depths()

	var buf bytes.Buffer
	buf.WriteString("digraph economy {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=24, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for _, p := range g.Products() {
		label := fmtLabel(g, p, depths[p.ID], opts.Detailed)
		attrs := fmtAttrs(g, p, label)
		fmt.Fprintf(&buf, "  %q [%s];\n", nodeName(p.ID), strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, layer := range rankGroups(g, depths) {
		if len(layer) > 1 {
			fmt.Fprintf(&buf, "  { rank=same; %s }\n", strings.Join(layer, "; "))
		}
	}

	buf.WriteString("\n")
	for _, p := range g.Products() {
		for _, in := range p.Inputs {
			fmt.Fprintf(&buf, "  %q -> %q;\n", nodeName(in.ProductID), nodeName(p.ID))
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeName(id economy.ProductID) string {
	return fmt.Sprintf("p%d", id)
}

func fmtLabel(g *economy.Graph, p *economy.Product, depth int, detailed bool) string {
	if !detailed {
		return p.Name
	}

	parts := []string{fmt.Sprintf("depth: %d", depth)}
	for _, in := range p.Inputs {
		name := fmt.Sprintf("#%d", in.ProductID)
		if input, ok := g.Product(in.ProductID); ok {
			name = input.Name
		}
		parts = append(parts, fmt.Sprintf("%s × %.1f", name, in.Amount))
	}

	return p.Name + "\n" + strings.Join(parts, "\n")
}

func fmtAttrs(g *economy.Graph, p *economy.Product, label string) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	if g.IsFuel(p.ID) {
		attrs = append(attrs, "fillcolor=gold", "fontcolor=black")
	}
	return attrs
}

// rankGroups returns quoted node names grouped by depth, shallowest first.
func rankGroups(g *economy.Graph, depths map[economy.ProductID]int) [][]string {
	byDepth := make(map[int][]string)
	for _, p := range g.Products() {
		d := depths[p.ID]
		byDepth[d] = append(byDepth[d], fmt.Sprintf("%q", nodeName(p.ID)))
	}
	levels := make([]int, 0, len(byDepth))
	for d := range byDepth {
		levels = append(levels, d)
	}
	sort.Ints(levels)

	groups := make([][]string, 0, len(levels))
	for _, d := range levels {
		groups = append(groups, byDepth[d])
	}
	return groups
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
