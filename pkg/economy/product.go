// Package economy implements the economy DAG core: products defined as
// recipes, a cycle-free dependency graph over them, depth projection onto
// topological layers, and a versioned document codec.
//
// # Model
//
// A [Product] produces one output from an ordered list of [Input]s, each
// referencing another product by id. The [Graph] owns all products, assigns
// monotonically increasing ids, and rejects any mutation that would break
// acyclicity or reference resolution. Edges point from input to consumer, so
// raw materials (products without inputs) sit at depth 0 and every consumer
// sits strictly below its inputs.
//
// # Usage
//
//	g := economy.New()
//	ore, _ := g.AddProduct("Ore", "", nil)
//	iron, _ := g.AddProduct("Iron", "", []economy.Input{{ProductID: ore, Amount: 2}})
//	order := g.TopologicalSort() // [ore, iron]
//	depths := g.Depths()         // {ore: 0, iron: 1}
package economy

import (
	"math"
	"slices"
	"strings"

	"github.com/fabrikdev/econdag/pkg/errors"
)

// ProductID identifies a product within a graph. Ids are assigned by the
// graph on insertion and are never reused; deletion leaves gaps.
type ProductID uint64

// Input is one ingredient of a product's recipe: Amount units of the
// product identified by ProductID are consumed per production run.
type Input struct {
	ProductID ProductID `json:"productId" bson:"productId"`
	Amount    float64   `json:"amount" bson:"amount"`
}

// Position is a 3D position written by the layout collaborator.
// The core never assigns positions itself.
type Position struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
	Z float64 `json:"z" bson:"z"`
}

// Product is a recipe vertex in the economy DAG.
//
// Products are created through [Graph.AddProduct] or bulk-loaded through
// [Graph.Load], mutated only through [Graph.UpdateProduct], and destroyed
// through [Graph.DeleteProduct]. Callers receive pointers into the graph and
// must not modify fields directly; Position is the one exception, reserved
// for the layout collaborator.
type Product struct {
	ID        ProductID `json:"id" bson:"id"`
	Name      string    `json:"name" bson:"name"`
	ImagePath string    `json:"imagePath" bson:"imagePath"`
	Inputs    []Input   `json:"inputs" bson:"inputs"`
	Position  *Position `json:"-" bson:"-"`
}

// Validate checks the product record for self-consistency.
//
// The rules are:
//   - Name is non-empty after whitespace trimming (EMPTY_NAME)
//   - every input amount is a finite real > 0 (BAD_INPUT_AMOUNT)
//
// Input ids are structurally non-negative (unsigned); whether they resolve
// to existing products is the graph's concern, not the record's.
func (p *Product) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return errors.New(errors.ErrCodeEmptyName, "product name must not be empty")
	}
	for i, in := range p.Inputs {
		if math.IsNaN(in.Amount) || math.IsInf(in.Amount, 0) || in.Amount <= 0 {
			return errors.New(errors.ErrCodeBadInputAmount,
				"input %d of %q: amount must be a finite positive number, got %v", i, p.Name, in.Amount)
		}
	}
	return nil
}

// IsRawMaterial reports whether the product has no inputs.
// Raw materials sit at depth 0 of the layered projection.
func (p *Product) IsRawMaterial() bool { return len(p.Inputs) == 0 }

// InputIDs returns the product ids referenced by the recipe, in input order.
func (p *Product) InputIDs() []ProductID {
	ids := make([]ProductID, len(p.Inputs))
	for i, in := range p.Inputs {
		ids[i] = in.ProductID
	}
	return ids
}

// DependsOn reports whether id appears in the product's input list.
func (p *Product) DependsOn(id ProductID) bool {
	return slices.ContainsFunc(p.Inputs, func(in Input) bool { return in.ProductID == id })
}

// clone returns a deep copy of the product, detached from the graph.
func (p *Product) clone() *Product {
	cp := *p
	cp.Inputs = slices.Clone(p.Inputs)
	if p.Position != nil {
		pos := *p.Position
		cp.Position = &pos
	}
	return &cp
}
