package economy

import (
	"slices"

	"github.com/fabrikdev/econdag/pkg/errors"
)

// Graph is the economy DAG aggregate root: an ordered map of products with a
// monotonic id counter and an optional distinguished fuel product.
//
// The following invariants hold after every public operation:
//
//  1. Every input of every product resolves to a product in the graph.
//  2. The directed graph with edges input → consumer is acyclic.
//  3. No product lists itself as an input.
//  4. The fuel product, when set, exists in the graph.
//  5. The id counter is strictly greater than every existing id.
//
// Mutations that would violate an invariant fail with a coded error and
// leave the graph in its pre-call state. Graph is not safe for concurrent
// use without external synchronization.
type Graph struct {
	nodes     map[ProductID]*Product
	order     []ProductID               // insertion order of live ids
	consumers map[ProductID][]ProductID // input id -> ids of products consuming it
	nextID    ProductID
	fuelID    ProductID
	hasFuel   bool
}

// New creates an empty economy graph with the id counter at zero.
func New() *Graph {
	return &Graph{
		nodes:     make(map[ProductID]*Product),
		consumers: make(map[ProductID][]ProductID),
	}
}

// Len returns the number of products in the graph.
func (g *Graph) Len() int { return len(g.nodes) }

// NextID returns the id the next inserted product will receive.
func (g *Graph) NextID() ProductID { return g.nextID }

// Product returns the product with the given id and true, or nil and false
// if not found. The returned pointer refers to the product owned by the
// graph; callers must treat it as read-only (Position excepted).
func (g *Graph) Product(id ProductID) (*Product, bool) {
	p, ok := g.nodes[id]
	return p, ok
}

// Products returns all products in insertion order.
func (g *Graph) Products() []*Product {
	out := make([]*Product, len(g.order))
	for i, id := range g.order {
		out[i] = g.nodes[id]
	}
	return out
}

// Consumers returns the ids of products that list id as an input.
// The returned slice is a read-only view into the graph's index.
func (g *Graph) Consumers(id ProductID) []ProductID { return g.consumers[id] }

// AddProduct inserts a new product and returns its assigned id.
//
// All referenced input ids must already exist (UNKNOWN_INPUT), the record
// must validate (EMPTY_NAME, BAD_INPUT_AMOUNT), and the insertion must not
// close a cycle (CYCLE). A fresh id has no incoming edges, so a cycle can
// only arise through a caller wiring inputs that already form a back edge;
// the whole-graph check covers that case too.
func (g *Graph) AddProduct(name, imagePath string, inputs []Input) (ProductID, error) {
	p := &Product{
		ID:        g.nextID,
		Name:      name,
		ImagePath: imagePath,
		Inputs:    slices.Clone(inputs),
	}
	if err := p.Validate(); err != nil {
		return 0, err
	}
	for _, in := range p.Inputs {
		if _, ok := g.nodes[in.ProductID]; !ok {
			return 0, errors.New(errors.ErrCodeUnknownInput, "input %d does not exist", in.ProductID)
		}
	}

	g.insert(p)
	if g.hasCycle() {
		g.remove(p.ID)
		return 0, errors.New(errors.ErrCodeCycle, "adding %q would create a cycle", name)
	}
	g.nextID++
	return p.ID, nil
}

// UpdateProduct replaces the name, image path, and inputs of an existing
// product.
//
// The update is transactional: inputs are swapped in speculatively, and if
// the cycle check fails the previous inputs are restored before CYCLE is
// returned. Self-references are rejected up front (SELF_LOOP). Unknown ids
// fail with UNKNOWN_NODE (the product) or UNKNOWN_INPUT (an input).
func (g *Graph) UpdateProduct(id ProductID, name, imagePath string, inputs []Input) error {
	p, ok := g.nodes[id]
	if !ok {
		return errors.New(errors.ErrCodeUnknownNode, "product %d does not exist", id)
	}
	next := &Product{ID: id, Name: name, ImagePath: imagePath, Inputs: slices.Clone(inputs)}
	if err := next.Validate(); err != nil {
		return err
	}
	for _, in := range next.Inputs {
		if in.ProductID == id {
			return errors.New(errors.ErrCodeSelfLoop, "product %d cannot consume itself", id)
		}
		if _, ok := g.nodes[in.ProductID]; !ok {
			return errors.New(errors.ErrCodeUnknownInput, "input %d does not exist", in.ProductID)
		}
	}

	prev := p.Inputs
	g.setInputs(p, next.Inputs)
	if g.hasCycle() {
		g.setInputs(p, prev)
		return errors.New(errors.ErrCodeCycle, "updating product %d would create a cycle", id)
	}
	p.Name = name
	p.ImagePath = imagePath
	return nil
}

// DeleteProduct removes the product with the given id.
//
// Returns false (and no error) if the id does not exist. Fails with
// HAS_DEPENDENTS if any other product lists id as an input. Deleting the
// fuel product clears the fuel designation so it never dangles.
func (g *Graph) DeleteProduct(id ProductID) (bool, error) {
	if _, ok := g.nodes[id]; !ok {
		return false, nil
	}
	if deps := g.consumers[id]; len(deps) > 0 {
		return false, errors.New(errors.ErrCodeHasDependents,
			"product %d is an input of %d other product(s)", id, len(deps))
	}
	g.remove(id)
	if g.hasFuel && g.fuelID == id {
		g.hasFuel = false
	}
	return true, nil
}

// SetFuelProduct designates the product used for transport-cost
// calculations. Fails with UNKNOWN_NODE if the id is absent.
func (g *Graph) SetFuelProduct(id ProductID) error {
	if _, ok := g.nodes[id]; !ok {
		return errors.New(errors.ErrCodeUnknownNode, "product %d does not exist", id)
	}
	g.fuelID = id
	g.hasFuel = true
	return nil
}

// ClearFuelProduct removes the fuel designation. Always succeeds.
func (g *Graph) ClearFuelProduct() {
	g.hasFuel = false
	g.fuelID = 0
}

// FuelProduct returns the fuel product id and true, or zero and false when
// no fuel product is set.
func (g *Graph) FuelProduct() (ProductID, bool) { return g.fuelID, g.hasFuel }

// IsFuel reports whether id is the designated fuel product.
func (g *Graph) IsFuel(id ProductID) bool { return g.hasFuel && g.fuelID == id }

// Clear resets the graph to empty, including the id counter and fuel
// designation.
func (g *Graph) Clear() {
	g.nodes = make(map[ProductID]*Product)
	g.order = g.order[:0]
	g.consumers = make(map[ProductID][]ProductID)
	g.nextID = 0
	g.hasFuel = false
	g.fuelID = 0
}

// TopologicalSort returns every product id in dependency order using Kahn's
// algorithm: inputs always precede their consumers. Zero-in-degree products
// are seeded in insertion order, making the result deterministic for a given
// mutation history.
func (g *Graph) TopologicalSort() []ProductID {
	inDegree := make(map[ProductID]int, len(g.nodes))
	queue := make([]ProductID, 0, len(g.nodes))
	for _, id := range g.order {
		degree := len(g.nodes[id].Inputs)
		inDegree[id] = degree
		if degree == 0 {
			queue = append(queue, id)
		}
	}

	sorted := make([]ProductID, 0, len(g.nodes))
	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]
		sorted = append(sorted, curr)

		for _, consumer := range g.consumers[curr] {
			inDegree[consumer]--
			if inDegree[consumer] == 0 {
				queue = append(queue, consumer)
			}
		}
	}
	return sorted
}

// Depths returns the depth of every product: 0 for raw materials, otherwise
// one plus the maximum depth of the inputs. Computed by memoized recursion;
// the result contains every product in the graph.
func (g *Graph) Depths() map[ProductID]int {
	depths := make(map[ProductID]int, len(g.nodes))

	var depthOf func(id ProductID) int
	depthOf = func(id ProductID) int {
		if d, ok := depths[id]; ok {
			return d
		}
		d := 0
		for _, in := range g.nodes[id].Inputs {
			if cand := depthOf(in.ProductID) + 1; cand > d {
				d = cand
			}
		}
		depths[id] = d
		return d
	}

	for _, id := range g.order {
		depthOf(id)
	}
	return depths
}

// MaxDepth returns the highest depth in the graph, or -1 when empty.
func (g *Graph) MaxDepth() int {
	maxDepth := -1
	for _, d := range g.Depths() {
		if d > maxDepth {
			maxDepth = d
		}
	}
	return maxDepth
}

// insert places a product into the node map, order slice and consumer index.
// The caller is responsible for cycle checking and counter advancement.
func (g *Graph) insert(p *Product) {
	g.nodes[p.ID] = p
	g.order = append(g.order, p.ID)
	for _, in := range p.Inputs {
		g.consumers[in.ProductID] = append(g.consumers[in.ProductID], p.ID)
	}
}

// remove deletes a product from all indices. Consumers of the removed
// product keep their entries; callers guard against dangling references.
func (g *Graph) remove(id ProductID) {
	p := g.nodes[id]
	for _, in := range p.Inputs {
		g.consumers[in.ProductID] = slices.DeleteFunc(g.consumers[in.ProductID],
			func(c ProductID) bool { return c == id })
		if len(g.consumers[in.ProductID]) == 0 {
			delete(g.consumers, in.ProductID)
		}
	}
	delete(g.consumers, id)
	delete(g.nodes, id)
	g.order = slices.DeleteFunc(g.order, func(o ProductID) bool { return o == id })
}

// setInputs swaps a product's input list and rebuilds its consumer index
// entries. Used for speculative mutation during UpdateProduct.
func (g *Graph) setInputs(p *Product, inputs []Input) {
	for _, in := range p.Inputs {
		g.consumers[in.ProductID] = slices.DeleteFunc(g.consumers[in.ProductID],
			func(c ProductID) bool { return c == p.ID })
		if len(g.consumers[in.ProductID]) == 0 {
			delete(g.consumers, in.ProductID)
		}
	}
	p.Inputs = inputs
	for _, in := range p.Inputs {
		g.consumers[in.ProductID] = append(g.consumers[in.ProductID], p.ID)
	}
}

// hasCycle runs a whole-graph depth-first search with white/gray/black
// coloring over the input → consumer edges. A gray re-encounter means a
// node is on the current recursion stack, i.e. a cycle.
func (g *Graph) hasCycle() bool {
	const (
		white = iota
		gray
		black
	)

	color := make(map[ProductID]int, len(g.nodes))
	var found bool

	var dfs func(id ProductID)
	dfs = func(id ProductID) {
		color[id] = gray
		for _, consumer := range g.consumers[id] {
			switch color[consumer] {
			case white:
				dfs(consumer)
			case gray:
				found = true
				return
			}
		}
		color[id] = black
	}

	for _, id := range g.order {
		if color[id] == white {
			dfs(id)
			if found {
				return true
			}
		}
	}
	return false
}
