// Package editor mediates mutations of an economy graph and publishes
// change notifications to subscribers.
//
// Every successful mutation — including bulk operations such as Load,
// ReplaceGraph, and GenerateRandom — notifies all subscribers synchronously,
// in subscription order, with the current graph as argument. Subscribers
// observe the graph only after the mutation has completed and its
// invariants hold.
//
// Subscribers must not mutate the graph from within a callback; re-entrant
// mutation is unsupported and its behavior undefined.
package editor

import (
	"github.com/google/uuid"

	"github.com/fabrikdev/econdag/pkg/economy"
	"github.com/fabrikdev/econdag/pkg/generate"
)

// Subscriber receives the current graph after each successful mutation.
// The graph argument is a read-only view owned by the editor.
type Subscriber func(*economy.Graph)

type subscription struct {
	id uuid.UUID
	fn Subscriber
}

// Editor owns a current economy graph and a set of change subscribers.
// Editor is not safe for concurrent use without external synchronization.
type Editor struct {
	graph *economy.Graph
	subs  []subscription
}

// New creates an editor over an empty graph.
func New() *Editor {
	return &Editor{graph: economy.New()}
}

// Graph returns the current graph. Callers hold a read-only view; all
// mutations go through the editor.
func (e *Editor) Graph() *economy.Graph { return e.graph }

// Subscribe registers fn for change notifications and returns a
// cancellation handle. Notifications are delivered in subscription order.
func (e *Editor) Subscribe(fn Subscriber) (cancel func()) {
	id := uuid.New()
	e.subs = append(e.subs, subscription{id: id, fn: fn})
	return func() {
		for i, s := range e.subs {
			if s.id == id {
				e.subs = append(e.subs[:i], e.subs[i+1:]...)
				return
			}
		}
	}
}

func (e *Editor) notify() {
	for _, s := range e.subs {
		s.fn(e.graph)
	}
}

// AddProduct inserts a new product and notifies subscribers on success.
func (e *Editor) AddProduct(name, imagePath string, inputs []economy.Input) (economy.ProductID, error) {
	id, err := e.graph.AddProduct(name, imagePath, inputs)
	if err != nil {
		return 0, err
	}
	e.notify()
	return id, nil
}

// UpdateProduct replaces a product's definition and notifies subscribers on
// success.
func (e *Editor) UpdateProduct(id economy.ProductID, name, imagePath string, inputs []economy.Input) error {
	if err := e.graph.UpdateProduct(id, name, imagePath, inputs); err != nil {
		return err
	}
	e.notify()
	return nil
}

// DeleteProduct removes a product and notifies subscribers when the graph
// changed. A delete of a missing id returns false without notification.
func (e *Editor) DeleteProduct(id economy.ProductID) (bool, error) {
	deleted, err := e.graph.DeleteProduct(id)
	if err != nil || !deleted {
		return deleted, err
	}
	e.notify()
	return true, nil
}

// SetFuelProduct designates the fuel product and notifies subscribers on
// success.
func (e *Editor) SetFuelProduct(id economy.ProductID) error {
	if err := e.graph.SetFuelProduct(id); err != nil {
		return err
	}
	e.notify()
	return nil
}

// ClearFuelProduct removes the fuel designation and notifies subscribers.
func (e *Editor) ClearFuelProduct() {
	e.graph.ClearFuelProduct()
	e.notify()
}

// Load replaces the graph's contents from a document and notifies
// subscribers on success.
func (e *Editor) Load(doc economy.Document) error {
	if err := e.graph.Load(doc); err != nil {
		return err
	}
	e.notify()
	return nil
}

// ReplaceGraph swaps in a new graph and notifies subscribers.
// The editor takes exclusive ownership of g.
func (e *Editor) ReplaceGraph(g *economy.Graph) {
	e.graph = g
	e.notify()
}

// Clear resets the graph to empty and notifies subscribers.
func (e *Editor) Clear() {
	e.graph.Clear()
	e.notify()
}

// GenerateRandom replaces the current graph with a randomly generated
// economy and notifies subscribers on success.
func (e *Editor) GenerateRandom(gen *generate.Generator, opts generate.Options) error {
	g, err := gen.Generate(opts)
	if err != nil {
		return err
	}
	e.graph = g
	e.notify()
	return nil
}
