package editor

import (
	"math/rand/v2"
	"testing"

	"github.com/fabrikdev/econdag/pkg/economy"
	"github.com/fabrikdev/econdag/pkg/errors"
	"github.com/fabrikdev/econdag/pkg/generate"
)

func TestNotifyOnMutation(t *testing.T) {
	e := New()
	calls := 0
	e.Subscribe(func(g *economy.Graph) { calls++ })

	ore, err := e.AddProduct("Ore", "", nil)
	if err != nil {
		t.Fatalf("AddProduct: %v", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d after add, want 1", calls)
	}

	if err := e.UpdateProduct(ore, "Iron Ore", "", nil); err != nil {
		t.Fatalf("UpdateProduct: %v", err)
	}
	if err := e.SetFuelProduct(ore); err != nil {
		t.Fatalf("SetFuelProduct: %v", err)
	}
	e.ClearFuelProduct()
	if ok, err := e.DeleteProduct(ore); !ok || err != nil {
		t.Fatalf("DeleteProduct = (%v, %v)", ok, err)
	}
	e.Clear()

	if calls != 6 {
		t.Errorf("calls = %d, want 6", calls)
	}
}

func TestNoNotifyOnFailure(t *testing.T) {
	e := New()
	calls := 0
	e.Subscribe(func(g *economy.Graph) { calls++ })

	if _, err := e.AddProduct("", "", nil); !errors.Is(err, errors.ErrCodeEmptyName) {
		t.Fatalf("err = %v, want EMPTY_NAME", err)
	}
	if err := e.UpdateProduct(99, "X", "", nil); !errors.Is(err, errors.ErrCodeUnknownNode) {
		t.Fatalf("err = %v, want UNKNOWN_NODE", err)
	}
	if err := e.SetFuelProduct(99); !errors.Is(err, errors.ErrCodeUnknownNode) {
		t.Fatalf("err = %v, want UNKNOWN_NODE", err)
	}

	// Deleting a missing id is a no-op, not a change.
	if ok, err := e.DeleteProduct(99); ok || err != nil {
		t.Fatalf("delete missing = (%v, %v)", ok, err)
	}

	if calls != 0 {
		t.Errorf("calls = %d after failed mutations, want 0", calls)
	}
}

func TestSubscriptionOrder(t *testing.T) {
	e := New()
	var order []string
	e.Subscribe(func(g *economy.Graph) { order = append(order, "first") })
	e.Subscribe(func(g *economy.Graph) { order = append(order, "second") })

	if _, err := e.AddProduct("Ore", "", nil); err != nil {
		t.Fatalf("AddProduct: %v", err)
	}

	if len(order) != 2 || order[0] != "first" || order[1] != "second" {
		t.Errorf("order = %v, want [first second]", order)
	}
}

func TestCancelSubscription(t *testing.T) {
	e := New()
	calls := 0
	cancel := e.Subscribe(func(g *economy.Graph) { calls++ })

	if _, err := e.AddProduct("Ore", "", nil); err != nil {
		t.Fatalf("AddProduct: %v", err)
	}
	cancel()
	if _, err := e.AddProduct("Coal", "", nil); err != nil {
		t.Fatalf("AddProduct: %v", err)
	}

	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}

	// Cancelling twice is harmless.
	cancel()
}

func TestSubscriberSeesCompletedMutation(t *testing.T) {
	e := New()
	var seen int
	e.Subscribe(func(g *economy.Graph) { seen = g.Len() })

	if _, err := e.AddProduct("Ore", "", nil); err != nil {
		t.Fatalf("AddProduct: %v", err)
	}
	if seen != 1 {
		t.Errorf("subscriber saw %d products, want 1", seen)
	}
}

func TestLoad(t *testing.T) {
	e := New()
	calls := 0
	e.Subscribe(func(g *economy.Graph) { calls++ })

	doc := economy.Document{
		Version:    economy.DocumentVersion,
		Nodes:      []economy.Product{{ID: 0, Name: "Ore"}},
		NextNodeID: 1,
	}
	if err := e.Load(doc); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if e.Graph().Len() != 1 {
		t.Errorf("len = %d after load, want 1", e.Graph().Len())
	}

	if err := e.Load(economy.Document{Version: 1}); !errors.Is(err, errors.ErrCodeUnsupportedVersion) {
		t.Fatalf("err = %v, want UNSUPPORTED_VERSION", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestGenerateRandom(t *testing.T) {
	e := New()
	calls := 0
	e.Subscribe(func(g *economy.Graph) { calls++ })

	rng := rand.New(rand.NewPCG(1, 2))
	gen := generate.New(nil, rng)

	err := e.GenerateRandom(gen, generate.Options{NumNodes: 10, MaxDepth: 2, MinInputs: 1, MaxInputs: 2})
	if err != nil {
		t.Fatalf("GenerateRandom: %v", err)
	}
	if e.Graph().Len() == 0 {
		t.Error("graph empty after generation")
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}

	// Invalid options leave the current graph in place.
	before := e.Graph()
	err = e.GenerateRandom(gen, generate.Options{NumNodes: 0})
	if !errors.Is(err, errors.ErrCodeInvalidOptions) {
		t.Fatalf("err = %v, want INVALID_OPTIONS", err)
	}
	if e.Graph() != before {
		t.Error("graph replaced after failed generation")
	}
	if calls != 1 {
		t.Errorf("calls = %d after failed generation, want 1", calls)
	}
}

func TestReplaceGraph(t *testing.T) {
	e := New()
	calls := 0
	e.Subscribe(func(g *economy.Graph) { calls++ })

	g := economy.New()
	if _, err := g.AddProduct("Ore", "", nil); err != nil {
		t.Fatalf("AddProduct: %v", err)
	}
	e.ReplaceGraph(g)

	if e.Graph() != g {
		t.Error("editor did not take ownership of the new graph")
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}
