package overview

import (
	"math"
	"testing"

	"github.com/fabrikdev/econdag/pkg/economy"
)

// fakeSnapshot is an in-memory Snapshot with a fixed per-tile fuel cost.
type fakeSnapshot struct {
	actors      []ActorState
	traders     []Trader
	fuelPerTile float64
}

func (s *fakeSnapshot) ActorStates() []ActorState { return s.actors }
func (s *fakeSnapshot) ActiveTraders() []Trader   { return s.traders }
func (s *fakeSnapshot) PathMetrics(path []Waypoint) PathMetrics {
	length := float64(len(path))
	return PathMetrics{RouteLength: length, FuelCost: s.fuelPerTile * length}
}

func pid(id economy.ProductID) *economy.ProductID { return &id }

func floatPtr(v float64) *float64 { return &v }

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func testGraph(t *testing.T) (*economy.Graph, economy.ProductID, economy.ProductID) {
	t.Helper()
	g := economy.New()
	ore, err := g.AddProduct("Ore", "", nil)
	if err != nil {
		t.Fatalf("add Ore: %v", err)
	}
	iron, err := g.AddProduct("Iron", "", []economy.Input{{ProductID: ore, Amount: 2}})
	if err != nil {
		t.Fatalf("add Iron: %v", err)
	}
	return g, ore, iron
}

func TestAggregateClassification(t *testing.T) {
	g, _, iron := testGraph(t)

	snap := &fakeSnapshot{actors: []ActorState{
		{
			Kind:      ActorProducer,
			ProductID: pid(iron),
			Status:    StatusIdle,
			OutputStorage: map[economy.ProductID]StorageSlot{
				iron: {Current: 100, Capacity: 100},
			},
		},
		{
			Kind:      ActorProducer,
			ProductID: pid(iron),
			Status:    StatusProducing,
			OutputStorage: map[economy.ProductID]StorageSlot{
				iron: {Current: 50, Capacity: 100},
			},
		},
		{
			Kind:      ActorProducer,
			ProductID: pid(iron),
			Status:    StatusMissingInputs,
		},
	}}

	result := New().Aggregate(snap, g)
	stats, ok := result[iron]
	if !ok {
		t.Fatal("no stats for iron")
	}

	if stats.FactoryCount != 3 {
		t.Errorf("FactoryCount = %d, want 3", stats.FactoryCount)
	}
	want := StatusCounts{Producing: 1, OutputFull: 1, MissingInputs: 1}
	if stats.StatusCounts != want {
		t.Errorf("StatusCounts = %+v, want %+v", stats.StatusCounts, want)
	}
	// (1.0 + 0.5 + 0) / 3 — the third actor has no output slot.
	if !approx(stats.AvgOutputFillPct, 0.5) {
		t.Errorf("AvgOutputFillPct = %v, want 0.5", stats.AvgOutputFillPct)
	}
}

func TestClassifyPrecedence(t *testing.T) {
	tests := []struct {
		name  string
		actor ActorState
		want  StatusCounts
	}{
		{
			// current ≥ capacity beats the reported producing status.
			"FullBeatsProducing",
			ActorState{
				Status: StatusProducing,
				OutputStorage: map[economy.ProductID]StorageSlot{
					1: {Current: 10, Capacity: 10},
				},
			},
			StatusCounts{OutputFull: 1},
		},
		{
			// idealMax exceeded beats the reported status too.
			"SurplusBeatsProducing",
			ActorState{
				Status: StatusProducing,
				OutputStorage: map[economy.ProductID]StorageSlot{
					1: {Current: 8, Capacity: 10, IdealMax: floatPtr(5)},
				},
			},
			StatusCounts{OutputSurplus: 1},
		},
		{
			"ProducingBelowIdealMax",
			ActorState{
				Status: StatusProducing,
				OutputStorage: map[economy.ProductID]StorageSlot{
					1: {Current: 3, Capacity: 10, IdealMax: floatPtr(5)},
				},
			},
			StatusCounts{Producing: 1},
		},
		{
			"UnknownStatusIsIdle",
			ActorState{Status: "repairing"},
			StatusCounts{Idle: 1},
		},
		{
			// Zero capacity can never be full.
			"ZeroCapacityNotFull",
			ActorState{
				Status: StatusIdle,
				OutputStorage: map[economy.ProductID]StorageSlot{
					1: {Current: 5, Capacity: 0},
				},
			},
			StatusCounts{Idle: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var counts StatusCounts
			classify(&counts, &tt.actor, 1)
			if counts != tt.want {
				t.Errorf("counts = %+v, want %+v", counts, tt.want)
			}
		})
	}
}

func TestAggregateFilters(t *testing.T) {
	g, _, iron := testGraph(t)
	gone := economy.ProductID(99)

	snap := &fakeSnapshot{actors: []ActorState{
		{Kind: ActorProducer, ProductID: pid(iron), Status: StatusProducing},
		{Kind: ActorKind("TRADER"), ProductID: pid(iron), Status: StatusProducing},
		{Kind: ActorProducer, ProductID: nil, Status: StatusProducing},
		{Kind: ActorProducer, ProductID: pid(gone), Status: StatusProducing},
	}}

	result := New().Aggregate(snap, g)
	if len(result) != 1 {
		t.Fatalf("got %d product groups, want 1", len(result))
	}
	if result[iron].FactoryCount != 1 {
		t.Errorf("FactoryCount = %d, want 1", result[iron].FactoryCount)
	}
}

func TestAggregateInputFills(t *testing.T) {
	g, ore, iron := testGraph(t)

	snap := &fakeSnapshot{actors: []ActorState{
		{
			Kind:      ActorProducer,
			ProductID: pid(iron),
			Status:    StatusProducing,
			InputStorage: map[economy.ProductID]StorageSlot{
				ore: {Current: 20, Capacity: 100},
			},
		},
		{
			Kind:      ActorProducer,
			ProductID: pid(iron),
			Status:    StatusProducing,
			InputStorage: map[economy.ProductID]StorageSlot{
				ore: {Current: 60, Capacity: 100},
			},
		},
		{
			// Zero-capacity slot is skipped, not counted as 0.
			Kind:      ActorProducer,
			ProductID: pid(iron),
			Status:    StatusProducing,
			InputStorage: map[economy.ProductID]StorageSlot{
				ore: {Current: 0, Capacity: 0},
			},
		},
	}}

	stats := New().Aggregate(snap, g)[iron]

	detail, ok := stats.InputDetails[ore]
	if !ok {
		t.Fatal("no input detail for ore")
	}
	if detail.Name != "Ore" {
		t.Errorf("input name = %q, want Ore", detail.Name)
	}
	if !approx(detail.AvgFillPct, 0.4) {
		t.Errorf("AvgFillPct = %v, want 0.4", detail.AvgFillPct)
	}
	if !approx(stats.AvgInputFillPct, 0.4) {
		t.Errorf("AvgInputFillPct = %v, want 0.4", stats.AvgInputFillPct)
	}
}

func TestAggregatePricesAndUptime(t *testing.T) {
	g, _, iron := testGraph(t)

	snap := &fakeSnapshot{actors: []ActorState{
		{
			Kind:           ActorProducer,
			ProductID:      pid(iron),
			Status:         StatusProducing,
			SellPrices:     map[economy.ProductID]float64{iron: 10},
			ObservedTicks:  100,
			ProducingTicks: 80,
		},
		{
			Kind:           ActorProducer,
			ProductID:      pid(iron),
			Status:         StatusProducing,
			SellPrices:     map[economy.ProductID]float64{iron: 20},
			ObservedTicks:  0, // no observations contribute 0 uptime
			ProducingTicks: 50,
		},
	}}

	stats := New().Aggregate(snap, g)[iron]

	if !approx(stats.AvgSellPrice, 15) {
		t.Errorf("AvgSellPrice = %v, want 15", stats.AvgSellPrice)
	}
	if !approx(stats.AvgUptimePct, 0.4) {
		t.Errorf("AvgUptimePct = %v, want 0.4", stats.AvgUptimePct)
	}
}

func TestAggregateTransport(t *testing.T) {
	g, _, iron := testGraph(t)

	path := func(n int) []Waypoint {
		p := make([]Waypoint, n)
		for i := range p {
			p[i] = Waypoint{X: i}
		}
		return p
	}

	snap := &fakeSnapshot{
		actors: []ActorState{
			{Kind: ActorProducer, ProductID: pid(iron), Status: StatusProducing},
		},
		traders: []Trader{
			{ProductID: iron, Path: path(4)},
			{ProductID: iron, Path: path(6)},
			{ProductID: 42, Path: path(100)}, // other product, excluded
		},
		fuelPerTile: 0.5,
	}

	stats := New().Aggregate(snap, g)[iron]

	if stats.TransportCount != 2 {
		t.Errorf("TransportCount = %d, want 2", stats.TransportCount)
	}
	if !approx(stats.AvgRouteLength, 5) {
		t.Errorf("AvgRouteLength = %v, want 5", stats.AvgRouteLength)
	}
	if !approx(stats.AvgFuelCost, 0.5) {
		t.Errorf("AvgFuelCost = %v, want 0.5", stats.AvgFuelCost)
	}
	if !approx(stats.AvgTransportCost, 2.5) {
		t.Errorf("AvgTransportCost = %v, want 2.5", stats.AvgTransportCost)
	}
}

func TestAggregateNoTraders(t *testing.T) {
	g, _, iron := testGraph(t)

	snap := &fakeSnapshot{actors: []ActorState{
		{Kind: ActorProducer, ProductID: pid(iron), Status: StatusProducing},
	}}

	stats := New().Aggregate(snap, g)[iron]
	if stats.TransportCount != 0 || stats.AvgRouteLength != 0 ||
		stats.AvgFuelCost != 0 || stats.AvgTransportCost != 0 {
		t.Errorf("transport figures not zero without traders: %+v", stats)
	}
}

func TestLatest(t *testing.T) {
	g, _, iron := testGraph(t)
	a := New()

	if len(a.Latest()) != 0 {
		t.Error("fresh aggregator has non-empty result")
	}

	snap := &fakeSnapshot{actors: []ActorState{
		{Kind: ActorProducer, ProductID: pid(iron), Status: StatusProducing},
	}}
	a.Aggregate(snap, g)

	if _, ok := a.Latest()[iron]; !ok {
		t.Error("Latest missing aggregated product")
	}
}
