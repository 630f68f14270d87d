// Package overview aggregates live simulation telemetry per product type.
//
// The aggregator consumes a snapshot of actor states and active traders from
// the simulation, groups producer actors by the product they make, and
// computes per-product statistics: status classification (with storage-derived
// states), storage fills, sell prices, uptime, and transport costs.
//
// The simulation itself is a consumed collaborator — the snapshot types here
// mirror its shapes but define no behavior.
package overview

import (
	"github.com/fabrikdev/econdag/pkg/economy"
)

// ActorKind classifies simulation actors. Only producers contribute to the
// overview.
type ActorKind string

// ActorProducer marks actors that manufacture a product.
const ActorProducer ActorKind = "PRODUCER"

// Status values reported by producer actors. The set is open: unknown
// statuses fold into the idle bucket.
const (
	StatusProducing     = "producing"
	StatusMissingInputs = "missing_inputs"
	StatusIdle          = "idle"
)

// StorageSlot is one product's storage in an actor: the current amount, the
// hard capacity, and an optional ideal maximum above which stock counts as
// surplus.
type StorageSlot struct {
	Current  float64  `json:"current"`
	Capacity float64  `json:"capacity"`
	IdealMax *float64 `json:"idealMax,omitempty"`
}

// fill returns current/capacity, or 0 for an empty or absent capacity.
func (s StorageSlot) fill() float64 {
	if s.Capacity <= 0 {
		return 0
	}
	return s.Current / s.Capacity
}

// ActorState is one actor's telemetry at snapshot time.
type ActorState struct {
	Kind           ActorKind                         `json:"kind"`
	ProductID      *economy.ProductID                `json:"productId"`
	Status         string                            `json:"status"`
	OutputStorage  map[economy.ProductID]StorageSlot `json:"outputStorage"`
	InputStorage   map[economy.ProductID]StorageSlot `json:"inputStorage"`
	ObservedTicks  int64                             `json:"observedTicks"`
	ProducingTicks int64                             `json:"producingTicks"`
	SellPrices     map[economy.ProductID]float64     `json:"sellPrices"`
}

// sellPrice returns the actor's sell price for the product, or 0 when the
// actor reports none.
func (a *ActorState) sellPrice(id economy.ProductID) float64 {
	return a.SellPrices[id]
}

// Waypoint is one tile of a trader's route.
type Waypoint struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Trader is an active transport moving one product along a path.
type Trader struct {
	ProductID economy.ProductID `json:"productId"`
	Path      []Waypoint        `json:"path"`
}

// PathMetrics carries the cost figures of a single route. FuelCost is the
// total fuel cost of the route, i.e. per-tile cost times route length.
type PathMetrics struct {
	RouteLength float64 `json:"routeLength"`
	FuelCost    float64 `json:"fuelCost"`
}

// Snapshot is the read-only view the simulation exposes per aggregation
// call.
type Snapshot interface {
	// ActorStates returns the state of every actor.
	ActorStates() []ActorState
	// ActiveTraders returns every trader currently moving goods.
	ActiveTraders() []Trader
	// PathMetrics returns the metrics of a trader's route.
	PathMetrics(path []Waypoint) PathMetrics
}

// StatusCounts buckets a product's producers by effective status. The
// output_full and output_surplus states are derived from storage levels and
// take precedence over the actor's reported status.
type StatusCounts struct {
	Producing     int `json:"producing"`
	Idle          int `json:"idle"`
	OutputFull    int `json:"output_full"`
	OutputSurplus int `json:"output_surplus"`
	MissingInputs int `json:"missing_inputs"`
}

// InputDetail is the per-input fill breakdown of a product's recipe.
type InputDetail struct {
	Name       string  `json:"name"`
	AvgFillPct float64 `json:"avgFillPct"`
}

// Stats is the aggregated record for one product type. Fill and uptime
// figures are ratios in [0, 1]; divisions by zero yield 0 throughout.
type Stats struct {
	FactoryCount     int                               `json:"factoryCount"`
	AvgInputFillPct  float64                           `json:"avgInputFillPct"`
	AvgOutputFillPct float64                           `json:"avgOutputFillPct"`
	AvgSellPrice     float64                           `json:"avgSellPrice"`
	AvgUptimePct     float64                           `json:"avgUptimePct"`
	TransportCount   int                               `json:"transportCount"`
	AvgRouteLength   float64                           `json:"avgRouteLength"`
	AvgTransportCost float64                           `json:"avgTransportCost"`
	AvgFuelCost      float64                           `json:"avgFuelCost"`
	StatusCounts     StatusCounts                      `json:"statusCounts"`
	InputDetails     map[economy.ProductID]InputDetail `json:"inputDetails"`
}

// Aggregator computes per-product statistics from simulation snapshots.
// It is stateless between calls beyond retaining the latest result.
type Aggregator struct {
	latest map[economy.ProductID]Stats
}

// New creates an aggregator with an empty result.
func New() *Aggregator {
	return &Aggregator{latest: make(map[economy.ProductID]Stats)}
}

// Latest returns the result of the most recent Aggregate call.
func (a *Aggregator) Latest() map[economy.ProductID]Stats { return a.latest }

// Aggregate computes fresh per-product statistics from the snapshot against
// the given graph, replacing and returning the latest result.
//
// Only actors of kind PRODUCER with a product id are considered, and only
// groups whose product still exists in the graph are reported.
func (a *Aggregator) Aggregate(snap Snapshot, g *economy.Graph) map[economy.ProductID]Stats {
	groups := make(map[economy.ProductID][]ActorState)
	for _, state := range snap.ActorStates() {
		if state.Kind != ActorProducer || state.ProductID == nil {
			continue
		}
		groups[*state.ProductID] = append(groups[*state.ProductID], state)
	}

	traders := snap.ActiveTraders()

	result := make(map[economy.ProductID]Stats, len(groups))
	for productID, actors := range groups {
		product, ok := g.Product(productID)
		if !ok {
			continue
		}
		stats := aggregateGroup(g, productID, product, actors)
		applyTransport(&stats, productID, traders, snap)
		result[productID] = stats
	}

	a.latest = result
	return result
}

// aggregateGroup computes the storage, price, uptime, and status figures of
// one product group.
func aggregateGroup(g *economy.Graph, productID economy.ProductID, product *economy.Product, actors []ActorState) Stats {
	stats := Stats{
		FactoryCount: len(actors),
		InputDetails: make(map[economy.ProductID]InputDetail, len(product.Inputs)),
	}

	var outputFillSum, priceSum, uptimeSum float64
	for i := range actors {
		actor := &actors[i]
		classify(&stats.StatusCounts, actor, productID)

		if slot, ok := actor.OutputStorage[productID]; ok {
			outputFillSum += slot.fill()
		}
		priceSum += actor.sellPrice(productID)
		if actor.ObservedTicks > 0 {
			uptimeSum += float64(actor.ProducingTicks) / float64(actor.ObservedTicks)
		}
	}
	stats.AvgOutputFillPct = mean(outputFillSum, len(actors))
	stats.AvgSellPrice = mean(priceSum, len(actors))
	stats.AvgUptimePct = mean(uptimeSum, len(actors))

	var allFillSum float64
	var allFillCount int
	for _, in := range product.Inputs {
		var fillSum float64
		var fillCount int
		for i := range actors {
			slot, ok := actors[i].InputStorage[in.ProductID]
			if !ok || slot.Capacity <= 0 {
				continue // absent or zero-capacity slots are skipped
			}
			fillSum += slot.fill()
			fillCount++
		}
		allFillSum += fillSum
		allFillCount += fillCount

		detail := InputDetail{AvgFillPct: mean(fillSum, fillCount)}
		if inputProduct, ok := g.Product(in.ProductID); ok {
			detail.Name = inputProduct.Name
		}
		stats.InputDetails[in.ProductID] = detail
	}
	stats.AvgInputFillPct = mean(allFillSum, allFillCount)

	return stats
}

// classify assigns an actor to exactly one status bucket; first match wins.
func classify(counts *StatusCounts, actor *ActorState, productID economy.ProductID) {
	slot, hasSlot := actor.OutputStorage[productID]
	switch {
	case hasSlot && slot.Capacity > 0 && slot.Current >= slot.Capacity:
		counts.OutputFull++
	case hasSlot && slot.IdealMax != nil && slot.Current > *slot.IdealMax:
		counts.OutputSurplus++
	case actor.Status == StatusProducing:
		counts.Producing++
	case actor.Status == StatusMissingInputs:
		counts.MissingInputs++
	default:
		counts.Idle++
	}
}

// applyTransport fills in the trader-based transport figures for one group.
func applyTransport(stats *Stats, productID economy.ProductID, traders []Trader, snap Snapshot) {
	var totalRoute, totalFuel float64
	for _, t := range traders {
		if t.ProductID != productID {
			continue
		}
		metrics := snap.PathMetrics(t.Path)
		totalRoute += metrics.RouteLength
		totalFuel += metrics.FuelCost
		stats.TransportCount++
	}

	stats.AvgRouteLength = mean(totalRoute, stats.TransportCount)
	if totalRoute > 0 {
		stats.AvgFuelCost = totalFuel / totalRoute // fuel cost per tile
	}
	stats.AvgTransportCost = stats.AvgFuelCost * stats.AvgRouteLength
}

func mean(sum float64, n int) float64 {
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}
