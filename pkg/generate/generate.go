// Package generate produces random, depth-stratified economy graphs.
//
// The generator partitions a node budget into depth layers, emits raw
// materials at depth 0 and recipe products at deeper layers, wiring every
// recipe only to products in strictly shallower layers. Because each edge
// points from a shallower to a deeper layer, every produced graph is a
// valid DAG by construction.
//
// Generation degrades gracefully: a slot whose inputs are rejected is
// retried once with half the inputs and then skipped, and a final top-up
// loop fills the budget where layered emission fell short. The final size
// may be below the requested count when constraints make progress
// impossible; that is not an error.
package generate

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/fabrikdev/econdag/pkg/economy"
	"github.com/fabrikdev/econdag/pkg/errors"
)

// Icon is a catalog entry handing out product names and images.
type Icon struct {
	Name string `json:"name" toml:"name"`
	Path string `json:"path" toml:"path"`
}

// placeholderIcon is used when the catalog is empty.
var placeholderIcon = Icon{Name: "Product", Path: ""}

// Options bounds a single generation run.
type Options struct {
	NumNodes  int // target product count, > 0
	MaxDepth  int // deepest layer, >= 0
	MinInputs int // minimum recipe size, >= 0
	MaxInputs int // maximum recipe size, >= MinInputs
}

func (o Options) validate() error {
	if o.NumNodes <= 0 {
		return errors.New(errors.ErrCodeInvalidOptions, "numNodes must be positive, got %d", o.NumNodes)
	}
	if o.MaxDepth < 0 {
		return errors.New(errors.ErrCodeInvalidOptions, "maxDepth must not be negative, got %d", o.MaxDepth)
	}
	if o.MinInputs < 0 || o.MinInputs > o.MaxInputs {
		return errors.New(errors.ErrCodeInvalidOptions,
			"need 0 <= minInputs <= maxInputs, got [%d, %d]", o.MinInputs, o.MaxInputs)
	}
	return nil
}

// Generator builds random economies from an icon catalog.
// The random source is injected so tests and callers can pin outcomes.
type Generator struct {
	catalog []Icon
	rng     *rand.Rand
}

// New creates a generator over the given catalog. A nil rng seeds a PCG
// from the current time.
func New(catalog []Icon, rng *rand.Rand) *Generator {
	if rng == nil {
		seed := uint64(time.Now().UnixNano())
		rng = rand.New(rand.NewPCG(seed, seed^0xdeadbeef))
	}
	return &Generator{catalog: catalog, rng: rng}
}

// Generate builds a new economy graph under the given constraints.
//
// Layer targets: depth 0 receives max(1, numNodes/(maxDepth+1)) raw
// materials; each deeper layer targets max(1, remaining/maxDepth) recipe
// products whose inputs are drawn without replacement from the union of all
// shallower layers. Input counts are uniform in [minInputs, maxInputs],
// amounts uniform in [1.0, 10.0] rounded to one decimal.
func (gen *Generator) Generate(opts Options) (*economy.Graph, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	g := economy.New()
	icons := gen.shuffledCatalog()
	next := 0 // round-robin catalog index

	layers := make([][]economy.ProductID, opts.MaxDepth+1)

	rawTarget := max(1, opts.NumNodes/(opts.MaxDepth+1))
	for range rawTarget {
		if g.Len() >= opts.NumNodes {
			break
		}
		icon := icons[next%len(icons)]
		next++
		id, err := g.AddProduct(icon.Name, icon.Path, nil)
		if err != nil {
			continue
		}
		layers[0] = append(layers[0], id)
	}

	if opts.MaxDepth >= 1 {
		perLayer := max(1, (opts.NumNodes-rawTarget)/opts.MaxDepth)
		for depth := 1; depth <= opts.MaxDepth; depth++ {
			pool := flatten(layers[:depth])
			for range perLayer {
				if g.Len() >= opts.NumNodes {
					break
				}
				icon := icons[next%len(icons)]
				next++
				inputs := gen.pickInputs(pool, opts)
				if id, ok := gen.addWithRetry(g, icon, inputs); ok {
					layers[depth] = append(layers[depth], id)
				}
			}
		}
	}

	gen.topUp(g, layers, icons, &next, opts)
	return g, nil
}

// topUp fills the remaining node budget after layered emission. Each
// iteration targets a random depth; a failed add is retried with the single
// first input and a second failure aborts the loop.
func (gen *Generator) topUp(g *economy.Graph, layers [][]economy.ProductID, icons []Icon, next *int, opts Options) {
	for g.Len() < opts.NumNodes {
		icon := icons[*next%len(icons)]
		*next++

		depth := gen.rng.IntN(opts.MaxDepth + 1)
		var pool []economy.ProductID
		if depth > 0 {
			pool = flatten(layers[:depth])
			if len(pool) == 0 {
				depth = 1
				pool = layers[0]
			}
		}

		if depth == 0 {
			id, err := g.AddProduct(icon.Name, icon.Path, nil)
			if err != nil {
				return
			}
			layers[0] = append(layers[0], id)
			continue
		}

		inputs := gen.pickInputs(pool, opts)
		id, err := g.AddProduct(icon.Name, icon.Path, inputs)
		if err != nil {
			if len(inputs) == 0 {
				return
			}
			id, err = g.AddProduct(icon.Name, icon.Path, inputs[:1])
			if err != nil {
				return
			}
		}
		layers[depth] = append(layers[depth], id)
	}
}

// addWithRetry attempts an add, retrying once with the first half of the
// inputs; a second failure skips the slot.
func (gen *Generator) addWithRetry(g *economy.Graph, icon Icon, inputs []economy.Input) (economy.ProductID, bool) {
	id, err := g.AddProduct(icon.Name, icon.Path, inputs)
	if err == nil {
		return id, true
	}
	id, err = g.AddProduct(icon.Name, icon.Path, inputs[:len(inputs)/2])
	if err != nil {
		return 0, false
	}
	return id, true
}

// pickInputs draws a uniform recipe size in [MinInputs, MaxInputs], capped
// at the pool size, and selects that many distinct products uniformly
// without replacement.
func (gen *Generator) pickInputs(pool []economy.ProductID, opts Options) []economy.Input {
	if len(pool) == 0 {
		return nil
	}
	count := opts.MinInputs + gen.rng.IntN(opts.MaxInputs-opts.MinInputs+1)
	count = min(count, len(pool))
	if count == 0 {
		return nil
	}

	picks := gen.rng.Perm(len(pool))[:count]
	inputs := make([]economy.Input, count)
	for i, idx := range picks {
		inputs[i] = economy.Input{ProductID: pool[idx], Amount: gen.amount()}
	}
	return inputs
}

// amount draws a random amount in [1.0, 10.0] rounded to one decimal.
func (gen *Generator) amount() float64 {
	return math.Round((1.0+gen.rng.Float64()*9.0)*10) / 10
}

// shuffledCatalog returns a shuffled copy of the catalog, substituting the
// placeholder entry when the catalog is empty.
func (gen *Generator) shuffledCatalog() []Icon {
	if len(gen.catalog) == 0 {
		return []Icon{placeholderIcon}
	}
	icons := make([]Icon, len(gen.catalog))
	copy(icons, gen.catalog)
	gen.rng.Shuffle(len(icons), func(i, j int) { icons[i], icons[j] = icons[j], icons[i] })
	return icons
}

func flatten(layers [][]economy.ProductID) []economy.ProductID {
	var out []economy.ProductID
	for _, layer := range layers {
		out = append(out, layer...)
	}
	return out
}
