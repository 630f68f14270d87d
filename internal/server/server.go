// Package server exposes the economy editor, codec, store, and overview
// aggregator over an HTTP API.
//
// All handlers run on a single mutex-guarded editor, matching the core's
// single-threaded cooperative model: no handler observes a partially
// updated graph.
package server

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/fabrikdev/econdag/pkg/economy"
	"github.com/fabrikdev/econdag/pkg/editor"
	"github.com/fabrikdev/econdag/pkg/errors"
	"github.com/fabrikdev/econdag/pkg/generate"
	"github.com/fabrikdev/econdag/pkg/overview"
	"github.com/fabrikdev/econdag/pkg/store"
)

// Server wires the economy core into an HTTP API.
type Server struct {
	mu         sync.Mutex
	editor     *editor.Editor
	aggregator *overview.Aggregator
	catalog    []generate.Icon
	store      store.Store
	logger     *log.Logger
}

// New creates a server around the given editor. The store may be nil, in
// which case the named-economy endpoints report 404.
func New(ed *editor.Editor, st store.Store, catalog []generate.Icon, logger *log.Logger) *Server {
	return &Server{
		editor:     ed,
		aggregator: overview.New(),
		catalog:    catalog,
		store:      st,
		logger:     logger,
	}
}

// Handler builds the chi route tree.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/economy", s.getEconomy)
		r.Put("/economy", s.putEconomy)
		r.Post("/economy/generate", s.generateEconomy)
		r.Get("/economy/products", s.listProducts)
		r.Post("/overview", s.computeOverview)

		r.Route("/economies", func(r chi.Router) {
			r.Get("/", s.listEconomies)
			r.Put("/{name}", s.saveEconomy)
			r.Post("/{name}/load", s.loadEconomy)
			r.Delete("/{name}", s.deleteEconomy)
		})
	})

	return r
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start).Round(time.Millisecond),
		)
	})
}

func (s *Server) getEconomy(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	doc := s.editor.Graph().Serialize()
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, doc)
}

func (s *Server) putEconomy(w http.ResponseWriter, r *http.Request) {
	var doc economy.Document
	if !decodeDocument(w, r, &doc) {
		return
	}
	s.mu.Lock()
	err := s.editor.Load(doc)
	n := s.editor.Graph().Len()
	s.mu.Unlock()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"products": n})
}

type generateRequest struct {
	NumNodes  int    `json:"numNodes"`
	MaxDepth  int    `json:"maxDepth"`
	MinInputs int    `json:"minInputs"`
	MaxInputs int    `json:"maxInputs"`
	Seed      uint64 `json:"seed"`
}

func (s *Server) generateEconomy(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeMalformed, err, "decode generate request"))
		return
	}
	gen := generate.New(s.catalog, rngFromSeed(req.Seed))
	opts := generate.Options{
		NumNodes:  req.NumNodes,
		MaxDepth:  req.MaxDepth,
		MinInputs: req.MinInputs,
		MaxInputs: req.MaxInputs,
	}
	s.mu.Lock()
	err := s.editor.GenerateRandom(gen, opts)
	if err != nil {
		s.mu.Unlock()
		writeError(w, err)
		return
	}
	doc := s.editor.Graph().Serialize()
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, doc)
}

type productView struct {
	economy.Product
	Depth int  `json:"depth"`
	Fuel  bool `json:"fuel"`
}

func (s *Server) listProducts(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	g := s.editor.Graph()
	depths := g.Depths()
	views := make([]productView, 0, g.Len())
	for _, p := range g.Products() {
		views = append(views, productView{Product: *p, Depth: depths[p.ID], Fuel: g.IsFuel(p.ID)})
	}
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, views)
}

// snapshotPayload is a self-contained simulation snapshot submitted by the
// caller. Route length is the waypoint count; fuel cost is per tile.
type snapshotPayload struct {
	Actors          []overview.ActorState `json:"actors"`
	Traders         []overview.Trader     `json:"traders"`
	FuelCostPerTile float64               `json:"fuelCostPerTile"`
}

func (p *snapshotPayload) ActorStates() []overview.ActorState { return p.Actors }
func (p *snapshotPayload) ActiveTraders() []overview.Trader   { return p.Traders }

func (p *snapshotPayload) PathMetrics(path []overview.Waypoint) overview.PathMetrics {
	length := float64(len(path))
	return overview.PathMetrics{RouteLength: length, FuelCost: p.FuelCostPerTile * length}
}

func (s *Server) computeOverview(w http.ResponseWriter, r *http.Request) {
	var snap snapshotPayload
	if err := json.NewDecoder(r.Body).Decode(&snap); err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeMalformed, err, "decode snapshot"))
		return
	}
	s.mu.Lock()
	stats := s.aggregator.Aggregate(&snap, s.editor.Graph())
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) listEconomies(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, errors.New(errors.ErrCodeNotFound, "no economy store configured"))
		return
	}
	names, err := s.store.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if names == nil {
		names = []string{}
	}
	writeJSON(w, http.StatusOK, names)
}

func (s *Server) saveEconomy(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, errors.New(errors.ErrCodeNotFound, "no economy store configured"))
		return
	}
	name := chi.URLParam(r, "name")
	s.mu.Lock()
	doc := s.editor.Graph().Serialize()
	s.mu.Unlock()
	if err := s.store.Save(r.Context(), name, doc); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"saved": name})
}

func (s *Server) loadEconomy(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, errors.New(errors.ErrCodeNotFound, "no economy store configured"))
		return
	}
	name := chi.URLParam(r, "name")
	doc, err := s.store.Load(r.Context(), name)
	if err != nil {
		writeError(w, err)
		return
	}
	s.mu.Lock()
	err = s.editor.Load(doc)
	s.mu.Unlock()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"loaded": name})
}

func (s *Server) deleteEconomy(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, errors.New(errors.ErrCodeNotFound, "no economy store configured"))
		return
	}
	name := chi.URLParam(r, "name")
	if err := s.store.Delete(r.Context(), name); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func decodeDocument(w http.ResponseWriter, r *http.Request, doc *economy.Document) bool {
	defer r.Body.Close()
	data, err := readBody(r)
	if err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeMalformed, err, "read request body"))
		return false
	}
	parsed, err := economy.UnmarshalDocument(data)
	if err != nil {
		writeError(w, err)
		return false
	}
	*doc = parsed
	return true
}

func readBody(r *http.Request) ([]byte, error) {
	const maxBody = 8 << 20
	return readAllLimited(r.Body, maxBody)
}
