package economy

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/fabrikdev/econdag/pkg/errors"
)

// DocumentVersion is the single supported version of the economy document
// format. Documents carrying any other version are rejected on load.
const DocumentVersion = 2

// Document is the versioned wire representation of an economy graph:
//
//	{
//	  "version": 2,
//	  "nodes": [{"id": 0, "name": "Ore", "imagePath": "", "inputs": []}, ...],
//	  "nextNodeId": 1,
//	  "fuelProductId": null
//	}
//
// The codec is a pure function over bytes; transport (HTTP, filesystem,
// stores) lives in the fetch and store packages.
type Document struct {
	Version       int        `json:"version" bson:"version"`
	Nodes         []Product  `json:"nodes" bson:"nodes"`
	NextNodeID    ProductID  `json:"nextNodeId" bson:"nextNodeId"`
	FuelProductID *ProductID `json:"fuelProductId" bson:"fuelProductId"`
}

// Serialize converts the graph into a version-2 document. Nodes appear in
// insertion order; products and input lists are deep-copied so the document
// stays stable across later graph mutations.
func (g *Graph) Serialize() Document {
	doc := Document{
		Version:    DocumentVersion,
		Nodes:      make([]Product, 0, len(g.order)),
		NextNodeID: g.nextID,
	}
	for _, p := range g.Products() {
		cp := p.clone()
		cp.Position = nil
		if cp.Inputs == nil {
			cp.Inputs = []Input{}
		}
		doc.Nodes = append(doc.Nodes, *cp)
	}
	if fuel, ok := g.FuelProduct(); ok {
		doc.FuelProductID = &fuel
	}
	return doc
}

// Load replaces the graph's contents with the document's.
//
// The graph is cleared first; nodes are inserted preserving their stored
// ids, then references, self-loops, and acyclicity are verified over the
// whole graph. On any failure the graph is left in its pre-call state.
// A stored nextNodeId lower than the highest id plus one is raised so the
// counter invariant holds after load.
func (g *Graph) Load(doc Document) error {
	if doc.Version != DocumentVersion {
		return errors.New(errors.ErrCodeUnsupportedVersion,
			"economy document version %d is not supported (want %d)", doc.Version, DocumentVersion)
	}

	loaded := New()
	for i := range doc.Nodes {
		p := doc.Nodes[i].clone()
		if err := p.Validate(); err != nil {
			return err
		}
		if _, exists := loaded.nodes[p.ID]; exists {
			return errors.New(errors.ErrCodeMalformed, "duplicate product id %d", p.ID)
		}
		loaded.insert(p)
	}
	for _, p := range loaded.Products() {
		for _, in := range p.Inputs {
			if in.ProductID == p.ID {
				return errors.New(errors.ErrCodeSelfLoop, "product %d cannot consume itself", p.ID)
			}
			if _, ok := loaded.nodes[in.ProductID]; !ok {
				return errors.New(errors.ErrCodeUnknownInput,
					"product %d references missing input %d", p.ID, in.ProductID)
			}
		}
	}
	if loaded.hasCycle() {
		return errors.New(errors.ErrCodeCycle, "economy document contains a cycle")
	}

	loaded.nextID = doc.NextNodeID
	for _, p := range loaded.Products() {
		if p.ID >= loaded.nextID {
			loaded.nextID = p.ID + 1
		}
	}
	if doc.FuelProductID != nil {
		if err := loaded.SetFuelProduct(*doc.FuelProductID); err != nil {
			return err
		}
	}

	*g = *loaded
	return nil
}

// wire mirrors Document with pointer fields so absent keys are
// distinguishable from zero values, and signed ids so negative values are
// rejected instead of wrapping.
type wire struct {
	Version       *int        `json:"version"`
	Nodes         *[]wireNode `json:"nodes"`
	NextNodeID    *int64      `json:"nextNodeId"`
	FuelProductID *int64      `json:"fuelProductId"`
}

type wireNode struct {
	ID        int64       `json:"id"`
	Name      string      `json:"name"`
	ImagePath string      `json:"imagePath"`
	Inputs    []wireInput `json:"inputs"`
}

type wireInput struct {
	ProductID int64   `json:"productId"`
	Amount    float64 `json:"amount"`
}

// MarshalDocument encodes a document as indented JSON.
func MarshalDocument(doc Document) ([]byte, error) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode economy document: %w", err)
	}
	return data, nil
}

// UnmarshalDocument decodes JSON bytes into a document.
//
// The version must equal 2 (UNSUPPORTED_VERSION) and the nodes array must be
// present (MALFORMED). A missing nextNodeId defaults to 0 and a missing
// fuelProductId to null, per the format. Negative ids fail with
// BAD_INPUT_ID; other shape violations fail with MALFORMED.
func UnmarshalDocument(data []byte) (Document, error) {
	var w wire
	if err := json.Unmarshal(data, &w); err != nil {
		return Document{}, errors.Wrap(errors.ErrCodeMalformed, err, "decode economy document")
	}
	version := 0
	if w.Version != nil {
		version = *w.Version
	}
	if version != DocumentVersion {
		return Document{}, errors.New(errors.ErrCodeUnsupportedVersion,
			"economy document version %d is not supported (want %d)", version, DocumentVersion)
	}
	if w.Nodes == nil {
		return Document{}, errors.New(errors.ErrCodeMalformed, "economy document has no nodes array")
	}

	doc := Document{Version: version, Nodes: make([]Product, 0, len(*w.Nodes))}
	for _, n := range *w.Nodes {
		if n.ID < 0 {
			return Document{}, errors.New(errors.ErrCodeBadInputID, "product id %d is negative", n.ID)
		}
		p := Product{
			ID:        ProductID(n.ID),
			Name:      n.Name,
			ImagePath: n.ImagePath,
			Inputs:    make([]Input, 0, len(n.Inputs)),
		}
		for _, in := range n.Inputs {
			if in.ProductID < 0 {
				return Document{}, errors.New(errors.ErrCodeBadInputID,
					"input id %d of product %d is negative", in.ProductID, n.ID)
			}
			p.Inputs = append(p.Inputs, Input{ProductID: ProductID(in.ProductID), Amount: in.Amount})
		}
		doc.Nodes = append(doc.Nodes, p)
	}
	if w.NextNodeID != nil {
		if *w.NextNodeID < 0 {
			return Document{}, errors.New(errors.ErrCodeMalformed, "nextNodeId %d is negative", *w.NextNodeID)
		}
		doc.NextNodeID = ProductID(*w.NextNodeID)
	}
	if w.FuelProductID != nil {
		if *w.FuelProductID < 0 {
			return Document{}, errors.New(errors.ErrCodeMalformed, "fuelProductId %d is negative", *w.FuelProductID)
		}
		fuel := ProductID(*w.FuelProductID)
		doc.FuelProductID = &fuel
	}
	return doc, nil
}

// WriteDocument serializes the graph and writes it to w as indented JSON.
func WriteDocument(g *Graph, w io.Writer) error {
	data, err := MarshalDocument(g.Serialize())
	if err != nil {
		return err
	}
	data = append(data, '\n')
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write economy document: %w", err)
	}
	return nil
}

// ReadDocument decodes an economy document from r and loads it into a fresh
// graph. It returns the same coded errors as [UnmarshalDocument] and
// [Graph.Load].
func ReadDocument(r io.Reader) (*Graph, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read economy document: %w", err)
	}
	doc, err := UnmarshalDocument(data)
	if err != nil {
		return nil, err
	}
	g := New()
	if err := g.Load(doc); err != nil {
		return nil, err
	}
	return g, nil
}

// ExportFile writes the graph to a JSON file at path.
func ExportFile(g *Graph, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteDocument(g, f)
}

// ImportFile reads a JSON file at path and returns the decoded graph.
func ImportFile(path string) (*Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadDocument(f)
}
