// Package store owns the canonical document state. Every mutation is
// atomic: validators run before any write, so a rejected mutation leaves
// the document untouched. Committed mutations are snapshotted into a
// bounded history for undo/redo and fanned out to subscribers.
//
// The editing model is single-threaded (one user action at a time); the
// mutex only guards against a misbehaving host, it is not a concurrency
// feature.
package store

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/mhaugen/flowforge/pkg/graph"
	"github.com/mhaugen/flowforge/pkg/logging"
	"github.com/mhaugen/flowforge/pkg/metrics"
	"github.com/mhaugen/flowforge/pkg/runtimecfg"
	"github.com/mhaugen/flowforge/pkg/validation"
)

// ErrRejected wraps a validator message refused at mutation time.
var ErrRejected = errors.New("mutation rejected")

// ChangeEvent describes one committed mutation.
type ChangeEvent struct {
	Op     string
	NodeID string
	EdgeID string
}

// Store holds the canonical (nodes, edges, selection) triple.
type Store struct {
	mu        sync.Mutex
	doc       graph.Document
	selection []string
	hist      *history
	subs      map[int]func(ChangeEvent)
	nextSub   int
	logger    logging.Logger
	metrics   *metrics.Registry
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the store's logger.
func WithLogger(l logging.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// WithMetrics attaches a metrics registry.
func WithMetrics(r *metrics.Registry) Option {
	return func(s *Store) { s.metrics = r }
}

// New creates an empty store.
func New(opts ...Option) *Store {
	s := &Store{
		subs:   make(map[int]func(ChangeEvent)),
		logger: logging.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With(logging.Component("store"))
	s.hist = newHistory(DefaultHistoryCap, &s.doc)
	return s
}

// Document returns an isolated snapshot of the current document.
func (s *Store) Document() *graph.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.Clone()
}

// Selection returns the currently selected node/edge ids.
func (s *Store) Selection() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.selection...)
}

// Select replaces the selection. Selection is UI state: it is not part of
// the document and not snapshotted into history.
func (s *Store) Select(ids ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selection = append(s.selection[:0], ids...)
}

// Subscribe registers a callback invoked after every committed mutation.
// The returned function unsubscribes.
func (s *Store) Subscribe(fn func(ChangeEvent)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

// AddNode creates a node of the given kind at a canvas position, with the
// kind's default payload.
func (s *Store) AddNode(kind graph.Kind, pos graph.Position) (graph.Node, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	start := time.Now()

	payload, err := graph.NewPayload(kind)
	if err != nil {
		s.observe("addNode", err, start)
		return graph.Node{}, err
	}
	node := graph.Node{ID: graph.NewID(), Kind: kind, Position: pos, Payload: payload}
	s.doc.AddNode(node)
	s.commit(ChangeEvent{Op: "addNode", NodeID: node.ID})
	s.observe("addNode", nil, start)
	return node, nil
}

// UpdatePayload replaces a node's payload. The payload's kind must match
// the node's kind; the store takes ownership of the payload.
func (s *Store) UpdatePayload(nodeID string, payload graph.Payload) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	start := time.Now()

	node, ok := s.doc.NodeByID(nodeID)
	if !ok {
		err := &graph.GraphError{Op: "UpdatePayload", Entity: "node", ID: nodeID, Cause: graph.ErrNodeNotFound}
		s.observe("updatePayload", err, start)
		return err
	}
	if payload.Kind() != node.Kind {
		err := &graph.GraphError{Op: "UpdatePayload", Entity: "node", ID: nodeID, Cause: graph.ErrKindMismatch}
		s.observe("updatePayload", err, start)
		return err
	}
	node.Payload = payload
	s.commit(ChangeEvent{Op: "updatePayload", NodeID: nodeID})
	s.observe("updatePayload", nil, start)
	return nil
}

// MoveNode updates a node's canvas position.
func (s *Store) MoveNode(nodeID string, pos graph.Position) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	start := time.Now()

	node, ok := s.doc.NodeByID(nodeID)
	if !ok {
		err := &graph.GraphError{Op: "MoveNode", Entity: "node", ID: nodeID, Cause: graph.ErrNodeNotFound}
		s.observe("moveNode", err, start)
		return err
	}
	node.Position = pos
	s.commit(ChangeEvent{Op: "moveNode", NodeID: nodeID})
	s.observe("moveNode", nil, start)
	return nil
}

// Connect validates a candidate edge and, if admissible, commits it with a
// fresh id. A validator rejection is returned as ErrRejected wrapping the
// operator-facing message.
func (s *Store) Connect(candidate graph.Edge) (graph.Edge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	start := time.Now()

	if res := validation.ValidateConnection(candidate, &s.doc); !res.Valid {
		if s.metrics != nil {
			s.metrics.RejectionsTotal.WithLabelValues("connection").Inc()
		}
		err := fmt.Errorf("%w: %s", ErrRejected, res.Error)
		s.logger.Warn("connection rejected",
			logging.String("reason", res.Error),
			logging.NodeID(candidate.SourceNodeID))
		s.observe("connect", err, start)
		return graph.Edge{}, err
	}
	edge := candidate
	edge.ID = graph.NewID()
	if err := s.doc.AddEdge(edge); err != nil {
		s.observe("connect", err, start)
		return graph.Edge{}, err
	}
	s.commit(ChangeEvent{Op: "connect", EdgeID: edge.ID})
	s.observe("connect", nil, start)
	return edge, nil
}

// DeleteNode removes a node and cascades to every edge touching it.
func (s *Store) DeleteNode(nodeID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	start := time.Now()

	removed, err := s.doc.RemoveNode(nodeID)
	if err != nil {
		s.observe("deleteNode", err, start)
		return err
	}
	s.selection = removeID(s.selection, nodeID)
	s.logger.Info("node deleted", logging.NodeID(nodeID), logging.Count(len(removed)))
	s.commit(ChangeEvent{Op: "deleteNode", NodeID: nodeID})
	s.observe("deleteNode", nil, start)
	return nil
}

// DeleteEdge removes a single edge.
func (s *Store) DeleteEdge(edgeID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	start := time.Now()

	if err := s.doc.RemoveEdge(edgeID); err != nil {
		s.observe("deleteEdge", err, start)
		return err
	}
	s.selection = removeID(s.selection, edgeID)
	s.commit(ChangeEvent{Op: "deleteEdge", EdgeID: edgeID})
	s.observe("deleteEdge", nil, start)
	return nil
}

// Clear replaces the document with an empty one.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	start := time.Now()

	s.doc = graph.Document{}
	s.selection = nil
	s.commit(ChangeEvent{Op: "clear"})
	s.observe("clear", nil, start)
}

// Load replaces the document wholesale after checking its structural
// invariants. On failure the current document is untouched.
func (s *Store) Load(doc *graph.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	start := time.Now()

	if err := doc.Validate(); err != nil {
		s.observe("load", err, start)
		return err
	}
	s.doc = *doc.Clone()
	s.selection = nil
	s.commit(ChangeEvent{Op: "load"})
	s.observe("load", nil, start)
	return nil
}

// Import parses runtime config text and loads the resulting document. A
// parse failure leaves the store completely unmodified.
func (s *Store) Import(text string) ([]runtimecfg.Warning, error) {
	start := time.Now()
	doc, warnings, err := runtimecfg.Parse(text)
	if s.metrics != nil {
		s.metrics.ParseDuration.Observe(time.Since(start).Seconds())
	}
	if err != nil {
		s.logger.Error("import failed", logging.Err(err))
		return nil, err
	}
	if s.metrics != nil && len(warnings) > 0 {
		s.metrics.ParseWarnings.Add(float64(len(warnings)))
	}
	for _, w := range warnings {
		s.logger.Warn("import warning", logging.String("detail", w.String()))
	}
	if err := s.Load(doc); err != nil {
		return nil, err
	}
	return warnings, nil
}

// Export generates the runtime config text for the current document.
func (s *Store) Export() (string, error) {
	doc := s.Document()
	start := time.Now()
	text, err := runtimecfg.Generate(doc)
	if s.metrics != nil {
		s.metrics.GenerateDuration.Observe(time.Since(start).Seconds())
	}
	if err != nil {
		s.logger.Error("export failed", logging.Err(err))
		return "", err
	}
	return text, nil
}

// Undo restores the previous snapshot. It returns false when there is
// nothing to undo.
func (s *Store) Undo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.hist.undo()
	if !ok {
		return false
	}
	s.doc = *doc
	s.selection = nil
	s.afterRestore("undo")
	return true
}

// Redo restores the next snapshot. It returns false when there is nothing
// to redo.
func (s *Store) Redo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.hist.redo()
	if !ok {
		return false
	}
	s.doc = *doc
	s.selection = nil
	s.afterRestore("redo")
	return true
}

// commit snapshots the document and notifies subscribers. Callers hold the
// mutex.
func (s *Store) commit(ev ChangeEvent) {
	s.hist.push(&s.doc)
	s.notify(ev)
}

func (s *Store) afterRestore(op string) {
	s.notify(ChangeEvent{Op: op})
}

func (s *Store) notify(ev ChangeEvent) {
	if s.metrics != nil {
		s.metrics.SetDocumentSize(len(s.doc.Nodes), len(s.doc.Edges))
		s.metrics.HistoryDepth.Set(float64(s.hist.depth()))
	}
	for _, fn := range s.subs {
		fn(ev)
	}
}

func (s *Store) observe(op string, err error, start time.Time) {
	if s.metrics != nil {
		s.metrics.ObserveMutation(op, err, time.Since(start))
	}
}

func removeID(ids []string, id string) []string {
	kept := ids[:0]
	for _, x := range ids {
		if x != id {
			kept = append(kept, x)
		}
	}
	return kept
}
