package graph

// Document is the full node+edge graph representing one configuration. It
// is the unit of persistence and of history snapshots. Methods mutate in
// place; callers needing isolation take a Clone first.
type Document struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// NodeByID returns a pointer into the document's node slice.
func (d *Document) NodeByID(id string) (*Node, bool) {
	for i := range d.Nodes {
		if d.Nodes[i].ID == id {
			return &d.Nodes[i], true
		}
	}
	return nil, false
}

// EdgeByID returns a pointer into the document's edge slice.
func (d *Document) EdgeByID(id string) (*Edge, bool) {
	for i := range d.Edges {
		if d.Edges[i].ID == id {
			return &d.Edges[i], true
		}
	}
	return nil, false
}

// HasEdgeBetween reports whether an edge with the identical endpoint tuple
// already exists.
func (d *Document) HasEdgeBetween(candidate Edge) bool {
	for _, e := range d.Edges {
		if e.SameEndpoints(candidate) {
			return true
		}
	}
	return false
}

// EdgeInto returns the edge terminating at the given node and handle.
func (d *Document) EdgeInto(nodeID, handle string) (Edge, bool) {
	for _, e := range d.Edges {
		if e.TargetNodeID == nodeID && e.TargetHandle == handle {
			return e, true
		}
	}
	return Edge{}, false
}

// EdgeOutOf returns the edge originating at the given node and handle.
func (d *Document) EdgeOutOf(nodeID, handle string) (Edge, bool) {
	for _, e := range d.Edges {
		if e.SourceNodeID == nodeID && e.SourceHandle == handle {
			return e, true
		}
	}
	return Edge{}, false
}

// AddNode appends a node to the document.
func (d *Document) AddNode(n Node) {
	d.Nodes = append(d.Nodes, n)
}

// AddEdge appends an edge after checking the structural invariants: both
// endpoints exist, block handles are declared, and the endpoint tuple is
// not already wired.
func (d *Document) AddEdge(e Edge) error {
	if err := d.checkEndpoints(e); err != nil {
		return err
	}
	if d.HasEdgeBetween(e) {
		return &GraphError{Op: "AddEdge", Entity: "edge", ID: e.ID, Cause: ErrDuplicateEdge}
	}
	d.Edges = append(d.Edges, e)
	return nil
}

// RemoveNode deletes a node and cascades to every edge touching it,
// returning the removed edges.
func (d *Document) RemoveNode(id string) ([]Edge, error) {
	idx := -1
	for i := range d.Nodes {
		if d.Nodes[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, &GraphError{Op: "RemoveNode", Entity: "node", ID: id, Cause: ErrNodeNotFound}
	}
	d.Nodes = append(d.Nodes[:idx], d.Nodes[idx+1:]...)

	var removed []Edge
	kept := d.Edges[:0]
	for _, e := range d.Edges {
		if e.Touches(id) {
			removed = append(removed, e)
		} else {
			kept = append(kept, e)
		}
	}
	d.Edges = kept
	return removed, nil
}

// RemoveEdge deletes a single edge by id.
func (d *Document) RemoveEdge(id string) error {
	for i := range d.Edges {
		if d.Edges[i].ID == id {
			d.Edges = append(d.Edges[:i], d.Edges[i+1:]...)
			return nil
		}
	}
	return &GraphError{Op: "RemoveEdge", Entity: "edge", ID: id, Cause: ErrEdgeNotFound}
}

// Clone returns a deep copy of the document, payloads included.
func (d *Document) Clone() *Document {
	c := &Document{}
	if d.Nodes != nil {
		c.Nodes = make([]Node, len(d.Nodes))
		for i, n := range d.Nodes {
			n.Payload = n.Payload.clone()
			c.Nodes[i] = n
		}
	}
	if d.Edges != nil {
		c.Edges = append([]Edge(nil), d.Edges...)
	}
	return c
}

// Validate checks the structural invariants over the whole document:
// every edge references existing nodes and declared handles, and no two
// edges share an endpoint tuple.
func (d *Document) Validate() error {
	seen := make(map[[4]string]string, len(d.Edges))
	for _, e := range d.Edges {
		if err := d.checkEndpoints(e); err != nil {
			return err
		}
		key := [4]string{e.SourceNodeID, e.SourceHandle, e.TargetNodeID, e.TargetHandle}
		if prev, ok := seen[key]; ok {
			return &GraphError{Op: "Validate", Entity: "edge", ID: e.ID, Cause: ErrDuplicateEdge, Context: "duplicates " + prev}
		}
		seen[key] = e.ID
	}
	return nil
}

func (d *Document) checkEndpoints(e Edge) error {
	src, ok := d.NodeByID(e.SourceNodeID)
	if !ok {
		return &GraphError{Op: "AddEdge", Entity: "node", ID: e.SourceNodeID, Cause: ErrNodeNotFound}
	}
	tgt, ok := d.NodeByID(e.TargetNodeID)
	if !ok {
		return &GraphError{Op: "AddEdge", Entity: "node", ID: e.TargetNodeID, Cause: ErrNodeNotFound}
	}
	if block, ok := src.Payload.(*BlockPayload); ok && e.SourceHandle != "" {
		if _, ok := block.OutputPort(e.SourceHandle); !ok {
			return &GraphError{Op: "AddEdge", Entity: "edge", ID: e.ID, Cause: ErrUnknownHandle, Context: e.SourceHandle}
		}
	}
	if block, ok := tgt.Payload.(*BlockPayload); ok && e.TargetHandle != "" {
		if _, ok := block.InputPort(e.TargetHandle); !ok {
			return &GraphError{Op: "AddEdge", Entity: "edge", ID: e.ID, Cause: ErrUnknownHandle, Context: e.TargetHandle}
		}
	}
	return nil
}

// NodesOfKind returns the document's nodes of one kind, in document order.
func (d *Document) NodesOfKind(kind Kind) []Node {
	var out []Node
	for _, n := range d.Nodes {
		if n.Kind == kind {
			out = append(out, n)
		}
	}
	return out
}
