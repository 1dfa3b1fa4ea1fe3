package graph

import (
	"errors"
	"testing"
)

func signalNode(id, label string, st SignalType) Node {
	return Node{
		ID:   id,
		Kind: KindSignal,
		Payload: &SignalPayload{
			Label:      label,
			SignalType: st,
			Mode:       SignalRead,
		},
	}
}

func addBlockNode(id, label, blockType string, inputs, outputs []string) Node {
	p := &BlockPayload{Label: label, BlockType: blockType}
	for _, name := range inputs {
		p.Inputs = append(p.Inputs, Port{Name: name, Type: "any"})
	}
	for _, name := range outputs {
		p.Outputs = append(p.Outputs, Port{Name: name, Type: "any"})
	}
	return Node{ID: id, Kind: KindBlock, Payload: p}
}

func TestDocument_AddEdge(t *testing.T) {
	doc := &Document{}
	doc.AddNode(signalNode("s1", "Level", SignalFloat))
	doc.AddNode(addBlockNode("b1", "Compare", BlockGT, []string{"a", "b"}, []string{"out"}))

	edge := Edge{ID: "e1", SourceNodeID: "s1", TargetNodeID: "b1", TargetHandle: "a"}
	if err := doc.AddEdge(edge); err != nil {
		t.Fatalf("AddEdge failed: %v", err)
	}

	// Identical endpoint tuple must be rejected
	dup := Edge{ID: "e2", SourceNodeID: "s1", TargetNodeID: "b1", TargetHandle: "a"}
	err := doc.AddEdge(dup)
	if !errors.Is(err, ErrDuplicateEdge) {
		t.Errorf("expected ErrDuplicateEdge, got %v", err)
	}

	// Same nodes, different handle is a different wire
	other := Edge{ID: "e3", SourceNodeID: "s1", TargetNodeID: "b1", TargetHandle: "b"}
	if err := doc.AddEdge(other); err != nil {
		t.Errorf("different handle should be accepted: %v", err)
	}
}

func TestDocument_AddEdge_MissingNode(t *testing.T) {
	doc := &Document{}
	doc.AddNode(signalNode("s1", "Level", SignalFloat))

	err := doc.AddEdge(Edge{ID: "e1", SourceNodeID: "s1", TargetNodeID: "ghost"})
	if !errors.Is(err, ErrNodeNotFound) {
		t.Errorf("expected ErrNodeNotFound, got %v", err)
	}
}

func TestDocument_AddEdge_UndeclaredHandle(t *testing.T) {
	doc := &Document{}
	doc.AddNode(signalNode("s1", "Level", SignalFloat))
	doc.AddNode(addBlockNode("b1", "Compare", BlockGT, []string{"a", "b"}, []string{"out"}))

	err := doc.AddEdge(Edge{ID: "e1", SourceNodeID: "s1", TargetNodeID: "b1", TargetHandle: "nope"})
	if !errors.Is(err, ErrUnknownHandle) {
		t.Errorf("expected ErrUnknownHandle, got %v", err)
	}
}

// TestDocument_RemoveNode_Cascade verifies that deleting a node removes
// exactly the edges touching it and no others.
func TestDocument_RemoveNode_Cascade(t *testing.T) {
	doc := &Document{}
	doc.AddNode(signalNode("s1", "A", SignalBool))
	doc.AddNode(signalNode("s2", "B", SignalBool))
	doc.AddNode(addBlockNode("b1", "And", BlockAND, []string{"in1", "in2"}, []string{"out"}))
	doc.AddNode(signalNode("s3", "Out", SignalBool))

	mustAdd := func(e Edge) {
		t.Helper()
		if err := doc.AddEdge(e); err != nil {
			t.Fatalf("AddEdge %s: %v", e.ID, err)
		}
	}
	mustAdd(Edge{ID: "e1", SourceNodeID: "s1", TargetNodeID: "b1", TargetHandle: "in1"})
	mustAdd(Edge{ID: "e2", SourceNodeID: "s2", TargetNodeID: "b1", TargetHandle: "in2"})
	mustAdd(Edge{ID: "e3", SourceNodeID: "b1", SourceHandle: "out", TargetNodeID: "s3"})

	removed, err := doc.RemoveNode("b1")
	if err != nil {
		t.Fatalf("RemoveNode failed: %v", err)
	}
	if len(removed) != 3 {
		t.Errorf("removed %d edges, want 3", len(removed))
	}
	if len(doc.Edges) != 0 {
		t.Errorf("dangling edges remain: %v", doc.Edges)
	}
	if len(doc.Nodes) != 3 {
		t.Errorf("got %d nodes, want 3", len(doc.Nodes))
	}
}

func TestDocument_RemoveNode_KeepsUnrelatedEdges(t *testing.T) {
	doc := &Document{}
	doc.AddNode(signalNode("s1", "A", SignalBool))
	doc.AddNode(signalNode("s2", "B", SignalBool))
	doc.AddNode(addBlockNode("b1", "Not", BlockNOT, []string{"in"}, []string{"out"}))
	if err := doc.AddEdge(Edge{ID: "e1", SourceNodeID: "s1", TargetNodeID: "b1", TargetHandle: "in"}); err != nil {
		t.Fatalf("AddEdge: %v", err)
	}

	if _, err := doc.RemoveNode("s2"); err != nil {
		t.Fatalf("RemoveNode failed: %v", err)
	}
	if len(doc.Edges) != 1 {
		t.Errorf("unrelated edge was removed; have %d edges, want 1", len(doc.Edges))
	}
}

func TestDocument_RemoveNode_NotFound(t *testing.T) {
	doc := &Document{}
	if _, err := doc.RemoveNode("missing"); !errors.Is(err, ErrNodeNotFound) {
		t.Errorf("expected ErrNodeNotFound, got %v", err)
	}
}

func TestDocument_Clone_Isolation(t *testing.T) {
	doc := &Document{}
	doc.AddNode(addBlockNode("b1", "Add", BlockADD, []string{"a", "b"}, []string{"out"}))

	clone := doc.Clone()
	clonedPayload := clone.Nodes[0].Payload.(*BlockPayload)
	clonedPayload.Label = "Renamed"
	clonedPayload.Inputs[0].Name = "x"

	original := doc.Nodes[0].Payload.(*BlockPayload)
	if original.Label != "Add" {
		t.Errorf("clone shares payload with original")
	}
	if original.Inputs[0].Name != "a" {
		t.Errorf("clone shares port slice with original")
	}
}

func TestDocument_Validate_DuplicateTuple(t *testing.T) {
	doc := &Document{}
	doc.AddNode(signalNode("s1", "A", SignalBool))
	doc.AddNode(signalNode("s2", "B", SignalBool))
	doc.Edges = []Edge{
		{ID: "e1", SourceNodeID: "s1", TargetNodeID: "s2"},
		{ID: "e2", SourceNodeID: "s1", TargetNodeID: "s2"},
	}
	if err := doc.Validate(); !errors.Is(err, ErrDuplicateEdge) {
		t.Errorf("expected ErrDuplicateEdge, got %v", err)
	}
}
