package validation

import (
	"testing"

	"github.com/mhaugen/flowforge/pkg/graph"
)

func testDoc(t *testing.T) *graph.Document {
	t.Helper()
	doc := &graph.Document{}
	doc.AddNode(graph.Node{ID: "bool1", Kind: graph.KindSignal, Payload: &graph.SignalPayload{
		Label: "Running", SignalType: graph.SignalBool,
	}})
	doc.AddNode(graph.Node{ID: "float1", Kind: graph.KindSignal, Payload: &graph.SignalPayload{
		Label: "Level", SignalType: graph.SignalFloat,
	}})
	doc.AddNode(graph.Node{ID: "blk1", Kind: graph.KindBlock, Payload: &graph.BlockPayload{
		Label:     "Compare",
		BlockType: graph.BlockGT,
		Inputs:    []graph.Port{{Name: "a", Type: "float"}, {Name: "b", Type: "float"}},
		Outputs:   []graph.Port{{Name: "out", Type: "bool"}},
	}})
	doc.AddNode(graph.Node{ID: "tw1", Kind: graph.KindTwilio, Payload: &graph.TwilioPayload{
		Label: "Alert operator", ActionType: graph.ActionSMS,
	}})
	return doc
}

func TestValidateConnection_MissingEndpoint(t *testing.T) {
	doc := testDoc(t)
	res := ValidateConnection(graph.Edge{SourceNodeID: "ghost", TargetNodeID: "blk1", TargetHandle: "a"}, doc)
	if res.Valid || res.Error != MsgInvalidConnection {
		t.Errorf("got %+v, want invalid with %q", res, MsgInvalidConnection)
	}
}

func TestValidateConnection_UndeclaredHandle(t *testing.T) {
	doc := testDoc(t)
	res := ValidateConnection(graph.Edge{SourceNodeID: "float1", TargetNodeID: "blk1", TargetHandle: "c"}, doc)
	if res.Valid || res.Error != MsgInvalidConnection {
		t.Errorf("got %+v, want invalid with %q", res, MsgInvalidConnection)
	}
}

// TestValidateConnection_DuplicateSecondTime covers the connect-twice
// scenario: the first attempt passes, the identical second one fails.
func TestValidateConnection_DuplicateSecondTime(t *testing.T) {
	doc := testDoc(t)
	candidate := graph.Edge{SourceNodeID: "float1", TargetNodeID: "blk1", TargetHandle: "a"}

	res := ValidateConnection(candidate, doc)
	if !res.Valid {
		t.Fatalf("first connect rejected: %s", res.Error)
	}
	candidate.ID = "e1"
	if err := doc.AddEdge(candidate); err != nil {
		t.Fatalf("AddEdge: %v", err)
	}

	res = ValidateConnection(graph.Edge{SourceNodeID: "float1", TargetNodeID: "blk1", TargetHandle: "a"}, doc)
	if res.Valid || res.Error != MsgDuplicateEdge {
		t.Errorf("got %+v, want invalid with %q", res, MsgDuplicateEdge)
	}
}

func TestValidateConnection_TwilioBoolOnly(t *testing.T) {
	doc := testDoc(t)

	res := ValidateConnection(graph.Edge{SourceNodeID: "float1", TargetNodeID: "tw1"}, doc)
	if res.Valid || res.Error != MsgTwilioBoolOnly {
		t.Errorf("float signal into twilio: got %+v, want %q", res, MsgTwilioBoolOnly)
	}

	res = ValidateConnection(graph.Edge{SourceNodeID: "bool1", TargetNodeID: "tw1"}, doc)
	if !res.Valid {
		t.Errorf("bool signal into twilio rejected: %s", res.Error)
	}

	// Block outputs have no static type; they are accepted as triggers.
	res = ValidateConnection(graph.Edge{SourceNodeID: "blk1", SourceHandle: "out", TargetNodeID: "tw1"}, doc)
	if !res.Valid {
		t.Errorf("block output into twilio rejected: %s", res.Error)
	}
}

// TestValidateConnection_PermissiveDefault documents the intentionally
// permissive fallback: pairings no rule rejects are admissible, including
// a bool signal wired into a numeric comparator input.
func TestValidateConnection_PermissiveDefault(t *testing.T) {
	doc := testDoc(t)

	res := ValidateConnection(graph.Edge{SourceNodeID: "bool1", TargetNodeID: "blk1", TargetHandle: "a"}, doc)
	if !res.Valid {
		t.Errorf("bool into numeric input should pass: %s", res.Error)
	}

	res = ValidateConnection(graph.Edge{SourceNodeID: "blk1", SourceHandle: "out", TargetNodeID: "float1"}, doc)
	if !res.Valid {
		t.Errorf("block to signal should pass: %s", res.Error)
	}
}
