package validation

import "github.com/mhaugen/flowforge/pkg/graph"

// Connection error messages shown to the operator.
const (
	MsgInvalidConnection = "Invalid connection"
	MsgDuplicateEdge     = "Connection already exists"
	MsgTwilioBoolOnly    = "Twilio can only be triggered by bool signals"
)

// connectionRule checks one admissibility aspect of a candidate edge.
// Rules run in order; the first failure wins. A nil source or target never
// reaches the kind rules.
type connectionRule func(candidate graph.Edge, src, tgt *graph.Node, doc *graph.Document) (Result, bool)

// connectionRules is the ordered rule table. The default is permissive:
// any pairing no rule rejects is admissible. Tightening the model to a
// closed compatibility table means adding rules here, nowhere else.
var connectionRules = []connectionRule{
	ruleDuplicate,
	ruleTwilioTrigger,
}

// ValidateConnection decides whether a candidate edge may be added to the
// document. It checks, in order: both endpoints resolve to existing nodes
// with declared handles, the endpoint tuple is not already wired, and the
// endpoint kinds are compatible. No cycle detection is performed; cyclic
// block wiring is the execution engine's concern.
func ValidateConnection(candidate graph.Edge, doc *graph.Document) Result {
	src, okSrc := doc.NodeByID(candidate.SourceNodeID)
	tgt, okTgt := doc.NodeByID(candidate.TargetNodeID)
	if !okSrc || !okTgt {
		return fail(MsgInvalidConnection)
	}
	if !handleDeclared(src, candidate.SourceHandle, false) ||
		!handleDeclared(tgt, candidate.TargetHandle, true) {
		return fail(MsgInvalidConnection)
	}
	for _, rule := range connectionRules {
		if res, done := rule(candidate, src, tgt, doc); done {
			return res
		}
	}
	return ok()
}

func ruleDuplicate(candidate graph.Edge, _, _ *graph.Node, doc *graph.Document) (Result, bool) {
	if doc.HasEdgeBetween(candidate) {
		return fail(MsgDuplicateEdge), true
	}
	return Result{}, false
}

// ruleTwilioTrigger: a twilio node is triggered by a boolean condition, so
// a signal wired into it must be of type bool. Block outputs are accepted
// as-is; their runtime type is not known here.
func ruleTwilioTrigger(_ graph.Edge, src, tgt *graph.Node, _ *graph.Document) (Result, bool) {
	if tgt.Kind != graph.KindTwilio {
		return Result{}, false
	}
	if sig, ok := src.Payload.(*graph.SignalPayload); ok && sig.SignalType != graph.SignalBool {
		return fail(MsgTwilioBoolOnly), true
	}
	return Result{}, false
}

// handleDeclared reports whether the handle names a declared port when the
// node is a block. Non-block nodes expose a single unnamed port and accept
// any handle value the canvas hands us.
func handleDeclared(n *graph.Node, handle string, input bool) bool {
	block, isBlock := n.Payload.(*graph.BlockPayload)
	if !isBlock || handle == "" {
		return true
	}
	if input {
		_, found := block.InputPort(handle)
		return found
	}
	_, found := block.OutputPort(handle)
	return found
}
