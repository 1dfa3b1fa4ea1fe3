package graph

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// Position is a node's canvas coordinate. The core never interprets it; it
// is carried so that a document survives an edit round-trip through the UI.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Node is one element of the diagram.
type Node struct {
	ID       string   `json:"id"`
	Kind     Kind     `json:"kind"`
	Position Position `json:"position"`
	Payload  Payload  `json:"payload"`
}

// Edge is a wire between two nodes. Handles name ports on block nodes and
// are empty for signal/protocol nodes, which expose a single unnamed port.
type Edge struct {
	ID           string `json:"id"`
	SourceNodeID string `json:"source"`
	SourceHandle string `json:"sourceHandle,omitempty"`
	TargetNodeID string `json:"target"`
	TargetHandle string `json:"targetHandle,omitempty"`
}

// SameEndpoints reports whether two edges connect the identical
// (source, sourceHandle, target, targetHandle) tuple.
func (e Edge) SameEndpoints(other Edge) bool {
	return e.SourceNodeID == other.SourceNodeID &&
		e.SourceHandle == other.SourceHandle &&
		e.TargetNodeID == other.TargetNodeID &&
		e.TargetHandle == other.TargetHandle
}

// Touches reports whether the edge references the given node.
func (e Edge) Touches(nodeID string) bool {
	return e.SourceNodeID == nodeID || e.TargetNodeID == nodeID
}

// NewID allocates a fresh node or edge id.
func NewID() string {
	return uuid.New().String()
}

// nodeJSON is the wire form of Node; Payload is decoded per Kind.
type nodeJSON struct {
	ID       string          `json:"id"`
	Kind     Kind            `json:"kind"`
	Position Position        `json:"position"`
	Payload  json.RawMessage `json:"payload"`
}

// MarshalJSON implements json.Marshaler.
func (n Node) MarshalJSON() ([]byte, error) {
	payload, err := json.Marshal(n.Payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(nodeJSON{ID: n.ID, Kind: n.Kind, Position: n.Position, Payload: payload})
}

// UnmarshalJSON implements json.Unmarshaler, decoding the payload into the
// concrete variant selected by the kind discriminator.
func (n *Node) UnmarshalJSON(data []byte) error {
	var raw nodeJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	payload, err := UnmarshalPayload(raw.Kind, raw.Payload)
	if err != nil {
		return fmt.Errorf("node %s: %w", raw.ID, err)
	}
	n.ID = raw.ID
	n.Kind = raw.Kind
	n.Position = raw.Position
	n.Payload = payload
	return nil
}

// UnmarshalPayload decodes a JSON payload into the variant for kind. A
// missing payload yields the kind's zero payload.
func UnmarshalPayload(kind Kind, data []byte) (Payload, error) {
	payload, err := NewPayload(kind)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 || string(data) == "null" {
		return payload, nil
	}
	if err := json.Unmarshal(data, payload); err != nil {
		return nil, fmt.Errorf("decode %s payload: %w", kind, err)
	}
	return payload, nil
}
