package graph

import (
	"encoding/json"
	"testing"
)

func TestNode_JSON_PayloadDiscriminator(t *testing.T) {
	node := Node{
		ID:       "n1",
		Kind:     KindS7,
		Position: Position{X: 10, Y: 20},
		Payload: &S7Payload{
			Label:     "Valve state",
			IP:        "192.168.0.10",
			Rack:      0,
			Slot:      2,
			Area:      AreaDB,
			DBNumber:  5,
			Address:   12,
			DataType:  S7Bool,
			Bit:       3,
			Direction: ModeRead,
			Signal:    "valve_state",
		},
	}

	data, err := json.Marshal(node)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var decoded Node
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	payload, ok := decoded.Payload.(*S7Payload)
	if !ok {
		t.Fatalf("payload decoded as %T, want *S7Payload", decoded.Payload)
	}
	if payload.Signal != "valve_state" || payload.Bit != 3 || payload.Area != AreaDB {
		t.Errorf("payload fields lost: %+v", payload)
	}
	if decoded.Position.X != 10 {
		t.Errorf("position lost: %+v", decoded.Position)
	}
}

func TestNode_JSON_MissingPayload(t *testing.T) {
	var node Node
	if err := json.Unmarshal([]byte(`{"id":"n1","kind":"signal"}`), &node); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if _, ok := node.Payload.(*SignalPayload); !ok {
		t.Errorf("missing payload should decode to the kind's zero payload, got %T", node.Payload)
	}
}

func TestNode_JSON_UnknownKind(t *testing.T) {
	var node Node
	if err := json.Unmarshal([]byte(`{"id":"n1","kind":"bogus"}`), &node); err == nil {
		t.Error("expected error for unknown kind")
	}
}

func TestInitialValue(t *testing.T) {
	b := BoolInitial(true)
	if !b.IsBool() || !b.Bool() {
		t.Errorf("BoolInitial(true) = %+v", b)
	}
	if b.Value() != true {
		t.Errorf("Value() = %v, want true", b.Value())
	}

	n := NumberInitial(0)
	if n.IsBool() {
		t.Error("NumberInitial reported as bool")
	}
	if v, ok := n.Value().(int64); !ok || v != 0 {
		t.Errorf("integral initial should serialize as int, got %T(%v)", n.Value(), n.Value())
	}

	f := NumberInitial(21.5)
	if v, ok := f.Value().(float64); !ok || v != 21.5 {
		t.Errorf("fractional initial should stay float, got %T(%v)", f.Value(), f.Value())
	}
}

func TestInitialFrom_Rejects(t *testing.T) {
	if _, err := InitialFrom("nope"); err == nil {
		t.Error("expected error for string initial")
	}
}
