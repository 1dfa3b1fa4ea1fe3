package runtimecfg

import (
	"errors"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/mhaugen/flowforge/pkg/graph"
)

func signal(id, label string, st graph.SignalType, initial graph.InitialValue) graph.Node {
	return graph.Node{ID: id, Kind: graph.KindSignal, Payload: &graph.SignalPayload{
		Label: label, SignalType: st, Initial: initial, Mode: graph.SignalRead,
	}}
}

func block(id, label, blockType string, inputs, outputs []string) graph.Node {
	p := &graph.BlockPayload{Label: label, BlockType: blockType}
	for _, name := range inputs {
		p.Inputs = append(p.Inputs, graph.Port{Name: name, Type: "any"})
	}
	for _, name := range outputs {
		p.Outputs = append(p.Outputs, graph.Port{Name: name, Type: "any"})
	}
	return graph.Node{ID: id, Kind: graph.KindBlock, Payload: p}
}

// TestGenerate_SignalAndBlock is the tank-level scenario: a float signal
// wired into an ADD block's "a" input.
func TestGenerate_SignalAndBlock(t *testing.T) {
	doc := &graph.Document{}
	doc.AddNode(signal("s1", "Tank Level", graph.SignalFloat, graph.NumberInitial(0)))
	doc.AddNode(block("b1", "Totalizer", graph.BlockADD, []string{"a", "b"}, []string{"out"}))
	if err := doc.AddEdge(graph.Edge{ID: "e1", SourceNodeID: "s1", TargetNodeID: "b1", TargetHandle: "a"}); err != nil {
		t.Fatalf("AddEdge: %v", err)
	}

	text, err := Generate(doc)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	var cfg Config
	if err := yaml.Unmarshal([]byte(text), &cfg); err != nil {
		t.Fatalf("generated text does not parse: %v", err)
	}

	if len(cfg.Signals) != 1 {
		t.Fatalf("got %d signals, want 1", len(cfg.Signals))
	}
	sig := cfg.Signals[0]
	if sig.Name != "tank_level" || sig.Type != "float" {
		t.Errorf("signal entry = %+v, want tank_level/float", sig)
	}
	if n, ok := sig.Initial.(int); !ok || n != 0 {
		t.Errorf("initial = %T(%v), want 0", sig.Initial, sig.Initial)
	}

	if len(cfg.Blocks) != 1 {
		t.Fatalf("got %d blocks, want 1", len(cfg.Blocks))
	}
	blk := cfg.Blocks[0]
	if blk.Name != "totalizer" || blk.Type != "ADD" {
		t.Errorf("block entry = %+v", blk)
	}
	if bound, _ := blk.Inputs.Get("a"); bound != "tank_level" {
		t.Errorf("input a = %q, want tank_level", bound)
	}
	if blk.Inputs.Len() != 1 {
		t.Errorf("unwired port b should be omitted, inputs = %v", blk.Inputs.Keys())
	}

	if cfg.ScanTimeMS != DefaultScanTimeMS {
		t.Errorf("scan_time_ms = %d, want %d", cfg.ScanTimeMS, DefaultScanTimeMS)
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	doc := &graph.Document{}
	doc.AddNode(signal("s1", "A", graph.SignalBool, graph.BoolInitial(false)))
	doc.AddNode(signal("s2", "B", graph.SignalBool, graph.BoolInitial(true)))
	doc.AddNode(block("b1", "Gate", graph.BlockAND, []string{"in1", "in2"}, []string{"out"}))
	doc.AddEdge(graph.Edge{ID: "e1", SourceNodeID: "s1", TargetNodeID: "b1", TargetHandle: "in1"})
	doc.AddEdge(graph.Edge{ID: "e2", SourceNodeID: "s2", TargetNodeID: "b1", TargetHandle: "in2"})

	first, err := Generate(doc)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	second, err := Generate(doc)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if first != second {
		t.Error("output differs between runs")
	}

	// Section order is part of the wire contract.
	if !(strings.Index(first, "signals:") < strings.Index(first, "blocks:") &&
		strings.Index(first, "blocks:") < strings.Index(first, "scan_time_ms:")) {
		t.Errorf("section order wrong:\n%s", first)
	}
}

func TestGenerate_DuplicateSignalNames(t *testing.T) {
	doc := &graph.Document{}
	doc.AddNode(signal("s1", "Tank Level", graph.SignalFloat, graph.NumberInitial(0)))
	doc.AddNode(signal("s2", "TANK level", graph.SignalFloat, graph.NumberInitial(0)))

	_, err := Generate(doc)
	if !errors.Is(err, graph.ErrDuplicateName) {
		t.Errorf("case-insensitive collision not rejected, err = %v", err)
	}
}

func TestGenerate_UnlabeledSignalFallback(t *testing.T) {
	doc := &graph.Document{}
	doc.AddNode(signal("s1", "", graph.SignalInt, graph.NumberInitial(7)))

	text, err := Generate(doc)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	var cfg Config
	if err := yaml.Unmarshal([]byte(text), &cfg); err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.Signals[0].Name != "signal_0" {
		t.Errorf("name = %q, want signal_0", cfg.Signals[0].Name)
	}
}

func TestGenerate_BlockToBlockWireNamedAfterUpstream(t *testing.T) {
	doc := &graph.Document{}
	doc.AddNode(block("b1", "Upstream Gate", graph.BlockAND, []string{"in1"}, []string{"out"}))
	doc.AddNode(block("b2", "Downstream Gate", graph.BlockNOT, []string{"in"}, []string{"out"}))
	doc.AddEdge(graph.Edge{ID: "e1", SourceNodeID: "b1", SourceHandle: "out", TargetNodeID: "b2", TargetHandle: "in"})

	text, err := Generate(doc)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	var cfg Config
	if err := yaml.Unmarshal([]byte(text), &cfg); err != nil {
		t.Fatalf("parse: %v", err)
	}

	var downstream *BlockEntry
	for i := range cfg.Blocks {
		if cfg.Blocks[i].Name == "downstream_gate" {
			downstream = &cfg.Blocks[i]
		}
	}
	if downstream == nil {
		t.Fatalf("downstream block missing: %+v", cfg.Blocks)
	}
	if bound, _ := downstream.Inputs.Get("in"); bound != "upstream_gate" {
		t.Errorf("block-to-block wire named %q, want upstream_gate", bound)
	}
}

func TestGenerate_TwilioAggregation(t *testing.T) {
	doc := &graph.Document{}
	doc.AddNode(signal("s1", "Overflow", graph.SignalBool, graph.BoolInitial(false)))
	doc.AddNode(graph.Node{ID: "tw1", Kind: graph.KindTwilio, Payload: &graph.TwilioPayload{
		Label: "Call shift lead", Configured: true, ActionType: graph.ActionCall,
		ToNumber: "+15551230001", Content: "overflow",
	}})
	doc.AddNode(graph.Node{ID: "tw2", Kind: graph.KindTwilio, Payload: &graph.TwilioPayload{
		Label: "Text maintenance", Configured: true, ActionType: graph.ActionSMS,
		ToNumber: "+15551230002", Content: "overflow",
	}})
	doc.AddNode(graph.Node{ID: "tw3", Kind: graph.KindTwilio, Payload: &graph.TwilioPayload{
		Label: "Unconfigured", ActionType: graph.ActionSMS,
	}})
	doc.AddEdge(graph.Edge{ID: "e1", SourceNodeID: "s1", TargetNodeID: "tw1"})

	text, err := Generate(doc)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	var cfg Config
	if err := yaml.Unmarshal([]byte(text), &cfg); err != nil {
		t.Fatalf("parse: %v", err)
	}

	if cfg.Twilio == nil {
		t.Fatal("twilio section missing")
	}
	if cfg.Twilio.FromNumber != PlaceholderFromNumber {
		t.Errorf("from_number = %q", cfg.Twilio.FromNumber)
	}
	if len(cfg.Twilio.Actions) != 2 {
		t.Fatalf("got %d actions, want 2 (unconfigured node excluded)", len(cfg.Twilio.Actions))
	}
	if cfg.Twilio.Actions[0].TriggerSignal != "overflow" {
		t.Errorf("wired trigger = %q, want overflow", cfg.Twilio.Actions[0].TriggerSignal)
	}
	if cfg.Twilio.Actions[1].TriggerSignal != UnknownTrigger {
		t.Errorf("unwired trigger = %q, want %q", cfg.Twilio.Actions[1].TriggerSignal, UnknownTrigger)
	}
	if cfg.Twilio.Actions[0].CooldownSeconds != DefaultCooldownSeconds {
		t.Errorf("cooldown = %d", cfg.Twilio.Actions[0].CooldownSeconds)
	}
}

func TestGenerate_MQTTFirstConfiguredOnly(t *testing.T) {
	doc := &graph.Document{}
	doc.AddNode(graph.Node{ID: "m1", Kind: graph.KindMQTT, Payload: &graph.MQTTPayload{
		Label: "Skipped", BrokerHost: "skip.local", BrokerPort: 1883, ClientID: "a", TopicPrefix: "p",
	}})
	doc.AddNode(graph.Node{ID: "m2", Kind: graph.KindMQTT, Payload: &graph.MQTTPayload{
		Label: "First", Configured: true, BrokerHost: "one.local", BrokerPort: 1883,
		ClientID: "one", TopicPrefix: "plant", PublishOnChange: true,
	}})
	doc.AddNode(graph.Node{ID: "m3", Kind: graph.KindMQTT, Payload: &graph.MQTTPayload{
		Label: "Second", Configured: true, BrokerHost: "two.local", BrokerPort: 1884,
		ClientID: "two", TopicPrefix: "plant2",
	}})

	text, err := Generate(doc)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	var cfg Config
	if err := yaml.Unmarshal([]byte(text), &cfg); err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.MQTT == nil {
		t.Fatal("mqtt section missing")
	}
	if cfg.MQTT.BrokerHost != "one.local" || !cfg.MQTT.PublishOnChange {
		t.Errorf("mqtt = %+v, want first configured node", cfg.MQTT)
	}
}

func TestGenerate_S7Aggregation(t *testing.T) {
	doc := &graph.Document{}
	doc.AddNode(graph.Node{ID: "p1", Kind: graph.KindS7, Payload: &graph.S7Payload{
		Label: "Valve", Configured: true, IP: "10.0.0.5", Rack: 0, Slot: 2,
		Area: graph.AreaDB, DBNumber: 5, Address: 0, DataType: graph.S7Bool, Bit: 3,
		Direction: graph.ModeRead, Signal: "valve_open",
	}})
	doc.AddNode(graph.Node{ID: "p2", Kind: graph.KindS7, Payload: &graph.S7Payload{
		Label: "Speed", Configured: true, IP: "10.0.0.99", Rack: 1, Slot: 3,
		Area: graph.AreaM, Address: 20, DataType: graph.S7Real,
		Direction: graph.ModeWrite, Signal: "motor_speed",
	}})

	text, err := Generate(doc)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	var cfg Config
	if err := yaml.Unmarshal([]byte(text), &cfg); err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.S7 == nil {
		t.Fatal("s7 section missing")
	}
	// Connection settings come from the first configured node
	if cfg.S7.IP != "10.0.0.5" || cfg.S7.Rack != 0 || cfg.S7.Slot != 2 {
		t.Errorf("connection = %+v, want first node's ip/rack/slot", cfg.S7)
	}
	if cfg.S7.PollIntervalMS != DefaultPollIntervalMS {
		t.Errorf("poll_interval_ms = %d", cfg.S7.PollIntervalMS)
	}
	if len(cfg.S7.Mappings) != 2 {
		t.Fatalf("got %d mappings, want 2", len(cfg.S7.Mappings))
	}
	first := cfg.S7.Mappings[0]
	if first.Signal != "valve_open" || first.Bit == nil || *first.Bit != 3 {
		t.Errorf("bool mapping = %+v, want bit 3", first)
	}
	second := cfg.S7.Mappings[1]
	if second.Bit != nil {
		t.Errorf("non-bool mapping carries bit: %+v", second)
	}
	if second.DBNumber != 0 {
		t.Errorf("non-DB mapping carries db_number: %+v", second)
	}
}

func TestGenerate_EmptyDocument(t *testing.T) {
	text, err := Generate(&graph.Document{})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	var cfg Config
	if err := yaml.Unmarshal([]byte(text), &cfg); err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.Twilio != nil || cfg.MQTT != nil || cfg.S7 != nil {
		t.Error("optional sections emitted for empty document")
	}
	if cfg.ScanTimeMS != DefaultScanTimeMS {
		t.Errorf("scan_time_ms = %d", cfg.ScanTimeMS)
	}
}
