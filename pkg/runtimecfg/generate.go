package runtimecfg

import (
	"bytes"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/mhaugen/flowforge/pkg/graph"
	"github.com/mhaugen/flowforge/pkg/naming"
)

// Generate compiles a document into the runtime's textual configuration.
// It is deterministic: node order, declared port order, and the fixed
// section order of Config fully determine the output text.
//
// Canonical signal names must be unique case-insensitively; a collision
// aborts generation with ErrDuplicateSignalName.
func Generate(doc *graph.Document) (string, error) {
	names := newNameTable(doc)

	cfg := Config{
		Signals:    []SignalEntry{},
		Blocks:     []BlockEntry{},
		ScanTimeMS: DefaultScanTimeMS,
	}

	seen := make(map[string]string) // lowercase name -> node id
	for _, n := range doc.NodesOfKind(graph.KindSignal) {
		sig := n.Payload.(*graph.SignalPayload)
		name := names.canonical(n.ID)
		folded := strings.ToLower(name)
		if _, dup := seen[folded]; dup {
			return "", &graph.GraphError{Op: "Generate", Entity: "node", ID: n.ID, Cause: graph.ErrDuplicateName, Context: name}
		}
		seen[folded] = n.ID
		cfg.Signals = append(cfg.Signals, SignalEntry{
			Name:    name,
			Type:    string(sig.SignalType),
			Initial: sig.Initial.Value(),
		})
	}

	for _, n := range doc.NodesOfKind(graph.KindBlock) {
		block := n.Payload.(*graph.BlockPayload)
		entry := BlockEntry{
			Name: names.canonical(n.ID),
			Type: block.BlockType,
		}
		for _, port := range block.Inputs {
			if edge, ok := doc.EdgeInto(n.ID, port.Name); ok {
				entry.Inputs.Set(port.Name, names.canonical(edge.SourceNodeID))
			}
		}
		for _, port := range block.Outputs {
			if edge, ok := doc.EdgeOutOf(n.ID, port.Name); ok {
				entry.Outputs.Set(port.Name, names.canonical(edge.TargetNodeID))
			}
		}
		if len(block.Params) > 0 {
			entry.Params = block.Params
		}
		cfg.Blocks = append(cfg.Blocks, entry)
	}

	cfg.Twilio = generateTwilio(doc, names)
	cfg.MQTT = generateMQTT(doc)
	cfg.S7 = generateS7(doc)

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return "", err
	}
	if err := enc.Close(); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// generateTwilio aggregates every configured twilio node into one actions
// list under a placeholder sender number. The trigger is the canonical
// name of whatever feeds the node; an unwired action gets a placeholder
// the runtime will refuse, which is preferable to silently dropping it.
func generateTwilio(doc *graph.Document, names *nameTable) *TwilioSection {
	var actions []TwilioEntry
	for _, n := range doc.NodesOfKind(graph.KindTwilio) {
		tw := n.Payload.(*graph.TwilioPayload)
		if !tw.Configured {
			continue
		}
		trigger := UnknownTrigger
		if edge, ok := doc.EdgeInto(n.ID, ""); ok {
			trigger = names.canonical(edge.SourceNodeID)
		}
		actions = append(actions, TwilioEntry{
			Name:            names.canonical(n.ID),
			TriggerSignal:   trigger,
			ActionType:      string(tw.ActionType),
			ToNumber:        tw.ToNumber,
			Content:         tw.Content,
			CooldownSeconds: DefaultCooldownSeconds,
		})
	}
	if len(actions) == 0 {
		return nil
	}
	return &TwilioSection{FromNumber: PlaceholderFromNumber, Actions: actions}
}

// generateMQTT emits the single representable broker connection, taken
// from the first configured mqtt node in document order.
func generateMQTT(doc *graph.Document) *MQTTSection {
	for _, n := range doc.NodesOfKind(graph.KindMQTT) {
		mq := n.Payload.(*graph.MQTTPayload)
		if !mq.Configured {
			continue
		}
		return &MQTTSection{
			BrokerHost:      mq.BrokerHost,
			BrokerPort:      mq.BrokerPort,
			ClientID:        mq.ClientID,
			TopicPrefix:     mq.TopicPrefix,
			PublishOnChange: mq.PublishOnChange,
		}
	}
	return nil
}

// generateS7 aggregates every configured s7 node into one PLC connection
// (ip/rack/slot from the first) plus one mapping per node.
func generateS7(doc *graph.Document) *S7Section {
	var section *S7Section
	for _, n := range doc.NodesOfKind(graph.KindS7) {
		s7 := n.Payload.(*graph.S7Payload)
		if !s7.Configured {
			continue
		}
		if section == nil {
			section = &S7Section{
				IP:             s7.IP,
				Rack:           s7.Rack,
				Slot:           s7.Slot,
				PollIntervalMS: DefaultPollIntervalMS,
			}
		}
		mapping := S7Mapping{
			Signal:    s7.Signal,
			Area:      string(s7.Area),
			Address:   s7.Address,
			DataType:  string(s7.DataType),
			Direction: string(s7.Direction),
		}
		if s7.Area == graph.AreaDB {
			mapping.DBNumber = s7.DBNumber
		}
		if s7.DataType == graph.S7Bool {
			bit := s7.Bit
			mapping.Bit = &bit
		}
		section.Mappings = append(section.Mappings, mapping)
	}
	return section
}

// nameTable resolves node ids to canonical names. Signal nodes resolve to
// their normalized label; any other node resolves to its own normalized
// label, which is how the format names a wire that has no declared signal
// entry (a block-to-block connection).
type nameTable struct {
	byID map[string]string
}

func newNameTable(doc *graph.Document) *nameTable {
	t := &nameTable{byID: make(map[string]string, len(doc.Nodes))}
	index := make(map[graph.Kind]int)
	for _, n := range doc.Nodes {
		i := index[n.Kind]
		index[n.Kind] = i + 1
		fallback := naming.Fallback(string(n.Kind), i)
		t.byID[n.ID] = naming.Normalize(graph.PayloadLabel(n.Payload), fallback)
	}
	return t
}

func (t *nameTable) canonical(nodeID string) string {
	return t.byID[nodeID]
}
