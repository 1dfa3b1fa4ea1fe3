// Package runtimecfg compiles a control-logic document to the textual
// configuration consumed by the external control runtime, and parses such
// text back into a document.
//
// The two directions are not perfectly symmetric. The generator can name a
// block-to-block wire after the upstream block's label without declaring a
// signal entry for it; the parser only resolves names that appear under
// signals, so such wires are reported as warnings and dropped. Documents
// whose block ports are wired exclusively to signal nodes round-trip
// losslessly (ignoring node ids and canvas positions).
package runtimecfg

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Fixed values emitted into every generated config.
const (
	DefaultScanTimeMS      = 100
	DefaultCooldownSeconds = 60
	DefaultPollIntervalMS  = 500
	PlaceholderFromNumber  = "+10000000000"
	UnknownTrigger         = "unknown_trigger"

	// PortTypeUnknown is assigned to ports reconstructed from config
	// text, which does not carry port types.
	PortTypeUnknown = "any"
)

// Config is the root of the wire format. Field order here is the emission
// order; downstream tooling diffs this text, so it must stay stable.
type Config struct {
	Signals    []SignalEntry  `yaml:"signals"`
	Blocks     []BlockEntry   `yaml:"blocks"`
	ScanTimeMS int            `yaml:"scan_time_ms"`
	Twilio     *TwilioSection `yaml:"twilio,omitempty"`
	MQTT       *MQTTSection   `yaml:"mqtt,omitempty"`
	S7         *S7Section     `yaml:"s7,omitempty"`
}

// SignalEntry declares one named typed value.
type SignalEntry struct {
	Name    string `yaml:"name"`
	Type    string `yaml:"type"`
	Initial any    `yaml:"initial"`
}

// BlockEntry declares one logic block and the signal names wired to its
// ports.
type BlockEntry struct {
	Name    string             `yaml:"name"`
	Type    string             `yaml:"type"`
	Inputs  PortMap            `yaml:"inputs"`
	Outputs PortMap            `yaml:"outputs"`
	Params  map[string]float64 `yaml:"params,omitempty"`
}

// TwilioSection aggregates all alert actions under one sender number.
type TwilioSection struct {
	FromNumber string        `yaml:"from_number"`
	Actions    []TwilioEntry `yaml:"actions"`
}

// TwilioEntry is one SMS/voice action bound to a trigger signal.
type TwilioEntry struct {
	Name            string `yaml:"name"`
	TriggerSignal   string `yaml:"trigger_signal"`
	ActionType      string `yaml:"action_type"`
	ToNumber        string `yaml:"to_number"`
	Content         string `yaml:"content"`
	CooldownSeconds int    `yaml:"cooldown_seconds"`
}

// MQTTSection is the single representable broker connection.
type MQTTSection struct {
	BrokerHost      string `yaml:"broker_host"`
	BrokerPort      int    `yaml:"broker_port"`
	ClientID        string `yaml:"client_id"`
	TopicPrefix     string `yaml:"topic_prefix"`
	PublishOnChange bool   `yaml:"publish_on_change"`
}

// S7Section is the single PLC connection plus its signal mappings.
type S7Section struct {
	IP             string      `yaml:"ip"`
	Rack           int         `yaml:"rack"`
	Slot           int         `yaml:"slot"`
	PollIntervalMS int         `yaml:"poll_interval_ms"`
	Mappings       []S7Mapping `yaml:"mappings"`
}

// S7Mapping binds one runtime signal to a PLC address.
type S7Mapping struct {
	Signal    string `yaml:"signal"`
	Area      string `yaml:"area"`
	DBNumber  int    `yaml:"db_number,omitempty"`
	Address   int    `yaml:"address"`
	DataType  string `yaml:"data_type"`
	Direction string `yaml:"direction"`
	Bit       *int   `yaml:"bit,omitempty"`
}

// PortMap is an insertion-ordered string map. Blocks emit their ports in
// declaration order, and yaml map key order is how that order survives.
type PortMap struct {
	keys   []string
	values map[string]string
}

// Set adds or replaces a port binding, preserving first-insertion order.
func (m *PortMap) Set(port, signal string) {
	if m.values == nil {
		m.values = make(map[string]string)
	}
	if _, exists := m.values[port]; !exists {
		m.keys = append(m.keys, port)
	}
	m.values[port] = signal
}

// Get returns the signal bound to a port.
func (m *PortMap) Get(port string) (string, bool) {
	v, ok := m.values[port]
	return v, ok
}

// Keys returns the port names in insertion order.
func (m *PortMap) Keys() []string { return m.keys }

// Len returns the number of bindings.
func (m *PortMap) Len() int { return len(m.keys) }

// MarshalYAML emits the map as an ordered yaml mapping node.
func (m PortMap) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, k := range m.keys {
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: k},
			&yaml.Node{Kind: yaml.ScalarNode, Value: m.values[k]},
		)
	}
	return node, nil
}

// UnmarshalYAML decodes a yaml mapping, keeping document key order.
func (m *PortMap) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: ports must be a mapping", node.Line)
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		m.Set(node.Content[i].Value, node.Content[i+1].Value)
	}
	return nil
}
