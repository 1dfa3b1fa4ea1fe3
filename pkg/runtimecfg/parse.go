package runtimecfg

import (
	"gopkg.in/yaml.v3"

	"github.com/mhaugen/flowforge/pkg/graph"
)

// Layout constants for reconstructed nodes. The config text carries no
// canvas positions, so nodes come back in fixed columns.
const (
	columnSignals  = 100.0
	columnBlocks   = 400.0
	columnAdapters = 700.0
	rowTop         = 80.0
	rowSpacing     = 120.0
)

// Parse reads runtime config text back into a document. Missing top-level
// keys are treated as empty. Port references that resolve to a declared
// signal become edges; references that do not resolve (e.g. a wire named
// after an upstream block, see Generate) are dropped and reported as
// warnings. Malformed yaml returns a ParseError and no document.
func Parse(text string) (*graph.Document, []Warning, error) {
	var cfg Config
	if err := yaml.Unmarshal([]byte(text), &cfg); err != nil {
		return nil, nil, &ParseError{Cause: err}
	}

	doc := &graph.Document{}
	var warnings []Warning

	signalByName := make(map[string]string, len(cfg.Signals))
	for i, entry := range cfg.Signals {
		initial, err := graph.InitialFrom(entry.Initial)
		if err != nil {
			return nil, nil, &ParseError{Cause: err}
		}
		node := graph.Node{
			ID:       graph.NewID(),
			Kind:     graph.KindSignal,
			Position: graph.Position{X: columnSignals, Y: rowTop + rowSpacing*float64(i)},
			Payload: &graph.SignalPayload{
				Label:      entry.Name,
				SignalType: graph.SignalType(entry.Type),
				Initial:    initial,
				Mode:       graph.SignalRead,
			},
		}
		doc.AddNode(node)
		signalByName[entry.Name] = node.ID
	}

	for i, entry := range cfg.Blocks {
		payload := &graph.BlockPayload{
			Label:     entry.Name,
			BlockType: entry.Type,
			Params:    entry.Params,
		}
		for _, port := range entry.Inputs.Keys() {
			payload.Inputs = append(payload.Inputs, graph.Port{Name: port, Type: PortTypeUnknown})
		}
		for _, port := range entry.Outputs.Keys() {
			payload.Outputs = append(payload.Outputs, graph.Port{Name: port, Type: PortTypeUnknown})
		}
		node := graph.Node{
			ID:       graph.NewID(),
			Kind:     graph.KindBlock,
			Position: graph.Position{X: columnBlocks, Y: rowTop + rowSpacing*float64(i)},
			Payload:  payload,
		}
		doc.AddNode(node)

		for _, port := range entry.Inputs.Keys() {
			signal, _ := entry.Inputs.Get(port)
			sourceID, ok := signalByName[signal]
			if !ok {
				warnings = append(warnings, Warning{Block: entry.Name, Port: port, Signal: signal})
				continue
			}
			doc.Edges = append(doc.Edges, graph.Edge{
				ID:           graph.NewID(),
				SourceNodeID: sourceID,
				TargetNodeID: node.ID,
				TargetHandle: port,
			})
		}
		for _, port := range entry.Outputs.Keys() {
			signal, _ := entry.Outputs.Get(port)
			targetID, ok := signalByName[signal]
			if !ok {
				warnings = append(warnings, Warning{Block: entry.Name, Port: port, Signal: signal})
				continue
			}
			doc.Edges = append(doc.Edges, graph.Edge{
				ID:           graph.NewID(),
				SourceNodeID: node.ID,
				SourceHandle: port,
				TargetNodeID: targetID,
			})
		}
	}

	parseAdapters(&cfg, doc, signalByName)
	return doc, warnings, nil
}

// parseAdapters reconstructs protocol nodes from the optional top-level
// sections, marking them configured. A twilio action whose trigger signal
// is declared also gets its triggering wire back.
func parseAdapters(cfg *Config, doc *graph.Document, signalByName map[string]string) {
	row := 0
	place := func() graph.Position {
		p := graph.Position{X: columnAdapters, Y: rowTop + rowSpacing*float64(row)}
		row++
		return p
	}

	if cfg.MQTT != nil {
		doc.AddNode(graph.Node{
			ID:       graph.NewID(),
			Kind:     graph.KindMQTT,
			Position: place(),
			Payload: &graph.MQTTPayload{
				Label:           "MQTT Broker",
				Configured:      true,
				BrokerHost:      cfg.MQTT.BrokerHost,
				BrokerPort:      cfg.MQTT.BrokerPort,
				ClientID:        cfg.MQTT.ClientID,
				TopicPrefix:     cfg.MQTT.TopicPrefix,
				Mode:            graph.ModeReadWrite,
				PublishOnChange: cfg.MQTT.PublishOnChange,
			},
		})
	}

	if cfg.S7 != nil {
		for _, mapping := range cfg.S7.Mappings {
			payload := &graph.S7Payload{
				Label:      mapping.Signal,
				Configured: true,
				IP:         cfg.S7.IP,
				Rack:       cfg.S7.Rack,
				Slot:       cfg.S7.Slot,
				Area:       graph.S7Area(mapping.Area),
				DBNumber:   mapping.DBNumber,
				Address:    mapping.Address,
				DataType:   graph.S7DataType(mapping.DataType),
				Direction:  graph.AdapterMode(mapping.Direction),
				Signal:     mapping.Signal,
			}
			if mapping.Bit != nil {
				payload.Bit = *mapping.Bit
			}
			doc.AddNode(graph.Node{
				ID:       graph.NewID(),
				Kind:     graph.KindS7,
				Position: place(),
				Payload:  payload,
			})
		}
	}

	if cfg.Twilio != nil {
		for _, action := range cfg.Twilio.Actions {
			node := graph.Node{
				ID:       graph.NewID(),
				Kind:     graph.KindTwilio,
				Position: place(),
				Payload: &graph.TwilioPayload{
					Label:      action.Name,
					Configured: true,
					ActionType: graph.TwilioAction(action.ActionType),
					ToNumber:   action.ToNumber,
					Content:    action.Content,
				},
			}
			doc.AddNode(node)
			if sourceID, ok := signalByName[action.TriggerSignal]; ok {
				doc.Edges = append(doc.Edges, graph.Edge{
					ID:           graph.NewID(),
					SourceNodeID: sourceID,
					TargetNodeID: node.ID,
				})
			}
		}
	}
}
