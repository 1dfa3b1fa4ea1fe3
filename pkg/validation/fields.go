package validation

import (
	"fmt"
	"strings"

	"github.com/mhaugen/flowforge/pkg/graph"
)

// Field bounds from the runtime's accepted ranges.
const (
	MaxDelayPresetMS = 3_600_000
	MaxSMSContentLen = 1600
	MaxGeneratorFreq = 100.0
	DelayPresetParam = "preset_ms"
	GeneratorFreq    = "frequency"
	GeneratorAmp     = "amplitude"
)

// ValidateFields checks a node's payload against the per-kind rules and
// returns the first violation as a single operator-readable message.
func ValidateFields(node graph.Node) Result {
	switch p := node.Payload.(type) {
	case *graph.SignalPayload:
		return validateSignal(p)
	case *graph.BlockPayload:
		return validateBlock(p)
	case *graph.MQTTPayload:
		return validateMQTT(p)
	case *graph.S7Payload:
		return validateS7(p)
	case *graph.TwilioPayload:
		return validateTwilio(p)
	case *graph.ModbusPayload:
		return validateModbus(p)
	case *graph.EmailPayload:
		return validateEmail(p)
	case *graph.AlarmPayload:
		return validateAlarm(p)
	case *graph.ContactPayload:
		return validateContact(p)
	default:
		return fail(fmt.Sprintf("Unknown node kind %q", node.Kind))
	}
}

func validateSignal(p *graph.SignalPayload) Result {
	if strings.TrimSpace(p.Label) == "" {
		return fail("Label is required")
	}
	if !p.SignalType.Valid() {
		return fail("Signal type must be bool, int, or float")
	}
	return ok()
}

func validateBlock(p *graph.BlockPayload) Result {
	if strings.TrimSpace(p.Label) == "" {
		return fail("Label is required")
	}
	switch p.BlockType {
	case graph.BlockOnDelay, graph.BlockTON, graph.BlockOffDelay, graph.BlockTOF:
		preset := p.Params[DelayPresetParam]
		if preset < 0 || preset > MaxDelayPresetMS {
			return fail(fmt.Sprintf("Delay preset must be between 0 and %d ms", MaxDelayPresetMS))
		}
	case graph.BlockDataGen:
		freq := p.Params[GeneratorFreq]
		if freq < 0 || freq > MaxGeneratorFreq {
			return fail("Frequency must be between 0 and 100")
		}
		if p.Params[GeneratorAmp] <= 0 {
			return fail("Amplitude must be greater than 0")
		}
	}
	return ok()
}

func validateTwilio(p *graph.TwilioPayload) Result {
	if err := validate.Var(p.ToNumber, "required,e164"); err != nil {
		return fail("Phone number must be in E.164 format (e.g. +15551234567)")
	}
	if p.Content == "" {
		return fail("Message content is required")
	}
	if len(p.Content) > MaxSMSContentLen {
		return fail(fmt.Sprintf("Message content must be %d characters or fewer", MaxSMSContentLen))
	}
	return ok()
}

func validateMQTT(p *graph.MQTTPayload) Result {
	if strings.TrimSpace(p.BrokerHost) == "" {
		return fail("Broker host is required")
	}
	if p.BrokerPort < 1 || p.BrokerPort > 65535 {
		return fail("Broker port must be between 1 and 65535")
	}
	if strings.TrimSpace(p.ClientID) == "" {
		return fail("Client ID is required")
	}
	if strings.TrimSpace(p.TopicPrefix) == "" {
		return fail("Topic prefix is required")
	}
	if strings.ContainsAny(p.TopicPrefix, "#+") {
		return fail("Topic prefix must not contain MQTT wildcards (# or +)")
	}
	return ok()
}

func validateS7(p *graph.S7Payload) Result {
	if strings.TrimSpace(p.Signal) == "" {
		return fail("Signal name is required")
	}
	if err := validate.Var(p.IP, "required,ipv4"); err != nil {
		return fail("IP address must be a valid IPv4 address")
	}
	if p.Rack < 0 || p.Rack > 7 {
		return fail("Rack must be between 0 and 7")
	}
	if p.Slot < 0 || p.Slot > 31 {
		return fail("Slot must be between 0 and 31")
	}
	if p.Area == graph.AreaDB && p.DBNumber < 1 {
		return fail("DB number must be at least 1")
	}
	if p.Address < 0 {
		return fail("Address must be non-negative")
	}
	if p.DataType == graph.S7Bool && (p.Bit < 0 || p.Bit > 7) {
		return fail("Bit must be between 0 and 7")
	}
	return ok()
}

func validateModbus(p *graph.ModbusPayload) Result {
	if strings.TrimSpace(p.Host) == "" {
		return fail("Host is required")
	}
	if p.Port < 1 || p.Port > 65535 {
		return fail("Port must be between 1 and 65535")
	}
	if p.UnitID < 0 || p.UnitID > 247 {
		return fail("Unit ID must be between 0 and 247")
	}
	if p.Register < 0 {
		return fail("Register must be non-negative")
	}
	return ok()
}

func validateEmail(p *graph.EmailPayload) Result {
	if err := validate.Var(p.To, "required,email"); err != nil {
		return fail("Recipient must be a valid email address")
	}
	if strings.TrimSpace(p.Subject) == "" {
		return fail("Subject is required")
	}
	return ok()
}

func validateAlarm(p *graph.AlarmPayload) Result {
	if strings.TrimSpace(p.Message) == "" {
		return fail("Alarm message is required")
	}
	switch p.Severity {
	case "info", "warning", "critical":
		return ok()
	default:
		return fail("Severity must be info, warning, or critical")
	}
}

func validateContact(p *graph.ContactPayload) Result {
	if strings.TrimSpace(p.Name) == "" {
		return fail("Contact name is required")
	}
	if err := validate.Var(p.Number, "required,e164"); err != nil {
		return fail("Contact number must be in E.164 format")
	}
	return ok()
}
