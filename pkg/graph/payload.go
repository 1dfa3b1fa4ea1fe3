package graph

// Payload is the kind-specific configuration of a node. It is a sealed
// tagged union: exactly one concrete payload type exists per Kind, and the
// unexported clone method keeps the set closed to this package.
type Payload interface {
	Kind() Kind
	clone() Payload
}

// SignalPayload configures a named typed value acting as a wire endpoint.
type SignalPayload struct {
	Label      string       `json:"label"`
	SignalType SignalType   `json:"signalType"`
	Initial    InitialValue `json:"initial"`
	Mode       SignalMode   `json:"mode"`
}

func (p *SignalPayload) Kind() Kind { return KindSignal }

func (p *SignalPayload) clone() Payload {
	c := *p
	return &c
}

// Port is a named connection point on a block.
type Port struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// BlockPayload configures a logic/math/timer/control unit. Inputs and
// Outputs are ordered: their names are the only valid edge handles on the
// node, and the config generator emits ports in declaration order.
type BlockPayload struct {
	Label     string             `json:"label"`
	BlockType string             `json:"blockType"`
	Inputs    []Port             `json:"inputs"`
	Outputs   []Port             `json:"outputs"`
	Params    map[string]float64 `json:"params,omitempty"`
}

func (p *BlockPayload) Kind() Kind { return KindBlock }

func (p *BlockPayload) clone() Payload {
	c := *p
	c.Inputs = append([]Port(nil), p.Inputs...)
	c.Outputs = append([]Port(nil), p.Outputs...)
	if p.Params != nil {
		c.Params = make(map[string]float64, len(p.Params))
		for k, v := range p.Params {
			c.Params[k] = v
		}
	}
	return &c
}

// InputPort returns the declared input port with the given name.
func (p *BlockPayload) InputPort(name string) (Port, bool) {
	for _, port := range p.Inputs {
		if port.Name == name {
			return port, true
		}
	}
	return Port{}, false
}

// OutputPort returns the declared output port with the given name.
func (p *BlockPayload) OutputPort(name string) (Port, bool) {
	for _, port := range p.Outputs {
		if port.Name == name {
			return port, true
		}
	}
	return Port{}, false
}

// MQTTPayload configures an MQTT broker adapter.
type MQTTPayload struct {
	Label           string      `json:"label"`
	Configured      bool        `json:"configured"`
	BrokerHost      string      `json:"brokerHost"`
	BrokerPort      int         `json:"brokerPort" validate:"omitempty,min=1,max=65535"`
	ClientID        string      `json:"clientId"`
	TopicPrefix     string      `json:"topicPrefix"`
	Username        string      `json:"username,omitempty"`
	Password        string      `json:"password,omitempty"`
	Mode            AdapterMode `json:"mode"`
	PublishOnChange bool        `json:"publishOnChange"`
}

func (p *MQTTPayload) Kind() Kind { return KindMQTT }

func (p *MQTTPayload) clone() Payload {
	c := *p
	return &c
}

// S7Payload configures one Siemens S7 signal mapping. All configured S7
// nodes in a document share a single PLC connection in the generated
// config; ip/rack/slot are taken from the first one.
type S7Payload struct {
	Label      string      `json:"label"`
	Configured bool        `json:"configured"`
	IP         string      `json:"ip" validate:"omitempty,ipv4"`
	Rack       int         `json:"rack" validate:"min=0,max=7"`
	Slot       int         `json:"slot" validate:"min=0,max=31"`
	Area       S7Area      `json:"area"`
	DBNumber   int         `json:"dbNumber"`
	Address    int         `json:"address"`
	DataType   S7DataType  `json:"dataType"`
	Bit        int         `json:"bit"`
	Direction  AdapterMode `json:"direction"`
	Signal     string      `json:"signal"`
}

func (p *S7Payload) Kind() Kind { return KindS7 }

func (p *S7Payload) clone() Payload {
	c := *p
	return &c
}

// TwilioPayload configures an SMS/voice alert action.
type TwilioPayload struct {
	Label      string       `json:"label"`
	Configured bool         `json:"configured"`
	ActionType TwilioAction `json:"actionType"`
	ToNumber   string       `json:"toNumber" validate:"omitempty,e164"`
	Content    string       `json:"content" validate:"max=1600"`
}

func (p *TwilioPayload) Kind() Kind { return KindTwilio }

func (p *TwilioPayload) clone() Payload {
	c := *p
	return &c
}

// ModbusPayload configures a Modbus TCP register adapter.
type ModbusPayload struct {
	Label      string      `json:"label"`
	Configured bool        `json:"configured"`
	Host       string      `json:"host"`
	Port       int         `json:"port" validate:"omitempty,min=1,max=65535"`
	UnitID     int         `json:"unitId" validate:"min=0,max=247"`
	Register   int         `json:"register"`
	Direction  AdapterMode `json:"direction"`
}

func (p *ModbusPayload) Kind() Kind { return KindModbus }

func (p *ModbusPayload) clone() Payload {
	c := *p
	return &c
}

// EmailPayload configures an email alert action.
type EmailPayload struct {
	Label      string `json:"label"`
	Configured bool   `json:"configured"`
	To         string `json:"to" validate:"omitempty,email"`
	Subject    string `json:"subject"`
}

func (p *EmailPayload) Kind() Kind { return KindEmail }

func (p *EmailPayload) clone() Payload {
	c := *p
	return &c
}

// AlarmPayload configures an alarm annunciator entry.
type AlarmPayload struct {
	Label    string `json:"label"`
	Message  string `json:"message"`
	Severity string `json:"severity"`
}

func (p *AlarmPayload) Kind() Kind { return KindAlarm }

func (p *AlarmPayload) clone() Payload {
	c := *p
	return &c
}

// ContactPayload is an address-book entry referenced by alert actions.
type ContactPayload struct {
	Label  string `json:"label"`
	Name   string `json:"name"`
	Number string `json:"number" validate:"omitempty,e164"`
}

func (p *ContactPayload) Kind() Kind { return KindContact }

func (p *ContactPayload) clone() Payload {
	c := *p
	return &c
}

// PayloadLabel returns the user-facing label of any payload. The type
// switch is exhaustive over the sealed payload set.
func PayloadLabel(p Payload) string {
	switch x := p.(type) {
	case *SignalPayload:
		return x.Label
	case *BlockPayload:
		return x.Label
	case *MQTTPayload:
		return x.Label
	case *S7Payload:
		return x.Label
	case *TwilioPayload:
		return x.Label
	case *ModbusPayload:
		return x.Label
	case *EmailPayload:
		return x.Label
	case *AlarmPayload:
		return x.Label
	case *ContactPayload:
		return x.Label
	default:
		return ""
	}
}

// NewPayload returns the zero payload for a kind.
func NewPayload(kind Kind) (Payload, error) {
	switch kind {
	case KindSignal:
		return &SignalPayload{SignalType: SignalBool, Mode: SignalRead}, nil
	case KindBlock:
		return &BlockPayload{}, nil
	case KindMQTT:
		return &MQTTPayload{BrokerPort: 1883, Mode: ModeReadWrite}, nil
	case KindS7:
		return &S7Payload{Area: AreaDB, DBNumber: 1, DataType: S7Bool, Direction: ModeRead}, nil
	case KindTwilio:
		return &TwilioPayload{ActionType: ActionSMS}, nil
	case KindModbus:
		return &ModbusPayload{Port: 502, Direction: ModeRead}, nil
	case KindEmail:
		return &EmailPayload{}, nil
	case KindAlarm:
		return &AlarmPayload{Severity: "warning"}, nil
	case KindContact:
		return &ContactPayload{}, nil
	default:
		return nil, &GraphError{Op: "NewPayload", Entity: "node", Cause: ErrUnknownKind, Context: string(kind)}
	}
}
