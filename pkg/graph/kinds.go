// Package graph provides the control-logic diagram data model for flowforge.
//
// A diagram is a Document of typed nodes (signals, logic blocks, protocol
// adapters) connected by edges between named ports. The package defines the
// tagged payload variant for every node kind and enforces the structural
// invariants the rest of the system relies on: edges always reference
// existing nodes and declared ports, duplicate wires are rejected, and
// deleting a node cascades to every edge touching it.
package graph

// Kind identifies the type of a diagram node.
type Kind string

const (
	KindSignal Kind = "signal"
	KindBlock  Kind = "block"
	KindMQTT   Kind = "mqtt"
	KindS7     Kind = "s7"
	KindTwilio Kind = "twilio"

	// Extension kinds. They participate in the graph and in field
	// validation but have no section in the runtime config format.
	KindModbus  Kind = "modbus"
	KindEmail   Kind = "email"
	KindAlarm   Kind = "alarm"
	KindContact Kind = "contact"
)

// Valid reports whether k is a recognized node kind.
func (k Kind) Valid() bool {
	switch k {
	case KindSignal, KindBlock, KindMQTT, KindS7, KindTwilio,
		KindModbus, KindEmail, KindAlarm, KindContact:
		return true
	}
	return false
}

// SignalType is the value type carried by a signal node.
type SignalType string

const (
	SignalBool  SignalType = "bool"
	SignalInt   SignalType = "int"
	SignalFloat SignalType = "float"
)

// Valid reports whether t is a recognized signal type.
func (t SignalType) Valid() bool {
	switch t {
	case SignalBool, SignalInt, SignalFloat:
		return true
	}
	return false
}

// SignalMode says whether the runtime reads or writes a signal.
type SignalMode string

const (
	SignalRead  SignalMode = "read"
	SignalWrite SignalMode = "write"
)

// AdapterMode is the transfer direction of a protocol adapter.
type AdapterMode string

const (
	ModeRead      AdapterMode = "read"
	ModeWrite     AdapterMode = "write"
	ModeReadWrite AdapterMode = "read_write"
)

// S7Area is the Siemens S7 memory area a mapping addresses.
type S7Area string

const (
	AreaDB S7Area = "DB"
	AreaI  S7Area = "I"
	AreaQ  S7Area = "Q"
	AreaM  S7Area = "M"
)

// S7DataType is the PLC-side data type of an S7 mapping.
type S7DataType string

const (
	S7Bool S7DataType = "bool"
	S7Byte S7DataType = "byte"
	S7Word S7DataType = "word"
	S7Int  S7DataType = "int"
	S7DInt S7DataType = "dint"
	S7Real S7DataType = "real"
)

// TwilioAction is the kind of notification a twilio node fires.
type TwilioAction string

const (
	ActionSMS  TwilioAction = "sms"
	ActionCall TwilioAction = "call"
)

// Well-known block types. BlockType is an open string enum: the runtime
// accepts types this list does not name, so the model does too.
const (
	BlockAND      = "AND"
	BlockOR       = "OR"
	BlockNOT      = "NOT"
	BlockXOR      = "XOR"
	BlockGT       = "GT"
	BlockLT       = "LT"
	BlockEQ       = "EQ"
	BlockADD      = "ADD"
	BlockSUB      = "SUB"
	BlockMUL      = "MUL"
	BlockDIV      = "DIV"
	BlockOnDelay  = "ON_DELAY"
	BlockTON      = "TON"
	BlockOffDelay = "OFF_DELAY"
	BlockTOF      = "TOF"
	BlockPID      = "PID"
	BlockDataGen  = "DATA_GENERATOR"
)
