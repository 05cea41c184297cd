package devices

import "github.com/keurnel/logsim/internal/names"

// OutputPort is the sole output port key for gates, SWITCH, CLOCK, RC, and
// SIGGEN — these kinds expose a single anonymous output.
const OutputPort = "OUT"

// DTYPE port names.
const (
	PortData  = "DATA"
	PortClk   = "CLK"
	PortSet   = "SET"
	PortClear = "CLEAR"
	PortQ     = "Q"
	PortQBar  = "QBAR"
)

// Driver identifies the (device, output port) pair feeding an input.
type Driver struct {
	Device names.ID
	Port   string
}

// Device is one gate, flip-flop, or source in the circuit. Inputs
// map each input port to its driver (the sentinel Driver{Device: -1} means
// "unset"); Outputs maps each output port to its current level.
type Device struct {
	ID   names.ID
	Kind Kind

	// Qualifier holds the kind-specific configuration integer: fan-in for
	// gates, 0/1 initial state for SWITCH, half-period for CLOCK, pulse
	// length for RC. Unused for XOR, DTYPE, and SIGGEN.
	Qualifier int
	// Pattern holds the SIGGEN waveform string (only set for SIGGEN).
	Pattern string

	Inputs  map[string]Driver
	Outputs map[string]Level

	// Kind-specific mutable state.
	ClockPhase    int  // CLOCK: cycles since the last transition.
	RCElapsed     int  // RC: cycles since cold-startup.
	SiggenStep    int  // SIGGEN: index into Pattern, advances each cycle.
	DtypeAdvanced bool // DTYPE/sequential: whether this device has already
	// advanced its internal state during the current propagation pass; only
	// its first evaluation within a cycle should advance it.
}

// unsetDriver is the sentinel value for an input port with no driver yet.
var unsetDriver = Driver{Device: -1}

// HasDriver reports whether port currently has a driver connected.
func (d *Device) HasDriver(port string) bool {
	drv, ok := d.Inputs[port]
	return ok && drv != unsetDriver
}

// IsOutputPort reports whether port names one of d's output ports.
func (d *Device) IsOutputPort(port string) bool {
	_, ok := d.Outputs[port]
	return ok
}

// IsInputPort reports whether port names one of d's input ports.
func (d *Device) IsInputPort(port string) bool {
	_, ok := d.Inputs[port]
	return ok
}

// inputPorts returns the ordered input port names for kind given qualifier.
func inputPorts(kind Kind, qualifier int) []string {
	switch kind {
	case And, Nand, Or, Nor:
		ports := make([]string, qualifier)
		for i := 0; i < qualifier; i++ {
			ports[i] = gatePortName(i + 1)
		}
		return ports
	case Xor:
		return []string{"I1", "I2"}
	case Dtype:
		return []string{PortData, PortClk, PortSet, PortClear}
	default:
		return nil
	}
}

// outputPorts returns the ordered output port names for kind.
func outputPorts(kind Kind) []string {
	if kind == Dtype {
		return []string{PortQ, PortQBar}
	}
	return []string{OutputPort}
}

func gatePortName(i int) string {
	// I1..I16; built without fmt to keep this on the hot path of make-device
	// for many-input gates allocation-free beyond the single string built.
	const digits = "0123456789"
	if i < 10 {
		return "I" + string(digits[i])
	}
	return "I1" + string(digits[i-10])
}
