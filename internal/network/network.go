// Package network implements connection validation and signal propagation
// over a device.Catalog: make-connection semantics, the check-network
// completeness test, and execute-network's iterative propagate-to-fixed-point
// algorithm with oscillation detection.
package network

import (
	"github.com/keurnel/logsim/internal/devices"
	"github.com/keurnel/logsim/internal/diag"
	"github.com/keurnel/logsim/internal/names"
)

// maxPropagationPasses bounds how many full device sweeps execute-network
// will attempt before concluding the circuit oscillates. A combinational
// circuit with n devices settles in at most n passes; a few
// extra passes absorb devices sitting on real feedback loops one extra round
// before giving up.
const maxPropagationPasses = 64

// Network owns every connection between devices and drives propagation.
type Network struct {
	devices *devices.Catalog
	diag    *diag.Catalogue

	connected map[names.ID]map[string]bool // dst device -> dst port -> connected
	edgesFrom map[names.ID][]names.ID      // driver device -> dependent devices
}

// New returns an empty Network over cat, reporting errors through diagCat.
func New(cat *devices.Catalog, diagCat *diag.Catalogue) *Network {
	return &Network{
		devices:   cat,
		diag:      diagCat,
		connected: make(map[names.ID]map[string]bool),
		edgesFrom: make(map[names.ID][]names.ID),
	}
}

// MakeConnection wires srcPort of src to dstPort of dst, validating every
// connection rule plus the DTYPE-adjacent rules enforced at the point of
// connection: a DTYPE's CLK input must come from a CLOCK, and an RC may only
// ever drive a DTYPE's SET or CLEAR. Returns (0, true) on success, or the
// diag.Code to report otherwise.
func (n *Network) MakeConnection(src names.ID, srcPort string, dst names.ID, dstPort string) (diag.Code, bool) {
	srcDev, ok := n.devices.Get(src)
	if !ok {
		return n.diag.DeviceAbsent, false
	}
	dstDev, ok := n.devices.Get(dst)
	if !ok {
		return n.diag.DeviceAbsent, false
	}

	switch {
	case srcDev.IsOutputPort(srcPort):
		// src correctly names an output; fall through.
	case srcDev.IsInputPort(srcPort):
		return n.diag.InputToInput, false
	default:
		return n.diag.PortAbsent, false
	}

	switch {
	case dstDev.IsInputPort(dstPort):
		// dst correctly names an input; fall through.
	case dstDev.IsOutputPort(dstPort):
		return n.diag.OutputToOutput, false
	default:
		return n.diag.PortAbsent, false
	}

	if n.connected[dst][dstPort] {
		return n.diag.InputConnected, false
	}

	if dstDev.Kind == devices.Dtype && dstPort == devices.PortClk && srcDev.Kind != devices.Clock {
		return n.diag.NotClockToClk, false
	}
	if srcDev.Kind == devices.RC {
		okTarget := dstDev.Kind == devices.Dtype && (dstPort == devices.PortSet || dstPort == devices.PortClear)
		if !okTarget {
			return n.diag.NotRCToDType, false
		}
	}

	dstDev.Inputs[dstPort] = devices.Driver{Device: src, Port: srcPort}
	if n.connected[dst] == nil {
		n.connected[dst] = make(map[string]bool)
	}
	n.connected[dst][dstPort] = true
	n.edgesFrom[src] = append(n.edgesFrom[src], dst)

	return 0, true
}

// CheckNetwork reports whether every device input in the catalogue has a
// driver, and the IDs of any devices left with an unconnected input — used
// by the parser to raise one UNUSED_INPUTS per such device, after all three
// phases have parsed without errors.
func (n *Network) CheckNetwork() (ok bool, incomplete []names.ID) {
	for _, d := range n.devices.All() {
		for port := range d.Inputs {
			if !d.HasDriver(port) {
				incomplete = append(incomplete, d.ID)
				break
			}
		}
	}
	return len(incomplete) == 0, incomplete
}

// ExecuteNetwork runs one simulated cycle: every sequential device advances
// once, then combinational outputs propagate to a fixed point, then
// transient RISING/FALLING levels settle to HIGH/LOW. It reports false if
// the network fails to settle within maxPropagationPasses, which counts as
// oscillation.
func (n *Network) ExecuteNetwork() bool {
	order := n.order()

	driverLevel := func(drv devices.Driver) devices.Level {
		d, ok := n.devices.Get(drv.Device)
		if !ok {
			return devices.Low
		}
		return d.Outputs[drv.Port]
	}

	snapshot := n.snapshotOutputs()

	for pass := 0; pass < maxPropagationPasses; pass++ {
		for i, id := range order.order {
			d, ok := n.devices.Get(id)
			if !ok {
				continue
			}
			devices.Evaluate(d, driverLevel, pass == 0 && !d.DtypeAdvanced)
			if pass == 0 {
				d.DtypeAdvanced = true
			}
			_ = i
		}

		current := n.snapshotOutputs()
		if outputsEqual(snapshot, current) {
			n.settleAndReset()
			return true
		}
		snapshot = current
	}

	n.settleAndReset()
	return false
}

func (n *Network) settleAndReset() {
	for _, d := range n.devices.All() {
		devices.SettleTransients(d)
		d.DtypeAdvanced = false
	}
}

func (n *Network) snapshotOutputs() map[names.ID]map[string]devices.Level {
	out := make(map[names.ID]map[string]devices.Level, len(n.devices.All()))
	for _, d := range n.devices.All() {
		ports := make(map[string]devices.Level, len(d.Outputs))
		for port, level := range d.Outputs {
			ports[port] = level
		}
		out[d.ID] = ports
	}
	return out
}

func outputsEqual(a, b map[names.ID]map[string]devices.Level) bool {
	for id, ports := range a {
		for port, level := range ports {
			if b[id][port] != level {
				return false
			}
		}
	}
	return true
}

func (n *Network) order() evaluationOrder {
	declared := make([]names.ID, len(n.devices.All()))
	for i, d := range n.devices.All() {
		declared[i] = d.ID
	}
	return buildEvaluationOrder(declared, n.edgesFrom)
}
