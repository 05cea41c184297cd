// Package monitors implements signal-history probes attached to device
// output ports: make-monitor/remove-monitor validation and the per-cycle
// recording used to answer "what did this signal do".
package monitors

import (
	"github.com/keurnel/logsim/internal/devices"
	"github.com/keurnel/logsim/internal/diag"
	"github.com/keurnel/logsim/internal/names"
)

// point identifies one monitored output port.
type point struct {
	device names.ID
	port   string
}

// Monitors holds every active probe and its recorded history, in the order
// monitors were added.
type Monitors struct {
	devices *devices.Catalog
	diag    *diag.Catalogue
	tab     *names.Table

	order   []point
	history map[point][]devices.Level
}

// New returns an empty Monitors set over cat, reporting errors through
// diagCat and resolving display names through tab.
func New(cat *devices.Catalog, diagCat *diag.Catalogue, tab *names.Table) *Monitors {
	return &Monitors{
		devices: cat,
		diag:    diagCat,
		tab:     tab,
		history: make(map[point][]devices.Level),
	}
}

// MakeMonitor attaches a probe to port of device id. The port must exist and
// must be an output (NOT_OUTPUT otherwise), and must not already be
// monitored (MONITOR_PRESENT). startingCycle is how many cycles have already
// run on the simulation this monitor is joining; its history is pre-filled
// with that many BLANK samples so it stays aligned to cycle index with
// monitors that were present from cycle 0. Returns (0, true) on success.
func (m *Monitors) MakeMonitor(id names.ID, port string, startingCycle int) (diag.Code, bool) {
	d, ok := m.devices.Get(id)
	if !ok {
		return m.diag.DeviceAbsent, false
	}
	if !d.IsOutputPort(port) {
		if d.IsInputPort(port) {
			return m.diag.NotOutput, false
		}
		return m.diag.PortAbsent, false
	}

	p := point{device: id, port: port}
	if _, exists := m.history[p]; exists {
		return m.diag.MonitorPresent, false
	}

	m.order = append(m.order, p)
	if startingCycle > 0 {
		blanks := make([]devices.Level, startingCycle)
		for i := range blanks {
			blanks[i] = devices.Blank
		}
		m.history[p] = blanks
	} else {
		m.history[p] = nil
	}
	return 0, true
}

// RemoveMonitor detaches the probe on port of device id, if any. Reports
// false if no such monitor exists.
func (m *Monitors) RemoveMonitor(id names.ID, port string) bool {
	p := point{device: id, port: port}
	if _, ok := m.history[p]; !ok {
		return false
	}
	delete(m.history, p)
	for i, q := range m.order {
		if q == p {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return true
}

// RecordSignals appends the current level of every monitored port to its
// history. Called once per simulated cycle, after execute-network settles.
func (m *Monitors) RecordSignals() {
	for _, p := range m.order {
		d, ok := m.devices.Get(p.device)
		level := devices.Low
		if ok {
			level = d.Outputs[p.port]
		}
		m.history[p] = append(m.history[p], level)
	}
}

// ResetMonitors clears every monitor's recorded history without detaching
// the probes themselves.
func (m *Monitors) ResetMonitors() {
	for p := range m.history {
		m.history[p] = nil
	}
}

// GetSignalNames returns the qualified name ("DEVICE" or "DEVICE.PORT") of
// every active monitor, in the order they were added.
func (m *Monitors) GetSignalNames() []string {
	out := make([]string, len(m.order))
	for i, p := range m.order {
		out[i] = m.qualifiedName(p)
	}
	return out
}

// History returns the recorded levels for the probe on port of device id, or
// nil if no such monitor exists.
func (m *Monitors) History(id names.ID, port string) []devices.Level {
	return m.history[point{device: id, port: port}]
}

// GetMargin returns the width of the longest monitored signal name, used to
// align a text-trace display.
func (m *Monitors) GetMargin() int {
	margin := 0
	for _, p := range m.order {
		if n := len(m.qualifiedName(p)); n > margin {
			margin = n
		}
	}
	return margin
}

func (m *Monitors) qualifiedName(p point) string {
	base, _ := m.tab.StringOf(p.device)
	if p.port == devices.OutputPort {
		return base
	}
	return base + "." + p.port
}
