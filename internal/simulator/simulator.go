// Package simulator wires together names, devices, network, monitors,
// scanner, and parser into the single object a CLI or REPL talks to.
package simulator

import (
	"fmt"

	"github.com/keurnel/logsim/internal/debugcontext"
	"github.com/keurnel/logsim/internal/devices"
	"github.com/keurnel/logsim/internal/diag"
	"github.com/keurnel/logsim/internal/monitors"
	"github.com/keurnel/logsim/internal/names"
	"github.com/keurnel/logsim/internal/network"
	"github.com/keurnel/logsim/internal/parser"
	"github.com/keurnel/logsim/internal/sourcetext"
)

// Simulator is one independent circuit — its own Names instance, its own
// device catalogue, network, and monitors. Each simulator owns a private
// Names instance rather than sharing one process-global table, so two
// circuits loaded in the same process never collide on interned IDs.
type Simulator struct {
	Names    *names.Table
	Diag     *diag.Catalogue
	Devices  *devices.Catalog
	Network  *network.Network
	Monitors *monitors.Monitors

	src     sourcetext.Source
	cycles  int
	loaded  bool
}

// New returns an empty Simulator with a fresh Names instance.
func New() *Simulator {
	tab := names.New()
	dc := diag.New(tab)
	cat := devices.New(tab, dc)
	net := network.New(cat, dc)
	mon := monitors.New(cat, dc, tab)
	return &Simulator{Names: tab, Diag: dc, Devices: cat, Network: net, Monitors: mon}
}

// LoadResult reports the outcome of parsing a circuit definition file.
type LoadResult struct {
	Success  bool
	Messages []string
	Summary  string
	Debug    *debugcontext.DebugContext
}

// Load parses the circuit definition file at path and, on success, leaves
// the simulator cold-started and ready to run cycles.
func (s *Simulator) Load(path string) (LoadResult, error) {
	src, err := sourcetext.Load(path)
	if err != nil {
		return LoadResult{}, err
	}
	return s.loadSource(src), nil
}

// LoadString parses content as if it were a circuit definition file named
// name. Used by tests and any in-process caller that already has the text.
func (s *Simulator) LoadString(name, content string) LoadResult {
	return s.loadSource(sourcetext.FromString(name, content))
}

func (s *Simulator) loadSource(src sourcetext.Source) LoadResult {
	s.src = src
	p, err := parser.New(src, s.Names, s.Devices, s.Network, s.Monitors, s.Diag)
	if err != nil {
		return LoadResult{Messages: []string{err.Error()}}
	}

	success := p.ParseNetwork()
	if success {
		s.Devices.ColdStartup()
		s.loaded = true
	}
	return LoadResult{Success: success, Messages: p.Messages, Summary: s.Diag.Summary(), Debug: p.Debug}
}

// Switches returns the IDs of every SWITCH device, in declaration order.
func (s *Simulator) Switches() []names.ID {
	return s.Devices.FindDevices(devices.Switch)
}

// SetSwitch sets the switch's output level. The switch output changes at
// once; the devices it drives see the new level on the next ExecuteCycle.
func (s *Simulator) SetSwitch(id names.ID, level devices.Level) bool {
	return s.Devices.SetSwitch(id, level)
}

// SignalNames returns the qualified names of every monitored signal,
// followed by the qualified names of every other device output available to
// monitor.
func (s *Simulator) SignalNames() (monitored, candidates []string) {
	monitored = s.Monitors.GetSignalNames()
	monitoredSet := make(map[string]bool, len(monitored))
	for _, n := range monitored {
		monitoredSet[n] = true
	}
	for _, d := range s.Devices.All() {
		for port := range d.Outputs {
			name, _ := s.Names.StringOf(d.ID)
			if port != devices.OutputPort {
				name = name + "." + port
			}
			if !monitoredSet[name] {
				candidates = append(candidates, name)
			}
		}
	}
	return monitored, candidates
}

// ColdStartup re-initialises every device's mutable state without reparsing
// the source file.
func (s *Simulator) ColdStartup() {
	s.Devices.ColdStartup()
	s.Monitors.ResetMonitors()
}

// ExecuteCycle runs one simulated cycle and records monitor samples. It
// returns false if the network oscillates instead of settling.
func (s *Simulator) ExecuteCycle() bool {
	s.cycles++
	if !s.Network.ExecuteNetwork() {
		return false
	}
	s.Monitors.RecordSignals()
	return true
}

// ResetMonitors clears every monitor's recorded history.
func (s *Simulator) ResetMonitors() {
	s.Monitors.ResetMonitors()
	s.cycles = 0
}

// AddMonitor attaches a probe to the qualified signal name (e.g. "D1.Q" or
// "SW1"), returning a human-readable error if it cannot be added. If cycles
// have already run, the new monitor's history is padded with that many
// BLANK samples so it stays aligned to cycle index with older monitors.
func (s *Simulator) AddMonitor(qualifiedName string) error {
	id, port, ok := s.Devices.GetSignalIDs(qualifiedName)
	if !ok {
		return fmt.Errorf("simulator: unknown signal %q", qualifiedName)
	}
	if port == "" {
		port = devices.OutputPort
	}
	code, ok := s.Monitors.MakeMonitor(id, port, s.cycles)
	if !ok {
		return fmt.Errorf("simulator: %s", s.Diag.Message(code, qualifiedName))
	}
	return nil
}

// RemoveMonitor detaches the probe on the qualified signal name, if any.
func (s *Simulator) RemoveMonitor(qualifiedName string) bool {
	id, port, ok := s.Devices.GetSignalIDs(qualifiedName)
	if !ok {
		return false
	}
	if port == "" {
		port = devices.OutputPort
	}
	return s.Monitors.RemoveMonitor(id, port)
}

// MonitorHistory returns the recorded levels for qualifiedName, aligned to
// cycle index (index 0 is the first recorded cycle).
func (s *Simulator) MonitorHistory(qualifiedName string) []devices.Level {
	id, port, ok := s.Devices.GetSignalIDs(qualifiedName)
	if !ok {
		return nil
	}
	if port == "" {
		port = devices.OutputPort
	}
	return s.Monitors.History(id, port)
}

// Cycles returns how many times ExecuteCycle has been called since the last
// ResetMonitors.
func (s *Simulator) Cycles() int { return s.cycles }

// Loaded reports whether a circuit definition file has been parsed
// successfully.
func (s *Simulator) Loaded() bool { return s.loaded }
