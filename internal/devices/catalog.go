// Package devices implements the device catalogue: make-device semantic
// validation, per-device state, and cold-startup / per-kind evaluation.
package devices

import (
	"fmt"
	"math/rand"
	"regexp"
	"strconv"
	"strings"

	"github.com/keurnel/logsim/internal/diag"
	"github.com/keurnel/logsim/internal/names"
)

var siggenPattern = regexp.MustCompile(`^[01]+$`)

// Catalog holds every device in the circuit, keyed by device ID.
type Catalog struct {
	names *names.Table
	diag  *diag.Catalogue
	byID  map[names.ID]*Device
	order []names.ID // insertion order, used for deterministic iteration
}

// New returns an empty Catalog backed by tab for name resolution and cat for
// error reporting.
func New(tab *names.Table, cat *diag.Catalogue) *Catalog {
	return &Catalog{
		names: tab,
		diag:  cat,
		byID:  make(map[names.ID]*Device),
	}
}

// Get returns the device for id, if any.
func (c *Catalog) Get(id names.ID) (*Device, bool) {
	d, ok := c.byID[id]
	return d, ok
}

// All returns every device in insertion order.
func (c *Catalog) All() []*Device {
	out := make([]*Device, len(c.order))
	for i, id := range c.order {
		out[i] = c.byID[id]
	}
	return out
}

// FindDevices returns the IDs of every device of the given kind, in
// insertion order.
func (c *Catalog) FindDevices(kind Kind) []names.ID {
	var ids []names.ID
	for _, id := range c.order {
		if c.byID[id].Kind == kind {
			ids = append(ids, id)
		}
	}
	return ids
}

// MakeDevice validates kind-specific qualifier rules and installs a new
// device. hasQualifier/qualifierInt/qualifierStr describe what qualifier (if
// any) the parser found; each kind requires a different qualifier shape, or
// none at all.
func (c *Catalog) MakeDevice(id names.ID, kind Kind, hasQualifier bool, qualifierInt int, qualifierStr string) (diag.Code, bool) {
	if _, exists := c.byID[id]; exists {
		return c.diag.DevicePresent, false
	}

	qualifier := 0
	pattern := ""

	switch kind {
	case And, Nand, Or, Nor:
		if !hasQualifier {
			return c.diag.NoQualifier, false
		}
		if qualifierInt < 1 || qualifierInt > 16 {
			return c.diag.InvalidQualifier, false
		}
		qualifier = qualifierInt

	case Xor, Dtype:
		if hasQualifier {
			return c.diag.QualifierPresent, false
		}

	case Switch:
		if !hasQualifier {
			return c.diag.NoQualifier, false
		}
		// The parser rejects a SWITCH qualifier outside {0,1} as INIT_WRONG_SET
		// before ever calling MakeDevice; this is a backstop for any other
		// caller that bypasses that check.
		if qualifierInt != 0 && qualifierInt != 1 {
			return c.diag.InvalidQualifier, false
		}
		qualifier = qualifierInt

	case Clock, RC:
		if !hasQualifier {
			return c.diag.NoQualifier, false
		}
		if qualifierInt <= 0 {
			return c.diag.InvalidQualifier, false
		}
		qualifier = qualifierInt

	case Siggen:
		if !hasQualifier {
			return c.diag.NoQualifier, false
		}
		if qualifierStr == "" || !siggenPattern.MatchString(qualifierStr) {
			return c.diag.InvalidQualifier, false
		}
		pattern = qualifierStr

	default:
		return c.diag.BadDevice, false
	}

	d := &Device{
		ID:        id,
		Kind:      kind,
		Qualifier: qualifier,
		Pattern:   pattern,
		Inputs:    make(map[string]Driver),
		Outputs:   make(map[string]Level),
	}
	for _, p := range inputPorts(kind, qualifier) {
		d.Inputs[p] = unsetDriver
	}
	for _, p := range outputPorts(kind) {
		d.Outputs[p] = Low
	}

	c.byID[id] = d
	c.order = append(c.order, id)
	c.resetKindState(d)

	return 0, true
}

// GetSignalIDs resolves a qualified signal name — "NAME" or "NAME.PORT" —
// into a device ID and port name. The second return value is "" when the
// name had no port suffix (i.e. it denotes the device's sole anonymous
// output or, for a bare lookup, the device itself).
func (c *Catalog) GetSignalIDs(qualifiedName string) (names.ID, string, bool) {
	devicePart, port, hasPort := strings.Cut(qualifiedName, ".")
	id, ok := c.names.Query(devicePart)
	if !ok {
		return 0, "", false
	}
	if !hasPort {
		return id, "", true
	}
	return id, port, true
}

// SetSwitch changes the stored output level of a SWITCH device. Returns
// false if id is not a SWITCH.
func (c *Catalog) SetSwitch(id names.ID, level Level) bool {
	d, ok := c.byID[id]
	if !ok || d.Kind != Switch {
		return false
	}
	d.Qualifier = levelToBit(level)
	d.Outputs[OutputPort] = level
	return true
}

func levelToBit(l Level) int {
	if l == High {
		return 1
	}
	return 0
}

// ColdStartup re-initialises every device's kind-specific mutable state:
// SWITCH outputs reflect the qualifier set at
// construction time (or the last SetSwitch call), CLOCK phases are
// randomised across [0, half-period), DTYPE memory is LOW, RC elapsed
// resets to 0 with output HIGH, and SIGGEN restarts at step 0.
func (c *Catalog) ColdStartup() {
	for _, d := range c.byID {
		for port := range d.Outputs {
			d.Outputs[port] = Low
		}
		c.resetKindState(d)
	}
}

func (c *Catalog) resetKindState(d *Device) {
	switch d.Kind {
	case Switch:
		if d.Qualifier == 1 {
			d.Outputs[OutputPort] = High
		} else {
			d.Outputs[OutputPort] = Low
		}
	case Clock:
		if d.Qualifier > 0 {
			d.ClockPhase = rand.Intn(d.Qualifier)
		} else {
			d.ClockPhase = 0
		}
		d.Outputs[OutputPort] = Low
	case RC:
		d.RCElapsed = 0
		d.Outputs[OutputPort] = High
	case Siggen:
		d.SiggenStep = 0
	case Dtype:
		d.Outputs[PortQ] = Low
		d.Outputs[PortQBar] = High
	}
	d.DtypeAdvanced = false
}

// QualifierDescription renders a device's qualifier for diagnostics, e.g.
// "with 4 inputs" or "initially_at 1".
func (c *Catalog) QualifierDescription(d *Device) string {
	switch d.Kind {
	case And, Nand, Or, Nor:
		return fmt.Sprintf("with %d inputs", d.Qualifier)
	case Switch:
		return fmt.Sprintf("initially_at %d", d.Qualifier)
	case Clock, RC:
		return fmt.Sprintf("with_simulation_cycles %d", d.Qualifier)
	case Siggen:
		return fmt.Sprintf("with %q", d.Pattern)
	default:
		return ""
	}
}

// ParseQualifierInt parses a NUMBER token's text into an int, matching the
// scanner's NUMBER regex ^\d+$ — always non-negative, so the only failure
// mode is overflow, treated as invalid.
func ParseQualifierInt(text string) (int, bool) {
	n, err := strconv.Atoi(text)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}
