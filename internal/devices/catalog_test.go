package devices_test

import (
	"testing"

	"github.com/keurnel/logsim/internal/devices"
	"github.com/keurnel/logsim/internal/diag"
	"github.com/keurnel/logsim/internal/names"
)

func newCatalog(t *testing.T) (*devices.Catalog, *names.Table, *diag.Catalogue) {
	t.Helper()
	tab := names.New()
	cat := diag.New(tab)
	return devices.New(tab, cat), tab, cat
}

func mustIntern(t *testing.T, tab *names.Table, s string) names.ID {
	t.Helper()
	id, err := tab.InternOne(s)
	if err != nil {
		t.Fatalf("InternOne(%q): %v", s, err)
	}
	return id
}

func TestMakeDeviceGateQualifierBounds(t *testing.T) {
	cat, tab, _ := newCatalog(t)

	tests := []struct {
		name string
		n    int
		ok   bool
	}{
		{"A1", 0, false},
		{"A2", 1, true},
		{"A3", 16, true},
		{"A4", 17, false},
	}
	for _, tt := range tests {
		id := mustIntern(t, tab, tt.name)
		_, ok := cat.MakeDevice(id, devices.And, true, tt.n, "")
		if ok != tt.ok {
			t.Errorf("MakeDevice(%s, AND, %d inputs) ok=%v, want %v", tt.name, tt.n, ok, tt.ok)
		}
	}
}

func TestMakeDeviceSwitchQualifierMustBeBit(t *testing.T) {
	cat, tab, _ := newCatalog(t)

	sw1 := mustIntern(t, tab, "SW1")
	if _, ok := cat.MakeDevice(sw1, devices.Switch, true, 2, ""); ok {
		t.Fatal("expected SWITCH with qualifier 2 to be rejected")
	}

	sw2 := mustIntern(t, tab, "SW2")
	if _, ok := cat.MakeDevice(sw2, devices.Switch, true, 1, ""); !ok {
		t.Fatal("expected SWITCH with qualifier 1 to be accepted")
	}
}

func TestMakeDeviceXorRejectsQualifier(t *testing.T) {
	cat, tab, _ := newCatalog(t)
	x1 := mustIntern(t, tab, "X1")
	if _, ok := cat.MakeDevice(x1, devices.Xor, true, 2, ""); ok {
		t.Fatal("expected XOR with a qualifier to be rejected")
	}
}

func TestMakeDeviceDuplicateReportsDevicePresent(t *testing.T) {
	cat, tab, diagCat := newCatalog(t)
	id := mustIntern(t, tab, "D1")

	if _, ok := cat.MakeDevice(id, devices.Dtype, false, 0, ""); !ok {
		t.Fatal("first MakeDevice should succeed")
	}
	code, ok := cat.MakeDevice(id, devices.Dtype, false, 0, "")
	if ok {
		t.Fatal("duplicate MakeDevice should fail")
	}
	if code != diagCat.DevicePresent {
		t.Fatalf("got code %v, want DevicePresent", code)
	}
}

func TestMakeDeviceSiggenRejectsNonBinaryPattern(t *testing.T) {
	cat, tab, _ := newCatalog(t)
	s1 := mustIntern(t, tab, "S1")
	if _, ok := cat.MakeDevice(s1, devices.Siggen, true, 0, "012"); ok {
		t.Fatal("expected SIGGEN pattern with a non-binary digit to be rejected")
	}
	s2 := mustIntern(t, tab, "S2")
	if _, ok := cat.MakeDevice(s2, devices.Siggen, true, 0, "0110"); !ok {
		t.Fatal("expected a binary SIGGEN pattern to be accepted")
	}
}

func TestGetSignalIDsSplitsPort(t *testing.T) {
	cat, tab, _ := newCatalog(t)
	_ = cat
	id := mustIntern(t, tab, "D1")

	gotID, port, ok := cat.GetSignalIDs("D1.Q")
	if !ok || gotID != id || port != "Q" {
		t.Fatalf("GetSignalIDs(D1.Q) = (%v, %q, %v), want (%v, \"Q\", true)", gotID, port, ok, id)
	}

	gotID2, port2, ok2 := cat.GetSignalIDs("D1")
	if !ok2 || gotID2 != id || port2 != "" {
		t.Fatalf("GetSignalIDs(D1) = (%v, %q, %v), want (%v, \"\", true)", gotID2, port2, ok2, id)
	}
}

func TestColdStartupSwitchReflectsQualifier(t *testing.T) {
	cat, tab, _ := newCatalog(t)
	sw := mustIntern(t, tab, "SW1")
	cat.MakeDevice(sw, devices.Switch, true, 1, "")

	cat.ColdStartup()

	d, _ := cat.Get(sw)
	if d.Outputs[devices.OutputPort] != devices.High {
		t.Fatalf("switch initially_at 1 should cold-start HIGH, got %v", d.Outputs[devices.OutputPort])
	}
}

func TestColdStartupRCStartsHigh(t *testing.T) {
	cat, tab, _ := newCatalog(t)
	rc := mustIntern(t, tab, "R1")
	cat.MakeDevice(rc, devices.RC, true, 3, "")

	cat.ColdStartup()

	d, _ := cat.Get(rc)
	if d.Outputs[devices.OutputPort] != devices.High {
		t.Fatalf("RC should cold-start HIGH, got %v", d.Outputs[devices.OutputPort])
	}
	if d.RCElapsed != 0 {
		t.Fatalf("RC should cold-start with elapsed 0, got %d", d.RCElapsed)
	}
}

func TestSetSwitchChangesStoredState(t *testing.T) {
	cat, tab, _ := newCatalog(t)
	sw := mustIntern(t, tab, "SW1")
	cat.MakeDevice(sw, devices.Switch, true, 0, "")
	cat.ColdStartup()

	if !cat.SetSwitch(sw, devices.High) {
		t.Fatal("SetSwitch should succeed for a SWITCH device")
	}
	d, _ := cat.Get(sw)
	if d.Outputs[devices.OutputPort] != devices.High {
		t.Fatalf("expected switch output HIGH after SetSwitch, got %v", d.Outputs[devices.OutputPort])
	}
}

func TestSetSwitchRejectsNonSwitch(t *testing.T) {
	cat, tab, _ := newCatalog(t)
	a1 := mustIntern(t, tab, "A1")
	cat.MakeDevice(a1, devices.And, true, 2, "")

	if cat.SetSwitch(a1, devices.High) {
		t.Fatal("SetSwitch should fail for a non-SWITCH device")
	}
}

func TestAndGateCombinational(t *testing.T) {
	cat, tab, _ := newCatalog(t)
	a1 := mustIntern(t, tab, "A1")
	cat.MakeDevice(a1, devices.And, true, 2, "")
	d, _ := cat.Get(a1)

	drivers := map[devices.Driver]devices.Level{}
	d.Inputs["I1"] = devices.Driver{Device: 99, Port: "OUT"}
	d.Inputs["I2"] = devices.Driver{Device: 98, Port: "OUT"}
	drivers[d.Inputs["I1"]] = devices.High
	drivers[d.Inputs["I2"]] = devices.Low

	devices.Evaluate(d, func(drv devices.Driver) devices.Level { return drivers[drv] }, true)
	if d.Outputs[devices.OutputPort] != devices.Low {
		t.Fatalf("AND(HIGH, LOW) = %v, want LOW", d.Outputs[devices.OutputPort])
	}

	drivers[d.Inputs["I2"]] = devices.High
	devices.Evaluate(d, func(drv devices.Driver) devices.Level { return drivers[drv] }, true)
	if d.Outputs[devices.OutputPort] != devices.High {
		t.Fatalf("AND(HIGH, HIGH) = %v, want HIGH", d.Outputs[devices.OutputPort])
	}
}

func TestDtypeAsyncSetClearOverridesClock(t *testing.T) {
	cat, tab, _ := newCatalog(t)
	d1 := mustIntern(t, tab, "D1")
	cat.MakeDevice(d1, devices.Dtype, false, 0, "")
	d, _ := cat.Get(d1)

	drivers := map[devices.Driver]devices.Level{
		{Device: 1, Port: "OUT"}: devices.High, // SET
		{Device: 2, Port: "OUT"}: devices.Low,  // CLEAR
		{Device: 3, Port: "OUT"}: devices.Low,  // CLK
		{Device: 4, Port: "OUT"}: devices.Low,  // DATA
	}
	d.Inputs[devices.PortSet] = devices.Driver{Device: 1, Port: "OUT"}
	d.Inputs[devices.PortClear] = devices.Driver{Device: 2, Port: "OUT"}
	d.Inputs[devices.PortClk] = devices.Driver{Device: 3, Port: "OUT"}
	d.Inputs[devices.PortData] = devices.Driver{Device: 4, Port: "OUT"}

	devices.Evaluate(d, func(drv devices.Driver) devices.Level { return drivers[drv] }, true)

	if d.Outputs[devices.PortQ] != devices.High || d.Outputs[devices.PortQBar] != devices.Low {
		t.Fatalf("SET should force Q=HIGH, QBAR=LOW; got Q=%v QBAR=%v", d.Outputs[devices.PortQ], d.Outputs[devices.PortQBar])
	}
}

func TestSettleTransients(t *testing.T) {
	d := &devices.Device{Outputs: map[string]devices.Level{devices.OutputPort: devices.Rising}}
	devices.SettleTransients(d)
	if d.Outputs[devices.OutputPort] != devices.High {
		t.Fatalf("RISING should settle to HIGH, got %v", d.Outputs[devices.OutputPort])
	}
}
