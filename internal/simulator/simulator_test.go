package simulator_test

import (
	"testing"

	"github.com/keurnel/logsim/internal/devices"
	"github.com/keurnel/logsim/internal/simulator"
)

func TestScenarioSwitchesIntoAnd(t *testing.T) {
	s := simulator.New()
	res := s.LoadString("scenario1", `
INIT; SW1 is SWITCH initially_at 1; SW2 is SWITCH initially_at 0;
A1 is AND with 2 inputs;
CONNECT; SW1 connect_to A1.I1; SW2 connect_to A1.I2;
MONITOR; Initial_monitor_at A1;
`)
	if !res.Success {
		t.Fatalf("expected a clean parse, got: %v", res.Messages)
	}

	for i := 0; i < 3; i++ {
		if !s.ExecuteCycle() {
			t.Fatalf("cycle %d: expected the network to settle", i)
		}
	}

	sw2, _ := s.Names.Query("SW2")
	if !s.SetSwitch(sw2, devices.High) {
		t.Fatal("SetSwitch(SW2, HIGH) should succeed")
	}
	for i := 0; i < 2; i++ {
		if !s.ExecuteCycle() {
			t.Fatalf("post-toggle cycle %d: expected the network to settle", i)
		}
	}

	hist := s.MonitorHistory("A1")
	want := []devices.Level{devices.Low, devices.Low, devices.Low, devices.High, devices.High}
	if len(hist) != len(want) {
		t.Fatalf("got history %v, want %v", hist, want)
	}
	for i := range want {
		if hist[i] != want[i] {
			t.Fatalf("got history %v, want %v", hist, want)
		}
	}
}

func TestScenarioDtypeClockedByClock(t *testing.T) {
	s := simulator.New()
	res := s.LoadString("scenario2", `
INIT; SW1 is SWITCH initially_at 1; CK1 is CLOCK with_simulation_cycles 2; D1 is DTYPE;
CONNECT; SW1 connect_to D1.DATA; CK1 connect_to D1.CLK;
       SW1 connect_to D1.SET; SW1 connect_to D1.CLEAR;
`)
	if !res.Success {
		t.Fatalf("expected a clean parse, got: %v", res.Messages)
	}
	ok, _ := s.Network.CheckNetwork()
	if !ok {
		t.Fatal("expected check-network true")
	}
	for i := 0; i < 6; i++ {
		if !s.ExecuteCycle() {
			t.Fatalf("cycle %d: expected the network to settle", i)
		}
	}
}

func TestScenarioOscillatorFailsToSettle(t *testing.T) {
	s := simulator.New()
	res := s.LoadString("scenario3", `
INIT; N1 is NAND with 1 inputs;
CONNECT; N1 connect_to N1.I1;
`)
	if res.Success {
		t.Fatal("expected overall failure: the network oscillates instead of settling")
	}
	if s.Diag.SemanticCount() == 0 {
		t.Fatal("expected OSCILLATE to be recorded as a semantic error")
	}
}

func TestScenarioMissingConnectSection(t *testing.T) {
	s := simulator.New()
	res := s.LoadString("scenario4", `
INIT; SW1 is SWITCH initially_at 1; MONITOR; Initial_monitor_at SW1;
`)
	if res.Success {
		t.Fatal("expected failure: no CONNECT section")
	}
}

func TestScenarioUnusedInput(t *testing.T) {
	s := simulator.New()
	res := s.LoadString("scenario5", `
INIT; A1 is AND with 2 inputs; SW1 is SWITCH initially_at 1;
CONNECT; SW1 connect_to A1.I1;
`)
	if res.Success {
		t.Fatal("expected failure: A1.I2 is never connected")
	}
}

func TestScenarioClkDriverNotClock(t *testing.T) {
	s := simulator.New()
	res := s.LoadString("scenario6", `
INIT; SW1 is SWITCH initially_at 0; D1 is DTYPE;
CONNECT; SW1 connect_to D1.CLK; SW1 connect_to D1.DATA;
`)
	if res.Success {
		t.Fatal("expected failure: D1.CLK driven by a non-CLOCK device")
	}
}
