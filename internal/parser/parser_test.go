package parser_test

import (
	"testing"

	"github.com/keurnel/logsim/internal/devices"
	"github.com/keurnel/logsim/internal/diag"
	"github.com/keurnel/logsim/internal/monitors"
	"github.com/keurnel/logsim/internal/names"
	"github.com/keurnel/logsim/internal/network"
	"github.com/keurnel/logsim/internal/parser"
	"github.com/keurnel/logsim/internal/sourcetext"
)

func build(t *testing.T, content string) (*parser.Parser, *diag.Catalogue) {
	t.Helper()
	tab := names.New()
	dc := diag.New(tab)
	cat := devices.New(tab, dc)
	net := network.New(cat, dc)
	mon := monitors.New(cat, dc, tab)
	src := sourcetext.FromString("test.txt", content)
	p, err := parser.New(src, tab, cat, net, mon, dc)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return p, dc
}

func TestParseNetworkAcceptsSwitchThroughAnd(t *testing.T) {
	p, dc := build(t, `
INIT;
SW1 is SWITCH initially_at 1;
SW2 is SWITCH initially_at 0;
A1 is AND with 2 inputs;
CONNECT;
SW1 connect_to A1.I1;
SW2 connect_to A1.I2;
MONITOR;
Initial_monitor_at A1;
`)
	if !p.ParseNetwork() {
		t.Fatalf("expected success, got messages: %v", p.Messages)
	}
	if !dc.Clean() {
		t.Fatalf("expected zero errors, got %s", dc.Summary())
	}
}

func TestParseNetworkMissingConnectSectionFails(t *testing.T) {
	p, _ := build(t, `
INIT;
SW1 is SWITCH initially_at 1;
MONITOR;
Initial_monitor_at SW1;
`)
	if p.ParseNetwork() {
		t.Fatal("expected failure when CONNECT section is missing")
	}
}

func TestParseNetworkDetectsUnusedInputs(t *testing.T) {
	p, dc := build(t, `
INIT;
A1 is AND with 2 inputs;
SW1 is SWITCH initially_at 1;
CONNECT;
SW1 connect_to A1.I1;
`)
	if p.ParseNetwork() {
		t.Fatal("expected failure: A1.I2 is never connected")
	}
	if dc.SemanticCount() == 0 {
		t.Fatal("expected at least one semantic error for the unused input")
	}
}

func TestParseNetworkRejectsOutOfRangeSwitchQualifier(t *testing.T) {
	p, dc := build(t, `
INIT;
SW1 is SWITCH initially_at 2;
A1 is AND with 1 inputs;
CONNECT;
A1 connect_to A1.I1;
`)
	if p.ParseNetwork() {
		t.Fatal("expected failure for a SWITCH qualifier outside {0,1}")
	}
	if dc.SyntaxCount() == 0 {
		t.Fatal("expected INIT_WRONG_SET, a syntax error, to be reported")
	}
	if dc.SemanticCount() != 0 {
		t.Fatal("an out-of-range SWITCH qualifier must not reach MakeDevice as INVALID_QUALIFIER")
	}
}

func TestParseNetworkDetectsUnterminatedComment(t *testing.T) {
	p, dc := build(t, `
INIT;
A1 is AND with 1 inputs;
CONNECT;
A1 connect_to A1.I1;
/* never closed
`)
	if p.ParseNetwork() {
		t.Fatal("expected failure for an unterminated comment")
	}
	if dc.SyntaxCount() == 0 {
		t.Fatal("expected INVALID_COMMENT, a syntax error, to be reported")
	}
	if dc.SemanticCount() != 0 {
		t.Fatalf("expected no semantic errors, got %s", dc.Summary())
	}
}

func TestParseNetworkRejectsNonClockOnClk(t *testing.T) {
	p, dc := build(t, `
INIT;
SW1 is SWITCH initially_at 0;
D1 is DTYPE;
CONNECT;
SW1 connect_to D1.CLK;
SW1 connect_to D1.DATA;
`)
	p.ParseNetwork()
	if dc.SemanticCount() == 0 {
		t.Fatal("expected NOT_CLOCK_TO_CLK to be reported")
	}
}
