package diag_test

import (
	"strings"
	"testing"

	"github.com/keurnel/logsim/internal/diag"
	"github.com/keurnel/logsim/internal/names"
	"github.com/keurnel/logsim/internal/sourcetext"
)

func TestNewReservesDisjointRanges(t *testing.T) {
	tab := names.New()
	cat := diag.New(tab)

	codes := []diag.Code{
		cat.InitMissKeyword, cat.InitWrongName, cat.InitWrongSet,
		cat.ConnectMissKeyword, cat.ConnectWrongIO, cat.MonitorMissKeyword,
		cat.MonitorWrongPoint, cat.MissDescription, cat.MissStartMark,
		cat.MissTermination, cat.KeywordNotFound, cat.InvalidComment,
		cat.InvalidQualifier, cat.NoQualifier, cat.BadDevice,
		cat.QualifierPresent, cat.DevicePresent, cat.InputToInput,
		cat.OutputToOutput, cat.InputConnected, cat.PortAbsent,
		cat.DeviceAbsent, cat.NotOutput, cat.MonitorPresent,
		cat.NotClockToClk, cat.Oscillate, cat.UnusedInputs, cat.NotRCToDType,
	}

	seen := make(map[diag.Code]bool, len(codes))
	for _, c := range codes {
		if seen[c] {
			t.Fatalf("code %d reserved twice", c)
		}
		seen[c] = true
	}
}

func TestTwoCataloguesDoNotCollide(t *testing.T) {
	tab := names.New()
	a := diag.New(tab)
	b := diag.New(tab)

	if a.InitMissKeyword == b.InitMissKeyword {
		t.Fatal("two catalogues sharing a table must not share codes")
	}
}

func TestRecordTalliesByKind(t *testing.T) {
	cat := diag.New(names.New())

	cat.Record(cat.InitWrongName, "")
	cat.Record(cat.Oscillate, "")
	cat.Record(cat.UnusedInputs, "")

	if cat.SyntaxCount() != 1 {
		t.Fatalf("SyntaxCount() = %d, want 1", cat.SyntaxCount())
	}
	if cat.SemanticCount() != 2 {
		t.Fatalf("SemanticCount() = %d, want 2", cat.SemanticCount())
	}
	if cat.Clean() {
		t.Fatal("Clean() should be false after recording errors")
	}
}

func TestMessageDoesNotTally(t *testing.T) {
	cat := diag.New(names.New())
	_ = cat.Message(cat.Oscillate, "")
	if !cat.Clean() {
		t.Fatal("Message must not affect error counts")
	}
}

func TestPortAbsentAndNotOutputAreDistinctMessages(t *testing.T) {
	cat := diag.New(names.New())

	portAbsent := cat.Message(cat.PortAbsent, "A1.I3")
	notOutput := cat.Message(cat.NotOutput, "A1.I3")

	if portAbsent == notOutput {
		t.Fatal("PortAbsent and NotOutput must render distinct messages")
	}
}

func TestRenderProducesErrorBlock(t *testing.T) {
	cat := diag.New(names.New())
	src := sourcetext.FromString("circuit.lsim", "INIT;\nSW1 is SWITCH initially_at 2;\nCONNECT;\n")

	lineStart := src.LineStart(len("INIT;\n") + 5)
	out := diag.Render(cat, src, diag.Entry{
		Code:      cat.InitWrongSet,
		Suffix:    "(expected 0 or 1)",
		Line:      2,
		LineStart: lineStart,
		TokenPos:  len("INIT;\nSW1 is SWITCH initially_at 2") - 1,
		TokenLen:  1,
		Anchor:    diag.AnchorEnd,
	})

	if !strings.HasPrefix(out, "Error in line: 2\n") {
		t.Fatalf("Render output missing line header:\n%s", out)
	}
	if !strings.Contains(out, "SW1 is SWITCH initially_at 2") {
		t.Fatalf("Render output missing offending line:\n%s", out)
	}
	if !strings.Contains(out, "^") {
		t.Fatalf("Render output missing caret:\n%s", out)
	}
}
