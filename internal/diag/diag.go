// Package diag is the error catalogue shared by the scanner, devices,
// network, monitors, and parser. Every specific error is identified by a
// Code drawn at runtime from the shared names.Table reservation facility, so
// codes handed to different components are guaranteed disjoint even though
// they are all represented by the same Go type. A Catalogue formats a Code
// plus an optional suffix into a human-readable message, and counts errors
// by Kind for the end-of-compilation summary.
package diag

import (
	"fmt"

	"github.com/keurnel/logsim/internal/names"
)

// Kind distinguishes syntax errors (detected by the scanner/parser grammar)
// from semantic errors (detected by devices/network/monitors or whole-circuit
// checks).
type Kind int

const (
	Syntax Kind = iota
	Semantic
)

func (k Kind) String() string {
	if k == Syntax {
		return "SYNTAX"
	}
	return "SEMANTIC"
}

// Code is a specific error identifier, reserved at runtime from a
// names.Table. Components compare Codes by value, never by magic int.
type Code int

// Syntax codes, reserved as one contiguous block in New.
const (
	offInitMissKeyword = iota
	offInitWrongName
	offInitWrongSet
	offConnectMissKeyword
	offConnectWrongIO
	offMonitorMissKeyword
	offMonitorWrongPoint
	offMissDescription
	offMissStartMark
	offMissTermination
	offKeywordNotFound
	offInvalidComment
	syntaxCodeCount
)

// Semantic codes, reserved as a second contiguous block in New. Devices owns
// the first five, Network the next five, Monitors the next two, and the
// cross-device and whole-circuit checks close out the block (the CLK and RC
// adjacency rules are returned by Network, OSCILLATE and UNUSED_INPUTS are
// raised by the parser).
const (
	offInvalidQualifier = iota
	offNoQualifier
	offBadDevice
	offQualifierPresent
	offDevicePresent

	offInputToInput
	offOutputToOutput
	offInputConnected
	offPortAbsent
	offDeviceAbsent

	offNotOutput
	offMonitorPresent

	offNotClockToClk
	offOscillate
	offUnusedInputs
	offNotRCToDType
	semanticCodeCount
)

var templates = map[int]string{
	offInitMissKeyword:    "SYNTAX[Invalid Initialisation]: missing keyword %s",
	offInitWrongName:      "SYNTAX[Invalid Initialisation]: invalid device name %s",
	offInitWrongSet:       "SYNTAX[Invalid Initialisation]: invalid setting %s",
	offConnectMissKeyword: "SYNTAX[Invalid Connection]: missing keyword %s",
	offConnectWrongIO:     "SYNTAX[Invalid Connection]: invalid device I/O %s",
	offMonitorMissKeyword: "SYNTAX[Invalid Monitor]: missing keyword %s",
	offMonitorWrongPoint:  "SYNTAX[Invalid Monitor]: invalid monitor point %s",
	offMissDescription:    "SYNTAX[Incomplete File]: missing statements %s",
	offMissStartMark:      "SYNTAX[Incomplete File]: missing start mark %s",
	offMissTermination:    "SYNTAX[No Termination]: missing terminating semicolon %s",
	offKeywordNotFound:    "SYNTAX[Keyword Not Found]: unrecognised token %s",
	offInvalidComment:     "SYNTAX[Invalid Comment]: missing end comment mark '*/' %s",
}

var semanticTemplates = map[int]string{
	offInvalidQualifier:  "SEMANTIC[INIT]: device initialised with an invalid qualifier %s",
	offNoQualifier:       "SEMANTIC[INIT]: no qualifier supplied %s",
	offBadDevice:         "SEMANTIC[INIT]: unrecognised device kind %s",
	offQualifierPresent:  "SEMANTIC[INIT]: qualifier given but not expected for this device kind %s",
	offDevicePresent:     "SEMANTIC[INIT]: device is already defined %s",
	offInputToInput:      "SEMANTIC[CONNECT]: cannot connect an input to an input %s",
	offOutputToOutput:    "SEMANTIC[CONNECT]: cannot connect an output to an output %s",
	offInputConnected:    "SEMANTIC[CONNECT]: input is already connected %s",
	offPortAbsent:        "SEMANTIC[REFERENCE]: referencing a non-existent port %s",
	offDeviceAbsent:      "SEMANTIC[REFERENCE]: referencing a non-existent device %s",
	offNotOutput:         "SEMANTIC[REFERENCE]: port exists but is not an output %s",
	offMonitorPresent:    "SEMANTIC[REFERENCE]: port is already monitored %s",
	offNotClockToClk:     "SEMANTIC[CONNECT]: a DTYPE's CLK input must be driven by a CLOCK %s",
	offOscillate:         "SEMANTIC[CONNECT]: the circuit cannot settle — it oscillates %s",
	offUnusedInputs:      "SEMANTIC[CONNECT]: one or more device inputs are unconnected %s",
	offNotRCToDType:      "SEMANTIC[CONNECT]: an RC may only drive a DTYPE's SET or CLEAR input %s",
}

// Catalogue formats Codes into messages and tallies errors by Kind. The
// zero value is not ready for use — call New.
type Catalogue struct {
	syntaxBase   int
	semanticBase int

	syntaxCount   int
	semanticCount int

	// Exported codes, each reserved from tab in New. Components read these
	// fields rather than hard-coding integers.
	InitMissKeyword    Code
	InitWrongName      Code
	InitWrongSet       Code
	ConnectMissKeyword Code
	ConnectWrongIO     Code
	MonitorMissKeyword Code
	MonitorWrongPoint  Code
	MissDescription    Code
	MissStartMark      Code
	MissTermination    Code
	KeywordNotFound    Code
	InvalidComment     Code

	InvalidQualifier Code
	NoQualifier      Code
	BadDevice        Code
	QualifierPresent Code
	DevicePresent    Code

	InputToInput   Code
	OutputToOutput Code
	InputConnected Code
	PortAbsent     Code
	DeviceAbsent   Code

	NotOutput      Code
	MonitorPresent Code

	NotClockToClk Code
	Oscillate     Code
	UnusedInputs  Code
	NotRCToDType  Code
}

// New reserves a disjoint syntax-code block and semantic-code block from
// tab and returns a ready-to-use Catalogue. Calling New twice against the
// same tab yields two Catalogues whose codes never collide.
func New(tab *names.Table) *Catalogue {
	syn := tab.ReserveErrorCodes(syntaxCodeCount)
	sem := tab.ReserveErrorCodes(semanticCodeCount)

	c := &Catalogue{syntaxBase: syn[0], semanticBase: sem[0]}

	c.InitMissKeyword = c.syntaxCode(offInitMissKeyword)
	c.InitWrongName = c.syntaxCode(offInitWrongName)
	c.InitWrongSet = c.syntaxCode(offInitWrongSet)
	c.ConnectMissKeyword = c.syntaxCode(offConnectMissKeyword)
	c.ConnectWrongIO = c.syntaxCode(offConnectWrongIO)
	c.MonitorMissKeyword = c.syntaxCode(offMonitorMissKeyword)
	c.MonitorWrongPoint = c.syntaxCode(offMonitorWrongPoint)
	c.MissDescription = c.syntaxCode(offMissDescription)
	c.MissStartMark = c.syntaxCode(offMissStartMark)
	c.MissTermination = c.syntaxCode(offMissTermination)
	c.KeywordNotFound = c.syntaxCode(offKeywordNotFound)
	c.InvalidComment = c.syntaxCode(offInvalidComment)

	c.InvalidQualifier = c.semanticCode(offInvalidQualifier)
	c.NoQualifier = c.semanticCode(offNoQualifier)
	c.BadDevice = c.semanticCode(offBadDevice)
	c.QualifierPresent = c.semanticCode(offQualifierPresent)
	c.DevicePresent = c.semanticCode(offDevicePresent)

	c.InputToInput = c.semanticCode(offInputToInput)
	c.OutputToOutput = c.semanticCode(offOutputToOutput)
	c.InputConnected = c.semanticCode(offInputConnected)
	c.PortAbsent = c.semanticCode(offPortAbsent)
	c.DeviceAbsent = c.semanticCode(offDeviceAbsent)

	c.NotOutput = c.semanticCode(offNotOutput)
	c.MonitorPresent = c.semanticCode(offMonitorPresent)

	c.NotClockToClk = c.semanticCode(offNotClockToClk)
	c.Oscillate = c.semanticCode(offOscillate)
	c.UnusedInputs = c.semanticCode(offUnusedInputs)
	c.NotRCToDType = c.semanticCode(offNotRCToDType)

	return c
}

func (c *Catalogue) syntaxCode(off int) Code   { return Code(c.syntaxBase + off) }
func (c *Catalogue) semanticCode(off int) Code { return Code(c.semanticBase + off) }

// kind reports whether code falls in this Catalogue's syntax or semantic
// block.
func (c *Catalogue) kind(code Code) Kind {
	if int(code) >= c.semanticBase {
		return Semantic
	}
	return Syntax
}

// Record tallies one occurrence of code under its Kind and returns the
// formatted message, with suffix appended where the template has a slot for
// it (pass "" for no suffix).
func (c *Catalogue) Record(code Code, suffix string) string {
	switch c.kind(code) {
	case Syntax:
		c.syntaxCount++
	case Semantic:
		c.semanticCount++
	}
	return c.Message(code, suffix)
}

// Message formats code with suffix without tallying it. Useful for tests
// and previews that must not affect the error counts.
func (c *Catalogue) Message(code Code, suffix string) string {
	if c.kind(code) == Syntax {
		if tmpl, ok := templates[int(code)-c.syntaxBase]; ok {
			return fmt.Sprintf(tmpl, suffix)
		}
	} else if tmpl, ok := semanticTemplates[int(code)-c.semanticBase]; ok {
		return fmt.Sprintf(tmpl, suffix)
	}
	return fmt.Sprintf("SYSTEM[Unknown Error]: code %d %s", code, suffix)
}

// SyntaxCount returns the number of syntax errors recorded so far.
func (c *Catalogue) SyntaxCount() int { return c.syntaxCount }

// SemanticCount returns the number of semantic errors recorded so far.
func (c *Catalogue) SemanticCount() int { return c.semanticCount }

// Clean reports whether zero errors of either kind have been recorded.
func (c *Catalogue) Clean() bool {
	return c.syntaxCount == 0 && c.semanticCount == 0
}

// Summary renders the one-line end-of-compilation error tally.
func (c *Catalogue) Summary() string {
	return fmt.Sprintf("%d syntax error(s), %d semantic error(s)", c.syntaxCount, c.semanticCount)
}
