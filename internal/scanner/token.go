// Package scanner turns circuit definition source text into a stream of
// tokens for the parser: read one rune at a time, branch on
// alpha/digit/quote/semicolon/comment/EOF, and classify the accumulated
// string against the keyword list and the DEVICE_NAME / DEVICE_IN /
// DEVICE_OUT / SIGGEN_WAVE regexes, in that priority order.
package scanner

import "github.com/keurnel/logsim/internal/names"

// Kind identifies what a Token represents.
type Kind int

const (
	Init Kind = iota
	Connect
	Monitor
	DeviceType
	Number
	DeviceName
	DeviceIn
	DeviceOut
	InitIs
	InitWith
	InitGate
	InitSwitch
	InitClk
	Connection
	InitMonitor
	Semicolon
	SiggenWave
	EOF
	Invalid
)

func (k Kind) String() string {
	switch k {
	case Init:
		return "INIT"
	case Connect:
		return "CONNECT"
	case Monitor:
		return "MONITOR"
	case DeviceType:
		return "DEVICE_TYPE"
	case Number:
		return "NUMBER"
	case DeviceName:
		return "DEVICE_NAME"
	case DeviceIn:
		return "DEVICE_IN"
	case DeviceOut:
		return "DEVICE_OUT"
	case InitIs:
		return "is"
	case InitWith:
		return "with"
	case InitGate:
		return "inputs"
	case InitSwitch:
		return "initially_at"
	case InitClk:
		return "with_simulation_cycles"
	case Connection:
		return "connect_to"
	case InitMonitor:
		return "Initial_monitor_at"
	case Semicolon:
		return ";"
	case SiggenWave:
		return "SIGGEN_WAVE"
	case EOF:
		return "EOF"
	default:
		return "INVALID"
	}
}

// keywords are the fixed device-kind names, reserved in the shared names
// table so the rest of the compiler can compare them by ID.
var keywords = []string{"AND", "NAND", "OR", "NOR", "XOR", "SWITCH", "DTYPE", "CLOCK", "RC", "SIGGEN"}

var reservedWords = map[string]Kind{
	"INIT":                Init,
	"CONNECT":             Connect,
	"MONITOR":             Monitor,
	"is":                  InitIs,
	"with":                InitWith,
	"inputs":              InitGate,
	"input":               InitGate,
	"initially_at":        InitSwitch,
	"with_simulation_cycles": InitClk,
	"connect_to":          Connection,
	"Initial_monitor_at":  InitMonitor,
}

// Token is one classified lexical unit. Text is the raw source text (for
// SIGGEN_WAVE, the quotes are stripped). ID is set for any kind that carries
// a names.ID (DEVICE_NAME, DEVICE_IN, DEVICE_OUT, DEVICE_TYPE, NUMBER,
// SIGGEN_WAVE). Pos is the byte offset of the token's last character, and
// LineStart is the byte offset of the first character of its line — both
// used to render "Error in line: N" diagnostics without reopening the file.
type Token struct {
	Kind      Kind
	Text      string
	ID        names.ID
	Pos       int
	LineStart int
}
