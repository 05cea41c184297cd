// Package parser implements the three-phase INIT/CONNECT/MONITOR grammar: a
// structural pre-pass, then a main pass that dispatches each statement to
// make-device, make-connection, or make-monitor, with per-statement error
// recovery and cascade suppression.
package parser

import (
	"github.com/keurnel/logsim/internal/debugcontext"
	"github.com/keurnel/logsim/internal/devices"
	"github.com/keurnel/logsim/internal/diag"
	"github.com/keurnel/logsim/internal/monitors"
	"github.com/keurnel/logsim/internal/names"
	"github.com/keurnel/logsim/internal/network"
	"github.com/keurnel/logsim/internal/scanner"
	"github.com/keurnel/logsim/internal/sourcetext"
)

// phase is one of the three linearly ordered sections of the grammar.
type phase int

const (
	phaseInit phase = iota + 1
	phaseConnect
	phaseMonitor
)

// Parser ties the scanner to devices/network/monitors and drives the
// INIT/CONNECT/MONITOR grammar.
type Parser struct {
	tab     *names.Table
	devCat  *devices.Catalog
	net     *network.Network
	mon     *monitors.Monitors
	diagCat *diag.Catalogue
	src     sourcetext.Source

	scan  *scanner.Scanner
	cur   scanner.Token
	phase phase

	errorDevices map[names.ID]bool

	// Messages collects one rendered block per reported error, in the order
	// they were found. A CLI prints these verbatim.
	Messages []string

	// Debug accumulates the same errors as structured entries tagged with
	// the current grammar phase, for callers that want to query them
	// programmatically (a REPL collaborator, say) instead of scraping
	// Messages text.
	Debug *debugcontext.DebugContext
}

// New returns a Parser ready to parse src.
func New(src sourcetext.Source, tab *names.Table, devCat *devices.Catalog, net *network.Network, mon *monitors.Monitors, diagCat *diag.Catalogue) (*Parser, error) {
	s, err := scanner.New(src, tab)
	if err != nil {
		return nil, err
	}
	return &Parser{
		tab:          tab,
		devCat:       devCat,
		net:          net,
		mon:          mon,
		diagCat:      diagCat,
		src:          src,
		scan:         s,
		errorDevices: make(map[names.ID]bool),
		Debug:        debugcontext.NewDebugContext(src.Path()),
	}, nil
}

// ParseNetwork parses the whole source file and, if it parsed cleanly,
// performs the whole-circuit checks (check-network, execute-network). It
// returns true iff every phase parsed cleanly, all inputs ended up
// connected, and the network settles on the first cycle.
func (p *Parser) ParseNetwork() bool {
	p.Debug.SetPhase("parse")

	if !p.checkStructure() {
		return false
	}

	// checkStructure consumed the whole token stream; start the main pass
	// from a fresh scanner over the same source.
	s, err := scanner.New(p.src, p.tab)
	if err != nil {
		return false
	}
	p.scan = s
	p.advance()

	p.setPhase(phaseInit)
	p.parseInitBlock()
	p.setPhase(phaseConnect)
	p.parseConnectBlock()
	p.setPhase(phaseMonitor)
	p.parseMonitorBlock()

	if p.scan.InvalidComment {
		p.reportf(p.diagCat.InvalidComment, "", scanner.Token{})
	}

	if !p.diagCat.Clean() {
		return false
	}

	p.Debug.SetPhase("simulate")

	ok, incomplete := p.net.CheckNetwork()
	if !ok {
		for _, id := range incomplete {
			p.reportf(p.diagCat.UnusedInputs, p.nameOf(id), scanner.Token{})
		}
		return false
	}

	if !p.net.ExecuteNetwork() {
		p.reportf(p.diagCat.Oscillate, "", scanner.Token{})
		return false
	}

	return true
}

// setPhase records which grammar section is being parsed, available to
// callers via CurrentPhase for progress reporting.
func (p *Parser) setPhase(ph phase) {
	p.phase = ph
}

// CurrentPhase returns the grammar section the parser last entered.
func (p *Parser) CurrentPhase() string {
	switch p.phase {
	case phaseInit:
		return "INIT"
	case phaseConnect:
		return "CONNECT"
	case phaseMonitor:
		return "MONITOR"
	default:
		return ""
	}
}

func (p *Parser) advance() {
	p.cur = p.scan.NextToken()
}

func (p *Parser) nameOf(id names.ID) string {
	s, _ := p.tab.StringOf(id)
	return s
}

// reportf tallies code (with suffix) and renders a full diagnostic block
// anchored at tok's end, appending it to Messages. Passing the zero
// scanner.Token (as whole-circuit checks do) renders at the start of the
// file instead of a specific token.
func (p *Parser) reportf(code diag.Code, suffix string, tok scanner.Token) {
	p.diagCat.Record(code, suffix)
	line := p.src.LineNumber(tok.Pos)
	entry := diag.Entry{
		Code:      code,
		Suffix:    suffix,
		Line:      line,
		LineStart: p.src.LineStart(tok.Pos),
		TokenPos:  tok.Pos,
		TokenLen:  len(tok.Text),
		Anchor:    diag.AnchorEnd,
	}
	p.Messages = append(p.Messages, diag.Render(p.diagCat, p.src, entry))
	p.Debug.Error(p.Debug.Loc(line, 0), p.diagCat.Message(code, suffix))
}

// skipToStatementEnd consumes tokens through the next SEMICOLON, or stops
// just before the next section keyword or EOF, so one bad statement does not
// cascade into the rest of the section.
func (p *Parser) skipToStatementEnd() {
	for {
		switch p.cur.Kind {
		case scanner.Semicolon:
			p.advance()
			return
		case scanner.EOF, scanner.Init, scanner.Connect, scanner.Monitor:
			return
		default:
			p.advance()
		}
	}
}

// ---- structural pre-pass ----

// checkStructure scans the whole token stream once with a throwaway scanner
// to confirm INIT/CONNECT/(MONITOR) appear in order with a plausible number
// of tokens between them. It never attempts recovery: a failure here aborts
// compilation outright.
func (p *Parser) checkStructure() bool {
	s, err := scanner.New(p.src, p.tab)
	if err != nil {
		return false
	}

	var initAt, connectAt, monitorAt, eofAt = -1, -1, -1, -1
	count := 0
	for {
		tok := s.NextToken()
		switch tok.Kind {
		case scanner.Init:
			if initAt == -1 {
				initAt = count
			}
		case scanner.Connect:
			if connectAt == -1 {
				connectAt = count
			}
		case scanner.Monitor:
			if monitorAt == -1 {
				monitorAt = count
			}
		case scanner.EOF:
			eofAt = count
		}
		count++
		if tok.Kind == scanner.EOF {
			break
		}
	}

	if initAt != 0 {
		p.reportf(p.diagCat.MissStartMark, "INIT", scanner.Token{})
		return false
	}
	if connectAt == -1 {
		p.reportf(p.diagCat.MissStartMark, "CONNECT", scanner.Token{})
		return false
	}
	if connectAt-initAt < 2 {
		p.reportf(p.diagCat.MissDescription, "INIT", scanner.Token{})
		return false
	}
	if monitorAt != -1 {
		if monitorAt-connectAt < 3 {
			p.reportf(p.diagCat.MissDescription, "CONNECT", scanner.Token{})
			return false
		}
		if eofAt-monitorAt < 4 {
			p.reportf(p.diagCat.MissDescription, "MONITOR", scanner.Token{})
			return false
		}
	} else if eofAt-connectAt < 3 {
		p.reportf(p.diagCat.MissDescription, "CONNECT", scanner.Token{})
		return false
	}

	return true
}

// ---- INIT phase ----

func (p *Parser) parseInitBlock() {
	if p.cur.Kind != scanner.Init {
		p.reportf(p.diagCat.MissStartMark, "INIT", p.cur)
		return
	}
	p.advance()
	if p.cur.Kind == scanner.Semicolon {
		p.advance()
	}

	for p.cur.Kind != scanner.Connect && p.cur.Kind != scanner.EOF {
		p.parseInitStmt()
	}
}

func (p *Parser) parseInitStmt() {
	if p.cur.Kind != scanner.DeviceName {
		p.reportf(p.diagCat.InitWrongName, p.cur.Text, p.cur)
		p.skipToStatementEnd()
		return
	}
	deviceTok := p.cur
	p.advance()

	if p.cur.Kind != scanner.InitIs {
		p.reportf(p.diagCat.InitMissKeyword, "is", p.cur)
		p.skipToStatementEnd()
		return
	}
	p.advance()

	if p.cur.Kind != scanner.DeviceType {
		p.reportf(p.diagCat.InitWrongName, p.cur.Text, p.cur)
		p.skipToStatementEnd()
		return
	}
	kindTok := p.cur
	kind, ok := devices.LookupKind(kindTok.Text)
	if !ok {
		p.reportf(p.diagCat.BadDevice, kindTok.Text, kindTok)
		p.skipToStatementEnd()
		return
	}
	p.advance()

	hasQualifier, qualInt, qualStr, qualOk := p.parseQualifierClause(kind)
	if !qualOk {
		p.skipToStatementEnd()
		return
	}

	if p.cur.Kind != scanner.Semicolon {
		p.reportf(p.diagCat.MissTermination, "", p.cur)
		p.skipToStatementEnd()
		return
	}

	code, ok := p.devCat.MakeDevice(deviceTok.ID, kind, hasQualifier, qualInt, qualStr)
	if !ok && !p.errorDevices[deviceTok.ID] {
		p.errorDevices[deviceTok.ID] = true
		p.reportf(code, deviceTok.Text, deviceTok)
	}

	p.advance()
}

// parseQualifierClause consumes the optional qualifier clause appropriate to
// kind. It reports INIT_MISS_KEYWORD if the clause's keyword is missing and
// INIT_WRONG_SET if its value is malformed or (for SWITCH) outside {0,1}.
func (p *Parser) parseQualifierClause(kind devices.Kind) (hasQualifier bool, qualInt int, qualStr string, ok bool) {
	switch kind {
	case devices.Switch:
		if p.cur.Kind != scanner.InitSwitch {
			p.reportf(p.diagCat.InitMissKeyword, "initially_at", p.cur)
			return false, 0, "", false
		}
		p.advance()
		qualTok := p.cur
		hasQualifier, qualInt, qualStr, ok = p.parseNumberQualifier()
		if !ok {
			return false, 0, "", false
		}
		if qualInt != 0 && qualInt != 1 {
			p.reportf(p.diagCat.InitWrongSet, qualTok.Text, qualTok)
			return false, 0, "", false
		}
		return hasQualifier, qualInt, qualStr, true

	case devices.Clock, devices.RC:
		if p.cur.Kind != scanner.InitClk {
			p.reportf(p.diagCat.InitMissKeyword, "with_simulation_cycles", p.cur)
			return false, 0, "", false
		}
		p.advance()
		return p.parseNumberQualifier()

	case devices.And, devices.Nand, devices.Or, devices.Nor:
		if p.cur.Kind != scanner.InitWith {
			p.reportf(p.diagCat.InitMissKeyword, "with", p.cur)
			return false, 0, "", false
		}
		p.advance()
		hasQualifier, qualInt, _, ok = p.parseNumberQualifier()
		if !ok {
			return false, 0, "", false
		}
		if p.cur.Kind != scanner.InitGate {
			p.reportf(p.diagCat.InitMissKeyword, "inputs", p.cur)
			return false, 0, "", false
		}
		p.advance()
		return hasQualifier, qualInt, "", true

	case devices.Siggen:
		if p.cur.Kind != scanner.InitWith {
			p.reportf(p.diagCat.InitMissKeyword, "with", p.cur)
			return false, 0, "", false
		}
		p.advance()
		if p.cur.Kind != scanner.SiggenWave {
			p.reportf(p.diagCat.InitWrongSet, p.cur.Text, p.cur)
			return false, 0, "", false
		}
		qualStr = p.cur.Text
		p.advance()
		return true, 0, qualStr, true

	default: // XOR, DTYPE take no qualifier
		return false, 0, "", true
	}
}

func (p *Parser) parseNumberQualifier() (bool, int, string, bool) {
	if p.cur.Kind != scanner.Number {
		p.reportf(p.diagCat.InitWrongSet, p.cur.Text, p.cur)
		return false, 0, "", false
	}
	n, ok := devices.ParseQualifierInt(p.cur.Text)
	if !ok {
		p.reportf(p.diagCat.InitWrongSet, p.cur.Text, p.cur)
		return false, 0, "", false
	}
	p.advance()
	return true, n, "", true
}

// ---- CONNECT phase ----

func (p *Parser) parseConnectBlock() {
	if p.cur.Kind != scanner.Connect {
		p.reportf(p.diagCat.MissStartMark, "CONNECT", p.cur)
		return
	}
	p.advance()
	if p.cur.Kind == scanner.Semicolon {
		p.advance()
	}

	for p.cur.Kind != scanner.Monitor && p.cur.Kind != scanner.EOF {
		p.parseConnectStmt()
	}
}

func (p *Parser) parseConnectStmt() {
	if p.cur.Kind != scanner.DeviceName && p.cur.Kind != scanner.DeviceOut {
		p.reportf(p.diagCat.ConnectWrongIO, p.cur.Text, p.cur)
		p.skipToStatementEnd()
		return
	}
	srcTok := p.cur
	srcID, srcPort, _ := p.devCat.GetSignalIDs(srcTok.Text)
	if srcPort == "" {
		srcPort = devices.OutputPort
	}
	p.advance()

	if p.cur.Kind != scanner.Connection {
		p.reportf(p.diagCat.ConnectMissKeyword, "connect_to", p.cur)
		p.skipToStatementEnd()
		return
	}
	p.advance()

	if p.cur.Kind != scanner.DeviceIn {
		p.reportf(p.diagCat.ConnectWrongIO, p.cur.Text, p.cur)
		p.skipToStatementEnd()
		return
	}
	dstTok := p.cur
	dstID, dstPort, _ := p.devCat.GetSignalIDs(dstTok.Text)
	p.advance()

	if p.cur.Kind != scanner.Semicolon {
		p.reportf(p.diagCat.MissTermination, "", p.cur)
		p.skipToStatementEnd()
		return
	}

	code, ok := p.net.MakeConnection(srcID, srcPort, dstID, dstPort)
	if !ok && !p.errorDevices[dstID] {
		p.errorDevices[dstID] = true
		p.reportf(code, dstTok.Text, dstTok)
	}

	p.advance()
}

// ---- MONITOR phase ----

func (p *Parser) parseMonitorBlock() {
	if p.cur.Kind != scanner.Monitor {
		return // MONITOR is optional
	}
	p.advance()
	if p.cur.Kind == scanner.Semicolon {
		p.advance()
	}

	for p.cur.Kind != scanner.EOF {
		p.parseMonitorStmt()
	}
}

func (p *Parser) parseMonitorStmt() {
	if p.cur.Kind != scanner.InitMonitor {
		p.reportf(p.diagCat.MonitorMissKeyword, "Initial_monitor_at", p.cur)
		p.skipToStatementEnd()
		return
	}
	p.advance()

	any := false
	for p.cur.Kind == scanner.DeviceName || p.cur.Kind == scanner.DeviceOut {
		tok := p.cur
		id, port, _ := p.devCat.GetSignalIDs(tok.Text)
		if port == "" {
			port = devices.OutputPort
		}
		code, ok := p.mon.MakeMonitor(id, port, 0)
		if !ok {
			p.reportf(code, tok.Text, tok)
		}
		any = true
		p.advance()
	}
	if !any {
		p.reportf(p.diagCat.MonitorWrongPoint, p.cur.Text, p.cur)
	}

	if p.cur.Kind != scanner.Semicolon {
		p.reportf(p.diagCat.MissTermination, "", p.cur)
		p.skipToStatementEnd()
		return
	}
	p.advance()
}
