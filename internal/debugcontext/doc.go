// Package debugcontext provides a passive, append-only data structure that
// accumulates diagnostic entries (errors, warnings, info, traces) as a
// circuit definition file is parsed and checked. It does not perform I/O or
// formatting; the "Error in line: N" blocks printed by the CLI are rendered
// separately by package diag from its own diag.Entry values.
package debugcontext
