// Package diag defines the diagnostic sink the analyzer accepts optionally
// (§7): the core never writes to a process-global writer on its own behalf,
// so every message it might want to surface goes through this interface
// instead.
package diag

import "github.com/pterm/pterm"

// Sink receives informational and error diagnostics from the analyzer. It is
// never required: callers that want silence pass Nop.
type Sink interface {
	Infof(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

type nopSink struct{}

func (nopSink) Infof(string, ...interface{})  {}
func (nopSink) Errorf(string, ...interface{}) {}

// Nop discards every diagnostic. It is the default for library consumers
// and for tests that don't care about console output.
var Nop Sink = nopSink{}

// ptermSink renders diagnostics with pterm's styled info/error prefixes, the
// same pairing the companion CLI's summary output (printSummary) uses.
type ptermSink struct{}

// Pterm returns a Sink that prints colorized diagnostics via pterm. It is
// what the companion driver (cmd/llgramctl) wires in by default.
func Pterm() Sink {
	return ptermSink{}
}

func (ptermSink) Infof(format string, args ...interface{}) {
	pterm.Info.Printfln(format, args...)
}

func (ptermSink) Errorf(format string, args ...interface{}) {
	pterm.Error.Printfln(format, args...)
}
