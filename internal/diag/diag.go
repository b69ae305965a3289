// Package diag implements the synthesis pipeline's diagnostic stream:
// a severity-tagged entry log with optional nested begin/end groups
// (spec §7: "terminal diagnostic with severity {NOTE, WARN, ERROR} and
// optional nested groups"), grounded on original_source/src/diag
// (Diagnostics, Logger, Processor, TerminalPrinter).
//
// Unlike the teacher (github.com/gaissmai/bart), which is a library
// with no logger of its own, this repository is a pass pipeline and
// needs one; leaf entries are sunk through github.com/rs/zerolog so
// the same stream is both human-printable and machine-parseable.
package diag

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// Severity is the level of one diagnostic entry.
type Severity uint8

const (
	NOTE Severity = iota
	WARN
	ERROR
)

func (s Severity) String() string {
	switch s {
	case NOTE:
		return "NOTE"
	case WARN:
		return "WARN"
	case ERROR:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Entry is one diagnostic record, optionally nested inside a named
// group (Group == "" for a top-level entry).
type Entry struct {
	Severity Severity
	Message  string
	Group    string
}

// group is one node of the begin/end nesting tree a Diagnostics value
// accumulates: a name, its own entries in order, and child groups.
// childAt[i] is how many of the group's own entries preceded the Begin
// that opened children[i].
type group struct {
	name     string
	entries  []Entry
	children []*group
	childAt  []int
}

// Diagnostics accumulates entries into a nested group tree, mirroring
// original_source's Diagnostics::add plus the begin/end grouping spec
// §7 names. It is not safe for concurrent use — diagnostics are
// produced synchronously by the single-threaded pass pipeline (spec
// §5: "Diagnostic logger state is process-wide; logging calls are the
// only I/O interaction during synthesis").
type Diagnostics struct {
	root  group
	stack []*group
}

// NewDiagnostics returns an empty Diagnostics with no active group.
func NewDiagnostics() *Diagnostics {
	d := &Diagnostics{}
	d.stack = []*group{&d.root}
	return d
}

// Begin opens a named nested group; diagnostics added until the
// matching End are attributed to it.
func (d *Diagnostics) Begin(name string) {
	g := &group{name: name}
	top := d.stack[len(d.stack)-1]
	top.children = append(top.children, g)
	top.childAt = append(top.childAt, len(top.entries))
	d.stack = append(d.stack, g)
}

// End closes the most recently opened group. It panics if no group is
// open — an unbalanced Begin/End pair is a caller bug, not a
// recoverable condition.
func (d *Diagnostics) End() {
	if len(d.stack) == 1 {
		panic("diag: End called without a matching Begin")
	}
	d.stack = d.stack[:len(d.stack)-1]
}

// Add appends an entry to the currently open group (the root if none
// is open).
func (d *Diagnostics) Add(sev Severity, msg string) {
	top := d.stack[len(d.stack)-1]
	top.entries = append(top.entries, Entry{Severity: sev, Message: msg, Group: top.name})
}

// Get flattens the group tree depth-first into entries in the order
// they were added: a child group's entries appear where its Begin was
// called, between the parent's earlier and later entries. Each entry
// carries the name of the group it was added to.
func (d *Diagnostics) Get() []Entry {
	var out []Entry
	var walk func(g *group)
	walk = func(g *group) {
		next := 0
		for i, c := range g.children {
			out = append(out, g.entries[next:g.childAt[i]]...)
			next = g.childAt[i]
			walk(c)
		}
		out = append(out, g.entries[next:]...)
	}
	walk(&d.root)
	return out
}

// Processor walks a Diagnostics tree depth-first, invoking OnEntry for
// every entry in traversal order (original_source's Processor::process
// over onEntry).
type Processor struct {
	OnEntry func(Entry)
}

// Process runs the processor over d's accumulated entries.
func (p *Processor) Process(d *Diagnostics) {
	for _, e := range d.Get() {
		p.OnEntry(e)
	}
}

// Logger sinks diagnostic entries both into a Diagnostics accumulator
// (for later Processor-driven rendering) and directly into a zerolog
// leaf sink (for immediate structured output), matching the teacher's
// error-handling split: anything a caller can legitimately hit becomes
// a typed value (SynthError here), while the logger itself never
// panics on a bad message — only invariant violations do, as ordinary
// Go panics, elsewhere in the repository.
type Logger struct {
	Diagnostics *Diagnostics
	zl          zerolog.Logger
}

// NewLogger returns a Logger writing structured JSON lines to w (os.Stderr
// if w is nil) and accumulating into a fresh Diagnostics tree.
func NewLogger(w io.Writer) *Logger {
	if w == nil {
		w = os.Stderr
	}
	return &Logger{
		Diagnostics: NewDiagnostics(),
		zl:          zerolog.New(w).With().Timestamp().Logger(),
	}
}

func (l *Logger) log(sev Severity, msg string) {
	l.Diagnostics.Add(sev, msg)
	switch sev {
	case NOTE:
		l.zl.Info().Msg(msg)
	case WARN:
		l.zl.Warn().Msg(msg)
	case ERROR:
		l.zl.Error().Msg(msg)
	}
}

// Note, Warn, Error log a diagnostic at the corresponding severity.
func (l *Logger) Note(msg string)  { l.log(NOTE, msg) }
func (l *Logger) Warn(msg string)  { l.log(WARN, msg) }
func (l *Logger) Error(msg string) { l.log(ERROR, msg) }

// Begin/End delegate to the underlying Diagnostics group nesting.
func (l *Logger) Begin(name string) { l.Diagnostics.Begin(name) }
func (l *Logger) End()              { l.Diagnostics.End() }
