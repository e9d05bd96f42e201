// Package diag collects the warnings and errors produced while compiling a
// document. Nothing reported here stops compilation; a Reporter only records
// and logs.
package diag

import (
	"fmt"

	"github.com/tliron/commonlog"
)

type Severity int

const (
	Warning Severity = iota
	Error
)

func (s Severity) String() string {
	switch s {
	case Warning:
		return "warning"
	case Error:
		return "error"
	default:
		return fmt.Sprintf("Severity(%d)", int(s))
	}
}

// Diagnostic is a single message tied to a source line. Line is 1-based; 0
// means the location is unknown.
type Diagnostic struct {
	Severity Severity
	File     string
	Line     int
	Message  string
}

func (d Diagnostic) String() string {
	switch {
	case d.File != "" && d.Line > 0:
		return fmt.Sprintf("%s:%d: %s: %s", d.File, d.Line, d.Severity, d.Message)
	case d.File != "":
		return fmt.Sprintf("%s: %s: %s", d.File, d.Severity, d.Message)
	case d.Line > 0:
		return fmt.Sprintf("%d: %s: %s", d.Line, d.Severity, d.Message)
	}
	return fmt.Sprintf("%s: %s", d.Severity, d.Message)
}

// Reporter records diagnostics for one document and forwards them to a
// commonlog logger. A Reporter must not be shared between documents.
type Reporter struct {
	file string
	log  commonlog.Logger
	list []Diagnostic
}

// NewReporter returns a reporter for file. A nil logger selects the
// "docscript" logger.
func NewReporter(file string, log commonlog.Logger) *Reporter {
	if log == nil {
		log = commonlog.GetLogger("docscript")
	}
	return &Reporter{file: file, log: log}
}

func (r *Reporter) File() string {
	return r.file
}

func (r *Reporter) Warnf(line int, format string, args ...any) {
	r.report(Warning, line, fmt.Sprintf(format, args...))
}

func (r *Reporter) Errorf(line int, format string, args ...any) {
	r.report(Error, line, fmt.Sprintf(format, args...))
}

func (r *Reporter) report(sev Severity, line int, msg string) {
	r.list = append(r.list, Diagnostic{Severity: sev, File: r.file, Line: line, Message: msg})
	switch sev {
	case Error:
		r.log.Error(msg, "file", r.file, "line", line)
	default:
		r.log.Warning(msg, "file", r.file, "line", line)
	}
}

// Diagnostics returns the diagnostics reported so far, in report order.
func (r *Reporter) Diagnostics() []Diagnostic {
	out := make([]Diagnostic, len(r.list))
	copy(out, r.list)
	return out
}

func (r *Reporter) Len() int {
	return len(r.list)
}

func (r *Reporter) HasErrors() bool {
	for _, d := range r.list {
		if d.Severity == Error {
			return true
		}
	}
	return false
}
