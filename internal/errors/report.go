package errors

import (
	stderrors "errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/numerobis-lang/numerobis/internal/source"
)

// Report is the structured diagnostic produced by a Throw call, mirroring
// the teacher's Report/ReportError split so a *Report survives errors.As()
// unwrapping while still satisfying the error interface.
type Report struct {
	Code    int
	Type    string
	Message string
	Span    source.Span
	Help    string
	Stack   []source.Pos // call-site locations, outermost first (exceptions.py's `stack`)
}

// ReportError wraps a Report as an error.
type ReportError struct {
	Rep *Report
}

func (e *ReportError) Error() string {
	if e.Rep == nil {
		return "unknown error"
	}
	return fmt.Sprintf("E%03d: %s", e.Rep.Code, e.Rep.Message)
}

// AsReport extracts a Report from an error chain, if present.
func AsReport(err error) (*Report, bool) {
	var re *ReportError
	if stderrors.As(err, &re) {
		return re.Rep, true
	}
	return nil, false
}

// Reporter renders diagnostics against a catalogue and the source text of
// the module under check, grounded on exceptions.py's Exceptions/uException
// pair: Throw looks up and formats the message (Exceptions.throw), Render
// lays out the header/preview/help (uException.__init__).
type Reporter struct {
	Catalog  Catalog
	File     string
	Source   string
	Stack    []source.Pos
	Color    bool
	Reported []*Report // every diagnostic thrown so far, first to last
}

// NewReporter builds a Reporter over the default embedded catalogue.
func NewReporter(file, src string) *Reporter {
	return &Reporter{Catalog: defaultCatalog, File: file, Source: src, Color: true}
}

// New builds a *ReportError for code, formatting its template against args
// (alternating key, value pairs), without recording it. Panics if code is
// unknown, matching the Python original raising ValueError("Unknown error
// code").
func (r *Reporter) New(code int, span source.Span, args ...any) error {
	m, ok := r.Catalog[code]
	if !ok {
		panic(fmt.Sprintf("errors: unknown error code E%03d", code))
	}
	rep := &Report{
		Code:    code,
		Type:    m.Type,
		Message: m.Render(args...),
		Span:    span,
		Help:    m.Help,
		Stack:   append([]source.Pos(nil), r.Stack...),
	}
	return &ReportError{Rep: rep}
}

// Throw records a diagnostic without returning it, matching the
// ErrorSink interface the unit package's Simplifier expects (see
// internal/unit.ErrorSink) and exceptions.py's Exceptions.throw, which is
// likewise called for its side effect.
func (r *Reporter) Throw(code int, span source.Span, args ...any) {
	err := r.New(code, span, args...)
	rep, _ := AsReport(err)
	r.Reported = append(r.Reported, rep)
}

// Err returns the first recorded diagnostic as an error, or nil if none was
// thrown — a convenience for callers that want ordinary Go error flow on
// top of the accumulating Throw.
func (r *Reporter) Err() error {
	if len(r.Reported) == 0 {
		return nil
	}
	return &ReportError{Rep: r.Reported[0]}
}

// Render writes a human-readable rendering of err (if it carries a *Report)
// to w: a bold type/location header, the message, an optional source-line
// preview with a caret underline, and a dimmed help line — the layout
// mirrors uException.__init__, the underline style adapted from
// CWBudde-go-dws/internal/errors/errors.go.
func (r *Reporter) Render(w io.Writer, err error) {
	rep, ok := AsReport(err)
	if !ok {
		fmt.Fprintln(w, err)
		return
	}

	bold := color.New(color.FgRed, color.Bold)
	dim := color.New(color.Faint)
	if !r.Color {
		bold.DisableColor()
		dim.DisableColor()
	}

	for _, prev := range rep.Stack {
		fmt.Fprintln(w, dim.Sprintf("at %s", r.location(prev)))
	}

	fmt.Fprintf(w, "%s %s\n", bold.Sprintf("%s", rep.Type), dim.Sprintf("at %s", r.location(rep.Span.Start)))
	fmt.Fprintf(w, "  %s %s\n", dim.Sprintf("[E%03d]", rep.Code), rep.Message)

	if preview, underline, ok := r.preview(rep.Span); ok {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "%s │   %s\n", dim.Sprintf("%4d", rep.Span.Start.Line), preview)
		fmt.Fprintf(w, "     │   %s\n", bold.Sprintf("%s", underline))
	}

	if rep.Help != "" {
		fmt.Fprintln(w, dim.Sprintf("  %s", rep.Help))
	}
	fmt.Fprintln(w)
}

func (r *Reporter) location(p source.Pos) string {
	file := r.File
	if file == "" {
		file = "<unknown>"
	}
	if p.IsZero() {
		return file
	}
	return fmt.Sprintf("%s:%d:%d", file, p.Line, p.Column)
}

func (r *Reporter) preview(span source.Span) (preview, underline string, ok bool) {
	if r.Source == "" || span.IsZero() {
		return "", "", false
	}
	lines := strings.Split(r.Source, "\n")
	if span.Start.Line < 1 || span.Start.Line > len(lines) {
		return "", "", false
	}
	line := lines[span.Start.Line-1]

	start := span.Start.Column - 1
	end := span.End.Column - 1
	if span.End.IsZero() || end <= start {
		end = start + 1
	}
	if start < 0 {
		start = 0
	}
	if end > len(line) {
		end = len(line)
	}
	if start > len(line) {
		start = len(line)
	}

	preview = line
	width := end - start
	if width < 1 {
		width = 1
	}
	underline = strings.Repeat(" ", start) + strings.Repeat("^", width)
	return preview, underline, true
}
