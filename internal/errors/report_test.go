package errors

import (
	"bytes"
	"strings"
	"testing"

	"github.com/numerobis-lang/numerobis/internal/source"
)

func TestThrowRendersMessageTemplate(t *testing.T) {
	r := NewReporter("demo.nb", "x = 1 + true\n")
	r.Color = false

	err := r.New(502, source.Span{
		Start: source.Pos{File: "demo.nb", Line: 1, Column: 5},
		End:   source.Pos{File: "demo.nb", Line: 1, Column: 6},
	}, "operation", "+", "left", "Int", "right", "Bool")

	rep, ok := AsReport(err)
	if !ok {
		t.Fatal("expected a *Report")
	}
	if rep.Code != 502 {
		t.Fatalf("expected code 502, got %d", rep.Code)
	}
	if !strings.Contains(rep.Message, "Int") || !strings.Contains(rep.Message, "Bool") {
		t.Fatalf("expected substituted message, got %q", rep.Message)
	}

	var buf bytes.Buffer
	r.Render(&buf, err)
	if !strings.Contains(buf.String(), "E502") {
		t.Fatalf("expected rendered output to mention E502, got %q", buf.String())
	}
}

func TestThrowUnknownCodePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on unknown code")
		}
	}()
	r := NewReporter("demo.nb", "")
	r.Throw(99999, source.Span{})
}

func TestParseCatalogCoversUsedCodes(t *testing.T) {
	for _, code := range []int{101, 502, 503, 601, 602, 603, 704, 705} {
		if _, ok := defaultCatalog[code]; !ok {
			t.Fatalf("expected catalogue to contain E%03d", code)
		}
	}
}
