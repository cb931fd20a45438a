package errors

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"strings"
	"testing"

	"github.com/funa-dev/funa/pkg/expr"
	"github.com/funa-dev/funa/pkg/reactive"
	"github.com/funa-dev/funa/pkg/render"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		wantMsg string
		wantCat Category
	}{
		{
			name:    "syntax error",
			code:    "F001",
			wantMsg: "Malformed expression",
			wantCat: CategorySyntax,
		},
		{
			name:    "binding error",
			code:    "F005",
			wantMsg: "Unsupported two-way binding",
			wantCat: CategoryBinding,
		},
		{
			name:    "source error",
			code:    "F111",
			wantMsg: "Remote source failed",
			wantCat: CategorySource,
		},
		{
			name:    "unknown error code",
			code:    "F999",
			wantMsg: "Unknown error",
			wantCat: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.code)
			if err.Message != tt.wantMsg {
				t.Errorf("Message = %q, want %q", err.Message, tt.wantMsg)
			}
			if err.Category != tt.wantCat {
				t.Errorf("Category = %q, want %q", err.Category, tt.wantCat)
			}
			if err.Code != tt.code {
				t.Errorf("Code = %q, want %q", err.Code, tt.code)
			}
		})
	}
}

func TestEngineErrorsAreRegistered(t *testing.T) {
	engine := []error{
		&expr.SyntaxError{Input: "x"},
		&render.LookupError{Kind: "handler", Name: "x"},
		&reactive.NotObservableError{Property: "x"},
		&render.DuplicateTemplateError{Name: "x"},
		&render.UnsupportedBindingError{Path: []string{"a", "b"}},
	}
	for _, err := range engine {
		code := err.(interface{ Code() string }).Code()
		if _, ok := Lookup(code); !ok {
			t.Errorf("code %s of %T is not registered", code, err)
		}
	}
}

func TestFunaError_Error(t *testing.T) {
	err := New("F004")
	if got, want := err.Error(), "F004: Duplicated template id"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	err2 := &FunaError{Message: "test error"}
	if err2.Error() != "test error" {
		t.Errorf("Error() = %q, want %q", err2.Error(), "test error")
	}
}

func TestFromError(t *testing.T) {
	if FromError(nil) != nil {
		t.Error("FromError(nil) should return nil")
	}

	fe := New("F001")
	if FromError(fmt.Errorf("render: %w", fe)) != fe {
		t.Error("FromError should return a wrapped FunaError as-is")
	}

	lookup := &render.LookupError{Kind: "converter", Name: "money"}
	got := FromError(fmt.Errorf("page.html: %w", lookup))
	if got.Code != "F002" {
		t.Errorf("Code = %q, want F002", got.Code)
	}
	if !stderrors.Is(got, lookup) {
		t.Error("coded error should stay reachable through Unwrap")
	}
	if got.Detail != "page.html: converter is not defined: money" {
		t.Errorf("Detail = %q", got.Detail)
	}

	plain := stderrors.New("boom")
	if got := FromError(plain, "F110"); got.Code != "F110" || got.Wrapped != plain {
		t.Errorf("fallback code not applied: %+v", got)
	}
	if got := FromError(plain); got.Code != "" || got.Category != CategoryCLI || got.Message != "boom" {
		t.Errorf("uncoded error converted to %+v", got)
	}
}

func TestWithSource(t *testing.T) {
	src := "<template>\n<ul $=items>\n  <li ?=test(b)>{name}</li>\n</ul>\n</template>"
	err := FromError(&expr.SyntaxError{Input: "test(b)"}).WithSource("page.html", src)

	want := &Location{File: "page.html", Line: 3, Column: 9}
	if *err.Location != *want {
		t.Fatalf("Location = %+v, want %+v", err.Location, want)
	}
	if err.ContextStart != 2 || len(err.Context) != 3 {
		t.Errorf("Context = %q starting at %d", err.Context, err.ContextStart)
	}

	other := FromError(&render.DuplicateTemplateError{Name: "a"}).WithSource("page.html", src)
	if other.Location.File != "page.html" || other.Location.Line != 0 {
		t.Errorf("Location = %+v", other.Location)
	}
}

func TestFormat(t *testing.T) {
	DisableColors()
	defer EnableColors()

	src := "<p>\n{a:f(b)}\n</p>"
	err := FromError(&expr.SyntaxError{Input: "{a:f(b)}"}).WithSource("x.html", src)
	out := err.Format()

	for _, want := range []string{
		"ERROR F001: Malformed expression",
		"x.html:2:1",
		"→    2 │ {a:f(b)}",
		"       │ ^",
		"Hint: Call arguments may only be literals",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Format() missing %q in:\n%s", want, out)
		}
	}
}

func TestFormatCompact(t *testing.T) {
	err := New("F004").WithLocation("a.html", 3, 0).WithDetail("duplicated template id: x")
	want := "a.html:3: F004: Duplicated template id: duplicated template id: x"
	if got := err.FormatCompact(); got != want {
		t.Errorf("FormatCompact() = %q, want %q", got, want)
	}
}

func TestFormatJSON(t *testing.T) {
	err := New("F002").WithLocation("a.html", 1, 2)

	var got map[string]any
	if e := json.Unmarshal([]byte(err.FormatJSON()), &got); e != nil {
		t.Fatalf("invalid JSON: %v", e)
	}
	if got["code"] != "F002" || got["category"] != "lookup" {
		t.Errorf("FormatJSON() = %v", got)
	}
	loc, _ := got["location"].(map[string]any)
	if loc["file"] != "a.html" || loc["line"] != 1.0 || loc["column"] != 2.0 {
		t.Errorf("location = %v", loc)
	}
}

func TestPrint(t *testing.T) {
	DisableColors()
	defer EnableColors()

	var buf bytes.Buffer
	Print(&buf, &render.LookupError{Kind: "template", Name: "main"})
	if !strings.Contains(buf.String(), "ERROR F002: Name is not defined") {
		t.Errorf("Print() = %q", buf.String())
	}

	buf.Reset()
	Print(&buf, nil)
	if buf.Len() != 0 {
		t.Errorf("Print(nil) wrote %q", buf.String())
	}
}

func TestWrapText(t *testing.T) {
	lines := wrapText("aaa bbb ccc ddd", 7)
	if len(lines) != 2 || lines[0] != "aaa bbb" || lines[1] != "ccc ddd" {
		t.Errorf("wrapText() = %q", lines)
	}
	if wrapText("", 10) != nil {
		t.Error("wrapText of empty text should be nil")
	}
}
