package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		wantMsg string
		wantCat Category
	}{
		{
			name:    "double dispose",
			code:    "E101",
			wantMsg: "Scope disposed twice",
			wantCat: CategoryLifecycle,
		},
		{
			name:    "ref unset",
			code:    "E201",
			wantMsg: "Node reference is not set",
			wantCat: CategoryRef,
		},
		{
			name:    "config invalid",
			code:    "E301",
			wantMsg: "Invalid configuration",
			wantCat: CategoryConfig,
		},
		{
			name:    "unknown error code",
			code:    "E999",
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

func TestErrorString(t *testing.T) {
	err := New("E302").Wrap(stderrors.New("open keyed.json: no such file"))
	want := "E302: Configuration file not found: open keyed.json: no such file"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestIsAndHasCode(t *testing.T) {
	inner := New("E303").Wrap(stderrors.New("bad yaml"))
	outer := New("E301").Wrap(inner)
	wrapped := fmt.Errorf("load: %w", outer)

	if !stderrors.Is(wrapped, New("E301")) {
		t.Error("errors.Is should match outer code")
	}
	if !HasCode(wrapped, "E303") {
		t.Error("HasCode should find nested code")
	}
	if HasCode(wrapped, "E101") {
		t.Error("HasCode should not match absent code")
	}
	if HasCode(stderrors.New("plain"), "E101") {
		t.Error("HasCode should not match plain errors")
	}
}

func TestFromError(t *testing.T) {
	if FromError(nil, "E301") != nil {
		t.Error("FromError(nil) should be nil")
	}

	base := New("E402")
	if got := FromError(fmt.Errorf("ctx: %w", base), "E301"); got != base {
		t.Error("FromError should return the existing *Error")
	}

	plain := stderrors.New("boom")
	got := FromError(plain, "E401")
	if got.Code != "E401" || !stderrors.Is(got, plain) {
		t.Errorf("FromError wrapped = %+v", got)
	}
}

func TestPanic(t *testing.T) {
	defer func() {
		r := recover()
		e, ok := r.(*Error)
		if !ok {
			t.Fatalf("recovered %T, want *Error", r)
		}
		if e.Code != "E102" {
			t.Errorf("Code = %q, want E102", e.Code)
		}
		if e.Detail != "handle 3:1" {
			t.Errorf("Detail = %q", e.Detail)
		}
	}()
	Panic("E102", "handle %d:%d", 3, 1)
}

func TestFormat(t *testing.T) {
	DisableColors()
	defer EnableColors()

	out := New("E201").WithSuggestion("call TryGet first").Format()
	for _, want := range []string{"ERROR E201: Node reference is not set", "Hint: call TryGet first"} {
		if !strings.Contains(out, want) {
			t.Errorf("Format() missing %q in:\n%s", want, out)
		}
	}

	// Registered codes carry no external links.
	for _, code := range GetAllCodes() {
		if out := New(code).Format(); strings.Contains(out, "http") {
			t.Errorf("%s formats with a link:\n%s", code, out)
		}
	}

	if got := New("E101").FormatCompact(); got != "E101: Scope disposed twice" {
		t.Errorf("FormatCompact() = %q", got)
	}
}

func TestWrapText(t *testing.T) {
	lines := wrapText("one two three four five six", 10)
	for _, l := range lines {
		if len(l) > 10 {
			t.Errorf("line %q exceeds width", l)
		}
	}
	if strings.Join(lines, " ") != "one two three four five six" {
		t.Errorf("wrapText lost words: %v", lines)
	}
	if wrapText("", 10) != nil {
		t.Error("empty text should produce nil")
	}
}

func TestAllCodesRegistered(t *testing.T) {
	for _, code := range GetAllCodes() {
		tmpl, ok := GetTemplate(code)
		if !ok || tmpl.Message == "" || tmpl.Category == "" {
			t.Errorf("code %s has incomplete template", code)
		}
	}
}
