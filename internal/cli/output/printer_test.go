package output

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/pharmalink/pharmalink/internal/controller"
	"github.com/pharmalink/pharmalink/internal/core/domain"
)

func newTestPrinter() (*Printer, *bytes.Buffer, *bytes.Buffer) {
	var stdout, stderr bytes.Buffer
	return NewPrinter(&stdout, &stderr, false), &stdout, &stderr
}

func TestReport_ExitCodes(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		code   int
		stdout string
		stderr string
	}{
		{"nil", nil, ExitSuccess, "", ""},
		{"redirect", &controller.RedirectError{To: domain.DestinationLogin}, ExitRedirect, "redirect: login.html", ""},
		{
			"redirect after 401",
			&controller.RedirectError{To: domain.DestinationLogin, Cause: &domain.UnauthenticatedError{}},
			ExitRedirect, "redirect: login.html", "session expired",
		},
		{"bare unauthenticated", fmt.Errorf("wrapped: %w", &domain.UnauthenticatedError{}), ExitRedirect, "redirect: login.html", "session expired"},
		{"validation", &domain.ValidationError{Fields: map[string]string{"email": "email is required"}}, ExitUsage, "", "email is required"},
		{"api", &domain.APIError{Status: 400, Message: "Not enough stock available"}, ExitAPI, "", "Not enough stock available"},
		{"network", &domain.NetworkError{Err: errors.New("connection refused")}, ExitNetwork, "", "connection refused"},
		{"other", errors.New("boom"), ExitGeneral, "", "boom"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, stdout, stderr := newTestPrinter()
			if got := p.Report(tt.err); got != tt.code {
				t.Fatalf("exit code = %d, want %d", got, tt.code)
			}
			if !strings.Contains(stdout.String(), tt.stdout) {
				t.Errorf("stdout %q missing %q", stdout.String(), tt.stdout)
			}
			if !strings.Contains(stderr.String(), tt.stderr) {
				t.Errorf("stderr %q missing %q", stderr.String(), tt.stderr)
			}
		})
	}
}

func TestJSON_Indents(t *testing.T) {
	p, stdout, _ := newTestPrinter()
	if err := p.JSON([]byte(`{"a":1}`)); err != nil {
		t.Fatalf("JSON: %v", err)
	}
	if stdout.String() != "{\n  \"a\": 1\n}\n" {
		t.Fatalf("unexpected output %q", stdout.String())
	}
	if err := p.JSON([]byte(`{`)); err == nil {
		t.Fatalf("expected error for invalid JSON")
	}
}

func TestTable_Render(t *testing.T) {
	p, stdout, _ := newTestPrinter()
	tbl := p.NewTable("ID", "Name")
	tbl.AddRow("1", "Panadol")
	tbl.AddRow("5", "Amoxicillin")
	if err := tbl.Render(); err != nil {
		t.Fatalf("render: %v", err)
	}
	out := stdout.String()
	for _, want := range []string{"ID", "NAME", "Panadol", "Amoxicillin"} {
		if !strings.Contains(out, want) {
			t.Errorf("table output missing %q: %q", want, out)
		}
	}
}
