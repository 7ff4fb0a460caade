package output

import (
	"bytes"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/vertti/precheck/pkg/check"
)

func TestFormatLabel(t *testing.T) {
	pr := NewPrinter(&bytes.Buffer{}, PlainPalette)

	tests := []struct {
		input string
		want  string
	}{
		{"exit: 1", "exit: 1"},
		{"output: error[E0425]", "output: error[E0425]"},
		{"no colon here", "no colon here"},
		{"", ""},
	}

	for _, tt := range tests {
		got := pr.formatLabel(tt.input)
		if got != tt.want {
			t.Errorf("formatLabel(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestFormatLabelWithColors(t *testing.T) {
	pr := NewPrinter(&bytes.Buffer{}, Palette{Dim: "[DIM]", Reset: "[RESET]"})

	tests := []struct {
		input string
		want  string
	}{
		{"exit: 1", "[DIM]exit:[RESET] 1"},
		{"output: a: b", "[DIM]output:[RESET] a: b"},
		{"no colon here", "no colon here"},
	}

	for _, tt := range tests {
		got := pr.formatLabel(tt.input)
		if got != tt.want {
			t.Errorf("formatLabel(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestPrintResultOK(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf, PlainPalette).PrintResult(check.Result{
		Name:    "fmt",
		Status:  check.StatusOK,
		Details: []string{"exit: 0"},
	})

	expected := "[OK] fmt\n     exit: 0\n"
	if buf.String() != expected {
		t.Errorf("PrintResult output = %q, want %q", buf.String(), expected)
	}
}

func TestPrintResultFail(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf, PlainPalette).PrintResult(check.Result{
		Name:    "clippy",
		Status:  check.StatusFail,
		Details: []string{"exit: 101"},
	})

	expected := "[FAIL] clippy\n       exit: 101\n"
	if buf.String() != expected {
		t.Errorf("PrintResult output = %q, want %q", buf.String(), expected)
	}
}

func TestPrintResultDuration(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf, PlainPalette).PrintResult(check.Result{
		Name:     "test",
		Status:   check.StatusOK,
		Duration: 1234 * time.Millisecond,
	})

	expected := "[OK] test (1.2s)\n"
	if buf.String() != expected {
		t.Errorf("PrintResult output = %q, want %q", buf.String(), expected)
	}
}

func TestPrintResultColors(t *testing.T) {
	var buf bytes.Buffer
	pr := NewPrinter(&buf, Palette{OK: "<g>", Fail: "<r>", Reset: "</>"})

	pr.PrintResult(check.Result{Name: "a", Status: check.StatusOK})
	pr.PrintResult(check.Result{Name: "b", Status: check.StatusFail})

	expected := "<g>[OK]</> a\n<r>[FAIL]</> b\n"
	if buf.String() != expected {
		t.Errorf("PrintResult output = %q, want %q", buf.String(), expected)
	}
}

func TestPrintResultConcurrentLinesDoNotInterleave(t *testing.T) {
	var buf bytes.Buffer
	pr := NewPrinter(&buf, PlainPalette)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			pr.PrintResult(check.Result{
				Name:    fmt.Sprintf("check-%d", i),
				Status:  check.StatusFail,
				Details: []string{fmt.Sprintf("detail-%d", i)},
			})
		}(i)
	}
	wg.Wait()

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	if len(lines) != 100 {
		t.Fatalf("got %d lines, want 100", len(lines))
	}
	for i := 0; i < len(lines); i += 2 {
		var n int
		if _, err := fmt.Sscanf(lines[i], "[FAIL] check-%d", &n); err != nil {
			t.Fatalf("line %d = %q, want a status line", i, lines[i])
		}
		if want := fmt.Sprintf("       detail-%d", n); lines[i+1] != want {
			t.Errorf("line %d = %q, want %q", i+1, lines[i+1], want)
		}
	}
}

func TestPrintBanner(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf, PlainPalette).PrintBanner("All checks passed!")

	if buf.String() != "\nAll checks passed!\n" {
		t.Errorf("PrintBanner output = %q", buf.String())
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{0, "0s"},
		{1500 * time.Microsecond, "2ms"},
		{250 * time.Millisecond, "250ms"},
		{1234 * time.Millisecond, "1.2s"},
		{90 * time.Second, "1m30s"},
	}

	for _, tt := range tests {
		if got := FormatDuration(tt.in); got != tt.want {
			t.Errorf("FormatDuration(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRenderTable(t *testing.T) {
	if got := RenderTable(nil, nil); got != "" {
		t.Errorf("RenderTable with no headers = %q, want empty", got)
	}

	got := RenderTable([]string{"Check", "Mode"}, [][]string{{"fmt", "sequential"}, {"test"}})
	for _, want := range []string{"CHECK", "MODE", "fmt", "sequential", "test", "╭"} {
		if !strings.Contains(got, want) {
			t.Errorf("RenderTable output missing %q:\n%s", want, got)
		}
	}
}

func TestPrintSummary(t *testing.T) {
	var buf bytes.Buffer
	pr := NewPrinter(&buf, PlainPalette)

	pr.PrintSummary(nil)
	if buf.Len() != 0 {
		t.Errorf("PrintSummary(nil) wrote %q, want nothing", buf.String())
	}

	pr.PrintSummary([]check.Result{
		{Name: "fmt", Mode: check.ModeSequential, Status: check.StatusOK, Duration: time.Second},
		{Name: "deny", Mode: check.ModeConcurrent, Status: check.StatusFail},
	})
	out := buf.String()
	for _, want := range []string{"fmt", "sequential", "OK", "1s", "deny", "concurrent", "FAIL"} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
}
