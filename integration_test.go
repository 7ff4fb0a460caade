//go:build unix

package precheck_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/vertti/precheck/pkg/checklist"
	"github.com/vertti/precheck/pkg/output"
	"github.com/vertti/precheck/pkg/process"
	"github.com/vertti/precheck/pkg/runner"
)

// Integration tests run real child processes through the Real* implementations.
// Unit tests in each package cover edge cases with mocks.

func loadList(t *testing.T, content string) checklist.List {
	t.Helper()
	path := filepath.Join(t.TempDir(), checklist.FileName)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	l, err := checklist.Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	return l
}

func newRunner(buf *bytes.Buffer) *runner.Runner {
	return &runner.Runner{
		Exec: &process.RealRunner{},
		Out:  output.NewPrinter(buf, output.PlainPalette),
	}
}

func TestIntegration_ConcurrentChecksOverlap(t *testing.T) {
	l := loadList(t, `
[[sequential]]
name = "gate"
run = "true"

[[concurrent]]
name = "one"
run = "sleep 0.5"

[[concurrent]]
name = "two"
run = "sleep 0.5"

[[concurrent]]
name = "three"
run = "sleep 0.5"
`)

	var buf bytes.Buffer
	start := time.Now()
	report, err := newRunner(&buf).Run(context.Background(), l)
	elapsed := time.Since(start)

	if err != nil {
		t.Fatalf("Run() error = %v\n%s", err, buf.String())
	}
	if len(report.Results) != 4 {
		t.Errorf("len(Results) = %d, want 4", len(report.Results))
	}
	if elapsed >= 1400*time.Millisecond {
		t.Errorf("concurrent checks took %s, want them to overlap", elapsed)
	}
	if !strings.Contains(buf.String(), runner.SuccessMessage) {
		t.Errorf("missing success message:\n%s", buf.String())
	}
}

func TestIntegration_SequentialFailureSkipsConcurrent(t *testing.T) {
	dir := t.TempDir()
	marker := filepath.Join(dir, "ran")

	l := loadList(t, `
[[sequential]]
name = "A"
run = "true"

[[sequential]]
name = "B"
args = ["false"]

[[concurrent]]
name = "C"
run = "touch `+marker+`"
`)

	var buf bytes.Buffer
	_, err := newRunner(&buf).Run(context.Background(), l)

	if !errors.Is(err, runner.ErrSequentialFailed) {
		t.Fatalf("Run() error = %v, want ErrSequentialFailed", err)
	}
	if _, statErr := os.Stat(marker); !os.IsNotExist(statErr) {
		t.Error("concurrent check C ran after a sequential failure")
	}
	out := buf.String()
	if !strings.Contains(out, "[OK] A") || !strings.Contains(out, "[FAIL] B") {
		t.Errorf("unexpected output:\n%s", out)
	}
	if strings.Contains(out, "C") {
		t.Errorf("output mentions C:\n%s", out)
	}
}

func TestIntegration_ConcurrentFailureExitZero(t *testing.T) {
	l := loadList(t, `
[[sequential]]
name = "A"
run = "true"

[[sequential]]
name = "B"
run = "true"

[[concurrent]]
name = "C"
run = "exit 1"

[[concurrent]]
name = "D"
run = "true"
`)

	var buf bytes.Buffer
	report, err := newRunner(&buf).Run(context.Background(), l)
	if err != nil {
		t.Fatalf("Run() error = %v, want nil", err)
	}
	if len(report.ConcurrentFailed) != 1 || report.ConcurrentFailed[0] != "C" {
		t.Errorf("ConcurrentFailed = %v, want [C]", report.ConcurrentFailed)
	}
	for _, want := range []string{"[OK] A", "[OK] B", "[FAIL] C", "[OK] D", runner.SuccessMessage} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("output missing %q:\n%s", want, buf.String())
		}
	}
}
