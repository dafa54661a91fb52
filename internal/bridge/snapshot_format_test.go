package bridge

import (
	"strings"
	"testing"
)

func TestFormatSnapshotText(t *testing.T) {
	out := FormatSnapshotText(BuildSnapshot(translatorTree()))
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines, got %d:\n%s", len(lines), out)
	}
	if lines[0] != `    textbox "Singlish"` {
		t.Errorf("line 0 = %q", lines[0])
	}
	if !strings.HasSuffix(lines[1], "[readonly]") {
		t.Errorf("line 1 should be marked readonly: %q", lines[1])
	}
	if !strings.HasSuffix(lines[3], "[disabled]") {
		t.Errorf("line 3 should be marked disabled: %q", lines[3])
	}
}

func TestFormatSnapshotTextEmpty(t *testing.T) {
	if got := FormatSnapshotText(nil); got != "" {
		t.Errorf("expected empty output, got %q", got)
	}
}
