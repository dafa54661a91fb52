package report

import (
	"bytes"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/pinchtab/swiftcheck/internal/runner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample() []runner.CaseResult {
	return []runner.CaseResult{
		{CaseID: "Pos_Fun_0001", Input: "mama", OutputPreview: "Sinhala මම", Status: runner.StatusPassed, DurationMs: 1200},
		{CaseID: "Neg_Fun_0010", Input: "mama gedhara", Status: runner.StatusFailed, ErrorClass: runner.ClassTimeout, Err: "no Sinhala output after 15s (150 samples)"},
		{CaseID: "Pos_Fun_0002", Input: "oya", Status: runner.StatusError, ErrorClass: runner.ClassNavigation, Err: "navigate"},
	}
}

// blockingSink holds every Emit until released.
type blockingSink struct {
	release chan struct{}
	mu      sync.Mutex
	got     []string
}

func (b *blockingSink) Emit(r runner.CaseResult) {
	<-b.release
	b.mu.Lock()
	b.got = append(b.got, r.CaseID)
	b.mu.Unlock()
}

func TestAsyncDeliversInOrder(t *testing.T) {
	open := make(chan struct{})
	close(open)
	got := &blockingSink{release: open}
	rec := NewRecorder()
	a := NewAsync(10, got, rec)
	for _, r := range sample() {
		a.Emit(r)
	}
	a.Close()

	assert.Equal(t, []string{"Pos_Fun_0001", "Neg_Fun_0010", "Pos_Fun_0002"}, got.got)
	assert.Equal(t, 3, rec.Summary().Total)
	assert.Zero(t, a.Dropped())
}

func TestAsyncEmitNeverBlocks(t *testing.T) {
	slow := &blockingSink{release: make(chan struct{})}
	a := NewAsync(1, slow)

	done := make(chan struct{})
	go func() {
		for i := 0; i < 50; i++ {
			a.Emit(runner.CaseResult{CaseID: "Pos_Fun_0001"})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Emit blocked on a slow sink")
	}
	assert.Positive(t, a.Dropped())

	close(slow.release)
	a.Close()
	assert.EqualValues(t, 50, int64(len(slow.got))+a.Dropped())
}

func TestAsyncEmitAfterClose(t *testing.T) {
	a := NewAsync(4)
	a.Close()
	a.Close()
	a.Emit(runner.CaseResult{CaseID: "Pos_Fun_0001"})
	assert.EqualValues(t, 1, a.Dropped())
}

func TestListFormat(t *testing.T) {
	var buf bytes.Buffer
	l := NewList(&buf)
	for _, r := range sample() {
		l.Emit(r)
	}
	out := buf.String()

	assert.Contains(t, out, "\nPos_Fun_0001 INPUT:\nmama\nPos_Fun_0001 OUTPUT (preview):\nSinhala මම\n")
	assert.Contains(t, out, "✓  Pos_Fun_0001")
	assert.Contains(t, out, "✘  Neg_Fun_0010")
	assert.Contains(t, out, "Neg_Fun_0010 timeout: no Sinhala output")
	assert.Contains(t, out, "!  Pos_Fun_0002")
}

func TestListShowsTitle(t *testing.T) {
	var buf bytes.Buffer
	NewList(&buf).Emit(runner.CaseResult{CaseID: "Pos_UI_0001", Title: "Sinhala output updates in real-time when typing", Status: runner.StatusPassed})
	assert.Contains(t, buf.String(), "✓  Pos_UI_0001 Sinhala output updates in real-time when typing (")

	buf.Reset()
	NewList(&buf).Emit(runner.CaseResult{CaseID: "Pos_Fun_0001", Status: runner.StatusPassed})
	assert.Contains(t, buf.String(), "✓  Pos_Fun_0001 (")
}

func TestSummarize(t *testing.T) {
	s := Summarize(sample())
	assert.Equal(t, 3, s.Total)
	assert.Equal(t, 1, s.Passed)
	assert.Equal(t, 1, s.Failed)
	assert.Equal(t, 1, s.Errored)
	assert.Equal(t, map[string]int{"timeout": 1, "navigation": 1}, s.ByClass)
	assert.False(t, s.OK())

	ok := Summarize(sample()[:1])
	assert.True(t, ok.OK())
	ok.Dropped = 1
	assert.False(t, ok.OK(), "dropped results must fail the run")

	assert.False(t, Summarize(nil).OK())
}

func TestRecorderSummary(t *testing.T) {
	rec := NewRecorder()
	require.NotEmpty(t, rec.RunID)
	for _, r := range sample() {
		rec.Emit(r)
	}
	s := rec.Summary()
	assert.Equal(t, rec.RunID, s.RunID)
	assert.Equal(t, 3, s.Total)
	assert.Equal(t, 1, s.Passed)
	assert.Equal(t, map[string]int{"timeout": 1, "navigation": 1}, s.ByClass)

	s.ByClass["timeout"] = 99
	assert.Equal(t, 1, rec.Summary().ByClass["timeout"], "summary must not alias the tally")
}

func TestPrintSummary(t *testing.T) {
	var buf bytes.Buffer
	s := Summarize(sample())
	s.Dropped = 2
	PrintSummary(&buf, s)
	out := buf.String()
	assert.Contains(t, out, "1 passed, 1 failed, 1 errored (3 total)")
	lines := strings.Split(out, "\n")
	assert.Contains(t, lines, "    navigation: 1")
	assert.Contains(t, out, "2 results were dropped")
}

func TestWriteAndReadFile(t *testing.T) {
	dir := t.TempDir()
	started := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	run := Run{
		RunID:      "run-1",
		TargetURL:  "https://www.swifttranslator.com/",
		StartedAt:  started,
		FinishedAt: started.Add(time.Minute),
		Summary:    Summarize(sample()),
		Results:    sample(),
	}

	for _, format := range []string{FormatJSON, FormatYAML} {
		t.Run(format, func(t *testing.T) {
			path, err := WriteFile(filepath.Join(dir, "out"), format, run)
			require.NoError(t, err)
			assert.Equal(t, "results-run-1."+format, filepath.Base(path))

			back, err := ReadFile(path)
			require.NoError(t, err)
			assert.Equal(t, run.RunID, back.RunID)
			assert.True(t, run.StartedAt.Equal(back.StartedAt))
			require.Len(t, back.Results, 3)
			assert.Equal(t, "Sinhala මම", back.Results[0].OutputPreview)
			assert.EqualValues(t, 1200, back.Results[0].DurationMs)
			assert.Equal(t, runner.ClassTimeout, back.Results[1].ErrorClass)
			assert.Equal(t, 1, back.Summary.Failed)
		})
	}
}

func TestEncodeUnknownFormat(t *testing.T) {
	_, err := Encode(Run{}, "html")
	assert.Error(t, err)
}
