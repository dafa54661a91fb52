package runner

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/pinchtab/swiftcheck/internal/bridge"
	"github.com/pinchtab/swiftcheck/internal/catalog"
	"github.com/pinchtab/swiftcheck/internal/config"
	"github.com/pinchtab/swiftcheck/internal/detect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunCaseWellFormedInput(t *testing.T) {
	p := &fakeProvisioner{}
	r := New(testConfig())

	res, err := r.RunCase(context.Background(), p, catalog.Case{ID: "Pos_Fun_0001", Input: "mama gedhara yanavaa."})
	require.NoError(t, err)

	assert.Equal(t, StatusPassed, res.Status)
	assert.True(t, res.Passed())
	assert.Equal(t, "Pos_Fun_0001", res.CaseID)
	assert.Equal(t, "mama gedhara yanavaa.", res.Input)
	assert.NotEmpty(t, res.OutputPreview)
	assert.True(t, detect.Sinhala.Contains(res.OutputPreview), "preview %q has no Sinhala", res.OutputPreview)
	assert.Empty(t, res.ErrorClass)
	assert.EqualValues(t, 1, p.opened.Load())
	assert.EqualValues(t, 1, p.closed.Load())
}

func TestRunCaseTimeoutIsSurfaced(t *testing.T) {
	// The page never renders anything for this input.
	p := &fakeProvisioner{newPage: func() *fakePage { return &fakePage{} }}
	r := New(testConfig())

	res, err := r.RunCase(context.Background(), p, catalog.Case{ID: "Neg_Fun_0010", Input: "mama gedhara"})
	require.Error(t, err)

	var te *detect.TimeoutError
	require.ErrorAs(t, err, &te)
	assert.Greater(t, te.Samples, 1)
	assert.Equal(t, StatusFailed, res.Status)
	assert.Equal(t, ClassTimeout, res.ErrorClass)
	assert.Contains(t, res.Err, "no Sinhala output")
	assert.NotContains(t, res.OutputPreview, "\n")
	assert.EqualValues(t, 1, p.closed.Load(), "session must be closed after a timeout")
}

func TestRunCaseSessionsAreIndependent(t *testing.T) {
	p := &fakeProvisioner{}
	r := New(testConfig())

	a, err := r.RunCase(context.Background(), p, catalog.Case{ID: "Pos_Fun_0001", Input: "mama"})
	require.NoError(t, err)
	b, err := r.RunCase(context.Background(), p, catalog.Case{ID: "Pos_Fun_0002", Input: "oya"})
	require.NoError(t, err)

	assert.NotEqual(t, a.OutputPreview, b.OutputPreview)
	assert.NotContains(t, b.OutputPreview, "mama")
	assert.NotContains(t, b.OutputPreview, sinhalize("mama"))
	require.Len(t, p.sessions, 2)
	assert.NotSame(t, p.sessions[0].page, p.sessions[1].page)
}

func TestRunCaseAcceptsMalformedInput(t *testing.T) {
	p := &fakeProvisioner{}
	r := New(testConfig())

	in := "25/12/2025dawasataColomboyamu"
	res, err := r.RunCase(context.Background(), p, catalog.Case{ID: "Neg_Fun_0003", Input: in})
	require.NoError(t, err)
	assert.Equal(t, StatusPassed, res.Status)
	assert.Equal(t, in, p.sessions[0].page.value, "input must reach the page verbatim")
}

func TestRunClearsBeforeInject(t *testing.T) {
	page := &fakePage{value: "left over", render: sinhalize}
	s := &fakeSession{page: page}
	r := New(testConfig())

	_, err := r.Run(context.Background(), s, catalog.Case{ID: "Pos_Fun_0003", Input: "api"})
	require.NoError(t, err)
	assert.Equal(t, []string{"clear", "fill"}, page.Calls())
	assert.Equal(t, "api", page.value)
	assert.Zero(t, s.closed.Load(), "Run must leave the session open")
}

func TestRunInputVerbatimWithNewlines(t *testing.T) {
	page := &fakePage{render: sinhalize}
	s := &fakeSession{page: page}
	r := New(testConfig())

	in := "oyaata kohomadha?\nmama hodhin innavaa."
	res, err := r.Run(context.Background(), s, catalog.Case{ID: "Pos_Fun_0018", Input: in})
	require.NoError(t, err)
	assert.Equal(t, in, page.value)
	assert.NotContains(t, res.OutputPreview, "\n")
}

func TestRunUICaseSkipsClearAndPreview(t *testing.T) {
	page := &fakePage{render: sinhalize}
	s := &fakeSession{page: page}
	r := New(testConfig())

	c := catalog.Builtin()[0]
	require.True(t, c.SkipClear)

	res, err := r.Run(context.Background(), s, c)
	require.NoError(t, err)
	assert.Equal(t, []string{"fill"}, page.Calls())
	assert.Empty(t, res.OutputPreview)
	assert.Equal(t, StatusPassed, res.Status)
}

func TestRunTypeMode(t *testing.T) {
	cfg := testConfig()
	cfg.InputMode = config.InputModeType
	page := &fakePage{render: sinhalize}
	r := New(cfg)

	_, err := r.Run(context.Background(), &fakeSession{page: page}, catalog.Case{ID: "Pos_Fun_0004", Input: "ammaa"})
	require.NoError(t, err)
	assert.Equal(t, []string{"clear", "type"}, page.Calls())
}

func TestRunCaseOpenFailure(t *testing.T) {
	navErr := &bridge.NavigationError{URL: "https://x.invalid", Err: errors.New("net::ERR_NAME_NOT_RESOLVED")}
	p := &fakeProvisioner{openErr: navErr}
	r := New(testConfig())

	res, err := r.RunCase(context.Background(), p, catalog.Case{ID: "Pos_Fun_0001", Input: "mama"})
	require.ErrorIs(t, err, navErr)
	assert.Equal(t, StatusError, res.Status)
	assert.Equal(t, ClassNavigation, res.ErrorClass)
	assert.Zero(t, p.closed.Load())
}

func TestRunCaseLocatorFailureClosesSession(t *testing.T) {
	p := &fakeProvisioner{locateErr: errNoTextbox}
	r := New(testConfig())

	res, err := r.RunCase(context.Background(), p, catalog.Case{ID: "Pos_Fun_0001", Input: "mama"})
	require.Error(t, err)
	assert.Equal(t, StatusError, res.Status)
	assert.Equal(t, ClassElementNotFound, res.ErrorClass)
	assert.EqualValues(t, 1, p.closed.Load())
}

func TestRunRequireChangeRejectsStaleOutput(t *testing.T) {
	cfg := testConfig()
	cfg.RequireChange = true
	cfg.DetectTimeout = 100 * time.Millisecond

	// Sinhala is already on the page and input never changes it.
	page := &fakePage{residual: "මම ගෙදර යනවා"}
	r := New(cfg)

	res, err := r.Run(context.Background(), &fakeSession{page: page}, catalog.Case{ID: "Neg_Fun_0001", Input: "xyz"})
	require.Error(t, err)
	var te *detect.TimeoutError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, StatusFailed, res.Status)

	// Without the change requirement the stale output is accepted.
	cfg.RequireChange = false
	page = &fakePage{residual: "මම ගෙදර යනවා"}
	_, err = New(cfg).Run(context.Background(), &fakeSession{page: page}, catalog.Case{ID: "Neg_Fun_0001", Input: "xyz"})
	assert.NoError(t, err)
}

func TestRunRequireChangeAcceptsNewOutput(t *testing.T) {
	cfg := testConfig()
	cfg.RequireChange = true
	page := &fakePage{residual: "මම", render: sinhalize}

	_, err := New(cfg).Run(context.Background(), &fakeSession{page: page}, catalog.Case{ID: "Pos_Fun_0001", Input: "oya"})
	assert.NoError(t, err)
}

func TestRunPreviewBounded(t *testing.T) {
	cfg := testConfig()
	cfg.PreviewLen = 50
	long := strings.Repeat("mama gedhara yanavaa ", 100)
	page := &fakePage{render: sinhalize}

	res, err := New(cfg).Run(context.Background(), &fakeSession{page: page}, catalog.Case{ID: "Pos_Fun_0024", Input: long})
	require.NoError(t, err)
	assert.LessOrEqual(t, len([]rune(res.OutputPreview)), 50)
}

func TestRunCancelledContext(t *testing.T) {
	page := &fakePage{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := New(testConfig()).Run(ctx, &fakeSession{page: page}, catalog.Case{ID: "Pos_Fun_0001", Input: "mama"})
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, StatusError, res.Status)
	assert.Equal(t, ClassOther, res.ErrorClass)
}

func TestRunCaseCarriesTitle(t *testing.T) {
	p := &fakeProvisioner{}
	res, err := New(testConfig()).RunCase(context.Background(), p, catalog.Builtin()[0])
	require.NoError(t, err)
	assert.Equal(t, "Pos_UI_0001", res.CaseID)
	assert.Equal(t, "Sinhala output updates in real-time when typing", res.Title)
}
