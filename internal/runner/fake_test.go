package runner

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pinchtab/swiftcheck/internal/bridge"
	"github.com/pinchtab/swiftcheck/internal/config"
)

// sinhalize maps ASCII letters onto the Sinhala block so different inputs
// render observably different output.
func sinhalize(in string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(in) {
		switch {
		case r >= 'a' && r <= 'z':
			b.WriteRune(0x0D85 + (r - 'a'))
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// fakePage imitates the translator: an input box and a body that shows the
// transliteration a little after the value changes.
type fakePage struct {
	mu       sync.Mutex
	value    string
	setAt    time.Time
	delay    time.Duration
	render   func(string) string
	residual string
	calls    []string
}

func (p *fakePage) record(call string) {
	p.mu.Lock()
	p.calls = append(p.calls, call)
	p.mu.Unlock()
}

func (p *fakePage) Clear(ctx context.Context) error {
	p.record("clear")
	p.mu.Lock()
	defer p.mu.Unlock()
	p.value = ""
	p.setAt = time.Now()
	return nil
}

func (p *fakePage) Fill(ctx context.Context, text string) error {
	p.record("fill")
	p.mu.Lock()
	defer p.mu.Unlock()
	p.value = text
	p.setAt = time.Now()
	return nil
}

func (p *fakePage) Type(ctx context.Context, text string) error {
	p.record("type")
	p.mu.Lock()
	defer p.mu.Unlock()
	p.value += text
	p.setAt = time.Now()
	return nil
}

func (p *fakePage) Text(ctx context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := p.residual
	if p.value != "" && time.Since(p.setAt) >= p.delay && p.render != nil {
		out = p.render(p.value)
	}
	// Like innerText, the body never includes the textarea's own value.
	return "Singlish\n\nSinhala\n\n" + out + "\n\nCopy   Clear", nil
}

func (p *fakePage) Calls() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.calls...)
}

type fakeSession struct {
	page      *fakePage
	locateErr error
	closed    atomic.Int32
	onClose   func()
}

func (s *fakeSession) LocateInput(ctx context.Context) (Input, error) {
	if s.locateErr != nil {
		return nil, s.locateErr
	}
	return s.page, nil
}

func (s *fakeSession) LocateOutputScope(ctx context.Context) (Output, error) {
	return s.page, nil
}

func (s *fakeSession) Close() error {
	if s.closed.Add(1) == 1 && s.onClose != nil {
		s.onClose()
	}
	return nil
}

// fakeProvisioner hands out a brand new page per session.
type fakeProvisioner struct {
	newPage   func() *fakePage
	openErr   error
	locateErr error

	mu       sync.Mutex
	sessions []*fakeSession
	active   int
	peak     int
	opened   atomic.Int32
	closed   atomic.Int32
}

func (p *fakeProvisioner) Open(ctx context.Context) (Session, error) {
	if p.openErr != nil {
		return nil, p.openErr
	}
	p.opened.Add(1)
	page := &fakePage{delay: 20 * time.Millisecond, render: sinhalize}
	if p.newPage != nil {
		page = p.newPage()
	}
	s := &fakeSession{page: page, locateErr: p.locateErr}
	s.onClose = func() {
		p.closed.Add(1)
		p.mu.Lock()
		p.active--
		p.mu.Unlock()
	}
	p.mu.Lock()
	p.sessions = append(p.sessions, s)
	p.active++
	if p.active > p.peak {
		p.peak = p.active
	}
	p.mu.Unlock()
	return s, nil
}

func testConfig() *config.RuntimeConfig {
	return &config.RuntimeConfig{
		InputMode:     config.InputModeFill,
		PreviewLen:    DefaultPreviewLen,
		PollInterval:  5 * time.Millisecond,
		DetectTimeout: 300 * time.Millisecond,
	}
}

type collectSink struct {
	mu      sync.Mutex
	results []CaseResult
}

func (c *collectSink) Emit(r CaseResult) {
	c.mu.Lock()
	c.results = append(c.results, r)
	c.mu.Unlock()
}

var errNoTextbox = &bridge.ElementNotFoundError{Role: "textbox", Err: errors.New("gone")}
