// Package human turns text into paced keystrokes, for pages that only react
// to real key events rather than programmatic value changes.
package human

import (
	"math/rand"
	"sync"
	"time"

	"github.com/chromedp/chromedp"
)

var (
	randMu    sync.Mutex
	humanRand = rand.New(rand.NewSource(time.Now().UnixNano()))
)

func SetHumanRandSeed(seed int64) {
	randMu.Lock()
	humanRand = rand.New(rand.NewSource(seed))
	randMu.Unlock()
}

// Config allows injecting a custom random source for testing
type Config struct {
	Rand *rand.Rand
}

// delays draws n per-key delays from the configured source or the shared one.
func (c *Config) delays(n, base int) []int {
	out := make([]int, n)
	if c != nil && c.Rand != nil {
		fill(c.Rand, out, base)
		return out
	}
	randMu.Lock()
	fill(humanRand, out, base)
	randMu.Unlock()
	return out
}

func fill(rng *rand.Rand, out []int, base int) {
	for i := range out {
		d := base + rng.Intn(base/2)
		if rng.Float64() < 0.05 {
			d += rng.Intn(300)
		}
		out[i] = d
	}
}

func Type(text string, fast bool) []chromedp.Action {
	return TypeWithConfig(text, fast, nil)
}

// TypeWithConfig emits one key event per rune, each followed by a short
// jittered pause. The typed text is exactly the input: no simulated typos,
// since the page under test must see the case input verbatim.
func TypeWithConfig(text string, fast bool, cfg *Config) []chromedp.Action {
	baseDelay := 60
	if fast {
		baseDelay = 20
	}

	chars := []rune(text)
	delays := cfg.delays(len(chars), baseDelay)
	actions := make([]chromedp.Action, 0, 2*len(chars))
	for i, char := range chars {
		actions = append(actions, chromedp.KeyEvent(string(char)))
		delay := delays[i]
		if i > 0 && chars[i-1] == char {
			delay = delay / 2
		}
		actions = append(actions, chromedp.Sleep(time.Duration(delay)*time.Millisecond))
	}
	return actions
}
