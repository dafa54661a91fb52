package bridge

import (
	"context"
	"strings"
	"testing"
)

func TestDisableAnimationsCSS(t *testing.T) {
	for _, want := range []string{
		"animation: none !important",
		"transition: none !important",
		"scroll-behavior: auto !important",
		"data-swiftcheck",
	} {
		if !strings.Contains(DisableAnimationsCSS, want) {
			t.Errorf("CSS missing %q", want)
		}
	}
}

func TestInjectNoAnimationsWithoutBrowser(t *testing.T) {
	// Errors are swallowed; this must simply return.
	InjectNoAnimations(context.Background())
}
