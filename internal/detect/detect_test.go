package detect

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScriptContains(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"", false},
		{"mama gedhara yanavaa.", false},
		{"මම ගෙදර යනවා.", true},
		{"mixed ම text", true},
		{"\u0D80", true},
		{"\u0DFF", true},
		{"\u0D7F", false},
		{"\u0E00", false},
		{"தமிழ்", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Sinhala.Contains(tt.in), "Contains(%q)", tt.in)
	}
}

func TestScriptCount(t *testing.T) {
	assert.Equal(t, 0, Sinhala.Count("abc"))
	assert.Equal(t, 2, Sinhala.Count("aමbම"))
}

func TestAwaitImmediateMatch(t *testing.T) {
	d := New(10*time.Millisecond, time.Second)
	var calls int32
	out, err := d.Await(context.Background(), func(context.Context) (string, error) {
		atomic.AddInt32(&calls, 1)
		return "ආයුබෝවන්!", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "ආයුබෝවන්!", out)
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls), "a matching first sample should not wait for a tick")
}

func TestAwaitEventualMatch(t *testing.T) {
	d := New(5*time.Millisecond, time.Second)
	var calls int32
	out, err := d.Await(context.Background(), func(context.Context) (string, error) {
		if atomic.AddInt32(&calls, 1) < 4 {
			return "Singlish to Sinhala", nil
		}
		return "Singlish to Sinhala මම", nil
	})
	require.NoError(t, err)
	assert.Contains(t, out, "මම")
	assert.EqualValues(t, 4, atomic.LoadInt32(&calls))
}

func TestAwaitTimeout(t *testing.T) {
	d := New(5*time.Millisecond, 40*time.Millisecond)
	start := time.Now()
	_, err := d.Await(context.Background(), func(context.Context) (string, error) {
		return "mama gedhara", nil
	})
	elapsed := time.Since(start)

	var te *TimeoutError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, 40*time.Millisecond, te.Deadline)
	assert.Equal(t, "mama gedhara", te.LastSample)
	assert.Greater(t, te.Samples, 1)
	assert.False(t, te.Unchanged)
	assert.Less(t, elapsed, time.Second)
	assert.Contains(t, err.Error(), "no Sinhala output")
}

func TestAwaitSampleErrorsAreNotFatal(t *testing.T) {
	d := New(5*time.Millisecond, time.Second)
	var calls int32
	out, err := d.Await(context.Background(), func(context.Context) (string, error) {
		if atomic.AddInt32(&calls, 1) < 3 {
			return "", errors.New("execution context was destroyed")
		}
		return "ම", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "ම", out)
}

func TestAwaitTimeoutKeepsLastError(t *testing.T) {
	d := New(5*time.Millisecond, 30*time.Millisecond)
	boom := errors.New("target closed")
	_, err := d.Await(context.Background(), func(context.Context) (string, error) {
		return "", boom
	})
	var te *TimeoutError
	require.ErrorAs(t, err, &te)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "target closed")
}

func TestAwaitRequireChange(t *testing.T) {
	baseline := "පෙර ප්‍රතිදානය"
	d := New(5*time.Millisecond, 30*time.Millisecond).WithBaseline(baseline)

	_, err := d.Await(context.Background(), func(context.Context) (string, error) {
		return baseline, nil
	})
	var te *TimeoutError
	require.ErrorAs(t, err, &te)
	assert.True(t, te.Unchanged)
	assert.Contains(t, err.Error(), "did not change")

	out, err := d.Await(context.Background(), func(context.Context) (string, error) {
		return "මම ගෙදර", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "මම ගෙදර", out)
}

func TestWithBaselineDoesNotMutate(t *testing.T) {
	d := New(time.Millisecond, time.Second)
	_ = d.WithBaseline("x")
	assert.False(t, d.RequireChange)
	assert.Empty(t, d.Baseline)
}

func TestAwaitParentCancel(t *testing.T) {
	d := New(5*time.Millisecond, 10*time.Second)
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()
	_, err := d.Await(ctx, func(context.Context) (string, error) { return "", nil })
	require.ErrorIs(t, err, context.Canceled)
	var te *TimeoutError
	assert.False(t, errors.As(err, &te), "cancellation must not look like a detector timeout")
}

func TestPollSampleContextBoundedByDeadline(t *testing.T) {
	err := Poll(context.Background(), 5*time.Millisecond, 30*time.Millisecond, func(ctx context.Context) (bool, error) {
		<-ctx.Done()
		return false, nil
	})
	assert.True(t, IsDeadline(err))
}

func TestPollCheckError(t *testing.T) {
	boom := errors.New("boom")
	err := Poll(context.Background(), time.Millisecond, time.Second, func(context.Context) (bool, error) {
		return false, boom
	})
	assert.ErrorIs(t, err, boom)
}

func TestPollRejectsZeroInterval(t *testing.T) {
	err := Poll(context.Background(), 0, time.Second, func(context.Context) (bool, error) { return true, nil })
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "interval"))
}

func TestScriptString(t *testing.T) {
	assert.Equal(t, "Sinhala [U+0D80-U+0DFF]", Sinhala.String())
}
