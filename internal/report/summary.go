package report

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pinchtab/swiftcheck/internal/runner"
)

// Summary totals one run.
type Summary struct {
	RunID    string         `json:"runId" yaml:"runId"`
	Total    int            `json:"total" yaml:"total"`
	Passed   int            `json:"passed" yaml:"passed"`
	Failed   int            `json:"failed" yaml:"failed"`
	Errored  int            `json:"errored" yaml:"errored"`
	ByClass  map[string]int `json:"byClass,omitempty" yaml:"byClass,omitempty"`
	Dropped  int64          `json:"dropped,omitempty" yaml:"dropped,omitempty"`
	Duration time.Duration  `json:"-" yaml:"-"`
}

// OK reports whether every case passed.
func (s Summary) OK() bool {
	return s.Total > 0 && s.Passed == s.Total && s.Dropped == 0
}

func Summarize(results []runner.CaseResult) Summary {
	var s Summary
	for _, r := range results {
		s.add(r)
	}
	return s
}

func (s *Summary) add(r runner.CaseResult) {
	s.Total++
	switch r.Status {
	case runner.StatusPassed:
		s.Passed++
	case runner.StatusFailed:
		s.Failed++
	default:
		s.Errored++
	}
	if r.ErrorClass != "" {
		if s.ByClass == nil {
			s.ByClass = map[string]int{}
		}
		s.ByClass[r.ErrorClass]++
	}
}

// Recorder is the run's identity and tally: it counts results as the sink
// delivers them, so its summary reflects exactly what reporters saw.
type Recorder struct {
	RunID     string
	StartedAt time.Time

	mu    sync.Mutex
	tally Summary
}

func NewRecorder() *Recorder {
	return &Recorder{RunID: uuid.NewString(), StartedAt: time.Now()}
}

func (r *Recorder) Emit(res runner.CaseResult) {
	r.mu.Lock()
	r.tally.add(res)
	r.mu.Unlock()
}

// Summary returns the tally so far with the run ID and elapsed time.
func (r *Recorder) Summary() Summary {
	r.mu.Lock()
	s := r.tally
	if s.ByClass != nil {
		s.ByClass = make(map[string]int, len(r.tally.ByClass))
		for k, v := range r.tally.ByClass {
			s.ByClass[k] = v
		}
	}
	r.mu.Unlock()
	s.RunID = r.RunID
	s.Duration = time.Since(r.StartedAt)
	return s
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
