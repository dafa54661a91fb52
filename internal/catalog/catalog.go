// Package catalog holds the Singlish input cases exercised against the site.
package catalog

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	CategoryPos = "Pos"
	CategoryNeg = "Neg"
	KindUI      = "UI"
	KindFun     = "Fun"
)

var idPattern = regexp.MustCompile(`^(Pos|Neg)_(UI|Fun)_(\d{4})$`)

// Case is one identified input. Input is injected verbatim.
type Case struct {
	ID    string `json:"id" yaml:"id"`
	Input string `json:"input" yaml:"input"`
	// SkipClear fills without clearing first; the real-time UI check types straight into a fresh page.
	SkipClear bool `json:"skipClear,omitempty" yaml:"skipClear,omitempty"`
	// NoPreview skips capturing the body preview.
	NoPreview bool `json:"noPreview,omitempty" yaml:"noPreview,omitempty"`
	// Title is an optional human description shown by reporters.
	Title string `json:"title,omitempty" yaml:"title,omitempty"`
}

// Category returns "Pos" or "Neg", or "" for a malformed ID.
func (c Case) Category() string {
	m := idPattern.FindStringSubmatch(c.ID)
	if m == nil {
		return ""
	}
	return m[1]
}

// Kind returns "UI" or "Fun", or "" for a malformed ID.
func (c Case) Kind() string {
	m := idPattern.FindStringSubmatch(c.ID)
	if m == nil {
		return ""
	}
	return m[2]
}

func (c Case) Positive() bool {
	return c.Category() == CategoryPos
}

// ValidID reports whether id has the <Category>_<Kind>_<NNNN> shape.
func ValidID(id string) bool {
	return idPattern.MatchString(id)
}

// Validate checks ID format and uniqueness. Inputs are not validated: malformed
// input is exactly what negative cases exist to exercise.
func Validate(cases []Case) error {
	seen := make(map[string]bool, len(cases))
	for i, c := range cases {
		if !ValidID(c.ID) {
			return fmt.Errorf("case %d: invalid id %q (want <Pos|Neg>_<UI|Fun>_<NNNN>)", i, c.ID)
		}
		if seen[c.ID] {
			return fmt.Errorf("case %d: duplicate id %q", i, c.ID)
		}
		seen[c.ID] = true
	}
	return nil
}

type file struct {
	Cases []Case `yaml:"cases"`
}

// Parse decodes a YAML catalog of the form `cases: [{id, input}]`.
func Parse(data []byte) ([]Case, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if len(f.Cases) == 0 {
		return nil, fmt.Errorf("catalog has no cases")
	}
	if err := Validate(f.Cases); err != nil {
		return nil, err
	}
	return f.Cases, nil
}

func Load(path string) ([]Case, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return Parse(data)
}

// Marshal encodes cases in the format Parse accepts.
func Marshal(cases []Case) ([]byte, error) {
	return yaml.Marshal(file{Cases: cases})
}

// Filter keeps cases whose ID matches pattern. An empty pattern keeps everything.
func Filter(cases []Case, pattern string) ([]Case, error) {
	if pattern == "" {
		return cases, nil
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("bad filter %q: %w", pattern, err)
	}
	out := make([]Case, 0, len(cases))
	for _, c := range cases {
		if re.MatchString(c.ID) {
			out = append(out, c)
		}
	}
	return out, nil
}

// Lookup finds cases by ID, preserving the requested order.
func Lookup(cases []Case, ids ...string) ([]Case, error) {
	byID := make(map[string]Case, len(cases))
	for _, c := range cases {
		byID[c.ID] = c
	}
	out := make([]Case, 0, len(ids))
	var missing []string
	for _, id := range ids {
		c, ok := byID[id]
		if !ok {
			missing = append(missing, id)
			continue
		}
		out = append(out, c)
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("unknown case ids: %s", strings.Join(missing, ", "))
	}
	return out, nil
}
