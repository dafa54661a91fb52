package bridge

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/chromedp/chromedp"
)

type A11yNode struct {
	Role     string `json:"role"`
	Name     string `json:"name"`
	Depth    int    `json:"depth"`
	Value    string `json:"value,omitempty"`
	Disabled bool   `json:"disabled,omitempty"`
	ReadOnly bool   `json:"readonly,omitempty"`
	NodeID   int64  `json:"nodeId,omitempty"`
}

type RawAXNode struct {
	NodeID           string      `json:"nodeId"`
	Ignored          bool        `json:"ignored"`
	Role             *RawAXValue `json:"role"`
	Name             *RawAXValue `json:"name"`
	Value            *RawAXValue `json:"value"`
	Properties       []RawAXProp `json:"properties"`
	ChildIDs         []string    `json:"childIds"`
	BackendDOMNodeID int64       `json:"backendDOMNodeId"`
}

type RawAXValue struct {
	Type  string          `json:"type"`
	Value json.RawMessage `json:"value"`
}

type RawAXProp struct {
	Name  string      `json:"name"`
	Value *RawAXValue `json:"value"`
}

func (v *RawAXValue) String() string {
	if v == nil || v.Value == nil {
		return ""
	}
	var s string
	if err := json.Unmarshal(v.Value, &s); err == nil {
		return s
	}
	return strings.Trim(string(v.Value), `"`)
}

func (n RawAXNode) prop(name string) bool {
	for _, p := range n.Properties {
		if p.Name == name && p.Value.String() == "true" {
			return true
		}
	}
	return false
}

var InteractiveRoles = map[string]bool{
	"button": true, "link": true, "textbox": true, "searchbox": true,
	"combobox": true, "listbox": true, "option": true, "checkbox": true,
	"radio": true, "switch": true, "slider": true, "spinbutton": true,
	"menuitem": true, "menuitemcheckbox": true, "menuitemradio": true,
	"tab": true, "treeitem": true,
}

// FetchAXTree returns the page's full accessibility tree.
func FetchAXTree(ctx context.Context) ([]RawAXNode, error) {
	var rawResult json.RawMessage
	if err := chromedp.Run(ctx,
		chromedp.ActionFunc(func(ctx context.Context) error {
			return chromedp.FromContext(ctx).Target.Execute(ctx,
				"Accessibility.getFullAXTree", nil, &rawResult)
		}),
	); err != nil {
		return nil, fmt.Errorf("a11y tree: %w", err)
	}

	var treeResp struct {
		Nodes []RawAXNode `json:"nodes"`
	}
	if err := json.Unmarshal(rawResult, &treeResp); err != nil {
		return nil, fmt.Errorf("parse a11y tree: %w", err)
	}
	return treeResp.Nodes, nil
}

// BuildSnapshot flattens the interactive part of the tree, keeping depth.
func BuildSnapshot(nodes []RawAXNode) []A11yNode {
	parentMap := make(map[string]string)
	for _, n := range nodes {
		for _, childID := range n.ChildIDs {
			parentMap[childID] = n.NodeID
		}
	}
	depthOf := func(nodeID string) int {
		d := 0
		cur := nodeID
		for {
			p, ok := parentMap[cur]
			if !ok {
				break
			}
			d++
			cur = p
		}
		return d
	}

	flat := make([]A11yNode, 0)
	for _, n := range nodes {
		if n.Ignored {
			continue
		}
		role := n.Role.String()
		if !InteractiveRoles[role] {
			continue
		}
		flat = append(flat, A11yNode{
			Role:     role,
			Name:     n.Name.String(),
			Depth:    depthOf(n.NodeID),
			Value:    n.Value.String(),
			Disabled: n.prop("disabled"),
			ReadOnly: n.prop("readonly"),
			NodeID:   n.BackendDOMNodeID,
		})
	}
	return flat
}

// FindByRole returns the editable candidates for role in document order.
// Any role may be asked for, not only the interactive ones a snapshot keeps.
// Ignored, disabled, read-only and DOM-less nodes are skipped.
func FindByRole(nodes []RawAXNode, role string) []A11yNode {
	var out []A11yNode
	for _, n := range nodes {
		if n.Ignored || n.BackendDOMNodeID == 0 || n.Role.String() != role {
			continue
		}
		if n.prop("disabled") || n.prop("readonly") {
			continue
		}
		out = append(out, A11yNode{
			Role:   role,
			Name:   n.Name.String(),
			Value:  n.Value.String(),
			NodeID: n.BackendDOMNodeID,
		})
	}
	return out
}

// RoleSummary counts interactive roles, e.g. "button×3", for diagnostics.
func RoleSummary(snap []A11yNode) []string {
	counts := map[string]int{}
	for _, n := range snap {
		counts[n.Role]++
	}
	out := make([]string, 0, len(counts))
	for role, c := range counts {
		out = append(out, fmt.Sprintf("%s×%d", role, c))
	}
	sort.Strings(out)
	return out
}
