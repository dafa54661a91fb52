package bridge

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/pinchtab/swiftcheck/internal/human"
)

// setValueJS replaces the field content the way a framework-bound input
// expects: the native value setter followed by input and change events.
const setValueJS = `function(v) {
  if (this.scrollIntoViewIfNeeded) this.scrollIntoViewIfNeeded();
  this.focus();
  if (this.isContentEditable) {
    this.textContent = v;
  } else {
    const proto = this instanceof HTMLTextAreaElement ? HTMLTextAreaElement.prototype : HTMLInputElement.prototype;
    Object.getOwnPropertyDescriptor(proto, 'value').set.call(this, v);
  }
  this.dispatchEvent(new Event('input', {bubbles: true}));
  this.dispatchEvent(new Event('change', {bubbles: true}));
}`

// Fill sets the field to text in one step, replacing what was there.
func (h *InputHandle) Fill(ctx context.Context, text string) error {
	fctx, done := h.s.scope(ctx, h.s.cfg.ActionTimeout)
	defer done()
	if err := setValue(fctx, h.NodeID, text); err != nil {
		return fmt.Errorf("fill: %w", err)
	}
	return nil
}

// Clear empties the field.
func (h *InputHandle) Clear(ctx context.Context) error {
	cctx, done := h.s.scope(ctx, h.s.cfg.ActionTimeout)
	defer done()
	if err := setValue(cctx, h.NodeID, ""); err != nil {
		return fmt.Errorf("clear: %w", err)
	}
	return nil
}

// Type focuses the field and sends one key event per rune. The typing budget
// grows with the input length on top of ActionTimeout.
func (h *InputHandle) Type(ctx context.Context, text string) error {
	budget := h.s.cfg.ActionTimeout + time.Duration(len([]rune(text)))*100*time.Millisecond
	tctx, done := h.s.scope(ctx, budget)
	defer done()

	err := chromedp.Run(tctx,
		chromedp.ActionFunc(func(ctx context.Context) error {
			p := map[string]any{"backendNodeId": h.NodeID}
			if err := chromedp.FromContext(ctx).Target.Execute(ctx, "DOM.focus", p, nil); err != nil {
				return fmt.Errorf("DOM.focus: %w", err)
			}
			return nil
		}),
	)
	if err != nil {
		return fmt.Errorf("type: %w", err)
	}
	if err := chromedp.Run(tctx, human.Type(text, true)...); err != nil {
		return fmt.Errorf("type: %w", err)
	}
	return nil
}

func setValue(ctx context.Context, backendNodeID int64, text string) error {
	return chromedp.Run(ctx,
		chromedp.ActionFunc(func(ctx context.Context) error {
			objectID, err := resolveNodeToObject(ctx, backendNodeID)
			if err != nil {
				return err
			}
			callP := map[string]any{
				"objectId":            objectID,
				"functionDeclaration": setValueJS,
				"arguments":           []any{map[string]any{"value": text}},
			}
			var result json.RawMessage
			if err := chromedp.FromContext(ctx).Target.Execute(ctx, "Runtime.callFunctionOn", callP, &result); err != nil {
				return fmt.Errorf("callFunctionOn: %w", err)
			}
			return exceptionFrom(result)
		}),
	)
}

// exceptionFrom surfaces a JS exception thrown inside callFunctionOn.
func exceptionFrom(result json.RawMessage) error {
	if len(result) == 0 {
		return nil
	}
	var resp struct {
		ExceptionDetails *struct {
			Text      string `json:"text"`
			Exception *struct {
				Description string `json:"description"`
			} `json:"exception"`
		} `json:"exceptionDetails"`
	}
	if err := json.Unmarshal(result, &resp); err != nil || resp.ExceptionDetails == nil {
		return nil
	}
	if ex := resp.ExceptionDetails.Exception; ex != nil && ex.Description != "" {
		return fmt.Errorf("script: %s", ex.Description)
	}
	return fmt.Errorf("script: %s", resp.ExceptionDetails.Text)
}

// resolveNodeToObject converts a backendNodeID to a JS remote object ID.
func resolveNodeToObject(ctx context.Context, backendNodeID int64) (string, error) {
	p := map[string]any{"backendNodeId": backendNodeID}
	var result json.RawMessage
	if err := chromedp.FromContext(ctx).Target.Execute(ctx, "DOM.resolveNode", p, &result); err != nil {
		return "", fmt.Errorf("DOM.resolveNode: %w", err)
	}
	var resp struct {
		Object struct {
			ObjectID string `json:"objectId"`
		} `json:"object"`
	}
	if err := json.Unmarshal(result, &resp); err != nil {
		return "", fmt.Errorf("unmarshal resolveNode: %w", err)
	}
	if resp.Object.ObjectID == "" {
		return "", fmt.Errorf("no objectId for node %d", backendNodeID)
	}
	return resp.Object.ObjectID, nil
}
