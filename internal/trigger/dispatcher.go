package trigger

import (
	"context"
	"errors"
	"fmt"

	"github.com/dshills/codeassist/internal/assist"
	"github.com/dshills/codeassist/internal/gateway"
	"github.com/dshills/codeassist/internal/host"
	"github.com/dshills/codeassist/internal/logging"
	"github.com/dshills/codeassist/internal/text"
)

// Dispatcher errors.
var (
	// ErrUnknownAction indicates the command names no built-in or custom action.
	ErrUnknownAction = errors.New("unknown action")

	// ErrEmptySelection indicates the command covers no text.
	ErrEmptySelection = errors.New("empty selection")
)

// builtinActions is the set of actions the gateway understands natively.
var builtinActions = map[string]gateway.Action{
	"explain":  gateway.ActionExplain,
	"fix":      gateway.ActionFix,
	"refactor": gateway.ActionRefactor,
	"document": gateway.ActionDocument,
	"test":     gateway.ActionTest,
	"review":   gateway.ActionReview,
}

// Command is one user-initiated assist request.
type Command struct {
	// Action names a built-in or custom action.
	Action string

	// DocumentID identifies the target document.
	DocumentID host.DocumentID

	// Range is the selected span. An empty range selects the whole document.
	Range text.Range

	// Focus overrides the dispatcher default for this command.
	Focus gateway.Focus
}

// Dispatcher resolves commands against the host, runs them through the AI
// gateway, and hands results to the assist manager or the notifier.
type Dispatcher struct {
	gw       gateway.Gateway
	manager  *assist.Manager
	editor   host.Host
	notifier assist.Notifier
	logger   *logging.Logger
	focus    gateway.Focus
	custom   map[string]CustomAction
}

// NewDispatcher creates a Dispatcher. focus is the default review emphasis
// applied when a command does not set one; empty means general.
func NewDispatcher(gw gateway.Gateway, manager *assist.Manager, editor host.Host, notifier assist.Notifier, logger *logging.Logger, focus gateway.Focus) *Dispatcher {
	if logger == nil {
		logger = logging.Null
	}
	return &Dispatcher{
		gw:       gw,
		manager:  manager,
		editor:   editor,
		notifier: notifier,
		logger:   logger.WithComponent("trigger"),
		focus:    focus,
		custom:   make(map[string]CustomAction),
	}
}

// Register adds a custom action. Built-in action names cannot be shadowed.
func (d *Dispatcher) Register(a CustomAction) error {
	if _, exists := builtinActions[a.Name]; exists {
		return fmt.Errorf("register %q: shadows a built-in action", a.Name)
	}
	d.custom[a.Name] = a
	return nil
}

// LoadActionsFile loads and registers all custom actions from a Lua file.
func (d *Dispatcher) LoadActionsFile(path string) error {
	actions, err := LoadCustomActions(path)
	if err != nil {
		return err
	}
	for _, a := range actions {
		if err := d.Register(a); err != nil {
			return err
		}
	}
	d.logger.Info("loaded %d custom actions from %s", len(actions), path)
	return nil
}

// Actions returns the names of all known actions, built-in and custom.
func (d *Dispatcher) Actions() []string {
	names := make([]string, 0, len(builtinActions)+len(d.custom))
	for name := range builtinActions {
		names = append(names, name)
	}
	for name := range d.custom {
		names = append(names, name)
	}
	return names
}

// Dispatch runs one command to completion: resolve the document, query the
// backend, and either present a suggestion or notify the commentary.
func (d *Dispatcher) Dispatch(ctx context.Context, cmd Command) error {
	req, rng, err := d.buildRequest(ctx, cmd)
	if err != nil {
		return err
	}

	d.logger.Debug("dispatching %s on %s %s", cmd.Action, cmd.DocumentID, rng)

	resp, err := d.gw.Generate(ctx, req)
	if err != nil {
		d.notifier.Error(describeGatewayError(err))
		return err
	}

	if req.WantsReplacement() {
		if resp.ReplacementText == "" {
			d.notifier.Warn("The AI response contained no usable code block.\n\n" + resp.Explanation)
			return nil
		}
		return d.manager.Present(ctx, cmd.DocumentID, rng, resp.ReplacementText, resp.Explanation)
	}

	d.deliverCommentary(cmd, resp.Explanation)
	return nil
}

// buildRequest resolves the command target and assembles the gateway request.
func (d *Dispatcher) buildRequest(ctx context.Context, cmd Command) (gateway.Request, text.Range, error) {
	doc, err := d.editor.ResolveDocument(ctx, cmd.DocumentID)
	if err != nil {
		d.notifier.Error(fmt.Sprintf("Cannot resolve %s: %v", cmd.DocumentID, err))
		return gateway.Request{}, text.Range{}, err
	}

	rng := cmd.Range
	if rng.IsEmpty() {
		rng = text.Range{Start: 0, End: doc.Len()}
	}
	code := doc.TextRange(rng)
	if code == "" {
		return gateway.Request{}, text.Range{}, fmt.Errorf("%s: %w", cmd.DocumentID, ErrEmptySelection)
	}

	focus := cmd.Focus
	if focus == "" {
		focus = d.focus
	}

	req := gateway.Request{
		Code:     code,
		Language: DetectLanguage(doc.Name()),
		Focus:    focus,
	}

	if action, ok := builtinActions[cmd.Action]; ok {
		req.Action = action
		return req, rng, nil
	}
	if custom, ok := d.custom[cmd.Action]; ok {
		req.CustomTask = custom.Task
		req.CustomReplace = custom.Replace
		return req, rng, nil
	}
	return gateway.Request{}, text.Range{}, fmt.Errorf("%q: %w", cmd.Action, ErrUnknownAction)
}

// deliverCommentary notifies explain/review output. Review findings carry a
// severity header; critical security findings escalate to a warning.
func (d *Dispatcher) deliverCommentary(cmd Command, explanation string) {
	if cmd.Action != "review" {
		d.notifier.Info(explanation)
		return
	}

	severity := ParseSeverity(explanation)
	critical := HasCriticalIssues(explanation)
	if critical {
		severity = SeverityHigh
	}

	msg := fmt.Sprintf("Review severity: %s\n\n%s", severity, explanation)
	if severity == SeverityHigh {
		d.notifier.Warn(msg)
		return
	}
	d.notifier.Info(msg)
}

// describeGatewayError turns gateway error kinds into user-facing text.
func describeGatewayError(err error) string {
	switch {
	case errors.Is(err, gateway.ErrConnectionRefused):
		return "Cannot connect to the AI backend. Is it running?"
	case errors.Is(err, gateway.ErrTimeout):
		return "The AI backend took too long to respond."
	}
	return fmt.Sprintf("AI request failed: %v", err)
}
