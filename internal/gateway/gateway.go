// Package gateway issues code transformation requests to an AI backend and
// returns the generated replacement text plus an explanation.
//
// The assist core consumes only the Gateway interface and the three error
// kinds. Concrete providers exist for a local Ollama server (the default),
// Anthropic, OpenAI, and Google Gemini.
package gateway

import (
	"context"
	"errors"
	"fmt"
)

// Action is the requested transformation.
type Action string

const (
	ActionExplain  Action = "explain"
	ActionFix      Action = "fix"
	ActionRefactor Action = "refactor"
	ActionDocument Action = "document"
	ActionTest     Action = "test"
	ActionReview   Action = "review"
)

// ProducesReplacement reports whether the action yields replacement text.
// Explain and review are commentary-only.
func (a Action) ProducesReplacement() bool {
	switch a {
	case ActionFix, ActionRefactor, ActionDocument, ActionTest:
		return true
	default:
		return false
	}
}

// Focus narrows what the model should pay attention to.
type Focus string

const (
	FocusGeneral     Focus = "general"
	FocusSecurity    Focus = "security"
	FocusPerformance Focus = "performance"
	FocusStyle       Focus = "style"
	FocusBugs        Focus = "bugs"
)

// Request describes one generation request.
type Request struct {
	// Code is the selected source text.
	Code string

	// Language is the language identifier ("go", "python", ...).
	Language string

	// Action is the requested transformation.
	Action Action

	// Focus narrows the review emphasis. Empty means general.
	Focus Focus

	// CustomTask replaces the built-in task description for user-defined
	// actions. When set, CustomReplace decides whether the model output
	// is mined for replacement code.
	CustomTask    string
	CustomReplace bool
}

// WantsReplacement reports whether this request expects replacement text
// in the response.
func (r Request) WantsReplacement() bool {
	if r.CustomTask != "" {
		return r.CustomReplace
	}
	return r.Action.ProducesReplacement()
}

// Response is the generated result.
type Response struct {
	// ReplacementText is the proposed replacement for the selected code.
	// Empty for commentary-only actions or when no code block could be
	// extracted from the model output.
	ReplacementText string

	// Explanation is the full model commentary. Always present.
	Explanation string
}

// Gateway error kinds.
var (
	// ErrConnectionRefused indicates the backend is unreachable.
	ErrConnectionRefused = errors.New("cannot connect to AI backend")

	// ErrTimeout indicates the backend did not answer in time.
	ErrTimeout = errors.New("AI backend timed out")
)

// BackendError is a failure reported by the backend itself.
type BackendError struct {
	Provider string
	Message  string
}

func (e *BackendError) Error() string {
	if e.Provider != "" {
		return fmt.Sprintf("%s backend error: %s", e.Provider, e.Message)
	}
	return fmt.Sprintf("backend error: %s", e.Message)
}

// Gateway generates code transformations.
type Gateway interface {
	// Generate runs the request against the backend. Errors are one of
	// ErrConnectionRefused, ErrTimeout, or *BackendError.
	Generate(ctx context.Context, req Request) (Response, error)
}

// buildResponse assembles a Response from raw model output. For actions that
// produce a replacement, the code is extracted from the output's fenced code
// block; the full output always serves as the explanation.
func buildResponse(req Request, output string) Response {
	resp := Response{Explanation: output}
	if req.WantsReplacement() {
		resp.ReplacementText = ExtractCode(output, req.Language)
	}
	return resp
}
