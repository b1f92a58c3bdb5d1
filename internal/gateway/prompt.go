package gateway

import (
	"fmt"
	"strings"
)

// focusInstructions steer the model toward a review emphasis.
var focusInstructions = map[Focus]string{
	FocusGeneral:     "Focus on bugs, code style, best practices, and potential improvements.",
	FocusSecurity:    "Focus on security vulnerabilities, input validation, authentication issues, and potential exploits.",
	FocusPerformance: "Focus on performance bottlenecks, optimization opportunities, memory usage, and algorithmic efficiency.",
	FocusStyle:       "Focus on code style, readability, naming conventions, and adherence to language-specific style guides.",
	FocusBugs:        "Focus on identifying bugs, logic errors, edge cases, and potential runtime issues.",
}

// languageStyles names the style guide to follow per language.
var languageStyles = map[string]string{
	"python":     "PEP8",
	"javascript": "ESLint/Airbnb",
	"typescript": "TSLint/ESLint",
	"java":       "Google Java Style",
	"csharp":     "Microsoft C# Conventions",
	"go":         "Effective Go",
	"rust":       "Rust Style Guide",
	"ruby":       "Ruby Style Guide",
}

// actionTasks describe the transformation the model should perform.
var actionTasks = map[Action]string{
	ActionExplain:  "Explain what this code does, how it works, and anything surprising about it.",
	ActionFix:      "Analyze this code and provide a fixed, improved version.",
	ActionRefactor: "Refactor this code for clarity and maintainability without changing its behavior.",
	ActionDocument: "Add thorough documentation comments to this code, keeping the code itself unchanged.",
	ActionTest:     "Write unit tests covering this code, including edge cases.",
	ActionReview:   "Analyze the following code and provide a clear, structured review.",
}

// BuildPrompt renders the full prompt for a request.
func BuildPrompt(req Request) string {
	lang := strings.ToLower(req.Language)
	if lang == "" {
		lang = "plain"
	}

	styleGuide, ok := languageStyles[lang]
	if !ok {
		styleGuide = "common best practices"
	}
	focus, ok := focusInstructions[req.Focus]
	if !ok {
		focus = focusInstructions[FocusGeneral]
	}
	task := req.CustomTask
	if task == "" {
		var ok bool
		task, ok = actionTasks[req.Action]
		if !ok {
			task = actionTasks[ActionReview]
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "You are an expert %s programmer and code reviewer.\n", strings.ToUpper(lang))
	b.WriteString(task + "\n")
	b.WriteString(focus + "\n")
	fmt.Fprintf(&b, "Follow %s guidelines.\n\n", styleGuide)

	if req.WantsReplacement() {
		b.WriteString("IMPORTANT: You MUST provide the complete resulting code.\n\n")
		b.WriteString("Provide your response in this EXACT format:\n\n")
		b.WriteString("## Analysis\n")
		b.WriteString("[What needs to change and why]\n\n")
		b.WriteString("## Fixed Code\n")
		fmt.Fprintf(&b, "```%s\n", lang)
		b.WriteString("[PUT THE COMPLETE RESULTING CODE HERE]\n")
		b.WriteString("```\n\n")
		b.WriteString("## Explanation\n")
		b.WriteString("[Explain what was changed and why]\n\n")
	} else {
		b.WriteString("Provide your feedback in the following format:\n\n")
		b.WriteString("## Summary\n")
		b.WriteString("[Brief overview]\n\n")
		b.WriteString("## Issues Found\n")
		b.WriteString("[List issues with severity: HIGH/MEDIUM/LOW]\n\n")
		b.WriteString("## Suggestions\n")
		b.WriteString("[Specific improvement recommendations]\n\n")
	}

	b.WriteString("Code:\n---\n")
	b.WriteString(req.Code)
	b.WriteString("\n---\n")

	return b.String()
}
