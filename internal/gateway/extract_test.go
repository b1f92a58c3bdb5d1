package gateway

import "testing"

func TestExtractCodeFencedBlock(t *testing.T) {
	output := "## Analysis\nBad loop.\n\n## Fixed Code\n```go\nfor i := range xs {\n\tuse(xs[i])\n}\n```\n\n## Explanation\nSimplified.\n"

	got := ExtractCode(output, "go")
	want := "for i := range xs {\n\tuse(xs[i])\n}"
	if got != want {
		t.Errorf("ExtractCode = %q, want %q", got, want)
	}
}

func TestExtractCodeUntaggedBlock(t *testing.T) {
	output := "Here you go:\n```\nprint('hi')\n```\n"

	if got := ExtractCode(output, "python"); got != "print('hi')" {
		t.Errorf("ExtractCode = %q", got)
	}
}

func TestExtractCodePrefersLargestBlock(t *testing.T) {
	output := "```go\nshort()\n```\ntext\n```go\nmuch_longer_function_body()\nsecond_line()\n```\n"

	got := ExtractCode(output, "go")
	if got != "much_longer_function_body()\nsecond_line()" {
		t.Errorf("expected largest block, got %q", got)
	}
}

func TestExtractCodeFixedSectionFallback(t *testing.T) {
	output := "## Analysis\nstuff\n\n## Fixed Code\nx = 1\ny = 2\n\n## Explanation\nbecause\n"

	got := ExtractCode(output, "python")
	if got != "x = 1\ny = 2" {
		t.Errorf("ExtractCode = %q", got)
	}
}

func TestExtractCodeNothingFound(t *testing.T) {
	if got := ExtractCode("just prose, no code at all", "go"); got != "" {
		t.Errorf("expected empty result, got %q", got)
	}
}
