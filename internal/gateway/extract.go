package gateway

import (
	"regexp"
	"strings"
)

var (
	fixedSectionRe = regexp.MustCompile(`(?is)##\s*Fixed Code\s*[:\n]+(.*?)(?:\n##|\z)`)
	fenceMarkerRe  = regexp.MustCompile("(?m)^```\\w*[ \t]*\n?|```$")
)

// ExtractCode pulls the proposed code out of model output.
//
// It first looks for fenced code blocks (preferring one tagged with the
// request language, taking the largest when several match), then falls back
// to the "## Fixed Code" section. Returns "" when no code can be found;
// callers treat that as "no replacement available".
func ExtractCode(output, language string) string {
	lang := strings.ToLower(language)
	tag := `\w*`
	if lang != "" {
		tag = "(?:" + regexp.QuoteMeta(lang) + ")?"
	}

	// ```lang\n ... \n``` with an optional language tag.
	blockRe := regexp.MustCompile("(?s)```" + tag + "[ \t]*\n(.*?)\n```")
	matches := blockRe.FindAllStringSubmatch(output, -1)

	if len(matches) > 0 {
		best := matches[0][1]
		for _, m := range matches[1:] {
			if len(m[1]) > len(best) {
				best = m[1]
			}
		}
		return strings.TrimSpace(best)
	}

	if m := fixedSectionRe.FindStringSubmatch(output); m != nil {
		section := strings.TrimSpace(m[1])
		section = fenceMarkerRe.ReplaceAllString(section, "")
		return strings.TrimSpace(section)
	}

	return ""
}
