package trigger

import "strings"

// Severity classifies the worst finding in a review.
type Severity string

const (
	SeverityHigh    Severity = "HIGH"
	SeverityMedium  Severity = "MEDIUM"
	SeverityLow     Severity = "LOW"
	SeverityUnknown Severity = "UNKNOWN"
)

// ParseSeverity extracts the severity level from review text. The scan is
// keyword based and deliberately pessimistic: any high marker anywhere in
// the text wins.
func ParseSeverity(review string) Severity {
	upper := strings.ToUpper(review)
	switch {
	case strings.Contains(upper, "HIGH"),
		strings.Contains(upper, "CRITICAL"),
		strings.Contains(upper, "SEVERE"):
		return SeverityHigh
	case strings.Contains(upper, "MEDIUM"),
		strings.Contains(upper, "MODERATE"):
		return SeverityMedium
	case strings.Contains(upper, "LOW"),
		strings.Contains(upper, "MINOR"):
		return SeverityLow
	}
	return SeverityUnknown
}

// criticalKeywords flag findings that should be surfaced as high severity
// regardless of the stated level.
var criticalKeywords = []string{
	"sql injection",
	"xss",
	"cross-site scripting",
	"command injection",
	"path traversal",
	"remote code execution",
	"buffer overflow",
	"authentication bypass",
	"privilege escalation",
}

// HasCriticalIssues reports whether the review mentions a critical security
// issue class.
func HasCriticalIssues(review string) bool {
	lower := strings.ToLower(review)
	for _, kw := range criticalKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
