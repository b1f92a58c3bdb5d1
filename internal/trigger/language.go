package trigger

import (
	"path/filepath"
	"strings"
)

// extensionLanguages maps file extensions to language identifiers understood
// by the prompt builder.
var extensionLanguages = map[string]string{
	".py":   "python",
	".js":   "javascript",
	".ts":   "typescript",
	".jsx":  "javascript",
	".tsx":  "typescript",
	".java": "java",
	".cs":   "csharp",
	".go":   "go",
	".rs":   "rust",
	".cpp":  "cpp",
	".c":    "cpp",
	".php":  "php",
	".rb":   "ruby",
	".lua":  "lua",
	".sh":   "shell",
}

// DetectLanguage returns the language identifier for a file name, or the
// empty string when the extension is not recognized.
func DetectLanguage(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	return extensionLanguages[ext]
}
