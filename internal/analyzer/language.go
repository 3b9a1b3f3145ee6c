package analyzer

import (
	"path/filepath"
	"strings"
)

// extensionToLanguage maps file extensions to the language names GitHub reports.
var extensionToLanguage = map[string]string{
	".go":     "Go",
	".py":     "Python",
	".pyw":    "Python",
	".js":     "JavaScript",
	".jsx":    "JavaScript",
	".mjs":    "JavaScript",
	".cjs":    "JavaScript",
	".ts":     "TypeScript",
	".tsx":    "TypeScript",
	".java":   "Java",
	".rs":     "Rust",
	".rb":     "Ruby",
	".php":    "PHP",
	".swift":  "Swift",
	".kt":     "Kotlin",
	".kts":    "Kotlin",
	".c":      "C",
	".h":      "C",
	".cpp":    "C++",
	".cc":     "C++",
	".cxx":    "C++",
	".hpp":    "C++",
	".cs":     "C#",
	".scala":  "Scala",
	".vue":    "Vue",
	".svelte": "Svelte",
	".sh":     "Shell",
	".sql":    "SQL",
	".md":     "Markdown",
	".yml":    "YAML",
	".yaml":   "YAML",
	".json":   "JSON",
	".toml":   "TOML",
	".html":   "HTML",
	".css":    "CSS",
}

// languageFor returns the language of path by extension, or fallback when unknown.
func languageFor(path string, fallback *string) *string {
	if lang, ok := extensionToLanguage[strings.ToLower(filepath.Ext(path))]; ok {
		return &lang
	}
	return fallback
}
