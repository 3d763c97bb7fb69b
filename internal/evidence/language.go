package evidence

// UnspecifiedLanguage is the bucket for commits whose changed files carry no
// recognizable extension. It is reported as its own row and never merged
// into a real language.
const UnspecifiedLanguage = "unspecified"

var languageByExt = map[string]string{
	".bash":  "Shell",
	".c":     "C",
	".cc":    "C++",
	".cpp":   "C++",
	".cs":    "C#",
	".css":   "CSS",
	".dart":  "Dart",
	".ex":    "Elixir",
	".exs":   "Elixir",
	".go":    "Go",
	".h":     "C",
	".hpp":   "C++",
	".hs":    "Haskell",
	".html":  "HTML",
	".java":  "Java",
	".js":    "JavaScript",
	".json":  "JSON",
	".jsx":   "JavaScript",
	".kt":    "Kotlin",
	".lua":   "Lua",
	".md":    "Markdown",
	".php":   "PHP",
	".pl":    "Perl",
	".proto": "Protocol Buffers",
	".py":    "Python",
	".r":     "R",
	".rb":    "Ruby",
	".rs":    "Rust",
	".scala": "Scala",
	".scss":  "CSS",
	".sh":    "Shell",
	".sql":   "SQL",
	".swift": "Swift",
	".tf":    "HCL",
	".toml":  "TOML",
	".ts":    "TypeScript",
	".tsx":   "TypeScript",
	".vue":   "Vue",
	".yaml":  "YAML",
	".yml":   "YAML",
	".zig":   "Zig",
}

// LanguageFor maps a lowercase dot-prefixed file extension to a language
// bucket, falling back to UnspecifiedLanguage for anything unknown.
func LanguageFor(ext string) string {
	if lang, ok := languageByExt[ext]; ok {
		return lang
	}
	return UnspecifiedLanguage
}
