package languages

// 内置语言 key。
const (
	CPP        Key = "cpp"
	Java       Key = "java"
	Python     Key = "python"
	JavaScript Key = "javascript"
	TypeScript Key = "typescript"
	Go         Key = "go"
	Rust       Key = "rust"
	CSharp     Key = "csharp"
	PHP        Key = "php"
	Ruby       Key = "ruby"
	Swift      Key = "swift"
	Kotlin     Key = "kotlin"
	HTML       Key = "html"
	CSS        Key = "css"
	Shell      Key = "shell"
	SQL        Key = "sql"
	YAML       Key = "yaml"
	JSON       Key = "json"
	XML        Key = "xml"
	TOML       Key = "toml"
	Markdown   Key = "markdown"
)

var (
	slashComments = []BlockMarker{{Start: "/*", End: "*/"}}
	markupComment = []BlockMarker{{Start: "<!--", End: "-->"}}
)

// BuiltinDefinitions 返回内置语言表。
// 每次调用返回新切片，调用方可以自由追加自定义语言。
func BuiltinDefinitions() []Definition {
	return []Definition{
		{
			Key:           CPP,
			Name:          "C/C++",
			Extensions:    []string{".cpp", ".c", ".cc", ".cxx", ".c++", ".h", ".hpp", ".hxx"},
			LineComments:  []string{"//"},
			BlockComments: slashComments,
			FunctionPatterns: []string{
				`^\s*[A-Za-z0-9_\*&<>\[\]]+\s+[A-Za-z0-9_]+\s*\([^)]*\)\s*(const\s*)?\s*\{`,
				`^\s*void\s+[A-Za-z0-9_]+\s*\([^)]*\)\s*(const\s*)?\s*\{`,
			},
		},
		{
			Key:           Java,
			Name:          "Java",
			Extensions:    []string{".java"},
			LineComments:  []string{"//"},
			BlockComments: slashComments,
			FunctionPatterns: []string{
				`^\s*(public\s+|private\s+|protected\s+)?(static\s+)?(final\s+)?[A-Za-z0-9_<>,\[\]]+\s+[A-Za-z0-9_]+\s*\([^)]*\)\s*(throws\s+[A-Za-z0-9_.,\s]+)?\{`,
			},
		},
		{
			Key:          Python,
			Name:         "Python",
			Extensions:   []string{".py", ".pyw"},
			LineComments: []string{"#"},
			BlockComments: []BlockMarker{
				{Start: `"""`, End: `"""`},
				{Start: `'''`, End: `'''`},
			},
			FunctionPatterns: []string{
				`^\s*def\s+[A-Za-z0-9_]+\s*\([^)]*\)\s*(->\s*[^:]+)?:`,
				`^\s*async\s+def\s+[A-Za-z0-9_]+\s*\([^)]*\)\s*(->\s*[^:]+)?:`,
			},
			IndentBased: true,
		},
		{
			Key:           JavaScript,
			Name:          "JavaScript",
			Extensions:    []string{".js", ".jsx", ".mjs"},
			LineComments:  []string{"//"},
			BlockComments: slashComments,
			FunctionPatterns: []string{
				`^\s*(export\s+)?(default\s+)?(async\s+)?function\s*\*?\s*[A-Za-z0-9_$]+\s*\([^)]*\)\s*\{`,
				`^\s*(export\s+)?(const|let|var)\s+[A-Za-z0-9_$]+\s*=\s*(async\s*)?\([^)]*\)\s*=>\s*\{`,
			},
		},
		{
			Key:           TypeScript,
			Name:          "TypeScript",
			Extensions:    []string{".ts", ".tsx"},
			LineComments:  []string{"//"},
			BlockComments: slashComments,
			FunctionPatterns: []string{
				`^\s*(export\s+)?(default\s+)?(async\s+)?function\s*\*?\s*[A-Za-z0-9_$]+\s*(<[^>]*>)?\s*\([^)]*\)[^{;]*\{`,
				`^\s*(export\s+)?(const|let|var)\s+[A-Za-z0-9_$]+\s*(:[^=]+)?=\s*(async\s*)?\([^)]*\)[^=]*=>\s*\{`,
			},
		},
		{
			Key:           Go,
			Name:          "Go",
			Extensions:    []string{".go"},
			LineComments:  []string{"//"},
			BlockComments: slashComments,
			FunctionPatterns: []string{
				`^\s*func\s+[A-Za-z0-9_]+\s*(\[[^\]]*\])?\s*\([^)]*\)[^{]*\{`,
				`^\s*func\s+\([^)]*\)\s*[A-Za-z0-9_]+\s*\([^)]*\)[^{]*\{`,
			},
		},
		{
			Key:           Rust,
			Name:          "Rust",
			Extensions:    []string{".rs"},
			LineComments:  []string{"//"},
			BlockComments: slashComments,
			FunctionPatterns: []string{
				`^\s*(pub(\([^)]*\))?\s+)?(const\s+)?(async\s+)?(unsafe\s+)?fn\s+[A-Za-z0-9_]+[^{;]*\{`,
			},
		},
		{
			Key:           CSharp,
			Name:          "C#",
			Extensions:    []string{".cs"},
			LineComments:  []string{"//"},
			BlockComments: slashComments,
			FunctionPatterns: []string{
				`^\s*(public\s+|private\s+|protected\s+|internal\s+)?(static\s+)?(async\s+)?[A-Za-z0-9_<>,\[\]]+\s+[A-Za-z0-9_]+\s*\([^)]*\)\s*\{`,
			},
		},
		{
			Key:           PHP,
			Name:          "PHP",
			Extensions:    []string{".php", ".phtml"},
			LineComments:  []string{"//", "#"},
			BlockComments: slashComments,
		},
		{
			Key:           Ruby,
			Name:          "Ruby",
			Extensions:    []string{".rb"},
			LineComments:  []string{"#"},
			BlockComments: []BlockMarker{{Start: "=begin", End: "=end"}},
		},
		{
			Key:           Swift,
			Name:          "Swift",
			Extensions:    []string{".swift"},
			LineComments:  []string{"//"},
			BlockComments: slashComments,
		},
		{
			Key:           Kotlin,
			Name:          "Kotlin",
			Extensions:    []string{".kt", ".kts"},
			LineComments:  []string{"//"},
			BlockComments: slashComments,
		},
		{
			Key:           HTML,
			Name:          "HTML",
			Extensions:    []string{".html", ".htm"},
			BlockComments: markupComment,
		},
		{
			Key:           CSS,
			Name:          "CSS",
			Extensions:    []string{".css", ".scss", ".sass", ".less"},
			BlockComments: slashComments,
		},
		{
			Key:          Shell,
			Name:         "Shell/Bash",
			Extensions:   []string{".sh", ".bash", ".zsh", ".fish"},
			LineComments: []string{"#"},
		},
		{
			Key:           SQL,
			Name:          "SQL",
			Extensions:    []string{".sql"},
			LineComments:  []string{"--"},
			BlockComments: slashComments,
		},
		{
			Key:          YAML,
			Name:         "YAML",
			Extensions:   []string{".yml", ".yaml"},
			LineComments: []string{"#"},
		},
		{
			Key:        JSON,
			Name:       "JSON",
			Extensions: []string{".json"},
		},
		{
			Key:           XML,
			Name:          "XML",
			Extensions:    []string{".xml"},
			BlockComments: markupComment,
		},
		{
			Key:          TOML,
			Name:         "TOML",
			Extensions:   []string{".toml"},
			LineComments: []string{"#"},
		},
		{
			Key:           Markdown,
			Name:          "Markdown",
			Extensions:    []string{".md", ".markdown"},
			BlockComments: markupComment,
		},
	}
}
