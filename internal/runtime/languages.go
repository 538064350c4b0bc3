package runtime

import (
	"strings"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/bash"
	"github.com/smacker/go-tree-sitter/c"
	"github.com/smacker/go-tree-sitter/cpp"
	"github.com/smacker/go-tree-sitter/golang"
	"github.com/smacker/go-tree-sitter/java"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/php"
	"github.com/smacker/go-tree-sitter/python"
	"github.com/smacker/go-tree-sitter/ruby"
	"github.com/smacker/go-tree-sitter/rust"
	ts "github.com/smacker/go-tree-sitter/typescript/typescript"
)

// fenceAliases maps code fence language tags to canonical language names.
var fenceAliases = map[string]string{
	"go":         "go",
	"golang":     "go",
	"ts":         "typescript",
	"typescript": "typescript",
	"js":         "javascript",
	"javascript": "javascript",
	"py":         "python",
	"python":     "python",
	"rs":         "rust",
	"rust":       "rust",
	"c":          "c",
	"cpp":        "cpp",
	"c++":        "cpp",
	"java":       "java",
	"php":        "php",
	"rb":         "ruby",
	"ruby":       "ruby",
	"sh":         "bash",
	"bash":       "bash",
	"shell":      "bash",
}

// langToGrammar maps canonical language names to tree-sitter grammars.
// Lazily initialized on first use.
var (
	langToGrammar map[string]*sitter.Language
	grammarsOnce  sync.Once
)

func initGrammars() {
	grammarsOnce.Do(func() {
		langToGrammar = map[string]*sitter.Language{
			"go":         golang.GetLanguage(),
			"typescript": ts.GetLanguage(),
			"javascript": javascript.GetLanguage(),
			"python":     python.GetLanguage(),
			"rust":       rust.GetLanguage(),
			"c":          c.GetLanguage(),
			"cpp":        cpp.GetLanguage(),
			"java":       java.GetLanguage(),
			"php":        php.GetLanguage(),
			"ruby":       ruby.GetLanguage(),
			"bash":       bash.GetLanguage(),
		}
	})
}

// LanguageForFence returns the canonical language for a code fence tag.
// Tags are matched case-insensitively.
func LanguageForFence(tag string) (string, bool) {
	lang, ok := fenceAliases[strings.ToLower(strings.TrimSpace(tag))]
	return lang, ok
}

// GrammarForLanguage returns the tree-sitter grammar for a canonical
// language name.
func GrammarForLanguage(lang string) (*sitter.Language, bool) {
	initGrammars()
	l, ok := langToGrammar[lang]
	return l, ok
}
