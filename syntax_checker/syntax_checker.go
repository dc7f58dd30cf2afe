package syntax_checker

import (
	"context"
	"fmt"

	"github.com/meysamhadeli/aboutwriter/about_writer/contracts"
	"github.com/meysamhadeli/aboutwriter/registry"
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/bash"
	"github.com/smacker/go-tree-sitter/c"
	"github.com/smacker/go-tree-sitter/cpp"
	"github.com/smacker/go-tree-sitter/csharp"
	"github.com/smacker/go-tree-sitter/css"
	"github.com/smacker/go-tree-sitter/golang"
	"github.com/smacker/go-tree-sitter/html"
	"github.com/smacker/go-tree-sitter/java"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/php"
	"github.com/smacker/go-tree-sitter/python"
	"github.com/smacker/go-tree-sitter/rust"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

// SyntaxChecker parses a file before and after an edit and rejects edits that
// introduce parse errors.
type SyntaxChecker struct {
	languages map[string]func() *sitter.Language
}

func NewSyntaxChecker() contracts.ISyntaxChecker {
	return &SyntaxChecker{
		languages: map[string]func() *sitter.Language{
			"c":    c.GetLanguage,
			"h":    c.GetLanguage,
			"cpp":  cpp.GetLanguage,
			"cc":   cpp.GetLanguage,
			"hpp":  cpp.GetLanguage,
			"cs":   csharp.GetLanguage,
			"java": java.GetLanguage,
			"go":   golang.GetLanguage,
			"rs":   rust.GetLanguage,
			"js":   javascript.GetLanguage,
			"jsx":  javascript.GetLanguage,
			"ts":   typescript.GetLanguage,
			"tsx":  tsx.GetLanguage,
			"css":  css.GetLanguage,
			"py":   python.GetLanguage,
			"pyw":  python.GetLanguage,
			"sh":   bash.GetLanguage,
			"bash": bash.GetLanguage,
			"php":  php.GetLanguage,
			"html": html.GetLanguage,
			"htm":  html.GetLanguage,
		},
	}
}

// Supports reports whether ext has a grammar.
func (checker *SyntaxChecker) Supports(ext string) bool {
	_, ok := checker.languages[registry.Normalize(ext)]
	return ok
}

// Check returns an error when after has parse errors that before did not.
// Extensions without a grammar always pass.
func (checker *SyntaxChecker) Check(ctx context.Context, ext string, before, after []byte) error {
	language, ok := checker.languages[registry.Normalize(ext)]
	if !ok {
		return nil
	}

	beforeBroken, err := hasErrors(ctx, language(), before)
	if err != nil {
		return err
	}
	if beforeBroken {
		return nil
	}

	afterBroken, err := hasErrors(ctx, language(), after)
	if err != nil {
		return err
	}
	if afterBroken {
		return fmt.Errorf("parse errors introduced in %s source", registry.Normalize(ext))
	}
	return nil
}

func hasErrors(ctx context.Context, language *sitter.Language, source []byte) (bool, error) {
	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(language)

	tree, err := parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return false, fmt.Errorf("failed to parse source: %w", err)
	}
	defer tree.Close()

	return tree.RootNode().HasError(), nil
}
