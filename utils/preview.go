package utils

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/quick"
	"github.com/meysamhadeli/aboutwriter/constants/lipgloss"
)

// PreviewLanguage returns the chroma lexer name for filename, or "plaintext".
func PreviewLanguage(filename string) string {
	if lexer := lexers.Match(filename); lexer != nil {
		return lexer.Config().Name
	}
	return "plaintext"
}

// RenderStatementPreview writes the statement that would be inserted into
// filename, highlighted with the file's own syntax. Lines are prefixed with
// "+" like an added hunk.
func RenderStatementPreview(ctx context.Context, w io.Writer, filename, statement, theme string) error {
	language := PreviewLanguage(filename)

	for _, line := range strings.SplitAfter(statement, "\n") {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if line == "" {
			continue
		}

		var buf bytes.Buffer
		if err := quick.Highlight(&buf, line, language, "terminal256", theme); err != nil {
			return err
		}
		if _, err := fmt.Fprint(w, lipgloss.Green.Render("+")+" "+buf.String()); err != nil {
			return err
		}
	}
	return nil
}
