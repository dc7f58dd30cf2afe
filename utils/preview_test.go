package utils

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/meysamhadeli/aboutwriter/constants/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreviewLanguage(t *testing.T) {
	assert.Equal(t, "Go", PreviewLanguage("main.go"))
	assert.Equal(t, "Python", PreviewLanguage("app.py"))
	assert.Equal(t, "plaintext", PreviewLanguage("notes.unknownext"))
}

func TestRenderStatementPreview(t *testing.T) {
	var buf bytes.Buffer
	statement := "// MAIN.GO Go Source Code\n// Author: Ada\n\n"

	err := RenderStatementPreview(context.Background(), &buf, "main.go", statement, "dracula")
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "MAIN.GO")
	assert.Contains(t, out, "Ada")
	assert.Equal(t, 3, strings.Count(out, lipgloss.Green.Render("+")+" "))
}

func TestRenderStatementPreview_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var buf bytes.Buffer
	err := RenderStatementPreview(ctx, &buf, "main.go", "// X\n", "dracula")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, buf.Len())
}
