package about_writer

import (
	"strings"
	"time"

	"github.com/meysamhadeli/aboutwriter/registry"
)

// Render builds the about statement for filename using style. The result
// always ends with a blank separator line.
func Render(filename, ext, author string, ts time.Time, style registry.CommentStyle) string {
	lines := []string{
		strings.ToUpper(filename) + " " + registry.LabelFor(ext),
		"Author: " + author,
		"Created: " + FormatTimestamp(ts),
	}

	var b strings.Builder
	if style.IsLinePrefixed() {
		for _, line := range lines {
			if style.Open != "" {
				b.WriteString(style.Open)
				b.WriteByte(' ')
			}
			b.WriteString(line)
			b.WriteByte('\n')
		}
	} else {
		b.WriteString(style.Open)
		b.WriteByte('\n')
		for _, line := range lines {
			b.WriteString(line)
			b.WriteByte('\n')
		}
		b.WriteString(style.Close)
		b.WriteByte('\n')
	}
	b.WriteByte('\n')
	return b.String()
}
