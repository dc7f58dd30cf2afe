package about_writer

import (
	"regexp"
	"strings"

	"github.com/meysamhadeli/aboutwriter/registry"
)

const utf8BOM = "\ufeff"

var (
	phpOpenTag         = regexp.MustCompile(`^(?i)<\?php`)
	markupDeclaration  = regexp.MustCompile(`(?is)<!DOCTYPE[^>]*>|<\?xml.*?\?>`)
	encodingLineMarker = "coding"
)

// Insert splices statement into content at the position the family
// requires. The original content always survives verbatim: either as a
// suffix, or split into a preserved preamble followed by the remainder.
func Insert(content, statement string, family registry.Family) string {
	bom := ""
	if strings.HasPrefix(content, utf8BOM) {
		bom, content = utf8BOM, content[len(utf8BOM):]
	}

	switch family {
	case registry.FamilyPHP:
		return bom + insertPHP(content, statement)
	case registry.FamilyMarkup:
		return bom + insertMarkup(content, statement)
	case registry.FamilyPreamble:
		return bom + insertAfterPreamble(content, statement)
	default:
		return bom + statement + content
	}
}

// insertPHP places the statement after the opening tag when the file is pure
// PHP. A file with a closing tag gets the statement ahead of its content, and
// a file without an opening tag gets one synthesized in front.
func insertPHP(content, statement string) string {
	hasOpenTag := phpOpenTag.MatchString(content)
	if hasOpenTag && !strings.Contains(content, "?>") {
		first, rest, ok := strings.Cut(content, "\n")
		if !ok {
			return content + "\n" + statement
		}
		return first + "\n" + statement + rest
	}
	if !hasOpenTag {
		return "<?php\n\n" + statement + content
	}
	return statement + content
}

// insertMarkup places the statement after the first XML or DOCTYPE
// declaration, or at the top when there is none.
func insertMarkup(content, statement string) string {
	loc := markupDeclaration.FindStringIndex(content)
	if loc == nil {
		return statement + content
	}

	end := loc[1]
	rest := content[end:]
	if nl := strings.IndexByte(rest, '\n'); nl >= 0 && strings.TrimSpace(rest[:nl]) == "" {
		end += nl + 1
		return content[:end] + statement + content[end:]
	}
	if rest == "" {
		return content + "\n" + statement
	}
	return content[:end] + "\n" + statement + rest
}

// insertAfterPreamble keeps a leading shebang and an encoding comment ahead
// of the statement.
func insertAfterPreamble(content, statement string) string {
	var head strings.Builder
	rest := content

	line, remainder := cutLine(rest)
	if strings.HasPrefix(line, "#!") {
		head.WriteString(line)
		rest = remainder
		line, remainder = cutLine(rest)
	}
	if isEncodingLine(line) {
		head.WriteString(line)
		rest = remainder
	}

	if head.Len() == 0 {
		return statement + content
	}
	if !strings.HasSuffix(head.String(), "\n") {
		head.WriteByte('\n')
	}
	return head.String() + statement + rest
}

// cutLine splits off the first line of s, newline included.
func cutLine(s string) (line, rest string) {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i+1], s[i+1:]
	}
	return s, ""
}

func isEncodingLine(line string) bool {
	trimmed := strings.TrimSpace(line)
	return strings.HasPrefix(trimmed, "#") && strings.Contains(trimmed, encodingLineMarker)
}
