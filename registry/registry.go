package registry

import (
	"errors"
	"sort"
	"strings"
)

// ErrUnsupportedFormat is returned when an extension has no registered comment style.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// CommentStyle is the delimiter pair used to comment out an about statement.
// An empty Close means every line is prefixed with Open instead.
type CommentStyle struct {
	Open  string
	Close string
}

// IsLinePrefixed reports whether the style is a single-line comment style.
func (s CommentStyle) IsLinePrefixed() bool {
	return s.Close == ""
}

// Family selects the insertion rule used for a file.
type Family int

const (
	FamilyDefault Family = iota
	FamilyPHP
	FamilyMarkup
	FamilyPreamble
)

func (f Family) String() string {
	switch f {
	case FamilyPHP:
		return "php"
	case FamilyMarkup:
		return "markup"
	case FamilyPreamble:
		return "preamble"
	default:
		return "default"
	}
}

// Entry describes how files matching Pattern are annotated.
type Entry struct {
	Pattern string
	Style   CommentStyle
	Label   string
	Family  Family
}

// DefaultLabel is used when an extension has no label of its own.
const DefaultLabel = "Source Code"

var (
	blockC    = CommentStyle{Open: "/*", Close: "*/"}
	markup    = CommentStyle{Open: "<!--", Close: "-->"}
	hashLine  = CommentStyle{Open: "#"}
	slashLine = CommentStyle{Open: "//"}
	dashLine  = CommentStyle{Open: "--"}
)

// entries is keyed by lower-case extension without the leading dot.
var entries = map[string]Entry{
	"py":   {Style: CommentStyle{Open: `"""`, Close: `"""`}, Label: "Python Script", Family: FamilyPreamble},
	"pyw":  {Style: CommentStyle{Open: `"""`, Close: `"""`}, Label: "Python Script", Family: FamilyPreamble},
	"sh":   {Style: CommentStyle{Open: ": '", Close: "'"}, Label: "Shell Script", Family: FamilyPreamble},
	"bash": {Style: CommentStyle{Open: ": '", Close: "'"}, Label: "Shell Script", Family: FamilyPreamble},
	"pl":   {Style: CommentStyle{Open: "=pod", Close: "=cut"}, Label: "Perl Script", Family: FamilyPreamble},
	"rb":   {Style: hashLine, Label: "Ruby Script", Family: FamilyPreamble},
	"r":    {Style: hashLine, Label: "R Script", Family: FamilyPreamble},

	"php": {Style: blockC, Label: "PHP Script", Family: FamilyPHP},

	"html":  {Style: markup, Label: "HTML Document", Family: FamilyMarkup},
	"htm":   {Style: markup, Label: "HTML Document", Family: FamilyMarkup},
	"xml":   {Style: markup, Label: "XML Document", Family: FamilyMarkup},
	"svg":   {Style: markup, Label: "SVG Image", Family: FamilyMarkup},
	"xhtml": {Style: markup, Label: "XHTML Document", Family: FamilyMarkup},

	"c":     {Style: blockC, Label: "C Source Code"},
	"h":     {Style: blockC, Label: "C Header"},
	"cpp":   {Style: blockC, Label: "C++ Source Code"},
	"cc":    {Style: blockC, Label: "C++ Source Code"},
	"hpp":   {Style: blockC, Label: "C++ Header"},
	"cs":    {Style: blockC, Label: "C# Source Code"},
	"java":  {Style: blockC, Label: "Java Source Code"},
	"kt":    {Style: blockC, Label: "Kotlin Source Code"},
	"scala": {Style: blockC, Label: "Scala Source Code"},
	"swift": {Style: blockC, Label: "Swift Source Code"},
	"rs":    {Style: blockC, Label: "Rust Source Code"},
	"js":    {Style: blockC, Label: "JavaScript Source Code"},
	"jsx":   {Style: blockC, Label: "JavaScript Source Code"},
	"ts":    {Style: blockC, Label: "TypeScript Source Code"},
	"tsx":   {Style: blockC, Label: "TypeScript Source Code"},
	"css":   {Style: blockC, Label: "Stylesheet"},
	"scss":  {Style: blockC, Label: "Stylesheet"},
	"json":  {Style: blockC, Label: "JSON Data"},
	"go":    {Style: slashLine, Label: "Go Source Code"},
	"sql":   {Style: dashLine, Label: "SQL Script"},
	"lua":   {Style: dashLine, Label: "Lua Script"},
	"yml":   {Style: hashLine, Label: "YAML Document"},
	"yaml":  {Style: hashLine, Label: "YAML Document"},
	"toml":  {Style: hashLine, Label: "TOML Document"},
	"md":    {Style: markup, Label: "Markdown Document"},
	"txt":   {Style: CommentStyle{}, Label: "Text File"},
}

func init() {
	for ext, e := range entries {
		e.Pattern = "*." + ext
		entries[ext] = e
	}
}

// Normalize turns "PY", ".py" or "*.py" into "py".
func Normalize(ext string) string {
	ext = strings.TrimPrefix(strings.TrimSpace(ext), "*")
	ext = strings.TrimPrefix(ext, ".")
	return strings.ToLower(ext)
}

// Lookup returns the registry entry for ext.
func Lookup(ext string) (Entry, bool) {
	e, ok := entries[Normalize(ext)]
	return e, ok
}

// StyleFor returns the comment style for ext or ErrUnsupportedFormat.
func StyleFor(ext string) (CommentStyle, error) {
	e, ok := Lookup(ext)
	if !ok {
		return CommentStyle{}, ErrUnsupportedFormat
	}
	return e.Style, nil
}

// LabelFor returns the human-readable type label for ext.
func LabelFor(ext string) string {
	if e, ok := Lookup(ext); ok && e.Label != "" {
		return e.Label
	}
	return DefaultLabel
}

// FamilyFor returns the insertion family for ext, FamilyDefault if unknown.
func FamilyFor(ext string) Family {
	if e, ok := Lookup(ext); ok {
		return e.Family
	}
	return FamilyDefault
}

// Extensions lists every registered extension in sorted order.
func Extensions() []string {
	exts := make([]string, 0, len(entries))
	for ext := range entries {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}
