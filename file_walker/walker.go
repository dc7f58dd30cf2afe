package file_walker

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/meysamhadeli/aboutwriter/utils"
)

// Options tunes a tree walk.
type Options struct {
	Recursive bool
	// IgnoreFile is the name of the pattern file read from the root, if any.
	IgnoreFile string
	// MaxFileSize skips files larger than this many bytes. Zero disables it.
	MaxFileSize int64
	// ExcludeSuffixes rejects files ending in any of these, e.g. the backup suffix.
	ExcludeSuffixes []string
	// Logger receives entries that were skipped because they could not be read.
	Logger *slog.Logger
}

func (o Options) warn(msg string, args ...any) {
	if o.Logger != nil {
		o.Logger.Warn(msg, args...)
	}
}

// DefaultOptions walks recursively with the default ignore file.
var DefaultOptions = Options{
	Recursive:  true,
	IgnoreFile: utils.DefaultIgnoreFile,
}

// NormalizeFilters splits a comma-separated extension list into glob
// patterns. "all", "*" and an empty list mean every file; tokens without a
// leading wildcard become "*.token".
func NormalizeFilters(exts string) []string {
	var filters []string
	seen := make(map[string]bool)
	for _, token := range strings.Split(exts, ",") {
		token = strings.ToLower(strings.TrimSpace(token))
		switch {
		case token == "":
			continue
		case token == "*" || token == "all":
			return []string{"*"}
		case !strings.HasPrefix(token, "*") && !strings.Contains(token, "/"):
			token = "*." + strings.TrimPrefix(token, ".")
		}
		if !seen[token] {
			seen[token] = true
			filters = append(filters, token)
		}
	}
	if len(filters) == 0 {
		return []string{"*"}
	}
	return filters
}

// Matches reports whether the slash-separated relative path is selected by
// any of the filters. Matching is case-insensitive.
func Matches(rel string, filters []string) bool {
	rel = strings.ToLower(filepath.ToSlash(rel))
	base := rel[strings.LastIndex(rel, "/")+1:]
	for _, filter := range filters {
		if filter == "*" {
			return true
		}
		target := base
		if strings.Contains(filter, "/") {
			target = rel
		}
		if ok, _ := doublestar.Match(strings.ToLower(filter), target); ok {
			return true
		}
	}
	return false
}

// Collect walks root and returns the ordered, de-duplicated list of files
// that pass the exclusion rules and match one of the filters.
//
// Symlinked directories are not followed, so symlink cycles are never
// entered; symlinked files are included when they resolve to a regular file.
// Only an unreadable root fails the walk; unreadable entries below it are
// logged and skipped.
func Collect(root string, filters []string, opts Options) ([]string, error) {
	if len(filters) == 0 {
		filters = []string{"*"}
	}

	ignorePatterns, err := utils.GetIgnorePatterns(root, opts.IgnoreFile)
	if err != nil {
		return nil, err
	}

	var files []string
	seen := make(map[string]bool)

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			opts.warn("skipping unreadable path", "path", path, "error", err)
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		relativePath, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		relativePath = filepath.ToSlash(relativePath)

		if d.IsDir() {
			if relativePath == "." {
				return nil
			}
			if !opts.Recursive || utils.IsDefaultIgnoredDir(relativePath) || utils.IsIgnored(relativePath, ignorePatterns) {
				return filepath.SkipDir
			}
			return nil
		}

		if utils.IsDefaultIgnored(relativePath) || utils.IsIgnored(relativePath, ignorePatterns) {
			return nil
		}
		if hasAnySuffix(relativePath, opts.ExcludeSuffixes) {
			return nil
		}
		if !Matches(relativePath, filters) {
			return nil
		}

		fileInfo, err := os.Stat(path)
		if errors.Is(err, fs.ErrNotExist) {
			// dangling symlink
			return nil
		}
		if err != nil {
			opts.warn("skipping file", "path", relativePath, "error", err)
			return nil
		}
		if !fileInfo.Mode().IsRegular() {
			return nil
		}
		if opts.MaxFileSize > 0 && fileInfo.Size() > opts.MaxFileSize {
			return nil
		}

		if !seen[path] {
			seen[path] = true
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return files, nil
}

func hasAnySuffix(p string, suffixes []string) bool {
	p = strings.ToLower(p)
	for _, s := range suffixes {
		if s != "" && strings.HasSuffix(p, strings.ToLower(s)) {
			return true
		}
	}
	return false
}
