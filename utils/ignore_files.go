package utils

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultIgnoreFile is the per-root file holding extra ignore patterns.
const DefaultIgnoreFile = ".about-ignore"

// ignoreCacheEntry holds cached ignore patterns with metadata
type ignoreCacheEntry struct {
	patterns []string
	modTime  time.Time
}

var ignoreCache, _ = lru.New[string, *ignoreCacheEntry](64)

// excludedTokens are directory and file names that are never annotated.
var excludedTokens = []string{
	".git",
	".svn",
	".hg",
	".idea",
	".vscode",
	".cache",
	".tox",
	".venv",
	"venv",
	"node_modules",
	"bower_components",
	"__pycache__",
	".mypy_cache",
	".pytest_cache",
	"bin",
	"obj",
	"dist",
	"build",
	"out",
	"target",
}

// excludedSuffixes cover compiled binaries, archives, media and backups.
var excludedSuffixes = []string{
	"exe", "dll", "so", "dylib", "o", "a", "lib", "class", "jar", "war",
	"pyc", "pyo", "pickle", "pkl", "wasm",
	"zip", "tar", "gz", "tgz", "bz2", "xz", "7z", "rar",
	"png", "jpg", "jpeg", "gif", "bmp", "ico", "webp", "tiff",
	"mp3", "wav", "aac", "flac", "ogg", "mkv", "mp4", "avi", "mov", "wmv",
	"pdf", "doc", "docx", "xls", "xlsx",
	"bak", "bkp", "tmp", "swp", "log", "lock",
}

// IsDefaultIgnored reports whether a file path is rejected by the built-in
// exclusion rules.
func IsDefaultIgnored(p string) bool {
	return isExcluded(p, false)
}

// IsDefaultIgnoredDir is IsDefaultIgnored for a directory path, where the
// last segment is matched like any other directory segment.
func IsDefaultIgnoredDir(p string) bool {
	return isExcluded(p, true)
}

func isExcluded(p string, isDir bool) bool {
	p = strings.ReplaceAll(p, "\\", "/")
	parts := strings.Split(p, "/")

	for i, part := range parts {
		part = strings.ToLower(part)
		if part == "" || part == "." {
			continue
		}
		dirSegment := isDir || i < len(parts)-1
		for _, token := range excludedTokens {
			if part == token {
				return true
			}
			// Substring matches only apply to directories, "build" must not
			// reject rebuild.py.
			if dirSegment && len(token) > 3 && strings.Contains(part, token) {
				return true
			}
		}
	}

	if isDir {
		return false
	}

	name := strings.ToLower(parts[len(parts)-1])
	for _, suffix := range excludedSuffixes {
		if strings.HasSuffix(name, "."+suffix) {
			return true
		}
	}
	return false
}

// GetIgnorePatterns reads and returns the patterns from the ignore file in
// root. If the file does not exist, it returns an empty pattern list.
func GetIgnorePatterns(root, name string) ([]string, error) {
	if name == "" {
		name = DefaultIgnoreFile
	}
	ignorePath := filepath.Join(root, name)

	fileInfo, err := os.Stat(ignorePath)
	if os.IsNotExist(err) {
		return []string{}, nil
	} else if err != nil {
		return nil, fmt.Errorf("error checking %s: %w", name, err)
	}

	if cached, ok := ignoreCache.Get(ignorePath); ok && fileInfo.ModTime().Equal(cached.modTime) {
		return cached.patterns, nil
	}

	patterns, err := readIgnoreFile(ignorePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}

	var valid []string
	for _, pattern := range patterns {
		if !doublestar.ValidatePattern(strings.TrimSuffix(pattern, "/")) {
			continue
		}
		valid = append(valid, pattern)
	}

	ignoreCache.Add(ignorePath, &ignoreCacheEntry{patterns: valid, modTime: fileInfo.ModTime()})
	return valid, nil
}

// readIgnoreFile returns the non-empty, non-comment lines of an ignore file.
func readIgnoreFile(p string) ([]string, error) {
	content, err := os.ReadFile(p)
	if err != nil {
		return nil, err
	}
	var patterns []string
	for _, line := range strings.Split(string(content), "\n") {
		line = strings.TrimSpace(line)
		if line != "" && !strings.HasPrefix(line, "#") {
			patterns = append(patterns, line)
		}
	}
	return patterns, nil
}

// IsIgnored checks if a slash-separated relative path matches any pattern.
// Patterns without a slash also match the base name, and "dir/" patterns
// ignore everything below dir.
func IsIgnored(rel string, patterns []string) bool {
	rel = filepath.ToSlash(rel)
	base := path.Base(rel)
	for _, pattern := range patterns {
		if dir, ok := strings.CutSuffix(pattern, "/"); ok {
			if rel == dir || strings.HasPrefix(rel, dir+"/") {
				return true
			}
			continue
		}
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
		if !strings.Contains(pattern, "/") {
			if ok, _ := doublestar.Match(pattern, base); ok {
				return true
			}
		}
	}
	return false
}

// ClearIgnoreCache clears all cached ignore patterns
func ClearIgnoreCache() {
	ignoreCache.Purge()
}
