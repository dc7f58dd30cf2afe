package utils

import (
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// GitOperations handles git-related operations
type GitOperations struct {
	workingDir string
}

// NewGitOperations creates a new GitOperations instance
func NewGitOperations(workingDir string) *GitOperations {
	return &GitOperations{workingDir: workingDir}
}

// CheckGitRepo checks if the working directory is inside a git repository
func (g *GitOperations) CheckGitRepo() error {
	cmd := exec.Command("git", "rev-parse", "--git-dir")
	cmd.Dir = g.workingDir
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("not a git repository")
	}
	return nil
}

// FirstCommitTime returns the author date of the commit that added file.
func (g *GitOperations) FirstCommitTime(file string) (time.Time, error) {
	if err := g.CheckGitRepo(); err != nil {
		return time.Time{}, err
	}

	cmd := exec.Command("git", "log", "--follow", "--diff-filter=A", "--format=%aI", "--", file)
	cmd.Dir = g.workingDir
	output, err := cmd.Output()
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to get git log: %w", err)
	}

	// git log lists newest first, the original add is the last line.
	var last string
	for _, line := range strings.Split(string(output), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			last = line
		}
	}
	if last == "" {
		return time.Time{}, fmt.Errorf("%s is not tracked", file)
	}

	t, err := time.Parse(time.RFC3339, last)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse commit date %q: %w", last, err)
	}
	return t, nil
}
