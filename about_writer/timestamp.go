package about_writer

import (
	"os"
	"path/filepath"
	"time"

	"github.com/meysamhadeli/aboutwriter/utils"
)

// TimestampLayout renders as "day Month year @ HH:MM:SS".
const TimestampLayout = "2 January 2006 @ 15:04:05"

// TimestampSource selects where the creation time of a file comes from.
type TimestampSource string

const (
	TimestampFS  TimestampSource = "fs"
	TimestampGit TimestampSource = "git"
)

// FormatTimestamp formats t in the local clock.
func FormatTimestamp(t time.Time) string {
	return t.Local().Format(TimestampLayout)
}

// FileTimestamp returns the creation time of path where the platform exposes
// it, then the modification time, then the current time. With TimestampGit
// the date of the commit that added the file wins when there is one.
func FileTimestamp(path string, source TimestampSource) time.Time {
	if source == TimestampGit {
		git := utils.NewGitOperations(filepath.Dir(path))
		if t, err := git.FirstCommitTime(filepath.Base(path)); err == nil {
			return t
		}
	}

	if t, ok := birthTime(path); ok {
		return t
	}

	info, err := os.Stat(path)
	if err != nil {
		return time.Now()
	}
	return info.ModTime()
}
