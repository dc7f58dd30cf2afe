//go:build !linux && !windows

package about_writer

import "time"

func birthTime(string) (time.Time, bool) {
	return time.Time{}, false
}
