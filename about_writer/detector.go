package about_writer

import (
	"strings"
)

// DefaultHeaderScanLines is how many leading lines HasHeader inspects.
const DefaultHeaderScanLines = 20

var headerIndicators = []string{
	"Source Code",
	"Author:",
	"Created by:",
	"Written by:",
	"@author",
	"Module:",
	"Script:",
	"Program:",
}

// HasHeader reports whether the first lines of content already look like an
// about statement. It is a substring heuristic: any indicator phrase or the
// upper-cased file name counts, so false positives are possible.
func HasHeader(content, filename string, lines int) bool {
	if lines <= 0 {
		lines = DefaultHeaderScanLines
	}

	head := strings.SplitN(content, "\n", lines+1)
	if len(head) > lines {
		head = head[:lines]
	}
	joined := strings.Join(head, "\n")

	if name := strings.ToUpper(filename); name != "" && strings.Contains(joined, name) {
		return true
	}
	for _, indicator := range headerIndicators {
		if strings.Contains(joined, indicator) {
			return true
		}
	}
	return false
}
