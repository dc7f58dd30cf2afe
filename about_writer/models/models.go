package models

import (
	"io/fs"
	"time"
)

// FileRecord holds one candidate file as it was read.
type FileRecord struct {
	Path      string
	Extension string
	Content   []byte
	Info      fs.FileInfo
}

// Status is the terminal state of a processed file.
type Status int

const (
	StatusProcessed Status = iota
	StatusSkipped
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusProcessed:
		return "processed"
	case StatusSkipped:
		return "skipped"
	default:
		return "error"
	}
}

// Result is the outcome for a single file.
type Result struct {
	Path      string
	Status    Status
	Reason    string
	Err       error
	Backup    string
	Statement string
}

// Summary aggregates the results of a batch run.
type Summary struct {
	Processed int
	Skipped   int
	Errors    int
	Results   []Result
}

// Add folds r into the summary.
func (s *Summary) Add(r Result) {
	switch r.Status {
	case StatusProcessed:
		s.Processed++
	case StatusSkipped:
		s.Skipped++
	default:
		s.Errors++
	}
	s.Results = append(s.Results, r)
}

// Total is the number of files visited.
func (s *Summary) Total() int {
	return s.Processed + s.Skipped + s.Errors
}

// LedgerEntry records a file this tool annotated.
type LedgerEntry struct {
	Path      string    `json:"path"`
	ModTime   time.Time `json:"mod_time"`
	Size      int64     `json:"size"`
	Hash      uint64    `json:"hash"`
	Timestamp time.Time `json:"timestamp"`
}
