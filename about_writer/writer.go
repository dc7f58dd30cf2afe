package about_writer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/meysamhadeli/aboutwriter/about_writer/contracts"
	"github.com/meysamhadeli/aboutwriter/about_writer/models"
	"github.com/meysamhadeli/aboutwriter/registry"
	"github.com/natefinch/atomic"
)

const (
	DefaultBackupThreshold int64 = 10240
	DefaultBackupSuffix          = ".bak"
)

// Options configures an AboutWriter.
type Options struct {
	Author          string
	Force           bool
	DryRun          bool
	Verify          bool
	HeaderScanLines int
	BackupThreshold int64
	BackupSuffix    string
	AtomicWrite     bool
	TimestampSource TimestampSource

	// Optional collaborators.
	Ledger   *Ledger
	Checker  contracts.ISyntaxChecker
	Reporter contracts.IReporter
	Logger   *slog.Logger

	// Timestamp overrides how creation times are resolved.
	Timestamp func(path string) time.Time
}

// AboutWriter annotates files with an about statement.
type AboutWriter struct {
	opts Options
	log  *slog.Logger
}

func NewAboutWriter(opts Options) contracts.IAboutWriter {
	return newAboutWriter(opts)
}

func newAboutWriter(opts Options) *AboutWriter {
	if opts.BackupThreshold <= 0 {
		opts.BackupThreshold = DefaultBackupThreshold
	}
	if opts.BackupSuffix == "" {
		opts.BackupSuffix = DefaultBackupSuffix
	}
	if opts.HeaderScanLines <= 0 {
		opts.HeaderScanLines = DefaultHeaderScanLines
	}
	if opts.TimestampSource == "" {
		opts.TimestampSource = TimestampFS
	}
	if opts.Timestamp == nil {
		source := opts.TimestampSource
		opts.Timestamp = func(path string) time.Time { return FileTimestamp(path, source) }
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(discardHandler{})
	}
	return &AboutWriter{opts: opts, log: logger}
}

// ProcessFile annotates a single file. Every failure is reported through the
// returned Result; nothing panics and no partial write is left behind.
func (w *AboutWriter) ProcessFile(ctx context.Context, path string) models.Result {
	result := models.Result{Path: path}

	if err := ctx.Err(); err != nil {
		return w.fail(result, err, nil)
	}

	ext := filepath.Ext(path)
	entry, ok := registry.Lookup(ext)
	if !ok {
		return w.fail(result, ErrUnsupportedFormat, fmt.Errorf("%q", ext))
	}

	info, err := os.Stat(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return w.fail(result, ErrNotFound, nil)
	case err != nil:
		return w.fail(result, ErrReadFailure, err)
	case info.IsDir():
		return w.fail(result, ErrNotAFile, nil)
	}

	if !w.opts.Force && w.opts.Ledger != nil && w.opts.Ledger.IsAnnotated(path, info) {
		return w.skip(result, "unchanged since last annotation")
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return w.fail(result, ErrReadFailure, err)
	}

	record := models.FileRecord{
		Path:      path,
		Extension: registry.Normalize(ext),
		Content:   content,
		Info:      info,
	}
	return w.annotate(ctx, record, entry, result)
}

// annotate runs the detection, rendering and write steps for a file that was
// read successfully.
func (w *AboutWriter) annotate(ctx context.Context, record models.FileRecord, entry registry.Entry, result models.Result) models.Result {
	path := record.Path

	if !w.opts.Force && w.opts.Ledger != nil && w.opts.Ledger.HasContent(path, record.Content) {
		w.record(path, record.Content)
		return w.skip(result, "unchanged since last annotation")
	}

	filename := filepath.Base(path)
	if !w.opts.Force && HasHeader(string(record.Content), filename, w.opts.HeaderScanLines) {
		if !w.opts.DryRun {
			w.record(path, record.Content)
		}
		return w.skip(result, ErrAlreadyAnnotated.Error())
	}

	statement := Render(filename, record.Extension, w.opts.Author, w.opts.Timestamp(path), entry.Style)
	updated := []byte(Insert(string(record.Content), statement, entry.Family))
	result.Statement = statement

	if w.opts.Verify && w.opts.Checker != nil {
		if err := w.opts.Checker.Check(ctx, record.Extension, record.Content, updated); err != nil {
			return w.fail(result, ErrVerifyFailure, err)
		}
	}

	if w.opts.DryRun {
		result.Status = models.StatusProcessed
		result.Reason = "dry run"
		return result
	}

	// Write through symlinks so the link survives and its target is edited.
	target, err := filepath.EvalSymlinks(path)
	if err != nil {
		return w.fail(result, ErrWriteFailure, err)
	}

	perm := record.Info.Mode().Perm()
	if record.Info.Size() > w.opts.BackupThreshold {
		backup := path + w.opts.BackupSuffix
		if err := os.WriteFile(backup, record.Content, perm); err != nil {
			return w.fail(result, ErrWriteFailure, fmt.Errorf("backup %s: %w", backup, err))
		}
		result.Backup = backup
	}

	if err := w.write(target, updated, perm); err != nil {
		return w.fail(result, ErrWriteFailure, err)
	}
	w.record(path, updated)

	result.Status = models.StatusProcessed
	w.log.Debug("file annotated", "path", path, "backup", result.Backup)
	return result
}

func (w *AboutWriter) fail(result models.Result, sentinel error, err error) models.Result {
	result.Status = models.StatusError
	result.Err = sentinel
	if err != nil {
		result.Err = fmt.Errorf("%w: %v", sentinel, err)
	}
	result.Reason = result.Err.Error()
	w.log.Debug("file failed", "path", result.Path, "error", result.Err)
	return result
}

func (w *AboutWriter) skip(result models.Result, reason string) models.Result {
	result.Status = models.StatusSkipped
	result.Reason = reason
	w.log.Debug("file skipped", "path", result.Path, "reason", reason)
	return result
}

func (w *AboutWriter) write(path string, data []byte, perm fs.FileMode) error {
	if !w.opts.AtomicWrite {
		return os.WriteFile(path, data, perm)
	}
	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return err
	}
	// atomic.WriteFile creates the replacement with default permissions.
	return os.Chmod(path, perm)
}

func (w *AboutWriter) record(path string, content []byte) {
	if w.opts.Ledger == nil {
		return
	}
	if err := w.opts.Ledger.Record(path, content); err != nil {
		w.log.Warn("ledger update failed", "path", path, "error", err)
	}
}

type discardHandler struct{}

func (discardHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (h discardHandler) WithAttrs([]slog.Attr) slog.Handler      { return h }
func (h discardHandler) WithGroup(string) slog.Handler           { return h }
