package about_writer

import (
	"context"

	"github.com/meysamhadeli/aboutwriter/about_writer/models"
)

// Run processes paths in order and folds every outcome into the summary.
// A failing file never stops the batch. Cancellation is checked between
// files, so the file in flight always finishes; the partial summary is
// returned together with the context error.
func (w *AboutWriter) Run(ctx context.Context, paths []string) (models.Summary, error) {
	var summary models.Summary

	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			w.log.Info("run interrupted", "remaining", len(paths)-summary.Total())
			return summary, err
		}

		result := w.ProcessFile(ctx, path)
		summary.Add(result)
		if w.opts.Reporter != nil {
			w.opts.Reporter.Report(result)
		}
	}

	w.log.Debug("run finished",
		"processed", summary.Processed,
		"skipped", summary.Skipped,
		"errors", summary.Errors)
	return summary, nil
}
