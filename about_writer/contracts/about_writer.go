package contracts

import (
	"context"

	"github.com/meysamhadeli/aboutwriter/about_writer/models"
)

type IAboutWriter interface {
	ProcessFile(ctx context.Context, path string) models.Result
	Run(ctx context.Context, paths []string) (models.Summary, error)
}

type ISyntaxChecker interface {
	Supports(ext string) bool
	Check(ctx context.Context, ext string, before, after []byte) error
}

type IReporter interface {
	Report(result models.Result)
}
