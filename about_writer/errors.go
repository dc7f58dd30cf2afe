package about_writer

import (
	"errors"

	"github.com/meysamhadeli/aboutwriter/registry"
)

var (
	ErrUnsupportedFormat = registry.ErrUnsupportedFormat
	ErrNotFound          = errors.New("path does not exist")
	ErrNotAFile          = errors.New("not a file")
	ErrReadFailure       = errors.New("read failed")
	ErrAlreadyAnnotated  = errors.New("about statement already present")
	ErrWriteFailure      = errors.New("write failed")
	ErrVerifyFailure     = errors.New("edit would break file syntax")
)
