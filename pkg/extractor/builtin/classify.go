package builtin

import (
	"context"
	"io/fs"

	"github.com/crazy-max/unrarall/pkg/extractor"
	"github.com/nwaples/rardecode/v2"
	"github.com/pkg/errors"
)

type codeError struct {
	code extractor.ExitCode
	err  error
}

func withCode(code extractor.ExitCode, err error) error {
	return &codeError{code: code, err: err}
}

func (e *codeError) Error() string { return e.err.Error() }
func (e *codeError) Unwrap() error { return e.err }

// Classify maps an extraction error to the exit code unrar would have
// returned for it.
func Classify(err error) extractor.ExitCode {
	if err == nil {
		return extractor.Success
	}

	var ce *codeError
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return extractor.UserBreak
	case errors.As(err, &ce):
		return ce.code
	case errors.Is(err, rardecode.ErrBadFileChecksum),
		errors.Is(err, rardecode.ErrBadHeaderCRC):
		return extractor.CRCError
	case errors.Is(err, rardecode.ErrArchiveEncrypted),
		errors.Is(err, rardecode.ErrArchivedFileEncrypted),
		errors.Is(err, rardecode.ErrBadPassword):
		return extractor.BadPassword
	case errors.Is(err, rardecode.ErrBadVolumeNumber),
		errors.Is(err, rardecode.ErrMultiVolume),
		errors.Is(err, rardecode.ErrInvalidFileBlock):
		return extractor.PreviousVolume
	case errors.Is(err, fs.ErrNotExist), errors.Is(err, fs.ErrPermission):
		return extractor.OpenError
	default:
		return extractor.Fatal
	}
}
