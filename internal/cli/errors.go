package cli

import (
	"errors"

	pic "github.com/rmera/gopic"
)

// Exit codes of the gopic command.
const (
	ExitSuccess      = 0
	ExitFailure      = 1 // a dump, manifest or catalog couldn't be processed
	ExitCommandError = 2 // bad arguments, a missing file or an unreadable config
)

// Error codes reported in the JSON error responses.
const (
	ErrCodeGeneric        = "E001"
	ErrCodeFileNotFound   = "E002"
	ErrCodeKeyNotFound    = "E003"
	ErrCodeFormat         = "E004"
	ErrCodeIndexRange     = "E005"
	ErrCodeDimensionality = "E006"
)

// ExitError is an error that ends gopic with Code.
type ExitError struct {
	Code    int
	Message string
	Err     error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *ExitError) Unwrap() error { return e.Err }

func exitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// ExitCode returns the code gopic exits with after err. Errors that
// carry no code give ExitFailure.
func ExitCode(err error) int {
	var e *ExitError
	switch {
	case err == nil:
		return ExitSuccess
	case errors.As(err, &e):
		return e.Code
	}
	return ExitFailure
}

// errorCode maps the library error kinds to CLI error codes.
func errorCode(err error) string {
	switch {
	case errors.Is(err, pic.ErrFileNotFound):
		return ErrCodeFileNotFound
	case errors.Is(err, pic.ErrKeyNotFound):
		return ErrCodeKeyNotFound
	case errors.Is(err, pic.ErrFormat):
		return ErrCodeFormat
	case errors.Is(err, pic.ErrIndexOutOfRange):
		return ErrCodeIndexRange
	case errors.Is(err, pic.ErrUnsupportedDimensionality):
		return ErrCodeDimensionality
	}
	return ErrCodeGeneric
}

// fail reports err through the formatter and returns it as an ExitError.
// Missing files are command errors, everything else a failure.
func fail(f *OutputFormatter, message string, err error) error {
	code := errorCode(err)
	if ferr := f.Error(code, message+": "+err.Error()); ferr != nil {
		return ferr
	}
	exit := ExitFailure
	if code == ErrCodeFileNotFound {
		exit = ExitCommandError
	}
	return exitError(exit, code, err)
}
