package pic

import (
	"errors"
	"fmt"
	"io/fs"
)

// Error kinds. Every error returned by this module wraps one of these, so
// they can be tested with errors.Is.
var (
	ErrFileNotFound              = errors.New("file not found")
	ErrKeyNotFound               = errors.New("key not found")
	ErrFormat                    = errors.New("wrong format")
	ErrIndexOutOfRange           = errors.New("index out of range")
	ErrUnsupportedDimensionality = errors.New("unsupported dimensionality")

	//ErrClosed is returned by readers and stores used after Close. It also
	//matches fs.ErrClosed.
	ErrClosed = fmt.Errorf("reader closed: %w", fs.ErrClosed)
)

// PError is the general structure for gopic errors. It fullfills Error and FileError.
type PError struct {
	kind     error
	message  string
	filename string //the file that has problems, or empty string if none.
	deco     []string
	critical bool
}

// NewError returns a critical error of the given kind, associated with
// filename, with caller as the first element of its decoration trail.
func NewError(kind error, filename, caller, format string, a ...interface{}) *PError {
	return &PError{kind: kind, message: fmt.Sprintf(format, a...), filename: filename, deco: []string{caller}, critical: true}
}

func (err *PError) Error() string {
	if err.filename == "" {
		return fmt.Sprintf("%s: %s", err.kind, err.message)
	}
	return fmt.Sprintf("%s: %s: %s", err.filename, err.kind, err.message)
}

// Unwrap returns the error kind.
func (err *PError) Unwrap() error { return err.kind }

// Decorate Adds new information to the error
func (err *PError) Decorate(deco string) []string {
	if deco != "" {
		err.deco = append(err.deco, deco)
	}
	return err.deco
}

// FileName returns the file to which the failing operation was associated
func (err *PError) FileName() string { return err.filename }

// Critical returns true if the error is critical, false otherwise
func (err *PError) Critical() bool { return err.critical }

// errDecorate decorates err with the caller's name if it implements Error,
// and returns it unchanged otherwise.
func errDecorate(err error, caller string) error {
	var e Error
	if errors.As(err, &e) {
		e.Decorate(caller)
	}
	return err
}
