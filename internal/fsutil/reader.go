package fsutil

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"unicode/utf8"
)

// FileError reports a failure to open or read a file. Op distinguishes the
// two phases so callers can tell "file missing" from "content unreadable".
type FileError struct {
	Op   string // "open" or "read"
	Path string
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("failed to %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *FileError) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether err is a FileError caused by a missing file.
func IsNotFound(err error) bool {
	var fe *FileError
	return errors.As(err, &fe) && errors.Is(fe.Err, fs.ErrNotExist)
}

// ReadText reads the full contents of path as UTF-8 text. An open failure
// and a post-open read failure (including invalid encoding) are returned as
// distinguishable FileError values, both carrying the path.
func ReadText(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", &FileError{Op: "open", Path: path, Err: err}
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return "", &FileError{Op: "read", Path: path, Err: err}
	}

	if !utf8.Valid(data) {
		return "", &FileError{Op: "read", Path: path, Err: errors.New("content is not valid UTF-8")}
	}

	return string(data), nil
}
