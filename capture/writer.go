package capture

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// WriteError reports a failed log append. It is reported to the model via
// the acknowledgement rather than failing the dispatch.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("failed to append to %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// Appender appends JSON lines to a single log file. Each append is one
// mutex-guarded Write of a complete line on an O_APPEND handle followed by
// Sync, so concurrent appends from multiple sessions never interleave or
// lose a record.
type Appender struct {
	path string
	file *os.File
	mu   sync.Mutex
}

// NewAppender opens (creating if needed) the log file at path in append
// mode, creating parent directories as required.
func NewAppender(path string) (*Appender, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, &WriteError{Path: path, Err: err}
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, &WriteError{Path: path, Err: err}
	}
	return &Appender{path: path, file: file}, nil
}

// Append marshals record and writes it as one line, flushing before return.
func (a *Appender) Append(record interface{}) error {
	data, err := json.Marshal(record)
	if err != nil {
		return &WriteError{Path: a.path, Err: err}
	}
	line := append(data, '\n')

	a.mu.Lock()
	defer a.mu.Unlock()
	if _, err := a.file.Write(line); err != nil {
		return &WriteError{Path: a.path, Err: err}
	}
	if err := a.file.Sync(); err != nil {
		return &WriteError{Path: a.path, Err: err}
	}
	return nil
}

// Path returns the log file path.
func (a *Appender) Path() string { return a.path }

// Close closes the underlying file.
func (a *Appender) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.file.Close()
}
