package fdl

import (
	"errors"
	"fmt"
)

// ErrOutsideRoot is reported for a record whose path resolves outside the
// destination directory.
var ErrOutsideRoot = errors.New("path escapes destination root")

// FormatError reports input that is not an FDL block at all.
type FormatError struct {
	// Head is the beginning of the offending input, for diagnostics.
	Head string
}

func newFormatError(body string) *FormatError {
	head := body
	if len(head) > 32 {
		head = head[:32] + "…"
	}
	return &FormatError{Head: head}
}

func (e *FormatError) Error() string {
	if e.Head == "" {
		return fmt.Sprintf("not an FDL block: input is empty, expected %q", Marker)
	}
	return fmt.Sprintf("not an FDL block: expected %q, got %q", Marker, e.Head)
}

// MalformedRecordError describes a record that was skipped during decoding.
type MalformedRecordError struct {
	Index  int // zero-based position of the record in the block
	Reason string
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("record %d skipped: %s", e.Index+1, e.Reason)
}

// WriteError is a per-file failure while materializing records.
type WriteError struct {
	Path string // record path as it appeared in the block
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("failed to write %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}
