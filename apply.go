package fdl

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Action is an operation that can be checked and then carried out.
type Action interface {
	Description() string
	Verify() error
	Apply() error
}

// WriteFile materializes one record under a destination root. An existing
// file at the target is overwritten without confirmation.
type WriteFile struct {
	Root   string
	Record Record
}

// Target returns the host path the record is written to.
func (w *WriteFile) Target() string {
	return filepath.Join(w.Root, filepath.FromSlash(w.Record.Path))
}

func (w *WriteFile) Description() string {
	return fmt.Sprintf("write %s (%d bytes)", w.Record.Path, len(w.Record.Content))
}

func (w *WriteFile) Verify() error {
	if strings.TrimSpace(w.Record.Path) == "" {
		return fmt.Errorf("empty path")
	}

	rel, err := filepath.Rel(w.Root, w.Target())
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", w.Record.Path, err)
	}
	if rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return ErrOutsideRoot
	}

	return nil
}

func (w *WriteFile) Apply() error {
	if err := w.Verify(); err != nil {
		return err
	}

	target := w.Target()
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	if err := os.WriteFile(target, []byte(w.Record.Content), 0644); err != nil {
		return err
	}

	return nil
}

// Plan returns the write actions for records, in block order.
func Plan(root string, records []Record) []*WriteFile {
	actions := make([]*WriteFile, 0, len(records))
	for _, rec := range records {
		actions = append(actions, &WriteFile{Root: root, Record: rec})
	}
	return actions
}

// UnpackResult reports what Unpack did.
type UnpackResult struct {
	Written []string      // host paths of files written, in block order
	Errors  []*WriteError // records that could not be written
}

// Unpack writes every record of batch under root, creating root and any
// missing parent directories. A failing record is reported in the result and
// the remaining records are still written. The returned error is non-nil only
// when root itself cannot be created.
func Unpack(root string, batch *Batch) (*UnpackResult, error) {
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("failed to create destination %s: %w", root, err)
	}

	result := &UnpackResult{}
	for _, action := range Plan(root, batch.Records) {
		if err := action.Apply(); err != nil {
			result.Errors = append(result.Errors, &WriteError{Path: action.Record.Path, Err: err})
			continue
		}
		result.Written = append(result.Written, action.Target())
	}

	return result, nil
}

// UnpackString decodes text and unpacks it under root. On a *FormatError no
// file is created.
func UnpackString(root, text string) (*Batch, *UnpackResult, error) {
	batch, err := Decode(text)
	if err != nil {
		return nil, nil, err
	}

	result, err := Unpack(root, batch)
	if err != nil {
		return batch, nil, err
	}
	return batch, result, nil
}
