package selection

import (
	"fmt"
	"os"

	"github.com/hayeah/fdl"
	"github.com/hayeah/fdl/internal/tree"
)

// ReadError is a selected file that could not be read for export.
type ReadError struct {
	Rel string
	Err error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("failed to read %s: %v", e.Rel, e.Err)
}

func (e *ReadError) Unwrap() error {
	return e.Err
}

// Collect reads every selected encodable file under root, in tree order, into
// records. A file that fails to read is left out and reported.
func Collect(root *tree.Node) ([]fdl.Record, []*ReadError) {
	var records []fdl.Record
	var failed []*ReadError
	for _, n := range root.SelectedFiles() {
		data, err := os.ReadFile(n.Path)
		if err != nil {
			failed = append(failed, &ReadError{Rel: n.Rel, Err: err})
			continue
		}
		records = append(records, fdl.Record{Path: n.Rel, Content: string(data)})
	}
	return records, failed
}
