// Package fdl implements the FDL text format: a flat, line-delimited block that
// carries a set of (relative path, content) pairs through a single text buffer
// such as the clipboard.
//
// A block is a sequence of records joined by a single newline. Each record is
//
//	$$FILE <relative/path>
//	<raw content>
//
// Content is not escaped. A content body that itself contains the sequence
// "\n$$FILE " cannot be told apart from a record boundary; the format does not
// protect against this and decoding will split such a body in two.
package fdl

import (
	"fmt"
	"io"
	"strings"
)

// Marker is the sentinel token that opens every record.
const Marker = "$$FILE"

// delimiter separates records once the block has been newline-normalized.
const delimiter = "\n" + Marker + " "

// Record is one file carried by an FDL block.
type Record struct {
	Path    string // slash-separated path relative to the block root
	Content string // raw file content
}

// Batch is the result of decoding a block.
type Batch struct {
	Records  []Record
	Warnings []*MalformedRecordError // records skipped while decoding
}

// Encode serializes records, in order, into one FDL block.
func Encode(records []Record) string {
	var sb strings.Builder
	// EncodeTo never fails on a strings.Builder
	_, _ = EncodeTo(&sb, records)
	return sb.String()
}

// EncodeTo writes the FDL block for records to w and returns the number of bytes written.
func EncodeTo(w io.Writer, records []Record) (int64, error) {
	var total int64
	for i, rec := range records {
		var header string
		if i > 0 {
			header = "\n"
		}
		header += Marker + " " + rec.Path + "\n"

		n, err := io.WriteString(w, header)
		total += int64(n)
		if err != nil {
			return total, err
		}

		n, err = io.WriteString(w, rec.Content)
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// NormalizeNewlines rewrites "\r\n" and bare "\r" line endings to "\n".
func NormalizeNewlines(s string) string {
	if !strings.Contains(s, "\r") {
		return s
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

// Decode parses an FDL block into its records.
//
// The block may have passed through a layer that rewrites line endings, so all
// of them are normalized first. Input that does not begin with Marker (after
// leading whitespace) is rejected with a *FormatError. A record with an empty
// path is skipped and reported in Batch.Warnings; decoding continues. A block
// that holds no record at all also gets a warning.
func Decode(text string) (*Batch, error) {
	normalized := NormalizeNewlines(text)

	body := strings.TrimLeft(normalized, " \t\n\v\f")
	if !strings.HasPrefix(body, Marker) {
		return nil, newFormatError(body)
	}

	// Prefixing a newline makes the first record split the same way as every
	// other one; the partition before it is always empty.
	parts := strings.Split("\n"+body, delimiter)

	batch := &Batch{}
	for i, part := range parts[1:] {
		if part == "" {
			continue
		}

		path, content, found := strings.Cut(part, "\n")
		if !found {
			// "$$FILE name" with nothing after it is a zero-byte file
			content = ""
		}

		path = strings.TrimSpace(path)
		if path == "" {
			batch.Warnings = append(batch.Warnings, &MalformedRecordError{
				Index:  i,
				Reason: "empty path",
			})
			continue
		}

		batch.Records = append(batch.Records, Record{Path: path, Content: content})
	}

	if len(batch.Records) == 0 && len(batch.Warnings) == 0 {
		batch.Warnings = append(batch.Warnings, &MalformedRecordError{
			Reason: fmt.Sprintf("no %q record header", Marker+" <path>"),
		})
	}

	return batch, nil
}
