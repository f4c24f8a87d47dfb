package storage

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// rowWriter writes delimited rows with minimal quoting: a field is quoted
// only when it holds the delimiter, a double quote, or a line break.
// Embedded quotes are doubled and every row ends with "\n".
type rowWriter struct {
	w     *bufio.Writer
	comma rune
}

func newRowWriter(w io.Writer, comma rune) (*rowWriter, error) {
	if err := validDelimiter(comma); err != nil {
		return nil, err
	}
	return &rowWriter{w: bufio.NewWriter(w), comma: comma}, nil
}

func validDelimiter(r rune) error {
	if r == '"' || r == '\r' || r == '\n' || !utf8.ValidRune(r) || r == utf8.RuneError {
		return fmt.Errorf("invalid delimiter %q", r)
	}
	return nil
}

// Write writes one row
func (rw *rowWriter) Write(fields []string) error {
	for i, field := range fields {
		if i > 0 {
			if _, err := rw.w.WriteRune(rw.comma); err != nil {
				return err
			}
		}
		if err := rw.writeField(field); err != nil {
			return err
		}
	}
	return rw.w.WriteByte('\n')
}

func (rw *rowWriter) writeField(field string) error {
	if !rw.needsQuotes(field) {
		_, err := rw.w.WriteString(field)
		return err
	}
	if err := rw.w.WriteByte('"'); err != nil {
		return err
	}
	if _, err := rw.w.WriteString(strings.ReplaceAll(field, `"`, `""`)); err != nil {
		return err
	}
	return rw.w.WriteByte('"')
}

func (rw *rowWriter) needsQuotes(field string) bool {
	return strings.ContainsRune(field, rw.comma) || strings.ContainsAny(field, "\"\r\n")
}

// Flush writes any buffered data to the underlying writer
func (rw *rowWriter) Flush() error {
	return rw.w.Flush()
}
