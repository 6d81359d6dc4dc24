package source

import (
	"encoding/csv"
	"errors"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/rokumeals/grubgraph/internal/types"
)

// Row is one data row keyed by header column name. Line is the 1-based
// position in the file, kept for diagnostics.
type Row struct {
	Line   int
	Fields map[string]string
}

// Reader streams delimited rows from a single source file. The first
// line is the header. Input is decoded as UTF-8 with invalid byte
// sequences replaced, since the upstream dataset is known to carry
// malformed text.
type Reader struct {
	name    string
	file    *os.File
	csv     *csv.Reader
	headers []string
	line    int
}

func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, types.WrapError(types.SOURCE_OPEN_FAILED, err, "cannot open source file %s", path)
	}

	decoded := transform.NewReader(f, unicode.UTF8.NewDecoder())
	r := csv.NewReader(decoded)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	headers, err := r.Read()
	if err != nil {
		f.Close()
		return nil, types.WrapError(types.SOURCE_READ_FAILED, err, "cannot read header of %s", path)
	}
	for i := range headers {
		headers[i] = strings.TrimSpace(headers[i])
	}

	return &Reader{name: path, file: f, csv: r, headers: headers, line: 1}, nil
}

func (r *Reader) Name() string {
	return r.name
}

// Next returns the next row, or io.EOF when the file is exhausted. A
// structurally broken line (bare quote mangling the CSV framing) is
// returned as a MALFORMED_ROW error with the row position so the caller
// can count it and continue.
func (r *Reader) Next() (Row, error) {
	record, err := r.csv.Read()
	r.line++
	if err != nil {
		if errors.Is(err, io.EOF) {
			return Row{}, io.EOF
		}
		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) {
			return Row{Line: r.line}, types.WrapError(types.MALFORMED_ROW, err, "unparseable row at line %d of %s", r.line, r.name)
		}
		return Row{}, types.WrapError(types.SOURCE_READ_FAILED, err, "read failed at line %d of %s", r.line, r.name)
	}

	fields := make(map[string]string, len(r.headers))
	for i, h := range r.headers {
		if i < len(record) {
			fields[h] = record[i]
		}
	}
	return Row{Line: r.line, Fields: fields}, nil
}

func (r *Reader) Close() error {
	return r.file.Close()
}

// Text returns the named field with surrounding whitespace trimmed.
// Missing columns read as the empty string, mirroring the "unknown, not
// error" convention of the dataset.
func (row Row) Text(name string) string {
	return strings.TrimSpace(row.Fields[name])
}

// Float coerces a numeric field. Empty values and parse failures map to
// 0, the dataset's "unknown" sentinel.
func (row Row) Float(name string) float64 {
	v, err := strconv.ParseFloat(row.Text(name), 64)
	if err != nil {
		return 0
	}
	return v
}

// Int coerces an integer field with the same zero-on-unknown rule.
func (row Row) Int(name string) int {
	s := row.Text(name)
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	// Some exports serialize integer columns as "123.0".
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int(f)
	}
	return 0
}
