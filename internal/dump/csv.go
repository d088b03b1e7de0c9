package dump

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
)

// table is a header-indexed CSV reader over one dump file.
type table struct {
	f    *os.File
	r    *csv.Reader
	name string
	idx  []int
	line int // first line of the last record read
}

// openTable opens path and locates cols in its header, in the given order.
func openTable(path string, cols ...string) (*table, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNoDump, path)
		}

		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	r := csv.NewReader(f)
	r.ReuseRecord = true

	header, err := r.Read()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("read header of %s: %w", path, err)
	}

	idx, err := columns(header, cols)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return &table{f: f, r: r, name: path, idx: idx}, nil
}

// columns maps each wanted column name to its position in header.
func columns(header, want []string) ([]int, error) {
	pos := make(map[string]int, len(header))
	for i, h := range header {
		pos[h] = i
	}

	idx := make([]int, len(want))
	for i, w := range want {
		p, ok := pos[w]
		if !ok {
			return nil, fmt.Errorf("%w %q", ErrMissingColumn, w)
		}

		idx[i] = p
	}

	return idx, nil
}

// next fills out with the selected fields of the next record.
// A malformed record yields a *recordError and can be skipped; io.EOF ends the table.
func (t *table) next(out []string) error {
	rec, err := t.r.Read()
	if err != nil {
		if err == io.EOF {
			return io.EOF
		}

		var pe *csv.ParseError
		if errors.As(err, &pe) {
			t.line = pe.StartLine
			return &recordError{file: t.name, line: pe.StartLine, err: pe.Err}
		}

		return fmt.Errorf("read %s: %w", t.name, err)
	}

	t.line, _ = t.r.FieldPos(0)

	for i, p := range t.idx {
		out[i] = rec[p]
	}

	return nil
}

func (t *table) Close() error {
	return t.f.Close()
}

// recordError describes one skipped row.
type recordError struct {
	err  error
	file string
	line int
}

func (e *recordError) Error() string {
	return fmt.Sprintf("%s:%d: %v", e.file, e.line, e.err)
}

func (e *recordError) Unwrap() error {
	return e.err
}
