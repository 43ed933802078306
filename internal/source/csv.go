package source

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/salesinsight/salesinsight/internal/dataset"
)

// CSVReader reads each table from <Dir>/<name>.csv.
type CSVReader struct {
	Dir       string
	Delimiter rune
}

// NewCSVReader creates a reader over a directory of delimited files.
// An empty delimiter defaults to ';'.
func NewCSVReader(dir, delimiter string) *CSVReader {
	d := ';'
	if r, _ := utf8.DecodeRuneInString(delimiter); r != utf8.RuneError {
		d = r
	}
	return &CSVReader{Dir: dir, Delimiter: d}
}

func (r *CSVReader) Connect(_ context.Context) error {
	info, err := os.Stat(r.Dir)
	if err != nil {
		return fmt.Errorf("opening data directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("data path %s is not a directory", r.Dir)
	}
	return nil
}

func (r *CSVReader) ReadTable(_ context.Context, name string) (*dataset.Table, error) {
	path := filepath.Join(r.Dir, name+".csv")
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s (%s)", ErrUnknownTable, name, path)
		}
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()
	return parseDelimited(name, f, r.Delimiter)
}

func (r *CSVReader) Close() error { return nil }

func parseDelimited(name string, in io.Reader, delimiter rune) (*dataset.Table, error) {
	cr := csv.NewReader(in)
	cr.Comma = delimiter
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err == io.EOF {
		return dataset.New(name, nil, nil), nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s header: %w", name, err)
	}
	header[0] = strings.TrimPrefix(header[0], "\ufeff")
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	var rows [][]string
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", name, err)
		}
		if len(rec) > len(header) {
			return nil, fmt.Errorf("parsing %s line %d: expected %d fields, saw %d", name, line, len(header), len(rec))
		}
		for len(rec) < len(header) {
			rec = append(rec, "")
		}
		rows = append(rows, rec)
	}
	return dataset.New(name, header, rows), nil
}
