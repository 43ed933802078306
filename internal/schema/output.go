package schema

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/salesinsight/salesinsight/internal/dataset"
)

// LoadYAML reads a catalog from a YAML file.
func LoadYAML(path string) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog file: %w", err)
	}
	s := &Schema{}
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}
	if len(s.Tables) == 0 {
		return nil, fmt.Errorf("catalog %s lists no tables", path)
	}
	return s, nil
}

// WriteYAML writes the catalog to a YAML file at the given path.
func (s *Schema) WriteYAML(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshaling catalog: %w", err)
	}

	return os.WriteFile(path, data, 0o644)
}

// Check verifies every catalog table was loaded with its required columns.
// All problems are reported together.
func (s *Schema) Check(tables map[string]*dataset.Table) error {
	var errs []error
	for _, def := range s.Tables {
		tbl, ok := tables[def.Name]
		if !ok {
			errs = append(errs, fmt.Errorf("table %s not loaded", def.Name))
			continue
		}
		for _, c := range def.Columns {
			if _, err := tbl.Col(c.Name); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

// Summary returns a one-line description of the loaded tables.
func (s *Schema) Summary(tables map[string]*dataset.Table) string {
	var totalRows, totalCols int
	for _, def := range s.Tables {
		if tbl, ok := tables[def.Name]; ok {
			totalRows += tbl.Len()
			totalCols += len(tbl.Columns)
		}
	}
	return fmt.Sprintf("Loaded %d tables, %d columns, %d rows", len(tables), totalCols, totalRows)
}
