package schema

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/salesinsight/salesinsight/internal/dataset"
)

func TestNorthwindCatalog(t *testing.T) {
	s := Northwind()
	names := s.Names()
	if len(names) != 12 {
		t.Fatalf("expected 12 tables, got %d", len(names))
	}
	if names[0] != "orders" || names[11] != "employee_territories" {
		t.Errorf("unexpected table order: %v", names)
	}
	od := s.Table("order_details")
	if od == nil {
		t.Fatal("order_details should be in the catalog")
	}
	if len(od.Columns) != 5 {
		t.Errorf("order_details required columns = %d, want 5", len(od.Columns))
	}
	if s.Table("invoices") != nil {
		t.Error("invoices should not be in the catalog")
	}
}

func TestWriteAndLoadYAML(t *testing.T) {
	s := &Schema{
		Name: "mini",
		Tables: []Table{
			{
				Name:       "orders",
				Columns:    []Column{{Name: "order_id", DataType: "int"}},
				PrimaryKey: &PrimaryKey{Columns: []string{"order_id"}},
			},
			{
				Name:    "order_details",
				Columns: []Column{{Name: "order_id", DataType: "int"}, {Name: "quantity", DataType: "int"}},
				ForeignKeys: []ForeignKey{
					{Columns: []string{"order_id"}, ReferencedTable: "orders", ReferencedColumns: []string{"order_id"}},
				},
			},
		},
	}

	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.yaml")

	if err := s.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("catalog file not created: %v", err)
	}

	loaded, err := LoadYAML(path)
	if err != nil {
		t.Fatalf("LoadYAML: %v", err)
	}
	if loaded.Name != "mini" {
		t.Errorf("Name = %q, want %q", loaded.Name, "mini")
	}
	if len(loaded.Tables) != 2 {
		t.Fatalf("expected 2 tables, got %d", len(loaded.Tables))
	}
	if loaded.Tables[0].PrimaryKey == nil {
		t.Fatal("orders primary key should not be nil")
	}
	if loaded.Tables[1].ForeignKeys[0].ReferencedTable != "orders" {
		t.Errorf("FK ref table = %q, want %q", loaded.Tables[1].ForeignKeys[0].ReferencedTable, "orders")
	}
}

func TestLoadYAML_NotFound(t *testing.T) {
	_, err := LoadYAML("/nonexistent/path/catalog.yaml")
	if err == nil {
		t.Error("expected error for nonexistent file")
	}
}

func TestLoadYAML_Empty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.yaml")
	if err := os.WriteFile(path, []byte("name: nothing\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadYAML(path); err == nil {
		t.Error("expected error for catalog with no tables")
	}
}

func TestCheck(t *testing.T) {
	s := &Schema{Tables: []Table{
		{Name: "orders", Columns: []Column{{Name: "order_id"}, {Name: "order_date"}}},
		{Name: "region"},
	}}

	ok := map[string]*dataset.Table{
		"orders": dataset.New("orders", []string{"order_id", "order_date"}, nil),
		"region": dataset.New("region", []string{"region_id"}, nil),
	}
	if err := s.Check(ok); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	bad := map[string]*dataset.Table{
		"orders": dataset.New("orders", []string{"order_id"}, nil),
	}
	err := s.Check(bad)
	if err == nil {
		t.Fatal("expected error for missing column and table")
	}
	if !errors.Is(err, dataset.ErrColumnNotFound) {
		t.Errorf("expected ErrColumnNotFound in chain, got %v", err)
	}
	if !strings.Contains(err.Error(), "region not loaded") {
		t.Errorf("expected missing table in error, got %v", err)
	}
}

func TestSummary(t *testing.T) {
	s := &Schema{Tables: []Table{{Name: "a"}, {Name: "b"}}}
	tables := map[string]*dataset.Table{
		"a": dataset.New("a", []string{"id"}, [][]string{{"1"}, {"2"}}),
		"b": dataset.New("b", []string{"id", "val"}, [][]string{{"1", "x"}}),
	}
	summary := s.Summary(tables)
	if summary != "Loaded 2 tables, 3 columns, 3 rows" {
		t.Errorf("unexpected summary: %q", summary)
	}
}
