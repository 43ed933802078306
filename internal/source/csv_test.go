package source

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestCSVReader_ReadTable(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "order_details.csv", "\ufefforder_id;product_id;unit_price;quantity;discount\n"+
		"10248;11;14;12;0\n"+
		"10248;42;9.8;10;0.15\n")

	r := NewCSVReader(dir, "")
	if err := r.Connect(context.Background()); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	tbl, err := r.ReadTable(context.Background(), "order_details")
	if err != nil {
		t.Fatalf("ReadTable: %v", err)
	}

	if tbl.Name != "order_details" {
		t.Errorf("Name = %q, want order_details", tbl.Name)
	}
	if len(tbl.Columns) != 5 || tbl.Columns[0] != "order_id" {
		t.Errorf("unexpected columns %v (BOM should be stripped)", tbl.Columns)
	}
	if tbl.Len() != 2 {
		t.Fatalf("expected 2 rows, got %d", tbl.Len())
	}
	disc, _ := tbl.Col("discount")
	if got := tbl.Cell(1, disc); got != "0.15" {
		t.Errorf("discount = %q, want 0.15", got)
	}
}

func TestCSVReader_PadsShortRows(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "customers.csv", "customer_id;company_name;region\nALFKI;Alfreds Futterkiste\n")

	tbl, err := NewCSVReader(dir, ";").ReadTable(context.Background(), "customers")
	if err != nil {
		t.Fatalf("ReadTable: %v", err)
	}
	region, _ := tbl.Col("region")
	if !tbl.IsNull(0, region) {
		t.Error("short row should read the missing cell as null")
	}
}

func TestCSVReader_RejectsLongRows(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "region.csv", "region_id;region_description\n1;Eastern;extra\n")

	_, err := NewCSVReader(dir, ";").ReadTable(context.Background(), "region")
	if err == nil {
		t.Fatal("expected error for row with too many fields")
	}
	if !strings.Contains(err.Error(), "line 2") {
		t.Errorf("expected line number in error, got %v", err)
	}
}

func TestCSVReader_MissingFile(t *testing.T) {
	_, err := NewCSVReader(t.TempDir(), ";").ReadTable(context.Background(), "orders")
	if !errors.Is(err, ErrUnknownTable) {
		t.Errorf("expected ErrUnknownTable, got %v", err)
	}
}

func TestCSVReader_EmptyFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "shippers.csv", "")
	tbl, err := NewCSVReader(dir, ";").ReadTable(context.Background(), "shippers")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tbl.Len() != 0 {
		t.Errorf("expected 0 rows, got %d", tbl.Len())
	}
}

func TestCSVReader_ConnectMissingDir(t *testing.T) {
	r := NewCSVReader(filepath.Join(t.TempDir(), "nope"), ";")
	if err := r.Connect(context.Background()); err == nil {
		t.Error("expected error for missing data directory")
	}
}

func TestCSVReader_CustomDelimiter(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "categories.csv", "category_id,category_name\n1,Beverages\n")
	tbl, err := NewCSVReader(dir, ",").ReadTable(context.Background(), "categories")
	if err != nil {
		t.Fatalf("ReadTable: %v", err)
	}
	if tbl.Cell(0, 1) != "Beverages" {
		t.Errorf("expected Beverages, got %q", tbl.Cell(0, 1))
	}
}
