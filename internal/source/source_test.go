package source

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/salesinsight/salesinsight/internal/config"
	"github.com/salesinsight/salesinsight/internal/dataset"
	"github.com/salesinsight/salesinsight/internal/logging"
)

func TestNew(t *testing.T) {
	tests := []struct {
		sc   config.SourceConfig
		want string
	}{
		{config.SourceConfig{Type: "csv", Directory: "data"}, "*source.CSVReader"},
		{config.SourceConfig{Type: "postgresql", ConnectionString: "postgres://x"}, "*source.PostgresReader"},
		{config.SourceConfig{Type: "oracle", ConnectionString: "oracle://x"}, "*source.OracleReader"},
		{config.SourceConfig{Type: "mongodb", ConnectionString: "mongodb://x", Database: "nw"}, "*source.MongoReader"},
	}
	for _, tt := range tests {
		t.Run(tt.sc.Type, func(t *testing.T) {
			r, err := New(tt.sc)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := typeName(r); got != tt.want {
				t.Errorf("New(%s) = %s, want %s", tt.sc.Type, got, tt.want)
			}
		})
	}

	if _, err := New(config.SourceConfig{Type: "sqlite"}); err == nil {
		t.Error("expected error for unsupported type")
	}
}

func typeName(r Reader) string {
	switch r.(type) {
	case *CSVReader:
		return "*source.CSVReader"
	case *PostgresReader:
		return "*source.PostgresReader"
	case *OracleReader:
		return "*source.OracleReader"
	case *MongoReader:
		return "*source.MongoReader"
	}
	return "unknown"
}

func TestLoadAll(t *testing.T) {
	m := &MockReader{Tables: map[string]*dataset.Table{
		"orders":     dataset.New("orders", []string{"order_id"}, [][]string{{"1"}}),
		"categories": dataset.New("categories", []string{"category_id"}, nil),
	}}

	tables, err := LoadAll(context.Background(), m, []string{"orders", "categories"}, logging.Discard())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tables) != 2 {
		t.Errorf("expected 2 tables, got %d", len(tables))
	}
	if len(m.Reads) != 2 || m.Reads[0] != "orders" {
		t.Errorf("expected sequential reads in order, got %v", m.Reads)
	}
}

func TestLoadAll_StopsAtFirstFailure(t *testing.T) {
	boom := errors.New("disk error")
	m := &MockReader{
		Tables:  map[string]*dataset.Table{"orders": dataset.New("orders", nil, nil)},
		ReadErr: map[string]error{"products": boom},
	}

	_, err := LoadAll(context.Background(), m, []string{"orders", "products", "customers"}, logging.Discard())
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped read error, got %v", err)
	}
	if len(m.Reads) != 2 {
		t.Errorf("expected load to stop after products, reads = %v", m.Reads)
	}
}

func TestCellString(t *testing.T) {
	tests := []struct {
		in   interface{}
		want string
	}{
		{nil, ""},
		{"VINET", "VINET"},
		{[]byte("Reims"), "Reims"},
		{true, "1"},
		{int16(12), "12"},
		{int32(10248), "10248"},
		{int64(7), "7"},
		{float32(0.15), "0.15"},
		{float64(14), "14"},
		{time.Date(1996, 7, 4, 0, 0, 0, 0, time.UTC), "1996-07-04"},
		{time.Date(1996, 7, 4, 13, 5, 0, 0, time.UTC), "1996-07-04 13:05:00"},
	}
	for _, tt := range tests {
		if got := cellString(tt.in); got != tt.want {
			t.Errorf("cellString(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestDocumentsToTable(t *testing.T) {
	docs := []bson.D{
		{{Key: "_id", Value: "x1"}, {Key: "category_id", Value: int32(1)}, {Key: "category_name", Value: "Beverages"}},
		{{Key: "_id", Value: "x2"}, {Key: "category_name", Value: "Condiments"}, {Key: "description", Value: "Sweet"}},
	}
	tbl := documentsToTable("categories", docs)

	want := []string{"category_id", "category_name", "description"}
	if len(tbl.Columns) != len(want) {
		t.Fatalf("columns = %v, want %v", tbl.Columns, want)
	}
	for i, c := range want {
		if tbl.Columns[i] != c {
			t.Errorf("column %d = %q, want %q", i, tbl.Columns[i], c)
		}
	}
	if tbl.Cell(1, 0) != "" {
		t.Errorf("missing field should be empty, got %q", tbl.Cell(1, 0))
	}
	if tbl.Cell(1, 1) != "Condiments" {
		t.Errorf("field order should follow column index, got %q", tbl.Cell(1, 1))
	}
}

func TestMockReader_Connect(t *testing.T) {
	m := &MockReader{}
	if err := m.Connect(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !m.Connected {
		t.Error("should be connected")
	}
	m.Close()
	if !m.Closed {
		t.Error("should be closed")
	}
}

func TestMockReader_ReturnsCopy(t *testing.T) {
	stored := dataset.New("orders", []string{"order_id"}, [][]string{{"1"}})
	m := &MockReader{Tables: map[string]*dataset.Table{"orders": stored}}

	got, err := m.ReadTable(context.Background(), "orders")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got.Rows[0][0] = "2"
	if stored.Rows[0][0] != "1" {
		t.Errorf("mutating a read table changed the stored one: %q", stored.Rows[0][0])
	}
}
