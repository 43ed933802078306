//go:build integration

package integration

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"

	"github.com/salesinsight/salesinsight/internal/config"
	"github.com/salesinsight/salesinsight/internal/logging"
	"github.com/salesinsight/salesinsight/internal/pipeline"
)

const pgSchema = "salesinsight_it"

var pgTypes = map[string]string{
	"customer_id":   "text",
	"company_name":  "text",
	"category_id":   "integer",
	"category_name": "text",
	"product_id":    "integer",
	"product_name":  "text",
	"discontinued":  "integer",
	"order_id":      "integer",
	"order_date":    "date",
	"ship_country":  "text",
	"unit_price":    "double precision",
	"quantity":      "integer",
	"discount":      "real",
}

func seedPostgres(t *testing.T, ctx context.Context, conn *pgx.Conn) {
	t.Helper()
	exec := func(sql string, args ...any) {
		t.Helper()
		if _, err := conn.Exec(ctx, sql, args...); err != nil {
			t.Fatalf("exec %q: %v", sql, err)
		}
	}

	exec("DROP SCHEMA IF EXISTS " + pgSchema + " CASCADE")
	exec("CREATE SCHEMA " + pgSchema)

	for _, s := range seedTables() {
		defs := make([]string, len(s.columns))
		marks := make([]string, len(s.columns))
		for i, c := range s.columns {
			defs[i] = c + " " + pgTypes[c]
			marks[i] = fmt.Sprintf("$%d", i+1)
		}
		exec(fmt.Sprintf("CREATE TABLE %s.%s (%s)", pgSchema, s.name, strings.Join(defs, ", ")))
		insert := fmt.Sprintf("INSERT INTO %s.%s (%s) VALUES (%s)", pgSchema, s.name,
			strings.Join(s.columns, ", "), strings.Join(marks, ", "))
		for _, row := range s.rows {
			exec(insert, row...)
		}
	}
	for _, name := range emptyTables() {
		exec(fmt.Sprintf("CREATE TABLE %s.%s (id integer)", pgSchema, name))
	}
}

func TestPipelinePostgres(t *testing.T) {
	skipIfNoPostgres(t)
	ctx := context.Background()

	conn, err := pgx.Connect(ctx, pgConnString(t))
	if err != nil {
		t.Fatalf("connecting: %v", err)
	}
	defer conn.Close(ctx)
	seedPostgres(t, ctx, conn)
	defer conn.Exec(ctx, "DROP SCHEMA IF EXISTS "+pgSchema+" CASCADE")

	cfg := config.Default()
	cfg.Source = config.SourceConfig{
		Type:             "postgresql",
		ConnectionString: pgConnString(t),
		Schema:           pgSchema,
	}

	var out bytes.Buffer
	res, err := pipeline.Run(ctx, pipeline.Options{Config: cfg, Out: &out, Logger: logging.Discard()})
	if err != nil {
		t.Fatalf("running pipeline: %v", err)
	}
	checkReport(t, out.String())
	if len(res.Geographic.Countries) != 2 {
		t.Errorf("expected 2 countries, got %d", len(res.Geographic.Countries))
	}
}

func TestPipelinePostgres_MissingTable(t *testing.T) {
	skipIfNoPostgres(t)
	ctx := context.Background()

	conn, err := pgx.Connect(ctx, pgConnString(t))
	if err != nil {
		t.Fatalf("connecting: %v", err)
	}
	defer conn.Close(ctx)
	seedPostgres(t, ctx, conn)
	defer conn.Exec(ctx, "DROP SCHEMA IF EXISTS "+pgSchema+" CASCADE")

	if _, err := conn.Exec(ctx, "DROP TABLE "+pgSchema+".shippers"); err != nil {
		t.Fatalf("dropping table: %v", err)
	}

	cfg := config.Default()
	cfg.Source = config.SourceConfig{Type: "postgresql", ConnectionString: pgConnString(t), Schema: pgSchema}
	_, err = pipeline.Run(ctx, pipeline.Options{Config: cfg, Logger: logging.Discard()})
	if err == nil || !strings.Contains(err.Error(), "shippers") {
		t.Errorf("expected error naming shippers, got %v", err)
	}
}
