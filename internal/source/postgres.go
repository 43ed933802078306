package source

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/salesinsight/salesinsight/internal/dataset"
)

// PostgresReader implements Reader for PostgreSQL using pgx.
type PostgresReader struct {
	connStr string
	schema  string
	pool    *pgxpool.Pool
}

// NewPostgresReader creates a new PostgreSQL reader.
func NewPostgresReader(connStr, schema string) *PostgresReader {
	if schema == "" {
		schema = "public"
	}
	return &PostgresReader{connStr: connStr, schema: schema}
}

func (r *PostgresReader) Connect(ctx context.Context) error {
	cfg, err := pgxpool.ParseConfig(r.connStr)
	if err != nil {
		return fmt.Errorf("parsing connection string: %w", err)
	}
	cfg.MaxConns = 1 // tables are read one at a time
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return fmt.Errorf("connecting to PostgreSQL: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return fmt.Errorf("pinging PostgreSQL: %w", err)
	}
	r.pool = pool
	return nil
}

func (r *PostgresReader) ReadTable(ctx context.Context, name string) (*dataset.Table, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("reading %s: not connected", name)
	}
	sql := fmt.Sprintf("SELECT * FROM %s.%s", quoteIdentPg(r.schema), quoteIdentPg(name))
	rows, err := r.pool.Query(ctx, sql)
	if err != nil {
		if strings.Contains(err.Error(), "42P01") {
			return nil, fmt.Errorf("%w: %s.%s", ErrUnknownTable, r.schema, name)
		}
		return nil, fmt.Errorf("querying %s: %w", name, err)
	}
	defer rows.Close()

	descs := rows.FieldDescriptions()
	columns := make([]string, len(descs))
	for i, d := range descs {
		columns[i] = d.Name
	}

	var out [][]string
	for rows.Next() {
		vals, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("scanning %s row: %w", name, err)
		}
		rec := make([]string, len(vals))
		for i, v := range vals {
			rec[i] = pgCellString(v)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating %s rows: %w", name, err)
	}
	return dataset.New(name, columns, out), nil
}

func (r *PostgresReader) Close() error {
	if r.pool != nil {
		r.pool.Close()
	}
	return nil
}

// pgCellString handles the pgtype values pgx returns for numeric columns.
func pgCellString(v interface{}) string {
	if n, ok := v.(pgtype.Numeric); ok {
		if !n.Valid {
			return ""
		}
		f, err := n.Float64Value()
		if err != nil || !f.Valid {
			return ""
		}
		return formatFloat(f.Float64, 64)
	}
	return cellString(v)
}

func quoteIdentPg(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
