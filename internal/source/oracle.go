package source

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	// Oracle driver
	_ "github.com/sijms/go-ora/v2"

	"github.com/salesinsight/salesinsight/internal/dataset"
)

// OracleReader implements Reader for Oracle using go-ora.
type OracleReader struct {
	connStr string
	schema  string
	db      *sql.DB
}

// NewOracleReader creates a new Oracle reader. Unquoted Oracle identifiers
// are upper case, so schema and table names are upper-cased.
func NewOracleReader(connStr, schema string) *OracleReader {
	return &OracleReader{connStr: connStr, schema: strings.ToUpper(schema)}
}

func (r *OracleReader) Connect(ctx context.Context) error {
	db, err := sql.Open("oracle", r.connStr)
	if err != nil {
		return fmt.Errorf("opening Oracle connection: %w", err)
	}
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return fmt.Errorf("pinging Oracle: %w", err)
	}
	r.db = db
	return nil
}

func (r *OracleReader) ReadTable(ctx context.Context, name string) (*dataset.Table, error) {
	if r.db == nil {
		return nil, fmt.Errorf("reading %s: not connected", name)
	}
	target := quoteIdentOra(strings.ToUpper(name))
	if r.schema != "" {
		target = quoteIdentOra(r.schema) + "." + target
	}
	rows, err := r.db.QueryContext(ctx, "SELECT * FROM "+target)
	if err != nil {
		if strings.Contains(err.Error(), "ORA-00942") {
			return nil, fmt.Errorf("%w: %s", ErrUnknownTable, name)
		}
		return nil, fmt.Errorf("querying %s: %w", name, err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("reading %s columns: %w", name, err)
	}
	columns := make([]string, len(cols))
	for i, c := range cols {
		columns[i] = strings.ToLower(c)
	}

	var out [][]string
	for rows.Next() {
		vals := make([]interface{}, len(cols))
		ptrs := make([]interface{}, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scanning %s row: %w", name, err)
		}
		rec := make([]string, len(vals))
		for i, v := range vals {
			rec[i] = cellString(v)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating %s rows: %w", name, err)
	}
	return dataset.New(name, columns, out), nil
}

func (r *OracleReader) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func quoteIdentOra(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
