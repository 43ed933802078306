package source

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"time"

	"github.com/salesinsight/salesinsight/internal/config"
	"github.com/salesinsight/salesinsight/internal/dataset"
)

// ErrUnknownTable is returned when a backend has no table of the requested name.
var ErrUnknownTable = errors.New("unknown table")

// Reader provides read-only access to the sales tables.
type Reader interface {
	Connect(ctx context.Context) error
	ReadTable(ctx context.Context, name string) (*dataset.Table, error)
	Close() error
}

// New builds the reader selected by the source configuration.
func New(sc config.SourceConfig) (Reader, error) {
	switch sc.Type {
	case "", "csv":
		return NewCSVReader(sc.Directory, sc.Delimiter), nil
	case "postgresql":
		return NewPostgresReader(sc.ConnectionString, sc.Schema), nil
	case "oracle":
		return NewOracleReader(sc.ConnectionString, sc.Schema), nil
	case "mongodb":
		return NewMongoReader(sc.ConnectionString, sc.Database), nil
	default:
		return nil, fmt.Errorf("unsupported source type: %s", sc.Type)
	}
}

// LoadAll reads each named table in order. The first failure aborts the load.
func LoadAll(ctx context.Context, r Reader, names []string, logger *slog.Logger) (map[string]*dataset.Table, error) {
	tables := make(map[string]*dataset.Table, len(names))
	for _, name := range names {
		start := time.Now()
		t, err := r.ReadTable(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("loading %s: %w", name, err)
		}
		logger.Debug("table loaded", "table", name, "rows", t.Len(), "columns", len(t.Columns),
			"elapsed", time.Since(start))
		tables[name] = t
	}
	return tables, nil
}

// cellString renders a database value in the same text form a CSV cell would have.
func cellString(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case []byte:
		return string(x)
	case bool:
		if x {
			return "1"
		}
		return "0"
	case int:
		return strconv.Itoa(x)
	case int16:
		return strconv.FormatInt(int64(x), 10)
	case int32:
		return strconv.FormatInt(int64(x), 10)
	case int64:
		return strconv.FormatInt(x, 10)
	case float32:
		return formatFloat(float64(x), 32)
	case float64:
		return formatFloat(x, 64)
	case time.Time:
		if x.Hour() == 0 && x.Minute() == 0 && x.Second() == 0 && x.Nanosecond() == 0 {
			return x.Format("2006-01-02")
		}
		return x.Format("2006-01-02 15:04:05")
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}

func formatFloat(f float64, bits int) string {
	if math.IsNaN(f) {
		return ""
	}
	return strconv.FormatFloat(f, 'f', -1, bits)
}
