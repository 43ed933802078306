package source

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/salesinsight/salesinsight/internal/dataset"
)

// MongoReader reads one collection per table. Columns are the union of
// document fields in first-seen order; _id is skipped.
type MongoReader struct {
	connStr  string
	database string
	client   *mongo.Client
}

// NewMongoReader creates a new MongoDB reader.
func NewMongoReader(connStr, database string) *MongoReader {
	return &MongoReader{connStr: connStr, database: database}
}

func (r *MongoReader) Connect(ctx context.Context) error {
	client, err := mongo.Connect(options.Client().ApplyURI(r.connStr))
	if err != nil {
		return fmt.Errorf("connecting to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return fmt.Errorf("pinging MongoDB: %w", err)
	}
	r.client = client
	return nil
}

func (r *MongoReader) ReadTable(ctx context.Context, name string) (*dataset.Table, error) {
	if r.client == nil {
		return nil, fmt.Errorf("reading %s: not connected", name)
	}
	db := r.client.Database(r.database)

	names, err := db.ListCollectionNames(ctx, bson.D{{Key: "name", Value: name}})
	if err != nil {
		return nil, fmt.Errorf("listing collections: %w", err)
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("%w: %s.%s", ErrUnknownTable, r.database, name)
	}

	cur, err := db.Collection(name).Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("querying %s: %w", name, err)
	}
	var docs []bson.D
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", name, err)
	}
	return documentsToTable(name, docs), nil
}

func (r *MongoReader) Close() error {
	if r.client != nil {
		return r.client.Disconnect(context.Background())
	}
	return nil
}

func documentsToTable(name string, docs []bson.D) *dataset.Table {
	index := make(map[string]int)
	var columns []string
	for _, doc := range docs {
		for _, e := range doc {
			if e.Key == "_id" {
				continue
			}
			if _, ok := index[e.Key]; !ok {
				index[e.Key] = len(columns)
				columns = append(columns, e.Key)
			}
		}
	}

	rows := make([][]string, len(docs))
	for i, doc := range docs {
		rec := make([]string, len(columns))
		for _, e := range doc {
			if j, ok := index[e.Key]; ok {
				rec[j] = bsonCellString(e.Value)
			}
		}
		rows[i] = rec
	}
	return dataset.New(name, columns, rows)
}

func bsonCellString(v interface{}) string {
	switch x := v.(type) {
	case bson.DateTime:
		return cellString(x.Time().UTC())
	case bson.Decimal128:
		return x.String()
	default:
		return cellString(v)
	}
}
