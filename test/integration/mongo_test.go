//go:build integration

package integration

import (
	"bytes"
	"context"
	"testing"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/salesinsight/salesinsight/internal/config"
	"github.com/salesinsight/salesinsight/internal/logging"
	"github.com/salesinsight/salesinsight/internal/pipeline"
)

func TestPipelineMongo(t *testing.T) {
	skipIfNoMongo(t)
	ctx := context.Background()

	client, err := mongo.Connect(options.Client().ApplyURI(mongoURI(t)))
	if err != nil {
		t.Fatalf("connecting: %v", err)
	}
	defer client.Disconnect(ctx)

	db := client.Database(mongoDatabase(t))
	if err := db.Drop(ctx); err != nil {
		t.Fatalf("dropping database: %v", err)
	}
	defer db.Drop(ctx)

	for _, s := range seedTables() {
		docs := make([]any, len(s.rows))
		for i, row := range s.rows {
			doc := bson.D{}
			for j, c := range s.columns {
				doc = append(doc, bson.E{Key: c, Value: row[j]})
			}
			docs[i] = doc
		}
		if _, err := db.Collection(s.name).InsertMany(ctx, docs); err != nil {
			t.Fatalf("seeding %s: %v", s.name, err)
		}
	}
	for _, name := range emptyTables() {
		if err := db.CreateCollection(ctx, name); err != nil {
			t.Fatalf("creating %s: %v", name, err)
		}
	}

	cfg := config.Default()
	cfg.Source = config.SourceConfig{
		Type:             "mongodb",
		ConnectionString: mongoURI(t),
		Database:         mongoDatabase(t),
	}

	var out bytes.Buffer
	res, err := pipeline.Run(ctx, pipeline.Options{Config: cfg, Out: &out, Quality: true, Logger: logging.Discard()})
	if err != nil {
		t.Fatalf("running pipeline: %v", err)
	}
	checkReport(t, out.String())
	if res.Quality == nil || len(res.Quality.Tables) != 12 {
		t.Errorf("expected quality report over 12 tables, got %+v", res.Quality)
	}
}
