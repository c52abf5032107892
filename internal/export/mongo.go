package export

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"products-scraper/internal/scraper"
)

// ProductDocument is how a product is stored in MongoDB.
type ProductDocument struct {
	RunID        string    `bson:"run_id"`
	Category     string    `bson:"category"`
	SourceURL    string    `bson:"source_url"`
	Title        string    `bson:"title"`
	Description  string    `bson:"description"`
	Price        float64   `bson:"price"`
	Rating       int       `bson:"rating"`
	NumOfReviews int       `bson:"num_of_reviews"`
	ScrapedAt    time.Time `bson:"scraped_at"`
}

// MongoSink inserts every scraped product into one collection.
type MongoSink struct {
	client     *mongo.Client
	collection *mongo.Collection
	runID      string
	now        func() time.Time
}

func NewMongoSink(ctx context.Context, uri, database, collection, runID string) (*MongoSink, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("MongoDB ping failed: %w", err)
	}

	return &MongoSink{
		client:     client,
		collection: client.Database(database).Collection(collection),
		runID:      runID,
		now:        time.Now,
	}, nil
}

func (m *MongoSink) Export(ctx context.Context, category scraper.Category, _ string, products []scraper.Product) error {
	if len(products) == 0 {
		return nil
	}

	docs := Documents(m.runID, category, products, m.now())
	if _, err := m.collection.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("insert %s products: %w", category.Label, err)
	}
	return nil
}

func (m *MongoSink) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

// Documents converts products to insertable documents.
func Documents(runID string, category scraper.Category, products []scraper.Product, at time.Time) []interface{} {
	docs := make([]interface{}, 0, len(products))
	for _, p := range products {
		docs = append(docs, ProductDocument{
			RunID:        runID,
			Category:     category.Label,
			SourceURL:    category.URL,
			Title:        p.Title,
			Description:  p.Description,
			Price:        p.Price,
			Rating:       p.Rating,
			NumOfReviews: p.NumOfReviews,
			ScrapedAt:    at,
		})
	}
	return docs
}
