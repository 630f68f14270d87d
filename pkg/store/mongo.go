package store

import (
	"context"
	"fmt"
	"sort"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/fabrikdev/econdag/pkg/economy"
	"github.com/fabrikdev/econdag/pkg/errors"
)

// MongoConfig configures the MongoDB store backend.
type MongoConfig struct {
	URI        string // connection string, e.g. mongodb://localhost:27017
	Database   string // defaults to "econdag"
	Collection string // defaults to "economies"
}

// MongoStore persists economy documents in a MongoDB collection, one
// document per named economy.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// mongoDoc is the collection schema: the economy document nested under its
// name, which carries a unique index.
type mongoDoc struct {
	Name    string           `bson:"name"`
	Economy economy.Document `bson:"economy"`
}

// NewMongoStore connects to MongoDB and ensures the name index exists.
func NewMongoStore(ctx context.Context, cfg MongoConfig) (*MongoStore, error) {
	if cfg.Database == "" {
		cfg.Database = "econdag"
	}
	if cfg.Collection == "" {
		cfg.Collection = "economies"
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}

	coll := client.Database(cfg.Database).Collection(cfg.Collection)
	_, err = coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("create name index: %w", err)
	}

	return &MongoStore{client: client, coll: coll}, nil
}

// Save upserts the document under name.
func (s *MongoStore) Save(ctx context.Context, name string, doc economy.Document) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	_, err := s.coll.ReplaceOne(ctx,
		bson.M{"name": name},
		mongoDoc{Name: name, Economy: doc},
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("save economy %q: %w", name, err)
	}
	return nil
}

// Load retrieves the document stored under name.
func (s *MongoStore) Load(ctx context.Context, name string) (economy.Document, error) {
	if err := ValidateName(name); err != nil {
		return economy.Document{}, err
	}
	var doc mongoDoc
	err := s.coll.FindOne(ctx, bson.M{"name": name}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return economy.Document{}, errors.New(errors.ErrCodeNotFound, "economy %q not found", name)
	}
	if err != nil {
		return economy.Document{}, fmt.Errorf("load economy %q: %w", name, err)
	}
	return doc.Economy, nil
}

// List returns the stored document names, sorted.
func (s *MongoStore) List(ctx context.Context) ([]string, error) {
	cursor, err := s.coll.Find(ctx, bson.M{},
		options.Find().SetProjection(bson.M{"name": 1}))
	if err != nil {
		return nil, fmt.Errorf("list economies: %w", err)
	}
	defer cursor.Close(ctx)

	var names []string
	for cursor.Next(ctx) {
		var doc mongoDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode economy name: %w", err)
		}
		names = append(names, doc.Name)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("list economies: %w", err)
	}
	sort.Strings(names)
	return names, nil
}

// Delete removes the document stored under name.
func (s *MongoStore) Delete(ctx context.Context, name string) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	if _, err := s.coll.DeleteOne(ctx, bson.M{"name": name}); err != nil {
		return fmt.Errorf("delete economy %q: %w", name, err)
	}
	return nil
}

// Close disconnects from MongoDB.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// Ensure MongoStore implements Store.
var _ Store = (*MongoStore)(nil)
