// Package mongo stores family records in MongoDB.
//
// Each family is one document, keyed by its name, in a collection of the
// caller's choosing:
//
//	{
//	  "_id": "smith",
//	  "persons": [{"_id": 1, "name": "A", "sex": "m"}, ...],
//	  "relationships": [{"_id": 1, "partner": 1, "children": [4], ...}]
//	}
//
// Keeping a family in a single document preserves the input order of persons
// and relationships, which the layout depends on.
package mongo

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/treeprint/pkg/errors"
	"github.com/matzehuels/treeprint/pkg/family"
)

// Defaults used when no database or collection is configured.
const (
	DefaultDatabase   = "treeprint"
	DefaultCollection = "families"
)

// Connect opens a client for uri and verifies the server is reachable.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri).SetConnectTimeout(10*time.Second))
	if err != nil {
		return nil, fmt.Errorf("connecting to mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("pinging mongo: %w", err)
	}
	return client, nil
}

type document struct {
	Name           string    `bson:"_id"`
	Updated        time.Time `bson:"updated"`
	family.Records `bson:",inline"`
}

// Store reads and writes families in one collection.
type Store struct {
	coll *mongo.Collection
}

// New returns a Store on db.collection. An empty collection name selects
// DefaultCollection.
func New(db *mongo.Database, collection string) (*Store, error) {
	if collection == "" {
		collection = DefaultCollection
	}
	if err := errors.ValidateIdentifier(collection); err != nil {
		return nil, err
	}
	return &Store{coll: db.Collection(collection)}, nil
}

// Load returns the records of the named family.
func (s *Store) Load(ctx context.Context, name string) (family.Records, error) {
	var doc document
	err := s.coll.FindOne(ctx, bson.M{"_id": name}).Decode(&doc)
	if stderrors.Is(err, mongo.ErrNoDocuments) {
		return family.Records{}, errors.New(errors.ErrCodeNotFound, "family %q not found", name)
	}
	if err != nil {
		return family.Records{}, fmt.Errorf("loading family %q: %w", name, err)
	}
	return doc.Records, nil
}

// Save creates or replaces the named family.
func (s *Store) Save(ctx context.Context, name string, recs family.Records) error {
	if name == "" {
		return errors.New(errors.ErrCodeInvalidInput, "family name cannot be empty")
	}
	doc := document{Name: name, Updated: time.Now().UTC(), Records: recs}
	_, err := s.coll.ReplaceOne(ctx, bson.M{"_id": name}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("saving family %q: %w", name, err)
	}
	return nil
}

// List returns the stored family names in ascending order.
func (s *Store) List(ctx context.Context) ([]string, error) {
	opts := options.Find().SetProjection(bson.M{"_id": 1}).SetSort(bson.M{"_id": 1})
	cur, err := s.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("listing families: %w", err)
	}
	defer cur.Close(ctx)

	var names []string
	for cur.Next(ctx) {
		var doc struct {
			Name string `bson:"_id"`
		}
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decoding family name: %w", err)
		}
		names = append(names, doc.Name)
	}
	return names, cur.Err()
}

// Delete removes the named family. Deleting a missing family is not an error.
func (s *Store) Delete(ctx context.Context, name string) error {
	if _, err := s.coll.DeleteOne(ctx, bson.M{"_id": name}); err != nil {
		return fmt.Errorf("deleting family %q: %w", name, err)
	}
	return nil
}
