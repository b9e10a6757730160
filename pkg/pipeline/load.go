package pipeline

import (
	"context"
	"fmt"
	"os"

	"github.com/matzehuels/treeprint/pkg/errors"
	"github.com/matzehuels/treeprint/pkg/family"
	"github.com/matzehuels/treeprint/pkg/source"
	"github.com/matzehuels/treeprint/pkg/source/mongo"
	"github.com/matzehuels/treeprint/pkg/source/sqlite"
)

// Load reads the family records named by opts.
func Load(ctx context.Context, opts Options) (family.Records, error) {
	if err := opts.ValidateForLoad(); err != nil {
		return family.Records{}, err
	}

	switch {
	case opts.Records != nil:
		return *opts.Records, nil
	case opts.SQLite != "":
		return loadSQLite(ctx, opts.SQLite, opts.SQLitePrefix)
	case opts.MongoURI != "":
		return loadMongo(ctx, opts)
	}
	return source.ReadFile(opts.Source)
}

// loadSQLite reads records from a SQLite database file.
func loadSQLite(ctx context.Context, path, prefix string) (family.Records, error) {
	if _, err := os.Stat(path); err != nil {
		return family.Records{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
	}
	db, err := sqlite.Open(path)
	if err != nil {
		return family.Records{}, err
	}
	defer db.Close()

	store, err := sqlite.New(db, prefix)
	if err != nil {
		return family.Records{}, err
	}
	if err := store.Migrate(ctx); err != nil {
		return family.Records{}, err
	}
	return store.Load(ctx)
}

// loadMongo reads one family document from MongoDB.
func loadMongo(ctx context.Context, opts Options) (family.Records, error) {
	client, err := mongo.Connect(ctx, opts.MongoURI)
	if err != nil {
		return family.Records{}, err
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	dbName := opts.MongoDatabase
	if dbName == "" {
		dbName = mongo.DefaultDatabase
	}
	store, err := mongo.New(client.Database(dbName), opts.MongoCollection)
	if err != nil {
		return family.Records{}, err
	}
	recs, err := store.Load(ctx, opts.Family)
	if err != nil {
		return family.Records{}, fmt.Errorf("load family %q: %w", opts.Family, err)
	}
	return recs, nil
}
