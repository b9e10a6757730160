package mongo

import (
	"context"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/treeprint/pkg/errors"
	"github.com/matzehuels/treeprint/pkg/family"
)

// mongo.Connect does not dial, so these tests need no server.
func lazyDatabase(t *testing.T) *mongo.Database {
	t.Helper()
	client, err := mongo.Connect(context.Background(), options.Client().ApplyURI("mongodb://127.0.0.1:1"))
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	t.Cleanup(func() { _ = client.Disconnect(context.Background()) })
	return client.Database("treeprint_test")
}

func TestNewCollectionName(t *testing.T) {
	db := lazyDatabase(t)

	tests := []struct {
		name    string
		coll    string
		want    string
		wantErr bool
	}{
		{"default", "", DefaultCollection, false},
		{"custom", "trees_v2", "trees_v2", false},
		{"injection", "x; drop", "", true},
		{"leading digit", "1trees", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := New(db, tt.coll)
			if tt.wantErr {
				if !errors.Is(err, errors.ErrCodeInvalidInput) {
					t.Errorf("error = %v, want INVALID_INPUT", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("New: %v", err)
			}
			if s.coll.Name() != tt.want {
				t.Errorf("collection = %q, want %q", s.coll.Name(), tt.want)
			}
		})
	}
}

func TestDocumentBSON(t *testing.T) {
	doc := document{Name: "sample", Records: family.Sample()}
	data, err := bson.Marshal(doc)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var raw bson.M
	if err := bson.Unmarshal(data, &raw); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if raw["_id"] != "sample" {
		t.Errorf("_id = %v", raw["_id"])
	}
	if _, ok := raw["persons"]; !ok {
		t.Error("records are not inlined")
	}

	var back document
	if err := bson.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if len(back.Persons) != 10 || back.Persons[1].Sex != family.Female || *back.Persons[1].Parent != 1 {
		t.Errorf("persons = %+v", back.Persons[:2])
	}
	if back.Relationships[1].Till != "2015-05-18" {
		t.Errorf("till = %q", back.Relationships[1].Till)
	}
}

func TestSaveRequiresName(t *testing.T) {
	s, err := New(lazyDatabase(t), "")
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Save(context.Background(), "", family.Sample()); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Save = %v, want INVALID_INPUT", err)
	}
}
