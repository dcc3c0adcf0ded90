package persistence

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/AnEntrypoint/flowkit/pkg/api"
)

// MongoFlowStore is a FlowStore backed by MongoDB.
type MongoFlowStore struct {
	coll *mongo.Collection
}

var _ FlowStore = (*MongoFlowStore)(nil)

type mongoFlowDoc struct {
	ID      string `bson:"_id"`
	Initial string `bson:"initial"`
	States  []byte `bson:"states"`
}

// NewMongoFlowStore creates a Mongo-backed flow store.
// dbName defaults to "flowkit" if empty, collName defaults to "flows".
func NewMongoFlowStore(client *mongo.Client, dbName, collName string) *MongoFlowStore {
	if dbName == "" {
		dbName = "flowkit"
	}
	if collName == "" {
		collName = "flows"
	}

	return &MongoFlowStore{
		coll: client.Database(dbName).Collection(collName),
	}
}

func (s *MongoFlowStore) GetFlow(ctx context.Context, taskID string) (*api.Flow, error) {
	var doc mongoFlowDoc
	err := s.coll.FindOne(ctx, bson.M{"_id": taskID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrFlowNotFound
		}
		return nil, err
	}

	states, err := decodeStates(doc.States)
	if err != nil {
		return nil, err
	}

	return &api.Flow{
		ID:      doc.ID,
		Initial: doc.Initial,
		States:  states,
	}, nil
}

func (s *MongoFlowStore) PutFlow(ctx context.Context, f *api.Flow) error {
	states, err := encodeStates(f.States)
	if err != nil {
		return err
	}

	doc := mongoFlowDoc{
		ID:      f.ID,
		Initial: f.Initial,
		States:  states,
	}

	_, err = s.coll.ReplaceOne(ctx,
		bson.M{"_id": f.ID},
		doc,
		options.Replace().SetUpsert(true),
	)
	return err
}
