package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/flowboardhq/flowboard/pkg/workflow"
)

// MongoStore persists workflows as documents in a MongoDB collection, keyed
// by workflow ID in the _id field. Suitable for durable deployments where
// workflow documents need to be queryable.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoStore connects to MongoDB and returns a store over the given
// database and collection. The connection is verified with a ping.
func NewMongoStore(ctx context.Context, uri, database, collection string) (*MongoStore, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	return &MongoStore{
		client: client,
		coll:   client.Database(database).Collection(collection),
	}, nil
}

// NewMongoStoreFromClient creates a store from an existing client. The
// caller keeps ownership of the client lifecycle.
func NewMongoStoreFromClient(client *mongo.Client, database, collection string) *MongoStore {
	return &MongoStore{
		client: client,
		coll:   client.Database(database).Collection(collection),
	}
}

// Get retrieves a workflow by ID.
func (s *MongoStore) Get(ctx context.Context, id string) (wf workflow.Workflow, err error) {
	start := time.Now()
	defer func() { observeGet(ctx, "mongo", id, start, err) }()

	err = s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&wf)
	if errors.Is(err, mongo.ErrNoDocuments) {
		err = fmt.Errorf("workflow %s: %w", id, ErrNotFound)
		return workflow.Workflow{}, err
	}
	if err != nil {
		return workflow.Workflow{}, fmt.Errorf("mongo get %s: %w", id, err)
	}
	if err = wf.Validate(); err != nil {
		return workflow.Workflow{}, fmt.Errorf("workflow %s: %w", id, err)
	}
	return wf, nil
}

// Put creates or replaces a workflow via upsert.
func (s *MongoStore) Put(ctx context.Context, wf workflow.Workflow) (err error) {
	start := time.Now()
	defer func() { observePut(ctx, "mongo", wf.ID, 0, start, err) }()

	if wf.ID == "" {
		return fmt.Errorf("invalid workflow id %q", wf.ID)
	}
	_, err = s.coll.ReplaceOne(ctx, bson.M{"_id": wf.ID}, wf, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("mongo put %s: %w", wf.ID, err)
	}
	return nil
}

// Delete removes a workflow; absent IDs are ignored.
func (s *MongoStore) Delete(ctx context.Context, id string) (err error) {
	start := time.Now()
	defer func() { observeDelete(ctx, "mongo", id, start, err) }()

	if _, err = s.coll.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("mongo delete %s: %w", id, err)
	}
	return nil
}

// List returns the IDs of all stored workflows, sorted.
func (s *MongoStore) List(ctx context.Context) ([]string, error) {
	cursor, err := s.coll.Find(ctx, bson.M{}, options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		return nil, fmt.Errorf("mongo list: %w", err)
	}
	defer cursor.Close(ctx)

	var ids []string
	for cursor.Next(ctx) {
		var doc struct {
			ID string `bson:"_id"`
		}
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("mongo list decode: %w", err)
		}
		ids = append(ids, doc.ID)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("mongo list cursor: %w", err)
	}

	sort.Strings(ids)
	return ids, nil
}

// Close disconnects the mongo client.
func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

// Ensure MongoStore implements Store.
var _ Store = (*MongoStore)(nil)
