package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	gerrors "github.com/matzehuels/graphloom/pkg/errors"
	"github.com/matzehuels/graphloom/pkg/graph"
)

// DefaultCollection is the collection graphs are stored in.
const DefaultCollection = "graphs"

// MongoConfig holds MongoDB connection settings.
type MongoConfig struct {
	URI        string
	Database   string
	Collection string // defaults to DefaultCollection
}

// MongoStore stores one document per graph.
//
// The graph travels as its JSON wire form inside the document, so attribute
// values (dates in particular) round-trip exactly as they do through the
// file store. Node and edge counts are stored alongside for inspection.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

type graphDocument struct {
	ID        string    `bson:"_id"`
	Directed  bool      `bson:"directed"`
	Nodes     int       `bson:"node_count"`
	Edges     int       `bson:"edge_count"`
	Graph     string    `bson:"graph"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// NewMongoStore connects to MongoDB and verifies the connection.
func NewMongoStore(ctx context.Context, cfg MongoConfig) (*MongoStore, error) {
	if cfg.URI == "" || cfg.Database == "" {
		return nil, gerrors.New(gerrors.ErrCodeInvalidInput, "mongo storage needs a uri and a database")
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("connect to mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	return NewMongoStoreFromClient(client, cfg.Database, cfg.Collection), nil
}

// NewMongoStoreFromClient wraps an existing client.
func NewMongoStoreFromClient(client *mongo.Client, database, collection string) *MongoStore {
	if collection == "" {
		collection = DefaultCollection
	}
	return &MongoStore{
		client: client,
		coll:   client.Database(database).Collection(collection),
	}
}

func (s *MongoStore) Save(ctx context.Context, id string, p graph.Plain) error {
	if err := gerrors.ValidateGraphID(id); err != nil {
		return err
	}
	data, err := encode(p)
	if err != nil {
		return fmt.Errorf("marshal graph: %w", err)
	}
	doc := graphDocument{
		ID:        id,
		Directed:  p.Directed,
		Nodes:     len(p.Nodes),
		Edges:     len(p.Edges),
		Graph:     string(data),
		UpdatedAt: time.Now().UTC(),
	}
	_, err = s.coll.ReplaceOne(ctx, bson.M{"_id": id}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("save graph %s: %w", id, err)
	}
	return nil
}

func (s *MongoStore) Load(ctx context.Context, id string) (graph.Plain, error) {
	var doc graphDocument
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return graph.Plain{}, ErrNotFound
	}
	if err != nil {
		return graph.Plain{}, fmt.Errorf("load graph %s: %w", id, err)
	}
	p, err := graph.UnmarshalPlain([]byte(doc.Graph))
	if err != nil {
		return graph.Plain{}, fmt.Errorf("parse graph %s: %w", id, err)
	}
	return p, nil
}

func (s *MongoStore) Delete(ctx context.Context, id string) error {
	if _, err := s.coll.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("delete graph %s: %w", id, err)
	}
	return nil
}

func (s *MongoStore) List(ctx context.Context) ([]string, error) {
	opts := options.Find().
		SetProjection(bson.M{"_id": 1}).
		SetSort(bson.D{{Key: "_id", Value: 1}})
	cur, err := s.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list graphs: %w", err)
	}
	defer cur.Close(ctx)

	var ids []string
	for cur.Next(ctx) {
		var doc struct {
			ID string `bson:"_id"`
		}
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("list graphs: %w", err)
		}
		ids = append(ids, doc.ID)
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("list graphs: %w", err)
	}
	return ids, nil
}

func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

var _ Store = (*MongoStore)(nil)
