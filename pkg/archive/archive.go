// Package archive records generation metadata in MongoDB.
//
// The archive is optional: when it is not configured the service simply
// skips recording. Only metadata is stored, never pixel data, so a record
// is a few hundred bytes regardless of canvas size.
package archive

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mapforge/mapforge/pkg/errors"
)

const collectionName = "generations"

// Record is one archived generation.
type Record struct {
	ID         string    `bson:"_id"`
	Mode       string    `bson:"mode"`
	Width      int       `bson:"width"`
	Height     int       `bson:"height"`
	Seed       int64     `bson:"seed"`
	Batches    int       `bson:"batches"`
	Placements int       `bson:"placements"`
	DurationMS int64     `bson:"duration_ms"`
	CreatedAt  time.Time `bson:"created_at"`
}

// Store wraps the MongoDB collection holding generation records.
type Store struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// Connect dials MongoDB and returns a Store bound to the given database.
func Connect(ctx context.Context, uri, database string) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeArchive, err, "connect mongodb")
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, errors.Wrap(errors.ErrCodeArchive, err, "ping mongodb")
	}
	return &Store{
		client: client,
		coll:   client.Database(database).Collection(collectionName),
	}, nil
}

// Insert stores one record.
func (s *Store) Insert(ctx context.Context, rec Record) error {
	if _, err := s.coll.InsertOne(ctx, rec); err != nil {
		return errors.Wrap(errors.ErrCodeArchive, err, "insert generation record")
	}
	return nil
}

// Recent returns the latest records, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 20
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := s.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeArchive, err, "query recent generations")
	}
	defer cursor.Close(ctx)

	var records []Record
	if err := cursor.All(ctx, &records); err != nil {
		return nil, errors.Wrap(errors.ErrCodeArchive, err, "decode generation records")
	}
	return records, nil
}

// Close disconnects from MongoDB.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
