package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"groundnut_back_end/internal/apperrors"
	"groundnut_back_end/internal/models"
)

const contactsCollection = "contacts"

// MongoContactStore stores contact messages in the "contacts" collection.
// Single-document inserts are atomic, no extra locking is needed.
type MongoContactStore struct {
	coll *mongo.Collection
	now  func() time.Time
}

func NewMongoContactStore(db *mongo.Database) *MongoContactStore {
	return &MongoContactStore{coll: db.Collection(contactsCollection), now: time.Now}
}

func (s *MongoContactStore) Create(ctx context.Context, in models.ContactInput) (models.ContactMessage, error) {
	msg, err := newContact(in, s.now())
	if err != nil {
		return models.ContactMessage{}, err
	}
	if _, err := s.coll.InsertOne(ctx, msg); err != nil {
		return models.ContactMessage{}, apperrors.Persistence("create contact", err)
	}
	return msg, nil
}

func (s *MongoContactStore) List(ctx context.Context) ([]models.ContactMessage, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cursor, err := s.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, apperrors.Persistence("list contacts", err)
	}
	defer cursor.Close(ctx)

	msgs := []models.ContactMessage{}
	if err := cursor.All(ctx, &msgs); err != nil {
		return nil, apperrors.Persistence("list contacts", err)
	}
	return msgs, nil
}
