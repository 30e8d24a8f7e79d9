package repository

import (
	"context"
	"errors"

	"github.com/emberlit/guessparty/internal/domain"
	"github.com/emberlit/guessparty/internal/persistence/db"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// sessionMongoRepository persists the whole Session aggregate as one
// document, keyed by session id. Save replaces the document: last write
// wins, which is all the engine relies on since every write happens under
// the per-session lock.
type sessionMongoRepository struct {
	db *mongo.Database
}

func NewSessionMongoRepository(db *mongo.Database) domain.SessionRepository {
	return &sessionMongoRepository{
		db: db,
	}
}

func (r *sessionMongoRepository) Create(ctx context.Context, session *domain.Session) error {
	collection := r.db.Collection(db.SessionsCollection)

	_, err := collection.InsertOne(ctx, session)
	if mongo.IsDuplicateKeyError(err) {
		return domain.ErrSessionExists
	}
	return err
}

func (r *sessionMongoRepository) GetByID(ctx context.Context, id string) (*domain.Session, error) {
	collection := r.db.Collection(db.SessionsCollection)

	var session domain.Session
	err := collection.FindOne(ctx, bson.M{"_id": id}).Decode(&session)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}

	return &session, nil
}

func (r *sessionMongoRepository) Save(ctx context.Context, session *domain.Session) error {
	collection := r.db.Collection(db.SessionsCollection)

	opts := options.Replace().SetUpsert(true)
	_, err := collection.ReplaceOne(ctx, bson.M{"_id": session.ID}, session, opts)
	return err
}

func (r *sessionMongoRepository) Delete(ctx context.Context, id string) error {
	collection := r.db.Collection(db.SessionsCollection)

	_, err := collection.DeleteOne(ctx, bson.M{"_id": id})
	return err
}
