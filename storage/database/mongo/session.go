package mongorepos

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/the-user01/Study-Platform-Server/core/session"
	"github.com/the-user01/Study-Platform-Server/storage/database"
)

type sessionRepository struct {
	coll *mongo.Collection
}

var _ session.Repository = (*sessionRepository)(nil)

func NewSessionRepository(db *mongo.Database) session.Repository {
	return &sessionRepository{coll: db.Collection(database.SessionsCollection)}
}

func (repo *sessionRepository) InsertSession(ctx context.Context, s session.Session) (session.Session, error) {
	s.ID = primitive.NewObjectID()
	if _, err := repo.coll.InsertOne(ctx, s); err != nil {
		return session.Session{}, errors.Wrap(err, "inserting session")
	}
	return s, nil
}

func (repo *sessionRepository) GetSession(ctx context.Context, id primitive.ObjectID, statuses ...session.Status) (session.Session, error) {
	query := bson.M{"_id": id}
	if len(statuses) > 0 {
		query["status"] = bson.M{"$in": statuses}
	}

	var s session.Session
	if err := repo.coll.FindOne(ctx, query).Decode(&s); err != nil {
		if err == mongo.ErrNoDocuments {
			return session.Session{}, session.ErrNotFound
		}
		return session.Session{}, errors.Wrap(err, "finding session")
	}
	return s, nil
}

func (repo *sessionRepository) QuerySessions(ctx context.Context, filter session.QueryFilter) ([]session.Session, error) {
	query := bson.M{}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if filter.TutorEmail != "" {
		query["tutorEmail"] = filter.TutorEmail
	}

	sessions := make([]session.Session, 0)
	if err := findAll(ctx, repo.coll, query, &sessions); err != nil {
		return nil, errors.Wrap(err, "querying sessions")
	}
	return sessions, nil
}

// TransitionSession is a single conditional update on {_id, status ∈ t.From}; the document store
// guarantees its atomicity. A miss is disambiguated afterwards.
func (repo *sessionRepository) TransitionSession(ctx context.Context, id primitive.ObjectID, t session.Transition) (session.Session, error) {
	if len(t.From) == 0 {
		return session.Session{}, session.ErrInvalidTransition
	}

	set := bson.M{"status": t.To, "updatedAt": t.At}
	if t.RegFee != nil {
		set["regFee"] = *t.RegFee
	}
	if t.RejectionReason != nil {
		set["rejectionReason"] = *t.RejectionReason
	}
	if t.Feedback != nil {
		set["feedback"] = *t.Feedback
	}

	var s session.Session
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	filter := bson.M{"_id": id, "status": bson.M{"$in": t.From}}
	err := repo.coll.FindOneAndUpdate(ctx, filter, bson.M{"$set": set}, opts).Decode(&s)
	if err == nil {
		return s, nil
	}
	if err != mongo.ErrNoDocuments {
		return session.Session{}, errors.Wrap(err, "updating session status")
	}

	n, err := repo.coll.CountDocuments(ctx, bson.M{"_id": id})
	if err != nil {
		return session.Session{}, errors.Wrap(err, "counting sessions")
	}
	if n == 0 {
		return session.Session{}, session.ErrNotFound
	}
	return session.Session{}, session.ErrInvalidTransition
}
