package database

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/the-user01/Study-Platform-Server/core"
)

// Collection names
const (
	UsersCollection     = "users"
	SessionsCollection  = "sessions"
	MaterialsCollection = "materials"
	NotesCollection     = "notes"
	BookingsCollection  = "bookedSessions"
)

var pingAttempts = 30

// Open connects to the document store and waits for it to be ready.
func Open(ctx context.Context, conf *core.Config) (*mongo.Client, error) {
	opts := options.Client().
		ApplyURI(conf.Database.URI).
		SetAppName(conf.AppName).
		SetServerSelectionTimeout(conf.Database.Timeout)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, errors.Wrap(err, "connecting to database")
	}
	if err = ping(ctx, client); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, errors.Wrap(err, "pinging database")
	}
	return client, nil
}

// Database returns the application database of client.
func Database(client *mongo.Client, conf *core.Config) *mongo.Database {
	return client.Database(conf.Database.Name)
}

// ping waits for the database to be ready. Waits 100ms longer between each attempt.
func ping(ctx context.Context, client *mongo.Client) error {
	var err error
	for attempts := 1; attempts <= pingAttempts; attempts++ {
		err = client.Ping(ctx, readpref.Primary())
		if err == nil {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(attempts) * 100 * time.Millisecond):
		}
	}

	if err != nil {
		return errors.Wrap(err, "DB ping timeout")
	}
	return nil
}

// EnsureIndexes creates the indexes the repositories rely on. It is idempotent.
// The unique indexes are what make user and booking inserts atomic "insert if absent".
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	indexes := map[string][]mongo.IndexModel{
		UsersCollection: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true).SetName("email_unique")},
			{Keys: bson.D{{Key: "role", Value: 1}}, Options: options.Index().SetName("role")},
		},
		SessionsCollection: {
			{Keys: bson.D{{Key: "status", Value: 1}, {Key: "tutorEmail", Value: 1}}, Options: options.Index().SetName("status_tutor")},
		},
		MaterialsCollection: {
			{Keys: bson.D{{Key: "sessionId", Value: 1}}, Options: options.Index().SetName("session")},
		},
		NotesCollection: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetName("email")},
		},
		BookingsCollection: {
			{
				Keys:    bson.D{{Key: "studentEmail", Value: 1}, {Key: "sessionId", Value: 1}},
				Options: options.Index().SetUnique(true).SetName("student_session_unique"),
			},
		},
	}

	for coll, models := range indexes {
		if _, err := db.Collection(coll).Indexes().CreateMany(ctx, models); err != nil {
			return errors.Wrapf(err, "creating %s indexes", coll)
		}
	}
	return nil
}
