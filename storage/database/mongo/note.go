package mongorepos

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/the-user01/Study-Platform-Server/core/note"
	"github.com/the-user01/Study-Platform-Server/storage/database"
)

type noteRepository struct {
	coll *mongo.Collection
}

var _ note.Repository = (*noteRepository)(nil)

func NewNoteRepository(db *mongo.Database) note.Repository {
	return &noteRepository{coll: db.Collection(database.NotesCollection)}
}

func (repo *noteRepository) InsertNote(ctx context.Context, n note.Note) (note.Note, error) {
	n.ID = primitive.NewObjectID()
	if _, err := repo.coll.InsertOne(ctx, n); err != nil {
		return note.Note{}, errors.Wrap(err, "inserting note")
	}
	return n, nil
}

func (repo *noteRepository) QueryNotesByEmail(ctx context.Context, email string) ([]note.Note, error) {
	notes := make([]note.Note, 0)
	if err := findAll(ctx, repo.coll, bson.M{"email": email}, &notes); err != nil {
		return nil, errors.Wrap(err, "querying notes")
	}
	return notes, nil
}
