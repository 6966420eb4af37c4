package inmemdb

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/the-user01/Study-Platform-Server/core/note"
)

type noteRepository struct {
	db *DB
}

var _ note.Repository = (*noteRepository)(nil)

func NewNoteRepository(db *DB) note.Repository {
	return &noteRepository{db: db}
}

func (repo *noteRepository) InsertNote(_ context.Context, n note.Note) (note.Note, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	n.ID = primitive.NewObjectID()
	repo.db.notes[n.ID] = &n
	return n, nil
}

func (repo *noteRepository) QueryNotesByEmail(_ context.Context, email string) ([]note.Note, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	notes := make([]note.Note, 0)
	for _, n := range repo.db.notes {
		if n.Email == email {
			notes = append(notes, *n)
		}
	}
	sortByID(len(notes), func(i int) primitive.ObjectID { return notes[i].ID }, func(i, j int) { notes[i], notes[j] = notes[j], notes[i] })
	return notes, nil
}
