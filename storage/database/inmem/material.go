package inmemdb

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/the-user01/Study-Platform-Server/core/material"
)

type materialRepository struct {
	db *DB
}

var _ material.Repository = (*materialRepository)(nil)

func NewMaterialRepository(db *DB) material.Repository {
	return &materialRepository{db: db}
}

func (repo *materialRepository) InsertMaterial(_ context.Context, m material.Material) (material.Material, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	m.ID = primitive.NewObjectID()
	repo.db.materials[m.ID] = &m
	return m, nil
}

func (repo *materialRepository) QueryMaterials(_ context.Context, sessionID primitive.ObjectID, tutorEmail string) ([]material.Material, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	materials := make([]material.Material, 0, len(repo.db.materials))
	for _, m := range repo.db.materials {
		if !sessionID.IsZero() && m.SessionID != sessionID {
			continue
		}
		if tutorEmail != "" && m.TutorEmail != tutorEmail {
			continue
		}
		materials = append(materials, *m)
	}
	sortByID(len(materials), func(i int) primitive.ObjectID { return materials[i].ID }, func(i, j int) { materials[i], materials[j] = materials[j], materials[i] })
	return materials, nil
}
