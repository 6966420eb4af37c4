package mongorepos

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/the-user01/Study-Platform-Server/core/material"
	"github.com/the-user01/Study-Platform-Server/storage/database"
)

type materialRepository struct {
	coll *mongo.Collection
}

var _ material.Repository = (*materialRepository)(nil)

func NewMaterialRepository(db *mongo.Database) material.Repository {
	return &materialRepository{coll: db.Collection(database.MaterialsCollection)}
}

func (repo *materialRepository) InsertMaterial(ctx context.Context, m material.Material) (material.Material, error) {
	m.ID = primitive.NewObjectID()
	if _, err := repo.coll.InsertOne(ctx, m); err != nil {
		return material.Material{}, errors.Wrap(err, "inserting material")
	}
	return m, nil
}

func (repo *materialRepository) QueryMaterials(ctx context.Context, sessionID primitive.ObjectID, tutorEmail string) ([]material.Material, error) {
	query := bson.M{}
	if !sessionID.IsZero() {
		query["sessionId"] = sessionID
	}
	if tutorEmail != "" {
		query["tutorEmail"] = tutorEmail
	}

	materials := make([]material.Material, 0)
	if err := findAll(ctx, repo.coll, query, &materials); err != nil {
		return nil, errors.Wrap(err, "querying materials")
	}
	return materials, nil
}
