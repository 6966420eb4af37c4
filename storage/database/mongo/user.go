package mongorepos

import (
	"context"
	"regexp"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/the-user01/Study-Platform-Server/core/user"
	"github.com/the-user01/Study-Platform-Server/storage/database"
)

// naturalOrder sorts on _id, i.e. insertion order.
var naturalOrder = bson.D{{Key: "_id", Value: 1}}

type userRepository struct {
	coll *mongo.Collection
}

var _ user.Repository = (*userRepository)(nil)

func NewUserRepository(db *mongo.Database) user.Repository {
	return &userRepository{coll: db.Collection(database.UsersCollection)}
}

// InsertUser relies on the unique email index: a duplicate key means the user already exists.
func (repo *userRepository) InsertUser(ctx context.Context, usr user.User) (user.User, error) {
	usr.ID = primitive.NewObjectID()
	if _, err := repo.coll.InsertOne(ctx, usr); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return user.User{}, user.ErrAlreadyExists
		}
		return user.User{}, errors.Wrap(err, "inserting user")
	}
	return usr, nil
}

func (repo *userRepository) GetUserByEmail(ctx context.Context, email string) (user.User, error) {
	var usr user.User
	if err := repo.coll.FindOne(ctx, bson.M{"email": email}).Decode(&usr); err != nil {
		if err == mongo.ErrNoDocuments {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, errors.Wrap(err, "finding user")
	}
	return usr, nil
}

func (repo *userRepository) QueryUsers(ctx context.Context, filter user.QueryFilter) ([]user.User, error) {
	query := bson.M{}
	if filter.Role != "" {
		query["role"] = filter.Role
	}
	if filter.Search != "" {
		rx := primitive.Regex{Pattern: regexp.QuoteMeta(filter.Search), Options: "i"}
		query["$or"] = bson.A{bson.M{"name": rx}, bson.M{"email": rx}}
	}

	users := make([]user.User, 0)
	if err := findAll(ctx, repo.coll, query, &users); err != nil {
		return nil, errors.Wrap(err, "querying users")
	}
	return users, nil
}

func (repo *userRepository) UpdateUserRole(ctx context.Context, email string, role user.Role) (user.User, error) {
	var usr user.User
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err := repo.coll.FindOneAndUpdate(ctx, bson.M{"email": email}, bson.M{"$set": bson.M{"role": role}}, opts).Decode(&usr)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, errors.Wrap(err, "updating user role")
	}
	return usr, nil
}

func (repo *userRepository) DeleteUserByID(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := repo.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, errors.Wrap(err, "deleting user")
	}
	return res.DeletedCount, nil
}

// findAll decodes every document matching query, in natural order, into results (a pointer to a slice).
func findAll(ctx context.Context, coll *mongo.Collection, query interface{}, results interface{}) error {
	cur, err := coll.Find(ctx, query, options.Find().SetSort(naturalOrder))
	if err != nil {
		return err
	}
	return cur.All(ctx, results)
}
