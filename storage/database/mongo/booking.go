package mongorepos

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/the-user01/Study-Platform-Server/core/booking"
	"github.com/the-user01/Study-Platform-Server/storage/database"
)

type bookingRepository struct {
	coll *mongo.Collection
}

var _ booking.Repository = (*bookingRepository)(nil)

func NewBookingRepository(db *mongo.Database) booking.Repository {
	return &bookingRepository{coll: db.Collection(database.BookingsCollection)}
}

// InsertBooking relies on the unique (studentEmail, sessionId) index.
func (repo *bookingRepository) InsertBooking(ctx context.Context, b booking.BookedSession) (booking.BookedSession, error) {
	b.ID = primitive.NewObjectID()
	if _, err := repo.coll.InsertOne(ctx, b); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return booking.BookedSession{}, booking.ErrAlreadyBooked
		}
		return booking.BookedSession{}, errors.Wrap(err, "inserting booking")
	}
	return b, nil
}

func (repo *bookingRepository) QueryBookingsByStudent(ctx context.Context, studentEmail string) ([]booking.BookedSession, error) {
	bookings := make([]booking.BookedSession, 0)
	if err := findAll(ctx, repo.coll, bson.M{"studentEmail": studentEmail}, &bookings); err != nil {
		return nil, errors.Wrap(err, "querying bookings")
	}
	return bookings, nil
}

func (repo *bookingRepository) GetBooking(ctx context.Context, id primitive.ObjectID, studentEmail string) (booking.BookedSession, error) {
	var b booking.BookedSession
	err := repo.coll.FindOne(ctx, bson.M{"_id": id, "studentEmail": studentEmail}).Decode(&b)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return booking.BookedSession{}, booking.ErrNotFound
		}
		return booking.BookedSession{}, errors.Wrap(err, "finding booking")
	}
	return b, nil
}
