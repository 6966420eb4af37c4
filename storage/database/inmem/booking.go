package inmemdb

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/the-user01/Study-Platform-Server/core/booking"
)

type bookingRepository struct {
	db *DB
}

var _ booking.Repository = (*bookingRepository)(nil)

func NewBookingRepository(db *DB) booking.Repository {
	return &bookingRepository{db: db}
}

func (repo *bookingRepository) InsertBooking(_ context.Context, b booking.BookedSession) (booking.BookedSession, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	for _, existing := range repo.db.bookings {
		if existing.StudentEmail == b.StudentEmail && existing.SessionID == b.SessionID {
			return booking.BookedSession{}, booking.ErrAlreadyBooked
		}
	}
	b.ID = primitive.NewObjectID()
	repo.db.bookings[b.ID] = &b
	return b, nil
}

func (repo *bookingRepository) QueryBookingsByStudent(_ context.Context, studentEmail string) ([]booking.BookedSession, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	bookings := make([]booking.BookedSession, 0)
	for _, b := range repo.db.bookings {
		if b.StudentEmail == studentEmail {
			bookings = append(bookings, *b)
		}
	}
	sortByID(len(bookings), func(i int) primitive.ObjectID { return bookings[i].ID }, func(i, j int) { bookings[i], bookings[j] = bookings[j], bookings[i] })
	return bookings, nil
}

func (repo *bookingRepository) GetBooking(_ context.Context, id primitive.ObjectID, studentEmail string) (booking.BookedSession, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	b, ok := repo.db.bookings[id]
	if !ok || b.StudentEmail != studentEmail {
		return booking.BookedSession{}, booking.ErrNotFound
	}
	return *b, nil
}
