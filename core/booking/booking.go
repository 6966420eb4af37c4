package booking

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/the-user01/Study-Platform-Server/core"
	"github.com/the-user01/Study-Platform-Server/core/session"
)

var (
	// errors
	ErrNotFound      = errors.New("booking not found")
	ErrAlreadyBooked = errors.New("session already booked")
	errNotBookable   = errors.New("session is not open for booking")
)

// BookedSession is a student's seat in an approved Session.
type BookedSession struct {
	ID           primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	SessionID    primitive.ObjectID `json:"sessionId" bson:"sessionId"`
	StudentEmail string             `json:"studentEmail" bson:"studentEmail"`
	TutorEmail   string             `json:"tutorEmail" bson:"tutorEmail"`
	Title        string             `json:"title" bson:"title"`
	RegFee       float64            `json:"regFee" bson:"regFee"`
	BookedAt     time.Time          `json:"bookedAt" bson:"bookedAt"`
}

type NewBooking struct {
	SessionID primitive.ObjectID `json:"sessionId" validate:"required"`
}

func (nb *NewBooking) Validate(validate *validator.Validate) error {
	return validate.Struct(nb)
}

type (
	Repository interface {
		// InsertBooking fails with ErrAlreadyBooked if the student already booked that session.
		InsertBooking(ctx context.Context, b BookedSession) (BookedSession, error)
		QueryBookingsByStudent(ctx context.Context, studentEmail string) ([]BookedSession, error)
		GetBooking(ctx context.Context, id primitive.ObjectID, studentEmail string) (BookedSession, error)
	}

	// SessionFinder is the part of session.Service a booking needs.
	SessionFinder interface {
		GetApproved(ctx context.Context, id primitive.ObjectID) (session.Session, error)
	}
)

type Service struct {
	repo     Repository
	sessions SessionFinder
}

func NewService(repo Repository, sessions SessionFinder) *Service {
	return &Service{repo: repo, sessions: sessions}
}

// Create books an approved session for the student, copying its title, tutor and fee.
func (svc *Service) Create(ctx context.Context, studentEmail string, nb NewBooking) (BookedSession, error) {
	s, err := svc.sessions.GetApproved(ctx, nb.SessionID)
	if err != nil {
		if errors.Cause(err) == session.ErrNotFound {
			return BookedSession{}, core.NewValidationError(errNotBookable,
				core.FieldError{Field: "sessionId", Error: errNotBookable.Error()})
		}
		return BookedSession{}, errors.Wrap(err, "finding approved session")
	}

	b := BookedSession{
		SessionID:    s.ID,
		StudentEmail: core.CleanString(studentEmail, true /* lower */),
		TutorEmail:   s.TutorEmail,
		Title:        s.Title,
		BookedAt:     time.Now().UTC(),
	}
	if s.RegFee != nil {
		b.RegFee = *s.RegFee
	}
	return svc.repo.InsertBooking(ctx, b)
}

func (svc *Service) Query(ctx context.Context, studentEmail string) ([]BookedSession, error) {
	return svc.repo.QueryBookingsByStudent(ctx, core.CleanString(studentEmail, true /* lower */))
}

// Get returns ErrNotFound for unknown IDs and for bookings of other students.
func (svc *Service) Get(ctx context.Context, studentEmail string, id primitive.ObjectID) (BookedSession, error) {
	return svc.repo.GetBooking(ctx, id, core.CleanString(studentEmail, true /* lower */))
}
