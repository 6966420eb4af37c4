package note

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/the-user01/Study-Platform-Server/core"
)

// Note is a student's personal note.
type Note struct {
	ID          primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	Email       string             `json:"email" bson:"email"`
	Title       string             `json:"title" bson:"title"`
	Description string             `json:"description" bson:"description"`
	CreatedAt   time.Time          `json:"createdAt" bson:"createdAt"`
}

type NewNote struct {
	Title       string `json:"title" validate:"required,notblank"`
	Description string `json:"description"`
}

func (nn *NewNote) Validate(validate *validator.Validate) error {
	nn.Title = core.CleanString(nn.Title)
	nn.Description = core.CleanString(nn.Description)
	return validate.Struct(nn)
}

type Repository interface {
	InsertNote(ctx context.Context, n Note) (Note, error)
	QueryNotesByEmail(ctx context.Context, email string) ([]Note, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Create(ctx context.Context, email string, nn NewNote) (Note, error) {
	return svc.repo.InsertNote(ctx, Note{
		Email:       core.CleanString(email, true /* lower */),
		Title:       nn.Title,
		Description: nn.Description,
		CreatedAt:   time.Now().UTC(),
	})
}

func (svc *Service) Query(ctx context.Context, email string) ([]Note, error) {
	return svc.repo.QueryNotesByEmail(ctx, core.CleanString(email, true /* lower */))
}
