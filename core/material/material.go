package material

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/the-user01/Study-Platform-Server/core"
)

// Material is a study resource a tutor attaches to one of their sessions.
type Material struct {
	ID         primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	Title      string             `json:"title" bson:"title"`
	SessionID  primitive.ObjectID `json:"sessionId" bson:"sessionId"`
	TutorEmail string             `json:"tutorEmail" bson:"tutorEmail"`
	ImageURL   string             `json:"imageUrl,omitempty" bson:"imageUrl,omitempty"`
	Link       string             `json:"link,omitempty" bson:"link,omitempty"`
	CreatedAt  time.Time          `json:"createdAt" bson:"createdAt"`
}

type NewMaterial struct {
	Title     string             `json:"title" validate:"required,notblank"`
	SessionID primitive.ObjectID `json:"sessionId" validate:"required"`
	ImageURL  string             `json:"imageUrl" validate:"omitempty,url"`
	Link      string             `json:"link" validate:"omitempty,url"`
}

func (nm *NewMaterial) Validate(validate *validator.Validate) error {
	nm.Title = core.CleanString(nm.Title)
	nm.ImageURL = core.CleanString(nm.ImageURL)
	nm.Link = core.CleanString(nm.Link)
	return validate.Struct(nm)
}

type QueryFilter struct {
	SessionID  string `query:"sessionId"`
	TutorEmail string `query:"tutorEmail"`
}

type Repository interface {
	InsertMaterial(ctx context.Context, m Material) (Material, error)
	// QueryMaterials matches on the non-zero arguments.
	QueryMaterials(ctx context.Context, sessionID primitive.ObjectID, tutorEmail string) ([]Material, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Create(ctx context.Context, tutorEmail string, nm NewMaterial) (Material, error) {
	return svc.repo.InsertMaterial(ctx, Material{
		Title:      nm.Title,
		SessionID:  nm.SessionID,
		TutorEmail: core.CleanString(tutorEmail, true /* lower */),
		ImageURL:   nm.ImageURL,
		Link:       nm.Link,
		CreatedAt:  time.Now().UTC(),
	})
}

func (svc *Service) Query(ctx context.Context, filter QueryFilter) ([]Material, error) {
	var sessionID primitive.ObjectID
	if filter.SessionID != "" {
		id, err := core.ParseID(filter.SessionID, "sessionId")
		if err != nil {
			return nil, err
		}
		sessionID = id
	}
	return svc.repo.QueryMaterials(ctx, sessionID, core.CleanString(filter.TutorEmail, true /* lower */))
}
