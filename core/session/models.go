package session

import (
	"time"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/the-user01/Study-Platform-Server/core"
)

// Status is the moderation state of a Session.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

var AllStatuses = []Status{StatusPending, StatusApproved, StatusRejected}

func (s Status) IsValid() bool {
	for _, status := range AllStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// allowedSources maps a target Status to the statuses it may be reached from.
var allowedSources = map[Status][]Status{
	StatusPending:  {StatusPending, StatusRejected},
	StatusApproved: {StatusPending},
	StatusRejected: {StatusPending},
}

// CanTransition reports whether a Session in status `from` may move to `to`.
func CanTransition(from, to Status) bool {
	for _, src := range allowedSources[to] {
		if src == from {
			return true
		}
	}
	return false
}

// Session is a tutoring offering moving through moderation.
type Session struct {
	ID                primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	Title             string             `json:"title" bson:"title"`
	Description       string             `json:"description" bson:"description"`
	TutorName         string             `json:"tutorName" bson:"tutorName"`
	TutorEmail        string             `json:"tutorEmail" bson:"tutorEmail"`
	RegistrationStart time.Time          `json:"registrationStart" bson:"registrationStart"`
	RegistrationEnd   time.Time          `json:"registrationEnd" bson:"registrationEnd"`
	ClassStart        time.Time          `json:"classStart" bson:"classStart"`
	ClassEnd          time.Time          `json:"classEnd" bson:"classEnd"`
	Duration          string             `json:"duration" bson:"duration"`
	Status            Status             `json:"status" bson:"status"`
	RegFee            *float64           `json:"regFee,omitempty" bson:"regFee,omitempty"`
	RejectionReason   *string            `json:"rejectionReason,omitempty" bson:"rejectionReason,omitempty"`
	Feedback          *string            `json:"feedback,omitempty" bson:"feedback,omitempty"`
	CreatedAt         time.Time          `json:"createdAt" bson:"createdAt"` // UTC
	UpdatedAt         time.Time          `json:"updatedAt" bson:"updatedAt"` // UTC
}

// NewSession contains what a Teacher may supply when creating a Session.
// Status and moderation fields are never taken from the client.
type NewSession struct {
	Title             string    `json:"title" validate:"required,notblank"`
	Description       string    `json:"description"`
	TutorName         string    `json:"tutorName"`
	RegistrationStart time.Time `json:"registrationStart"`
	RegistrationEnd   time.Time `json:"registrationEnd" validate:"omitempty,gtefield=RegistrationStart"`
	ClassStart        time.Time `json:"classStart"`
	ClassEnd          time.Time `json:"classEnd" validate:"omitempty,gtefield=ClassStart"`
	Duration          string    `json:"duration"`
}

func (ns *NewSession) Validate(validate *validator.Validate) error {
	ns.Title = core.CleanString(ns.Title)
	ns.Description = core.CleanString(ns.Description)
	ns.TutorName = core.CleanString(ns.TutorName)
	ns.Duration = core.CleanString(ns.Duration)
	return validate.Struct(ns)
}

// ApproveSession is the body of an approval.
type ApproveSession struct {
	RegFee *float64 `json:"regFee" validate:"required,gte=0"`
}

func (as *ApproveSession) Validate(validate *validator.Validate) error {
	return validate.Struct(as)
}

// RejectSession is the body of a rejection.
type RejectSession struct {
	RejectionReason string `json:"rejectionReason" validate:"required,notblank"`
	Feedback        string `json:"feedback" validate:"required,notblank"`
}

func (rs *RejectSession) Validate(validate *validator.Validate) error {
	rs.RejectionReason = core.CleanString(rs.RejectionReason)
	rs.Feedback = core.CleanString(rs.Feedback)
	return validate.Struct(rs)
}

// Transition is a status write plus the moderation metadata it sets.
// Nil metadata fields are left untouched in the store.
type Transition struct {
	To              Status
	From            []Status
	RegFee          *float64
	RejectionReason *string
	Feedback        *string
	At              time.Time
}

type QueryFilter struct {
	Status     Status `query:"-"`
	TutorEmail string `query:"tutorEmail"`
}

func (qf *QueryFilter) Clean() {
	qf.TutorEmail = core.CleanString(qf.TutorEmail, true /* lower */)
}
