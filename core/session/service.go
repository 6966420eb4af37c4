package session

import (
	"context"
	"fmt"
	"net/mail"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/the-user01/Study-Platform-Server/core"
)

var (
	// errors
	ErrNotFound          = errors.New("session not found")
	ErrInvalidTransition = errors.New("session status does not allow this transition")
	ErrNotOwner          = errors.New("session belongs to another tutor")

	approvedTemplate = "session_approved"
	rejectedTemplate = "session_rejected"
)

func init() {
	core.MustRegisterEmailTemplate(approvedTemplate,
		`Hi {{.TutorName}},

Your session "{{.Title}}" has been approved. Registration fee: {{.RegFee}}.
`, "")
	core.MustRegisterEmailTemplate(rejectedTemplate,
		`Hi {{.TutorName}},

Your session "{{.Title}}" has been rejected.

Reason: {{.RejectionReason}}
Feedback: {{.Feedback}}

You can update it and resubmit it for review.
`, "")
}

type (
	Repository interface {
		InsertSession(ctx context.Context, s Session) (Session, error)
		// GetSession finds a Session by ID. When statuses are given, a Session in another status is ErrNotFound.
		GetSession(ctx context.Context, id primitive.ObjectID, statuses ...Status) (Session, error)
		QuerySessions(ctx context.Context, filter QueryFilter) ([]Session, error)
		// TransitionSession atomically applies t if the stored status is one of t.From.
		// Returns ErrNotFound if no Session has that ID, ErrInvalidTransition if the status did not match.
		TransitionSession(ctx context.Context, id primitive.ObjectID, t Transition) (Session, error)
	}

	Service interface {
		Create(ctx context.Context, tutorEmail string, ns NewSession) (Session, error)
		Query(ctx context.Context, filter QueryFilter) ([]Session, error)
		// GetApproved returns ErrNotFound if the Session does not exist or is not approved.
		GetApproved(ctx context.Context, id primitive.ObjectID) (Session, error)
		Resubmit(ctx context.Context, id primitive.ObjectID, tutorEmail string) (Session, error)
		Approve(ctx context.Context, id primitive.ObjectID, as ApproveSession) (Session, error)
		Reject(ctx context.Context, id primitive.ObjectID, rs RejectSession) (Session, error)
	}

	service struct {
		repo    Repository
		mailSvc core.EmailService
		nowFunc func() time.Time
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository, mailSvc core.EmailService) Service {
	return &service{
		repo:    repo,
		mailSvc: mailSvc,
		nowFunc: time.Now,
	}
}

func (svc *service) now() time.Time { return svc.nowFunc().UTC() }

// Create stores a pending Session owned by tutorEmail.
func (svc *service) Create(ctx context.Context, tutorEmail string, ns NewSession) (Session, error) {
	now := svc.now()
	s := Session{
		Title:             ns.Title,
		Description:       ns.Description,
		TutorName:         ns.TutorName,
		TutorEmail:        core.CleanString(tutorEmail, true /* lower */),
		RegistrationStart: ns.RegistrationStart.UTC(),
		RegistrationEnd:   ns.RegistrationEnd.UTC(),
		ClassStart:        ns.ClassStart.UTC(),
		ClassEnd:          ns.ClassEnd.UTC(),
		Duration:          ns.Duration,
		Status:            StatusPending,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	return svc.repo.InsertSession(ctx, s)
}

func (svc *service) Query(ctx context.Context, filter QueryFilter) ([]Session, error) {
	filter.Clean()
	if filter.Status != "" && !filter.Status.IsValid() {
		return nil, errors.Errorf("unknown session status %q", filter.Status)
	}
	return svc.repo.QuerySessions(ctx, filter)
}

func (svc *service) GetApproved(ctx context.Context, id primitive.ObjectID) (Session, error) {
	return svc.repo.GetSession(ctx, id, StatusApproved)
}

// Resubmit puts a tutor's own pending or rejected Session (back) in review.
// Rejection metadata is kept until the next moderation overwrites it.
func (svc *service) Resubmit(ctx context.Context, id primitive.ObjectID, tutorEmail string) (Session, error) {
	s, err := svc.repo.GetSession(ctx, id)
	if err != nil {
		return Session{}, errors.Wrap(err, "finding session")
	}
	if s.TutorEmail != core.CleanString(tutorEmail, true /* lower */) {
		return Session{}, ErrNotOwner
	}
	return svc.transition(ctx, id, Transition{To: StatusPending})
}

// Approve moves a pending Session to approved and attaches its registration fee.
func (svc *service) Approve(ctx context.Context, id primitive.ObjectID, as ApproveSession) (Session, error) {
	if as.RegFee == nil || *as.RegFee < 0 {
		return Session{}, core.NewValidationError(nil, core.FieldError{Field: "regFee", Error: "must be 0 or greater"})
	}
	fee := *as.RegFee
	s, err := svc.transition(ctx, id, Transition{To: StatusApproved, RegFee: &fee})
	if err != nil {
		return Session{}, err
	}

	svc.notifyTutor(s, approvedTemplate, "Your session has been approved", struct {
		TutorName, Title string
		RegFee           string
	}{s.TutorName, s.Title, formatFee(fee)})
	return s, nil
}

// Reject moves a pending Session to rejected with the admin's reason and feedback.
func (svc *service) Reject(ctx context.Context, id primitive.ObjectID, rs RejectSession) (Session, error) {
	reason, feedback := rs.RejectionReason, rs.Feedback
	s, err := svc.transition(ctx, id, Transition{To: StatusRejected, RejectionReason: &reason, Feedback: &feedback})
	if err != nil {
		return Session{}, err
	}

	svc.notifyTutor(s, rejectedTemplate, "Your session has been rejected", struct {
		TutorName, Title, RejectionReason, Feedback string
	}{s.TutorName, s.Title, reason, feedback})
	return s, nil
}

func (svc *service) transition(ctx context.Context, id primitive.ObjectID, t Transition) (Session, error) {
	t.From = allowedSources[t.To]
	t.At = svc.now()
	s, err := svc.repo.TransitionSession(ctx, id, t)
	if err != nil {
		return Session{}, errors.Wrapf(err, "moving session to %s", t.To)
	}
	return s, nil
}

func (svc *service) notifyTutor(s Session, tmpl, subject string, data interface{}) {
	if svc.mailSvc == nil || s.TutorEmail == "" {
		return
	}
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:           []mail.Address{{Name: s.TutorName, Address: s.TutorEmail}},
		Subject:      subject,
		TemplateName: tmpl,
		TemplateData: data,
	})
}

func formatFee(fee float64) string {
	if fee == 0 {
		return "free"
	}
	return fmt.Sprintf("%.2f", fee)
}
