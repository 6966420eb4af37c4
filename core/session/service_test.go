package session_test

import (
	"context"
	"sync"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap/zaptest"

	"github.com/the-user01/Study-Platform-Server/core"
	"github.com/the-user01/Study-Platform-Server/core/session"
	emailsvc "github.com/the-user01/Study-Platform-Server/services/email"
	logsvc "github.com/the-user01/Study-Platform-Server/services/logger"
	inmemdb "github.com/the-user01/Study-Platform-Server/storage/database/inmem"
	"github.com/the-user01/Study-Platform-Server/tests"
)

func setup(t *testing.T) (session.Service, session.Repository, *emailsvc.ConsoleService) {
	conf := testutil.NewConfig()
	mailer := emailsvc.NewConsoleServiceMock(conf, logsvc.NewZapLoggerFrom(zaptest.NewLogger(t)))
	repo := inmemdb.NewSessionRepository(inmemdb.Open())
	return session.NewService(repo, mailer), repo, mailer
}

func fee(f float64) *float64 { return &f }

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to session.Status
		want     bool
	}{
		{session.StatusPending, session.StatusApproved, true},
		{session.StatusPending, session.StatusRejected, true},
		{session.StatusPending, session.StatusPending, true},
		{session.StatusRejected, session.StatusPending, true},
		{session.StatusRejected, session.StatusApproved, false},
		{session.StatusRejected, session.StatusRejected, false},
		{session.StatusApproved, session.StatusPending, false},
		{session.StatusApproved, session.StatusRejected, false},
		{session.StatusApproved, session.StatusApproved, false},
		{"unknown", session.StatusApproved, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, session.CanTransition(tt.from, tt.to))
		})
	}
}

func TestService_Create(t *testing.T) {
	svc, _, _ := setup(t)

	s, err := svc.Create(context.Background(), " Tom@X.com", session.NewSession{Title: "Go basics", TutorName: "Tom"})
	require.NoError(t, err)
	assert.False(t, s.ID.IsZero())
	assert.Equal(t, session.StatusPending, s.Status)
	assert.Equal(t, "tom@x.com", s.TutorEmail)
	assert.Nil(t, s.RegFee)
	assert.Nil(t, s.RejectionReason)
	assert.Nil(t, s.Feedback)
	assert.Equal(t, s.CreatedAt, s.UpdatedAt)
}

func TestService_Query(t *testing.T) {
	svc, repo, _ := setup(t)
	ctx := context.Background()
	testutil.CreateSession(t, repo, "A", "tom@x.com", session.StatusPending)
	testutil.CreateSession(t, repo, "B", "tom@x.com", session.StatusApproved)
	testutil.CreateSession(t, repo, "C", "tina@x.com", session.StatusApproved)
	testutil.CreateSession(t, repo, "D", "tina@x.com", session.StatusRejected)

	tests := []struct {
		name       string
		filter     session.QueryFilter
		wantTitles []string
		wantErr    bool
	}{
		{name: "all", filter: session.QueryFilter{}, wantTitles: []string{"A", "B", "C", "D"}},
		{name: "approved", filter: session.QueryFilter{Status: session.StatusApproved}, wantTitles: []string{"B", "C"}},
		{name: "by tutor", filter: session.QueryFilter{TutorEmail: " TINA@x.com"}, wantTitles: []string{"C", "D"}},
		{name: "by status and tutor", filter: session.QueryFilter{Status: session.StatusPending, TutorEmail: "tina@x.com"}, wantTitles: []string{}},
		{name: "unknown status", filter: session.QueryFilter{Status: "archived"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sessions, err := svc.Query(ctx, tt.filter)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			titles := make([]string, 0, len(sessions))
			for _, s := range sessions {
				titles = append(titles, s.Title)
			}
			assert.Equal(t, tt.wantTitles, titles)
		})
	}
}

func TestService_Moderation(t *testing.T) {
	ctx := context.Background()
	reject := session.RejectSession{RejectionReason: "too short", Feedback: "add a syllabus"}

	type step struct {
		name       string
		action     func(svc session.Service, id primitive.ObjectID) (session.Session, error)
		wantErr    error
		wantStatus session.Status
	}
	approve := func(f float64) func(session.Service, primitive.ObjectID) (session.Session, error) {
		return func(svc session.Service, id primitive.ObjectID) (session.Session, error) {
			return svc.Approve(ctx, id, session.ApproveSession{RegFee: fee(f)})
		}
	}
	rejectFn := func(svc session.Service, id primitive.ObjectID) (session.Session, error) {
		return svc.Reject(ctx, id, reject)
	}
	resubmit := func(email string) func(session.Service, primitive.ObjectID) (session.Session, error) {
		return func(svc session.Service, id primitive.ObjectID) (session.Session, error) {
			return svc.Resubmit(ctx, id, email)
		}
	}

	tests := []struct {
		name     string
		steps    []step
		wantMail int
	}{
		{
			name: "approve pending",
			steps: []step{
				{name: "approve", action: approve(10), wantStatus: session.StatusApproved},
				{name: "approve again", action: approve(20), wantErr: session.ErrInvalidTransition},
				{name: "reject approved", action: rejectFn, wantErr: session.ErrInvalidTransition},
				{name: "resubmit approved", action: resubmit("tom@x.com"), wantErr: session.ErrInvalidTransition},
			},
			wantMail: 1,
		},
		{
			name: "reject then resubmit then approve",
			steps: []step{
				{name: "reject", action: rejectFn, wantStatus: session.StatusRejected},
				{name: "reject again", action: rejectFn, wantErr: session.ErrInvalidTransition},
				{name: "approve rejected", action: approve(0), wantErr: session.ErrInvalidTransition},
				{name: "resubmit by another tutor", action: resubmit("tina@x.com"), wantErr: session.ErrNotOwner},
				{name: "resubmit", action: resubmit(" TOM@x.com"), wantStatus: session.StatusPending},
				{name: "resubmit pending", action: resubmit("tom@x.com"), wantStatus: session.StatusPending},
				{name: "approve free", action: approve(0), wantStatus: session.StatusApproved},
			},
			wantMail: 2,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, mailer := setup(t)
			s := testutil.CreateSession(t, repo, "Go basics", "tom@x.com", session.StatusPending)

			for _, st := range tt.steps {
				got, err := st.action(svc, s.ID)
				if st.wantErr != nil {
					assert.Equal(t, st.wantErr, errors.Cause(err), st.name)
					continue
				}
				require.NoError(t, err, st.name)
				assert.Equal(t, st.wantStatus, got.Status, st.name)
			}
			assert.Len(t, mailer.SentMessages(), tt.wantMail)
		})
	}
}

func TestService_Approve(t *testing.T) {
	svc, repo, mailer := setup(t)
	ctx := context.Background()
	s := testutil.CreateSession(t, repo, "Go basics", "tom@x.com", session.StatusPending)

	_, err := svc.Approve(ctx, s.ID, session.ApproveSession{})
	assert.True(t, core.IsValidationError(err))
	_, err = svc.Approve(ctx, s.ID, session.ApproveSession{RegFee: fee(-1)})
	assert.True(t, core.IsValidationError(err))
	_, err = svc.Approve(ctx, primitive.NewObjectID(), session.ApproveSession{RegFee: fee(5)})
	assert.Equal(t, session.ErrNotFound, errors.Cause(err))

	got, err := svc.Approve(ctx, s.ID, session.ApproveSession{RegFee: fee(12.5)})
	require.NoError(t, err)
	require.NotNil(t, got.RegFee)
	assert.Equal(t, 12.5, *got.RegFee)
	assert.True(t, got.UpdatedAt.After(s.UpdatedAt) || got.UpdatedAt.Equal(s.UpdatedAt))

	approved, err := svc.GetApproved(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, s.ID, approved.ID)

	msgs := mailer.SentMessages()
	require.Len(t, msgs, 1)
	assert.Equal(t, "tom@x.com", msgs[0].To[0].Address)
	assert.Contains(t, msgs[0].TextContent, "Registration fee: 12.50.")
}

func TestService_Reject(t *testing.T) {
	svc, repo, mailer := setup(t)
	ctx := context.Background()
	s := testutil.CreateSession(t, repo, "Go basics", "tom@x.com", session.StatusPending)

	got, err := svc.Reject(ctx, s.ID, session.RejectSession{RejectionReason: "too short", Feedback: "add a syllabus"})
	require.NoError(t, err)
	require.NotNil(t, got.RejectionReason)
	require.NotNil(t, got.Feedback)
	assert.Equal(t, "too short", *got.RejectionReason)
	assert.Equal(t, "add a syllabus", *got.Feedback)
	assert.Nil(t, got.RegFee)

	_, err = svc.GetApproved(ctx, s.ID)
	assert.Equal(t, session.ErrNotFound, errors.Cause(err))

	// metadata survives a resubmission
	got, err = svc.Resubmit(ctx, s.ID, "tom@x.com")
	require.NoError(t, err)
	require.NotNil(t, got.RejectionReason)
	assert.Equal(t, "too short", *got.RejectionReason)

	msgs := mailer.SentMessages()
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0].TextContent, "Reason: too short")
}

func TestService_ConcurrentModeration(t *testing.T) {
	svc, repo, _ := setup(t)
	ctx := context.Background()
	s := testutil.CreateSession(t, repo, "Go basics", "tom@x.com", session.StatusPending)

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins []session.Status
	)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			var (
				got session.Session
				err error
			)
			if i%2 == 0 {
				got, err = svc.Approve(ctx, s.ID, session.ApproveSession{RegFee: fee(1)})
			} else {
				got, err = svc.Reject(ctx, s.ID, session.RejectSession{RejectionReason: "r", Feedback: "f"})
			}
			if err == nil {
				mu.Lock()
				wins = append(wins, got.Status)
				mu.Unlock()
				return
			}
			assert.Equal(t, session.ErrInvalidTransition, errors.Cause(err))
		}(i)
	}
	wg.Wait()
	assert.Len(t, wins, 1)
}

func TestRequests_Validate(t *testing.T) {
	validate := testutil.NewValidator()

	ns := session.NewSession{Title: "   "}
	assert.Error(t, ns.Validate(validate))
	ns = session.NewSession{Title: " Go ", TutorName: " Tom "}
	require.NoError(t, ns.Validate(validate))
	assert.Equal(t, "Go", ns.Title)
	assert.Equal(t, "Tom", ns.TutorName)

	as := session.ApproveSession{}
	assert.Error(t, as.Validate(validate))
	as = session.ApproveSession{RegFee: fee(0)}
	assert.NoError(t, as.Validate(validate))
	as = session.ApproveSession{RegFee: fee(-0.5)}
	assert.Error(t, as.Validate(validate))

	rs := session.RejectSession{RejectionReason: "x"}
	assert.Error(t, rs.Validate(validate))
	rs = session.RejectSession{RejectionReason: "x", Feedback: "y"}
	assert.NoError(t, rs.Validate(validate))
}
