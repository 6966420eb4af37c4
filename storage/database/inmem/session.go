package inmemdb

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/the-user01/Study-Platform-Server/core/session"
)

type sessionRepository struct {
	db *DB
}

var _ session.Repository = (*sessionRepository)(nil)

func NewSessionRepository(db *DB) session.Repository {
	return &sessionRepository{db: db}
}

func (repo *sessionRepository) InsertSession(_ context.Context, s session.Session) (session.Session, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	s.ID = primitive.NewObjectID()
	repo.db.sessions[s.ID] = &s
	return s, nil
}

func (repo *sessionRepository) GetSession(_ context.Context, id primitive.ObjectID, statuses ...session.Status) (session.Session, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	s, ok := repo.db.sessions[id]
	if !ok || !hasStatus(s.Status, statuses) {
		return session.Session{}, session.ErrNotFound
	}
	return *s, nil
}

func (repo *sessionRepository) QuerySessions(_ context.Context, filter session.QueryFilter) ([]session.Session, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	sessions := make([]session.Session, 0, len(repo.db.sessions))
	for _, s := range repo.db.sessions {
		if filter.Status != "" && s.Status != filter.Status {
			continue
		}
		if filter.TutorEmail != "" && s.TutorEmail != filter.TutorEmail {
			continue
		}
		sessions = append(sessions, *s)
	}
	sortByID(len(sessions), func(i int) primitive.ObjectID { return sessions[i].ID }, func(i, j int) { sessions[i], sessions[j] = sessions[j], sessions[i] })
	return sessions, nil
}

// TransitionSession compares and sets the status under the write lock.
func (repo *sessionRepository) TransitionSession(_ context.Context, id primitive.ObjectID, t session.Transition) (session.Session, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	s, ok := repo.db.sessions[id]
	if !ok {
		return session.Session{}, session.ErrNotFound
	}
	if !hasStatus(s.Status, t.From) || len(t.From) == 0 {
		return session.Session{}, session.ErrInvalidTransition
	}

	updated := *s
	updated.Status = t.To
	updated.UpdatedAt = t.At
	if t.RegFee != nil {
		fee := *t.RegFee
		updated.RegFee = &fee
	}
	if t.RejectionReason != nil {
		reason := *t.RejectionReason
		updated.RejectionReason = &reason
	}
	if t.Feedback != nil {
		feedback := *t.Feedback
		updated.Feedback = &feedback
	}
	repo.db.sessions[id] = &updated
	return updated, nil
}

// hasStatus reports whether status is one of statuses; an empty list matches any status.
func hasStatus(status session.Status, statuses []session.Status) bool {
	if len(statuses) == 0 {
		return true
	}
	for _, s := range statuses {
		if s == status {
			return true
		}
	}
	return false
}
