package mongorepos

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/the-user01/Study-Platform-Server/core/booking"
	"github.com/the-user01/Study-Platform-Server/core/session"
	"github.com/the-user01/Study-Platform-Server/core/user"
	"github.com/the-user01/Study-Platform-Server/storage/database"
	"github.com/the-user01/Study-Platform-Server/tests"
)

var (
	container struct {
		once   sync.Once
		client *mongo.Client
		err    error
	}
	dbSeq int
)

func TestMain(m *testing.M) {
	code := m.Run()
	if container.client != nil {
		_ = container.client.Disconnect(context.Background())
	}
	os.Exit(code)
}

// startMongo runs one mongo container for the whole package. Containers are reaped by testcontainers.
func startMongo() (client *mongo.Client, err error) {
	defer func() {
		// no docker daemon
		if r := recover(); r != nil {
			err = fmt.Errorf("starting container: %v", r)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	mc, err := mongodb.RunContainer(ctx, tc.WithImage("mongo:6"))
	if err != nil {
		return nil, err
	}
	uri, err := mc.ConnectionString(ctx)
	if err != nil {
		_ = mc.Terminate(ctx)
		return nil, err
	}

	conf := testutil.NewConfig()
	conf.Database.URI = uri
	conf.Database.Timeout = 30 * time.Second
	return database.Open(ctx, conf)
}

// setupDB returns a fresh indexed database, or skips the test when no container can be started.
func setupDB(t *testing.T) *mongo.Database {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping document store tests in short mode")
	}
	container.once.Do(func() {
		container.client, container.err = startMongo()
	})
	if container.err != nil {
		t.Skipf("document store unavailable: %v", container.err)
	}

	dbSeq++
	db := container.client.Database(fmt.Sprintf("study_platform_test_%d", dbSeq))
	ctx := context.Background()
	require.NoError(t, database.EnsureIndexes(ctx, db))
	// twice: idempotent
	require.NoError(t, database.EnsureIndexes(ctx, db))
	t.Cleanup(func() { _ = db.Drop(context.Background()) })
	return db
}

func TestUserRepository(t *testing.T) {
	db := setupDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	alice := testutil.CreateUser(t, repo, "Alice Admin", "alice@x.com", user.RoleAdmin)
	tom := testutil.CreateUser(t, repo, "Tom Tutor", "tom@x.com", user.RoleTeacher)
	testutil.CreateUser(t, repo, "Sue Student", "sue@x.com", user.RoleStudent)

	t.Run("duplicate email", func(t *testing.T) {
		_, err := repo.InsertUser(ctx, user.User{Name: "Alice 2", Email: alice.Email, Role: user.RoleStudent})
		assert.Equal(t, user.ErrAlreadyExists, err)
	})

	t.Run("get by email", func(t *testing.T) {
		usr, err := repo.GetUserByEmail(ctx, "tom@x.com")
		require.NoError(t, err)
		assert.Equal(t, tom.ID, usr.ID)

		_, err = repo.GetUserByEmail(ctx, "nobody@x.com")
		assert.Equal(t, user.ErrNotFound, err)
	})

	tests := []struct {
		name      string
		filter    user.QueryFilter
		wantNames []string
	}{
		{"all, insertion order", user.QueryFilter{}, []string{"Alice Admin", "Tom Tutor", "Sue Student"}},
		{"by role", user.QueryFilter{Role: user.RoleTeacher}, []string{"Tom Tutor"}},
		{"search name, case insensitive", user.QueryFilter{Search: "sTuDeNt"}, []string{"Sue Student"}},
		{"search email", user.QueryFilter{Search: "@x.com"}, []string{"Alice Admin", "Tom Tutor", "Sue Student"}},
		{"search is literal", user.QueryFilter{Search: "a.*"}, []string{}},
		{"search and role", user.QueryFilter{Search: "t", Role: user.RoleAdmin}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users, err := repo.QueryUsers(ctx, tt.filter)
			require.NoError(t, err)
			names := make([]string, 0, len(users))
			for _, u := range users {
				names = append(names, u.Name)
			}
			assert.Equal(t, tt.wantNames, names)
		})
	}

	t.Run("update role", func(t *testing.T) {
		usr, err := repo.UpdateUserRole(ctx, "tom@x.com", user.RoleAdmin)
		require.NoError(t, err)
		assert.Equal(t, user.RoleAdmin, usr.Role)

		_, err = repo.UpdateUserRole(ctx, "nobody@x.com", user.RoleAdmin)
		assert.Equal(t, user.ErrNotFound, err)
	})

	t.Run("delete", func(t *testing.T) {
		n, err := repo.DeleteUserByID(ctx, alice.ID)
		require.NoError(t, err)
		assert.EqualValues(t, 1, n)

		n, err = repo.DeleteUserByID(ctx, alice.ID)
		require.NoError(t, err)
		assert.EqualValues(t, 0, n)
	})
}

func TestSessionRepository_TransitionSession(t *testing.T) {
	db := setupDB(t)
	repo := NewSessionRepository(db)
	ctx := context.Background()

	pending := testutil.CreateSession(t, repo, "Go basics", "tom@x.com", session.StatusPending)
	approved := testutil.CreateSession(t, repo, "SQL", "tom@x.com", session.StatusApproved)

	fee := 25.0
	toApproved := session.Transition{To: session.StatusApproved, From: []session.Status{session.StatusPending}, RegFee: &fee, At: time.Now().UTC()}

	t.Run("not found", func(t *testing.T) {
		_, err := repo.TransitionSession(ctx, primitive.NewObjectID(), toApproved)
		assert.Equal(t, session.ErrNotFound, err)
	})

	t.Run("wrong source status", func(t *testing.T) {
		_, err := repo.TransitionSession(ctx, approved.ID, toApproved)
		assert.Equal(t, session.ErrInvalidTransition, err)
	})

	t.Run("applied once under contention", func(t *testing.T) {
		const n = 8
		var (
			wg   sync.WaitGroup
			mu   sync.Mutex
			wins int
		)
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if _, err := repo.TransitionSession(ctx, pending.ID, toApproved); err == nil {
					mu.Lock()
					wins++
					mu.Unlock()
				}
			}()
		}
		wg.Wait()
		assert.Equal(t, 1, wins)

		s, err := repo.GetSession(ctx, pending.ID, session.StatusApproved)
		require.NoError(t, err)
		require.NotNil(t, s.RegFee)
		assert.Equal(t, fee, *s.RegFee)
		assert.Nil(t, s.RejectionReason)
	})

	t.Run("status filter", func(t *testing.T) {
		_, err := repo.GetSession(ctx, pending.ID, session.StatusPending)
		assert.Equal(t, session.ErrNotFound, err)

		sessions, err := repo.QuerySessions(ctx, session.QueryFilter{Status: session.StatusApproved, TutorEmail: "tom@x.com"})
		require.NoError(t, err)
		require.Len(t, sessions, 2)
		assert.Equal(t, pending.ID, sessions[0].ID)
	})
}

func TestBookingRepository(t *testing.T) {
	db := setupDB(t)
	repo := NewBookingRepository(db)
	ctx := context.Background()

	sessionID := primitive.NewObjectID()
	b, err := repo.InsertBooking(ctx, booking.BookedSession{SessionID: sessionID, StudentEmail: "sue@x.com", Title: "SQL"})
	require.NoError(t, err)

	t.Run("same student, same session", func(t *testing.T) {
		_, err := repo.InsertBooking(ctx, booking.BookedSession{SessionID: sessionID, StudentEmail: "sue@x.com"})
		assert.Equal(t, booking.ErrAlreadyBooked, err)
	})

	t.Run("other student", func(t *testing.T) {
		_, err := repo.InsertBooking(ctx, booking.BookedSession{SessionID: sessionID, StudentEmail: "sam@x.com"})
		assert.NoError(t, err)
	})

	t.Run("get is scoped to the student", func(t *testing.T) {
		got, err := repo.GetBooking(ctx, b.ID, "sue@x.com")
		require.NoError(t, err)
		assert.Equal(t, "SQL", got.Title)

		_, err = repo.GetBooking(ctx, b.ID, "sam@x.com")
		assert.Equal(t, booking.ErrNotFound, err)
	})

	t.Run("query by student", func(t *testing.T) {
		bookings, err := repo.QueryBookingsByStudent(ctx, "sam@x.com")
		require.NoError(t, err)
		assert.Len(t, bookings, 1)

		bookings, err = repo.QueryBookingsByStudent(ctx, "nobody@x.com")
		require.NoError(t, err)
		assert.NotNil(t, bookings)
		assert.Empty(t, bookings)
	})
}
