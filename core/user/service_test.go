package user_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/the-user01/Study-Platform-Server/core"
	"github.com/the-user01/Study-Platform-Server/core/user"
	inmemdb "github.com/the-user01/Study-Platform-Server/storage/database/inmem"
	"github.com/the-user01/Study-Platform-Server/tests"
)

func setup(t *testing.T) (user.Service, user.Repository) {
	repo := inmemdb.NewUserRepository(inmemdb.Open())
	return user.NewService(repo), repo
}

func TestService_Create(t *testing.T) {
	svc, repo := setup(t)
	ctx := context.Background()

	usr, err := svc.Create(ctx, user.NewUser{Name: "Sue", Email: " Sue@X.com ", Role: user.RoleStudent})
	require.NoError(t, err)
	assert.False(t, usr.ID.IsZero())
	assert.Equal(t, "sue@x.com", usr.Email)
	assert.False(t, usr.CreatedAt.IsZero())

	_, err = svc.Create(ctx, user.NewUser{Name: "Sue again", Email: "sue@x.com", Role: user.RoleAdmin})
	assert.Equal(t, user.ErrAlreadyExists, err)

	t.Run("concurrent first sign-ins insert once", func(t *testing.T) {
		var (
			wg   sync.WaitGroup
			mu   sync.Mutex
			wins int
		)
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if _, err := svc.Create(ctx, user.NewUser{Email: "tom@x.com", Role: user.RoleTeacher}); err == nil {
					mu.Lock()
					wins++
					mu.Unlock()
				}
			}()
		}
		wg.Wait()
		assert.Equal(t, 1, wins)

		users, err := repo.QueryUsers(ctx, user.QueryFilter{Search: "tom@x.com"})
		require.NoError(t, err)
		assert.Len(t, users, 1)
	})
}

func TestService_HasRole(t *testing.T) {
	svc, repo := setup(t)
	testutil.CreateUser(t, repo, "Tom", "tom@x.com", user.RoleTeacher)

	tests := []struct {
		name  string
		email string
		role  user.Role
		want  bool
	}{
		{"holds role", "tom@x.com", user.RoleTeacher, true},
		{"case insensitive email", " TOM@x.com", user.RoleTeacher, true},
		{"other role", "tom@x.com", user.RoleAdmin, false},
		{"unknown user", "nobody@x.com", user.RoleStudent, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.HasRole(context.Background(), tt.email, tt.role)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestService_QueryAndSetRole(t *testing.T) {
	svc, repo := setup(t)
	ctx := context.Background()
	testutil.CreateUser(t, repo, "Alice", "alice@x.com", user.RoleAdmin)
	testutil.CreateUser(t, repo, "Tom", "tom@x.com", user.RoleTeacher)
	testutil.CreateUser(t, repo, "Tina", "tina@x.com", user.RoleTeacher)

	tutors, err := svc.QueryTutors(ctx)
	require.NoError(t, err)
	require.Len(t, tutors, 2)
	assert.Equal(t, "Tom", tutors[0].Name)

	users, err := svc.Query(ctx, user.QueryFilter{Role: "tutor", Search: " TIN "})
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "Tina", users[0].Name)

	_, err = svc.SetRole(ctx, "tom@x.com", "Janitor")
	assert.True(t, core.IsValidationError(err))

	_, err = svc.SetRole(ctx, "nobody@x.com", user.RoleAdmin)
	assert.Equal(t, user.ErrNotFound, err)

	usr, err := svc.SetRole(ctx, "TOM@x.com", user.RoleAdmin)
	require.NoError(t, err)
	assert.True(t, usr.IsAdmin())
}

func TestNewUser_Validate(t *testing.T) {
	validate := testutil.NewValidator()

	tests := []struct {
		name     string
		nu       user.NewUser
		wantErr  bool
		wantRole user.Role
	}{
		{name: "ok", nu: user.NewUser{Email: "sue@x.com", Role: "Student"}, wantRole: user.RoleStudent},
		{name: "role alias", nu: user.NewUser{Email: "tom@x.com", Role: "tutor"}, wantRole: user.RoleTeacher},
		{name: "lowercase role", nu: user.NewUser{Email: "al@x.com", Role: "admin"}, wantRole: user.RoleAdmin},
		{name: "unknown role", nu: user.NewUser{Email: "sue@x.com", Role: "Janitor"}, wantErr: true},
		{name: "no role", nu: user.NewUser{Email: "sue@x.com"}, wantErr: true},
		{name: "bad email", nu: user.NewUser{Email: "sue", Role: "Student"}, wantErr: true},
		{name: "bad photo url", nu: user.NewUser{Email: "sue@x.com", Role: "Student", PhotoURL: "nope"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nu := tt.nu
			err := nu.Validate(validate)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantRole, nu.Role)
		})
	}
}
