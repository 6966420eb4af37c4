package inmemdb

import (
	"context"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/the-user01/Study-Platform-Server/core/user"
)

type userRepository struct {
	db *DB
}

var _ user.Repository = (*userRepository)(nil)

func NewUserRepository(db *DB) user.Repository {
	return &userRepository{db: db}
}

func (repo *userRepository) findByEmail(email string) *user.User {
	for _, usr := range repo.db.users {
		if usr.Email == email {
			return usr
		}
	}
	return nil
}

// InsertUser checks and inserts under the same write lock, the in-memory analogue of a unique index.
func (repo *userRepository) InsertUser(_ context.Context, usr user.User) (user.User, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	if repo.findByEmail(usr.Email) != nil {
		return user.User{}, user.ErrAlreadyExists
	}
	usr.ID = primitive.NewObjectID()
	repo.db.users[usr.ID] = &usr
	return usr, nil
}

func (repo *userRepository) GetUserByEmail(_ context.Context, email string) (user.User, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	if usr := repo.findByEmail(email); usr != nil {
		return *usr, nil
	}
	return user.User{}, user.ErrNotFound
}

func (repo *userRepository) QueryUsers(_ context.Context, filter user.QueryFilter) ([]user.User, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	search := strings.ToLower(filter.Search)
	users := make([]user.User, 0, len(repo.db.users))
	for _, usr := range repo.db.users {
		if filter.Role != "" && usr.Role != filter.Role {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(usr.Name), search) &&
			!strings.Contains(strings.ToLower(usr.Email), search) {
			continue
		}
		users = append(users, *usr)
	}
	sortByID(len(users), func(i int) primitive.ObjectID { return users[i].ID }, func(i, j int) { users[i], users[j] = users[j], users[i] })
	return users, nil
}

func (repo *userRepository) UpdateUserRole(_ context.Context, email string, role user.Role) (user.User, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	usr := repo.findByEmail(email)
	if usr == nil {
		return user.User{}, user.ErrNotFound
	}
	usr.Role = role
	return *usr, nil
}

func (repo *userRepository) DeleteUserByID(_ context.Context, id primitive.ObjectID) (int64, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	if _, ok := repo.db.users[id]; !ok {
		return 0, nil
	}
	delete(repo.db.users, id)
	return 1, nil
}
