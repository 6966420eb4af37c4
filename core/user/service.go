package user

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/the-user01/Study-Platform-Server/core"
)

var (
	// errors
	ErrNotFound      = errors.New("user not found")
	ErrAlreadyExists = errors.New("user already exists")
)

type (
	Repository interface {
		// InsertUser inserts usr, failing with ErrAlreadyExists if the email is taken.
		// Uniqueness is enforced by the store, not by a prior lookup.
		InsertUser(ctx context.Context, usr User) (User, error)
		GetUserByEmail(ctx context.Context, email string) (User, error)
		// QueryUsers applies AND operation on available QueryFilter fields.
		// QueryFilter.Search does a case-insensitive match on one of User.Name or User.Email.
		QueryUsers(ctx context.Context, filter QueryFilter) ([]User, error)
		UpdateUserRole(ctx context.Context, email string, role Role) (User, error)
		DeleteUserByID(ctx context.Context, id primitive.ObjectID) (int64, error)
	}

	Service interface {
		Create(ctx context.Context, nu NewUser) (User, error)
		GetByEmail(ctx context.Context, email string) (User, error)
		Query(ctx context.Context, filter QueryFilter) ([]User, error)
		QueryTutors(ctx context.Context) ([]User, error)
		HasRole(ctx context.Context, email string, role Role) (bool, error)
		SetRole(ctx context.Context, email string, role Role) (User, error)
		Delete(ctx context.Context, id primitive.ObjectID) (int64, error)
	}

	service struct {
		repo Repository
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// Create stores a new User. A second call with the same email returns ErrAlreadyExists and inserts nothing.
func (svc *service) Create(ctx context.Context, nu NewUser) (User, error) {
	usr := User{
		Name:      nu.Name,
		Email:     core.CleanString(nu.Email, true /* lower */),
		PhotoURL:  nu.PhotoURL,
		Role:      nu.Role,
		CreatedAt: time.Now().UTC(),
	}
	return svc.repo.InsertUser(ctx, usr)
}

func (svc *service) GetByEmail(ctx context.Context, email string) (User, error) {
	return svc.repo.GetUserByEmail(ctx, core.CleanString(email, true /* lower */))
}

func (svc *service) Query(ctx context.Context, filter QueryFilter) ([]User, error) {
	filter.Clean()
	return svc.repo.QueryUsers(ctx, filter)
}

func (svc *service) QueryTutors(ctx context.Context) ([]User, error) {
	return svc.repo.QueryUsers(ctx, QueryFilter{Role: RoleTeacher})
}

// HasRole reports whether the stored User for email currently holds role. Unknown emails hold no role.
func (svc *service) HasRole(ctx context.Context, email string, role Role) (bool, error) {
	usr, err := svc.GetByEmail(ctx, email)
	if err != nil {
		if errors.Cause(err) == ErrNotFound {
			return false, nil
		}
		return false, errors.Wrap(err, "finding user by email")
	}
	return usr.Role == role, nil
}

func (svc *service) SetRole(ctx context.Context, email string, role Role) (User, error) {
	if !role.IsValid() {
		return User{}, core.NewValidationError(nil, core.FieldError{Field: "role", Error: userRoleText})
	}
	return svc.repo.UpdateUserRole(ctx, core.CleanString(email, true /* lower */), role)
}

func (svc *service) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	return svc.repo.DeleteUserByID(ctx, id)
}
