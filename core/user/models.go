package user

import (
	"time"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/the-user01/Study-Platform-Server/core"
)

// Roles
const (
	RoleAdmin   Role = "Admin"
	RoleTeacher Role = "Teacher" // a.k.a. tutor
	RoleStudent Role = "Student"
)

var AllRoles = []Role{RoleAdmin, RoleTeacher, RoleStudent}

type Role string

func (r Role) IsValid() bool {
	for _, role := range AllRoles {
		if r == role {
			return true
		}
	}
	return false
}

// ParseRole matches s against AllRoles, ignoring case. "tutor" is accepted for RoleTeacher.
func ParseRole(s string) (Role, bool) {
	s = core.CleanString(s, true /* lower */)
	if s == "tutor" {
		return RoleTeacher, true
	}
	for _, role := range AllRoles {
		if s == core.CleanString(string(role), true) {
			return role, true
		}
	}
	return "", false
}

type User struct {
	ID        primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	Name      string             `json:"name" bson:"name"`
	Email     string             `json:"email" bson:"email"`
	PhotoURL  string             `json:"photoUrl,omitempty" bson:"photoUrl,omitempty"`
	Role      Role               `json:"role" bson:"role"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"` // UTC
}

func (u User) IsAdmin() bool   { return u.Role == RoleAdmin }
func (u User) IsTeacher() bool { return u.Role == RoleTeacher }
func (u User) IsStudent() bool { return u.Role == RoleStudent }

// NewUser contains information needed to create a new User on first sign-in.
type NewUser struct {
	Name     string `json:"name"`
	Email    string `json:"email" validate:"required,email"`
	PhotoURL string `json:"photoUrl" validate:"omitempty,url"`
	Role     Role   `json:"role" validate:"required,userrole"`
}

func (nu *NewUser) Validate(validate *validator.Validate) error {
	nu.Name = core.CleanString(nu.Name)
	nu.Email = core.CleanString(nu.Email, true /* lower */)
	nu.PhotoURL = core.CleanString(nu.PhotoURL)
	if role, ok := ParseRole(string(nu.Role)); ok {
		nu.Role = role
	}
	return validate.Struct(nu)
}

type QueryFilter struct {
	Search string `query:"search"`
	Role   Role   `query:"role"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.Search == "" && qf.Role == ""
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
	if role, ok := ParseRole(string(qf.Role)); ok {
		qf.Role = role
	}
}
