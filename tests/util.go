package testutil

import (
	"context"
	"testing"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/the-user01/Study-Platform-Server/core"
	"github.com/the-user01/Study-Platform-Server/core/session"
	"github.com/the-user01/Study-Platform-Server/core/user"
)

// NewConfig returns a TEST Config that needs neither files nor environment.
func NewConfig() *core.Config {
	return &core.Config{
		Env:                "TEST",
		TestMode:           true,
		AppName:            "Study Platform",
		Build:              "test",
		SecretKey:          "test-secret-key",
		JWTExpirationDelta: time.Hour,
		DefaultFromEmail:   "noreply@study.test",
		LogLevel:           "error",
		Server: core.ServerConfig{
			Host:        "localhost",
			Address:     ":0",
			CORSOrigins: []string{"http://localhost:5173"},
		},
		Database: core.DatabaseConfig{Engine: "memory", Name: "studyPlatformTest", Timeout: 5 * time.Second},
		Payment:  core.PaymentConfig{Currency: "usd"},
	}
}

// NewValidator returns a validator with every custom tag and translation registered.
func NewValidator() *validator.Validate {
	validate, _ := NewTranslatedValidator()
	return validate
}

// NewTranslatedValidator is NewValidator plus the translator its messages are registered on.
// Field errors only translate with that same instance.
func NewTranslatedValidator() (*validator.Validate, ut.Translator) {
	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)
	return validate, translator
}

func CreateUser(t *testing.T, repo user.Repository, name, email string, role user.Role) user.User {
	t.Helper()
	usr, err := repo.InsertUser(context.Background(), user.User{
		Name:      name,
		Email:     email,
		Role:      role,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	return usr
}

func CreateSession(t *testing.T, repo session.Repository, title, tutorEmail string, status session.Status) session.Session {
	t.Helper()
	now := time.Now().UTC().Truncate(time.Millisecond)
	var fee *float64
	if status == session.StatusApproved {
		fee = new(float64)
	}
	s, err := repo.InsertSession(context.Background(), session.Session{
		Title:             title,
		TutorName:         "Tutor " + title,
		TutorEmail:        tutorEmail,
		RegistrationStart: now,
		RegistrationEnd:   now.Add(24 * time.Hour),
		ClassStart:        now.Add(48 * time.Hour),
		ClassEnd:          now.Add(72 * time.Hour),
		Duration:          "2h",
		Status:            status,
		RegFee:            fee,
		CreatedAt:         now,
		UpdatedAt:         now,
	})
	if err != nil {
		t.Fatalf("CreateSession() failed: %v", err)
	}
	return s
}
