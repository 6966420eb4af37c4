package testutil

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/the-user01/Study-Platform-Server/core/user"
)

func TestNewTranslatedValidator(t *testing.T) {
	validate, translator := NewTranslatedValidator()

	nu := user.NewUser{Email: "sue@x.com", Role: "Janitor"}
	err := nu.Validate(validate)
	require.Error(t, err)

	var vErrs validator.ValidationErrors
	require.ErrorAs(t, err, &vErrs)
	require.Len(t, vErrs, 1)
	assert.Equal(t, "role", vErrs[0].Field())
	assert.Equal(t, "role must be one of Admin, Teacher or Student", vErrs[0].Translate(translator))

	nu = user.NewUser{Role: "Student"}
	err = nu.Validate(validate)
	require.ErrorAs(t, err, &vErrs)
	assert.Equal(t, "this field is required", vErrs[0].Translate(translator))
}
