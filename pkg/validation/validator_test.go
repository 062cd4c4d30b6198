package validation

import (
	"testing"

	"github.com/Aidin1998/qrmenu/common/errors"
	"github.com/Aidin1998/qrmenu/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateReportsJSONFieldNames(t *testing.T) {
	v := NewValidator()

	err := v.Validate(&models.ChangePasswordRequest{CurrentPassword: "old", NewPassword: "abc"})
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.Invalid)

	var validationErr *errors.Error
	require.True(t, errors.As(err, &validationErr))
	assert.Equal(t, "new_password must be at least 6 characters", validationErr.Message)
	require.Len(t, validationErr.Fields, 1)
	assert.Equal(t, "min", validationErr.Fields[0].Kind)
	assert.Equal(t, "new_password", validationErr.Fields[0].Field)
}

func TestValidateCollectsEveryField(t *testing.T) {
	v := NewValidator()

	err := v.Validate(&models.LoginRequest{})
	var validationErr *errors.Error
	require.True(t, errors.As(err, &validationErr))
	assert.Len(t, validationErr.Fields, 2)
	assert.Equal(t, "username is required", validationErr.Message)

	assert.NoError(t, v.Validate(&models.LoginRequest{Username: "admin", Password: "x"}))
}

func TestText(t *testing.T) {
	v := NewValidator()

	assert.Equal(t, "Çay", v.Text("  <b>Çay</b> "))
	assert.Equal(t, "Tost & Ayran", v.Text("Tost & Ayran"))
	assert.Equal(t, "", v.Text("<script>alert(1)</script>"))
	assert.Equal(t, "", v.Text(""))
}

func TestOptionalText(t *testing.T) {
	v := NewValidator()

	assert.Nil(t, v.OptionalText(nil))
	blank := "   "
	assert.Nil(t, v.OptionalText(&blank))

	s := "<i>Acı</i>"
	got := v.OptionalText(&s)
	require.NotNil(t, got)
	assert.Equal(t, "Acı", *got)
}
