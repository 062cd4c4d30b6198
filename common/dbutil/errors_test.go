package dbutil

import (
	stderrors "errors"
	"testing"

	"github.com/Aidin1998/qrmenu/common/errors"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestWrapError(t *testing.T) {
	assert.NoError(t, WrapError(nil))
	assert.ErrorIs(t, WrapError(gorm.ErrRecordNotFound), errors.NotFound)
	assert.ErrorIs(t, WrapError(gorm.ErrDuplicatedKey), errors.Conflict)
	assert.ErrorIs(t, WrapError(&pgconn.PgError{Code: DuplicateKeyErrorCode}), errors.Conflict)
	assert.ErrorIs(t, WrapError(stderrors.New("UNIQUE constraint failed: admins.username")), errors.Conflict)

	already := errors.Invalid.Explain("bad")
	assert.Same(t, already, WrapError(already))

	other := stderrors.New("connection reset")
	assert.Equal(t, other, WrapError(other))
}
