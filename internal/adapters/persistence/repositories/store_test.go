package repositories

import (
	"errors"
	"fmt"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"foodbridge-api/internal/core/domain"
)

func TestTranslate(t *testing.T) {
	assert.NoError(t, translate(nil))
	assert.ErrorIs(t, translate(gorm.ErrRecordNotFound), domain.ErrNotFound)
	assert.ErrorIs(t, translate(fmt.Errorf("query: %w", gorm.ErrRecordNotFound)), domain.ErrNotFound)

	deadlock := &mysql.MySQLError{Number: 1213, Message: "Deadlock found when trying to get lock"}
	assert.ErrorIs(t, translate(deadlock), domain.ErrTransientConflict)

	timeout := &mysql.MySQLError{Number: 1205, Message: "Lock wait timeout exceeded"}
	assert.ErrorIs(t, translate(timeout), domain.ErrTransientConflict)

	other := errors.New("connection refused")
	assert.Equal(t, other, translate(other))

	assert.ErrorIs(t, translate(domain.ErrCapacityExceeded), domain.ErrCapacityExceeded)
}

func TestIsDuplicate(t *testing.T) {
	assert.True(t, isDuplicate(&mysql.MySQLError{Number: 1062}))
	assert.False(t, isDuplicate(&mysql.MySQLError{Number: 1213}))
	assert.False(t, isDuplicate(errors.New("boom")))
}
