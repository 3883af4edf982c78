package repositories

import (
	"context"
	"errors"
	"fmt"

	"foodbridge-api/internal/core/domain"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

// MySQL error numbers
const (
	errDuplicateEntry   = 1062
	errLockWaitTimeout  = 1205
	errDeadlockDetected = 1213
)

// gormStore implements Store over a gorm handle (plain or transactional)
type gormStore struct {
	db *gorm.DB
}

// NewStore creates a new GORM backed store
func NewStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) Users() UserRepository {
	return &userRepository{db: s.db}
}

func (s *gormStore) Donations() DonationRepository {
	return &donationRepository{db: s.db}
}

func (s *gormStore) RefreshTokens() RefreshTokenRepository {
	return &refreshTokenRepository{db: s.db}
}

// WithTx runs fn inside a database transaction
func (s *gormStore) WithTx(ctx context.Context, fn func(tx Store) error) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormStore{db: tx})
	})
	return translate(err)
}

// translate maps driver errors onto domain errors and passes everything else through
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrNotFound
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		switch myErr.Number {
		case errDeadlockDetected, errLockWaitTimeout:
			return fmt.Errorf("%w: %s", domain.ErrTransientConflict, myErr.Message)
		}
	}
	return err
}

func isDuplicate(err error) bool {
	var myErr *mysql.MySQLError
	return errors.As(err, &myErr) && myErr.Number == errDuplicateEntry
}
