package repositories

import (
	"context"

	"foodbridge-api/internal/adapters/persistence/models"
	"foodbridge-api/internal/core/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// userRepository implements UserRepository interface
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// Create creates a new user
func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	row := models.UserFromDomain(user)
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		if isDuplicate(err) {
			return domain.ErrUserAlreadyExists
		}
		return translate(err)
	}
	*user = *row.ToDomain()
	return nil
}

// GetByID gets a user by ID
func (r *userRepository) GetByID(ctx context.Context, id uint) (*domain.User, error) {
	return r.first(r.db.WithContext(ctx).Where("id = ?", id))
}

// GetByIDForUpdate gets a user by ID holding a row lock
func (r *userRepository) GetByIDForUpdate(ctx context.Context, id uint) (*domain.User, error) {
	return r.first(r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id))
}

// GetByEmail gets a user by email
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.first(r.db.WithContext(ctx).Where("email = ?", email))
}

func (r *userRepository) first(q *gorm.DB) (*domain.User, error) {
	var user models.User
	if err := q.First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return user.ToDomain(), nil
}

// Update saves every column of the user
func (r *userRepository) Update(ctx context.Context, user *domain.User) error {
	row := models.UserFromDomain(user)
	if err := r.db.WithContext(ctx).Save(row).Error; err != nil {
		return translate(err)
	}
	user.UpdatedAt = row.UpdatedAt
	return nil
}

// List lists users with pagination, optionally narrowed to a role
func (r *userRepository) List(ctx context.Context, role *domain.Role, offset, limit int) ([]*domain.User, int64, error) {
	var rows []*models.User
	var total int64

	q := r.db.WithContext(ctx).Model(&models.User{})
	if role != nil {
		q = q.Where("role = ?", string(*role))
	}

	// Count total
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, translate(err)
	}

	// Get users with pagination
	if err := q.Order("id ASC").Offset(offset).Limit(limit).Find(&rows).Error; err != nil {
		return nil, 0, translate(err)
	}

	users := make([]*domain.User, 0, len(rows))
	for _, row := range rows {
		users = append(users, row.ToDomain())
	}
	return users, total, nil
}

// ExistsByEmail checks if email exists
func (r *userRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", email).Count(&count).Error
	return count > 0, translate(err)
}

// CountByRole counts users per role
func (r *userRepository) CountByRole(ctx context.Context) (map[domain.Role]int64, error) {
	var rows []struct {
		Role  string
		Count int64
	}
	err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Select("role, COUNT(*) AS count").
		Group("role").
		Scan(&rows).Error
	if err != nil {
		return nil, translate(err)
	}

	out := make(map[domain.Role]int64, len(rows))
	for _, row := range rows {
		out[domain.Role(row.Role)] = row.Count
	}
	return out, nil
}

// ResetIntakeLoads zeroes the intake load of every NGO
func (r *userRepository) ResetIntakeLoads(ctx context.Context) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("role = ?", string(domain.RoleNGO)).
		Where("current_intake_load <> 0").
		Update("current_intake_load", 0)
	return res.RowsAffected, translate(res.Error)
}
