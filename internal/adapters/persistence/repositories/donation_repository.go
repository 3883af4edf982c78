package repositories

import (
	"context"

	"foodbridge-api/internal/adapters/persistence/models"
	"foodbridge-api/internal/core/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// donationRepository implements DonationRepository interface
type donationRepository struct {
	db *gorm.DB
}

// NewDonationRepository creates a new donation repository
func NewDonationRepository(db *gorm.DB) DonationRepository {
	return &donationRepository{db: db}
}

// Create inserts a new donation
func (r *donationRepository) Create(ctx context.Context, donation *domain.Donation) error {
	row := models.DonationFromDomain(donation)
	if err := r.db.WithContext(ctx).Omit("Donor").Create(row).Error; err != nil {
		return translate(err)
	}
	donation.CreatedAt = row.CreatedAt
	donation.UpdatedAt = row.UpdatedAt
	return nil
}

// GetByID gets a donation by ID
func (r *donationRepository) GetByID(ctx context.Context, id string) (*domain.Donation, error) {
	return r.first(r.db.WithContext(ctx).Where("id = ?", id))
}

// GetByIDForUpdate gets a donation by ID holding a row lock
func (r *donationRepository) GetByIDForUpdate(ctx context.Context, id string) (*domain.Donation, error) {
	return r.first(r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id))
}

func (r *donationRepository) first(q *gorm.DB) (*domain.Donation, error) {
	var row models.Donation
	if err := q.First(&row).Error; err != nil {
		return nil, translate(err)
	}
	return row.ToDomain(), nil
}

// Update saves every column of the donation
func (r *donationRepository) Update(ctx context.Context, donation *domain.Donation) error {
	row := models.DonationFromDomain(donation)
	if err := r.db.WithContext(ctx).Omit("Donor").Save(row).Error; err != nil {
		return translate(err)
	}
	donation.UpdatedAt = row.UpdatedAt
	return nil
}

// List returns donations matching the filter, newest first
func (r *donationRepository) List(ctx context.Context, filter domain.DonationFilter) ([]*domain.Donation, int64, error) {
	var rows []*models.Donation
	var total int64

	q := r.filtered(ctx, filter)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, translate(err)
	}

	q = q.Order("created_at DESC").Offset(filter.Offset)
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, 0, translate(err)
	}

	donations := make([]*domain.Donation, 0, len(rows))
	for _, row := range rows {
		donations = append(donations, row.ToDomain())
	}
	return donations, total, nil
}

// Count counts donations matching the filter
func (r *donationRepository) Count(ctx context.Context, filter domain.DonationFilter) (int64, error) {
	var total int64
	err := r.filtered(ctx, filter).Count(&total).Error
	return total, translate(err)
}

func (r *donationRepository) filtered(ctx context.Context, f domain.DonationFilter) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&models.Donation{})
	if f.Status != nil {
		q = q.Where("status = ?", string(*f.Status))
	}
	if f.FoodType != nil {
		q = q.Where("food_type = ?", string(*f.FoodType))
	}
	if f.DonorID != nil {
		q = q.Where("donor_id = ?", *f.DonorID)
	}
	if f.ClaimedByID != nil {
		q = q.Where("claimed_by_id = ?", *f.ClaimedByID)
	}
	if f.TransporterID != nil {
		q = q.Where("transporter_id = ?", *f.TransporterID)
	}
	if b := f.Bounds; b != nil {
		q = q.Where("latitude BETWEEN ? AND ?", b.MinLat, b.MaxLat).
			Where("longitude BETWEEN ? AND ?", b.MinLng, b.MaxLng)
	}
	return q
}

// Stats counts donations per status and sums delivered quantity
func (r *donationRepository) Stats(ctx context.Context) (map[domain.DonationStatus]int64, float64, error) {
	var rows []struct {
		Status string
		Count  int64
	}
	err := r.db.WithContext(ctx).
		Model(&models.Donation{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, 0, translate(err)
	}

	byStatus := make(map[domain.DonationStatus]int64, len(rows))
	for _, row := range rows {
		byStatus[domain.DonationStatus(row.Status)] = row.Count
	}

	var delivered float64
	err = r.db.WithContext(ctx).
		Model(&models.Donation{}).
		Where("status = ?", string(domain.StatusDelivered)).
		Select("COALESCE(SUM(quantity), 0)").
		Scan(&delivered).Error
	if err != nil {
		return nil, 0, translate(err)
	}

	return byStatus, delivered, nil
}
