package models

import (
	"time"

	"foodbridge-api/internal/core/domain"

	"gorm.io/gorm"
)

// ============================================================
// Accounts
// ============================================================

// User represents users table
type User struct {
	ID                  uint      `gorm:"primaryKey"`
	Name                string    `gorm:"size:100;not null"`
	Email               string    `gorm:"uniqueIndex;size:100;not null"`
	Password            string    `gorm:"size:255;not null"`
	Phone               string    `gorm:"size:30"`
	Organization        string    `gorm:"size:150"`
	Role                string    `gorm:"size:20;index;not null"`
	IsVerified          bool      `gorm:"not null"`
	IsActive            bool      `gorm:"not null;index"`
	TrustScore          int       `gorm:"not null"`
	KarmaPoints         int       `gorm:"not null"`
	DailyIntakeCapacity *float64  `gorm:"type:decimal(10,2)"`
	CurrentIntakeLoad   float64   `gorm:"type:decimal(10,2);not null"`
	CreatedAt           time.Time `gorm:"autoCreateTime"`
	UpdatedAt           time.Time `gorm:"autoUpdateTime"`
}

func (User) TableName() string {
	return "users"
}

// ToDomain converts the row into a domain user
func (u *User) ToDomain() *domain.User {
	return &domain.User{
		ID:                  u.ID,
		Name:                u.Name,
		Email:               u.Email,
		Password:            u.Password,
		Phone:               u.Phone,
		Organization:        u.Organization,
		Role:                domain.Role(u.Role),
		IsVerified:          u.IsVerified,
		IsActive:            u.IsActive,
		TrustScore:          u.TrustScore,
		KarmaPoints:         u.KarmaPoints,
		DailyIntakeCapacity: u.DailyIntakeCapacity,
		CurrentIntakeLoad:   u.CurrentIntakeLoad,
		CreatedAt:           u.CreatedAt,
		UpdatedAt:           u.UpdatedAt,
	}
}

// UserFromDomain converts a domain user into a row
func UserFromDomain(u *domain.User) *User {
	return &User{
		ID:                  u.ID,
		Name:                u.Name,
		Email:               u.Email,
		Password:            u.Password,
		Phone:               u.Phone,
		Organization:        u.Organization,
		Role:                string(u.Role),
		IsVerified:          u.IsVerified,
		IsActive:            u.IsActive,
		TrustScore:          u.TrustScore,
		KarmaPoints:         u.KarmaPoints,
		DailyIntakeCapacity: u.DailyIntakeCapacity,
		CurrentIntakeLoad:   u.CurrentIntakeLoad,
		CreatedAt:           u.CreatedAt,
		UpdatedAt:           u.UpdatedAt,
	}
}

// RefreshToken represents refresh_tokens table
type RefreshToken struct {
	ID        uint       `gorm:"primaryKey"`
	UserID    uint       `gorm:"index;not null"`
	TokenHash string     `gorm:"size:255;not null;index"`
	ExpiresAt time.Time  `gorm:"not null"`
	CreatedAt time.Time  `gorm:"autoCreateTime"`
	RevokedAt *time.Time `gorm:"index"`
	User      User       `gorm:"foreignKey:UserID"`
}

func (RefreshToken) TableName() string {
	return "refresh_tokens"
}

// ToDomain converts the row into a domain token
func (rt *RefreshToken) ToDomain() *domain.RefreshToken {
	return &domain.RefreshToken{
		ID:        rt.ID,
		UserID:    rt.UserID,
		TokenHash: rt.TokenHash,
		ExpiresAt: rt.ExpiresAt,
		CreatedAt: rt.CreatedAt,
		RevokedAt: rt.RevokedAt,
	}
}

// ============================================================
// Donations
// ============================================================

// Donation represents donations table
type Donation struct {
	ID              string     `gorm:"primaryKey;size:36"`
	Name            string     `gorm:"size:150;not null"`
	Description     string     `gorm:"type:text"`
	FoodType        string     `gorm:"size:20;index;not null"`
	Quantity        float64    `gorm:"type:decimal(10,2);not null"`
	Unit            string     `gorm:"size:30"`
	Latitude        float64    `gorm:"index:idx_donation_geo;not null"`
	Longitude       float64    `gorm:"index:idx_donation_geo;not null"`
	Address         string     `gorm:"size:255"`
	ImageURLs       []string   `gorm:"serializer:json;type:json"`
	KeptCovered     bool       `gorm:"default:false"`
	ContainerClean  bool       `gorm:"default:false"`
	PreparationTime time.Time  `gorm:"not null"`
	ExpiryTime      time.Time  `gorm:"index;not null"`
	Status          string     `gorm:"size:20;index;not null;default:'AVAILABLE'"`
	DonorID         uint       `gorm:"index;not null"`
	ClaimedByID     *uint      `gorm:"index"`
	TransporterID   *uint      `gorm:"index"`
	PickedUpAt      *time.Time
	DeliveredAt     *time.Time
	CreatedAt       time.Time `gorm:"autoCreateTime"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime"`
	Donor           User      `gorm:"foreignKey:DonorID"`
}

func (Donation) TableName() string {
	return "donations"
}

// ToDomain converts the row into a domain donation
func (d *Donation) ToDomain() *domain.Donation {
	return &domain.Donation{
		ID:          d.ID,
		Name:        d.Name,
		Description: d.Description,
		FoodType:    domain.FoodType(d.FoodType),
		Quantity:    d.Quantity,
		Unit:        d.Unit,
		Location: domain.Location{
			Latitude:  d.Latitude,
			Longitude: d.Longitude,
			Address:   d.Address,
		},
		ImageURLs: d.ImageURLs,
		Hygiene: domain.Hygiene{
			KeptCovered:    d.KeptCovered,
			ContainerClean: d.ContainerClean,
		},
		PreparationTime: d.PreparationTime,
		ExpiryTime:      d.ExpiryTime,
		Status:          domain.DonationStatus(d.Status),
		DonorID:         d.DonorID,
		ClaimedByID:     d.ClaimedByID,
		TransporterID:   d.TransporterID,
		PickedUpAt:      d.PickedUpAt,
		DeliveredAt:     d.DeliveredAt,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}
}

// DonationFromDomain converts a domain donation into a row
func DonationFromDomain(d *domain.Donation) *Donation {
	return &Donation{
		ID:              d.ID,
		Name:            d.Name,
		Description:     d.Description,
		FoodType:        string(d.FoodType),
		Quantity:        d.Quantity,
		Unit:            d.Unit,
		Latitude:        d.Location.Latitude,
		Longitude:       d.Location.Longitude,
		Address:         d.Location.Address,
		ImageURLs:       d.ImageURLs,
		KeptCovered:     d.Hygiene.KeptCovered,
		ContainerClean:  d.Hygiene.ContainerClean,
		PreparationTime: d.PreparationTime,
		ExpiryTime:      d.ExpiryTime,
		Status:          string(d.Status),
		DonorID:         d.DonorID,
		ClaimedByID:     d.ClaimedByID,
		TransporterID:   d.TransporterID,
		PickedUpAt:      d.PickedUpAt,
		DeliveredAt:     d.DeliveredAt,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}
}

// AutoMigrate creates or updates every table
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&RefreshToken{},
		&Donation{},
	)
}
