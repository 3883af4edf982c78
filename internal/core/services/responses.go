package services

import (
	"time"

	"foodbridge-api/internal/core/domain"
)

// UserResponse is the public view of an account
type UserResponse struct {
	ID                  uint      `json:"id"`
	Name                string    `json:"name"`
	Email               string    `json:"email"`
	Phone               string    `json:"phone,omitempty"`
	Organization        string    `json:"organization,omitempty"`
	Role                string    `json:"role"`
	IsVerified          bool      `json:"is_verified"`
	IsActive            bool      `json:"is_active"`
	TrustScore          int       `json:"trust_score"`
	KarmaPoints         int       `json:"karma_points"`
	DailyIntakeCapacity *float64  `json:"daily_intake_capacity,omitempty"`
	CurrentIntakeLoad   *float64  `json:"current_intake_load,omitempty"`
	CreatedAt           time.Time `json:"created_at"`
}

// NewUserResponse builds the public view; intake fields only apply to NGOs
func NewUserResponse(u *domain.User) *UserResponse {
	r := &UserResponse{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		Phone:        u.Phone,
		Organization: u.Organization,
		Role:         string(u.Role),
		IsVerified:   u.IsVerified,
		IsActive:     u.IsActive,
		TrustScore:   u.TrustScore,
		KarmaPoints:  u.KarmaPoints,
		CreatedAt:    u.CreatedAt,
	}
	if u.Role == domain.RoleNGO {
		capacity := u.IntakeCapacity()
		load := u.CurrentIntakeLoad
		r.DailyIntakeCapacity = &capacity
		r.CurrentIntakeLoad = &load
	}
	return r
}

// DonationResponse is the public view of a donation
type DonationResponse struct {
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	Description     string     `json:"description,omitempty"`
	FoodType        string     `json:"food_type"`
	Quantity        float64    `json:"quantity"`
	Unit            string     `json:"unit,omitempty"`
	Latitude        float64    `json:"latitude"`
	Longitude       float64    `json:"longitude"`
	Address         string     `json:"address,omitempty"`
	ImageURLs       []string   `json:"image_urls"`
	KeptCovered     bool       `json:"kept_covered"`
	ContainerClean  bool       `json:"container_clean"`
	PreparationTime time.Time  `json:"preparation_time"`
	ExpiryTime      time.Time  `json:"expiry_time"`
	Status          string     `json:"status"`
	DonorID         uint       `json:"donor_id"`
	ClaimedByID     *uint      `json:"claimed_by_id,omitempty"`
	TransporterID   *uint      `json:"transporter_id,omitempty"`
	PickedUpAt      *time.Time `json:"picked_up_at,omitempty"`
	DeliveredAt     *time.Time `json:"delivered_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	DistanceKm      *float64   `json:"distance_km,omitempty"`
}

// NewDonationResponse builds the public view of a donation
func NewDonationResponse(d *domain.Donation) *DonationResponse {
	images := d.ImageURLs
	if images == nil {
		images = []string{}
	}
	return &DonationResponse{
		ID:              d.ID,
		Name:            d.Name,
		Description:     d.Description,
		FoodType:        string(d.FoodType),
		Quantity:        d.Quantity,
		Unit:            d.Unit,
		Latitude:        d.Location.Latitude,
		Longitude:       d.Location.Longitude,
		Address:         d.Location.Address,
		ImageURLs:       images,
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
	}
}

// NewDonationResponses converts a list
func NewDonationResponses(ds []*domain.Donation) []*DonationResponse {
	out := make([]*DonationResponse, 0, len(ds))
	for _, d := range ds {
		out = append(out, NewDonationResponse(d))
	}
	return out
}
