package domain

import "time"

// Role represents user role in the system
type Role string

const (
	RoleDonor     Role = "DONOR"
	RoleNGO       Role = "NGO"
	RoleVolunteer Role = "VOLUNTEER"
	RoleAdmin     Role = "ADMIN"
)

// Roles lists every role in display order
var Roles = []Role{RoleDonor, RoleNGO, RoleVolunteer, RoleAdmin}

// ParseRole converts a raw string into a Role
func ParseRole(s string) (Role, bool) {
	for _, r := range Roles {
		if string(r) == s {
			return r, true
		}
	}
	return "", false
}

// DonationStatus is the lifecycle state of a donation
type DonationStatus string

const (
	StatusAvailable DonationStatus = "AVAILABLE"
	StatusClaimed   DonationStatus = "CLAIMED"
	StatusPickedUp  DonationStatus = "PICKED_UP"
	StatusDelivered DonationStatus = "DELIVERED"
)

// Statuses lists every status in lifecycle order
var Statuses = []DonationStatus{StatusAvailable, StatusClaimed, StatusPickedUp, StatusDelivered}

// ParseStatus converts a raw string into a DonationStatus
func ParseStatus(s string) (DonationStatus, bool) {
	for _, st := range Statuses {
		if string(st) == s {
			return st, true
		}
	}
	return "", false
}

// rank orders statuses along the lifecycle
func (s DonationStatus) rank() int {
	for i, st := range Statuses {
		if st == s {
			return i
		}
	}
	return -1
}

// HasClaimant reports whether a donation in this status must carry a claimant
func (s DonationStatus) HasClaimant() bool {
	return s.rank() >= StatusClaimed.rank()
}

// HasTransporter reports whether a donation in this status must carry a transporter
func (s DonationStatus) HasTransporter() bool {
	return s.rank() >= StatusPickedUp.rank()
}

// MinQuantity is the smallest quantity or capacity the store can hold (two decimal places)
const MinQuantity = 0.01

// DefaultIntakeCapacity applies to NGOs without a configured capacity
const DefaultIntakeCapacity = 100.0

// DefaultTrustScore is assigned on registration
const DefaultTrustScore = 50

// User is an actor of the platform: donor, NGO, volunteer or admin
type User struct {
	ID                  uint
	Name                string
	Email               string
	Password            string // Hashed
	Phone               string
	Organization        string
	Role                Role
	IsVerified          bool
	IsActive            bool
	TrustScore          int
	KarmaPoints         int
	DailyIntakeCapacity *float64
	CurrentIntakeLoad   float64
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// IntakeCapacity returns the NGO's daily capacity, falling back to the default
func (u *User) IntakeCapacity() float64 {
	if u.DailyIntakeCapacity == nil || *u.DailyIntakeCapacity <= 0 {
		return DefaultIntakeCapacity
	}
	return *u.DailyIntakeCapacity
}

// Location is a donation pickup point
type Location struct {
	Latitude  float64
	Longitude float64
	Address   string
}

// Hygiene is the donor's handling attestation
type Hygiene struct {
	KeptCovered    bool
	ContainerClean bool
}

// Donation is a listing of surplus food
type Donation struct {
	ID              string
	Name            string
	Description     string
	FoodType        FoodType
	Quantity        float64
	Unit            string
	Location        Location
	ImageURLs       []string
	Hygiene         Hygiene
	PreparationTime time.Time
	ExpiryTime      time.Time
	Status          DonationStatus
	DonorID         uint
	ClaimedByID     *uint
	TransporterID   *uint
	PickedUpAt      *time.Time
	DeliveredAt     *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// RefreshToken represents a refresh token in the domain
type RefreshToken struct {
	ID        uint
	UserID    uint
	TokenHash string
	ExpiresAt time.Time
	CreatedAt time.Time
	RevokedAt *time.Time
}

// IsRevoked reports whether the token was revoked
func (t *RefreshToken) IsRevoked() bool {
	return t.RevokedAt != nil
}

// IsExpired reports whether the token is past its expiry
func (t *RefreshToken) IsExpired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}

// DonationFilter narrows donation listings
type DonationFilter struct {
	Status        *DonationStatus
	FoodType      *FoodType
	DonorID       *uint
	ClaimedByID   *uint
	TransporterID *uint
	Bounds        *BoundingBox
	Offset        int
	Limit         int
}

// Stats is an aggregate view used by the admin dashboard
type Stats struct {
	DonationsByStatus map[DonationStatus]int64
	DeliveredQuantity float64
	UsersByRole       map[Role]int64
}
