package models

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/schema"

	"foodbridge-api/internal/core/domain"
)

func TestDonationConversion(t *testing.T) {
	ngo := uint(4)
	now := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	d := &domain.Donation{
		ID:              "c0ffee",
		Name:            "Rice boxes",
		FoodType:        domain.FoodCooked,
		Quantity:        12.5,
		Unit:            "kg",
		Location:        domain.Location{Latitude: 13.7, Longitude: 100.5, Address: "Silom"},
		ImageURLs:       []string{"https://img/1.jpg"},
		Hygiene:         domain.Hygiene{KeptCovered: true},
		PreparationTime: now,
		ExpiryTime:      now.Add(4 * time.Hour),
		Status:          domain.StatusClaimed,
		DonorID:         2,
		ClaimedByID:     &ngo,
	}

	row := DonationFromDomain(d)
	assert.Equal(t, "cooked", row.FoodType)
	assert.Equal(t, "CLAIMED", row.Status)
	assert.Equal(t, 13.7, row.Latitude)
	assert.True(t, row.KeptCovered)

	assert.Equal(t, d, row.ToDomain())
}

func TestUserConversion(t *testing.T) {
	capacity := 80.0
	u := &domain.User{ID: 3, Email: "ngo@example.org", Role: domain.RoleNGO, DailyIntakeCapacity: &capacity, CurrentIntakeLoad: 10}
	row := UserFromDomain(u)
	assert.Equal(t, "NGO", row.Role)
	assert.Equal(t, u, row.ToDomain())
}

// gorm drops zero values of fields with a column default on insert, so a
// suspended user or a zero trust score would be stored as the default.
func TestUserColumnsPersistZeroValues(t *testing.T) {
	s, err := schema.Parse(&User{}, &sync.Map{}, schema.NamingStrategy{})
	require.NoError(t, err)

	for _, name := range []string{"IsActive", "IsVerified", "TrustScore", "KarmaPoints", "CurrentIntakeLoad"} {
		field := s.LookUpField(name)
		require.NotNil(t, field, name)
		assert.False(t, field.HasDefaultValue, name)
	}

	u := &domain.User{ID: 9, Role: domain.RoleDonor, IsActive: false, TrustScore: 0}
	row := UserFromDomain(u)
	assert.False(t, row.IsActive)
	assert.Zero(t, row.TrustScore)
}
