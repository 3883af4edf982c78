package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateFoodSafety(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		foodType FoodType
		prep     time.Time
		expiry   time.Time
		wantErr  error
	}{
		{"cooked just under window", FoodCooked, now, now.Add(119 * time.Minute), ErrUnsafeShelfLife},
		{"cooked just over window", FoodCooked, now, now.Add(121 * time.Minute), nil},
		{"raw just under window", FoodRaw, now, now.Add(119 * time.Minute), ErrUnsafeShelfLife},
		{"raw just over window", FoodRaw, now, now.Add(121 * time.Minute), nil},
		{"bakery has no floor", FoodBakery, now, now.Add(90 * time.Minute), nil},
		{"packaged has no floor", FoodPackaged, now.Add(-time.Hour), now.Add(time.Minute), nil},
		{"expired", FoodFruits, now.Add(-2 * time.Hour), now, ErrExpiredFood},
		{"prep in future", FoodDairy, now.Add(time.Minute), now.Add(48 * time.Hour), ErrInvalidTiming},
		{"expiry checked before prep", FoodCooked, now.Add(time.Hour), now.Add(-time.Hour), ErrExpiredFood},
		{"unknown type", FoodType("soup"), now, now.Add(time.Hour), ErrUnknownFoodType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateFoodSafety(tt.foodType, tt.prep, tt.expiry, now)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestUnsafeShelfLifeMessage(t *testing.T) {
	now := time.Now()
	err := ValidateFoodSafety(FoodCooked, now, now.Add(time.Hour), now)
	require.Error(t, err)

	var unsafe *UnsafeShelfLifeError
	require.True(t, errors.As(err, &unsafe))
	assert.Equal(t, FoodCooked, unsafe.FoodType)
	assert.Equal(t, 2*time.Hour, unsafe.Minimum)
	assert.Equal(t, "High-risk food (cooked) must have at least 2 hours of safe consumption window remaining.", err.Error())
}

func TestShelfLifeTable(t *testing.T) {
	want := map[FoodType]time.Duration{
		FoodCooked:   4 * time.Hour,
		FoodRaw:      24 * time.Hour,
		FoodPackaged: 720 * time.Hour,
		FoodFruits:   48 * time.Hour,
		FoodBakery:   24 * time.Hour,
		FoodDairy:    48 * time.Hour,
	}
	for ft, d := range want {
		assert.Equal(t, d, ft.ShelfLife(), ft)
	}

	table := FoodTypeTable()
	require.Len(t, table, len(want))
	for _, info := range table {
		assert.Equal(t, info.Type == FoodCooked || info.Type == FoodRaw, info.HighRisk, info.Type)
	}
}

func TestDeriveExpiry(t *testing.T) {
	prep := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)
	assert.Equal(t, prep.Add(4*time.Hour), DeriveExpiry(FoodCooked, prep))
	assert.Equal(t, prep.Add(720*time.Hour), DeriveExpiry(FoodPackaged, prep))
}

func TestParseFoodType(t *testing.T) {
	ft, ok := ParseFoodType("dairy")
	assert.True(t, ok)
	assert.Equal(t, FoodDairy, ft)

	_, ok = ParseFoodType("Dairy")
	assert.False(t, ok)
}
