package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"foodbridge-api/internal/core/domain"
)

type sample struct {
	Email    string  `validate:"required,email"`
	FoodType string  `validate:"required,foodtype"`
	Quantity float64 `validate:"gt=0"`
	Role     string  `validate:"omitempty,role"`
}

type listing struct {
	Quantity float64 `validate:"gte=0.01"`
}

func TestStruct(t *testing.T) {
	ok := sample{Email: "donor@example.org", FoodType: "bakery", Quantity: 2}
	assert.NoError(t, Struct(ok))

	err := Struct(sample{Email: "nope", FoodType: "soup", Role: "KING"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Contains(t, err.Error(), "email must be a valid email")
	assert.Contains(t, err.Error(), "foodtype must be one of")
	assert.Contains(t, err.Error(), "quantity must be greater than 0")
	assert.Contains(t, err.Error(), "role must be one of")
}

func TestStructRejectsQuantityBelowStorePrecision(t *testing.T) {
	assert.NoError(t, Struct(listing{Quantity: 0.01}))

	err := Struct(listing{Quantity: 0.001})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Contains(t, err.Error(), "quantity must be at least 0.01")
}
