package domain

import "time"

// FoodType is the food category of a donation
type FoodType string

const (
	FoodCooked   FoodType = "cooked"
	FoodRaw      FoodType = "raw"
	FoodPackaged FoodType = "packaged"
	FoodFruits   FoodType = "fruits"
	FoodBakery   FoodType = "bakery"
	FoodDairy    FoodType = "dairy"
)

// MinSafeWindow is the remaining window a high-risk listing needs at submission
const MinSafeWindow = 2 * time.Hour

// FoodTypeInfo describes a category for validation and UI countdowns
type FoodTypeInfo struct {
	Type      FoodType      `json:"type"`
	ShelfLife time.Duration `json:"-"`
	Hours     int           `json:"shelf_life_hours"`
	HighRisk  bool          `json:"high_risk"`
}

var shelfLife = map[FoodType]time.Duration{
	FoodCooked:   4 * time.Hour,
	FoodRaw:      24 * time.Hour,
	FoodPackaged: 720 * time.Hour,
	FoodFruits:   48 * time.Hour,
	FoodBakery:   24 * time.Hour,
	FoodDairy:    48 * time.Hour,
}

var highRisk = map[FoodType]bool{
	FoodCooked: true,
	FoodRaw:    true,
}

// FoodTypes lists every category in display order
var FoodTypes = []FoodType{FoodCooked, FoodRaw, FoodPackaged, FoodFruits, FoodBakery, FoodDairy}

// ParseFoodType converts a raw string into a FoodType
func ParseFoodType(s string) (FoodType, bool) {
	if _, ok := shelfLife[FoodType(s)]; !ok {
		return "", false
	}
	return FoodType(s), true
}

// ShelfLife returns the category's safe shelf life
func (f FoodType) ShelfLife() time.Duration {
	return shelfLife[f]
}

// IsHighRisk reports whether the category is perishable enough to need the safety window
func (f FoodType) IsHighRisk() bool {
	return highRisk[f]
}

// FoodTypeTable returns the shelf-life table for clients
func FoodTypeTable() []FoodTypeInfo {
	out := make([]FoodTypeInfo, 0, len(FoodTypes))
	for _, f := range FoodTypes {
		out = append(out, FoodTypeInfo{
			Type:      f,
			ShelfLife: f.ShelfLife(),
			Hours:     int(f.ShelfLife().Hours()),
			HighRisk:  f.IsHighRisk(),
		})
	}
	return out
}

// DeriveExpiry computes the expiry from preparation time and category shelf life
func DeriveExpiry(foodType FoodType, preparedAt time.Time) time.Time {
	return preparedAt.Add(foodType.ShelfLife())
}

// ValidateFoodSafety decides whether a listing's timing is safe to publish.
// Rules run in order and the first failure is returned.
func ValidateFoodSafety(foodType FoodType, preparedAt, expiresAt, now time.Time) error {
	if _, ok := shelfLife[foodType]; !ok {
		return ErrUnknownFoodType
	}
	if !expiresAt.After(now) {
		return ErrExpiredFood
	}
	if preparedAt.After(now) {
		return ErrInvalidTiming
	}
	if !expiresAt.After(preparedAt) {
		return ErrExpiryBeforePrep
	}
	if foodType.IsHighRisk() && expiresAt.Sub(now) < MinSafeWindow {
		return &UnsafeShelfLifeError{FoodType: foodType, Minimum: MinSafeWindow}
	}
	return nil
}
