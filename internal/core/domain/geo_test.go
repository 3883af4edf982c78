package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistanceKm(t *testing.T) {
	bangkok := Location{Latitude: 13.7563, Longitude: 100.5018}
	chiangMai := Location{Latitude: 18.7883, Longitude: 98.9853}

	assert.InDelta(t, 0, DistanceKm(bangkok, bangkok), 1e-9)
	assert.InDelta(t, 585, DistanceKm(bangkok, chiangMai), 10)
	assert.InDelta(t, DistanceKm(bangkok, chiangMai), DistanceKm(chiangMai, bangkok), 1e-9)
}

func TestValidCoordinates(t *testing.T) {
	assert.True(t, ValidCoordinates(0, 0))
	assert.True(t, ValidCoordinates(-90, 180))
	assert.False(t, ValidCoordinates(91, 0))
	assert.False(t, ValidCoordinates(0, -181))
}

func TestBoundsAround(t *testing.T) {
	center := Location{Latitude: 13.7563, Longitude: 100.5018}
	box := BoundsAround(center, 10)

	assert.True(t, box.Contains(center))
	near := Location{Latitude: 13.80, Longitude: 100.55}
	assert.Less(t, DistanceKm(center, near), 10.0)
	assert.True(t, box.Contains(near))
	assert.False(t, box.Contains(Location{Latitude: 14.5, Longitude: 100.5}))
}
