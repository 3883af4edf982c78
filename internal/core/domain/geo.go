package domain

import "math"

const earthRadiusKm = 6371.0

// DistanceKm is the great-circle distance between two points (haversine)
func DistanceKm(a, b Location) float64 {
	lat1 := a.Latitude * math.Pi / 180
	lat2 := b.Latitude * math.Pi / 180
	dLat := (b.Latitude - a.Latitude) * math.Pi / 180
	dLng := (b.Longitude - a.Longitude) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusKm * math.Asin(math.Sqrt(h))
}

// ValidCoordinates reports whether lat/lng are within range
func ValidCoordinates(lat, lng float64) bool {
	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}

// BoundingBox is a coarse lat/lng window used to prefilter radius queries
type BoundingBox struct {
	MinLat, MaxLat float64
	MinLng, MaxLng float64
}

// BoundsAround returns a box that contains every point within radiusKm of center
func BoundsAround(center Location, radiusKm float64) BoundingBox {
	dLat := radiusKm / earthRadiusKm * 180 / math.Pi
	dLng := 180.0
	if c := math.Cos(center.Latitude * math.Pi / 180); c > 1e-6 {
		dLng = math.Min(dLat/c, 180)
	}
	return BoundingBox{
		MinLat: math.Max(center.Latitude-dLat, -90),
		MaxLat: math.Min(center.Latitude+dLat, 90),
		MinLng: math.Max(center.Longitude-dLng, -180),
		MaxLng: math.Min(center.Longitude+dLng, 180),
	}
}

// Contains reports whether the point lies in the box
func (b BoundingBox) Contains(l Location) bool {
	return l.Latitude >= b.MinLat && l.Latitude <= b.MaxLat &&
		l.Longitude >= b.MinLng && l.Longitude <= b.MaxLng
}
