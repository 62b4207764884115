// Package geo holds the small amount of spherical geometry shared by the
// resource registry and the impact predictor.
package geo

import "math"

// EarthRadiusKM is the mean Earth radius used for great-circle distances.
const EarthRadiusKM = 6371.0

// Point is a WGS84 latitude/longitude pair in degrees.
type Point struct {
	Lat float64 `json:"lat" yaml:"lat"`
	Lng float64 `json:"lng" yaml:"lng"`
}

// Valid reports whether the coordinates fall in their legal ranges.
func (p Point) Valid() bool {
	return p.Lat >= -90 && p.Lat <= 90 && p.Lng >= -180 && p.Lng <= 180
}

// DistanceKM returns the haversine distance between a and b.
func DistanceKM(a, b Point) float64 {
	dLat := radians(b.Lat - a.Lat)
	dLng := radians(b.Lng - a.Lng)
	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(radians(a.Lat))*math.Cos(radians(b.Lat))*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * EarthRadiusKM * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// Box is an axis-aligned latitude/longitude rectangle.
type Box struct {
	Name   string  `json:"name" yaml:"name"`
	MinLat float64 `json:"min_lat" yaml:"min_lat"`
	MaxLat float64 `json:"max_lat" yaml:"max_lat"`
	MinLng float64 `json:"min_lng" yaml:"min_lng"`
	MaxLng float64 `json:"max_lng" yaml:"max_lng"`
}

// Contains reports whether p lies strictly inside the box.
func (b Box) Contains(p Point) bool {
	return p.Lat > b.MinLat && p.Lat < b.MaxLat && p.Lng > b.MinLng && p.Lng < b.MaxLng
}

func radians(deg float64) float64 { return deg * math.Pi / 180 }
