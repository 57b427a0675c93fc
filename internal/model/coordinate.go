package model

// Coordinate is a WGS84 latitude/longitude pair in decimal degrees.
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// GeodesicResult is the great-circle bearing and distance between two
// coordinates. DirectionDegrees is an initial compass bearing in [0, 360).
type GeodesicResult struct {
	DirectionDegrees float64 `json:"direction_degrees"`
	DistanceKm       float64 `json:"distance_km"`
}
