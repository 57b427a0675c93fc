package qibla

import (
	"fmt"
	"math"

	"github.com/minaret-labs/minaret/internal/apperrors"
	"github.com/minaret-labs/minaret/internal/model"
)

// Kaaba is the fixed destination for Qibla bearings.
var Kaaba = model.Coordinate{Latitude: 21.4225, Longitude: 39.8262}

// earthRadiusKm is the mean Earth radius used by the haversine distance.
const earthRadiusKm = 6371.0

// BearingAndDistance returns the initial great-circle bearing from origin
// to dest in [0, 360) and the haversine distance in kilometers, both
// rounded to 2 decimal places.
func BearingAndDistance(origin, dest model.Coordinate) (model.GeodesicResult, error) {
	if err := validate("origin", origin); err != nil {
		return model.GeodesicResult{}, err
	}
	if err := validate("destination", dest); err != nil {
		return model.GeodesicResult{}, err
	}

	lat1 := radians(origin.Latitude)
	lat2 := radians(dest.Latitude)
	dLon := radians(dest.Longitude - origin.Longitude)

	y := math.Sin(dLon) * math.Cos(lat2)
	x := math.Cos(lat1)*math.Sin(lat2) - math.Sin(lat1)*math.Cos(lat2)*math.Cos(dLon)
	bearing := Normalize(degrees(math.Atan2(y, x)))

	dLat := lat2 - lat1
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	distance := earthRadiusKm * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return model.GeodesicResult{
		DirectionDegrees: round2(bearing),
		DistanceKm:       round2(distance),
	}, nil
}

// BearingToKaaba is the Qibla-specific instantiation: direction and
// distance from origin to the Kaaba.
func BearingToKaaba(origin model.Coordinate) (model.GeodesicResult, error) {
	return BearingAndDistance(origin, Kaaba)
}

// CompassBearing converts an absolute target bearing into one relative to
// the device heading.
func CompassBearing(targetDirection, deviceHeading float64) float64 {
	return Normalize(targetDirection - deviceHeading)
}

// IsAligned reports whether the device heading is within tolerance degrees
// of the target, accounting for 0/360 wraparound.
func IsAligned(targetDirection, deviceHeading, toleranceDegrees float64) bool {
	diff := math.Abs(Normalize(targetDirection) - Normalize(deviceHeading))
	if diff > 180 {
		diff = 360 - diff
	}
	return diff <= toleranceDegrees
}

// Normalize maps any bearing into [0, 360).
func Normalize(b float64) float64 {
	return math.Mod(math.Mod(b, 360)+360, 360)
}

// Fingerprint rounds a coordinate to 2 decimal places (~1 km grid) and
// renders it as a cache key component, so nearby requests share one cache
// slot.
func Fingerprint(c model.Coordinate) string {
	return fmt.Sprintf("%.2f:%.2f", c.Latitude, c.Longitude)
}

func validate(which string, c model.Coordinate) error {
	switch {
	case math.IsNaN(c.Latitude) || math.IsNaN(c.Longitude):
		return &apperrors.InvalidCoordinateError{Which: which, Reason: "latitude/longitude is NaN"}
	case c.Latitude < -90 || c.Latitude > 90:
		return &apperrors.InvalidCoordinateError{Which: which, Reason: fmt.Sprintf("latitude %v out of range [-90, 90]", c.Latitude)}
	case c.Longitude < -180 || c.Longitude > 180:
		return &apperrors.InvalidCoordinateError{Which: which, Reason: fmt.Sprintf("longitude %v out of range [-180, 180]", c.Longitude)}
	}
	return nil
}

func radians(d float64) float64 { return d * math.Pi / 180 }
func degrees(r float64) float64 { return r * 180 / math.Pi }

func round2(v float64) float64 { return math.Round(v*100) / 100 }
