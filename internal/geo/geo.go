package geo

import "math"

// earthRadiusMeters is the mean Earth radius used for great-circle
// distances.
const earthRadiusMeters = 6371000.0

type Position struct {
	Lat float64
	Lng float64
}

type Result struct {
	OK             bool
	DistanceMeters float64
}

// Distance returns the haversine great-circle distance between two
// positions in meters.
func Distance(a, b Position) float64 {
	latA := a.Lat * math.Pi / 180
	latB := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLng := (b.Lng - a.Lng) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(latA)*math.Cos(latB)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return earthRadiusMeters * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// Validate checks whether userPos is within allowedRadiusMeters of
// shrinePos. No side effects; callers decide what to do with a miss.
func Validate(userPos, shrinePos Position, allowedRadiusMeters float64) Result {
	d := Distance(userPos, shrinePos)
	return Result{OK: d <= allowedRadiusMeters, DistanceMeters: d}
}
