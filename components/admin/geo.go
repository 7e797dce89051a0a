package admin

// Coordinate is a displayed latitude/longitude pair.
type Coordinate struct {
	Lat float64
	Lon float64
}

// BrazilCentroid anchors markers whose state has no centroid entry.
var BrazilCentroid = Coordinate{Lat: -14.2350, Lon: -51.9253}

// StateCentroids holds approximate capital coordinates per covered state.
// The directory stores no latitude/longitude, so markers are placed on these
// centroids; adding a state here is the only way to improve placement short of
// real geocoding.
var StateCentroids = map[string]Coordinate{
	"SP": {Lat: -23.5505, Lon: -46.6333},
	"MG": {Lat: -19.9167, Lon: -43.9345},
	"GO": {Lat: -16.6869, Lon: -49.2648},
	"MT": {Lat: -15.6014, Lon: -56.0979},
	"MS": {Lat: -20.4697, Lon: -54.6201},
	"PR": {Lat: -25.4284, Lon: -49.2733},
	"RS": {Lat: -30.0346, Lon: -51.2177},
	"BA": {Lat: -12.9777, Lon: -38.5016},
	"TO": {Lat: -10.1753, Lon: -48.3318},
}

const jitterStep = 0.05

// CoordinateForProfessional resolves the displayed point for a directory entry.
// The point is the state centroid (or the country fallback) offset by a jitter
// derived from id mod 10, so entries sharing a state do not stack on one pixel.
// Same id and state always produce the same point; this is an approximation
// contract, not a geocode.
func CoordinateForProfessional(p Professional, centroids map[string]Coordinate, fallback Coordinate) Coordinate {
	base, ok := centroids[p.State]
	if !ok {
		base = fallback
	}
	jitter := float64(p.ID%10) * jitterStep
	return Coordinate{Lat: base.Lat + jitter, Lon: base.Lon + jitter}
}

// MapMarker is the view model for one map pin.
type MapMarker struct {
	ID          int64
	Name        string
	Type        string
	City        string
	State       string
	Phone       string
	Specialties string
	Coordinate  Coordinate
}

// MarkersForProfessionals builds pins for every directory entry.
func MarkersForProfessionals(professionals []Professional) []MapMarker {
	markers := make([]MapMarker, len(professionals))
	for i, p := range professionals {
		markers[i] = MapMarker{
			ID:          p.ID,
			Name:        p.Name,
			Type:        p.Type,
			City:        p.City,
			State:       p.State,
			Phone:       p.Phone,
			Specialties: p.Specialties,
			Coordinate:  CoordinateForProfessional(p, StateCentroids, BrazilCentroid),
		}
	}
	return markers
}
