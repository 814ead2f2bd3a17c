package houses

import (
	def "github.com/VinothKuppanna/walkmap/pkg/domain/definition"
	"github.com/umahmood/haversine"
)

type Band string

const (
	BandNear    Band = "near"
	BandMiddle  Band = "middle"
	BandFar     Band = "far"
	BandOutside Band = "outside"
)

// Ring radii in meters: half a mile, one mile, two miles.
const (
	NearRadius   = 804.672
	MiddleRadius = 1609.34
	FarRadius    = 3218.69
)

// DistanceMeters is the great-circle distance between two coordinates.
func DistanceMeters(from, to def.Coordinate) float64 {
	_, km := haversine.Distance(
		haversine.Coord{Lat: from.Lat, Lon: from.Lng},
		haversine.Coord{Lat: to.Lat, Lon: to.Lng},
	)
	return km * 1000
}

// BandOf tells which ring around the office the house falls in.
func BandOf(office, house def.Coordinate) Band {
	switch d := DistanceMeters(office, house); {
	case d <= NearRadius:
		return BandNear
	case d <= MiddleRadius:
		return BandMiddle
	case d <= FarRadius:
		return BandFar
	default:
		return BandOutside
	}
}
