package definition

import (
	"fmt"
	"math"

	"github.com/pkg/errors"
)

var ErrInvalidCoordinate = errors.New("invalid coordinate")

// Coordinate is a point on the map given in degrees.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Validate checks the coordinate is a real location. The map's own default
// center is never validated, it relies on the renderer wrapping longitudes.
func (c Coordinate) Validate() error {
	if math.IsNaN(c.Lat) || math.IsNaN(c.Lng) || math.IsInf(c.Lat, 0) || math.IsInf(c.Lng, 0) {
		return errors.Wrapf(ErrInvalidCoordinate, "coordinate must be finite, got %v", c)
	}
	if c.Lat < -90 || c.Lat > 90 {
		return errors.Wrapf(ErrInvalidCoordinate, "latitude must be within the range [-90, 90], got %v", c.Lat)
	}
	if c.Lng < -180 || c.Lng > 180 {
		return errors.Wrapf(ErrInvalidCoordinate, "longitude must be within the range [-180, 180], got %v", c.Lng)
	}
	return nil
}

func (c Coordinate) String() string {
	return fmt.Sprintf("%v,%v", c.Lat, c.Lng)
}
