package houses

import (
	"errors"
	"math"

	def "github.com/VinothKuppanna/walkmap/pkg/domain/definition"
	"github.com/dhconnelly/rtreego"
)

const (
	// DefaultHitTolerance is how far, in degrees, a click may land from a marker.
	DefaultHitTolerance = 0.002

	pointExtent = 1e-9
	minChildren = 4
	maxChildren = 16
)

var ErrNoHouseNearby = errors.New("no house near the given point")

type spatialHouse struct {
	position def.Coordinate
	ordinal  int
	rect     rtreego.Rect
}

func (h *spatialHouse) Bounds() rtreego.Rect {
	return h.rect
}

// Index answers nearest-marker queries over one house set.
type Index struct {
	tree *rtreego.Rtree
}

func NewIndex(houses []def.Coordinate) *Index {
	objects := make([]rtreego.Spatial, 0, len(houses))
	for i, house := range houses {
		objects = append(objects, &spatialHouse{
			position: house,
			ordinal:  i,
			rect:     rtreego.Point{house.Lat, house.Lng}.ToRect(pointExtent),
		})
	}
	return &Index{tree: rtreego.NewTree(2, minChildren, maxChildren, objects...)}
}

func (x *Index) Size() int {
	if x == nil || x.tree == nil {
		return 0
	}
	return x.tree.Size()
}

// Nearest returns the house closest to p together with its position in the
// set, or ErrNoHouseNearby when none lies within tolerance degrees.
func (x *Index) Nearest(p def.Coordinate, tolerance float64) (def.Coordinate, int, error) {
	if x.Size() == 0 {
		return def.Coordinate{}, -1, ErrNoHouseNearby
	}
	found, ok := x.tree.NearestNeighbor(rtreego.Point{p.Lat, p.Lng}).(*spatialHouse)
	if !ok || found == nil {
		return def.Coordinate{}, -1, ErrNoHouseNearby
	}
	if math.Hypot(found.position.Lat-p.Lat, found.position.Lng-p.Lng) > tolerance {
		return def.Coordinate{}, -1, ErrNoHouseNearby
	}
	return found.position, found.ordinal, nil
}
