package houses

import (
	"math/rand"
	"sync"
	"time"

	def "github.com/VinothKuppanna/walkmap/pkg/domain/definition"
)

const (
	DefaultCount = 50
	// DefaultDivisor bounds every offset to 1/35 of a degree on each axis.
	DefaultDivisor = 35.0
)

// Generator scatters houses around an office. It is safe for concurrent use.
type Generator struct {
	count   int
	divisor float64

	mu  sync.Mutex
	rnd *rand.Rand
}

func NewGenerator(count int, divisor float64, source rand.Source) *Generator {
	if count <= 0 {
		count = DefaultCount
	}
	if divisor <= 0 {
		divisor = DefaultDivisor
	}
	if source == nil {
		source = rand.NewSource(time.Now().UnixNano())
	}
	return &Generator{count: count, divisor: divisor, rnd: rand.New(source)}
}

// Derive returns a fresh set of houses for the office. Each house draws one
// sign shared by both axes and independent magnitudes in [0, 1/divisor).
func (g *Generator) Derive(office def.Coordinate) []def.Coordinate {
	g.mu.Lock()
	defer g.mu.Unlock()

	houses := make([]def.Coordinate, 0, g.count)
	for i := 0; i < g.count; i++ {
		direction := g.divisor
		if g.rnd.Float64() < 0.5 {
			direction = -g.divisor
		}
		houses = append(houses, def.Coordinate{
			Lat: office.Lat + g.rnd.Float64()/direction,
			Lng: office.Lng + g.rnd.Float64()/direction,
		})
	}
	return houses
}
