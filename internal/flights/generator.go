// Package flights produces mock flight listings.
//
// Listings are random and never stored. Tests inject a deterministic Source.
package flights

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	apierrors "github.com/Elijahuni/chatbot-1/internal/errors"
	"github.com/Elijahuni/chatbot-1/internal/models"
)

// DateLayout is the accepted date format
const DateLayout = "2006-01-02"

// Listing shape
const (
	FlightsPerListing = 5
	MinDurationHours  = 1
	MaxDurationHours  = 8
	MinPrice          = 150000
	MaxPrice          = 1500000
)

// Airlines are the carriers a listing draws from
var Airlines = [...]string{
	"대한항공",
	"아시아나항공",
	"제주항공",
	"진에어",
	"티웨이항공",
}

// Source is the random source used by a Generator. *rand.Rand satisfies it.
type Source interface {
	IntN(n int) int
}

// Generator produces mock flight listings
type Generator struct {
	src      Source
	location *time.Location
}

// GeneratorOption configures a Generator
type GeneratorOption func(*Generator)

// WithLocation sets the time zone departure times are placed in
func WithLocation(loc *time.Location) GeneratorOption {
	return func(g *Generator) {
		if loc != nil {
			g.location = loc
		}
	}
}

// NewGenerator creates a Generator drawing from src
func NewGenerator(src Source, opts ...GeneratorOption) *Generator {
	g := &Generator{
		src:      src,
		location: time.Local,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// NewRandomGenerator creates a Generator seeded from the clock
func NewRandomGenerator(opts ...GeneratorOption) *Generator {
	seed := uint64(time.Now().UnixNano())
	return NewGenerator(rand.New(rand.NewPCG(seed, seed>>32|1)), opts...)
}

// Generate returns FlightsPerListing independently randomized flights for the
// given route and date. Origin and destination are not validated.
func (g *Generator) Generate(origin, destination, dateISO string) ([]models.Flight, error) {
	if g == nil || g.src == nil {
		return nil, fmt.Errorf("flight generator has no random source")
	}

	day, err := time.ParseInLocation(DateLayout, strings.TrimSpace(dateISO), g.location)
	if err != nil {
		return nil, fmt.Errorf("%w: %q is not YYYY-MM-DD", apierrors.ErrInvalidDate, dateISO)
	}

	flights := make([]models.Flight, 0, FlightsPerListing)
	for i := 0; i < FlightsPerListing; i++ {
		flights = append(flights, g.one(origin, destination, day))
	}
	return flights, nil
}

// GenerateQuery is Generate for a FlightQuery
func (g *Generator) GenerateQuery(q models.FlightQuery) ([]models.Flight, error) {
	return g.Generate(q.Origin, q.Destination, q.Date)
}

func (g *Generator) one(origin, destination string, day time.Time) models.Flight {
	airline := Airlines[g.src.IntN(len(Airlines))]
	hour := g.src.IntN(24)
	hours := MinDurationHours + g.src.IntN(MaxDurationHours-MinDurationHours+1)
	price := MinPrice + g.src.IntN(MaxPrice-MinPrice+1)

	departure := time.Date(day.Year(), day.Month(), day.Day(), hour, 0, 0, 0, day.Location())
	duration := time.Duration(hours) * time.Hour

	return models.Flight{
		Airline:     airline,
		Origin:      origin,
		Destination: destination,
		Departure:   departure,
		Arrival:     departure.Add(duration),
		Duration:    duration,
		Price:       price,
	}
}
