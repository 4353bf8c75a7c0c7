package models

import "time"

// Flight is one row of a mock flight listing. Flights are generated on demand
// and never stored.
type Flight struct {
	Airline     string
	Origin      string
	Destination string
	Departure   time.Time
	Arrival     time.Time
	Duration    time.Duration
	Price       int // KRW
}

// FlightQuery holds the parameters of a flight listing request
type FlightQuery struct {
	Origin      string
	Destination string
	Date        string // YYYY-MM-DD
}
