// Package intent classifies assistant replies into follow-up actions.
package intent

import (
	"strings"
	"time"

	"github.com/Elijahuni/chatbot-1/internal/config"
	"github.com/Elijahuni/chatbot-1/internal/models"
)

// Kind is the action a reply asks for
type Kind int

const (
	NoAction Kind = iota
	ShowFlights
)

func (k Kind) String() string {
	switch k {
	case ShowFlights:
		return "show_flights"
	default:
		return "no_action"
	}
}

// Triggers are matched as exact substrings of the reply
var Triggers = []string{config.FlightTrigger, "flight search"}

// Parameters used for every flight listing triggered from a reply.
// The reply itself is not parsed for a route or date.
const (
	DefaultOrigin      = "서울"
	DefaultDestination = "제주"
)

// Result is the outcome of classifying a reply. Query is set only for ShowFlights.
type Result struct {
	Kind    Kind
	Trigger string
	Query   models.FlightQuery
}

// Classify inspects a finished reply. today supplies the listing date.
func Classify(text string, today time.Time) Result {
	for _, trigger := range Triggers {
		if strings.Contains(text, trigger) {
			return Result{
				Kind:    ShowFlights,
				Trigger: trigger,
				Query: models.FlightQuery{
					Origin:      DefaultOrigin,
					Destination: DefaultDestination,
					Date:        today.Format("2006-01-02"),
				},
			}
		}
	}
	return Result{Kind: NoAction}
}
