package chat

import (
	"time"

	apierrors "github.com/Elijahuni/chatbot-1/internal/errors"
	"github.com/Elijahuni/chatbot-1/internal/flights"
	"github.com/Elijahuni/chatbot-1/internal/intent"
	"github.com/Elijahuni/chatbot-1/internal/models"
)

// Attachment is extra content shown under an assistant reply
type Attachment struct {
	Intent  intent.Result
	Flights []models.Flight
	Err     error
}

// HasFlights reports whether a flight table should be shown
func (a Attachment) HasFlights() bool {
	return a.Intent.Kind == intent.ShowFlights && a.Err == nil && len(a.Flights) > 0
}

// PostProcessor turns a finished reply into an Attachment
type PostProcessor struct {
	Generator *flights.Generator
	Now       func() time.Time
}

// NewPostProcessor creates a PostProcessor using the wall clock
func NewPostProcessor(gen *flights.Generator) *PostProcessor {
	return &PostProcessor{Generator: gen, Now: time.Now}
}

// Process classifies text and generates flights when it asks for them.
// A generation failure is kept in Attachment.Err; it does not fail the turn.
func (p *PostProcessor) Process(text string) Attachment {
	now := time.Now
	if p.Now != nil {
		now = p.Now
	}

	result := intent.Classify(text, now())
	att := Attachment{Intent: result}
	if result.Kind != intent.ShowFlights {
		return att
	}

	list, err := p.Generator.GenerateQuery(result.Query)
	if err != nil {
		att.Err = apierrors.NewGenerationError("could not build the flight listing", err)
		return att
	}
	att.Flights = list
	return att
}
