package chat

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"

	"github.com/Elijahuni/chatbot-1/internal/api"
	"github.com/Elijahuni/chatbot-1/internal/config"
	apierrors "github.com/Elijahuni/chatbot-1/internal/errors"
	"github.com/Elijahuni/chatbot-1/internal/flights"
	"github.com/Elijahuni/chatbot-1/internal/models"
	"github.com/Elijahuni/chatbot-1/internal/telemetry"
)

// Turn is the outcome of one completed assistant reply
type Turn struct {
	Text       string
	Attachment Attachment
	Chunks     int
}

// Bot runs conversation turns against a model client
type Bot struct {
	session  *Session
	streamer api.Streamer
	post     *PostProcessor
	logger   *slog.Logger
	tracer   trace.Tracer

	turns        metric.Int64Counter
	streamChunks metric.Int64Counter
	tables       metric.Int64Counter
}

// BotOption configures a Bot
type BotOption func(*Bot)

// WithLogger sets the structured logger
func WithLogger(logger *slog.Logger) BotOption {
	return func(b *Bot) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// WithTelemetry sets the tracer and meter
func WithTelemetry(tel *telemetry.Telemetry) BotOption {
	return func(b *Bot) {
		if tel != nil {
			b.tracer = tel.Tracer
			b.initCounters(tel.Meter)
		}
	}
}

// WithPostProcessor replaces the default post-processor
func WithPostProcessor(p *PostProcessor) BotOption {
	return func(b *Bot) {
		if p != nil {
			b.post = p
		}
	}
}

// WithSession uses an existing session instead of a new one
func WithSession(s *Session) BotOption {
	return func(b *Bot) {
		if s != nil {
			b.session = s
		}
	}
}

// NewBot creates a Bot with an uninitialized session
func NewBot(streamer api.Streamer, opts ...BotOption) *Bot {
	noop := telemetry.Noop()
	b := &Bot{
		session:  NewSession(),
		streamer: streamer,
		post:     NewPostProcessor(flights.NewRandomGenerator()),
		logger:   telemetry.Discard(),
		tracer:   noop.Tracer,
	}
	b.initCounters(noop.Meter)

	for _, opt := range opts {
		opt(b)
	}

	if c, ok := streamer.(api.ChatClient); ok {
		b.session.SetModel(c.GetModel().Name)
	}
	return b
}

func (b *Bot) initCounters(meter metric.Meter) {
	b.turns = counter(meter, "chat.turns", "Completed assistant replies")
	b.streamChunks = counter(meter, "chat.stream.chunks", "Streamed reply fragments")
	b.tables = counter(meter, "flights.tables", "Flight tables generated")
}

func counter(meter metric.Meter, name, description string) metric.Int64Counter {
	c, err := meter.Int64Counter(name, metric.WithDescription(description))
	if err != nil {
		c, _ = metricnoop.Meter{}.Int64Counter(name)
	}
	return c
}

// Session returns the underlying session
func (b *Bot) Session() *Session {
	return b.session
}

// ActiveProfile returns the selected profile, if any
func (b *Bot) ActiveProfile() (config.Profile, bool) {
	id, ok := b.session.Profile()
	if !ok {
		return config.Profile{}, false
	}
	p, err := config.GetProfile(id)
	return p, err == nil
}

// SelectProfile activates a profile, resetting history when it changes
func (b *Bot) SelectProfile(id config.ProfileID) (bool, error) {
	changed, err := b.session.SelectProfile(id)
	if err != nil {
		b.logger.Warn("profile selection rejected", "profile", string(id), "error", err)
		return false, err
	}
	if changed {
		b.logger.Info("profile selected", "profile", string(id), "session", b.session.ID())
	}
	return changed, nil
}

// Submit appends a user message. Blank input returns false.
func (b *Bot) Submit(text string) (bool, error) {
	return b.session.SubmitUserMessage(text)
}

// Reply streams the assistant reply to the current history and runs the
// post-processor for profiles with flight search. Stream errors are returned
// unchanged and leave the history as it was.
func (b *Bot) Reply(ctx context.Context, onChunk func(string)) (*Turn, error) {
	id, ok := b.session.Profile()
	if !ok {
		return nil, apierrors.ErrSessionNotReady
	}

	ctx, span := b.tracer.Start(ctx, "chat.reply")
	defer span.End()
	span.SetAttributes(
		attribute.String("chat.profile", string(id)),
		attribute.Int("chat.transcript.length", b.session.Len()),
	)

	chunks := 0
	text, err := b.session.RequestAssistantReply(ctx, b.streamer, func(chunk string) {
		chunks++
		if onChunk != nil {
			onChunk(chunk)
		}
	})
	span.SetAttributes(attribute.Int("chat.stream.chunks", chunks))
	b.streamChunks.Add(ctx, int64(chunks), metric.WithAttributes(attribute.String("profile", string(id))))

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		b.logger.Error("assistant reply failed",
			"profile", string(id),
			"chunks", chunks,
			"status", apierrors.GetHTTPStatus(err),
			"error", err,
		)
		return nil, err
	}

	turn := &Turn{Text: text, Chunks: chunks}
	b.turns.Add(ctx, 1, metric.WithAttributes(attribute.String("profile", string(id))))

	if p, err := config.GetProfile(id); err == nil && p.FlightSearch {
		turn.Attachment = b.post.Process(text)
		b.recordAttachment(ctx, span, turn.Attachment)
	}

	b.logger.Info("assistant reply completed",
		"profile", string(id),
		"chunks", chunks,
		"length", len(text),
		"intent", turn.Attachment.Intent.Kind.String(),
	)
	return turn, nil
}

func (b *Bot) recordAttachment(ctx context.Context, span trace.Span, att Attachment) {
	span.SetAttributes(attribute.String("chat.intent", att.Intent.Kind.String()))
	if att.Err != nil {
		span.RecordError(att.Err)
		b.logger.Error("flight generation failed", "error", att.Err)
		return
	}
	if att.HasFlights() {
		b.tables.Add(ctx, 1)
		b.logger.Debug("flight table generated",
			"origin", att.Intent.Query.Origin,
			"destination", att.Intent.Query.Destination,
			"date", att.Intent.Query.Date,
		)
	}
}

// Send submits text and requests a reply. Blank text returns nil, nil.
func (b *Bot) Send(ctx context.Context, text string, onChunk func(string)) (*Turn, error) {
	appended, err := b.Submit(text)
	if err != nil {
		return nil, err
	}
	if !appended {
		return nil, nil
	}
	return b.Reply(ctx, onChunk)
}

// DirectSearch builds a flight listing for explicit parameters without
// touching the conversation. It is only available for the travel profile.
func (b *Bot) DirectSearch(origin, destination, date string) ([]models.Flight, error) {
	p, ok := b.ActiveProfile()
	if !ok || !p.FlightSearch {
		return nil, apierrors.ErrFlightSearchUnavailable
	}

	list, err := b.post.Generator.Generate(origin, destination, date)
	if err != nil {
		b.logger.Warn("direct flight search failed", "date", date, "error", err)
		return nil, fmt.Errorf("flight search: %w", err)
	}
	b.tables.Add(context.Background(), 1, metric.WithAttributes(attribute.String("source", "direct")))
	return list, nil
}
