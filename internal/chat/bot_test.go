package chat

import (
	"context"
	"errors"
	"testing"

	"github.com/Elijahuni/chatbot-1/internal/api"
	"github.com/Elijahuni/chatbot-1/internal/config"
	apierrors "github.com/Elijahuni/chatbot-1/internal/errors"
	"github.com/Elijahuni/chatbot-1/internal/flights"
	"github.com/Elijahuni/chatbot-1/internal/intent"
	"github.com/Elijahuni/chatbot-1/internal/telemetry"
)

func newTestBot(t *testing.T, mock *api.MockClient, profile config.ProfileID) *Bot {
	t.Helper()
	b := NewBot(mock, WithPostProcessor(testPostProcessor()), WithTelemetry(telemetry.Noop()))
	if profile != "" {
		if _, err := b.SelectProfile(profile); err != nil {
			t.Fatal(err)
		}
	}
	return b
}

func TestBotSendTravelWithTrigger(t *testing.T) {
	mock := api.NewMockClient([]string{"항공편 ", "검색", " 결과를 보여드릴게요."}, nil)
	b := newTestBot(t, mock, config.ProfileTravel)

	var streamed string
	turn, err := b.Send(context.Background(), "서울에서 제주 가는 비행기 알려줘", func(c string) { streamed += c })
	if err != nil {
		t.Fatalf("Send() error: %v", err)
	}
	if turn.Text != "항공편 검색 결과를 보여드릴게요." || streamed != turn.Text {
		t.Errorf("text = %q, streamed = %q", turn.Text, streamed)
	}
	if turn.Chunks != 3 {
		t.Errorf("Chunks = %d, want 3", turn.Chunks)
	}
	if !turn.Attachment.HasFlights() {
		t.Fatalf("expected a flight table, got %+v", turn.Attachment)
	}
	if len(b.Session().Visible()) != 2 {
		t.Errorf("visible history = %d, want 2", len(b.Session().Visible()))
	}
}

func TestBotSendCodingIgnoresTrigger(t *testing.T) {
	mock := api.NewMockClient([]string{"flight search is a classic graph problem"}, nil)
	b := newTestBot(t, mock, config.ProfileCoding)

	turn, err := b.Send(context.Background(), "explain BFS", nil)
	if err != nil {
		t.Fatal(err)
	}
	if turn.Attachment.Intent.Kind != intent.NoAction || turn.Attachment.HasFlights() {
		t.Errorf("coding profile should not attach flights, got %+v", turn.Attachment)
	}
}

func TestBotSendBlank(t *testing.T) {
	mock := api.NewMockClient([]string{"unused"}, nil)
	b := newTestBot(t, mock, config.ProfileTravel)

	turn, err := b.Send(context.Background(), "   ", nil)
	if turn != nil || err != nil {
		t.Errorf("blank Send = %v, %v; want nil, nil", turn, err)
	}
	if mock.CallCount() != 0 {
		t.Error("blank input must not call the model")
	}
}

func TestBotSendWithoutProfile(t *testing.T) {
	b := newTestBot(t, api.NewMockClient(nil, nil), "")
	if _, err := b.Send(context.Background(), "hello", nil); !errors.Is(err, apierrors.ErrSessionNotReady) {
		t.Errorf("error = %v, want ErrSessionNotReady", err)
	}
	if _, err := b.Reply(context.Background(), nil); !errors.Is(err, apierrors.ErrSessionNotReady) {
		t.Errorf("Reply error = %v, want ErrSessionNotReady", err)
	}
}

func TestBotReplyError(t *testing.T) {
	mock := api.NewMockClient(nil, apierrors.NewAPIError(401, "chat/completions", "Incorrect API key"))
	b := newTestBot(t, mock, config.ProfileTravel)

	turn, err := b.Send(context.Background(), "hello", nil)
	if turn != nil {
		t.Error("failed turn should return nil")
	}
	if !apierrors.IsAuthError(err) {
		t.Errorf("error = %v, want auth error", err)
	}
	// user message stays, no assistant message
	if n := b.Session().Len(); n != 2 {
		t.Errorf("history length = %d, want 2", n)
	}
}

func TestBotGenerationErrorDoesNotFailTurn(t *testing.T) {
	mock := api.NewMockClient([]string{"항공편 검색"}, nil)
	post := &PostProcessor{Generator: flights.NewGenerator(nil)}
	b := NewBot(mock, WithPostProcessor(post))
	_, _ = b.SelectProfile(config.ProfileTravel)

	turn, err := b.Send(context.Background(), "flights please", nil)
	if err != nil {
		t.Fatalf("generation failure must not fail the turn: %v", err)
	}
	if !apierrors.IsGenerationError(turn.Attachment.Err) {
		t.Errorf("Attachment.Err = %v, want GenerationError", turn.Attachment.Err)
	}
	if b.Session().Len() != 3 {
		t.Error("assistant reply should still be recorded")
	}
}

func TestBotDirectSearch(t *testing.T) {
	b := newTestBot(t, api.NewMockClient(nil, nil), config.ProfileTravel)
	before := b.Session().Len()

	list, err := b.DirectSearch("부산", "도쿄", "2024-06-01")
	if err != nil {
		t.Fatalf("DirectSearch error: %v", err)
	}
	if len(list) != flights.FlightsPerListing || list[0].Origin != "부산" || list[0].Destination != "도쿄" {
		t.Errorf("unexpected listing %+v", list)
	}
	if b.Session().Len() != before {
		t.Error("direct search must not touch the history")
	}
}

func TestBotDirectSearchErrors(t *testing.T) {
	coding := newTestBot(t, api.NewMockClient(nil, nil), config.ProfileCoding)
	if _, err := coding.DirectSearch("a", "b", "2024-06-01"); !errors.Is(err, apierrors.ErrFlightSearchUnavailable) {
		t.Errorf("coding profile error = %v, want ErrFlightSearchUnavailable", err)
	}

	none := newTestBot(t, api.NewMockClient(nil, nil), "")
	if _, err := none.DirectSearch("a", "b", "2024-06-01"); !errors.Is(err, apierrors.ErrFlightSearchUnavailable) {
		t.Errorf("no profile error = %v, want ErrFlightSearchUnavailable", err)
	}

	travel := newTestBot(t, api.NewMockClient(nil, nil), config.ProfileTravel)
	if _, err := travel.DirectSearch("a", "b", "06/01/2024"); !errors.Is(err, apierrors.ErrInvalidDate) {
		t.Errorf("bad date error = %v, want ErrInvalidDate", err)
	}
}

func TestBotSelectProfile(t *testing.T) {
	b := newTestBot(t, api.NewMockClient(nil, nil), "")

	if changed, err := b.SelectProfile(config.ProfileTravel); !changed || err != nil {
		t.Errorf("first select = %v, %v", changed, err)
	}
	if changed, _ := b.SelectProfile(config.ProfileTravel); changed {
		t.Error("reselect should report no change")
	}
	if _, err := b.SelectProfile("unknown"); !errors.Is(err, apierrors.ErrUnknownProfile) {
		t.Errorf("error = %v, want ErrUnknownProfile", err)
	}
	p, ok := b.ActiveProfile()
	if !ok || p.ID != config.ProfileTravel {
		t.Errorf("ActiveProfile() = %v, %v", p.ID, ok)
	}
}

func TestBotRecordsModel(t *testing.T) {
	mock := api.NewMockClient(nil, nil)
	b := NewBot(mock)
	if conv := b.Session().Snapshot(); conv.Model != mock.GetModel().Name {
		t.Errorf("snapshot model = %q, want %q", conv.Model, mock.GetModel().Name)
	}
}
