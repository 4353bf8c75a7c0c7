package intent

import (
	"testing"
	"time"
)

func TestClassify(t *testing.T) {
	today := time.Date(2024, 5, 1, 15, 30, 0, 0, time.UTC)

	tests := []struct {
		name    string
		text    string
		want    Kind
		trigger string
	}{
		{"korean trigger", "부산행 항공편 검색 결과입니다. 출발지: 서울, 도착지: 부산", ShowFlights, "항공편 검색"},
		{"english trigger", "Here is your flight search for Tokyo", ShowFlights, "flight search"},
		{"no trigger", "제주도는 4월에 가장 아름답습니다", NoAction, ""},
		{"empty", "", NoAction, ""},
		{"trigger split by space", "항공편  검색", NoAction, ""},
		{"case sensitive", "Flight Search", NoAction, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.text, today)
			if got.Kind != tt.want {
				t.Fatalf("Classify(%q).Kind = %v, want %v", tt.text, got.Kind, tt.want)
			}
			if got.Trigger != tt.trigger {
				t.Errorf("Trigger = %q, want %q", got.Trigger, tt.trigger)
			}
		})
	}
}

func TestClassifyUsesFixedParameters(t *testing.T) {
	today := time.Date(2025, 12, 24, 23, 59, 0, 0, time.UTC)

	// The reply names a different route and date; the listing ignores them.
	got := Classify("항공편 검색: 출발지 부산, 도착지 도쿄, 날짜 2026-01-03", today)

	if got.Kind != ShowFlights {
		t.Fatalf("Kind = %v, want ShowFlights", got.Kind)
	}
	if got.Query.Origin != "서울" || got.Query.Destination != "제주" {
		t.Errorf("route = %s -> %s, want 서울 -> 제주", got.Query.Origin, got.Query.Destination)
	}
	if got.Query.Date != "2025-12-24" {
		t.Errorf("date = %s, want 2025-12-24", got.Query.Date)
	}
}

func TestNoActionHasEmptyQuery(t *testing.T) {
	got := Classify("hello", time.Now())
	if got.Query.Origin != "" || got.Query.Date != "" {
		t.Errorf("NoAction should carry no query, got %+v", got.Query)
	}
}

func TestKindString(t *testing.T) {
	if NoAction.String() != "no_action" || ShowFlights.String() != "show_flights" {
		t.Errorf("unexpected Kind strings: %s, %s", NoAction, ShowFlights)
	}
}
