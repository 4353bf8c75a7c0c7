package flights

import (
	"testing"
	"time"

	"github.com/Elijahuni/chatbot-1/internal/models"
)

func TestFormatPrice(t *testing.T) {
	tests := []struct {
		price int
		want  string
	}{
		{150000, "150,000원"},
		{1500000, "1,500,000원"},
		{999, "999원"},
		{1234567, "1,234,567원"},
	}

	for _, tt := range tests {
		if got := FormatPrice(tt.price); got != tt.want {
			t.Errorf("FormatPrice(%d) = %q, want %q", tt.price, got, tt.want)
		}
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{time.Hour, "1시간"},
		{8 * time.Hour, "8시간"},
		{90 * time.Minute, "1시간 30분"},
	}

	for _, tt := range tests {
		if got := FormatDuration(tt.d); got != tt.want {
			t.Errorf("FormatDuration(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestRows(t *testing.T) {
	dep := time.Date(2024, 5, 1, 22, 0, 0, 0, time.UTC)
	flights := []models.Flight{
		{
			Airline:     "진에어",
			Origin:      "서울",
			Destination: "제주",
			Departure:   dep,
			Arrival:     dep.Add(3 * time.Hour),
			Duration:    3 * time.Hour,
			Price:       250000,
		},
	}

	rows := Rows(flights)
	if len(rows) != 1 {
		t.Fatalf("Rows() returned %d rows, want 1", len(rows))
	}
	if len(rows[0]) != len(Headers) {
		t.Fatalf("row has %d cells, want %d", len(rows[0]), len(Headers))
	}

	want := []string{"진에어", "서울", "제주", "2024-05-01 22:00", "2024-05-02 01:00", "3시간", "250,000원"}
	for i, cell := range rows[0] {
		if cell != want[i] {
			t.Errorf("cell %d (%s) = %q, want %q", i, Headers[i], cell, want[i])
		}
	}
}

func TestHeaders(t *testing.T) {
	if len(Headers) != 7 {
		t.Errorf("Expected 7 columns, got %d", len(Headers))
	}
}
