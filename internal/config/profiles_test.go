package config

import (
	"errors"
	"strings"
	"testing"

	apierrors "github.com/Elijahuni/chatbot-1/internal/errors"
)

func TestProfiles(t *testing.T) {
	ps := Profiles()

	if len(ps) != 2 {
		t.Fatalf("Expected 2 profiles, got %d", len(ps))
	}
	if ps[0].ID != ProfileTravel || ps[1].ID != ProfileCoding {
		t.Errorf("Unexpected profile order: %s, %s", ps[0].ID, ps[1].ID)
	}

	for _, p := range ps {
		if p.Title == "" {
			t.Errorf("Profile %s has empty title", p.ID)
		}
		if p.SystemPrompt == "" {
			t.Errorf("Profile %s has empty system prompt", p.ID)
		}
		if p.Placeholder == "" {
			t.Errorf("Profile %s has empty placeholder", p.ID)
		}
	}
}

func TestProfilesReturnsCopy(t *testing.T) {
	ps := Profiles()
	ps[0].SystemPrompt = "changed"

	prompt, err := GetPrompt(ProfileTravel)
	if err != nil {
		t.Fatalf("GetPrompt() error: %v", err)
	}
	if prompt == "changed" {
		t.Error("Profiles() must not expose the registry")
	}
}

func TestGetPrompt(t *testing.T) {
	tests := []struct {
		id       ProfileID
		contains string
		wantErr  bool
	}{
		{ProfileTravel, "여행 상담사", false},
		{ProfileCoding, "프로그래밍 튜터", false},
		{"cooking", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(string(tt.id), func(t *testing.T) {
			prompt, err := GetPrompt(tt.id)
			if tt.wantErr {
				if err == nil {
					t.Fatal("Expected error, got nil")
				}
				if !errors.Is(err, apierrors.ErrUnknownProfile) {
					t.Errorf("Expected ErrUnknownProfile, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if !strings.Contains(prompt, tt.contains) {
				t.Errorf("Prompt for %s does not contain %q", tt.id, tt.contains)
			}
		})
	}
}

func TestGetPromptIsPure(t *testing.T) {
	a, _ := GetPrompt(ProfileCoding)
	b, _ := GetPrompt(ProfileCoding)
	if a != b {
		t.Error("GetPrompt should return the same prompt on every call")
	}
}

func TestTravelPromptMentionsTrigger(t *testing.T) {
	prompt, _ := GetPrompt(ProfileTravel)
	if !strings.Contains(prompt, FlightTrigger) {
		t.Errorf("Travel prompt should instruct the model to use %q", FlightTrigger)
	}
}

func TestFlightSearchOnlyForTravel(t *testing.T) {
	travel, _ := GetProfile(ProfileTravel)
	coding, _ := GetProfile(ProfileCoding)

	if !travel.FlightSearch {
		t.Error("Travel profile should enable flight search")
	}
	if coding.FlightSearch {
		t.Error("Coding profile should not enable flight search")
	}
}

func TestParseProfileID(t *testing.T) {
	tests := []struct {
		input   string
		want    ProfileID
		wantErr bool
	}{
		{"travel", ProfileTravel, false},
		{"  Coding ", ProfileCoding, false},
		{"TRAVEL", ProfileTravel, false},
		{"writer", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseProfileID(tt.input)
			if tt.wantErr && err == nil {
				t.Errorf("Expected error for %q", tt.input)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseProfileID(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestProfileIDs(t *testing.T) {
	ids := ProfileIDs()
	if len(ids) != 2 || ids[0] != ProfileTravel || ids[1] != ProfileCoding {
		t.Errorf("ProfileIDs() = %v", ids)
	}
}
