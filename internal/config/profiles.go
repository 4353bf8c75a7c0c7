package config

import (
	"fmt"
	"strings"

	apierrors "github.com/Elijahuni/chatbot-1/internal/errors"
)

// ProfileID identifies one of the fixed chat profiles
type ProfileID string

// The profile set is closed: there is no registration at runtime.
const (
	ProfileTravel ProfileID = "travel"
	ProfileCoding ProfileID = "coding"
)

// FlightTrigger is the phrase the travel prompt asks the model to use when it
// talks about flights. The response post-processor looks for it.
const FlightTrigger = "항공편 검색"

// Profile represents a persona with a fixed system prompt
type Profile struct {
	ID           ProfileID
	Title        string // Shown in the header and selector
	Description  string
	Placeholder  string // Chat input hint
	SystemPrompt string
	// FlightSearch enables mock flight tables and the direct search form
	FlightSearch bool
}

var travelPrompt = `당신은 전문적인 여행 상담사입니다. 다음 원칙들을 따라 사용자와 대화해주세요:

핵심 역할:
- 전 세계 여행지에 대한 맞춤형 추천과 정보 제공
- 여행 계획 수립 지원
- 예산과 일정에 맞는 최적의 제안 제시

대화 스타일:
- 친근하고 열정적인 톤 유지
- 구체적인 예시와 실용적인 팁 제공
- 사용자의 선호도와 제약사항을 항상 고려

항공편 안내:
- 사용자가 항공편을 물어보면 답변에 "` + FlightTrigger + `"이라는 문구를 포함하세요
- 출발지, 도착지, 날짜(YYYY-MM-DD)를 명확하게 적어주세요`

var codingPrompt = `당신은 친절하고 전문적인 프로그래밍 튜터입니다. 다음 원칙들을 따라 학습자를 지도해주세요:

핵심 역할:
- 프로그래밍 개념 설명
- 코드 리뷰와 디버깅 지원
- 모범 사례와 패턴 안내
- 학습 경로 추천

교육 방식:
- 단계별 설명 제공
- 실제 예제 코드 활용
- 학습자의 수준에 맞춘 설명
- 실수를 통한 학습 장려`

var profiles = []Profile{
	{
		ID:           ProfileTravel,
		Title:        "여행 상담 챗봇",
		Description:  "여행지 추천과 여행 계획 수립을 도와드립니다",
		Placeholder:  "여행 계획에 대해 물어보세요!",
		SystemPrompt: travelPrompt,
		FlightSearch: true,
	},
	{
		ID:           ProfileCoding,
		Title:        "코딩 튜터 챗봇",
		Description:  "프로그래밍 학습을 도와드립니다",
		Placeholder:  "프로그래밍 관련 질문을 해주세요!",
		SystemPrompt: codingPrompt,
	},
}

// Profiles returns all profiles in display order
func Profiles() []Profile {
	out := make([]Profile, len(profiles))
	copy(out, profiles)
	return out
}

// ProfileIDs returns the ids of all profiles in display order
func ProfileIDs() []ProfileID {
	ids := make([]ProfileID, len(profiles))
	for i, p := range profiles {
		ids[i] = p.ID
	}
	return ids
}

// GetProfile returns a profile by id
func GetProfile(id ProfileID) (Profile, error) {
	for _, p := range profiles {
		if p.ID == id {
			return p, nil
		}
	}
	return Profile{}, fmt.Errorf("profile '%s': %w", id, apierrors.ErrUnknownProfile)
}

// GetPrompt returns the fixed system prompt of a profile
func GetPrompt(id ProfileID) (string, error) {
	p, err := GetProfile(id)
	if err != nil {
		return "", err
	}
	return p.SystemPrompt, nil
}

// ParseProfileID converts user input into a ProfileID
func ParseProfileID(s string) (ProfileID, error) {
	id := ProfileID(strings.ToLower(strings.TrimSpace(s)))
	if _, err := GetProfile(id); err != nil {
		return "", err
	}
	return id, nil
}
