package output

import (
	"strings"

	"golang.org/x/text/language"
)

// messages holds the user-facing strings that vary by locale.
type messages struct {
	noActiveEntry string
	noEntries     string
	ongoing       string
	startLabel    string
	endLabel      string
	durationLabel string
	commentLabel  string
	tagsLabel     string
}

var english = messages{
	noActiveEntry: "No active time record",
	noEntries:     "No entries found",
	ongoing:       "ongoing",
	startLabel:    "start",
	endLabel:      "end",
	durationLabel: "duration",
	commentLabel:  "comment",
	tagsLabel:     "tags",
}

var korean = messages{
	noActiveEntry: "활성화된 시간 기록이 없습니다",
	noEntries:     "기록이 없습니다",
	ongoing:       "진행중",
	startLabel:    "시작",
	endLabel:      "종료",
	durationLabel: "시간",
	commentLabel:  "메모",
	tagsLabel:     "태그",
}

var matcher = language.NewMatcher([]language.Tag{
	language.English, // fallback
	language.Korean,
})

// messagesFor picks the message set for a BCP 47 locale string like "en",
// "en_US" or "ko". Unknown locales fall back to English.
func messagesFor(locale string) messages {
	// Settings files commonly use POSIX-style "ko_KR"; BCP 47 wants dashes.
	_, index := language.MatchStrings(matcher, strings.ReplaceAll(locale, "_", "-"))
	if index == 1 {
		return korean
	}
	return english
}
