package services

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/zatekoja/placeviewer/internal/domain/entities"
)

const minutesPerDay = 1440

// Open-state labels shown to the user.
const (
	LabelUnknown = "계산불가"
	LabelHoliday = "휴무"
	LabelClosed  = "영업종료"
	LabelBreak   = "브레이크타임"
	LabelOpen    = "영업중"
)

// EveryDayLabel marks a schedule entry that applies to any weekday.
const EveryDayLabel = "매일"

// weekdayLabels is indexed by time.Weekday (Sunday first).
var weekdayLabels = [7]string{"일", "월", "화", "수", "목", "금", "토"}

var (
	clockPattern     = regexp.MustCompile(`^(\d{1,2}):(\d{2})(?::\d{2})?$`)
	clockPrefixRegex = regexp.MustCompile(`^(\d{1,2}):(\d{2})`)
)

// ComputeOpenState evaluates the place's business hours at ref.
// detailHours is the raw record's "detailHours" value. A zero ref is treated
// as an invalid reference time.
func ComputeOpenState(place *entities.Place, detailHours any, ref time.Time) entities.OpenState {
	fallback := unknownOpenState(place.OpenDesc)
	if ref.IsZero() {
		return fallback
	}

	schedule, ok := detailHours.([]any)
	if !ok || len(schedule) == 0 {
		return fallback
	}

	entry := findScheduleEntry(schedule, weekdayLabels[ref.Weekday()])
	if entry == nil {
		return fallback
	}

	hours, _ := entry["businessHours"].(map[string]any)
	start, okStart := ParseTimeToMinutes(hours["start"])
	end, okEnd := ParseTimeToMinutes(hours["end"])
	if !okStart || !okEnd {
		if strings.Contains(place.OpenDesc, LabelHoliday) {
			return entities.OpenState{Label: LabelHoliday, Rank: entities.OpenRankHoliday, Code: entities.OpenCodeUnknown}
		}
		return fallback
	}

	now := ref.Hour()*60 + ref.Minute()
	overnight := end <= start
	if overnight {
		end += minutesPerDay
		if now < start {
			now += minutesPerDay
		}
	}

	if now < start || now >= end {
		return entities.OpenState{Label: LabelClosed, Rank: entities.OpenRankClosed, Code: entities.OpenCodeClosed}
	}

	breaks, _ := entry["breakHours"].([]any)
	for _, b := range breaks {
		window, _ := b.(map[string]any)
		bs, okStart := ParseTimeToMinutes(window["start"])
		be, okEnd := ParseTimeToMinutes(window["end"])
		if !okStart || !okEnd {
			continue
		}
		if be <= bs {
			be += minutesPerDay
		}
		if overnight && bs < start {
			bs += minutesPerDay
			be += minutesPerDay
		}
		if now >= bs && now < be {
			return entities.OpenState{Label: LabelBreak, Rank: entities.OpenRankBreak, Code: entities.OpenCodeBreak}
		}
	}

	return entities.OpenState{Label: LabelOpen, Rank: entities.OpenRankOpen, Code: entities.OpenCodeOpen}
}

func unknownOpenState(openDesc string) entities.OpenState {
	label := LabelUnknown
	if openDesc != "" {
		label = LabelUnknown + " · " + openDesc
	}
	return entities.OpenState{Label: label, Rank: entities.OpenRankUnknown, Code: entities.OpenCodeUnknown}
}

func findScheduleEntry(schedule []any, day string) map[string]any {
	for _, item := range schedule {
		if entry, ok := item.(map[string]any); ok && MatchDayLabel(entry["day"], day) {
			return entry
		}
	}
	for _, item := range schedule {
		if entry, ok := item.(map[string]any); ok {
			if d, ok := entry["day"].(string); ok && d == EveryDayLabel {
				return entry
			}
		}
	}
	return nil
}

// MatchDayLabel reports whether a schedule's day text names the given weekday
// label, e.g. "월", "월요일", "월(공휴일 제외)" all match "월".
func MatchDayLabel(dayText any, day string) bool {
	text, ok := dayText.(string)
	if !ok {
		return false
	}
	text = strings.TrimSpace(text)
	long := day + "요일"
	return text == day ||
		text == long ||
		strings.HasPrefix(text, day+"(") ||
		strings.HasPrefix(text, long+"(")
}

// ParseTimeToMinutes converts "HH:MM" or "HH:MM:SS" into minutes since
// midnight. "24:00" is accepted as the end of the day.
func ParseTimeToMinutes(v any) (int, bool) {
	text, ok := v.(string)
	if !ok {
		return 0, false
	}
	m := clockPattern.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	hh, _ := strconv.Atoi(m[1])
	mm, _ := strconv.Atoi(m[2])
	if hh > 24 || mm > 59 {
		return 0, false
	}
	if hh == 24 && mm != 0 {
		return 0, false
	}
	return hh*60 + mm, true
}

// ParseReferenceTime combines a "YYYY-MM-DD" date and an "HH:MM" clock in loc.
// A blank date or clock takes its part from now; a combination that does not
// form a valid time returns now.
func ParseReferenceTime(dateText, clockText string, now time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	now = now.In(loc)

	datePart := strings.TrimSpace(dateText)
	if datePart == "" {
		datePart = now.Format("2006-01-02")
	}
	clockPart := strings.TrimSpace(clockText)
	if clockPart == "" {
		clockPart = now.Format("15:04")
	}

	hh, mm := "00", "00"
	if m := clockPrefixRegex.FindStringSubmatch(clockPart); m != nil {
		hh = m[1]
		if len(hh) == 1 {
			hh = "0" + hh
		}
		mm = m[2]
	}

	ref, err := time.ParseInLocation("2006-01-02T15:04", datePart+"T"+hh+":"+mm, loc)
	if err != nil {
		return now
	}
	return ref
}
