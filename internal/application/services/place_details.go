package services

import (
	"strings"

	"github.com/zatekoja/placeviewer/internal/domain/entities"
	"github.com/zatekoja/placeviewer/pkg/coerce"
)

// Feed keyword sets used to surface supporting posts for option badges.
var (
	PetFeedKeywords     = []string{"반려동물", "반려견", "강아지", "애견", "반려묘", "고양이", "펫"}
	TakeoutFeedKeywords = []string{"포장", "테이크아웃", "takeout"}
	ParkingFeedKeywords = []string{"주차"}
)

// DefaultFeedSnippetLimit caps FeedSnippets when the caller passes no limit.
const DefaultFeedSnippetLimit = 3

// FormatDetailHours renders the weekly schedule of a raw record, one line per
// entry, e.g. "월  09:00–18:00  (브레이크 15:00–16:00)  L.O 17:30".
func FormatDetailHours(raw entities.RawRecord) []string {
	if raw == nil {
		return nil
	}
	schedule, ok := raw["detailHours"].([]any)
	if !ok || len(schedule) == 0 {
		return nil
	}

	lines := make([]string, 0, len(schedule))
	for _, item := range schedule {
		entry, _ := item.(map[string]any)
		day := coerce.ToText(entry["day"])

		hours, _ := entry["businessHours"].(map[string]any)
		if hours == nil || !coerce.Truthy(hours["start"]) {
			lines = append(lines, day+"  "+LabelHoliday)
			continue
		}

		var line strings.Builder
		line.WriteString(day + "  " + jsText(hours["start"]) + "–" + jsText(hours["end"]))

		if breaks, ok := entry["breakHours"].([]any); ok && len(breaks) > 0 {
			windows := make([]string, len(breaks))
			for i, b := range breaks {
				window, _ := b.(map[string]any)
				windows[i] = jsText(window["start"]) + "–" + jsText(window["end"])
			}
			line.WriteString("  (브레이크 " + strings.Join(windows, ", ") + ")")
		}

		if lastOrders, ok := entry["lastOrderTimes"].([]any); ok {
			var times []string
			for _, lo := range lastOrders {
				order, _ := lo.(map[string]any)
				if coerce.Truthy(order["time"]) {
					times = append(times, coerce.ToText(order["time"]))
				}
			}
			if len(times) > 0 {
				line.WriteString("  L.O " + strings.Join(times, ", "))
			}
		}
		lines = append(lines, line.String())
	}
	return lines
}

// jsText renders a missing value the way a template literal would.
func jsText(v any) string {
	if v == nil {
		return "undefined"
	}
	return coerce.ToText(v)
}

// FeedSnippets returns up to limit distinct feed posts whose title or body
// mentions any keyword, separated by blank lines.
func FeedSnippets(raw entities.RawRecord, keywords []string, limit int) string {
	if raw == nil || len(keywords) == 0 {
		return ""
	}
	feeds, ok := raw["feeds"].([]any)
	if !ok || len(feeds) == 0 {
		return ""
	}
	if limit <= 0 {
		limit = DefaultFeedSnippetLimit
	}

	lowered := make([]string, len(keywords))
	for i, k := range keywords {
		lowered[i] = strings.ToLower(k)
	}

	seen := make(map[string]struct{})
	var rows []string
	for _, item := range feeds {
		feed, _ := item.(map[string]any)
		title := coerce.CollapseSpace(coerce.ToText(feed["title"]))
		desc := coerce.CollapseSpace(coerce.ToText(feed["desc"]))
		haystack := strings.ToLower(title + " " + desc)

		matched := false
		for _, k := range lowered {
			if strings.Contains(haystack, k) {
				matched = true
				break
			}
		}
		if !matched {
			continue
		}

		snippet := desc
		if title != "" {
			snippet = title
			if desc != "" {
				snippet += "\n" + desc
			}
		}
		if snippet == "" {
			continue
		}
		if _, dup := seen[snippet]; dup {
			continue
		}
		seen[snippet] = struct{}{}
		rows = append(rows, snippet)
		if len(rows) >= limit {
			break
		}
	}
	return strings.Join(rows, "\n\n")
}
