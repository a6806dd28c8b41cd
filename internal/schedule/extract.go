package schedule

import (
	"regexp"
	"strings"

	"github.com/N724/kcb/internal/stringutil"
)

var (
	titleRegex     = regexp.MustCompile(`【([^【】]+)】`)
	weekLabelRegex = regexp.MustCompile(`第\s*(\d{1,2})\s*教学周(（[^（）]*）)?`)
)

// Labels some revisions prefix field values with ("👨🏫 教师：王老师").
// They are presentation noise and stripped from extracted values.
var fieldLabels = []string{
	"授课教师", "教师", "老师",
	"上课地点", "地点", "教室",
	"上课时间", "时间",
	"周次",
}

// ExtractCourses pulls course entries out of the course block. It is a
// tolerant multi-pattern matcher, not a grammar: an entry starts at a
// 【title】 line and collects teacher/location/time/weeks fields from the
// following lines in flexible order until the next title line. Fields
// whose marker never appears stay empty; a title with no detail lines at
// all still yields an entry plus a warning.
//
// An empty block returns no entries and no warning, the valid "no
// classes" state.
func ExtractCourses(block string, d Dialect) ([]CourseEntry, []ParseWarning) {
	block = strings.TrimSpace(block)
	if block == "" {
		return nil, nil
	}

	var entries []CourseEntry
	var warnings []ParseWarning

	var current *CourseEntry
	fieldsSeen := false

	flush := func() {
		if current == nil {
			return
		}
		if !fieldsSeen {
			warnings = append(warnings, ParseWarning{
				Section: SegmentCourseBlock,
				Reason:  "course 「" + current.Name + "」 has a title but no detail lines",
			})
		}
		entries = append(entries, *current)
		current = nil
	}

	for _, line := range strings.Split(block, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if m := titleRegex.FindStringSubmatch(line); m != nil {
			flush()
			current = &CourseEntry{Name: strings.TrimSpace(m[1])}
			fieldsSeen = false
			// Detail markers may share the title line in compact
			// revisions; fall through with the remainder.
			line = strings.Replace(line, m[0], "", 1)
			if strings.TrimSpace(line) == "" {
				continue
			}
		}
		if current == nil {
			// Text before the first title carries no course fields.
			continue
		}

		if extractCourseFields(line, d, current) {
			fieldsSeen = true
		}
	}
	flush()

	return entries, warnings
}

// extractCourseFields scans one line for teacher/location/time/weeks
// markers and fills the matching empty fields of entry. Returns whether
// anything was extracted.
func extractCourseFields(line string, d Dialect, entry *CourseEntry) bool {
	found := false

	if idx, marker := stringutil.FirstIndexAny(line, d.TeacherMarkers...); idx >= 0 {
		value := line[idx+len(marker):]
		if entry.Teacher == "" {
			entry.Teacher = trimFieldValue(cutAtMarkers(value, d.LocationMarker, d.TimeMarker))
			found = entry.Teacher != "" || found
		}
		line = value
	}

	if idx := strings.Index(line, d.LocationMarker); idx >= 0 {
		value := line[idx+len(d.LocationMarker):]
		if entry.Location == "" {
			entry.Location = trimFieldValue(cutAtMarkers(value, d.TimeMarker))
			found = entry.Location != "" || found
		}
		line = value
	}

	if idx := strings.Index(line, d.TimeMarker); idx >= 0 {
		value := line[idx+len(d.TimeMarker):]
		if entry.TimeRange == "" {
			stop := append([]string{"└"}, d.WeeksMarkers...)
			entry.TimeRange = trimFieldValue(cutAtMarkers(value, stop...))
			found = entry.TimeRange != "" || found
		}
		line = value
	}

	if idx, marker := stringutil.FirstIndexAny(line, d.WeeksMarkers...); idx >= 0 {
		value := line[idx+len(marker):]
		if entry.Weeks == "" {
			entry.Weeks = trimFieldValue(cutAtMarkers(value, "└"))
			found = entry.Weeks != "" || found
		}
	}

	return found
}

// cutAtMarkers truncates s at the earliest occurrence of any marker.
func cutAtMarkers(s string, markers ...string) string {
	if idx, _ := stringutil.FirstIndexAny(s, markers...); idx >= 0 {
		return s[:idx]
	}
	return s
}

// trimFieldValue cleans one extracted field: surrounding space and frame
// characters go, then a leading presentation label ("教师：") if present.
func trimFieldValue(s string) string {
	s = strings.Trim(s, " \t└┌│")
	for _, label := range fieldLabels {
		rest, ok := strings.CutPrefix(s, label)
		if !ok {
			continue
		}
		rest = strings.TrimLeft(rest, " ")
		if cut, ok := strings.CutPrefix(rest, "："); ok {
			s = cut
		} else if cut, ok := strings.CutPrefix(rest, ":"); ok {
			s = cut
		} else {
			continue
		}
		break
	}
	return strings.TrimSpace(s)
}

// Weather field keys, matched against the key side of 键：值 pairs.
var weatherKeys = []struct {
	tokens []string
	assign func(*WeatherReading, string)
}{
	{[]string{"体感"}, func(w *WeatherReading, v string) { setIfEmpty(&w.FeelsLike, v) }},
	{[]string{"🌡", "温度", "气温"}, func(w *WeatherReading, v string) { setIfEmpty(&w.Temperature, v) }},
	{[]string{"💧", "湿度"}, func(w *WeatherReading, v string) { setIfEmpty(&w.Humidity, v) }},
	{[]string{"能见度", "👁"}, func(w *WeatherReading, v string) { setIfEmpty(&w.Visibility, v) }},
	{[]string{"⚠", "预警"}, func(w *WeatherReading, v string) { setIfEmpty(&w.Alert, v) }},
}

func setIfEmpty(dst *string, v string) {
	if *dst == "" {
		*dst = v
	}
}

// ExtractWeather scans the weather block for 键：值 pairs (full-width
// colon) and known emoji-prefixed fields. Pipe separators (" | " or
// " ｜ ") split one line into independent pairs, so a value never bleeds
// into the next field. Every field is optional; an all-empty reading is
// valid and the absence of an alert is not a warning.
func ExtractWeather(block string, d Dialect) (WeatherReading, []ParseWarning) {
	var reading WeatherReading

	block = strings.TrimSpace(block)
	if block == "" {
		return reading, nil
	}

	for _, line := range strings.Split(block, "\n") {
		for _, part := range splitPipes(line) {
			key, value, ok := stringutil.CutAny(part, "：", ":")
			if !ok {
				// Alert lines sometimes carry no colon at all
				// ("⚠️ 大风蓝色预警").
				if strings.Contains(part, "⚠") {
					setIfEmpty(&reading.Alert, strings.TrimSpace(trimAlertMarker(part)))
				}
				continue
			}
			value = strings.TrimSpace(value)
			if value == "" {
				continue
			}
			for _, wk := range weatherKeys {
				if containsAny(key, wk.tokens) {
					wk.assign(&reading, value)
					break
				}
			}
		}
	}

	var warnings []ParseWarning
	if reading.IsEmpty() {
		warnings = append(warnings, ParseWarning{
			Section: SegmentWeatherBlock,
			Reason:  "weather block present but no recognizable fields",
		})
	}
	return reading, warnings
}

func splitPipes(line string) []string {
	parts := []string{line}
	for _, sep := range []string{" | ", " ｜ ", "|", "｜"} {
		var next []string
		for _, p := range parts {
			next = append(next, strings.Split(p, sep)...)
		}
		parts = next
	}
	return parts
}

func containsAny(s string, tokens []string) bool {
	for _, t := range tokens {
		if strings.Contains(s, t) {
			return true
		}
	}
	return false
}

func trimAlertMarker(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "⚠️")
	s = strings.TrimPrefix(s, "⚠")
	return s
}

// ExtractWeekLabel finds a teaching-week declaration ("第 7 教学周" with
// an optional parenthetical date range) anywhere in the text. Absence is
// not an error.
func ExtractWeekLabel(text string) (string, bool) {
	m := weekLabelRegex.FindString(text)
	if m == "" {
		return "", false
	}
	return strings.TrimSpace(m), true
}
