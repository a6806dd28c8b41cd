package schedule

import (
	kcberrors "github.com/N724/kcb/internal/errors"
)

// Assemble combines segments and extracted fields into one validated
// ScheduleDocument. Pure aggregation: it never fails, it only records
// warnings for structural anomalies found along the way.
func Assemble(segs Segments, d Dialect, upstream []ParseWarning) *ScheduleDocument {
	doc := &ScheduleDocument{
		QueryTime: segs.Timestamp,
		Curfew:    segs.CurfewLine,
		Courses:   []CourseEntry{},
		Warnings:  upstream,
	}

	if label, ok := ExtractWeekLabel(segs.Preamble); ok {
		doc.WeekLabel = label
	} else if label, ok := ExtractWeekLabel(segs.CourseBlock); ok {
		doc.WeekLabel = label
	}

	courses, warns := ExtractCourses(segs.CourseBlock, d)
	doc.Warnings = append(doc.Warnings, warns...)
	if courses != nil {
		doc.Courses = courses
	}
	if len(courses) == 0 && hasContent(segs.CourseBlock) {
		doc.Warnings = append(doc.Warnings, ParseWarning{
			Section: SegmentCourseBlock,
			Reason:  "course block has text but no recognizable entries",
		})
	}

	if segs.WeatherBlock != "" {
		reading, warns := ExtractWeather(segs.WeatherBlock, d)
		doc.Warnings = append(doc.Warnings, warns...)
		doc.Weather = &reading
	} else if d.ExpectWeather {
		doc.Warnings = append(doc.Warnings, ParseWarning{
			Section: SegmentWeatherBlock,
			Reason:  "dialect expects a weather block but none was found",
		})
	}

	return doc
}

// Parse runs the full pipeline on one raw text blob: segment, extract,
// assemble. Malformed input degrades into warnings on a still-returned
// document; the only failure is ErrUnparseable, returned when not a
// single usable section could be recovered, so the caller can show a
// "data format error" message instead of an empty-looking success.
func Parse(raw string, d Dialect) (*ScheduleDocument, error) {
	segs, warnings, err := SegmentDocument(raw, d)
	if err != nil {
		warnings = append(warnings, ParseWarning{
			Section: SegmentCourseBlock,
			Reason:  "expected at least two rule-separated sections",
		})
		doc := Assemble(segs, d, warnings)
		if !usable(doc) {
			return nil, kcberrors.ErrUnparseable
		}
		return doc, nil
	}
	return Assemble(segs, d, warnings), nil
}

// usable reports whether a degraded document still carries anything worth
// rendering.
func usable(doc *ScheduleDocument) bool {
	return doc.QueryTime != "" ||
		doc.WeekLabel != "" ||
		doc.Curfew != "" ||
		len(doc.Courses) > 0
}

// hasContent reports whether a block contains anything but whitespace.
func hasContent(block string) bool {
	for _, r := range block {
		switch r {
		case ' ', '\t', '\n', '\r':
		default:
			return true
		}
	}
	return false
}
