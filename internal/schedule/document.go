// Package schedule implements the parsing pipeline that turns the remote
// course endpoint's emoji-annotated text into a structured, validated
// document. The pipeline is segmenter -> field extractors -> assembler;
// every stage is a pure function and every recoverable problem becomes a
// ParseWarning on the returned document instead of an error.
package schedule

import "errors"

// ErrStructuralMismatch is reported by the segmenter when the raw text has
// fewer rule-separated sections than the dialect requires.
var ErrStructuralMismatch = errors.New("document structure mismatch")

// SegmentName identifies a top-level slice of the raw document.
type SegmentName string

// Segment names used in parse warnings.
const (
	SegmentTimestamp    SegmentName = "timestamp"
	SegmentCourseBlock  SegmentName = "courseBlock"
	SegmentWeatherBlock SegmentName = "weatherBlock"
	SegmentCurfewLine   SegmentName = "curfewLine"
)

// Segments holds the named top-level slices of one raw document.
// Every field except CourseBlock is optional; an empty string means the
// segment was absent from the source text.
type Segments struct {
	Timestamp    string // bracketed content of the leading timestamp line
	Preamble     string // text before the first rule separator
	CourseBlock  string
	WeatherBlock string
	CurfewLine   string
}

// CourseEntry is one course pulled out of the course block. Any field
// except Name may be empty when its marker was absent in the source.
type CourseEntry struct {
	Name      string `json:"name"`
	Teacher   string `json:"teacher,omitempty"`
	Location  string `json:"location,omitempty"`
	TimeRange string `json:"time_range,omitempty"`
	Weeks     string `json:"weeks,omitempty"` // raw descriptive text, not a parsed range
}

// WeatherReading holds the optional weather fields of a document.
// All fields are optional; a reading with every field empty is valid.
type WeatherReading struct {
	Temperature string `json:"temperature,omitempty"`
	FeelsLike   string `json:"feels_like,omitempty"`
	Humidity    string `json:"humidity,omitempty"`
	Visibility  string `json:"visibility,omitempty"`
	Alert       string `json:"alert,omitempty"`
}

// IsEmpty reports whether no weather field was extracted.
func (w WeatherReading) IsEmpty() bool {
	return w == WeatherReading{}
}

// ParseWarning records a recoverable extraction problem. Warnings are
// accumulated on the document, never raised.
type ParseWarning struct {
	Section SegmentName `json:"section"`
	Reason  string      `json:"reason"`
}

// ScheduleDocument is the validated structured view of one raw document.
// Courses is never nil: an empty slice means "no classes", a valid state
// distinct from parse failure. The document is constructed once by the
// assembler and immutable afterwards.
type ScheduleDocument struct {
	QueryTime string          `json:"query_time,omitempty"`
	WeekLabel string          `json:"week_label,omitempty"`
	Courses   []CourseEntry   `json:"courses"`
	Weather   *WeatherReading `json:"weather,omitempty"`
	Curfew    string          `json:"curfew,omitempty"`
	Warnings  []ParseWarning  `json:"warnings,omitempty"`
}

// HasWarnings reports whether any parse warnings were recorded.
func (d *ScheduleDocument) HasWarnings() bool {
	return len(d.Warnings) > 0
}
