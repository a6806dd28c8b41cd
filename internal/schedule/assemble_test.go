package schedule

import (
	"errors"
	"testing"

	kcberrors "github.com/N724/kcb/internal/errors"
)

func TestParseSampleDocument(t *testing.T) {
	doc, err := Parse(sampleDocument, DialectDefault)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}

	if doc.QueryTime != "2024-03-01 08:00:00" {
		t.Errorf("QueryTime = %q", doc.QueryTime)
	}
	if len(doc.Courses) != 1 {
		t.Fatalf("len(Courses) = %d, want 1", len(doc.Courses))
	}
	want := CourseEntry{Name: "高等数学", Teacher: "陈小丹", Location: "3-4-8", TimeRange: "08:40-10:10"}
	if doc.Courses[0] != want {
		t.Errorf("Courses[0] = %+v, want %+v", doc.Courses[0], want)
	}
	if doc.Weather == nil {
		t.Fatal("Weather = nil, want reading")
	}
	if doc.Weather.Temperature != "20℃" || doc.Weather.FeelsLike != "18℃" {
		t.Errorf("Weather = %+v", doc.Weather)
	}
	if doc.HasWarnings() {
		t.Errorf("Warnings = %v, want none", doc.Warnings)
	}
}

func TestParseNoSeparatorsDegrades(t *testing.T) {
	raw := "[2024-03-01 08:00:00]\n📅 第7教学周\n⏰ 门禁：23:00\n"

	doc, err := Parse(raw, DialectDefault)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if len(doc.Courses) != 0 {
		t.Errorf("Courses = %v, want empty", doc.Courses)
	}
	if doc.Courses == nil {
		t.Error("Courses must never be nil")
	}
	if doc.QueryTime != "2024-03-01 08:00:00" {
		t.Errorf("QueryTime = %q", doc.QueryTime)
	}
	if doc.WeekLabel != "第7教学周" {
		t.Errorf("WeekLabel = %q", doc.WeekLabel)
	}
	if doc.Curfew != "23:00" {
		t.Errorf("Curfew = %q", doc.Curfew)
	}
	if !doc.HasWarnings() {
		t.Error("structural mismatch should leave a warning")
	}
}

func TestParseNothingUsable(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"empty", ""},
		{"whitespace", "   \n\n  "},
		{"unrelated text", "random noise without any markers"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.raw, DialectDefault)
			if !errors.Is(err, kcberrors.ErrUnparseable) {
				t.Errorf("err = %v, want ErrUnparseable", err)
			}
		})
	}
}

func TestParseEmptyCourseBlockIsNoClasses(t *testing.T) {
	raw := "📅 第7教学周\n━━━━━\n   \n━━━━━\n温度：20℃\n"

	doc, err := Parse(raw, DialectDefault)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if len(doc.Courses) != 0 {
		t.Errorf("Courses = %v, want empty", doc.Courses)
	}
	// Empty course block is a valid "no classes" state, not a warning.
	if doc.HasWarnings() {
		t.Errorf("Warnings = %v, want none", doc.Warnings)
	}
}

func TestParseCourseBlockWithTextButNoEntries(t *testing.T) {
	raw := "前言\n━━━━━\n这里是一些没有课程标记的文字\n━━━━━\n"

	doc, err := Parse(raw, DialectDefault)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if len(doc.Courses) != 0 {
		t.Errorf("Courses = %v, want empty", doc.Courses)
	}
	if !doc.HasWarnings() {
		t.Error("non-empty block without entries should leave a warning")
	}
}

func TestAssembleMissingWeatherWarning(t *testing.T) {
	segs := Segments{CourseBlock: "【数学】\n⏰08:00-09:30"}

	doc := Assemble(segs, DialectBoxed, nil)
	found := false
	for _, w := range doc.Warnings {
		if w.Section == SegmentWeatherBlock {
			found = true
		}
	}
	if !found {
		t.Errorf("Warnings = %v, want a weatherBlock warning", doc.Warnings)
	}

	doc = Assemble(segs, DialectClassic, nil)
	for _, w := range doc.Warnings {
		if w.Section == SegmentWeatherBlock {
			t.Errorf("classic dialect should not expect weather: %v", doc.Warnings)
		}
	}
}

func TestAssembleWeekLabelFromCourseBlock(t *testing.T) {
	segs := Segments{
		Preamble:    "没有周次",
		CourseBlock: "📅 第9教学周\n【数学】\n⏰08:00-09:30",
	}

	doc := Assemble(segs, DialectDefault, nil)
	if doc.WeekLabel != "第9教学周" {
		t.Errorf("WeekLabel = %q, want 第9教学周", doc.WeekLabel)
	}
}
