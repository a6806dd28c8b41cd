package schedule

import (
	"strings"
	"testing"
)

func TestExtractCoursesCompact(t *testing.T) {
	block := "🔸 周一\n【高等数学】\n🧑🏫陈小丹🏫3-4-8⏰08:40-10:10└"

	courses, warnings := ExtractCourses(block, DialectDefault)
	if len(warnings) != 0 {
		t.Errorf("warnings = %v, want none", warnings)
	}
	if len(courses) != 1 {
		t.Fatalf("len(courses) = %d, want 1", len(courses))
	}

	got := courses[0]
	want := CourseEntry{Name: "高等数学", Teacher: "陈小丹", Location: "3-4-8", TimeRange: "08:40-10:10"}
	if got != want {
		t.Errorf("course = %+v, want %+v", got, want)
	}
}

func TestExtractCoursesLabeledMultiline(t *testing.T) {
	block := strings.Join([]string{
		"【大学英语】",
		"👨🏫 教师：王芳",
		"🏫 地点：外语楼201",
		"⏰ 时间：10:30-12:00",
		"📆 周次：1-16周",
	}, "\n")

	courses, warnings := ExtractCourses(block, DialectDefault)
	if len(warnings) != 0 {
		t.Errorf("warnings = %v, want none", warnings)
	}
	if len(courses) != 1 {
		t.Fatalf("len(courses) = %d, want 1", len(courses))
	}

	got := courses[0]
	if got.Name != "大学英语" || got.Teacher != "王芳" || got.Location != "外语楼201" {
		t.Errorf("course = %+v", got)
	}
	if got.TimeRange != "10:30-12:00" {
		t.Errorf("TimeRange = %q", got.TimeRange)
	}
	if got.Weeks != "1-16周" {
		t.Errorf("Weeks = %q", got.Weeks)
	}
}

func TestExtractCoursesZWJTeacherMarker(t *testing.T) {
	block := "【体育】\n🧑‍🏫李强🏫操场⏰14:00-15:30"

	courses, _ := ExtractCourses(block, DialectDefault)
	if len(courses) != 1 {
		t.Fatalf("len(courses) = %d, want 1", len(courses))
	}
	if courses[0].Teacher != "李强" {
		t.Errorf("Teacher = %q, want 李强", courses[0].Teacher)
	}
	if courses[0].Location != "操场" {
		t.Errorf("Location = %q, want 操场", courses[0].Location)
	}
}

func TestExtractCoursesMultipleEntries(t *testing.T) {
	block := strings.Join([]string{
		"【高等数学】",
		"🧑🏫陈小丹🏫3-4-8⏰08:40-10:10└",
		"【线性代数】",
		"🧑🏫刘军🏫2-1-5⏰10:30-12:00└",
	}, "\n")

	courses, _ := ExtractCourses(block, DialectDefault)
	if len(courses) != 2 {
		t.Fatalf("len(courses) = %d, want 2", len(courses))
	}
	// Order follows appearance order in the source, never re-sorted.
	if courses[0].Name != "高等数学" || courses[1].Name != "线性代数" {
		t.Errorf("order = %q, %q", courses[0].Name, courses[1].Name)
	}
}

func TestExtractCoursesTitleOnly(t *testing.T) {
	courses, warnings := ExtractCourses("【孤儿课程】", DialectDefault)
	if len(courses) != 1 {
		t.Fatalf("len(courses) = %d, want 1", len(courses))
	}
	if courses[0].Name != "孤儿课程" {
		t.Errorf("Name = %q", courses[0].Name)
	}
	if courses[0].Teacher != "" || courses[0].TimeRange != "" {
		t.Errorf("detail fields should stay empty: %+v", courses[0])
	}
	if len(warnings) != 1 || warnings[0].Section != SegmentCourseBlock {
		t.Errorf("warnings = %v, want one courseBlock warning", warnings)
	}
}

func TestExtractCoursesPartialFields(t *testing.T) {
	block := "【哲学导论】\n⏰19:00-20:30"

	courses, warnings := ExtractCourses(block, DialectDefault)
	if len(courses) != 1 {
		t.Fatalf("len(courses) = %d, want 1", len(courses))
	}
	got := courses[0]
	if got.TimeRange != "19:00-20:30" {
		t.Errorf("TimeRange = %q", got.TimeRange)
	}
	if got.Teacher != "" || got.Location != "" {
		t.Errorf("absent markers should leave fields empty: %+v", got)
	}
	// A partial record is valid, not a warning.
	if len(warnings) != 0 {
		t.Errorf("warnings = %v, want none", warnings)
	}
}

func TestExtractCoursesEmptyBlock(t *testing.T) {
	tests := []string{"", "   ", "\n\n", "🎉 今日没有课程安排！"}

	for _, block := range tests {
		courses, warnings := ExtractCourses(block, DialectDefault)
		if len(courses) != 0 {
			t.Errorf("ExtractCourses(%q) found %d courses, want 0", block, len(courses))
		}
		if len(warnings) != 0 {
			t.Errorf("ExtractCourses(%q) warnings = %v", block, warnings)
		}
	}
}

func TestExtractWeather(t *testing.T) {
	block := "🌡️ 温度：20℃ | 体感：18℃\n💧 湿度：45%\n能见度：10km\n⚠️ 大风蓝色预警"

	reading, warnings := ExtractWeather(block, DialectDefault)
	if len(warnings) != 0 {
		t.Errorf("warnings = %v, want none", warnings)
	}

	want := WeatherReading{
		Temperature: "20℃",
		FeelsLike:   "18℃",
		Humidity:    "45%",
		Visibility:  "10km",
		Alert:       "大风蓝色预警",
	}
	if reading != want {
		t.Errorf("reading = %+v, want %+v", reading, want)
	}
}

func TestExtractWeatherFullWidthPipe(t *testing.T) {
	reading, _ := ExtractWeather("温度：25℃ ｜ 体感：27℃", DialectDefault)
	if reading.Temperature != "25℃" {
		t.Errorf("Temperature = %q, want 25℃", reading.Temperature)
	}
	if reading.FeelsLike != "27℃" {
		t.Errorf("FeelsLike = %q, want 27℃", reading.FeelsLike)
	}
}

func TestExtractWeatherFeelsLikeKeyPriority(t *testing.T) {
	// 体感温度 contains 温度; it must land in FeelsLike, not Temperature.
	reading, _ := ExtractWeather("体感温度：18℃", DialectDefault)
	if reading.FeelsLike != "18℃" {
		t.Errorf("FeelsLike = %q, want 18℃", reading.FeelsLike)
	}
	if reading.Temperature != "" {
		t.Errorf("Temperature = %q, want empty", reading.Temperature)
	}
}

func TestExtractWeatherNoAlertIsNotAWarning(t *testing.T) {
	reading, warnings := ExtractWeather("温度：20℃", DialectDefault)
	if reading.Alert != "" {
		t.Errorf("Alert = %q, want empty", reading.Alert)
	}
	if len(warnings) != 0 {
		t.Errorf("warnings = %v, want none", warnings)
	}
}

func TestExtractWeatherUnrecognizable(t *testing.T) {
	reading, warnings := ExtractWeather("完全无关的文字", DialectDefault)
	if !reading.IsEmpty() {
		t.Errorf("reading = %+v, want empty", reading)
	}
	if len(warnings) != 1 {
		t.Errorf("warnings = %v, want one", warnings)
	}
}

func TestExtractWeekLabel(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		want  string
		found bool
	}{
		{"plain", "📅 第7教学周", "第7教学周", true},
		{"spaced", "第 12 教学周", "第 12 教学周", true},
		{"with date range", "第3教学周（3月4日-3月10日）", "第3教学周（3月4日-3月10日）", true},
		{"absent", "没有周次信息", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, found := ExtractWeekLabel(tt.text)
			if got != tt.want || found != tt.found {
				t.Errorf("ExtractWeekLabel(%q) = (%q, %v), want (%q, %v)",
					tt.text, got, found, tt.want, tt.found)
			}
		})
	}
}
