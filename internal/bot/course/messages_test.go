package course

import (
	"reflect"
	"strings"
	"testing"

	"github.com/N724/kcb/internal/schedule"
)

func TestRenderDocumentRoundTrip(t *testing.T) {
	doc, err := schedule.Parse(sampleRaw, schedule.DialectDefault)
	if err != nil {
		t.Fatalf("parse fixture: %v", err)
	}
	if doc.HasWarnings() {
		t.Fatalf("fixture parsed with warnings: %+v", doc.Warnings)
	}

	rendered := RenderDocument(doc)
	reparsed, err := schedule.Parse(rendered, schedule.DialectDefault)
	if err != nil {
		t.Fatalf("rendered output failed to parse: %v\n%s", err, rendered)
	}
	if reparsed.HasWarnings() {
		t.Errorf("rendered output produced warnings: %+v\n%s", reparsed.Warnings, rendered)
	}

	if !reflect.DeepEqual(reparsed.Courses, doc.Courses) {
		t.Errorf("courses changed across render:\nbefore %+v\nafter  %+v", doc.Courses, reparsed.Courses)
	}
	if reparsed.WeekLabel != doc.WeekLabel {
		t.Errorf("week label = %q, want %q", reparsed.WeekLabel, doc.WeekLabel)
	}
	if reparsed.Curfew != doc.Curfew {
		t.Errorf("curfew = %q, want %q", reparsed.Curfew, doc.Curfew)
	}
	if reparsed.QueryTime != doc.QueryTime {
		t.Errorf("query time = %q, want %q", reparsed.QueryTime, doc.QueryTime)
	}
}

func TestRenderDocumentWithWeather(t *testing.T) {
	doc := &schedule.ScheduleDocument{
		QueryTime: "2025-03-10 08:00:00",
		WeekLabel: "第3教学周",
		Courses: []schedule.CourseEntry{
			{Name: "高等数学", Teacher: "陈小丹", Location: "3-4-8", TimeRange: "08:40-10:10"},
		},
		Weather: &schedule.WeatherReading{
			Temperature: "20℃",
			FeelsLike:   "18℃",
			Humidity:    "55%",
			Alert:       "大风蓝色预警",
		},
		Curfew: "22:30",
	}

	rendered := RenderDocument(doc)
	for _, want := range []string{"温度：20℃", "体感：18℃", "湿度：55%", "预警：大风蓝色预警"} {
		if !strings.Contains(rendered, want) {
			t.Errorf("rendered missing %q:\n%s", want, rendered)
		}
	}

	reparsed, err := schedule.Parse(rendered, schedule.DialectDefault)
	if err != nil {
		t.Fatalf("rendered output failed to parse: %v", err)
	}
	if reparsed.Weather == nil {
		t.Fatal("weather lost across render")
	}
	if *reparsed.Weather != *doc.Weather {
		t.Errorf("weather = %+v, want %+v", *reparsed.Weather, *doc.Weather)
	}
}

func TestRenderDocumentNoClasses(t *testing.T) {
	doc := &schedule.ScheduleDocument{
		QueryTime: "2025-03-15 09:00:00",
		Courses:   []schedule.CourseEntry{},
		Curfew:    "22:30",
	}

	rendered := RenderDocument(doc)
	if !strings.Contains(rendered, "没有课程安排") {
		t.Errorf("rendered missing no-classes line:\n%s", rendered)
	}
	if !strings.Contains(rendered, "门禁：22:30") {
		t.Errorf("rendered missing curfew:\n%s", rendered)
	}
}

func TestRenderDocumentPartialCourse(t *testing.T) {
	doc := &schedule.ScheduleDocument{
		Courses: []schedule.CourseEntry{
			{Name: "机器学习", TimeRange: "19:00-20:30"},
		},
	}

	rendered := RenderDocument(doc)
	if !strings.Contains(rendered, "【机器学习】") {
		t.Errorf("rendered missing title:\n%s", rendered)
	}
	if strings.Contains(rendered, "👨🏫") || strings.Contains(rendered, "🏫 ") {
		t.Errorf("empty fields should not render markers:\n%s", rendered)
	}
}

func TestHelpMessageMentionsCommands(t *testing.T) {
	help := HelpMessage()
	for _, want := range []string{"课表", "本周", "全部", "1-18"} {
		if !strings.Contains(help, want) {
			t.Errorf("help missing %q", want)
		}
	}
}

func TestUnrecognizedArgumentsMessage(t *testing.T) {
	msg := UnrecognizedArgumentsMessage([]string{"明天", "xyz"})
	if !strings.Contains(msg, "明天 xyz") {
		t.Errorf("message should list tokens: %q", msg)
	}
}
