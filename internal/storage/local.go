package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/N724/kcb/internal/data"
	"github.com/N724/kcb/internal/schedule"
)

// LocalSource serves schedule documents rendered from the locally
// maintained timetable. It produces the same text layout the upstream
// endpoint emits, so documents from either source flow through one parse
// pipeline.
type LocalSource struct {
	db            *DB
	dialect       schedule.Dialect
	semesterStart time.Time
	now           func() time.Time
}

// NewLocalSource creates a local document source backed by db.
// semesterStart anchors teaching-week numbering; a zero value disables
// week computation and documents carry no week label.
func NewLocalSource(db *DB, d schedule.Dialect, semesterStart time.Time) *LocalSource {
	return &LocalSource{
		db:            db,
		dialect:       d,
		semesterStart: semesterStart,
		now:           time.Now,
	}
}

// Name identifies this source in logs and metrics.
func (s *LocalSource) Name() string {
	return "local"
}

// SeedDefault loads the static timetable into the database, replacing
// whatever was there. Called once at startup.
func (s *LocalSource) SeedDefault(ctx context.Context) error {
	courses := make([]LocalCourse, 0, len(data.DefaultTimetable))
	for _, c := range data.DefaultTimetable {
		courses = append(courses, LocalCourse{
			Weekday:   c.Weekday,
			Name:      c.Name,
			Teacher:   c.Teacher,
			Location:  c.Location,
			TimeRange: c.TimeRange,
			Weeks:     c.Weeks,
		})
	}
	return s.db.ReplaceLocalCourses(ctx, courses)
}

// FetchDocument renders a document for the query from the stored
// timetable. Today mode without an explicit weekday uses the current day.
func (s *LocalSource) FetchDocument(ctx context.Context, q schedule.Query) (string, error) {
	var courses []LocalCourse
	var err error

	switch {
	case q.HasWeekday:
		courses, err = s.db.GetLocalCoursesByWeekday(ctx, q.Weekday)
	case q.Mode == schedule.ModeToday:
		courses, err = s.db.GetLocalCoursesByWeekday(ctx, currentWeekday(s.now()))
	default:
		courses, err = s.db.GetAllLocalCourses(ctx)
	}
	if err != nil {
		return "", fmt.Errorf("load local timetable: %w", err)
	}

	return s.render(courses, q), nil
}

// render emits the canonical document layout: a bracketed timestamp
// line, a preamble with the week label and curfew, then the course block
// between horizontal rules.
func (s *LocalSource) render(courses []LocalCourse, q schedule.Query) string {
	now := s.now()
	rule := strings.Repeat("━", ruleLength(s.dialect))

	var b strings.Builder
	fmt.Fprintf(&b, "[%s]\n", now.Format("2006-01-02 15:04:05"))

	if week := s.teachingWeek(q, now); week > 0 {
		fmt.Fprintf(&b, "📌 第%d教学周\n", week)
	}
	fmt.Fprintf(&b, "⏰ 门禁：%s\n", data.DefaultCurfew)

	b.WriteString(rule)
	b.WriteByte('\n')

	for i, c := range courses {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "【%s】\n", c.Name)
		if c.Teacher != "" {
			fmt.Fprintf(&b, "👨🏫 %s\n", c.Teacher)
		}
		if c.Location != "" {
			fmt.Fprintf(&b, "🏫 %s\n", c.Location)
		}
		if c.TimeRange != "" {
			fmt.Fprintf(&b, "⏰ %s\n", c.TimeRange)
		}
		if c.Weeks != "" {
			fmt.Fprintf(&b, "└ 周次：%s\n", c.Weeks)
		}
	}

	b.WriteString(rule)
	b.WriteByte('\n')
	return b.String()
}

// teachingWeek resolves the week number for a document: an explicit
// query week wins, otherwise it is counted from the semester start.
func (s *LocalSource) teachingWeek(q schedule.Query, now time.Time) int {
	if q.HasTeachingWeek {
		return q.TeachingWeek
	}
	if s.semesterStart.IsZero() || now.Before(s.semesterStart) {
		return 0
	}
	week := int(now.Sub(s.semesterStart)/(7*24*time.Hour)) + 1
	if week > 18 {
		week = 18
	}
	return week
}

// currentWeekday maps Go's Sunday-first weekday onto the 1=Monday..7=Sunday
// convention the timetable uses.
func currentWeekday(t time.Time) int {
	wd := int(t.Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}

func ruleLength(d schedule.Dialect) int {
	if d.RuleMinLength > 10 {
		return d.RuleMinLength
	}
	return 10
}
