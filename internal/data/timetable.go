// Package data provides static data definitions for the application.
// These data are maintained manually and updated each semester.
package data

// Course is one manually maintained timetable entry.
// Weekday runs 1 (Monday) through 7 (Sunday).
type Course struct {
	Weekday   int
	Name      string
	Teacher   string
	Location  string
	TimeRange string
	Weeks     string // e.g. "1-16周" or "2-14双周"
}

// DefaultCurfew is the dormitory curfew announced alongside the
// timetable.
const DefaultCurfew = "22:30"

// DefaultTimetable is the fallback timetable served when the upstream
// endpoint is disabled or unreachable. Entries must match the current
// semester's published schedule.
var DefaultTimetable = []Course{
	// 周一
	{1, "高等数学", "陈小丹", "3-4-8", "08:40-10:10", "1-16周"},
	{1, "大学英语", "李雪", "2-2-305", "10:30-12:00", "1-16周"},
	{1, "程序设计基础", "王志强", "实验楼B-204", "14:30-16:00", "1-12周"},

	// 周二
	{2, "线性代数", "赵国华", "3-4-8", "08:40-10:10", "1-16周"},
	{2, "大学物理", "王刚", "1-3-102", "14:30-16:00", "2-17周"},

	// 周三
	{3, "高等数学", "陈小丹", "3-4-8", "08:40-10:10", "1-16周"},
	{3, "体育", "刘洋", "东操场", "16:20-17:50", "1-16周"},

	// 周四
	{4, "大学物理实验", "王刚", "实验楼A-301", "14:30-17:30", "3-15单周"},
	{4, "思想道德与法治", "周敏", "2-1-201", "19:00-20:30", "1-8周"},

	// 周五
	{5, "程序设计基础", "王志强", "实验楼B-204", "08:40-10:10", "1-12周"},
	{5, "大学英语", "李雪", "2-2-305", "10:30-12:00", "1-16周"},
}

// CoursesForWeekday filters the default timetable down to one weekday,
// preserving order.
func CoursesForWeekday(weekday int) []Course {
	var courses []Course
	for _, c := range DefaultTimetable {
		if c.Weekday == weekday {
			courses = append(courses, c)
		}
	}
	return courses
}
