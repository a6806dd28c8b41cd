package storage

// CachedDocument is one raw upstream document stored under its query key.
type CachedDocument struct {
	Key      string
	Body     string
	CachedAt int64 // Unix timestamp
}

// LocalCourse is one row of the locally maintained timetable.
type LocalCourse struct {
	Weekday   int // 1 = Monday .. 7 = Sunday
	Position  int // ordering within the day
	Name      string
	Teacher   string
	Location  string
	TimeRange string
	Weeks     string
}
