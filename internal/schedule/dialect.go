package schedule

// Dialect describes one observed variant of the remote document format.
// The pipeline is configuration-driven: one set of parse functions, many
// dialects. Marker sets are ordered by priority; the first match wins.
//
// Teacher markers carry both the plain emoji sequence and the ZWJ-joined
// form because different API revisions emit either.
type Dialect struct {
	Name string

	// RuleMinLength is the minimum run of rule characters that forms a
	// section separator on its own line. Observed values range from 5
	// to 50 across revisions; 5 is the permissive superset.
	RuleMinLength int

	// Weekday numbering basis. The zero-based revisions use 0=today,
	// the one-based ones 1=Monday. A bare integer cannot distinguish
	// the two, so the caller picks the dialect explicitly.
	WeekdayMin int
	WeekdayMax int

	TeacherMarkers []string
	LocationMarker string
	TimeMarker     string
	WeeksMarkers   []string
	CurfewMarkers  []string

	// ExpectWeather makes a missing weather block a recorded warning.
	// Dialects without a weather section leave it false.
	ExpectWeather bool
}

const ruleChar = '━'

// maxDocumentBytes bounds accepted input so an oversized or malicious
// remote payload cannot blow up parsing. Everything past the cap is
// dropped and a warning recorded.
const maxDocumentBytes = 256 << 10

var (
	teacherMarkers = []string{"🧑‍🏫", "👨‍🏫", "🧑🏫", "👨🏫"}
	weeksMarkers   = []string{"📆", "周次："}
	curfewMarkers  = []string{"⏰ 门禁：", "门禁：", "🚪"}
)

// DialectDefault is the permissive superset consistent with every
// observed revision: shortest separator threshold, one-based weekdays,
// weather optional.
var DialectDefault = Dialect{
	Name:           "default",
	RuleMinLength:  5,
	WeekdayMin:     1,
	WeekdayMax:     7,
	TeacherMarkers: teacherMarkers,
	LocationMarker: "🏫",
	TimeMarker:     "⏰",
	WeeksMarkers:   weeksMarkers,
	CurfewMarkers:  curfewMarkers,
	ExpectWeather:  false,
}

// DialectClassic matches the early API snapshots: box-drawing course
// frames, no weather section, one-based weekdays.
var DialectClassic = Dialect{
	Name:           "classic",
	RuleMinLength:  15,
	WeekdayMin:     1,
	WeekdayMax:     7,
	TeacherMarkers: teacherMarkers,
	LocationMarker: "🏫",
	TimeMarker:     "⏰",
	WeeksMarkers:   weeksMarkers,
	CurfewMarkers:  curfewMarkers,
	ExpectWeather:  false,
}

// DialectBoxed matches the current API revision: long rule separators,
// a weather section after the course block, zero-based weekdays where
// 0 means "today".
var DialectBoxed = Dialect{
	Name:           "boxed",
	RuleMinLength:  20,
	WeekdayMin:     0,
	WeekdayMax:     6,
	TeacherMarkers: teacherMarkers,
	LocationMarker: "🏫",
	TimeMarker:     "⏰",
	WeeksMarkers:   weeksMarkers,
	CurfewMarkers:  curfewMarkers,
	ExpectWeather:  true,
}

var dialects = map[string]Dialect{
	DialectDefault.Name: DialectDefault,
	DialectClassic.Name: DialectClassic,
	DialectBoxed.Name:   DialectBoxed,
}

// DialectByName returns a predefined dialect by name.
func DialectByName(name string) (Dialect, bool) {
	d, ok := dialects[name]
	return d, ok
}
