package schedule

import (
	"strconv"
	"strings"

	"golang.org/x/text/width"

	"github.com/N724/kcb/internal/errors"
	"github.com/N724/kcb/internal/stringutil"
)

// Mode selects which slice of the timetable a query covers.
type Mode string

// Query modes.
const (
	ModeToday Mode = "today"
	ModeWeek  Mode = "week"
	ModeAll   Mode = "all"
)

// Query is the canonical, validated form of one user request. Weekday and
// TeachingWeek are clamped into range by the normalizer, never rejected.
type Query struct {
	Mode Mode

	Weekday    int
	HasWeekday bool

	TeachingWeek    int
	HasTeachingWeek bool
}

// CacheKey returns a stable key identifying this query for caching and
// request deduplication.
func (q Query) CacheKey() string {
	var b strings.Builder
	b.WriteString(string(q.Mode))
	if q.HasWeekday {
		b.WriteString(":d")
		b.WriteString(strconv.Itoa(q.Weekday))
	}
	if q.HasTeachingWeek {
		b.WriteString(":w")
		b.WriteString(strconv.Itoa(q.TeachingWeek))
	}
	return b.String()
}

// Teaching weeks run 1-18 in every observed revision.
const (
	teachingWeekMin = 1
	teachingWeekMax = 18
)

var modeAliases = map[string]Mode{
	"today": ModeToday,
	"week":  ModeWeek,
	"all":   ModeAll,
	"今天":    ModeToday,
	"今日":    ModeToday,
	"本周":    ModeWeek,
	"本週":    ModeWeek,
	"全部":    ModeAll,
}

// NormalizeQuery validates free-form user tokens into a Query.
//
// Token grammar, all parts optional: [mode] [weekday] [teachingWeek].
// Mode defaults to today. Numeric tokens are clamped into the dialect's
// weekday range and the 1-18 teaching-week range; out-of-range values are
// clamped rather than rejected. Full-width digits are folded before
// matching. Anything left over is a validation failure naming the tokens,
// because unrecognized input echoed back beats silently ignoring it.
func NormalizeQuery(tokens []string, d Dialect) (Query, error) {
	q := Query{Mode: ModeToday}

	var leftover []string
	seenMode := false
	for _, raw := range tokens {
		token := strings.TrimSpace(width.Narrow.String(raw))
		if token == "" {
			continue
		}

		if !seenMode && !q.HasWeekday && !q.HasTeachingWeek {
			if mode, ok := modeAliases[strings.ToLower(token)]; ok {
				q.Mode = mode
				seenMode = true
				continue
			}
		}

		if stringutil.IsNumeric(token) {
			n, err := strconv.Atoi(token)
			if err != nil {
				// Numeric but unparseable means overflow; treat
				// like any other unrecognized token.
				leftover = append(leftover, raw)
				continue
			}
			switch {
			case !q.HasWeekday:
				q.Weekday = clamp(n, d.WeekdayMin, d.WeekdayMax)
				q.HasWeekday = true
			case !q.HasTeachingWeek:
				q.TeachingWeek = clamp(n, teachingWeekMin, teachingWeekMax)
				q.HasTeachingWeek = true
			default:
				leftover = append(leftover, raw)
			}
			continue
		}

		leftover = append(leftover, raw)
	}

	if len(leftover) > 0 {
		return Query{}, &errors.UnrecognizedArgumentsError{Tokens: leftover}
	}
	return q, nil
}

func clamp(n, lo, hi int) int {
	return max(lo, min(hi, n))
}
