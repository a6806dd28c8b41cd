package schedule

import (
	"regexp"
	"strings"

	"github.com/N724/kcb/internal/stringutil"
)

var timestampRegex = regexp.MustCompile(`^\[(\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2})\]`)

// SegmentDocument splits raw text into the fixed set of logical sections.
//
// The steps, in order:
//  1. strip one leading bracketed timestamp line, when present;
//  2. split the rest on horizontal-rule lines (a line of nothing but the
//     rule character, at least d.RuleMinLength long);
//  3. map part 0 to the preamble, part 1 to the course block, and any
//     remaining parts to the weather block;
//  4. scan the full text for a curfew marker, independent of the rule
//     split, because the curfew line has appeared both inside and outside
//     the weather block across revisions.
//
// When the split yields fewer than two parts the document has no
// recognizable course section and ErrStructuralMismatch is returned along
// with whatever was still recoverable (timestamp, curfew).
func SegmentDocument(raw string, d Dialect) (Segments, []ParseWarning, error) {
	var segs Segments
	var warnings []ParseWarning

	if len(raw) > maxDocumentBytes {
		raw = truncateAtRune(raw, maxDocumentBytes)
		warnings = append(warnings, ParseWarning{
			Section: SegmentCourseBlock,
			Reason:  "document exceeded size cap, tail dropped",
		})
	}

	text := strings.ReplaceAll(raw, "\r\n", "\n")
	text = strings.TrimLeft(text, "\n ")

	if m := timestampRegex.FindStringSubmatch(text); m != nil {
		segs.Timestamp = m[1]
		text = text[len(m[0]):]
		if i := strings.IndexByte(text, '\n'); i >= 0 {
			text = text[i+1:]
		} else {
			text = ""
		}
	}

	segs.CurfewLine = extractCurfew(text, d)

	parts := splitOnRules(text, d.RuleMinLength)
	if len(parts) < 2 {
		// Keep the undivided text as preamble so the week label is
		// still recoverable from a separator-less document.
		segs.Preamble = strings.TrimSpace(parts[0])
		return segs, warnings, ErrStructuralMismatch
	}

	segs.Preamble = strings.TrimSpace(parts[0])
	segs.CourseBlock = strings.TrimSpace(parts[1])
	if len(parts) > 2 {
		segs.WeatherBlock = strings.TrimSpace(strings.Join(parts[2:], "\n"))
	}

	return segs, warnings, nil
}

// splitOnRules splits text on lines consisting solely of minLen or more
// repeated rule characters. Single pass over the lines, no backtracking.
func splitOnRules(text string, minLen int) []string {
	var parts []string
	var current []string

	for _, line := range strings.Split(text, "\n") {
		if isRuleLine(line, minLen) {
			parts = append(parts, strings.Join(current, "\n"))
			current = current[:0]
			continue
		}
		current = append(current, line)
	}
	parts = append(parts, strings.Join(current, "\n"))
	return parts
}

// isRuleLine reports whether line is a horizontal-rule separator: nothing
// but the rule character, repeated at least minLen times.
func isRuleLine(line string, minLen int) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}
	n := 0
	for _, r := range line {
		if r != ruleChar {
			return false
		}
		n++
	}
	return n >= minLen
}

// extractCurfew scans for the first line carrying a curfew marker and
// returns everything after the marker up to the line end, truncated at
// any further recognized marker on the same line.
func extractCurfew(text string, d Dialect) string {
	for _, line := range strings.Split(text, "\n") {
		idx, marker := stringutil.FirstIndexAny(line, d.CurfewMarkers...)
		if idx < 0 {
			continue
		}
		value := strings.TrimSpace(line[idx+len(marker):])
		// Markers stack in some revisions ("🚪 门禁：22:30"); strip any
		// further leading marker before cutting at a trailing one.
		for {
			i, m := stringutil.FirstIndexAny(value, d.CurfewMarkers...)
			if i != 0 {
				break
			}
			value = strings.TrimSpace(value[len(m):])
		}
		if cut, _ := stringutil.FirstIndexAny(value, d.CurfewMarkers...); cut >= 0 {
			value = value[:cut]
		}
		value = strings.TrimSpace(strings.TrimPrefix(value, "："))
		if value != "" {
			return value
		}
	}
	return ""
}

// truncateAtRune cuts s to at most n bytes without splitting a rune.
func truncateAtRune(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && s[n]&0xC0 == 0x80 {
		n--
	}
	return s[:n]
}
