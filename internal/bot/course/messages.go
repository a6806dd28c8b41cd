package course

import (
	"fmt"
	"strings"

	"github.com/N724/kcb/internal/schedule"
)

const (
	headerLine = "📅 课表查询结果"
	ruleLine   = "━━━━━━━━━━━━━━"
)

// RenderDocument formats a parsed document as one chat reply. The layout
// mirrors the source document closely enough that rendered output feeds
// back through the parse pipeline unchanged, which keeps the local
// fallback and the remote endpoint on one output contract.
func RenderDocument(doc *schedule.ScheduleDocument) string {
	var b strings.Builder

	if doc.QueryTime != "" {
		fmt.Fprintf(&b, "[%s] %s\n", doc.QueryTime, headerLine)
	} else {
		b.WriteString(headerLine)
		b.WriteByte('\n')
	}
	if doc.WeekLabel != "" {
		fmt.Fprintf(&b, "📌 %s\n", doc.WeekLabel)
	}
	if doc.Curfew != "" {
		fmt.Fprintf(&b, "⏰ 门禁：%s\n", doc.Curfew)
	}

	b.WriteString(ruleLine)
	b.WriteByte('\n')

	if len(doc.Courses) == 0 {
		b.WriteString("🎉 没有课程安排，好好休息～\n")
	}
	for i, c := range doc.Courses {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "🔹【%s】\n", c.Name)
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
			fmt.Fprintf(&b, "📆 %s\n", c.Weeks)
		}
	}

	b.WriteString(ruleLine)
	b.WriteByte('\n')

	if doc.Weather != nil && !doc.Weather.IsEmpty() {
		b.WriteString(renderWeather(doc.Weather))
	}

	return strings.TrimRight(b.String(), "\n")
}

// renderWeather joins the present weather fields with pipe separators,
// the alert on its own line.
func renderWeather(w *schedule.WeatherReading) string {
	var fields []string
	if w.Temperature != "" {
		fields = append(fields, "🌡 温度："+w.Temperature)
	}
	if w.FeelsLike != "" {
		fields = append(fields, "体感："+w.FeelsLike)
	}
	if w.Humidity != "" {
		fields = append(fields, "💧 湿度："+w.Humidity)
	}
	if w.Visibility != "" {
		fields = append(fields, "👁 能见度："+w.Visibility)
	}

	var b strings.Builder
	if len(fields) > 0 {
		b.WriteString(strings.Join(fields, " | "))
		b.WriteByte('\n')
	}
	if w.Alert != "" {
		b.WriteString("⚠️ 预警：" + w.Alert + "\n")
	}
	return b.String()
}

// HelpMessage returns the module usage text.
func HelpMessage() string {
	return strings.Join([]string{
		"📖 课表查询帮助",
		"",
		"基本用法：",
		"  课表　　　　查询今天的课程",
		"  课表 3　　　查询周三的课程",
		"  课表 本周　　查询本周课程",
		"  课表 全部　　查询全部课程",
		"  课表 3 7　　查询第7教学周的周三课程",
		"",
		"星期用 1-7 表示（1 为周一），教学周范围 1-18。",
		"超出范围的数字会自动就近取整。",
	}, "\n")
}

// UnrecognizedArgumentsMessage echoes back tokens the normalizer could
// not interpret, so typos are visible instead of silently dropped.
func UnrecognizedArgumentsMessage(tokens []string) string {
	return fmt.Sprintf("🤔 看不懂这些参数：%s\n发送「课表帮助」查看用法。", strings.Join(tokens, " "))
}

// InvalidQueryMessage is the generic invalid-input reply.
func InvalidQueryMessage() string {
	return "🤔 查询参数有误，发送「课表帮助」查看用法。"
}

// FetchFailedMessage is shown when every document source failed.
func FetchFailedMessage() string {
	return "😥 课表服务暂时连不上，请稍后再试。"
}

// UnparseableMessage is shown when the document yielded nothing usable.
func UnparseableMessage() string {
	return "😵 课表数据格式异常，暂时无法解析，请稍后再试。"
}

// DegradedNoticeMessage prefixes replies rendered from a partially
// parsed document.
func DegradedNoticeMessage() string {
	return "⚠️ 部分内容未能识别，以下为可解析的部分："
}
