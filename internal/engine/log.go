package engine

import (
	"github.com/roach88/replace-by-rule/internal/rule"
)

// LogFunc receives one line per logged rule, without a trailing newline.
type LogFunc func(line string)

// FoundLine formats the log line for a rule that changed the text.
//
//	Found '<find>', replace: '<replace>'  //<comment>
func FoundLine(r rule.Rule) string {
	return withComment("Found '"+rule.FindString(r.Find)+"', replace: '"+rule.ReplaceString(r.Replace)+"'", r.Comment)
}

// NotFoundLine formats the log line for a rule that left the text unchanged.
//
//	Not found '<find>'  //<comment>
func NotFoundLine(r rule.Rule) string {
	return withComment("Not found '"+rule.FindString(r.Find)+"'", r.Comment)
}

func withComment(line, comment string) string {
	if comment == "" {
		return line
	}
	return line + "  //" + comment
}
