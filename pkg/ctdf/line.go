package ctdf

import (
	"regexp"
	"strings"
)

var rerLineRegex = regexp.MustCompile(`(?i)^\s*RER\s+([A-E])\s*$`)

// AllRERLines is the default set of lines tracked by the poller
var AllRERLines = []string{"RER A", "RER B", "RER C", "RER D", "RER E"}

func IsRERLine(lineCode string) bool {
	return rerLineRegex.MatchString(lineCode)
}

// CanonicalLineCode normalises accepted forms such as " rer b " into "RER B".
func CanonicalLineCode(lineCode string) (string, bool) {
	matches := rerLineRegex.FindStringSubmatch(lineCode)
	if len(matches) != 2 {
		return "", false
	}

	return "RER " + strings.ToUpper(matches[1]), true
}
