package util

import "strings"

const maxLogName = 128

// LogName reduces a client-supplied file name to something safe to log:
// directory parts are dropped, control characters removed and the result
// capped at 128 runes.
func LogName(name string) string {
	name = strings.TrimSpace(name)
	if i := strings.LastIndexAny(name, `/\`); i >= 0 {
		name = name[i+1:]
	}
	name = strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, name)
	if r := []rune(name); len(r) > maxLogName {
		name = string(r[:maxLogName])
	}
	if name == "" || name == "." || name == ".." {
		return "unnamed"
	}
	return name
}
