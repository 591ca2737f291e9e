package core

import "regexp"

var argPattern = regexp.MustCompile(`(\w+)=([^&=]+)`)

// ParseArgs extracts key=value pairs from a raw connection query string.
// Values are taken verbatim (no URL decoding); a repeated key keeps its last value.
func ParseArgs(raw string) map[string]string {
	out := make(map[string]string)
	for _, m := range argPattern.FindAllStringSubmatch(raw, -1) {
		out[m[1]] = m[2]
	}
	return out
}
