package parser

import "strings"

// cleanArgs unwraps the quoting callers put around raw arguments: one pair
// of surrounding double quotes, doubled quotes inside and blank padding. The
// input is not modified.
func cleanArgs(args []string) []string {
	out := make([]string, len(args))
	for i, v := range args {
		v = strings.Trim(v, `"`)
		v = strings.ReplaceAll(v, `""`, `"`)
		out[i] = strings.TrimSpace(v)
	}
	return out
}
