package coc

import "strings"

// NormalizeTag upper-cases a tag, maps the letter O to zero and
// ensures the leading '#'. Returns "" for blank input.
func NormalizeTag(tag string) string {
	tag = strings.ToUpper(strings.TrimSpace(tag))
	tag = strings.TrimLeft(tag, "#")
	if tag == "" {
		return ""
	}
	return "#" + strings.ReplaceAll(tag, "O", "0")
}
