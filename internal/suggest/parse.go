// Package suggest derives checklist items from free-form suggestion text.
// Items are recomputed from the text on every use and never persisted;
// callers key any per-item state by index within the parsed sequence.
package suggest

import (
	"strings"
)

// ParseItems splits text into ordered checklist item labels: one label per
// non-blank line, with any leading list marker (digits, '.', '-', '*',
// brackets) stripped. Lines that are nothing but markers are dropped.
func ParseItems(text string) []string {
	var items []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		label := strings.TrimSpace(stripMarker(line))
		if label == "" {
			continue
		}
		items = append(items, label)
	}
	return items
}

// stripMarker removes a leading run of list-marker characters and the
// whitespace after it.
func stripMarker(line string) string {
	i := 0
	for i < len(line) {
		c := line[i]
		if c == '-' || c == '*' || c == '.' || c == '[' || c == ']' || (c >= '0' && c <= '9') {
			i++
			continue
		}
		break
	}
	return line[i:]
}

// JoinChecked joins the labels whose index is checked, in original order.
// Returns "" when nothing is checked.
func JoinChecked(items []string, checked map[int]bool) string {
	var selected []string
	for i, label := range items {
		if checked[i] {
			selected = append(selected, label)
		}
	}
	return strings.Join(selected, "\n")
}

// AllChecked reports whether every item is checked. False for an empty list.
func AllChecked(items []string, checked map[int]bool) bool {
	if len(items) == 0 {
		return false
	}
	for i := range items {
		if !checked[i] {
			return false
		}
	}
	return true
}
