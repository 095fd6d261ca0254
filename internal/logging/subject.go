package logging

import "strings"

// FormatSubject builds the component/group/item subject string used in console output.
func FormatSubject(component, groupID, itemID string) string {
	component = strings.TrimSpace(component)
	groupID = strings.TrimSpace(groupID)
	itemID = strings.TrimSpace(itemID)
	parts := make([]string, 0, 3)
	if component != "" {
		parts = append(parts, component)
	}
	if groupID != "" {
		parts = append(parts, "group "+groupID)
	}
	if itemID != "" {
		parts = append(parts, itemID)
	}
	return strings.Join(parts, " · ")
}
