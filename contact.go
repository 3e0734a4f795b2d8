package civsearch

import "strings"

// Contact is a human fallback contact offered when an answer needs to direct
// the user to a person. Contacts are loaded once from a side file.
type Contact struct {
	Name  string `yaml:"name"`
	Role  string `yaml:"role"`
	Email string `yaml:"email,omitempty"`
	Phone string `yaml:"phone,omitempty"`
}

// FormatContacts renders contacts as one line each for inclusion in a prompt.
func FormatContacts(contacts []Contact) string {
	if len(contacts) == 0 {
		return ""
	}
	lines := make([]string, 0, len(contacts))
	for _, c := range contacts {
		parts := []string{c.Name}
		if c.Role != "" {
			parts = append(parts, c.Role)
		}
		if c.Email != "" {
			parts = append(parts, c.Email)
		}
		if c.Phone != "" {
			parts = append(parts, c.Phone)
		}
		lines = append(lines, strings.Join(parts, ", "))
	}
	return strings.Join(lines, "\n")
}
