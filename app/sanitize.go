package app

import "strings"

const maxFilenameLength = 200

// SanitizeFilename makes a display name safe as a filename on every
// supported OS: characters Windows forbids become underscores, surrounding
// whitespace and dots are trimmed, and the result is capped at 200 runes.
// An empty result falls back to "unnamed".
func SanitizeFilename(name string) string {
	sanitized := strings.Map(func(r rune) rune {
		switch r {
		case '<', '>', ':', '"', '/', '\\', '|', '?', '*':
			return '_'
		}
		return r
	}, name)

	sanitized = strings.Trim(sanitized, " .")

	if runes := []rune(sanitized); len(runes) > maxFilenameLength {
		sanitized = string(runes[:maxFilenameLength])
	}

	if sanitized == "" {
		return "unnamed"
	}
	return sanitized
}
