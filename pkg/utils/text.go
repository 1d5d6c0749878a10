package utils

// Truncate cuts text down to max runes and appends "..." when it actually
// truncated. Rune-based so multibyte content is never cut mid-character.
func Truncate(text string, max int) string {
	if max <= 0 {
		return ""
	}
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max]) + "..."
}
