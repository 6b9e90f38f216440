package ai

import "regexp"

var (
	// ```go, ```golang, ``` ... opening a line
	openingFence = regexp.MustCompile("(?m)^```(?:[\\w+-]+)?\\s*\\n")
	// a bare ``` line left without a trailing newline
	closingFence = regexp.MustCompile("(?m)^```$")
	// """ fence line
	quoteFence = regexp.MustCompile(`(?m)^"{3}\s*\n`)
)

// Sanitize strips markdown code fences and triple-quote fence lines that
// models sometimes wrap around their answer. Only whole fence lines are
// removed; the rest of the text is returned untouched.
func Sanitize(text string) string {
	text = openingFence.ReplaceAllString(text, "")
	text = closingFence.ReplaceAllString(text, "")
	text = quoteFence.ReplaceAllString(text, "")
	return text
}
