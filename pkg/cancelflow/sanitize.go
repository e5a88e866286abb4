package cancelflow

import "strings"

// Length limits for stored free text.
const (
	MaxJobSummaryLen   = 300
	MaxFeedbackLen     = 500
	MaxUsageDetailsLen = 500
	MaxVisaInfoLen     = 200
)

var unsafeChars = strings.NewReplacer(
	"<", "",
	">", "",
	"&", "",
	`"`, "",
	"`", "",
	"|", "",
)

// Sanitize removes markup characters and the segment delimiter, then cuts the
// result to max runes.
func Sanitize(s string, max int) string {
	s = strings.TrimSpace(unsafeChars.Replace(s))
	r := []rune(s)
	if max > 0 && len(r) > max {
		return string(r[:max])
	}
	return s
}
